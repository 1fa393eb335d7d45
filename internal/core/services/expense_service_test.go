package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
)

type ExpenseServiceTestSuite struct {
	suite.Suite
	expenseRepo *MockExpenseRepository
	advanceRepo *MockAdvanceRepository
	userRepo    *MockUserRepository
	notifier    *MockNotificationService
	locks       *services.AdvanceLocks
	service     portssvc.ExpenseSvcFacade

	admin    domain.User
	engineer domain.User
}

func (suite *ExpenseServiceTestSuite) SetupTest() {
	suite.expenseRepo = new(MockExpenseRepository)
	suite.advanceRepo = new(MockAdvanceRepository)
	suite.userRepo = new(MockUserRepository)
	suite.notifier = new(MockNotificationService)
	suite.locks = services.NewAdvanceLocks(50 * time.Millisecond)
	suite.service = services.NewExpenseService(
		suite.expenseRepo,
		suite.advanceRepo,
		suite.userRepo,
		services.NewAuthorizationService(),
		suite.notifier,
		suite.locks,
	)

	suite.admin = domain.User{UserID: uuid.NewString(), Name: "Accountant", Role: domain.RoleAdmin}
	suite.engineer = domain.User{UserID: uuid.NewString(), Name: "Site Engineer", Role: domain.RoleEngineer}
}

func (suite *ExpenseServiceTestSuite) expectActor(user domain.User) {
	u := user
	suite.userRepo.On("FindUserByID", mock.Anything, user.UserID).Return(&u, nil)
}

func (suite *ExpenseServiceTestSuite) openAdvance(owner string, remaining string) *domain.Advance {
	return &domain.Advance{
		AdvanceID:       uuid.NewString(),
		ProjectID:       uuid.NewString(),
		UserID:          owner,
		Amount:          decimal.RequireFromString("1000"),
		RemainingAmount: decimal.RequireFromString(remaining),
		Status:          domain.AdvanceOpen,
		Date:            time.Now().UTC(),
	}
}

func (suite *ExpenseServiceTestSuite) pendingExpense(advanceID, owner, amount string) *domain.Expense {
	return &domain.Expense{
		ExpenseID:   uuid.NewString(),
		AdvanceID:   advanceID,
		UserID:      owner,
		Amount:      decimal.RequireFromString(amount),
		Description: "cement bags",
		Status:      domain.ExpensePending,
		Date:        time.Now().UTC(),
	}
}

// --- SubmitExpense ---

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_FlatSuccess() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()
	suite.expenseRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.notifier.On("Publish", ctx, eventOfKind(domain.EventExpenseSubmitted)).Return().Once()

	amount := decimal.RequireFromString("150")
	req := dto.CreateExpenseRequest{
		AdvanceID:   advance.AdvanceID,
		Description: "cement bags",
		Amount:      &amount,
	}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(expense)
	suite.Equal(domain.ExpensePending, expense.Status)
	suite.True(expense.Amount.Equal(amount))
	suite.False(expense.IsInvoice)
	suite.Empty(expense.InvoiceItems)
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_InvoiceDerivesAmount() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()
	suite.expenseRepo.On("SaveExpense", ctx, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.notifier.On("Publish", ctx, eventOfKind(domain.EventExpenseSubmitted)).Return().Once()

	req := dto.CreateExpenseRequest{
		AdvanceID:   advance.AdvanceID,
		Description: "hardware store invoice",
		IsInvoice:   true,
		InvoiceItems: []dto.InvoiceItemRequest{
			{ItemName: "Pipe", Quantity: decimal.RequireFromString("3"), UnitPrice: decimal.RequireFromString("40"), Total: decimal.RequireFromString("120")},
			{ItemName: "Valve", Quantity: decimal.RequireFromString("2"), UnitPrice: decimal.RequireFromString("25"), Total: decimal.RequireFromString("50")},
		},
		AdditionalAmount: decimal.RequireFromString("10"),
	}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().NoError(err)
	suite.True(expense.IsInvoice)
	suite.True(expense.Amount.Equal(decimal.RequireFromString("180")))
	suite.Len(expense.InvoiceItems, 2)
	suite.NotEmpty(expense.InvoiceItems[0].ItemID)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_InvoiceLineArithmeticChecked() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	req := dto.CreateExpenseRequest{
		AdvanceID:   advance.AdvanceID,
		Description: "bad invoice",
		IsInvoice:   true,
		InvoiceItems: []dto.InvoiceItemRequest{
			{ItemName: "Pipe", Quantity: decimal.RequireFromString("3"), UnitPrice: decimal.RequireFromString("40"), Total: decimal.RequireFromString("130")},
		},
	}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_InvoiceAmountMismatch() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	claimed := decimal.RequireFromString("999")
	req := dto.CreateExpenseRequest{
		AdvanceID:   advance.AdvanceID,
		Description: "mismatched invoice",
		Amount:      &claimed,
		IsInvoice:   true,
		InvoiceItems: []dto.InvoiceItemRequest{
			{ItemName: "Pipe", Quantity: decimal.RequireFromString("3"), UnitPrice: decimal.RequireFromString("40"), Total: decimal.RequireFromString("120")},
		},
	}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_FlatRequiresAmount() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	req := dto.CreateExpenseRequest{
		AdvanceID:   advance.AdvanceID,
		Description: "no amount",
	}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_RequiresOpenAdvance() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	advance.Status = domain.AdvancePending
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	amount := decimal.RequireFromString("150")
	req := dto.CreateExpenseRequest{AdvanceID: advance.AdvanceID, Description: "too early", Amount: &amount}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_OwnAdvanceOnly() {
	ctx := context.Background()
	advance := suite.openAdvance(uuid.NewString(), "800")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	amount := decimal.RequireFromString("150")
	req := dto.CreateExpenseRequest{AdvanceID: advance.AdvanceID, Description: "not mine", Amount: &amount}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestSubmitExpense_WaitsForAdvanceLock() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "800")
	suite.expectActor(suite.engineer)

	// A settlement in flight holds the advance's lock; a submit racing it
	// must not slip a PENDING expense onto the closing advance.
	release, err := suite.locks.Acquire(ctx, advance.AdvanceID)
	suite.Require().NoError(err)
	defer release()

	amount := decimal.RequireFromString("150")
	req := dto.CreateExpenseRequest{AdvanceID: advance.AdvanceID, Description: "cement bags", Amount: &amount}
	expense, err := suite.service.SubmitExpense(ctx, req, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expense)
	suite.ErrorIs(err, apperrors.ErrLockTimeout)
	suite.advanceRepo.AssertNotCalled(suite.T(), "FindAdvanceByID", mock.Anything, mock.Anything)
	suite.expenseRepo.AssertNotCalled(suite.T(), "SaveExpense", mock.Anything, mock.Anything)
}

// --- ApproveExpense ---

func (suite *ExpenseServiceTestSuite) TestApproveExpense_DebitsAdvance() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "500")
	expense := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	var debited domain.Advance
	suite.expenseRepo.On("ApproveExpenseAndDebit", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("domain.Advance")).
		Run(func(args mock.Arguments) { debited = args.Get(2).(domain.Advance) }).
		Return(nil).Once()
	suite.notifier.On("Publish", ctx, eventOfKind(domain.EventExpenseApproved)).Return().Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.Equal(domain.ExpenseApproved, approved.Status)
	suite.True(debited.RemainingAmount.Equal(decimal.RequireFromString("300")))
	suite.expenseRepo.AssertExpectations(suite.T())
	suite.notifier.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_InsufficientBalance() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "100")
	expense := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.admin.UserID)

	suite.Require().Error(err)
	suite.Nil(approved)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.expenseRepo.AssertNotCalled(suite.T(), "ApproveExpenseAndDebit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_ConcurrentApprovalsOneWins() {
	advance := suite.openAdvance(suite.engineer.UserID, "300")
	first := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	second := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, first.ExpenseID).Return(first, nil).Once()
	suite.expenseRepo.On("FindExpenseByID", mock.Anything, second.ExpenseID).Return(second, nil).Once()
	// Both approvals read through the same advance record. The advance
	// lock serializes them, so whichever runs second observes the
	// already-debited balance.
	suite.advanceRepo.On("FindAdvanceByID", mock.Anything, advance.AdvanceID).Return(advance, nil).Twice()
	suite.expenseRepo.On("ApproveExpenseAndDebit", mock.Anything, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("domain.Advance")).Return(nil).Once()
	suite.notifier.On("Publish", mock.Anything, eventOfKind(domain.EventExpenseApproved)).Return().Once()

	errs := make([]error, 2)
	var wg sync.WaitGroup
	wg.Add(2)
	for i, expenseID := range []string{first.ExpenseID, second.ExpenseID} {
		go func(i int, expenseID string) {
			defer wg.Done()
			_, errs[i] = suite.service.ApproveExpense(context.Background(), expenseID, suite.admin.UserID)
		}(i, expenseID)
	}
	wg.Wait()

	var won, refused int
	for _, err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, apperrors.ErrInsufficientBalance):
			refused++
		default:
			suite.Failf("unexpected approval error", "%v", err)
		}
	}
	suite.Equal(1, won)
	suite.Equal(1, refused)
	suite.expenseRepo.AssertNumberOfCalls(suite.T(), "ApproveExpenseAndDebit", 1)
	suite.True(advance.RemainingAmount.Equal(decimal.RequireFromString("100")))
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_RequiresPending() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	expense.Status = domain.ExpenseApproved
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.admin.UserID)

	suite.Require().Error(err)
	suite.Nil(approved)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_RequiresOpenAdvance() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "0")
	advance.Status = domain.AdvanceClosed
	expense := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	approved, err := suite.service.ApproveExpense(ctx, expense.ExpenseID, suite.admin.UserID)

	suite.Require().Error(err)
	suite.Nil(approved)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestApproveExpense_ForbiddenForNonApprover() {
	ctx := context.Background()
	suite.expectActor(suite.engineer)

	approved, err := suite.service.ApproveExpense(ctx, uuid.NewString(), suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(approved)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.expenseRepo.AssertNotCalled(suite.T(), "FindExpenseByID", mock.Anything, mock.Anything)
}

// --- RejectExpense ---

func (suite *ExpenseServiceTestSuite) TestRejectExpense_Success() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.expenseRepo.On("RejectExpense", ctx, mock.AnythingOfType("domain.Expense")).Return(nil).Once()
	suite.notifier.On("Publish", ctx, eventOfKind(domain.EventExpenseRejected)).Return().Once()

	rejected, err := suite.service.RejectExpense(ctx, expense.ExpenseID, suite.admin.UserID, "no receipt attached")

	suite.Require().NoError(err)
	suite.Equal(domain.ExpenseRejected, rejected.Status)
	suite.Equal("no receipt attached", rejected.RejectionReason)
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestRejectExpense_RequiresReason() {
	ctx := context.Background()
	suite.expectActor(suite.admin)

	rejected, err := suite.service.RejectExpense(ctx, uuid.NewString(), suite.admin.UserID, "")

	suite.Require().Error(err)
	suite.Nil(rejected)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.expenseRepo.AssertNotCalled(suite.T(), "RejectExpense", mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestRejectExpense_ConflictWhenAlreadyApproved() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	// Another approver committed the APPROVED transition between our read
	// and the write; the guarded update refuses to overwrite it.
	suite.expenseRepo.On("RejectExpense", ctx, mock.AnythingOfType("domain.Expense")).
		Return(fmt.Errorf("%w: expense %s is no longer PENDING", apperrors.ErrConflict, expense.ExpenseID)).Once()

	rejected, err := suite.service.RejectExpense(ctx, expense.ExpenseID, suite.admin.UserID, "duplicate receipt")

	suite.Require().Error(err)
	suite.Nil(rejected)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.notifier.AssertNotCalled(suite.T(), "Publish", mock.Anything, mock.Anything)
}

// --- SetEditable ---

func (suite *ExpenseServiceTestSuite) TestSetEditable_FlipsFlag() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	expense.Status = domain.ExpenseApproved
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.expenseRepo.On("SetExpenseEditable", ctx, mock.AnythingOfType("domain.Expense")).Return(nil).Once()

	updated, err := suite.service.SetEditable(ctx, expense.ExpenseID, suite.admin.UserID, true)

	suite.Require().NoError(err)
	suite.True(updated.IsEditable)
	suite.Equal(suite.admin.UserID, updated.LastUpdatedBy)
}

// --- ReviseApprovedExpense ---

func (suite *ExpenseServiceTestSuite) TestReviseApprovedExpense_Rebalances() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "300")
	expense := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	expense.Status = domain.ExpenseApproved
	expense.IsEditable = true
	expense.IsInvoice = true
	expense.InvoiceItems = []domain.InvoiceItem{{ItemID: uuid.NewString(), ItemName: "Pipe"}}
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	var rebalanced domain.Advance
	suite.expenseRepo.On("ReviseExpenseAndRebalance", ctx, mock.AnythingOfType("domain.Expense"), mock.AnythingOfType("domain.Advance")).
		Run(func(args mock.Arguments) { rebalanced = args.Get(2).(domain.Advance) }).
		Return(nil).Once()
	suite.notifier.On("Publish", ctx, eventOfKind(domain.EventExpenseRevised)).Return().Once()

	revised, err := suite.service.ReviseApprovedExpense(ctx, expense.ExpenseID, suite.admin.UserID, decimal.RequireFromString("150"))

	suite.Require().NoError(err)
	suite.True(revised.Amount.Equal(decimal.RequireFromString("150")))
	// 300 remaining + 200 restored - 150 applied
	suite.True(rebalanced.RemainingAmount.Equal(decimal.RequireFromString("350")))
	// The revised amount no longer matches the invoice breakdown.
	suite.False(revised.IsInvoice)
	suite.Empty(revised.InvoiceItems)
	suite.True(revised.AdditionalAmount.IsZero())
	suite.expenseRepo.AssertExpectations(suite.T())
}

func (suite *ExpenseServiceTestSuite) TestReviseApprovedExpense_RequiresEditable() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	expense.Status = domain.ExpenseApproved
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	revised, err := suite.service.ReviseApprovedExpense(ctx, expense.ExpenseID, suite.admin.UserID, decimal.RequireFromString("150"))

	suite.Require().Error(err)
	suite.Nil(revised)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.expenseRepo.AssertNotCalled(suite.T(), "ReviseExpenseAndRebalance", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ExpenseServiceTestSuite) TestReviseApprovedExpense_RequiresApproved() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), suite.engineer.UserID, "200")
	expense.IsEditable = true
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	revised, err := suite.service.ReviseApprovedExpense(ctx, expense.ExpenseID, suite.admin.UserID, decimal.RequireFromString("150"))

	suite.Require().Error(err)
	suite.Nil(revised)
	suite.ErrorIs(err, apperrors.ErrConflict)
}

func (suite *ExpenseServiceTestSuite) TestReviseApprovedExpense_RejectsNegativeRebalance() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "50")
	expense := suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "200")
	expense.Status = domain.ExpenseApproved
	expense.IsEditable = true
	suite.expectActor(suite.admin)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	// 50 + 200 restored = 250 available; 300 does not fit.
	revised, err := suite.service.ReviseApprovedExpense(ctx, expense.ExpenseID, suite.admin.UserID, decimal.RequireFromString("300"))

	suite.Require().Error(err)
	suite.Nil(revised)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
}

func (suite *ExpenseServiceTestSuite) TestReviseApprovedExpense_RequiresPositiveAmount() {
	ctx := context.Background()
	suite.expectActor(suite.admin)

	revised, err := suite.service.ReviseApprovedExpense(ctx, uuid.NewString(), suite.admin.UserID, decimal.Zero)

	suite.Require().Error(err)
	suite.Nil(revised)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

// --- Reads ---

func (suite *ExpenseServiceTestSuite) TestGetExpenseByID_ObscuresOthersForNonApprover() {
	ctx := context.Background()
	expense := suite.pendingExpense(uuid.NewString(), uuid.NewString(), "200")
	suite.expectActor(suite.engineer)
	suite.expenseRepo.On("FindExpenseByID", ctx, expense.ExpenseID).Return(expense, nil).Once()

	found, err := suite.service.GetExpenseByID(ctx, expense.ExpenseID, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(found)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *ExpenseServiceTestSuite) TestListExpensesByAdvance_OwnerAllowed() {
	ctx := context.Background()
	advance := suite.openAdvance(suite.engineer.UserID, "500")
	expected := []domain.Expense{*suite.pendingExpense(advance.AdvanceID, suite.engineer.UserID, "100")}
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()
	suite.expenseRepo.On("ListExpensesByAdvance", ctx, advance.AdvanceID).Return(expected, nil).Once()

	expenses, err := suite.service.ListExpensesByAdvance(ctx, advance.AdvanceID, suite.engineer.UserID)

	suite.Require().NoError(err)
	suite.Len(expenses, 1)
}

func (suite *ExpenseServiceTestSuite) TestListExpensesByAdvance_ObscuresOthersForNonApprover() {
	ctx := context.Background()
	advance := suite.openAdvance(uuid.NewString(), "500")
	suite.expectActor(suite.engineer)
	suite.advanceRepo.On("FindAdvanceByID", ctx, advance.AdvanceID).Return(advance, nil).Once()

	expenses, err := suite.service.ListExpensesByAdvance(ctx, advance.AdvanceID, suite.engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(expenses)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func TestExpenseService(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
