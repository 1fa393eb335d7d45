package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/services"
)

// --- Mock NotificationRepository ---

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) SaveNotifications(ctx context.Context, notifications []domain.AppNotification) error {
	args := m.Called(ctx, notifications)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkRead(ctx context.Context, notificationID string, userID string) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) FindNotificationByID(ctx context.Context, notificationID string) (*domain.AppNotification, error) {
	args := m.Called(ctx, notificationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AppNotification), args.Error(1)
}

func (m *MockNotificationRepository) ListNotificationsByUser(ctx context.Context, userID string, limit int) ([]domain.AppNotification, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AppNotification), args.Error(1)
}

func (m *MockNotificationRepository) CountUnreadByUser(ctx context.Context, userID string) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

// --- Test Suite Setup ---

type NotificationServiceTestSuite struct {
	suite.Suite
	notificationRepo *MockNotificationRepository
	userRepo         *MockUserRepository
	service          portssvc.NotificationSvcFacade
}

func (suite *NotificationServiceTestSuite) SetupTest() {
	suite.notificationRepo = new(MockNotificationRepository)
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewNotificationService(suite.notificationRepo, suite.userRepo)
}

// --- Publish ---

func (suite *NotificationServiceTestSuite) TestPublish_RequestFansOutToAdminsExceptActor() {
	ctx := context.Background()
	actorID := uuid.NewString()
	adminA := uuid.NewString()
	adminB := uuid.NewString()
	suite.userRepo.On("ListUserIDsByRole", ctx, domain.RoleAdmin).Return([]string{adminA, actorID, adminB}, nil).Once()

	var saved []domain.AppNotification
	suite.notificationRepo.On("SaveNotifications", ctx, mock.AnythingOfType("[]domain.AppNotification")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]domain.AppNotification) }).
		Return(nil).Once()

	event := domain.Event{
		Kind:      domain.EventAdvanceRequested,
		ActorID:   actorID,
		SubjectID: uuid.NewString(),
		ItemType:  domain.ItemAdvance,
		OwnerID:   actorID,
		Amount:    decimal.RequireFromString("5000"),
	}
	suite.service.Publish(ctx, event)

	suite.Require().Len(saved, 2)
	recipients := []string{saved[0].UserID, saved[1].UserID}
	suite.ElementsMatch([]string{adminA, adminB}, recipients)
	for _, n := range saved {
		suite.Equal(domain.NotifyInfo, n.Type)
		suite.Equal("advances", n.TargetPage)
		suite.Equal(event.SubjectID, n.TargetID)
		suite.Equal(domain.ItemAdvance, n.ItemType)
		suite.False(n.IsRead)
		suite.NotEmpty(n.NotificationID)
	}
	suite.notificationRepo.AssertExpectations(suite.T())
}

func (suite *NotificationServiceTestSuite) TestPublish_DecisionGoesToOwner() {
	ctx := context.Background()
	ownerID := uuid.NewString()
	actorID := uuid.NewString()

	var saved []domain.AppNotification
	suite.notificationRepo.On("SaveNotifications", ctx, mock.AnythingOfType("[]domain.AppNotification")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]domain.AppNotification) }).
		Return(nil).Once()

	event := domain.Event{
		Kind:      domain.EventExpenseApproved,
		ActorID:   actorID,
		SubjectID: uuid.NewString(),
		ItemType:  domain.ItemExpense,
		OwnerID:   ownerID,
		Amount:    decimal.RequireFromString("150"),
	}
	suite.service.Publish(ctx, event)

	suite.Require().Len(saved, 1)
	suite.Equal(ownerID, saved[0].UserID)
	suite.Equal(domain.NotifySuccess, saved[0].Type)
	suite.Equal("dashboard", saved[0].TargetPage)
	suite.userRepo.AssertNotCalled(suite.T(), "ListUserIDsByRole", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestPublish_ActorNeverNotifiesThemselves() {
	ctx := context.Background()
	actorID := uuid.NewString()

	event := domain.Event{
		Kind:    domain.EventExpenseApproved,
		ActorID: actorID,
		OwnerID: actorID,
		Amount:  decimal.RequireFromString("150"),
	}
	suite.service.Publish(ctx, event)

	suite.notificationRepo.AssertNotCalled(suite.T(), "SaveNotifications", mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestPublish_SettlementDeficitPhrasesWarning() {
	ctx := context.Background()

	var saved []domain.AppNotification
	suite.notificationRepo.On("SaveNotifications", ctx, mock.AnythingOfType("[]domain.AppNotification")).
		Run(func(args mock.Arguments) { saved = args.Get(1).([]domain.AppNotification) }).
		Return(nil).Twice()

	deficitEvent := domain.Event{
		Kind:       domain.EventAdvanceSettled,
		ActorID:    uuid.NewString(),
		OwnerID:    uuid.NewString(),
		Amount:     decimal.RequireFromString("1000"),
		Deficit:    decimal.RequireFromString("150"),
		HadDeficit: true,
	}
	suite.service.Publish(ctx, deficitEvent)
	suite.Require().Len(saved, 1)
	suite.Equal(domain.NotifyWarning, saved[0].Type)

	cleanEvent := domain.Event{
		Kind:    domain.EventAdvanceSettled,
		ActorID: uuid.NewString(),
		OwnerID: uuid.NewString(),
		Amount:  decimal.RequireFromString("1000"),
	}
	suite.service.Publish(ctx, cleanEvent)
	suite.Require().Len(saved, 1)
	suite.Equal(domain.NotifySuccess, saved[0].Type)
}

func (suite *NotificationServiceTestSuite) TestPublish_PersistenceFailureIsSwallowed() {
	ctx := context.Background()
	suite.notificationRepo.On("SaveNotifications", ctx, mock.AnythingOfType("[]domain.AppNotification")).
		Return(assert.AnError).Once()

	event := domain.Event{
		Kind:    domain.EventAdvanceApproved,
		ActorID: uuid.NewString(),
		OwnerID: uuid.NewString(),
		Amount:  decimal.RequireFromString("1000"),
	}
	// Must not panic or surface the repository error.
	suite.service.Publish(ctx, event)
	suite.notificationRepo.AssertExpectations(suite.T())
}

// --- Reads and read-state ---

func (suite *NotificationServiceTestSuite) TestGetNotificationByID_RecipientOnly() {
	ctx := context.Background()
	notification := &domain.AppNotification{
		NotificationID: uuid.NewString(),
		UserID:         uuid.NewString(),
		Title:          "Advance Approved",
	}
	suite.notificationRepo.On("FindNotificationByID", ctx, notification.NotificationID).Return(notification, nil)

	found, err := suite.service.GetNotificationByID(ctx, notification.NotificationID, notification.UserID)
	suite.Require().NoError(err)
	suite.Equal(notification.NotificationID, found.NotificationID)

	other, err := suite.service.GetNotificationByID(ctx, notification.NotificationID, uuid.NewString())
	suite.Require().Error(err)
	suite.Nil(other)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *NotificationServiceTestSuite) TestMarkNotificationAsRead_Idempotent() {
	ctx := context.Background()
	notification := &domain.AppNotification{
		NotificationID: uuid.NewString(),
		UserID:         uuid.NewString(),
		IsRead:         true,
	}
	suite.notificationRepo.On("FindNotificationByID", ctx, notification.NotificationID).Return(notification, nil).Once()

	err := suite.service.MarkNotificationAsRead(ctx, notification.NotificationID, notification.UserID)

	suite.Require().NoError(err)
	suite.notificationRepo.AssertNotCalled(suite.T(), "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *NotificationServiceTestSuite) TestMarkNotificationAsRead_RecipientOnly() {
	ctx := context.Background()
	notification := &domain.AppNotification{
		NotificationID: uuid.NewString(),
		UserID:         uuid.NewString(),
	}
	suite.notificationRepo.On("FindNotificationByID", ctx, notification.NotificationID).Return(notification, nil).Once()

	err := suite.service.MarkNotificationAsRead(ctx, notification.NotificationID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.notificationRepo.AssertNotCalled(suite.T(), "MarkRead", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationService(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

// --- ResolveClick ---

func TestResolveClick(t *testing.T) {
	svc := services.NewNotificationService(new(MockNotificationRepository), new(MockUserRepository))

	tests := []struct {
		name         string
		notification domain.AppNotification
		want         domain.RedirectTarget
	}{
		{
			name: "stored item type wins",
			notification: domain.AppNotification{
				TargetPage: "dashboard",
				TargetID:   "exp-1",
				ItemType:   domain.ItemExpense,
			},
			want: domain.RedirectTarget{Page: "dashboard", ItemType: domain.ItemExpense, ItemID: "exp-1"},
		},
		{
			name: "legacy advances page falls back to advance",
			notification: domain.AppNotification{
				TargetPage: "advances",
				TargetID:   "adv-1",
			},
			want: domain.RedirectTarget{Page: "advances", ItemType: domain.ItemAdvance, ItemID: "adv-1"},
		},
		{
			name: "legacy dashboard page falls back to expense",
			notification: domain.AppNotification{
				TargetPage: "dashboard",
				TargetID:   "exp-2",
			},
			want: domain.RedirectTarget{Page: "dashboard", ItemType: domain.ItemExpense, ItemID: "exp-2"},
		},
		{
			name: "unknown page yields no item type",
			notification: domain.AppNotification{
				TargetPage: "settings",
				TargetID:   "x",
			},
			want: domain.RedirectTarget{Page: "settings", ItemID: "x"},
		},
		{
			name: "read state does not change the target",
			notification: domain.AppNotification{
				TargetPage: "advances",
				TargetID:   "adv-2",
				ItemType:   domain.ItemAdvance,
				IsRead:     true,
				CreatedAt:  time.Now().UTC(),
			},
			want: domain.RedirectTarget{Page: "advances", ItemType: domain.ItemAdvance, ItemID: "adv-2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := svc.ResolveClick(tt.notification)
			assert.Equal(t, tt.want, got)
		})
	}
}
