package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portssvc "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/services"
	"github.com/diyaa-Iskandar/petotec-app/internal/dto"
	"github.com/diyaa-Iskandar/petotec-app/internal/utils"
)

type UserServiceTestSuite struct {
	suite.Suite
	userRepo *MockUserRepository
	service  portssvc.UserSvcFacade

	admin domain.User
}

func (suite *UserServiceTestSuite) SetupTest() {
	suite.userRepo = new(MockUserRepository)
	suite.service = services.NewUserService(suite.userRepo, services.NewAuthorizationService())
	suite.admin = domain.User{UserID: uuid.NewString(), Name: "Accountant", Role: domain.RoleAdmin}
}

func (suite *UserServiceTestSuite) expectActor(user domain.User) {
	u := user
	suite.userRepo.On("FindUserByID", mock.Anything, user.UserID).Return(&u, nil)
}

func (suite *UserServiceTestSuite) TestCreateUser_Success() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	suite.userRepo.On("FindUserByEmail", ctx, "eng@petrotec.example").Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.userRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	req := dto.CreateUserRequest{
		Name:     "New Engineer",
		Email:    "eng@petrotec.example",
		Password: "s3cret-pass",
		Role:     "ENGINEER",
	}
	user, err := suite.service.CreateUser(ctx, req, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(user)
	suite.NotEmpty(user.UserID)
	suite.Equal(domain.RoleEngineer, user.Role)
	suite.NotEqual(req.Password, saved.PasswordHash)
	suite.True(utils.CheckPasswordHash(req.Password, saved.PasswordHash))
	suite.userRepo.AssertExpectations(suite.T())
}

func (suite *UserServiceTestSuite) TestCreateUser_InheritsRootAdmin() {
	ctx := context.Background()
	rootID := uuid.NewString()
	creator := suite.admin
	creator.RootAdminID = &rootID
	suite.expectActor(creator)
	suite.userRepo.On("FindUserByEmail", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.userRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	req := dto.CreateUserRequest{Name: "Tech", Email: "tech@petrotec.example", Password: "s3cret-pass", Role: "TECHNICIAN"}
	_, err := suite.service.CreateUser(ctx, req, creator.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved.RootAdminID)
	suite.Equal(rootID, *saved.RootAdminID)
}

func (suite *UserServiceTestSuite) TestCreateUser_RootAdminDefaultsToCreator() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	suite.userRepo.On("FindUserByEmail", ctx, mock.AnythingOfType("string")).Return(nil, apperrors.ErrNotFound).Once()

	var saved domain.User
	suite.userRepo.On("SaveUser", ctx, mock.AnythingOfType("domain.User")).
		Run(func(args mock.Arguments) { saved = args.Get(1).(domain.User) }).
		Return(nil).Once()

	req := dto.CreateUserRequest{Name: "Tech", Email: "tech2@petrotec.example", Password: "s3cret-pass", Role: "TECHNICIAN"}
	_, err := suite.service.CreateUser(ctx, req, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(saved.RootAdminID)
	suite.Equal(suite.admin.UserID, *saved.RootAdminID)
}

func (suite *UserServiceTestSuite) TestCreateUser_DuplicateEmail() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	existing := &domain.User{UserID: uuid.NewString(), Email: "eng@petrotec.example"}
	suite.userRepo.On("FindUserByEmail", ctx, "eng@petrotec.example").Return(existing, nil).Once()

	req := dto.CreateUserRequest{Name: "Dup", Email: "eng@petrotec.example", Password: "s3cret-pass", Role: "ENGINEER"}
	user, err := suite.service.CreateUser(ctx, req, suite.admin.UserID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.userRepo.AssertNotCalled(suite.T(), "SaveUser", mock.Anything, mock.Anything)
}

func (suite *UserServiceTestSuite) TestCreateUser_ForbiddenForNonAdmin() {
	ctx := context.Background()
	engineer := domain.User{UserID: uuid.NewString(), Role: domain.RoleEngineer}
	suite.expectActor(engineer)

	req := dto.CreateUserRequest{Name: "Nope", Email: "x@petrotec.example", Password: "s3cret-pass", Role: "ENGINEER"}
	user, err := suite.service.CreateUser(ctx, req, engineer.UserID)

	suite.Require().Error(err)
	suite.Nil(user)
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *UserServiceTestSuite) TestAuthenticate_Success() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "eng@petrotec.example", PasswordHash: hash}
	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authed, err := suite.service.Authenticate(ctx, user.Email, "s3cret-pass")

	suite.Require().NoError(err)
	suite.Equal(user.UserID, authed.UserID)
}

func (suite *UserServiceTestSuite) TestAuthenticate_WrongPassword() {
	ctx := context.Background()
	hash, err := utils.HashPassword("s3cret-pass")
	suite.Require().NoError(err)
	user := &domain.User{UserID: uuid.NewString(), Email: "eng@petrotec.example", PasswordHash: hash}
	suite.userRepo.On("FindUserByEmail", ctx, user.Email).Return(user, nil).Once()

	authed, err := suite.service.Authenticate(ctx, user.Email, "wrong-pass")

	suite.Require().Error(err)
	suite.Nil(authed)
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestAuthenticate_UnknownEmailSameError() {
	ctx := context.Background()
	suite.userRepo.On("FindUserByEmail", ctx, "ghost@petrotec.example").Return(nil, apperrors.ErrNotFound).Once()

	authed, err := suite.service.Authenticate(ctx, "ghost@petrotec.example", "whatever1")

	suite.Require().Error(err)
	suite.Nil(authed)
	// Wrong password and unknown email are indistinguishable to the caller.
	suite.ErrorIs(err, apperrors.ErrUnauthorized)
}

func (suite *UserServiceTestSuite) TestListUsers_ScopedToRootAdmin() {
	ctx := context.Background()
	suite.expectActor(suite.admin)
	team := []domain.User{suite.admin}
	suite.userRepo.On("ListUsers", ctx, mock.MatchedBy(func(rootAdminID *string) bool {
		return rootAdminID != nil && *rootAdminID == suite.admin.UserID
	})).Return(team, nil).Once()

	users, err := suite.service.ListUsers(ctx, suite.admin.UserID)

	suite.Require().NoError(err)
	suite.Len(users, 1)
	suite.userRepo.AssertExpectations(suite.T())
}

func TestUserService(t *testing.T) {
	suite.Run(t, new(UserServiceTestSuite))
}
