package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/core/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	now      time.Time
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	suite.mockRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockRepo, services.WithClock(func() time.Time { return suite.now }))
}

func (suite *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := dto.CreateAccountRequest{Name: "  home:assets:bank ", Description: "Checking"}

	suite.mockRepo.On("SaveAccount", ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Name == "HOME:ASSETS:BANK" && !a.Closed
	})).Return(nil).Once()

	createdAccount, err := suite.service.CreateAccount(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(createdAccount)
	suite.NotEmpty(createdAccount.AccountID)
	suite.Equal("HOME:ASSETS:BANK", createdAccount.Name)
	suite.Equal("Checking", createdAccount.Description)
	suite.Equal(creatorUserID, createdAccount.CreatedBy)
	suite.Equal(suite.now, createdAccount.CreatedAt)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCreateAccount_EmptyName() {
	account, err := suite.service.CreateAccount(context.Background(), dto.CreateAccountRequest{Name: "   "}, "user")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockRepo.AssertNotCalled(suite.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (suite *AccountServiceTestSuite) TestCreateAccount_DuplicateName() {
	ctx := context.Background()
	suite.mockRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(apperrors.ErrDuplicateName).Once()

	account, err := suite.service.CreateAccount(ctx, dto.CreateAccountRequest{Name: "TEST01"}, "user")

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrDuplicateName)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByName_Normalizes() {
	ctx := context.Background()
	expected := &domain.Account{AccountID: uuid.NewString(), Name: "TEST01"}
	suite.mockRepo.On("FindAccountByName", ctx, "TEST01").Return(expected, nil).Once()

	account, err := suite.service.GetAccountByName(ctx, " test01")

	suite.Require().NoError(err)
	suite.Equal(expected, account)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_NotFound() {
	ctx := context.Background()
	testID := uuid.NewString()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, apperrors.ErrNotFound).Once()

	account, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(account)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestGetAccountByID_RepoError() {
	ctx := context.Background()
	testID := uuid.NewString()
	suite.mockRepo.On("FindAccountByID", ctx, testID).Return(nil, assert.AnError).Once()

	account, err := suite.service.GetAccountByID(ctx, testID)

	suite.Nil(account)
	suite.ErrorIs(err, assert.AnError)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestIsClosed() {
	ctx := context.Background()
	suite.mockRepo.On("FindAccountByID", ctx, "closed").Return(&domain.Account{AccountID: "closed", Closed: true}, nil).Once()

	closed, err := suite.service.IsClosed(ctx, "closed")

	suite.Require().NoError(err)
	suite.True(closed)
}

func (suite *AccountServiceTestSuite) TestListAccounts() {
	ctx := context.Background()
	suite.mockRepo.On("ListAccounts", ctx, 50, 0).Return(nil, nil).Once()

	accounts, err := suite.service.ListAccounts(ctx, 0, 0)
	suite.Require().NoError(err)
	suite.NotNil(accounts)
	suite.Empty(accounts)

	_, err = suite.service.ListAccounts(ctx, 10, -1)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *AccountServiceTestSuite) TestCloseAccount() {
	ctx := context.Background()
	suite.mockRepo.On("CloseAccount", ctx, "acc-1", "user", suite.now).Return(nil).Once()
	suite.mockRepo.On("CloseAccount", ctx, "acc-2", "user", suite.now).Return(apperrors.ErrNotFound).Once()

	suite.NoError(suite.service.CloseAccount(ctx, "acc-1", "user"))
	suite.ErrorIs(suite.service.CloseAccount(ctx, "acc-2", "user"), apperrors.ErrNotFound)

	suite.mockRepo.AssertExpectations(suite.T())
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
