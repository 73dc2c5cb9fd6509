package handlers_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) IsClosed(ctx context.Context, accountID string) (bool, error) {
	args := m.Called(ctx, accountID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

func (m *MockJournalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	args := m.Called(ctx, journalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	args := m.Called(ctx, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		next = &tokenVal
	}
	return args.Get(0).([]domain.Journal), next, args.Error(2)
}

func (m *MockJournalService) ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Posting), args.Error(1)
}

func (m *MockJournalService) NewBatch(userID string) domain.Batch {
	return domain.Batch{BatchID: "batch-" + userID, UserID: userID}
}

func (m *MockJournalService) NewTransaction(ctx context.Context, batch domain.Batch, postings []domain.PostingInput, timestamp *time.Time, memo string) (*domain.Journal, error) {
	args := m.Called(ctx, batch, postings, timestamp, memo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Journal), args.Error(1)
}

func (m *MockJournalService) VoidJournal(ctx context.Context, journalID string) error {
	args := m.Called(ctx, journalID)
	return args.Error(0)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrialBalance), args.Error(1)
}

func (m *MockReportingService) ProfitAndLoss(ctx context.Context, entity string, year int) (*domain.ProfitAndLoss, error) {
	args := m.Called(ctx, entity, year)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProfitAndLoss), args.Error(1)
}

func (m *MockReportingService) ListEntities(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockReportingService) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock ExternalTransaction store and ImportService ---
type MockExternalTransactionService struct {
	mock.Mock
}

var _ portssvc.ExternalTransactionSvcFacade = (*MockExternalTransactionService)(nil)

func (m *MockExternalTransactionService) ComputeDedupKey(sourceIdentity, externalID string) string {
	return domain.ComputeDedupKey(sourceIdentity, externalID)
}

func (m *MockExternalTransactionService) BulkInsert(ctx context.Context, records []domain.ExternalTransaction) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

func (m *MockExternalTransactionService) ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error) {
	args := m.Called(ctx, limit, offset, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ExternalTransaction), args.Error(1)
}

func (m *MockExternalTransactionService) GetExternalTransaction(ctx context.Context, id string) (*domain.ExternalTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExternalTransaction), args.Error(1)
}

type MockImportService struct {
	mock.Mock
}

var _ portssvc.ImportSvc = (*MockImportService)(nil)

func (m *MockImportService) ImportBatch(ctx context.Context, format string, document io.Reader, targetAccountID *string) (*domain.ImportResult, error) {
	body, _ := io.ReadAll(document)
	args := m.Called(ctx, format, string(body), targetAccountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportResult), args.Error(1)
}

func (m *MockImportService) Formats() []string {
	return []string{"amazon-csv", "ofx"}
}
