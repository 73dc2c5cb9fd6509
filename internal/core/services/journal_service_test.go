package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/core/services"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/SscSPs/recordsheet/internal/platform/config"
	"github.com/SscSPs/recordsheet/internal/platform/dbmigrate"
	"github.com/SscSPs/recordsheet/internal/repositories/database/sqlite"
	"github.com/SscSPs/recordsheet/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newPosting(account, value string) domain.NewPosting {
	return domain.NewPosting{Account: domain.ByName(account), Amount: amount(value)}
}

// --- Structural validation, no store access ---

func TestNewTransaction_StructuralValidation(t *testing.T) {
	linkedTwice := "ext-1"
	emptyRef := domain.AccountRef{}

	tests := []struct {
		name     string
		postings []domain.PostingInput
		memo     string
		index    int
	}{
		{name: "single posting", postings: []domain.PostingInput{newPosting("A", "5")}, memo: "x", index: -1},
		{name: "no postings", postings: nil, memo: "x", index: -1},
		{name: "blank memo", postings: []domain.PostingInput{newPosting("A", "5"), newPosting("B", "-5")}, memo: "  ", index: -1},
		{
			name:     "missing account",
			postings: []domain.PostingInput{newPosting("A", "5"), domain.NewPosting{Amount: amount("-5")}},
			memo:     "x",
			index:    1,
		},
		{
			name:     "linked without id",
			postings: []domain.PostingInput{domain.LinkedPosting{}, newPosting("B", "-5")},
			memo:     "x",
			index:    0,
		},
		{
			name:     "linked with empty account",
			postings: []domain.PostingInput{domain.LinkedPosting{ExternalTransactionID: "ext-1", Account: &emptyRef}, newPosting("B", "-5")},
			memo:     "x",
			index:    0,
		},
		{
			name: "same record twice",
			postings: []domain.PostingInput{
				domain.LinkedPosting{ExternalTransactionID: linkedTwice},
				&domain.LinkedPosting{ExternalTransactionID: linkedTwice},
			},
			memo:  "x",
			index: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txManager := new(MockTransactionManager)
			svc := services.NewJournalService(nil, txManager, time.Second)

			journal, err := svc.NewTransaction(context.Background(), svc.NewBatch("tester"), tt.postings, nil, tt.memo)

			assert.Nil(t, journal)
			assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)
			if tt.index >= 0 {
				var postingErr *apperrors.PostingError
				require.ErrorAs(t, err, &postingErr)
				assert.Equal(t, tt.index, postingErr.Index)
			}
			txManager.AssertNotCalled(t, "RunInTx", mock.Anything)
		})
	}
}

func TestNewTransaction_MissingBatch(t *testing.T) {
	txManager := new(MockTransactionManager)
	svc := services.NewJournalService(nil, txManager, 0)

	_, err := svc.NewTransaction(context.Background(), domain.Batch{},
		[]domain.PostingInput{newPosting("A", "1"), newPosting("B", "-1")}, nil, "memo")

	assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)
	txManager.AssertNotCalled(t, "RunInTx", mock.Anything)
}

func TestNewTransaction_StoreFailure(t *testing.T) {
	txManager := new(MockTransactionManager)
	storeErr := apperrors.NewStoreError("begin", errors.New("connection refused"))
	txManager.On("RunInTx", mock.Anything).Return(storeErr).Once()
	svc := services.NewJournalService(nil, txManager, time.Second)

	_, err := svc.NewTransaction(context.Background(), svc.NewBatch("tester"),
		[]domain.PostingInput{newPosting("A", "1"), newPosting("B", "-1")}, nil, "memo")

	assert.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	txManager.AssertExpectations(t)
}

// --- Engine against a real SQLite store ---

type LedgerTestSuite struct {
	suite.Suite
	ctx      context.Context
	provider portsrepo.RepositoryProvider
	svc      *portssvc.ServiceContainer
	batch    domain.Batch
}

func (suite *LedgerTestSuite) SetupTest() {
	suite.ctx = context.Background()
	path := filepath.Join(suite.T().TempDir(), "ledger.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.Require().NoError(dbmigrate.Run(config.DriverSQLite, database.SQLiteDSN(path), dbmigrate.Up, logger))

	db, err := database.NewSQLiteDB(suite.ctx, path, true)
	suite.Require().NoError(err)
	suite.provider = sqlite.NewRepositoryProvider(db)

	cfg := &config.Config{PostingTimeout: 5 * time.Second}
	suite.svc = services.NewServiceContainer(cfg, suite.provider, nil)
	suite.batch = suite.svc.Journal.NewBatch("tester")
}

func (suite *LedgerTestSuite) TearDownTest() {
	suite.provider.Close()
}

func (suite *LedgerTestSuite) createAccount(name string) *domain.Account {
	acc, err := suite.svc.Account.CreateAccount(suite.ctx, dto.CreateAccountRequest{Name: name}, "tester")
	suite.Require().NoError(err)
	return acc
}

func (suite *LedgerTestSuite) counts() (int64, int64) {
	journals, err := suite.provider.JournalRepo.CountJournals(suite.ctx)
	suite.Require().NoError(err)
	postings, err := suite.provider.JournalRepo.CountPostings(suite.ctx)
	suite.Require().NoError(err)
	return journals, postings
}

const twoLineStatement = "Order Date,Order ID,Title,Item Subtotal\n" +
	"02/01/24,222-0001,Notebook,-4.99\n" +
	"02/01/24,222-0001,Pens,-3.01\n"

// importPending loads two pending records into the store, targeting accountID.
func (suite *LedgerTestSuite) importPending(accountID string) []domain.ExternalTransaction {
	result, err := suite.svc.Import.ImportBatch(suite.ctx, "amazon-csv", strings.NewReader(twoLineStatement), &accountID)
	suite.Require().NoError(err)
	suite.Require().Equal(2, result.Inserted)

	pending, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	suite.Require().Len(pending, 2)
	return pending
}

func (suite *LedgerTestSuite) TestBalancedJournalCommits() {
	suite.createAccount("TEST01")
	suite.createAccount("TEST02")

	journal, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("TEST01", "100"),
		domain.NewPosting{Account: domain.ByName("test02"), Amount: amount("-100"), Memo: "testing"},
	}, nil, "test journal entry")

	suite.Require().NoError(err)
	suite.Require().Len(journal.Postings, 2)
	suite.True(journal.Postings[0].Amount.Equal(amount("100")))
	suite.True(journal.Postings[1].Amount.Equal(amount("-100")))
	suite.Equal("test journal entry", journal.Postings[0].Memo)
	suite.Equal("testing", journal.Postings[1].Memo)
	suite.Equal(suite.batch.BatchID, journal.BatchID)

	stored, err := suite.svc.Journal.GetJournalByID(suite.ctx, journal.JournalID)
	suite.Require().NoError(err)
	suite.Len(stored.Postings, 2)
	suite.True(stored.Total().IsZero())
}

func (suite *LedgerTestSuite) TestUnbalancedJournalLeavesStoreUnchanged() {
	suite.createAccount("TEST01")
	suite.createAccount("TEST02")
	journalsBefore, postingsBefore := suite.counts()

	_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("TEST01", "100"),
		newPosting("TEST02", "-99"),
	}, nil, "test journal entry")

	suite.ErrorIs(err, apperrors.ErrUnbalancedTransaction)
	var unbalanced *apperrors.UnbalancedError
	suite.Require().ErrorAs(err, &unbalanced)
	suite.True(unbalanced.Sum.Equal(amount("1")))

	journalsAfter, postingsAfter := suite.counts()
	suite.Equal(journalsBefore, journalsAfter)
	suite.Equal(postingsBefore, postingsAfter)
}

func (suite *LedgerTestSuite) TestExactDecimalBalance() {
	suite.createAccount("A")
	suite.createAccount("B")
	suite.createAccount("C")

	_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("A", "0.1"),
		newPosting("B", "0.2"),
		newPosting("C", "-0.3"),
	}, nil, "thirds")

	suite.NoError(err)
}

func (suite *LedgerTestSuite) TestUnknownAccount() {
	suite.createAccount("TEST01")

	_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("TEST01", "1"),
		newPosting("NOPE", "-1"),
	}, nil, "memo")

	suite.ErrorIs(err, apperrors.ErrUnknownAccount)
	var postingErr *apperrors.PostingError
	suite.Require().ErrorAs(err, &postingErr)
	suite.Equal(1, postingErr.Index)
	suite.Equal("account", postingErr.Field)
}

func (suite *LedgerTestSuite) TestClosedAccount() {
	open := suite.createAccount("TEST01")
	other := suite.createAccount("TEST02")
	postings := []domain.PostingInput{
		domain.NewPosting{Account: domain.ByID(open.AccountID), Amount: amount("10")},
		domain.NewPosting{Account: domain.ByID(other.AccountID), Amount: amount("-10")},
	}

	_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, postings, nil, "before close")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.Account.CloseAccount(suite.ctx, other.AccountID, "tester"))
	journalsBefore, _ := suite.counts()

	_, err = suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, postings, nil, "after close")
	suite.ErrorIs(err, apperrors.ErrClosedAccount)

	journalsAfter, _ := suite.counts()
	suite.Equal(journalsBefore, journalsAfter)
}

func (suite *LedgerTestSuite) TestImportIsIdempotent() {
	target := suite.createAccount("HOME:LIABILITIES:AMAZON")

	first, err := suite.svc.Import.ImportBatch(suite.ctx, "amazon-csv", strings.NewReader(twoLineStatement), &target.AccountID)
	suite.Require().NoError(err)
	suite.Equal(0, first.Duplicates)

	second, err := suite.svc.Import.ImportBatch(suite.ctx, "amazon-csv", strings.NewReader(twoLineStatement), &target.AccountID)
	suite.Require().NoError(err)
	suite.Equal(2, second.Duplicates)
	suite.Equal(0, second.Inserted)

	pending, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	suite.Len(pending, 2)
}

func (suite *LedgerTestSuite) TestLinkedPostingConsumesRecord() {
	card := suite.createAccount("HOME:LIABILITIES:AMAZON")
	office := suite.createAccount("HOME:EXPENSES:OFFICE")
	pending := suite.importPending(card.AccountID)
	record := pending[0]

	override := "office supplies"
	journal, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		domain.LinkedPosting{ExternalTransactionID: record.ID, MemoOverride: &override},
		domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: record.Amount.Neg()},
	}, nil, "amazon order")
	suite.Require().NoError(err)

	linked := journal.Postings[0]
	suite.Equal(card.AccountID, linked.AccountID)
	suite.True(linked.Amount.Equal(record.Amount))
	suite.Equal(record.Ref, linked.Ref)
	suite.Equal(override, linked.Memo)
	suite.Require().NotNil(linked.ExternalTransactionID)
	suite.Equal(record.ID, *linked.ExternalTransactionID)

	consumed, err := suite.svc.ExternalTransaction.GetExternalTransaction(suite.ctx, record.ID)
	suite.Require().NoError(err)
	suite.True(consumed.Posted)

	journalsBefore, postingsBefore := suite.counts()
	_, err = suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		domain.LinkedPosting{ExternalTransactionID: record.ID},
		domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: record.Amount.Neg()},
	}, nil, "again")
	suite.ErrorIs(err, apperrors.ErrAlreadyPosted)

	journalsAfter, postingsAfter := suite.counts()
	suite.Equal(journalsBefore, journalsAfter)
	suite.Equal(postingsBefore, postingsAfter)

	stillPending, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	suite.Len(stillPending, 1)
}

func (suite *LedgerTestSuite) TestLinkedPostingUnbalancedKeepsRecordPending() {
	card := suite.createAccount("HOME:LIABILITIES:AMAZON")
	office := suite.createAccount("HOME:EXPENSES:OFFICE")
	pending := suite.importPending(card.AccountID)

	_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		domain.LinkedPosting{ExternalTransactionID: pending[0].ID},
		domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: amount("1")},
	}, nil, "wrong amount")
	suite.ErrorIs(err, apperrors.ErrUnbalancedTransaction)

	rec, err := suite.svc.ExternalTransaction.GetExternalTransaction(suite.ctx, pending[0].ID)
	suite.Require().NoError(err)
	suite.False(rec.Posted)
}

func (suite *LedgerTestSuite) TestBlankMemoOverrideKeepsRecordMemo() {
	card := suite.createAccount("HOME:LIABILITIES:AMAZON")
	office := suite.createAccount("HOME:EXPENSES:OFFICE")
	record := suite.importPending(card.AccountID)[0]

	blank := "   "
	journal, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		domain.LinkedPosting{ExternalTransactionID: record.ID, MemoOverride: &blank},
		domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: record.Amount.Neg()},
	}, nil, "amazon order")
	suite.Require().NoError(err)

	suite.NotEmpty(record.Memo)
	suite.Equal(record.Memo, journal.Postings[0].Memo)

	padded := "  desk lamp  "
	record = suite.mustPending()[0]
	journal, err = suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		domain.LinkedPosting{ExternalTransactionID: record.ID, MemoOverride: &padded},
		domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: record.Amount.Neg()},
	}, nil, "amazon order")
	suite.Require().NoError(err)
	suite.Equal("desk lamp", journal.Postings[0].Memo)
}

func (suite *LedgerTestSuite) mustPending() []domain.ExternalTransaction {
	pending, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	suite.Require().NotEmpty(pending)
	return pending
}

func (suite *LedgerTestSuite) TestStoredPostingsAreOrderedByAmountDescending() {
	for _, name := range []string{"TEST01", "TEST02", "TEST03", "TEST04"} {
		suite.createAccount(name)
	}

	committed, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("TEST02", "-2"),
		newPosting("TEST01", "9"),
		newPosting("TEST04", "-17"),
		newPosting("TEST03", "10"),
	}, nil, "ordering")
	suite.Require().NoError(err)

	want := []string{"10", "9", "-2", "-17"}
	assertOrder := func(postings []domain.Posting) {
		suite.Require().Len(postings, len(want))
		for i, p := range postings {
			suite.True(p.Amount.Equal(amount(want[i])), "posting %d: got %s, want %s", i, p.Amount, want[i])
		}
	}

	journal, err := suite.svc.Journal.GetJournalByID(suite.ctx, committed.JournalID)
	suite.Require().NoError(err)
	assertOrder(journal.Postings)

	journals, _, err := suite.svc.Journal.ListJournals(suite.ctx, 10, nil)
	suite.Require().NoError(err)
	suite.Require().Len(journals, 1)
	assertOrder(journals[0].Postings)
}

func (suite *LedgerTestSuite) TestConcurrentConsumersOnlyOneWins() {
	card := suite.createAccount("HOME:LIABILITIES:AMAZON")
	office := suite.createAccount("HOME:EXPENSES:OFFICE")
	record := suite.importPending(card.AccountID)[0]

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = suite.svc.Journal.NewTransaction(suite.ctx, suite.svc.Journal.NewBatch("tester"), []domain.PostingInput{
				domain.LinkedPosting{ExternalTransactionID: record.ID},
				domain.NewPosting{Account: domain.ByID(office.AccountID), Amount: record.Amount.Neg()},
			}, nil, "race")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		suite.ErrorIs(err, apperrors.ErrAlreadyPosted)
	}
	suite.Equal(1, succeeded)
}

func (suite *LedgerTestSuite) TestSequencesAreContiguousPerAccount() {
	bank := suite.createAccount("HOME:ASSETS:BANK")
	food := suite.createAccount("HOME:EXPENSES:FOOD")

	const journals = 6
	var wg sync.WaitGroup
	for i := 0; i < journals; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
				domain.NewPosting{Account: domain.ByID(bank.AccountID), Amount: amount("2.50")},
				domain.NewPosting{Account: domain.ByID(food.AccountID), Amount: amount("-1.25")},
				domain.NewPosting{Account: domain.ByID(food.AccountID), Amount: amount("-1.25")},
			}, nil, "groceries")
			suite.NoError(err)
		}()
	}
	wg.Wait()

	for accountID, want := range map[string]int{bank.AccountID: journals, food.AccountID: 2 * journals} {
		postings, err := suite.svc.Journal.ListPostingsByAccount(suite.ctx, accountID, 100, 0)
		suite.Require().NoError(err)
		suite.Require().Len(postings, want)
		for i, p := range postings {
			suite.Equal(int64(i+1), p.Sequence)
		}
	}
}

func (suite *LedgerTestSuite) TestVoidJournalLeavesBalances() {
	bank := suite.createAccount("HOME:ASSETS:BANK")
	salary := suite.createAccount("HOME:INCOME:SALARY")
	jan := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	kept, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("HOME:ASSETS:BANK", "-1000"),
		newPosting("HOME:INCOME:SALARY", "1000"),
	}, &jan, "salary")
	suite.Require().NoError(err)
	voided, err := suite.svc.Journal.NewTransaction(suite.ctx, suite.batch, []domain.PostingInput{
		newPosting("HOME:ASSETS:BANK", "-250"),
		newPosting("HOME:INCOME:SALARY", "250"),
	}, &jan, "bonus entered twice")
	suite.Require().NoError(err)

	suite.Require().NoError(suite.svc.Journal.VoidJournal(suite.ctx, voided.JournalID))
	suite.ErrorIs(suite.svc.Journal.VoidJournal(suite.ctx, voided.JournalID), apperrors.ErrValidation)

	balance, err := suite.svc.Reporting.AccountBalance(suite.ctx, bank.AccountID)
	suite.Require().NoError(err)
	suite.True(balance.Equal(amount("-1000")), balance.String())

	pl, err := suite.svc.Reporting.ProfitAndLoss(suite.ctx, "home", 2024)
	suite.Require().NoError(err)
	suite.Require().Len(pl.Income, 1)
	suite.Equal(salary.AccountID, pl.Income[0].AccountID)
	suite.True(pl.NetIncome.Equal(amount("1000")))

	tb, err := suite.svc.Reporting.TrialBalance(suite.ctx, nil)
	suite.Require().NoError(err)
	suite.True(tb.Total.IsZero())

	stored, err := suite.svc.Journal.GetJournalByID(suite.ctx, kept.JournalID)
	suite.Require().NoError(err)
	suite.False(stored.Void)
}

func (suite *LedgerTestSuite) TestCanceledContextRollsBack() {
	suite.createAccount("TEST01")
	suite.createAccount("TEST02")
	journalsBefore, postingsBefore := suite.counts()

	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()
	_, err := suite.svc.Journal.NewTransaction(ctx, suite.batch, []domain.PostingInput{
		newPosting("TEST01", "1"),
		newPosting("TEST02", "-1"),
	}, nil, "never lands")
	suite.Error(err)

	journalsAfter, postingsAfter := suite.counts()
	suite.Equal(journalsBefore, journalsAfter)
	suite.Equal(postingsBefore, postingsAfter)
}

func (suite *LedgerTestSuite) TestListPendingSignedOffset() {
	card := suite.createAccount("HOME:LIABILITIES:AMAZON")
	suite.importPending(card.AccountID)

	asc, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	desc, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, -1, domain.SortAscending)
	suite.Require().NoError(err)

	suite.Require().Len(desc, 1, "magnitude of the negative offset is the real offset")
	suite.Equal(asc[0].ID, desc[0].ID)
}

func TestLedgerTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
