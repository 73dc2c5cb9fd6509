package sqlite_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/platform/config"
	"github.com/SscSPs/recordsheet/internal/platform/dbmigrate"
	"github.com/SscSPs/recordsheet/internal/repositories/database/sqlite"
	"github.com/SscSPs/recordsheet/pkg/database"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	provider portsrepo.RepositoryProvider
	now      time.Time
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	path := filepath.Join(s.T().TempDir(), "ledger.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	// migrate closes its own handle, so the repositories get a fresh one
	s.Require().NoError(dbmigrate.Run(config.DriverSQLite, database.SQLiteDSN(path), dbmigrate.Up, logger))

	db, err := database.NewSQLiteDB(s.ctx, path, true)
	s.Require().NoError(err)
	s.provider = sqlite.NewRepositoryProvider(db)
}

func (s *RepositorySuite) TearDownTest() {
	s.provider.Close()
}

func (s *RepositorySuite) createAccount(name string) domain.Account {
	acc := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		AuditFields: domain.AuditFields{
			CreatedAt: s.now, CreatedBy: "tester", LastUpdatedAt: s.now, LastUpdatedBy: "tester",
		},
	}
	s.Require().NoError(s.provider.AccountRepo.SaveAccount(s.ctx, acc))
	return acc
}

func (s *RepositorySuite) externalTransaction(key string, ts time.Time, amount string) domain.ExternalTransaction {
	return domain.ExternalTransaction{
		ID:        uuid.NewString(),
		Timestamp: ts,
		Amount:    decimal.RequireFromString(amount),
		Memo:      "memo " + key,
		DedupKey:  key,
		CreatedAt: s.now,
	}
}

// postJournal writes a journal with the given account/amount pairs in one unit of work.
func (s *RepositorySuite) postJournal(ts time.Time, lines map[string]string) domain.Journal {
	journal := domain.Journal{JournalID: uuid.NewString(), Timestamp: ts, Memo: "test", BatchID: "batch-1", CreatedAt: s.now}
	err := s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if err := uow.Batches().EnsureBatch(ctx, domain.Batch{BatchID: "batch-1", UserID: "tester", CreatedAt: s.now}); err != nil {
			return err
		}
		if err := uow.Journals().InsertJournal(ctx, journal); err != nil {
			return err
		}
		var postings []domain.Posting
		for accountID, amount := range lines {
			seq, err := uow.Accounts().ReserveSequences(ctx, accountID, 1)
			if err != nil {
				return err
			}
			postings = append(postings, domain.Posting{
				PostingID: uuid.Must(uuid.NewV7()).String(),
				AccountID: accountID,
				JournalID: journal.JournalID,
				BatchID:   "batch-1",
				Amount:    decimal.RequireFromString(amount),
				Sequence:  seq,
				Memo:      "test",
			})
		}
		return uow.Journals().InsertPostings(ctx, postings)
	})
	s.Require().NoError(err)
	return journal
}

func (s *RepositorySuite) TestAccounts() {
	acc := s.createAccount("HOME:ASSETS:BANK")
	s.createAccount("HOME")

	dup := domain.Account{AccountID: uuid.NewString(), Name: "HOME:ASSETS:BANK", AuditFields: acc.AuditFields}
	s.ErrorIs(s.provider.AccountRepo.SaveAccount(s.ctx, dup), apperrors.ErrDuplicateName)

	found, err := s.provider.AccountRepo.FindAccountByName(s.ctx, "HOME:ASSETS:BANK")
	s.Require().NoError(err)
	s.Equal(acc.AccountID, found.AccountID)
	s.False(found.Closed)

	_, err = s.provider.AccountRepo.FindAccountByID(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)

	entities, err := s.provider.AccountRepo.ListEntities(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entities, 1)
	s.Equal("HOME", entities[0].Name)

	list, err := s.provider.AccountRepo.ListAccounts(s.ctx, 10, 0)
	s.Require().NoError(err)
	s.Equal([]string{"HOME", "HOME:ASSETS:BANK"}, []string{list[0].Name, list[1].Name})

	s.Require().NoError(s.provider.AccountRepo.CloseAccount(s.ctx, acc.AccountID, "tester", s.now))
	s.ErrorIs(s.provider.AccountRepo.CloseAccount(s.ctx, acc.AccountID, "tester", s.now), apperrors.ErrValidation)
	s.ErrorIs(s.provider.AccountRepo.CloseAccount(s.ctx, "missing", "tester", s.now), apperrors.ErrNotFound)
}

func (s *RepositorySuite) TestReserveSequencesAndLookup() {
	acc := s.createAccount("A")
	other := s.createAccount("B")

	err := s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		accounts, err := uow.Accounts().FindAccountsForUpdate(ctx, []string{acc.AccountID}, []string{"B", "NOPE"})
		s.Require().NoError(err)
		s.Len(accounts, 2)

		first, err := uow.Accounts().ReserveSequences(ctx, acc.AccountID, 3)
		s.Require().NoError(err)
		s.Equal(int64(1), first)

		next, err := uow.Accounts().ReserveSequences(ctx, acc.AccountID, 1)
		s.Require().NoError(err)
		s.Equal(int64(4), next)

		otherFirst, err := uow.Accounts().ReserveSequences(ctx, other.AccountID, 1)
		s.Require().NoError(err)
		s.Equal(int64(1), otherFirst)

		_, err = uow.Accounts().ReserveSequences(ctx, "missing", 1)
		s.ErrorIs(err, apperrors.ErrUnknownAccount)
		return nil
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestRunInTx_RollsBack() {
	acc := s.createAccount("A")
	boom := errors.New("boom")

	err := s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		if _, err := uow.Accounts().ReserveSequences(ctx, acc.AccountID, 5); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)
	s.ErrorIs(err, apperrors.ErrStoreUnavailable)

	s.Panics(func() {
		_ = s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
			_, _ = uow.Accounts().ReserveSequences(ctx, acc.AccountID, 5)
			panic("unexpected")
		})
	})

	// Neither reservation survived.
	err = s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		first, err := uow.Accounts().ReserveSequences(ctx, acc.AccountID, 1)
		s.Equal(int64(1), first)
		return err
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestExternalTransactions() {
	day := func(d int) time.Time { return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC) }
	records := []domain.ExternalTransaction{
		s.externalTransaction("k2", day(2), "-10.00"),
		s.externalTransaction("k1", day(1), "25.50"),
		s.externalTransaction("k3", day(3), "-3.25"),
	}

	err := s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.ExternalTransactions().ExistingDedupKeys(ctx, []string{"k1", "k2", "k3"})
		s.Require().NoError(err)
		s.Empty(existing)

		n, err := uow.ExternalTransactions().InsertExternalTransactions(ctx, records)
		s.Equal(3, n)
		return err
	})
	s.Require().NoError(err)

	err = s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.ExternalTransactions().ExistingDedupKeys(ctx, []string{"k1", "k9"})
		s.Require().NoError(err)
		s.Equal(map[string]struct{}{"k1": {}}, existing)

		again := s.externalTransaction("k1", day(1), "25.50")
		n, err := uow.ExternalTransactions().InsertExternalTransactions(ctx, []domain.ExternalTransaction{again})
		s.Equal(0, n, "the unique dedup key skips the row")
		return err
	})
	s.Require().NoError(err)

	asc, err := s.provider.ExternalTransactionRepo.ListPending(s.ctx, 10, 0, domain.SortAscending)
	s.Require().NoError(err)
	s.Require().Len(asc, 3)
	s.Equal([]string{"k1", "k2", "k3"}, []string{asc[0].DedupKey, asc[1].DedupKey, asc[2].DedupKey})
	s.True(asc[0].Amount.Equal(decimal.RequireFromString("25.5")))
	s.True(asc[0].Timestamp.Equal(day(1)))

	desc, err := s.provider.ExternalTransactionRepo.ListPending(s.ctx, 2, 1, domain.SortDescending)
	s.Require().NoError(err)
	s.Equal([]string{"k2", "k1"}, []string{desc[0].DedupKey, desc[1].DedupKey})

	err = s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return uow.ExternalTransactions().MarkPosted(ctx, []string{records[0].ID})
	})
	s.Require().NoError(err)

	err = s.provider.TxManager.RunInTx(s.ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		return uow.ExternalTransactions().MarkPosted(ctx, []string{records[0].ID, records[1].ID})
	})
	s.ErrorIs(err, apperrors.ErrAlreadyPosted)

	pending, err := s.provider.ExternalTransactionRepo.ListPending(s.ctx, 10, 0, domain.SortAscending)
	s.Require().NoError(err)
	s.Len(pending, 2, "the failed MarkPosted rolled back")

	posted, err := s.provider.ExternalTransactionRepo.FindExternalTransactionByID(s.ctx, records[0].ID)
	s.Require().NoError(err)
	s.True(posted.Posted)
}

func (s *RepositorySuite) TestJournalsAndReports() {
	bank := s.createAccount("HOME:ASSETS:BANK")
	food := s.createAccount("HOME:EXPENSES:FOOD")
	salary := s.createAccount("HOME:INCOME:SALARY")

	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	s.postJournal(jan, map[string]string{bank.AccountID: "-1000", salary.AccountID: "1000"})
	groceries := s.postJournal(feb, map[string]string{bank.AccountID: "42.10", food.AccountID: "-42.10"})
	voided := s.postJournal(mar, map[string]string{bank.AccountID: "5", food.AccountID: "-5"})

	found, err := s.provider.JournalRepo.FindJournalByID(s.ctx, groceries.JournalID)
	s.Require().NoError(err)
	s.Len(found.Postings, 2)
	s.True(found.Total().IsZero())

	s.Require().NoError(s.provider.JournalRepo.VoidJournal(s.ctx, voided.JournalID))
	s.ErrorIs(s.provider.JournalRepo.VoidJournal(s.ctx, voided.JournalID), apperrors.ErrValidation)
	s.ErrorIs(s.provider.JournalRepo.VoidJournal(s.ctx, "missing"), apperrors.ErrNotFound)

	page1, token, err := s.provider.JournalRepo.ListJournals(s.ctx, 2, nil)
	s.Require().NoError(err)
	s.Require().Len(page1, 2)
	s.Require().NotNil(token)
	s.Equal(voided.JournalID, page1[0].JournalID)
	s.Len(page1[0].Postings, 2)

	page2, token2, err := s.provider.JournalRepo.ListJournals(s.ctx, 2, token)
	s.Require().NoError(err)
	s.Require().Len(page2, 1)
	s.Nil(token2)
	s.True(page2[0].Timestamp.Equal(jan))

	bad := "not-a-token"
	_, _, err = s.provider.JournalRepo.ListJournals(s.ctx, 2, &bad)
	s.ErrorIs(err, apperrors.ErrValidation)

	postings, err := s.provider.JournalRepo.ListPostingsByAccount(s.ctx, bank.AccountID, 10, 0)
	s.Require().NoError(err)
	s.Require().Len(postings, 3)
	for i, p := range postings {
		s.Equal(int64(i+1), p.Sequence)
		s.Equal("HOME:ASSETS:BANK", p.AccountName)
	}
	s.True(postings[2].JournalVoid)

	balance, err := s.provider.ReportingRepo.GetAccountBalance(s.ctx, bank.AccountID)
	s.Require().NoError(err)
	s.True(balance.Equal(decimal.RequireFromString("-957.90")), balance.String())

	rows, err := s.provider.ReportingRepo.GetTrialBalanceData(s.ctx, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	s.Require().Len(rows, 3)
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.Balance)
	}
	s.True(total.IsZero())

	early, err := s.provider.ReportingRepo.GetTrialBalanceData(s.ctx, jan)
	s.Require().NoError(err)
	s.Len(early, 2, "only the January journal is on or before asOf")

	from, to := domain.YearRange(2024)
	expenses, err := s.provider.ReportingRepo.GetAccountAmounts(s.ctx, "HOME:EXPENSES:", from, to)
	s.Require().NoError(err)
	s.Require().Len(expenses, 1)
	s.True(expenses[0].Amount.Equal(decimal.RequireFromString("-42.10")))

	count, err := s.provider.JournalRepo.CountPostings(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(6), count)
}

func TestInPlaceholdersViaEmptyLookup(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	require.NoError(t, dbmigrate.Run(config.DriverSQLite, database.SQLiteDSN(path), dbmigrate.Up, slog.New(slog.NewTextHandler(io.Discard, nil))))
	db, err := database.NewSQLiteDB(context.Background(), path, false)
	require.NoError(t, err)
	provider := sqlite.NewRepositoryProvider(db)
	defer provider.Close()

	err = provider.TxManager.RunInTx(context.Background(), func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		accounts, err := uow.Accounts().FindAccountsForUpdate(ctx, []string{"only-id"}, nil)
		assert.Empty(t, accounts)
		return err
	})
	assert.NoError(t, err)
}
