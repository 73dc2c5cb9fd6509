package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/mattn/go-sqlite3"
)

// querier is the query surface shared by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB querier
}

// SQLiteTransactionManager runs units of work on a SQLite database. The DSN must request
// immediate transactions, which serialize writers the way row locks do on PostgreSQL.
type SQLiteTransactionManager struct {
	db *sql.DB
}

func newSQLiteTransactionManager(db *sql.DB) *SQLiteTransactionManager {
	return &SQLiteTransactionManager{db: db}
}

var _ portsrepo.TransactionManager = (*SQLiteTransactionManager)(nil)

// RunInTx begins a transaction, hands fn a unit of work bound to it, and commits when fn
// returns nil. Any error or panic rolls the transaction back.
func (m *SQLiteTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewStoreError("begin transaction", err)
	}

	defer func() {
		if p := recover(); p != nil {
			rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			rollback(ctx, tx)
		}
	}()

	if err = fn(ctx, &sqliteUnitOfWork{tx: tx}); err != nil {
		return apperrors.NewStoreError("run transaction", err)
	}
	if err = tx.Commit(); err != nil {
		return apperrors.NewStoreError("commit transaction", err)
	}
	return nil
}

func rollback(ctx context.Context, tx *sql.Tx) {
	// database/sql already rolled back if the context was cancelled.
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.ErrorContext(ctx, "failed to rollback transaction", slog.String("error", err.Error()))
	}
}

type sqliteUnitOfWork struct {
	tx *sql.Tx
}

func (u *sqliteUnitOfWork) Accounts() portsrepo.AccountTxRepository {
	return &SQLiteAccountRepository{BaseRepository{DB: u.tx}}
}

func (u *sqliteUnitOfWork) ExternalTransactions() portsrepo.ExternalTransactionTxRepository {
	return &SQLiteExternalTransactionRepository{BaseRepository{DB: u.tx}}
}

func (u *sqliteUnitOfWork) Journals() portsrepo.JournalTxRepository {
	return &SQLiteJournalRepository{BaseRepository{DB: u.tx}}
}

func (u *sqliteUnitOfWork) Batches() portsrepo.BatchTxRepository {
	return &SQLiteJournalRepository{BaseRepository{DB: u.tx}}
}

// isUniqueViolation reports whether err is a unique violation, optionally on one table.column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) || sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}

// inPlaceholders returns "?, ?, ?" for n values along with the values as []any.
func inPlaceholders(values []string) (string, []any) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(values)), ", "), args
}

// utc normalizes timestamps before binding. Stored timestamps are compared as text, so they
// must all share one zone.
func utc(t time.Time) time.Time {
	return t.UTC()
}
