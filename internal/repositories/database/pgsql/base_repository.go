package pgsql

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so one repository
// implementation serves both pooled reads and unit-of-work writes.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB querier
}

// PgxTransactionManager runs units of work on a pgx pool.
type PgxTransactionManager struct {
	pool *pgxpool.Pool
}

func newPgxTransactionManager(pool *pgxpool.Pool) *PgxTransactionManager {
	return &PgxTransactionManager{pool: pool}
}

var _ portsrepo.TransactionManager = (*PgxTransactionManager)(nil)

// RunInTx begins a transaction, hands fn a unit of work bound to it, and commits when fn
// returns nil. Any error or panic rolls the transaction back.
func (m *PgxTransactionManager) RunInTx(ctx context.Context, fn func(ctx context.Context, uow portsrepo.UnitOfWork) error) (err error) {
	tx, err := m.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
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

	if err = fn(ctx, &pgxUnitOfWork{tx: tx}); err != nil {
		return apperrors.NewStoreError("run transaction", err)
	}
	if err = tx.Commit(ctx); err != nil {
		return apperrors.NewStoreError("commit transaction", err)
	}
	return nil
}

// rollback uses a context that survives cancellation of the request context, otherwise a
// timed-out unit of work could not be rolled back.
func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.ErrorContext(ctx, "failed to rollback transaction", slog.String("error", err.Error()))
	}
}

// pgxUnitOfWork hands out repositories bound to one pgx.Tx.
type pgxUnitOfWork struct {
	tx pgx.Tx
}

func (u *pgxUnitOfWork) Accounts() portsrepo.AccountTxRepository {
	return &PgxAccountRepository{BaseRepository{DB: u.tx}}
}

func (u *pgxUnitOfWork) ExternalTransactions() portsrepo.ExternalTransactionTxRepository {
	return &PgxExternalTransactionRepository{BaseRepository{DB: u.tx}}
}

func (u *pgxUnitOfWork) Journals() portsrepo.JournalTxRepository {
	return &PgxJournalRepository{BaseRepository{DB: u.tx}}
}

func (u *pgxUnitOfWork) Batches() portsrepo.BatchTxRepository {
	return &PgxJournalRepository{BaseRepository{DB: u.tx}}
}

// isUniqueViolation reports whether err is a unique violation, optionally of one constraint.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}
