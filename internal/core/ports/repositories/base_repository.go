package repositories

import (
	"context"
)

// UnitOfWork exposes the repositories bound to one open store transaction.
// Everything read or written through it commits or rolls back together.
type UnitOfWork interface {
	Accounts() AccountTxRepository
	ExternalTransactions() ExternalTransactionTxRepository
	Journals() JournalTxRepository
	Batches() BatchTxRepository
}

// TransactionManager runs a function inside a store transaction.
// The transaction commits if fn returns nil and rolls back on any error or panic.
// Begin and commit failures are reported as apperrors.ErrStoreUnavailable.
type TransactionManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, uow UnitOfWork) error) error
}
