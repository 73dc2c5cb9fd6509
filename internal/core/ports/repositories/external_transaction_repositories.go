package repositories

import (
	"context"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// ExternalTransactionReader defines read operations for imported records.
type ExternalTransactionReader interface {
	// FindExternalTransactionByID retrieves one record.
	FindExternalTransactionByID(ctx context.Context, id string) (*domain.ExternalTransaction, error)

	// ListPending retrieves un-posted records ordered by timestamp in the given direction.
	ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error)
}

// ExternalTransactionTxRepository is the imported-record surface used inside a unit of work.
type ExternalTransactionTxRepository interface {
	// FindExternalTransactionsForUpdate loads the records and locks them until the unit of work ends.
	FindExternalTransactionsForUpdate(ctx context.Context, ids []string) (map[string]domain.ExternalTransaction, error)

	// MarkPosted flips pending records to posted. It fails with apperrors.ErrAlreadyPosted
	// if any of them was already posted.
	MarkPosted(ctx context.Context, ids []string) error

	// ExistingDedupKeys returns which of keys are already stored, in one query.
	ExistingDedupKeys(ctx context.Context, keys []string) (map[string]struct{}, error)

	// InsertExternalTransactions inserts records, skipping any whose dedup key appeared
	// concurrently. It returns how many rows were actually inserted.
	InsertExternalTransactions(ctx context.Context, records []domain.ExternalTransaction) (int, error)
}

// ExternalTransactionRepositoryFacade combines the non-transactional interfaces.
type ExternalTransactionRepositoryFacade interface {
	ExternalTransactionReader
}
