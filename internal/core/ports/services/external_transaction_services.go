package services

import (
	"context"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// ExternalTransactionSvcFacade is the external transaction store.
type ExternalTransactionSvcFacade interface {
	// ComputeDedupKey derives the stable identity of an imported record.
	ComputeDedupKey(sourceIdentity, externalID string) string

	// BulkInsert stores the records whose dedup key is new, atomically, and returns
	// how many were skipped as duplicates.
	BulkInsert(ctx context.Context, records []domain.ExternalTransaction) (int, error)

	// ListPending lists un-posted records by timestamp. Use domain.SortOrderFromSignedOffset
	// for callers that speak the signed-offset convention.
	ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error)

	// GetExternalTransaction retrieves one record.
	GetExternalTransaction(ctx context.Context, id string) (*domain.ExternalTransaction, error)
}
