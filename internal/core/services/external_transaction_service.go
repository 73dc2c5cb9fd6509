package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/google/uuid"
)

const defaultPendingPageSize = 50

// externalTransactionService implements the external transaction store.
type externalTransactionService struct {
	BaseService
	repo      portsrepo.ExternalTransactionRepositoryFacade
	txManager portsrepo.TransactionManager
}

// NewExternalTransactionService creates the external transaction store service.
func NewExternalTransactionService(repo portsrepo.ExternalTransactionRepositoryFacade, txManager portsrepo.TransactionManager, options ...ServiceOption) portssvc.ExternalTransactionSvcFacade {
	svc := &externalTransactionService{repo: repo, txManager: txManager}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ExternalTransactionSvcFacade = (*externalTransactionService)(nil)

func (s *externalTransactionService) ComputeDedupKey(sourceIdentity, externalID string) string {
	return domain.ComputeDedupKey(sourceIdentity, externalID)
}

// BulkInsert drops records whose key repeats within the batch or is already stored, then
// inserts the rest in one unit of work. Rows lost to a concurrent import of the same key
// are counted as duplicates too.
func (s *externalTransactionService) BulkInsert(ctx context.Context, records []domain.ExternalTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	now := s.now()
	seen := make(map[string]struct{}, len(records))
	fresh := make([]domain.ExternalTransaction, 0, len(records))
	for i, rec := range records {
		if rec.DedupKey == "" {
			return 0, fmt.Errorf("%w: record %d has no dedup key", apperrors.ErrValidation, i)
		}
		if _, dup := seen[rec.DedupKey]; dup {
			continue
		}
		seen[rec.DedupKey] = struct{}{}

		if rec.ID == "" {
			rec.ID = uuid.NewString()
		}
		if rec.CreatedAt.IsZero() {
			rec.CreatedAt = now
		}
		rec.Timestamp = rec.Timestamp.UTC()
		rec.Posted = false
		fresh = append(fresh, rec)
	}

	keys := make([]string, 0, len(fresh))
	for _, rec := range fresh {
		keys = append(keys, rec.DedupKey)
	}

	inserted := 0
	err := s.txManager.RunInTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		existing, err := uow.ExternalTransactions().ExistingDedupKeys(ctx, keys)
		if err != nil {
			return err
		}

		toInsert := make([]domain.ExternalTransaction, 0, len(fresh))
		for _, rec := range fresh {
			if _, found := existing[rec.DedupKey]; !found {
				toInsert = append(toInsert, rec)
			}
		}
		if len(toInsert) == 0 {
			return nil
		}

		inserted, err = uow.ExternalTransactions().InsertExternalTransactions(ctx, toInsert)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to insert external transactions", slog.Int("records", len(records)))
		return 0, err
	}

	duplicates := len(records) - inserted
	s.LogInfo(ctx, "External transactions stored",
		slog.Int("records", len(records)),
		slog.Int("inserted", inserted),
		slog.Int("duplicates", duplicates))
	return duplicates, nil
}

// ListPending honors the signed-offset convention: a negative offset forces newest first.
func (s *externalTransactionService) ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error) {
	if limit <= 0 {
		limit = defaultPendingPageSize
	}
	if offset < 0 {
		offset, order = domain.SortOrderFromSignedOffset(offset)
	}

	records, err := s.repo.ListPending(ctx, limit, offset, order)
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending external transactions",
			slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list pending external transactions: %w", err)
	}
	if records == nil {
		return []domain.ExternalTransaction{}, nil
	}
	return records, nil
}

func (s *externalTransactionService) GetExternalTransaction(ctx context.Context, id string) (*domain.ExternalTransaction, error) {
	rec, err := s.repo.FindExternalTransactionByID(ctx, id)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find external transaction", slog.String("external_transaction_id", id))
		}
		return nil, err
	}
	return rec, nil
}
