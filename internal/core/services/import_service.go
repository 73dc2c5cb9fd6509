package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/importer"
	"github.com/SscSPs/recordsheet/internal/metrics"
)

// importService is the import pipeline: parse a document, key its records, store the new ones.
type importService struct {
	BaseService
	registry    *importer.Registry
	accountRepo portsrepo.AccountReader
	store       portssvc.ExternalTransactionSvcFacade
}

// NewImportService creates the import pipeline over a parser registry and the external
// transaction store.
func NewImportService(registry *importer.Registry, accountRepo portsrepo.AccountReader, store portssvc.ExternalTransactionSvcFacade, options ...ServiceOption) portssvc.ImportSvc {
	if registry == nil {
		registry = importer.DefaultRegistry()
	}
	svc := &importService{
		registry:    registry,
		accountRepo: accountRepo,
		store:       store,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ImportSvc = (*importService)(nil)

func (s *importService) Formats() []string {
	return s.registry.Formats()
}

// ImportBatch is all or nothing with respect to parsing: a malformed element rejects the whole
// document before anything is stored. Records already stored count as duplicates.
func (s *importService) ImportBatch(ctx context.Context, format string, document io.Reader, targetAccountID *string) (*domain.ImportResult, error) {
	start := time.Now()
	format = importer.NormalizeFormat(format)
	logger := s.GetLogger(ctx).With(slog.String("format", format))

	parser, ok := s.registry.Get(format)
	if !ok {
		err := apperrors.NewImportFormatError(format, "", fmt.Errorf("unsupported format, expected one of %v", s.registry.Formats()))
		s.Metrics.RecordImportError(format)
		logger.Warn("Import rejected", slog.String("error", err.Error()))
		return nil, err
	}

	if targetAccountID != nil {
		if err := s.checkTarget(ctx, *targetAccountID); err != nil {
			s.Metrics.RecordImportError(format)
			return nil, err
		}
	}

	parsed, err := parser.Parse(document)
	if err != nil {
		s.Metrics.RecordImportError(format)
		logger.Warn("Import document rejected", slog.String("error", err.Error()))
		return nil, err
	}

	records := make([]domain.ExternalTransaction, 0, len(parsed))
	for _, rec := range parsed {
		records = append(records, domain.ExternalTransaction{
			AccountID:   targetAccountID,
			AccountHint: rec.AccountHint,
			Timestamp:   rec.Timestamp.UTC(),
			Amount:      rec.Amount,
			Memo:        rec.Memo,
			Ref:         rec.Ref,
			ExternalID:  rec.ExternalID,
			DedupKey:    s.store.ComputeDedupKey(rec.SourceIdentity, rec.ExternalID),
		})
	}

	duplicates, err := s.store.BulkInsert(ctx, records)
	if err != nil {
		s.Metrics.RecordImportError(format)
		return nil, err
	}

	result := &domain.ImportResult{
		Format:     format,
		Total:      len(records),
		Inserted:   len(records) - duplicates,
		Duplicates: duplicates,
	}
	s.Metrics.RecordImport(format, metrics.ImportCounts{
		Total:      result.Total,
		Inserted:   result.Inserted,
		Duplicates: result.Duplicates,
	}, time.Since(start))

	logger.Info("Import finished",
		slog.Int("total", result.Total),
		slog.Int("inserted", result.Inserted),
		slog.Int("duplicates", result.Duplicates))
	return result, nil
}

func (s *importService) checkTarget(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: import target %s", apperrors.ErrUnknownAccount, accountID)
		}
		s.LogError(ctx, err, "Failed to look up import target", slog.String("account_id", accountID))
		return err
	}
	if account.Closed {
		return fmt.Errorf("%w: import target %s", apperrors.ErrClosedAccount, account.Name)
	}
	return nil
}
