package services

import (
	"context"
	"io"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// ImportSvc is the import pipeline.
type ImportSvc interface {
	// ImportBatch parses a whole document and inserts its new records.
	// A malformed document aborts the batch with apperrors.ErrImportFormat.
	ImportBatch(ctx context.Context, format string, document io.Reader, targetAccountID *string) (*domain.ImportResult, error)

	// Formats lists the registered source formats.
	Formats() []string
}
