package services

import (
	"context"
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a journal with its postings.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves journals newest first with token pagination.
	ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// ListPostingsByAccount retrieves an account's postings in sequence order.
	ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error)
}

// JournalWriterSvc is the posting engine.
type JournalWriterSvc interface {
	// NewBatch starts a batch for the user. It is persisted with its first journal.
	NewBatch(userID string) domain.Batch

	// NewTransaction validates and atomically commits a journal entry.
	// A nil timestamp means now.
	NewTransaction(ctx context.Context, batch domain.Batch, postings []domain.PostingInput, timestamp *time.Time, memo string) (*domain.Journal, error)

	// VoidJournal soft-deletes a journal; it no longer counts towards balances.
	VoidJournal(ctx context.Context, journalID string) error
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
