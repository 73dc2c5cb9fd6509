package repositories

import (
	"context"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a journal with its postings.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves journals newest first using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error)

	// ListPostingsByAccount retrieves an account's postings in sequence order.
	ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error)

	// CountJournals and CountPostings return row counts, used to verify rollbacks.
	CountJournals(ctx context.Context) (int64, error)
	CountPostings(ctx context.Context) (int64, error)
}

// JournalWriter defines write operations allowed on committed journals.
type JournalWriter interface {
	// VoidJournal sets the void flag on a journal that is not void yet.
	VoidJournal(ctx context.Context, journalID string) error
}

// JournalTxRepository is the journal surface used inside a unit of work.
type JournalTxRepository interface {
	// InsertJournal inserts the journal row only.
	InsertJournal(ctx context.Context, journal domain.Journal) error

	// InsertPostings inserts the postings of a journal in one round trip.
	InsertPostings(ctx context.Context, postings []domain.Posting) error
}

// BatchTxRepository persists batches lazily with their first journal.
type BatchTxRepository interface {
	// EnsureBatch inserts the batch unless it already exists.
	EnsureBatch(ctx context.Context, batch domain.Batch) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
