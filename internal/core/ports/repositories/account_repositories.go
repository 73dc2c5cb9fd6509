package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByName retrieves an account by its normalized name.
	FindAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListAccounts retrieves a page of accounts ordered by name.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// ListEntities retrieves the top-level accounts (names without a separator).
	ListEntities(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. A taken name yields apperrors.ErrDuplicateName.
	SaveAccount(ctx context.Context, account domain.Account) error

	// CloseAccount marks an open account as closed.
	CloseAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTxRepository is the account surface used inside a unit of work.
type AccountTxRepository interface {
	// FindAccountsForUpdate resolves ids and names to accounts and locks the rows
	// until the unit of work ends. Missing references are simply absent from the result.
	FindAccountsForUpdate(ctx context.Context, ids []string, names []string) ([]domain.Account, error)

	// ReserveSequences advances the per-account posting counter by n and returns
	// the first reserved value.
	ReserveSequences(ctx context.Context, accountID string, n int) (int64, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
