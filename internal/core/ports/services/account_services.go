package services

import (
	"context"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/SscSPs/recordsheet/internal/dto"
)

// AccountReaderSvc defines read operations for the account registry
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByName retrieves an account by name. The name is normalized first.
	GetAccountByName(ctx context.Context, name string) (*domain.Account, error)

	// ListAccounts retrieves accounts ordered by name.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)

	// IsClosed reports whether the account is closed.
	IsClosed(ctx context.Context, accountID string) (bool, error)
}

// AccountWriterSvc defines write operations for the account registry
type AccountWriterSvc interface {
	// CreateAccount registers a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// CloseAccount closes an account. There is no delete.
	CloseAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
