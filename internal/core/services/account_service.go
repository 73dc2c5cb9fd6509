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
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/google/uuid"
)

const defaultAccountPageSize = 50

// accountService implements the account registry.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...ServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	name := domain.NormalizeAccountName(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}

	now := s.now()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        name,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicateName) {
			s.LogWarn(ctx, err, "Account name already taken", slog.String("name", name))
		} else {
			s.LogError(ctx, err, "Failed to save account", slog.String("name", name))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("name", account.Name))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) GetAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	normalized := domain.NormalizeAccountName(name)
	if normalized == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	account, err := s.accountRepo.FindAccountByName(ctx, normalized)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by name", slog.String("name", normalized))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = defaultAccountPageSize
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}

	s.LogDebug(ctx, "Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

func (s *accountService) IsClosed(ctx context.Context, accountID string) (bool, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return false, err
	}
	return account.Closed, nil
}

func (s *accountService) CloseAccount(ctx context.Context, accountID string, userID string) error {
	if err := s.accountRepo.CloseAccount(ctx, accountID, userID, s.now()); err != nil {
		if apperrors.IsDomainError(err) {
			s.LogWarn(ctx, err, "Account not closed", slog.String("account_id", accountID))
		} else {
			s.LogError(ctx, err, "Failed to close account", slog.String("account_id", accountID))
		}
		return err
	}

	s.LogInfo(ctx, "Account closed", slog.String("account_id", accountID), slog.String("user_id", userID))
	return nil
}
