package services

import (
	"context"
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService defines read-only reports over committed, non-void journals.
type ReportingService interface {
	// TrialBalance sums every account up to asOf (now when nil).
	TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error)

	// ProfitAndLoss reports an entity's INCOME and EXPENSES accounts for a calendar year.
	ProfitAndLoss(ctx context.Context, entity string, year int) (*domain.ProfitAndLoss, error)

	// ListEntities lists the top-level account names.
	ListEntities(ctx context.Context) ([]domain.Account, error)

	// AccountBalance sums one account.
	AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}
