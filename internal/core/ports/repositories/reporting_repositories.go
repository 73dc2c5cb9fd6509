package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines read-only aggregations over committed, non-void postings.
type ReportingRepository interface {
	// GetTrialBalanceData sums postings per account up to asOf, ordered by account name.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)

	// GetAccountAmounts sums postings per account whose name starts with prefix,
	// for journals dated within [from, to].
	GetAccountAmounts(ctx context.Context, namePrefix string, from, to time.Time) ([]domain.AccountAmount, error)

	// GetAccountBalance sums all postings of one account.
	GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}
