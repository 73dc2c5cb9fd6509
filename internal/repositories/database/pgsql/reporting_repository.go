package pgsql

import (
	"context"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository{DB: pool}}
}

// GetTrialBalanceData sums the non-void postings of every account up to asOf.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.name, SUM(p.amount)
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE j.void = FALSE AND j.occurred_at <= $1
		GROUP BY a.account_id, a.name
		ORDER BY a.name;
	`
	rows, err := r.DB.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewStoreError("query trial balance", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		if err := rows.Scan(&row.AccountID, &row.AccountName, &row.Balance); err != nil {
			return nil, apperrors.NewStoreError("scan trial balance row", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate trial balance rows", err)
	}
	return result, nil
}

// GetAccountAmounts sums the non-void postings of accounts under namePrefix within [from, to].
func (r *reportingRepository) GetAccountAmounts(ctx context.Context, namePrefix string, from, to time.Time) ([]domain.AccountAmount, error) {
	// left() instead of LIKE, account names may contain '_'
	query := `
		SELECT a.account_id, a.name, SUM(p.amount)
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE j.void = FALSE
		  AND left(a.name, length($1)) = $1
		  AND j.occurred_at >= $2 AND j.occurred_at <= $3
		GROUP BY a.account_id, a.name
		ORDER BY a.name;
	`
	rows, err := r.DB.Query(ctx, query, namePrefix, from, to)
	if err != nil {
		return nil, apperrors.NewStoreError("query account amounts", err)
	}
	defer rows.Close()

	result := []domain.AccountAmount{}
	for rows.Next() {
		var amt domain.AccountAmount
		if err := rows.Scan(&amt.AccountID, &amt.Name, &amt.Amount); err != nil {
			return nil, apperrors.NewStoreError("scan account amount", err)
		}
		result = append(result, amt)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate account amounts", err)
	}
	return result, nil
}

// GetAccountBalance sums all non-void postings of one account.
func (r *reportingRepository) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(p.amount), 0)
		FROM postings p
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE p.account_id = $1 AND j.void = FALSE;
	`
	var balance decimal.Decimal
	if err := r.DB.QueryRow(ctx, query, accountID).Scan(&balance); err != nil {
		return decimal.Zero, apperrors.NewStoreError("account balance "+accountID, err)
	}
	return balance, nil
}
