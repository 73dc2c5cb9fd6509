package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// reportingRepository aggregates in Go: amounts are stored as TEXT and SQLite's SUM would
// go through floating point.
type reportingRepository struct {
	BaseRepository
}

func newReportingRepository(db *sql.DB) portsrepo.ReportingRepository {
	return &reportingRepository{BaseRepository{DB: db}}
}

// sumByAccount runs a query returning (account_id, name, amount) rows and sums the amounts per
// account, keeping the row order of the first occurrence.
func (r *reportingRepository) sumByAccount(ctx context.Context, op, query string, args ...any) ([]domain.AccountAmount, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	defer rows.Close()

	result := []domain.AccountAmount{}
	index := map[string]int{}
	for rows.Next() {
		var (
			id, name string
			amount   decimal.Decimal
		)
		if err := rows.Scan(&id, &name, &amount); err != nil {
			return nil, apperrors.NewStoreError(op, err)
		}
		i, ok := index[id]
		if !ok {
			index[id] = len(result)
			result = append(result, domain.AccountAmount{AccountID: id, Name: name, Amount: amount})
			continue
		}
		result[i].Amount = result[i].Amount.Add(amount)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	return result, nil
}

// GetTrialBalanceData sums the non-void postings of every account up to asOf.
func (r *reportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	amounts, err := r.sumByAccount(ctx, "query trial balance", `
		SELECT a.account_id, a.name, p.amount
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE j.void = 0 AND j.occurred_at <= ?
		ORDER BY a.name, p.seq;`, utc(asOf))
	if err != nil {
		return nil, err
	}
	rows := make([]domain.TrialBalanceRow, len(amounts))
	for i, a := range amounts {
		rows[i] = domain.TrialBalanceRow{AccountID: a.AccountID, AccountName: a.Name, Balance: a.Amount}
	}
	return rows, nil
}

// GetAccountAmounts sums the non-void postings of accounts under namePrefix within [from, to].
func (r *reportingRepository) GetAccountAmounts(ctx context.Context, namePrefix string, from, to time.Time) ([]domain.AccountAmount, error) {
	return r.sumByAccount(ctx, "query account amounts", `
		SELECT a.account_id, a.name, p.amount
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE j.void = 0
		  AND substr(a.name, 1, length(?)) = ?
		  AND j.occurred_at >= ? AND j.occurred_at <= ?
		ORDER BY a.name, p.seq;`, namePrefix, namePrefix, utc(from), utc(to))
}

// GetAccountBalance sums all non-void postings of one account.
func (r *reportingRepository) GetAccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	amounts, err := r.sumByAccount(ctx, "account balance "+accountID, `
		SELECT p.account_id, '', p.amount
		FROM postings p
		JOIN journals j ON j.journal_id = p.journal_id
		WHERE p.account_id = ? AND j.void = 0;`, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if len(amounts) == 0 {
		return decimal.Zero, nil
	}
	return amounts[0].Amount, nil
}
