package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is the net balance of one account.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalance lists every account with postings. Total is zero for a consistent ledger.
type TrialBalance struct {
	AsOf  time.Time         `json:"asOf"`
	Rows  []TrialBalanceRow `json:"rows"`
	Total decimal.Decimal   `json:"total"`
}

// AccountAmount represents an account with its net amount for financial reports
type AccountAmount struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLoss covers the INCOME and EXPENSES accounts of one entity over a period.
type ProfitAndLoss struct {
	Entity        string          `json:"entity"`
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	Income        []AccountAmount `json:"income"`
	Expenses      []AccountAmount `json:"expenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

// YearRange returns the first and last instant of a calendar year in UTC.
func YearRange(year int) (time.Time, time.Time) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 23, 59, 59, 999999999, time.UTC)
	return from, to
}
