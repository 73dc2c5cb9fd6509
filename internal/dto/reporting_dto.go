package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceParams defines query parameters for the trial balance report.
type TrialBalanceParams struct {
	AsOf string `form:"asOf"` // YYYY-MM-DD (end of that day, UTC) or RFC3339
}

// AsOfTime parses AsOf. An empty value yields nil, meaning now.
func (p TrialBalanceParams) AsOfTime() (*time.Time, error) {
	if p.AsOf == "" {
		return nil, nil
	}
	if day, err := time.Parse(time.DateOnly, p.AsOf); err == nil {
		end := day.Add(24*time.Hour - time.Nanosecond)
		return &end, nil
	}
	t, err := time.Parse(time.RFC3339, p.AsOf)
	if err != nil {
		return nil, fmt.Errorf("%w: asOf must be YYYY-MM-DD or RFC3339", apperrors.ErrValidation)
	}
	return &t, nil
}

// ProfitAndLossParams defines query parameters for the profit and loss report.
type ProfitAndLossParams struct {
	Entity string `form:"entity" binding:"required"`
	Year   int    `form:"year" binding:"required,min=1900,max=9999"`
}

// TrialBalanceRowResponse is one account line of a trial balance.
type TrialBalanceRowResponse struct {
	AccountID   string          `json:"accountID"`
	AccountName string          `json:"accountName"`
	Balance     decimal.Decimal `json:"balance"`
}

// TrialBalanceResponse defines the response for a trial balance report.
type TrialBalanceResponse struct {
	AsOf  time.Time                 `json:"asOf"`
	Rows  []TrialBalanceRowResponse `json:"rows"`
	Total decimal.Decimal           `json:"total"`
}

// AccountAmountResponse is one account line of a profit and loss report.
type AccountAmountResponse struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
}

// ProfitAndLossResponse defines the response for a profit and loss report.
type ProfitAndLossResponse struct {
	Entity        string                  `json:"entity"`
	From          time.Time               `json:"from"`
	To            time.Time               `json:"to"`
	Income        []AccountAmountResponse `json:"income"`
	Expenses      []AccountAmountResponse `json:"expenses"`
	TotalIncome   decimal.Decimal         `json:"totalIncome"`
	TotalExpenses decimal.Decimal         `json:"totalExpenses"`
	NetIncome     decimal.Decimal         `json:"netIncome"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance to its DTO.
func ToTrialBalanceResponse(tb *domain.TrialBalance) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{AccountID: r.AccountID, AccountName: r.AccountName, Balance: r.Balance}
	}
	return TrialBalanceResponse{AsOf: tb.AsOf, Rows: rows, Total: tb.Total}
}

func toAccountAmountResponses(amounts []domain.AccountAmount) []AccountAmountResponse {
	res := make([]AccountAmountResponse, len(amounts))
	for i, a := range amounts {
		res[i] = AccountAmountResponse{AccountID: a.AccountID, Name: a.Name, Amount: a.Amount}
	}
	return res
}

// ToProfitAndLossResponse converts a domain.ProfitAndLoss to its DTO.
func ToProfitAndLossResponse(pl *domain.ProfitAndLoss) ProfitAndLossResponse {
	return ProfitAndLossResponse{
		Entity:        pl.Entity,
		From:          pl.From,
		To:            pl.To,
		Income:        toAccountAmountResponses(pl.Income),
		Expenses:      toAccountAmountResponses(pl.Expenses),
		TotalIncome:   pl.TotalIncome,
		TotalExpenses: pl.TotalExpenses,
		NetIncome:     pl.NetIncome,
	}
}
