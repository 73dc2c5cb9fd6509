package dto

import (
	"time"

	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExternalTransactionResponse defines the data returned for an imported record.
type ExternalTransactionResponse struct {
	ID          string          `json:"id"`
	AccountID   *string         `json:"accountID,omitempty"`
	AccountHint string          `json:"accountHint"`
	Timestamp   time.Time       `json:"timestamp"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	Ref         string          `json:"ref"`
	ExternalID  string          `json:"externalID"`
	Posted      bool            `json:"posted"`
}

// ToExternalTransactionResponse converts a domain.ExternalTransaction to its DTO.
func ToExternalTransactionResponse(t *domain.ExternalTransaction) ExternalTransactionResponse {
	return ExternalTransactionResponse{
		ID:          t.ID,
		AccountID:   t.AccountID,
		AccountHint: t.AccountHint,
		Timestamp:   t.Timestamp,
		Amount:      t.Amount,
		Memo:        t.Memo,
		Ref:         t.Ref,
		ExternalID:  t.ExternalID,
		Posted:      t.Posted,
	}
}

// ToExternalTransactionResponses converts a slice of records.
func ToExternalTransactionResponses(ts []domain.ExternalTransaction) []ExternalTransactionResponse {
	res := make([]ExternalTransactionResponse, len(ts))
	for i := range ts {
		res[i] = ToExternalTransactionResponse(&ts[i])
	}
	return res
}

// ListPendingParams defines query parameters for listing pending records.
type ListPendingParams struct {
	Limit  int    `form:"limit,default=50" binding:"min=1,max=500"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
	Order  string `form:"order,default=asc" binding:"oneof=asc desc"`
}

// SortOrder maps the order query parameter to a domain.SortOrder.
func (p ListPendingParams) SortOrder() domain.SortOrder {
	if p.Order == "desc" {
		return domain.SortDescending
	}
	return domain.SortAscending
}

// ImportResponse reports the outcome of an import batch.
type ImportResponse struct {
	Format     string `json:"format"`
	Total      int    `json:"total"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// ToImportResponse converts a domain.ImportResult to its DTO.
func ToImportResponse(r *domain.ImportResult) ImportResponse {
	return ImportResponse{Format: r.Format, Total: r.Total, Inserted: r.Inserted, Duplicates: r.Duplicates}
}

// ImportParams defines query parameters for an import upload.
type ImportParams struct {
	Format    string `form:"format" binding:"required"`
	AccountID string `form:"accountID"`
}
