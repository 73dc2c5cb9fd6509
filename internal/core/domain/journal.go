package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Journal is one balanced transaction. Only Void may change after it is committed.
type Journal struct {
	JournalID string    `json:"journalID"` // Primary Key (UUID)
	Timestamp time.Time `json:"timestamp"` // When the movement happened
	Memo      string    `json:"memo"`      // Required
	BatchID   string    `json:"batchID"`
	Void      bool      `json:"void"` // Void journals are excluded from balances
	CreatedAt time.Time `json:"createdAt"`
	Postings  []Posting `json:"postings,omitempty"`
}

// Total sums the posting amounts. A committed journal always totals zero.
func (j Journal) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range j.Postings {
		total = total.Add(p.Amount)
	}
	return total
}
