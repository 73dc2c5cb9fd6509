package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Posting is one signed movement against one account. Credits are positive, debits negative.
type Posting struct {
	PostingID             string          `json:"postingID"`
	AccountID             string          `json:"accountID"`
	JournalID             string          `json:"journalID"`
	BatchID               string          `json:"batchID"`
	Amount                decimal.Decimal `json:"amount"`
	Sequence              int64           `json:"sequence"` // Per-account, assigned at insert time
	FITID                 string          `json:"fitid"`
	Ref                   string          `json:"ref"`
	Memo                  string          `json:"memo"`
	ExternalTransactionID *string         `json:"externalTransactionID,omitempty"`

	// Populated by read queries that join the journal and account.
	AccountName      string    `json:"accountName,omitempty"`
	JournalTimestamp time.Time `json:"journalTimestamp"`
	JournalVoid      bool      `json:"journalVoid"`
}

// IsCredit reports whether the posting is a credit under the credit-positive convention.
func (p Posting) IsCredit() bool {
	return p.Amount.IsPositive()
}

// SortPostings orders the postings of a journal by amount descending, then by sequence.
func SortPostings(postings []Posting) {
	sort.SliceStable(postings, func(i, j int) bool {
		if c := postings[i].Amount.Cmp(postings[j].Amount); c != 0 {
			return c > 0
		}
		return postings[i].Sequence < postings[j].Sequence
	})
}
