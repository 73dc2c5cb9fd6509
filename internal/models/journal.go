package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// Batch is the batches table row.
type Batch struct {
	BatchID   string    `db:"batch_id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Journal is the journals table row.
type Journal struct {
	JournalID string    `db:"journal_id"`
	Timestamp time.Time `db:"occurred_at"`
	Memo      string    `db:"memo"`
	BatchID   string    `db:"batch_id"`
	Void      bool      `db:"void"`
	CreatedAt time.Time `db:"created_at"`
}

// Posting is the postings table row.
type Posting struct {
	PostingID             string          `db:"posting_id"`
	JournalID             string          `db:"journal_id"`
	AccountID             string          `db:"account_id"`
	BatchID               string          `db:"batch_id"`
	Amount                decimal.Decimal `db:"amount"`
	Seq                   int64           `db:"seq"`
	FITID                 string          `db:"fitid"`
	Ref                   string          `db:"ref"`
	Memo                  string          `db:"memo"`
	ExternalTransactionID sql.NullString  `db:"external_transaction_id"`

	// Joined columns, only set by read queries.
	AccountName      string
	JournalTimestamp time.Time
	JournalVoid      bool
}
