package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalTransaction is the external_transactions table row.
type ExternalTransaction struct {
	ID          string          `db:"id"`
	AccountID   sql.NullString  `db:"account_id"`
	AccountHint string          `db:"account_hint"`
	Timestamp   time.Time       `db:"occurred_at"`
	Amount      decimal.Decimal `db:"amount"`
	Memo        string          `db:"memo"`
	Ref         string          `db:"ref"`
	ExternalID  string          `db:"external_id"`
	DedupKey    string          `db:"dedup_key"`
	Posted      bool            `db:"posted"`
	CreatedAt   time.Time       `db:"created_at"`
}
