package domain

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/shopspring/decimal"
)

// ExternalTransaction is a normalized record imported from a bank or merchant feed.
// It stays pending until a journal consumes it.
type ExternalTransaction struct {
	ID          string          `json:"id"`
	AccountID   *string         `json:"accountID,omitempty"` // Import target, if any
	AccountHint string          `json:"accountHint"`         // Masked source account number
	Timestamp   time.Time       `json:"timestamp"`
	Amount      decimal.Decimal `json:"amount"`
	Memo        string          `json:"memo"`
	Ref         string          `json:"ref"`
	ExternalID  string          `json:"externalID"` // fitid
	DedupKey    string          `json:"dedupKey"`
	Posted      bool            `json:"posted"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ImportResult summarizes one import batch.
type ImportResult struct {
	Format     string `json:"format"`
	Total      int    `json:"total"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// ComputeDedupKey hashes the source identity and the source's own transaction id into a stable
// key. Re-importing the same statement yields the same keys.
func ComputeDedupKey(sourceIdentity, externalID string) string {
	sum := sha1.Sum([]byte(sourceIdentity + externalID))
	return hex.EncodeToString(sum[:])
}
