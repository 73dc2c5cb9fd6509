package models

// Account is the accounts table row.
type Account struct {
	AccountID   string `db:"account_id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Closed      bool   `db:"closed"`
	PostingSeq  int64  `db:"posting_seq"` // Last sequence handed out to a posting of this account
	AuditFields
}
