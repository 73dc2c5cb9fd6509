package domain

import "strings"

// AccountNameSeparator separates the path segments of an account name, e.g. "HOME:EXPENSES:FOOD".
// The hierarchy is a naming convention only.
const AccountNameSeparator = ":"

// Account represents a ledger account. Accounts are never deleted; postings hold a durable
// reference to them.
type Account struct {
	AccountID   string `json:"accountID"`   // Primary Key (UUID)
	Name        string `json:"name"`        // Unique, upper-cased
	Description string `json:"description"` // Free text, may be empty
	Closed      bool   `json:"closed"`      // Closed accounts reject new postings
	AuditFields
}

// NormalizeAccountName trims and upper-cases an account name the way it is stored.
func NormalizeAccountName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// ShortName returns the last segment of the account name.
func (a Account) ShortName() string {
	idx := strings.LastIndex(a.Name, AccountNameSeparator)
	if idx < 0 {
		return a.Name
	}
	return a.Name[idx+1:]
}

// IsEntity reports whether the account is a top-level name, which reports treat as an entity.
func (a Account) IsEntity() bool {
	return !strings.Contains(a.Name, AccountNameSeparator)
}
