package domain

import (
	"github.com/shopspring/decimal"
)

// AccountRefKind tells how an AccountRef identifies its account.
type AccountRefKind int

const (
	AccountRefByID AccountRefKind = iota + 1
	AccountRefByName
)

// AccountRef points at an account either by id or by name.
type AccountRef struct {
	Kind  AccountRefKind
	Value string
}

// ByID references an account by its id.
func ByID(id string) AccountRef {
	return AccountRef{Kind: AccountRefByID, Value: id}
}

// ByName references an account by its name. The name is normalized on construction.
func ByName(name string) AccountRef {
	return AccountRef{Kind: AccountRefByName, Value: NormalizeAccountName(name)}
}

// IsZero reports whether the reference points at nothing.
func (r AccountRef) IsZero() bool {
	return r.Value == "" || (r.Kind != AccountRefByID && r.Kind != AccountRefByName)
}

func (r AccountRef) String() string {
	switch r.Kind {
	case AccountRefByID:
		return "id:" + r.Value
	case AccountRefByName:
		return "name:" + r.Value
	default:
		return "<none>"
	}
}

// PostingInput is one requested posting of a new journal: either a NewPosting or a LinkedPosting.
type PostingInput interface {
	postingInput()
}

// NewPosting builds a posting from caller-supplied fields.
type NewPosting struct {
	Account AccountRef
	Amount  decimal.Decimal
	Memo    string // Defaults to the journal memo
}

// LinkedPosting consumes a pending external transaction. Amount, ref and fitid come from the
// stored record. Account defaults to the record's import target.
type LinkedPosting struct {
	ExternalTransactionID string
	Account               *AccountRef
	MemoOverride          *string
}

func (NewPosting) postingInput()    {}
func (LinkedPosting) postingInput() {}
