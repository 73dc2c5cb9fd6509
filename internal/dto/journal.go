package dto

import (
	"fmt"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostingRequest is one posting of a CreateJournalRequest.
// Set ExternalTransactionID to consume a pending imported record; amount then comes from the record.
type PostingRequest struct {
	AccountID             string           `json:"accountID"`
	Account               string           `json:"account"` // Account name, alternative to AccountID
	Amount                *decimal.Decimal `json:"amount"`
	Memo                  string           `json:"memo"`
	ExternalTransactionID string           `json:"externalTransactionID"`
}

// CreateJournalRequest defines the data needed to post a new journal entry.
type CreateJournalRequest struct {
	BatchID   string           `json:"batchID"` // Optional, a new batch is started when empty
	Timestamp *time.Time       `json:"timestamp"`
	Memo      string           `json:"memo"`
	Postings  []PostingRequest `json:"postings"`
}

// ToPostingInputs converts the request postings into engine inputs.
func (r CreateJournalRequest) ToPostingInputs() ([]domain.PostingInput, error) {
	inputs := make([]domain.PostingInput, 0, len(r.Postings))
	for i, p := range r.Postings {
		if p.AccountID != "" && p.Account != "" {
			return nil, apperrors.NewPostingError(i, "account",
				fmt.Errorf("%w: give either accountID or account, not both", apperrors.ErrInvalidTransaction))
		}

		var ref *domain.AccountRef
		switch {
		case p.AccountID != "":
			r := domain.ByID(p.AccountID)
			ref = &r
		case p.Account != "":
			r := domain.ByName(p.Account)
			ref = &r
		}

		if p.ExternalTransactionID != "" {
			linked := domain.LinkedPosting{ExternalTransactionID: p.ExternalTransactionID, Account: ref}
			if p.Memo != "" {
				memo := p.Memo
				linked.MemoOverride = &memo
			}
			inputs = append(inputs, linked)
			continue
		}

		if p.Amount == nil {
			return nil, apperrors.NewPostingError(i, "amount",
				fmt.Errorf("%w: amount required", apperrors.ErrInvalidTransaction))
		}
		np := domain.NewPosting{Amount: *p.Amount, Memo: p.Memo}
		if ref != nil {
			np.Account = *ref
		}
		inputs = append(inputs, np)
	}
	return inputs, nil
}

// PostingResponse defines the data returned for a posting.
type PostingResponse struct {
	PostingID             string          `json:"postingID"`
	JournalID             string          `json:"journalID"`
	AccountID             string          `json:"accountID"`
	AccountName           string          `json:"accountName,omitempty"`
	Amount                decimal.Decimal `json:"amount"`
	Sequence              int64           `json:"sequence"`
	FITID                 string          `json:"fitid,omitempty"`
	Ref                   string          `json:"ref,omitempty"`
	Memo                  string          `json:"memo"`
	ExternalTransactionID *string         `json:"externalTransactionID,omitempty"`
	JournalTimestamp      *time.Time      `json:"journalTimestamp,omitempty"`
	JournalVoid           bool            `json:"journalVoid,omitempty"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID string            `json:"journalID"`
	Timestamp time.Time         `json:"timestamp"`
	Memo      string            `json:"memo"`
	BatchID   string            `json:"batchID"`
	Void      bool              `json:"void"`
	CreatedAt time.Time         `json:"createdAt"`
	Postings  []PostingResponse `json:"postings,omitempty"`
}

// ToPostingResponse converts a domain.Posting to PostingResponse DTO.
func ToPostingResponse(p *domain.Posting) PostingResponse {
	resp := PostingResponse{
		PostingID:             p.PostingID,
		JournalID:             p.JournalID,
		AccountID:             p.AccountID,
		AccountName:           p.AccountName,
		Amount:                p.Amount,
		Sequence:              p.Sequence,
		FITID:                 p.FITID,
		Ref:                   p.Ref,
		Memo:                  p.Memo,
		ExternalTransactionID: p.ExternalTransactionID,
		JournalVoid:           p.JournalVoid,
	}
	if !p.JournalTimestamp.IsZero() {
		ts := p.JournalTimestamp
		resp.JournalTimestamp = &ts
	}
	return resp
}

// ToPostingResponses converts a slice of domain.Posting to []PostingResponse.
func ToPostingResponses(postings []domain.Posting) []PostingResponse {
	responses := make([]PostingResponse, len(postings))
	for i := range postings {
		responses[i] = ToPostingResponse(&postings[i])
	}
	return responses
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID: j.JournalID,
		Timestamp: j.Timestamp,
		Memo:      j.Memo,
		BatchID:   j.BatchID,
		Void:      j.Void,
		CreatedAt: j.CreatedAt,
	}
	if len(j.Postings) > 0 {
		resp.Postings = ToPostingResponses(j.Postings)
	}
	return resp
}

// ListJournalsParams defines query parameters for listing journals.
type ListJournalsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// ListJournalsResponse wraps a page of journals.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ListPostingsParams defines query parameters for listing an account's postings.
type ListPostingsParams struct {
	Limit  int `form:"limit,default=50" binding:"min=1,max=500"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListPostingsResponse wraps a page of postings.
type ListPostingsResponse struct {
	Postings []PostingResponse `json:"postings"`
}
