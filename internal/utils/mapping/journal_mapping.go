package mapping

import (
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/SscSPs/recordsheet/internal/models"
)

// ToModelBatch converts a domain Batch to a model Batch
func ToModelBatch(d domain.Batch) models.Batch {
	return models.Batch{BatchID: d.BatchID, UserID: d.UserID, CreatedAt: d.CreatedAt}
}

// ToModelJournal converts a domain Journal to a model Journal
func ToModelJournal(d domain.Journal) models.Journal {
	return models.Journal{
		JournalID: d.JournalID,
		Timestamp: d.Timestamp,
		Memo:      d.Memo,
		BatchID:   d.BatchID,
		Void:      d.Void,
		CreatedAt: d.CreatedAt,
	}
}

// ToDomainJournal converts a model Journal to a domain Journal
func ToDomainJournal(m models.Journal) domain.Journal {
	return domain.Journal{
		JournalID: m.JournalID,
		Timestamp: m.Timestamp,
		Memo:      m.Memo,
		BatchID:   m.BatchID,
		Void:      m.Void,
		CreatedAt: m.CreatedAt,
	}
}

// ToModelPosting converts a domain Posting to a model Posting
func ToModelPosting(d domain.Posting) models.Posting {
	return models.Posting{
		PostingID:             d.PostingID,
		JournalID:             d.JournalID,
		AccountID:             d.AccountID,
		BatchID:               d.BatchID,
		Amount:                d.Amount,
		Seq:                   d.Sequence,
		FITID:                 d.FITID,
		Ref:                   d.Ref,
		Memo:                  d.Memo,
		ExternalTransactionID: ToNullString(d.ExternalTransactionID),
	}
}

// ToDomainPosting converts a model Posting to a domain Posting
func ToDomainPosting(m models.Posting) domain.Posting {
	return domain.Posting{
		PostingID:             m.PostingID,
		JournalID:             m.JournalID,
		AccountID:             m.AccountID,
		BatchID:               m.BatchID,
		Amount:                m.Amount,
		Sequence:              m.Seq,
		FITID:                 m.FITID,
		Ref:                   m.Ref,
		Memo:                  m.Memo,
		ExternalTransactionID: FromNullString(m.ExternalTransactionID),
		AccountName:           m.AccountName,
		JournalTimestamp:      m.JournalTimestamp,
		JournalVoid:           m.JournalVoid,
	}
}

// ToDomainPostingSlice converts a slice of model Postings to a slice of domain Postings
func ToDomainPostingSlice(ms []models.Posting) []domain.Posting {
	ds := make([]domain.Posting, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPosting(m)
	}
	return ds
}
