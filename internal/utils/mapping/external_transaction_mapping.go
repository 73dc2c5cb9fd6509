package mapping

import (
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/SscSPs/recordsheet/internal/models"
)

// ToModelExternalTransaction converts a domain ExternalTransaction to its model
func ToModelExternalTransaction(d domain.ExternalTransaction) models.ExternalTransaction {
	return models.ExternalTransaction{
		ID:          d.ID,
		AccountID:   ToNullString(d.AccountID),
		AccountHint: d.AccountHint,
		Timestamp:   d.Timestamp,
		Amount:      d.Amount,
		Memo:        d.Memo,
		Ref:         d.Ref,
		ExternalID:  d.ExternalID,
		DedupKey:    d.DedupKey,
		Posted:      d.Posted,
		CreatedAt:   d.CreatedAt,
	}
}

// ToDomainExternalTransaction converts a model ExternalTransaction to its domain type
func ToDomainExternalTransaction(m models.ExternalTransaction) domain.ExternalTransaction {
	return domain.ExternalTransaction{
		ID:          m.ID,
		AccountID:   FromNullString(m.AccountID),
		AccountHint: m.AccountHint,
		Timestamp:   m.Timestamp,
		Amount:      m.Amount,
		Memo:        m.Memo,
		Ref:         m.Ref,
		ExternalID:  m.ExternalID,
		DedupKey:    m.DedupKey,
		Posted:      m.Posted,
		CreatedAt:   m.CreatedAt,
	}
}
