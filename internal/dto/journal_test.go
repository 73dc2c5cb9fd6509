package dto_test

import (
	"testing"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	"github.com/SscSPs/recordsheet/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestCreateJournalRequest_ToPostingInputs(t *testing.T) {
	req := dto.CreateJournalRequest{
		Memo: "groceries",
		Postings: []dto.PostingRequest{
			{Account: "home:expenses:food", Amount: amount("-42.10")},
			{AccountID: "acc-1", Amount: amount("42.10"), Memo: "card"},
			{ExternalTransactionID: "ext-1", Memo: "override"},
			{ExternalTransactionID: "ext-2", Account: "home:assets:bank"},
		},
	}

	inputs, err := req.ToPostingInputs()
	require.NoError(t, err)
	require.Len(t, inputs, 4)

	first, ok := inputs[0].(domain.NewPosting)
	require.True(t, ok)
	assert.Equal(t, domain.ByName("HOME:EXPENSES:FOOD"), first.Account)
	assert.True(t, first.Amount.Equal(decimal.RequireFromString("-42.10")))

	second := inputs[1].(domain.NewPosting)
	assert.Equal(t, domain.ByID("acc-1"), second.Account)
	assert.Equal(t, "card", second.Memo)

	third := inputs[2].(domain.LinkedPosting)
	assert.Equal(t, "ext-1", third.ExternalTransactionID)
	assert.Nil(t, third.Account)
	require.NotNil(t, third.MemoOverride)
	assert.Equal(t, "override", *third.MemoOverride)

	fourth := inputs[3].(domain.LinkedPosting)
	require.NotNil(t, fourth.Account)
	assert.Equal(t, "name:HOME:ASSETS:BANK", fourth.Account.String())
	assert.Nil(t, fourth.MemoOverride)
}

func TestCreateJournalRequest_ToPostingInputs_Errors(t *testing.T) {
	t.Run("missing amount", func(t *testing.T) {
		req := dto.CreateJournalRequest{Postings: []dto.PostingRequest{
			{Account: "A", Amount: amount("1")},
			{Account: "B"},
		}}
		_, err := req.ToPostingInputs()
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)

		var pe *apperrors.PostingError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 1, pe.Index)
		assert.Equal(t, "amount", pe.Field)
	})

	t.Run("both account id and name", func(t *testing.T) {
		req := dto.CreateJournalRequest{Postings: []dto.PostingRequest{
			{AccountID: "acc-1", Account: "A", Amount: amount("1")},
		}}
		_, err := req.ToPostingInputs()
		assert.ErrorIs(t, err, apperrors.ErrInvalidTransaction)
	})
}

func TestListPendingParams_SortOrder(t *testing.T) {
	assert.Equal(t, domain.SortDescending, dto.ListPendingParams{Order: "desc"}.SortOrder())
	assert.Equal(t, domain.SortAscending, dto.ListPendingParams{Order: "asc"}.SortOrder())
}
