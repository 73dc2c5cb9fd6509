package services_test

import (
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
)

func (suite *LedgerTestSuite) TestBulkInsert_DedupesWithinBatchAndStore() {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	rec := func(key, value string) domain.ExternalTransaction {
		return domain.ExternalTransaction{Timestamp: ts, Amount: amount(value), DedupKey: key, Memo: key}
	}

	dups, err := suite.svc.ExternalTransaction.BulkInsert(suite.ctx, []domain.ExternalTransaction{
		rec("k1", "1"), rec("k2", "2"), rec("k1", "1"),
	})
	suite.Require().NoError(err)
	suite.Equal(1, dups)

	dups, err = suite.svc.ExternalTransaction.BulkInsert(suite.ctx, []domain.ExternalTransaction{
		rec("k2", "2"), rec("k3", "3"),
	})
	suite.Require().NoError(err)
	suite.Equal(1, dups)

	pending, err := suite.svc.ExternalTransaction.ListPending(suite.ctx, 10, 0, domain.SortAscending)
	suite.Require().NoError(err)
	suite.Len(pending, 3)
	for _, p := range pending {
		suite.NotEmpty(p.ID)
		suite.False(p.Posted)
		suite.Nil(p.AccountID)
	}
}

func (suite *LedgerTestSuite) TestBulkInsert_RequiresDedupKey() {
	dups, err := suite.svc.ExternalTransaction.BulkInsert(suite.ctx, []domain.ExternalTransaction{{Amount: amount("1")}})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Zero(dups)
}

func (suite *LedgerTestSuite) TestComputeDedupKeyIsStable() {
	a := suite.svc.ExternalTransaction.ComputeDedupKey("0210000211223344", "FIT-1")
	b := suite.svc.ExternalTransaction.ComputeDedupKey("0210000211223344", "FIT-1")
	c := suite.svc.ExternalTransaction.ComputeDedupKey("0210000211223344", "FIT-2")

	suite.Equal(a, b)
	suite.NotEqual(a, c)
	suite.Len(a, 40)
}

func (suite *LedgerTestSuite) TestGetExternalTransaction_NotFound() {
	_, err := suite.svc.ExternalTransaction.GetExternalTransaction(suite.ctx, "missing")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}
