package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/models"
	"github.com/SscSPs/recordsheet/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const externalTransactionColumns = `id, account_id, account_hint, occurred_at, amount, memo, ref, external_id, dedup_key, posted, created_at`

type PgxExternalTransactionRepository struct {
	BaseRepository
}

func newPgxExternalTransactionRepository(pool *pgxpool.Pool) *PgxExternalTransactionRepository {
	return &PgxExternalTransactionRepository{BaseRepository{DB: pool}}
}

var (
	_ portsrepo.ExternalTransactionRepositoryFacade = (*PgxExternalTransactionRepository)(nil)
	_ portsrepo.ExternalTransactionTxRepository     = (*PgxExternalTransactionRepository)(nil)
)

func scanExternalTransaction(row pgx.Row) (domain.ExternalTransaction, error) {
	var m models.ExternalTransaction
	err := row.Scan(
		&m.ID,
		&m.AccountID,
		&m.AccountHint,
		&m.Timestamp,
		&m.Amount,
		&m.Memo,
		&m.Ref,
		&m.ExternalID,
		&m.DedupKey,
		&m.Posted,
		&m.CreatedAt,
	)
	if err != nil {
		return domain.ExternalTransaction{}, err
	}
	return mapping.ToDomainExternalTransaction(m), nil
}

// FindExternalTransactionByID retrieves one record.
func (r *PgxExternalTransactionRepository) FindExternalTransactionByID(ctx context.Context, id string) (*domain.ExternalTransaction, error) {
	query := `SELECT ` + externalTransactionColumns + ` FROM external_transactions WHERE id = $1;`
	t, err := scanExternalTransaction(r.DB.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find external transaction "+id, err)
	}
	return &t, nil
}

// ListPending retrieves un-posted records ordered by timestamp.
func (r *PgxExternalTransactionRepository) ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	orderBy := `ORDER BY occurred_at ASC, id ASC`
	if order == domain.SortDescending {
		orderBy = `ORDER BY occurred_at DESC, id DESC`
	}

	query := `SELECT ` + externalTransactionColumns + ` FROM external_transactions WHERE posted = FALSE ` + orderBy + ` LIMIT $1 OFFSET $2;`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("list pending external transactions", err)
	}
	defer rows.Close()

	result := []domain.ExternalTransaction{}
	for rows.Next() {
		t, err := scanExternalTransaction(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan pending external transaction", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate pending external transactions", err)
	}
	return result, nil
}

// FindExternalTransactionsForUpdate loads and locks the records in id order.
func (r *PgxExternalTransactionRepository) FindExternalTransactionsForUpdate(ctx context.Context, ids []string) (map[string]domain.ExternalTransaction, error) {
	result := make(map[string]domain.ExternalTransaction, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := `SELECT ` + externalTransactionColumns + ` FROM external_transactions WHERE id = ANY($1) ORDER BY id FOR UPDATE;`
	rows, err := r.DB.Query(ctx, query, ids)
	if err != nil {
		return nil, apperrors.NewStoreError("lock external transactions", err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanExternalTransaction(rows)
		if err != nil {
			return nil, apperrors.NewStoreError("scan locked external transaction", err)
		}
		result[t.ID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate locked external transactions", err)
	}
	return result, nil
}

// MarkPosted flips pending records to posted in one statement.
func (r *PgxExternalTransactionRepository) MarkPosted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	cmdTag, err := r.DB.Exec(ctx, `UPDATE external_transactions SET posted = TRUE WHERE id = ANY($1) AND posted = FALSE;`, ids)
	if err != nil {
		return apperrors.NewStoreError("mark external transactions posted", err)
	}
	if cmdTag.RowsAffected() != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d records were not pending", apperrors.ErrAlreadyPosted, int64(len(ids))-cmdTag.RowsAffected(), len(ids))
	}
	return nil
}

// ExistingDedupKeys returns the subset of keys already stored.
func (r *PgxExternalTransactionRepository) ExistingDedupKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(keys) == 0 {
		return existing, nil
	}

	rows, err := r.DB.Query(ctx, `SELECT dedup_key FROM external_transactions WHERE dedup_key = ANY($1);`, keys)
	if err != nil {
		return nil, apperrors.NewStoreError("check dedup keys", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, apperrors.NewStoreError("scan dedup key", err)
		}
		existing[key] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError("iterate dedup keys", err)
	}
	return existing, nil
}

// InsertExternalTransactions inserts the records in one batch. Rows whose dedup key was
// stored concurrently are skipped by the unique constraint.
func (r *PgxExternalTransactionRepository) InsertExternalTransactions(ctx context.Context, records []domain.ExternalTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO external_transactions (` + externalTransactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (dedup_key) DO NOTHING;
	`
	batch := &pgx.Batch{}
	for _, rec := range records {
		m := mapping.ToModelExternalTransaction(rec)
		batch.Queue(query,
			m.ID,
			m.AccountID,
			m.AccountHint,
			m.Timestamp,
			m.Amount,
			m.Memo,
			m.Ref,
			m.ExternalID,
			m.DedupKey,
			m.Posted,
			m.CreatedAt,
		)
	}

	br := r.DB.SendBatch(ctx, batch)
	inserted := 0
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("insert external transaction %s: %w", records[i].ID, err)
			}
			continue
		}
		inserted += int(ct.RowsAffected())
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = err
	}
	if batchErr != nil {
		return 0, apperrors.NewStoreError("insert external transactions", batchErr)
	}
	return inserted, nil
}
