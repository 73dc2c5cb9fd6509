package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/models"
	"github.com/SscSPs/recordsheet/internal/utils/mapping"
)

const externalTransactionColumns = `id, account_id, account_hint, occurred_at, amount, memo, ref, external_id, dedup_key, posted, created_at`

type SQLiteExternalTransactionRepository struct {
	BaseRepository
}

func newSQLiteExternalTransactionRepository(db *sql.DB) *SQLiteExternalTransactionRepository {
	return &SQLiteExternalTransactionRepository{BaseRepository{DB: db}}
}

var (
	_ portsrepo.ExternalTransactionRepositoryFacade = (*SQLiteExternalTransactionRepository)(nil)
	_ portsrepo.ExternalTransactionTxRepository     = (*SQLiteExternalTransactionRepository)(nil)
)

func scanExternalTransaction(row rowScanner) (domain.ExternalTransaction, error) {
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

func (r *SQLiteExternalTransactionRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.ExternalTransaction, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	defer rows.Close()

	result := []domain.ExternalTransaction{}
	for rows.Next() {
		t, err := scanExternalTransaction(rows)
		if err != nil {
			return nil, apperrors.NewStoreError(op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	return result, nil
}

// FindExternalTransactionByID retrieves one record.
func (r *SQLiteExternalTransactionRepository) FindExternalTransactionByID(ctx context.Context, id string) (*domain.ExternalTransaction, error) {
	t, err := scanExternalTransaction(r.DB.QueryRowContext(ctx,
		`SELECT `+externalTransactionColumns+` FROM external_transactions WHERE id = ?;`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find external transaction "+id, err)
	}
	return &t, nil
}

// ListPending retrieves un-posted records ordered by timestamp.
func (r *SQLiteExternalTransactionRepository) ListPending(ctx context.Context, limit int, offset int, order domain.SortOrder) ([]domain.ExternalTransaction, error) {
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
	return r.query(ctx, "list pending external transactions",
		`SELECT `+externalTransactionColumns+` FROM external_transactions WHERE posted = 0 `+orderBy+` LIMIT ? OFFSET ?;`,
		limit, offset)
}

// FindExternalTransactionsForUpdate loads the records inside the unit of work.
func (r *SQLiteExternalTransactionRepository) FindExternalTransactionsForUpdate(ctx context.Context, ids []string) (map[string]domain.ExternalTransaction, error) {
	result := make(map[string]domain.ExternalTransaction, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	placeholders, args := inPlaceholders(ids)
	records, err := r.query(ctx, "lock external transactions",
		`SELECT `+externalTransactionColumns+` FROM external_transactions WHERE id IN (`+placeholders+`) ORDER BY id;`, args...)
	if err != nil {
		return nil, err
	}
	for _, t := range records {
		result[t.ID] = t
	}
	return result, nil
}

// MarkPosted flips pending records to posted in one statement.
func (r *SQLiteExternalTransactionRepository) MarkPosted(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders, args := inPlaceholders(ids)
	res, err := r.DB.ExecContext(ctx,
		`UPDATE external_transactions SET posted = 1 WHERE id IN (`+placeholders+`) AND posted = 0;`, args...)
	if err != nil {
		return apperrors.NewStoreError("mark external transactions posted", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("mark external transactions posted", err)
	}
	if affected != int64(len(ids)) {
		return fmt.Errorf("%w: %d of %d records were not pending", apperrors.ErrAlreadyPosted, int64(len(ids))-affected, len(ids))
	}
	return nil
}

// ExistingDedupKeys returns the subset of keys already stored.
func (r *SQLiteExternalTransactionRepository) ExistingDedupKeys(ctx context.Context, keys []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(keys) == 0 {
		return existing, nil
	}
	placeholders, args := inPlaceholders(keys)
	rows, err := r.DB.QueryContext(ctx,
		`SELECT dedup_key FROM external_transactions WHERE dedup_key IN (`+placeholders+`);`, args...)
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

// InsertExternalTransactions inserts the records with one prepared statement. Rows whose dedup
// key already exists are skipped by the unique constraint.
func (r *SQLiteExternalTransactionRepository) InsertExternalTransactions(ctx context.Context, records []domain.ExternalTransaction) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}
	stmt, err := r.DB.PrepareContext(ctx, `
		INSERT INTO external_transactions (`+externalTransactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (dedup_key) DO NOTHING;`)
	if err != nil {
		return 0, apperrors.NewStoreError("prepare external transaction insert", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, rec := range records {
		m := mapping.ToModelExternalTransaction(rec)
		res, err := stmt.ExecContext(ctx,
			m.ID, m.AccountID, m.AccountHint, utc(m.Timestamp), m.Amount, m.Memo, m.Ref,
			m.ExternalID, m.DedupKey, m.Posted, utc(m.CreatedAt),
		)
		if err != nil {
			return 0, apperrors.NewStoreError("insert external transaction "+m.ID, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, apperrors.NewStoreError("insert external transaction "+m.ID, err)
		}
		inserted += int(n)
	}
	return inserted, nil
}
