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
	"github.com/SscSPs/recordsheet/internal/utils/pagination"
)

const (
	journalColumns = `journal_id, occurred_at, memo, batch_id, void, created_at`

	postingSelect = `
		SELECT p.posting_id, p.journal_id, p.account_id, p.batch_id, p.amount, p.seq,
		       p.fitid, p.ref, p.memo, p.external_transaction_id,
		       a.name, j.occurred_at, j.void
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
	`
)

type SQLiteJournalRepository struct {
	BaseRepository
}

func newSQLiteJournalRepository(db *sql.DB) *SQLiteJournalRepository {
	return &SQLiteJournalRepository{BaseRepository{DB: db}}
}

var (
	_ portsrepo.JournalRepositoryFacade = (*SQLiteJournalRepository)(nil)
	_ portsrepo.JournalTxRepository     = (*SQLiteJournalRepository)(nil)
	_ portsrepo.BatchTxRepository       = (*SQLiteJournalRepository)(nil)
)

func scanJournal(row rowScanner) (domain.Journal, error) {
	var m models.Journal
	if err := row.Scan(&m.JournalID, &m.Timestamp, &m.Memo, &m.BatchID, &m.Void, &m.CreatedAt); err != nil {
		return domain.Journal{}, err
	}
	return mapping.ToDomainJournal(m), nil
}

func (r *SQLiteJournalRepository) queryPostings(ctx context.Context, op, query string, args ...any) ([]domain.Posting, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	defer rows.Close()

	postings := []domain.Posting{}
	for rows.Next() {
		var m models.Posting
		err := rows.Scan(
			&m.PostingID,
			&m.JournalID,
			&m.AccountID,
			&m.BatchID,
			&m.Amount,
			&m.Seq,
			&m.FITID,
			&m.Ref,
			&m.Memo,
			&m.ExternalTransactionID,
			&m.AccountName,
			&m.JournalTimestamp,
			&m.JournalVoid,
		)
		if err != nil {
			return nil, apperrors.NewStoreError(op, err)
		}
		postings = append(postings, mapping.ToDomainPosting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	return postings, nil
}

// EnsureBatch inserts the batch unless an earlier journal already did.
func (r *SQLiteJournalRepository) EnsureBatch(ctx context.Context, batch domain.Batch) error {
	m := mapping.ToModelBatch(batch)
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO batches (batch_id, user_id, created_at) VALUES (?, ?, ?) ON CONFLICT (batch_id) DO NOTHING;`,
		m.BatchID, m.UserID, utc(m.CreatedAt))
	if err != nil {
		return apperrors.NewStoreError("ensure batch "+m.BatchID, err)
	}
	return nil
}

// InsertJournal inserts the journal row.
func (r *SQLiteJournalRepository) InsertJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO journals (`+journalColumns+`) VALUES (?, ?, ?, ?, ?, ?);`,
		m.JournalID, utc(m.Timestamp), m.Memo, m.BatchID, m.Void, utc(m.CreatedAt))
	if err != nil {
		return apperrors.NewStoreError("insert journal "+m.JournalID, err)
	}
	return nil
}

// InsertPostings inserts all postings of a journal with one prepared statement.
func (r *SQLiteJournalRepository) InsertPostings(ctx context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}
	stmt, err := r.DB.PrepareContext(ctx, `
		INSERT INTO postings (posting_id, journal_id, account_id, batch_id, amount, seq, fitid, ref, memo, external_transaction_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return apperrors.NewStoreError("prepare posting insert", err)
	}
	defer stmt.Close()

	for _, p := range postings {
		m := mapping.ToModelPosting(p)
		if _, err := stmt.ExecContext(ctx, m.PostingID, m.JournalID, m.AccountID, m.BatchID, m.Amount, m.Seq, m.FITID, m.Ref, m.Memo, m.ExternalTransactionID); err != nil {
			return apperrors.NewStoreError("insert posting "+m.PostingID, err)
		}
	}
	return nil
}

// FindJournalByID retrieves a journal with its postings, largest amount first.
func (r *SQLiteJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := scanJournal(r.DB.QueryRowContext(ctx, `SELECT `+journalColumns+` FROM journals WHERE journal_id = ?;`, journalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find journal "+journalID, err)
	}

	journal.Postings, err = r.queryPostings(ctx, "find postings of journal "+journalID,
		postingSelect+` WHERE p.journal_id = ? ORDER BY p.seq;`, journalID)
	if err != nil {
		return nil, err
	}
	// Amounts are stored as TEXT, so the numeric order is applied here.
	domain.SortPostings(journal.Postings)
	return &journal, nil
}

// ListJournals retrieves journals newest first with cursor pagination.
func (r *SQLiteJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	query := `SELECT ` + journalColumns + ` FROM journals`
	args := []any{}
	if nextToken != nil && *nextToken != "" {
		lastTimestamp, lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		query += ` WHERE (occurred_at, created_at, journal_id) < (?, ?, ?)`
		args = append(args, utc(lastTimestamp), utc(lastCreatedAt), lastID)
	}
	query += ` ORDER BY occurred_at DESC, created_at DESC, journal_id DESC LIMIT ?;`
	args = append(args, fetchLimit)

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewStoreError("list journals", err)
	}
	journals := make([]domain.Journal, 0, fetchLimit)
	for rows.Next() {
		j, scanErr := scanJournal(rows)
		if scanErr != nil {
			rows.Close()
			return nil, nil, apperrors.NewStoreError("list journals", scanErr)
		}
		journals = append(journals, j)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, nil, apperrors.NewStoreError("list journals", err)
	}

	var nextTokenVal *string
	if len(journals) > limit {
		journals = journals[:limit]
		last := journals[limit-1]
		token := pagination.EncodeToken(last.Timestamp, last.CreatedAt, last.JournalID)
		nextTokenVal = &token
	}

	if len(journals) > 0 {
		ids := make([]string, len(journals))
		index := make(map[string]int, len(journals))
		for i, j := range journals {
			ids[i] = j.JournalID
			index[j.JournalID] = i
		}
		placeholders, idArgs := inPlaceholders(ids)
		postings, err := r.queryPostings(ctx, "load postings for journals",
			postingSelect+` WHERE p.journal_id IN (`+placeholders+`) ORDER BY p.journal_id, p.seq;`, idArgs...)
		if err != nil {
			return nil, nil, err
		}
		for _, p := range postings {
			i := index[p.JournalID]
			journals[i].Postings = append(journals[i].Postings, p)
		}
		for i := range journals {
			domain.SortPostings(journals[i].Postings)
		}
	}
	return journals, nextTokenVal, nil
}

// ListPostingsByAccount retrieves an account's postings in sequence order.
func (r *SQLiteJournalRepository) ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return r.queryPostings(ctx, "list postings for account "+accountID,
		postingSelect+` WHERE p.account_id = ? ORDER BY p.seq LIMIT ? OFFSET ?;`, accountID, limit, offset)
}

func (r *SQLiteJournalRepository) count(ctx context.Context, table string) (int64, error) {
	var n int64
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+`;`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreError("count "+table, err)
	}
	return n, nil
}

// CountJournals returns the number of journal rows.
func (r *SQLiteJournalRepository) CountJournals(ctx context.Context) (int64, error) {
	return r.count(ctx, "journals")
}

// CountPostings returns the number of posting rows.
func (r *SQLiteJournalRepository) CountPostings(ctx context.Context) (int64, error) {
	return r.count(ctx, "postings")
}

// VoidJournal sets the void flag of a journal that is not void yet.
func (r *SQLiteJournalRepository) VoidJournal(ctx context.Context, journalID string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE journals SET void = 1 WHERE journal_id = ? AND void = 0;`, journalID)
	if err != nil {
		return apperrors.NewStoreError("void journal "+journalID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("void journal "+journalID, err)
	}
	if affected == 0 {
		var exists bool
		if err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM journals WHERE journal_id = ?);`, journalID).Scan(&exists); err != nil {
			return apperrors.NewStoreError("void journal "+journalID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: journal %s is already void", apperrors.ErrValidation, journalID)
	}
	return nil
}
