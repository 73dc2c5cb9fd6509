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
	"github.com/SscSPs/recordsheet/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	journalColumns = `journal_id, occurred_at, memo, batch_id, void, created_at`

	// postingSelect joins the account name and journal fields every posting read returns.
	postingSelect = `
		SELECT p.posting_id, p.journal_id, p.account_id, p.batch_id, p.amount, p.seq,
		       p.fitid, p.ref, p.memo, p.external_transaction_id,
		       a.name, j.occurred_at, j.void
		FROM postings p
		JOIN accounts a ON a.account_id = p.account_id
		JOIN journals j ON j.journal_id = p.journal_id
	`
)

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal and posting data.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository{DB: pool}}
}

var (
	_ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)
	_ portsrepo.JournalTxRepository     = (*PgxJournalRepository)(nil)
	_ portsrepo.BatchTxRepository       = (*PgxJournalRepository)(nil)
)

func scanJournal(row pgx.Row) (domain.Journal, error) {
	var m models.Journal
	if err := row.Scan(&m.JournalID, &m.Timestamp, &m.Memo, &m.BatchID, &m.Void, &m.CreatedAt); err != nil {
		return domain.Journal{}, err
	}
	return mapping.ToDomainJournal(m), nil
}

func scanPostings(rows pgx.Rows) ([]domain.Posting, error) {
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
			return nil, fmt.Errorf("failed to scan posting row: %w", err)
		}
		postings = append(postings, mapping.ToDomainPosting(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting rows: %w", err)
	}
	return postings, nil
}

// EnsureBatch inserts the batch unless an earlier journal already did.
func (r *PgxJournalRepository) EnsureBatch(ctx context.Context, batch domain.Batch) error {
	m := mapping.ToModelBatch(batch)
	_, err := r.DB.Exec(ctx,
		`INSERT INTO batches (batch_id, user_id, created_at) VALUES ($1, $2, $3) ON CONFLICT (batch_id) DO NOTHING;`,
		m.BatchID, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewStoreError("ensure batch "+m.BatchID, err)
	}
	return nil
}

// InsertJournal inserts the journal row.
func (r *PgxJournalRepository) InsertJournal(ctx context.Context, journal domain.Journal) error {
	m := mapping.ToModelJournal(journal)
	_, err := r.DB.Exec(ctx,
		`INSERT INTO journals (`+journalColumns+`) VALUES ($1, $2, $3, $4, $5, $6);`,
		m.JournalID, m.Timestamp, m.Memo, m.BatchID, m.Void, m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewStoreError("insert journal "+m.JournalID, err)
	}
	return nil
}

// InsertPostings inserts all postings of a journal in one batch.
func (r *PgxJournalRepository) InsertPostings(ctx context.Context, postings []domain.Posting) error {
	if len(postings) == 0 {
		return nil
	}

	query := `
		INSERT INTO postings (posting_id, journal_id, account_id, batch_id, amount, seq, fitid, ref, memo, external_transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	batch := &pgx.Batch{}
	for _, p := range postings {
		m := mapping.ToModelPosting(p)
		batch.Queue(query, m.PostingID, m.JournalID, m.AccountID, m.BatchID, m.Amount, m.Seq, m.FITID, m.Ref, m.Memo, m.ExternalTransactionID)
	}

	// Close reports the first failing statement of the batch.
	if err := r.DB.SendBatch(ctx, batch).Close(); err != nil {
		return apperrors.NewStoreError("insert postings for journal "+postings[0].JournalID, err)
	}
	return nil
}

// FindJournalByID retrieves a journal with its postings, largest amount first.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := scanJournal(r.DB.QueryRow(ctx, `SELECT `+journalColumns+` FROM journals WHERE journal_id = $1;`, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find journal "+journalID, err)
	}

	rows, err := r.DB.Query(ctx, postingSelect+` WHERE p.journal_id = $1 ORDER BY p.amount DESC, p.seq;`, journalID)
	if err != nil {
		return nil, apperrors.NewStoreError("find postings of journal "+journalID, err)
	}
	if journal.Postings, err = scanPostings(rows); err != nil {
		return nil, apperrors.NewStoreError("find postings of journal "+journalID, err)
	}
	return &journal, nil
}

// ListJournals retrieves journals newest first. The token encodes the sort keys of the last row
// of the previous page.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var (
		rows pgx.Rows
		err  error
	)
	if nextToken != nil && *nextToken != "" {
		lastTimestamp, lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		rows, err = r.DB.Query(ctx, `
			SELECT `+journalColumns+` FROM journals
			WHERE (occurred_at, created_at, journal_id) < ($1, $2, $3)
			ORDER BY occurred_at DESC, created_at DESC, journal_id DESC
			LIMIT $4;`,
			lastTimestamp, lastCreatedAt, lastID, fetchLimit)
	} else {
		rows, err = r.DB.Query(ctx, `
			SELECT `+journalColumns+` FROM journals
			ORDER BY occurred_at DESC, created_at DESC, journal_id DESC
			LIMIT $1;`,
			fetchLimit)
	}
	if err != nil {
		return nil, nil, apperrors.NewStoreError("list journals", err)
	}

	journals := make([]domain.Journal, 0, fetchLimit)
	func() {
		defer rows.Close()
		for rows.Next() {
			j, scanErr := scanJournal(rows)
			if scanErr != nil {
				err = scanErr
				return
			}
			journals = append(journals, j)
		}
		err = rows.Err()
	}()
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

	if err := r.attachPostings(ctx, journals); err != nil {
		return nil, nil, err
	}
	return journals, nextTokenVal, nil
}

// attachPostings loads the postings of a page of journals in one query.
func (r *PgxJournalRepository) attachPostings(ctx context.Context, journals []domain.Journal) error {
	if len(journals) == 0 {
		return nil
	}
	ids := make([]string, len(journals))
	index := make(map[string]int, len(journals))
	for i, j := range journals {
		ids[i] = j.JournalID
		index[j.JournalID] = i
	}

	rows, err := r.DB.Query(ctx, postingSelect+` WHERE p.journal_id = ANY($1) ORDER BY p.journal_id, p.amount DESC, p.seq;`, ids)
	if err != nil {
		return apperrors.NewStoreError("load postings for journals", err)
	}
	postings, err := scanPostings(rows)
	if err != nil {
		return apperrors.NewStoreError("load postings for journals", err)
	}
	for _, p := range postings {
		i := index[p.JournalID]
		journals[i].Postings = append(journals[i].Postings, p)
	}
	return nil
}

// ListPostingsByAccount retrieves an account's postings in sequence order.
func (r *PgxJournalRepository) ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.DB.Query(ctx, postingSelect+` WHERE p.account_id = $1 ORDER BY p.seq LIMIT $2 OFFSET $3;`, accountID, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("list postings for account "+accountID, err)
	}
	postings, err := scanPostings(rows)
	if err != nil {
		return nil, apperrors.NewStoreError("list postings for account "+accountID, err)
	}
	return postings, nil
}

// CountJournals returns the number of journal rows.
func (r *PgxJournalRepository) CountJournals(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM journals;`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreError("count journals", err)
	}
	return n, nil
}

// CountPostings returns the number of posting rows.
func (r *PgxJournalRepository) CountPostings(ctx context.Context) (int64, error) {
	var n int64
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM postings;`).Scan(&n); err != nil {
		return 0, apperrors.NewStoreError("count postings", err)
	}
	return n, nil
}

// VoidJournal sets the void flag of a journal that is not void yet.
func (r *PgxJournalRepository) VoidJournal(ctx context.Context, journalID string) error {
	cmdTag, err := r.DB.Exec(ctx, `UPDATE journals SET void = TRUE WHERE journal_id = $1 AND void = FALSE;`, journalID)
	if err != nil {
		return apperrors.NewStoreError("void journal "+journalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		var exists bool
		if err := r.DB.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM journals WHERE journal_id = $1);`, journalID).Scan(&exists); err != nil {
			return apperrors.NewStoreError("void journal "+journalID, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: journal %s is already void", apperrors.ErrValidation, journalID)
	}
	return nil
}
