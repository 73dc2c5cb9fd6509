package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/models"
	"github.com/SscSPs/recordsheet/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, description, closed, posting_seq, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository{DB: pool}}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)
	_ portsrepo.AccountTxRepository     = (*PgxAccountRepository)(nil)
)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Description,
		&m.Closed,
		&m.PostingSeq,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (account_id, name, description, closed, posting_seq, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, 0, $5, $6, $7, $8);
	`
	_, err := r.DB.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Description,
		m.Closed,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "accounts_name_key") {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateName, m.Name)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return apperrors.NewStoreError("save account "+m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	acc, err := scanAccount(r.DB.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find account by ID "+accountID, err)
	}
	return &acc, nil
}

// FindAccountByName retrieves an account by its stored (upper-cased) name.
func (r *PgxAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE name = $1;`
	acc, err := scanAccount(r.DB.QueryRow(ctx, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError("find account by name "+name, err)
	}
	return &acc, nil
}

// ListAccounts retrieves a page of accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("list accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, apperrors.NewStoreError("list accounts", err)
	}
	return accounts, nil
}

// ListEntities retrieves the accounts whose name has no separator.
func (r *PgxAccountRepository) ListEntities(ctx context.Context) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE strpos(name, $1) = 0 ORDER BY name;`
	rows, err := r.DB.Query(ctx, query, domain.AccountNameSeparator)
	if err != nil {
		return nil, apperrors.NewStoreError("list entities", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, apperrors.NewStoreError("list entities", err)
	}
	return accounts, nil
}

// CloseAccount marks an open account as closed.
func (r *PgxAccountRepository) CloseAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET closed = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE account_id = $1 AND closed = FALSE;
	`
	cmdTag, err := r.DB.Exec(ctx, query, accountID, now, userID)
	if err != nil {
		return apperrors.NewStoreError("close account "+accountID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Either the account does not exist or it was already closed.
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrValidation, accountID)
	}
	return nil
}

// FindAccountsForUpdate resolves ids and names and locks the matching rows in account_id order,
// so concurrent units of work touching the same accounts cannot deadlock.
func (r *PgxAccountRepository) FindAccountsForUpdate(ctx context.Context, ids []string, names []string) ([]domain.Account, error) {
	if len(ids) == 0 && len(names) == 0 {
		return []domain.Account{}, nil
	}
	if ids == nil {
		ids = []string{}
	}
	if names == nil {
		names = []string{}
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1) OR name = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := r.DB.Query(ctx, query, ids, names)
	if err != nil {
		return nil, apperrors.NewStoreError("lock accounts", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, apperrors.NewStoreError("lock accounts", err)
	}
	return accounts, nil
}

// ReserveSequences advances the account's posting counter by n and returns the first value reserved.
func (r *PgxAccountRepository) ReserveSequences(ctx context.Context, accountID string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: cannot reserve %d sequences", apperrors.ErrValidation, n)
	}

	query := `UPDATE accounts SET posting_seq = posting_seq + $2 WHERE account_id = $1 RETURNING posting_seq;`
	var last int64
	if err := r.DB.QueryRow(ctx, query, accountID, n).Scan(&last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, accountID)
		}
		return 0, apperrors.NewStoreError("reserve sequences for "+accountID, err)
	}
	return last - int64(n) + 1, nil
}
