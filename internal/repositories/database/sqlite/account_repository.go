package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/SscSPs/recordsheet/internal/models"
	"github.com/SscSPs/recordsheet/internal/utils/mapping"
)

const accountColumns = `account_id, name, description, closed, posting_seq, created_at, created_by, last_updated_at, last_updated_by`

type SQLiteAccountRepository struct {
	BaseRepository
}

func newSQLiteAccountRepository(db *sql.DB) *SQLiteAccountRepository {
	return &SQLiteAccountRepository{BaseRepository{DB: db}}
}

var (
	_ portsrepo.AccountRepositoryFacade = (*SQLiteAccountRepository)(nil)
	_ portsrepo.AccountTxRepository     = (*SQLiteAccountRepository)(nil)
)

func scanAccount(row rowScanner) (domain.Account, error) {
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

func (r *SQLiteAccountRepository) queryAccounts(ctx context.Context, op, query string, args ...any) ([]domain.Account, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, apperrors.NewStoreError(op, err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStoreError(op, err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *SQLiteAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO accounts (account_id, name, description, closed, posting_seq, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (?, ?, ?, ?, 0, ?, ?, ?, ?);`,
		m.AccountID, m.Name, m.Description, m.Closed,
		utc(m.CreatedAt), m.CreatedBy, utc(m.LastUpdatedAt), m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err, "accounts.name") {
			return fmt.Errorf("%w: %s", apperrors.ErrDuplicateName, m.Name)
		}
		if isUniqueViolation(err, "") {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return apperrors.NewStoreError("save account "+m.AccountID, err)
	}
	return nil
}

func (r *SQLiteAccountRepository) findOne(ctx context.Context, op, where string, arg any) (*domain.Account, error) {
	acc, err := scanAccount(r.DB.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE `+where+`;`, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewStoreError(op, err)
	}
	return &acc, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *SQLiteAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by ID "+accountID, "account_id = ?", accountID)
}

// FindAccountByName retrieves an account by its stored (upper-cased) name.
func (r *SQLiteAccountRepository) FindAccountByName(ctx context.Context, name string) (*domain.Account, error) {
	return r.findOne(ctx, "find account by name "+name, "name = ?", name)
}

// ListAccounts retrieves a page of accounts ordered by name.
func (r *SQLiteAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return r.queryAccounts(ctx, "list accounts",
		`SELECT `+accountColumns+` FROM accounts ORDER BY name LIMIT ? OFFSET ?;`, limit, offset)
}

// ListEntities retrieves the accounts whose name has no separator.
func (r *SQLiteAccountRepository) ListEntities(ctx context.Context) ([]domain.Account, error) {
	return r.queryAccounts(ctx, "list entities",
		`SELECT `+accountColumns+` FROM accounts WHERE instr(name, ?) = 0 ORDER BY name;`, domain.AccountNameSeparator)
}

// CloseAccount marks an open account as closed.
func (r *SQLiteAccountRepository) CloseAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE accounts SET closed = 1, last_updated_at = ?, last_updated_by = ? WHERE account_id = ? AND closed = 0;`,
		utc(now), userID, accountID)
	if err != nil {
		return apperrors.NewStoreError("close account "+accountID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apperrors.NewStoreError("close account "+accountID, err)
	}
	if affected == 0 {
		if _, findErr := r.FindAccountByID(ctx, accountID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: account %s is already closed", apperrors.ErrValidation, accountID)
	}
	return nil
}

// FindAccountsForUpdate resolves ids and names to accounts. The surrounding immediate
// transaction already holds the database write lock.
func (r *SQLiteAccountRepository) FindAccountsForUpdate(ctx context.Context, ids []string, names []string) ([]domain.Account, error) {
	if len(ids) == 0 && len(names) == 0 {
		return []domain.Account{}, nil
	}

	// An empty IN () list is valid SQLite and matches nothing.
	idPlaceholders, idArgs := inPlaceholders(ids)
	namePlaceholders, nameArgs := inPlaceholders(names)
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE account_id IN (` + idPlaceholders + `) OR name IN (` + namePlaceholders + `)
		ORDER BY account_id;`
	return r.queryAccounts(ctx, "lock accounts", query, append(idArgs, nameArgs...)...)
}

// ReserveSequences advances the account's posting counter by n and returns the first value reserved.
func (r *SQLiteAccountRepository) ReserveSequences(ctx context.Context, accountID string, n int) (int64, error) {
	if n <= 0 {
		return 0, fmt.Errorf("%w: cannot reserve %d sequences", apperrors.ErrValidation, n)
	}
	var last int64
	err := r.DB.QueryRowContext(ctx,
		`UPDATE accounts SET posting_seq = posting_seq + ? WHERE account_id = ? RETURNING posting_seq;`,
		n, accountID).Scan(&last)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, accountID)
		}
		return 0, apperrors.NewStoreError("reserve sequences for "+accountID, err)
	}
	return last - int64(n) + 1, nil
}
