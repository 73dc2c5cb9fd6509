package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the SQLite repositories around one database handle.
// Close closes the handle.
func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:             newSQLiteAccountRepository(db),
		ExternalTransactionRepo: newSQLiteExternalTransactionRepository(db),
		JournalRepo:             newSQLiteJournalRepository(db),
		ReportingRepo:           newReportingRepository(db),
		TxManager:               newSQLiteTransactionManager(db),
		Close:                   func() { _ = db.Close() },
	}
}
