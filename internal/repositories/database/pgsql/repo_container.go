package pgsql

import (
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the PostgreSQL repositories around one pool.
// Close releases the pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:             newPgxAccountRepository(dbPool),
		ExternalTransactionRepo: newPgxExternalTransactionRepository(dbPool),
		JournalRepo:             newPgxJournalRepository(dbPool),
		ReportingRepo:           newReportingRepository(dbPool),
		TxManager:               newPgxTransactionManager(dbPool),
		Close:                   dbPool.Close,
	}
}
