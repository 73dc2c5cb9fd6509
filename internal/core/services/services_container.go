package services

import (
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/importer"
	"github.com/SscSPs/recordsheet/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// A nil registry means the built-in parsers only.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, registry *importer.Registry, options ...ServiceOption) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, options...)

	// The import pipeline writes through the store service so dedup lives in one place
	container.ExternalTransaction = NewExternalTransactionService(repos.ExternalTransactionRepo, repos.TxManager, options...)
	container.Import = NewImportService(registry, repos.AccountRepo, container.ExternalTransaction, options...)

	container.Journal = NewJournalService(repos.JournalRepo, repos.TxManager, cfg.PostingTimeout, options...)
	container.Reporting = NewReportingService(repos.ReportingRepo, repos.AccountRepo, options...)

	return container
}
