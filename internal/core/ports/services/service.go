package services

// ServiceContainer holds instances of all the application services.
// This is the main entry point for accessing service functionality and
// is used throughout the application, particularly in the handlers and CLI commands.
type ServiceContainer struct {
	Account             AccountSvcFacade
	ExternalTransaction ExternalTransactionSvcFacade
	Journal             JournalSvcFacade
	Import              ImportSvc
	Reporting           ReportingService
}
