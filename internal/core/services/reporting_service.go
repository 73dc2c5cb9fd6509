package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
)

const (
	incomeSegment   = "INCOME"
	expensesSegment = "EXPENSES"
)

type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	accountRepo   portsrepo.AccountReader
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository, accountRepo portsrepo.AccountReader, options ...ServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: reportingRepo,
		accountRepo:   accountRepo,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// TrialBalance sums every account over non-void journals dated up to asOf.
func (s *reportingService) TrialBalance(ctx context.Context, asOf *time.Time) (*domain.TrialBalance, error) {
	at := s.now()
	if asOf != nil {
		at = asOf.UTC()
	}

	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, at)
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance data", slog.Time("as_of", at))
		return nil, fmt.Errorf("failed to get trial balance data: %w", err)
	}
	if rows == nil {
		rows = []domain.TrialBalanceRow{}
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.Balance)
	}
	if !total.IsZero() {
		s.GetLogger(ctx).Error("Trial balance does not net to zero", slog.String("total", total.String()))
	}

	return &domain.TrialBalance{AsOf: at, Rows: rows, Total: total}, nil
}

// ProfitAndLoss reports ENTITY:INCOME:* and ENTITY:EXPENSES:* for one calendar year.
// Amounts keep the ledger sign, so income is positive and expenses negative and
// the net is their sum.
func (s *reportingService) ProfitAndLoss(ctx context.Context, entity string, year int) (*domain.ProfitAndLoss, error) {
	entity = domain.NormalizeAccountName(entity)
	if entity == "" {
		return nil, fmt.Errorf("%w: entity is required", apperrors.ErrValidation)
	}
	if year < 1 || year > 9999 {
		return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrValidation, year)
	}

	from, to := domain.YearRange(year)
	logger := s.GetLogger(ctx).With(slog.String("entity", entity), slog.Int("year", year))

	income, err := s.reportingRepo.GetAccountAmounts(ctx, entity+domain.AccountNameSeparator+incomeSegment+domain.AccountNameSeparator, from, to)
	if err != nil {
		logger.Error("Failed to get income amounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get income accounts: %w", err)
	}
	expenses, err := s.reportingRepo.GetAccountAmounts(ctx, entity+domain.AccountNameSeparator+expensesSegment+domain.AccountNameSeparator, from, to)
	if err != nil {
		logger.Error("Failed to get expense amounts", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get expense accounts: %w", err)
	}
	if income == nil {
		income = []domain.AccountAmount{}
	}
	if expenses == nil {
		expenses = []domain.AccountAmount{}
	}

	report := &domain.ProfitAndLoss{
		Entity:        entity,
		From:          from,
		To:            to,
		Income:        income,
		Expenses:      expenses,
		TotalIncome:   sumAmounts(income),
		TotalExpenses: sumAmounts(expenses),
	}
	report.NetIncome = report.TotalIncome.Add(report.TotalExpenses)

	logger.Debug("Profit and loss generated", slog.String("net_income", report.NetIncome.String()))
	return report, nil
}

func (s *reportingService) ListEntities(ctx context.Context) ([]domain.Account, error) {
	entities, err := s.accountRepo.ListEntities(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list entities")
		return nil, fmt.Errorf("failed to list entities: %w", err)
	}
	if entities == nil {
		return []domain.Account{}, nil
	}
	return entities, nil
}

func (s *reportingService) AccountBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	balance, err := s.reportingRepo.GetAccountBalance(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get account balance", slog.String("account_id", accountID))
		return decimal.Zero, fmt.Errorf("failed to get account balance: %w", err)
	}
	return balance, nil
}

func sumAmounts(amounts []domain.AccountAmount) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	return total
}
