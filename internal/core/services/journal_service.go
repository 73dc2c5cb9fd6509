package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/recordsheet/internal/apperrors"
	"github.com/SscSPs/recordsheet/internal/core/domain"
	portsrepo "github.com/SscSPs/recordsheet/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/recordsheet/internal/core/ports/services"
	"github.com/SscSPs/recordsheet/internal/metrics"
)

const (
	defaultJournalPageSize = 20
	defaultPostingPageSize = 100
)

// journalService is the posting engine plus the journal read side.
type journalService struct {
	BaseService
	journalRepo    portsrepo.JournalRepositoryFacade
	txManager      portsrepo.TransactionManager
	postingTimeout time.Duration
}

// NewJournalService creates the posting engine. A zero postingTimeout leaves the caller's
// deadline as the only limit.
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, txManager portsrepo.TransactionManager, postingTimeout time.Duration, options ...ServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo:    journalRepo,
		txManager:      txManager,
		postingTimeout: postingTimeout,
	}
	applyOptions(&svc.BaseService, options)
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// NewBatch starts a batch. Nothing is written until its first journal commits.
func (s *journalService) NewBatch(userID string) domain.Batch {
	return domain.Batch{
		BatchID:   uuid.NewString(),
		UserID:    userID,
		CreatedAt: s.now(),
	}
}

// NewTransaction validates the proposed postings and commits them as one journal.
// Validation runs in a fixed order: structure, account resolution, consumption of linked
// records, balance. Nothing is written unless every check passes.
func (s *journalService) NewTransaction(ctx context.Context, batch domain.Batch, postings []domain.PostingInput, timestamp *time.Time, memo string) (*domain.Journal, error) {
	start := time.Now()
	journal, err := s.newTransaction(ctx, batch, postings, timestamp, memo)
	s.Metrics.RecordPosting(metrics.PostingOutcome(err), len(postings), time.Since(start))

	if err != nil {
		if apperrors.IsDomainError(err) {
			s.LogWarn(ctx, err, "Journal rejected", slog.String("batch_id", batch.BatchID), slog.Int("postings", len(postings)))
		} else {
			s.LogError(ctx, err, "Failed to commit journal", slog.String("batch_id", batch.BatchID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Journal committed",
		slog.String("journal_id", journal.JournalID),
		slog.String("batch_id", journal.BatchID),
		slog.Int("postings", len(journal.Postings)))
	return journal, nil
}

func (s *journalService) newTransaction(ctx context.Context, batch domain.Batch, inputs []domain.PostingInput, timestamp *time.Time, memo string) (*domain.Journal, error) {
	memo = strings.TrimSpace(memo)
	inputs, err := validateStructure(batch, inputs, memo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	journal := domain.Journal{
		JournalID: uuid.NewString(),
		Timestamp: now,
		Memo:      memo,
		BatchID:   batch.BatchID,
		CreatedAt: now,
	}
	if timestamp != nil {
		journal.Timestamp = timestamp.UTC()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = now
	}

	if s.postingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.postingTimeout)
		defer cancel()
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context, uow portsrepo.UnitOfWork) error {
		plan, err := resolve(ctx, uow, inputs)
		if err != nil {
			return err
		}
		if sum := plan.sum(); !sum.IsZero() {
			return &apperrors.UnbalancedError{Sum: sum}
		}

		journal.Postings = plan.materialize(journal)
		if linked := plan.linkedIDs(); len(linked) > 0 {
			if err := uow.ExternalTransactions().MarkPosted(ctx, linked); err != nil {
				return err
			}
		}

		return commit(ctx, uow, batch, &journal)
	})
	if err != nil {
		return nil, err
	}
	return &journal, nil
}

// validateStructure checks everything that needs no store access. It returns the inputs
// with pointer variants dereferenced.
func validateStructure(batch domain.Batch, inputs []domain.PostingInput, memo string) ([]domain.PostingInput, error) {
	if len(inputs) < 2 {
		return nil, fmt.Errorf("%w: at least two postings required", apperrors.ErrInvalidTransaction)
	}
	if memo == "" {
		return nil, fmt.Errorf("%w: memo required", apperrors.ErrInvalidTransaction)
	}
	if batch.BatchID == "" {
		return nil, fmt.Errorf("%w: batch id required", apperrors.ErrInvalidTransaction)
	}

	normalized := make([]domain.PostingInput, len(inputs))
	linked := make(map[string]int)
	for i, input := range inputs {
		switch p := input.(type) {
		case *domain.NewPosting:
			if p == nil {
				return nil, apperrors.NewPostingError(i, "", apperrors.ErrInvalidTransaction)
			}
			input = *p
		case *domain.LinkedPosting:
			if p == nil {
				return nil, apperrors.NewPostingError(i, "", apperrors.ErrInvalidTransaction)
			}
			input = *p
		}

		switch p := input.(type) {
		case domain.NewPosting:
			if p.Account.IsZero() {
				return nil, apperrors.NewPostingError(i, "account", fmt.Errorf("%w: account reference required", apperrors.ErrInvalidTransaction))
			}
		case domain.LinkedPosting:
			if p.ExternalTransactionID == "" {
				return nil, apperrors.NewPostingError(i, "externalTransactionID", fmt.Errorf("%w: external transaction id required", apperrors.ErrInvalidTransaction))
			}
			if p.Account != nil && p.Account.IsZero() {
				return nil, apperrors.NewPostingError(i, "account", fmt.Errorf("%w: account reference is empty", apperrors.ErrInvalidTransaction))
			}
			if first, dup := linked[p.ExternalTransactionID]; dup {
				return nil, apperrors.NewPostingError(i, "externalTransactionID",
					fmt.Errorf("%w: external transaction %s already used by posting %d", apperrors.ErrInvalidTransaction, p.ExternalTransactionID, first))
			}
			linked[p.ExternalTransactionID] = i
		default:
			return nil, apperrors.NewPostingError(i, "", fmt.Errorf("%w: unsupported posting input %T", apperrors.ErrInvalidTransaction, input))
		}
		normalized[i] = input
	}
	return normalized, nil
}

// plannedPosting is one input with its account and, when linked, its external record.
type plannedPosting struct {
	input   domain.PostingInput
	account domain.Account
	record  *domain.ExternalTransaction
}

type postingPlan []plannedPosting

// resolve locks the linked records first and then the accounts, both in id order, and
// checks that every reference is usable.
func resolve(ctx context.Context, uow portsrepo.UnitOfWork, inputs []domain.PostingInput) (postingPlan, error) {
	var linkedIDs []string
	for _, input := range inputs {
		if p, ok := input.(domain.LinkedPosting); ok {
			linkedIDs = append(linkedIDs, p.ExternalTransactionID)
		}
	}

	records := map[string]domain.ExternalTransaction{}
	if len(linkedIDs) > 0 {
		found, err := uow.ExternalTransactions().FindExternalTransactionsForUpdate(ctx, linkedIDs)
		if err != nil {
			return nil, err
		}
		records = found
	}

	plan := make(postingPlan, len(inputs))
	refs := make([]domain.AccountRef, len(inputs))
	for i, input := range inputs {
		plan[i].input = input
		switch p := input.(type) {
		case domain.NewPosting:
			refs[i] = p.Account
		case domain.LinkedPosting:
			rec, ok := records[p.ExternalTransactionID]
			if !ok {
				return nil, apperrors.NewPostingError(i, "externalTransactionID",
					fmt.Errorf("%w: unknown external transaction %s", apperrors.ErrInvalidTransaction, p.ExternalTransactionID))
			}
			plan[i].record = &rec
			switch {
			case p.Account != nil:
				refs[i] = *p.Account
			case rec.AccountID != nil && *rec.AccountID != "":
				refs[i] = domain.ByID(*rec.AccountID)
			default:
				return nil, apperrors.NewPostingError(i, "account",
					fmt.Errorf("%w: external transaction %s has no account and none was given", apperrors.ErrInvalidTransaction, p.ExternalTransactionID))
			}
		}
	}

	if err := plan.resolveAccounts(ctx, uow, refs); err != nil {
		return nil, err
	}

	for i, planned := range plan {
		if planned.record != nil && planned.record.Posted {
			return nil, apperrors.NewPostingError(i, "externalTransactionID",
				fmt.Errorf("%w: %s", apperrors.ErrAlreadyPosted, planned.record.ID))
		}
	}
	return plan, nil
}

func (plan postingPlan) resolveAccounts(ctx context.Context, uow portsrepo.UnitOfWork, refs []domain.AccountRef) error {
	idSet := make(map[string]struct{})
	nameSet := make(map[string]struct{})
	for _, ref := range refs {
		if ref.Kind == domain.AccountRefByID {
			idSet[ref.Value] = struct{}{}
		} else {
			nameSet[ref.Value] = struct{}{}
		}
	}

	accounts, err := uow.Accounts().FindAccountsForUpdate(ctx, sortedKeys(idSet), sortedKeys(nameSet))
	if err != nil {
		return err
	}
	byID := make(map[string]domain.Account, len(accounts))
	byName := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		byID[acc.AccountID] = acc
		byName[acc.Name] = acc
	}

	for i, ref := range refs {
		var acc domain.Account
		var ok bool
		if ref.Kind == domain.AccountRefByID {
			acc, ok = byID[ref.Value]
		} else {
			acc, ok = byName[ref.Value]
		}
		if !ok {
			return apperrors.NewPostingError(i, "account", fmt.Errorf("%w: %s", apperrors.ErrUnknownAccount, ref))
		}
		if acc.Closed {
			return apperrors.NewPostingError(i, "account", fmt.Errorf("%w: %s", apperrors.ErrClosedAccount, acc.Name))
		}
		plan[i].account = acc
	}
	return nil
}

// sum is the exact total; linked postings contribute their stored amount.
func (plan postingPlan) sum() decimal.Decimal {
	total := decimal.Zero
	for _, planned := range plan {
		total = total.Add(planned.amount())
	}
	return total
}

func (p plannedPosting) amount() decimal.Decimal {
	if p.record != nil {
		return p.record.Amount
	}
	return p.input.(domain.NewPosting).Amount
}

func (plan postingPlan) linkedIDs() []string {
	var ids []string
	for _, planned := range plan {
		if planned.record != nil {
			ids = append(ids, planned.record.ID)
		}
	}
	return ids
}

// materialize builds the posting rows. Sequences are assigned at commit.
func (plan postingPlan) materialize(journal domain.Journal) []domain.Posting {
	postings := make([]domain.Posting, len(plan))
	for i, planned := range plan {
		posting := domain.Posting{
			PostingID:        uuid.Must(uuid.NewV7()).String(),
			AccountID:        planned.account.AccountID,
			AccountName:      planned.account.Name,
			JournalID:        journal.JournalID,
			BatchID:          journal.BatchID,
			Amount:           planned.amount(),
			Memo:             journal.Memo,
			JournalTimestamp: journal.Timestamp,
		}
		switch p := planned.input.(type) {
		case domain.NewPosting:
			if memo := strings.TrimSpace(p.Memo); memo != "" {
				posting.Memo = memo
			}
		case domain.LinkedPosting:
			rec := planned.record
			posting.FITID = rec.ExternalID
			posting.Ref = rec.Ref
			posting.Memo = rec.Memo
			if p.MemoOverride != nil {
				if memo := strings.TrimSpace(*p.MemoOverride); memo != "" {
					posting.Memo = memo
				}
			}
			id := rec.ID
			posting.ExternalTransactionID = &id
		}
		postings[i] = posting
	}
	return postings
}

// commit writes the batch, the journal and its postings. Per-account sequence blocks are
// reserved in account id order so concurrent commits take the counters in the same order.
func commit(ctx context.Context, uow portsrepo.UnitOfWork, batch domain.Batch, journal *domain.Journal) error {
	if err := uow.Batches().EnsureBatch(ctx, batch); err != nil {
		return err
	}
	if err := uow.Journals().InsertJournal(ctx, *journal); err != nil {
		return err
	}

	counts := make(map[string]int)
	for _, p := range journal.Postings {
		counts[p.AccountID]++
	}
	accountIDs := make([]string, 0, len(counts))
	for id := range counts {
		accountIDs = append(accountIDs, id)
	}
	sort.Strings(accountIDs)

	next := make(map[string]int64, len(counts))
	for _, id := range accountIDs {
		first, err := uow.Accounts().ReserveSequences(ctx, id, counts[id])
		if err != nil {
			return err
		}
		next[id] = first
	}
	for i := range journal.Postings {
		p := &journal.Postings[i]
		p.Sequence = next[p.AccountID]
		next[p.AccountID]++
	}

	return uow.Journals().InsertPostings(ctx, journal.Postings)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// VoidJournal marks a journal void. Its postings stay readable but leave every balance.
func (s *journalService) VoidJournal(ctx context.Context, journalID string) error {
	if err := s.journalRepo.VoidJournal(ctx, journalID); err != nil {
		if apperrors.IsDomainError(err) {
			s.LogWarn(ctx, err, "Journal not voided", slog.String("journal_id", journalID))
		} else {
			s.LogError(ctx, err, "Failed to void journal", slog.String("journal_id", journalID))
		}
		return err
	}
	s.LogInfo(ctx, "Journal voided", slog.String("journal_id", journalID))
	return nil
}

func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal", slog.String("journal_id", journalID))
		}
		return nil, err
	}
	return journal, nil
}

func (s *journalService) ListJournals(ctx context.Context, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = defaultJournalPageSize
	}
	journals, next, err := s.journalRepo.ListJournals(ctx, limit, nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list journals", slog.Int("limit", limit))
		}
		return nil, nil, err
	}
	if journals == nil {
		journals = []domain.Journal{}
	}
	return journals, next, nil
}

func (s *journalService) ListPostingsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Posting, error) {
	if limit <= 0 {
		limit = defaultPostingPageSize
	}
	if offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", apperrors.ErrValidation)
	}
	postings, err := s.journalRepo.ListPostingsByAccount(ctx, accountID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list postings", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list postings for account %s: %w", accountID, err)
	}
	if postings == nil {
		return []domain.Posting{}, nil
	}
	return postings, nil
}
