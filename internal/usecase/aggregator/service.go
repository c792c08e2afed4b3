package aggregator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	applog "github.com/finlens/finlens-backend/internal/log"
)

// StatementEvent is published after an aggregate row has been written so
// downstream consumers (report renderers, caches) can refresh.
type StatementEvent struct {
	CompanyID     uuid.UUID            `json:"company_id"`
	StatementType domain.StatementType `json:"statement_type"`
	PeriodStart   time.Time            `json:"period_start"`
	RowVersion    int64                `json:"row_version"`
	SourceRunID   string               `json:"source_run_id"`
}

// EventPublisher notifies downstream consumers of regenerated statements.
// A nil publisher disables notifications.
type EventPublisher interface {
	StatementRegenerated(ctx context.Context, event StatementEvent) error
}

// Service computes and persists versioned monthly statement aggregates.
type Service struct {
	CompanyRepo     domain.CompanyRepository
	AccountRepo     domain.AccountRepository
	TransactionRepo domain.TransactionRepository
	AggregateRepo   domain.MonthlyAggregateRepository

	catalog *domain.CategoryCatalog
	events  EventPublisher
	logger  *applog.Logger
	now     func() time.Time
}

// NewService creates a new aggregator Service instance. events may be nil.
func NewService(
	companyRepo domain.CompanyRepository,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	aggregateRepo domain.MonthlyAggregateRepository,
	catalog *domain.CategoryCatalog,
	events EventPublisher,
	logger *applog.Logger,
) *Service {
	return &Service{
		CompanyRepo:     companyRepo,
		AccountRepo:     accountRepo,
		TransactionRepo: transactionRepo,
		AggregateRepo:   aggregateRepo,
		catalog:         catalog,
		events:          events,
		logger:          logger,
		now:             time.Now,
	}
}

// SetCatalog swaps in a fresh catalog snapshot after a catalog edit.
func (s *Service) SetCatalog(catalog *domain.CategoryCatalog) {
	s.catalog = catalog
}

// SetClock overrides the time source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// GenerateProfitAndLoss computes and upserts the P&L aggregate for the
// period. Transactions are bucketed by the resolved category's canonical
// type; revenue, cogs and opex are the only buckets. Transactions on
// unmapped accounts, or not tied to any account, contribute to no bucket.
// Re-running with unchanged data writes identical totals and bumps the
// row version by one.
func (s *Service) GenerateProfitAndLoss(ctx context.Context, companyID uuid.UUID, periodStart, periodEnd time.Time, runID string) (uuid.UUID, error) {
	if err := validateArgs(companyID, periodStart, periodEnd, runID); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.CompanyRepo.GetByID(ctx, companyID); err != nil {
		return uuid.Nil, err
	}

	accounts, err := s.accountIndex(ctx, companyID)
	if err != nil {
		return uuid.Nil, err
	}

	transactions, err := s.TransactionRepo.ListByCompanyAndPeriod(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals := map[string]decimal.Decimal{
		domain.TotalKeyRevenue: decimal.Zero,
		domain.TotalKeyCOGS:    decimal.Zero,
		domain.TotalKeyOpex:    decimal.Zero,
	}

	for _, txn := range transactions {
		if txn.AccountID == nil {
			continue
		}
		account, ok := accounts[*txn.AccountID]
		if !ok || !account.Mapped() {
			continue
		}
		category := s.catalog.ByID(*account.MappingCategoryID)
		if category == nil {
			// Mapping points outside the current catalog snapshot.
			// Treat like an unmapped account rather than failing the
			// whole period; the next mapping run repairs it.
			s.logger.Warn("account mapping references unknown category",
				"account_id", account.ID,
				"category_id", *account.MappingCategoryID)
			continue
		}

		switch category.CanonicalType {
		case domain.CanonicalTypeRevenue:
			totals[domain.TotalKeyRevenue] = totals[domain.TotalKeyRevenue].Add(txn.Amount)
		case domain.CanonicalTypeCOGS:
			totals[domain.TotalKeyCOGS] = totals[domain.TotalKeyCOGS].Add(txn.Amount)
		case domain.CanonicalTypeOpex:
			totals[domain.TotalKeyOpex] = totals[domain.TotalKeyOpex].Add(txn.Amount)
		}
	}

	return s.persist(ctx, companyID, domain.StatementTypeProfitAndLoss, periodStart, periodEnd, totals, runID)
}

// GenerateCashFlow computes and upserts the cash flow aggregate for the
// period. Classification uses the raw account type, not the resolved
// category: operating covers the income and expense types, investing the
// asset types, financing the long-term liability and equity types. Types
// outside the three sets (for example Bank) contribute to no bucket.
func (s *Service) GenerateCashFlow(ctx context.Context, companyID uuid.UUID, periodStart, periodEnd time.Time, runID string) (uuid.UUID, error) {
	if err := validateArgs(companyID, periodStart, periodEnd, runID); err != nil {
		return uuid.Nil, err
	}
	if _, err := s.CompanyRepo.GetByID(ctx, companyID); err != nil {
		return uuid.Nil, err
	}

	accounts, err := s.accountIndex(ctx, companyID)
	if err != nil {
		return uuid.Nil, err
	}

	transactions, err := s.TransactionRepo.ListByCompanyAndPeriod(ctx, companyID, periodStart, periodEnd)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	totals := map[string]decimal.Decimal{
		domain.TotalKeyOperating: decimal.Zero,
		domain.TotalKeyInvesting: decimal.Zero,
		domain.TotalKeyFinancing: decimal.Zero,
	}

	for _, txn := range transactions {
		if txn.AccountID == nil {
			continue
		}
		account, ok := accounts[*txn.AccountID]
		if !ok {
			continue
		}
		if bucket, ok := cashFlowBucket(account.AccountType); ok {
			totals[bucket] = totals[bucket].Add(txn.Amount)
		}
	}

	return s.persist(ctx, companyID, domain.StatementTypeCashFlow, periodStart, periodEnd, totals, runID)
}

func (s *Service) accountIndex(ctx context.Context, companyID uuid.UUID) (map[uuid.UUID]*domain.Account, error) {
	accounts, err := s.AccountRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company accounts: %w", err)
	}
	index := make(map[uuid.UUID]*domain.Account, len(accounts))
	for _, account := range accounts {
		index[account.ID] = account
	}
	return index, nil
}

func (s *Service) persist(
	ctx context.Context,
	companyID uuid.UUID,
	statementType domain.StatementType,
	periodStart, periodEnd time.Time,
	totals map[string]decimal.Decimal,
	runID string,
) (uuid.UUID, error) {
	aggregate := &domain.MonthlyAggregate{
		CompanyID:     companyID,
		StatementType: statementType,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Totals:        totals,
		GeneratedAt:   s.now().UTC(),
		SourceRunID:   runID,
	}

	if err := s.AggregateRepo.Upsert(ctx, aggregate); err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert %s aggregate: %w", statementType, err)
	}

	s.logger.Info("statement aggregate written",
		"company_id", companyID,
		"statement_type", string(statementType),
		"period_start", periodStart.Format("2006-01-02"),
		"row_version", aggregate.RowVersion)

	if s.events != nil {
		event := StatementEvent{
			CompanyID:     companyID,
			StatementType: statementType,
			PeriodStart:   periodStart,
			RowVersion:    aggregate.RowVersion,
			SourceRunID:   runID,
		}
		if err := s.events.StatementRegenerated(ctx, event); err != nil {
			// Notifications are best effort; the aggregate is already
			// durable.
			s.logger.Error("failed to publish statement event", "error", err)
		}
	}

	return aggregate.ID, nil
}

// validateArgs enforces the aggregator preconditions before any read or
// write. A failure here means nothing was touched.
func validateArgs(companyID uuid.UUID, periodStart, periodEnd time.Time, runID string) error {
	if companyID == uuid.Nil {
		return fmt.Errorf("%w: company id is required", domain.ErrInvalidArgument)
	}
	if periodStart.IsZero() || periodEnd.IsZero() {
		return fmt.Errorf("%w: both period bounds are required", domain.ErrInvalidArgument)
	}
	if periodStart.After(periodEnd) {
		return fmt.Errorf("%w: period start is after period end", domain.ErrInvalidArgument)
	}
	if strings.TrimSpace(runID) == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidArgument)
	}
	return nil
}

// cashFlowBucket maps a raw account type to its cash flow bucket. The
// second return is false for types that belong to no bucket.
func cashFlowBucket(accountType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(accountType)) {
	case "income", "expense", "other income", "other expense", "cost of goods sold":
		return domain.TotalKeyOperating, true
	case "fixed asset", "other asset":
		return domain.TotalKeyInvesting, true
	case "long term liability", "equity":
		return domain.TotalKeyFinancing, true
	default:
		return "", false
	}
}
