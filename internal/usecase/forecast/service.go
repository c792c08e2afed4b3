package forecast

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
	applog "github.com/finlens/finlens-backend/internal/log"
)

const (
	// Method recorded in each projection's assumptions.
	MethodMovingAverageWithGrowth = "moving_average_with_growth"

	// horizonMonths is the number of forward months per snapshot.
	horizonMonths = 12

	// windowMonths is the maximum trailing history considered.
	windowMonths = 6
)

// monthlyGrowthRate is a fixed modeling assumption, not derived from the
// company's data.
var monthlyGrowthRate = decimal.NewFromFloat(1.02)

// ProjectionEvent is published after a snapshot has been written.
type ProjectionEvent struct {
	CompanyID        uuid.UUID `json:"company_id"`
	SnapshotDate     time.Time `json:"snapshot_date"`
	RowsWritten      int       `json:"rows_written"`
	HistoricalMonths int       `json:"historical_months"`
}

// EventPublisher notifies downstream consumers of generated projections.
// A nil publisher disables notifications.
type EventPublisher interface {
	ProjectionGenerated(ctx context.Context, event ProjectionEvent) error
}

// Service generates forward forecast snapshots from trailing P&L history.
type Service struct {
	CompanyRepo    domain.CompanyRepository
	AggregateRepo  domain.MonthlyAggregateRepository
	ProjectionRepo domain.ProjectionRepository

	events EventPublisher
	logger *applog.Logger
	now    func() time.Time
}

// NewService creates a new forecast Service instance. events may be nil.
func NewService(
	companyRepo domain.CompanyRepository,
	aggregateRepo domain.MonthlyAggregateRepository,
	projectionRepo domain.ProjectionRepository,
	events EventPublisher,
	logger *applog.Logger,
) *Service {
	return &Service{
		CompanyRepo:    companyRepo,
		AggregateRepo:  aggregateRepo,
		ProjectionRepo: projectionRepo,
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

// SetClock overrides the time source. Intended for tests.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Generate produces a 12-month forward forecast snapshot for the company,
// dated at the current processing time, and returns the number of rows
// written. The base is the mean of up to six trailing monthly P&L
// aggregates strictly before the current month, compounded forward at a
// fixed 2% per month. A company with no trailing history yields zero rows
// and no writes; that is a safe no-op, not an error, so repeated
// scheduling never fails.
func (s *Service) Generate(ctx context.Context, companyID uuid.UUID) (int, error) {
	if companyID == uuid.Nil {
		return 0, fmt.Errorf("%w: company id is required", domain.ErrInvalidArgument)
	}
	if _, err := s.CompanyRepo.GetByID(ctx, companyID); err != nil {
		return 0, err
	}

	now := s.now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowFrom := currentMonth.AddDate(0, -windowMonths, 0)

	history, err := s.AggregateRepo.ListProfitAndLoss(ctx, companyID, windowFrom, currentMonth, windowMonths)
	if err != nil {
		return 0, fmt.Errorf("failed to load trailing aggregates: %w", err)
	}

	historicalMonths := len(history)
	if historicalMonths == 0 {
		s.logger.Info("no trailing history, skipping projection", "company_id", companyID)
		return 0, nil
	}

	sumRevenue := decimal.Zero
	sumCosts := decimal.Zero
	for _, row := range history {
		sumRevenue = sumRevenue.Add(row.Total(domain.TotalKeyRevenue))
		sumCosts = sumCosts.Add(row.Total(domain.TotalKeyCOGS)).Add(row.Total(domain.TotalKeyOpex))
	}
	months := decimal.NewFromInt(int64(historicalMonths))
	avgRevenue := sumRevenue.Div(months)
	avgCosts := sumCosts.Div(months)

	snapshotDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	annualizedGrowth := monthlyGrowthRate.Pow(decimal.NewFromInt(12)).Round(4)

	for offset := 1; offset <= horizonMonths; offset++ {
		factor := monthlyGrowthRate.Pow(decimal.NewFromInt(int64(offset)))
		projection := &domain.Projection{
			CompanyID:         companyID,
			SnapshotDate:      snapshotDate,
			Month:             currentMonth.AddDate(0, offset, 0),
			RevenueProjection: avgRevenue.Mul(factor).Round(2),
			CostProjection:    avgCosts.Mul(factor).Round(2),
			Assumptions: domain.ProjectionAssumptions{
				Method:               MethodMovingAverageWithGrowth,
				MonthlyGrowthRate:    monthlyGrowthRate,
				AnnualizedGrowthRate: annualizedGrowth,
				BaseAvgRevenue:       avgRevenue.Round(2),
				BaseAvgCosts:         avgCosts.Round(2),
				HistoricalMonths:     historicalMonths,
				MonthOffset:          offset,
			},
		}
		if err := s.ProjectionRepo.Upsert(ctx, projection); err != nil {
			return 0, fmt.Errorf("failed to upsert projection for offset %d: %w", offset, err)
		}
	}

	s.logger.Info("projection snapshot written",
		"company_id", companyID,
		"snapshot_date", snapshotDate.Format("2006-01-02"),
		"historical_months", historicalMonths)

	if s.events != nil {
		event := ProjectionEvent{
			CompanyID:        companyID,
			SnapshotDate:     snapshotDate,
			RowsWritten:      horizonMonths,
			HistoricalMonths: historicalMonths,
		}
		if err := s.events.ProjectionGenerated(ctx, event); err != nil {
			s.logger.Error("failed to publish projection event", "error", err)
		}
	}

	return horizonMonths, nil
}
