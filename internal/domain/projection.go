package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProjectionAssumptions records how one projection row was produced so a
// reader can reconstruct the forecast without re-running it.
type ProjectionAssumptions struct {
	Method               string          `json:"method"`
	MonthlyGrowthRate    decimal.Decimal `json:"monthly_growth_rate"`
	AnnualizedGrowthRate decimal.Decimal `json:"annualized_growth_rate"`
	BaseAvgRevenue       decimal.Decimal `json:"base_avg_revenue"`
	BaseAvgCosts         decimal.Decimal `json:"base_avg_costs"`
	HistoricalMonths     int             `json:"historical_months"`
	MonthOffset          int             `json:"month_offset"`
}

// Projection is one forward forecast row. A successful run writes twelve
// rows sharing one snapshot date, with gapless consecutive target months
// strictly after the snapshot month. Rows are unique per
// (company, snapshot date, month) and upserted within a snapshot.
type Projection struct {
	ID                uuid.UUID
	CompanyID         uuid.UUID
	SnapshotDate      time.Time
	Month             time.Time
	RevenueProjection decimal.Decimal
	CostProjection    decimal.Decimal
	Assumptions       ProjectionAssumptions
}
