package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StatementType distinguishes the two aggregate flavors.
type StatementType string

const (
	StatementTypeProfitAndLoss StatementType = "profit_and_loss"
	StatementTypeCashFlow      StatementType = "cash_flow"
)

// Totals keys for the profit and loss flavor.
const (
	TotalKeyRevenue = "revenue"
	TotalKeyCOGS    = "cogs"
	TotalKeyOpex    = "opex"
)

// Totals keys for the cash flow flavor.
const (
	TotalKeyOperating = "operating"
	TotalKeyInvesting = "investing"
	TotalKeyFinancing = "financing"
)

// MonthlyAggregate is one versioned per-period statement row. Rows are
// unique per (company, period start, statement type) and are upserted,
// never deleted; RowVersion starts at 1 and increases by exactly one on
// each regeneration of the same key.
type MonthlyAggregate struct {
	ID            uuid.UUID
	CompanyID     uuid.UUID
	StatementType StatementType
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Totals        map[string]decimal.Decimal
	RowVersion    int64
	GeneratedAt   time.Time
	SourceRunID   string
}

// Total returns the named total, defaulting to zero when the key is
// absent from the row.
func (a *MonthlyAggregate) Total(key string) decimal.Decimal {
	if v, ok := a.Totals[key]; ok {
		return v
	}
	return decimal.Zero
}

// Validate ensures the aggregate adheres to domain rules.
func (a *MonthlyAggregate) Validate() error {
	if a.CompanyID == uuid.Nil {
		return fmt.Errorf("%w: company id is required", ErrInvalidArgument)
	}
	if a.StatementType != StatementTypeProfitAndLoss && a.StatementType != StatementTypeCashFlow {
		return fmt.Errorf("%w: unknown statement type %q", ErrInvalidArgument, a.StatementType)
	}
	if a.PeriodStart.IsZero() || a.PeriodEnd.IsZero() {
		return fmt.Errorf("%w: both period bounds are required", ErrInvalidArgument)
	}
	if a.PeriodStart.After(a.PeriodEnd) {
		return fmt.Errorf("%w: period start %s is after period end %s",
			ErrInvalidArgument, a.PeriodStart.Format("2006-01-02"), a.PeriodEnd.Format("2006-01-02"))
	}
	if a.SourceRunID == "" {
		return fmt.Errorf("%w: source run id is required", ErrInvalidArgument)
	}
	return nil
}
