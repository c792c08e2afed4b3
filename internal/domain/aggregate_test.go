package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMonthlyAggregate_Validate(t *testing.T) {
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	marchEnd := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	valid := MonthlyAggregate{
		CompanyID:     uuid.New(),
		StatementType: StatementTypeProfitAndLoss,
		PeriodStart:   march,
		PeriodEnd:     marchEnd,
		SourceRunID:   "run-1",
	}

	tests := []struct {
		name   string
		mutate func(*MonthlyAggregate)
	}{
		{"missing company", func(a *MonthlyAggregate) { a.CompanyID = uuid.Nil }},
		{"unknown statement type", func(a *MonthlyAggregate) { a.StatementType = "balance_sheet" }},
		{"missing period start", func(a *MonthlyAggregate) { a.PeriodStart = time.Time{} }},
		{"missing period end", func(a *MonthlyAggregate) { a.PeriodEnd = time.Time{} }},
		{"inverted period", func(a *MonthlyAggregate) { a.PeriodStart, a.PeriodEnd = a.PeriodEnd, a.PeriodStart }},
		{"missing run id", func(a *MonthlyAggregate) { a.SourceRunID = "" }},
	}

	assert.NoError(t, valid.Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			aggregate := valid
			tt.mutate(&aggregate)
			err := aggregate.Validate()
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestMonthlyAggregate_TotalDefaultsToZero(t *testing.T) {
	aggregate := MonthlyAggregate{
		Totals: map[string]decimal.Decimal{
			TotalKeyRevenue: decimal.NewFromInt(42),
		},
	}

	assert.True(t, aggregate.Total(TotalKeyRevenue).Equal(decimal.NewFromInt(42)))
	assert.True(t, aggregate.Total(TotalKeyCOGS).IsZero())
	assert.True(t, aggregate.Total("nonsense").IsZero())
}
