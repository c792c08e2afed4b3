package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlens/finlens-backend/internal/domain"
)

// testDB connects to the database named by TEST_DATABASE_URL and runs the
// migrations. Tests are skipped when the variable is unset so the suite
// stays runnable without a live postgres.
func testDB(t *testing.T) *DB {
	t.Helper()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping postgres integration test")
	}

	require.NoError(t, RunMigrations(connStr))

	db, err := NewDB(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestCompany(t *testing.T, db *DB) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO companies (id, name) VALUES ($1, $2)`, id, "Test Co "+id.String()[:8])
	require.NoError(t, err)
	return id
}

func TestAggregateUpsert_VersionIncrementsOnRewrite(t *testing.T) {
	db := testDB(t)
	repo := NewAggregateRepository(db)
	companyID := createTestCompany(t, db)
	ctx := context.Background()

	aggregate := &domain.MonthlyAggregate{
		CompanyID:     companyID,
		StatementType: domain.StatementTypeProfitAndLoss,
		PeriodStart:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:     time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Totals: map[string]decimal.Decimal{
			domain.TotalKeyRevenue: decimal.NewFromInt(100),
		},
		GeneratedAt: time.Now().UTC(),
		SourceRunID: "run-1",
	}

	require.NoError(t, repo.Upsert(ctx, aggregate))
	firstID := aggregate.ID
	assert.Equal(t, int64(1), aggregate.RowVersion)

	aggregate.Totals[domain.TotalKeyRevenue] = decimal.NewFromInt(250)
	aggregate.SourceRunID = "run-2"
	require.NoError(t, repo.Upsert(ctx, aggregate))
	assert.Equal(t, firstID, aggregate.ID, "rewrite must update the existing row")
	assert.Equal(t, int64(2), aggregate.RowVersion)
}

func TestAggregateUpsert_KeyedByStatementType(t *testing.T) {
	db := testDB(t)
	repo := NewAggregateRepository(db)
	companyID := createTestCompany(t, db)
	ctx := context.Background()

	periodStart := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC)

	pnl := &domain.MonthlyAggregate{
		CompanyID:     companyID,
		StatementType: domain.StatementTypeProfitAndLoss,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Totals:        map[string]decimal.Decimal{domain.TotalKeyRevenue: decimal.NewFromInt(10)},
		GeneratedAt:   time.Now().UTC(),
		SourceRunID:   "run-1",
	}
	cashFlow := &domain.MonthlyAggregate{
		CompanyID:     companyID,
		StatementType: domain.StatementTypeCashFlow,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		Totals:        map[string]decimal.Decimal{domain.TotalKeyOperating: decimal.NewFromInt(10)},
		GeneratedAt:   time.Now().UTC(),
		SourceRunID:   "run-1",
	}

	require.NoError(t, repo.Upsert(ctx, pnl))
	require.NoError(t, repo.Upsert(ctx, cashFlow))

	assert.NotEqual(t, pnl.ID, cashFlow.ID)
	assert.Equal(t, int64(1), pnl.RowVersion)
	assert.Equal(t, int64(1), cashFlow.RowVersion)
}

func TestListProfitAndLoss_WindowAndOrder(t *testing.T) {
	db := testDB(t)
	repo := NewAggregateRepository(db)
	companyID := createTestCompany(t, db)
	ctx := context.Background()

	for month := 1; month <= 7; month++ {
		start := time.Date(2025, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		aggregate := &domain.MonthlyAggregate{
			CompanyID:     companyID,
			StatementType: domain.StatementTypeProfitAndLoss,
			PeriodStart:   start,
			PeriodEnd:     start.AddDate(0, 1, -1),
			Totals:        map[string]decimal.Decimal{domain.TotalKeyRevenue: decimal.NewFromInt(int64(month * 100))},
			GeneratedAt:   time.Now().UTC(),
			SourceRunID:   "run-1",
		}
		require.NoError(t, repo.Upsert(ctx, aggregate))
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	before := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	rows, err := repo.ListProfitAndLoss(ctx, companyID, from, before, 6)
	require.NoError(t, err)
	require.Len(t, rows, 6)

	// July is excluded by the half-open window, June comes first.
	assert.Equal(t, time.June, rows[0].PeriodStart.Month())
	assert.Equal(t, time.January, rows[5].PeriodStart.Month())
	assert.True(t, rows[0].Total(domain.TotalKeyRevenue).Equal(decimal.NewFromInt(600)))
}
