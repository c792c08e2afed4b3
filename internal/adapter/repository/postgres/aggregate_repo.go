package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/finlens/finlens-backend/internal/domain"
)

// aggregateRepository implements domain.MonthlyAggregateRepository
type aggregateRepository struct {
	db *DB
}

// NewAggregateRepository creates a new monthly aggregate repository
func NewAggregateRepository(db *DB) domain.MonthlyAggregateRepository {
	return &aggregateRepository{db: db}
}

// Upsert writes the aggregate atomically. The version bump happens inside
// the single INSERT ... ON CONFLICT statement, so concurrent writers for
// the same (company, period_start, statement_type) key serialize on the
// unique constraint and each successful write increments row_version
// exactly once. Never implemented as a caller-side read-then-write.
func (r *aggregateRepository) Upsert(ctx context.Context, aggregate *domain.MonthlyAggregate) error {
	totals, err := json.Marshal(aggregate.Totals)
	if err != nil {
		return fmt.Errorf("failed to marshal totals: %w", err)
	}

	query := `
		INSERT INTO monthly_aggregates (id, company_id, statement_type, period_start, period_end, totals, row_version, generated_at, source_run_id)
		VALUES ($1, $2, $3, $4, $5, $6, 1, $7, $8)
		ON CONFLICT (company_id, period_start, statement_type) DO UPDATE SET
			period_end = EXCLUDED.period_end,
			totals = EXCLUDED.totals,
			row_version = monthly_aggregates.row_version + 1,
			generated_at = EXCLUDED.generated_at,
			source_run_id = EXCLUDED.source_run_id
		RETURNING id, row_version
	`

	err = r.db.QueryRowContext(ctx, query,
		uuid.New(),
		aggregate.CompanyID,
		string(aggregate.StatementType),
		aggregate.PeriodStart,
		aggregate.PeriodEnd,
		totals,
		aggregate.GeneratedAt,
		aggregate.SourceRunID,
	).Scan(&aggregate.ID, &aggregate.RowVersion)
	if err != nil {
		return fmt.Errorf("failed to upsert monthly aggregate: %w", err)
	}

	return nil
}

// ListProfitAndLoss retrieves the company's P&L rows with period_start in
// [from, before), newest first, capped at limit
func (r *aggregateRepository) ListProfitAndLoss(ctx context.Context, companyID uuid.UUID, from, before time.Time, limit int) ([]*domain.MonthlyAggregate, error) {
	query := `
		SELECT id, company_id, statement_type, period_start, period_end, totals, row_version, generated_at, source_run_id
		FROM monthly_aggregates
		WHERE company_id = $1
			AND statement_type = $2
			AND period_start >= $3
			AND period_start < $4
		ORDER BY period_start DESC
		LIMIT $5
	`

	rows, err := r.db.QueryContext(ctx, query,
		companyID,
		string(domain.StatementTypeProfitAndLoss),
		from,
		before,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list aggregates: %w", err)
	}
	defer rows.Close()

	var aggregates []*domain.MonthlyAggregate
	for rows.Next() {
		var aggregate domain.MonthlyAggregate
		var statementType string
		var totalsRaw []byte

		err := rows.Scan(
			&aggregate.ID,
			&aggregate.CompanyID,
			&statementType,
			&aggregate.PeriodStart,
			&aggregate.PeriodEnd,
			&totalsRaw,
			&aggregate.RowVersion,
			&aggregate.GeneratedAt,
			&aggregate.SourceRunID,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan aggregate: %w", err)
		}

		aggregate.StatementType = domain.StatementType(statementType)

		totals := make(map[string]decimal.Decimal)
		if err := json.Unmarshal(totalsRaw, &totals); err != nil {
			return nil, fmt.Errorf("failed to unmarshal totals: %w", err)
		}
		aggregate.Totals = totals

		aggregates = append(aggregates, &aggregate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate aggregates: %w", err)
	}

	return aggregates, nil
}
