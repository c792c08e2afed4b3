package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
)

// projectionRepository implements domain.ProjectionRepository
type projectionRepository struct {
	db *DB
}

// NewProjectionRepository creates a new projection repository
func NewProjectionRepository(db *DB) domain.ProjectionRepository {
	return &projectionRepository{db: db}
}

// Upsert writes one projection row keyed by (company, snapshot_date, month)
func (r *projectionRepository) Upsert(ctx context.Context, projection *domain.Projection) error {
	assumptions, err := json.Marshal(projection.Assumptions)
	if err != nil {
		return fmt.Errorf("failed to marshal assumptions: %w", err)
	}

	query := `
		INSERT INTO projections (id, company_id, snapshot_date, month, revenue_projection, cost_projection, assumptions)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (company_id, snapshot_date, month) DO UPDATE SET
			revenue_projection = EXCLUDED.revenue_projection,
			cost_projection = EXCLUDED.cost_projection,
			assumptions = EXCLUDED.assumptions
		RETURNING id
	`

	err = r.db.QueryRowContext(ctx, query,
		uuid.New(),
		projection.CompanyID,
		projection.SnapshotDate,
		projection.Month,
		projection.RevenueProjection.String(),
		projection.CostProjection.String(),
		assumptions,
	).Scan(&projection.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert projection: %w", err)
	}

	return nil
}
