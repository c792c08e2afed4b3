package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
)

// companyRepository implements domain.CompanyRepository
type companyRepository struct {
	db *DB
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *DB) domain.CompanyRepository {
	return &companyRepository{db: db}
}

// GetByID retrieves a company by its ID
func (r *companyRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Company, error) {
	query := `
		SELECT id, name, created_at
		FROM companies
		WHERE id = $1
	`

	var company domain.Company
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&company.ID,
		&company.Name,
		&company.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("company %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get company by ID: %w", err)
	}

	return &company, nil
}
