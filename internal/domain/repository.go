package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CompanyRepository defines the interface for company persistence operations.
type CompanyRepository interface {
	// GetByID retrieves a company by its ID. Returns an error wrapping
	// ErrNotFound when no such company exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Company, error)
}

// CategoryRepository defines the interface for category catalog persistence.
type CategoryRepository interface {
	// List retrieves all categories in catalog order (by Position).
	List(ctx context.Context) ([]*Category, error)

	// GetByID retrieves a category by its ID. Returns an error wrapping
	// ErrNotFound when no such category exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Category, error)

	// Create inserts a new category.
	Create(ctx context.Context, category *Category) error
}

// AccountRepository defines the interface for account persistence operations.
type AccountRepository interface {
	// GetByID retrieves an account by its ID. Returns an error wrapping
	// ErrNotFound when no such account exists.
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// ListByCompany retrieves every account of a company.
	ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*Account, error)

	// ListUnmapped retrieves the company's accounts that have no
	// resolved category yet.
	ListUnmapped(ctx context.Context, companyID uuid.UUID) ([]*Account, error)

	// UpdateMapping persists the resolved category on an account.
	// Returns an error wrapping ErrNotFound when the account is absent.
	UpdateMapping(ctx context.Context, accountID, categoryID uuid.UUID) error
}

// TransactionRepository defines the interface for transaction reads. This
// core never writes transactions; ingestion happens upstream.
type TransactionRepository interface {
	// ListByCompanyAndPeriod retrieves the company's transactions with
	// dates in [start, end], inclusive on both bounds.
	ListByCompanyAndPeriod(ctx context.Context, companyID uuid.UUID, start, end time.Time) ([]*Transaction, error)
}

// MonthlyAggregateRepository defines the interface for statement aggregate
// persistence.
type MonthlyAggregateRepository interface {
	// Upsert writes the aggregate atomically: the first write for a
	// (company, period start, statement type) key gets RowVersion 1, a
	// conflicting write overwrites the row and bumps RowVersion by one
	// inside the same statement. On return the aggregate's ID and
	// RowVersion reflect the stored row.
	Upsert(ctx context.Context, aggregate *MonthlyAggregate) error

	// ListProfitAndLoss retrieves the company's profit-and-loss rows
	// with period start in [from, before), newest first, capped at limit.
	ListProfitAndLoss(ctx context.Context, companyID uuid.UUID, from, before time.Time, limit int) ([]*MonthlyAggregate, error)
}

// ProjectionRepository defines the interface for forecast persistence.
type ProjectionRepository interface {
	// Upsert writes one projection row keyed by
	// (company, snapshot date, month), overwriting on conflict.
	Upsert(ctx context.Context, projection *Projection) error
}
