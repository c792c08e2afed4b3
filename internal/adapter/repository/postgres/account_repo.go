package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
)

// accountRepository implements domain.AccountRepository
type accountRepository struct {
	db *DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *DB) domain.AccountRepository {
	return &accountRepository{db: db}
}

// GetByID retrieves an account by its ID
func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	query := `
		SELECT id, company_id, external_id, name, account_type, account_subtype, mapping_category_id
		FROM accounts
		WHERE id = $1
	`

	account, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// ListByCompany retrieves every account of a company
func (r *accountRepository) ListByCompany(ctx context.Context, companyID uuid.UUID) ([]*domain.Account, error) {
	query := `
		SELECT id, company_id, external_id, name, account_type, account_subtype, mapping_category_id
		FROM accounts
		WHERE company_id = $1
		ORDER BY name ASC
	`

	return r.list(ctx, query, companyID)
}

// ListUnmapped retrieves the company's accounts without a resolved category
func (r *accountRepository) ListUnmapped(ctx context.Context, companyID uuid.UUID) ([]*domain.Account, error) {
	query := `
		SELECT id, company_id, external_id, name, account_type, account_subtype, mapping_category_id
		FROM accounts
		WHERE company_id = $1 AND mapping_category_id IS NULL
		ORDER BY name ASC
	`

	return r.list(ctx, query, companyID)
}

// UpdateMapping persists the resolved category on an account
func (r *accountRepository) UpdateMapping(ctx context.Context, accountID, categoryID uuid.UUID) error {
	query := `
		UPDATE accounts
		SET mapping_category_id = $2
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, accountID, categoryID)
	if err != nil {
		return fmt.Errorf("failed to update account mapping: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("account %s: %w", accountID, domain.ErrNotFound)
	}

	return nil
}

func (r *accountRepository) list(ctx context.Context, query string, companyID uuid.UUID) ([]*domain.Account, error) {
	rows, err := r.db.QueryContext(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate accounts: %w", err)
	}

	return accounts, nil
}

func scanAccount(s scanner) (*domain.Account, error) {
	var account domain.Account
	var mappingID sql.NullString

	err := s.Scan(
		&account.ID,
		&account.CompanyID,
		&account.ExternalID,
		&account.Name,
		&account.AccountType,
		&account.AccountSubtype,
		&mappingID,
	)
	if err != nil {
		return nil, err
	}

	if mappingID.Valid {
		parsed, err := uuid.Parse(mappingID.String)
		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping_category_id: %w", err)
		}
		account.MappingCategoryID = &parsed
	}

	return &account, nil
}
