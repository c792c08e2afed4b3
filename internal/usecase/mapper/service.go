package mapper

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
	applog "github.com/finlens/finlens-backend/internal/log"
	"github.com/finlens/finlens-backend/internal/usecase/classifier"
)

// MappingStatus reports whether an account already carried a category
// before a batch run re-resolved it.
type MappingStatus string

const (
	StatusAlreadyMapped MappingStatus = "already_mapped"
	StatusAutoMapped    MappingStatus = "auto_mapped"
)

// AccountMappingResult is one per-account outcome of a batch mapping run.
type AccountMappingResult struct {
	AccountID    uuid.UUID
	AccountName  string
	CategoryID   uuid.UUID
	CategoryName string
	Method       classifier.MappingMethod
	Status       MappingStatus
}

// Service resolves accounts to canonical categories, one at a time or for
// a whole company, and supports manual overrides.
type Service struct {
	CompanyRepo  domain.CompanyRepository
	AccountRepo  domain.AccountRepository
	CategoryRepo domain.CategoryRepository

	catalog *domain.CategoryCatalog
	logger  *applog.Logger
}

// NewService creates a new mapper Service instance. The catalog snapshot
// is immutable; build a new Service (or call SetCatalog) after
// administrative catalog edits.
func NewService(
	companyRepo domain.CompanyRepository,
	accountRepo domain.AccountRepository,
	categoryRepo domain.CategoryRepository,
	catalog *domain.CategoryCatalog,
	logger *applog.Logger,
) *Service {
	return &Service{
		CompanyRepo:  companyRepo,
		AccountRepo:  accountRepo,
		CategoryRepo: categoryRepo,
		catalog:      catalog,
		logger:       logger,
	}
}

// SetCatalog swaps in a fresh catalog snapshot after a catalog edit.
func (s *Service) SetCatalog(catalog *domain.CategoryCatalog) {
	s.catalog = catalog
}

// ResolveAccountCategory resolves one account's category and persists it.
// Idempotent for an unchanged catalog and account name.
func (s *Service) ResolveAccountCategory(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}

	category, method, err := classifier.Classify(account.Name, account.AccountType, s.catalog)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.AccountRepo.UpdateMapping(ctx, account.ID, category.ID); err != nil {
		return uuid.Nil, err
	}

	s.logger.Debug("resolved account category",
		"account_id", account.ID,
		"category", category.Name,
		"method", string(method))

	return category.ID, nil
}

// MapCompanyAccounts re-resolves every account of the company,
// overwriting any existing mapping, and reports per-account outcomes.
func (s *Service) MapCompanyAccounts(ctx context.Context, companyID uuid.UUID) ([]AccountMappingResult, error) {
	if _, err := s.CompanyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	accounts, err := s.AccountRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list company accounts: %w", err)
	}

	results := make([]AccountMappingResult, 0, len(accounts))
	for _, account := range accounts {
		category, method, err := classifier.Classify(account.Name, account.AccountType, s.catalog)
		if err != nil {
			return nil, err
		}

		if err := s.AccountRepo.UpdateMapping(ctx, account.ID, category.ID); err != nil {
			return nil, err
		}

		status := StatusAutoMapped
		if account.Mapped() {
			status = StatusAlreadyMapped
		}

		results = append(results, AccountMappingResult{
			AccountID:    account.ID,
			AccountName:  account.Name,
			CategoryID:   category.ID,
			CategoryName: category.Name,
			Method:       method,
			Status:       status,
		})
	}

	s.logger.Info("mapped company accounts",
		"company_id", companyID,
		"accounts", len(results))

	return results, nil
}

// UnmappedAccounts returns the company's accounts that still have no
// resolved category, for manual review.
func (s *Service) UnmappedAccounts(ctx context.Context, companyID uuid.UUID) ([]*domain.Account, error) {
	if _, err := s.CompanyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}
	return s.AccountRepo.ListUnmapped(ctx, companyID)
}

// SetAccountMapping force-sets an account's category, bypassing the
// classifier. Fails when either the account or the category is absent.
func (s *Service) SetAccountMapping(ctx context.Context, accountID, categoryID uuid.UUID) error {
	account, err := s.AccountRepo.GetByID(ctx, accountID)
	if err != nil {
		return err
	}

	category, err := s.CategoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if err := s.AccountRepo.UpdateMapping(ctx, account.ID, category.ID); err != nil {
		return err
	}

	s.logger.Info("manual mapping override",
		"account_id", account.ID,
		"category", category.Name,
		"method", string(classifier.MethodManual))

	return nil
}
