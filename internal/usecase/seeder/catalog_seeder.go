package seeder

import (
	"context"

	"github.com/google/uuid"

	"github.com/finlens/finlens-backend/internal/domain"
)

// Fixed UUIDs for the default catalog categories. Stable IDs keep
// re-seeded environments compatible with existing account mappings.
var (
	CatSalesRevenue     = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	CatOtherIncome      = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	CatCostOfGoodsSold  = uuid.MustParse("00000000-0000-0000-0000-000000000201")
	CatPayroll          = uuid.MustParse("00000000-0000-0000-0000-000000000301")
	CatRentAndUtilities = uuid.MustParse("00000000-0000-0000-0000-000000000302")
	CatMarketing        = uuid.MustParse("00000000-0000-0000-0000-000000000303")
	CatGeneralExpenses  = uuid.MustParse("00000000-0000-0000-0000-000000000304")
	CatCashAndBank      = uuid.MustParse("00000000-0000-0000-0000-000000000401")
	CatReceivables      = uuid.MustParse("00000000-0000-0000-0000-000000000402")
	CatPayables         = uuid.MustParse("00000000-0000-0000-0000-000000000501")
	CatOwnersEquity     = uuid.MustParse("00000000-0000-0000-0000-000000000601")
)

// CatalogSeeder ensures the default category catalog exists. Every
// canonical type gets at least one category so the resolver's type
// fallback always has a target.
type CatalogSeeder struct {
	repo domain.CategoryRepository
}

// NewCatalogSeeder creates a new CatalogSeeder instance.
func NewCatalogSeeder(repo domain.CategoryRepository) *CatalogSeeder {
	return &CatalogSeeder{repo: repo}
}

// DefaultCategories returns the built-in catalog in catalog order.
func DefaultCategories() []*domain.Category {
	return []*domain.Category{
		{
			ID:            CatSalesRevenue,
			Name:          "Sales Revenue",
			CanonicalType: domain.CanonicalTypeRevenue,
			Examples:      []string{"Sales", "Sales Revenue", "Revenue", "Service Income", "Consulting Income"},
			Position:      1,
		},
		{
			ID:            CatOtherIncome,
			Name:          "Other Income",
			CanonicalType: domain.CanonicalTypeRevenue,
			Examples:      []string{"Interest Income", "Other Income", "Dividend Income"},
			Position:      2,
		},
		{
			ID:            CatCostOfGoodsSold,
			Name:          "Cost of Goods Sold",
			CanonicalType: domain.CanonicalTypeCOGS,
			Examples:      []string{"Cost of Goods Sold", "COGS", "Cost of Sales", "Materials", "Freight"},
			Position:      3,
		},
		{
			ID:            CatPayroll,
			Name:          "Payroll",
			CanonicalType: domain.CanonicalTypeOpex,
			Examples:      []string{"Payroll", "Salaries", "Wages", "Payroll Expenses", "Employee Benefits"},
			Position:      4,
		},
		{
			ID:            CatRentAndUtilities,
			Name:          "Rent & Utilities",
			CanonicalType: domain.CanonicalTypeOpex,
			Examples:      []string{"Rent", "Rent or Lease", "Utilities", "Electricity", "Water"},
			Position:      5,
		},
		{
			ID:            CatMarketing,
			Name:          "Marketing",
			CanonicalType: domain.CanonicalTypeOpex,
			Examples:      []string{"Marketing", "Advertising", "Promotions"},
			Position:      6,
		},
		{
			ID:            CatGeneralExpenses,
			Name:          "General Expenses",
			CanonicalType: domain.CanonicalTypeOpex,
			Examples:      []string{"Office Expenses", "Supplies", "Insurance", "Travel", "Meals and Entertainment", "Legal and Professional Fees"},
			Position:      7,
		},
		{
			ID:            CatCashAndBank,
			Name:          "Cash & Bank",
			CanonicalType: domain.CanonicalTypeAsset,
			Examples:      []string{"Checking", "Savings", "Cash", "Bank Account", "Petty Cash"},
			Position:      8,
		},
		{
			ID:            CatReceivables,
			Name:          "Receivables",
			CanonicalType: domain.CanonicalTypeAsset,
			Examples:      []string{"Accounts Receivable", "Receivables"},
			Position:      9,
		},
		{
			ID:            CatPayables,
			Name:          "Payables",
			CanonicalType: domain.CanonicalTypeLiability,
			Examples:      []string{"Accounts Payable", "Payables", "Credit Card"},
			Position:      10,
		},
		{
			ID:            CatOwnersEquity,
			Name:          "Owner's Equity",
			CanonicalType: domain.CanonicalTypeEquity,
			Examples:      []string{"Owner's Equity", "Retained Earnings", "Opening Balance Equity"},
			Position:      11,
		},
	}
}

// Seed ensures every default category exists, creating only the missing
// ones. Existing categories are left untouched so administrative edits
// survive restarts.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	existing, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	byName := make(map[string]bool, len(existing))
	for _, cat := range existing {
		byName[cat.Name] = true
	}

	for _, cat := range DefaultCategories() {
		if byName[cat.Name] {
			continue
		}
		if err := cat.Validate(); err != nil {
			return err
		}
		if err := s.repo.Create(ctx, cat); err != nil {
			return err
		}
	}

	return nil
}
