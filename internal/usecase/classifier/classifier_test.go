package classifier

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlens/finlens-backend/internal/domain"
)

func testCatalog() *domain.CategoryCatalog {
	return domain.NewCategoryCatalog([]*domain.Category{
		{
			ID:            uuid.New(),
			Name:          "Sales Revenue",
			CanonicalType: domain.CanonicalTypeRevenue,
			Examples:      []string{"Sales", "Revenue", "Service Income"},
			Position:      1,
		},
		{
			ID:            uuid.New(),
			Name:          "Cost of Goods Sold",
			CanonicalType: domain.CanonicalTypeCOGS,
			Examples:      []string{"Cost of Goods Sold", "COGS"},
			Position:      2,
		},
		{
			ID:            uuid.New(),
			Name:          "Payroll",
			CanonicalType: domain.CanonicalTypeOpex,
			Examples:      []string{"Payroll", "Salaries and Wages"},
			Position:      3,
		},
		{
			ID:            uuid.New(),
			Name:          "Cash & Bank",
			CanonicalType: domain.CanonicalTypeAsset,
			Examples:      []string{"Checking", "Savings"},
			Position:      4,
		},
		{
			ID:            uuid.New(),
			Name:          "Payables",
			CanonicalType: domain.CanonicalTypeLiability,
			Examples:      []string{"Accounts Payable"},
			Position:      5,
		},
		{
			ID:            uuid.New(),
			Name:          "Owner's Equity",
			CanonicalType: domain.CanonicalTypeEquity,
			Examples:      []string{"Retained Earnings"},
			Position:      6,
		},
	})
}

func TestClassify_ExactMatchWins(t *testing.T) {
	catalog := testCatalog()

	// "Payroll" is also a fuzzy candidate elsewhere, but the exact
	// example match must win outright.
	category, method, err := Classify("payroll", "Expense", catalog)
	require.NoError(t, err)
	assert.Equal(t, "Payroll", category.Name)
	assert.Equal(t, MethodExactMatch, method)
}

func TestClassify_ExactMatchIsCaseInsensitive(t *testing.T) {
	catalog := testCatalog()

	category, method, err := Classify("SERVICE INCOME", "Bank", catalog)
	require.NoError(t, err)
	assert.Equal(t, "Sales Revenue", category.Name)
	assert.Equal(t, MethodExactMatch, method)
}

func TestClassify_FuzzyExampleInsideName(t *testing.T) {
	catalog := testCatalog()

	// "Checking" (example) is a substring of the account name: score 80.
	category, method, err := Classify("Business Checking Account", "Bank", catalog)
	require.NoError(t, err)
	assert.Equal(t, "Cash & Bank", category.Name)
	assert.Equal(t, MethodFuzzyMatch, method)
}

func TestClassify_FuzzyNameInsideExample(t *testing.T) {
	catalog := testCatalog()

	// Account name "Salaries" is a substring of the example "Salaries
	// and Wages": score 70, still above the threshold.
	category, method, err := Classify("Salaries", "Expense", catalog)
	require.NoError(t, err)
	assert.Equal(t, "Payroll", category.Name)
	assert.Equal(t, MethodFuzzyMatch, method)
}

func TestClassify_TieBreaksToEarlierCatalogPosition(t *testing.T) {
	first := &domain.Category{
		ID:            uuid.New(),
		Name:          "First",
		CanonicalType: domain.CanonicalTypeOpex,
		Examples:      []string{"Utilities"},
		Position:      1,
	}
	second := &domain.Category{
		ID:            uuid.New(),
		Name:          "Second",
		CanonicalType: domain.CanonicalTypeOpex,
		Examples:      []string{"Utilities Expense"},
		Position:      2,
	}
	catalog := domain.NewCategoryCatalog([]*domain.Category{first, second})

	// Both categories score 80 against this name; the earlier catalog
	// position must win.
	category, method, err := Classify("Utilities Expense Northeast", "Expense", catalog)
	require.NoError(t, err)
	assert.Equal(t, "First", category.Name)
	assert.Equal(t, MethodFuzzyMatch, method)
}

func TestClassify_FallbackByAccountType(t *testing.T) {
	catalog := testCatalog()

	tests := []struct {
		name         string
		accountType  string
		wantCategory string
	}{
		{"Zarbon Holdings 4471", "Income", "Sales Revenue"},
		{"Zarbon Holdings 4471", "Cost of Goods Sold", "Cost of Goods Sold"},
		{"Zarbon Holdings 4471", "Expense", "Payroll"},
		{"Zarbon Holdings 4471", "Accounts Receivable", "Cash & Bank"},
		{"Zarbon Holdings 4471", "Credit Card", "Payables"},
		{"Zarbon Holdings 4471", "Equity", "Owner's Equity"},
		{"Zarbon Holdings 4471", "Something Unheard Of", "Payroll"},
	}

	for _, tt := range tests {
		t.Run(tt.accountType, func(t *testing.T) {
			category, method, err := Classify(tt.name, tt.accountType, catalog)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCategory, category.Name)
			assert.Equal(t, MethodTypeFallback, method)
		})
	}
}

func TestClassify_FallbackFailsWithoutTargetCategory(t *testing.T) {
	catalog := domain.NewCategoryCatalog([]*domain.Category{
		{
			ID:            uuid.New(),
			Name:          "Sales Revenue",
			CanonicalType: domain.CanonicalTypeRevenue,
			Examples:      []string{"Sales"},
			Position:      1,
		},
	})

	_, _, err := Classify("Mystery Account", "Expense", catalog)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestClassify_Deterministic(t *testing.T) {
	catalog := testCatalog()

	first, firstMethod, err := Classify("Business Checking Account", "Bank", catalog)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		category, method, err := Classify("Business Checking Account", "Bank", catalog)
		require.NoError(t, err)
		assert.Equal(t, first.ID, category.ID)
		assert.Equal(t, firstMethod, method)
	}
}

func TestFuzzyScore(t *testing.T) {
	cat := &domain.Category{
		Name:     "Rent & Utilities",
		Examples: []string{"Rent", "Utilities"},
	}

	tests := []struct {
		name      string
		account   string
		wantScore int
	}{
		{"example inside name", "Office Rent Downtown", 80},
		{"name inside example", "Util", 70},
		{"no overlap", "Payroll Taxes", 0},
		{"empty name", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantScore, FuzzyScore(tt.account, cat))
		})
	}
}

func TestFallbackCanonicalType_CoversEveryType(t *testing.T) {
	tests := map[string]domain.CanonicalType{
		"Income":                  domain.CanonicalTypeRevenue,
		"Other Income":            domain.CanonicalTypeRevenue,
		"Cost of Goods Sold":      domain.CanonicalTypeCOGS,
		"Expense":                 domain.CanonicalTypeOpex,
		"Other Expense":           domain.CanonicalTypeOpex,
		"Bank":                    domain.CanonicalTypeAsset,
		"Accounts Receivable":     domain.CanonicalTypeAsset,
		"Fixed Asset":             domain.CanonicalTypeAsset,
		"Other Asset":             domain.CanonicalTypeAsset,
		"Other Current Asset":     domain.CanonicalTypeAsset,
		"Accounts Payable":        domain.CanonicalTypeLiability,
		"Credit Card":             domain.CanonicalTypeLiability,
		"Long Term Liability":     domain.CanonicalTypeLiability,
		"Other Current Liability": domain.CanonicalTypeLiability,
		"Equity":                  domain.CanonicalTypeEquity,
		"":                        domain.CanonicalTypeOpex,
		"Completely Unknown":      domain.CanonicalTypeOpex,
	}

	for accountType, want := range tests {
		got := FallbackCanonicalType(accountType)
		assert.Equal(t, want, got, "account type %q", accountType)
		assert.True(t, got.Valid(), "fallback must always return a valid canonical type")
	}
}
