package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCategory_Validate(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		wantErr  bool
	}{
		{
			name: "valid category",
			category: Category{
				ID:            uuid.New(),
				Name:          "Sales Revenue",
				CanonicalType: CanonicalTypeRevenue,
				Examples:      []string{"Sales"},
				Position:      1,
			},
			wantErr: false,
		},
		{
			name: "empty name should fail",
			category: Category{
				ID:            uuid.New(),
				CanonicalType: CanonicalTypeRevenue,
			},
			wantErr: true,
		},
		{
			name: "unknown canonical type should fail",
			category: Category{
				ID:            uuid.New(),
				Name:          "Weird",
				CanonicalType: CanonicalType("profit"),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.category.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCategoryCatalog_Lookups(t *testing.T) {
	first := &Category{ID: uuid.New(), Name: "Sales", CanonicalType: CanonicalTypeRevenue, Position: 1}
	second := &Category{ID: uuid.New(), Name: "Other Income", CanonicalType: CanonicalTypeRevenue, Position: 2}
	opex := &Category{ID: uuid.New(), Name: "Payroll", CanonicalType: CanonicalTypeOpex, Position: 3}

	catalog := NewCategoryCatalog([]*Category{first, second, opex})

	assert.Equal(t, 3, catalog.Len())
	assert.Equal(t, first, catalog.ByID(first.ID))
	assert.Nil(t, catalog.ByID(uuid.New()))

	// FirstOfType honors catalog order.
	assert.Equal(t, first, catalog.FirstOfType(CanonicalTypeRevenue))
	assert.Equal(t, opex, catalog.FirstOfType(CanonicalTypeOpex))
	assert.Nil(t, catalog.FirstOfType(CanonicalTypeEquity))
}
