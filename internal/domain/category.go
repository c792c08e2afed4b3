package domain

import (
	"errors"

	"github.com/google/uuid"
)

// CanonicalType represents the normalized classification of a category,
// independent of the source system's own account-type labels.
type CanonicalType string

const (
	CanonicalTypeRevenue   CanonicalType = "revenue"
	CanonicalTypeCOGS      CanonicalType = "cogs"
	CanonicalTypeOpex      CanonicalType = "opex"
	CanonicalTypeAsset     CanonicalType = "asset"
	CanonicalTypeLiability CanonicalType = "liability"
	CanonicalTypeEquity    CanonicalType = "equity"
)

// CanonicalTypes lists every valid canonical type in declaration order.
var CanonicalTypes = []CanonicalType{
	CanonicalTypeRevenue,
	CanonicalTypeCOGS,
	CanonicalTypeOpex,
	CanonicalTypeAsset,
	CanonicalTypeLiability,
	CanonicalTypeEquity,
}

// Category is immutable reference data: a canonical classification target
// with example labels used by the resolver for text matching.
type Category struct {
	ID            uuid.UUID
	Name          string
	CanonicalType CanonicalType
	Examples      []string
	// Position fixes the catalog order. Resolver tie-breaks and the
	// type-fallback "first found" rule both depend on it.
	Position int
}

// Validate ensures the category adheres to domain rules.
func (c *Category) Validate() error {
	if c.Name == "" {
		return errors.New("category name cannot be empty")
	}
	if !c.CanonicalType.Valid() {
		return errors.New("category canonical type must be one of revenue, cogs, opex, asset, liability, equity")
	}
	return nil
}

// Valid reports whether t is one of the six canonical types.
func (t CanonicalType) Valid() bool {
	for _, known := range CanonicalTypes {
		if t == known {
			return true
		}
	}
	return false
}

// CategoryCatalog is an immutable, ordered snapshot of the category
// reference data. It is loaded once at wiring time and injected into the
// resolver; callers rebuild the snapshot after administrative catalog edits
// instead of re-reading per call.
type CategoryCatalog struct {
	categories []*Category
	byID       map[uuid.UUID]*Category
}

// NewCategoryCatalog builds a snapshot from categories sorted by Position.
// The input slice is assumed to already be in catalog order.
func NewCategoryCatalog(categories []*Category) *CategoryCatalog {
	byID := make(map[uuid.UUID]*Category, len(categories))
	for _, cat := range categories {
		byID[cat.ID] = cat
	}
	return &CategoryCatalog{categories: categories, byID: byID}
}

// Categories returns the snapshot in catalog order. Callers must not
// mutate the returned slice.
func (cc *CategoryCatalog) Categories() []*Category {
	return cc.categories
}

// ByID returns the category with the given id, or nil.
func (cc *CategoryCatalog) ByID(id uuid.UUID) *Category {
	return cc.byID[id]
}

// FirstOfType returns the first catalog category with the given canonical
// type, or nil if none exists.
func (cc *CategoryCatalog) FirstOfType(t CanonicalType) *Category {
	for _, cat := range cc.categories {
		if cat.CanonicalType == t {
			return cat
		}
	}
	return nil
}

// Len returns the number of categories in the snapshot.
func (cc *CategoryCatalog) Len() int {
	return len(cc.categories)
}
