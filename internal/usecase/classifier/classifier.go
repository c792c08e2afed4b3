package classifier

import (
	"fmt"
	"strings"

	"github.com/finlens/finlens-backend/internal/domain"
)

// MappingMethod records how an account got its category.
type MappingMethod string

const (
	MethodExactMatch   MappingMethod = "exact_match"
	MethodFuzzyMatch   MappingMethod = "fuzzy_match"
	MethodTypeFallback MappingMethod = "type_fallback"
	MethodManual       MappingMethod = "manual"
)

// Scoring constants. The values and the catalog-order tie-break are load
// bearing: changing them changes which category wins for existing data.
const (
	scoreExact         = 100
	scoreExampleInName = 80
	scoreNameInExample = 70
	fuzzyThreshold     = 50
)

// Classify maps an account to a category using the catalog snapshot.
// Strict priority order:
//  1. Exact: case-insensitive equality between the account name and any
//     category example. The first category in catalog order with an exact
//     match wins; the search stops there.
//  2. Fuzzy: per category, the best of 80 (example contained in name) and
//     70 (name contained in example) across its examples. The highest
//     scoring category wins; ties go to the earlier catalog position.
//  3. Fallback: when the best fuzzy score is below 50, classify purely by
//     the declared account type and pick the first catalog category of the
//     resulting canonical type.
//
// Deterministic for a fixed catalog, name and type.
func Classify(accountName, accountType string, catalog *domain.CategoryCatalog) (*domain.Category, MappingMethod, error) {
	name := normalize(accountName)

	for _, cat := range catalog.Categories() {
		for _, example := range cat.Examples {
			if name == normalize(example) {
				return cat, MethodExactMatch, nil
			}
		}
	}

	var best *domain.Category
	bestScore := 0
	for _, cat := range catalog.Categories() {
		if score := FuzzyScore(accountName, cat); score > bestScore {
			best = cat
			bestScore = score
		}
	}
	if bestScore >= fuzzyThreshold {
		return best, MethodFuzzyMatch, nil
	}

	canonical := FallbackCanonicalType(accountType)
	fallback := catalog.FirstOfType(canonical)
	if fallback == nil {
		return nil, "", fmt.Errorf("%w: catalog has no category with canonical type %q", domain.ErrConflict, canonical)
	}
	return fallback, MethodTypeFallback, nil
}

// FuzzyScore returns the category's best substring score for the account
// name: 80 when an example is contained in the name, 70 when the name is
// contained in an example, 0 otherwise. Comparisons are case-insensitive.
func FuzzyScore(accountName string, cat *domain.Category) int {
	name := normalize(accountName)
	best := 0
	for _, rawExample := range cat.Examples {
		example := normalize(rawExample)
		if example == "" {
			continue
		}
		score := 0
		if strings.Contains(name, example) {
			score = scoreExampleInName
		} else if strings.Contains(example, name) && name != "" {
			score = scoreNameInExample
		}
		if score > best {
			best = score
		}
	}
	return best
}

// FallbackCanonicalType classifies an account purely by its declared type.
// Total over all inputs: unrecognized types land in opex.
func FallbackCanonicalType(accountType string) domain.CanonicalType {
	switch normalize(accountType) {
	case "income", "other income":
		return domain.CanonicalTypeRevenue
	case "cost of goods sold":
		return domain.CanonicalTypeCOGS
	case "expense", "other expense":
		return domain.CanonicalTypeOpex
	case "bank", "accounts receivable", "fixed asset", "other asset", "other current asset":
		return domain.CanonicalTypeAsset
	case "accounts payable", "credit card", "long term liability", "other current liability":
		return domain.CanonicalTypeLiability
	case "equity":
		return domain.CanonicalTypeEquity
	default:
		return domain.CanonicalTypeOpex
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
