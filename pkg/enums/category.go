package enums

import "strings"

// Category is the canonical industry segment a company listing belongs to.
// Category-scoped deletes and priority overrides match on the exact stored
// value, so every entry point must normalize through ParseCategory first.
type Category string

const (
	CategoryYarn        Category = "Yarn"
	CategoryKnitting    Category = "Knitting"
	CategoryDyeing      Category = "Dyeing"
	CategoryPrinting    Category = "Printing"
	CategoryEmbroidery  Category = "Embroidery"
	CategoryGarments    Category = "Garments"
	CategoryMachinery   Category = "Machinery"
	CategoryAccessories Category = "Accessories"
	CategoryCompacting  Category = "Compacting"
	CategoryExporters   Category = "Exporters"
)

var validCategories = []Category{
	CategoryYarn,
	CategoryKnitting,
	CategoryDyeing,
	CategoryPrinting,
	CategoryEmbroidery,
	CategoryGarments,
	CategoryMachinery,
	CategoryAccessories,
	CategoryCompacting,
	CategoryExporters,
}

// Categories returns the full closed set in display order.
func Categories() []Category {
	out := make([]Category, len(validCategories))
	copy(out, validCategories)
	return out
}

// String implements fmt.Stringer.
func (c Category) String() string {
	return string(c)
}

// IsValid reports whether the value is one of the known categories.
func (c Category) IsValid() bool {
	for _, candidate := range validCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCategory converts the raw string to a Category. Matching is
// case-insensitive on input but the returned value is always canonical.
func ParseCategory(value string) (Category, bool) {
	for _, candidate := range validCategories {
		if string(candidate) == value {
			return candidate, true
		}
	}
	for _, candidate := range validCategories {
		if strings.EqualFold(string(candidate), value) {
			return candidate, true
		}
	}
	return "", false
}
