package models

import "strings"

// Category is one of the fixed grocery category labels. The set is a closed
// contract shared with the persistence and UI layers; adding a value requires
// a coordinated schema change.
type Category string

// The full category set. CategoryOther is the universal fallback: every item
// resolves to exactly one category, never to none.
const (
	CategoryFruits     Category = "Fruits"
	CategoryVegetables Category = "Vegetables"
	CategoryDairy      Category = "Dairy"
	CategoryMeat       Category = "Meat"
	CategoryBakery     Category = "Bakery"
	CategoryBeverages  Category = "Beverages"
	CategorySnacks     Category = "Snacks"
	CategoryCereals    Category = "Cereals"
	CategorySweets     Category = "Sweets"
	CategoryOils       Category = "Oils"
	CategoryOther      Category = "Other"
)

// AllCategories lists every valid category in display order.
var AllCategories = []Category{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryBeverages,
	CategorySnacks,
	CategoryCereals,
	CategorySweets,
	CategoryOils,
	CategoryOther,
}

// ParseCategory maps a free-form label to a Category, case-insensitively.
// Unknown labels map to CategoryOther so that external classifier output can
// never introduce a value outside the closed set.
func ParseCategory(s string) Category {
	trimmed := strings.TrimSpace(s)
	for _, c := range AllCategories {
		if strings.EqualFold(string(c), trimmed) {
			return c
		}
	}
	return CategoryOther
}

// IsValidCategory reports whether s is exactly one of the enumerated labels.
func IsValidCategory(s string) bool {
	for _, c := range AllCategories {
		if string(c) == s {
			return true
		}
	}
	return false
}
