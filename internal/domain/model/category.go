package model

import "strings"

// Category is the coarse product family of a query.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryGroceries   Category = "groceries"
	CategoryVegetables  Category = "vegetables"
	CategoryFood        Category = "food"
	CategoryGeneral     Category = "general"
)

// Categories lists every known category.
var Categories = []Category{ //nolint:gochecknoglobals // fixed enum table
	CategoryElectronics,
	CategoryGroceries,
	CategoryVegetables,
	CategoryFood,
	CategoryGeneral,
}

// ParseCategory maps free text to a Category; unknown text is general.
func ParseCategory(s string) Category {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c
		}
	}
	return CategoryGeneral
}

// String implements fmt.Stringer.
func (c Category) String() string { return string(c) }

// Classification is the per-request interpretation of a raw query.
type Classification struct {
	RawQuery   string   `json:"rawQuery"`
	SearchTerm string   `json:"searchTerm"`
	Category   Category `json:"category"`
}
