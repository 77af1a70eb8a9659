package ingredient

import "strings"

// Category is the closed set of canonical ingredient categories.
// Raw feed categories are normalized exactly once, at ingestion;
// nothing downstream branches on raw category strings.
type Category string

const (
	CategoryProtein    Category = "protein"
	CategoryVegetable  Category = "vegetable"
	CategoryFat        Category = "fat"
	CategoryCarb       Category = "carb"
	CategorySeed       Category = "seed"
	CategoryNut        Category = "nut"
	CategoryFruit      Category = "fruit"
	CategorySupplement Category = "supplement"
	CategoryHay        Category = "hay"
	CategoryPellet     Category = "pellet"
	CategoryInsect     Category = "insect"
	CategoryUnknown    Category = "unknown"
)

// specialized categories that pass through canonicalization unchanged
var passthroughCategories = map[Category]bool{
	CategorySeed:       true,
	CategoryNut:        true,
	CategoryFruit:      true,
	CategoryInsect:     true,
	CategoryHay:        true,
	CategoryPellet:     true,
	CategorySupplement: true,
}

// CanonicalCategory normalizes ad hoc feed category strings into the
// closed Category enum. Catalog feeds historically used "fish",
// "seafood", "meat", "poultry" and similar to all mean protein.
func CanonicalCategory(raw string) Category {
	c := strings.ToLower(strings.TrimSpace(raw))

	switch {
	case c == "protein",
		strings.Contains(c, "protein"),
		strings.Contains(c, "meat"),
		strings.Contains(c, "poultry"),
		strings.Contains(c, "fish"),
		strings.Contains(c, "seafood"),
		strings.Contains(c, "egg"):
		return CategoryProtein
	case c == "vegetable",
		strings.Contains(c, "veg"),
		strings.Contains(c, "green"):
		return CategoryVegetable
	case c == "fat", strings.Contains(c, "oil"):
		return CategoryFat
	case c == "carb", strings.Contains(c, "grain"), strings.Contains(c, "starch"):
		return CategoryCarb
	case strings.Contains(c, "berry"), strings.Contains(c, "fruit"):
		return CategoryFruit
	}

	if passthroughCategories[Category(c)] {
		return Category(c)
	}

	return CategoryUnknown
}
