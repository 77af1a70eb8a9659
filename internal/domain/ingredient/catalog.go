package ingredient

// Catalog is the immutable ingredient registry. It is constructed once
// from an external feed and only read afterwards, so it needs no
// locking.
type Catalog struct {
	all  []Ingredient
	byID map[string]Ingredient
}

// NewCatalog validates and indexes a feed of ingredients. Categories are
// expected to already be canonical; use the infrastructure loader for
// raw feeds.
func NewCatalog(ingredients []Ingredient) (*Catalog, error) {
	if len(ingredients) == 0 {
		return nil, ErrEmptyCatalog
	}

	byID := make(map[string]Ingredient, len(ingredients))
	all := make([]Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if err := ing.Validate(); err != nil {
			return nil, err
		}
		if _, dup := byID[ing.ID]; dup {
			return nil, ErrDuplicateID
		}
		byID[ing.ID] = ing
		all = append(all, ing)
	}

	return &Catalog{all: all, byID: byID}, nil
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.all)
}

// ByID looks up a single ingredient.
func (c *Catalog) ByID(id string) (Ingredient, bool) {
	ing, ok := c.byID[id]
	return ing, ok
}

// All returns a copy of every catalog entry.
func (c *Catalog) All() []Ingredient {
	out := make([]Ingredient, len(c.all))
	copy(out, c.all)
	return out
}

// ForSpecies returns the ingredients that may be offered to the given
// species. Toxic entries are excluded here, before any scoring runs.
func (c *Catalog) ForSpecies(species Species) []Ingredient {
	out := make([]Ingredient, 0, len(c.all))
	for _, ing := range c.all {
		if ing.CompatibleWith(species) {
			out = append(out, ing)
		}
	}
	return out
}
