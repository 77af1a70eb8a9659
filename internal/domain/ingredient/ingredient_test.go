package ingredient

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalCategory(t *testing.T) {
	tests := []struct {
		raw  string
		want Category
	}{
		{"protein", CategoryProtein},
		{"fish", CategoryProtein},
		{"Seafood", CategoryProtein},
		{"organ meat", CategoryProtein},
		{"red meat", CategoryProtein},
		{"poultry", CategoryProtein},
		{"egg", CategoryProtein},
		{"vegetable", CategoryVegetable},
		{"leafy green", CategoryVegetable},
		{"veggies", CategoryVegetable},
		{"fat", CategoryFat},
		{"oil", CategoryFat},
		{"fish oil", CategoryProtein}, // protein rules run first
		{"carb", CategoryCarb},
		{"grain", CategoryCarb},
		{"starch", CategoryCarb},
		{"berry", CategoryFruit},
		{"fruit", CategoryFruit},
		{"seed", CategorySeed},
		{"nut", CategoryNut},
		{"insect", CategoryInsect},
		{"hay", CategoryHay},
		{"pellet", CategoryPellet},
		{"supplement", CategorySupplement},
		{"  Supplement  ", CategorySupplement},
		{"mystery goo", CategoryUnknown},
		{"", CategoryUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalCategory(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCompatibleWithToxicityWins(t *testing.T) {
	grapes := Ingredient{
		ID:      "grapes",
		Name:    "Grapes",
		Species: []Species{SpeciesDogs, SpeciesBirds},
		ToxicTo: []Species{SpeciesDogs},
	}

	assert.False(t, grapes.CompatibleWith(SpeciesDogs), "toxicity must override the allow list")
	assert.True(t, grapes.CompatibleWith(SpeciesBirds))
	assert.False(t, grapes.CompatibleWith(SpeciesCats), "absent from allow list")
}

func TestMatchesTermSubstring(t *testing.T) {
	breast := Ingredient{
		ID:           "chicken-breast",
		Name:         "Chicken Breast",
		AllergenTags: []string{"poultry"},
	}

	assert.True(t, breast.MatchesTerm("chicken"))
	assert.True(t, breast.MatchesTerm("CHICKEN"))
	assert.True(t, breast.MatchesTerm("poultry"))
	assert.False(t, breast.MatchesTerm("beef"))
	assert.False(t, breast.MatchesTerm(""))
	assert.False(t, breast.MatchesTerm("   "))
}

func TestMaxInclusionFor(t *testing.T) {
	liver := Ingredient{
		ID:              "beef-liver",
		Name:            "Beef Liver",
		MaxInclusionPct: map[Species]float64{SpeciesDogs: 0.05},
	}

	assert.Equal(t, 0.05, liver.MaxInclusionFor(SpeciesDogs))
	assert.Equal(t, 1.0, liver.MaxInclusionFor(SpeciesCats), "no cap means no limit")

	uncapped := Ingredient{ID: "carrot", Name: "Carrot"}
	assert.Equal(t, 1.0, uncapped.MaxInclusionFor(SpeciesDogs))
}

func TestNewCatalogValidation(t *testing.T) {
	valid := Ingredient{ID: "carrot", Name: "Carrot", QualityScore: 7}

	t.Run("rejects empty feed", func(t *testing.T) {
		_, err := NewCatalog(nil)
		assert.ErrorIs(t, err, ErrEmptyCatalog)
	})

	t.Run("rejects duplicate ids", func(t *testing.T) {
		_, err := NewCatalog([]Ingredient{valid, valid})
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("rejects invalid entries", func(t *testing.T) {
		_, err := NewCatalog([]Ingredient{{Name: "No ID"}})
		assert.ErrorIs(t, err, ErrMissingID)

		_, err = NewCatalog([]Ingredient{{ID: "x", Name: "X", QualityScore: 11}})
		assert.ErrorIs(t, err, ErrInvalidQualityScore)
	})

	t.Run("indexes by id", func(t *testing.T) {
		cat, err := NewCatalog([]Ingredient{valid})
		require.NoError(t, err)

		got, ok := cat.ByID("carrot")
		require.True(t, ok)
		assert.Equal(t, "Carrot", got.Name)

		_, ok = cat.ByID("missing")
		assert.False(t, ok)
	})
}

func TestCatalogForSpecies(t *testing.T) {
	cat, err := NewCatalog([]Ingredient{
		{ID: "chicken", Name: "Chicken", QualityScore: 8, Species: []Species{SpeciesDogs, SpeciesCats}},
		{ID: "millet", Name: "Millet", QualityScore: 7, Species: []Species{SpeciesBirds}},
		{ID: "grapes", Name: "Grapes", QualityScore: 6, Species: []Species{SpeciesDogs}, ToxicTo: []Species{SpeciesDogs}},
	})
	require.NoError(t, err)

	dogs := cat.ForSpecies(SpeciesDogs)
	require.Len(t, dogs, 1)
	assert.Equal(t, "chicken", dogs[0].ID)

	birds := cat.ForSpecies(SpeciesBirds)
	require.Len(t, birds, 1)
	assert.Equal(t, "millet", birds[0].ID)
}
