package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	apperrors "github.com/petplates/mealengine/pkg/errors"
)

func TestLoadEmbeddedFeed(t *testing.T) {
	p := NewProvider("", zaptest.NewLogger(t))

	cat, err := p.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Greater(t, cat.Len(), 20)

	t.Run("categories are canonical", func(t *testing.T) {
		for _, ing := range cat.All() {
			assert.NotEqual(t, ingredient.CategoryUnknown, ing.Category,
				"feed entry %s has unrecognized category", ing.ID)
		}
	})

	t.Run("raw feed strings were canonicalized", func(t *testing.T) {
		salmon, ok := cat.ByID("salmon-fillet")
		require.True(t, ok)
		assert.Equal(t, ingredient.CategoryProtein, salmon.Category)

		oil, ok := cat.ByID("fish-oil")
		require.True(t, ok)
		assert.Equal(t, ingredient.CategoryFat, oil.Category)

		flax, ok := cat.ByID("flaxseed-oil")
		require.True(t, ok)
		assert.Equal(t, ingredient.CategoryFat, flax.Category)
	})

	t.Run("every species has candidates", func(t *testing.T) {
		for _, sp := range []ingredient.Species{
			ingredient.SpeciesDogs,
			ingredient.SpeciesCats,
			ingredient.SpeciesBirds,
			ingredient.SpeciesReptiles,
			ingredient.SpeciesPocketPets,
		} {
			assert.NotEmpty(t, cat.ForSpecies(sp), "no feed entries for %s", sp)
		}
	})

	t.Run("toxicity carried over", func(t *testing.T) {
		grapes, ok := cat.ByID("grapes")
		require.True(t, ok)
		assert.False(t, grapes.CompatibleWith(ingredient.SpeciesDogs))
	})
}

func TestLoadExternalFeed(t *testing.T) {
	feed := `[{"id":"carrot","name":"Carrot","category":"vegetable",
		"composition":{"protein":0.9,"fat":0.2,"fiber":2.8,"kcal":41},
		"pricePerLb":0.69,"qualityScore":7,"qualityTier":"basic","species":["dogs"]}]`

	path := filepath.Join(t.TempDir(), "feed.json")
	require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))

	cat, err := NewProvider(path, zaptest.NewLogger(t)).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, cat.Len())

	carrot, ok := cat.ByID("carrot")
	require.True(t, ok)
	assert.Equal(t, ingredient.CategoryVegetable, carrot.Category)
	assert.Equal(t, 41.0, carrot.Composition.KcalPer100g)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewProvider("/nope/feed.json", zaptest.NewLogger(t)).Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeCatalogError, apperrors.GetCode(err))
	})

	t.Run("malformed json", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "feed.json")
		require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o644))

		_, err := NewProvider(path, zaptest.NewLogger(t)).Load(context.Background())
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeCatalogError, apperrors.GetCode(err))
	})

	t.Run("duplicate ids rejected", func(t *testing.T) {
		feed := `[{"id":"x","name":"X","category":"vegetable","qualityScore":5,"species":["dogs"]},
			{"id":"x","name":"X2","category":"vegetable","qualityScore":5,"species":["dogs"]}]`
		path := filepath.Join(t.TempDir(), "feed.json")
		require.NoError(t, os.WriteFile(path, []byte(feed), 0o644))

		_, err := NewProvider(path, zaptest.NewLogger(t)).Load(context.Background())
		assert.Error(t, err)
	})
}
