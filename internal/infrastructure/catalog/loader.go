// Package catalog loads the ingredient catalog from a JSON feed and
// canonicalizes it into the domain model.
package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/ports/outbound"
	apperrors "github.com/petplates/mealengine/pkg/errors"
)

//go:embed data/ingredients.json
var embeddedFeed embed.FS

// feedRecord is the wire shape of one catalog feed entry. Raw category
// strings are canonicalized at ingestion so the rest of the engine only
// ever sees known categories.
type feedRecord struct {
	ID           string                 `json:"id"`
	Name         string                 `json:"name"`
	Category     string                 `json:"category"`
	Composition  ingredient.Composition `json:"composition"`
	PricePerLb   float64                `json:"pricePerLb"`
	QualityScore int                    `json:"qualityScore"`
	QualityTier  string                 `json:"qualityTier"`
	Species      []string               `json:"species"`
	ToxicTo      []string               `json:"toxicTo,omitempty"`
	AllergenTags []string               `json:"allergenTags,omitempty"`
	BenefitTags  []string               `json:"benefitTags,omitempty"`
	TasteTags    []string               `json:"tasteTags,omitempty"`
	MaxInclusion map[string]float64     `json:"maxInclusionPct,omitempty"`
}

// Provider loads a catalog from either an external feed file or the
// embedded default feed. It implements outbound.CatalogProvider.
type Provider struct {
	path   string
	logger *zap.Logger
}

var _ outbound.CatalogProvider = (*Provider)(nil)

// NewProvider creates a provider. An empty path selects the embedded
// feed shipped with the binary.
func NewProvider(path string, logger *zap.Logger) *Provider {
	return &Provider{path: path, logger: logger.Named("catalog")}
}

// Load reads, decodes and validates the feed. Feed-level validation
// failures are catalog errors; the engine refuses to start on a bad
// feed rather than plan meals from partial data.
func (p *Provider) Load(ctx context.Context) (*ingredient.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, source, err := p.readFeed()
	if err != nil {
		return nil, apperrors.NewCatalogError("reading ingredient feed", err)
	}

	var records []feedRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, apperrors.NewCatalogError("decoding ingredient feed", err)
	}

	ingredients := make([]ingredient.Ingredient, 0, len(records))
	for _, rec := range records {
		ingredients = append(ingredients, toDomain(rec))
	}

	cat, err := ingredient.NewCatalog(ingredients)
	if err != nil {
		return nil, apperrors.NewCatalogError("building catalog", err)
	}

	p.logger.Info("ingredient catalog loaded",
		zap.String("source", source),
		zap.Int("ingredients", cat.Len()),
	)
	return cat, nil
}

func (p *Provider) readFeed() ([]byte, string, error) {
	if p.path != "" {
		raw, err := os.ReadFile(p.path)
		if err != nil {
			return nil, "", fmt.Errorf("feed file %s: %w", p.path, err)
		}
		return raw, p.path, nil
	}

	raw, err := embeddedFeed.ReadFile("data/ingredients.json")
	if err != nil {
		return nil, "", fmt.Errorf("embedded feed: %w", err)
	}
	return raw, "embedded", nil
}

func toDomain(rec feedRecord) ingredient.Ingredient {
	ing := ingredient.Ingredient{
		ID:           rec.ID,
		Name:         rec.Name,
		Category:     ingredient.CanonicalCategory(rec.Category),
		Composition:  rec.Composition,
		PricePerLb:   rec.PricePerLb,
		QualityScore: rec.QualityScore,
		QualityTier:  ingredient.QualityTier(rec.QualityTier),
		Species:      toSpecies(rec.Species),
		ToxicTo:      toSpecies(rec.ToxicTo),
		AllergenTags: rec.AllergenTags,
		BenefitTags:  rec.BenefitTags,
		TasteTags:    toSpecies(rec.TasteTags),
	}

	if len(rec.MaxInclusion) > 0 {
		ing.MaxInclusionPct = make(map[ingredient.Species]float64, len(rec.MaxInclusion))
		for sp, pct := range rec.MaxInclusion {
			ing.MaxInclusionPct[ingredient.Species(sp)] = pct
		}
	}
	return ing
}

func toSpecies(raw []string) []ingredient.Species {
	if len(raw) == 0 {
		return nil
	}
	out := make([]ingredient.Species, 0, len(raw))
	for _, s := range raw {
		out = append(out, ingredient.Species(s))
	}
	return out
}
