// Package ingredient contains the immutable ingredient catalog domain.
// Ingredients are loaded once from an external feed and are read-only
// for the lifetime of the process.
package ingredient

import "strings"

// Species identifies the pet species an ingredient may be fed to.
type Species string

const (
	SpeciesDogs       Species = "dogs"
	SpeciesCats       Species = "cats"
	SpeciesBirds      Species = "birds"
	SpeciesReptiles   Species = "reptiles"
	SpeciesPocketPets Species = "pocket-pets"
)

// QualityTier is the catalog's coarse quality stratum for an ingredient.
type QualityTier string

const (
	QualityPremium  QualityTier = "premium"
	QualityStandard QualityTier = "standard"
	QualityBasic    QualityTier = "basic"
)

// Composition holds per-100g nutritional composition. Zero values mean
// the feed had no data for that field, which downstream code treats as
// zero contribution rather than an error.
type Composition struct {
	ProteinPct  float64 `json:"protein"`
	FatPct      float64 `json:"fat"`
	FiberPct    float64 `json:"fiber"`
	KcalPer100g float64 `json:"kcal"`
	Omega3      float64 `json:"omega3,omitempty"`
	CalciumMg   float64 `json:"calcium,omitempty"`
	VitaminAIU  float64 `json:"vitaminA,omitempty"`
}

// Ingredient is an immutable catalog entry.
type Ingredient struct {
	ID           string
	Name         string
	Category     Category
	Composition  Composition
	PricePerLb   float64
	QualityScore int // 1-10 feed rating
	QualityTier  QualityTier

	// Species eligibility and hard exclusion data.
	Species      []Species
	ToxicTo      []Species
	AllergenTags []string

	// Soft signals used by scoring.
	BenefitTags []string // health concerns this ingredient helps with
	TasteTags   []Species // species known to find this palatable

	// Portioning cap as a fraction of pet body weight, per species.
	MaxInclusionPct map[Species]float64
}

// CompatibleWith reports whether the ingredient may be offered to the
// given species at all. Toxicity always wins over the allow list.
func (i Ingredient) CompatibleWith(species Species) bool {
	for _, s := range i.ToxicTo {
		if s == species {
			return false
		}
	}
	for _, s := range i.Species {
		if s == species {
			return true
		}
	}
	return false
}

// MatchesTerm reports whether the given allergy or ban term matches this
// ingredient by case-insensitive substring over name, id, or allergen
// tags. Substring matching is deliberate: "chicken" must exclude
// "chicken breast", "ground chicken" and "chicken liver" alike.
func (i Ingredient) MatchesTerm(term string) bool {
	t := strings.ToLower(strings.TrimSpace(term))
	if t == "" {
		return false
	}
	if strings.Contains(strings.ToLower(i.Name), t) || strings.Contains(strings.ToLower(i.ID), t) {
		return true
	}
	for _, tag := range i.AllergenTags {
		if strings.Contains(strings.ToLower(tag), t) {
			return true
		}
	}
	return false
}

// HasBenefit reports whether the ingredient is tagged as beneficial for
// the given health concern.
func (i Ingredient) HasBenefit(concern string) bool {
	c := strings.ToLower(strings.TrimSpace(concern))
	for _, tag := range i.BenefitTags {
		if strings.ToLower(tag) == c {
			return true
		}
	}
	return false
}

// PalatableTo reports whether the species is known to favor this
// ingredient. Absence of taste data is neutral, not negative.
func (i Ingredient) PalatableTo(species Species) bool {
	for _, s := range i.TasteTags {
		if s == species {
			return true
		}
	}
	return false
}

// MaxInclusionFor returns the portion cap fraction for a species, or 1
// when the feed carries no cap.
func (i Ingredient) MaxInclusionFor(species Species) float64 {
	if i.MaxInclusionPct == nil {
		return 1
	}
	if pct, ok := i.MaxInclusionPct[species]; ok && pct > 0 {
		return pct
	}
	return 1
}

// Validate checks feed-level invariants before an ingredient is admitted
// to the catalog.
func (i Ingredient) Validate() error {
	if i.ID == "" {
		return ErrMissingID
	}
	if i.Name == "" {
		return ErrMissingName
	}
	if i.PricePerLb < 0 {
		return ErrNegativePrice
	}
	if i.QualityScore < 0 || i.QualityScore > 10 {
		return ErrInvalidQualityScore
	}
	return nil
}
