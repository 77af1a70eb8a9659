// Package testutils provides test data factories for consistent test
// data generation.
package testutils

import (
	"fmt"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/domain/meal"
)

// IngredientBuilder provides a fluent interface for building test
// ingredients. Defaults describe a plausible dog-safe protein.
type IngredientBuilder struct {
	ing ingredient.Ingredient
}

// NewIngredientBuilder creates a builder seeded with fake but valid
// catalog data.
func NewIngredientBuilder(seed int64) *IngredientBuilder {
	faker := gofakeit.New(seed)

	name := faker.NounConcrete()
	return &IngredientBuilder{
		ing: ingredient.Ingredient{
			ID:       fmt.Sprintf("%s-%04d", name, faker.Number(0, 9999)),
			Name:     name,
			Category: ingredient.CategoryProtein,
			Composition: ingredient.Composition{
				ProteinPct:  faker.Float64Range(18, 32),
				FatPct:      faker.Float64Range(2, 15),
				FiberPct:    faker.Float64Range(0, 3),
				KcalPer100g: faker.Float64Range(120, 250),
			},
			PricePerLb:   faker.Float64Range(1, 9),
			QualityScore: faker.Number(5, 9),
			QualityTier:  ingredient.QualityStandard,
			Species:      []ingredient.Species{ingredient.SpeciesDogs},
		},
	}
}

// WithID overrides the generated id.
func (b *IngredientBuilder) WithID(id string) *IngredientBuilder {
	b.ing.ID = id
	return b
}

// WithName overrides the generated name.
func (b *IngredientBuilder) WithName(name string) *IngredientBuilder {
	b.ing.Name = name
	return b
}

// WithCategory sets the canonical category.
func (b *IngredientBuilder) WithCategory(c ingredient.Category) *IngredientBuilder {
	b.ing.Category = c
	return b
}

// WithComposition sets the full nutritional composition.
func (b *IngredientBuilder) WithComposition(c ingredient.Composition) *IngredientBuilder {
	b.ing.Composition = c
	return b
}

// WithPrice sets the per-pound price.
func (b *IngredientBuilder) WithPrice(price float64) *IngredientBuilder {
	b.ing.PricePerLb = price
	return b
}

// WithQuality sets the 1-10 feed rating.
func (b *IngredientBuilder) WithQuality(score int) *IngredientBuilder {
	b.ing.QualityScore = score
	return b
}

// WithSpecies replaces the species allow list.
func (b *IngredientBuilder) WithSpecies(species ...ingredient.Species) *IngredientBuilder {
	b.ing.Species = species
	return b
}

// WithToxicTo marks species the ingredient must never reach.
func (b *IngredientBuilder) WithToxicTo(species ...ingredient.Species) *IngredientBuilder {
	b.ing.ToxicTo = species
	return b
}

// WithAllergenTags sets allergen match terms.
func (b *IngredientBuilder) WithAllergenTags(tags ...string) *IngredientBuilder {
	b.ing.AllergenTags = tags
	return b
}

// WithBenefitTags sets health concern benefit terms.
func (b *IngredientBuilder) WithBenefitTags(tags ...string) *IngredientBuilder {
	b.ing.BenefitTags = tags
	return b
}

// WithMaxInclusion caps the portion share for one species.
func (b *IngredientBuilder) WithMaxInclusion(sp ingredient.Species, pct float64) *IngredientBuilder {
	if b.ing.MaxInclusionPct == nil {
		b.ing.MaxInclusionPct = make(map[ingredient.Species]float64)
	}
	b.ing.MaxInclusionPct[sp] = pct
	return b
}

// Build returns the assembled ingredient.
func (b *IngredientBuilder) Build() ingredient.Ingredient {
	return b.ing
}

// ConstraintsBuilder assembles generation constraints for tests.
type ConstraintsBuilder struct {
	cs meal.Constraints
}

// NewConstraintsBuilder starts from a healthy adult dog profile.
func NewConstraintsBuilder() *ConstraintsBuilder {
	return &ConstraintsBuilder{
		cs: meal.Constraints{
			Species:        ingredient.SpeciesDogs,
			LifeStage:      meal.LifeStageAdult,
			BudgetPerMeal:  4.0,
			TargetCalories: 500,
			PetWeightKg:    12,
		},
	}
}

// ForSpecies switches the pet species.
func (b *ConstraintsBuilder) ForSpecies(sp ingredient.Species) *ConstraintsBuilder {
	b.cs.Species = sp
	return b
}

// WithAllergies sets allergy exclusion terms.
func (b *ConstraintsBuilder) WithAllergies(terms ...string) *ConstraintsBuilder {
	b.cs.Allergies = terms
	return b
}

// WithBanned sets banned ingredient terms.
func (b *ConstraintsBuilder) WithBanned(terms ...string) *ConstraintsBuilder {
	b.cs.BannedIngredients = terms
	return b
}

// WithConcerns sets health concerns.
func (b *ConstraintsBuilder) WithConcerns(concerns ...string) *ConstraintsBuilder {
	b.cs.HealthConcerns = concerns
	return b
}

// WithBudget sets the per-meal budget.
func (b *ConstraintsBuilder) WithBudget(budget float64) *ConstraintsBuilder {
	b.cs.BudgetPerMeal = budget
	return b
}

// WithCalories sets the per-meal calorie target.
func (b *ConstraintsBuilder) WithCalories(kcal float64) *ConstraintsBuilder {
	b.cs.TargetCalories = kcal
	return b
}

// WithWeight sets pet weight in kilograms.
func (b *ConstraintsBuilder) WithWeight(kg float64) *ConstraintsBuilder {
	b.cs.PetWeightKg = kg
	return b
}

// WithDiversity sets the diversity mode and window.
func (b *ConstraintsBuilder) WithDiversity(mode meal.DiversityMode, recent ...string) *ConstraintsBuilder {
	b.cs.DiversityMode = mode
	b.cs.RecentIngredients = recent
	return b
}

// Build returns the assembled constraints, unnormalized; callers that
// need defaults applied call Normalized themselves, mirroring the
// service boundary.
func (b *ConstraintsBuilder) Build() meal.Constraints {
	return b.cs
}
