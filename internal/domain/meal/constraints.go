// Package meal contains the per-request meal planning domain: generation
// constraints, assembled recipes, and the composition fingerprint used
// as a cache-key component.
package meal

import (
	"strings"

	"github.com/petplates/mealengine/internal/domain/ingredient"
)

// LifeStage of the pet being fed.
type LifeStage string

const (
	LifeStagePuppy  LifeStage = "puppy"
	LifeStageAdult  LifeStage = "adult"
	LifeStageSenior LifeStage = "senior"
)

// DiversityMode controls how hard recently used ingredients are pushed
// away during a batch.
type DiversityMode string

const (
	DiversityHigh   DiversityMode = "high"
	DiversityMedium DiversityMode = "medium"
	DiversityLow    DiversityMode = "low"
	DiversityNone   DiversityMode = "none"
)

// Tier is one of the three quality/cost strata attempted per request.
type Tier string

const (
	TierPremium  Tier = "premium"
	TierStandard Tier = "standard"
	TierBudget   Tier = "budget"
)

// Tiers lists all strata in evaluation order. Every generation attempt
// evaluates all three and keeps the best; there is no first-success
// short-circuit.
var Tiers = []Tier{TierPremium, TierStandard, TierBudget}

// Constraints captures everything a single generation request may
// demand. Built per call from the pet profile, never persisted.
type Constraints struct {
	Species           ingredient.Species
	LifeStage         LifeStage
	HealthConcerns    []string
	Allergies         []string
	BannedIngredients []string
	BudgetPerMeal     float64
	TargetCalories    float64
	PetWeightKg       float64
	DiversityMode     DiversityMode

	// RecentIngredients is the diversity window: lowercase ingredient
	// names from recipes generated earlier in the same batch, oldest
	// first.
	RecentIngredients []string
}

// Normalized returns a copy with lowercased, trimmed exclusion terms and
// defaults applied. Planner code always works on the normalized form.
func (c Constraints) Normalized() Constraints {
	out := c
	out.Allergies = lowerAll(c.Allergies)
	out.BannedIngredients = lowerAll(c.BannedIngredients)
	out.HealthConcerns = lowerAll(c.HealthConcerns)
	out.RecentIngredients = lowerAll(c.RecentIngredients)

	if out.BudgetPerMeal <= 0 {
		out.BudgetPerMeal = 4.0
	}
	if out.TargetCalories <= 0 {
		out.TargetCalories = 500
	}
	if out.PetWeightKg <= 0 {
		out.PetWeightKg = 5
	}
	if out.DiversityMode == "" {
		out.DiversityMode = DiversityMedium
	}
	if out.LifeStage == "" {
		out.LifeStage = LifeStageAdult
	}
	return out
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
