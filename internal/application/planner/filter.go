package planner

import (
	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/domain/meal"
)

// budgetFlex is how far past the per-meal budget a single ingredient's
// price may reach before it is gated out. High-value ingredients (e.g.
// salmon) are worth keeping even when they could not fill the whole bowl.
const budgetFlex = 3.0

// CandidatePool holds the eligible ingredients per canonical category
// after every hard constraint has been applied.
type CandidatePool map[ingredient.Category][]ingredient.Ingredient

// Total returns the number of candidates across all categories.
func (p CandidatePool) Total() int {
	n := 0
	for _, list := range p {
		n += len(list)
	}
	return n
}

// FilterCandidates applies the hard eligibility gates over the catalog.
// Every rule here is boolean: an ingredient that fails any gate is
// removed before scoring and no score can ever bring it back.
//
// Gates, in order: species compatibility and toxicity (via the catalog),
// allergy substring match, banned-ingredient substring match, supplement
// exclusion (supplements are add-ons, not base ingredients), and the
// per-ingredient price gate.
func FilterCandidates(catalog *ingredient.Catalog, cs meal.Constraints) CandidatePool {
	pool := make(CandidatePool)

	for _, ing := range catalog.ForSpecies(cs.Species) {
		if matchesAny(ing, cs.Allergies) {
			continue
		}
		if matchesAny(ing, cs.BannedIngredients) {
			continue
		}
		if ing.Category == ingredient.CategorySupplement {
			continue
		}
		if cs.BudgetPerMeal > 0 && ing.PricePerLb > cs.BudgetPerMeal*budgetFlex {
			continue
		}
		pool[ing.Category] = append(pool[ing.Category], ing)
	}

	return pool
}

func matchesAny(ing ingredient.Ingredient, terms []string) bool {
	for _, t := range terms {
		if ing.MatchesTerm(t) {
			return true
		}
	}
	return false
}
