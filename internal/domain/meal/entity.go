package meal

import (
	"strings"

	"github.com/petplates/mealengine/internal/domain/ingredient"
)

// Portion pairs an ingredient with its gram allocation in one meal.
type Portion struct {
	Ingredient ingredient.Ingredient
	Grams      float64
}

// NutritionTotals are the summed macro/calorie totals of a recipe.
// Macros carry one decimal place, kcal is a whole number; the
// aggregator is the single place rounding happens.
type NutritionTotals struct {
	ProteinG float64 `json:"protein"`
	FatG     float64 `json:"fat"`
	FiberG   float64 `json:"fiber"`
	Kcal     int     `json:"kcal"`
}

// RecipeScores holds recipe-level axis scores, each in [0,100].
type RecipeScores struct {
	Health    int `json:"health"`
	Nutrition int `json:"nutrition"`
	Cost      int `json:"cost"`
	Quality   int `json:"quality"`
	Overall   int `json:"overall"`
}

// ScoreBreakdown records one candidate's ingredient-level sub-scores for
// debug output.
type ScoreBreakdown struct {
	Health    float64 `json:"health"`
	Nutrition float64 `json:"nutrition"`
	Quality   float64 `json:"quality"`
	Taste     float64 `json:"taste"`
}

// CandidateScore is a debug record of a scored candidate.
type CandidateScore struct {
	Name      string         `json:"name"`
	Score     float64        `json:"score"`
	Breakdown ScoreBreakdown `json:"breakdown"`
}

// DebugInfo carries generation transparency data.
type DebugInfo struct {
	CandidateCount int              `json:"candidateCount"`
	TopScores      []CandidateScore `json:"topScores"`
}

// GeneratedRecipe is one assembled meal. Per-call output only; this core
// does not persist it.
type GeneratedRecipe struct {
	ID            string
	Name          string
	Tier          Tier
	Portions      []Portion
	Nutrition     NutritionTotals
	Scores        RecipeScores
	EstimatedCost float64
	Debug         DebugInfo
}

// IngredientNames returns the lowercase names of all portioned
// ingredients, in portion order. Used to feed the diversity window.
func (r *GeneratedRecipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Portions))
	for _, p := range r.Portions {
		names = append(names, strings.ToLower(p.Ingredient.Name))
	}
	return names
}

// Contains reports whether any portioned ingredient matches the given
// term by the catalog's substring rules.
func (r *GeneratedRecipe) Contains(term string) bool {
	for _, p := range r.Portions {
		if p.Ingredient.MatchesTerm(term) {
			return true
		}
	}
	return false
}

// TotalGrams sums all portion weights.
func (r *GeneratedRecipe) TotalGrams() float64 {
	var sum float64
	for _, p := range r.Portions {
		sum += p.Grams
	}
	return sum
}
