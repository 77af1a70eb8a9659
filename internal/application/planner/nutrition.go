package planner

import (
	"math"

	"github.com/petplates/mealengine/internal/domain/meal"
)

// AggregateNutrition sums macro totals across portions. This is the only
// place recipe nutrition numbers are rounded: macro grams to one decimal,
// calories to the nearest integer. Missing composition fields contribute
// zero.
func AggregateNutrition(portions []meal.Portion) meal.NutritionTotals {
	var protein, fat, fiber, kcal float64
	for _, p := range portions {
		factor := p.Grams / 100
		c := p.Ingredient.Composition
		protein += c.ProteinPct * factor
		fat += c.FatPct * factor
		fiber += c.FiberPct * factor
		kcal += c.KcalPer100g * factor
	}

	return meal.NutritionTotals{
		ProteinG: roundTenth(protein),
		FatG:     roundTenth(fat),
		FiberG:   roundTenth(fiber),
		Kcal:     int(math.Round(kcal)),
	}
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
