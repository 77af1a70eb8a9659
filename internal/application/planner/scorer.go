package planner

import (
	"sort"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/domain/meal"
)

// Ingredient-level scoring weights. These are deliberately distinct from
// the recipe-level weights in service.go: the two formulas score
// different things (a candidate's fitness vs. an assembled meal's
// quality) and are tested independently.
const (
	weightHealth    = 0.40
	weightNutrition = 0.50
	weightQuality   = 0.10
)

// Diversity penalty ceilings per mode. The penalty is subtracted from a
// candidate's weighted score, so even a heavily repeated ingredient
// stays eligible when nothing else in its category remains.
var diversityPenaltyCeiling = map[meal.DiversityMode]float64{
	meal.DiversityHigh:   35,
	meal.DiversityMedium: 25,
	meal.DiversityLow:    12,
	meal.DiversityNone:   0,
}

// scoredCandidate pairs an ingredient with its weighted total and the
// per-axis breakdown kept for debug output and recipe-level averaging.
type scoredCandidate struct {
	ingredient ingredient.Ingredient
	total      float64
	breakdown  meal.ScoreBreakdown
}

// nutritionGap describes what the tentatively selected portions still
// owe against the request targets.
type nutritionGap struct {
	RemainingKcal float64
	TargetKcal    float64
}

// Scorer computes multi-axis ingredient scores for one request.
type Scorer struct {
	constraints meal.Constraints
}

// NewScorer creates a scorer bound to normalized constraints.
func NewScorer(cs meal.Constraints) *Scorer {
	return &Scorer{constraints: cs}
}

// Score computes the weighted score for a single candidate given the
// remaining nutrition gap and the current diversity window.
func (s *Scorer) Score(ing ingredient.Ingredient, gap nutritionGap) scoredCandidate {
	breakdown := meal.ScoreBreakdown{
		Health:    s.scoreHealth(ing),
		Nutrition: s.scoreNutritionFit(ing, gap),
		Quality:   scoreQuality(ing),
		Taste:     s.scoreTaste(ing),
	}

	total := breakdown.Health*weightHealth +
		breakdown.Nutrition*weightNutrition +
		breakdown.Quality*weightQuality

	total -= s.diversityPenalty(ing)
	if total < 0 {
		total = 0
	}

	return scoredCandidate{ingredient: ing, total: total, breakdown: breakdown}
}

// RankCategory scores and sorts one category's candidates, best first.
func (s *Scorer) RankCategory(candidates []ingredient.Ingredient, gap nutritionGap) []scoredCandidate {
	scored := make([]scoredCandidate, 0, len(candidates))
	for _, ing := range candidates {
		scored = append(scored, s.Score(ing, gap))
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].total > scored[j].total
	})
	return scored
}

// scoreHealth rewards ingredients tagged as beneficial for the pet's
// health concerns: +35 per matched concern, capped at 100. With no
// concerns every candidate is neutral.
func (s *Scorer) scoreHealth(ing ingredient.Ingredient) float64 {
	if len(s.constraints.HealthConcerns) == 0 {
		return 50
	}

	score := 0.0
	for _, concern := range s.constraints.HealthConcerns {
		if ing.HasBenefit(concern) {
			score += 35
		}
	}
	return clampScore(score)
}

// scoreNutritionFit measures how well this candidate's composition
// closes the remaining gap toward the calorie target, anchored on a
// protein-density ladder so dense proteins dominate their category.
func (s *Scorer) scoreNutritionFit(ing ingredient.Ingredient, gap nutritionGap) float64 {
	comp := ing.Composition

	ladder := 0.0
	switch p := comp.ProteinPct; {
	case p >= 30:
		ladder += 70
	case p >= 25:
		ladder += 55
	case p >= 20:
		ladder += 40
	case p >= 15:
		ladder += 25
	case p >= 10:
		ladder += 12
	case p >= 5:
		ladder += 6
	}

	switch {
	case comp.Omega3 > 1:
		ladder += 10
	case comp.Omega3 > 0.5:
		ladder += 5
	}

	switch {
	case comp.FiberPct > 5:
		ladder += 10
	case comp.FiberPct > 2:
		ladder += 5
	}

	if comp.CalciumMg > 100 {
		ladder += 5
	}
	if comp.VitaminAIU > 500 {
		ladder += 5
	}
	ladder = clampScore(ladder)

	// Gap closure: compare a nominal 100g portion against what the
	// tentative selection still owes. With the target already met the
	// axis is neutral so dense ingredients stop crowding the bowl.
	closure := 50.0
	if gap.RemainingKcal > 0 {
		contribution := comp.KcalPer100g
		if contribution > gap.RemainingKcal {
			contribution = gap.RemainingKcal
		}
		closure = clampScore(contribution / gap.RemainingKcal * 100)
	}

	return clampScore(ladder*0.7 + closure*0.3)
}

// scoreQuality converts the catalog's 1-10 rating to the 0-100 scale.
func scoreQuality(ing ingredient.Ingredient) float64 {
	return clampScore(float64(ing.QualityScore) * 10)
}

// scoreTaste is neutral unless the species is known to favor the
// ingredient. It feeds recipe-level palatability, not the candidate
// total.
func (s *Scorer) scoreTaste(ing ingredient.Ingredient) float64 {
	if ing.PalatableTo(s.constraints.Species) {
		return 80
	}
	return 50
}

// diversityPenalty charges a candidate for each appearance of its name
// in the recent-ingredients window. Newer entries charge more: an
// occurrence at the newest slot costs the full per-hit ceiling share,
// decaying linearly toward the oldest slot.
func (s *Scorer) diversityPenalty(ing ingredient.Ingredient) float64 {
	recent := s.constraints.RecentIngredients
	if len(recent) == 0 {
		return 0
	}
	ceiling := diversityPenaltyCeiling[s.constraints.DiversityMode]
	if ceiling == 0 {
		return 0
	}

	name := normalizeName(ing.Name)
	penalty := 0.0
	for idx, used := range recent {
		if used == name {
			recency := float64(idx+1) / float64(len(recent))
			penalty += ceiling * recency
		}
	}
	return penalty
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
