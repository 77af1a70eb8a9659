package planner

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/domain/meal"
)

const (
	// gramsPerPound converts portion weights to catalog pricing units.
	gramsPerPound = 453.592

	// minCalorieCoverage is the fraction of the calorie target a tier
	// must reach for its build to count as viable.
	minCalorieCoverage = 0.5

	// topScoreDebugLimit bounds the debug breakdown list.
	topScoreDebugLimit = 10
)

// categoryNeed is one slot in a species' meal template.
type categoryNeed struct {
	category ingredient.Category
	count    int
	required bool
}

// mealTemplate returns the per-species category needs. The first entry
// is always the species' staple. A missing required category makes the
// tier build fail; optional categories are simply skipped when empty.
func mealTemplate(species ingredient.Species) []categoryNeed {
	switch species {
	case ingredient.SpeciesDogs:
		return []categoryNeed{
			{ingredient.CategoryProtein, 1, true},
			{ingredient.CategoryCarb, 1, false},
			{ingredient.CategoryVegetable, 1, true},
			{ingredient.CategoryFat, 1, false},
		}
	case ingredient.SpeciesCats:
		// Obligate carnivores: no carbs, extra vegetable for variety.
		return []categoryNeed{
			{ingredient.CategoryProtein, 1, true},
			{ingredient.CategoryVegetable, 2, true},
			{ingredient.CategoryFat, 1, false},
		}
	case ingredient.SpeciesBirds:
		return []categoryNeed{
			{ingredient.CategorySeed, 2, true},
			{ingredient.CategoryNut, 1, false},
			{ingredient.CategoryFruit, 1, false},
			{ingredient.CategoryVegetable, 1, false},
		}
	case ingredient.SpeciesReptiles:
		return []categoryNeed{
			{ingredient.CategoryInsect, 2, true},
			{ingredient.CategoryVegetable, 1, true},
			{ingredient.CategoryFruit, 1, false},
		}
	case ingredient.SpeciesPocketPets:
		return []categoryNeed{
			{ingredient.CategoryHay, 1, true},
			{ingredient.CategoryVegetable, 2, true},
			{ingredient.CategoryFruit, 1, false},
			{ingredient.CategorySeed, 1, false},
		}
	default:
		return []categoryNeed{
			{ingredient.CategoryProtein, 1, true},
			{ingredient.CategoryCarb, 1, false},
			{ingredient.CategoryVegetable, 1, true},
		}
	}
}

// tierMealMultiplier scales meal size (grams per kg of body weight) per
// tier for dogs and cats; other species feed at a flat species rate.
func tierMealMultiplier(species ingredient.Species, tier meal.Tier) float64 {
	switch species {
	case ingredient.SpeciesDogs, ingredient.SpeciesCats:
		switch tier {
		case meal.TierPremium:
			return 80
		case meal.TierBudget:
			return 50
		default:
			return 65
		}
	case ingredient.SpeciesBirds:
		return 40
	case ingredient.SpeciesReptiles:
		return 30
	case ingredient.SpeciesPocketPets:
		return 100
	default:
		return 65
	}
}

// nutrientTargets returns the target protein/fat fractions of total meal
// weight per species.
func nutrientTargets(species ingredient.Species) (proteinPct, fatPct float64) {
	switch species {
	case ingredient.SpeciesDogs:
		return 0.20, 0.08
	case ingredient.SpeciesCats:
		return 0.23, 0.10
	case ingredient.SpeciesBirds:
		return 0.15, 0.08
	case ingredient.SpeciesReptiles:
		return 0.15, 0.07
	case ingredient.SpeciesPocketPets:
		return 0.14, 0.06
	default:
		return 0.20, 0.08
	}
}

// maxProteinShare caps how much of the bowl the primary protein may
// occupy so micronutrient carriers are never crowded out entirely.
func maxProteinShare(species ingredient.Species) float64 {
	if species == ingredient.SpeciesCats {
		return 0.90
	}
	return 0.85
}

// builtTier is the raw output of one tier build, before recipe assembly.
type builtTier struct {
	tier          meal.Tier
	portions      []meal.Portion
	selected      []scoredCandidate
	estimatedCost float64
	debug         meal.DebugInfo
}

// TierBuilder assembles one recipe attempt for a single quality tier.
type TierBuilder struct {
	tier        meal.Tier
	constraints meal.Constraints
	scorer      *Scorer
	logger      *zap.Logger
}

// NewTierBuilder creates a builder for one tier of one request. The
// constraints must already be normalized.
func NewTierBuilder(tier meal.Tier, cs meal.Constraints, logger *zap.Logger) *TierBuilder {
	return &TierBuilder{
		tier:        tier,
		constraints: cs,
		scorer:      NewScorer(cs),
		logger:      logger.Named("tier-builder"),
	}
}

// Build selects and portions ingredients for this tier. A nil return
// means no viable combination exists for this tier; that is an expected
// outcome, never an error.
func (b *TierBuilder) Build(pool CandidatePool) *builtTier {
	selected := b.selectIngredients(pool)
	if selected == nil {
		return nil
	}

	portions := b.allocatePortions(selected)
	if len(portions) == 0 {
		b.logger.Debug("no portions allocated",
			zap.String("tier", string(b.tier)),
			zap.String("species", string(b.constraints.Species)),
		)
		return nil
	}

	cost := estimateCost(portions)
	portions, cost = b.fitBudget(portions, cost)

	if kcalTotal(portions) < b.constraints.TargetCalories*minCalorieCoverage {
		b.logger.Debug("calorie coverage below minimum",
			zap.String("tier", string(b.tier)),
			zap.Float64("kcal", kcalTotal(portions)),
			zap.Float64("target", b.constraints.TargetCalories),
		)
		return nil
	}

	return &builtTier{
		tier:          b.tier,
		portions:      portions,
		selected:      selected,
		estimatedCost: cost,
		debug:         b.buildDebug(pool),
	}
}

// selectIngredients walks the species meal template picking the
// top-scoring candidate per slot. Scores are recomputed after each pick
// because the remaining calorie gap shrinks as the bowl fills.
func (b *TierBuilder) selectIngredients(pool CandidatePool) []scoredCandidate {
	template := mealTemplate(b.constraints.Species)

	var selected []scoredCandidate
	taken := make(map[string]bool)
	gap := nutritionGap{
		RemainingKcal: b.constraints.TargetCalories,
		TargetKcal:    b.constraints.TargetCalories,
	}

	for _, need := range template {
		available := excludeTaken(pool[need.category], taken)
		if len(available) == 0 {
			if need.required {
				b.logger.Debug("required category empty",
					zap.String("tier", string(b.tier)),
					zap.String("category", string(need.category)),
					zap.String("species", string(b.constraints.Species)),
				)
				return nil
			}
			continue
		}

		for i := 0; i < need.count && len(available) > 0; i++ {
			ranked := b.scorer.RankCategory(available, gap)
			pick := ranked[0]
			selected = append(selected, pick)
			taken[pick.ingredient.ID] = true
			available = excludeTaken(available, taken)

			// A nominal 100g of the pick closes part of the gap.
			gap.RemainingKcal -= pick.ingredient.Composition.KcalPer100g
			if gap.RemainingKcal < 0 {
				gap.RemainingKcal = 0
			}
		}
	}

	if len(selected) == 0 {
		return nil
	}
	return selected
}

// allocatePortions turns selected ingredients into gram allocations that
// approach the species nutrient targets.
func (b *TierBuilder) allocatePortions(selected []scoredCandidate) []meal.Portion {
	cs := b.constraints
	totalGrams := cs.PetWeightKg * tierMealMultiplier(cs.Species, b.tier)
	proteinPct, _ := nutrientTargets(cs.Species)
	targetProteinGrams := totalGrams * proteinPct

	if isCarnivore(cs.Species) {
		return b.allocateCarnivore(selected, totalGrams, targetProteinGrams)
	}
	return b.allocateByDensity(selected, totalGrams)
}

// allocateCarnivore sizes the staple protein to hit the protein target,
// splits the remainder across the other ingredients, then enforces the
// invariant that protein dominates the bowl's calories.
func (b *TierBuilder) allocateCarnivore(selected []scoredCandidate, totalGrams, targetProteinGrams float64) []meal.Portion {
	cs := b.constraints

	var primary *ingredient.Ingredient
	var others []ingredient.Ingredient
	for _, sc := range selected {
		ing := sc.ingredient
		if primary == nil && ing.Category == ingredient.CategoryProtein {
			primary = &ing
			continue
		}
		others = append(others, ing)
	}
	if primary == nil {
		return nil
	}

	density := primary.Composition.ProteinPct / 100
	if density <= 0 {
		density = 0.20
	}
	proteinGrams := targetProteinGrams / density
	proteinGrams = minFloat(proteinGrams, totalGrams*maxProteinShare(cs.Species))
	proteinGrams = minFloat(proteinGrams, cs.PetWeightKg*1000*primary.MaxInclusionFor(cs.Species))

	portions := []meal.Portion{{Ingredient: *primary, Grams: roundGrams(proteinGrams)}}

	remaining := totalGrams - proteinGrams
	if remaining > 0 && len(others) > 0 {
		per := remaining / float64(len(others))
		for _, ing := range others {
			grams := minFloat(per, cs.PetWeightKg*1000*ing.MaxInclusionFor(cs.Species))
			if grams = roundGrams(grams); grams > 0 {
				portions = append(portions, meal.Portion{Ingredient: ing, Grams: grams})
			}
		}
	}

	return enforceProteinDominance(portions)
}

// allocateByDensity distributes the bowl across all selected
// ingredients, 70% evenly and 30% biased toward protein density. Used
// for non-carnivore species where no single staple must dominate.
func (b *TierBuilder) allocateByDensity(selected []scoredCandidate, totalGrams float64) []meal.Portion {
	cs := b.constraints

	totalDensity := 0.0
	for _, sc := range selected {
		totalDensity += sc.ingredient.Composition.ProteinPct
	}

	portions := make([]meal.Portion, 0, len(selected))
	for _, sc := range selected {
		ing := sc.ingredient
		base := totalGrams / float64(len(selected))

		weight := 1.0 / float64(len(selected))
		if totalDensity > 0 {
			weight = ing.Composition.ProteinPct / totalDensity
		}

		grams := base*0.70 + totalGrams*weight*0.30
		grams = minFloat(grams, cs.PetWeightKg*1000*ing.MaxInclusionFor(cs.Species))
		if grams = roundGrams(grams); grams > 0 {
			portions = append(portions, meal.Portion{Ingredient: ing, Grams: grams})
		}
	}
	return portions
}

// enforceProteinDominance scales non-protein portions down until protein
// supplies the majority of calories. Carnivore bowls where that cannot
// hold (e.g. a zero-calorie protein entry) are abandoned.
func enforceProteinDominance(portions []meal.Portion) []meal.Portion {
	proteinKcal, otherKcal := 0.0, 0.0
	for _, p := range portions {
		kcal := p.Ingredient.Composition.KcalPer100g * p.Grams / 100
		if p.Ingredient.Category == ingredient.CategoryProtein {
			proteinKcal += kcal
		} else {
			otherKcal += kcal
		}
	}

	if proteinKcal <= 0 {
		return nil
	}
	if proteinKcal > otherKcal {
		return portions
	}

	// Shrink the sides so protein takes just over half the calories.
	factor := proteinKcal / otherKcal * 0.95
	out := make([]meal.Portion, 0, len(portions))
	for _, p := range portions {
		if p.Ingredient.Category != ingredient.CategoryProtein {
			p.Grams = roundGrams(p.Grams * factor)
			if p.Grams <= 0 {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// fitBudget proportionally shrinks the bowl when its cost overruns the
// per-meal budget. Shrinking stops at the point where the bowl would
// fall under the calorie coverage floor; the coverage check after this
// decides whether the result still stands.
func (b *TierBuilder) fitBudget(portions []meal.Portion, cost float64) ([]meal.Portion, float64) {
	budget := b.constraints.BudgetPerMeal
	if budget <= 0 || cost <= budget {
		return portions, cost
	}

	factor := budget / cost
	if kcal := kcalTotal(portions); kcal > 0 {
		floor := b.constraints.TargetCalories * minCalorieCoverage / kcal
		if factor < floor {
			factor = floor
		}
	}
	if factor >= 1 {
		return portions, cost
	}

	scaled := make([]meal.Portion, 0, len(portions))
	for _, p := range portions {
		p.Grams = roundGrams(p.Grams * factor)
		if p.Grams > 0 {
			scaled = append(scaled, p)
		}
	}
	return scaled, estimateCost(scaled)
}

func (b *TierBuilder) buildDebug(pool CandidatePool) meal.DebugInfo {
	gap := nutritionGap{
		RemainingKcal: b.constraints.TargetCalories,
		TargetKcal:    b.constraints.TargetCalories,
	}

	var all []scoredCandidate
	for _, list := range pool {
		all = append(all, b.scorer.RankCategory(list, gap)...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].total > all[j].total })

	top := all
	if len(top) > topScoreDebugLimit {
		top = top[:topScoreDebugLimit]
	}

	scores := make([]meal.CandidateScore, 0, len(top))
	for _, sc := range top {
		scores = append(scores, meal.CandidateScore{
			Name:      sc.ingredient.Name,
			Score:     sc.total,
			Breakdown: sc.breakdown,
		})
	}

	return meal.DebugInfo{
		CandidateCount: pool.Total(),
		TopScores:      scores,
	}
}

// estimateCost prices the bowl from the catalog's per-pound prices.
func estimateCost(portions []meal.Portion) float64 {
	cost := 0.0
	for _, p := range portions {
		if p.Ingredient.PricePerLb <= 0 {
			continue
		}
		cost += p.Grams / gramsPerPound * p.Ingredient.PricePerLb
	}
	return cost
}

// kcalTotal is the unrounded calorie sum used for viability checks; the
// aggregator owns all user-facing rounding.
func kcalTotal(portions []meal.Portion) float64 {
	total := 0.0
	for _, p := range portions {
		total += p.Ingredient.Composition.KcalPer100g * p.Grams / 100
	}
	return total
}

func excludeTaken(list []ingredient.Ingredient, taken map[string]bool) []ingredient.Ingredient {
	out := make([]ingredient.Ingredient, 0, len(list))
	for _, ing := range list {
		if !taken[ing.ID] {
			out = append(out, ing)
		}
	}
	return out
}

func isCarnivore(species ingredient.Species) bool {
	return species == ingredient.SpeciesDogs || species == ingredient.SpeciesCats
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func roundGrams(g float64) float64 {
	if g < 0 {
		return 0
	}
	return float64(int(g + 0.5))
}
