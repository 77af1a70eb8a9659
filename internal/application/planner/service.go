package planner

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/domain/ingredient"
	"github.com/petplates/mealengine/internal/domain/meal"
	"github.com/petplates/mealengine/internal/ports/inbound"
)

const diversityWindowCap = 10

// Metrics is the subset of instrumentation the planner emits. A nil
// implementation is valid; callers without monitoring pass nil.
type Metrics interface {
	RecordGeneration(tier string, viable bool)
	RecordBatchItem(success bool)
}

// Service generates recipes from a catalog under caller constraints. It
// implements inbound.PlannerService.
type Service struct {
	catalog *ingredient.Catalog
	logger  *zap.Logger
	metrics Metrics
}

var _ inbound.PlannerService = (*Service)(nil)

// NewService builds a planner over a loaded catalog. metrics may be nil.
func NewService(catalog *ingredient.Catalog, logger *zap.Logger, metrics Metrics) *Service {
	return &Service{
		catalog: catalog,
		logger:  logger.Named("planner"),
		metrics: metrics,
	}
}

// GenerateOne evaluates every quality tier and returns the recipe with
// the highest overall score. It returns (nil, nil) when no tier yields a
// viable meal; that is an expected outcome for over-constrained
// requests, not an error.
func (s *Service) GenerateOne(ctx context.Context, cs meal.Constraints) (*meal.GeneratedRecipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cs = cs.Normalized()
	pool := FilterCandidates(s.catalog, cs)
	if pool.Total() == 0 {
		s.logger.Debug("candidate pool empty after filtering",
			zap.String("species", string(cs.Species)),
			zap.Int("allergies", len(cs.Allergies)),
		)
		return nil, nil
	}

	var best *meal.GeneratedRecipe
	for _, tier := range meal.Tiers {
		built := NewTierBuilder(tier, cs, s.logger).Build(pool)
		if s.metrics != nil {
			s.metrics.RecordGeneration(string(tier), built != nil)
		}
		if built == nil {
			continue
		}
		recipe := s.assemble(built)
		if best == nil || recipe.Scores.Overall > best.Scores.Overall {
			best = recipe
		}
	}

	if best == nil {
		s.logger.Info("no viable recipe for constraints",
			zap.String("species", string(cs.Species)),
			zap.Float64("budget", cs.BudgetPerMeal),
			zap.Float64("targetCalories", cs.TargetCalories),
		)
		return nil, nil
	}
	return best, nil
}

// GenerateBatch produces up to count recipes, feeding each result's
// ingredients back into a rolling diversity window so later meals repeat
// earlier ones less. A panicking item is logged and skipped; the batch
// continues.
func (s *Service) GenerateBatch(ctx context.Context, cs meal.Constraints, count int) ([]*meal.GeneratedRecipe, error) {
	if count <= 0 {
		return nil, nil
	}

	cs = cs.Normalized()
	window := append([]string(nil), cs.RecentIngredients...)
	recipes := make([]*meal.GeneratedRecipe, 0, count)

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return recipes, err
		}

		itemCs := cs
		itemCs.RecentIngredients = window

		recipe := s.generateRecovered(ctx, itemCs, i)
		if s.metrics != nil {
			s.metrics.RecordBatchItem(recipe != nil)
		}
		if recipe == nil {
			continue
		}

		recipes = append(recipes, recipe)
		window = pushWindow(window, recipe.IngredientNames())
	}
	return recipes, nil
}

// generateRecovered isolates one batch item so a panic in scoring or
// assembly cannot take down the whole batch.
func (s *Service) generateRecovered(ctx context.Context, cs meal.Constraints, idx int) (recipe *meal.GeneratedRecipe) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("batch item panicked",
				zap.Int("index", idx),
				zap.Any("panic", r),
			)
			recipe = nil
		}
	}()

	recipe, err := s.GenerateOne(ctx, cs)
	if err != nil {
		s.logger.Warn("batch item failed", zap.Int("index", idx), zap.Error(err))
		return nil
	}
	return recipe
}

// assemble turns a built tier into a finished recipe with identity,
// aggregated nutrition and recipe-level scores.
func (s *Service) assemble(built *builtTier) *meal.GeneratedRecipe {
	nutrition := AggregateNutrition(built.portions)
	return &meal.GeneratedRecipe{
		ID:            uuid.New().String(),
		Name:          recipeName(built.portions),
		Tier:          built.tier,
		Portions:      built.portions,
		Nutrition:     nutrition,
		Scores:        scoreRecipe(built),
		EstimatedCost: built.estimatedCost,
		Debug:         built.debug,
	}
}

// scoreRecipe computes recipe-level axis scores from the selected
// candidates' sub-scores and the bowl cost. This formula is distinct
// from the ingredient ranking formula: cost enters only here, and the
// weights differ because a finished bowl is judged as a whole.
func scoreRecipe(built *builtTier) meal.RecipeScores {
	var health, taste, quality, nutritionFit float64
	for _, sc := range built.selected {
		health += sc.breakdown.Health
		taste += sc.breakdown.Taste
		quality += sc.breakdown.Quality
		nutritionFit += sc.breakdown.Nutrition
	}
	n := float64(len(built.selected))
	if n > 0 {
		health /= n
		taste /= n
		quality /= n
		nutritionFit /= n
	}

	cost := costScore(built.estimatedCost)
	composite := health*0.4 + taste*0.3 + quality*0.2 + nutritionFit*0.1
	overall := composite*0.7 + float64(cost)*0.3

	return meal.RecipeScores{
		Health:    clampRecipeScore(health),
		Nutrition: clampRecipeScore(nutritionFit),
		Cost:      cost,
		Quality:   clampRecipeScore(quality),
		Overall:   clampRecipeScore(overall),
	}
}

// costScore rewards cheaper bowls on a three-step scale.
func costScore(cost float64) int {
	switch {
	case cost < 4:
		return 90
	case cost < 6:
		return 70
	default:
		return 50
	}
}

func clampRecipeScore(v float64) int {
	r := int(math.Round(v))
	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// recipeName titles a bowl after its two largest portions.
func recipeName(portions []meal.Portion) string {
	if len(portions) == 0 {
		return "Empty Bowl"
	}

	first, second := 0, -1
	for i := 1; i < len(portions); i++ {
		if portions[i].Grams > portions[first].Grams {
			second = first
			first = i
		} else if second < 0 || portions[i].Grams > portions[second].Grams {
			second = i
		}
	}

	if second < 0 {
		return fmt.Sprintf("%s Bowl", titleCase(portions[first].Ingredient.Name))
	}
	return fmt.Sprintf("%s & %s Bowl",
		titleCase(portions[first].Ingredient.Name),
		titleCase(portions[second].Ingredient.Name),
	)
}

func titleCase(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// pushWindow appends names to the diversity window, evicting the oldest
// entries once the cap is exceeded. Most recent entries sit at the end.
func pushWindow(window, names []string) []string {
	window = append(window, names...)
	if len(window) > diversityWindowCap {
		window = window[len(window)-diversityWindowCap:]
	}
	return window
}
