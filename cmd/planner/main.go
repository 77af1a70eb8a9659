// Command planner runs the meal planning engine end to end: it loads
// the ingredient catalog, applies the generation guards, produces a
// week of meals for a sample pet and caches a compatibility score.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/application/compat"
	"github.com/petplates/mealengine/internal/application/guard"
	"github.com/petplates/mealengine/internal/application/planner"
	"github.com/petplates/mealengine/internal/domain/meal"
	"github.com/petplates/mealengine/internal/infrastructure/cache"
	"github.com/petplates/mealengine/internal/infrastructure/catalog"
	"github.com/petplates/mealengine/internal/infrastructure/config"
	"github.com/petplates/mealengine/internal/infrastructure/counter"
	"github.com/petplates/mealengine/internal/infrastructure/monitoring"
	"github.com/petplates/mealengine/internal/ports/outbound"
	"github.com/petplates/mealengine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	userID := flag.String("user", "demo-user", "user id for guard checks")
	batch := flag.Int("batch", 7, "number of meals to generate")
	flag.Parse()

	if err := run(*configPath, *userID, *batch); err != nil {
		fmt.Fprintf(os.Stderr, "planner: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, userID string, batchSize int) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer log.Sync()

	ctx := context.Background()
	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)

	cat, err := catalog.NewProvider(cfg.Catalog.FeedPath, log).Load(ctx)
	if err != nil {
		return err
	}

	counters := buildCounterStore(cfg, log)
	guards := guard.NewRateGuard(counters, log, metrics)
	scores := compat.NewScoreCache(cache.NewLocalCache(cfg.Cache.MaxSize), cfg.Cache.ScoreTTL, log, metrics)
	svc := planner.NewService(cat, log, metrics)

	if d := guards.EnforceRateLimit(ctx, userID); !d.OK {
		return fmt.Errorf("%s: %s", d.Code, d.Message)
	}
	quota := guards.EnforceMonthlyQuota(ctx, userID, cfg.Guard.MonthlyLimit)
	if !quota.OK {
		return fmt.Errorf("%s: %s", quota.Code, quota.Message)
	}
	log.Info("quota consumed", zap.Int("used", quota.Used), zap.Int("limit", quota.Limit))

	if batchSize > cfg.Planner.MaxBatchSize {
		batchSize = cfg.Planner.MaxBatchSize
	}

	cs := meal.Constraints{
		Species:        "dogs",
		LifeStage:      meal.LifeStageAdult,
		HealthConcerns: []string{"joint-health"},
		Allergies:      []string{"beef"},
		BudgetPerMeal:  cfg.Planner.DefaultBudgetPerMeal,
		TargetCalories: cfg.Planner.DefaultTargetCalories,
		PetWeightKg:    12,
	}

	recipes, err := svc.GenerateBatch(ctx, cs, batchSize)
	if err != nil {
		return err
	}

	for i, r := range recipes {
		fmt.Printf("%d. %s [%s]  %d kcal  $%.2f  score %d\n",
			i+1, r.Name, r.Tier, r.Nutrition.Kcal, r.EstimatedCost, r.Scores.Overall)
		for _, p := range r.Portions {
			fmt.Printf("     %-24s %6.0fg\n", p.Ingredient.Name, p.Grams)
		}

		fp := meal.FingerprintRecipe(r)
		scores.Write(ctx, userID, "demo-pet", r.ID, fp, compat.CachedScore{
			OverallScore: r.Scores.Overall,
		})
		scores.Read(ctx, userID, "demo-pet", r.ID, fp)
	}

	log.Info("batch complete",
		zap.Int("requested", batchSize),
		zap.Int("generated", len(recipes)),
	)
	return nil
}

// buildCounterStore selects Redis when configured, otherwise the
// in-process store.
func buildCounterStore(cfg *config.Config, log *zap.Logger) outbound.CounterStore {
	if !cfg.Guard.UseRedis {
		return counter.NewMemoryStore()
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	return counter.NewRedisStore(client, log)
}
