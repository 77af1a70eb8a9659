// Package inbound defines the interfaces for inbound ports: the use
// cases this core exposes to callers (transport layers live elsewhere).
package inbound

import (
	"context"

	"github.com/petplates/mealengine/internal/domain/meal"
)

// PlannerService exposes meal generation use cases.
//
// Both operations treat "no viable recipe" as an expected outcome, not
// an error: GenerateOne returns (nil, nil) and GenerateBatch may return
// fewer recipes than requested. Errors are reserved for genuine
// programming or infrastructure faults.
type PlannerService interface {
	// GenerateOne plans a single meal by attempting every quality tier
	// and keeping the highest-scoring result.
	GenerateOne(ctx context.Context, constraints meal.Constraints) (*meal.GeneratedRecipe, error)

	// GenerateBatch plans up to count meals, threading a bounded
	// diversity window through successive attempts so later recipes
	// penalize just-used ingredients. Failed attempts are skipped, not
	// retried.
	GenerateBatch(ctx context.Context, constraints meal.Constraints, count int) ([]*meal.GeneratedRecipe, error)
}
