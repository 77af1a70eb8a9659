// Package outbound defines the interfaces for outbound ports: the
// external collaborators this core consumes but does not own. Concrete
// adapters live under internal/infrastructure.
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/petplates/mealengine/internal/domain/ingredient"
)

// ErrCacheMiss is returned by KeyValueCache.Get when a key is absent or
// expired. Callers treat it (and any other error) as a miss.
var ErrCacheMiss = errors.New("cache: key not found")

// ErrTxAbort aborts a CounterStore.Update without writing. It is the
// sentinel a mutation returns when a post-increment value would exceed
// its cap; the store must guarantee nothing was committed.
var ErrTxAbort = errors.New("counter store: transaction aborted")

// CatalogProvider supplies the immutable ingredient catalog. The feed's
// origin (scraping, CSV, curation) is outside this core.
type CatalogProvider interface {
	Load(ctx context.Context) (*ingredient.Catalog, error)
}

// KeyValueCache is a small, best-effort key/value store used by the
// compatibility score cache. Implementations may lose data at any time;
// all content stored through it is re-derivable.
type KeyValueCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CounterStore exposes atomic read-modify-write over named, user-scoped
// counter documents. Update applies fn to the current document contents
// (nil when absent) and commits the returned replacement atomically
// with respect to concurrent Updates of the same key. When fn returns
// ErrTxAbort the store commits nothing and Update returns ErrTxAbort.
type CounterStore interface {
	Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error
}
