package counter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

const (
	// txRetries bounds optimistic-lock retries when a watched key is
	// modified by a concurrent client.
	txRetries = 5

	// keyRetention keeps counter documents long enough to span a full
	// monthly quota window plus slack, then lets Redis reclaim them.
	keyRetention = 45 * 24 * time.Hour
)

// RedisStore is a CounterStore over Redis. Each Update runs as a
// WATCH/MULTI/EXEC optimistic transaction so concurrent updates to the
// same user's counters never lose increments.
type RedisStore struct {
	client redis.UniversalClient
	logger *zap.Logger
}

var _ outbound.CounterStore = (*RedisStore)(nil)

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(client redis.UniversalClient, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		logger: logger.Named("redis-counter"),
	}
}

// Update applies fn to the current value of key inside a watched
// transaction. An fn error aborts with nothing written; a concurrent
// modification retries up to txRetries times before giving up.
func (s *RedisStore) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	txn := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, keyRetention)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < txRetries; attempt++ {
		err := s.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			s.logger.Debug("counter transaction contended, retrying",
				zap.String("key", key),
				zap.Int("attempt", attempt+1),
			)
			continue
		}
		return err
	}
	return redis.TxFailedErr
}
