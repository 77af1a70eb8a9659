// Package guard enforces per-user generation rate limits and monthly
// quotas over a transactional counter store. Caps are enforced inside
// the store transaction so concurrent requests from the same user
// cannot slip past a limit through a lost update.
package guard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/ports/outbound"
	apperrors "github.com/petplates/mealengine/pkg/errors"
)

const (
	burstWindow    = 10 * time.Second
	burstLimit     = 3
	sustainWindow  = 60 * time.Second
	sustainLimit   = 10
	DefaultMonthly = 100
)

// Decision is the outcome of a guard check. When OK is false, Code and
// Status carry the denial the transport layer should surface.
type Decision struct {
	OK      bool
	Code    apperrors.ErrorCode
	Message string
	Status  int
	Used    int
	Limit   int
}

func allow() Decision { return Decision{OK: true} }

// windowState is one fixed rate window as stored.
type windowState struct {
	Count       int   `json:"count"`
	WindowStart int64 `json:"windowStart"`
}

// rateDoc is the per-user rate document holding both windows.
type rateDoc struct {
	Burst   windowState `json:"burst"`
	Sustain windowState `json:"sustain"`
}

// Metrics is the guard's instrumentation hook; nil is valid.
type Metrics interface {
	RecordGuardDecision(kind string, allowed bool)
}

// RateGuard checks request rates and monthly quotas for one user
// population. It fails open: a storage or transaction infrastructure
// error allows the request and logs a warning, because losing a few
// over-quota generations is cheaper than blocking every user behind a
// flaky store.
type RateGuard struct {
	store   outbound.CounterStore
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time
}

// NewRateGuard builds a guard over the given counter store. metrics may
// be nil.
func NewRateGuard(store outbound.CounterStore, logger *zap.Logger, metrics Metrics) *RateGuard {
	return &RateGuard{
		store:   store,
		logger:  logger.Named("rate-guard"),
		metrics: metrics,
		now:     time.Now,
	}
}

// EnforceRateLimit checks both fixed windows for the user, rolling any
// expired window before incrementing. If either post-increment count
// exceeds its cap the transaction aborts with nothing written and the
// decision carries RATE_LIMITED.
func (g *RateGuard) EnforceRateLimit(ctx context.Context, userID string) Decision {
	now := g.now()
	key := rateKey(userID)

	err := g.store.Update(ctx, key, func(current []byte) ([]byte, error) {
		var doc rateDoc
		if len(current) > 0 {
			if err := json.Unmarshal(current, &doc); err != nil {
				// A corrupt document resets both windows.
				doc = rateDoc{}
			}
		}

		rollWindow(&doc.Burst, now, burstWindow)
		rollWindow(&doc.Sustain, now, sustainWindow)
		doc.Burst.Count++
		doc.Sustain.Count++

		if doc.Burst.Count > burstLimit || doc.Sustain.Count > sustainLimit {
			return nil, outbound.ErrTxAbort
		}
		return json.Marshal(doc)
	})

	switch {
	case err == nil:
		g.record("rate", true)
		return allow()
	case errors.Is(err, outbound.ErrTxAbort):
		g.record("rate", false)
		return Decision{
			OK:      false,
			Code:    apperrors.CodeRateLimited,
			Message: "too many generation requests, slow down",
			Status:  429,
		}
	default:
		g.logger.Warn("rate limit check failed open",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		g.record("rate", true)
		return allow()
	}
}

// EnforceMonthlyQuota increments the user's counter for the current UTC
// month. The increment only commits when it stays within the limit, so
// a denied request never consumes quota.
func (g *RateGuard) EnforceMonthlyQuota(ctx context.Context, userID string, limit int) Decision {
	if limit <= 0 {
		limit = DefaultMonthly
	}

	key := quotaKey(userID, g.now())
	used := 0

	err := g.store.Update(ctx, key, func(current []byte) ([]byte, error) {
		count := 0
		if len(current) > 0 {
			if err := json.Unmarshal(current, &count); err != nil {
				count = 0
			}
		}

		next := count + 1
		if next > limit {
			used = count
			return nil, outbound.ErrTxAbort
		}
		used = next
		return json.Marshal(next)
	})

	switch {
	case err == nil:
		g.record("quota", true)
		return Decision{OK: true, Used: used, Limit: limit}
	case errors.Is(err, outbound.ErrTxAbort):
		g.record("quota", false)
		return Decision{
			OK:      false,
			Code:    apperrors.CodeLimitReached,
			Message: fmt.Sprintf("monthly generation limit of %d reached", limit),
			Status:  403,
			Used:    used,
			Limit:   limit,
		}
	default:
		g.logger.Warn("monthly quota check failed open",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		g.record("quota", true)
		return Decision{OK: true, Used: used, Limit: limit}
	}
}

func (g *RateGuard) record(kind string, allowed bool) {
	if g.metrics != nil {
		g.metrics.RecordGuardDecision(kind, allowed)
	}
}

// rollWindow resets an expired fixed window so counting restarts from
// the current instant.
func rollWindow(w *windowState, now time.Time, length time.Duration) {
	start := time.UnixMilli(w.WindowStart)
	if w.WindowStart == 0 || now.Sub(start) >= length {
		w.Count = 0
		w.WindowStart = now.UnixMilli()
	}
}

func rateKey(userID string) string {
	return "guard:rate:" + userID
}

// quotaKey scopes the monthly counter to the UTC calendar month.
func quotaKey(userID string, now time.Time) string {
	return fmt.Sprintf("guard:quota:%s:%s", userID, now.UTC().Format("2006-01"))
}
