// Package compat caches pet/recipe compatibility scores. The cache is a
// pure derived optimization: every entry is recomputable, so storage
// errors and malformed payloads degrade to misses, never to failures.
package compat

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

const (
	// Key prefixes, newest format first. Writes only ever use
	// prefixCurrent; the older prefixes exist for read fallback.
	prefixCurrent = "compat:v2:"
	prefixPrior   = "compat:v1:"
	prefixLegacy  = "compatScore:"

	// DefaultTTL bounds how long a stored score is served before being
	// treated as a miss. Expired entries are not deleted; the backing
	// store's own eviction reclaims them.
	DefaultTTL = 30 * time.Minute
)

// ScoreBreakdown itemizes a compatibility verdict.
type ScoreBreakdown struct {
	Health    int `json:"health"`
	Nutrition int `json:"nutrition"`
	Safety    int `json:"safety"`
	Cost      int `json:"cost"`
}

// CachedScore is the current-format cache payload.
type CachedScore struct {
	OverallScore int             `json:"overallScore"`
	Timestamp    int64           `json:"timestamp"`
	Breakdown    *ScoreBreakdown `json:"breakdown,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	Strengths    []string        `json:"strengths,omitempty"`
	Gaps         []string        `json:"gaps,omitempty"`
}

// priorScore is the v1 payload shape: score and timestamp only.
type priorScore struct {
	OverallScore int   `json:"overallScore"`
	Timestamp    int64 `json:"timestamp"`
}

// Metrics receives cache read outcomes. A nil Metrics disables
// instrumentation.
type Metrics interface {
	RecordCacheRead(hit bool)
}

// ScoreCache reads and writes compatibility scores through an injected
// key/value store.
type ScoreCache struct {
	store   outbound.KeyValueCache
	ttl     time.Duration
	logger  *zap.Logger
	metrics Metrics
	now     func() time.Time
}

// NewScoreCache builds a cache with the given TTL; ttl <= 0 selects
// DefaultTTL. metrics may be nil.
func NewScoreCache(store outbound.KeyValueCache, ttl time.Duration, logger *zap.Logger, metrics Metrics) *ScoreCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ScoreCache{
		store:   store,
		ttl:     ttl,
		logger:  logger.Named("score-cache"),
		metrics: metrics,
		now:     time.Now,
	}
}

// cacheKey joins the identity tuple. An empty fingerprint yields the
// coarser three-part key.
func cacheKey(userID, petID, recipeID, fingerprint string) string {
	parts := []string{userID, petID, recipeID}
	if fingerprint != "" {
		parts = append(parts, fingerprint)
	}
	return strings.Join(parts, "::")
}

// Read returns the cached score for the identity tuple, trying the
// current format first, then the prior format without the fingerprint,
// then the legacy bare-number format. Any error or stale entry is a
// miss; Read never fails.
func (c *ScoreCache) Read(ctx context.Context, userID, petID, recipeID, fingerprint string) *CachedScore {
	key := cacheKey(userID, petID, recipeID, fingerprint)

	if raw, err := c.store.Get(ctx, prefixCurrent+key); err == nil {
		var score CachedScore
		if json.Unmarshal(raw, &score) == nil && c.fresh(score.Timestamp) {
			c.recordRead(true)
			return &score
		}
	}

	priorKey := cacheKey(userID, petID, recipeID, "")
	if raw, err := c.store.Get(ctx, prefixPrior+priorKey); err == nil {
		var score priorScore
		if json.Unmarshal(raw, &score) == nil && c.fresh(score.Timestamp) {
			c.recordRead(true)
			return &CachedScore{OverallScore: score.OverallScore, Timestamp: score.Timestamp}
		}
	}

	// Legacy entries carry no timestamp so freshness cannot be judged;
	// the store's TTL is the only bound on their age.
	if raw, err := c.store.Get(ctx, prefixLegacy+priorKey); err == nil {
		var bare int
		if json.Unmarshal(raw, &bare) == nil {
			c.recordRead(true)
			return &CachedScore{OverallScore: bare}
		}
	}

	c.recordRead(false)
	return nil
}

func (c *ScoreCache) recordRead(hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCacheRead(hit)
	}
}

// Write stores a score in the current format. Failures are logged and
// swallowed; the caller's result does not depend on the cache.
func (c *ScoreCache) Write(ctx context.Context, userID, petID, recipeID, fingerprint string, score CachedScore) {
	if score.Timestamp == 0 {
		score.Timestamp = c.now().UnixMilli()
	}

	raw, err := json.Marshal(score)
	if err != nil {
		c.logger.Warn("score marshal failed", zap.Error(err))
		return
	}

	key := prefixCurrent + cacheKey(userID, petID, recipeID, fingerprint)
	if err := c.store.Set(ctx, key, raw, c.ttl); err != nil {
		c.logger.Warn("score cache write failed",
			zap.String("key", key),
			zap.Error(err),
		)
	}
}

// fresh reports whether a millisecond timestamp is within the TTL.
func (c *ScoreCache) fresh(tsMillis int64) bool {
	if tsMillis <= 0 {
		return false
	}
	age := c.now().Sub(time.UnixMilli(tsMillis))
	return age >= 0 && age < c.ttl
}
