package compat

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

// fakeStore is a map-backed KeyValueCache; failGet/failSet force errors
// for the best-effort paths.
type fakeStore struct {
	data    map[string][]byte
	failGet bool
	failSet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.failGet {
		return nil, errors.New("store down")
	}
	v, ok := f.data[key]
	if !ok {
		return nil, outbound.ErrCacheMiss
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if f.failSet {
		return errors.New("store down")
	}
	f.data[key] = value
	return nil
}

func newTestCache(t *testing.T, store outbound.KeyValueCache) *ScoreCache {
	t.Helper()
	return NewScoreCache(store, DefaultTTL, zaptest.NewLogger(t), nil)
}

// fakeMetrics tallies read outcomes.
type fakeMetrics struct {
	hits   int
	misses int
}

func (f *fakeMetrics) RecordCacheRead(hit bool) {
	if hit {
		f.hits++
	} else {
		f.misses++
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	c.Write(ctx, "u1", "p1", "r1", "12345", CachedScore{
		OverallScore: 87,
		Breakdown:    &ScoreBreakdown{Health: 90, Nutrition: 85, Safety: 95, Cost: 70},
		Warnings:     []string{"high fat"},
	})

	got := c.Read(ctx, "u1", "p1", "r1", "12345")
	require.NotNil(t, got)
	assert.Equal(t, 87, got.OverallScore)
	require.NotNil(t, got.Breakdown)
	assert.Equal(t, 90, got.Breakdown.Health)
	assert.Equal(t, []string{"high fat"}, got.Warnings)
}

func TestReadExpiredIsMiss(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	c.Write(ctx, "u1", "p1", "r1", "12345", CachedScore{OverallScore: 87})
	require.NotNil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))

	// 31 minutes later the same entry reads as a miss, but the stored
	// value is left in place.
	c.now = func() time.Time { return time.Now().Add(31 * time.Minute) }
	assert.Nil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))
	assert.Len(t, store.data, 1, "expired entries are not deleted")
}

func TestReadFallsBackToPriorFormat(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	prior, err := json.Marshal(priorScore{OverallScore: 72, Timestamp: time.Now().UnixMilli()})
	require.NoError(t, err)
	store.data["compat:v1:u1::p1::r1"] = prior

	got := c.Read(ctx, "u1", "p1", "r1", "any-fingerprint")
	require.NotNil(t, got, "prior-format fallback ignores the fingerprint")
	assert.Equal(t, 72, got.OverallScore)
	assert.Nil(t, got.Breakdown, "prior format carries no breakdown")
}

func TestReadFallsBackToLegacyBareScore(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	store.data["compatScore:u1::p1::r1"] = []byte("64")

	got := c.Read(ctx, "u1", "p1", "r1", "")
	require.NotNil(t, got)
	assert.Equal(t, 64, got.OverallScore)
}

func TestWriteNeverDowngradesFormat(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	c.Write(ctx, "u1", "p1", "r1", "12345", CachedScore{OverallScore: 87})

	for key := range store.data {
		assert.Contains(t, key, "compat:v2:", "writes must use the current format only")
	}
}

func TestMalformedEntryIsMiss(t *testing.T) {
	store := newFakeStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	store.data["compat:v2:u1::p1::r1::12345"] = []byte("{not json")
	assert.Nil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))
}

func TestReadRecordsHitAndMissMetrics(t *testing.T) {
	store := newFakeStore()
	m := &fakeMetrics{}
	c := NewScoreCache(store, DefaultTTL, zaptest.NewLogger(t), m)
	ctx := context.Background()

	assert.Nil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))
	assert.Equal(t, 1, m.misses)
	assert.Equal(t, 0, m.hits)

	c.Write(ctx, "u1", "p1", "r1", "12345", CachedScore{OverallScore: 87})
	require.NotNil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))
	assert.Equal(t, 1, m.hits)

	// Fallback-format hits count as hits too.
	store.data["compatScore:u2::p2::r2"] = []byte("64")
	require.NotNil(t, c.Read(ctx, "u2", "p2", "r2", ""))
	assert.Equal(t, 2, m.hits)
	assert.Equal(t, 1, m.misses)
}

func TestStoreErrorsAreSilent(t *testing.T) {
	store := newFakeStore()
	store.failGet = true
	store.failSet = true
	c := newTestCache(t, store)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		c.Write(ctx, "u1", "p1", "r1", "12345", CachedScore{OverallScore: 87})
		assert.Nil(t, c.Read(ctx, "u1", "p1", "r1", "12345"))
	})
}
