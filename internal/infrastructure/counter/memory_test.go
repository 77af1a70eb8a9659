package counter

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petplates/mealengine/internal/ports/outbound"
)

func TestMemoryStoreUpdate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	err := s.Update(ctx, "k", func(current []byte) ([]byte, error) {
		assert.Nil(t, current, "first update sees no document")
		return []byte("1"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), s.Get("k"))

	err = s.Update(ctx, "k", func(current []byte) ([]byte, error) {
		assert.Equal(t, []byte("1"), current)
		return []byte("2"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("2"), s.Get("k"))
}

func TestMemoryStoreAbortWritesNothing(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Update(ctx, "k", func([]byte) ([]byte, error) {
		return []byte("1"), nil
	}))

	err := s.Update(ctx, "k", func([]byte) ([]byte, error) {
		return nil, outbound.ErrTxAbort
	})
	assert.ErrorIs(t, err, outbound.ErrTxAbort)
	assert.Equal(t, []byte("1"), s.Get("k"), "aborted transaction must not write")
}

func TestMemoryStorePropagatesErrors(t *testing.T) {
	s := NewMemoryStore()
	sentinel := errors.New("boom")

	err := s.Update(context.Background(), "k", func([]byte) ([]byte, error) {
		return nil, sentinel
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	s := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Update(ctx, "k", func([]byte) ([]byte, error) {
		t.Fatal("fn must not run on a cancelled context")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStoreNoLostUpdates(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const workers = 16
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = s.Update(ctx, "counter", func(current []byte) ([]byte, error) {
					n := 0
					if len(current) > 0 {
						var err error
						if n, err = strconv.Atoi(string(current)); err != nil {
							return nil, err
						}
					}
					return []byte(strconv.Itoa(n + 1)), nil
				})
			}
		}()
	}
	wg.Wait()

	n, err := strconv.Atoi(string(s.Get("counter")))
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, n)
}
