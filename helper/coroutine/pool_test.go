package coroutine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapKeepsOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	results := Map(context.Background(), 3, items, func(n int) (int, error) {
		return n * n, nil
	})

	require.Len(t, results, len(items))
	for i, r := range results {
		assert.Equal(t, i, r.Index)
		assert.NoError(t, r.Err)
		assert.Equal(t, items[i]*items[i], r.Value)
	}
}

func TestExecuteBoundsConcurrency(t *testing.T) {
	var running, peak int32
	works := make([]WorkFunc[int], 20)
	for i := range works {
		works[i] = func() (int, error) {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			atomic.AddInt32(&running, -1)
			return 0, nil
		}
	}

	NewCoroutinePool[int](2).Execute(context.Background(), works)
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestExecuteRecoversPanic(t *testing.T) {
	works := []WorkFunc[string]{
		func() (string, error) { return "ok", nil },
		func() (string, error) { panic("boom") },
	}
	results := NewCoroutinePool[string](2).Execute(context.Background(), works)

	assert.Equal(t, "ok", results[0].Value)
	require.Error(t, results[1].Err)
	assert.Contains(t, results[1].Err.Error(), "boom")
}

func TestExecuteCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	errs := Each(ctx, 1, []int{1, 2, 3}, func(int) error { return nil })
	for _, err := range errs {
		assert.True(t, errors.Is(err, context.Canceled))
	}
	assert.ErrorIs(t, FirstError(errs), context.Canceled)
}
