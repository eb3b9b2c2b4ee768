package worker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gsarma/folio/internal/worker"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// inFlight tracks the highest number of concurrent calls observed.
type inFlight struct {
	cur atomic.Int32
	max atomic.Int32
}

func (f *inFlight) enter() {
	n := f.cur.Add(1)
	for {
		m := f.max.Load()
		if n <= m || f.max.CompareAndSwap(m, n) {
			return
		}
	}
}

func (f *inFlight) leave() { f.cur.Add(-1) }

func TestMap_ResultsAddressedByIndex(t *testing.T) {
	inputs := []string{"a", "b", "c", "d", "e", "f", "g"}

	got := worker.Map(context.Background(), 3, len(inputs), func(_ context.Context, i int) string {
		// Later indexes finish first.
		time.Sleep(time.Duration(len(inputs)-i) * time.Millisecond)
		return inputs[i] + "!"
	})

	require.Len(t, got, len(inputs))
	for i, in := range inputs {
		assert.Equal(t, in+"!", got[i])
	}
}

func TestMap_RespectsLimit(t *testing.T) {
	var f inFlight
	const limit = 2

	worker.Map(context.Background(), limit, 10, func(_ context.Context, i int) int {
		f.enter()
		defer f.leave()
		time.Sleep(5 * time.Millisecond)
		return i
	})

	assert.LessOrEqual(t, f.max.Load(), int32(limit))
	assert.Equal(t, int32(0), f.cur.Load())
}

func TestMap_NonPositiveLimitIsBounded(t *testing.T) {
	var f inFlight

	worker.Map(context.Background(), 0, 20, func(_ context.Context, i int) int {
		f.enter()
		defer f.leave()
		time.Sleep(2 * time.Millisecond)
		return i
	})

	assert.LessOrEqual(t, f.max.Load(), int32(worker.DefaultLimit))
}

func TestMap_Empty(t *testing.T) {
	called := false
	got := worker.Map(context.Background(), 5, 0, func(context.Context, int) bool {
		called = true
		return true
	})
	assert.Empty(t, got)
	assert.False(t, called)
}

func TestMap_EveryIndexCalledOnce(t *testing.T) {
	var mu sync.Mutex
	seen := map[int]int{}

	worker.Map(context.Background(), 4, 50, func(_ context.Context, i int) struct{} {
		mu.Lock()
		seen[i]++
		mu.Unlock()
		return struct{}{}
	})

	require.Len(t, seen, 50)
	for i, n := range seen {
		assert.Equalf(t, 1, n, "index %d", i)
	}
}

func TestForEach_ReturnsFirstError(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	err := worker.ForEach(context.Background(), 1, 10, func(_ context.Context, i int) error {
		calls.Add(1)
		if i == 2 {
			return boom
		}
		return nil
	})

	require.ErrorIs(t, err, boom)
	assert.Less(t, calls.Load(), int32(10))
}

func TestForEach_AllSucceed(t *testing.T) {
	var calls atomic.Int32
	err := worker.ForEach(context.Background(), 3, 8, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int32(8), calls.Load())
}
