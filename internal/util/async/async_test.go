package async

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(v string) func(context.Context) (string, error) {
	return func(_ context.Context) (string, error) { return v, nil }
}

func TestCollect_Success(t *testing.T) {
	t.Parallel()

	results := Collect(context.Background(), 0, []Task[string]{
		{Name: "task1", Func: value("a")},
		{Name: "task2", Func: value("b")},
		{Name: "task3", Func: value("c")},
	})

	require.Len(t, results, 3)
	for _, r := range results {
		assert.True(t, r.OK())
	}
	assert.Equal(t, "a", results[0].Value)
	assert.Equal(t, "b", results[1].Value)
	assert.Equal(t, "c", results[2].Value)
}

func TestCollect_EmptyTasks(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Collect[int](context.Background(), 4, nil))
	assert.Empty(t, Collect(context.Background(), 4, []Task[int]{}))
}

func TestCollect_FailureDoesNotStopSiblings(t *testing.T) {
	t.Parallel()
	var completed atomic.Int32

	results := Collect(context.Background(), 0, []Task[int]{
		{Name: "fast-fail", Func: func(_ context.Context) (int, error) {
			return 0, errors.New("fast fail")
		}},
		{Name: "slow-1", Func: func(_ context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			completed.Add(1)
			return 1, nil
		}},
		{Name: "slow-2", Func: func(_ context.Context) (int, error) {
			time.Sleep(20 * time.Millisecond)
			completed.Add(1)
			return 2, nil
		}},
	})

	assert.Equal(t, int32(2), completed.Load())
	assert.False(t, results[0].OK())
	assert.True(t, results[1].OK())
	assert.True(t, results[2].OK())
}

func TestCollect_PanicBecomesFailure(t *testing.T) {
	t.Parallel()

	results := Collect(context.Background(), 2, []Task[string]{
		{Name: "boom", Func: func(_ context.Context) (string, error) {
			panic("unexpected")
		}},
		{Name: "fine", Func: value("ok")},
	})

	require.Len(t, results, 2)
	require.Error(t, results[0].Err)
	assert.ErrorIs(t, results[0].Err, ErrPanic)
	assert.Contains(t, results[0].Err.Error(), "boom")
	assert.Equal(t, "", results[0].Value)
	assert.Equal(t, "ok", results[1].Value)
}

func TestCollect_RespectsLimit(t *testing.T) {
	t.Parallel()
	var current, peak atomic.Int32

	tasks := make([]Task[int], 8)
	for i := range tasks {
		tasks[i] = Task[int]{Name: "task", Func: func(_ context.Context) (int, error) {
			c := current.Add(1)
			for {
				old := peak.Load()
				if c <= old || peak.CompareAndSwap(old, c) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return i, nil
		}}
	}

	results := Collect(context.Background(), 3, tasks)

	require.Len(t, results, 8)
	assert.LessOrEqual(t, peak.Load(), int32(3))
	for i, r := range results {
		assert.Equal(t, i, r.Value)
	}
}
