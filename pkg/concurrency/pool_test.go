package concurrency

import (
	"sync/atomic"
	"testing"
	"time"

	"dnclient/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_SubmitRunsTasks(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		Name:        "TestPool",
		MaxWorkers:  4,
		MaxCapacity: 100,
	}, logging.NewNop())

	var counter int64
	for i := 0; i < 50; i++ {
		err := pool.Submit(func() {
			atomic.AddInt64(&counter, 1)
		})
		require.NoError(t, err)
	}
	pool.Stop()

	assert.Equal(t, int64(50), atomic.LoadInt64(&counter))
}

func TestWorkerPool_NonBlockingReturnsErrorWhenFull(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{
		Name:        "TinyPool",
		MaxWorkers:  1,
		MaxCapacity: 1,
		NonBlocking: true,
	}, logging.NewNop())
	defer pool.Stop()

	started := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	require.NoError(t, pool.Submit(func() {
		close(started)
		<-release
	}))
	<-started

	// Worker is blocked: one task fits in the queue, the next must be rejected
	require.NoError(t, pool.Submit(func() {}))
	err := pool.Submit(func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TinyPool")
}

func TestWorkerPool_SubmitAndWait(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "WaitPool"}, logging.NewNop())
	defer pool.Stop()

	var done atomic.Bool
	pool.SubmitAndWait(func() {
		time.Sleep(10 * time.Millisecond)
		done.Store(true)
	})

	assert.True(t, done.Load())
}

func TestWorkerPool_RecoversFromPanic(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "PanicPool", MaxWorkers: 2}, logging.NewNop())
	defer pool.Stop()

	require.NoError(t, pool.Submit(func() {
		panic("boom")
	}))

	// The pool must keep accepting and running tasks afterwards
	var ok atomic.Bool
	pool.SubmitAndWait(func() {
		ok.Store(true)
	})
	assert.True(t, ok.Load())
}

func TestWorkerPool_Stats(t *testing.T) {
	pool := NewWorkerPool(PoolConfig{Name: "StatsPool", MaxWorkers: 2}, logging.NewNop())

	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func() {}))
	}
	pool.Stop()

	stats := pool.Stats()
	assert.Equal(t, uint64(5), stats.SubmittedTasks)
	assert.Equal(t, uint64(5), stats.SuccessfulTasks)
	assert.Equal(t, uint64(0), stats.WaitingTasks)
}
