// Package workpool_test provides unit tests for the workpool package.
package workpool_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mongobridge/tool-service/internal/pkg/workpool"
)

func TestPool_BoundsConcurrency(t *testing.T) {
	pool := workpool.New(2)
	defer pool.Close()

	var current, peak int64
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := pool.Submit(context.Background(), func(ctx context.Context) error {
				n := atomic.AddInt64(&current, 1)
				for {
					p := atomic.LoadInt64(&peak)
					if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt64(&current, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt64(&peak), int64(2))
}

func TestPool_SubmitReturnsFnError(t *testing.T) {
	pool := workpool.New(1)
	defer pool.Close()

	err := pool.Submit(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPool_ContextCanceledWhileWaiting(t *testing.T) {
	pool := workpool.New(1)
	defer pool.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_ = pool.Submit(context.Background(), func(ctx context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pool.Submit(ctx, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)

	close(release)
}

func TestPool_CloseWaitsForInFlightWork(t *testing.T) {
	pool := workpool.New(1)

	var finished atomic.Bool
	started := make(chan struct{})
	go func() {
		_ = pool.Submit(context.Background(), func(ctx context.Context) error {
			close(started)
			time.Sleep(20 * time.Millisecond)
			finished.Store(true)
			return nil
		})
	}()
	<-started

	pool.Close()
	assert.True(t, finished.Load())
}

func TestPool_SubmitAfterClose(t *testing.T) {
	pool := workpool.New(1)
	pool.Close()

	err := pool.Submit(context.Background(), func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, workpool.ErrClosed)
}

func TestPool_DoubleClose(t *testing.T) {
	pool := workpool.New(1)
	pool.Close()
	pool.Close()
}

func TestPool_SizeClampedToOne(t *testing.T) {
	pool := workpool.New(0)
	defer pool.Close()
	assert.Equal(t, 1, pool.Size())
}

func TestRun_ReturnsValue(t *testing.T) {
	pool := workpool.New(1)
	defer pool.Close()

	got, err := workpool.Run(context.Background(), pool, func(ctx context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}
