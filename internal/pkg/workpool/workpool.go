// Package workpool provides a bounded pool of execution slots for running
// blocking calls off the request-handling path. Every database driver call
// in this service goes through a pool so request handlers only ever block
// on a context-aware wait, never on socket I/O directly.
package workpool

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Submit after Close has been called.
var ErrClosed = errors.New("workpool: pool is closed")

// Pool is a bounded set of execution slots. At most size calls run
// concurrently; further submissions wait for a free slot or for the
// caller's context to be done.
type Pool struct {
	sem chan struct{}
	wg  sync.WaitGroup

	mu     sync.Mutex
	closed bool

	once sync.Once
}

// New creates a pool with the given number of slots. Sizes below one are
// clamped to one.
func New(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{
		sem: make(chan struct{}, size),
	}
}

// Submit runs fn on a pool slot and blocks until fn returns, a slot never
// became available before ctx was done, or the pool is closed. fn itself
// receives ctx so driver calls can honor deadlines.
func (p *Pool) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	// Register before releasing the lock so Close cannot observe an empty
	// pool while this submission is still acquiring a slot.
	p.wg.Add(1)
	p.mu.Unlock()
	defer p.wg.Done()

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-p.sem }()

	return fn(ctx)
}

// Close marks the pool closed and waits for in-flight work to finish.
// Safe to call more than once.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.mu.Lock()
		p.closed = true
		p.mu.Unlock()
	})
	p.wg.Wait()
}

// Size returns the number of slots.
func (p *Pool) Size() int {
	return cap(p.sem)
}

// Run submits fn to the pool and returns its value alongside its error.
func Run[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) (T, error) {
	var result T
	err := p.Submit(ctx, func(ctx context.Context) error {
		var innerErr error
		result, innerErr = fn(ctx)
		return innerErr
	})
	return result, err
}
