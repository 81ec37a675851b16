// Copyright (c) 2025 Storj CLI Authors
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package loop implements the single-threaded cooperative execution context that
// runs bridge operations.
//
// Blocking work queued with Queue runs on its own goroutine, but its completion
// callback, and anything handed to Post, only ever runs on the goroutine calling
// Run. Callbacks therefore never race with each other and never run during the
// call that queued them.
package loop

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrBusy is returned by Close while queued work or callbacks are still pending.
	ErrBusy = errors.New("loop: pending work remains")
	// ErrClosed is returned when work is queued on a closed loop.
	ErrClosed = errors.New("loop: closed")
)

// Loop queues work and delivers completion callbacks on a single goroutine.
type Loop struct {
	mu        sync.Mutex
	callbacks []func()
	pending   int
	closed    bool
	wake      chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
}

// New returns an open loop.
func New() *Loop {
	ctx, cancel := context.WithCancel(context.Background())
	return &Loop{
		wake:   make(chan struct{}, 1),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Queue starts work on a worker goroutine and schedules after to run on the loop
// goroutine with work's result. The work counts as pending until after returns.
func (l *Loop) Queue(work func(ctx context.Context) error, after func(err error)) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.pending++
	l.mu.Unlock()

	go func() {
		err := work(l.ctx)
		l.Post(func() {
			defer l.done()
			if after != nil {
				after(err)
			}
		})
	}()
	return nil
}

// Post schedules fn to run on the loop goroutine. It never blocks and is safe to
// call from any goroutine, including work functions reporting progress.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.callbacks = append(l.callbacks, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *Loop) done() {
	l.mu.Lock()
	l.pending--
	l.mu.Unlock()
}

// Pending returns the number of queued work items whose callbacks have not run yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.pending
}

// Run executes callbacks until no work is pending and no callback is queued.
// It returns ctx.Err() if ctx is done first, leaving the remaining work pending.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.mu.Lock()
		if len(l.callbacks) == 0 {
			idle := l.pending == 0
			l.mu.Unlock()
			if idle {
				return nil
			}
			select {
			case <-l.wake:
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		fn := l.callbacks[0]
		l.callbacks[0] = nil
		l.callbacks = l.callbacks[1:]
		l.mu.Unlock()

		fn()
	}
}

// Close releases the loop. It fails with ErrBusy while work is outstanding;
// closing an already closed loop is a no-op.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	if l.pending > 0 || len(l.callbacks) > 0 {
		return ErrBusy
	}
	l.closed = true
	l.cancel()
	return nil
}
