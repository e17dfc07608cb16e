package goroutine

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/tokenops/serialfind/internal/pkg/stacktrace"
)

// Manager runs functions in goroutines with a fixed concurrency limit.
//
// Go blocks until a worker slot is available, so every submitted task either
// runs or is explicitly refused because the caller's context expired. Errors
// returned by tasks are collected and surfaced by Wait.
type Manager struct {
	mu     sync.Mutex
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
	closed bool
}

// NewManager creates a new Manager with the provided maximum concurrency.
// A non-positive limit defaults to the number of CPUs.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = runtime.NumCPU()
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine),
	}
}

// Go schedules a function on the pool, blocking until a slot frees up.
//
// It reports whether the task was scheduled. It returns false without running
// the task when pCtx is already done or when the manager has been closed by
// Wait; callers that need a full accounting of their work must treat a false
// return as a skipped task.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) bool {
	if g == nil {
		return false
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		slog.WarnContext(pCtx, "goroutine manager is closed, refusing new goroutine")
		return false
	}
	g.mu.Unlock()

	select {
	case <-pCtx.Done():
		return false
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	}

	g.wg.Add(1)
	go func() {
		defer func() {
			<-g.sema // Release semaphore slot
			g.wg.Done()

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				paths := stacktrace.InternalPaths(stack)
				if len(paths) == 0 {
					slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", string(stack))
				} else {
					slog.ErrorContext(pCtx, "panic occurred in goroutine", "stack", paths)
				}

				g.mu.Lock()
				g.errs = append(g.errs, errors.New("goroutine panicked"))
				g.mu.Unlock()
			}
		}()

		if err := f(pCtx); err != nil {
			g.mu.Lock()
			g.errs = append(g.errs, err)
			g.mu.Unlock()
		}
	}()

	return true
}

// Wait blocks until all scheduled goroutines finish and returns any collected
// errors. The manager refuses new tasks afterwards.
func (g *Manager) Wait() error {
	if g == nil {
		return nil
	}

	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()

	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}
