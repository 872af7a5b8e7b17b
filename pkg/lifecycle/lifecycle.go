// Package lifecycle sequences subsystem startup and graceful shutdown.
package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// ReadinessChecker is satisfied by anything that can report readiness.
type ReadinessChecker interface {
	Ready() bool
}

// Coordinator runs registered startup hooks and holds shutdown hooks until
// its context is cancelled.
type Coordinator struct {
	ctx      context.Context
	cancel   context.CancelFunc
	starting sync.WaitGroup
	stopping sync.WaitGroup
	ready    atomic.Bool
}

var _ ReadinessChecker = (*Coordinator)(nil)

func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{ctx: ctx, cancel: cancel}
}

// Context is cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup starts fn immediately; WaitForStartup waits for it.
func (c *Coordinator) OnStartup(fn func()) {
	c.starting.Go(fn)
}

// OnShutdown starts fn immediately. fn is expected to block on
// Context().Done() and then release its resources.
func (c *Coordinator) OnShutdown(fn func()) {
	c.stopping.Go(fn)
}

func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// WaitForStartup blocks on every startup hook, then marks the coordinator ready.
func (c *Coordinator) WaitForStartup() {
	c.starting.Wait()
	c.ready.Store(true)
}

// Shutdown cancels the context and waits up to timeout for shutdown hooks.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.stopping.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-done:
		return nil
	case <-timer.C:
		return fmt.Errorf("lifecycle: shutdown hooks still running after %s", timeout)
	}
}
