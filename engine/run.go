package engine

import (
	"context"
	"time"
)

// Run starts bus processing so queued signals drive the engine. The
// engine stops when ctx is cancelled or Stop is called.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return
	}
	e.running = true
	childCtx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.mu.Unlock()

	e.bus.Start()

	go func() {
		<-childCtx.Done()
		e.bus.Stop()
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()
}

// Stop halts signal processing.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	e.running = false
}

// IsRunning reports whether the engine is processing signals.
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Time source for tests.
var timeNow = func() time.Time { return time.Now() }
