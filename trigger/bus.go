package trigger

import (
	"sync"
	"sync/atomic"
	"time"
)

type subscription struct {
	subscriberID string
	signalType   Type
	handler      Handler
	filter       func(*Signal) bool
}

// Bus is a small publish/subscribe hub for rebuild signals.
type Bus struct {
	name string

	mu            sync.RWMutex
	subscriptions map[Type][]*subscription
	middleware    []Middleware

	signals chan *Signal
	stopCh  chan struct{}
	running bool

	signalCount int64
	dropCount   int64
	errorCount  int64
}

// NewBus creates a bus with a buffered signal queue.
func NewBus(name string) *Bus {
	return &Bus{
		name:          name,
		subscriptions: make(map[Type][]*subscription),
		signals:       make(chan *Signal, 256),
		stopCh:        make(chan struct{}),
	}
}

// Name returns the bus name.
func (b *Bus) Name() string {
	return b.name
}

// Subscribe registers a handler for a signal type.
func (b *Bus) Subscribe(subscriberID string, t Type, h Handler) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions[t] = append(b.subscriptions[t], &subscription{
		subscriberID: subscriberID,
		signalType:   t,
		handler:      h,
	})
	return b
}

// SubscribeWithFilter registers a handler gated by a filter function.
func (b *Bus) SubscribeWithFilter(subscriberID string, t Type, h Handler, filter func(*Signal) bool) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscriptions[t] = append(b.subscriptions[t], &subscription{
		subscriberID: subscriberID,
		signalType:   t,
		handler:      h,
		filter:       filter,
	})
	return b
}

// Unsubscribe removes a subscriber's handlers for a signal type.
func (b *Bus) Unsubscribe(subscriberID string, t Type) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()
	subs := b.subscriptions[t]
	filtered := make([]*subscription, 0, len(subs))
	for _, sub := range subs {
		if sub.subscriberID != subscriberID {
			filtered = append(filtered, sub)
		}
	}
	b.subscriptions[t] = filtered
	return b
}

// Use appends middleware to the publication chain.
func (b *Bus) Use(mw Middleware) *Bus {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.middleware = append(b.middleware, mw)
	return b
}

// Publish queues a signal for asynchronous dispatch. Signals are
// dropped, and counted as drops, when the queue is full.
func (b *Bus) Publish(signal *Signal) {
	b.applyMiddleware(signal, func(s *Signal) {
		select {
		case b.signals <- s:
			atomic.AddInt64(&b.signalCount, 1)
		default:
			atomic.AddInt64(&b.dropCount, 1)
		}
	})
}

// PublishSync dispatches a signal to all handlers before returning.
func (b *Bus) PublishSync(signal *Signal) error {
	var lastErr error
	b.applyMiddleware(signal, func(s *Signal) {
		atomic.AddInt64(&b.signalCount, 1)
		lastErr = b.dispatch(s)
	})
	return lastErr
}

func (b *Bus) applyMiddleware(signal *Signal, final func(*Signal)) {
	b.mu.RLock()
	middleware := make([]Middleware, len(b.middleware))
	copy(middleware, b.middleware)
	b.mu.RUnlock()

	chain := final
	for i := len(middleware) - 1; i >= 0; i-- {
		mw := middleware[i]
		next := chain
		chain = func(s *Signal) {
			mw(s, next)
		}
	}
	chain(signal)
}

func (b *Bus) dispatch(signal *Signal) error {
	b.mu.RLock()
	subs := make([]*subscription, len(b.subscriptions[signal.Type]))
	copy(subs, b.subscriptions[signal.Type])
	b.mu.RUnlock()

	var lastErr error
	for _, sub := range subs {
		if sub.filter != nil && !sub.filter(signal) {
			continue
		}
		if err := sub.handler(signal); err != nil {
			lastErr = err
			atomic.AddInt64(&b.errorCount, 1)
		}
	}
	return lastErr
}

// Start begins draining the signal queue.
func (b *Bus) Start() {
	b.mu.Lock()
	if b.running {
		b.mu.Unlock()
		return
	}
	b.running = true
	b.stopCh = make(chan struct{})
	b.mu.Unlock()

	go b.processLoop()
}

// Stop halts queue processing.
func (b *Bus) Stop() {
	b.mu.Lock()
	if !b.running {
		b.mu.Unlock()
		return
	}
	b.running = false
	close(b.stopCh)
	b.mu.Unlock()
}

// Drain synchronously dispatches queued signals until the queue is
// empty and returns how many were handled. Handlers may queue further
// signals; callers wanting a fixpoint drain repeatedly.
func (b *Bus) Drain() int {
	n := 0
	for {
		select {
		case signal := <-b.signals:
			b.dispatch(signal)
			n++
		default:
			return n
		}
	}
}

func (b *Bus) processLoop() {
	for {
		select {
		case signal := <-b.signals:
			b.dispatch(signal)
		case <-b.stopCh:
			return
		}
	}
}

// Stats reports bus counters.
type Stats struct {
	SignalCount int64
	DropCount   int64
	ErrorCount  int64
	QueueSize   int
}

// Stats returns a snapshot of the bus counters.
func (b *Bus) Stats() Stats {
	return Stats{
		SignalCount: atomic.LoadInt64(&b.signalCount),
		DropCount:   atomic.LoadInt64(&b.dropCount),
		ErrorCount:  atomic.LoadInt64(&b.errorCount),
		QueueSize:   len(b.signals),
	}
}

// LoggingMiddleware logs every signal through the given logger.
func LoggingMiddleware(logger func(string, ...any)) Middleware {
	return func(signal *Signal, next func(*Signal)) {
		logger("signal: type=%s plant=%s", signal.Type, signal.Plant)
		next(signal)
	}
}

// FilterMiddleware drops signals failing the predicate.
func FilterMiddleware(predicate func(*Signal) bool) Middleware {
	return func(signal *Signal, next func(*Signal)) {
		if predicate(signal) {
			next(signal)
		}
	}
}

// DedupeMiddleware collapses repeated signals for the same plant and
// type inside a time window. Useful while a slider is being dragged.
func DedupeMiddleware(window time.Duration) Middleware {
	seen := make(map[string]time.Time)
	var mu sync.Mutex

	return func(signal *Signal, next func(*Signal)) {
		mu.Lock()
		key := string(signal.Type) + ":" + signal.Plant.String()
		if last, ok := seen[key]; ok && timeNow().Sub(last) < window {
			mu.Unlock()
			return
		}
		seen[key] = timeNow()
		for k, ts := range seen {
			if timeNow().Sub(ts) > window {
				delete(seen, k)
			}
		}
		mu.Unlock()

		next(signal)
	}
}
