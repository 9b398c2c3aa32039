package trigger

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBus_PublishSyncDispatches(t *testing.T) {
	b := NewBus("test")
	plantID := uuid.New()

	var got []*Signal
	b.Subscribe("sub", TypeRebuild, func(s *Signal) error {
		got = append(got, s)
		return nil
	})

	if err := b.PublishSync(NewSignal(TypeRebuild, plantID)); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(got))
	}
	if got[0].Plant != plantID {
		t.Errorf("signal lost its plant identity")
	}
	if got[0].ID == "" || got[0].Timestamp.IsZero() {
		t.Errorf("signal missing id or timestamp: %+v", got[0])
	}
}

func TestBus_TypeIsolation(t *testing.T) {
	b := NewBus("test")

	calls := 0
	b.Subscribe("sub", TypeRebuild, func(*Signal) error {
		calls++
		return nil
	})

	b.PublishSync(NewSignal(TypeSpawn, uuid.New()))
	if calls != 0 {
		t.Errorf("spawn signal reached rebuild subscriber")
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	b := NewBus("test")

	calls := 0
	b.Subscribe("a", TypeRebuild, func(*Signal) error { calls++; return nil })
	b.Subscribe("b", TypeRebuild, func(*Signal) error { calls++; return nil })
	b.Unsubscribe("a", TypeRebuild)

	b.PublishSync(NewSignal(TypeRebuild, uuid.New()))
	if calls != 1 {
		t.Errorf("expected only subscriber b, got %d calls", calls)
	}
}

func TestBus_HandlerErrorSurfacesAndCounts(t *testing.T) {
	b := NewBus("test")
	boom := errors.New("boom")
	b.Subscribe("sub", TypeRebuild, func(*Signal) error { return boom })

	if err := b.PublishSync(NewSignal(TypeRebuild, uuid.New())); !errors.Is(err, boom) {
		t.Errorf("expected handler error, got %v", err)
	}
	if b.Stats().ErrorCount != 1 {
		t.Errorf("error count %d, expected 1", b.Stats().ErrorCount)
	}
}

func TestBus_FilterSubscription(t *testing.T) {
	b := NewBus("test")
	mine := uuid.New()

	calls := 0
	b.SubscribeWithFilter("sub", TypeRebuild,
		func(*Signal) error { calls++; return nil },
		func(s *Signal) bool { return s.Plant == mine })

	b.PublishSync(NewSignal(TypeRebuild, uuid.New()))
	b.PublishSync(NewSignal(TypeRebuild, mine))

	if calls != 1 {
		t.Errorf("filter admitted %d signals, expected 1", calls)
	}
}

func TestBus_DedupeMiddleware(t *testing.T) {
	now := time.Unix(1000, 0)
	timeNow = func() time.Time { return now }
	defer func() { timeNow = func() time.Time { return time.Now() } }()

	b := NewBus("test")
	b.Use(DedupeMiddleware(100 * time.Millisecond))

	plantID := uuid.New()
	calls := 0
	b.Subscribe("sub", TypeRebuild, func(*Signal) error { calls++; return nil })

	b.PublishSync(NewSignal(TypeRebuild, plantID))
	b.PublishSync(NewSignal(TypeRebuild, plantID)) // deduped
	b.PublishSync(NewSignal(TypeRebuild, uuid.New()))

	if calls != 2 {
		t.Errorf("expected 2 deliveries after dedupe, got %d", calls)
	}

	now = now.Add(150 * time.Millisecond)
	b.PublishSync(NewSignal(TypeRebuild, plantID))
	if calls != 3 {
		t.Errorf("expected delivery after window elapsed, got %d", calls)
	}
}

func TestBus_DrainDispatchesQueued(t *testing.T) {
	b := NewBus("test")

	calls := 0
	b.Subscribe("sub", TypeRebuild, func(*Signal) error { calls++; return nil })

	b.Publish(NewSignal(TypeRebuild, uuid.New()))
	b.Publish(NewSignal(TypeRebuild, uuid.New()))

	if n := b.Drain(); n != 2 {
		t.Errorf("drained %d signals, expected 2", n)
	}
	if calls != 2 {
		t.Errorf("handlers called %d times, expected 2", calls)
	}
	if n := b.Drain(); n != 0 {
		t.Errorf("second drain handled %d signals, expected 0", n)
	}
}

func TestBus_AsyncProcessing(t *testing.T) {
	b := NewBus("test")

	done := make(chan *Signal, 1)
	b.Subscribe("sub", TypeRebuild, func(s *Signal) error {
		done <- s
		return nil
	})

	b.Start()
	defer b.Stop()

	b.Publish(NewSignal(TypeRebuild, uuid.New()))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("queued signal was never dispatched")
	}
}
