package engine

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/eventlog"
	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/token"
	"github.com/piedoom/go-planty/trigger"
)

func testEngine() (*Engine, *trigger.Bus, *eventlog.Log) {
	bus := trigger.NewBus("test")
	log := eventlog.NewLog()
	e := New(bus).WithLog(log)
	return e, bus, log
}

// drainRebuilds dispatches queued signals synchronously to a fixpoint,
// so tests stay deterministic without Run.
func drainRebuilds(t *testing.T, bus *trigger.Bus) {
	t.Helper()
	for i := 0; i < 100; i++ {
		if bus.Drain() == 0 {
			return
		}
	}
	t.Fatal("bus queue never drained")
}

func TestEngine_SpawnPublishesOneRebuild(t *testing.T) {
	e, bus, log := testEngine()

	rebuilds := 0
	bus.Subscribe("counter", trigger.TypeRebuild, func(*trigger.Signal) error {
		rebuilds++
		return nil
	})

	p := e.Spawn()
	p.Options.Iterations = 2 // shrink before the queued rebuild runs
	drainRebuilds(t, bus)

	if rebuilds != 1 {
		t.Errorf("spawn published %d rebuild triggers, expected 1", rebuilds)
	}
	if p.Last() == nil {
		t.Fatal("spawned plant was never built")
	}

	trace := log.ForPlant(p.ID)
	if trace == nil || len(trace.Events) != 2 {
		t.Fatalf("expected spawn + rebuild history, got %+v", trace)
	}
	if trace.Events[0].Kind != eventlog.KindSpawn {
		t.Errorf("first event %q, expected spawn", trace.Events[0].Kind)
	}
}

func TestEngine_RebuildRecordsStats(t *testing.T) {
	e, _, log := testEngine()

	p := e.Spawn()
	p.Options.Axiom = "X"
	p.Options.Rules = []string{"X=F[+F]F"}
	p.Options.Iterations = 1

	res, err := e.Rebuild(p.ID)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if res.VertexCount != 5 {
		t.Errorf("vertex count %d, expected 5", res.VertexCount)
	}
	if n, ok := e.VertexCount(p.ID); !ok || n != 5 {
		t.Errorf("display stat %d (%v), expected 5", n, ok)
	}

	last, ok := log.ForPlant(p.ID).LastBuild()
	if !ok || last.VertexCount != 5 || last.SequenceLen != 6 {
		t.Errorf("history event wrong: %+v", last)
	}
}

func TestEngine_RebuildFailureIsRecorded(t *testing.T) {
	e, _, log := testEngine()

	p := e.Spawn()
	p.Options.Rules = []string{"X=Q"}

	if _, err := e.Rebuild(p.ID); err == nil {
		t.Fatal("expected rebuild failure")
	}

	trace := log.ForPlant(p.ID)
	failed := trace.Events[len(trace.Events)-1]
	if failed.Err == "" {
		t.Error("failure not recorded in history")
	}
	if _, ok := trace.LastBuild(); ok {
		t.Error("failed rebuild counted as successful build")
	}
}

func TestEngine_RebuildUnknownPlant(t *testing.T) {
	e, _, _ := testEngine()
	if _, err := e.Rebuild(uuid.New()); err == nil {
		t.Fatal("expected error for unknown plant")
	}
}

func TestEngine_TokenEditPropagatesOneRebuild(t *testing.T) {
	e, bus, _ := testEngine()
	p := e.Spawn()
	drainRebuilds(t, bus)

	rebuilds := 0
	bus.Subscribe("counter", trigger.TypeRebuild, func(*trigger.Signal) error {
		rebuilds++
		return nil
	})

	sig := trigger.NewSignal(trigger.TypeTokenAdd, p.ID).
		With("symbol", "W").
		With("action", "forward")
	if err := bus.PublishSync(sig); err != nil {
		t.Fatalf("token add: %v", err)
	}
	drainRebuilds(t, bus)

	if rebuilds != 1 {
		t.Errorf("token add propagated %d rebuilds, expected exactly 1", rebuilds)
	}
	if a := p.Actions()['W']; a != token.Forward {
		t.Errorf("token not added: %v", a)
	}
}

func TestEngine_RenameMissPropagatesNothing(t *testing.T) {
	e, bus, _ := testEngine()
	p := e.Spawn()
	drainRebuilds(t, bus)

	rebuilds := 0
	bus.Subscribe("counter", trigger.TypeRebuild, func(*trigger.Signal) error {
		rebuilds++
		return nil
	})

	sig := trigger.NewSignal(trigger.TypeTokenRename, p.ID).
		With("prev", "?").
		With("next", "!")
	if err := bus.PublishSync(sig); err != nil {
		t.Fatalf("rename: %v", err)
	}
	drainRebuilds(t, bus)

	if rebuilds != 0 {
		t.Errorf("no-op rename propagated %d rebuilds", rebuilds)
	}
}

func TestEngine_ActionChangeViaSignal(t *testing.T) {
	e, bus, _ := testEngine()
	p := e.Spawn()
	drainRebuilds(t, bus)

	sig := trigger.NewSignal(trigger.TypeActionChange, p.ID).
		With("symbol", "X").
		With("action", "rotate+z")
	if err := bus.PublishSync(sig); err != nil {
		t.Fatalf("action change: %v", err)
	}

	if a := p.Actions()['X']; a != token.Rotate(token.ZPos) {
		t.Errorf("action change did not stick: %v", a)
	}
}

func TestEngine_ConcurrentRebuilds(t *testing.T) {
	e, _, log := testEngine()

	a := e.Spawn()
	b := e.Spawn()
	for _, p := range []*plant.Plant{a, b} {
		p.Options.Axiom = "X"
		p.Options.Rules = []string{"X=F[+F]F"}
		p.Options.Iterations = 1
	}

	// Rebuilds arrive from HTTP handlers and the bus loop at once; the
	// history log and plant state must survive that.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Rebuild(a.ID); err != nil {
				t.Errorf("rebuild a: %v", err)
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Rebuild(b.ID); err != nil {
				t.Errorf("rebuild b: %v", err)
			}
		}()
	}
	wg.Wait()

	// 2 spawns plus 100 rebuilds.
	if log.NumEvents() != 102 {
		t.Errorf("expected 102 events, got %d", log.NumEvents())
	}
	if n, ok := e.VertexCount(a.ID); !ok || n != 5 {
		t.Errorf("plant a vertex count %d (%v), expected 5", n, ok)
	}
}

func TestEngine_UpdateGuardsOptionEdits(t *testing.T) {
	e, _, _ := testEngine()

	p := e.Spawn()
	p.Options.Axiom = "X"
	p.Options.Rules = []string{"X=F[+F]F"}
	p.Options.Iterations = 1

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok := e.Update(p.ID, func(p *plant.Plant) {
				p.Options.SegmentLength = 2
			})
			if !ok {
				t.Error("update lost a known plant")
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := e.Rebuild(p.ID); err != nil {
				t.Errorf("rebuild: %v", err)
			}
		}()
	}
	wg.Wait()

	if e.Update(uuid.New(), func(*plant.Plant) {}) {
		t.Error("update reported success for an unknown plant")
	}
}

func TestEngine_PlantsAreIsolated(t *testing.T) {
	e, bus, _ := testEngine()
	a := e.Spawn()
	b := e.Spawn()
	drainRebuilds(t, bus)

	a.RemoveToken('F')
	if _, err := b.Registry().Lookup('F'); err != nil {
		t.Error("edit on one plant leaked into another")
	}
}
