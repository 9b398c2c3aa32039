// Package engine hosts plants and runs their rebuild pipelines in
// response to trigger signals. Each plant's pipeline is independent;
// the engine only serializes access to its own plant table.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/eventlog"
	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/storage"
	"github.com/piedoom/go-planty/trigger"
)

// Engine owns a set of plants and reacts to bus signals: spawn
// requests, token edits and rebuild triggers. Every structural edit
// propagates exactly one rebuild signal for the affected plant.
type Engine struct {
	mu      sync.RWMutex
	buildMu sync.Mutex // serializes plant mutation and rebuilds
	plants  map[uuid.UUID]*plant.Plant
	bus     *trigger.Bus
	log     *eventlog.Log
	store   *storage.Store
	running bool
	cancel  context.CancelFunc
}

// New creates an engine wired onto the given bus.
func New(bus *trigger.Bus) *Engine {
	e := &Engine{
		plants: make(map[uuid.UUID]*plant.Plant),
		bus:    bus,
	}
	e.subscribe()
	return e
}

// WithLog attaches an in-memory rebuild history.
func (e *Engine) WithLog(l *eventlog.Log) *Engine {
	e.log = l
	return e
}

// WithStore attaches a persistent rebuild history.
func (e *Engine) WithStore(s *storage.Store) *Engine {
	e.store = s
	return e
}

// Bus returns the trigger bus.
func (e *Engine) Bus() *trigger.Bus {
	return e.bus
}

func (e *Engine) subscribe() {
	e.bus.Subscribe("engine", trigger.TypeSpawn, e.onSpawn)
	e.bus.Subscribe("engine", trigger.TypeRebuild, e.onRebuild)
	e.bus.Subscribe("engine", trigger.TypeTokenAdd, e.onTokenAdd)
	e.bus.Subscribe("engine", trigger.TypeTokenRemove, e.onTokenRemove)
	e.bus.Subscribe("engine", trigger.TypeTokenRename, e.onTokenRename)
	e.bus.Subscribe("engine", trigger.TypeActionChange, e.onActionChange)
}

// Add registers an existing plant without triggering a rebuild.
func (e *Engine) Add(p *plant.Plant) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.plants[p.ID] = p
}

// Spawn creates a plant with the stock token set, registers it and
// publishes its first rebuild trigger.
func (e *Engine) Spawn() *plant.Plant {
	p := plant.New()
	e.Add(p)

	e.record(eventlog.Event{
		PlantID:   p.ID,
		Kind:      eventlog.KindSpawn,
		Timestamp: timeNow(),
	})
	e.bus.Publish(trigger.NewSignal(trigger.TypeRebuild, p.ID))
	return p
}

// Get returns a plant by id.
func (e *Engine) Get(id uuid.UUID) (*plant.Plant, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.plants[id]
	return p, ok
}

// Remove drops a plant from the engine.
func (e *Engine) Remove(id uuid.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.plants, id)
}

// Plants returns a snapshot of all registered plants.
func (e *Engine) Plants() []*plant.Plant {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]*plant.Plant, 0, len(e.plants))
	for _, p := range e.plants {
		out = append(out, p)
	}
	return out
}

// VertexCount reports the display stat for a plant's last build.
func (e *Engine) VertexCount(id uuid.UUID) (int, bool) {
	p, ok := e.Get(id)
	if !ok {
		return 0, false
	}
	return p.VertexCount(), true
}

// Update applies a mutation to one plant under the build lock, so it
// cannot interleave with a concurrent rebuild of the same plant.
func (e *Engine) Update(id uuid.UUID, fn func(*plant.Plant)) bool {
	p, ok := e.Get(id)
	if !ok {
		return false
	}
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	fn(p)
	return true
}

// Rebuild runs the pipeline for one plant synchronously, records the
// outcome and publishes a completion signal.
func (e *Engine) Rebuild(id uuid.UUID) (*plant.Result, error) {
	p, ok := e.Get(id)
	if !ok {
		return nil, fmt.Errorf("engine: no plant %s", id)
	}

	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	res, err := p.Rebuild()

	event := eventlog.Event{
		PlantID:   id,
		Kind:      eventlog.KindRebuild,
		Timestamp: timeNow(),
	}
	if err != nil {
		event.Err = err.Error()
		e.record(event)
		return nil, err
	}
	event.Iterations = res.Iterations
	event.SequenceLen = res.SequenceLen
	event.VertexCount = res.VertexCount
	event.Duration = res.Duration
	e.record(event)

	e.bus.Publish(trigger.NewSignal(trigger.TypeBuildDone, id).
		With("vertex_count", res.VertexCount).
		With("sequence_len", res.SequenceLen))
	return res, nil
}

func (e *Engine) record(event eventlog.Event) {
	if e.log != nil {
		e.log.Append(event)
	}
	if e.store != nil {
		// Persistence failures must not break the pipeline.
		_ = e.store.Record(event)
	}
}

// Signal handlers. Each edit handler applies the edit and publishes
// exactly one rebuild trigger for the plant.

func (e *Engine) onSpawn(*trigger.Signal) error {
	e.Spawn()
	return nil
}

func (e *Engine) onRebuild(s *trigger.Signal) error {
	_, err := e.Rebuild(s.Plant)
	return err
}

func (e *Engine) onTokenAdd(s *trigger.Signal) error {
	p, sym, err := e.plantAndSymbol(s, "symbol")
	if err != nil {
		return err
	}
	action, err := payloadAction(s)
	if err != nil {
		return err
	}
	e.buildMu.Lock()
	p.AddToken(sym, action)
	e.buildMu.Unlock()
	e.bus.Publish(trigger.NewSignal(trigger.TypeRebuild, p.ID))
	return nil
}

func (e *Engine) onTokenRemove(s *trigger.Signal) error {
	p, sym, err := e.plantAndSymbol(s, "symbol")
	if err != nil {
		return err
	}
	e.buildMu.Lock()
	p.RemoveToken(sym)
	e.buildMu.Unlock()
	e.bus.Publish(trigger.NewSignal(trigger.TypeRebuild, p.ID))
	return nil
}

func (e *Engine) onTokenRename(s *trigger.Signal) error {
	p, prev, err := e.plantAndSymbol(s, "prev")
	if err != nil {
		return err
	}
	next, err := payloadSymbol(s, "next")
	if err != nil {
		return err
	}
	e.buildMu.Lock()
	ok := p.RenameToken(prev, next)
	e.buildMu.Unlock()
	if ok {
		e.bus.Publish(trigger.NewSignal(trigger.TypeRebuild, p.ID))
	}
	return nil
}

func (e *Engine) onActionChange(s *trigger.Signal) error {
	p, sym, err := e.plantAndSymbol(s, "symbol")
	if err != nil {
		return err
	}
	action, err := payloadAction(s)
	if err != nil {
		return err
	}
	e.buildMu.Lock()
	ok := p.ChangeAction(sym, action)
	e.buildMu.Unlock()
	if ok {
		e.bus.Publish(trigger.NewSignal(trigger.TypeRebuild, p.ID))
	}
	return nil
}
