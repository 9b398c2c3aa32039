// Package eventlog records and analyzes plant rebuild history.
// Supports CSV and JSONL formats for export and later inspection.
package eventlog

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindSpawn   = "spawn"
	KindRebuild = "rebuild"
	KindEdit    = "edit"
)

// Event is a single entry in a plant's rebuild history.
type Event struct {
	PlantID     uuid.UUID     `json:"plant_id"`
	Kind        string        `json:"kind"`
	Timestamp   time.Time     `json:"timestamp"`
	Iterations  int           `json:"iterations,omitempty"`
	SequenceLen int           `json:"sequence_len,omitempty"`
	VertexCount int           `json:"vertex_count,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`
	Err         string        `json:"error,omitempty"`
}

// Trace is the ordered history of one plant.
type Trace struct {
	PlantID uuid.UUID
	Events  []Event
}

// Log collects rebuild events per plant. Safe for concurrent use: the
// engine appends from request handlers and the bus loop at once.
type Log struct {
	mu     sync.RWMutex
	traces map[uuid.UUID]*Trace
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{traces: make(map[uuid.UUID]*Trace)}
}

// Append adds an event, creating the plant's trace if needed.
func (l *Log) Append(event Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	trace, ok := l.traces[event.PlantID]
	if !ok {
		trace = &Trace{PlantID: event.PlantID}
		l.traces[event.PlantID] = trace
	}
	trace.Events = append(trace.Events, event)
}

func (t *Trace) copy() *Trace {
	return &Trace{
		PlantID: t.PlantID,
		Events:  append([]Event(nil), t.Events...),
	}
}

// ForPlant returns a snapshot of the trace for a plant, or nil. The
// snapshot stays stable while appends continue.
func (l *Log) ForPlant(id uuid.UUID) *Trace {
	l.mu.RLock()
	defer l.mu.RUnlock()
	trace, ok := l.traces[id]
	if !ok {
		return nil
	}
	return trace.copy()
}

// Traces returns trace snapshots sorted by plant id for stable output.
func (l *Log) Traces() []*Trace {
	l.mu.RLock()
	defer l.mu.RUnlock()
	traces := make([]*Trace, 0, len(l.traces))
	for _, trace := range l.traces {
		traces = append(traces, trace.copy())
	}
	sort.Slice(traces, func(i, j int) bool {
		return traces[i].PlantID.String() < traces[j].PlantID.String()
	})
	return traces
}

// Events returns every event across all plants in timestamp order.
func (l *Log) Events() []Event {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var events []Event
	for _, trace := range l.traces {
		events = append(events, trace.Events...)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
	return events
}

// NumPlants returns the number of plants with history.
func (l *Log) NumPlants() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.traces)
}

// NumEvents returns the total event count.
func (l *Log) NumEvents() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	total := 0
	for _, trace := range l.traces {
		total += len(trace.Events)
	}
	return total
}

// LastBuild returns the most recent successful rebuild event for a
// plant, if any.
func (t *Trace) LastBuild() (Event, bool) {
	for i := len(t.Events) - 1; i >= 0; i-- {
		e := t.Events[i]
		if e.Kind == KindRebuild && e.Err == "" {
			return e, true
		}
	}
	return Event{}, false
}

// Summary provides aggregate statistics over a log.
type Summary struct {
	NumPlants   int
	NumEvents   int
	NumRebuilds int
	NumFailures int
	AvgVertices float64
	MaxVertices int
	StartTime   time.Time
	EndTime     time.Time
	AvgDuration time.Duration
}

// Summarize computes aggregate statistics.
func (l *Log) Summarize() Summary {
	summary := Summary{
		NumPlants: l.NumPlants(),
		NumEvents: l.NumEvents(),
	}

	totalVertices := 0
	var totalDuration time.Duration
	first := true

	for _, event := range l.Events() {
		if first {
			summary.StartTime = event.Timestamp
			first = false
		}
		summary.EndTime = event.Timestamp

		if event.Kind != KindRebuild {
			continue
		}
		if event.Err != "" {
			summary.NumFailures++
			continue
		}
		summary.NumRebuilds++
		totalVertices += event.VertexCount
		totalDuration += event.Duration
		if event.VertexCount > summary.MaxVertices {
			summary.MaxVertices = event.VertexCount
		}
	}

	if summary.NumRebuilds > 0 {
		summary.AvgVertices = float64(totalVertices) / float64(summary.NumRebuilds)
		summary.AvgDuration = totalDuration / time.Duration(summary.NumRebuilds)
	}
	return summary
}

// Print writes the summary to stdout.
func (s Summary) Print() {
	fmt.Println("=== Rebuild History Summary ===")
	fmt.Printf("Plants: %d\n", s.NumPlants)
	fmt.Printf("Events: %d\n", s.NumEvents)
	fmt.Printf("Rebuilds: %d (%d failed)\n", s.NumRebuilds, s.NumFailures)
	fmt.Printf("Avg vertices: %.1f (max %d)\n", s.AvgVertices, s.MaxVertices)
	fmt.Printf("Time range: %s to %s\n",
		s.StartTime.Format("2006-01-02 15:04:05"),
		s.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("Avg build time: %v\n", s.AvgDuration)
}
