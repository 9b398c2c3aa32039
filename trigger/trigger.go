// Package trigger carries rebuild signals between editing surfaces, the
// engine and any listeners such as the preview server.
package trigger

import (
	"time"

	"github.com/google/uuid"
)

// Type names a signal kind.
type Type string

const (
	// TypeSpawn requests a new plant.
	TypeSpawn Type = "spawn"
	// TypeRebuild requests the full pipeline for one plant.
	TypeRebuild Type = "rebuild"
	// TypeBuildDone announces a finished rebuild.
	TypeBuildDone Type = "build.done"

	// Token edit signals. Each one results in exactly one TypeRebuild.
	TypeTokenAdd     Type = "token.add"
	TypeTokenRemove  Type = "token.remove"
	TypeTokenRename  Type = "token.rename"
	TypeActionChange Type = "action.change"
)

// Signal is one message on the bus. Plant carries the identity of the
// affected plant; Payload is signal-type specific.
type Signal struct {
	ID        string
	Type      Type
	Plant     uuid.UUID
	Timestamp time.Time
	Payload   map[string]any
}

// NewSignal builds a signal for a plant.
func NewSignal(t Type, plant uuid.UUID) *Signal {
	return &Signal{
		ID:        uuid.NewString(),
		Type:      t,
		Plant:     plant,
		Timestamp: timeNow(),
	}
}

// With attaches a payload value.
func (s *Signal) With(key string, value any) *Signal {
	if s.Payload == nil {
		s.Payload = make(map[string]any)
	}
	s.Payload[key] = value
	return s
}

// Handler processes a signal.
type Handler func(*Signal) error

// Middleware wraps signal publication; call next to continue the chain.
type Middleware func(s *Signal, next func(*Signal))

// Time source for tests.
var timeNow = func() time.Time { return time.Now() }
