package engine

import (
	"fmt"

	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/token"
	"github.com/piedoom/go-planty/trigger"
)

// Payload helpers for token edit signals. Symbols travel as strings so
// signals stay JSON-friendly; only the first rune is used.

func (e *Engine) plantAndSymbol(s *trigger.Signal, key string) (*plant.Plant, rune, error) {
	p, ok := e.Get(s.Plant)
	if !ok {
		return nil, 0, fmt.Errorf("engine: no plant %s", s.Plant)
	}
	sym, err := payloadSymbol(s, key)
	if err != nil {
		return nil, 0, err
	}
	return p, sym, nil
}

func payloadSymbol(s *trigger.Signal, key string) (rune, error) {
	v, ok := s.Payload[key]
	if !ok {
		return 0, fmt.Errorf("engine: signal %s missing %q", s.Type, key)
	}
	switch t := v.(type) {
	case rune:
		return t, nil
	case string:
		for _, r := range t {
			return r, nil
		}
		return 0, fmt.Errorf("engine: signal %s has empty %q", s.Type, key)
	default:
		return 0, fmt.Errorf("engine: signal %s has non-symbol %q: %T", s.Type, key, v)
	}
}

func payloadAction(s *trigger.Signal) (token.Action, error) {
	v, ok := s.Payload["action"]
	if !ok {
		return token.Action{}, fmt.Errorf("engine: signal %s missing action", s.Type)
	}
	switch t := v.(type) {
	case token.Action:
		return t, nil
	case string:
		return token.ParseAction(t)
	default:
		return token.Action{}, fmt.Errorf("engine: signal %s has non-action payload: %T", s.Type, v)
	}
}
