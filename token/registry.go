package token

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNotFound is returned when a symbol was never registered.
var ErrNotFound = errors.New("token: symbol not found")

// ID is an opaque handle assigned at registration time. IDs are never
// reused for a different symbol within one registry's lifetime, but are
// not stable across registries.
type ID int

// Entry pairs an internal id with the symbol's drawing action.
type Entry struct {
	ID     ID
	Action Action
}

// Pair is a (symbol, action) input for Reset and plant construction.
type Pair struct {
	Symbol rune
	Action Action
}

// Registry is a bidirectional mapping between single-character symbols
// and (id, action) entries. Not safe for concurrent writers.
type Registry struct {
	entries map[rune]Entry
	symbols []rune // reverse lookup, indexed by ID
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[rune]Entry)}
}

// Register inserts or overwrites the entry for sym and returns its id.
// Overwriting assigns a fresh id; anything compiled against the old id
// must be rebuilt.
func (r *Registry) Register(sym rune, a Action) ID {
	id := ID(len(r.symbols))
	r.symbols = append(r.symbols, sym)
	r.entries[sym] = Entry{ID: id, Action: a}
	return id
}

// Remove deletes the entry for sym. The second return is false when the
// symbol was not registered; callers treat that as a harmless no-op.
func (r *Registry) Remove(sym rune) (Entry, bool) {
	e, ok := r.entries[sym]
	if ok {
		delete(r.entries, sym)
	}
	return e, ok
}

// Lookup returns the entry for sym, or ErrNotFound.
func (r *Registry) Lookup(sym rune) (Entry, error) {
	e, ok := r.entries[sym]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, sym)
	}
	return e, nil
}

// Reset clears the registry and re-registers every pair in order. Later
// duplicates overwrite earlier ones for the same symbol.
func (r *Registry) Reset(pairs []Pair) {
	r.entries = make(map[rune]Entry, len(pairs))
	r.symbols = r.symbols[:0]
	for _, p := range pairs {
		r.Register(p.Symbol, p.Action)
	}
}

// Len returns the number of live symbols.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Symbol returns the symbol an id was assigned to. Stale ids (from
// overwritten or removed symbols) still resolve to their original symbol.
func (r *Registry) Symbol(id ID) (rune, bool) {
	if id < 0 || int(id) >= len(r.symbols) {
		return 0, false
	}
	return r.symbols[id], true
}

// Resolve returns the action for a live id. The second return is false
// for stale or unknown ids.
func (r *Registry) Resolve(id ID) (Action, bool) {
	sym, ok := r.Symbol(id)
	if !ok {
		return Action{}, false
	}
	e, ok := r.entries[sym]
	if !ok || e.ID != id {
		return Action{}, false
	}
	return e.Action, true
}

// Symbols returns the live symbols in sorted order.
func (r *Registry) Symbols() []rune {
	out := make([]rune, 0, len(r.entries))
	for sym := range r.entries {
		out = append(out, sym)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Actions returns a copy of the symbol to action map. The editing surface
// keeps this around after a grammar has been discarded.
func (r *Registry) Actions() map[rune]Action {
	out := make(map[rune]Action, len(r.entries))
	for sym, e := range r.entries {
		out[sym] = e.Action
	}
	return out
}
