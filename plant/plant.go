// Package plant ties a token registry, grammar and turtle interpreter
// together into a rebuildable plant aggregate.
package plant

import (
	"time"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/grammar"
	"github.com/piedoom/go-planty/token"
	"github.com/piedoom/go-planty/turtle"
)

// Plant owns its registry, options and the artifacts of the last
// rebuild. Plants are fully independent of each other; a plant is not
// safe for concurrent mutation.
type Plant struct {
	ID      uuid.UUID
	Name    string
	Options Options

	reg  *token.Registry
	last *Result
}

// Result is the output of one rebuild: the traced path plus stats kept
// for display.
type Result struct {
	Path        turtle.Path
	Sequence    []token.ID
	VertexCount int
	SequenceLen int
	Iterations  int
	Duration    time.Duration
	BuiltAt     time.Time
}

// DefaultTokens returns the stock symbol set new plants start with.
func DefaultTokens() []token.Pair {
	return []token.Pair{
		{Symbol: 'X', Action: token.Nothing},
		{Symbol: 'F', Action: token.Forward},
		{Symbol: '+', Action: token.Rotate(token.XPos)},
		{Symbol: '-', Action: token.Rotate(token.XNeg)},
		{Symbol: '>', Action: token.Rotate(token.YPos)},
		{Symbol: '<', Action: token.Rotate(token.YNeg)},
		{Symbol: '^', Action: token.Rotate(token.ZPos)},
		{Symbol: 'v', Action: token.Rotate(token.ZNeg)},
		{Symbol: '[', Action: token.Push},
		{Symbol: ']', Action: token.Pop},
	}
}

// New creates a plant with the default token set and options.
func New() *Plant {
	return NewWithTokens(DefaultTokens())
}

// NewWithTokens creates a plant with a custom token set and the default
// options.
func NewWithTokens(pairs []token.Pair) *Plant {
	reg := token.NewRegistry()
	reg.Reset(pairs)
	return &Plant{
		ID:      uuid.New(),
		Options: DefaultOptions(),
		reg:     reg,
	}
}

// Registry exposes the plant's token registry.
func (p *Plant) Registry() *token.Registry {
	return p.reg
}

// Actions returns the symbol to action map for editing surfaces. It
// stays valid after the grammar built from it has been discarded.
func (p *Plant) Actions() map[rune]token.Action {
	return p.reg.Actions()
}

// Last returns the result of the most recent successful rebuild, or nil.
func (p *Plant) Last() *Result {
	return p.last
}

// VertexCount reports the vertex count of the last produced point list.
func (p *Plant) VertexCount() int {
	if p.last == nil {
		return 0
	}
	return p.last.VertexCount
}

// Rebuild runs the full pipeline from scratch: compile the axiom and
// rules against the current registry, expand, interpret. On error the
// previous result is kept and the edit is effectively rejected.
func (p *Plant) Rebuild() (*Result, error) {
	if err := p.Options.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	b := grammar.NewBuilder(p.reg)
	if err := b.SetAxiom(p.Options.Axiom); err != nil {
		return nil, err
	}
	if err := b.SetRules(p.Options.Rules); err != nil {
		return nil, err
	}

	g := b.Build()
	seq := g.Expand(p.Options.Iterations)
	path := turtle.Interpret(seq, p.reg.Resolve, p.Options.TurtleConfig())

	res := &Result{
		Path:        path,
		Sequence:    seq,
		VertexCount: path.VertexCount(),
		SequenceLen: len(seq),
		Iterations:  p.Options.Iterations,
		Duration:    time.Since(start),
		BuiltAt:     start,
	}
	p.last = res
	return res, nil
}

// Text maps an expanded sequence back to its symbol string. Ids that no
// longer resolve are skipped.
func (p *Plant) Text(seq []token.ID) string {
	out := make([]rune, 0, len(seq))
	for _, id := range seq {
		if sym, ok := p.reg.Symbol(id); ok {
			out = append(out, sym)
		}
	}
	return string(out)
}

// AddToken registers a symbol. The caller owes the plant one rebuild.
func (p *Plant) AddToken(sym rune, a token.Action) {
	p.reg.Register(sym, a)
}

// RemoveToken removes a symbol; a miss is a harmless no-op.
func (p *Plant) RemoveToken(sym rune) (token.Entry, bool) {
	return p.reg.Remove(sym)
}

// RenameToken moves a symbol's action onto a new symbol. Returns false
// when the previous symbol was not registered.
func (p *Plant) RenameToken(prev, next rune) bool {
	e, ok := p.reg.Remove(prev)
	if !ok {
		return false
	}
	p.reg.Register(next, e.Action)
	return true
}

// ChangeAction swaps the action attached to a symbol. Returns false
// when the symbol was not registered.
func (p *Plant) ChangeAction(sym rune, a token.Action) bool {
	if _, ok := p.reg.Remove(sym); !ok {
		return false
	}
	p.reg.Register(sym, a)
	return true
}
