// Package turtle interprets expanded symbol sequences as 3D line
// structures using a position/orientation cursor and a branch stack.
package turtle

import (
	"errors"
	"math"

	"github.com/piedoom/go-planty/token"
)

var (
	ErrSegmentLength = errors.New("turtle: segment length must be positive")
)

// forward is the cursor's local forward axis before any rotation.
var forward = Vec3{Y: 1}

// Config carries the drawing parameters for one interpretation run.
type Config struct {
	SegmentLength float64
	RotationAngle float64 // degrees
}

// Validate checks the drawing parameters.
func (c Config) Validate() error {
	if !(c.SegmentLength > 0) {
		return ErrSegmentLength
	}
	return nil
}

// Cursor is the turtle state: a position and an orientation.
type Cursor struct {
	Pos Vec3
	Rot Quat
}

// NewCursor returns a cursor at the origin with identity orientation.
func NewCursor() Cursor {
	return Cursor{Rot: IdentityQuat()}
}

// ElementKind tags a path element.
type ElementKind int

const (
	// Point is an emitted vertex.
	Point ElementKind = iota
	// Break ends the current line strip; the next point starts a new one.
	Break
)

// Element is one entry of an interpreted path: either a vertex or a
// strip break. A break is modelled explicitly instead of the legacy
// negative-infinity sentinel point.
type Element struct {
	Kind ElementKind
	Pos  Vec3 // valid when Kind == Point
}

// Path is the ordered output of one interpretation run.
type Path []Element

// Strips splits the path into disjoint point runs at every break, for
// renderers without strip-break support. Empty runs are dropped.
func (p Path) Strips() [][]Vec3 {
	var strips [][]Vec3
	var current []Vec3
	for _, el := range p {
		switch el.Kind {
		case Point:
			current = append(current, el.Pos)
		case Break:
			if len(current) > 0 {
				strips = append(strips, current)
				current = nil
			}
		}
	}
	if len(current) > 0 {
		strips = append(strips, current)
	}
	return strips
}

// Points collapses the path to the legacy renderer encoding: a break
// becomes a point with all coordinates at negative infinity, after which
// a new line strip begins.
func (p Path) Points() []Vec3 {
	neg := math.Inf(-1)
	out := make([]Vec3, 0, len(p))
	for _, el := range p {
		switch el.Kind {
		case Point:
			out = append(out, el.Pos)
		case Break:
			out = append(out, Vec3{neg, neg, neg})
		}
	}
	return out
}

// VertexCount is the number of vertices in the legacy encoding,
// sentinels included, as shown to the user.
func (p Path) VertexCount() int {
	return len(p)
}

// Resolver maps an internal id to its action. The second return is
// false when the id cannot be resolved; such ids are skipped.
type Resolver func(token.ID) (token.Action, bool)

// Interpret walks the sequence with a fresh cursor and branch stack and
// returns the traced path.
//
// Nothing emits the current position as a degenerate point. Forward
// advances by SegmentLength along the rotated forward axis and emits the
// new position. Rotate composes the orientation with a fixed-magnitude
// local-axis rotation and emits nothing. Push saves the cursor. Pop
// restores the most recent save, emitting a break followed by the
// restored position; popping an empty stack is a silent no-op.
func Interpret(seq []token.ID, resolve Resolver, cfg Config) Path {
	cur := NewCursor()
	var stack []Cursor
	var path Path

	angle := cfg.RotationAngle * math.Pi / 180

	for _, id := range seq {
		a, ok := resolve(id)
		if !ok {
			continue
		}
		switch a.Kind {
		case token.KindNothing:
			path = append(path, Element{Kind: Point, Pos: cur.Pos})
		case token.KindForward:
			cur.Pos = cur.Pos.Add(cur.Rot.Rotate(forward).Scale(cfg.SegmentLength))
			path = append(path, Element{Kind: Point, Pos: cur.Pos})
		case token.KindRotate:
			cur.Rot = cur.Rot.Mul(rotation(a.Dir, angle))
		case token.KindPush:
			stack = append(stack, cur)
		case token.KindPop:
			if n := len(stack); n > 0 {
				cur = stack[n-1]
				stack = stack[:n-1]
				path = append(path,
					Element{Kind: Break},
					Element{Kind: Point, Pos: cur.Pos})
			}
		}
	}
	return path
}

// InterpretActions interprets a pre-resolved action sequence.
func InterpretActions(actions []token.Action, cfg Config) Path {
	resolve := func(id token.ID) (token.Action, bool) {
		return actions[id], true
	}
	seq := make([]token.ID, len(actions))
	for i := range actions {
		seq[i] = token.ID(i)
	}
	return Interpret(seq, resolve, cfg)
}

// rotation builds the signed local-axis rotation for a direction.
func rotation(d token.Direction, angle float64) Quat {
	switch d {
	case token.XPos:
		return AxisAngle(Vec3{X: 1}, angle)
	case token.XNeg:
		return AxisAngle(Vec3{X: 1}, -angle)
	case token.YPos:
		return AxisAngle(Vec3{Y: 1}, angle)
	case token.YNeg:
		return AxisAngle(Vec3{Y: 1}, -angle)
	case token.ZPos:
		return AxisAngle(Vec3{Z: 1}, angle)
	case token.ZNeg:
		return AxisAngle(Vec3{Z: 1}, -angle)
	default:
		return IdentityQuat()
	}
}
