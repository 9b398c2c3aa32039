// Package token maps user-facing grammar symbols to internal ids and
// drawing actions.
package token

import "fmt"

// Kind classifies what a token does during turtle interpretation.
type Kind int

const (
	KindNothing Kind = iota
	KindForward
	KindRotate
	KindPush
	KindPop
)

// Direction selects one of the six axis-aligned rotations.
type Direction int

const (
	XPos Direction = iota
	XNeg
	YPos
	YNeg
	ZPos
	ZNeg
)

func (d Direction) String() string {
	switch d {
	case XPos:
		return "right"
	case XNeg:
		return "left"
	case YPos:
		return "forwards"
	case YNeg:
		return "back"
	case ZPos:
		return "up"
	case ZNeg:
		return "down"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Action is the drawing behaviour attached to a symbol. Dir is only
// meaningful when Kind is KindRotate.
type Action struct {
	Kind Kind
	Dir  Direction
}

var (
	Nothing = Action{Kind: KindNothing}
	Forward = Action{Kind: KindForward}
	Push    = Action{Kind: KindPush}
	Pop     = Action{Kind: KindPop}
)

// Rotate returns the rotation action for the given direction.
func Rotate(d Direction) Action {
	return Action{Kind: KindRotate, Dir: d}
}

func (a Action) String() string {
	switch a.Kind {
	case KindNothing:
		return "Do nothing"
	case KindForward:
		return "Move forwards"
	case KindRotate:
		return "Rotate " + a.Dir.String()
	case KindPush:
		return "Push transform"
	case KindPop:
		return "Pop transform"
	default:
		return fmt.Sprintf("Action(%d)", int(a.Kind))
	}
}

// Name returns the short machine name used in JSON definitions.
func (a Action) Name() string {
	switch a.Kind {
	case KindNothing:
		return "nothing"
	case KindForward:
		return "forward"
	case KindPush:
		return "push"
	case KindPop:
		return "pop"
	case KindRotate:
		switch a.Dir {
		case XPos:
			return "rotate+x"
		case XNeg:
			return "rotate-x"
		case YPos:
			return "rotate+y"
		case YNeg:
			return "rotate-y"
		case ZPos:
			return "rotate+z"
		case ZNeg:
			return "rotate-z"
		}
	}
	return "unknown"
}

var actionNames = map[string]Action{
	"nothing":  Nothing,
	"forward":  Forward,
	"push":     Push,
	"pop":      Pop,
	"rotate+x": Rotate(XPos),
	"rotate-x": Rotate(XNeg),
	"rotate+y": Rotate(YPos),
	"rotate-y": Rotate(YNeg),
	"rotate+z": Rotate(ZPos),
	"rotate-z": Rotate(ZNeg),
}

// ParseAction resolves a short machine name back to an Action.
func ParseAction(name string) (Action, error) {
	if a, ok := actionNames[name]; ok {
		return a, nil
	}
	return Action{}, fmt.Errorf("token: unknown action name %q", name)
}

// ActionNames returns all valid machine names, useful for error messages.
func ActionNames() []string {
	return []string{
		"nothing", "forward", "push", "pop",
		"rotate+x", "rotate-x", "rotate+y", "rotate-y", "rotate+z", "rotate-z",
	}
}
