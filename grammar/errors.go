package grammar

import "fmt"

// ParseError reports rule text that does not match the
// "symbol = production*" shape.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("grammar: cannot parse rule %q: %s", e.Text, e.Reason)
}

// UnknownTokenError reports a rule symbol absent from the registry.
type UnknownTokenError struct {
	Symbol rune
}

func (e *UnknownTokenError) Error() string {
	return fmt.Sprintf("grammar: unknown token %q", e.Symbol)
}

// GrowthLimitError reports that an expansion exceeded the caller's
// sequence length cap.
type GrowthLimitError struct {
	Iteration int
	Length    int
	Limit     int
}

func (e *GrowthLimitError) Error() string {
	return fmt.Sprintf("grammar: expansion reached %d symbols at iteration %d (limit %d)",
		e.Length, e.Iteration, e.Limit)
}
