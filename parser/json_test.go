package parser

import (
	"strings"
	"testing"

	"github.com/piedoom/go-planty/token"
)

const branchDef = `{
  "name": "branch",
  "symbols": {
    "X": "nothing",
    "F": "forward",
    "+": "rotate+x",
    "[": "push",
    "]": "pop"
  },
  "axiom": "X",
  "rules": ["X=F[+F]F"],
  "options": {"rotationAngle": 90, "segmentLength": 1, "iterations": 1}
}`

func TestFromJSON_BuildsWorkingPlant(t *testing.T) {
	p, err := FromJSON([]byte(branchDef))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if p.Name != "branch" {
		t.Errorf("name = %q, want branch", p.Name)
	}
	if p.Options.RotationAngle != 90 {
		t.Errorf("rotation angle = %v, want 90", p.Options.RotationAngle)
	}

	res, err := p.Rebuild()
	if err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if res.VertexCount != 5 {
		t.Errorf("vertex count = %d, want 5", res.VertexCount)
	}
}

func TestFromJSON_DefaultsWhenOmitted(t *testing.T) {
	p, err := FromJSON([]byte(`{}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if p.Options.Axiom != "X" {
		t.Errorf("axiom = %q, want default X", p.Options.Axiom)
	}
	if p.Options.Iterations != 6 {
		t.Errorf("iterations = %d, want default 6", p.Options.Iterations)
	}
	if len(p.Actions()) != 10 {
		t.Errorf("expected stock token set, got %d symbols", len(p.Actions()))
	}
}

func TestFromJSON_PartialOverride(t *testing.T) {
	p, err := FromJSON([]byte(`{"options": {"iterations": 3}}`))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if p.Options.Iterations != 3 {
		t.Errorf("iterations = %d, want 3", p.Options.Iterations)
	}
	if p.Options.SegmentLength != 0.25 {
		t.Errorf("segment length = %v, want untouched default 0.25", p.Options.SegmentLength)
	}
}

func TestFromJSON_Rejections(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"malformed", `{`, "invalid JSON"},
		{"multi-rune symbol", `{"symbols": {"ab": "forward"}}`, "single character"},
		{"unknown action", `{"symbols": {"F": "sprout"}}`, "sprout"},
		{"bad iterations", `{"options": {"iterations": 0}}`, "iteration count"},
		{"bad segment", `{"options": {"segmentLength": -1}}`, "segment length"},
	}
	for _, c := range cases {
		if _, err := FromJSON([]byte(c.in)); err == nil {
			t.Errorf("%s: expected error", c.name)
		} else if !strings.Contains(err.Error(), c.want) {
			t.Errorf("%s: error %q does not mention %q", c.name, err, c.want)
		}
	}
}

func TestToJSON_RoundTrip(t *testing.T) {
	orig, err := FromJSON([]byte(branchDef))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}

	data, err := ToJSON(orig)
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := FromJSON(data)
	if err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if back.Name != orig.Name {
		t.Errorf("name lost: %q vs %q", back.Name, orig.Name)
	}
	if back.Options.Axiom != orig.Options.Axiom {
		t.Errorf("axiom lost")
	}
	if len(back.Actions()) != len(orig.Actions()) {
		t.Errorf("symbol table lost: %d vs %d symbols", len(back.Actions()), len(orig.Actions()))
	}
	if got := back.Actions()['+']; got != token.Rotate(token.XPos) {
		t.Errorf("action for '+' = %v, want rotate+x", got)
	}

	r1, err := orig.Rebuild()
	if err != nil {
		t.Fatalf("orig rebuild: %v", err)
	}
	r2, err := back.Rebuild()
	if err != nil {
		t.Fatalf("back rebuild: %v", err)
	}
	if r1.VertexCount != r2.VertexCount || r1.SequenceLen != r2.SequenceLen {
		t.Errorf("round trip changed geometry: %d/%d vs %d/%d",
			r1.VertexCount, r1.SequenceLen, r2.VertexCount, r2.SequenceLen)
	}
}
