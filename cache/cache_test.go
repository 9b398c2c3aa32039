package cache

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/plant"
)

func TestGetOrRender(t *testing.T) {
	c := NewRenderCache(10)
	key := Key(uuid.New(), plant.DefaultOptions(), time.Now())

	calls := 0
	render := func() string {
		calls++
		return "<svg/>"
	}

	if doc := c.GetOrRender(key, render); doc != "<svg/>" {
		t.Fatalf("unexpected document %q", doc)
	}
	if doc := c.GetOrRender(key, render); doc != "<svg/>" {
		t.Fatalf("unexpected document %q", doc)
	}
	if calls != 1 {
		t.Errorf("render called %d times, want 1", calls)
	}

	stats := c.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("stats = %+v, want 1 hit and 1 miss", stats)
	}
}

func TestKeyChangesWithOptionsAndBuild(t *testing.T) {
	id := uuid.New()
	at := time.Now()
	base := Key(id, plant.DefaultOptions(), at)

	edited := plant.DefaultOptions()
	edited.Iterations = 3
	if Key(id, edited, at) == base {
		t.Error("option edit did not change the key")
	}

	if Key(id, plant.DefaultOptions(), at.Add(time.Second)) == base {
		t.Error("rebuild did not change the key")
	}

	if Key(uuid.New(), plant.DefaultOptions(), at) == base {
		t.Error("different plants share a key")
	}

	if Key(id, plant.DefaultOptions(), at) != base {
		t.Error("key is not deterministic")
	}
}

func TestEviction(t *testing.T) {
	c := NewRenderCache(2)
	id := uuid.New()
	at := time.Now()

	for i := 0; i < 3; i++ {
		o := plant.DefaultOptions()
		o.Iterations = i + 1
		c.Put(Key(id, o, at), "doc")
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
	if c.Stats().Evictions != 1 {
		t.Errorf("evictions = %d, want 1", c.Stats().Evictions)
	}
}

func TestClear(t *testing.T) {
	c := NewRenderCache(0)
	c.Put("k", "doc")
	c.Clear()
	if c.Size() != 0 {
		t.Errorf("size = %d after clear", c.Size())
	}
}
