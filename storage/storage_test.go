package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/eventlog"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "planty.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RecordAndQuery(t *testing.T) {
	s := testStore(t)

	a := uuid.New()
	b := uuid.New()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	events := []eventlog.Event{
		{PlantID: a, Kind: eventlog.KindSpawn, Timestamp: base},
		{PlantID: a, Kind: eventlog.KindRebuild, Timestamp: base.Add(time.Second),
			Iterations: 6, SequenceLen: 4096, VertexCount: 2048,
			Duration: 12 * time.Millisecond},
		{PlantID: b, Kind: eventlog.KindRebuild, Timestamp: base.Add(2 * time.Second),
			Iterations: 2, SequenceLen: 16, VertexCount: 10,
			Duration: time.Millisecond},
	}
	for _, e := range events {
		if err := s.Record(e); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := s.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 3 {
		t.Fatalf("expected 3 events, got %d", len(recent))
	}
	// Newest first.
	if recent[0].PlantID != b || recent[0].VertexCount != 10 {
		t.Errorf("unexpected newest event: %+v", recent[0])
	}

	mine, err := s.ForPlant(a, 10)
	if err != nil {
		t.Fatalf("for plant: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 events for plant a, got %d", len(mine))
	}
	if mine[0].Kind != eventlog.KindRebuild || mine[0].Duration != 12*time.Millisecond {
		t.Errorf("round trip mangled event: %+v", mine[0])
	}
	if !mine[0].Timestamp.Equal(base.Add(time.Second)) {
		t.Errorf("timestamp round trip: %v", mine[0].Timestamp)
	}
}

func TestStore_Counts(t *testing.T) {
	s := testStore(t)

	a := uuid.New()
	for i := 0; i < 3; i++ {
		if err := s.Record(eventlog.Event{
			PlantID: a, Kind: eventlog.KindRebuild, Timestamp: time.Now(),
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	counts, err := s.Counts()
	if err != nil {
		t.Fatalf("counts: %v", err)
	}
	if counts[a] != 3 {
		t.Errorf("expected 3 events for plant, got %d", counts[a])
	}
}

func TestStore_RecentLimit(t *testing.T) {
	s := testStore(t)

	a := uuid.New()
	for i := 0; i < 5; i++ {
		if err := s.Record(eventlog.Event{
			PlantID: a, Kind: eventlog.KindRebuild,
			Timestamp: time.Now(), VertexCount: i,
		}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	recent, err := s.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("limit ignored: got %d events", len(recent))
	}
	if recent[0].VertexCount != 4 {
		t.Errorf("expected newest event first, got %+v", recent[0])
	}
}
