// Package storage provides SQLite-backed persistence for plant rebuild
// history.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/piedoom/go-planty/eventlog"
)

// Store handles SQLite database operations for rebuild logging.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and migrates the schema.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS builds (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		plant_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		iterations INTEGER NOT NULL DEFAULT 0,
		sequence_len INTEGER NOT NULL DEFAULT 0,
		vertex_count INTEGER NOT NULL DEFAULT 0,
		duration_ms REAL NOT NULL DEFAULT 0,
		error TEXT NOT NULL DEFAULT ''
	);

	CREATE INDEX IF NOT EXISTS idx_builds_plant ON builds(plant_id);
	CREATE INDEX IF NOT EXISTS idx_builds_plant_time ON builds(plant_id, timestamp);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying connection for custom queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Record inserts one rebuild event.
func (s *Store) Record(e eventlog.Event) error {
	_, err := s.db.Exec(`
		INSERT INTO builds (plant_id, kind, timestamp, iterations, sequence_len, vertex_count, duration_ms, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.PlantID.String(), e.Kind, e.Timestamp.UTC().Format(time.RFC3339Nano),
		e.Iterations, e.SequenceLen, e.VertexCount,
		float64(e.Duration)/float64(time.Millisecond), e.Err,
	)
	if err != nil {
		return fmt.Errorf("insert build: %w", err)
	}
	return nil
}

// Recent returns the newest events across all plants, newest first.
func (s *Store) Recent(limit int) ([]eventlog.Event, error) {
	rows, err := s.db.Query(`
		SELECT plant_id, kind, timestamp, iterations, sequence_len, vertex_count, duration_ms, error
		FROM builds ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ForPlant returns the newest events for one plant, newest first.
func (s *Store) ForPlant(id uuid.UUID, limit int) ([]eventlog.Event, error) {
	rows, err := s.db.Query(`
		SELECT plant_id, kind, timestamp, iterations, sequence_len, vertex_count, duration_ms, error
		FROM builds WHERE plant_id = ? ORDER BY id DESC LIMIT ?`,
		id.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("query plant: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Counts returns the number of recorded events per plant.
func (s *Store) Counts() (map[uuid.UUID]int, error) {
	rows, err := s.db.Query(`SELECT plant_id, COUNT(*) FROM builds GROUP BY plant_id`)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[uuid.UUID]int)
	for rows.Next() {
		var idStr string
		var n int
		if err := rows.Scan(&idStr, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("plant id %q: %w", idStr, err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

func scanEvents(rows *sql.Rows) ([]eventlog.Event, error) {
	var events []eventlog.Event
	for rows.Next() {
		var (
			idStr, kind, tsStr, errStr string
			iterations, seqLen, verts  int
			durMs                      float64
		)
		if err := rows.Scan(&idStr, &kind, &tsStr, &iterations, &seqLen, &verts, &durMs, &errStr); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			return nil, fmt.Errorf("plant id %q: %w", idStr, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, tsStr)
		if err != nil {
			return nil, fmt.Errorf("timestamp %q: %w", tsStr, err)
		}
		events = append(events, eventlog.Event{
			PlantID:     id,
			Kind:        kind,
			Timestamp:   ts,
			Iterations:  iterations,
			SequenceLen: seqLen,
			VertexCount: verts,
			Duration:    time.Duration(durMs * float64(time.Millisecond)),
			Err:         errStr,
		})
	}
	return events, rows.Err()
}
