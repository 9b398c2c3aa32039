package eventlog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
)

var csvHeader = []string{
	"plant_id", "kind", "timestamp",
	"iterations", "sequence_len", "vertex_count", "duration_ms", "error",
}

// WriteCSV writes events with a header row.
func WriteCSV(w io.Writer, events []Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range events {
		record := []string{
			e.PlantID.String(),
			e.Kind,
			e.Timestamp.Format(time.RFC3339Nano),
			strconv.Itoa(e.Iterations),
			strconv.Itoa(e.SequenceLen),
			strconv.Itoa(e.VertexCount),
			strconv.FormatFloat(float64(e.Duration)/float64(time.Millisecond), 'f', -1, 64),
			e.Err,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("event %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes events to a CSV file.
func WriteCSVFile(filename string, events []Event) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, events)
}

// ReadCSV parses a rebuild log written by WriteCSV.
func ReadCSV(r io.Reader) (*Log, error) {
	cr := csv.NewReader(r)
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading csv: %w", err)
	}
	if len(records) == 0 {
		return NewLog(), nil
	}

	log := NewLog()
	for i, record := range records[1:] { // skip header
		if len(record) != len(csvHeader) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+2, len(csvHeader), len(record))
		}

		plantID, err := uuid.Parse(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: plant id: %w", i+2, err)
		}
		ts, err := time.Parse(time.RFC3339Nano, record[2])
		if err != nil {
			return nil, fmt.Errorf("row %d: timestamp: %w", i+2, err)
		}
		iterations, err := strconv.Atoi(record[3])
		if err != nil {
			return nil, fmt.Errorf("row %d: iterations: %w", i+2, err)
		}
		seqLen, err := strconv.Atoi(record[4])
		if err != nil {
			return nil, fmt.Errorf("row %d: sequence_len: %w", i+2, err)
		}
		verts, err := strconv.Atoi(record[5])
		if err != nil {
			return nil, fmt.Errorf("row %d: vertex_count: %w", i+2, err)
		}
		durMs, err := strconv.ParseFloat(record[6], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: duration_ms: %w", i+2, err)
		}

		log.Append(Event{
			PlantID:     plantID,
			Kind:        record[1],
			Timestamp:   ts,
			Iterations:  iterations,
			SequenceLen: seqLen,
			VertexCount: verts,
			Duration:    time.Duration(durMs * float64(time.Millisecond)),
			Err:         record[7],
		})
	}
	return log, nil
}

// ReadCSVFile parses a rebuild log from a CSV file.
func ReadCSVFile(filename string) (*Log, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}
