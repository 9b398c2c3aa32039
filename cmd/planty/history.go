package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/piedoom/go-planty/eventlog"
	"github.com/piedoom/go-planty/storage"
)

func history(args []string) error {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	dbPath := fs.String("db", "", "Read build events from a SQLite database")
	filePath := fs.String("file", "", "Read build events from a JSONL file")
	plantID := fs.String("plant", "", "Only show events for one plant id")
	limit := fs.Int("limit", 50, "Maximum events to show")
	csvOut := fs.String("csv", "", "Export the selected events as CSV")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty history [options]

Show build history recorded by the engine. Events come from either a
SQLite database written by "planty serve --db" or a JSONL export.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Recent builds across all plants
  planty history --db builds.db

  # One plant's trace, exported to CSV
  planty history --db builds.db --plant 6e1f... --csv trace.csv
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dbPath == "" && *filePath == "" {
		fs.Usage()
		return fmt.Errorf("either --db or --file is required")
	}

	var events []eventlog.Event
	switch {
	case *dbPath != "":
		store, err := storage.New(*dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()

		if *plantID != "" {
			id, err := uuid.Parse(*plantID)
			if err != nil {
				return fmt.Errorf("invalid plant id: %w", err)
			}
			events, err = store.ForPlant(id, *limit)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
		} else {
			var err error
			events, err = store.Recent(*limit)
			if err != nil {
				return fmt.Errorf("query: %w", err)
			}
		}

	case *filePath != "":
		log, err := eventlog.ReadJSONLFile(*filePath)
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
		events = log.Events()
		if *plantID != "" {
			id, err := uuid.Parse(*plantID)
			if err != nil {
				return fmt.Errorf("invalid plant id: %w", err)
			}
			filtered := events[:0]
			for _, e := range events {
				if e.PlantID == id {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}
		if len(events) > *limit {
			events = events[len(events)-*limit:]
		}
	}

	if *csvOut != "" {
		if err := eventlog.WriteCSVFile(*csvOut, events); err != nil {
			return fmt.Errorf("write CSV: %w", err)
		}
		fmt.Fprintf(os.Stderr, "%d events written to %s\n", len(events), *csvOut)
		return nil
	}

	if len(events) == 0 {
		fmt.Println("No events recorded.")
		return nil
	}

	log := eventlog.NewLog()
	for _, e := range events {
		log.Append(e)
	}
	log.Summarize().Print()

	fmt.Println()
	for _, e := range events {
		status := fmt.Sprintf("%d symbols, %d vertices, %s", e.SequenceLen, e.VertexCount, e.Duration)
		if e.Err != "" {
			status = "error: " + e.Err
		}
		fmt.Printf("%s  %-8s  plant %s  %s\n",
			e.Timestamp.Format("2006-01-02 15:04:05"), e.Kind, shortID(e.PlantID), status)
	}
	return nil
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
