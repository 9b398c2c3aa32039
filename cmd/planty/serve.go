package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"

	"github.com/piedoom/go-planty/engine"
	"github.com/piedoom/go-planty/eventlog"
	"github.com/piedoom/go-planty/server"
	"github.com/piedoom/go-planty/storage"
	"github.com/piedoom/go-planty/trigger"
)

func serve(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", ":8080", "Listen address")
	dbPath := fs.String("db", "", "Record build events to a SQLite database")
	spawn := fs.Int("spawn", 1, "Number of stock plants to spawn at startup")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: planty serve [definition.json ...] [options]

Run the HTTP/WebSocket preview server. Definition files given as
arguments are loaded and built at startup; connected WebSocket clients
are notified on every finished rebuild.

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Endpoints:
  GET    /health                 Server status
  GET    /plants                 List plants
  POST   /plants                 Create a plant from a definition
  GET    /plants/{id}            One plant's stats
  DELETE /plants/{id}            Remove a plant
  GET    /plants/{id}/svg        SVG rendering
  POST   /plants/{id}/options    Update options and rebuild
  GET    /ws                     WebSocket build notifications
`)
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	bus := trigger.NewBus("planty")
	eng := engine.New(bus).WithLog(eventlog.NewLog())

	if *dbPath != "" {
		store, err := storage.New(*dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer store.Close()
		eng.WithStore(store)
		log.Printf("Recording builds to %s", *dbPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	eng.Run(ctx)
	defer eng.Stop()

	for _, path := range fs.Args() {
		p, err := loadPlant(path)
		if err != nil {
			return err
		}
		eng.Add(p)
		if _, err := eng.Rebuild(p.ID); err != nil {
			return fmt.Errorf("build %s: %w", path, err)
		}
		log.Printf("Loaded %s (%d vertices)", path, p.VertexCount())
	}
	if len(fs.Args()) == 0 {
		for i := 0; i < *spawn; i++ {
			p := eng.Spawn()
			log.Printf("Spawned plant %s", p.ID)
		}
	}

	srv := &http.Server{Addr: *addr, Handler: server.NewServer(eng)}
	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	log.Printf("Listening on %s", *addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
