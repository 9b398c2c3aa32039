package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/piedoom/go-planty/plant"
)

const maxBodySize = 1 << 20

func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func summarize(p *plant.Plant) PlantSummary {
	s := PlantSummary{
		ID:         p.ID.String(),
		Name:       p.Name,
		Axiom:      p.Options.Axiom,
		Iterations: p.Options.Iterations,
	}
	if last := p.Last(); last != nil {
		s.VertexCount = last.VertexCount
		s.SequenceLen = last.SequenceLen
	}
	return s
}
