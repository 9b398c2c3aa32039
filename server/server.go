// Package server provides an HTTP/WebSocket preview server. REST
// endpoints manage plants; connected WebSocket clients receive a
// notification whenever a plant finishes rebuilding.
package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/piedoom/go-planty/cache"
	"github.com/piedoom/go-planty/engine"
	"github.com/piedoom/go-planty/parser"
	"github.com/piedoom/go-planty/plant"
	"github.com/piedoom/go-planty/plotter"
	"github.com/piedoom/go-planty/trigger"
)

// Server handles HTTP and WebSocket connections.
type Server struct {
	mu sync.RWMutex

	engine *engine.Engine

	// All connected clients
	clients map[*Client]bool

	// Rendered SVG documents, invalidated by rebuilds
	renders *cache.RenderCache

	upgrader websocket.Upgrader
}

// Client represents one connected preview. sendChan is never closed;
// writePump exits via done, so a broadcast racing a disconnect cannot
// hit a closed channel.
type Client struct {
	ID       string
	Conn     *websocket.Conn
	sendChan chan []byte
	done     chan struct{}
}

// Message types
type MessageType string

const (
	MsgTypeBuildDone MessageType = "build_done"
	MsgTypeRebuild   MessageType = "rebuild"
	MsgTypeError     MessageType = "error"
	MsgTypePing      MessageType = "ping"
	MsgTypePong      MessageType = "pong"
)

// Message envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// BuildDonePayload announces a finished rebuild to previews.
type BuildDonePayload struct {
	PlantID     string `json:"plant_id"`
	VertexCount int    `json:"vertex_count"`
	SequenceLen int    `json:"sequence_len"`
}

// RebuildPayload asks the engine to rebuild one plant.
type RebuildPayload struct {
	PlantID string `json:"plant_id"`
}

// ErrorPayload for errors
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PlantSummary is the REST listing shape.
type PlantSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	Axiom       string `json:"axiom"`
	Iterations  int    `json:"iterations"`
	VertexCount int    `json:"vertex_count"`
	SequenceLen int    `json:"sequence_len"`
}

// NewServer creates a preview server on top of an engine. It subscribes
// to build completions so previews refresh without polling.
func NewServer(eng *engine.Engine) *Server {
	s := &Server{
		engine:  eng,
		clients: make(map[*Client]bool),
		renders: cache.NewRenderCache(64),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	eng.Bus().Subscribe("preview-server", trigger.TypeBuildDone, s.onBuildDone)
	return s
}

// ServeHTTP handles HTTP requests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/ws":
		s.handleWebSocket(w, r)
	case r.URL.Path == "/health":
		s.handleHealth(w, r)
	case r.URL.Path == "/plants":
		s.handlePlants(w, r)
	case strings.HasPrefix(r.URL.Path, "/plants/"):
		s.handlePlant(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	clients := len(s.clients)
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":  "ok",
		"plants":  len(s.engine.Plants()),
		"clients": clients,
	})
}

func (s *Server) handlePlants(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		plants := s.engine.Plants()
		out := make([]PlantSummary, 0, len(plants))
		for _, p := range plants {
			out = append(out, summarize(p))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		body, err := readBody(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		p, err := parser.FromJSON(body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.engine.Add(p)
		if _, err := s.engine.Rebuild(p.ID); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		writeJSON(w, http.StatusCreated, summarize(p))

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handlePlant routes /plants/{id}, /plants/{id}/svg and
// /plants/{id}/options.
func (s *Server) handlePlant(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/plants/")
	parts := strings.Split(rest, "/")

	id, err := uuid.Parse(parts[0])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid plant id")
		return
	}
	p, ok := s.engine.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "no such plant")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, summarize(p))

	case len(parts) == 1 && r.Method == http.MethodDelete:
		s.engine.Remove(id)
		w.WriteHeader(http.StatusNoContent)

	case len(parts) == 2 && parts[1] == "svg" && r.Method == http.MethodGet:
		s.handleSVG(w, r, id)

	case len(parts) == 2 && parts[1] == "options" && r.Method == http.MethodPost:
		s.handleOptions(w, r, id)

	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	p, _ := s.engine.Get(id)
	if p.Last() == nil {
		if _, err := s.engine.Rebuild(id); err != nil {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
	}

	title := p.Name
	if title == "" {
		title = p.ID.String()[:8]
	}
	key := cache.Key(p.ID, p.Options, p.Last().BuiltAt)
	svg := s.renders.GetOrRender(key, func() string {
		return plotter.NewSVGPlotter(800, 800).
			SetTitle(title).
			SetStroke(p.Options.LineColor, p.Options.LineWidth).
			Render(p.Last().Path)
	})

	w.Header().Set("Content-Type", "image/svg+xml")
	fmt.Fprint(w, svg)
}

// handleOptions applies a partial definition update and rebuilds. A
// rebuild failure keeps the plant's previous geometry but still reports
// the error.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var def parser.Definition
	if err := json.Unmarshal(body, &def); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %v", err))
		return
	}

	// The edit runs under the engine's build lock so it cannot tear a
	// rebuild in flight for the same plant.
	s.engine.Update(id, func(p *plant.Plant) {
		if def.Name != "" {
			p.Name = def.Name
		}
		if def.Axiom != "" {
			p.Options.Axiom = def.Axiom
		}
		if def.Rules != nil {
			p.Options.Rules = def.Rules
		}
		if o := def.Options; o != nil {
			if o.RotationAngle != nil {
				p.Options.RotationAngle = *o.RotationAngle
			}
			if o.SegmentLength != nil {
				p.Options.SegmentLength = *o.SegmentLength
			}
			if o.Iterations != nil {
				p.Options.Iterations = *o.Iterations
			}
			if o.LineWidth != nil {
				p.Options.LineWidth = *o.LineWidth
			}
			if o.LineColor != nil {
				p.Options.LineColor = *o.LineColor
			}
		}
	})

	if _, err := s.engine.Rebuild(id); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	p, _ := s.engine.Get(id)
	writeJSON(w, http.StatusOK, summarize(p))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	client := &Client{
		ID:       uuid.NewString(),
		Conn:     conn,
		sendChan: make(chan []byte, 256),
		done:     make(chan struct{}),
	}

	s.mu.Lock()
	s.clients[client] = true
	s.mu.Unlock()

	log.Printf("Client %s connected", client.ID[:8])

	go client.writePump()
	s.handleClient(client)
}

func (s *Server) handleClient(client *Client) {
	defer func() {
		s.removeClient(client)
		client.Conn.Close()
		close(client.done)
	}()

	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, msgBytes, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Client %s read error: %v", client.ID[:8], err)
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			s.sendError(client, "invalid_message", "Could not parse message")
			continue
		}

		s.handleMessage(client, &msg)
	}
}

func (s *Server) handleMessage(client *Client, msg *Message) {
	switch msg.Type {
	case MsgTypePing:
		s.sendMessage(client, MsgTypePong, nil)

	case MsgTypeRebuild:
		var req RebuildPayload
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			s.sendError(client, "invalid_payload", fmt.Sprintf("Invalid rebuild payload: %v", err))
			return
		}
		id, err := uuid.Parse(req.PlantID)
		if err != nil {
			s.sendError(client, "invalid_payload", "Invalid plant id")
			return
		}
		// The completion broadcast comes through the bus subscription.
		if _, err := s.engine.Rebuild(id); err != nil {
			s.sendError(client, "rebuild_error", err.Error())
		}

	default:
		s.sendError(client, "unknown_type", fmt.Sprintf("Unknown message type: %s", msg.Type))
	}
}

// onBuildDone fans a completion signal out to every connected client.
func (s *Server) onBuildDone(sig *trigger.Signal) error {
	payload := BuildDonePayload{PlantID: sig.Plant.String()}
	if v, ok := sig.Payload["vertex_count"].(int); ok {
		payload.VertexCount = v
	}
	if v, ok := sig.Payload["sequence_len"].(int); ok {
		payload.SequenceLen = v
	}

	s.mu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		s.sendMessage(c, MsgTypeBuildDone, payload)
	}
	return nil
}

func (s *Server) removeClient(client *Client) {
	s.mu.Lock()
	delete(s.clients, client)
	s.mu.Unlock()

	log.Printf("Client %s disconnected", client.ID[:8])
}

func (s *Server) sendMessage(client *Client, msgType MessageType, payload any) {
	var payloadBytes json.RawMessage
	if payload != nil {
		var err error
		payloadBytes, err = json.Marshal(payload)
		if err != nil {
			log.Printf("Error marshaling payload: %v", err)
			return
		}
	}

	msg := Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	select {
	case client.sendChan <- msgBytes:
	default:
		log.Printf("Client %s send buffer full", client.ID[:8])
	}
}

func (s *Server) sendError(client *Client, code, message string) {
	s.sendMessage(client, MsgTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
}

func (client *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			return

		case message := <-client.sendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Client %s write error: %v", client.ID[:8], err)
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
