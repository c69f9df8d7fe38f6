package generator

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/youthsite/internal/logging"
)

const (
	// maxBodyBytes bounds the JSON request bodies accepted by the generators.
	maxBodyBytes   = 4 << 10
	requestTimeout = 60 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// RegisterRoutes mounts the generator endpoints:
//
//	POST /api/generate/roadmap  {"skill": "..."}
//	POST /api/generate/impact   {"topic": "..."}
//	GET  /ws/generate           live panel session
func RegisterRoutes(r chi.Router, client *Client, logger *slog.Logger) {
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.With(logging.Scope("generator"))

	// The socket is long-lived; only the one-shot endpoints get a deadline.
	rest := r.With(middleware.Timeout(requestTimeout))
	rest.Post("/api/generate/roadmap", handleRoadmap(client))
	rest.Post("/api/generate/impact", handleImpact(client))
	r.Get("/ws/generate", handleWebSocket(client, logger))
}

type roadmapRequest struct {
	Skill string `json:"skill"`
}

type impactRequest struct {
	Topic string `json:"topic"`
}

func handleRoadmap(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req roadmapRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		skill := strings.TrimSpace(req.Skill)
		if skill == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, client.GenerateRoadmap(r.Context(), skill))
	}
}

func handleImpact(client *Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req impactRequest
		if err := decodeBody(w, r, &req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
			return
		}
		topic := strings.TrimSpace(req.Topic)
		if topic == "" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, client.GenerateImpactVision(r.Context(), topic))
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type  string `json:"type"` // "roadmap", "impact" or "reset"
	Kind  Kind   `json:"kind,omitempty"`
	Input string `json:"input"`
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type      string       `json:"type"` // "loading", "result", "busy", "reset" or "error"
	Kind      Kind         `json:"kind,omitempty"`
	RequestID uint64       `json:"requestId,omitempty"`
	Roadmap   *Roadmap     `json:"roadmap,omitempty"`
	Impact    *ImpactStory `json:"impact,omitempty"`
	Message   string       `json:"message,omitempty"`
}

// wsSession serializes writes to one connection; panels call back from
// their own goroutines, possibly after the handler has returned.
type wsSession struct {
	conn   *websocket.Conn
	logger *slog.Logger
	mu     sync.Mutex
	closed bool
}

func (s *wsSession) send(resp wsResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if err := s.conn.WriteJSON(resp); err != nil {
		s.logger.Debug("websocket write failed", logging.Err(err))
	}
}

// close stops further writes. Late panel results are dropped.
func (s *wsSession) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *wsSession) onChange(st PanelState) {
	switch {
	case st.Generating:
		s.send(wsResponse{Type: "loading", Kind: st.Kind, RequestID: st.RequestID})
	case st.Roadmap != nil || st.Impact != nil:
		s.send(wsResponse{Type: "result", Kind: st.Kind, RequestID: st.RequestID, Roadmap: st.Roadmap, Impact: st.Impact})
	default:
		s.send(wsResponse{Type: "reset", Kind: st.Kind, RequestID: st.RequestID})
	}
}

func handleWebSocket(client *Client, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("websocket upgrade failed", logging.Err(err))
			return
		}
		defer conn.Close()

		sess := &wsSession{conn: conn, logger: logger}
		defer sess.close()
		panels := map[Kind]*Panel{
			KindRoadmap: NewPanel(client, KindRoadmap, WithOnChange(sess.onChange)),
			KindImpact:  NewPanel(client, KindImpact, WithOnChange(sess.onChange)),
		}

		ctx := r.Context()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Warn("websocket read failed", logging.Err(err))
				}
				return
			}

			var req wsRequest
			if err := json.Unmarshal(msg, &req); err != nil {
				sess.send(wsResponse{Type: "error", Message: "invalid message format"})
				continue
			}

			if req.Type == "reset" {
				if p, ok := panels[req.Kind]; ok {
					p.Reset()
					continue
				}
				sess.send(wsResponse{Type: "error", Message: "unknown kind: " + string(req.Kind)})
				continue
			}

			panel, ok := panels[Kind(req.Type)]
			if !ok {
				sess.send(wsResponse{Type: "error", Message: "unknown message type: " + req.Type})
				continue
			}

			switch _, err := panel.Start(ctx, req.Input); {
			case errors.Is(err, ErrBusy):
				sess.send(wsResponse{Type: "busy", Kind: Kind(req.Type)})
			case errors.Is(err, ErrEmptyInput):
				// Silently ignored, like an unsubmittable form.
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
