package generator

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func newRouter(prov *mockProvider) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, NewClient(prov), nil)
	return r
}

func TestPostRoadmap(t *testing.T) {
	r := newRouter(&mockProvider{content: roadmapJSON})

	req := httptest.NewRequest(http.MethodPost, "/api/generate/roadmap", strings.NewReader(`{"skill":"Coding"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var got Roadmap
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Milestones) != 2 {
		t.Errorf("unexpected roadmap: %+v", got)
	}
}

func TestPostImpactFallbackIsStill200(t *testing.T) {
	r := newRouter(&mockProvider{content: "not json"})

	req := httptest.NewRequest(http.MethodPost, "/api/generate/impact", strings.NewReader(`{"topic":"Clean Water"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got ImpactStory
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.KeyGoals) != 3 {
		t.Errorf("expected fallback goals, got %+v", got)
	}
}

func TestPostEmptyAndInvalid(t *testing.T) {
	prov := &mockProvider{content: roadmapJSON}
	r := newRouter(prov)

	tests := []struct {
		path   string
		body   string
		status int
	}{
		{"/api/generate/roadmap", `{"skill":"   "}`, http.StatusNoContent},
		{"/api/generate/impact", `{}`, http.StatusNoContent},
		{"/api/generate/roadmap", `{not json`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != tt.status {
			t.Errorf("POST %s %s: status %d, want %d", tt.path, tt.body, w.Code, tt.status)
		}
	}
	if prov.callCount() != 0 {
		t.Errorf("provider should not be called, got %d calls", prov.callCount())
	}
}

func readWS(t *testing.T, conn *websocket.Conn) wsResponse {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("read: %v", err)
	}
	return resp
}

func TestWebSocketSession(t *testing.T) {
	prov := &mockProvider{
		content: `{"topic":"Clean Water","vision":"...","keyGoals":["A","B","C"]}`,
		release: make(chan struct{}),
	}
	srv := httptest.NewServer(newRouter(prov))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/generate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Blank input is ignored without a reply.
	if err := conn.WriteJSON(wsRequest{Type: "impact", Input: "  "}); err != nil {
		t.Fatal(err)
	}
	if err := conn.WriteJSON(wsRequest{Type: "impact", Input: "Clean Water"}); err != nil {
		t.Fatal(err)
	}
	if resp := readWS(t, conn); resp.Type != "loading" || resp.Kind != KindImpact {
		t.Fatalf("expected loading, got %+v", resp)
	}

	if err := conn.WriteJSON(wsRequest{Type: "impact", Input: "Again"}); err != nil {
		t.Fatal(err)
	}
	if resp := readWS(t, conn); resp.Type != "busy" {
		t.Fatalf("expected busy, got %+v", resp)
	}

	close(prov.release)
	resp := readWS(t, conn)
	if resp.Type != "result" || resp.Impact == nil || resp.Impact.Topic != "Clean Water" || len(resp.Impact.KeyGoals) != 3 {
		t.Fatalf("unexpected result: %+v", resp)
	}

	if err := conn.WriteJSON(wsRequest{Type: "poem", Input: "x"}); err != nil {
		t.Fatal(err)
	}
	if resp := readWS(t, conn); resp.Type != "error" {
		t.Errorf("expected error for unknown type, got %+v", resp)
	}
}

func TestWebSocketDisconnectCancelsGeneration(t *testing.T) {
	prov := &mockProvider{content: roadmapJSON, release: make(chan struct{})}
	obs := &recordingObserver{}
	r := chi.NewRouter()
	RegisterRoutes(r, NewClient(prov, WithObserver(obs)), nil)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/generate"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if err := conn.WriteJSON(wsRequest{Type: "roadmap", Input: "Coding"}); err != nil {
		t.Fatal(err)
	}
	if resp := readWS(t, conn); resp.Type != "loading" {
		t.Fatalf("expected loading, got %+v", resp)
	}
	conn.Close()

	deadline := time.Now().Add(3 * time.Second)
	for {
		obs.mu.Lock()
		n := len(obs.events)
		obs.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("generation was not finished after the visitor left")
		}
		time.Sleep(10 * time.Millisecond)
	}
	if ev := obs.last(t); ev.Reason != ReasonCanceled {
		t.Errorf("reason = %q, want %q", ev.Reason, ReasonCanceled)
	}
}

func TestClosedSessionDropsWrites(t *testing.T) {
	// A nil conn would panic if written to.
	sess := &wsSession{}
	sess.close()
	sess.send(wsResponse{Type: "result", Kind: KindRoadmap})
	sess.onChange(PanelState{Kind: KindImpact, Generating: true})
}
