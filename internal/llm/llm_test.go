package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

// MockProvider is a test provider that records calls and returns canned responses.
type MockProvider struct {
	mu       sync.Mutex
	Calls    []CompletionRequest
	Response *CompletionResponse
	Err      error
	ProvName string
}

func NewMockProvider(name string) *MockProvider {
	return &MockProvider{
		ProvName: name,
		Response: &CompletionResponse{
			Content:      `{"ok":true}`,
			InputTokens:  10,
			OutputTokens: 20,
			Model:        "mock-model",
			FinishReason: "stop",
		},
	}
}

func (m *MockProvider) Name() string {
	return m.ProvName
}

func (m *MockProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Response, nil
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// --- Tests ---

func TestFactoryReturnsErrorForUnknownProvider(t *testing.T) {
	_, err := NewProvider("unknown", "some-model")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryDoesNotRequireKeyUpFront(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	for _, name := range []string{"google", "openai"} {
		p, err := NewProvider(name, "some-model")
		if err != nil {
			t.Fatalf("NewProvider(%q): %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("expected name %q, got %q", name, p.Name())
		}
		_, err = p.Complete(context.Background(), CompletionRequest{
			Messages: []Message{{Role: RoleUser, Content: "hi"}},
		})
		if !errors.Is(err, ErrNoCredential) {
			t.Errorf("%s: expected ErrNoCredential, got %v", name, err)
		}
	}
}

func TestFactoryCreatesOllamaWithDefaultHost(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "")
	provider, err := NewProvider("ollama", "llama3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ollamaP, ok := provider.(*OllamaProvider)
	if !ok {
		t.Fatal("expected *OllamaProvider")
	}
	if ollamaP.baseURL != "http://localhost:11434" {
		t.Errorf("expected default host, got %q", ollamaP.baseURL)
	}
}

func TestEnvKeyIsReadPerCall(t *testing.T) {
	key := EnvKey("YOUTHSITE_TEST_KEY")
	t.Setenv("YOUTHSITE_TEST_KEY", "first")
	if got := key(); got != "first" {
		t.Fatalf("got %q, want first", got)
	}
	t.Setenv("YOUTHSITE_TEST_KEY", "rotated")
	if got := key(); got != "rotated" {
		t.Errorf("got %q, want rotated", got)
	}
}

func testSchema() *Schema {
	return Object(map[string]*Schema{
		"topic":    String("the topic"),
		"keyGoals": ArrayOf(String("")),
	})
}

func TestSchemaMarshalsAsJSONSchema(t *testing.T) {
	data, err := json.Marshal(testSchema())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc["type"] != "object" {
		t.Errorf("type = %v, want object", doc["type"])
	}
	required, _ := doc["required"].([]any)
	if len(required) != 2 || required[0] != "keyGoals" || required[1] != "topic" {
		t.Errorf("unexpected required list: %v", required)
	}
	props := doc["properties"].(map[string]any)
	goals := props["keyGoals"].(map[string]any)
	if goals["type"] != "array" {
		t.Errorf("keyGoals type = %v, want array", goals["type"])
	}
}

func TestToGenaiSchema(t *testing.T) {
	gs := toGenaiSchema(testSchema())
	if gs.Type != "OBJECT" {
		t.Errorf("Type = %q, want OBJECT", gs.Type)
	}
	if gs.Properties["keyGoals"].Items.Type != "STRING" {
		t.Errorf("items type = %q, want STRING", gs.Properties["keyGoals"].Items.Type)
	}
	if len(gs.PropertyOrdering) != 2 {
		t.Errorf("expected property ordering, got %v", gs.PropertyOrdering)
	}
}

func TestOllamaSendsSchemaAsFormat(t *testing.T) {
	var got ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"{\"topic\":\"x\"}"},"done":true,"done_reason":"stop","prompt_eval_count":3,"eval_count":4}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != `{"topic":"x"}` {
		t.Errorf("content = %q", resp.Content)
	}
	if resp.InputTokens != 3 || resp.OutputTokens != 4 {
		t.Errorf("tokens = %d/%d, want 3/4", resp.InputTokens, resp.OutputTokens)
	}
	if !strings.Contains(string(got.Format), `"type":"object"`) {
		t.Errorf("expected schema in format field, got %s", got.Format)
	}
}

func TestOllamaNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	_, err := p.Complete(context.Background(), CompletionRequest{JSONMode: true})
	if err == nil {
		t.Fatal("expected error for 404")
	}
}

func TestOpenAIUsesSchemaResponseFormat(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"1","object":"chat.completion","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"{}"},"finish_reason":"stop"}],"usage":{"prompt_tokens":5,"completion_tokens":6,"total_tokens":11}}`))
	}))
	defer srv.Close()

	t.Setenv("YOUTHSITE_OPENAI_TEST_KEY", "sk-test")
	p := NewOpenAIProvider(EnvKey("YOUTHSITE_OPENAI_TEST_KEY"), "gpt-4o-mini", WithOpenAIBaseURL(srv.URL))
	resp, err := p.Complete(context.Background(), CompletionRequest{
		Messages: []Message{{Role: RoleUser, Content: "hi"}},
		Schema:   testSchema(),
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "{}" || resp.OutputTokens != 6 {
		t.Errorf("unexpected response: %+v", resp)
	}
	if auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", auth)
	}
	format, _ := got["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v", got["response_format"])
	}
}

func TestRateLimiterDisabledReturnsProvider(t *testing.T) {
	mock := NewMockProvider("test")
	if p := NewRateLimitedProvider(mock, 0); p != Provider(mock) {
		t.Error("rpm=0 should return the wrapped provider unchanged")
	}
}

func TestRateLimiterFailsFast(t *testing.T) {
	mock := NewMockProvider("test")
	rl := NewRateLimitedProvider(mock, 2).(*RateLimitedProvider)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.lastFill = now

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if _, err := rl.Complete(ctx, CompletionRequest{}); err != nil {
			t.Fatalf("request %d: unexpected error: %v", i, err)
		}
	}
	if _, err := rl.Complete(ctx, CompletionRequest{}); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Errorf("expected 2 calls to reach the provider, got %d", mock.CallCount())
	}

	// Half a minute refills one of two tokens.
	now = now.Add(30 * time.Second)
	if _, err := rl.Complete(ctx, CompletionRequest{}); err != nil {
		t.Errorf("expected refill after 30s, got %v", err)
	}
	if rl.Name() != "test" {
		t.Errorf("expected name 'test', got %q", rl.Name())
	}
}

func TestEstimateCost(t *testing.T) {
	// gpt-4o: $2.50/1M input, $10/1M output
	cost := EstimateCost("gpt-4o", 1_000_000, 1_000_000)
	if cost < 12.49 || cost > 12.51 {
		t.Errorf("expected ~$12.50, got $%.2f", cost)
	}
	if EstimateCost("llama3", 1000, 1000) != 0 {
		t.Error("expected 0 for unpriced model")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"hi", 1},
		{"hello world!!", 3},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}
