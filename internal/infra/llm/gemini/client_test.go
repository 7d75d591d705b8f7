package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gaiashield/gaiashield/internal/domain/analysis"
)

type fakeModel struct {
	requests []chatRequest
	replies  []string // content per attempt; the last one repeats
}

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

// newFakeModel runs a chat-completions endpoint that replies with the given
// contents, one per attempt, and records every request it sees.
func newFakeModel(t *testing.T, replies ...string) (*fakeModel, *Client) {
	t.Helper()
	f := &fakeModel{replies: replies}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		f.requests = append(f.requests, req)

		reply := ""
		if len(f.replies) > 0 {
			reply = f.replies[0]
			if len(f.replies) > 1 {
				f.replies = f.replies[1:]
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": reply}},
			},
		})
	}))
	t.Cleanup(srv.Close)

	client := NewClient("test-key", "gemini-2.5-flash", srv.URL+"/v1", 2, 5*time.Second)
	return f, client
}

func TestGenerateJSONUnconfigured(t *testing.T) {
	c := NewClient("", "", "", 0, 0)
	if c.Configured() {
		t.Error("client without key reports configured")
	}
	_, err := c.GenerateJSON(context.Background(), analysis.TaskClimate, "sys", map[string]any{}, 0.2)
	var confErr *analysis.ConfigurationError
	if !errors.As(err, &confErr) {
		t.Fatalf("expected ConfigurationError, got %T: %v", err, err)
	}
}

func TestGenerateJSONSuccess(t *testing.T) {
	f, c := newFakeModel(t, `{"ok": true, "task": "climate_guard"}`)

	raw, err := c.GenerateJSON(context.Background(), analysis.TaskClimate, "system prompt", map[string]any{"lat": 1}, 0.2)
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("result not JSON: %v", err)
	}
	if out["task"] != "climate_guard" {
		t.Errorf("task = %v", out["task"])
	}

	if len(f.requests) != 1 {
		t.Fatalf("upstream calls = %d, want 1", len(f.requests))
	}
	req := f.requests[0]
	if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
		t.Error("request did not ask for json_object response format")
	}
	if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
		t.Fatalf("unexpected message layout: %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[1].Content, "TASK: climate_guard") {
		t.Error("user message does not carry the task name")
	}
	if !strings.Contains(req.Messages[1].Content, `"lat": 1`) {
		t.Error("user message does not carry the pretty-printed payload")
	}
}

func TestGenerateJSONStripsFences(t *testing.T) {
	_, c := newFakeModel(t, "```json\n{\"ok\": true, \"task\": \"cyberprotect\"}\n```")

	raw, err := c.GenerateJSON(context.Background(), analysis.TaskCyber, "sys", map[string]any{}, 0.2)
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if !json.Valid(raw) {
		t.Errorf("fenced response not cleaned: %s", raw)
	}
}

func TestGenerateJSONRetryThenFail(t *testing.T) {
	f, c := newFakeModel(t, "this is not JSON")

	_, err := c.GenerateJSON(context.Background(), analysis.TaskBusiness, "sys", map[string]any{}, 0.2)
	var modelErr *analysis.ModelUnavailableError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelUnavailableError, got %T: %v", err, err)
	}
	if modelErr.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", modelErr.Attempts)
	}
	if len(f.requests) != 2 {
		t.Fatalf("upstream calls = %d, want exactly maxRetries", len(f.requests))
	}

	first := f.requests[0].Messages[1].Content
	second := f.requests[1].Messages[1].Content
	if first == second {
		t.Error("retry did not rewrite the user prompt")
	}
	if !strings.Contains(second, "ERREUR") {
		t.Error("retry prompt is missing the correction notice")
	}
	if !strings.HasSuffix(second, first) {
		t.Error("retry prompt should prepend the correction to the original prompt")
	}
}

func TestGenerateJSONRecoversOnSecondAttempt(t *testing.T) {
	f, c := newFakeModel(t, "garbage", `{"ok": true, "task": "business_shield"}`)

	raw, err := c.GenerateJSON(context.Background(), analysis.TaskBusiness, "sys", map[string]any{}, 0.2)
	if err != nil {
		t.Fatalf("GenerateJSON: %v", err)
	}
	if !json.Valid(raw) {
		t.Errorf("invalid JSON returned: %s", raw)
	}
	if len(f.requests) != 2 {
		t.Errorf("upstream calls = %d, want 2", len(f.requests))
	}
}

func TestGenerateJSONHungConnectionTimesOut(t *testing.T) {
	var calls atomic.Int32
	stop := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		// Never answer; the client must give up on its own. The stop channel
		// only releases the handler at cleanup so srv.Close does not hang.
		select {
		case <-r.Context().Done():
		case <-stop:
		}
	}))
	t.Cleanup(func() {
		close(stop)
		srv.Close()
	})

	c := NewClient("test-key", "gemini-2.5-flash", srv.URL+"/v1", 2, 50*time.Millisecond)

	done := make(chan error, 1)
	go func() {
		_, err := c.GenerateJSON(context.Background(), analysis.TaskClimate, "sys", map[string]any{}, 0.2)
		done <- err
	}()

	select {
	case err := <-done:
		var modelErr *analysis.ModelUnavailableError
		if !errors.As(err, &modelErr) {
			t.Fatalf("expected ModelUnavailableError, got %T: %v", err, err)
		}
		if modelErr.Attempts != 2 {
			t.Errorf("attempts = %d, want 2", modelErr.Attempts)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("GenerateJSON never returned against a hung upstream")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("upstream calls = %d, want one per attempt", n)
	}
}

func TestGenerateJSONEmptyResponseIsFailure(t *testing.T) {
	f, c := newFakeModel(t, "")

	_, err := c.GenerateJSON(context.Background(), analysis.TaskClimate, "sys", map[string]any{}, 0.2)
	var modelErr *analysis.ModelUnavailableError
	if !errors.As(err, &modelErr) {
		t.Fatalf("expected ModelUnavailableError for empty bodies, got %v", err)
	}
	if len(f.requests) != 2 {
		t.Errorf("upstream calls = %d, want 2", len(f.requests))
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"  {\"a\":1}  ", `{"a":1}`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripFences(tt.in); got != tt.want {
			t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
