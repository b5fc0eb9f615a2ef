package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/growthpath/backend/internal/config"
)

func newTestClient(baseURL, apiKey string) *Client {
	cfg := &config.Config{}
	cfg.LLM.BaseURL = baseURL
	cfg.LLM.APIKey = apiKey
	cfg.LLM.DefaultModel = "claude-test@1"
	cfg.LLM.DefaultMaxTokens = 4096
	cfg.LLM.Timeout = 5
	return NewClient(cfg)
}

func TestChatCompletionSendsVendorRequest(t *testing.T) {
	const vendorBody = `{"id":"msg_1","model":"claude-test@1","content":[{"type":"text","text":"hello"}],"usage":{"input_tokens":3}}`

	var gotPath, gotAuth string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, vendorBody)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL+"/api/google/v1", "secret")
	raw, err := c.ChatCompletion(context.Background(), ChatRequest{UserContent: "hi", SystemContent: "be brief"})
	if err != nil {
		t.Fatalf("ChatCompletion error: %v", err)
	}

	if string(raw) != vendorBody {
		t.Errorf("response was modified: %s", raw)
	}
	if gotPath != "/api/google/v1/publishers/anthropic/models/claude-test@1:rawPredict" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("authorization = %q", gotAuth)
	}
	if gotBody["anthropic_version"] != "vertex-2023-10-16" {
		t.Errorf("anthropic_version = %v", gotBody["anthropic_version"])
	}
	if gotBody["max_tokens"] != float64(4096) {
		t.Errorf("max_tokens = %v, want default 4096", gotBody["max_tokens"])
	}
	if gotBody["system"] != "be brief" {
		t.Errorf("system = %v", gotBody["system"])
	}
	msgs, _ := gotBody["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("messages = %v", gotBody["messages"])
	}
	if m := msgs[0].(map[string]any); m["role"] != "user" || m["content"] != "hi" {
		t.Errorf("message = %v", m)
	}
}

func TestChatCompletionOverridesAndOmitsSystem(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, "secret")
	if _, err := c.ChatCompletion(context.Background(), ChatRequest{UserContent: "hi", Model: "other", MaxTokens: 10}); err != nil {
		t.Fatalf("ChatCompletion error: %v", err)
	}

	if !strings.HasSuffix(gotPath, "/models/other:rawPredict") {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody["max_tokens"] != float64(10) {
		t.Errorf("max_tokens = %v", gotBody["max_tokens"])
	}
	if _, ok := gotBody["system"]; ok {
		t.Errorf("system should be omitted when empty")
	}
}

func TestChatCompletionErrors(t *testing.T) {
	if _, err := newTestClient("http://unused", "").ChatCompletion(context.Background(), ChatRequest{UserContent: "hi"}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("error = %v, want ErrNotConfigured", err)
	}

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "upstream down")
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, "secret").ChatCompletion(context.Background(), ChatRequest{UserContent: "hi"})
	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("error = %v, want StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadGateway || statusErr.Body != "upstream down" {
		t.Errorf("status error = %+v", statusErr)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want exactly one attempt", calls)
	}
}

func TestExtractText(t *testing.T) {
	text, model, err := ExtractText(json.RawMessage(`{"model":"m1","content":[{"type":"text","text":"analysis"}]}`))
	if err != nil || text != "analysis" || model != "m1" {
		t.Errorf("ExtractText = %q, %q, %v", text, model, err)
	}

	text, model, err = ExtractText(json.RawMessage(`{}`))
	if err != nil || text != "" || model != "unknown" {
		t.Errorf("ExtractText(empty) = %q, %q, %v", text, model, err)
	}
}

func TestEmployeeAnalysisPrompt(t *testing.T) {
	prompt := EmployeeAnalysisPrompt("John Doe", "employee", []SkillSummary{
		{Name: "Python", Category: "technical", Proficiency: "ADVANCED"},
		{Name: "Mentoring", Category: "leadership", Proficiency: "BEGINNER"},
		{Name: "SQL", Category: "technical", Proficiency: "EXPERT"},
	})

	for _, want := range []string{
		"**Employee:** John Doe",
		"**Current Skills (3 total):**",
		"- Python (technical): ADVANCED",
		"- technical: 2 skills\n- leadership: 1 skills",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
