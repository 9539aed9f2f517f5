package gamma

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"server/internal/domain"
)

func TestCreateGenerationSendsExpectedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/generations" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("X-API-KEY"); got != "test-key" {
			t.Fatalf("unexpected api key header: %s", got)
		}
		var payload createPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if payload.InputText != "Top 5 pizza places in NYC" {
			t.Fatalf("inputText mismatch: %q", payload.InputText)
		}
		if payload.TextMode != "generate" || payload.Format != "presentation" {
			t.Fatalf("unexpected mode/format: %q/%q", payload.TextMode, payload.Format)
		}
		if payload.ExportAs != "pdf" || payload.NumCards != 5 {
			t.Fatalf("unexpected export/cards: %q/%d", payload.ExportAs, payload.NumCards)
		}
		_ = json.NewEncoder(w).Encode(createResponse{GenerationID: "gen-123"})
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	id, err := client.CreateGeneration(context.Background(), CreateRequest{
		InputText: "Top 5 pizza places in NYC",
		ExportAs:  domain.ExportPDF,
		NumCards:  5,
	})
	if err != nil {
		t.Fatalf("CreateGeneration error: %v", err)
	}
	if id != "gen-123" {
		t.Fatalf("unexpected generation id: %s", id)
	}
}

func TestCreateGenerationMissingKey(t *testing.T) {
	client := NewClient(Options{})
	if _, err := client.CreateGeneration(context.Background(), CreateRequest{InputText: "x"}); err != ErrMissingAPIKey {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestCreateGenerationMissingID(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "accepted"})
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	if _, err := client.CreateGeneration(context.Background(), CreateRequest{InputText: "x"}); err == nil {
		t.Fatalf("expected error for missing generationId")
	}
}

func TestCreateGenerationHTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "invalid api key"})
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "bad-key", BaseURL: ts.URL})
	_, err := client.CreateGeneration(context.Background(), CreateRequest{InputText: "x"})
	if err == nil || !strings.Contains(err.Error(), "invalid api key") {
		t.Fatalf("expected error carrying provider message, got %v", err)
	}
}

func TestPollGenerationStates(t *testing.T) {
	responses := map[string]pollResponse{
		"gen-pending":   {Status: "pending"},
		"gen-completed": {Status: "completed", ExportURL: "https://files.example.com/gen-completed.pdf"},
		"gen-failed":    {Status: "failed", Message: "content policy violation"},
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/generations/")
		resp, ok := responses[id]
		if !ok {
			t.Fatalf("unexpected generation id: %s", id)
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})

	gen, err := client.PollGeneration(context.Background(), "gen-pending")
	if err != nil {
		t.Fatalf("poll pending: %v", err)
	}
	if gen.Status != StatusPending {
		t.Fatalf("expected pending, got %s", gen.Status)
	}

	gen, err = client.PollGeneration(context.Background(), "gen-completed")
	if err != nil {
		t.Fatalf("poll completed: %v", err)
	}
	if gen.Status != StatusCompleted || gen.ExportURL == "" {
		t.Fatalf("unexpected completed generation: %+v", gen)
	}

	gen, err = client.PollGeneration(context.Background(), "gen-failed")
	if err != nil {
		t.Fatalf("poll failed: %v", err)
	}
	if gen.Status != StatusFailed || gen.ErrorMessage != "content policy violation" {
		t.Fatalf("unexpected failed generation: %+v", gen)
	}
}

func TestPollGenerationCompletedWithoutExportURL(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(pollResponse{Status: "completed"})
	}))
	defer ts.Close()

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	if _, err := client.PollGeneration(context.Background(), "gen-1"); err == nil {
		t.Fatalf("expected error for completed generation without export url")
	}
}

func TestPollGenerationTransportError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // refuse connections

	client := NewClient(Options{APIKey: "test-key", BaseURL: ts.URL})
	if _, err := client.PollGeneration(context.Background(), "gen-1"); err == nil {
		t.Fatalf("expected transport error")
	}
}
