package suggest

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRemoteClientCallShape(t *testing.T) {
	generatedAt := time.Date(2026, 8, 15, 0, 5, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req functionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		switch req.Name {
		case "suggestionStatus":
			json.NewEncoder(w).Encode(map[string]any{"generated_at": generatedAt})
		case "generateSuggestions":
			json.NewEncoder(w).Encode(map[string]any{
				"today_action": "Take a short walk",
				"generated_at": generatedAt,
			})
		default:
			t.Errorf("unexpected function %q", req.Name)
			w.WriteHeader(http.StatusBadRequest)
		}
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL)
	client.token = func() (string, error) { return "test-token", nil }

	at, err := client.GeneratedAt("t1", "2026-08-15")
	if err != nil {
		t.Fatalf("GeneratedAt failed: %v", err)
	}
	if !at.Equal(generatedAt) {
		t.Errorf("expected %v, got %v", generatedAt, at)
	}

	bundle, err := client.Generate("t1", "2026-08-15")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if bundle.TrackerID != "t1" || bundle.Day != "2026-08-15" {
		t.Errorf("expected tracker/day stamped onto bundle, got %+v", bundle)
	}
	if bundle.TodayAction != "Take a short walk" {
		t.Errorf("unexpected bundle action %q", bundle.TodayAction)
	}
}

func TestRemoteClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewRemoteClient(srv.URL)
	client.token = func() (string, error) { return "", nil }

	if _, err := client.GeneratedAt("t1", "2026-08-15"); !errors.Is(err, ErrRemoteUnavailable) {
		t.Errorf("expected ErrRemoteUnavailable, got %v", err)
	}
}

func TestRemoteClientErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such tracker", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRemoteClient(srv.URL)
	client.token = func() (string, error) { return "", nil }

	if _, err := client.Generate("ghost", "2026-08-15"); err == nil {
		t.Error("expected error on non-200 response")
	}
}
