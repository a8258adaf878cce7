package ollama

import (
	"context"
	"encoding/json"
	"image"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"phototag/internal/logging"
)

func testImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 8, 8))
}

func decodeRequest(t *testing.T, r *http.Request) generateRequest {
	t.Helper()
	var payload generateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		t.Fatalf("decode request: %v", err)
	}
	return payload
}

func TestGenerateTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		payload := decodeRequest(t, r)
		if payload.Model != "demo-model" {
			t.Fatalf("unexpected model %q", payload.Model)
		}
		if len(payload.Images) != 1 || payload.Images[0] == "" {
			t.Fatal("expected one base64 image in payload")
		}
		if payload.Stream {
			t.Fatal("expected stream=false")
		}
		response := map[string]any{"response": "Paris, Eiffel Tower, Night, paris"}
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "demo-model", MaxTags: 10}, logging.NewNop())
	got, err := client.GenerateTags(context.Background(), testImage())
	if err != nil {
		t.Fatalf("GenerateTags returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Paris", "Eiffel Tower", "Night"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestGenerateTagsCapsAtMaxTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response := map[string]any{"response": "one, two, three, four"}
		_ = json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "demo-model", MaxTags: 2}, logging.NewNop())
	got, err := client.GenerateTags(context.Background(), testImage())
	if err != nil {
		t.Fatalf("GenerateTags returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"one", "two"}) {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestDetect(t *testing.T) {
	answer := "YES"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		payload := decodeRequest(t, r)
		if payload.Options.NumPredict != detectPredictTokens {
			t.Fatalf("unexpected num_predict %d", payload.Options.NumPredict)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": answer})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Model: "demo-model"}, logging.NewNop())

	got, err := client.Detect(context.Background(), testImage(), "a dog")
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if !got {
		t.Fatal("expected positive detection")
	}

	answer = "NO"
	got, err = client.Detect(context.Background(), testImage(), "a dog")
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if got {
		t.Fatal("expected negative detection")
	}
}

func TestDetectRequiresCriterion(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1", Model: "demo-model"}, logging.NewNop())
	if _, err := client.Detect(context.Background(), testImage(), "  "); err == nil {
		t.Fatal("expected error for empty criterion")
	}
}

func TestGenerateRetriesServerErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "overloaded", http.StatusInternalServerError)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "cat, tabby, indoor, pet, whiskers"})
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "demo-model", MaxTags: 10},
		logging.NewNop(),
		WithRetryMaxAttempts(3),
		WithRetryBackoff(time.Millisecond, time.Millisecond),
		WithSleeper(func(time.Duration) {}),
	)
	got, err := client.GenerateTags(context.Background(), testImage())
	if err != nil {
		t.Fatalf("GenerateTags returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
	if len(got) != 5 {
		t.Fatalf("unexpected tags: %v", got)
	}
}

func TestGenerateDoesNotRetryClientErrors(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(
		Config{BaseURL: server.URL, Model: "absent"},
		logging.NewNop(),
		WithRetryMaxAttempts(3),
		WithSleeper(func(time.Duration) {}),
	)
	if _, err := client.GenerateTags(context.Background(), testImage()); err == nil {
		t.Fatal("expected error for http 404")
	}
	if calls != 1 {
		t.Fatalf("expected single call, got %d", calls)
	}
}

func TestListModels(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		payload := map[string]any{
			"models": []any{
				map[string]any{"name": "llava:13b"},
				map[string]any{"name": "bakllava"},
			},
		}
		_ = json.NewEncoder(w).Encode(payload)
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL}, logging.NewNop())
	got, err := client.ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels returned error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"bakllava", "llava:13b"}) {
		t.Fatalf("unexpected models: %v", got)
	}

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}
