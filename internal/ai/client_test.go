package ai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatReply(content string) string {
	quoted, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(quoted) + `}}]}`
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "test-model")
}

func TestAnalyzeText(t *testing.T) {
	var gotPath, gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		io.WriteString(w, chatReply(`{"name":"Chicken salad","calories":420,"protein":35,"carbs":12,"fat":22,"servingSize":"1 bowl"}`))
	})

	est, err := c.AnalyzeText(context.Background(), "a bowl of chicken salad")
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/chat/completions" {
		t.Fatalf("path = %s", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("auth = %s", gotAuth)
	}
	if est.Name != "Chicken salad" || est.Calories != 420 || est.ProteinG != 35 {
		t.Fatalf("estimate = %+v", est)
	}
	if est.ServingSize != "1 bowl" {
		t.Fatalf("serving = %q", est.ServingSize)
	}
}

func TestAnalyzeTextFencedReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("Here you go:\n```json\n{\"name\":\"Toast\",\"calories\":180}\n```"))
	})

	est, err := c.AnalyzeText(context.Background(), "toast")
	if err != nil {
		t.Fatal(err)
	}
	if est.Name != "Toast" || est.Calories != 180 {
		t.Fatalf("estimate = %+v", est)
	}
	// Unreported macros default to zero, never invented.
	if est.ProteinG != 0 || est.CarbsG != 0 || est.FatG != 0 {
		t.Fatalf("fabricated macros: %+v", est)
	}
}

func TestAnalyzeTextMissingName(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply(`{"calories":300}`))
	})
	_, err := c.AnalyzeText(context.Background(), "mystery meal")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestAnalyzeTextMissingCalories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply(`{"name":"Soup"}`))
	})
	_, err := c.AnalyzeText(context.Background(), "soup")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestAnalyzeTextGarbageReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, chatReply("I cannot estimate that."))
	})
	_, err := c.AnalyzeText(context.Background(), "???")
	if !errors.Is(err, ErrParseFailure) {
		t.Fatalf("expected ErrParseFailure, got %v", err)
	}
}

func TestAnalyzeTextUpstreamError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := c.AnalyzeText(context.Background(), "salad")
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable, got %v", err)
	}
}

func TestMissingCredentials(t *testing.T) {
	c := NewClient("http://localhost:1", "", "test-model")
	_, err := c.AnalyzeText(context.Background(), "salad")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("expected ErrMissingCredentials, got %v", err)
	}
}

func TestAnalyzeImagePayload(t *testing.T) {
	var body chatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		json.Unmarshal(data, &body)
		io.WriteString(w, chatReply(`{"name":"Pizza slice","calories":285}`))
	})

	est, err := c.AnalyzeImage(context.Background(), []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", "thin crust")
	if err != nil {
		t.Fatal(err)
	}
	if est.Name != "Pizza slice" {
		t.Fatalf("estimate = %+v", est)
	}

	if len(body.Messages) != 2 {
		t.Fatalf("messages = %d", len(body.Messages))
	}
	raw, _ := json.Marshal(body.Messages[1].Content)
	content := string(raw)
	if !strings.Contains(content, "data:image/jpeg;base64,") {
		t.Fatalf("image not inlined as data URL: %s", content)
	}
	if !strings.Contains(content, "thin crust") {
		t.Fatalf("refinement hint dropped: %s", content)
	}
}

func TestToFloatForms(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{420.0, 420, true},
		{"230", 230, true},
		{" 15.5 ", 15.5, true},
		{"lots", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := toFloat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("toFloat(%v) = %f, %v", tt.in, got, ok)
		}
	}
}
