package assistant

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agropos/backend/internal/domain"
)

func TestBuildPromptIncludesContextAndHistory(t *testing.T) {
	prompt := BuildPrompt(StoreContext{
		ProductCount: 12,
		SaleCount:    34,
		LowStock:     []string{"Urea 50kg", "Fungicide 500ml"},
	}, []domain.ChatMessage{
		{Role: "user", Text: "what ran out last week?"},
		{Role: "assistant", Text: "nothing ran out."},
	}, "and this week?")

	for _, want := range []string{
		"12 products",
		"34 recorded sales",
		"Urea 50kg",
		"User: what ran out last week?",
		"Assistant: nothing ran out.",
		"User: and this week?",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPromptWithoutLowStock(t *testing.T) {
	prompt := BuildPrompt(StoreContext{ProductCount: 1}, nil, "hi")
	if !strings.Contains(prompt, "No products are low on stock") {
		t.Fatalf("expected explicit empty low-stock line:\n%s", prompt)
	}
}

func TestNoopAlwaysFails(t *testing.T) {
	_, err := Noop{}.Complete(context.Background(), "anything")
	if !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService, got %v", err)
	}
}

func TestHTTPClientParsesCompletion(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"stock looks "},{"text":"fine"}]}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "test-key", time.Second)
	reply, err := client.Complete(context.Background(), "how is stock?")
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if reply != "stock looks fine" {
		t.Fatalf("unexpected reply: %q", reply)
	}
}

func TestHTTPClientWrapsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", time.Second)
	if _, err := client.Complete(context.Background(), "hi"); !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService on non-2xx, got %v", err)
	}

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer empty.Close()

	client = NewHTTPClient(empty.URL, "", time.Second)
	if _, err := client.Complete(context.Background(), "hi"); !errors.Is(err, ErrService) {
		t.Fatalf("expected ErrService on empty completion, got %v", err)
	}
}
