package completion

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
)

// fakeCompleter is a scripted Completer for gateway tests.
type fakeCompleter struct {
	text  string
	err   error
	calls int
}

func (f *fakeCompleter) Complete(_ context.Context, _ string) (string, error) {
	f.calls++
	return f.text, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestGatewayComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("primary success never touches secondary", func(t *testing.T) {
		primary := &fakeCompleter{text: "primary answer"}
		secondary := &fakeCompleter{text: "secondary answer"}
		g := NewGateway(primary, secondary, "", testLogger())

		result := g.Complete(ctx, "prompt")
		if result.Text != "primary answer" || result.Provider != ProviderPrimary {
			t.Errorf("unexpected result: %+v", result)
		}
		if secondary.calls != 0 {
			t.Errorf("secondary called %d times", secondary.calls)
		}
	})

	t.Run("empty primary falls back to secondary", func(t *testing.T) {
		primary := &fakeCompleter{text: ""}
		secondary := &fakeCompleter{text: "secondary answer"}
		g := NewGateway(primary, secondary, "", testLogger())

		result := g.Complete(ctx, "prompt")
		if result.Text != "secondary answer" || result.Provider != ProviderSecondary {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("primary error counts as empty", func(t *testing.T) {
		primary := &fakeCompleter{err: fmt.Errorf("boom")}
		secondary := &fakeCompleter{text: "recovered"}
		g := NewGateway(primary, secondary, "", testLogger())

		result := g.Complete(ctx, "prompt")
		if result.Text != "recovered" || result.Provider != ProviderSecondary {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("both empty yields the apology", func(t *testing.T) {
		g := NewGateway(&fakeCompleter{}, &fakeCompleter{}, "", testLogger())

		result := g.Complete(ctx, "prompt")
		if result.Text != DefaultApology || result.Provider != ProviderNone {
			t.Errorf("unexpected result: %+v", result)
		}
	})

	t.Run("both erroring yields the apology, no error escapes", func(t *testing.T) {
		g := NewGateway(
			&fakeCompleter{err: fmt.Errorf("down")},
			&fakeCompleter{err: fmt.Errorf("also down")},
			"custom apology", testLogger())

		result := g.Complete(ctx, "prompt")
		if result.Text != "custom apology" || result.Provider != ProviderNone {
			t.Errorf("unexpected result: %+v", result)
		}
	})
}

func TestClientComplete(t *testing.T) {
	t.Run("parses an OpenAI-compatible response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/chat/completions" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
				t.Errorf("unexpected auth header %q", got)
			}
			fmt.Fprint(w, `{"choices":[{"message":{"content":" the answer "},"finish_reason":"stop"}]}`)
		}))
		defer server.Close()

		c := NewClient(ProviderConfig{BaseURL: server.URL, APIKey: "test-key", Model: "m"}, testLogger())
		text, err := c.Complete(context.Background(), "q")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "the answer" {
			t.Errorf("expected trimmed content, got %q", text)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		c := NewClient(ProviderConfig{BaseURL: server.URL, Model: "m"}, testLogger())
		if _, err := c.Complete(context.Background(), "q"); err == nil {
			t.Fatal("expected error for 429 response")
		}
	})

	t.Run("API error body is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"error":{"message":"quota exceeded","type":"rate_limit"}}`)
		}))
		defer server.Close()

		c := NewClient(ProviderConfig{BaseURL: server.URL, Model: "m"}, testLogger())
		if _, err := c.Complete(context.Background(), "q"); err == nil {
			t.Fatal("expected error for error body")
		}
	})
}

func TestStreamClientComplete(t *testing.T) {
	t.Run("accumulates SSE deltas in order", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/event-stream")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo \"}}]}\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"world\"}}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		c := NewStreamClient(ProviderConfig{BaseURL: server.URL, Model: "m"}, testLogger())
		text, err := c.Complete(context.Background(), "q")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "Hello world" {
			t.Errorf("expected accumulated stream, got %q", text)
		}
	})

	t.Run("skips malformed frames without aborting", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "data: not-json\n\n")
			fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n")
			fmt.Fprint(w, "data: [DONE]\n\n")
		}))
		defer server.Close()

		c := NewStreamClient(ProviderConfig{BaseURL: server.URL, Model: "m"}, testLogger())
		text, err := c.Complete(context.Background(), "q")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if text != "ok" {
			t.Errorf("expected %q, got %q", "ok", text)
		}
	})
}
