package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestExtractVideoID(t *testing.T) {
	const id = "dQw4w9WgXcQ"

	shapes := map[string]string{
		"watch":           "https://www.youtube.com/watch?v=" + id,
		"short link":      "https://youtu.be/" + id,
		"embed":           "https://www.youtube.com/embed/" + id,
		"v path":          "https://youtube.com/v/" + id,
		"no scheme":       "www.youtube.com/watch?v=" + id,
		"nocookie domain": "https://www.youtube-nocookie.com/embed/" + id,
		"inside text":     "check this out https://youtu.be/" + id + " pretty wild",
	}

	for name, url := range shapes {
		t.Run(name, func(t *testing.T) {
			if got := ExtractVideoID(url); got != id {
				t.Errorf("ExtractVideoID(%q) = %q, want %q", url, got, id)
			}
		})
	}

	t.Run("no video link yields empty", func(t *testing.T) {
		if got := ExtractVideoID("just a normal message"); got != "" {
			t.Errorf("expected empty, got %q", got)
		}
	})
}

func TestTranscriptEnrich(t *testing.T) {
	ctx := context.Background()

	t.Run("gate miss without video link", func(t *testing.T) {
		e := NewTranscriptSummarizer(TranscriptConfig{Enabled: true, Endpoint: "http://unused"}, testLogger())
		blob, err := e.Enrich(ctx, &channels.IncomingMessage{Content: "no links here"})
		if err != nil || blob != "" {
			t.Errorf("expected silent gate miss, got %q, %v", blob, err)
		}
	})

	t.Run("formats and truncates the transcript", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasSuffix(r.URL.Path, "/dQw4w9WgXcQ") {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			fmt.Fprint(w, `[{"start":0.5,"text":"hello"},{"start":2.0,"text":"world"}]`)
		}))
		defer server.Close()

		e := NewTranscriptSummarizer(TranscriptConfig{Enabled: true, Endpoint: server.URL, MaxChars: 6000}, testLogger())
		blob, err := e.Enrich(ctx, &channels.IncomingMessage{Content: "https://youtu.be/dQw4w9WgXcQ"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(blob, "0.50 - hello") || !strings.Contains(blob, "2.00 - world") {
			t.Errorf("transcript lines missing from blob: %q", blob)
		}
		if !strings.Contains(blob, "10 bullet points") {
			t.Errorf("summary instruction missing from blob: %q", blob)
		}
	})

	t.Run("passes the translation language", func(t *testing.T) {
		var gotLang string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotLang = r.URL.Query().Get("lang")
			fmt.Fprint(w, `[{"start":0,"text":"hi"}]`)
		}))
		defer server.Close()

		e := NewTranscriptSummarizer(TranscriptConfig{Enabled: true, Endpoint: server.URL, Language: "en"}, testLogger())
		if _, err := e.Enrich(ctx, &channels.IncomingMessage{Content: "https://youtu.be/dQw4w9WgXcQ"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotLang != "en" {
			t.Errorf("expected lang=en, got %q", gotLang)
		}
	})

	t.Run("backend failure returns an error for the caller to degrade", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		e := NewTranscriptSummarizer(TranscriptConfig{Enabled: true, Endpoint: server.URL}, testLogger())
		if _, err := e.Enrich(ctx, &channels.IncomingMessage{Content: "https://youtu.be/dQw4w9WgXcQ"}); err == nil {
			t.Fatal("expected error for unavailable transcript")
		}
	})

	t.Run("truncation respects max chars", func(t *testing.T) {
		lines := formatTranscript([]transcriptLine{
			{Start: 0, Text: strings.Repeat("a", 100)},
			{Start: 1, Text: strings.Repeat("b", 100)},
		}, 50)
		if len(lines) != 50 {
			t.Errorf("expected 50 chars, got %d", len(lines))
		}
	})

	t.Run("truncation never splits a rune", func(t *testing.T) {
		for maxChars := 8; maxChars <= 20; maxChars++ {
			text := formatTranscript([]transcriptLine{
				{Start: 0, Text: strings.Repeat("é", 10)},
			}, maxChars)
			if !utf8.ValidString(text) {
				t.Errorf("maxChars=%d produced invalid UTF-8: %q", maxChars, text)
			}
			if len(text) > maxChars {
				t.Errorf("maxChars=%d exceeded: got %d bytes", maxChars, len(text))
			}
		}
	})
}
