// Package enrich – transcript.go implements the video-transcript
// summarization enricher.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// videoLinkPattern matches the common YouTube URL shapes (watch, embed,
// /v/, short-link, and query-parameter forms) and captures the 11-character
// video identifier.
var videoLinkPattern = regexp.MustCompile(
	`(https?://)?(www\.)?(youtube|youtu|youtube-nocookie)\.(com|be)/(watch\?v=|embed/|v/|.+\?v=)?([^&=%\?]{11})`)

// TranscriptConfig configures the transcript summarizer.
type TranscriptConfig struct {
	// Enabled turns the enricher on/off.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the transcript API root; the video ID is appended as a
	// path segment.
	Endpoint string `yaml:"endpoint"`

	// Language optionally requests a translated transcript.
	Language string `yaml:"language"`

	// MaxChars bounds the transcript text included in the prompt.
	MaxChars int `yaml:"max_chars"`

	// TimeoutSeconds bounds the transcript fetch.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// transcriptLine is one timestamped line of the backend response.
type transcriptLine struct {
	Start float64 `json:"start"`
	Text  string  `json:"text"`
}

// TranscriptSummarizer fetches the transcript of a video linked in the
// message and wraps it in a bullet-point summary instruction. Extraction
// failure, an unavailable transcript, or a provider error all degrade to
// an empty section.
type TranscriptSummarizer struct {
	cfg        TranscriptConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewTranscriptSummarizer creates the transcript enricher.
func NewTranscriptSummarizer(cfg TranscriptConfig, logger *slog.Logger) *TranscriptSummarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 6000
	}
	timeout := 20 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &TranscriptSummarizer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "transcript"),
	}
}

// Name returns "transcript".
func (t *TranscriptSummarizer) Name() string { return "transcript" }

// Enrich extracts a video ID from the message, fetches its transcript, and
// returns the summary instruction block. A missing ID is a gate miss.
func (t *TranscriptSummarizer) Enrich(ctx context.Context, msg *channels.IncomingMessage) (string, error) {
	if !t.cfg.Enabled || t.cfg.Endpoint == "" {
		return "", nil
	}

	videoID := ExtractVideoID(msg.Content)
	if videoID == "" {
		return "", nil
	}

	lines, err := t.fetch(ctx, videoID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", nil
	}

	formatted := formatTranscript(lines, t.cfg.MaxChars)
	return fmt.Sprintf("[System: Summarize the following in 10 bullet points:\n\n%s\n\nEnd of video transcript. Provide the summary and any additional information based on the gathered content.]", formatted), nil
}

// fetch retrieves the transcript lines for one video.
func (t *TranscriptSummarizer) fetch(ctx context.Context, videoID string) ([]transcriptLine, error) {
	endpoint := strings.TrimRight(t.cfg.Endpoint, "/") + "/" + videoID
	if t.cfg.Language != "" {
		endpoint += "?lang=" + url.QueryEscape(t.cfg.Language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transcript request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading transcript response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("transcript backend returned %d", resp.StatusCode)
	}

	var lines []transcriptLine
	if err := json.Unmarshal(body, &lines); err != nil {
		return nil, fmt.Errorf("parsing transcript response: %w", err)
	}
	return lines, nil
}

// formatTranscript renders timestamped lines and truncates to maxChars.
func formatTranscript(lines []transcriptLine, maxChars int) string {
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%.2f - %s", line.Start, line.Text)
	}
	text := b.String()
	if len(text) > maxChars {
		// Back up to a rune boundary so the cut never yields invalid UTF-8.
		cut := maxChars
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}

// ExtractVideoID returns the 11-character video identifier from the first
// recognizable video URL in content, or "" when none matches. All
// supported URL shapes yield the same identifier.
func ExtractVideoID(content string) string {
	match := videoLinkPattern.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return match[6]
}
