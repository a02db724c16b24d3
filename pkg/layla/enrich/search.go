// Package enrich – search.go implements the web search enricher.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// defaultLeadWords are the interrogative and command lead words that gate
// the search enricher.
var defaultLeadWords = []string{
	"search", "find", "who", "what", "when", "where",
	"why", "which", "whom", "whose", "how",
}

// SearchConfig configures the web search enricher.
type SearchConfig struct {
	// Enabled turns the enricher on/off.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the search API URL (GET with query/limit parameters).
	Endpoint string `yaml:"endpoint"`

	// LeadWords override the default gate word list, e.g. to add
	// locale-specific equivalents.
	LeadWords []string `yaml:"lead_words"`

	// Limit is the maximum result count requested.
	Limit int `yaml:"limit"`

	// TimeoutSeconds bounds the search request.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// searchResult is one entry of the backend's response.
type searchResult struct {
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Search issues a single external search request for messages that open
// with a configured lead word, and formats the top results into a
// system-attributed annotation block.
type Search struct {
	cfg        SearchConfig
	httpClient *http.Client
	logger     *slog.Logger

	// now is injected for tests; defaults to time.Now.
	now func() time.Time
}

// NewSearch creates the web search enricher.
func NewSearch(cfg SearchConfig, logger *slog.Logger) *Search {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = 2
	}
	timeout := 15 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Search{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "search"),
		now:        time.Now,
	}
}

// Name returns "search".
func (s *Search) Name() string { return "search" }

// Enrich runs the gated search. A gate miss returns "" without error.
func (s *Search) Enrich(ctx context.Context, msg *channels.IncomingMessage) (string, error) {
	if !s.cfg.Enabled || s.cfg.Endpoint == "" {
		return "", nil
	}

	words := s.cfg.LeadWords
	if len(words) == 0 {
		words = defaultLeadWords
	}
	if !LeadWordGate(msg.Content, words) {
		return "", nil
	}

	results, err := s.query(ctx, msg.Content)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	return s.formatBlock(msg.Content, results), nil
}

// query issues the search GET request.
func (s *Search) query(ctx context.Context, prompt string) ([]searchResult, error) {
	params := url.Values{}
	params.Set("query", prompt)
	params.Set("limit", strconv.Itoa(s.cfg.Limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned %d", resp.StatusCode)
	}

	var results []searchResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("parsing search response: %w", err)
	}
	return results, nil
}

// formatBlock renders the results as a system annotation. The block marks
// the links as system-provided so the model does not attribute them to the
// user.
func (s *Search) formatBlock(prompt string, results []searchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[System: Search results for %q at %s:\n",
		prompt, s.now().Format("2006-01-02 15:04:05"))
	for i, r := range results {
		fmt.Fprintf(&b, "\n[%d] %q\nURL: %s\n", i, r.Snippet, r.Link)
	}
	b.WriteString("\nThese links were provided by the system, not the user; include them in your reply when relevant.]")
	return b.String()
}

// LeadWordGate reports whether the first word of content, lowercased,
// starts with any of the lead words. Policy note: the gate looks at the
// first word only; a lead word elsewhere in the message does not trigger a
// search.
func LeadWordGate(content string, leadWords []string) bool {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	for _, word := range leadWords {
		if word != "" && strings.HasPrefix(first, strings.ToLower(word)) {
			return true
		}
	}
	return false
}
