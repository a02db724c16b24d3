// Package completion implements the text-completion layer: an
// OpenAI-compatible primary client, a streaming secondary client, and a
// gateway that falls back from one to the other and never leaves the user
// without a reply.
package completion

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// ProviderConfig holds connection settings for one completion provider.
type ProviderConfig struct {
	// BaseURL is the API root (e.g. "https://api.openai.com/v1").
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier.
	Model string `yaml:"model"`

	// TimeoutSeconds bounds a single completion call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// timeout returns the configured call timeout with a default.
func (c ProviderConfig) timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 120 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ---------- Wire Types (OpenAI-compatible) ----------

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// streamChunk is one SSE "data:" payload of a streamed completion.
type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// ---------- Client ----------

// Client is a non-streaming chat-completion client for any
// OpenAI-compatible endpoint.
type Client struct {
	cfg        ProviderConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a completion client from provider config.
func NewClient(cfg ProviderConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		logger:     logger.With("component", "completion"),
	}
}

// Complete sends the prompt as a single user message and returns the
// model's text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	respBody, err := c.post(ctx, chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("parsing response: %w", err)
	}
	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no response from model")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// post issues the chat completions request and returns the raw body.
func (c *Client) post(ctx context.Context, reqBody chatRequest) ([]byte, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	c.logger.Debug("completion call done",
		"model", c.cfg.Model,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return respBody, nil
}

// ---------- Streaming Client ----------

// StreamClient is a chat-completion client that requests incremental
// output and accumulates it into a single string.
type StreamClient struct {
	cfg        ProviderConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewStreamClient creates a streaming completion client.
func NewStreamClient(cfg ProviderConfig, logger *slog.Logger) *StreamClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &StreamClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.timeout()},
		logger:     logger.With("component", "completion-stream"),
	}
}

// Complete streams a completion and returns the accumulated text.
func (c *StreamClient) Complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   true,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	endpoint := c.cfg.BaseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, truncate(string(body), 500))
	}

	var b strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" || payload == "[DONE]" {
			continue
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			// Skip malformed keep-alive frames rather than abort the stream.
			c.logger.Debug("skipping malformed stream chunk", "error", err)
			continue
		}
		for _, choice := range chunk.Choices {
			b.WriteString(choice.Delta.Content)
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading stream: %w", err)
	}

	return strings.TrimSpace(b.String()), nil
}

// truncate shortens s to max characters for log output.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
