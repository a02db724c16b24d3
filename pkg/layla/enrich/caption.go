// Package enrich – caption.go implements the image captioning enricher.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// imageExtensions is the attachment filename allow-list that gates
// captioning.
var imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".webp"}

// CaptionBackend is one captioning model endpoint. Backends accept raw
// image bytes and return [{"generated_text": "..."}].
type CaptionBackend struct {
	// Name labels the backend's output in the caption block (e.g. "ocr").
	Name string `yaml:"name"`

	// URL is the inference endpoint.
	URL string `yaml:"url"`
}

// CaptionConfig configures the image captioner.
type CaptionConfig struct {
	// Enabled turns the enricher on/off.
	Enabled bool `yaml:"enabled"`

	// Backends are the captioning endpoints queried per image.
	Backends []CaptionBackend `yaml:"backends"`

	// APIKey is the bearer token for the inference endpoints.
	APIKey string `yaml:"api_key"`

	// TimeoutSeconds bounds each backend call.
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Captioner captions image attachments by querying multiple backends
// concurrently. One backend failing does not fail the others; the caption
// block reports whatever succeeded.
type Captioner struct {
	cfg        CaptionConfig
	httpClient *http.Client
	logger     *slog.Logger
}

// NewCaptioner creates the image captioning enricher.
func NewCaptioner(cfg CaptionConfig, logger *slog.Logger) *Captioner {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	return &Captioner{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With("component", "captioner"),
	}
}

// Name returns "caption".
func (c *Captioner) Name() string { return "caption" }

// Enrich downloads the first image attachment to a transient file, queries
// every backend with its bytes, and formats the results into a caption
// block. The temp file is removed on every exit path.
func (c *Captioner) Enrich(ctx context.Context, msg *channels.IncomingMessage) (string, error) {
	if !c.cfg.Enabled || len(c.cfg.Backends) == 0 {
		return "", nil
	}

	att := firstImageAttachment(msg.Attachments)
	if att == nil {
		return "", nil
	}

	path, err := c.download(ctx, att.URL)
	if err != nil {
		return "", fmt.Errorf("downloading attachment: %w", err)
	}
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading attachment: %w", err)
	}

	captions := c.queryBackends(ctx, data)
	if len(captions) == 0 {
		return "", fmt.Errorf("all caption backends failed")
	}

	return formatCaptionBlock(captions), nil
}

// backendCaption pairs a backend name with its caption text.
type backendCaption struct {
	backend string
	text    string
}

// queryBackends sends the image bytes to every backend concurrently,
// keeping the results of the ones that succeed.
func (c *Captioner) queryBackends(ctx context.Context, data []byte) []backendCaption {
	results := make([]backendCaption, len(c.cfg.Backends))

	g, ctx := errgroup.WithContext(ctx)
	for i, backend := range c.cfg.Backends {
		g.Go(func() error {
			text, err := c.queryOne(ctx, backend, data)
			if err != nil {
				c.logger.Warn("caption backend failed",
					"backend", backend.Name, "error", err)
				return nil
			}
			results[i] = backendCaption{backend: backend.Name, text: text}
			return nil
		})
	}
	_ = g.Wait()

	var ok []backendCaption
	for _, r := range results {
		if r.text != "" {
			ok = append(ok, r)
		}
	}
	return ok
}

// queryOne posts the image bytes to one backend and parses the caption.
func (c *Captioner) queryOne(ctx context.Context, backend CaptionBackend, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, backend.URL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading backend response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("backend returned %d", resp.StatusCode)
	}

	var parsed []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("parsing backend response: %w", err)
	}
	if len(parsed) == 0 || parsed[0].GeneratedText == "" {
		return "", fmt.Errorf("backend returned no caption")
	}

	return parsed[0].GeneratedText, nil
}

// download fetches the attachment URL into a transient file and returns
// its path. The caller owns removal.
func (c *Captioner) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("attachment download returned %d", resp.StatusCode)
	}

	f, err := os.CreateTemp("", "layla-image-*")
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}

	return f.Name(), nil
}

// firstImageAttachment returns the first attachment whose filename has an
// allow-listed image extension, or nil.
func firstImageAttachment(attachments []channels.Attachment) *channels.Attachment {
	for i, att := range attachments {
		if IsImageFilename(att.Filename) {
			return &attachments[i]
		}
	}
	return nil
}

// IsImageFilename reports whether the filename's extension is on the image
// allow-list. Matching is case-insensitive.
func IsImageFilename(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range imageExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

// formatCaptionBlock renders the backend captions into a system annotation
// noting which backend produced which text.
func formatCaptionBlock(captions []backendCaption) string {
	var b strings.Builder
	b.WriteString("[System: The attached image was captioned by image-to-text models. ")
	b.WriteString("Captions may repeat or be noisy; interpret them accordingly. Captions:")
	for _, c := range captions {
		b.WriteString(fmt.Sprintf(" (%s) %q", c.backend, c.text))
	}
	b.WriteString("]")
	return b.String()
}
