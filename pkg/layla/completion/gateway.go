// Package completion – gateway.go implements the primary→secondary
// fallback policy.
package completion

import (
	"context"
	"log/slog"
)

// Provider tags which backend produced a completion.
type Provider int

const (
	// ProviderNone means both providers failed and the apology text was used.
	ProviderNone Provider = iota

	// ProviderPrimary is the non-streaming primary backend.
	ProviderPrimary

	// ProviderSecondary is the streaming fallback backend.
	ProviderSecondary
)

// String returns the provider name for logging.
func (p Provider) String() string {
	switch p {
	case ProviderPrimary:
		return "primary"
	case ProviderSecondary:
		return "secondary"
	default:
		return "none"
	}
}

// Result is a completed response tagged with its origin.
// A Result is always usable as-is; the gateway never returns empty text.
type Result struct {
	Text     string
	Provider Provider
}

// Completer produces text from a prompt. Both provider clients and test
// fakes implement it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// DefaultApology is sent when both providers fail or return nothing.
const DefaultApology = "Sorry, I couldn't come up with a response right now. Please try again in a moment."

// Gateway invokes the primary provider and falls back to the secondary on
// an empty or failed result. Provider errors are absorbed here: they count
// as empty results for fallback purposes and are never surfaced to the
// orchestrator. If both providers come back empty the gateway returns a
// fixed apology so the user is never left without a reply.
type Gateway struct {
	primary   Completer
	secondary Completer
	apology   string
	logger    *slog.Logger
}

// NewGateway creates a Gateway over the two providers. apology overrides
// DefaultApology when non-empty.
func NewGateway(primary, secondary Completer, apology string, logger *slog.Logger) *Gateway {
	if apology == "" {
		apology = DefaultApology
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		primary:   primary,
		secondary: secondary,
		apology:   apology,
		logger:    logger.With("component", "gateway"),
	}
}

// Complete runs the fallback chain for one prompt.
func (g *Gateway) Complete(ctx context.Context, prompt string) Result {
	if g.primary != nil {
		text, err := g.primary.Complete(ctx, prompt)
		if err != nil {
			g.logger.Warn("primary provider failed, falling back", "error", err)
		} else if text != "" {
			return Result{Text: text, Provider: ProviderPrimary}
		} else {
			g.logger.Info("primary provider returned empty result, falling back")
		}
	}

	if g.secondary != nil {
		text, err := g.secondary.Complete(ctx, prompt)
		if err != nil {
			g.logger.Warn("secondary provider failed", "error", err)
		} else if text != "" {
			return Result{Text: text, Provider: ProviderSecondary}
		}
	}

	g.logger.Error("all completion providers exhausted, using apology text")
	return Result{Text: g.apology, Provider: ProviderNone}
}
