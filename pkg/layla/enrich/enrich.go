// Package enrich implements the context enrichers that augment the
// outgoing prompt: image captioning, web search, and video-transcript
// summarization.
//
// Every enricher follows the same contract: given the inbound message,
// produce an optional text blob. An unmet gate condition returns "" with a
// nil error and is not a failure. Enrichers never panic and their errors
// never abort the pipeline; Gather degrades a failed enricher to an empty
// section and moves on.
package enrich

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
)

// Enricher produces an optional context blob from an inbound message.
type Enricher interface {
	// Name identifies the enricher in logs.
	Name() string

	// Enrich returns the context blob, or "" when the gate condition is
	// unmet or nothing useful was produced.
	Enrich(ctx context.Context, msg *channels.IncomingMessage) (string, error)
}

// Gather runs the enrichers concurrently and returns their blobs in the
// same order as the input slice. A failed enricher contributes an empty
// string; the error is logged and isolated from the others.
func Gather(ctx context.Context, logger *slog.Logger, msg *channels.IncomingMessage, enrichers ...Enricher) []string {
	if logger == nil {
		logger = slog.Default()
	}

	results := make([]string, len(enrichers))

	g, ctx := errgroup.WithContext(ctx)
	for i, e := range enrichers {
		if e == nil {
			continue
		}
		g.Go(func() error {
			blob, err := e.Enrich(ctx, msg)
			if err != nil {
				logger.Warn("enricher failed, degrading to empty section",
					"enricher", e.Name(), "error", err)
				return nil
			}
			results[i] = blob
			return nil
		})
	}
	// Goroutines only ever return nil; the group is used for the join.
	_ = g.Wait()

	return results
}
