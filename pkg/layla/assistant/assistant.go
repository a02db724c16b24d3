// Package assistant implements the message-triggered response pipeline:
// trigger evaluation, history tracking, context enrichment, completion
// with provider fallback, and chunked delivery back to the platform.
package assistant

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/activation"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/completion"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/enrich"
)

// identityProvider is implemented by channels that can report the bot's
// own account, which the trigger evaluator needs.
type identityProvider interface {
	Identity() channels.Identity
}

// Assistant orchestrates the per-message pipeline.
//
// Flow per inbound message: self/foreign-reply rejection → command check →
// trigger evaluation → user-turn history append → captioning → concurrent
// search/transcript enrichment → prompt composition → background
// completion + history append + chunked replies. The completion and
// delivery phase runs as a detached task so a slow provider call for one
// message never delays trigger evaluation for the next.
type Assistant struct {
	cfg     *Config
	channel channels.Channel
	history *History
	gateway *completion.Gateway

	captioner   enrich.Enricher
	searcher    enrich.Enricher
	transcriber enrich.Enricher

	activation *activation.Store
	evaluator  *TriggerEvaluator

	// allowDM is runtime-toggleable via /toggledm.
	allowDM atomic.Bool

	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates an Assistant over the given channel and activation store.
// Providers and enrichers are built from cfg.
func New(cfg *Config, channel channels.Channel, store *activation.Store, logger *slog.Logger) *Assistant {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &Assistant{
		cfg:     cfg,
		channel: channel,
		history: NewHistory(cfg.History.MaxTurns),
		gateway: completion.NewGateway(
			completion.NewClient(cfg.Providers.Primary, logger),
			completion.NewStreamClient(cfg.Providers.Secondary, logger),
			cfg.Providers.Apology,
			logger,
		),
		captioner:   enrich.NewCaptioner(cfg.Caption, logger),
		searcher:    enrich.NewSearch(cfg.Search, logger),
		transcriber: enrich.NewTranscriptSummarizer(cfg.Transcript, logger),
		activation:  store,
		logger:      logger.With("component", "assistant"),
	}
	a.allowDM.Store(cfg.Trigger.AllowDM)

	return a
}

// Start connects the channel and begins processing messages.
func (a *Assistant) Start(ctx context.Context) error {
	a.ctx, a.cancel = context.WithCancel(ctx)

	if err := a.channel.Connect(a.ctx); err != nil {
		return err
	}

	var bot channels.Identity
	if ip, ok := a.channel.(identityProvider); ok {
		bot = ip.Identity()
	}

	a.evaluator = &TriggerEvaluator{
		Bot:     bot,
		Words:   a.cfg.Trigger.Words,
		Active:  a.activation,
		AllowDM: a.allowDM.Load,
	}

	a.logger.Info("assistant started",
		"name", a.cfg.Name,
		"bot_id", bot.ID,
		"active_channels", len(a.activation.List()),
	)

	go a.messageLoop()
	return nil
}

// Stop shuts down the assistant. In-flight background deliveries are
// abandoned; delivery is at-most-once.
func (a *Assistant) Stop() {
	if a.cancel != nil {
		a.cancel()
	}
	if err := a.channel.Disconnect(); err != nil {
		a.logger.Warn("channel disconnect failed", "error", err)
	}
	a.logger.Info("assistant stopped")
}

// History exposes the conversation log (used by the chat REPL and tests).
func (a *Assistant) History() *History { return a.history }

// Gateway exposes the completion gateway (used by the chat REPL).
func (a *Assistant) Gateway() *completion.Gateway { return a.gateway }

// messageLoop processes messages from the channel until shutdown.
func (a *Assistant) messageLoop() {
	for {
		select {
		case msg, ok := <-a.channel.Receive():
			if !ok {
				return
			}
			go a.handleMessage(msg)

		case <-a.ctx.Done():
			return
		}
	}
}

// handleMessage runs the pipeline for one inbound message up to prompt
// composition, then schedules completion and delivery in the background
// and returns.
func (a *Assistant) handleMessage(msg *channels.IncomingMessage) {
	start := time.Now()
	logger := a.logger.With(
		"task_id", uuid.NewString(),
		"msg_id", msg.ID,
		"from", msg.From,
		"chat_id", msg.ChatID,
	)

	// Early rejects, before any trigger evaluation: our own and other
	// bots' messages would feed back into the pipeline, and replies to
	// someone else's message are not addressed to us.
	if msg.FromBot {
		return
	}
	if msg.ReplyTo != "" && !isReplyToBot(msg, a.evaluator.Bot.ID) {
		return
	}

	// Chat commands work regardless of trigger state.
	if IsCommand(msg.Content) {
		if result := a.HandleCommand(msg); result.Handled {
			a.sendReply(msg, result.Response)
			logger.Info("command processed", "duration_ms", time.Since(start).Milliseconds())
			return
		}
	}

	if !a.evaluator.ShouldRespond(msg) {
		return
	}

	// Append the user turn before enrichment so history reflects real
	// arrival order even if later stages stall.
	a.history.Append(msg.From, msg.FromName, msg.Content)

	if pc, ok := a.channel.(channels.PresenceChannel); ok {
		if err := pc.SendTyping(a.ctx, msg.ChatID); err != nil {
			logger.Debug("typing indicator failed", "error", err)
		}
	}

	// Captioning runs first: its outcome selects the instruction variant
	// used for the rest of the prompt.
	caption := a.runEnricher(a.captioner, msg, logger)

	instructions := a.cfg.Instructions
	if caption != "" {
		instructions += "\n" + a.cfg.ImageInstructions
	}

	// Search and transcript are independent and run concurrently.
	blobs := enrich.Gather(a.ctx, logger, msg, a.searcher, a.transcriber)

	prompt := Envelope{
		Instructions: instructions,
		History:      a.history.Render(msg.From),
		Caption:      caption,
		Search:       blobs[0],
		Transcript:   blobs[1],
		BotName:      a.cfg.Name,
	}.String()

	logger.Info("message accepted",
		"has_caption", caption != "",
		"has_search", blobs[0] != "",
		"has_transcript", blobs[1] != "",
		"prep_ms", time.Since(start).Milliseconds(),
	)

	// Completion and delivery run detached; nothing awaits the result.
	go a.completeAndDeliver(msg, prompt, logger, start)
}

// runEnricher invokes one enricher with failure isolation.
func (a *Assistant) runEnricher(e enrich.Enricher, msg *channels.IncomingMessage, logger *slog.Logger) string {
	if e == nil {
		return ""
	}
	blob, err := e.Enrich(a.ctx, msg)
	if err != nil {
		logger.Warn("enricher failed, degrading to empty section",
			"enricher", e.Name(), "error", err)
		return ""
	}
	return blob
}

// completeAndDeliver runs the completion gateway, records the assistant
// turn, and sends the response as ordered chunks, each an independent
// reply to the original message.
func (a *Assistant) completeAndDeliver(msg *channels.IncomingMessage, prompt string, logger *slog.Logger, start time.Time) {
	result := a.gateway.Complete(a.ctx, prompt)

	a.history.Append(msg.From, a.cfg.Name, result.Text)

	chunks := SplitMessage(result.Text, a.cfg.Chunk.MaxLength)
	for _, chunk := range chunks {
		a.sendReply(msg, chunk)
	}

	logger.Info("message processed",
		"provider", result.Provider.String(),
		"chunks", len(chunks),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// sendReply sends one chunk as a reply to the original message. Send
// failures are logged; the platform owns any further handling.
func (a *Assistant) sendReply(original *channels.IncomingMessage, content string) {
	if content == "" {
		return
	}
	out := &channels.OutgoingMessage{
		Content: content,
		ReplyTo: original.ID,
	}
	if err := a.channel.Send(a.ctx, original.ChatID, out); err != nil {
		a.logger.Error("failed to send reply",
			"chat_id", original.ChatID,
			"error", err,
		)
	}
}
