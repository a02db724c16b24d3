package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/activation"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/assistant"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/channels/discord"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/presence"
)

// newServeCmd creates the `layla serve` command that starts the bot.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Discord bot",
		Long: `Start Layla as a daemon, connecting to Discord and processing
messages until interrupted.

Examples:
  layla serve
  layla serve --config ./config.yaml`,
		RunE: runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, configPath, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd)
	logger.Info("starting Layla", "config", configPath, "name", cfg.Name)

	// Overlay keyring-stored credentials.
	assistant.ResolveSecrets(cfg, logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Activation.Path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	store, err := activation.Open(cfg.Activation.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	channel := discord.New(cfg.Discord, logger)
	bot := assistant.New(cfg, channel, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := bot.Start(ctx); err != nil {
		return err
	}
	defer bot.Stop()

	rotator := presence.NewRotator(cfg.Presence, func(ctx context.Context, status string) error {
		var pc channels.PresenceChannel = channel
		return pc.SetStatus(ctx, status)
	}, logger)
	if err := rotator.Start(ctx); err != nil {
		logger.Warn("presence rotation disabled", "error", err)
	}
	defer rotator.Stop()

	// Block until interrupted.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	logger.Info("shutting down")
	return nil
}
