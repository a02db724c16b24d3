// Package commands implements the Layla CLI commands using cobra.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/assistant"
)

// NewRootCmd creates the root CLI command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "layla",
		Short: "Layla - conversational Discord assistant",
		Long: `Layla is a conversational Discord assistant. It responds to qualifying
messages with LLM completions enriched by image captions, web search, and
video-transcript summaries.

Examples:
  layla serve
  layla chat "who is the president of France"
  layla setup`,
		Version: version,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newChatCmd(),
		newSetupCmd(),
		newConfigCmd(),
	)

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	return rootCmd
}

// resolveConfig loads the config file from --config or standard locations.
func resolveConfig(cmd *cobra.Command) (*assistant.Config, string, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path == "" {
		path = assistant.FindConfigFile()
	}
	if path == "" {
		return nil, "", fmt.Errorf("no config file found. Run: layla setup")
	}

	cfg, err := assistant.LoadConfigFromFile(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// newLogger builds the process logger from config and the --verbose flag.
func newLogger(cfg *assistant.Config, cmd *cobra.Command) *slog.Logger {
	verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose")

	level := slog.LevelInfo
	if verbose || cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Logging.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	return slog.New(handler)
}
