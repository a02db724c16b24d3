package commands

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/assistant"
	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/completion"
)

// newChatCmd creates the `layla chat` command for local conversations
// against the completion gateway, without Discord.
func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Chat with the assistant locally",
		Long: `Talk to the assistant from the terminal. Sends a single message, or
starts an interactive session when no argument is given.

Examples:
  layla chat "who is the president of France"
  layla chat  # interactive mode`,
		Args: cobra.MaximumNArgs(1),
		RunE: runChat,
	}
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, cmd)
	assistant.ResolveSecrets(cfg, logger)

	gateway := completion.NewGateway(
		completion.NewClient(cfg.Providers.Primary, logger),
		completion.NewStreamClient(cfg.Providers.Secondary, logger),
		cfg.Providers.Apology,
		logger,
	)
	history := assistant.NewHistory(cfg.History.MaxTurns)
	ctx := context.Background()

	ask := func(input string) {
		history.Append("local", "You", input)
		prompt := assistant.Envelope{
			Instructions: cfg.Instructions,
			History:      history.Render("local"),
			BotName:      cfg.Name,
		}.String()

		result := gateway.Complete(ctx, prompt)
		history.Append("local", cfg.Name, result.Text)
		fmt.Printf("%s: %s\n", cfg.Name, result.Text)
	}

	if len(args) > 0 {
		ask(args[0])
		return nil
	}

	rl, err := readline.New("you> ")
	if err != nil {
		return fmt.Errorf("starting readline: %w", err)
	}
	defer rl.Close()

	fmt.Printf("Chatting with %s. Ctrl+D or /quit to exit.\n", cfg.Name)
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		ask(line)
	}
}
