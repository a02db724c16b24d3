package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/assistant"
)

// newSetupCmd creates the `layla setup` command for interactive
// configuration.
func newSetupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Interactive setup wizard",
		Long: `Starts an interactive wizard to create your initial config.yaml.
Asks for the Discord token, completion provider, and trigger words.
Secrets are stored in the OS keyring, never written to the config file.

Examples:
  layla setup`,
		RunE: runSetup,
	}
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg := assistant.DefaultConfig()

	var (
		token        string
		apiKey       string
		triggerWords string
		storeSecrets = true
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Assistant name").
				Value(&cfg.Name),
			huh.NewInput().
				Title("Discord bot token").
				EchoMode(huh.EchoModePassword).
				Value(&token),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Completion API base URL (OpenAI-compatible)").
				Value(&cfg.Providers.Primary.BaseURL),
			huh.NewInput().
				Title("Completion model").
				Value(&cfg.Providers.Primary.Model),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&apiKey),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Trigger words (comma-separated, optional)").
				Description("The bot also responds to mentions, replies, DMs and active channels.").
				Value(&triggerWords),
			huh.NewConfirm().
				Title("Store secrets in the OS keyring?").
				Value(&storeSecrets),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup aborted: %w", err)
	}

	for _, word := range strings.Split(triggerWords, ",") {
		if word = strings.TrimSpace(word); word != "" {
			cfg.Trigger.Words = append(cfg.Trigger.Words, word)
		}
	}

	if storeSecrets {
		if token != "" {
			if err := assistant.StoreKeyring(assistant.KeyDiscordToken, token); err != nil {
				fmt.Printf("Warning: could not store token in keyring: %v\n", err)
				cfg.Discord.Token = token
			}
		}
		if apiKey != "" {
			if err := assistant.StoreKeyring(assistant.KeyPrimaryAPI, apiKey); err != nil {
				fmt.Printf("Warning: could not store API key in keyring: %v\n", err)
				cfg.Providers.Primary.APIKey = apiKey
			}
		}
	} else {
		cfg.Discord.Token = token
		cfg.Providers.Primary.APIKey = apiKey
	}

	if err := assistant.SaveConfigToFile(cfg, "config.yaml"); err != nil {
		return err
	}

	fmt.Println("Configuration written to config.yaml. Start the bot with: layla serve")
	return nil
}
