package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/saaandrew/LaylaAI-DiscordBot/pkg/layla/assistant"
)

// newConfigCmd creates the `layla config` command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage assistant configuration",
		Long: `Inspect the loaded configuration and manage keyring secrets.

Examples:
  layla config show
  layla config set-key discord_token
  layla config set-key api_key_primary`,
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetKeyCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration (secrets redacted)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, path, err := resolveConfig(cmd)
			if err != nil {
				return err
			}

			redacted := *cfg
			redacted.Discord.Token = redact(cfg.Discord.Token)
			redacted.Providers.Primary.APIKey = redact(cfg.Providers.Primary.APIKey)
			redacted.Providers.Secondary.APIKey = redact(cfg.Providers.Secondary.APIKey)
			redacted.Caption.APIKey = redact(cfg.Caption.APIKey)

			data, err := yaml.Marshal(&redacted)
			if err != nil {
				return err
			}

			fmt.Printf("# %s\n%s", path, data)
			return nil
		},
	}
}

func newConfigSetKeyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-key <name> <value>",
		Short: "Store a secret in the OS keyring",
		Long: `Store a secret in the OS keyring. Valid names:
  discord_token, api_key_primary, api_key_secondary, api_key_caption`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			name := args[0]
			switch name {
			case assistant.KeyDiscordToken, assistant.KeyPrimaryAPI,
				assistant.KeySecondaryAPI, assistant.KeyCaptionAPI:
			default:
				return fmt.Errorf("unknown secret name %q", name)
			}

			if err := assistant.StoreKeyring(name, args[1]); err != nil {
				return fmt.Errorf("storing secret: %w", err)
			}
			fmt.Printf("Secret %q stored in the OS keyring.\n", name)
			return nil
		},
	}
}

// redact masks a secret, keeping a short prefix for recognition.
func redact(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 6 {
		return "***"
	}
	return secret[:4] + "***"
}
