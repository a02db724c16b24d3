// Package assistant – keyring.go provides credential storage in the
// operating system's native keyring (Linux: Secret Service/GNOME Keyring,
// macOS: Keychain, Windows: Credential Manager).
//
// Priority for resolving secrets:
//  1. OS keyring (encrypted by the OS, requires user session)
//  2. Environment variable / .env file (loaded by godotenv)
//  3. config.yaml value (least secure, plaintext on disk)
package assistant

import (
	"log/slog"

	"github.com/zalando/go-keyring"
)

const (
	// keyringService is the service name used in the OS keyring.
	keyringService = "layla"

	// KeyDiscordToken is the keyring key for the Discord bot token.
	KeyDiscordToken = "discord_token"

	// KeyPrimaryAPI is the keyring key for the primary provider API key.
	KeyPrimaryAPI = "api_key_primary"

	// KeySecondaryAPI is the keyring key for the fallback provider API key.
	KeySecondaryAPI = "api_key_secondary"

	// KeyCaptionAPI is the keyring key for the captioning backend API key.
	KeyCaptionAPI = "api_key_caption"
)

// StoreKeyring saves a secret to the OS keyring.
func StoreKeyring(key, value string) error {
	return keyring.Set(keyringService, key, value)
}

// GetKeyring retrieves a secret from the OS keyring.
// Returns empty string if not found.
func GetKeyring(key string) string {
	val, err := keyring.Get(keyringService, key)
	if err != nil {
		return ""
	}
	return val
}

// DeleteKeyring removes a secret from the OS keyring.
func DeleteKeyring(key string) error {
	return keyring.Delete(keyringService, key)
}

// ResolveSecrets overlays keyring-stored credentials onto the config.
// Keyring values win over config/env values only when the config slot is
// still empty or an unexpanded placeholder.
func ResolveSecrets(cfg *Config, logger *slog.Logger) {
	resolve := func(target *string, key, name string) {
		if *target != "" && !IsEnvReference(*target) {
			return
		}
		if val := GetKeyring(key); val != "" {
			*target = val
			logger.Debug("secret loaded from OS keyring", "secret", name)
		}
	}

	resolve(&cfg.Discord.Token, KeyDiscordToken, "discord token")
	resolve(&cfg.Providers.Primary.APIKey, KeyPrimaryAPI, "primary api key")
	resolve(&cfg.Providers.Secondary.APIKey, KeySecondaryAPI, "secondary api key")
	resolve(&cfg.Caption.APIKey, KeyCaptionAPI, "caption api key")

	if cfg.Discord.Token == "" || IsEnvReference(cfg.Discord.Token) {
		logger.Warn("no Discord token found. Set DISCORD_TOKEN or run: layla config set-key discord_token")
	}
}
