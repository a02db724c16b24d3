// Package assistant – loader.go handles loading configuration from YAML
// files with credential resolution via environment variables and .env
// files.
package assistant

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envVarPattern matches ${VAR_NAME} or $VAR_NAME in config values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Z_][A-Z0-9_]*)`)

// LoadConfigFromFile reads and parses a YAML configuration file.
// Automatically loads .env files and expands environment variables.
func LoadConfigFromFile(path string) (*Config, error) {
	// Load .env files (silently ignore if not found).
	loadEnvFiles()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in YAML before parsing.
	expanded := expandEnvVars(string(data))

	cfg, err := ParseConfig([]byte(expanded))
	if err != nil {
		return nil, err
	}

	resolveSecrets(cfg)

	return cfg, nil
}

// ParseConfig parses YAML bytes into a Config.
// Starts with defaults and overlays values from the YAML.
func ParseConfig(data []byte) (*Config, error) {
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	return cfg, nil
}

// SaveConfigToFile writes a Config as YAML to the specified path.
// Secrets are replaced with environment variable references.
func SaveConfigToFile(cfg *Config, path string) error {
	sanitized := *cfg
	sanitized.Discord.Token = sanitizeSecret(cfg.Discord.Token, "DISCORD_TOKEN")
	sanitized.Providers.Primary.APIKey = sanitizeSecret(cfg.Providers.Primary.APIKey, "LAYLA_API_KEY")
	sanitized.Providers.Secondary.APIKey = sanitizeSecret(cfg.Providers.Secondary.APIKey, "LAYLA_FALLBACK_API_KEY")
	sanitized.Caption.APIKey = sanitizeSecret(cfg.Caption.APIKey, "HUGGING_FACE_API")

	data, err := yaml.Marshal(&sanitized)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Restricted permissions: owner read/write only.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// FindConfigFile searches for config files in standard locations.
func FindConfigFile() string {
	candidates := []string{
		"config.yaml",
		"config.yml",
		"layla.yaml",
		"layla.yml",
		"configs/config.yaml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// IsEnvReference reports whether a config value is an unexpanded ${VAR}
// placeholder.
func IsEnvReference(value string) bool {
	return strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}")
}

// ---------- Internal ----------

// loadEnvFiles loads .env files from standard locations.
func loadEnvFiles() {
	for _, f := range []string{".env", ".env.local"} {
		// godotenv.Load does NOT overwrite existing env vars.
		_ = godotenv.Load(f)
	}
}

// expandEnvVars replaces ${VAR} and $VAR references in a string with their
// environment variable values.
func expandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		var varName string
		if strings.HasPrefix(match, "${") {
			varName = match[2 : len(match)-1]
		} else {
			varName = match[1:]
		}

		if val, ok := os.LookupEnv(varName); ok {
			return val
		}

		// Keep the placeholder when the env var is unset.
		return match
	})
}

// resolveSecrets fills in config secrets from environment variables when
// the config value is empty or a leftover placeholder.
func resolveSecrets(cfg *Config) {
	if cfg.Discord.Token == "" || IsEnvReference(cfg.Discord.Token) {
		if v := os.Getenv("DISCORD_TOKEN"); v != "" {
			cfg.Discord.Token = v
		}
	}
	if cfg.Providers.Primary.APIKey == "" || IsEnvReference(cfg.Providers.Primary.APIKey) {
		if v := os.Getenv("LAYLA_API_KEY"); v != "" {
			cfg.Providers.Primary.APIKey = v
		} else if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.Providers.Primary.APIKey = v
		}
	}
	if cfg.Providers.Secondary.APIKey == "" || IsEnvReference(cfg.Providers.Secondary.APIKey) {
		if v := os.Getenv("LAYLA_FALLBACK_API_KEY"); v != "" {
			cfg.Providers.Secondary.APIKey = v
		} else if cfg.Providers.Primary.APIKey != "" {
			// Same key serves both when only one is configured.
			cfg.Providers.Secondary.APIKey = cfg.Providers.Primary.APIKey
		}
	}
	if cfg.Caption.APIKey == "" || IsEnvReference(cfg.Caption.APIKey) {
		if v := os.Getenv("HUGGING_FACE_API"); v != "" {
			cfg.Caption.APIKey = v
		}
	}
}

// sanitizeSecret replaces a real secret with an env reference for writing
// to disk; empty and already-referenced values pass through.
func sanitizeSecret(value, envVar string) string {
	if value == "" || IsEnvReference(value) {
		return value
	}
	return "${" + envVar + "}"
}
