package assistant

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseConfig(t *testing.T) {
	t.Run("overlays YAML onto defaults", func(t *testing.T) {
		cfg, err := ParseConfig([]byte(`
name: Kusanali
trigger:
  words: ["layla", "hey bot"]
history:
  max_turns: 4
providers:
  primary:
    base_url: https://llm.example.com/v1
    model: test-model
`))
		if err != nil {
			t.Fatalf("parsing config: %v", err)
		}
		if cfg.Name != "Kusanali" {
			t.Errorf("name = %q", cfg.Name)
		}
		if len(cfg.Trigger.Words) != 2 || cfg.Trigger.Words[1] != "hey bot" {
			t.Errorf("trigger words = %v", cfg.Trigger.Words)
		}
		if cfg.History.MaxTurns != 4 {
			t.Errorf("max_turns = %d", cfg.History.MaxTurns)
		}
		if cfg.Providers.Primary.Model != "test-model" {
			t.Errorf("model = %q", cfg.Providers.Primary.Model)
		}
		// Unset fields keep their defaults.
		if cfg.Chunk.MaxLength != DefaultChunkSize {
			t.Errorf("chunk max = %d, want default", cfg.Chunk.MaxLength)
		}
		if !cfg.Trigger.AllowDM {
			t.Error("allow_dm default should survive a partial overlay")
		}
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		if _, err := ParseConfig([]byte("name: [unclosed")); err == nil {
			t.Fatal("expected parse error")
		}
	})
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("LAYLA_TEST_MODEL", "model-from-env")
	t.Setenv("DISCORD_TOKEN", "token-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(`
name: Layla
providers:
  primary:
    model: ${LAYLA_TEST_MODEL}
`), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfigFromFile(path)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	if cfg.Providers.Primary.Model != "model-from-env" {
		t.Errorf("env expansion failed, model = %q", cfg.Providers.Primary.Model)
	}
	if cfg.Discord.Token != "token-from-env" {
		t.Errorf("secret resolution failed, token = %q", cfg.Discord.Token)
	}

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfigFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("LAYLA_TEST_SET", "value")

	tests := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"${LAYLA_TEST_SET}", "value"},
		{"$LAYLA_TEST_SET", "value"},
		{"prefix-${LAYLA_TEST_SET}-suffix", "prefix-value-suffix"},
		{"${LAYLA_TEST_UNSET_XYZ}", "${LAYLA_TEST_UNSET_XYZ}"},
	}
	for _, tt := range tests {
		if got := expandEnvVars(tt.in); got != tt.want {
			t.Errorf("expandEnvVars(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveConfigRedactsSecrets(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Discord.Token = "real-discord-token"
	cfg.Providers.Primary.APIKey = "sk-real-key"
	cfg.Caption.APIKey = "hf-real-key"

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveConfigToFile(cfg, path); err != nil {
		t.Fatalf("saving config: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved config: %v", err)
	}
	text := string(data)

	for _, secret := range []string{"real-discord-token", "sk-real-key", "hf-real-key"} {
		if strings.Contains(text, secret) {
			t.Errorf("saved config leaks secret %q", secret)
		}
	}
	for _, ref := range []string{"${DISCORD_TOKEN}", "${LAYLA_API_KEY}", "${HUGGING_FACE_API}"} {
		if !strings.Contains(text, ref) {
			t.Errorf("saved config missing env reference %s", ref)
		}
	}

	// The in-memory config keeps its secrets.
	if cfg.Discord.Token != "real-discord-token" {
		t.Error("SaveConfigToFile must not mutate the caller's config")
	}
}

func TestIsEnvReference(t *testing.T) {
	if !IsEnvReference("${DISCORD_TOKEN}") {
		t.Error("expected ${...} to be an env reference")
	}
	if IsEnvReference("plain-token") || IsEnvReference("") {
		t.Error("plain values are not env references")
	}
}
