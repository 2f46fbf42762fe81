package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestDefaults verifies default values survive an empty config file.
func TestDefaults(t *testing.T) {
	path := writeTempConfig(t, `{}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 4600 {
		t.Errorf("Server.Port = %d, want 4600", cfg.Server.Port)
	}
	if cfg.Server.MCPPort != 4601 {
		t.Errorf("Server.MCPPort = %d, want 4601", cfg.Server.MCPPort)
	}
	if cfg.Chat.Model != "gemini-1.5-flash" {
		t.Errorf("Chat.Model = %q, want %q", cfg.Chat.Model, "gemini-1.5-flash")
	}
	if !strings.Contains(cfg.Identity.BaseURL, "identitytoolkit") {
		t.Errorf("Identity.BaseURL = %q, want identity toolkit default", cfg.Identity.BaseURL)
	}
}

// TestFileValues verifies that file values override defaults.
func TestFileValues(t *testing.T) {
	path := writeTempConfig(t, `{
  "server.port": 5600,
  "server.mcp_port": 5601,
  "storage.data_dir": "/tmp/takip-test",
  "chat.model": "gemini-1.5-pro",
  "remote.base_url": "https://sync.example.com"
}`)

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 5600 {
		t.Errorf("Server.Port = %d, want 5600", cfg.Server.Port)
	}
	if cfg.Server.MCPPort != 5601 {
		t.Errorf("Server.MCPPort = %d, want 5601", cfg.Server.MCPPort)
	}
	if cfg.Storage.DataDir != "/tmp/takip-test" {
		t.Errorf("Storage.DataDir = %q", cfg.Storage.DataDir)
	}
	if cfg.Chat.Model != "gemini-1.5-pro" {
		t.Errorf("Chat.Model = %q", cfg.Chat.Model)
	}
	if cfg.Remote.BaseURL != "https://sync.example.com" {
		t.Errorf("Remote.BaseURL = %q", cfg.Remote.BaseURL)
	}
}

// TestEnvOverride verifies that environment variables win over file values.
func TestEnvOverride(t *testing.T) {
	path := writeTempConfig(t, `{"server.port": 5600}`)

	t.Setenv("TAKIP_SERVER_PORT", "6600")
	t.Setenv("TAKIP_CHAT_API_KEY", "env-key")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 6600 {
		t.Errorf("Server.Port = %d, want 6600", cfg.Server.Port)
	}
	if cfg.Chat.APIKey != "env-key" {
		t.Errorf("Chat.APIKey = %q, want %q", cfg.Chat.APIKey, "env-key")
	}
}

// TestSecretsSkipFile verifies secret keys are never read from the file backend.
func TestSecretsSkipFile(t *testing.T) {
	path := writeTempConfig(t, `{"chat.api_key": "file-key"}`)

	t.Setenv("TAKIP_CHAT_API_KEY", "")

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Chat.APIKey != "" {
		t.Errorf("Chat.APIKey = %q, want empty (secrets come from env only)", cfg.Chat.APIKey)
	}
}

func TestSetKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	b := newFileBackend(path)

	if err := setKey(b, "server.port", "7000"); err != nil {
		t.Fatalf("setKey(server.port) error = %v", err)
	}
	if err := setKey(b, "chat.model", "gemini-2.0-flash"); err != nil {
		t.Fatalf("setKey(chat.model) error = %v", err)
	}
	if err := setKey(b, "server.port", "not-a-number"); err == nil {
		t.Error("setKey with bad integer: error = nil, want parse failure")
	}
	if err := setKey(b, "chat.api_key", "x"); err == nil {
		t.Error("setKey on secret: error = nil, want refusal")
	}
	if err := setKey(b, "bogus.key", "x"); err == nil {
		t.Error("setKey on unknown key: error = nil, want unknown-key failure")
	}

	cfg, err := loadWith(newFileBackend(path))
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("Server.Port = %d, want 7000", cfg.Server.Port)
	}
	if cfg.Chat.Model != "gemini-2.0-flash" {
		t.Errorf("Chat.Model = %q", cfg.Chat.Model)
	}
}

func TestShowAllHidesSecrets(t *testing.T) {
	cfg := defaults()
	cfg.Chat.APIKey = "super-secret"

	for _, info := range ShowAll(cfg) {
		if info.Value == "super-secret" {
			t.Errorf("ShowAll leaked secret under key %s", info.Key)
		}
	}
}

func TestValidKeysExcludeSecrets(t *testing.T) {
	for _, k := range ValidKeys() {
		if k == "chat.api_key" || k == "identity.api_key" {
			t.Errorf("ValidKeys includes secret %q", k)
		}
	}
}
