package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key     string
	typ     keyType
	env     string
	secret  bool
	apply   func(cfg *Config, v any)
	extract func(cfg Config) any
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "TAKIP_SERVER_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.Port },
	},
	{
		key: "server.mcp_port", typ: kInt, env: "TAKIP_SERVER_MCP_PORT",
		apply:   func(cfg *Config, v any) { cfg.Server.MCPPort = v.(int) },
		extract: func(cfg Config) any { return cfg.Server.MCPPort },
	},
	{
		key: "server.api_token", typ: kString, env: "TAKIP_SERVER_API_TOKEN",
		apply:   func(cfg *Config, v any) { cfg.Server.APIToken = v.(string) },
		extract: func(cfg Config) any { return cfg.Server.APIToken },
	},
	{
		key: "storage.data_dir", typ: kString, env: "TAKIP_STORAGE_DATA_DIR",
		apply:   func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
		extract: func(cfg Config) any { return cfg.Storage.DataDir },
	},
	{
		key: "chat.api_key", typ: kString, env: "TAKIP_CHAT_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Chat.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Chat.APIKey },
	},
	{
		key: "chat.base_url", typ: kString, env: "TAKIP_CHAT_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Chat.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Chat.BaseURL },
	},
	{
		key: "chat.model", typ: kString, env: "TAKIP_CHAT_MODEL",
		apply:   func(cfg *Config, v any) { cfg.Chat.Model = v.(string) },
		extract: func(cfg Config) any { return cfg.Chat.Model },
	},
	{
		key: "identity.api_key", typ: kString, env: "TAKIP_IDENTITY_API_KEY",
		secret:  true,
		apply:   func(cfg *Config, v any) { cfg.Identity.APIKey = v.(string) },
		extract: func(cfg Config) any { return cfg.Identity.APIKey },
	},
	{
		key: "identity.base_url", typ: kString, env: "TAKIP_IDENTITY_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Identity.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Identity.BaseURL },
	},
	{
		key: "remote.base_url", typ: kString, env: "TAKIP_REMOTE_BASE_URL",
		apply:   func(cfg *Config, v any) { cfg.Remote.BaseURL = v.(string) },
		extract: func(cfg Config) any { return cfg.Remote.BaseURL },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		if s.secret {
			continue
		}
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		if s.env == "" {
			continue
		}
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
