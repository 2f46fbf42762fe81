package config

type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	Chat     ChatConfig
	Identity IdentityConfig
	Remote   RemoteConfig
}

type ServerConfig struct {
	Port     int
	MCPPort  int
	APIToken string
}

type StorageConfig struct {
	DataDir string
}

type ChatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type IdentityConfig struct {
	APIKey  string
	BaseURL string
}

type RemoteConfig struct {
	BaseURL string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    4600,
			MCPPort: 4601,
		},
		Storage: StorageConfig{
			DataDir: defaultDataDir(),
		},
		Chat: ChatConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
			Model:   "gemini-1.5-flash",
		},
		Identity: IdentityConfig{
			BaseURL: "https://identitytoolkit.googleapis.com/v1",
		},
	}
}

// Load reads configuration from the JSON config file at
// $XDG_CONFIG_HOME/takip/config.json and applies TAKIP_* environment
// variable overrides on top. Missing API keys are not an error here;
// the commands that need them report the gap when invoked.
func Load() (Config, error) {
	return loadWith(newFileBackend(configFilePath()))
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}
