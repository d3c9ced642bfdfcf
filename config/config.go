package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LLM selects and credentials the model provider. APIKeyEnv names an
// environment variable so keys stay out of config files.
type LLM struct {
	Provider  string `yaml:"provider"`
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	BaseURL   string `yaml:"base_url"`
}

type Config struct {
	ServerAddr     string   `yaml:"server_addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	LogMode        string   `yaml:"log_mode"`
	LLM            LLM      `yaml:"llm"`
}

// Defaults returns the configuration used when no file is present: mock
// provider, local frontend origins, development logging.
func Defaults() Config {
	return Config{
		ServerAddr: ":8000",
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://127.0.0.1:3000",
			"http://localhost:8501",
			"http://127.0.0.1:8501",
		},
		LogMode: "dev",
		LLM: LLM{
			Provider: "mock",
		},
	}
}

// Load reads YAML config from disk on top of Defaults. A missing file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8000"
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "mock"
	}
	return cfg, nil
}

// ResolvedAPIKey returns the configured key, preferring the literal value
// and falling back to the named environment variable.
func (l LLM) ResolvedAPIKey() string {
	if l.APIKey != "" {
		return l.APIKey
	}
	if l.APIKeyEnv != "" {
		return os.Getenv(l.APIKeyEnv)
	}
	return ""
}
