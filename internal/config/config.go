package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		ID  string `yaml:"id"`
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Interview struct {
		Questions int    `yaml:"questions"`
		TimeLimit int    `yaml:"time_limit"`
		Tick      string `yaml:"tick"`
	} `yaml:"interview"`
	Scorer struct {
		Provider     string `yaml:"provider"`
		Model        string `yaml:"model"`
		APIKey       string `yaml:"api_key"`
		APIKeyFile   string `yaml:"api_key_file"`
		BaseURL      string `yaml:"base_url"`
		Timeout      string `yaml:"timeout"`
		MaxRetries   int    `yaml:"max_retries"`
		MaxLogLength int    `yaml:"max_log_length"`
	} `yaml:"scorer"`
	Log struct {
		JSON  bool `yaml:"json"`
		Debug bool `yaml:"debug"`
	} `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "8080"
	cfg.Catalog.ID = "communication"
	cfg.Catalog.TTL = "10m"
	cfg.Redis.TTL = "10m"
	cfg.Interview.Questions = 5
	cfg.Interview.TimeLimit = 120
	cfg.Interview.Tick = "1s"
	cfg.Scorer.Provider = ProviderGemini
	cfg.Scorer.MaxRetries = 3
	cfg.Scorer.MaxLogLength = 200
	return cfg
}

// Load reads YAML config from path on top of the defaults. A missing file is
// not an error. Empty API keys are filled from OPENAI_API_KEY or GEMINI_API_KEY.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Scorer.Provider = strings.ToLower(strings.TrimSpace(c.Scorer.Provider))
	if c.Scorer.APIKey != "" || c.Scorer.APIKeyFile != "" {
		return
	}
	switch c.Scorer.Provider {
	case ProviderOpenAI:
		c.Scorer.APIKey = os.Getenv("OPENAI_API_KEY")
	case ProviderGemini:
		c.Scorer.APIKey = os.Getenv("GEMINI_API_KEY")
	}
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
