// Package config loads sprout settings from defaults, an optional config
// file, a .env file and SPROUT_* environment variables, in increasing order
// of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sproutcare/sprout/internal/llm"
	"github.com/sproutcare/sprout/internal/logging"
	"github.com/sproutcare/sprout/internal/suggest"
)

// EnvPrefix prefixes every environment variable, e.g. SPROUT_LLM_PROVIDER.
const EnvPrefix = "SPROUT"

// Config is the full application configuration.
type Config struct {
	// DB is the SQLite database path. Empty means store.DefaultDBPath.
	DB string `mapstructure:"db"`

	LLM     llm.Config      `mapstructure:"llm"`
	Suggest suggest.Config  `mapstructure:"suggest"`
	Session SessionConfig   `mapstructure:"session"`
	Redis   RedisConfig     `mapstructure:"redis"`
	Log     logging.Options `mapstructure:"log"`
}

// SessionConfig bounds how long an idle session keeps its exclusion set.
type SessionConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RedisConfig selects the shared session backend. An empty Addr keeps
// sessions in process memory.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Load reads configuration. path names a config file and may be empty, in
// which case sprout.yaml is looked up in the working directory and the
// user config directory and skipped when absent.
//
// When no generator provider is set, standard API key variables are probed;
// with none found the provider is "none" and suggestions run on the
// fallback engine alone.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("sprout")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "sprout"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.LLM.Provider == "" {
		if found, ok := llm.DiscoverConfig(cfg.LLM); ok {
			cfg.LLM = found
		} else {
			cfg.LLM.Provider = "none"
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if c.Suggest.Count < 1 {
		return fmt.Errorf("suggest.count must be at least 1, got %d", c.Suggest.Count)
	}
	if c.Suggest.Timeout < 0 {
		return fmt.Errorf("suggest.timeout must not be negative")
	}
	if c.Suggest.Temperature < 0 || c.Suggest.Temperature > 1 {
		return fmt.Errorf("suggest.temperature must be within 0-1, got %g", c.Suggest.Temperature)
	}
	if c.Session.TTL < 0 {
		return fmt.Errorf("session.ttl must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("db", "")

	l := llm.DefaultConfig()
	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", l.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", l.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", l.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", l.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)

	s := suggest.DefaultConfig()
	v.SetDefault("suggest.count", s.Count)
	v.SetDefault("suggest.timeout", s.Timeout)
	v.SetDefault("suggest.max_tokens", s.MaxTokens)
	v.SetDefault("suggest.temperature", s.Temperature)
	v.SetDefault("suggest.max_history", s.MaxHistory)

	v.SetDefault("session.ttl", 2*time.Hour)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.redact", true)
	v.SetDefault("log.hash_salt", "")
}

// loadDotEnv loads path into the environment if it exists. Variables that
// are already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
