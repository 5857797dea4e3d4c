package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for configuration environment variables,
// e.g. TRADINGAGENTS_SERVER_PORT overrides server.port.
const EnvPrefix = "TRADINGAGENTS"

// Load reads configuration from defaults, an optional config.yaml in the
// working directory, and environment variables (highest precedence).
// Returns a validated Config or an error describing what failed.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars and defaults carry it.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")

	// Matches the local dev origins of the frontends that consume this API.
	v.SetDefault("cors.origins", []string{
		"http://localhost:3000",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	})

	v.SetDefault("engine.gemini_api_key", "")
	v.SetDefault("engine.model_name", "gemini-2.0-flash")
	v.SetDefault("engine.max_retries", 3)
	v.SetDefault("engine.simulated_step_delay", 1500*time.Millisecond)

	v.SetDefault("task.max_concurrent", 4)
	v.SetDefault("task.execution_timeout", 10*time.Minute)
	v.SetDefault("task.max_finished", 500)
}
