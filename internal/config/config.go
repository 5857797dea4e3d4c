// Package config defines and loads the application configuration.
package config

import "time"

// Config holds all application configuration, grouped by concern.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Engine EngineConfig `mapstructure:"engine" validate:"required"`
	Task   TaskConfig   `mapstructure:"task" validate:"required"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// CORSConfig lists the origins allowed to call the API from a browser.
type CORSConfig struct {
	Origins []string `mapstructure:"origins"`
}

// EngineConfig contains analysis engine settings. An empty GeminiAPIKey
// means the real engine is unavailable and the simulated fallback runs
// instead.
type EngineConfig struct {
	GeminiAPIKey       string        `mapstructure:"gemini_api_key"`
	ModelName          string        `mapstructure:"model_name" validate:"required"`
	MaxRetries         int           `mapstructure:"max_retries" validate:"gte=0"`
	SimulatedStepDelay time.Duration `mapstructure:"simulated_step_delay" validate:"gte=0"`
}

// TaskConfig contains task executor settings.
type TaskConfig struct {
	// MaxConcurrent bounds simultaneously running analyses. Submissions
	// past the bound stay pending until a slot frees.
	MaxConcurrent int `mapstructure:"max_concurrent" validate:"gt=0"`

	// ExecutionTimeout caps one analysis run. Zero disables the timeout.
	ExecutionTimeout time.Duration `mapstructure:"execution_timeout" validate:"gte=0"`

	// MaxFinished caps retained terminal records; the oldest past the
	// cap are pruned after each finalization. Zero disables pruning.
	MaxFinished int `mapstructure:"max_finished" validate:"gte=0"`
}
