package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Store    StoreConfig    `mapstructure:"store" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Engine   EngineConfig   `mapstructure:"engine" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// URL is required only when the postgres store backend is selected.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"omitempty,url"`
}

// StoreConfig selects the reading store backend. The memory backend keeps
// readings in-process and is intended for development and tests.
type StoreConfig struct {
	Backend string `mapstructure:"backend" validate:"required,oneof=postgres memory"`
}

// LLMConfig contains the narrative generation settings. An empty API key
// disables the external generator; the engine then always uses the
// deterministic narrative fallback.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0,lte=60"`
}

// EngineConfig contains reading engine tuning.
type EngineConfig struct {
	// ReversalChance is the probability a drawn card lands reversed.
	ReversalChance float64 `mapstructure:"reversal_chance" validate:"gte=0,lte=1"`

	// InterpretQueueSize bounds the pending interpretation job queue.
	InterpretQueueSize int `mapstructure:"interpret_queue_size" validate:"required,gt=0"`

	// InterpretWorkers is the number of interpretation workers.
	InterpretWorkers int `mapstructure:"interpret_workers" validate:"required,gt=0"`
}
