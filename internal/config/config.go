package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm" validate:"required"`
	Task     TaskConfig     `mapstructure:"task" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost                  int    `mapstructure:"bcrypt_cost" validate:"gte=0,lte=31"`
}

// LLMConfig contains all LLM integration related settings. Provider API
// keys are optional; a provider without a key is simply not usable and the
// orchestrator falls back across those that are.
type LLMConfig struct {
	DefaultProvider string `mapstructure:"default_provider" validate:"omitempty,oneof=openai claude gemini"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	ClaudeAPIKey    string `mapstructure:"claude_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`
}

// Credential returns the API key stored for the named credential variable.
// The provider registry resolves keys through this method so that
// availability checks and the adapters read from the same configuration
// source. Unknown names return an empty string, which the registry treats
// as "not usable".
func (c LLMConfig) Credential(name string) string {
	switch name {
	case "OPENAI_API_KEY":
		return c.OpenAIAPIKey
	case "CLAUDE_API_KEY":
		return c.ClaudeAPIKey
	case "GEMINI_API_KEY":
		return c.GeminiAPIKey
	default:
		return ""
	}
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount  int `mapstructure:"worker_count" validate:"required,gt=0"`
	QueueSize    int `mapstructure:"queue_size" validate:"required,gt=0"`
	StuckTaskAge int `mapstructure:"stuck_task_age_minutes" validate:"required,gt=0"`
}
