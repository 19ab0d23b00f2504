package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables use the
// ASTRA_ prefix with underscores for nesting (ASTRA_SERVER_PORT,
// ASTRA_LLM_OPENAI_API_KEY) and take precedence over file values.
// The populated config is validated before being returned.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; env vars carry the settings.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("ASTRA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not make env-only keys visible to Unmarshal; bind
	// each known key explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 10080)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("llm.default_provider", "openai")
	v.SetDefault("task.worker_count", 1)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)
}

func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"auth.refresh_token_lifetime_minutes",
		"auth.bcrypt_cost",
		"llm.default_provider",
		"llm.openai_api_key",
		"llm.claude_api_key",
		"llm.gemini_api_key",
		"task.worker_count",
		"task.queue_size",
		"task.stuck_task_age_minutes",
	}
}
