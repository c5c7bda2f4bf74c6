package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config carries the runtime settings for both entrypoints. Values come
// from the environment, optionally seeded by a local .env file.
type Config struct {
	// HTTP server deployment
	HTTPAddr       string   `env:"HTTP_ADDR" envDefault:":8000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost,http://localhost:5173,http://127.0.0.1:5173"`
	SQLitePath     string   `env:"SQLITE_PATH" envDefault:"data/chat_history.db"`

	// Generation provider
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-1.5-flash"`

	// Retry and latency budget
	GenerateMaxAttempts int           `env:"GENERATE_MAX_ATTEMPTS" envDefault:"3"`
	GenerateRetryDelay  time.Duration `env:"GENERATE_RETRY_DELAY" envDefault:"2s"`
	RequestTimeout      time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	// Session capacity. 0 disables the per-session cap.
	SessionMaxTurns int `env:"SESSION_MAX_TURNS" envDefault:"200"`

	// Lambda deployment
	RecordsTable string `env:"RECORDS_TABLE"`
	ParamPrefix  string `env:"PARAM_PREFIX"`
}

// Load reads the configuration from the environment. A missing .env file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
