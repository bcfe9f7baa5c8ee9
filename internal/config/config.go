package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LLMAPIKey          string        `env:"LLM_API_KEY"`
	LLMBaseURL         string        `env:"LLM_BASE_URL"          envDefault:"https://api.groq.com/openai/v1/"`
	LLMMaxRetries      int           `env:"LLM_MAX_RETRIES"       envDefault:"2"`
	LLMMaxOutputTokens int64         `env:"LLM_MAX_OUTPUT_TOKENS" envDefault:"1024"`
	ModelConfigPath    string        `env:"MODEL_CONFIG_PATH"     envDefault:"llm_config.json"`
	DefaultModel       string        `env:"DEFAULT_MODEL"         envDefault:"llama-3.1-8b-instant"`
	SummaryWords       int           `env:"SUMMARY_WORDS"         envDefault:"300"`
	TranscriptLangs    []string      `env:"TRANSCRIPT_LANGUAGES"  envDefault:"en,hi"`
	FetchTimeout       time.Duration `env:"FETCH_TIMEOUT"         envDefault:"30s"`
	InsecureSkipVerify bool          `env:"INSECURE_SKIP_VERIFY"  envDefault:"false"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT"       envDefault:"2m"`
	SummaryCacheSize   int           `env:"SUMMARY_CACHE_SIZE"    envDefault:"256"`
	SummaryCacheTTL    time.Duration `env:"SUMMARY_CACHE_TTL"     envDefault:"1h"`
	DBPath             string        `env:"DB_PATH"               envDefault:"db.sqlite"`
	HistoryRetention   time.Duration `env:"HISTORY_RETENTION"     envDefault:"720h"`
	Token              string        `env:"TOKEN"`
	AllowedUsers       []int64       `env:"ALLOWED_USERS"`
	RequestsPerMinute  int           `env:"REQUESTS_PER_MINUTE"   envDefault:"6"`
	LogLevel           slog.Level    `env:"LOG_LEVEL"             envDefault:"info"`
}

// LoadDotEnv loads .env files when present. Missing files are not an error.
func LoadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	return nil
}

func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if c.SummaryWords <= 0 {
		errs = append(errs, errors.New("SUMMARY_WORDS must be positive"))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, errors.New("FETCH_TIMEOUT must be positive"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("REQUEST_TIMEOUT must be positive"))
	}
	if c.LLMMaxRetries < 0 {
		errs = append(errs, errors.New("LLM_MAX_RETRIES must not be negative"))
	}
	if c.SummaryCacheSize < 0 {
		errs = append(errs, errors.New("SUMMARY_CACHE_SIZE must not be negative"))
	}
	if c.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("REQUESTS_PER_MINUTE must be positive"))
	}
	if c.HistoryRetention <= 0 {
		errs = append(errs, errors.New("HISTORY_RETENTION must be positive"))
	}

	return errors.Join(errs...)
}
