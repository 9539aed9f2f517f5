package infra

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	GammaAPIKey       string
	GammaBaseURL      string
	DownloadDir       string
	PollInterval      time.Duration
	GenerationTimeout time.Duration
	MaxPollFailures   int
	JobRetentionTTL   time.Duration
	RateLimitPerMin   int
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		GammaAPIKey:       os.Getenv("GAMMA_API_KEY"),
		GammaBaseURL:      getEnv("GAMMA_BASE_URL", "https://public-api.gamma.app/v0.2"),
		DownloadDir:       getEnv("DOWNLOAD_DIR", "./downloads"),
		PollInterval:      time.Second * time.Duration(getEnvInt("POLL_INTERVAL_SECONDS", 5)),
		GenerationTimeout: time.Second * time.Duration(getEnvInt("GENERATION_TIMEOUT_SECONDS", 75)),
		MaxPollFailures:   getEnvInt("MAX_POLL_FAILURES", 3),
		JobRetentionTTL:   time.Minute * time.Duration(getEnvInt("JOB_RETENTION_TTL_MINUTES", 0)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 90)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
	}

	if cfg.GammaAPIKey == "" {
		return nil, fmt.Errorf("GAMMA_API_KEY is required")
	}

	// The sync endpoint blocks for up to the generation ceiling; the write
	// timeout has to outlast it or every slow generation turns into a
	// truncated response.
	if cfg.HTTPWriteTimeout <= cfg.GenerationTimeout {
		cfg.HTTPWriteTimeout = cfg.GenerationTimeout + 15*time.Second
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
