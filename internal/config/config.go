package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// A .env file in the working directory is honored when present.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Upstream providers.
	ModelBaseURL    string
	ModelAPIKey     string
	ModelTimeout    time.Duration
	NationalBaseURL string
	AlertsBaseURL   string
	NationalTimeout time.Duration
	SPCBaseURL      string
	SPCTimeout      time.Duration

	// Convective outlook cache.
	OutlookRefreshInterval time.Duration
	OutlookCachePath       string

	// Optional Kafka egress for outlook refresh events.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPAddr:         envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:         envOrDefault("LOG_LEVEL", "info"),
		LogFormat:        envOrDefault("LOG_FORMAT", "json"),
		ModelBaseURL:     envOrDefault("MODEL_BASE_URL", "https://api.openweathermap.org/data/3.0"),
		ModelAPIKey:      os.Getenv("MODEL_API_KEY"),
		NationalBaseURL:  envOrDefault("NATIONAL_BASE_URL", "https://forecast.weather.gov"),
		AlertsBaseURL:    envOrDefault("ALERTS_BASE_URL", "https://api.weather.gov"),
		SPCBaseURL:       envOrDefault("SPC_BASE_URL", "https://www.spc.noaa.gov"),
		OutlookCachePath: envOrDefault("OUTLOOK_CACHE_PATH", "outlook-cache.json"),
		KafkaTopic:       envOrDefault("KAFKA_TOPIC", "outlook-refreshes"),
	}

	var err error
	if cfg.ShutdownTimeout, err = durationEnv("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.ModelTimeout, err = durationEnv("MODEL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.NationalTimeout, err = durationEnv("NATIONAL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.SPCTimeout, err = durationEnv("SPC_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.OutlookRefreshInterval, err = durationEnv("OUTLOOK_REFRESH_INTERVAL", 10*time.Minute); err != nil {
		return nil, err
	}

	cfg.KafkaBrokers = parseBrokers(os.Getenv("KAFKA_BROKERS"))
	cfg.KafkaEnabled = len(cfg.KafkaBrokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.KafkaEnabled = v == "true"
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_TOPIC is required when Kafka egress is enabled")
	}
	if cfg.OutlookCachePath == "" {
		return nil, errors.New("OUTLOOK_CACHE_PATH is required")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
