package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Kakao Local search provider.
	KakaoRESTKey   string
	KakaoTimeout   time.Duration
	KakaoCacheSize int

	// Tmap route provider.
	TmapAppKey  string
	TmapTimeout time.Duration

	// OpenWeather enrichment (optional).
	OpenWeatherKey string

	// Kafka resolution audit sink (enabled when brokers are set).
	KafkaBrokers     []string
	KafkaEventsTopic string

	// Optional YAML override for the too-generic address heuristics.
	HeuristicsPath string
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	kakaoTimeout, err := parseDuration("KAKAO_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	tmapTimeout, err := parseDuration("TMAP_TIMEOUT", "7s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parseInt("KAKAO_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KakaoRESTKey:   os.Getenv("KAKAO_REST_KEY"),
		KakaoTimeout:   kakaoTimeout,
		KakaoCacheSize: cacheSize,

		TmapAppKey:  os.Getenv("TMAP_APP_KEY"),
		TmapTimeout: tmapTimeout,

		OpenWeatherKey: os.Getenv("OPENWEATHER_API_KEY"),

		KafkaBrokers:     parseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaEventsTopic: envOrDefault("KAFKA_EVENTS_TOPIC", "resolved-locations"),

		HeuristicsPath: os.Getenv("PLACE_HEURISTICS_FILE"),
	}

	if cfg.KakaoCacheSize <= 0 {
		return nil, errors.New("KAKAO_CACHE_SIZE must be positive")
	}
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaEventsTopic == "" {
		return nil, errors.New("KAFKA_EVENTS_TOPIC is required when KAFKA_BROKERS is set")
	}

	return cfg, nil
}

// EventsEnabled reports whether the Kafka audit sink is configured.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

func parseDuration(key, fallback string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, fallback))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
