package cfg

import (
	"errors"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type AmadeusConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type Config struct {
	AppEnv  string
	AppPort string

	Amadeus AmadeusConfig

	RateLimitQuota         int
	RateLimitWindowSeconds int
	SearchCacheTTLMinutes  int
	AirportCacheTTLHours   int
	RequestTimeoutSeconds  int
	MaxRetries             int
	NodeID                 int64
}

func Load() (*Config, error) {
	var errs []error

	// A missing .env file is fine when the environment is set directly.
	_ = godotenv.Load()

	appEnv := mustEnv("APP_ENV", &errs)
	appPort := envOr("APP_PORT", "8080")

	amadeusBaseURL := mustEnv("AMADEUS_BASE_URL", &errs)
	amadeusClientID := mustEnv("AMADEUS_CLIENT_ID", &errs)
	amadeusClientSecret := mustEnv("AMADEUS_CLIENT_SECRET", &errs)

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return &Config{
		AppEnv:  appEnv,
		AppPort: appPort,
		Amadeus: AmadeusConfig{
			BaseURL:      amadeusBaseURL,
			ClientID:     amadeusClientID,
			ClientSecret: amadeusClientSecret,
		},
		RateLimitQuota:         cast.ToInt(envOr("RATE_LIMIT_QUOTA", "30")),
		RateLimitWindowSeconds: cast.ToInt(envOr("RATE_LIMIT_WINDOW_SECONDS", "60")),
		SearchCacheTTLMinutes:  cast.ToInt(envOr("SEARCH_CACHE_TTL_MINUTES", "5")),
		AirportCacheTTLHours:   cast.ToInt(envOr("AIRPORT_CACHE_TTL_HOURS", "24")),
		RequestTimeoutSeconds:  cast.ToInt(envOr("REQUEST_TIMEOUT_SECONDS", "30")),
		MaxRetries:             cast.ToInt(envOr("MAX_RETRIES", "3")),
		NodeID:                 cast.ToInt64(envOr("NODE_ID", "1")),
	}, nil
}

func mustEnv(key string, errs *[]error) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		*errs = append(*errs, errors.New("missing env: "+key))
	}
	return value
}

func envOr(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
