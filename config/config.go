package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type StoreDriver string

const (
	StorePostgres StoreDriver = "postgres"
	StoreMemory   StoreDriver = "memory"
)

// Config holds every setting of the service.
type Config struct {
	StoreDriver  StoreDriver
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int

	AutoAdvanceByes bool
	MaxWriteRetries int

	// ResultRateLimit is the number of result submissions per second allowed
	// from one IP. Zero disables limiting.
	ResultRateLimit float64
	ResultRateBurst int

	CORSAllowedOrigins []string

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present, which is handy for local development.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		StoreDriver:       StoreDriver(strings.ToLower(strings.TrimSpace(getenv("STORE_DRIVER")))),
		DatabaseURL:       getenv("DATABASE_URL"),
		JWTSecretKey:      getenv("JWT_SECRET_KEY"),
		R2AccountID:       getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   getenv("R2_PUBLIC_BASE_URL"),
	}

	switch cfg.StoreDriver {
	case "":
		cfg.StoreDriver = StorePostgres
	case StorePostgres, StoreMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StorePostgres, StoreMemory, cfg.StoreDriver)
	}
	if cfg.StoreDriver == StorePostgres && cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := intFromEnv(getenv, "SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if v := getenv("AUTO_ADVANCE_BYES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid AUTO_ADVANCE_BYES environment variable: %w", err)
		}
		cfg.AutoAdvanceByes = b
	}

	if cfg.MaxWriteRetries, err = intFromEnv(getenv, "MAX_WRITE_RETRIES", 3); err != nil {
		return nil, err
	}
	if cfg.MaxWriteRetries < 0 {
		return nil, fmt.Errorf("MAX_WRITE_RETRIES must not be negative, got %d", cfg.MaxWriteRetries)
	}

	cfg.ResultRateLimit = 5
	if v := getenv("RESULT_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RESULT_RATE_LIMIT environment variable: %w", err)
		}
		if f < 0 {
			return nil, fmt.Errorf("RESULT_RATE_LIMIT must not be negative, got %v", f)
		}
		cfg.ResultRateLimit = f
	}
	if cfg.ResultRateBurst, err = intFromEnv(getenv, "RESULT_RATE_BURST", 10); err != nil {
		return nil, err
	}
	if cfg.ResultRateBurst < 1 {
		return nil, fmt.Errorf("RESULT_RATE_BURST must be at least 1, got %d", cfg.ResultRateBurst)
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}

func intFromEnv(getenv func(string) string, key string, def int) (int, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}
