package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config captures all runtime configuration derived from environment
// variables. There is no configuration file; the two upstream credentials are
// read from the process environment and never exposed to the client.
type Config struct {
	Port                string
	DBURL               string
	OMDBKey             string
	TMDBKey             string
	OMDBBaseURL         string
	TMDBBaseURL         string
	ProxyBaseURL        string
	UpstreamTimeoutSecs int
	UpstreamRetryOnce   bool
	ReadTimeoutSecs     int
	WriteTimeoutSecs    int
	IdleTimeoutSecs     int
	DBMaxConns          int
	DBMinConns          int
	DBConnTimeoutSecs   int
}

// Load reads configuration from environment variables, applying defaults and
// validation.
func Load() (Config, error) {
	cfg := Config{
		Port:                getEnv("PORT", "8080"),
		DBURL:               os.Getenv("DB_URL"),
		OMDBKey:             os.Getenv("OMDB_KEY"),
		TMDBKey:             os.Getenv("TMDB_KEY"),
		OMDBBaseURL:         getEnv("OMDB_BASE_URL", "https://www.omdbapi.com"),
		TMDBBaseURL:         getEnv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		ProxyBaseURL:        os.Getenv("PROXY_BASE_URL"),
		UpstreamTimeoutSecs: getEnvInt("UPSTREAM_TIMEOUT_SECS", 10),
		UpstreamRetryOnce:   getEnvBool("UPSTREAM_RETRY_ONCE", false),
		ReadTimeoutSecs:     getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:    getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:     getEnvInt("SERVER_IDLE_TIMEOUT", 60),
		DBMaxConns:          getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:          getEnvInt("DB_MIN_CONNS", 1),
		DBConnTimeoutSecs:   getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
	}

	if cfg.ProxyBaseURL == "" {
		cfg.ProxyBaseURL = "http://127.0.0.1:" + cfg.Port + "/api"
	}

	if cfg.DBURL == "" {
		return Config{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.OMDBKey == "" {
		return Config{}, fmt.Errorf("OMDB_KEY is required")
	}
	if cfg.TMDBKey == "" {
		return Config{}, fmt.Errorf("TMDB_KEY is required")
	}
	if cfg.UpstreamTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT_SECS must be positive")
	}
	if cfg.DBMaxConns <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return Config{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return Config{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
