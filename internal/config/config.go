// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all service configuration.
type Config struct {
	Port         string        // PORT, default 5175
	LogLevel     string        // LOG_LEVEL, default info
	ClientOrigin string        // CLIENT_ORIGIN, default http://localhost:5173
	JWTSecret    string        // JWT_SECRET, signs session tokens
	SessionTTL   time.Duration // SESSION_TTL_HOURS, default 24
	DatabasePath string        // DATABASE_PATH; empty keeps sessions in memory
	WordsFile    string        // WORDS_FILE; empty uses the embedded list
	Workers      int           // SOLVER_WORKERS; 0 means GOMAXPROCS
	ResultLimit  int           // RESULT_LIMIT, default 20
	MinScore     float64       // MIN_SCORE, threshold for unlimited results
}

// Load reads .env (if present) and the environment.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Port:         getEnv("PORT", "5175"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		ClientOrigin: getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		JWTSecret:    getEnv("JWT_SECRET", "dev_secret_change_me"),
		SessionTTL:   time.Duration(getInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		DatabasePath: getEnv("DATABASE_PATH", ""),
		WordsFile:    getEnv("WORDS_FILE", ""),
		Workers:      getInt("SOLVER_WORKERS", 0),
		ResultLimit:  getInt("RESULT_LIMIT", 20),
		MinScore:     getFloat("MIN_SCORE", 10),
	}
}

// ApplyLogLevel sets the global zerolog level; unknown levels are ignored.
func (c *Config) ApplyLogLevel() {
	if lvl, err := zerolog.ParseLevel(c.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		log.Warn().Str("level", c.LogLevel).Msg("unknown LOG_LEVEL, keeping default")
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer setting")
	}
	return def
}

func getFloat(k string, def float64) float64 {
	if v := os.Getenv(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-numeric setting")
	}
	return def
}
