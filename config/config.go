// Package config reads the service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration values. Defaults mirror the original
// deployment: grounding restricted to sec.gov and the FINRA rulebooks, a
// 30-minute idle threshold swept every 10 minutes.
type Config struct {
	// Model backend
	ModelProvider string // "openai" or "anthropic"
	ModelName     string

	// Bing web search
	BingEndpoint    string
	BingAPIKey      string
	BingResultCount int

	// Grounding
	GroundedSites []string

	// Session expiry
	IdleThreshold time.Duration
	SweepInterval time.Duration

	// Orchestration
	MaxToolRounds int
	TurnTimeout   time.Duration

	// HTTP server
	ListenAddr string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables, applying defaults for
// anything unset.
func Load() Config {
	return Config{
		ModelProvider: getEnv("MODEL_PROVIDER", "openai"),
		ModelName:     getEnv("MODEL_NAME", ""),

		BingEndpoint:    getEnv("BING_ENDPOINT", "https://api.bing.microsoft.com/"),
		BingAPIKey:      getEnv("BING_API_KEY", ""),
		BingResultCount: getInt("BING_RESULT_COUNT", 5),

		GroundedSites: getList("GROUNDED_SITES", []string{"sec.gov", "finra.org/rules-guidance/rulebooks"}),

		IdleThreshold: getDuration("SESSION_IDLE_THRESHOLD", 30*time.Minute),
		SweepInterval: getDuration("SESSION_SWEEP_INTERVAL", 10*time.Minute),

		MaxToolRounds: getInt("MAX_TOOL_ROUNDS", 5),
		TurnTimeout:   getDuration("TURN_TIMEOUT", 2*time.Minute),

		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),

		LogLevel:  getEnv("LOG_LEVEL", "INFO"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
