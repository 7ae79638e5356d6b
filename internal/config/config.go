// File path: internal/config/config.go
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Settings holds every runtime knob, sourced from the environment. Provider
// keys left empty disable that provider.
type Settings struct {
	Addr string

	DefaultProvider string
	DefaultModel    string

	OpenAIKey     string
	OpenRouterKey string
	GroqKey       string
	GeminiKey     string

	DraftRatePerMinute int
	InvokeTimeout      time.Duration
	HistoryPath        string
}

// Load reads settings from the environment. GEMINI_API_KEY takes precedence
// over GOOGLE_API_KEY for the Gemini credential.
func Load() Settings {
	geminiKey := getenv("GEMINI_API_KEY", "")
	if geminiKey == "" {
		geminiKey = getenv("GOOGLE_API_KEY", "")
	}
	return Settings{
		Addr:               getenv("ADDR", ":8080"),
		DefaultProvider:    getenv("DEFAULT_PROVIDER", "openrouter"),
		DefaultModel:       getenv("DEFAULT_MODEL", "openrouter/auto"),
		OpenAIKey:          getenv("OPENAI_API_KEY", ""),
		OpenRouterKey:      getenv("OPENROUTER_API_KEY", ""),
		GroqKey:            getenv("GROQ_API_KEY", ""),
		GeminiKey:          geminiKey,
		DraftRatePerMinute: getInt("RATE_LIMIT_PER_MINUTE", 5),
		InvokeTimeout:      getDuration("PROVIDER_TIMEOUT", 45*time.Second),
		HistoryPath:        getenv("HISTORY_DB_PATH", "brief2bill.db"),
	}
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return v
}
