package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Upstream LLM. These are optional on purpose: an unconfigured
	// deployment must still answer every request, via the fallback path,
	// instead of refusing to start.
	MistralBaseURL string
	MistralAPIKey  string
	MistralModel   string
	MistralModels  []string
	MaxTokens      int
	ConcurrentReqs int

	// Web search (DuckDuckGo via RapidAPI)
	RapidAPIHost string
	RapidAPIKey  string

	// Redis (optional; only used to cache search results)
	RedisURL string

	// Persona system prompt prepended to unaugmented conversations.
	// Empty disables it.
	SystemPrompt string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	return &Config{
		Port:           getEnvOrDefault("PORT", "8080"),
		Env:            getEnvOrDefault("ENV", "development"),
		MistralBaseURL: getEnvOrDefault("MISTRAL_BASE_URL", "https://api.mistral.ai/v1"),
		MistralAPIKey:  os.Getenv("MISTRAL_API_KEY"),
		MistralModel:   getEnvOrDefault("MISTRAL_MODEL", "mistral-tiny"),
		MistralModels:  getEnvAsListOrDefault("MISTRAL_MODELS", []string{"mistral-tiny", "mistral-small", "mistral-medium"}),
		MaxTokens:      getEnvAsIntOrDefault("MISTRAL_MAX_TOKENS", 16384),
		ConcurrentReqs: getEnvAsIntOrDefault("MISTRAL_CONCURRENT_REQUESTS", 5),
		RapidAPIHost:   getEnvOrDefault("RAPIDAPI_HOST", "duckduckgo8.p.rapidapi.com"),
		RapidAPIKey:    os.Getenv("RAPIDAPI_KEY"),
		RedisURL:       os.Getenv("REDIS_URL"),
		SystemPrompt:   os.Getenv("SYSTEM_PROMPT"),
		FrontendURL:    getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}

	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
