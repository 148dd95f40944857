package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env file if it exists (silently ignore if not found)
	_ = godotenv.Load()
}

type Config struct {
	// Language model
	LLMProvider       string // "gemini" or "claude"
	GeminiAPIKey      string
	GeminiModel       string
	AnthropicAPIKey   string
	ClaudeModel       string
	ClaudeTemperature float64

	// Google Calendar
	GoogleServiceAccountJSON string
	GoogleServiceAccountFile string
	GoogleCredentialsFile    string
	GoogleTokenFile          string
	CalendarID               string
	Timezone                 string

	// Server
	HTTPPort          int
	DBPath            string
	DevMode           bool
	ChatRatePerMinute int
	ChatRateBurst     int
	// Honour X-Forwarded-For / X-Real-IP. Only safe behind a proxy that
	// overwrites them.
	TrustProxyHeaders bool

	// Sessions
	SessionTTL         time.Duration
	MaxSessions        int
	MessageHistorySize int
	TurnTimeout        time.Duration

	// Notifications
	ResendAPIKey string
	EmailFrom    string
	NotifyEmail  string
}

func LoadFromEnv() *Config {
	cfg := &Config{
		LLMProvider:       getEnvOrDefault("ASSISTANT_LLM_PROVIDER", "gemini"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       getEnvOrDefault("ASSISTANT_GEMINI_MODEL", "gemini-1.5-flash"),
		AnthropicAPIKey:   os.Getenv("ANTHROPIC_API_KEY"),
		ClaudeModel:       getEnvOrDefault("ASSISTANT_CLAUDE_MODEL", "claude-sonnet-4-20250514"),
		ClaudeTemperature: getEnvAsFloatOrDefault("ASSISTANT_CLAUDE_TEMPERATURE", 0.7),

		GoogleServiceAccountJSON: os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"),
		GoogleServiceAccountFile: os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"),
		GoogleCredentialsFile:    getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "./credentials.json"),
		GoogleTokenFile:          getEnvOrDefault("GOOGLE_TOKEN_FILE", "./token.json"),
		CalendarID:               getEnvOrDefault("CALENDAR_ID", "primary"),
		Timezone:                 os.Getenv("TIMEZONE"),

		HTTPPort:          getEnvAsIntOrDefault("ASSISTANT_HTTP_PORT", 8000),
		DBPath:            getEnvOrDefault("ASSISTANT_DB_PATH", "./assistant.db"),
		DevMode:           getEnvAsBoolOrDefault("ASSISTANT_DEV_MODE", false),
		ChatRatePerMinute: getEnvAsIntOrDefault("ASSISTANT_CHAT_RATE_PER_MINUTE", 60),
		ChatRateBurst:     getEnvAsIntOrDefault("ASSISTANT_CHAT_RATE_BURST", 10),
		TrustProxyHeaders: getEnvAsBoolOrDefault("ASSISTANT_TRUST_PROXY_HEADERS", false),

		SessionTTL:         getEnvAsDurationOrDefault("ASSISTANT_SESSION_TTL", 30*time.Minute),
		MaxSessions:        getEnvAsIntOrDefault("ASSISTANT_MAX_SESSIONS", 10000),
		MessageHistorySize: getEnvAsIntOrDefault("ASSISTANT_MESSAGE_HISTORY_SIZE", 25),
		TurnTimeout:        getEnvAsDurationOrDefault("ASSISTANT_TURN_TIMEOUT", 30*time.Second),

		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		EmailFrom:    getEnvOrDefault("ASSISTANT_EMAIL_FROM", "Calendar Assistant <assistant@resend.dev>"),
		NotifyEmail:  os.Getenv("ASSISTANT_NOTIFY_EMAIL"),
	}

	return cfg
}

// HasServiceAccount reports whether service account credentials were supplied.
func (c *Config) HasServiceAccount() bool {
	return c.GoogleServiceAccountJSON != "" || c.GoogleServiceAccountFile != ""
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
