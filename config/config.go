package config

import (
	"errors"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	ServerPort  string

	DatabaseURL string
	DBHost      string
	DBPort      int
	DBUser      string
	DBPassword  string
	DBName      string

	// JWTSecret verifies Supabase access tokens.
	JWTSecret string

	AnthropicAPIKey    string
	AnthropicModel     string
	AnthropicMaxTokens int
	AnthropicBaseURL   string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	StripeSecretKey     string
	StripePriceID       string
	StripeWebhookSecret string

	FreeQuizLimit int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbPort, err := getEnvInt("DB_PORT", 5432)
	if err != nil {
		return nil, err
	}
	maxTokens, err := getEnvInt("ANTHROPIC_MAX_TOKENS", 4000)
	if err != nil {
		return nil, err
	}
	freeLimit, err := getEnvInt("FREE_QUIZ_LIMIT", 5)
	if err != nil {
		return nil, err
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		ServerPort:  getEnv("PORT", "8080"),

		DatabaseURL: getEnv("DATABASE_URL", ""),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      dbPort,
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "simquiz"),

		JWTSecret: getEnv("SUPABASE_JWT_SECRET", getEnv("JWT_SECRET", "")),

		AnthropicAPIKey:    getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:     getEnv("ANTHROPIC_MODEL", ""),
		AnthropicMaxTokens: maxTokens,
		AnthropicBaseURL:   getEnv("ANTHROPIC_BASE_URL", ""),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripePriceID:       getEnv("STRIPE_PRICE_ID", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		FreeQuizLimit: freeLimit,
	}, nil
}

// Validate reports the first missing setting the server cannot start without.
// Optional integrations (LLM, transcription, billing) fail per request instead.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" && c.DBPassword == "" {
		return errors.New("DB_PASSWORD or DATABASE_URL environment variable is required")
	}
	if c.JWTSecret == "" {
		return errors.New("SUPABASE_JWT_SECRET environment variable is required")
	}
	if c.FreeQuizLimit < 1 {
		return errors.New("FREE_QUIZ_LIMIT must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return n, nil
}
