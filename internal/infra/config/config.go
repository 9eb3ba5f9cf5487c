package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Env                 string
	Port                string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	LLMAPIURL           string
	LLMAPIKey           string
	LLMModel            string
	LLMTimeoutSeconds   int
	LLMTemperature      float64
	BooksAPIURL         string
	BooksAPIKey         string
	BooksTimeoutSeconds int
	AffiliateTag        string
	CacheTTLHours       int
	RecommendationCount int
	RefreshEnabled      bool
	RefreshIntervalMin  int
	OTelEnabled         bool
}

func Load() *Config {
	return &Config{
		Env:                 getEnv("ENV", "development"),
		Port:                getEnv("PORT", "9020"),
		DBHost:              getEnv("DB_HOST", "reco-db"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "reco_user"),
		DBPassword:          getSecret("DB_PASSWORD", "DB_PASSWORD_FILE", "reco_password"),
		DBName:              getEnv("DB_NAME", "reco_db"),
		LLMAPIURL:           getEnv("LLM_API_URL", "https://api.openai.com"),
		LLMAPIKey:           getSecret("LLM_API_KEY", "LLM_API_KEY_FILE", ""),
		LLMModel:            getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMTimeoutSeconds:   getEnvInt("LLM_TIMEOUT_SECONDS", 120),
		LLMTemperature:      getEnvFloat("LLM_TEMPERATURE", 0.7),
		BooksAPIURL:         getEnv("BOOKS_API_URL", "https://www.googleapis.com"),
		BooksAPIKey:         getSecret("BOOKS_API_KEY", "BOOKS_API_KEY_FILE", ""),
		BooksTimeoutSeconds: getEnvInt("BOOKS_TIMEOUT_SECONDS", 15),
		AffiliateTag:        getEnv("AMAZON_AFFILIATE_TAG", "readingnotes-20"),
		CacheTTLHours:       getEnvInt("CACHE_TTL_HOURS", 24),
		RecommendationCount: getEnvInt("RECOMMENDATION_COUNT", 15),
		RefreshEnabled:      getEnvBool("REFRESH_ENABLED", false),
		RefreshIntervalMin:  getEnvInt("REFRESH_INTERVAL_MINUTES", 60),
		OTelEnabled:         getEnvBool("OTEL_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
