package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type APIKeys struct {
	EmbedVariantTopic string // Embedding pipeline topic
}

// AIConfig holds both the provider wiring (primary answers, secondary is
// the failover) and the retrieval tuning knobs.
type AIConfig struct {
	PrimaryProvider   string // "openai" or "gemini"
	PrimaryBaseURL    string
	PrimaryApiKey     string
	PrimaryModel      string
	SecondaryProvider string
	SecondaryBaseURL  string
	SecondaryApiKey   string
	SecondaryModel    string

	EmbeddingProvider string // "openai" or "gemini"
	EmbeddingBaseURL  string
	EmbeddingApiKey   string
	EmbeddingModel    string

	SimilarityThreshold float64
	SemanticCacheMinSim float64
	MaxHistoryItems     int
	TopK                int
	RRFK                int
	CallTimeout         time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Keys: APIKeys{
			EmbedVariantTopic: getEnv("EMBED_VARIANT_TOPIC_NAME", "EMBED_VARIANT"),
		},
		Ai: AIConfig{
			PrimaryProvider:   getEnv("LLM_PRIMARY_PROVIDER", "openai"),
			PrimaryBaseURL:    getEnv("LLM_PRIMARY_BASE_URL", "https://api.openai.com"),
			PrimaryApiKey:     getEnv("LLM_PRIMARY_API_KEY", ""),
			PrimaryModel:      getEnv("LLM_PRIMARY_MODEL", "gpt-4o-mini"),
			SecondaryProvider: getEnv("LLM_SECONDARY_PROVIDER", "gemini"),
			SecondaryBaseURL:  getEnv("LLM_SECONDARY_BASE_URL", "https://generativelanguage.googleapis.com"),
			SecondaryApiKey:   getEnv("LLM_SECONDARY_API_KEY", ""),
			SecondaryModel:    getEnv("LLM_SECONDARY_MODEL", "gemini-1.5-flash"),

			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", "https://generativelanguage.googleapis.com"),
			EmbeddingApiKey:   getEnv("EMBEDDING_API_KEY", ""),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-004"),

			SimilarityThreshold: getEnvAsFloat("SIMILARITY_THRESHOLD", 0.8),
			SemanticCacheMinSim: getEnvAsFloat("SEMANTIC_CACHE_MIN_SIMILARITY", 0.95),
			MaxHistoryItems:     getEnvAsInt("MAX_HISTORY_ITEMS", 10),
			TopK:                getEnvAsInt("RETRIEVAL_TOP_K", 5),
			RRFK:                getEnvAsInt("RRF_K", 3),
			CallTimeout:         getEnvAsDuration("LLM_CALL_TIMEOUT", 30*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
