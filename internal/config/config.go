package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Ai         AIConfig
	Retrieval  RetrievalConfig
	Resilience ResilienceConfig
	RateLimit  RateLimitConfig
}

type AppConfig struct {
	Port               string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type DatabaseConfig struct {
	Connection string
}

type RedisConfig struct {
	Enabled       bool
	Addr          string
	Password      string
	DB            int
	CheckpointTTL time.Duration
}

type AIConfig struct {
	LLMProvider       string // "gemini" or "ollama"
	LLMModel          string
	GeminiApiKey      string
	OllamaBaseURL     string
	EmbeddingProvider string // "gemini" or "ollama"
	EmbeddingModel    string
}

type RetrievalConfig struct {
	SpecificPartyLimit    int
	GeneralPlanLimit      int
	ComparisonPerParty    int
	ComparisonMaxTotal    int
	DefaultLimit          int
	ContextTruncateLength int
}

type ResilienceConfig struct {
	RetryMaxAttempts        int
	RetryInitialDelay       time.Duration
	RetryMaxDelay           time.Duration
	RetryExponentialBase    float64
	BreakerEnabled          bool
	BreakerFailureThreshold int
	BreakerRecoveryTimeout  time.Duration
	LLMTimeout              time.Duration
}

type RateLimitConfig struct {
	RequestsPerMinute int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "8000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		Redis: RedisConfig{
			Enabled:       getEnvAsBool("REDIS_ENABLED", false),
			Addr:          getEnv("REDIS_ADDR", "localhost:6379"),
			Password:      getEnv("REDIS_PASSWORD", ""),
			DB:            getEnvAsInt("REDIS_DB", 0),
			CheckpointTTL: getEnvAsDuration("CHECKPOINT_TTL", 1*time.Hour),
		},
		Ai: AIConfig{
			LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
			LLMModel:          getEnv("LLM_MODEL", "gemini-2.0-flash"),
			GeminiApiKey:      getEnv("GOOGLE_GEMINI_API_KEY", ""),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			EmbeddingProvider: getEnv("EMBEDDING_PROVIDER", "gemini"),
			EmbeddingModel:    getEnv("EMBEDDING_MODEL", "text-embedding-004"),
		},
		Retrieval: RetrievalConfig{
			SpecificPartyLimit:    getEnvAsInt("RAG_SPECIFIC_PARTY_LIMIT", 5),
			GeneralPlanLimit:      getEnvAsInt("RAG_GENERAL_PLAN_LIMIT", 15),
			ComparisonPerParty:    getEnvAsInt("RAG_COMPARISON_PER_PARTY", 2),
			ComparisonMaxTotal:    getEnvAsInt("RAG_COMPARISON_MAX_TOTAL", 40),
			DefaultLimit:          getEnvAsInt("RAG_DEFAULT_LIMIT", 5),
			ContextTruncateLength: getEnvAsInt("RAG_CONTEXT_TRUNCATE_LENGTH", 500),
		},
		Resilience: ResilienceConfig{
			RetryMaxAttempts:        getEnvAsInt("RETRY_MAX_ATTEMPTS", 3),
			RetryInitialDelay:       getEnvAsDuration("RETRY_INITIAL_DELAY", 1*time.Second),
			RetryMaxDelay:           getEnvAsDuration("RETRY_MAX_DELAY", 60*time.Second),
			RetryExponentialBase:    getEnvAsFloat("RETRY_EXPONENTIAL_BASE", 2),
			BreakerEnabled:          getEnvAsBool("CIRCUIT_BREAKER_ENABLED", true),
			BreakerFailureThreshold: getEnvAsInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", 5),
			BreakerRecoveryTimeout:  getEnvAsDuration("CIRCUIT_BREAKER_RECOVERY_TIMEOUT", 60*time.Second),
			LLMTimeout:              getEnvAsDuration("LLM_TIMEOUT", 30*time.Second),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 20),
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

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
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
