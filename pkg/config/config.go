package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultPromptsFile = "config/interview.yaml"

type Config struct {
	Port     string
	LogLevel string

	// LLMProvider выбирает чат-провайдера для генерации: "openai" или "gemini".
	LLMProvider     string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAITTSModel  string
	GeminiAPIKey    string
	GeminiModel     string
	UpstreamTimeout time.Duration

	NavigationDelay time.Duration
	SessionTTL      time.Duration

	// StorageDriver: memory, file, postgres, redis или s3.
	StorageDriver string
	HistoryDir    string
	DatabaseURL   string
	RedisURL      string
	S3            S3Config

	RabbitMQURL    string
	EventsExchange string

	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	CORSOrigins string

	Prompts Prompts
}

type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Prefix    string
}

// Load читает переменные окружения (и .env, если он есть),
// а также настройки промптов из PROMPTS_FILE.
func Load() (Config, error) {
	// Пробуем загрузить .env; отсутствие файла не ошибка
	_ = godotenv.Load()

	cfg := Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		LLMProvider:     strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:     getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),
		OpenAITTSModel:  getEnv("OPENAI_TTS_MODEL", "tts-1"),
		GeminiAPIKey:    os.Getenv("GEMINI_API_KEY"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		UpstreamTimeout: getEnvDuration("UPSTREAM_TIMEOUT", 60*time.Second),

		NavigationDelay: getEnvDuration("NAVIGATION_DELAY", 500*time.Millisecond),
		SessionTTL:      getEnvDuration("SESSION_TTL", 24*time.Hour),

		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", "file")),
		HistoryDir:    getEnv("HISTORY_DIR", "data/history"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		S3: S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			Region:    getEnv("S3_REGION", "auto"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Prefix:    getEnv("S3_PREFIX", "interview-rally/"),
		},

		RabbitMQURL:    os.Getenv("RABBITMQ_URL"),
		EventsExchange: getEnv("EVENTS_EXCHANGE", "interview_events"),

		JWTSecret:     getEnv("JWT_SECRET", "dev-secret-change"),
		JWTIssuer:     getEnv("JWT_ISSUER", "interview-rally"),
		JWTTTLMinutes: getEnvInt("JWT_TTL_MINUTES", 60*24*30),

		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
	}

	promptsFile := os.Getenv("PROMPTS_FILE")
	switch {
	case promptsFile != "":
		p, err := LoadPrompts(promptsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Prompts = p
	case fileExists(defaultPromptsFile):
		p, err := LoadPrompts(defaultPromptsFile)
		if err != nil {
			return Config{}, err
		}
		cfg.Prompts = p
	default:
		cfg.Prompts = DefaultPrompts()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate проверяет настройки, которые иначе упали бы только при первом использовании.
func (c Config) Validate() error {
	switch c.LLMProvider {
	case "openai":
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("unknown LLM_PROVIDER %q", c.LLMProvider)
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("UPSTREAM_TIMEOUT must be positive")
	}
	if c.NavigationDelay < 0 {
		return fmt.Errorf("NAVIGATION_DELAY cannot be negative")
	}
	switch c.StorageDriver {
	case "memory", "file":
	case "postgres":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required when STORAGE_DRIVER=redis")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
