package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	SMTP     SMTPConfig
	Ai       AIConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	ClientURL          string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
}

type DatabaseConfig struct {
	Connection string
}

type SMTPConfig struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

type AIConfig struct {
	GeminiAPIKey  string
	GeminiModel   string
	VisionModel   string
	LLMProvider   string // "gemini" or "ollama"
	OllamaBaseURL string
	OllamaModel   string
}

type StorageConfig struct {
	GCSBucket string // empty selects local-filesystem mode
	LocalDir  string
}

type PipelineConfig struct {
	OcrLanguage   string
	RasterDPI     int
	CacheTTLMins  int
	PreferredMode string // "ocr" or "ai": non-direct extraction route tried first
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			ClientURL:          getEnv("CLIENT_URL", "http://localhost:5173"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
			NatsURL:            getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:           getEnv("REDIS_URL", "redis://localhost:6379"),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "StudyPrep"),
		},
		Ai: AIConfig{
			GeminiAPIKey:  getEnv("GOOGLE_GEMINI_API_KEY", ""),
			GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
			VisionModel:   getEnv("GEMINI_VISION_MODEL", "gemini-2.0-flash"),
			LLMProvider:   getEnv("LLM_PROVIDER", "gemini"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3"),
		},
		Storage: StorageConfig{
			GCSBucket: getEnv("GCS_BUCKET", ""),
			LocalDir:  getEnv("UPLOAD_DIR", "./uploads"),
		},
		Pipeline: PipelineConfig{
			OcrLanguage:   getEnv("OCR_LANGUAGE", "eng"),
			RasterDPI:     getEnvAsInt("RASTER_DPI", 300),
			CacheTTLMins:  getEnvAsInt("UPLOAD_CACHE_TTL_MINUTES", 30),
			PreferredMode: getEnv("EXTRACTION_MODE", "ocr"),
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
