package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Admin    AdminConfig
	Groq     GroqConfig
	Search   SearchConfig
	Context  ContextConfig
	Upload   UploadConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey  string
	Expiration time.Duration
}

// AdminConfig holds the single administrative account used to guard
// document-management routes. PasswordHash is a bcrypt hash.
type AdminConfig struct {
	Username     string
	PasswordHash string
}

type GroqConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

type SearchConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

type ContextConfig struct {
	CharBudget   int
	MaxDocuments int
	HistoryTurns int
	MaxEvidence  int
}

type UploadConfig struct {
	Dir string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env is fine: environment variables may be set directly (Docker/K8s)

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	jwtExp, _ := strconv.Atoi(getEnv("JWT_EXPIRATION_HOURS", "24"))
	groqTimeout, _ := strconv.Atoi(getEnv("GROQ_TIMEOUT", "60"))
	groqMaxTokens, _ := strconv.Atoi(getEnv("GROQ_MAX_TOKENS", "1024"))
	groqTemp, _ := strconv.ParseFloat(getEnv("GROQ_TEMPERATURE", "0.7"), 64)
	searchTimeout, _ := strconv.Atoi(getEnv("SEARCH_TIMEOUT", "15"))
	charBudget, _ := strconv.Atoi(getEnv("CONTEXT_CHAR_BUDGET", "12000"))
	maxDocuments, _ := strconv.Atoi(getEnv("CONTEXT_MAX_DOCUMENTS", "3"))
	historyTurns, _ := strconv.Atoi(getEnv("CONTEXT_HISTORY_TURNS", "6"))
	maxEvidence, _ := strconv.Atoi(getEnv("CONTEXT_MAX_EVIDENCE", "3"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "3000"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "asistente_normativo"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey:  getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			Expiration: time.Duration(jwtExp) * time.Hour,
		},
		Admin: AdminConfig{
			Username:     getEnv("ADMIN_USERNAME", "admin"),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		},
		Groq: GroqConfig{
			APIKey:      getEnv("GROQ_API_KEY", ""),
			BaseURL:     getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
			Model:       getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
			Temperature: groqTemp,
			MaxTokens:   groqMaxTokens,
			Timeout:     time.Duration(groqTimeout) * time.Second,
		},
		Search: SearchConfig{
			APIKey:  getEnv("SEARCH_API_KEY", ""),
			BaseURL: getEnv("SEARCH_BASE_URL", "https://api.tavily.com"),
			Timeout: time.Duration(searchTimeout) * time.Second,
		},
		Context: ContextConfig{
			CharBudget:   charBudget,
			MaxDocuments: maxDocuments,
			HistoryTurns: historyTurns,
			MaxEvidence:  maxEvidence,
		},
		Upload: UploadConfig{
			Dir: getEnv("UPLOAD_DIR", "uploads"),
		},
		Logger: LoggerConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
