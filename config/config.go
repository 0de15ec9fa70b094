package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	FrontendURL string
	BackendURL  string

	UploadDir string

	GeminiApiKey string
	GeminiApiUrl string

	BkashBaseURL string
	BkashAppKey  string

	SSLCommerzBaseURL       string
	SSLCommerzStoreID       string
	SSLCommerzStorePassword string

	EmailSender string
	Password    string // SMTP app password
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables.
// Database settings and the JWT secret have no fallback defaults: the
// process refuses to start without them.
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    mustEnv("JWT_SECRET_KEY"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     mustEnv("DB_HOST"),
		DBUser:     mustEnv("DB_USER"),
		DBPassword: mustEnv("DB_PASSWORD"),
		DBName:     mustEnv("DB_NAME"),
		DBPort:     getEnv("DB_PORT", "5432"),

		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:4200"),
		BackendURL:  getEnv("BACKEND_URL", "http://localhost:3000"),

		UploadDir: getEnv("UPLOAD_DIR", "uploads"),

		GeminiApiKey: getEnv("GEMINI_API_KEY", ""),
		GeminiApiUrl: getEnv("GEMINI_API_URL", "https://generativelanguage.googleapis.com"),

		BkashBaseURL: getEnv("BKASH_BASE_URL", "https://tokenized.sandbox.bka.sh/v1.2.0-beta"),
		BkashAppKey:  getEnv("BKASH_APP_KEY", ""),

		SSLCommerzBaseURL:       getEnv("SSLCOMMERZ_BASE_URL", "https://sandbox.sslcommerz.com"),
		SSLCommerzStoreID:       getEnv("SSLCOMMERZ_STORE_ID", ""),
		SSLCommerzStorePassword: getEnv("SSLCOMMERZ_STORE_PASSWORD", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("PASSWORD", ""),
	}

	if AppConfig.GeminiApiKey == "" {
		log.Println("Warning: GEMINI_API_KEY is not set. Document generation and IELTS evaluation will fail.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// mustEnv retrieves a required environment variable or exits the process
func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
