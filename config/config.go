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

	// PostgreSQL connection
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// External APIs
	YoutubeApiKey string
	OpenAIApiKey  string
	GeminiApiKey  string

	// SMTP credentials for OTP and certificate mails
	EmailSender string
	Password    string

	// Public base URL embedded in certificate QR codes
	PublicBaseURL string

	OTPExpireMinutes         int
	OTPResendCooldownSeconds int
}

// AppConfig is a global variable to access configuration
var AppConfig = &Config{}

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "credlyse"),
		DBPort:     getEnv("DB_PORT", "5432"),

		YoutubeApiKey: getEnv("YOUTUBE_API_KEY", ""),
		OpenAIApiKey:  getEnv("OPENAI_API_KEY", ""),
		GeminiApiKey:  getEnv("GEMINI_API_KEY", ""),

		EmailSender: getEnv("EMAIL_SENDER", ""),
		Password:    getEnv("EMAIL_PASSWORD", ""),

		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),

		OTPExpireMinutes:         getEnvInt("OTP_EXPIRE_MINUTES", 10),
		OTPResendCooldownSeconds: getEnvInt("OTP_RESEND_COOLDOWN_SECONDS", 60),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.YoutubeApiKey == "" {
		log.Println("Warning: YOUTUBE_API_KEY not set. Course imports will fail.")
	}
	if AppConfig.OpenAIApiKey == "" {
		log.Println("Warning: OPENAI_API_KEY not set. Quiz generation will fail.")
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
