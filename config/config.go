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

	// AI tutor provider (chat-completions style API)
	AIProviderURL  string
	AIProviderKey  string
	AIDefaultModel string
	AITimeoutSecs  int
	AIRetryCount   int

	EmailSender    string
	Password       string // SMTP Password
	SendGridApiKey string // When set, emails go through SendGrid instead of SMTP

	UploadDir       string
	MaxUploadSizeMB int

	// TNA analytics defaults
	TNASessionGapMins int
	TNAPruneThreshold float64
	TNADecayFactor    float64
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

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

		AIProviderURL:  getEnv("AI_PROVIDER_URL", "https://api.openai.com/v1/chat/completions"),
		AIProviderKey:  getEnv("AI_PROVIDER_KEY", ""),
		AIDefaultModel: getEnv("AI_DEFAULT_MODEL", "gpt-4o-mini"),
		AITimeoutSecs:  getEnvInt("AI_TIMEOUT_SECS", 30),
		AIRetryCount:   getEnvInt("AI_RETRY_COUNT", 2),

		EmailSender:    getEnv("EMAIL_SENDER", "defaultSecret"),
		Password:       getEnv("PASSWORD", "defaultSecret"),
		SendGridApiKey: getEnv("SENDGRID_API_KEY", ""),

		UploadDir:       getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadSizeMB: getEnvInt("MAX_UPLOAD_SIZE_MB", 25),

		TNASessionGapMins: getEnvInt("TNA_SESSION_GAP_MINS", 30),
		TNAPruneThreshold: getEnvFloat("TNA_PRUNE_THRESHOLD", 0.05),
		TNADecayFactor:    getEnvFloat("TNA_DECAY_FACTOR", 0.9),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AIProviderKey == "" {
		log.Println("Warning: AI_PROVIDER_KEY not set. Chatbot replies will fail until configured.")
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

// getEnvFloat retrieves an environment variable as a float or returns the default float value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		log.Printf("Error converting environment variable %s to float: %v", key, err)
		return defaultValue
	}
	return floatValue
}
