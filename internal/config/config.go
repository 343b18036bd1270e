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
	Paystack PaystackConfig
	Admin    AdminConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
	NatsURL            string
	RedisURL           string
	// Conversations idle past this many hours are eligible for the reaper.
	SessionRetentionHours int
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

type PaystackConfig struct {
	SecretKey      string
	PublicKey      string
	BaseURL        string
	TimeoutSeconds int
}

type AdminConfig struct {
	Email        string
	PasswordHash string // bcrypt
	JwtSecret    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                  getEnv("APP_PORT", "3000"),
			BaseURL:               getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:           getEnv("GO_ENV", "development"),
			LogFilePath:           getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins:    getEnv("CORS_ALLOWED_ORIGINS", "*"),
			NatsURL:               getEnv("NATS_URL", "nats://localhost:4222"),
			RedisURL:              getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionRetentionHours: getEnvAsInt("SESSION_RETENTION_HOURS", 24),
		},
		Database: DatabaseConfig{
			Connection: getEnv("DB_CONNECTION_STRING", ""),
		},
		SMTP: SMTPConfig{
			Host:       getEnv("SMTP_HOST", ""),
			Port:       getEnvAsInt("SMTP_PORT", 587),
			Email:      getEnv("SMTP_EMAIL", ""),
			Password:   getEnv("SMTP_PASSWORD", ""),
			SenderName: getEnv("SMTP_SENDER_NAME", "ChowBot"),
		},
		Paystack: PaystackConfig{
			SecretKey:      getEnv("PAYSTACK_SECRET_KEY", ""),
			PublicKey:      getEnv("PAYSTACK_PUBLIC_KEY", ""),
			BaseURL:        getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			TimeoutSeconds: getEnvAsInt("PAYSTACK_TIMEOUT_SECONDS", 15),
		},
		Admin: AdminConfig{
			Email:        getEnv("ADMIN_EMAIL", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JwtSecret:    getEnv("JWT_SECRET", ""),
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
