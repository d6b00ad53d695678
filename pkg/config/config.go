package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port      string
	JWTSecret string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	FirebaseCredentials string
	SlackWebhookURL     string

	RedisAddr     string
	RedisPassword string

	RAGBaseURL string
	RAGTimeout time.Duration

	// Hour of day (0-23) for the daily maintenance sweep.
	SchedulerHour int
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()

	ragTimeout := 60 * time.Second
	if t := os.Getenv("RAG_TIMEOUT"); t != "" {
		if parsed, err := time.ParseDuration(t); err == nil {
			ragTimeout = parsed
		}
	}

	schedulerHour := 6
	if h := os.Getenv("SCHEDULER_HOUR"); h != "" {
		if parsed, err := strconv.Atoi(h); err == nil && parsed >= 0 && parsed <= 23 {
			schedulerHour = parsed
		}
	}

	return &Config{
		Port:                getEnv("PORT", "8080"),
		JWTSecret:           getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "5432"),
		DBUser:              getEnv("DB_USER", "postgres"),
		DBPassword:          getEnv("DB_PASSWORD", "postgres"),
		DBName:              getEnv("DB_NAME", "iotplatform"),
		DBSSLMode:           getEnv("DB_SSLMODE", "disable"),
		FirebaseCredentials: getEnv("FIREBASE_CREDENTIALS", ""),
		SlackWebhookURL:     getEnv("SLACK_WEBHOOK_URL", ""),
		RedisAddr:           getEnv("REDIS_ADDR", ""),
		RedisPassword:       getEnv("REDIS_PASSWORD", ""),
		RAGBaseURL:          getEnv("RAG_BASE_URL", ""),
		RAGTimeout:          ragTimeout,
		SchedulerHour:       schedulerHour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
