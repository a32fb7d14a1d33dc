package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	JWTSecret string // Required: HMAC secret for session tokens

	DatabaseFile string // Optional: path to SQLite database file (default: ./milesto.db)
	PepperFile   string // Optional: path to file containing pepper for password hashing (default: ./pepper)
	FrontendURL  string // Optional: base URL for links embedded in email (default: http://localhost:5173)

	SendGridAPIKey string // Optional: enables invitation and reset email when set
	EmailFrom      string // Optional: sender address for outgoing email

	GeminiAPIKey string // Optional: enables AI dashboard insights when set

	CloudinaryCloudName string // Optional: enables document uploads when all three are set
	CloudinaryAPIKey    string
	CloudinaryAPISecret string

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		JWTSecret: os.Getenv("JWT_SECRET"),

		DatabaseFile: getEnvOrDefault("DATABASE_FILE", "milesto.db"),
		PepperFile:   getEnvOrDefault("PEPPER_FILE", "pepper"),
		FrontendURL:  getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:      getEnvOrDefault("EMAIL_FROM", "noreply@milesto.app"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),

		CloudinaryCloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryAPIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		CloudinaryAPISecret: os.Getenv("CLOUDINARY_API_SECRET"),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
