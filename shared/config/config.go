package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// API
	Port        string
	FrontendURL string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret      string
	JWTExpireHours string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// Background queue
	QueueName string

	// Login/Register Rate Limiting
	AuthRateLimitMaxAttempts   string
	AuthRateLimitWindowSeconds string
}

// Load reads configuration from the environment (and .env when present) and
// returns it. The result is constructed once at process start and passed
// into each component explicitly.
func Load() *Config {
	envPaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			log.Printf("✅ Environment loaded from: %s", path)
			envLoaded = true
			break
		}
	}

	if !envLoaded {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg := &Config{
		Port:        getEnv("PORT", "8000"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "b2bak"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "your-secret-key-change-this"),
		JWTExpireHours: getEnv("JWT_EXPIRE_HOURS", "12"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		QueueName: getEnv("QUEUE_NAME", "b2bak"),

		AuthRateLimitMaxAttempts:   getEnv("AUTH_RATE_LIMIT_MAX_ATTEMPTS", "10"),
		AuthRateLimitWindowSeconds: getEnv("AUTH_RATE_LIMIT_WINDOW_SECONDS", "60"),
	}

	log.Println("✅ Configuration loaded successfully")
	return cfg
}

// GetJWTExpireHours returns the token lifetime as integer hours.
func (c *Config) GetJWTExpireHours() int {
	if value, err := strconv.Atoi(c.JWTExpireHours); err == nil {
		return value
	}
	return 12
}

// GetAuthRateLimitMaxAttempts returns the login/register attempt ceiling.
func (c *Config) GetAuthRateLimitMaxAttempts() int {
	if value, err := strconv.Atoi(c.AuthRateLimitMaxAttempts); err == nil {
		return value
	}
	return 10
}

// GetAuthRateLimitWindowSeconds returns the rate limit window.
func (c *Config) GetAuthRateLimitWindowSeconds() int {
	if value, err := strconv.Atoi(c.AuthRateLimitWindowSeconds); err == nil {
		return value
	}
	return 60
}

// GetRedisDB returns the redis database index.
func (c *Config) GetRedisDB() int {
	if value, err := strconv.Atoi(c.RedisDB); err == nil {
		return value
	}
	return 0
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
