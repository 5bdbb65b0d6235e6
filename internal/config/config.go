package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"strings" // For list parsing

	"github.com/joho/godotenv" // For loading .env files
)

// Config holds the application configuration
type Config struct {
	AppPort       string   // Application port
	DBUser        string   // Database user
	DBPassword    string   // Database password
	DBHost        string   // Database host
	DBPort        string   // Database port
	DBName        string   // Database name
	JWTSecret     string   // JWT secret key
	RedisAddr     string   // Redis server address
	RedisPass     string   // Redis password
	RedisDB       int      // Redis database number
	UploadDir     string   // Root directory for uploaded files
	MaxUploadSize int64    // Upload size limit in bytes
	ImageTypes    []string // Allowed image extensions
	VideoTypes    []string // Allowed video extensions
	IsProd        bool     // Is production environment
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		AppPort:       envOr("APP_PORT", "8000"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBHost:        os.Getenv("DB_HOST"),
		DBPort:        os.Getenv("DB_PORT"),
		DBName:        os.Getenv("DB_NAME"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPass:     os.Getenv("REDIS_PASS"),
		RedisDB:       redisDB,
		UploadDir:     envOr("UPLOAD_DIR", "./static/uploads"),
		MaxUploadSize: envInt64("MAX_UPLOAD_SIZE", 1<<30), // 1GB default
		ImageTypes:    envList("ALLOWED_IMAGE_TYPES", "jpg,jpeg,png,gif,webp"),
		VideoTypes:    envList("ALLOWED_VIDEO_TYPES", "mp4,avi,mov,flv"),
		IsProd:        os.Getenv("IS_PROD") == "true",
	}
}

// DSN builds the MySQL connection string from the database settings.
func (c *Config) DSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt64(key string, def int64) int64 {
	if v, err := strconv.ParseInt(os.Getenv(key), 10, 64); err == nil && v > 0 {
		return v
	}
	return def
}

func envList(key, def string) []string {
	raw := envOr(key, def)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
