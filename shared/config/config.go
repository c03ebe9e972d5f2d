package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret string

	// Service
	APIServiceURL string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       string

	// MinIO Configuration
	MinIOServerURL    string
	MinIORootUser     string
	MinIORootPassword string
	MinIOUseSSL       bool
	MinIOBucketName   string

	// File uploads
	FileMaxUploadBytes    string
	FileAllowedTypes      string
	FileAllowedImageTypes string

	// Team capability aggregation
	RequiredCapabilities string
}

var cfg *Config

// LoadConfig loads configuration from environment variables
func LoadConfig() {
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

	cfg = &Config{
		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "marketplace"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-this"),

		// Service
		APIServiceURL: getEnv("API_SERVICE_URL", "http://localhost:8080"),

		// Redis
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),

		// MinIO Configuration
		MinIOServerURL:    getEnv("MINIO_SERVER_URL", "http://localhost:9000"),
		MinIORootUser:     getEnv("MINIO_ROOT_USER", "minioadmin"),
		MinIORootPassword: getEnv("MINIO_ROOT_PASSWORD", "minioadmin"),
		MinIOUseSSL:       getEnvAsBool("MINIO_USE_SSL", false),
		MinIOBucketName:   getEnv("MINIO_BUCKET_NAME", "marketplace-files"),

		// File uploads
		FileMaxUploadBytes:    getEnv("FILE_MAX_UPLOAD_BYTES", "10485760"),
		FileAllowedTypes:      getEnv("FILE_ALLOWED_TYPES", ".pdf,.doc,.docx,.txt,.jpg,.jpeg,.png,.svg"),
		FileAllowedImageTypes: getEnv("FILE_ALLOWED_IMAGE_TYPES", ".jpg,.jpeg,.png,.svg"),

		// The capability tags an organization's active members must cover
		// before it qualifies for sprint-with-us opportunities.
		RequiredCapabilities: getEnv("REQUIRED_CAPABILITIES",
			"Agile Coaching,Delivery Management,Frontend Development,Backend Development,DevOps Engineering,Security Engineering,Technical Architecture,User Experience Design,User Research"),
	}

	log.Println("✅ Configuration loaded successfully")
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	if cfg == nil {
		LoadConfig()
	}
	return cfg
}

// GetRequiredCapabilities returns the capability set organizations must cover.
func (c *Config) GetRequiredCapabilities() []string {
	parts := strings.Split(c.RequiredCapabilities, ",")
	capabilities := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			capabilities = append(capabilities, trimmed)
		}
	}
	return capabilities
}

// GetFileMaxUploadBytes returns the upload size limit as an integer.
func (c *Config) GetFileMaxUploadBytes() int64 {
	if value, err := strconv.ParseInt(c.FileMaxUploadBytes, 10, 64); err == nil {
		return value
	}
	return 10 << 20
}

// GetFileAllowedTypes returns the allowed upload extensions.
func (c *Config) GetFileAllowedTypes() []string {
	return splitExtensions(c.FileAllowedTypes)
}

// GetFileAllowedImageTypes returns the extensions accepted where a file
// reference must be an image (logos, avatars).
func (c *Config) GetFileAllowedImageTypes() []string {
	return splitExtensions(c.FileAllowedImageTypes)
}

func splitExtensions(csv string) []string {
	parts := strings.Split(csv, ",")
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			types = append(types, strings.ToLower(trimmed))
		}
	}
	return types
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
