package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	UploadDir      string
	AllowedOrigins []string
	DefaultQuality int
	MaxUploadMB    int
	UseJpegli      bool
}

func Load() *Config {
	godotenv.Load(".env")

	return &Config{
		Port:           getEnv("PORT", "8080"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		DefaultQuality: getEnvInt("DEFAULT_QUALITY", 50),
		MaxUploadMB:    getEnvInt("MAX_UPLOAD_MB", 32),
		UseJpegli:      getEnvBool("JPEGLI", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
