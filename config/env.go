package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv           string
	Port             string
	JWTSecret        string
	JWTExpiry        string
	DefaultCountry   string
	GeoAPIURL        string
	CountryCookieTTL time.Duration
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cookieTTL, err := time.ParseDuration(getEnv("COUNTRY_COOKIE_TTL", "1h"))
	if err != nil {
		cookieTTL = time.Hour
	}

	AppConfig = &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		Port:             getEnv("APP_PORT", getEnv("PORT", "8082")),
		JWTSecret:        getEnv("JWT_SECRET", "secret"),
		JWTExpiry:        getEnv("JWT_EXPIRY", "24h"),
		DefaultCountry:   getEnv("DEFAULT_COUNTRY", "DZ"),
		GeoAPIURL:        getEnv("GEO_API_URL", "http://ip-api.com/json"),
		CountryCookieTTL: cookieTTL,
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
