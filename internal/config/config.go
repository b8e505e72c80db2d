package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Port           string
	MongoURI       string
	RedisAddr      string
	RedisPassword  string
	JWTSecret      string
	JWTExpiry      string
	AllowedOrigins []string
	// AdminPasswordHash is the bcrypt hash the console session login checks
	// against. There is a single operator login; per-user accounts live in
	// the users table for display and scoping only.
	AdminPasswordHash string
	DefaultCityID     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, reading environment directly")
	}

	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		logrus.Fatal("MONGO_URI environment variable is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173"
	}
	origins := strings.Split(allowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return &Config{
		Port:              port,
		MongoURI:          mongoURI,
		RedisAddr:         redisAddr,
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTExpiry:         os.Getenv("JWT_EXPIRY"),
		AllowedOrigins:    origins,
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		DefaultCityID:     os.Getenv("DEFAULT_CITY_ID"),
	}
}
