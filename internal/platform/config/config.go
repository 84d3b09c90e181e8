// Package config builds per-service configuration from the environment so
// main stays lean. A .env file in the working directory is honored for local
// development.
package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Service captures one service process's configuration.
type Service struct {
	Name        string
	Addr        string
	Environment string

	DatabaseURL string
	JWTSecret   string
	JWTIssuer   string
	TokenTTL    time.Duration

	// Peer base URLs for cross-service existence checks, without trailing
	// slash (e.g. http://admin-service:8080).
	AdminBaseURL   string
	TeacherBaseURL string
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Service config for the named service.
func FromEnv(name string) Service {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Service{
		Name:           name,
		Addr:           getenv("HTTP_ADDR", ":8080"),
		Environment:    getenv("CAMPUS_ENV", "dev"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      getenv("JWT_SECRET", devSigningKey),
		JWTIssuer:      getenv("JWT_ISSUER", "campus"),
		TokenTTL:       15 * time.Minute,
		AdminBaseURL:   getenv("ADMIN_SERVICE_URL", "http://admin-service:8080"),
		TeacherBaseURL: getenv("TEACHER_SERVICE_URL", "http://teacher-service:8080"),
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		if duration, err := time.ParseDuration(ttl); err == nil {
			cfg.TokenTTL = duration
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
