// Package config loads all runtime settings from the environment.
// Secrets and connection details are never hardcoded; a .env file is
// honored when present.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	DatabaseURL       string
	SessionExpiryDays int
	Environment       string
	FrontendURL       string
}

// Load reads the environment (and .env, if any) into a Config.
func Load() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SessionExpiryDays: getEnvInt("SESSION_EXPIRY_DAYS", 7),
		Environment:       getEnv("ENVIRONMENT", "development"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = dsnFromParts()
	}
	return cfg
}

// dsnFromParts assembles a DSN from discrete POSTGRES_* variables when
// DATABASE_URL is not set.
func dsnFromParts() string {
	host := getEnv("POSTGRES_HOST", "localhost")
	port := getEnv("POSTGRES_PORT", "5432")
	user := getEnv("POSTGRES_USER", "postgres")
	password := os.Getenv("POSTGRES_PASSWORD")
	dbname := getEnv("POSTGRES_DB", "librem")

	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		host, user, password, dbname, port,
	)
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// CORSOrigins returns the allowed origins: production narrows to the
// frontend only, development adds localhost.
func (c *Config) CORSOrigins() []string {
	if c.IsProduction() {
		return []string{c.FrontendURL}
	}
	return []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		c.FrontendURL,
	}
}

// CookieSecure reports whether session cookies require HTTPS.
func (c *Config) CookieSecure() bool {
	return c.IsProduction()
}

// CookieSameSite: cross-site in production (frontend on another
// origin), lax in development.
func (c *Config) CookieSameSite() string {
	if c.IsProduction() {
		return "none"
	}
	return "lax"
}

// SessionMaxAge is the cookie/session lifetime in seconds.
func (c *Config) SessionMaxAge() int {
	return c.SessionExpiryDays * 24 * 60 * 60
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
