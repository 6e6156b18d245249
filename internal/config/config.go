package config

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	Env              string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	DatabaseURL      string
	FrontendURL      string
	AllowedHosts     []string
	LogLevel         string
	LogFormat        string
	RateLimit        int
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found")
	}

	return FromEnv()
}

// FromEnv reads the configuration from the process environment only.
func FromEnv() *Config {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", getEnv("APP_ENV", "development")),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "postgres"),
		PostgresDB:       getEnv("POSTGRES_DB", "todos"),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost:5432"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		FrontendURL:      getEnv("FRONTEND_URL", "*"),
		AllowedHosts:     splitList(os.Getenv("ALLOWED_HOSTS")),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
		RateLimit:        getEnvInt("RATE_LIMIT", 0),
	}
	return cfg
}

// IsDevelopment reports whether internals (tracebacks, raw messages) may be
// exposed to clients.
func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development":
		return true
	}
	return false
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production") || strings.EqualFold(c.Env, "prod")
}

// DSN returns the connection string for the pgx driver. DATABASE_URL wins;
// otherwise it is assembled from the POSTGRES_* parts.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return normalizeURL(c.DatabaseURL)
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// normalizeURL strips driver suffixes such as "postgresql+asyncpg://" that
// some deployments carry over from other stacks.
func normalizeURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	if base, _, found := strings.Cut(scheme, "+"); found {
		scheme = base
	}
	return fmt.Sprintf("%s://%s", scheme, rest)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
