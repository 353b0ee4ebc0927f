package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port               string
	DatabaseURL        string
	AppEnv             string
	LogLevel           string
	BaseURL            string
	FrontendURL        string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	AllowedEmails      []string
	TrustProxy         bool // Honor X-Forwarded-For from the fronting proxy
	Tokens             TokenConfig
}

// TokenConfig holds the signing secret and lifetime of every token type.
type TokenConfig struct {
	Issuer         string
	AccessSecret   string
	RefreshSecret  string
	EmailSecret    string
	PasswordSecret string
	AccessTTL      time.Duration
	RefreshTTL     time.Duration
	EmailTTL       time.Duration
	PasswordTTL    time.Duration
}

func Load() *Config {
	_ = godotenv.Load() // Ignore error if .env not found (e.g. prod)

	return &Config{
		Port:               getEnv("PORT", "8080"),
		DatabaseURL:        getEnv("DATABASE_URL", "file:linkbio.sqlite"),
		AppEnv:             getEnv("APP_ENV", "local"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		BaseURL:            getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:        getEnv("FRONTEND_URL", "http://localhost:3000"),
		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv("GOOGLE_REDIRECT_URL", "http://localhost:8080/api/auth/google/callback"),
		AllowedEmails:      splitList(getEnv("ALLOWED_EMAILS", "")),
		TrustProxy:         getBool("TRUST_PROXY", false),
		Tokens: TokenConfig{
			Issuer:         getEnv("JWT_ISSUER", "linkbio-api"),
			AccessSecret:   getEnv("JWT_SECRET", "secret"),
			RefreshSecret:  getEnv("JWT_REFRESH_SECRET", "refresh-secret"),
			EmailSecret:    getEnv("JWT_EMAIL_SECRET", "email-secret"),
			PasswordSecret: getEnv("JWT_PASSWORD_SECRET", "password-secret"),
			AccessTTL:      getDuration("JWT_ACCESS_EXPIRES_IN", 15*time.Minute),
			RefreshTTL:     getDuration("JWT_REFRESH_EXPIRES_IN", 7*24*time.Hour),
			EmailTTL:       getDuration("JWT_EMAIL_EXPIRES_IN", time.Hour),
			PasswordTTL:    getDuration("JWT_PASSWORD_EXPIRES_IN", time.Hour),
		},
	}
}

// IsProduction reports whether cookies should be marked secure.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// getDuration accepts Go duration syntax plus a day suffix ("7d").
func getDuration(key string, fallback time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	d, err := ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

func ParseDuration(value string) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if days, ok := strings.CutSuffix(value, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(value)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
