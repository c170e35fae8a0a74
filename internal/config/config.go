package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// CORS origins allowed to call the public intake endpoint.
	CORSAllowedOrigins []string

	// Per-identity window enforced by the intake endpoint.
	RateLimitWindow time.Duration

	// Coarse per-IP guard applied in front of the whole router.
	HTTPRateLimitPerSecond float64
	HTTPRateLimitBurst     int

	MaxBodyBytes int64

	// Email provider: "ses", "sendgrid", or "" to disable notifications.
	EmailProvider    string
	NotifyRecipients []string

	SESFromEmail string
	SESFromName  string

	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	AdminJWTSecret string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", nil),

		RateLimitWindow: getEnvAsDuration("RATE_LIMIT_WINDOW", 60*time.Second),

		HTTPRateLimitPerSecond: getEnvAsFloat("HTTP_RATE_LIMIT_PER_SECOND", 5),
		HTTPRateLimitBurst:     getEnvAsInt("HTTP_RATE_LIMIT_BURST", 20),

		MaxBodyBytes: int64(getEnvAsInt("INTAKE_MAX_BODY_BYTES", 64*1024)),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", ""))),
		NotifyRecipients: getEnvAsList("NOTIFY_RECIPIENTS", nil),

		SESFromEmail: getEnv("SES_FROM_EMAIL", ""),
		SESFromName:  getEnv("SES_FROM_NAME", "GridLight Solar"),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "GridLight Solar"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	raw := getEnv(key, "")
	if strings.TrimSpace(raw) == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
