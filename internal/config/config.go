package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultProbeSchedule checks the backend once a minute
const DefaultProbeSchedule = "@every 1m"

// Config holds all configuration for the application
type Config struct {
	// Backend API Configuration
	Backend BackendConfig

	// HTTP Server Configuration
	Server ServerConfig

	// Logging Configuration
	Logging LoggingConfig
}

// BackendConfig holds the credentials used to reach the backend REST API
type BackendConfig struct {
	BaseURL string // e.g. https://api.example.com (no /api/v1 suffix)
	APIKey  string // static key sent as the apiKey header on every call
}

// Configured reports whether both the base URL and the API key are set
func (b BackendConfig) Configured() bool {
	return b.BaseURL != "" && b.APIKey != ""
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           string
	Environment    string   // development, production
	AllowedOrigins []string // CORS origins
	RoutesFile     string   // optional YAML override for the route table
	ProbeSchedule  string   // cron schedule of the backend probe, "off" disables it
}

// Production reports whether the server runs in production mode.
// Session cookies are marked Secure only in production.
func (s ServerConfig) Production() bool {
	return strings.EqualFold(s.Environment, "production")
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// Backend - empty values are allowed, the proxy and page fetches degrade instead
	baseURL := firstEnv("API_BASE_URL", "NEXT_PUBLIC_API_BASE_URL")
	apiKey := firstEnv("API_KEY", "NEXT_PUBLIC_API_KEY")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	environment := firstEnv("APP_ENV", "NODE_ENV")
	if environment == "" {
		environment = "development"
	}

	probeSchedule := strings.TrimSpace(os.Getenv("BACKEND_PROBE_SCHEDULE"))
	if probeSchedule == "" {
		probeSchedule = DefaultProbeSchedule
	}

	origins := splitList(os.Getenv("CORS_ALLOWED_ORIGINS"))

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Backend: BackendConfig{
			BaseURL: strings.TrimRight(baseURL, "/"),
			APIKey:  apiKey,
		},
		Server: ServerConfig{
			Port:           port,
			Environment:    environment,
			AllowedOrigins: origins,
			RoutesFile:     os.Getenv("ROUTES_FILE"),
			ProbeSchedule:  probeSchedule,
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}

// firstEnv returns the first non-empty environment variable among keys
func firstEnv(keys ...string) string {
	for _, key := range keys {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	return ""
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
