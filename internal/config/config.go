package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const DefaultAPIURL = "http://127.0.0.1:8000/api"

type Config struct {
	Port               string
	APIURL             string
	APITimeout         time.Duration
	SessionDBDriver    string
	SessionDBDSN       string
	CookieSecure       bool
	MaxUploadBytes     int64
	GeminiAPIKey       string
	CORSAllowedOrigins []string
	OTLPEndpoint       string
	OTLPInsecure       bool
}

// Load reads the environment. Malformed numeric or boolean values fall back
// to their defaults instead of failing startup.
func Load() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	apiURL := strings.TrimSpace(os.Getenv("NEXTSTEP_API_URL"))
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	driver := strings.ToLower(strings.TrimSpace(os.Getenv("SESSION_DB_DRIVER")))
	if driver == "" {
		driver = "postgres"
	}

	return Config{
		Port:               port,
		APIURL:             strings.TrimRight(apiURL, "/"),
		APITimeout:         readDurationSeconds("API_TIMEOUT_SECONDS", 15),
		SessionDBDriver:    driver,
		SessionDBDSN:       os.Getenv("SESSION_DB_DSN"),
		CookieSecure:       readBool("SESSION_COOKIE_SECURE", false),
		MaxUploadBytes:     int64(readPositiveInt("MAX_UPLOAD_MB", 10)) << 20,
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		CORSAllowedOrigins: readList("CORS_ALLOWED_ORIGINS"),
		OTLPEndpoint:       strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:       readBool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
}

func readDurationSeconds(key string, fallback int) time.Duration {
	return time.Duration(readPositiveInt(key, fallback)) * time.Second
}

func readPositiveInt(key string, fallback int) int {
	if value := readInt(key, fallback); value > 0 {
		return value
	}
	return fallback
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}

func readList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
