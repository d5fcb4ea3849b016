package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	DatabaseURL     string
	JWTSecret       string
	CORSAllowOrigin []string

	// Public base URL of this gateway, used to build verification links.
	GatewayBaseURL string

	// DICOM converter service.
	ConverterURL      string
	ConverterTokenKey string

	// Upstream HTTP call timeout in seconds (converter and predictors).
	UpstreamTimeoutSeconds int

	// Artifact (derived photo) storage.
	ObjectStoreType string
	LocalStoreDir   string
	LocalStoreURL   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string

	// Outbound mail.
	MailAPIKey    string
	MailBaseURL   string
	MailFromEmail string
	MailFromName  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of a local env file for dev convenience.
	_ = godotenv.Load()

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:            getEnv("PORT", "5000"),
		Env:             env,
		DatabaseURL:     dbURL,
		JWTSecret:       os.Getenv("JWT_SECRET"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:3000")),

		GatewayBaseURL: getEnv("GATEWAY_BASE_URL", "http://localhost:5000"),

		ConverterURL:      getEnv("DICOM_CONVERTER_URL", "http://localhost:8000"),
		ConverterTokenKey: getEnv("DICOM_CONVERTER_TOKEN_KEY", "DICOM_CONVERTER_ACCESS_TOKEN"),

		UpstreamTimeoutSeconds: getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),

		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		LocalStoreURL:   getEnv("LOCAL_STORE_URL", "http://localhost:5000/assets"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", "predictions"),

		MailAPIKey:    os.Getenv("MAIL_API_KEY"),
		MailBaseURL:   getEnv("MAIL_BASE_URL", "https://api.sendgrid.com"),
		MailFromEmail: getEnv("MAIL_FROM_EMAIL", ""),
		MailFromName:  getEnv("MAIL_FROM_NAME", "MED-Gateway"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
