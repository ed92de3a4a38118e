// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"].
	CORSOrigins []string

	// AccessTokenSecret and RefreshTokenSecret sign the session JWTs. Required.
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration

	// CookieSecure sets the Secure flag on the session cookies.
	CookieSecure bool

	// MaxBodyBytes caps request bodies, image uploads included.
	MaxBodyBytes int64

	// Cloudinary is used for image storage when all three values are set;
	// otherwise images are written to UploadDir and served under PublicBaseURL.
	CloudinaryCloudName string
	CloudinaryAPIKey    string
	CloudinaryAPISecret string
	UploadDir           string
	PublicBaseURL       string

	// OTLPEndpoint enables trace export when non-empty.
	OTLPEndpoint string

	// MigrateOnStart runs the embedded goose migrations before serving.
	MigrateOnStart bool
}

// UseCloudinary reports whether all Cloudinary credentials are present.
func (c Config) UseCloudinary() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

type rawEnv struct {
	Port                string        `env:"PORT"                        envDefault:"8080"`
	DatabaseURL         string        `env:"DATABASE_URL,required,notEmpty"`
	LogLevel            string        `env:"LOG_LEVEL"                   envDefault:"info"`
	CORSOrigins         string        `env:"CORS_ORIGINS"                envDefault:"http://localhost:5173"`
	AccessTokenSecret   string        `env:"ACCESS_TOKEN_SECRET,required,notEmpty"`
	RefreshTokenSecret  string        `env:"REFRESH_TOKEN_SECRET,required,notEmpty"`
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL"            envDefault:"15m"`
	RefreshTokenTTL     time.Duration `env:"REFRESH_TOKEN_TTL"           envDefault:"240h"`
	CookieSecure        bool          `env:"COOKIE_SECURE"               envDefault:"true"`
	MaxBodyBytes        int64         `env:"MAX_BODY_BYTES"              envDefault:"33554432"`
	CloudinaryCloudName string        `env:"CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string        `env:"CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string        `env:"CLOUDINARY_API_SECRET"`
	UploadDir           string        `env:"UPLOAD_DIR"                  envDefault:"./public/uploads"`
	PublicBaseURL       string        `env:"PUBLIC_BASE_URL"             envDefault:"http://localhost:8080"`
	OTLPEndpoint        string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	MigrateOnStart      bool          `env:"MIGRATE_ON_START"            envDefault:"false"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error naming every required variable that is missing or empty.
func Load() (Config, error) {
	var raw rawEnv
	if err := env.Parse(&raw); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	if raw.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("config.Load: MAX_BODY_BYTES must be positive, got %d", raw.MaxBodyBytes)
	}

	return Config{
		Port:                raw.Port,
		DatabaseURL:         raw.DatabaseURL,
		LogLevel:            raw.LogLevel,
		CORSOrigins:         splitCSV(raw.CORSOrigins),
		AccessTokenSecret:   raw.AccessTokenSecret,
		RefreshTokenSecret:  raw.RefreshTokenSecret,
		AccessTokenTTL:      raw.AccessTokenTTL,
		RefreshTokenTTL:     raw.RefreshTokenTTL,
		CookieSecure:        raw.CookieSecure,
		MaxBodyBytes:        raw.MaxBodyBytes,
		CloudinaryCloudName: raw.CloudinaryCloudName,
		CloudinaryAPIKey:    raw.CloudinaryAPIKey,
		CloudinaryAPISecret: raw.CloudinaryAPISecret,
		UploadDir:           raw.UploadDir,
		PublicBaseURL:       strings.TrimRight(raw.PublicBaseURL, "/"),
		OTLPEndpoint:        raw.OTLPEndpoint,
		MigrateOnStart:      raw.MigrateOnStart,
	}, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
