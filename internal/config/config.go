// Package config loads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Image host backends.
const (
	ImageHostCloudinary = "cloudinary"
	ImageHostGCS        = "gcs"
	ImageHostNone       = "none"
)

// Server configures `accesscard serve`.
type Server struct {
	Addr         string        `env:"ACCESSCARD_ADDR"          envDefault:":8080"`
	ReadTimeout  time.Duration `env:"ACCESSCARD_READ_TIMEOUT"  envDefault:"15s"`
	WriteTimeout time.Duration `env:"ACCESSCARD_WRITE_TIMEOUT" envDefault:"60s"`
	IdleTimeout  time.Duration `env:"ACCESSCARD_IDLE_TIMEOUT"  envDefault:"120s"`
	LogLevel     string        `env:"LOG_LEVEL"                envDefault:"info"`

	X          XAPI
	ImageHost  string `env:"ACCESSCARD_IMAGE_HOST" envDefault:"cloudinary"`
	Cloudinary Cloudinary
	GCS        GCS
}

// XAPI configures the upstream social-graph API.
type XAPI struct {
	BaseURL     string        `env:"ACCESSCARD_X_API_URL"      envDefault:"https://api.x.com"`
	BearerToken string        `env:"ACCESSCARD_X_BEARER_TOKEN"`
	Timeout     time.Duration `env:"ACCESSCARD_X_TIMEOUT"      envDefault:"10s"`
}

// Cloudinary configures the Cloudinary image host. URL takes precedence over
// the individual credentials when set.
type Cloudinary struct {
	URL       string `env:"CLOUDINARY_URL"`
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
	Folder    string `env:"ACCESSCARD_CLOUDINARY_FOLDER" envDefault:"bulk_access_cards"`
}

// GCS configures the Cloud Storage image host.
type GCS struct {
	Bucket     string `env:"ACCESSCARD_GCS_BUCKET"`
	Prefix     string `env:"ACCESSCARD_GCS_PREFIX"      envDefault:"bulk_access_cards"`
	PublicBase string `env:"ACCESSCARD_GCS_PUBLIC_BASE" envDefault:"https://storage.googleapis.com"`
}

// Client configures the interactive card generator.
type Client struct {
	APIURL      string `env:"ACCESSCARD_API_URL"      envDefault:"http://localhost:8080"`
	PublicURL   string `env:"ACCESSCARD_PUBLIC_URL"`
	ComposerURL string `env:"ACCESSCARD_COMPOSER_URL" envDefault:"https://twitter.com/intent/tweet"`
	ExportDir   string `env:"ACCESSCARD_EXPORT_DIR"   envDefault:"."`
	Upload      bool   `env:"ACCESSCARD_UPLOAD"       envDefault:"true"`
	LogFile     string `env:"ACCESSCARD_LOG_FILE"`
	LogLevel    string `env:"LOG_LEVEL"               envDefault:"info"`
}

// ValidationError lists configuration fields that are missing or invalid.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.Fields, ", "))
}

// LoadDotEnv loads variables from the given files (default ".env") without
// overriding variables already set. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("load dotenv: %w", err)
	}
	return nil
}

// LoadServer reads and validates the server configuration.
func LoadServer() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.ImageHost = strings.ToLower(strings.TrimSpace(cfg.ImageHost))
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks that the selected backends have what they need.
// A missing bearer token is allowed; the profile endpoint then reports an
// upstream error per request.
func (c Server) Validate() error {
	var fields []string
	if strings.TrimSpace(c.Addr) == "" {
		fields = append(fields, "ACCESSCARD_ADDR")
	}
	switch c.ImageHost {
	case ImageHostCloudinary:
		if c.Cloudinary.URL == "" && (c.Cloudinary.CloudName == "" || c.Cloudinary.APIKey == "" || c.Cloudinary.APISecret == "") {
			fields = append(fields, "CLOUDINARY_URL|CLOUDINARY_CLOUD_NAME,CLOUDINARY_API_KEY,CLOUDINARY_API_SECRET")
		}
	case ImageHostGCS:
		if c.GCS.Bucket == "" {
			fields = append(fields, "ACCESSCARD_GCS_BUCKET")
		}
	case ImageHostNone:
	default:
		fields = append(fields, "ACCESSCARD_IMAGE_HOST")
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// LoadClient reads the client configuration. PublicURL defaults to APIURL.
func LoadClient() (Client, error) {
	var cfg Client
	if err := env.Parse(&cfg); err != nil {
		return Client{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.PublicURL == "" {
		cfg.PublicURL = cfg.APIURL + "/"
	}
	if cfg.APIURL == "" {
		return Client{}, &ValidationError{Fields: []string{"ACCESSCARD_API_URL"}}
	}
	return cfg, nil
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
