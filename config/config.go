package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend identifiers
const (
	StorageBackendHTTP = "http"
	StorageBackendS3   = "s3"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	Accounts      AccountsConfig
	Catalog       CatalogConfig
	Storage       StorageConfig
	Session       SessionConfig
	ReCAPTCHA     ReCAPTCHAConfig
	EventTriggers EventTriggerConfig
	Drafts        DraftConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	BaseURL        string
	AllowedOrigins []string
}

// AccountsConfig points at the upstream accounts service, which owns
// candidate registration, activation, CV records and profile approval.
type AccountsConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type CatalogConfig struct {
	BaseURL         string
	CacheTTLSeconds int
}

type StorageConfig struct {
	Backend string // "http" or "s3"
	HTTP    HTTPStorageConfig
	S3      S3StorageConfig
}

// HTTPStorageConfig configures the object-store upload endpoint that
// authenticates with two static credential headers.
type HTTPStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
}

type S3StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	Endpoint        string
	Region          string
}

type SessionConfig struct {
	JWTSecret       string
	JWTIssuer       string
	SessionTTLHours int
	CookieDomain    string
	CookieSecure    bool
}

type ReCAPTCHAConfig struct {
	SecretKey string
}

type EventTriggerConfig struct {
	CandidateRegisteredTriggerURL string
}

type DraftConfig struct {
	TTLMinutes int
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	OTLPEndpoint      string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8082")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("BASE_URL", "https://jobcircle.io")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "https://jobcircle.io,https://www.jobcircle.io")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "/app/logs")
	v.SetDefault("ACCOUNTS_API_TIMEOUT_SECONDS", 30)
	v.SetDefault("SKILL_CATALOG_CACHE_TTL", 600) // 10 minutes in seconds
	v.SetDefault("STORAGE_BACKEND", StorageBackendHTTP)
	v.SetDefault("DRAFT_TTL_MINUTES", 120)
	v.SetDefault("JWT_ISSUER", "onboarding-api")
	v.SetDefault("SESSION_TTL_HOURS", 24)
	v.SetDefault("COOKIE_DOMAIN", "")
	v.SetDefault("COOKIE_SECURE", true)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "alloy:4318") // OTLP over HTTP
	v.SetDefault("O11Y_BE_SERVICE_NAME", "onboarding-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "jobcircle")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "onboarding-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	// Parse allowed CORS origins (comma-separated)
	allowedOrigins := []string{}
	originsStr := v.GetString("ALLOWED_CORS_ORIGINS")
	if originsStr != "" {
		for _, origin := range strings.Split(originsStr, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins = append(allowedOrigins, origin)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			BaseURL:        v.GetString("BASE_URL"),
			AllowedOrigins: allowedOrigins,
		},
		Accounts: AccountsConfig{
			BaseURL:        v.GetString("ACCOUNTS_API_BASE_URL"),
			TimeoutSeconds: v.GetInt("ACCOUNTS_API_TIMEOUT_SECONDS"),
		},
		Catalog: CatalogConfig{
			BaseURL:         v.GetString("SKILL_CATALOG_BASE_URL"),
			CacheTTLSeconds: v.GetInt("SKILL_CATALOG_CACHE_TTL"),
		},
		Storage: StorageConfig{
			Backend: strings.ToLower(v.GetString("STORAGE_BACKEND")),
			HTTP: HTTPStorageConfig{
				Endpoint:  v.GetString("STORAGE_UPLOAD_ENDPOINT"),
				AccessKey: v.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: v.GetString("STORAGE_SECRET_KEY"),
			},
			S3: S3StorageConfig{
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				BucketName:      v.GetString("S3_BUCKET_NAME"),
				Endpoint:        v.GetString("S3_ENDPOINT"),
				Region:          v.GetString("S3_REGION"),
			},
		},
		Session: SessionConfig{
			JWTSecret:       v.GetString("JWT_SECRET"),
			JWTIssuer:       v.GetString("JWT_ISSUER"),
			SessionTTLHours: v.GetInt("SESSION_TTL_HOURS"),
			CookieDomain:    v.GetString("COOKIE_DOMAIN"),
			CookieSecure:    v.GetBool("COOKIE_SECURE"),
		},
		ReCAPTCHA: ReCAPTCHAConfig{
			SecretKey: v.GetString("RECAPTCHA_SECRET_KEY"),
		},
		EventTriggers: EventTriggerConfig{
			CandidateRegisteredTriggerURL: v.GetString("CANDIDATE_REGISTERED_TRIGGER_URL"),
		},
		Drafts: DraftConfig{
			TTLMinutes: v.GetInt("DRAFT_TTL_MINUTES"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			OTLPEndpoint:      v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	// Upstream services
	if c.Accounts.BaseURL == "" {
		return fmt.Errorf("ACCOUNTS_API_BASE_URL is required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("SKILL_CATALOG_BASE_URL is required")
	}

	// Storage backend
	switch c.Storage.Backend {
	case StorageBackendHTTP:
		if c.Storage.HTTP.Endpoint == "" {
			return fmt.Errorf("STORAGE_UPLOAD_ENDPOINT is required for the http storage backend")
		}
		if c.Storage.HTTP.AccessKey == "" || c.Storage.HTTP.SecretKey == "" {
			return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required for the http storage backend")
		}
	case StorageBackendS3:
		if c.Storage.S3.AccessKeyID == "" || c.Storage.S3.SecretAccessKey == "" {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY are required for the s3 storage backend")
		}
		if c.Storage.S3.BucketName == "" {
			return fmt.Errorf("S3_BUCKET_NAME is required for the s3 storage backend")
		}
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q", StorageBackendHTTP, StorageBackendS3)
	}

	// Session configuration
	if c.Session.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	// Server configuration
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.BaseURL == "" {
		return fmt.Errorf("BASE_URL is required")
	}
	if len(c.Server.AllowedOrigins) == 0 {
		return fmt.Errorf("ALLOWED_CORS_ORIGINS is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}
