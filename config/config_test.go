package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// validBase returns a config that passes Validate; tests mutate single fields.
func validBase() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8082",
			BaseURL:        "https://jobcircle.io",
			AllowedOrigins: []string{"https://jobcircle.io"},
		},
		Accounts: AccountsConfig{BaseURL: "https://accounts.internal"},
		Catalog:  CatalogConfig{BaseURL: "https://catalog.internal"},
		Storage: StorageConfig{
			Backend: StorageBackendHTTP,
			HTTP: HTTPStorageConfig{
				Endpoint:  "https://files.internal/upload",
				AccessKey: "key",
				SecretKey: "secret",
			},
		},
		Session: SessionConfig{JWTSecret: "test-secret"},
	}
}

func TestConfig_IsDevelopment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: true,
		},
		{
			name: "debug gin mode",
			config: &Config{
				Server: ServerConfig{GinMode: "debug"},
			},
			expected: true,
		},
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsDevelopment()
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
		errorMsg    string
	}{
		{
			name:        "valid http storage config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name: "valid s3 storage config",
			mutate: func(c *Config) {
				c.Storage = StorageConfig{
					Backend: StorageBackendS3,
					S3: S3StorageConfig{
						AccessKeyID:     "id",
						SecretAccessKey: "secret",
						BucketName:      "assets",
					},
				}
			},
			expectError: false,
		},
		{
			name:        "missing accounts base URL",
			mutate:      func(c *Config) { c.Accounts.BaseURL = "" },
			expectError: true,
			errorMsg:    "ACCOUNTS_API_BASE_URL is required",
		},
		{
			name:        "missing catalog base URL",
			mutate:      func(c *Config) { c.Catalog.BaseURL = "" },
			expectError: true,
			errorMsg:    "SKILL_CATALOG_BASE_URL is required",
		},
		{
			name:        "missing storage credentials",
			mutate:      func(c *Config) { c.Storage.HTTP.SecretKey = "" },
			expectError: true,
			errorMsg:    "STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY",
		},
		{
			name:        "unknown storage backend",
			mutate:      func(c *Config) { c.Storage.Backend = "ftp" },
			expectError: true,
			errorMsg:    "STORAGE_BACKEND",
		},
		{
			name: "s3 backend missing bucket",
			mutate: func(c *Config) {
				c.Storage = StorageConfig{
					Backend: StorageBackendS3,
					S3: S3StorageConfig{
						AccessKeyID:     "id",
						SecretAccessKey: "secret",
					},
				}
			},
			expectError: true,
			errorMsg:    "S3_BUCKET_NAME is required",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.Session.JWTSecret = "" },
			expectError: true,
			errorMsg:    "JWT_SECRET is required",
		},
		{
			name:        "profiling enabled without endpoint",
			mutate:      func(c *Config) { c.Profiling.Enabled = true },
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoad_WithDefaults(t *testing.T) {
	os.Clearenv()

	// Set only required fields
	os.Setenv("ACCOUNTS_API_BASE_URL", "https://accounts.internal")
	os.Setenv("SKILL_CATALOG_BASE_URL", "https://catalog.internal")
	os.Setenv("STORAGE_UPLOAD_ENDPOINT", "https://files.internal/upload")
	os.Setenv("STORAGE_ACCESS_KEY", "key")
	os.Setenv("STORAGE_SECRET_KEY", "secret")
	os.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "8082", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Accounts.TimeoutSeconds)
	assert.Equal(t, 600, cfg.Catalog.CacheTTLSeconds)
	assert.Equal(t, StorageBackendHTTP, cfg.Storage.Backend)
	assert.Equal(t, 120, cfg.Drafts.TTLMinutes)
	assert.Equal(t, "onboarding-api", cfg.Session.JWTIssuer)
	assert.Equal(t, 24, cfg.Session.SessionTTLHours)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	os.Clearenv()

	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("ACCOUNTS_API_BASE_URL", "https://accounts.example.com")
	os.Setenv("ACCOUNTS_API_TIMEOUT_SECONDS", "10")
	os.Setenv("SKILL_CATALOG_BASE_URL", "https://catalog.example.com")
	os.Setenv("STORAGE_BACKEND", "s3")
	os.Setenv("S3_ACCESS_KEY_ID", "key-id")
	os.Setenv("S3_SECRET_ACCESS_KEY", "key-secret")
	os.Setenv("S3_BUCKET_NAME", "onboarding-assets")
	os.Setenv("JWT_SECRET", "another-secret")
	os.Setenv("RECAPTCHA_SECRET_KEY", "recaptcha-secret")
	os.Setenv("DRAFT_TTL_MINUTES", "30")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "https://accounts.example.com", cfg.Accounts.BaseURL)
	assert.Equal(t, 10, cfg.Accounts.TimeoutSeconds)
	assert.Equal(t, "s3", cfg.Storage.Backend)
	assert.Equal(t, "onboarding-assets", cfg.Storage.S3.BucketName)
	assert.Equal(t, "recaptcha-secret", cfg.ReCAPTCHA.SecretKey)
	assert.Equal(t, 30, cfg.Drafts.TTLMinutes)
}

func TestLoad_ValidationFailure(t *testing.T) {
	// Change to a temp directory so a repo-level .env file can't satisfy Load
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)

	tempDir := t.TempDir()
	os.Chdir(tempDir)

	os.Clearenv()
	// Missing ACCOUNTS_API_BASE_URL and friends

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
