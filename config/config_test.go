package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8081",
			BaseURL:        "https://ask.samriddhi.edu.np",
			AllowedOrigins: []string{"https://ask.samriddhi.edu.np"},
		},
		Database: DatabaseConfig{URL: "postgres://localhost/test"},
		Admin: AdminConfig{
			Email:    "admin@samriddhi.edu.np",
			Password: "secret",
		},
		Session: SessionConfig{JWTSecret: "jwt-secret"},
		AuthCache: AuthCacheConfig{
			EphemeralTTLSeconds: 10,
			DurableTTLSeconds:   900,
		},
		QueryRouter: QueryRouterConfig{BaseURL: "http://localhost:8000"},
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
		{
			name: "release mode",
			config: &Config{
				Server: ServerConfig{GinMode: "release", AppEnv: "production"},
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

func TestConfig_IsProduction(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected bool
	}{
		{
			name: "production environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "production"},
			},
			expected: true,
		},
		{
			name: "development environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "development"},
			},
			expected: false,
		},
		{
			name: "staging environment",
			config: &Config{
				Server: ServerConfig{AppEnv: "staging"},
			},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.config.IsProduction()
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
			name:        "valid config",
			mutate:      func(c *Config) {},
			expectError: false,
		},
		{
			name:        "missing database URL",
			mutate:      func(c *Config) { c.Database.URL = "" },
			expectError: true,
			errorMsg:    "DATABASE_URL is required",
		},
		{
			name:        "missing JWT secret",
			mutate:      func(c *Config) { c.Session.JWTSecret = "" },
			expectError: true,
			errorMsg:    "JWT_SECRET is required",
		},
		{
			name:        "missing admin password",
			mutate:      func(c *Config) { c.Admin.Password = "" },
			expectError: true,
			errorMsg:    "ADMIN_PASSWORD is required",
		},
		{
			name:        "missing query router URL",
			mutate:      func(c *Config) { c.QueryRouter.BaseURL = "" },
			expectError: true,
			errorMsg:    "QUERY_ROUTER_URL is required",
		},
		{
			name:        "zero ephemeral TTL",
			mutate:      func(c *Config) { c.AuthCache.EphemeralTTLSeconds = 0 },
			expectError: true,
			errorMsg:    "AUTH_CACHE_EPHEMERAL_TTL_SECONDS must be positive",
		},
		{
			name: "durable TTL not greater than ephemeral",
			mutate: func(c *Config) {
				c.AuthCache.EphemeralTTLSeconds = 60
				c.AuthCache.DurableTTLSeconds = 60
			},
			expectError: true,
			errorMsg:    "AUTH_CACHE_DURABLE_TTL_SECONDS must be greater",
		},
		{
			name: "profiling enabled without endpoint",
			mutate: func(c *Config) {
				c.Profiling.Enabled = true
				c.Profiling.Endpoint = ""
			},
			expectError: true,
			errorMsg:    "O11Y_PROFILING_ENDPOINT is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
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
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	// Clean environment
	os.Clearenv()

	// Set only required fields
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ADMIN_PASSWORD", "admin-pass")
	os.Setenv("QUERY_ROUTER_URL", "http://localhost:8000")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	// Check defaults
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.GinMode)
	assert.Equal(t, "production", cfg.Server.AppEnv)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "/app/logs", cfg.Logging.Dir)
	assert.Equal(t, "admin@samriddhi.edu.np", cfg.Admin.Email)
	assert.Equal(t, 10, cfg.AuthCache.EphemeralTTLSeconds)
	assert.Equal(t, 900, cfg.AuthCache.DurableTTLSeconds)
	assert.Equal(t, 30, cfg.QueryRouter.TimeoutSeconds)
	assert.Equal(t, 24, cfg.Session.SessionTTLHours)
}

func TestLoad_WithEnvironmentVariables(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	// Clean environment
	os.Clearenv()

	os.Setenv("PORT", "9000")
	os.Setenv("GIN_MODE", "debug")
	os.Setenv("APP_ENV", "development")
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	os.Setenv("JWT_SECRET", "test-secret")
	os.Setenv("ADMIN_EMAIL", "admin@example.edu")
	os.Setenv("ADMIN_PASSWORD", "admin-pass")
	os.Setenv("QUERY_ROUTER_URL", "http://router:8000")
	os.Setenv("AUTH_CACHE_EPHEMERAL_TTL_SECONDS", "5")
	os.Setenv("AUTH_CACHE_DURABLE_TTL_SECONDS", "600")
	os.Setenv("INGEST_WEBHOOK_URL", "http://router:8000/ingest")
	os.Setenv("ALLOWED_CORS_ORIGINS", "https://example.edu, https://www.example.edu")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.GinMode)
	assert.Equal(t, "development", cfg.Server.AppEnv)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "admin@example.edu", cfg.Admin.Email)
	assert.Equal(t, "http://router:8000", cfg.QueryRouter.BaseURL)
	assert.Equal(t, 5, cfg.AuthCache.EphemeralTTLSeconds)
	assert.Equal(t, 600, cfg.AuthCache.DurableTTLSeconds)
	assert.Equal(t, "http://router:8000/ingest", cfg.Ingest.WebhookURL)
	assert.Equal(t, []string{"https://example.edu", "https://www.example.edu"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_ValidationFailure(t *testing.T) {
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	// Clean environment - missing required fields
	os.Clearenv()
	os.Setenv("DATABASE_URL", "postgres://localhost/test")
	// Missing JWT_SECRET, ADMIN_PASSWORD and QUERY_ROUTER_URL

	cfg, err := Load()

	assert.Error(t, err)
	assert.Nil(t, cfg)
}
