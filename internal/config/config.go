package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

const minPreviewKeyLength = 32

// Config holds all application configuration
type Config struct {
	Server        ServerConfig
	Store         StoreConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Platform      PlatformConfig
	Resolver      ResolverConfig
	Preview       PreviewConfig
	Observability ObservabilityConfig
	RateLimit     RateLimitConfig
	Admin         AdminConfig
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	// TrustProxy makes the site resolver read X-Forwarded-Host.
	TrustProxy bool
}

// StoreConfig selects the repository implementation
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds the resolution cache configuration
type RedisConfig struct {
	Enabled     bool
	Addr        string
	Password    string
	DB          int
	Prefix      string
	TTL         time.Duration
	NegativeTTL time.Duration
}

// PlatformConfig names the hosts that serve the platform itself
type PlatformConfig struct {
	Hosts      []string
	MasterSlug string
}

// ResolverConfig holds tenant lookup retry settings
type ResolverConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Timeout bounds one shared resolution, retries included.
	Timeout time.Duration
}

// PreviewConfig holds preview token settings
type PreviewConfig struct {
	SigningKey string
	TTL        time.Duration
	Issuer     string
}

// ObservabilityConfig holds logging and tracing configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string
	OTELEnabled    bool
	ServiceName    string
	ServiceVersion string
}

// AdminConfig holds admin console settings
type AdminConfig struct {
	StaticDir string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  parseDuration("SERVER_READ_TIMEOUT", "15s"),
			WriteTimeout: parseDuration("SERVER_WRITE_TIMEOUT", "15s"),
			IdleTimeout:  parseDuration("SERVER_IDLE_TIMEOUT", "60s"),
			TrustProxy:   parseBool("SERVER_TRUST_PROXY", false),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(getEnv("STORE_DRIVER", DriverPostgres)),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "webpromedid"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "webpromedid"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    parseInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    parseInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: parseDuration("DB_CONN_MAX_LIFETIME", "5m"),
		},
		Redis: RedisConfig{
			Enabled:     parseBool("REDIS_ENABLED", false),
			Addr:        getEnv("REDIS_ADDR", "localhost:6379"),
			Password:    getEnv("REDIS_PASSWORD", ""),
			DB:          parseInt("REDIS_DB", 0),
			Prefix:      getEnv("REDIS_PREFIX", "webpromedid:tenant:"),
			TTL:         parseDuration("REDIS_TTL", "5m"),
			NegativeTTL: parseDuration("REDIS_NEGATIVE_TTL", "30s"),
		},
		Platform: PlatformConfig{
			Hosts:      parseList("PLATFORM_HOSTS", "localhost"),
			MasterSlug: getEnv("PLATFORM_MASTER_SLUG", "master"),
		},
		Resolver: ResolverConfig{
			MaxRetries:      parseInt("RESOLVER_MAX_RETRIES", 3),
			InitialInterval: parseDuration("RESOLVER_INITIAL_INTERVAL", "50ms"),
			MaxInterval:     parseDuration("RESOLVER_MAX_INTERVAL", "1s"),
			Timeout:         parseDuration("RESOLVER_TIMEOUT", "5s"),
		},
		Preview: PreviewConfig{
			SigningKey: getEnv("PREVIEW_SIGNING_KEY", ""),
			TTL:        parseDuration("PREVIEW_TOKEN_TTL", "30m"),
			Issuer:     getEnv("PREVIEW_ISSUER", "webpromedid"),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			OTELEnabled:    parseBool("OTEL_ENABLED", false),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "webpromedid"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "0.1.0"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: parseFloat("RATELIMIT_RPS", 10),
			Burst:             parseInt("RATELIMIT_BURST", 20),
		},
		Admin: AdminConfig{
			StaticDir: getEnv("ADMIN_STATIC_DIR", ""),
		},
	}

	if cfg.Store.Driver == DriverMemory && cfg.Preview.SigningKey == "" {
		key, err := randomKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate preview signing key: %w", err)
		}
		cfg.Preview.SigningKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMemory, c.Store.Driver)
	}

	if len(c.Preview.SigningKey) < minPreviewKeyLength {
		return fmt.Errorf("PREVIEW_SIGNING_KEY must be at least %d bytes", minPreviewKeyLength)
	}
	if c.Preview.TTL <= 0 {
		return fmt.Errorf("PREVIEW_TOKEN_TTL must be positive")
	}
	if len(c.Platform.Hosts) == 0 {
		return fmt.Errorf("PLATFORM_HOSTS is required")
	}
	if c.Platform.MasterSlug == "" {
		return fmt.Errorf("PLATFORM_MASTER_SLUG is required")
	}
	if c.Resolver.MaxRetries < 0 {
		return fmt.Errorf("RESOLVER_MAX_RETRIES must not be negative")
	}
	if c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATELIMIT_RPS and RATELIMIT_BURST must be positive")
	}
	return nil
}

// Addr returns the listen address of the HTTP server
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func parseFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func parseBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func parseDuration(key string, defaultValue string) time.Duration {
	value := getEnv(key, defaultValue)
	d, err := time.ParseDuration(value)
	if err != nil {
		// Fallback to default
		d, _ = time.ParseDuration(defaultValue)
	}
	return d
}

// parseList splits a comma separated value, dropping empty entries
func parseList(key string, defaultValue string) []string {
	var out []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func randomKey() (string, error) {
	b := make([]byte, minPreviewKeyLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
