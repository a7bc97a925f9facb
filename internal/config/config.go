// Package config loads service configuration from environment variables,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultListenAddr      = ":3000"
	defaultPublicBaseURL   = "http://localhost:3000"
	defaultRetention       = 24 * time.Hour
	defaultSweepInterval   = time.Hour
	defaultExportRateLimit = 30
	defaultServiceName     = "invoicemaker"
)

const (
	ValuePolicyRaw      = "raw"
	ValuePolicyEscape   = "escape"
	ValuePolicySanitize = "sanitize"

	PreviewBackendMemory = "memory"
	PreviewBackendRedis  = "redis"

	InvoiceStoreMemory   = "memory"
	InvoiceStorePostgres = "postgres"
	InvoiceStoreSQLite   = "sqlite"
)

// Config holds service configuration values.
type Config struct {
	ServiceName   string
	Version       string
	Environment   string
	ListenAddr    string
	PublicBaseURL string
	LogLevel      string

	CatalogPath       string
	RenderValuePolicy string

	PreviewBackend       string
	RedisAddr            string
	PreviewRetention     time.Duration
	PreviewSweepInterval time.Duration

	InvoiceStore string
	DBDSN        string

	ExportTimeout   time.Duration
	ExportRateLimit int
	ChromePath      string

	NATSURL string

	Tracing TracingConfig
}

// TracingConfig configures the OTLP exporter.
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	Protocol      string
	SamplingRatio float64
}

// IsDevelopment reports whether error details may be exposed to callers.
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	listen := envOrDefault("INVOICEMAKER_LISTEN_ADDR", "")
	if listen == "" {
		if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
			listen = ":" + port
		} else {
			listen = defaultListenAddr
		}
	}

	cfg := Config{
		ServiceName:          envOrDefault("INVOICEMAKER_SERVICE_NAME", defaultServiceName),
		Version:              envOrDefault("INVOICEMAKER_VERSION", "dev"),
		Environment:          strings.ToLower(envOrDefault("INVOICEMAKER_ENV", "production")),
		ListenAddr:           listen,
		PublicBaseURL:        strings.TrimRight(envOrDefault("INVOICEMAKER_PUBLIC_BASE_URL", defaultPublicBaseURL), "/"),
		LogLevel:             strings.ToLower(envOrDefault("INVOICEMAKER_LOG_LEVEL", "info")),
		CatalogPath:          envOrDefault("INVOICEMAKER_CATALOG_PATH", ""),
		RenderValuePolicy:    strings.ToLower(envOrDefault("INVOICEMAKER_RENDER_VALUE_POLICY", ValuePolicyRaw)),
		PreviewBackend:       strings.ToLower(envOrDefault("INVOICEMAKER_PREVIEW_BACKEND", PreviewBackendMemory)),
		RedisAddr:            envOrDefault("INVOICEMAKER_REDIS_ADDR", "localhost:6379"),
		PreviewRetention:     envPositiveDuration("INVOICEMAKER_PREVIEW_RETENTION", defaultRetention),
		PreviewSweepInterval: envPositiveDuration("INVOICEMAKER_PREVIEW_SWEEP_INTERVAL", defaultSweepInterval),
		InvoiceStore:         strings.ToLower(envOrDefault("INVOICEMAKER_INVOICE_STORE", InvoiceStoreMemory)),
		DBDSN:                envOrDefault("INVOICEMAKER_DB_DSN", ""),
		ExportTimeout:        envDuration("INVOICEMAKER_EXPORT_TIMEOUT", 0),
		ExportRateLimit:      envPositiveInt("INVOICEMAKER_EXPORT_RATE_LIMIT", defaultExportRateLimit),
		ChromePath:           envOrDefault("INVOICEMAKER_CHROME_PATH", ""),
		NATSURL:              envOrDefault("INVOICEMAKER_NATS_URL", ""),
		Tracing: TracingConfig{
			Enabled:       envBool("INVOICEMAKER_TRACING_ENABLED", false),
			Endpoint:      envOrDefault("INVOICEMAKER_OTLP_ENDPOINT", ""),
			Protocol:      envOrDefault("INVOICEMAKER_OTLP_PROTOCOL", "grpc"),
			SamplingRatio: envFloat("INVOICEMAKER_TRACING_SAMPLE_RATIO", 0.1),
		},
	}

	switch cfg.RenderValuePolicy {
	case ValuePolicyRaw, ValuePolicyEscape, ValuePolicySanitize:
	default:
		return Config{}, fmt.Errorf("INVOICEMAKER_RENDER_VALUE_POLICY must be one of raw, escape, sanitize (got %q)", cfg.RenderValuePolicy)
	}
	switch cfg.PreviewBackend {
	case PreviewBackendMemory, PreviewBackendRedis:
	default:
		return Config{}, fmt.Errorf("INVOICEMAKER_PREVIEW_BACKEND must be memory or redis (got %q)", cfg.PreviewBackend)
	}
	switch cfg.InvoiceStore {
	case InvoiceStoreMemory:
	case InvoiceStorePostgres, InvoiceStoreSQLite:
		if strings.TrimSpace(cfg.DBDSN) == "" {
			return Config{}, fmt.Errorf("INVOICEMAKER_DB_DSN is required for invoice store %q", cfg.InvoiceStore)
		}
	default:
		return Config{}, fmt.Errorf("INVOICEMAKER_INVOICE_STORE must be memory, postgres or sqlite (got %q)", cfg.InvoiceStore)
	}
	if cfg.PreviewSweepInterval > cfg.PreviewRetention {
		cfg.PreviewSweepInterval = cfg.PreviewRetention
	}

	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func envBool(key string, defaultVal bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		switch strings.ToLower(v) {
		case "yes", "on":
			return true
		case "no", "off":
			return false
		default:
			return defaultVal
		}
	}
	return b
}

func envPositiveInt(key string, defaultVal int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(v)
	if err != nil || parsed <= 0 {
		return defaultVal
	}
	return parsed
}

func envFloat(key string, defaultVal float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// envDuration accepts zero, which callers treat as "disabled".
func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultVal
	}
	parsed, err := time.ParseDuration(v)
	if err != nil || parsed < 0 {
		return defaultVal
	}
	return parsed
}

func envPositiveDuration(key string, defaultVal time.Duration) time.Duration {
	parsed := envDuration(key, defaultVal)
	if parsed <= 0 {
		return defaultVal
	}
	return parsed
}
