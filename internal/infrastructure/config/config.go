package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	OTLP       OTLPConfig
	Catalog    CatalogConfig
	Store      StoreConfig
	Storefront StorefrontConfig
}

type ServerConfig struct {
	Port            string
	Host            string
	ShutdownTimeout time.Duration
}

type OTLPConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
	Environment string
	LogLevel    string
}

type CatalogConfig struct {
	// Source is a file path or an http(s) URL serving the product list
	Source       string
	FetchTimeout time.Duration
}

type StoreConfig struct {
	Driver      string // memory, file or postgres
	Path        string
	DatabaseURL string
}

type StorefrontConfig struct {
	StoreName     string
	LoginPath     string
	ToastDuration time.Duration
	// MaxClients caps the shopper storefronts held in memory
	MaxClients int
}

// LoadConfig loads configuration from environment variables,
// reading an optional .env file first
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnv("SERVER_PORT", "8080"),
			ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		OTLP: OTLPConfig{
			Enabled:     getEnvBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "storefront"),
			Environment: getEnv("OTEL_ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Catalog: CatalogConfig{
			Source:       getEnv("CATALOG_SOURCE", "data/products.json"),
			FetchTimeout: getEnvDuration("CATALOG_FETCH_TIMEOUT", 10*time.Second),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", "memory"),
			Path:        getEnv("STORE_PATH", "data/store.json"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Storefront: StorefrontConfig{
			StoreName:     getEnv("STORE_NAME", "BestwearMall"),
			LoginPath:     getEnv("LOGIN_PATH", "/login"),
			ToastDuration: getEnvDuration("TOAST_DURATION", 2500*time.Millisecond),
			MaxClients:    getEnvInt("MAX_CLIENTS", 10000),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return d
}
