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
	DriverJSON     = "json"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

const (
	SinkLog   = "log"
	SinkStore = "store"
	SinkAMQP  = "amqp"
)

type StorageConfig struct {
	Driver         string
	PropertiesPath string
	SQLitePath     string
	DatabaseURL    string
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

type Config struct {
	AppName          string
	Address          string
	VocabularyPath   string
	InventoryTimeout time.Duration
	CallSinks        []string
	CORSOrigins      []string
	Storage          StorageConfig
	RabbitMQ         RabbitMQConfig
	Log              LogConfig
}

// Load reads configuration from the environment. A .env file is loaded first
// when present; variables already set in the environment win.
func Load(envPath ...string) (*Config, error) {
	if err := godotenv.Load(envPath...); err != nil && len(envPath) > 0 {
		return nil, fmt.Errorf("load env file %v: %w", envPath, err)
	}

	cfg := &Config{
		AppName:        getEnv("APP_NAME", "property-call-search"),
		Address:        getEnv("API_ADDRESS", ":8080"),
		VocabularyPath: getEnv("VOCABULARY_PATH", ""),
		CallSinks:      splitList(strings.ToLower(getEnv("CALL_SINKS", SinkLog))),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		Storage: StorageConfig{
			Driver:         strings.ToLower(getEnv("STORAGE_DRIVER", DriverJSON)),
			PropertiesPath: getEnv("PROPERTIES_PATH", "data/properties.json"),
			SQLitePath:     getEnv("SQLITE_PATH", "data/properties.db"),
			DatabaseURL:    getEnv("DATABASE_URL", ""),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "calls"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvAsBool("LOG_PRETTY", false),
		},
	}

	timeout, err := getEnvAsDuration("INVENTORY_TIMEOUT", 2*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.InventoryTimeout = timeout

	switch cfg.Storage.Driver {
	case DriverJSON, DriverSQLite:
	case DriverPostgres:
		if cfg.Storage.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for storage driver %q", DriverPostgres)
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}

	for _, s := range cfg.CallSinks {
		switch s {
		case SinkLog, SinkStore:
		case SinkAMQP:
			if cfg.RabbitMQ.URL == "" {
				return nil, fmt.Errorf("RABBITMQ_URL is required for call sink %q", SinkAMQP)
			}
		default:
			return nil, fmt.Errorf("unknown call sink %q", s)
		}
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvAsDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
