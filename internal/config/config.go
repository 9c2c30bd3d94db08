package config

import (
	"os"
	"path/filepath"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Config holds the whole application configuration.
// Populated from environment variables.
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	Redis   RedisConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Version     string
}

type APIConfig struct {
	BaseURL        string // LeafSide backend base URL
	TimeoutSeconds int    // per-request timeout
}

type StorageConfig struct {
	Dir       string // directory for the file-backed key-value store
	Namespace string // key prefix, shared by all persisted values
}

// RedisConfig selects the Redis-backed key-value store when Addr is
// set; otherwise the file store under StorageConfig.Dir is used.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Load reads config from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "LeafSide Client"),
			Environment: getEnv("APP_ENV", "development"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		API: APIConfig{
			BaseURL:        getEnv("LEAFSIDE_API_URL", "http://127.0.0.1:5233"),
			TimeoutSeconds: getEnvInt("LEAFSIDE_API_TIMEOUT", 15),
		},
		Storage: StorageConfig{
			Dir:       getEnv("LEAFSIDE_DATA_DIR", defaultDataDir()),
			Namespace: getEnv("LEAFSIDE_STORAGE_NAMESPACE", "leafside"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("LEAFSIDE_REDIS_ADDR", ""),
			Password: getEnv("LEAFSIDE_REDIS_PASSWORD", ""),
			DB:       getEnvInt("LEAFSIDE_REDIS_DB", 0),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values before anything is wired up.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.API,
		validation.Field(&c.API.BaseURL,
			validation.Required.Error("api base url is required"),
			is.URL.Error("api base url must be a valid URL"),
		),
		validation.Field(&c.API.TimeoutSeconds, validation.Min(1)),
	); err != nil {
		return err
	}

	return validation.ValidateStruct(&c.Storage,
		validation.Field(&c.Storage.Dir, validation.Required.Error("storage dir is required")),
		validation.Field(&c.Storage.Namespace, validation.Required),
	)
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".leafside"
	}
	return filepath.Join(home, ".leafside")
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
