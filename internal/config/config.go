package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// InsecureDefaultSecret is used when no signing secret is configured.
// Running with it is a deployment hazard; main logs a warning instead of
// refusing to start.
const InsecureDefaultSecret = "your-secret-key-change-in-production"

// Config holds the application's configuration.
type Config struct {
	Env    string `yaml:"env"`
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	Database struct {
		Driver        string `yaml:"driver"` // postgres, mongo or memory
		URL           string `yaml:"url"`
		MongoURI      string `yaml:"mongo_uri"`
		MongoDatabase string `yaml:"mongo_database"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLSeconds int64  `yaml:"token_ttl_seconds"`
	} `yaml:"auth"`
}

// Load reads configuration from the YAML file at configPath, then applies
// environment overrides. A missing file is not an error so the service can
// run from environment variables alone. A .env file is honored if present.
func Load(configPath string) (*Config, error) {
	godotenv.Load()

	config := defaults()

	if configPath != "" {
		file, err := os.Open(configPath)
		if err == nil {
			defer file.Close()
			decoder := yaml.NewDecoder(file)
			if err := decoder.Decode(config); err != nil {
				return nil, fmt.Errorf("failed to decode config file: %w", err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
	}

	config.applyEnv()

	if config.Auth.JWTSecret == "" {
		config.Auth.JWTSecret = InsecureDefaultSecret
	}
	if config.Auth.TokenTTLSeconds <= 0 {
		config.Auth.TokenTTLSeconds = 7 * 24 * 60 * 60
	}
	return config, nil
}

func defaults() *Config {
	c := &Config{}
	c.Env = "development"
	c.Server.Addr = ":8080"
	c.Database.Driver = "postgres"
	c.Database.URL = "postgres://localhost:5432/finledger?sslmode=disable"
	c.Database.MongoURI = "mongodb://localhost:27017"
	c.Database.MongoDatabase = "finledger"
	c.Auth.JWTSecret = InsecureDefaultSecret
	c.Auth.TokenTTLSeconds = 7 * 24 * 60 * 60
	return c
}

func (c *Config) applyEnv() {
	c.Env = getEnv("APP_ENV", c.Env)
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Database.Driver = getEnv("DATABASE_DRIVER", c.Database.Driver)
	c.Database.URL = getEnv("DATABASE_URL", c.Database.URL)
	c.Database.MongoURI = getEnv("MONGO_URI", c.Database.MongoURI)
	c.Database.MongoDatabase = getEnv("MONGO_DATABASE", c.Database.MongoDatabase)
	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTLSeconds = getEnvAsInt64("TOKEN_TTL_SECONDS", c.Auth.TokenTTLSeconds)
}

// Production reports whether the process runs in a production-like
// environment; it toggles the session cookie's Secure attribute.
func (c *Config) Production() bool {
	return c.Env == "production"
}

// TokenTTL is the validity duration of issued session tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLSeconds) * time.Second
}

// SecretIsInsecureDefault reports whether the signing secret was left at the
// built-in fallback.
func (c *Config) SecretIsInsecureDefault() bool {
	return c.Auth.JWTSecret == InsecureDefaultSecret
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
