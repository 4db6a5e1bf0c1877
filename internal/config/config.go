package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	ErrNoJWTSecret       = errors.New("jwt secret not configured (set auth.jwt_secret or JWT_SECRET)")
	ErrInvalidSessionKey = errors.New("invalid session key: must be base64 of 32 bytes")
)

// Config holds the application's configuration.
type Config struct {
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`
	Redis struct {
		Addr           string `yaml:"addr"`
		LoginLimit     int    `yaml:"login_limit"`
		LoginWindowSec int64  `yaml:"login_window_seconds"`
	} `yaml:"redis"`
	Storage struct {
		Endpoint  string `yaml:"endpoint"`
		Region    string `yaml:"region"`
		Bucket    string `yaml:"bucket"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		PublicURL string `yaml:"public_url"`
	} `yaml:"storage"`
	Gateway struct {
		Port        string `yaml:"port"`
		BackendURL  string `yaml:"backend_url"`
		FrontendURL string `yaml:"frontend_url"`
		SessionKey  string `yaml:"session_key"`
		// When false, unauthenticated requests to protected paths pass
		// through instead of being redirected to the login page.
		RedirectToLogin bool `yaml:"redirect_to_login"`
		SecureCookies   bool `yaml:"secure_cookies"`
	} `yaml:"gateway"`
}

// LoadConfig reads configuration from the specified YAML file. Secrets may be
// supplied via environment variables, which take precedence over the file.
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	applyEnvOverrides(config)

	if config.Auth.TokenTTL == 0 {
		config.Auth.TokenTTL = 7 * 24 * time.Hour
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		config.Auth.JWTSecret = v
	}
	if v := os.Getenv("SESSION_KEY"); v != "" {
		config.Gateway.SessionKey = v
	}
	if v := os.Getenv("BACKEND_URL"); v != "" {
		config.Gateway.BackendURL = v
	}
	if v := os.Getenv("S3_ACCESS_KEY"); v != "" {
		config.Storage.AccessKey = v
	}
	if v := os.Getenv("S3_SECRET_KEY"); v != "" {
		config.Storage.SecretKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		config.Redis.Addr = v
	}
}

// ValidateAPI checks the invariants the API server cannot start without.
// Tokens are issued and verified here, so a missing signing secret is fatal.
func (c *Config) ValidateAPI() error {
	if c.Auth.JWTSecret == "" {
		return ErrNoJWTSecret
	}
	return nil
}

// ValidateGateway checks the invariants the gateway cannot start without.
func (c *Config) ValidateGateway() error {
	if c.Gateway.BackendURL == "" {
		return errors.New("gateway backend URL not configured")
	}
	if c.Gateway.FrontendURL == "" {
		return errors.New("gateway frontend URL not configured")
	}
	if _, err := c.SessionKey(); err != nil {
		return err
	}
	return nil
}

// SessionKey decodes the configured session cookie encryption key.
func (c *Config) SessionKey() ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(c.Gateway.SessionKey)
	if err != nil || len(key) != 32 {
		return nil, ErrInvalidSessionKey
	}
	return key, nil
}
