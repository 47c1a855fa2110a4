package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration settings
type Config struct {
	Server struct {
		Port int    `json:"port"`
		Host string `json:"host"`
	} `json:"server"`
	Database struct {
		DSN string `json:"dsn"`
	} `json:"database"`
	JWT struct {
		Secret      string        `json:"secret"`
		TokenExpiry time.Duration `json:"token_expiry"`
	} `json:"jwt"`
	Logging struct {
		Level string `json:"level"`
		Path  string `json:"path"`
	} `json:"logging"`
	Gateway struct {
		BaseURL  string        `json:"base_url"`
		Username string        `json:"username"`
		APIKey   string        `json:"api_key"`
		SenderID string        `json:"sender_id"`
		Timeout  time.Duration `json:"timeout"`
	} `json:"gateway"`
	Security struct {
		TOTPEncryptionKey string `json:"totp_encryption_key"`
	} `json:"security"`
	Throttle struct {
		RedisAddr     string        `json:"redis_addr"`
		RedisPassword string        `json:"redis_password"`
		RedisDB       int           `json:"redis_db"`
		MaxPerWindow  int           `json:"max_per_window"`
		Window        time.Duration `json:"window"`
	} `json:"throttle"`
}

// LoadConfig loads configuration from a JSON file, then overlays environment
// variables for the secrets that never belong in the file. A .env file next to
// the process is honored when present.
func LoadConfig(path string) (*Config, error) {
	// Validate path to prevent directory traversal
	cleanPath := filepath.Clean(path)
	if !filepath.IsAbs(cleanPath) {
		return nil, fmt.Errorf("config path must be absolute")
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("config file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("config path is not a regular file")
	}

	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return nil, err
	}

	config.applyEnv()

	return &config, nil
}

// DefaultConfig returns a default configuration with the environment overlay
// applied
func DefaultConfig() *Config {
	config := &Config{}
	config.Server.Port = 8000
	config.Server.Host = "localhost"
	config.Database.DSN = "file:swiftsend.db?cache=shared&mode=rwc"
	config.JWT.Secret = "your-secret-key" // This should be changed in production
	config.JWT.TokenExpiry = 24 * time.Hour
	config.Logging.Level = "info"
	config.Logging.Path = "server.log"
	config.Gateway.BaseURL = "https://api.africastalking.com/version1/messaging"
	config.Gateway.Timeout = 30 * time.Second
	config.Throttle.MaxPerWindow = 10
	config.Throttle.Window = time.Minute
	config.applyEnv()
	return config
}

// applyEnv overlays settings from the environment. Missing variables leave the
// corresponding field untouched.
func (c *Config) applyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.JWT.Secret = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("GATEWAY_BASE_URL"); v != "" {
		c.Gateway.BaseURL = v
	}
	if v := os.Getenv("GATEWAY_USERNAME"); v != "" {
		c.Gateway.Username = v
	}
	if v := os.Getenv("GATEWAY_API_KEY"); v != "" {
		c.Gateway.APIKey = v
	}
	if v := os.Getenv("GATEWAY_SENDER_ID"); v != "" {
		c.Gateway.SenderID = v
	}
	if v := os.Getenv("TOTP_ENCRYPTION_KEY"); v != "" {
		c.Security.TOTPEncryptionKey = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Throttle.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Throttle.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Throttle.RedisDB = n
		}
	}
}
