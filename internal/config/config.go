// Package config loads runtime settings from an optional .env file, the
// environment, and an optional sweat.yaml next to the binary.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Addr              string
	StoreDriver       string
	DataDir           string
	DBURL             string
	BackendURL        string
	RequestTimeout    time.Duration
	PollInterval      time.Duration
	AllowedOrigins    []string
	AdminUsername     string
	AdminPasswordHash string
}

var validDrivers = map[string]bool{"file": true, "memory": true, "postgres": true}

// Load reads .env (if present) into the process environment, then builds a
// Config from env vars and sweat.yaml over the defaults. Env wins over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("sweat")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if dir := os.Getenv("SWEAT_CONFIG_DIR"); dir != "" {
		v.AddConfigPath(dir)
	}
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		log.Printf("[config] using %s", v.ConfigFileUsed())
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ADDR", "localhost:3000")
	v.SetDefault("STORE_DRIVER", "file")
	v.SetDefault("DATA_DIR", "./data")
	v.SetDefault("DB_URL", "")
	v.SetDefault("BACKEND_URL", "http://localhost:8000")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("POLL_INTERVAL", "30s")
	v.SetDefault("ALLOWED_ORIGINS", "*")
	v.SetDefault("ADMIN_USERNAME", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:              v.GetString("ADDR"),
		StoreDriver:       strings.ToLower(strings.TrimSpace(v.GetString("STORE_DRIVER"))),
		DataDir:           v.GetString("DATA_DIR"),
		DBURL:             v.GetString("DB_URL"),
		BackendURL:        strings.TrimRight(v.GetString("BACKEND_URL"), "/"),
		RequestTimeout:    v.GetDuration("REQUEST_TIMEOUT"),
		PollInterval:      v.GetDuration("POLL_INTERVAL"),
		AllowedOrigins:    splitList(v.GetString("ALLOWED_ORIGINS")),
		AdminUsername:     v.GetString("ADMIN_USERNAME"),
		AdminPasswordHash: v.GetString("ADMIN_PASSWORD_HASH"),
	}

	if !validDrivers[cfg.StoreDriver] {
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (want file, memory or postgres)", cfg.StoreDriver)
	}
	if cfg.StoreDriver == "postgres" && cfg.DBURL == "" {
		return nil, errors.New("DB_URL is required when STORE_DRIVER=postgres")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.PollInterval < 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must not be negative, got %s", cfg.PollInterval)
	}
	if (cfg.AdminUsername == "") != (cfg.AdminPasswordHash == "") {
		return nil, errors.New("ADMIN_USERNAME and ADMIN_PASSWORD_HASH must be set together")
	}
	return cfg, nil
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
