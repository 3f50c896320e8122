// Package config loads the server configuration from YAML with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the full server configuration.
type Config struct {
	Server struct {
		Addr            string        `yaml:"addr"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Auth struct {
		Secret   string        `yaml:"secret"`
		TokenTTL time.Duration `yaml:"token_ttl"`
	} `yaml:"auth"`

	Database struct {
		DSN string `yaml:"dsn"`
	} `yaml:"database"`

	Redis struct {
		Addr       string        `yaml:"addr"`
		RateLimit  int           `yaml:"rate_limit"`
		RateWindow time.Duration `yaml:"rate_window"`
	} `yaml:"redis"`

	RateLimit struct {
		RequestsPerSecond int `yaml:"requests_per_second"`
		Burst             int `yaml:"burst"`
	} `yaml:"rate_limit"`

	CORS struct {
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"cors"`

	Resumes struct {
		Dir string `yaml:"dir"`
	} `yaml:"resumes"`

	Audit struct {
		Path string `yaml:"path"`
		Max  int    `yaml:"max"`
	} `yaml:"audit"`
}

// Default returns the configuration used when no file or overrides exist.
func Default() Config {
	var cfg Config
	cfg.Server.Addr = ":8080"
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.Auth.TokenTTL = 24 * time.Hour
	cfg.RateLimit.RequestsPerSecond = 50
	cfg.RateLimit.Burst = 100
	cfg.Redis.RateLimit = 300
	cfg.Redis.RateWindow = time.Minute
	cfg.CORS.AllowedOrigins = []string{"*"}
	cfg.Resumes.Dir = "data/resumes"
	cfg.Audit.Max = 200
	return cfg
}

// Load reads the YAML file at path (missing file is fine) and then applies
// environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// fall through to env overrides
		default:
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Auth.Secret == "" {
		return Config{}, fmt.Errorf("auth secret is required (set auth.secret or AUTH_SECRET)")
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Addr, "SERVER_ADDR")
	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setString(&cfg.Database.DSN, "DATABASE_DSN")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Resumes.Dir, "RESUMES_DIR")
	setString(&cfg.Audit.Path, "AUDIT_LOG_PATH")
	setInt(&cfg.RateLimit.RequestsPerSecond, "RATE_LIMIT_RPS")
	setInt(&cfg.RateLimit.Burst, "RATE_LIMIT_BURST")
	if v := os.Getenv("AUTH_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Auth.TokenTTL = d
		}
	}
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
