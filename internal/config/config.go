// Package config loads runtime settings from configs/.env and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
	HTTP     HTTPConfig
	PDF      PDFConfig
	Stats    StatsConfig
}

type AppConfig struct {
	Env     string
	Port    string
	GinMode string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig configures the dashboard cache. An empty Addr disables redis
// and the in-process cache is used instead.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

type HTTPConfig struct {
	CORSOrigins []string
}

// PDFConfig controls chromedp based PDF export. RemoteURL points at a running
// Chrome DevTools endpoint; empty means a local headless browser.
type PDFConfig struct {
	Enabled   bool
	RemoteURL string
	Timeout   time.Duration
}

type StatsConfig struct {
	CacheTTL time.Duration
}

var envBindings = map[string]string{
	"app.env":         "APP_ENV",
	"app.port":        "PORT",
	"app.gin_mode":    "GIN_MODE",
	"db.host":         "DB_HOST",
	"db.port":         "DB_PORT",
	"db.user":         "DB_USER",
	"db.password":     "DB_PASSWORD",
	"db.name":         "DB_NAME",
	"db.sslmode":      "DB_SSLMODE",
	"redis.addr":      "REDIS_ADDR",
	"redis.password":  "REDIS_PASSWORD",
	"redis.db":        "REDIS_DB",
	"log.level":       "LOG_LEVEL",
	"log.format":      "LOG_FORMAT",
	"log.output":      "LOG_OUTPUT",
	"http.cors":       "CORS_ORIGINS",
	"pdf.enabled":     "PDF_ENABLED",
	"pdf.remote_url":  "CHROME_REMOTE_URL",
	"pdf.timeout":     "PDF_TIMEOUT",
	"stats.cache_ttl": "STATS_CACHE_TTL",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.gin_mode", "debug")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "postgres")
	v.SetDefault("db.name", "postgres")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("redis.db", 0)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("http.cors", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:5174")
	v.SetDefault("pdf.enabled", true)
	v.SetDefault("pdf.timeout", "30s")
	v.SetDefault("stats.cache_ttl", "5m")
}

// Load reads configs/.env when present and then the environment.
func Load() (*Config, error) {
	return LoadFrom("configs/.env")
}

// LoadFrom is Load with an explicit dotenv path. A missing file is not an
// error; variables already set in the environment win over the file.
func LoadFrom(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Env:     v.GetString("app.env"),
			Port:    v.GetString("app.port"),
			GinMode: v.GetString("app.gin_mode"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetString("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		HTTP: HTTPConfig{
			CORSOrigins: splitList(v.GetString("http.cors")),
		},
		PDF: PDFConfig{
			Enabled:   v.GetBool("pdf.enabled"),
			RemoteURL: v.GetString("pdf.remote_url"),
			Timeout:   v.GetDuration("pdf.timeout"),
		},
		Stats: StatsConfig{
			CacheTTL: v.GetDuration("stats.cache_ttl"),
		},
	}

	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
		if cfg.IsProduction() {
			cfg.Log.Format = "json"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be defaulted.
func (c *Config) Validate() error {
	if c.App.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.PDF.Timeout <= 0 {
		return fmt.Errorf("PDF_TIMEOUT must be positive, got %s", c.PDF.Timeout)
	}
	if c.Stats.CacheTTL < 0 {
		return fmt.Errorf("STATS_CACHE_TTL must not be negative, got %s", c.Stats.CacheTTL)
	}
	return nil
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// DSN builds the postgres connection string.
func (c *Config) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     "/" + c.Database.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
