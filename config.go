package main

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devSessionSecret = "dev-insecure-secret-change" // development fallback

// Config holds everything read from the environment, .env and an optional config file.
type Config struct {
	Port     int
	Env      string
	Currency string
	DB       DBConfig
	Session  SessionConfig
	Inbox    InboxConfig
	OCR      OCRConfig
}

type DBConfig struct {
	Driver      string
	DSN         string
	User        string
	Pass        string
	Host        string
	Port        int
	Name        string
	SSLMode     string
	AutoMigrate bool
	LogMode     bool
}

type SessionConfig struct {
	Secret string
	TTL    time.Duration
}

type InboxConfig struct {
	Dir string
}

type OCRConfig struct {
	Languages []string
}

// loadConfig reads ./.env (without overriding variables already set), then
// the config file at path when given, then environment variables.
func loadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("port", 3000)
	v.SetDefault("env", "local")
	v.SetDefault("currency", "INR")
	v.SetDefault("db.driver", "postgres")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "khaatabook")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.log_mode", false)
	v.SetDefault("session.ttl", 24*time.Hour)
	v.SetDefault("inbox.dir", "inbox")
	v.SetDefault("ocr.languages", "eng")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	// db.driver is read from DB_DRIVER, session.ttl from SESSION_TTL and so on.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("env", "APP_ENV"); err != nil {
		return nil, fmt.Errorf("bind APP_ENV: %w", err)
	}

	cfg := &Config{
		Port:     v.GetInt("port"),
		Env:      v.GetString("env"),
		Currency: strings.ToUpper(v.GetString("currency")),
		DB: DBConfig{
			Driver:      strings.ToLower(v.GetString("db.driver")),
			DSN:         v.GetString("db.dsn"),
			User:        v.GetString("db.user"),
			Pass:        v.GetString("db.pass"),
			Host:        v.GetString("db.host"),
			Port:        v.GetInt("db.port"),
			Name:        v.GetString("db.name"),
			SSLMode:     v.GetString("db.sslmode"),
			AutoMigrate: v.GetBool("db.auto_migrate"),
			LogMode:     v.GetBool("db.log_mode"),
		},
		Session: SessionConfig{
			Secret: v.GetString("session.secret"),
			TTL:    v.GetDuration("session.ttl"),
		},
		Inbox: InboxConfig{Dir: v.GetString("inbox.dir")},
		OCR:   OCRConfig{Languages: splitList(v.GetStringSlice("ocr.languages"))},
	}
	if cfg.Session.Secret == "" {
		cfg.Session.Secret = devSessionSecret
	}
	if cfg.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}
	return cfg, nil
}

// dsn returns DB_DSN when set, otherwise a connection string built from the
// credential parts.
func (c DBConfig) dsn() (string, error) {
	if c.DSN != "" {
		return c.DSN, nil
	}
	switch c.Driver {
	case "sqlite":
		return c.Name + ".db", nil
	case "postgres":
		if c.User == "" {
			return "", fmt.Errorf("DB_DSN or DB_USER must be set")
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(c.User, c.Pass),
			Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
			Path:     "/" + c.Name,
			RawQuery: url.Values{"sslmode": {c.SSLMode}}.Encode(),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

// splitList flattens a YAML list or a comma/space separated string.
func splitList(items []string) []string {
	var out []string
	for _, item := range items {
		out = append(out, strings.Fields(strings.ReplaceAll(item, ",", " "))...)
	}
	return out
}
