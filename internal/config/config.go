// Package config handles loading and validating the application configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const maxSearchLimit = 50

// Config is the top-level application configuration.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Meli          MeliConfig          `yaml:"meli"`
	Credentials   CredentialsConfig   `yaml:"credentials"`
	Database      DatabaseConfig      `yaml:"database"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Schedule      ScheduleConfig      `yaml:"schedule"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// MeliConfig defines MercadoLibre API settings.
type MeliConfig struct {
	AppID          string          `yaml:"app_id"`
	ClientSecret   string          `yaml:"client_secret"`
	RefreshToken   string          `yaml:"refresh_token"` // seed, used until one is persisted
	RedirectURI    string          `yaml:"redirect_uri"`
	BaseURL        string          `yaml:"base_url"`
	TokenURL       string          `yaml:"token_url"`
	Site           string          `yaml:"site"`
	FallbackSite   string          `yaml:"fallback_site"`
	UserAgent      string          `yaml:"user_agent"`
	AcceptLanguage string          `yaml:"accept_language"`
	Timeout        time.Duration   `yaml:"timeout"`
	MaxRetries     int             `yaml:"max_retries"`
	BackoffBase    time.Duration   `yaml:"backoff_base"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// RateLimitConfig defines outbound API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"` // 0 disables the daily cap
}

// CredentialsConfig selects where the OAuth2 credential is persisted.
type CredentialsConfig struct {
	Backend string `yaml:"backend"` // file, postgres, memory
	File    string `yaml:"file"`
}

// DatabaseConfig defines PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// PipelineConfig tunes the search fallback chain.
type PipelineConfig struct {
	DefaultLimit  int      `yaml:"default_limit"`
	MaxLimit      int      `yaml:"max_limit"`
	CategoryTopN  int      `yaml:"category_top_n"`
	AlternateMode bool     `yaml:"alternate_mode"`
	QueryVariants []string `yaml:"query_variants"`
	EcoOnly       bool     `yaml:"eco_only"`
}

// ScheduleConfig defines cron intervals.
type ScheduleConfig struct {
	TokenKeepaliveInterval time.Duration `yaml:"token_keepalive_interval"` // 0 disables
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Discord DiscordConfig `yaml:"discord"`
}

// DiscordConfig defines Discord webhook settings.
type DiscordConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation. A .env file next to the config is loaded
// first; variables already set in the environment win.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyMeliDefaults(&cfg.Meli)
	applyCredentialsDefaults(&cfg.Credentials)
	applyDatabaseDefaults(&cfg.Database)
	applyPipelineDefaults(&cfg.Pipeline)
	applyScheduleDefaults(&cfg.Schedule)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 60 * time.Second
	}
	if s.RequestTimeout == 0 {
		s.RequestTimeout = 45 * time.Second
	}
}

func applyMeliDefaults(m *MeliConfig) {
	if m.BaseURL == "" {
		m.BaseURL = "https://api.mercadolibre.com"
	}
	if m.TokenURL == "" {
		m.TokenURL = "https://api.mercadolibre.com/oauth/token"
	}
	if m.Site == "" {
		m.Site = "MLC"
	}
	if m.FallbackSite == "" {
		m.FallbackSite = "MLA"
	}
	if m.AcceptLanguage == "" {
		m.AcceptLanguage = "es-CL,es;q=0.9,en;q=0.8"
	}
	if m.Timeout == 0 {
		m.Timeout = 12 * time.Second
	}
	if m.MaxRetries == 0 {
		m.MaxRetries = 2
	}
	if m.BackoffBase == 0 {
		m.BackoffBase = 1200 * time.Millisecond
	}
	applyRateLimitDefaults(&m.RateLimit)
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
}

func applyCredentialsDefaults(c *CredentialsConfig) {
	if c.Backend == "" {
		c.Backend = "file"
	}
	if c.File == "" {
		c.File = "ml_tokens.json"
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
}

func applyPipelineDefaults(p *PipelineConfig) {
	if p.DefaultLimit == 0 {
		p.DefaultLimit = 24
	}
	if p.MaxLimit == 0 {
		p.MaxLimit = maxSearchLimit
	}
	if p.CategoryTopN == 0 {
		p.CategoryTopN = 3
	}
	if p.QueryVariants == nil {
		p.QueryVariants = []string{"reutilizable", "ecológico"}
	}
}

func applyScheduleDefaults(s *ScheduleConfig) {
	if s.TokenKeepaliveInterval == 0 {
		s.TokenKeepaliveInterval = 6 * time.Hour
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Meli.AppID == "" {
		errs = append(errs, fmt.Errorf("meli.app_id is required"))
	}
	if cfg.Meli.ClientSecret == "" {
		errs = append(errs, fmt.Errorf("meli.client_secret is required"))
	}
	if cfg.Meli.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("meli.max_retries must not be negative"))
	}

	switch cfg.Credentials.Backend {
	case "file", "memory":
	case "postgres":
		if cfg.Database.Host == "" {
			errs = append(errs, fmt.Errorf("database.host is required when credentials.backend is postgres"))
		}
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when credentials.backend is postgres"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when credentials.backend is postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"credentials.backend must be one of: file, postgres, memory (got %q)",
			cfg.Credentials.Backend,
		))
	}

	if cfg.Pipeline.MaxLimit > maxSearchLimit {
		errs = append(errs, fmt.Errorf("pipeline.max_limit must be at most %d", maxSearchLimit))
	}
	if cfg.Pipeline.DefaultLimit > cfg.Pipeline.MaxLimit {
		errs = append(errs, fmt.Errorf("pipeline.default_limit must not exceed pipeline.max_limit"))
	}
	if cfg.Pipeline.CategoryTopN < 0 {
		errs = append(errs, fmt.Errorf("pipeline.category_top_n must not be negative"))
	}

	if cfg.Notifications.Discord.Enabled && cfg.Notifications.Discord.WebhookURL == "" {
		errs = append(errs, fmt.Errorf("notifications.discord.webhook_url is required when discord is enabled"))
	}

	if !slices.Contains([]string{"text", "json"}, cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be text or json (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}
