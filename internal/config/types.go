// Package config loads the bot configuration from defaults, an optional
// YAML file, .env files, the environment and caller overrides, in that
// order of increasing precedence.
package config

import (
	"time"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/observability"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/storage/kv"
)

const (
	DefaultAPIBaseURL   = "https://api.telegram.org"
	DefaultServerAddr   = ":8080"
	DefaultWebhookPath  = "/telegram/webhook"
	DefaultPollTimeout  = 30 * time.Second
	DefaultSendRate     = 25.0
	DefaultRetryAttempt = 3
	DefaultStoreDir     = "./data"
	DefaultSQLitePath   = "./data/teacherbot.db"
	DefaultConfigFile   = "teacherbot.yaml"
)

// Config is the complete runtime configuration.
type Config struct {
	Telegram      TelegramConfig       `mapstructure:"telegram" yaml:"telegram"`
	Server        ServerConfig         `mapstructure:"server" yaml:"server"`
	Store         StoreConfig          `mapstructure:"store" yaml:"store"`
	Bot           BotConfig            `mapstructure:"bot" yaml:"bot"`
	Observability observability.Config `mapstructure:"observability" yaml:"observability"`
}

type TelegramConfig struct {
	Token             string        `mapstructure:"token" yaml:"token" validate:"required"`
	APIBaseURL        string        `mapstructure:"api_base_url" yaml:"api_base_url" validate:"omitempty,url"`
	WebhookURL        string        `mapstructure:"webhook_url" yaml:"webhook_url" validate:"omitempty,url"`
	WebhookSecret     string        `mapstructure:"webhook_secret" yaml:"webhook_secret" validate:"omitempty,max=256"`
	PollTimeout       time.Duration `mapstructure:"poll_timeout" yaml:"poll_timeout" validate:"gte=0"`
	SendRatePerSecond float64       `mapstructure:"send_rate_per_second" yaml:"send_rate_per_second" validate:"gte=0"`
	RetryMaxAttempts  int           `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts" validate:"gte=0,lte=10"`
}

type ServerConfig struct {
	Addr               string   `mapstructure:"addr" yaml:"addr" validate:"required"`
	WebhookPath        string   `mapstructure:"webhook_path" yaml:"webhook_path" validate:"required,startswith=/"`
	AdminToken         string   `mapstructure:"admin_token" yaml:"admin_token"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" yaml:"cors_allowed_origins"`
}

type StoreConfig struct {
	Backend     string        `mapstructure:"backend" yaml:"backend" validate:"oneof=memory file redis postgres sqlite"`
	Key         string        `mapstructure:"key" yaml:"key" validate:"required"`
	TTL         time.Duration `mapstructure:"ttl" yaml:"ttl" validate:"gte=0"`
	FileDir     string        `mapstructure:"file_dir" yaml:"file_dir" validate:"required_if=Backend file"`
	RedisURL    string        `mapstructure:"redis_url" yaml:"redis_url" validate:"required_if=Backend redis"`
	PostgresDSN string        `mapstructure:"postgres_dsn" yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
	SQLitePath  string        `mapstructure:"sqlite_path" yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
}

type BotConfig struct {
	DefaultTeacherName string `mapstructure:"default_teacher_name" yaml:"default_teacher_name"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Telegram: TelegramConfig{
			APIBaseURL:        DefaultAPIBaseURL,
			PollTimeout:       DefaultPollTimeout,
			SendRatePerSecond: DefaultSendRate,
			RetryMaxAttempts:  DefaultRetryAttempt,
		},
		Server: ServerConfig{
			Addr:        DefaultServerAddr,
			WebhookPath: DefaultWebhookPath,
		},
		Store: StoreConfig{
			Backend:    kv.BackendFile,
			Key:        state.DefaultKey,
			FileDir:    DefaultStoreDir,
			SQLitePath: DefaultSQLitePath,
		},
		Bot: BotConfig{
			DefaultTeacherName: state.DefaultTeacherDisplayName,
		},
		Observability: observability.DefaultConfig(),
	}
}

// StoreOptions maps the store section onto the backend selector.
func (c Config) StoreOptions() kv.Options {
	return kv.Options{
		Backend:     c.Store.Backend,
		FileDir:     c.Store.FileDir,
		RedisURL:    c.Store.RedisURL,
		PostgresDSN: c.Store.PostgresDSN,
		SQLitePath:  c.Store.SQLitePath,
	}
}

// RepositoryConfig maps the store and bot sections onto the state adapter.
func (c Config) RepositoryConfig() state.RepositoryConfig {
	return state.RepositoryConfig{
		Key:                c.Store.Key,
		TTL:                c.Store.TTL,
		TeacherDisplayName: c.Bot.DefaultTeacherName,
	}
}
