package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ValueSource describes where a configuration value originated from.
type ValueSource string

const (
	SourceDefault  ValueSource = "default"
	SourceFile     ValueSource = "file"
	SourceDotEnv   ValueSource = "dotenv"
	SourceEnv      ValueSource = "environment"
	SourceOverride ValueSource = "override"
)

// Metadata contains provenance details for loaded configuration.
type Metadata struct {
	sources    map[string]ValueSource
	configFile string
	loadedAt   time.Time
}

// Source returns the origin for the given configuration key.
func (m Metadata) Source(key string) ValueSource {
	if m.sources == nil {
		return SourceDefault
	}
	if src, ok := m.sources[key]; ok {
		return src
	}
	return SourceDefault
}

// ConfigFile returns the YAML file that was read, if any.
func (m Metadata) ConfigFile() string {
	return m.configFile
}

// LoadedAt returns the timestamp when the configuration was constructed.
func (m Metadata) LoadedAt() time.Time {
	return m.loadedAt
}

// Overrides conveys caller-specified values (CLI flags) that win over
// every other source.
type Overrides struct {
	TelegramToken *string
	WebhookURL    *string
	ServerAddr    *string
	StoreBackend  *string
	LogLevel      *string
	LogFormat     *string
}

// EnvLookup resolves the value for an environment variable.
type EnvLookup func(string) (string, bool)

// Option customises the loader behaviour.
type Option func(*loadOptions)

type loadOptions struct {
	envLookup   EnvLookup
	overrides   Overrides
	configPath  string
	dotEnvPaths []string
	fileExists  func(string) bool
}

// WithEnv supplies a custom environment lookup implementation.
func WithEnv(lookup EnvLookup) Option {
	return func(o *loadOptions) {
		o.envLookup = lookup
	}
}

// WithOverrides applies caller overrides that take highest precedence.
func WithOverrides(overrides Overrides) Option {
	return func(o *loadOptions) {
		o.overrides = overrides
	}
}

// WithConfigPath forces the loader to read configuration from a specific file.
func WithConfigPath(path string) Option {
	return func(o *loadOptions) {
		o.configPath = path
	}
}

// WithDotEnv replaces the .env files consulted. No paths disables them.
func WithDotEnv(paths ...string) Option {
	return func(o *loadOptions) {
		o.dotEnvPaths = append([]string(nil), paths...)
	}
}

// DefaultEnvLookup delegates to os.LookupEnv.
func DefaultEnvLookup(key string) (string, bool) {
	return os.LookupEnv(key)
}

// AliasEnvLookup wraps an EnvLookup with additional alias keys.
func AliasEnvLookup(base EnvLookup, aliases map[string][]string) EnvLookup {
	return func(key string) (string, bool) {
		if base == nil {
			base = DefaultEnvLookup
		}
		if value, ok := base(key); ok && value != "" {
			return value, true
		}
		if list, ok := aliases[key]; ok {
			for _, alias := range list {
				if value, ok := base(alias); ok && value != "" {
					return value, true
				}
			}
		}
		return "", false
	}
}

// Load resolves the configuration. It does not validate; callers pick the
// validation level their command needs.
func Load(opts ...Option) (Config, Metadata, error) {
	options := loadOptions{
		envLookup:   DefaultEnvLookup,
		dotEnvPaths: []string{".env"},
		fileExists:  fileExists,
	}
	for _, opt := range opts {
		opt(&options)
	}
	meta := Metadata{sources: map[string]ValueSource{}, loadedAt: time.Now()}

	v := viper.New()
	setDefaults(v, Default())

	path, err := resolveConfigPath(options)
	if err != nil {
		return Config{}, Metadata{}, err
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, Metadata{}, fmt.Errorf("read config %s: %w", path, err)
		}
		meta.configFile = path
		for _, key := range v.AllKeys() {
			if v.InConfig(key) {
				meta.sources[key] = SourceFile
			}
		}
	}

	dotenv, err := readDotEnv(options)
	if err != nil {
		return Config{}, Metadata{}, err
	}
	applyEnv(v, &meta, options.envLookup, dotenv)
	applyOverrides(v, &meta, options.overrides)

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, Metadata{}, fmt.Errorf("decode config: %w", err)
	}
	normalize(&cfg)
	return cfg, meta, nil
}

func resolveConfigPath(options loadOptions) (string, error) {
	if path := strings.TrimSpace(options.configPath); path != "" {
		if !options.fileExists(path) {
			return "", fmt.Errorf("config file %s not found", path)
		}
		return path, nil
	}
	if path, ok := lookupNonEmpty(options.envLookup, EnvConfigPath); ok {
		if !options.fileExists(path) {
			return "", fmt.Errorf("config file %s (from %s) not found", path, EnvConfigPath)
		}
		return path, nil
	}
	if options.fileExists(DefaultConfigFile) {
		return DefaultConfigFile, nil
	}
	return "", nil
}

func readDotEnv(options loadOptions) (map[string]string, error) {
	merged := map[string]string{}
	for _, path := range options.dotEnvPaths {
		if strings.TrimSpace(path) == "" || !options.fileExists(path) {
			continue
		}
		values, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for key, value := range values {
			if _, seen := merged[key]; !seen {
				merged[key] = value
			}
		}
	}
	return merged, nil
}

// applyEnv copies every bound variable into viper. Real environment
// variables win over .env values.
func applyEnv(v *viper.Viper, meta *Metadata, base EnvLookup, dotenv map[string]string) {
	aliases := DefaultEnvAliases()
	envLookup := AliasEnvLookup(base, aliases)
	dotenvLookup := AliasEnvLookup(func(key string) (string, bool) {
		value, ok := dotenv[key]
		return value, ok
	}, aliases)

	for _, binding := range envBindings {
		if value, ok := envLookup(binding.env); ok {
			v.Set(binding.key, parseEnvValue(binding.key, value))
			meta.sources[binding.key] = SourceEnv
			continue
		}
		if value, ok := dotenvLookup(binding.env); ok {
			v.Set(binding.key, parseEnvValue(binding.key, value))
			meta.sources[binding.key] = SourceDotEnv
		}
	}
}

func parseEnvValue(key, value string) any {
	value = strings.TrimSpace(value)
	switch key {
	case "server.cors_allowed_origins":
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	case "observability.metrics.enabled", "observability.tracing.enabled":
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return value
}

func applyOverrides(v *viper.Viper, meta *Metadata, overrides Overrides) {
	set := func(key string, value *string) {
		if value == nil || strings.TrimSpace(*value) == "" {
			return
		}
		v.Set(key, strings.TrimSpace(*value))
		meta.sources[key] = SourceOverride
	}
	set("telegram.token", overrides.TelegramToken)
	set("telegram.webhook_url", overrides.WebhookURL)
	set("server.addr", overrides.ServerAddr)
	set("store.backend", overrides.StoreBackend)
	set("observability.logging.level", overrides.LogLevel)
	set("observability.logging.format", overrides.LogFormat)
}

func setDefaults(v *viper.Viper, cfg Config) {
	v.SetDefault("telegram.token", cfg.Telegram.Token)
	v.SetDefault("telegram.api_base_url", cfg.Telegram.APIBaseURL)
	v.SetDefault("telegram.webhook_url", cfg.Telegram.WebhookURL)
	v.SetDefault("telegram.webhook_secret", cfg.Telegram.WebhookSecret)
	v.SetDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout)
	v.SetDefault("telegram.send_rate_per_second", cfg.Telegram.SendRatePerSecond)
	v.SetDefault("telegram.retry_max_attempts", cfg.Telegram.RetryMaxAttempts)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.webhook_path", cfg.Server.WebhookPath)
	v.SetDefault("server.admin_token", cfg.Server.AdminToken)
	v.SetDefault("server.cors_allowed_origins", cfg.Server.CORSAllowedOrigins)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.key", cfg.Store.Key)
	v.SetDefault("store.ttl", cfg.Store.TTL)
	v.SetDefault("store.file_dir", cfg.Store.FileDir)
	v.SetDefault("store.redis_url", cfg.Store.RedisURL)
	v.SetDefault("store.postgres_dsn", cfg.Store.PostgresDSN)
	v.SetDefault("store.sqlite_path", cfg.Store.SQLitePath)

	v.SetDefault("bot.default_teacher_name", cfg.Bot.DefaultTeacherName)

	obs := cfg.Observability
	v.SetDefault("observability.logging.level", obs.Logging.Level)
	v.SetDefault("observability.logging.format", obs.Logging.Format)
	v.SetDefault("observability.metrics.enabled", obs.Metrics.Enabled)
	v.SetDefault("observability.tracing.enabled", obs.Tracing.Enabled)
	v.SetDefault("observability.tracing.exporter", obs.Tracing.Exporter)
	v.SetDefault("observability.tracing.otlp_endpoint", obs.Tracing.OTLPEndpoint)
	v.SetDefault("observability.tracing.zipkin_endpoint", obs.Tracing.ZipkinEndpoint)
	v.SetDefault("observability.tracing.sample_rate", obs.Tracing.SampleRate)
	v.SetDefault("observability.tracing.service_name", obs.Tracing.ServiceName)
	v.SetDefault("observability.tracing.service_version", obs.Tracing.ServiceVersion)
}

func normalize(cfg *Config) {
	cfg.Telegram.Token = strings.TrimSpace(cfg.Telegram.Token)
	cfg.Telegram.APIBaseURL = strings.TrimRight(strings.TrimSpace(cfg.Telegram.APIBaseURL), "/")
	cfg.Telegram.WebhookURL = strings.TrimSpace(cfg.Telegram.WebhookURL)
	cfg.Telegram.WebhookSecret = strings.TrimSpace(cfg.Telegram.WebhookSecret)
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
	cfg.Server.WebhookPath = strings.TrimSpace(cfg.Server.WebhookPath)
	cfg.Server.AdminToken = strings.TrimSpace(cfg.Server.AdminToken)
	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	cfg.Store.Key = strings.TrimSpace(cfg.Store.Key)
	cfg.Bot.DefaultTeacherName = strings.TrimSpace(cfg.Bot.DefaultTeacherName)
	cfg.Observability.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Observability.Logging.Level))
	cfg.Observability.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Observability.Logging.Format))
}

func lookupNonEmpty(lookup EnvLookup, key string) (string, bool) {
	if lookup == nil {
		lookup = DefaultEnvLookup
	}
	value, ok := lookup(key)
	value = strings.TrimSpace(value)
	return value, ok && value != ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
