package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/engine"
	"github.com/katujxa19881-gif/teacher-helper-bot-sub000/internal/state"
)

func envMap(values map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, meta, err := Load(WithEnv(envMap(nil)), WithDotEnv())
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.Telegram.APIBaseURL)
	assert.Equal(t, DefaultPollTimeout, cfg.Telegram.PollTimeout)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "/telegram/webhook", cfg.Server.WebhookPath)
	assert.Equal(t, "file", cfg.Store.Backend)
	assert.Equal(t, state.DefaultKey, cfg.Store.Key)
	assert.Equal(t, state.DefaultTeacherDisplayName, cfg.Bot.DefaultTeacherName)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, SourceDefault, meta.Source("telegram.token"))
	assert.Empty(t, meta.ConfigFile())
	require.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "teacherbot.yaml", `
telegram:
  token: from-file
  poll_timeout: 45s
server:
  addr: ":9000"
  cors_allowed_origins: ["https://a.example.org"]
store:
  backend: redis
  redis_url: redis://file:6379/0
  ttl: 24h
bot:
  default_teacher_name: Мария Ивановна
`)
	dotenvPath := writeFile(t, dir, ".env", "TEACHERBOT_SERVER_ADDR=:9100\nREDIS_URL=redis://dotenv:6379/1\n")

	cfg, meta, err := Load(
		WithConfigPath(cfgPath),
		WithDotEnv(dotenvPath),
		WithEnv(envMap(map[string]string{
			"TELEGRAM_BOT_TOKEN":   "from-env",
			"CORS_ALLOWED_ORIGINS": "https://b.example.org, https://c.example.org",
		})),
		WithOverrides(Overrides{StoreBackend: ptr("redis"), LogLevel: ptr("DEBUG")}),
	)
	require.NoError(t, err)

	assert.Equal(t, cfgPath, meta.ConfigFile())
	assert.Equal(t, "from-env", cfg.Telegram.Token)
	assert.Equal(t, SourceEnv, meta.Source("telegram.token"))
	assert.Equal(t, 45*time.Second, cfg.Telegram.PollTimeout)
	assert.Equal(t, SourceFile, meta.Source("telegram.poll_timeout"))
	assert.Equal(t, ":9100", cfg.Server.Addr)
	assert.Equal(t, SourceDotEnv, meta.Source("server.addr"))
	assert.Equal(t, "redis://dotenv:6379/1", cfg.Store.RedisURL)
	assert.Equal(t, []string{"https://b.example.org", "https://c.example.org"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.Store.TTL)
	assert.Equal(t, "Мария Ивановна", cfg.Bot.DefaultTeacherName)
	assert.Equal(t, "debug", cfg.Observability.Logging.Level)
	assert.Equal(t, SourceOverride, meta.Source("observability.logging.level"))

	repo := cfg.RepositoryConfig()
	assert.Equal(t, 24*time.Hour, repo.TTL)
	assert.Equal(t, "Мария Ивановна", repo.TeacherDisplayName)
	assert.Equal(t, "redis", cfg.StoreOptions().Backend)

	require.NoError(t, cfg.Validate())
	require.NoError(t, cfg.ValidateTelegram())
}

func TestLoadConfigPathFromEnv(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "custom.yaml", "store:\n  backend: memory\n")
	cfg, _, err := Load(WithDotEnv(), WithEnv(envMap(map[string]string{EnvConfigPath: path})))
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)

	_, _, err = Load(WithDotEnv(), WithEnv(envMap(map[string]string{EnvConfigPath: filepath.Join(dir, "missing.yaml")})))
	require.Error(t, err)
}

func TestLoadRejectsMissingExplicitFile(t *testing.T) {
	_, _, err := Load(WithDotEnv(), WithEnv(envMap(nil)), WithConfigPath(filepath.Join(t.TempDir(), "nope.yaml")))
	require.Error(t, err)
}

func TestValidateTelegramRequiresToken(t *testing.T) {
	cfg := Default()
	err := cfg.ValidateTelegram()
	require.Error(t, err)
	assert.True(t, engine.IsConfigurationError(err))

	var cfgErr *engine.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"telegram.token"}, cfgErr.Keys)

	cfg.Telegram.Token = "123:abc"
	require.NoError(t, cfg.ValidateTelegram())
	err = cfg.ValidateWebhook()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram.webhook_url")
}

func TestValidateStoreBackends(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantKey string
	}{
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "etcd" }, wantKey: "store.backend"},
		{name: "redis without url", mutate: func(c *Config) { c.Store.Backend = "redis" }, wantKey: "store.redis_url"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Backend = "postgres" }, wantKey: "store.postgres_dsn"},
		{name: "negative ttl", mutate: func(c *Config) { c.Store.TTL = -time.Second }, wantKey: "store.ttl"},
		{name: "bad log level", mutate: func(c *Config) { c.Observability.Logging.Level = "loud" }, wantKey: "observability.logging.level"},
		{name: "relative webhook path", mutate: func(c *Config) { c.Server.WebhookPath = "hook" }, wantKey: "server.webhook_path"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *engine.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Contains(t, cfgErr.Keys, tc.wantKey)
		})
	}
}

func TestAliasEnvLookupPrefersCanonicalKey(t *testing.T) {
	lookup := AliasEnvLookup(envMap(map[string]string{
		"TEACHERBOT_TELEGRAM_TOKEN": "canonical",
		"TELEGRAM_BOT_TOKEN":        "alias",
	}), DefaultEnvAliases())
	v, ok := lookup("TEACHERBOT_TELEGRAM_TOKEN")
	require.True(t, ok)
	assert.Equal(t, "canonical", v)

	lookup = AliasEnvLookup(envMap(map[string]string{"BOT_TOKEN": "second-alias"}), DefaultEnvAliases())
	v, ok = lookup("TEACHERBOT_TELEGRAM_TOKEN")
	require.True(t, ok)
	assert.Equal(t, "second-alias", v)
}

func ptr(s string) *string { return &s }
