package config

// EnvConfigPath names the variable pointing at the YAML config file.
const EnvConfigPath = "TEACHERBOT_CONFIG"

type envBinding struct {
	key string
	env string
}

var envBindings = []envBinding{
	{key: "telegram.token", env: "TEACHERBOT_TELEGRAM_TOKEN"},
	{key: "telegram.api_base_url", env: "TEACHERBOT_TELEGRAM_API_BASE_URL"},
	{key: "telegram.webhook_url", env: "TEACHERBOT_TELEGRAM_WEBHOOK_URL"},
	{key: "telegram.webhook_secret", env: "TEACHERBOT_TELEGRAM_WEBHOOK_SECRET"},
	{key: "telegram.poll_timeout", env: "TEACHERBOT_TELEGRAM_POLL_TIMEOUT"},
	{key: "telegram.send_rate_per_second", env: "TEACHERBOT_TELEGRAM_SEND_RATE_PER_SECOND"},
	{key: "telegram.retry_max_attempts", env: "TEACHERBOT_TELEGRAM_RETRY_MAX_ATTEMPTS"},
	{key: "server.addr", env: "TEACHERBOT_SERVER_ADDR"},
	{key: "server.webhook_path", env: "TEACHERBOT_SERVER_WEBHOOK_PATH"},
	{key: "server.admin_token", env: "TEACHERBOT_SERVER_ADMIN_TOKEN"},
	{key: "server.cors_allowed_origins", env: "TEACHERBOT_SERVER_CORS_ALLOWED_ORIGINS"},
	{key: "store.backend", env: "TEACHERBOT_STORE_BACKEND"},
	{key: "store.key", env: "TEACHERBOT_STORE_KEY"},
	{key: "store.ttl", env: "TEACHERBOT_STORE_TTL"},
	{key: "store.file_dir", env: "TEACHERBOT_STORE_FILE_DIR"},
	{key: "store.redis_url", env: "TEACHERBOT_STORE_REDIS_URL"},
	{key: "store.postgres_dsn", env: "TEACHERBOT_STORE_POSTGRES_DSN"},
	{key: "store.sqlite_path", env: "TEACHERBOT_STORE_SQLITE_PATH"},
	{key: "bot.default_teacher_name", env: "TEACHERBOT_BOT_DEFAULT_TEACHER_NAME"},
	{key: "observability.logging.level", env: "TEACHERBOT_LOG_LEVEL"},
	{key: "observability.logging.format", env: "TEACHERBOT_LOG_FORMAT"},
	{key: "observability.metrics.enabled", env: "TEACHERBOT_METRICS_ENABLED"},
	{key: "observability.tracing.enabled", env: "TEACHERBOT_TRACING_ENABLED"},
	{key: "observability.tracing.exporter", env: "TEACHERBOT_TRACING_EXPORTER"},
	{key: "observability.tracing.otlp_endpoint", env: "TEACHERBOT_TRACING_OTLP_ENDPOINT"},
	{key: "observability.tracing.zipkin_endpoint", env: "TEACHERBOT_TRACING_ZIPKIN_ENDPOINT"},
}

// DefaultEnvAliases returns the canonical alias map used to resolve the
// conventional, unprefixed variable names.
func DefaultEnvAliases() map[string][]string {
	aliases := map[string][]string{
		"TEACHERBOT_TELEGRAM_TOKEN":              {"TELEGRAM_BOT_TOKEN", "BOT_TOKEN"},
		"TEACHERBOT_TELEGRAM_WEBHOOK_URL":        {"WEBHOOK_URL"},
		"TEACHERBOT_TELEGRAM_WEBHOOK_SECRET":     {"WEBHOOK_SECRET", "TELEGRAM_WEBHOOK_SECRET"},
		"TEACHERBOT_SERVER_ADDR":                 {"ADDR"},
		"TEACHERBOT_SERVER_CORS_ALLOWED_ORIGINS": {"CORS_ALLOWED_ORIGINS"},
		"TEACHERBOT_STORE_REDIS_URL":             {"REDIS_URL"},
		"TEACHERBOT_STORE_POSTGRES_DSN":          {"DATABASE_URL"},
		"TEACHERBOT_BOT_DEFAULT_TEACHER_NAME":    {"TEACHER_NAME"},
	}

	copy := make(map[string][]string, len(aliases))
	for key, list := range aliases {
		copy[key] = append([]string(nil), list...)
	}
	return copy
}
