package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Providers ProvidersConfig `yaml:"providers"`
	Credits   CreditsConfig   `yaml:"credits"`
	Generator GeneratorConfig `yaml:"generator"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-User-ID"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	RateLimitPerMin int           `yaml:"rate_limit_per_min" env:"SERVER_RATE_LIMIT_PER_MIN" env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// ProvidersConfig holds credentials for the external translation APIs.
type ProvidersConfig struct {
	Microsoft MicrosoftConfig `yaml:"microsoft"`
	Yandex    YandexConfig    `yaml:"yandex"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
}

// MicrosoftConfig holds Microsoft Translator API settings.
type MicrosoftConfig struct {
	APIKey string `yaml:"api_key" env:"MICROSOFT_API_KEY"`
	Region string `yaml:"region"  env:"MICROSOFT_REGION"  env-default:"northeurope"`
}

// YandexConfig holds Yandex Dictionary API settings.
type YandexConfig struct {
	APIKey string `yaml:"api_key" env:"YANDEX_API_KEY"`
}

// OpenAIConfig holds OpenAI API settings, shared by the generative
// translation provider and the practice text generator.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key"      env:"OPENAI_API_KEY"`
	Organization string `yaml:"organization" env:"OPENAI_ORGANIZATION"`
	Model        string `yaml:"model"        env:"OPENAI_MODEL" env-default:"gpt-3.5-turbo"`
}

// CreditsConfig holds the credit costs of metered operations.
type CreditsConfig struct {
	TranslationCost int `yaml:"translation_cost" env:"CREDITS_TRANSLATION_COST" env-default:"1"`
	TextCost        int `yaml:"text_cost"        env:"CREDITS_TEXT_COST"        env-default:"5"`
	InitialBalance  int `yaml:"initial_balance"  env:"CREDITS_INITIAL_BALANCE"  env-default:"100"`
}

// GeneratorConfig holds practice text generation settings.
type GeneratorConfig struct {
	VocabularyLimit int `yaml:"vocabulary_limit" env:"GENERATOR_VOCABULARY_LIMIT" env-default:"20"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
