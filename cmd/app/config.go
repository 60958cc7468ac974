package main

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type DBConfig struct {
	DBHost         string        `mapstructure:"POSTGRES_HOST"`
	DBPort         string        `mapstructure:"POSTGRES_PORT"`
	DBUser         string        `mapstructure:"POSTGRES_USER"`
	DBPassword     string        `mapstructure:"POSTGRES_PASSWORD"`
	DBName         string        `mapstructure:"POSTGRES_DB"`
	DBMaxOpenConns int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxIdleTime  time.Duration `mapstructure:"DB_MAX_IDLE_TIME"`
}

type MailConfig struct {
	MailHost     string `mapstructure:"MAIL_HOST"`
	MailPort     int    `mapstructure:"MAIL_PORT"`
	MailUser     string `mapstructure:"MAIL_USER"`
	MailPassword string `mapstructure:"MAIL_PASSWORD"`
	MailSender   string `mapstructure:"MAIL_SENDER"`
}

type MQConfig struct {
	MQHost     string `mapstructure:"RABBITMQ_HOST"`
	MQPort     string `mapstructure:"RABBITMQ_PORT"`
	MQUser     string `mapstructure:"RABBITMQ_USER"`
	MQPassword string `mapstructure:"RABBITMQ_PASSWORD"`
}

type AuthConfig struct {
	JWTSecret       string        `mapstructure:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `mapstructure:"ACCESS_TOKEN_TTL"`
	RefreshTokenTTL time.Duration `mapstructure:"REFRESH_TOKEN_TTL"`
	CacheTTL        time.Duration `mapstructure:"CACHE_TTL"`
}

type Config struct {
	Port           string   `mapstructure:"PORT"`
	Environment    string   `mapstructure:"ENVIRONMENT"`
	Version        string   `mapstructure:"VERSION"`
	TrustedOrigins []string `mapstructure:"TRUSTED_ORIGINS"`

	RateLimitRPS     float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int     `mapstructure:"RATE_LIMIT_BURST"`
	RateLimitEnabled bool    `mapstructure:"RATE_LIMIT_ENABLED"`

	TLSCertFile string `mapstructure:"TLS_CERT_FILE"`
	TLSKeyFile  string `mapstructure:"TLS_KEY_FILE"`

	DBConfig   `mapstructure:",squash"`
	MailConfig `mapstructure:",squash"`
	MQConfig   `mapstructure:",squash"`
	AuthConfig `mapstructure:",squash"`
}

var defaults = map[string]any{
	"PORT":               "8080",
	"ENVIRONMENT":        "development",
	"VERSION":            "1.0.0",
	"TRUSTED_ORIGINS":    []string{},
	"RATE_LIMIT_RPS":     2.0,
	"RATE_LIMIT_BURST":   4,
	"RATE_LIMIT_ENABLED": true,
	"TLS_CERT_FILE":      "",
	"TLS_KEY_FILE":       "",
	"POSTGRES_HOST":      "localhost",
	"POSTGRES_PORT":      "5432",
	"POSTGRES_USER":      "postgres",
	"POSTGRES_PASSWORD":  "",
	"POSTGRES_DB":        "blogist",
	"DB_MAX_OPEN_CONNS":  25,
	"DB_MAX_IDLE_CONNS":  25,
	"DB_MAX_IDLE_TIME":   15 * time.Minute,
	"MAIL_HOST":          "localhost",
	"MAIL_PORT":          25,
	"MAIL_USER":          "",
	"MAIL_PASSWORD":      "",
	"MAIL_SENDER":        "Blogist <no-reply@blogist.local>",
	"RABBITMQ_HOST":      "localhost",
	"RABBITMQ_PORT":      "5672",
	"RABBITMQ_USER":      "guest",
	"RABBITMQ_PASSWORD":  "guest",
	"JWT_SECRET":         "",
	"ACCESS_TOKEN_TTL":   5 * time.Minute,
	"REFRESH_TOKEN_TTL":  24 * time.Hour,
	"CACHE_TTL":          5 * time.Minute,
}

var errMissingSecret = errors.New("JWT_SECRET must be set")

// loadConfig reads the .env file at path if it exists. Environment variables take precedence.
func loadConfig(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if config.JWTSecret == "" {
		return nil, errMissingSecret
	}

	return &config, nil
}
