package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env      string
	AppName  string
	HTTPPort string

	DatabaseURL string

	RSAKeysPath        string
	PrivateKeyFilename string
	PublicKeyFilename  string

	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	VerificationCodeTTL time.Duration
	ResendCooldown      time.Duration

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string

	LocalesDir    string
	DefaultLocale string

	OTELServiceName          string
	OTELEnvironment          string
	OTELExporterOTLPEndpoint string
	OTELExporterOTLPInsecure bool
	OTELLogsEnabled          bool
	OTELHTTPEnabled          bool
	OTELLogLevel             string
}

func Load() (*Config, error) {
	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Env:         env,
		AppName:     getEnv("APP_NAME", "AuthKit"),
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		RSAKeysPath:        os.Getenv("RSA_KEYS_PATH"),
		PrivateKeyFilename: getEnv("RSA_PRIVATE_KEY_FILENAME", "private_key.pem"),
		PublicKeyFilename:  getEnv("RSA_PUBLIC_KEY_FILENAME", "public_key.pem"),

		JWTIssuer: getEnv("JWT_ISSUER", "authkit"),

		SMTPHost:     os.Getenv("SMTP_SERVER"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		LocalesDir:    os.Getenv("LOCALES_DIR"),
		DefaultLocale: getEnv("DEFAULT_LOCALE", "en"),

		OTELServiceName:          getEnv("OTEL_SERVICE_NAME", "authkit"),
		OTELEnvironment:          getEnv("OTEL_ENVIRONMENT", env),
		OTELExporterOTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTELExporterOTLPInsecure: getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELLogsEnabled:          getEnvBool("OTEL_LOGS_ENABLED", false),
		OTELHTTPEnabled:          getEnvBool("OTEL_HTTP_ENABLED", false),
		OTELLogLevel:             strings.ToLower(getEnv("OTEL_LOG_LEVEL", "info")),
	}

	var err error
	if cfg.AccessTokenTTL, err = getEnvDuration("ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.RefreshTokenTTL, err = getEnvDuration("REFRESH_TOKEN_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.VerificationCodeTTL, err = getEnvDuration("VERIFICATION_CODE_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.ResendCooldown, err = getEnvDuration("VERIFICATION_RESEND_COOLDOWN", time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.RSAKeysPath == "" {
		return errors.New("RSA_KEYS_PATH is required")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.VerificationCodeTTL <= 0 || c.ResendCooldown < 0 {
		return errors.New("verification code durations out of range")
	}
	if c.SMTPEnabled() && c.SMTPFrom == "" {
		return errors.New("SMTP_FROM is required when SMTP is configured")
	}
	return nil
}

// SMTPEnabled reports whether outbound mail is configured; without it the
// app falls back to the log-only notifier.
func (c *Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return parsed, nil
}
