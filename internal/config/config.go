package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName                string
	AppEnv                 string
	AppPort                string
	DatabaseURL            string
	RedisURL               string
	NATSURL                string
	JWTSecret              string
	JWTRefreshSecret       string
	SessionTTL             time.Duration
	AuthResolveTimeout     time.Duration
	SummaryCacheTTL        time.Duration
	CloudinaryCloudName    string
	CloudinaryAPIKey       string
	CloudinaryAPISecret    string
	CloudinaryUploadFolder string
	MaxUploadSizeMB        int
	SeedEnabled            bool
	SeedToken              string
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("EDUDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "EduDesk API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("auth.resolve_timeout", "3s")
	v.SetDefault("summary.cache_ttl", "5m")
	v.SetDefault("cloudinary.folder", "edudesk/media")
	v.SetDefault("max_upload_size_mb", 10)

	sessionTTL, err := parseDuration(v.GetString("session.ttl"), 24*time.Hour)
	if err != nil {
		return Config{}, fmt.Errorf("invalid session ttl: %w", err)
	}

	resolveTimeout, err := parseDuration(v.GetString("auth.resolve_timeout"), 3*time.Second)
	if err != nil {
		return Config{}, fmt.Errorf("invalid auth resolve timeout: %w", err)
	}

	summaryTTL, err := parseDuration(v.GetString("summary.cache_ttl"), 5*time.Minute)
	if err != nil {
		return Config{}, fmt.Errorf("invalid summary cache ttl: %w", err)
	}

	cfg := Config{
		AppName:                v.GetString("app.name"),
		AppEnv:                 v.GetString("app.env"),
		AppPort:                v.GetString("app.port"),
		DatabaseURL:            v.GetString("database.url"),
		RedisURL:               v.GetString("redis.url"),
		NATSURL:                v.GetString("nats.url"),
		JWTSecret:              v.GetString("jwt.secret"),
		JWTRefreshSecret:       v.GetString("jwt.refresh_secret"),
		SessionTTL:             sessionTTL,
		AuthResolveTimeout:     resolveTimeout,
		SummaryCacheTTL:        summaryTTL,
		CloudinaryCloudName:    v.GetString("cloudinary.cloud_name"),
		CloudinaryAPIKey:       v.GetString("cloudinary.api_key"),
		CloudinaryAPISecret:    v.GetString("cloudinary.api_secret"),
		CloudinaryUploadFolder: v.GetString("cloudinary.folder"),
		MaxUploadSizeMB:        v.GetInt("max_upload_size_mb"),
		SeedEnabled:            v.GetBool("seed.enabled"),
		SeedToken:              v.GetString("seed.token"),
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.MaxUploadSizeMB <= 0 {
		cfg.MaxUploadSizeMB = 10
	}

	return cfg, nil
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	return time.ParseDuration(raw)
}
