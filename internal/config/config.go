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
	AppName           string
	AppEnv            string
	AppPort           string
	CORSOrigins       string
	DatabaseURL       string
	RedisURL          string
	RedisDialTimeout  time.Duration
	JWTSecret         string
	DashboardCacheTTL time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether internal error detail may be exposed to callers.
func (c Config) IsDevelopment() bool {
	return strings.EqualFold(c.AppEnv, "development")
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ACADEMICO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Academico API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("dashboard.cache_ttl", "5m")

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "5m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	dialString := v.GetString("redis.dial_timeout")
	if dialString == "" {
		dialString = "5s"
	}

	dialTimeout, err := time.ParseDuration(dialString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid redis dial timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		CORSOrigins:       v.GetString("cors.origins"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		RedisDialTimeout:  dialTimeout,
		JWTSecret:         v.GetString("jwt.secret"),
		DashboardCacheTTL: ttl,
	}

	return cfg, nil
}
