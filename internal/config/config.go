package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/redis/go-redis/v9"
)

// durationSeconds parses env as time.Duration: "10s", "5m" or a bare number of seconds.
type durationSeconds time.Duration

// SetValue implements cleanenv.Setter.
func (d *durationSeconds) SetValue(s string) error {
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = durationSeconds(v)
	return nil
}

func (d durationSeconds) Duration() time.Duration { return time.Duration(d) }

func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && ((s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'')) {
		s = s[1 : len(s)-1]
	}
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("duration must be like 10s, 5m or a number of seconds: %w", err)
	}
	return d, nil
}

type Config struct {
	App   AppConfig
	HTTP  HTTPConfig
	DB    DBConfig
	Redis RedisConfig
	Admin AdminConfig
	Log   LogConfig
}

type AppConfig struct {
	Env     string `env:"APP_ENV" env-default:"dev"`
	Version string `env:"VERSION" env-default:"dev"`
}

// IsDev reports whether the service runs with development defaults.
func (a AppConfig) IsDev() bool {
	return a.Env == "" || a.Env == "dev" || a.Env == "development"
}

type HTTPConfig struct {
	Port         string          `env:"PORT" env-default:"8080"`
	ReadTimeout  durationSeconds `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout durationSeconds `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  durationSeconds `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	// Comma separated; "*" allows any origin.
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"*"`
}

type DBConfig struct {
	Path string `env:"DB_PATH" env-default:"data/portfolio.db"`
}

type RedisConfig struct {
	// Empty disables Redis: sessions stay in memory and lists are not cached.
	URL        string          `env:"REDIS_URL" env-default:""`
	DefaultTTL durationSeconds `env:"REDIS_DEFAULT_TTL" env-default:"60"`
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool { return r.URL != "" }

// Options parses the configured URL into client options.
func (r RedisConfig) Options() (*redis.Options, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(r.URL))
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL: %w", err)
	}
	return opts, nil
}

type AdminConfig struct {
	Password     string          `env:"ADMIN_PASSWORD" env-default:""`
	PasswordHash string          `env:"ADMIN_PASSWORD_HASH" env-default:""`
	SessionTTL   durationSeconds `env:"ADMIN_SESSION_TTL" env-default:"24h"`
	// Salt for visitor IP hashing; random per process when empty.
	HashingSalt string `env:"VISITOR_HASH_SALT" env-default:""`
	// Visits older than this are purged.
	VisitorRetention durationSeconds `env:"VISITOR_RETENTION" env-default:"8760h"`
	SecureCookie     bool            `env:"ADMIN_SECURE_COOKIE" env-default:"false"`
}

type LogConfig struct {
	Level string `env:"LOG_LEVEL" env-default:"info"`
}

func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	if cfg.Redis.Enabled() {
		if _, err := cfg.Redis.Options(); err != nil {
			return Config{}, err
		}
	}
	if cfg.Admin.SessionTTL.Duration() <= 0 {
		return Config{}, fmt.Errorf("ADMIN_SESSION_TTL must be positive")
	}
	return cfg, nil
}
