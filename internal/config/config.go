// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/spf13/viper"
)

const EnvPrefix = "TASKMANAGER"

type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Repository RepositoryConfig `mapstructure:"repository" yaml:"repository"`
	Auth       AuthConfig       `mapstructure:"auth" yaml:"auth"`
	Calendar   CalendarConfig   `mapstructure:"calendar" yaml:"calendar"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit" yaml:"rate_limit"`
	Worker     WorkerConfig     `mapstructure:"worker" yaml:"worker"`
}

type ServerConfig struct {
	Port            string        `mapstructure:"port" yaml:"port"`
	Host            string        `mapstructure:"host" yaml:"host"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url" yaml:"url"`
	MaxConnections int32         `mapstructure:"max_connections" yaml:"max_connections"`
	MinConnections int32         `mapstructure:"min_connections" yaml:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	SQLitePath     string        `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	AutoMigrate    bool          `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development" yaml:"development"`
}

const (
	RepositoryPostgres = "postgres"
	RepositorySQLite   = "sqlite"
	RepositoryInMemory = "inmemory"
)

type RepositoryConfig struct {
	Type string `mapstructure:"type" yaml:"type"` // "postgres", "sqlite" или "inmemory"
}

type AuthConfig struct {
	Secret     string `mapstructure:"secret" yaml:"secret"`
	Issuer     string `mapstructure:"issuer" yaml:"issuer"`
	CookieName string `mapstructure:"cookie_name" yaml:"cookie_name"`
}

type CalendarConfig struct {
	Timezone string `mapstructure:"timezone" yaml:"timezone"`
}

const (
	RateLimitMemory = "memory"
	RateLimitRedis  = "redis"
)

type RateLimitConfig struct {
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	Backend           string `mapstructure:"backend" yaml:"backend"` // "memory" или "redis"
	RedisAddr         string `mapstructure:"redis_addr" yaml:"redis_addr"`
}

type WorkerConfig struct {
	HealthInterval time.Duration `mapstructure:"health_interval" yaml:"health_interval"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.sqlite_path", "tasks.db")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("logging.development", false)
	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.cookie_name", "session")

	v.SetDefault("calendar.timezone", "UTC")

	v.SetDefault("rate_limit.requests_per_minute", 100)
	v.SetDefault("rate_limit.backend", RateLimitMemory)
	v.SetDefault("rate_limit.redis_addr", "localhost:6379")

	v.SetDefault("worker.health_interval", 30*time.Second)
}

// Load читает конфиг: значения по умолчанию, затем файл path (если есть),
// затем переменные окружения TASKMANAGER_<СЕКЦИЯ>_<КЛЮЧ>.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("ошибка парсинга %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("разбор конфигурации: %w", err)
	}
	return &cfg, nil
}

// Validate проверяет то, без чего сервер не может стартовать.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret не задан"))
	}

	switch c.Repository.Type {
	case RepositoryPostgres:
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url обязателен для repository.type=postgres"))
		}
	case RepositorySQLite:
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path обязателен для repository.type=sqlite"))
		}
	case RepositoryInMemory:
	default:
		errs = append(errs, fmt.Errorf("неизвестный repository.type %q", c.Repository.Type))
	}

	switch c.RateLimit.Backend {
	case RateLimitMemory, RateLimitRedis:
	default:
		errs = append(errs, fmt.Errorf("неизвестный rate_limit.backend %q", c.RateLimit.Backend))
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("calendar.timezone: %w", err))
	}

	return errors.Join(errs...)
}

func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}
