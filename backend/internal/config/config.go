package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	Clock     ClockConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Host         string        `yaml:"host" env:"SERVER_HOST" env-default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"SERVER_PORT" env-default:"8000"`
	Environment  string        `yaml:"environment" env:"APP_ENV" env-default:"development"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	AllowOrigins []string      `yaml:"allow_origins" env:"CORS_ALLOW_ORIGINS" env-default:"http://localhost:3000,http://nextjs:3000"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host" env:"POSTGRES_HOST" env-default:"db"`
	Port            int           `yaml:"port" env:"POSTGRES_PORT" env-default:"5432"`
	User            string        `yaml:"user" env:"POSTGRES_USER" env-default:"postgres"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	Name            string        `yaml:"name" env:"POSTGRES_DB" env-default:"task_manager"`
	SSLMode         string        `yaml:"sslmode" env:"POSTGRES_SSLMODE" env-default:"disable"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"file://migrations"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"DB_CONN_MAX_IDLE_TIME" env-default:"30m"`
}

type RedisConfig struct {
	Host         string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port         int           `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db" env:"REDIS_DB" env-default:"0"`
	PoolSize     int           `yaml:"pool_size" env:"REDIS_POOL_SIZE" env-default:"10"`
	MinIdleConns int           `yaml:"min_idle_conns" env:"REDIS_MIN_IDLE_CONNS" env-default:"2"`
	MaxRetries   int           `yaml:"max_retries" env:"REDIS_MAX_RETRIES" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env:"REDIS_DIAL_TIMEOUT" env-default:"5s"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"REDIS_READ_TIMEOUT" env-default:"3s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"REDIS_WRITE_TIMEOUT" env-default:"3s"`
}

type RateLimitConfig struct {
	RequestsPerMin int `yaml:"requests_per_min" env:"RATE_LIMIT_RPM" env-default:"120"`
	BurstSize      int `yaml:"burst_size" env:"RATE_LIMIT_BURST" env-default:"20"`
	LoginPerMin    int `yaml:"login_per_min" env:"RATE_LIMIT_LOGIN_RPM" env-default:"10"`
}

type AuthConfig struct {
	SecretKey       string        `yaml:"secret_key" env:"AUTH_SECRET_KEY" env-required:"true"`
	Algorithm       string        `yaml:"algorithm" env:"AUTH_ALGORITHM" env-required:"true"`
	AccessTokenTTL  time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"30m"`
	RefreshTokenTTL time.Duration `yaml:"refresh_token_ttl" env:"AUTH_REFRESH_TOKEN_TTL" env-default:"24h"`
}

type ClockConfig struct {
	UTCOffset time.Duration `yaml:"utc_offset" env:"CLOCK_UTC_OFFSET" env-default:"7h"`
}

type CacheConfig struct {
	LookupTTL     time.Duration `yaml:"lookup_ttl" env:"CACHE_LOOKUP_TTL" env-default:"15m"`
	WarmInterval  time.Duration `yaml:"warm_interval" env:"CACHE_WARM_INTERVAL" env-default:"15m"`
	WarmerWorkers int           `yaml:"warmer_workers" env:"CACHE_WARMER_WORKERS" env-default:"3"`
}

var supportedAlgorithms = map[string]bool{"HS256": true, "HS384": true, "HS512": true}

// LoadConfig reads CONFIG_PATH when set (falling back to the environment if the
// file is missing) and validates the result.
func LoadConfig() (*Config, error) {
	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		var pe *os.PathError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Auth.SecretKey == "" {
		return errors.New("AUTH_SECRET_KEY must not be empty")
	}
	if !supportedAlgorithms[c.Auth.Algorithm] {
		return fmt.Errorf("unsupported AUTH_ALGORITHM %q", c.Auth.Algorithm)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Clock.UTCOffset < -14*time.Hour || c.Clock.UTCOffset > 14*time.Hour {
		return fmt.Errorf("clock offset %v out of range", c.Clock.UTCOffset)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

func (c *Config) GetRedisAddr() string {
	return net.JoinHostPort(c.Redis.Host, strconv.Itoa(c.Redis.Port))
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host, c.Database.Port, c.Database.User, c.Database.Password, c.Database.Name, c.Database.SSLMode)
}
