package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=http://localhost:5173"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	S3     S3Config
	CDN    CDNConfig
	Worker WorkerConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET,           required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,            default=24h"`
	CookieSecure  bool          `env:"COOKIE_SECURE,        default=false"`
	RatePerMinute int           `env:"AUTH_RATE_PER_MINUTE, default=30"`
	RateBurst     int           `env:"AUTH_RATE_BURST,      default=10"`

	Argon2 Argon2Config
}

// Argon2Config tunes password hashing. Memory is in KiB.
type Argon2Config struct {
	Memory      uint32 `env:"ARGON2_MEMORY_KIB,  default=65536"`
	Iterations  uint32 `env:"ARGON2_ITERATIONS,  default=3"`
	Parallelism uint8  `env:"ARGON2_PARALLELISM, default=4"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=privytune"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

type S3Config struct {
	Bucket          string `env:"S3_BUCKET"`
	Prefix          string `env:"S3_PREFIX"`
	Endpoint        string `env:"S3_ENDPOINT"`
	Region          string `env:"AWS_REGION, default=us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
}

type CDNConfig struct {
	URL      string        `env:"CLOUDFRONT_URL"`
	Timeout  time.Duration `env:"CDN_TIMEOUT,        default=10s"`
	CacheTTL time.Duration `env:"MANIFEST_CACHE_TTL, default=5m"`
}

type WorkerConfig struct {
	DownloadWorkers int `env:"DOWNLOAD_WORKERS, default=4"`
}

// IsDevelopment reports whether the service runs with developer defaults
// (pretty logs).
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith reads configuration through l and validates it.
func LoadWith(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("S3_BUCKET is required"))
	}
	if c.CDN.URL == "" {
		errs = append(errs, errors.New("CLOUDFRONT_URL is required"))
	}
	if c.Worker.DownloadWorkers <= 0 {
		errs = append(errs, errors.New("DOWNLOAD_WORKERS must be positive"))
	}
	return errors.Join(errs...)
}
