package config

import (
	"errors"
	"io/fs"
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	DeliveryModeSync  = "sync"
	DeliveryModeQueue = "queue"
	DeliveryModeLog   = "log"
)

type Config struct {
	Env        string `env:"ENV" env-required:"true"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info" env-description:"logging level, debug, info, etc."`
	HttpServer HttpServer
	Database   Database
	Limiter    Limiter
	Auth       AuthConfig
	Session    SessionConfig
	SMTP       SMTPConfig
	Email      EmailConfig
	Cache      Cache
	Queue      QueueConfig
}

type HttpServer struct {
	Port           string        `env:"HTTP_PORT" env-default:"5000"`
	Timeout        time.Duration `env:"HTTP_TIMEOUT" env-default:"15s"`
	IdleTimeout    time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	SwaggerEnabled bool          `env:"HTTP_SWAGGER_ENABLED" env-default:"false"`
	IndexFile      string        `env:"HTTP_INDEX_FILE" env-default:"./static/index.html"`
	CORSOrigins    []string      `env:"HTTP_CORS_ORIGINS" env-default:"http://localhost:5000" env-separator:","`
}

type Database struct {
	Net                string        `env:"DB_NET" env-default:"tcp"`
	Server             string        `env:"DB_SERVER" env-required:"true"`
	DBName             string        `env:"DB_NAME" env-required:"true"`
	User               string        `env:"DB_USER" env-required:"true"`
	Password           string        `env:"DB_PASSWORD" env-required:"true"`
	TimeZone           string        `env:"DB_TIMEZONE" env-default:"UTC"`
	Timeout            time.Duration `env:"DB_TIMEOUT" env-default:"2s"`
	MaxIdleConnections int           `env:"DB_MAX_IDLE_CONNECTIONS" env-default:"10"`
	MaxOpenConnections int           `env:"DB_MAX_OPEN_CONNECTIONS" env-default:"20"`
	Migrate            bool          `env:"DB_MIGRATE" env-default:"true"`
}

type Limiter struct {
	RPS   int           `env:"LIMITER_RPS" env-default:"10"`
	Burst int           `env:"LIMITER_BURST" env-default:"20"`
	TTL   time.Duration `env:"LIMITER_TTL" env-default:"10m"`
}

type AuthConfig struct {
	PasswordScheme string        `env:"AUTH_PASSWORD_SCHEME" env-default:"bcrypt" env-description:"bcrypt or sha256"`
	BcryptCost     int           `env:"AUTH_BCRYPT_COST" env-default:"10"`
	CodeTTL        time.Duration `env:"AUTH_VERIFICATION_CODE_TTL" env-default:"10m"`
	RateWindow     time.Duration `env:"AUTH_VERIFICATION_RATE_WINDOW" env-default:"1h"`
	MaxCodes       int           `env:"AUTH_VERIFICATION_MAX_CODES" env-default:"3"`
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET" env-required:"true"`
	MaxAge time.Duration `env:"SESSION_MAX_AGE" env-default:"168h"`
	Secure bool          `env:"SESSION_SECURE" env-default:"false"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST" env-default:"smtp.gmail.com"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	UseTLS   bool   `env:"SMTP_USE_TLS" env-default:"true"`
	UseSSL   bool   `env:"SMTP_USE_SSL" env-default:"false"`
	FromName string `env:"SMTP_FROM_NAME" env-default:"Rubbishit Journal"`
	FromAddr string `env:"SMTP_FROM"`
}

type EmailConfig struct {
	DeliveryMode string `env:"EMAIL_DELIVERY_MODE" env-default:"sync" env-description:"sync, queue or log"`
	Templates    EmailTemplates
}

type EmailTemplates struct {
	Dir          string `env:"EMAIL_TEMPLATE_DIR" env-default:"./templates"`
	Verification string `env:"EMAIL_TEMPLATE_VERIFICATION" env-default:"verification_email.html"`
}

type Cache struct {
	Type  string `env:"REDIS_TYPE" env-default:"redis" env-description:"specifies provider, one of redis/redisCluster"`
	Redis struct {
		Address  string `env:"REDIS_ADDR" env-default:"127.0.0.1:6379" env-description:"redis host:port single instance"`
		Password string `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize int    `env:"REDIS_POOL_SIZE" env-default:"20" env-description:"max tcp connections pool size"`
	}
	RedisCluster struct {
		Addresses []string `env:"REDIS_CLUSTER_ADDRS" env-default:"" env-description:"redis cluster nodes host:port, comma separated"`
		Password  string   `env:"REDIS_PASSWORD" env-default:"" env-description:"redis password if exists"`
		PoolSize  int      `env:"REDIS_POOL_SIZE" env-default:"20" env-description:"max tcp connections pool size"`
	}
}

type QueueConfig struct {
	Concurrency int `env:"QUEUE_CONCURRENCY" env-default:"5"`
	MaxRetry    int `env:"QUEUE_MAX_RETRY" env-default:"5"`
}

// Validate checks cross-field rules cleanenv tags cannot express.
func (c *Config) Validate() error {
	switch c.Email.DeliveryMode {
	case DeliveryModeSync, DeliveryModeQueue:
		if c.SMTP.FromAddr == "" {
			return errors.New("SMTP_FROM is required when email delivery is enabled")
		}
	case DeliveryModeLog:
	default:
		return errors.New("EMAIL_DELIVERY_MODE must be one of sync, queue, log")
	}

	if len(c.Session.Secret) < 32 {
		return errors.New("SESSION_SECRET must be at least 32 bytes")
	}

	if c.Auth.MaxCodes < 1 {
		return errors.New("AUTH_VERIFICATION_MAX_CODES must be positive")
	}

	return nil
}

// Load reads an optional .env file and then the process environment.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load(".env")
	if err != nil {
		log.Fatalf("cannot read config from environment: %s", err)
	}

	return cfg
}
