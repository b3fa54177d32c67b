package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DefaultJWTSecret is only fit for local runs without admin access.
const DefaultJWTSecret = "your-secret-key-change-in-production"

var (
	ErrUnsupportedDriver = errors.New("unsupported database driver")
	ErrDefaultJWTSecret  = errors.New("admin access requires jwt_secret to be changed from the default")
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env         string   `mapstructure:"env"`
	Port        string   `mapstructure:"port"`
	BindAddress string   `mapstructure:"bind_address"`
	JWTSecret   string   `mapstructure:"jwt_secret"`
	DB          DB       `mapstructure:"database"`
	Redis       Redis    `mapstructure:"redis"`
	Provider    Provider `mapstructure:"provider"`
	Admin       Admin    `mapstructure:"admin"`
}

// DB selects the gorm dialector and its connection parameters.
type DB struct {
	Driver     string `mapstructure:"driver"`
	SQLitePath string `mapstructure:"sqlite_path"`
	Host       string `mapstructure:"host"`
	Port       string `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password"`
	Name       string `mapstructure:"name"`
}

// Redis is optional. An empty Host disables the redis-backed category locker.
type Redis struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Provider configures the OpenTDB client.
type Provider struct {
	BaseURL string        `mapstructure:"base_url"`
	Amount  int           `mapstructure:"amount"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// Admin configures the admin API. An empty PasswordHash disables it.
type Admin struct {
	PasswordHash string        `mapstructure:"password_hash"`
	TokenTTL     time.Duration `mapstructure:"token_ttl"`
}

func (r Redis) Enabled() bool {
	return r.Host != ""
}

func (r Redis) Addr() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

// AdminPasswordHash returns the hash to enable the admin API with. An empty
// hash means admin stays disabled; a configured hash is refused while the
// JWT secret is empty or still the default.
func (c *Config) AdminPasswordHash() (string, error) {
	if c.Admin.PasswordHash == "" {
		return "", nil
	}
	if c.JWTSecret == "" || c.JWTSecret == DefaultJWTSecret {
		return "", ErrDefaultJWTSecret
	}
	return c.Admin.PasswordHash, nil
}

func (d DB) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port)
}

// Load reads configuration from an optional config/config.yaml, a .env file and the environment.
func Load() (*Config, error) {
	// .env is a convenience for local runs; its absence is fine.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("port", "8080")
	v.SetDefault("bind_address", "localhost")
	v.SetDefault("jwt_secret", DefaultJWTSecret)
	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.sqlite_path", "sawaal.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "sawaal")
	v.SetDefault("database.password", "sawaal123")
	v.SetDefault("database.name", "sawaal")
	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", "30s")
	v.SetDefault("provider.base_url", "https://opentdb.com")
	v.SetDefault("provider.amount", 10)
	v.SetDefault("provider.timeout", "10s")
	v.SetDefault("admin.password_hash", "")
	v.SetDefault("admin.token_ttl", "12h")

	// DATABASE_DRIVER, REDIS_HOST, PROVIDER_BASE_URL, ...
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &cfg, nil
}

// InitDB opens the configured database.
func InitDB(cfg *Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DB.DSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, cfg.DB.Driver)
	}

	gormCfg := &gorm.Config{}
	if cfg.Env == "production" {
		gormCfg.Logger = gormlogger.Default.LogMode(gormlogger.Silent)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// InitRedis returns nil when redis is not configured.
func InitRedis(cfg *Config) *redis.Client {
	if !cfg.Redis.Enabled() {
		return nil
	}

	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
