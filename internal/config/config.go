package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-CourtBooking/internal/domain"
	"github.com/m04kA/SMC-CourtBooking/internal/schedule"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"

	LockBackendNone  = "none"
	LockBackendRedis = "redis"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Storage  StorageConfig  `toml:"storage"`
	Redis    RedisConfig    `toml:"redis"`
	Lock     LockConfig     `toml:"lock"`
	Cache    CacheConfig    `toml:"cache"`
	Business BusinessConfig `toml:"business"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// StorageConfig выбор хранилища: postgres или memory (для локального запуска)
type StorageConfig struct {
	Driver string `toml:"driver"`
}

// RedisConfig настройки подключения к Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Username string `toml:"username"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// LockConfig распределённая блокировка (court, date) поверх транзакции
type LockConfig struct {
	Backend       string `toml:"backend"`
	TTLMs         int    `toml:"ttl_ms"`
	WaitTimeoutMs int    `toml:"wait_timeout_ms"`
}

func (l LockConfig) TTL() time.Duration {
	return time.Duration(l.TTLMs) * time.Millisecond
}

func (l LockConfig) WaitTimeout() time.Duration {
	return time.Duration(l.WaitTimeoutMs) * time.Millisecond
}

// CacheConfig кэш ответов доступности
type CacheConfig struct {
	Enabled    bool `toml:"enabled"`
	TTLSeconds int  `toml:"ttl_seconds"`
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// BusinessConfig рабочие часы и пагинация
type BusinessConfig struct {
	StartHour       int    `toml:"start_hour"`
	EndHour         int    `toml:"end_hour"`
	SlotLengthHours int    `toml:"slot_length_hours"`
	Timezone        string `toml:"timezone"`
	PageSize        int    `toml:"page_size"`
}

// Hours собирает schedule.BusinessHours из конфигурации
func (b BusinessConfig) Hours() (schedule.BusinessHours, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return schedule.BusinessHours{}, fmt.Errorf("config: unknown timezone %q: %w", b.Timezone, err)
	}
	return schedule.BusinessHours{
		StartHour:       b.StartHour,
		EndHour:         b.EndHour,
		SlotLengthHours: b.SlotLengthHours,
		Location:        loc,
	}, nil
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// Default конфигурация по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 15,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "court_booking",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Storage: StorageConfig{Driver: StorageDriverPostgres},
		Redis:   RedisConfig{Addr: "127.0.0.1:6379"},
		Lock: LockConfig{
			Backend:       LockBackendNone,
			TTLMs:         5000,
			WaitTimeoutMs: 2000,
		},
		Cache: CacheConfig{Enabled: false, TTLSeconds: 30},
		Business: BusinessConfig{
			StartHour:       domain.DefaultBusinessStartHour,
			EndHour:         domain.DefaultBusinessEndHour,
			SlotLengthHours: domain.DefaultSlotLengthHours,
			Timezone:        domain.DefaultTimezone,
			PageSize:        domain.DefaultPageSize,
		},
		Logs: LogsConfig{Level: "info"},
		Metrics: MetricsConfig{
			Enabled:     false,
			ServiceName: "court_booking",
			Path:        "/metrics",
		},
	}
}

// Load читает TOML файл поверх значений по умолчанию, затем применяет переменные окружения.
// .env в рабочей директории загружается, если существует.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("config: decode %s: %w", path, err)
			}
		}
	}

	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет непротиворечивость конфигурации
func (c *Config) Validate() error {
	b := c.Business
	if b.StartHour < 0 || b.EndHour > 23 || b.StartHour >= b.EndHour {
		return fmt.Errorf("config: business hours %d-%d are invalid", b.StartHour, b.EndHour)
	}
	if b.SlotLengthHours <= 0 || b.SlotLengthHours > b.EndHour-b.StartHour {
		return fmt.Errorf("config: slot_length_hours %d is invalid", b.SlotLengthHours)
	}
	if b.PageSize <= 0 || b.PageSize > domain.MaxPageSize {
		return fmt.Errorf("config: page_size must be in 1..%d", domain.MaxPageSize)
	}
	if _, err := time.LoadLocation(b.Timezone); err != nil {
		return fmt.Errorf("config: unknown timezone %q", b.Timezone)
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Lock.Backend {
	case LockBackendNone, LockBackendRedis:
	default:
		return fmt.Errorf("config: unknown lock backend %q", c.Lock.Backend)
	}
	if c.Lock.Backend == LockBackendRedis && c.Lock.TTLMs <= 0 {
		return errors.New("config: lock.ttl_ms must be positive")
	}
	if c.Cache.Enabled && c.Cache.TTLSeconds <= 0 {
		return errors.New("config: cache.ttl_seconds must be positive")
	}
	return nil
}

// UsesRedis нужен ли клиент Redis
func (c *Config) UsesRedis() bool {
	return c.Lock.Backend == LockBackendRedis || c.Cache.Enabled
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Storage.Driver, "STORAGE_DRIVER")
	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Username, "REDIS_USERNAME")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setString(&cfg.Lock.Backend, "LOCK_BACKEND")
	setString(&cfg.Business.Timezone, "BUSINESS_TIMEZONE")
	setString(&cfg.Logs.Level, "LOG_LEVEL")

	for key, dst := range map[string]*int{
		"DB_PORT":   &cfg.Database.Port,
		"HTTP_PORT": &cfg.Server.HTTPPort,
	} {
		if err := setInt(dst, key); err != nil {
			return err
		}
	}

	if v := os.Getenv("CACHE_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: CACHE_ENABLED=%q: %w", v, err)
		}
		cfg.Cache.Enabled = enabled
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}
