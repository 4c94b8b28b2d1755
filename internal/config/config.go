// Package config загружает конфигурацию сервиса из TOML файла.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
)

// Config корневая конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Redis    RedisConfig    `toml:"redis"`
	Booking  BookingConfig  `toml:"booking"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN собирает строку подключения lib/pq
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// RedisConfig настройки распределенной блокировки слотов.
// Блокировка опциональна: корректность бронирования обеспечивает БД,
// Redis лишь снижает число конфликтов сериализации при нескольких инстансах.
type RedisConfig struct {
	Enabled     bool   `toml:"enabled"`
	Addr        string `toml:"addr"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	LockTTLSecs int    `toml:"lock_ttl_seconds"`
}

// BookingConfig бизнес-настройки бронирования
type BookingConfig struct {
	DefaultAgentID    string `toml:"default_agent_id"`   // UUID агента по умолчанию
	DurationMinutes   int    `toml:"duration_minutes"`   // Длительность встречи
	ReconcileInterval int    `toml:"reconcile_interval"` // Интервал сверки счетчиков, секунды
}

// DefaultAgentUUID возвращает распарсенный UUID агента по умолчанию
func (c BookingConfig) DefaultAgentUUID() (uuid.UUID, error) {
	return uuid.Parse(c.DefaultAgentID)
}

// Load читает и валидирует конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	cfg := &Config{
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
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "realty-booking-service",
		},
		Redis: RedisConfig{
			Addr:        "127.0.0.1:6379",
			LockTTLSecs: 5,
		},
		Booking: BookingConfig{
			DurationMinutes:   45,
			ReconcileInterval: 300,
		},
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.User == "" || c.Database.DBName == "" {
		return errors.New("config: database user and dbname are required")
	}
	if c.Booking.DefaultAgentID == "" {
		return errors.New("config: booking.default_agent_id is required")
	}
	if _, err := uuid.Parse(c.Booking.DefaultAgentID); err != nil {
		return fmt.Errorf("config: booking.default_agent_id is not a valid UUID: %w", err)
	}
	if c.Booking.DurationMinutes <= 0 {
		return errors.New("config: booking.duration_minutes must be positive")
	}
	return nil
}
