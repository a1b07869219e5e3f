// Package config загрузка конфигурации сервиса из TOML-файла
// Конфигурация читается один раз на старте и передаётся в компоненты явно
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Notifier NotifierConfig `toml:"notifier"`
}

// ServerConfig настройки HTTP-сервера
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

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig политика бронирования площадки
type BookingConfig struct {
	// Часовой пояс площадки (IANA, например "Europe/Moscow")
	Timezone string `toml:"timezone"`

	// Шаг генерации кандидатных слотов в минутах
	SlotStepMinutes int `toml:"slot_step_minutes"`

	// Минимальное время от "сейчас" до начала слота при бронировании на сегодня
	MinLeadTimeMinutes int `toml:"min_lead_time_minutes"`

	// Учитывать ли pending-записи при подсчёте занятости ресурсов
	CountPendingHolds bool `toml:"count_pending_holds"`

	// Статус создаваемых записей: "pending" или "confirmed"
	DefaultStatus string `toml:"default_status"`

	// Максимальное ожидание advisory-блокировки при коммите, мс
	LockWaitMillis int `toml:"lock_wait_millis"`
}

// LockWait возвращает таймаут ожидания блокировки
func (b *BookingConfig) LockWait() time.Duration {
	return time.Duration(b.LockWaitMillis) * time.Millisecond
}

// NotifierConfig настройки внешнего сервиса уведомлений
type NotifierConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

// Load читает и валидирует конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.HTTPPort <= 0 {
		return fmt.Errorf("config: server.http_port must be positive")
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("config: database host and dbname are required")
	}
	if c.Booking.DefaultStatus != "" &&
		c.Booking.DefaultStatus != "pending" && c.Booking.DefaultStatus != "confirmed" {
		return fmt.Errorf("config: booking.default_status must be \"pending\" or \"confirmed\"")
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Booking.Timezone == "" {
		c.Booking.Timezone = "UTC"
	}
	if c.Booking.SlotStepMinutes == 0 {
		c.Booking.SlotStepMinutes = 30
	}
	if c.Booking.DefaultStatus == "" {
		c.Booking.DefaultStatus = "pending"
	}
	if c.Booking.LockWaitMillis == 0 {
		c.Booking.LockWaitMillis = 500
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
}

// Location возвращает загруженный часовой пояс площадки
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Booking.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid booking.timezone %q: %w", c.Booking.Timezone, err)
	}
	return loc, nil
}
