// Package config загружает настройки узла из TOML файла, флагов командной
// строки и статического списка пиров.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Имена бэкендов хранилища
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
)

// EnvLogLevel переопределяет уровень логирования из конфигурации
const EnvLogLevel = "PEERNOTE_LOG_LEVEL"

// BackoffConfig задает задержки переподключения к настроенным пирам
type BackoffConfig struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

// StorageConfig выбирает бэкенд для бэкапа
type StorageConfig struct {
	Backend string
	Path    string
	History int
}

// StatusConfig настраивает локальный HTTP status endpoint. Пустой Addr отключает его.
type StatusConfig struct {
	Addr string
}

// Config - полная конфигурация узла
type Config struct {
	ServicePort       int
	DiscoveryPort     int
	BroadcastInterval time.Duration
	MDNS              bool
	PeersFile         string
	EventLog          string
	LogLevel          string
	RecoveryWindow    time.Duration
	Backoff           BackoffConfig
	Storage           StorageConfig
	Status            StatusConfig
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		ServicePort:       5001,
		DiscoveryPort:     5000,
		BroadcastInterval: 3 * time.Second,
		PeersFile:         "peers.json",
		EventLog:          "p2p_log.txt",
		LogLevel:          "info",
		RecoveryWindow:    4 * time.Second,
		Backoff: BackoffConfig{
			Initial:    time.Second,
			Max:        60 * time.Second,
			Multiplier: 2,
		},
		Storage: StorageConfig{
			Backend: BackendFile,
			Path:    "temp_backup.txt",
			History: 50,
		},
		Status: StatusConfig{
			Addr: "127.0.0.1:5080",
		},
	}
}

type fileConfig struct {
	ServicePort       int    `toml:"service_port"`
	DiscoveryPort     int    `toml:"discovery_port"`
	BroadcastInterval string `toml:"broadcast_interval"`
	MDNS              bool   `toml:"mdns"`
	PeersFile         string `toml:"peers_file"`
	EventLog          string `toml:"event_log"`
	LogLevel          string `toml:"log_level"`
	RecoveryWindow    string `toml:"recovery_window"`
	Backoff           struct {
		Initial    string  `toml:"initial"`
		Max        string  `toml:"max"`
		Multiplier float64 `toml:"multiplier"`
	} `toml:"backoff"`
	Storage struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
		History int    `toml:"history"`
	} `toml:"storage"`
	Status struct {
		Addr string `toml:"addr"`
	} `toml:"status"`
}

// Load читает path поверх Default. Ключи, отсутствующие в файле, сохраняют значения по умолчанию.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("service_port") {
		cfg.ServicePort = raw.ServicePort
	}
	if meta.IsDefined("discovery_port") {
		cfg.DiscoveryPort = raw.DiscoveryPort
	}
	if meta.IsDefined("broadcast_interval") {
		if cfg.BroadcastInterval, err = parseDuration("broadcast_interval", raw.BroadcastInterval); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("mdns") {
		cfg.MDNS = raw.MDNS
	}
	if meta.IsDefined("peers_file") {
		cfg.PeersFile = strings.TrimSpace(raw.PeersFile)
	}
	if meta.IsDefined("event_log") {
		cfg.EventLog = strings.TrimSpace(raw.EventLog)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("recovery_window") {
		if cfg.RecoveryWindow, err = parseDuration("recovery_window", raw.RecoveryWindow); err != nil {
			return Config{}, err
		}
	}

	if meta.IsDefined("backoff", "initial") {
		if cfg.Backoff.Initial, err = parseDuration("backoff.initial", raw.Backoff.Initial); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("backoff", "max") {
		if cfg.Backoff.Max, err = parseDuration("backoff.max", raw.Backoff.Max); err != nil {
			return Config{}, err
		}
	}
	if meta.IsDefined("backoff", "multiplier") {
		cfg.Backoff.Multiplier = raw.Backoff.Multiplier
	}

	if meta.IsDefined("storage", "backend") {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(raw.Storage.Backend))
	}
	if meta.IsDefined("storage", "path") {
		cfg.Storage.Path = strings.TrimSpace(raw.Storage.Path)
	}
	if meta.IsDefined("storage", "history") {
		cfg.Storage.History = raw.Storage.History
	}

	if meta.IsDefined("status", "addr") {
		cfg.Status.Addr = strings.TrimSpace(raw.Status.Addr)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// ApplyEnv применяет переопределения из окружения
func (c *Config) ApplyEnv() {
	if level := strings.TrimSpace(os.Getenv(EnvLogLevel)); level != "" {
		c.LogLevel = level
	}
}

// Validate проверяет диапазоны значений
func (c Config) Validate() error {
	if err := validPort("service_port", c.ServicePort); err != nil {
		return err
	}
	if err := validPort("discovery_port", c.DiscoveryPort); err != nil {
		return err
	}
	if c.BroadcastInterval <= 0 {
		return fmt.Errorf("broadcast_interval must be positive")
	}
	if c.RecoveryWindow <= 0 {
		return fmt.Errorf("recovery_window must be positive")
	}
	if c.Backoff.Initial <= 0 || c.Backoff.Max < c.Backoff.Initial {
		return fmt.Errorf("backoff: need 0 < initial <= max")
	}
	if c.Backoff.Multiplier < 1 {
		return fmt.Errorf("backoff.multiplier must be >= 1")
	}

	switch c.Storage.Backend {
	case BackendFile, BackendBolt, BackendSQLite:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.Storage.Path == "" {
		return fmt.Errorf("storage.path cannot be empty")
	}

	return nil
}

func parseDuration(key, value string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func validPort(key string, port int) error {
	if port <= 0 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535, got %d", key, port)
	}
	return nil
}
