package config

import (
	"bytes"
	_ "embed"
	"time"

	"github.com/spf13/viper"
)

//go:embed defaults.yaml
var defaults []byte

// ---- Root ----

// Config is built once at startup and passed by reference into component
// constructors. Nothing mutates it afterwards.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Timezone   string           `mapstructure:"timezone"`
	HTTP       HTTPConfig       `mapstructure:"http"`
	Cursor     CursorConfig     `mapstructure:"cursor"`
	Watcher    WatcherConfig    `mapstructure:"watcher"`
	Sources    []SourceConfig   `mapstructure:"sources"`
	SQLite     SQLiteConfig     `mapstructure:"sqlite"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Redis      RedisConfig      `mapstructure:"redis"`
	ClickHouse DatabaseConfig   `mapstructure:"clickhouse"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	APIKeys    []string         `mapstructure:"api_keys"`
}

// ---- Leaf structs ----

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type HTTPConfig struct {
	Addr string `mapstructure:"addr"`
}

type CursorConfig struct {
	Dir string `mapstructure:"dir"`
}

type WatcherConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SourceConfig names one legacy database file to monitor. The name keys the
// cursor file and shows up in logs, metrics, and audit rows.
type SourceConfig struct {
	Name string `mapstructure:"name"`
	Path string `mapstructure:"path"`
}

type SQLiteConfig struct {
	PingTimeout time.Duration `mapstructure:"ping_timeout"`
}

type TelegramConfig struct {
	APIURL      string        `mapstructure:"api_url"`
	Token       string        `mapstructure:"token"`
	ChatID      string        `mapstructure:"chat_id"`
	TimeoutMs   int           `mapstructure:"timeout_ms"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	Breaker     BreakerConfig `mapstructure:"breaker"`
}

type BreakerConfig struct {
	FailThreshold int `mapstructure:"fail_threshold"`
	OpenForMs     int `mapstructure:"open_for_ms"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idletime"`
	PingTimeout     time.Duration `mapstructure:"ping_timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type RateLimitConfig struct {
	RPS int `mapstructure:"rps"`
}

// Location resolves the display timezone, falling back to UTC when the
// configured name does not load.
func (c Config) Location() *time.Location {
	if loc, err := time.LoadLocation(c.Timezone); err == nil {
		return loc
	}
	return time.UTC
}

// Load reads embedded defaults, merges user YAML (if provided), and applies
// env overrides (TICKETHUB_*).
func Load(path string) (Config, error) {
	v := viper.New()

	// embedded defaults
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(defaults)); err != nil {
		return Config{}, err
	}

	if path != "" {
		v.SetConfigFile(path)
		_ = v.MergeInConfig()
	}

	// env override (TICKETHUB_*)
	v.SetEnvPrefix("TICKETHUB")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
