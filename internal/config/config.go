package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`
	HistoryLimit      int           `mapstructure:"history_limit" yaml:"history_limit"`
	DefaultRooms      []string      `mapstructure:"default_rooms" yaml:"default_rooms"`
	MaxMessageBytes   int64         `mapstructure:"max_message_bytes" yaml:"max_message_bytes"`
	WSRateLimitPerMin int           `mapstructure:"ws_rate_limit_per_min" yaml:"ws_rate_limit_per_min"`
	UploadDir         string        `mapstructure:"upload_dir" yaml:"upload_dir"`
	MaxUploadBytes    int64         `mapstructure:"max_upload_bytes" yaml:"max_upload_bytes"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":8080",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		HistoryLimit:      500,
		DefaultRooms:      []string{"general", "random", "tech", "gaming"},
		MaxMessageBytes:   1 << 20,
		WSRateLimitPerMin: 0, // disabled
		UploadDir:         "uploads",
		MaxUploadBytes:    10 << 20,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.HistoryLimit != 0 {
		c.HistoryLimit = other.HistoryLimit
	}
	if len(other.DefaultRooms) > 0 {
		c.DefaultRooms = other.DefaultRooms
	}
	if other.MaxMessageBytes != 0 {
		c.MaxMessageBytes = other.MaxMessageBytes
	}
	if other.WSRateLimitPerMin != 0 {
		c.WSRateLimitPerMin = other.WSRateLimitPerMin
	}
	if other.UploadDir != "" {
		c.UploadDir = other.UploadDir
	}
	if other.MaxUploadBytes != 0 {
		c.MaxUploadBytes = other.MaxUploadBytes
	}
}
