package config

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Gateway  GatewayConfig  `mapstructure:"gateway"`
	Upstream UpstreamConfig `mapstructure:"upstream"`
}

type ServerConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Mode           string        `mapstructure:"mode"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxRequestSize string        `mapstructure:"max_request_size"`
}

type SecurityConfig struct {
	EnableCORS     bool     `mapstructure:"enable_cors"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level         string `mapstructure:"level"`
	Output        string `mapstructure:"output"`
	ConsoleOutput bool   `mapstructure:"console_output"`
	MaxSize       int    `mapstructure:"max_size"`
	MaxBackups    int    `mapstructure:"max_backups"`
	MaxAge        int    `mapstructure:"max_age"`
	Compress      bool   `mapstructure:"compress"`
}

// GatewayConfig controls the answer pipeline.
type GatewayConfig struct {
	// DefaultTimeout bounds the upstream call when the caller omits "timeout".
	DefaultTimeout time.Duration `mapstructure:"default_timeout"`
	// MaxTimeout caps a caller-supplied "timeout".
	MaxTimeout time.Duration `mapstructure:"max_timeout"`
}

// UpstreamConfig describes the chat completion provider.
type UpstreamConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	UserAgent string `mapstructure:"user_agent"`
}

const (
	DefaultPort           = 8080
	DefaultGatewayTimeout = 120 * time.Second
	DefaultMaxTimeout     = 300 * time.Second
	DefaultUpstreamURL    = "https://api.openai.com/v1/"
)

// Load unmarshals the configuration held by v, applies defaults and validates it.
// A missing config file is not an error; flags and defaults are enough to run.
func Load(v *viper.Viper) (*Config, error) {
	// 控制台输出默认开启
	v.SetDefault("logging.console_output", true)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// Watch re-loads the configuration whenever the config file in use changes
// and hands the result to onChange. It is a no-op when no file was read.
func Watch(v *viper.Viper, onChange func(event fsnotify.Event, cfg *Config, err error)) bool {
	if v.ConfigFileUsed() == "" {
		return false
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		// 编辑器保存时可能先触发 Remove/Rename，只关心写入
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := Load(v)
		onChange(e, cfg, err)
	})
	v.WatchConfig()
	return true
}

// MaxRequestBytes returns the parsed request body limit.
func (s ServerConfig) MaxRequestBytes() int64 {
	n, err := humanize.ParseBytes(s.MaxRequestSize)
	if err != nil {
		return 0
	}
	return int64(n)
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Export returns the effective configuration as plain nested maps, with
// durations rendered the way they are written in the config file.
func (c *Config) Export() map[string]any {
	return map[string]any{
		"server": map[string]any{
			"host":             c.Server.Host,
			"port":             c.Server.Port,
			"mode":             c.Server.Mode,
			"read_timeout":     c.Server.ReadTimeout.String(),
			"write_timeout":    c.Server.WriteTimeout.String(),
			"max_request_size": c.Server.MaxRequestSize,
		},
		"security": map[string]any{
			"enable_cors":     c.Security.EnableCORS,
			"allowed_origins": c.Security.AllowedOrigins,
		},
		"logging": map[string]any{
			"level":          c.Logging.Level,
			"output":         c.Logging.Output,
			"console_output": c.Logging.ConsoleOutput,
			"max_size":       c.Logging.MaxSize,
			"max_backups":    c.Logging.MaxBackups,
			"max_age":        c.Logging.MaxAge,
			"compress":       c.Logging.Compress,
		},
		"gateway": map[string]any{
			"default_timeout": c.Gateway.DefaultTimeout.String(),
			"max_timeout":     c.Gateway.MaxTimeout.String(),
		},
		"upstream": map[string]any{
			"base_url":   c.Upstream.BaseURL,
			"user_agent": c.Upstream.UserAgent,
		},
	}
}

func setDefaults(cfg *Config) {
	// 服务器配置
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.MaxRequestSize == "" {
		cfg.Server.MaxRequestSize = "4MB"
	}

	// 网关配置
	if cfg.Gateway.DefaultTimeout == 0 {
		cfg.Gateway.DefaultTimeout = DefaultGatewayTimeout
	}
	if cfg.Gateway.MaxTimeout == 0 {
		cfg.Gateway.MaxTimeout = DefaultMaxTimeout
		if cfg.Gateway.DefaultTimeout > cfg.Gateway.MaxTimeout {
			cfg.Gateway.MaxTimeout = cfg.Gateway.DefaultTimeout
		}
	}
	// 写超时必须覆盖最长的上游调用，否则长请求的响应会被截断
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = cfg.Gateway.MaxTimeout + 10*time.Second
	}

	// 日志配置
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "logs/answer-gateway.log"
	}
	if cfg.Logging.MaxSize == 0 {
		cfg.Logging.MaxSize = 100
	}
	if cfg.Logging.MaxBackups == 0 {
		cfg.Logging.MaxBackups = 10
	}
	if cfg.Logging.MaxAge == 0 {
		cfg.Logging.MaxAge = 30
	}

	// 上游配置
	if cfg.Upstream.BaseURL == "" {
		cfg.Upstream.BaseURL = DefaultUpstreamURL
	}
	if cfg.Upstream.UserAgent == "" {
		cfg.Upstream.UserAgent = "answer-gateway"
	}
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("invalid server mode: %q", cfg.Server.Mode)
	}
	if _, err := humanize.ParseBytes(cfg.Server.MaxRequestSize); err != nil {
		return fmt.Errorf("invalid max_request_size %q: %w", cfg.Server.MaxRequestSize, err)
	}
	if cfg.Gateway.DefaultTimeout < 0 {
		return fmt.Errorf("invalid gateway default_timeout: %s", cfg.Gateway.DefaultTimeout)
	}
	if cfg.Gateway.MaxTimeout < cfg.Gateway.DefaultTimeout {
		return fmt.Errorf("gateway max_timeout (%s) must not be shorter than default_timeout (%s)",
			cfg.Gateway.MaxTimeout, cfg.Gateway.DefaultTimeout)
	}
	if cfg.Server.WriteTimeout <= cfg.Gateway.MaxTimeout {
		return fmt.Errorf("server write_timeout (%s) must be longer than gateway max_timeout (%s)",
			cfg.Server.WriteTimeout, cfg.Gateway.MaxTimeout)
	}
	return nil
}
