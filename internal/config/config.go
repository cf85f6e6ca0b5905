package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Limits     LimitsConfig     `mapstructure:"limits"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	I18n       I18nConfig       `mapstructure:"i18n"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type GatewayConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	Model          string        `mapstructure:"model"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRPS         float64       `mapstructure:"max_rps"`
}

type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Store           string        `mapstructure:"store"`
	Window          time.Duration `mapstructure:"window"`
	AnalyzeLimit    int           `mapstructure:"analyze_limit"`
	LiveScreenLimit int           `mapstructure:"live_screen_limit"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
	MaxSize int           `mapstructure:"max_size"`
}

type LimitsConfig struct {
	MaxMessageChars           int `mapstructure:"max_message_chars"`
	MaxInstructionChars       int `mapstructure:"max_instruction_chars"`
	MaxLatestInfoChars        int `mapstructure:"max_latest_info_chars"`
	MaxManualInstructionChars int `mapstructure:"max_manual_instruction_chars"`
	MaxHistoryTurns           int `mapstructure:"max_history_turns"`
	MaxImageMB                int `mapstructure:"max_image_mb"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	Output string     `mapstructure:"output"`
	File   FileConfig `mapstructure:"file"`
}

type FileConfig struct {
	Path       string `mapstructure:"path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type MonitoringConfig struct {
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

type I18nConfig struct {
	DefaultLanguage string `mapstructure:"default_language"`
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// The gateway credential is environment-only and never lives in YAML.
	viper.BindEnv("gateway.api_key", "GATEWAY_API_KEY")
	viper.BindEnv("gateway.base_url", "GATEWAY_BASE_URL")
	viper.BindEnv("gateway.model", "GATEWAY_MODEL")
	viper.BindEnv("rate_limit.redis.addr", "REDIS_ADDR")
	viper.BindEnv("rate_limit.redis.password", "REDIS_PASSWORD")
	viper.BindEnv("rate_limit.redis.db", "REDIS_DB")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Gateway.RequestTimeout == 0 {
		cfg.Gateway.RequestTimeout = 30 * time.Second
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.RateLimit.AnalyzeLimit == 0 {
		cfg.RateLimit.AnalyzeLimit = 20
	}
	if cfg.RateLimit.LiveScreenLimit == 0 {
		cfg.RateLimit.LiveScreenLimit = 15
	}
	if cfg.Limits.MaxMessageChars == 0 {
		cfg.Limits.MaxMessageChars = 5000
	}
	if cfg.Limits.MaxInstructionChars == 0 {
		cfg.Limits.MaxInstructionChars = 1000
	}
	if cfg.Limits.MaxLatestInfoChars == 0 {
		cfg.Limits.MaxLatestInfoChars = 2000
	}
	if cfg.Limits.MaxManualInstructionChars == 0 {
		cfg.Limits.MaxManualInstructionChars = 500
	}
	if cfg.Limits.MaxHistoryTurns == 0 {
		cfg.Limits.MaxHistoryTurns = 50
	}
	if cfg.Limits.MaxImageMB == 0 {
		cfg.Limits.MaxImageMB = 10
	}
	if cfg.I18n.DefaultLanguage == "" {
		cfg.I18n.DefaultLanguage = "english"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Gateway.APIKey == "" {
		// Deliberately generic: the credential's variable name must never
		// surface in errors that could reach a caller.
		return fmt.Errorf("gateway credential is not configured")
	}
	if cfg.Gateway.Model == "" {
		return fmt.Errorf("gateway model is required")
	}
	if cfg.RateLimit.Store != "" && cfg.RateLimit.Store != "memory" && cfg.RateLimit.Store != "redis" {
		return fmt.Errorf("unsupported rate limit store: %s", cfg.RateLimit.Store)
	}
	return nil
}
