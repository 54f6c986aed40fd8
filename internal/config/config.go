// Package config provides configuration management for the overlay tool.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"trendline-overlay/internal/analysis"
	"trendline-overlay/internal/analysis/trendline"
	"trendline-overlay/internal/errors"
	"trendline-overlay/internal/logging"
)

// Config holds all application configuration.
type Config struct {
	Engine  EngineConfig  `mapstructure:"engine" json:"engine"`
	Data    DataConfig    `mapstructure:"data" json:"data"`
	Batch   BatchConfig   `mapstructure:"batch" json:"batch"`
	Logging LoggingConfig `mapstructure:"logging" json:"logging"`
}

// EngineConfig holds overlay engine parameters.
type EngineConfig struct {
	Mode           string  `mapstructure:"mode" json:"mode"` // "pivot", "regression"
	Window         int     `mapstructure:"window" json:"window"`
	Epsilon        float64 `mapstructure:"epsilon" json:"epsilon"`
	TouchTolerance float64 `mapstructure:"touch_tolerance" json:"touch_tolerance"` // 10 x epsilon when unset
}

// DataConfig holds series loading configuration.
type DataConfig struct {
	CacheTTL   time.Duration `mapstructure:"cache_ttl" json:"cache_ttl"`
	MaxCandles int           `mapstructure:"max_candles" json:"max_candles"`
}

// BatchConfig holds batch run configuration.
type BatchConfig struct {
	Workers int `mapstructure:"workers" json:"workers"` // 0 means one per CPU
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" json:"level"`
	File       bool   `mapstructure:"file" json:"file"`
	FilePath   string `mapstructure:"file_path" json:"file_path"`
	MaxSize    int    `mapstructure:"max_size" json:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" json:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" json:"max_age"`
}

// Environment variables that override file values.
const (
	EnvMode           = "TRENDLINE_MODE"
	EnvWindow         = "TRENDLINE_WINDOW"
	EnvEpsilon        = "TRENDLINE_EPSILON"
	EnvTouchTolerance = "TRENDLINE_TOUCH_TOLERANCE"
	EnvLogLevel       = "TRENDLINE_LOG_LEVEL"
)

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/trendline-overlay"
	}
	return filepath.Join(home, ".config", "trendline-overlay")
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	loadDotEnv(configDir)

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errors.Wrap(err, "reading config.toml")
		}
		if err := createTemplateConfig(configDir); err != nil {
			return nil, errors.Wrap(err, "creating config template")
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decoding config.toml")
	}
	touchSet := v.IsSet("engine.touch_tolerance")

	if err := applyEnvOverrides(cfg, &touchSet); err != nil {
		return nil, err
	}
	if !touchSet {
		cfg.Engine.TouchTolerance = trendline.TouchToleranceFor(cfg.Engine.Epsilon)
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}

	return cfg, nil
}

// Default returns the configuration used when no file or environment is present.
func Default() *Config {
	def := logging.DefaultLogConfig()
	return &Config{
		Engine: EngineConfig{
			Mode:           string(analysis.ModePivot),
			Window:         trendline.DefaultWindow,
			Epsilon:        trendline.DefaultEpsilon,
			TouchTolerance: trendline.DefaultTouchTolerance,
		},
		Data: DataConfig{
			CacheTTL:   5 * time.Minute,
			MaxCandles: 5000,
		},
		Logging: LoggingConfig{
			Level:      def.Level,
			File:       def.File,
			FilePath:   def.FilePath,
			MaxSize:    def.MaxSize,
			MaxBackups: def.MaxBackups,
			MaxAge:     def.MaxAge,
		},
	}
}

func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("engine.mode", def.Engine.Mode)
	v.SetDefault("engine.window", def.Engine.Window)
	v.SetDefault("engine.epsilon", def.Engine.Epsilon)
	v.SetDefault("data.cache_ttl", def.Data.CacheTTL)
	v.SetDefault("data.max_candles", def.Data.MaxCandles)
	v.SetDefault("batch.workers", def.Batch.Workers)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("logging.file_path", def.Logging.FilePath)
	v.SetDefault("logging.max_size", def.Logging.MaxSize)
	v.SetDefault("logging.max_backups", def.Logging.MaxBackups)
	v.SetDefault("logging.max_age", def.Logging.MaxAge)
}

// loadDotEnv loads .env from the working directory and the config directory.
// Variables already set in the environment win.
func loadDotEnv(configDir string) {
	for _, path := range []string{".env", filepath.Join(configDir, ".env")} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
}

func applyEnvOverrides(cfg *Config, touchSet *bool) error {
	if v := os.Getenv(EnvMode); v != "" {
		cfg.Engine.Mode = v
	}
	if v := os.Getenv(EnvWindow); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewConfigError(EnvWindow, v, "not an integer")
		}
		cfg.Engine.Window = n
	}
	if v := os.Getenv(EnvEpsilon); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewConfigError(EnvEpsilon, v, "not a number")
		}
		cfg.Engine.Epsilon = f
	}
	if v := os.Getenv(EnvTouchTolerance); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return errors.NewConfigError(EnvTouchTolerance, v, "not a number")
		}
		cfg.Engine.TouchTolerance = f
		*touchSet = true
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := analysis.ParseMode(c.Engine.Mode); err != nil {
		return errors.NewConfigError("engine.mode", c.Engine.Mode, err.Error())
	}
	if err := c.EngineParams().Validate(); err != nil {
		return err
	}
	if c.Data.CacheTTL < 0 {
		return errors.NewConfigError("data.cache_ttl", c.Data.CacheTTL, "must be non-negative")
	}
	if c.Data.MaxCandles < 0 {
		return errors.NewConfigError("data.max_candles", c.Data.MaxCandles, "must be non-negative")
	}
	if c.Batch.Workers < 0 {
		return errors.NewConfigError("batch.workers", c.Batch.Workers, "must be non-negative")
	}
	if !logging.ValidLevel(c.Logging.Level) {
		return errors.NewConfigError("logging.level", c.Logging.Level, "must be debug, info, warn or error")
	}
	return nil
}

// EngineParams returns the pivot engine parameters.
func (c *Config) EngineParams() trendline.Params {
	return trendline.Params{
		Window:         c.Engine.Window,
		Epsilon:        c.Engine.Epsilon,
		TouchTolerance: c.Engine.TouchTolerance,
	}
}

// Mode returns the configured overlay mode. Call after Validate.
func (c *Config) Mode() analysis.Mode {
	m, _ := analysis.ParseMode(c.Engine.Mode)
	return m
}

// LogConfig returns the logger configuration.
func (c *Config) LogConfig() logging.LogConfig {
	return logging.LogConfig{
		Level:      c.Logging.Level,
		Console:    true,
		File:       c.Logging.File,
		FilePath:   c.Logging.FilePath,
		MaxSize:    c.Logging.MaxSize,
		MaxBackups: c.Logging.MaxBackups,
		MaxAge:     c.Logging.MaxAge,
	}
}
