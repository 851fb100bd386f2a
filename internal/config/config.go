// Package config loads service settings from defaults, config/app.yaml,
// an optional .env file and the process environment, in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"icp-hunter/pkg/log"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Hunt     HuntConfig
	Export   ExportConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port               string
	ShutdownTimeout    time.Duration
	RateLimitPerMinute int
}

type LogConfig struct {
	Level      log.Level
	File       string
	MaxSizeMB  int
	MaxBackups int
}

type HuntConfig struct {
	TTL          time.Duration
	GlitchChance float64
	// Seed makes profile generation reproducible; 0 seeds from the clock.
	Seed uint64
	// TrophySeedCount is how many saved profiles the Trophy Room starts with.
	TrophySeedCount int
}

type ExportConfig struct {
	Dir string
	TTL time.Duration
}

type CheckoutConfig struct {
	Delay       time.Duration
	FailureRate float64
}

// fileConfig mirrors config/app.yaml.
type fileConfig struct {
	Server struct {
		Port                   string `yaml:"port"`
		ShutdownTimeoutSeconds *int   `yaml:"shutdown_timeout_seconds"`
		RateLimitPerMinute     *int   `yaml:"rate_limit_per_minute"`
	} `yaml:"server"`
	Log struct {
		Level      *log.Level `yaml:"level"`
		File       string     `yaml:"file"`
		MaxSizeMB  *int       `yaml:"max_size_mb"`
		MaxBackups *int       `yaml:"max_backups"`
	} `yaml:"log"`
	Hunt struct {
		TTLMinutes      *int     `yaml:"ttl_minutes"`
		GlitchChance    *float64 `yaml:"glitch_chance"`
		Seed            *uint64  `yaml:"seed"`
		TrophySeedCount *int     `yaml:"trophy_seed_count"`
	} `yaml:"hunt"`
	Export struct {
		Dir      string `yaml:"dir"`
		TTLHours *int   `yaml:"ttl_hours"`
	} `yaml:"export"`
	Checkout struct {
		DelayMS     *int     `yaml:"delay_ms"`
		FailureRate *float64 `yaml:"failure_rate"`
	} `yaml:"checkout"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               "3000",
			ShutdownTimeout:    10 * time.Second,
			RateLimitPerMinute: 10,
		},
		Log: LogConfig{Level: log.Info, MaxSizeMB: 50, MaxBackups: 3},
		Hunt: HuntConfig{
			TTL:             60 * time.Minute,
			TrophySeedCount: 23,
		},
		Export: ExportConfig{
			Dir: os.TempDir() + "/icp-hunter/exports",
			TTL: 24 * time.Hour,
		},
		Checkout: CheckoutConfig{Delay: 2 * time.Second},
	}
}

// Load builds the configuration. A missing YAML file or .env file is not an
// error; malformed content is.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var raw fileConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if raw.Server.Port != "" {
		c.Server.Port = raw.Server.Port
	}
	setDuration(&c.Server.ShutdownTimeout, raw.Server.ShutdownTimeoutSeconds, time.Second)
	set(&c.Server.RateLimitPerMinute, raw.Server.RateLimitPerMinute)

	set(&c.Log.Level, raw.Log.Level)
	if raw.Log.File != "" {
		c.Log.File = raw.Log.File
	}
	set(&c.Log.MaxSizeMB, raw.Log.MaxSizeMB)
	set(&c.Log.MaxBackups, raw.Log.MaxBackups)

	setDuration(&c.Hunt.TTL, raw.Hunt.TTLMinutes, time.Minute)
	set(&c.Hunt.GlitchChance, raw.Hunt.GlitchChance)
	set(&c.Hunt.Seed, raw.Hunt.Seed)
	set(&c.Hunt.TrophySeedCount, raw.Hunt.TrophySeedCount)

	if raw.Export.Dir != "" {
		c.Export.Dir = raw.Export.Dir
	}
	setDuration(&c.Export.TTL, raw.Export.TTLHours, time.Hour)

	setDuration(&c.Checkout.Delay, raw.Checkout.DelayMS, time.Millisecond)
	set(&c.Checkout.FailureRate, raw.Checkout.FailureRate)
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = loadEnv("PORT", c.Server.Port)
	c.Server.RateLimitPerMinute = loadEnvAsInt("RATE_LIMIT_PER_MINUTE", c.Server.RateLimitPerMinute)

	if value, ok := os.LookupEnv("LOG_LEVEL"); ok {
		if level, err := log.ParseLevel(value); err == nil {
			c.Log.Level = level
		}
	}
	c.Log.File = loadEnv("LOG_FILE", c.Log.File)

	c.Hunt.TTL = loadEnvAsDuration("HUNT_TTL_MINUTES", c.Hunt.TTL, time.Minute)
	c.Hunt.GlitchChance = loadEnvAsFloat("GLITCH_CHANCE", c.Hunt.GlitchChance)
	if value, ok := os.LookupEnv("SEED"); ok {
		if seed, err := strconv.ParseUint(value, 10, 64); err == nil {
			c.Hunt.Seed = seed
		}
	}

	c.Export.Dir = loadEnv("EXPORT_DIR", c.Export.Dir)
	c.Export.TTL = loadEnvAsDuration("EXPORT_TTL_HOURS", c.Export.TTL, time.Hour)

	c.Checkout.Delay = loadEnvAsDuration("CHECKOUT_DELAY_MS", c.Checkout.Delay, time.Millisecond)
	c.Checkout.FailureRate = loadEnvAsFloat("CHECKOUT_FAILURE_RATE", c.Checkout.FailureRate)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Server.Port == "":
		return errors.New("config: port is required")
	case c.Server.RateLimitPerMinute < 1:
		return errors.New("config: rate limit must be positive")
	case c.Hunt.TTL <= 0:
		return errors.New("config: hunt ttl must be positive")
	case c.Export.TTL <= 0:
		return errors.New("config: export ttl must be positive")
	case c.Hunt.GlitchChance < 0 || c.Hunt.GlitchChance > 1:
		return fmt.Errorf("config: glitch chance %v outside [0,1]", c.Hunt.GlitchChance)
	case c.Checkout.FailureRate < 0 || c.Checkout.FailureRate > 1:
		return fmt.Errorf("config: checkout failure rate %v outside [0,1]", c.Checkout.FailureRate)
	case c.Checkout.Delay < 0:
		return errors.New("config: checkout delay cannot be negative")
	}
	return nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDuration(dst *time.Duration, src *int, unit time.Duration) {
	if src != nil {
		*dst = time.Duration(*src) * unit
	}
}

func loadEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func loadEnvAsInt(key string, defaultVal int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func loadEnvAsFloat(key string, defaultVal float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func loadEnvAsDuration(key string, defaultVal, unit time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * unit
		}
	}
	return defaultVal
}
