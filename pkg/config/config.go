package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Finnhub struct {
		APIKey        string        `yaml:"api_key"`
		BaseURL       string        `yaml:"base_url"`
		WebSocketURL  string        `yaml:"websocket_url"`
		StreamEnabled bool          `yaml:"stream_enabled"`
		Timeout       time.Duration `yaml:"timeout"`
		RateLimit     struct {
			Capacity     float64 `yaml:"capacity"`
			RefillPerSec float64 `yaml:"refill_per_sec"`
		} `yaml:"rate_limit"`
	} `yaml:"finnhub"`
	Cache struct {
		Backend string        `yaml:"backend"` // memory or redis
		TTL     time.Duration `yaml:"ttl"`
		Redis   struct {
			Host     string `yaml:"host"`
			Port     int    `yaml:"port"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Scanner ScannerConfig `yaml:"scanner"`
}

// HorizonConfig defines one scan horizon: which resolution to fetch, how far
// back, and how many bars the outcome simulator may look ahead.
type HorizonConfig struct {
	Resolution      string `yaml:"resolution"`
	RangeDays       int    `yaml:"range_days"`
	LookforwardBars int    `yaml:"lookforward_bars"`
}

// SampleBreakpoint grants credit once at least min_signals were produced.
type SampleBreakpoint struct {
	MinSignals int     `yaml:"min_signals"`
	Credit     float64 `yaml:"credit"`
}

// ScannerConfig enumerates every tunable of the batch scanner and scorer; the
// scoring formula carries no inline constants of its own.
type ScannerConfig struct {
	BatchSize   int           `yaml:"batch_size"`
	BatchDelay  time.Duration `yaml:"batch_delay"`
	WeightShort float64       `yaml:"weight_short"`
	ShortTerm   HorizonConfig `yaml:"short_term"`
	LongTerm    HorizonConfig `yaml:"long_term"`
	Score       struct {
		WinRateWeight    float64            `yaml:"win_rate_weight"`
		RiskRewardWeight float64            `yaml:"risk_reward_weight"`
		SampleWeight     float64            `yaml:"sample_weight"`
		Breakpoints      []SampleBreakpoint `yaml:"sample_breakpoints"`
	} `yaml:"score"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		c.Cache.Backend = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		if host, port, ok := strings.Cut(v, ":"); ok {
			c.Cache.Redis.Host = host
			fmt.Sscanf(port, "%d", &c.Cache.Redis.Port)
		} else {
			c.Cache.Redis.Host = v
		}
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Finnhub.APIKey == "" && c.Environment != "test" {
		return fmt.Errorf("finnhub.api_key is required")
	}
	if c.Cache.Backend != "" && c.Cache.Backend != "memory" && c.Cache.Backend != "redis" {
		return fmt.Errorf("cache.backend must be 'memory' or 'redis', got '%s'", c.Cache.Backend)
	}
	if c.Scanner.BatchSize <= 0 {
		return fmt.Errorf("scanner.batch_size must be positive")
	}
	if c.Scanner.WeightShort < 0 || c.Scanner.WeightShort > 1 {
		return fmt.Errorf("scanner.weight_short must be within [0,1]")
	}
	for _, h := range []HorizonConfig{c.Scanner.ShortTerm, c.Scanner.LongTerm} {
		if h.RangeDays <= 0 || h.LookforwardBars <= 0 {
			return fmt.Errorf("scanner horizons require positive range_days and lookforward_bars")
		}
	}
	return nil
}
