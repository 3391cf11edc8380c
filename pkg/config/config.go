package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"FinSpread/internal/domain/models"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Sink names accepted in output.sinks.
const (
	SinkCSV        = "csv"
	SinkJSON       = "json"
	SinkClickHouse = "clickhouse"
	SinkKafka      = "kafka"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"log"`
	Server struct {
		Host            string        `yaml:"host" default:"0.0.0.0"`
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
		RateLimit       struct {
			Burst     float64 `yaml:"burst" default:"5"`
			PerSecond float64 `yaml:"per_second" default:"1"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Provider struct {
		BaseURL    string        `yaml:"base_url" default:"https://api.tdameritrade.com/v1/marketdata/chains"`
		APIKey     string        `yaml:"api_key"`
		Timeout    time.Duration `yaml:"timeout" default:"15s"`
		Retries    int           `yaml:"retries" default:"3"`
		RatePerSec float64       `yaml:"rate_per_sec" default:"2"`
		CacheTTL   time.Duration `yaml:"cache_ttl" default:"1m"`
	} `yaml:"provider"`
	Analysis struct {
		Symbols     []string `yaml:"symbols"`
		OptionTypes []string `yaml:"option_types"`
		MinProfit   *float64 `yaml:"min_profit" default:"0.5"`
	} `yaml:"analysis"`
	Output struct {
		Dir   string   `yaml:"dir" default:"."`
		Sinks []string `yaml:"sinks"`
	} `yaml:"output"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr" default:"localhost:6379"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix" default:"finspread"`
		Pool     struct {
			Size    int           `yaml:"size" default:"10"`
			MinIdle int           `yaml:"min_idle" default:"2"`
			Timeout time.Duration `yaml:"timeout" default:"30s"`
		} `yaml:"pool"`
	} `yaml:"redis"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers" default:"2"`
		RetryLimit int           `yaml:"retry_limit" default:"3"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"30s"`
		Prefix     string        `yaml:"prefix" default:"finspread:queue"`
	} `yaml:"queue"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"option-spreads"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"100ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"finspread"`
		Table            string        `yaml:"table" default:"spreads"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
}

// Default returns a config with every default applied and no file read.
func Default() (*Config, error) {
	var c Config
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Load reads and parses a YAML configuration file.
// A missing file is not an error; defaults and environment fill the gaps.
func Load(path string) (*Config, error) {
	var c Config
	b, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(b, &c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadWithEnv loads config from YAML (and .env when present) and overrides it with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	// .env is optional; real environment variables win over it
	_ = godotenv.Load()

	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	c.ApplyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

// ApplyEnv overrides fields from the given lookup function.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("TDAPIKEY"); v != "" {
		c.Provider.APIKey = v
	} else if v := getenv("tdapikey"); v != "" {
		c.Provider.APIKey = v
	}
	if v := getenv("SYMBOLS"); v != "" {
		c.Analysis.Symbols = splitList(v)
	}
	if v := getenv("OPTION_TYPES"); v != "" {
		c.Analysis.OptionTypes = splitList(v)
	}
	if v := getenv("OUTPUT_DIR"); v != "" {
		c.Output.Dir = v
	}
	if v := getenv("OUTPUT_SINKS"); v != "" {
		c.Output.Sinks = splitList(v)
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = splitList(v)
	}
	if v := getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key is required (or set TDAPIKEY)")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	if len(c.Analysis.Symbols) == 0 {
		return fmt.Errorf("analysis.symbols cannot be empty")
	}
	for _, t := range c.Analysis.OptionTypes {
		if _, ok := models.ParseOptionType(t); !ok {
			return fmt.Errorf("analysis.option_types: unknown type '%s'", t)
		}
	}
	if c.Analysis.MinProfit != nil && *c.Analysis.MinProfit < 0 {
		return fmt.Errorf("analysis.min_profit must be >= 0, got %v", *c.Analysis.MinProfit)
	}
	if c.Queue.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("queue.enabled requires redis.enabled")
	}
	for _, s := range c.Output.Sinks {
		switch s {
		case SinkCSV, SinkJSON:
		case SinkClickHouse:
			if c.ClickHouse.Host == "" {
				return fmt.Errorf("clickhouse.host is required when the clickhouse sink is enabled")
			}
		case SinkKafka:
			if len(c.Kafka.Brokers) == 0 {
				return fmt.Errorf("kafka.brokers is required when the kafka sink is enabled")
			}
		default:
			return fmt.Errorf("output.sinks: unknown sink '%s'", s)
		}
	}
	return nil
}

// HasSink reports whether name is listed in output.sinks.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.Output.Sinks {
		if s == name {
			return true
		}
	}
	return false
}

// Threshold returns analysis.min_profit. An explicit zero keeps every positive spread.
func (c *Config) Threshold() float64 {
	if c.Analysis.MinProfit == nil {
		return 0.5
	}
	return *c.Analysis.MinProfit
}

func (c *Config) applyDefaults() error {
	if err := defaults.Set(c); err != nil {
		return fmt.Errorf("config defaults: %w", err)
	}
	if len(c.Analysis.Symbols) == 0 {
		c.Analysis.Symbols = []string{"SPY"}
	}
	if len(c.Analysis.OptionTypes) == 0 {
		c.Analysis.OptionTypes = []string{"CALL"}
	}
	if len(c.Output.Sinks) == 0 {
		c.Output.Sinks = []string{SinkCSV}
	}
	return nil
}

// splitList splits a comma separated value, trimming blanks and dropping empties.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
