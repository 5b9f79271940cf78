// Package config loads and validates the scheduler configuration file.
//
// The configuration is YAML. Every schedule entry names a strategy kind,
// the symbols it watches and the candle timeframe it runs on. Validation
// happens eagerly at load time so a bad file fails before any schedule
// is registered.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/KushT00/Forex-Ultimate/pkg/errors"
)

// ScheduleConfig describes a single registered schedule.
type ScheduleConfig struct {
	Name             string   `yaml:"name" validate:"required"`
	Strategy         string   `yaml:"strategy" validate:"required,oneof=ma_crossover rsi_divergence supertrend_rsi"`
	Symbols          []string `yaml:"symbols" validate:"required,min=1,dive,required"`
	TimeframeMinutes int      `yaml:"timeframe_minutes" validate:"required,gt=0"`
}

// SchedulerConfig tunes the dispatch loop and worker pool.
type SchedulerConfig struct {
	Workers          int `yaml:"workers" validate:"gte=0"`
	QueueSize        int `yaml:"queue_size" validate:"gte=0"`
	DrainTimeoutSecs int `yaml:"drain_timeout_seconds" validate:"gte=0"`
}

// ServerConfig configures the read-only status HTTP API.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// Config is the root configuration document.
type Config struct {
	Provider     string           `yaml:"provider" validate:"required,oneof=binance polygon"`
	TradeLogPath string           `yaml:"trade_log_path" validate:"required"`
	Scheduler    SchedulerConfig  `yaml:"scheduler"`
	Server       ServerConfig     `yaml:"server"`
	Schedules    []ScheduleConfig `yaml:"schedules" validate:"required,min=1,dive"`
}

// Load reads, parses and validates the configuration at path.
func Load(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to read config file", err)
	}
	return Parse(content)
}

// Parse parses and validates a YAML configuration document.
func Parse(content []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal(content, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the configuration against its struct tags plus the
// cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	seen := make(map[string]struct{}, len(c.Schedules))
	for _, schedule := range c.Schedules {
		if _, ok := seen[schedule.Name]; ok {
			return errors.Newf(errors.ErrCodeInvalidConfiguration, "duplicate schedule name: %s", schedule.Name)
		}
		seen[schedule.Name] = struct{}{}

		if schedule.TimeframeMinutes > 24*60 {
			return errors.Newf(errors.ErrCodeInvalidTimeframe, "timeframe %d exceeds one day", schedule.TimeframeMinutes)
		}
	}

	return nil
}

// DrainTimeout returns the configured drain timeout, or zero when unset
// so the scheduler falls back to its default.
func (c *Config) DrainTimeout() time.Duration {
	return time.Duration(c.Scheduler.DrainTimeoutSecs) * time.Second
}
