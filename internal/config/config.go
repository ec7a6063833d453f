// Package config loads cubench settings from defaults, an optional file and
// CUBENCH_ environment variables, in increasing priority.
package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/zeebo/errs"

	"github.com/calebcase/cubench/meter"
	"github.com/calebcase/cubench/processor"
)

// Error is the error class for configuration failures.
var Error = errs.Class("config")

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CUBENCH"

// Config is the complete cubench configuration.
type Config struct {
	// Correction is subtracted from every raw measurement.
	Correction uint64 `mapstructure:"correction"`

	// BudgetUnits is the starting budget of each host.
	BudgetUnits uint64 `mapstructure:"budget_units"`

	// Repeat is the number of invocations per benchmark case.
	Repeat int `mapstructure:"repeat"`

	// Concurrency bounds the cases run at once.
	Concurrency int `mapstructure:"concurrency"`

	Format      string `mapstructure:"format"`
	Database    string `mapstructure:"database"`
	MetricsFile string `mapstructure:"metrics_file"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`

	path string
}

// Path is the file the configuration was read from, if any.
func (c *Config) Path() string {
	return c.path
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("correction", processor.DefaultCorrection)
	v.SetDefault("budget_units", meter.DefaultBudget)
	v.SetDefault("repeat", 5)
	v.SetDefault("concurrency", 1)
	v.SetDefault("format", "text")
	v.SetDefault("database", "")
	v.SetDefault("metrics_file", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
}

// Default returns the configuration without any file or environment.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var c Config
	// Defaults always decode.
	_ = v.Unmarshal(&c)

	return &c
}

// Load reads the configuration. An empty path skips the file; a named file
// must exist.
func Load(path string) (_ *Config, err error) {
	defer Error.WrapP(&err)

	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, Error.New("config file does not exist: %s", path)
		}

		v.SetConfigFile(path)

		err = v.ReadInConfig()
		if err != nil {
			return nil, Error.New("failed to read config file %s: %v", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var c Config

	err = v.Unmarshal(&c)
	if err != nil {
		return nil, Error.New("failed to unmarshal config: %v", err)
	}

	c.path = path

	err = c.Validate()
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	var group errs.Group

	if c.BudgetUnits == 0 {
		group.Add(Error.New("budget_units must be positive"))
	}

	if c.Repeat < 1 {
		group.Add(Error.New("repeat must be at least 1, got %d", c.Repeat))
	}

	if c.Concurrency < 1 {
		group.Add(Error.New("concurrency must be at least 1, got %d", c.Concurrency))
	}

	switch c.Format {
	case "text", "json":
	default:
		group.Add(Error.New("format must be text or json, got %q", c.Format))
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		group.Add(Error.New("log_format must be text or json, got %q", c.LogFormat))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		group.Add(Error.New("log_level must be debug, info, warn or error, got %q", c.LogLevel))
	}

	return group.Err()
}
