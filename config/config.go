// Package config reads the YAML file that describes a simulation run.
package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/memsim/batch"
	"github.com/vkngwrapper/memsim/events"
	"github.com/vkngwrapper/memsim/kernel"
	"golang.org/x/exp/slog"
	"gopkg.in/yaml.v3"
)

// Config is the serialisable description of a simulation run. Sections missing from the file keep
// the values from DefaultConfig.
type Config struct {
	Kernel    kernel.Options          `yaml:"kernel"`
	Scheduler events.SimulatorOptions `yaml:"scheduler"`
	// Workload is the path of a workload file, resolved against the directory of the config file.
	// It may not be combined with Processes.
	Workload  string             `yaml:"workload"`
	Processes []batch.Descriptor `yaml:"processes"`
	Log       LogConfig          `yaml:"log"`
	Trace     TraceConfig        `yaml:"trace"`
}

type LogConfig struct {
	// Level is a slog level name such as "debug" or "info"
	Level string `yaml:"level"`
	// JSON selects the slog JSON handler instead of the text handler
	JSON bool `yaml:"json"`
}

type TraceConfig struct {
	Enabled bool `yaml:"enabled"`
	// Output is the file spans are written to. Spans go to stdout when it is empty.
	Output string `yaml:"output"`
}

// DefaultConfig returns the configuration of a 1024-unit system running its processes to
// completion in arrival order
func DefaultConfig() *Config {
	return &Config{
		Kernel: kernel.DefaultOptions(),
		Scheduler: events.SimulatorOptions{
			IdleStep: 1,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads and validates the config file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read config %s", path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}

	if cfg.Workload != "" && !filepath.IsAbs(cfg.Workload) {
		cfg.Workload = filepath.Join(filepath.Dir(path), cfg.Workload)
	}

	return cfg, nil
}

// Parse decodes and validates a config document
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error describing the first invalid setting, or nil
func (c *Config) Validate() error {
	if err := c.Kernel.Validate(); err != nil {
		return errors.Wrap(err, "kernel")
	}

	if c.Workload != "" && len(c.Processes) > 0 {
		return errors.New("workload and processes cannot both be specified")
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	return nil
}

// LogLevel returns the parsed log level
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}

	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return level, errors.Wrapf(err, "invalid log level %q", c.Log.Level)
	}

	return level, nil
}

// Descriptors returns the processes to run: the contents of the workload file if one is set,
// otherwise the inline process list
func (c *Config) Descriptors() ([]batch.Descriptor, error) {
	if c.Workload == "" {
		return c.Processes, nil
	}

	return batch.LoadWorkload(c.Workload)
}
