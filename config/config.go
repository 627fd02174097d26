// Package config loads the parameters of a partsim run from files and the
// environment.
package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/sarchlab/partsim/experiment"
	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/workload"
)

// Config is the complete configuration of a run.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation" toml:"simulation"`
	Workload   WorkloadConfig   `yaml:"workload" toml:"workload"`
	Output     OutputConfig     `yaml:"output" toml:"output"`
}

// SimulationConfig holds the parameters of the experiments.
type SimulationConfig struct {
	PoolSize          int      `yaml:"pool_size" toml:"pool_size"`
	Steps             int      `yaml:"steps" toml:"steps"`
	Runs              int      `yaml:"runs" toml:"runs"`
	Seed              int64    `yaml:"seed" toml:"seed"`
	Strategies        []string `yaml:"strategies" toml:"strategies"`
	FragmentThreshold int      `yaml:"fragment_threshold" toml:"fragment_threshold"`
	ClearBetweenRuns  bool     `yaml:"clear_between_runs" toml:"clear_between_runs"`
}

// WorkloadConfig bounds the generated requests. All bounds are inclusive.
type WorkloadConfig struct {
	MinSize     int    `yaml:"min_size" toml:"min_size"`
	MaxSize     int    `yaml:"max_size" toml:"max_size"`
	MinDuration uint32 `yaml:"min_duration" toml:"min_duration"`
	MaxDuration uint32 `yaml:"max_duration" toml:"max_duration"`
}

// OutputConfig controls what a run produces besides the report.
type OutputConfig struct {
	Record          string `yaml:"record" toml:"record"`
	RecordSteps     bool   `yaml:"record_steps" toml:"record_steps"`
	Monitor         bool   `yaml:"monitor" toml:"monitor"`
	MonitorPort     int    `yaml:"monitor_port" toml:"monitor_port"`
	OpenBrowser     bool   `yaml:"open_browser" toml:"open_browser"`
	Dump            bool   `yaml:"dump" toml:"dump"`
	MetricsInterval string `yaml:"metrics_interval" toml:"metrics_interval"`
	LogLevel        string `yaml:"log_level" toml:"log_level"`
	LogFormat       string `yaml:"log_format" toml:"log_format"`
}

// Default returns the default configuration: 1000 units, 100 runs of 3000
// steps, seed 1235.
func Default() Config {
	bounds := workload.DefaultBounds()

	return Config{
		Simulation: SimulationConfig{
			PoolSize:          1000,
			Steps:             3000,
			Runs:              100,
			Seed:              1235,
			Strategies:        strategyNames(partition.Strategies()),
			FragmentThreshold: 1,
		},
		Workload: WorkloadConfig{
			MinSize:     bounds.MinSize,
			MaxSize:     bounds.MaxSize,
			MinDuration: uint32(bounds.MinDuration),
			MaxDuration: uint32(bounds.MaxDuration),
		},
		Output: OutputConfig{
			LogLevel:  "info",
			LogFormat: "text",
		},
	}
}

func strategyNames(strategies []partition.Strategy) []string {
	names := make([]string, 0, len(strategies))
	for _, s := range strategies {
		names = append(names, s.String())
	}

	return names
}

// Load reads a configuration file on top of the defaults. Files ending in
// .toml are TOML; .yaml and .yml files are YAML. Unknown keys are errors.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		err = dec.Decode(&cfg)
		if err == io.EOF {
			err = nil
		}
	case ".toml":
		err = toml.NewDecoder(bytes.NewReader(data)).
			DisallowUnknownFields().
			Decode(&cfg)
	default:
		return cfg, errors.Errorf("unsupported config file %s", path)
	}

	if err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}

	return cfg, nil
}

// LoadDotEnv loads environment variables from a .env file. A missing file is
// not an error.
func LoadDotEnv(path string) error {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}

	err = godotenv.Load(path)
	if err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// Validate checks that the configuration describes a valid run.
func (c Config) Validate() error {
	sim := c.Simulation

	if sim.PoolSize < 1 {
		return errors.Errorf("pool size must be positive, got %d",
			sim.PoolSize)
	}

	if sim.Steps < 1 {
		return errors.Errorf("steps must be positive, got %d", sim.Steps)
	}

	if sim.Runs < 1 {
		return errors.Errorf("runs must be positive, got %d", sim.Runs)
	}

	if sim.FragmentThreshold < 0 {
		return errors.Errorf("fragment threshold cannot be negative, got %d",
			sim.FragmentThreshold)
	}

	if _, err := c.Strategies(); err != nil {
		return err
	}

	if err := c.Bounds().Validate(); err != nil {
		return errors.Wrap(err, "invalid workload")
	}

	return c.Output.validate()
}

func (o OutputConfig) validate() error {
	if o.MonitorPort != 0 && (o.MonitorPort < 1000 || o.MonitorPort > 65535) {
		return errors.Errorf("monitor port must be in [1000, 65535], got %d",
			o.MonitorPort)
	}

	if o.RecordSteps && o.Record == "" {
		return errors.New("step recording needs a record path")
	}

	if _, err := o.MetricsPeriod(); err != nil {
		return err
	}

	if _, err := logrus.ParseLevel(o.LogLevel); err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	switch o.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("log format must be text or json, got %q",
			o.LogFormat)
	}

	return nil
}

// MetricsPeriod parses the metrics interval. An empty interval turns metrics
// reporting off and returns 0.
func (o OutputConfig) MetricsPeriod() (time.Duration, error) {
	if o.MetricsInterval == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(o.MetricsInterval)
	if err != nil {
		return 0, errors.Wrap(err, "invalid metrics interval")
	}

	if d < 0 {
		return 0, errors.Errorf("metrics interval cannot be negative, got %s",
			d)
	}

	return d, nil
}

// Strategies parses the strategy names. An empty list means all strategies.
// Duplicates are removed.
func (c Config) Strategies() ([]partition.Strategy, error) {
	if len(c.Simulation.Strategies) == 0 {
		return partition.Strategies(), nil
	}

	seen := make(map[partition.Strategy]bool)
	strategies := make([]partition.Strategy, 0, len(c.Simulation.Strategies))

	for _, name := range c.Simulation.Strategies {
		s, err := partition.ParseStrategy(strings.TrimSpace(name))
		if err != nil {
			return nil, errors.Wrap(err, "invalid strategy")
		}

		if seen[s] {
			continue
		}

		seen[s] = true
		strategies = append(strategies, s)
	}

	return strategies, nil
}

// Bounds returns the bounds of the generated requests.
func (c Config) Bounds() workload.Bounds {
	return workload.Bounds{
		MinSize:     c.Workload.MinSize,
		MaxSize:     c.Workload.MaxSize,
		MinDuration: partition.Duration(c.Workload.MinDuration),
		MaxDuration: partition.Duration(c.Workload.MaxDuration),
	}
}

// Plan turns the configuration into an experiment plan.
func (c Config) Plan() (experiment.Plan, error) {
	if err := c.Validate(); err != nil {
		return experiment.Plan{}, err
	}

	strategies, _ := c.Strategies()

	return experiment.Plan{
		Strategies:        strategies,
		Capacity:          c.Simulation.PoolSize,
		StepsPerRun:       c.Simulation.Steps,
		Runs:              c.Simulation.Runs,
		Seed:              c.Simulation.Seed,
		Bounds:            c.Bounds(),
		FragmentThreshold: c.Simulation.FragmentThreshold,
		ClearBetweenRuns:  c.Simulation.ClearBetweenRuns,
	}, nil
}
