package config

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EnvPrefix prefixes all the environment variables read by ApplyEnv.
const EnvPrefix = "PARTSIM_"

type envSetter func(c *Config, value string) error

func intSetter(field func(c *Config) *int) envSetter {
	return func(c *Config, value string) error {
		v, err := strconv.Atoi(value)
		if err != nil {
			return err
		}

		*field(c) = v

		return nil
	}
}

func uint32Setter(field func(c *Config) *uint32) envSetter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return err
		}

		*field(c) = uint32(v)

		return nil
	}
}

func boolSetter(field func(c *Config) *bool) envSetter {
	return func(c *Config, value string) error {
		v, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}

		*field(c) = v

		return nil
	}
}

func stringSetter(field func(c *Config) *string) envSetter {
	return func(c *Config, value string) error {
		*field(c) = value
		return nil
	}
}

var envSetters = map[string]envSetter{
	"POOL_SIZE": intSetter(func(c *Config) *int { return &c.Simulation.PoolSize }),
	"STEPS":     intSetter(func(c *Config) *int { return &c.Simulation.Steps }),
	"RUNS":      intSetter(func(c *Config) *int { return &c.Simulation.Runs }),
	"SEED": func(c *Config, value string) error {
		v, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return err
		}

		c.Simulation.Seed = v

		return nil
	},
	"STRATEGIES": func(c *Config, value string) error {
		c.Simulation.Strategies = strings.Split(value, ",")
		return nil
	},
	"FRAGMENT_THRESHOLD": intSetter(func(c *Config) *int {
		return &c.Simulation.FragmentThreshold
	}),
	"CLEAR_BETWEEN_RUNS": boolSetter(func(c *Config) *bool {
		return &c.Simulation.ClearBetweenRuns
	}),
	"MIN_SIZE": intSetter(func(c *Config) *int { return &c.Workload.MinSize }),
	"MAX_SIZE": intSetter(func(c *Config) *int { return &c.Workload.MaxSize }),
	"MIN_DURATION": uint32Setter(func(c *Config) *uint32 {
		return &c.Workload.MinDuration
	}),
	"MAX_DURATION": uint32Setter(func(c *Config) *uint32 {
		return &c.Workload.MaxDuration
	}),
	"RECORD":       stringSetter(func(c *Config) *string { return &c.Output.Record }),
	"RECORD_STEPS": boolSetter(func(c *Config) *bool { return &c.Output.RecordSteps }),
	"MONITOR":      boolSetter(func(c *Config) *bool { return &c.Output.Monitor }),
	"MONITOR_PORT": intSetter(func(c *Config) *int { return &c.Output.MonitorPort }),
	"OPEN_BROWSER": boolSetter(func(c *Config) *bool { return &c.Output.OpenBrowser }),
	"DUMP":         boolSetter(func(c *Config) *bool { return &c.Output.Dump }),
	"METRICS_INTERVAL": stringSetter(func(c *Config) *string {
		return &c.Output.MetricsInterval
	}),
	"LOG_LEVEL":  stringSetter(func(c *Config) *string { return &c.Output.LogLevel }),
	"LOG_FORMAT": stringSetter(func(c *Config) *string { return &c.Output.LogFormat }),
}

// ApplyEnv overrides the configuration with the PARTSIM_* variables found by
// lookup, which is usually os.LookupEnv.
func (c *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	for name, set := range envSetters {
		key := EnvPrefix + name

		value, ok := lookup(key)
		if !ok {
			continue
		}

		err := set(c, value)
		if err != nil {
			return errors.Wrapf(err, "parsing %s", key)
		}
	}

	return nil
}
