// Package cmd provides the command-line interface of partsim.
package cmd

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/sarchlab/partsim/config"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "partsim",
	Short: "partsim compares placement strategies of a partitioned memory pool.",
	Long: `partsim simulates a pool of memory units that receives a random ` +
		`request every time step. It compares first-fit, next-fit and ` +
		`best-fit placement by the number of probes, the failure rate and ` +
		`the fragmentation of the pool.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("config", "",
		"YAML (.yaml, .yml) or TOML (.toml) configuration file")
	rootCmd.PersistentFlags().String("env-file", ".env",
		"file to load environment variables from")
	rootCmd.PersistentFlags().String("log-level", "",
		"log level: panic, fatal, error, warn, info, debug or trace")
	rootCmd.PersistentFlags().String("log-format", "",
		"log format: text or json")
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

// loadConfig builds the configuration from the defaults, the .env file, the
// config file and the PARTSIM_* variables, in this order. Flags are applied
// by each command.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	flags := cmd.Flags()

	envFile, _ := flags.GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return config.Config{}, err
	}

	cfg := config.Default()

	path, _ := flags.GetString("config")
	if path != "" {
		var err error

		cfg, err = config.Load(path)
		if err != nil {
			return cfg, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}

	if flags.Changed("log-level") {
		cfg.Output.LogLevel, _ = flags.GetString("log-level")
	}

	if flags.Changed("log-format") {
		cfg.Output.LogFormat, _ = flags.GetString("log-format")
	}

	return cfg, nil
}

func setupLogging(output config.OutputConfig) error {
	level, err := logrus.ParseLevel(output.LogLevel)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}

	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)

	switch output.LogFormat {
	case "json":
		logrus.SetFormatter(&logrus.JSONFormatter{})
	case "text":
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return errors.Errorf("unknown log format %q", output.LogFormat)
	}

	return nil
}
