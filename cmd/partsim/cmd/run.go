package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sarchlab/partsim/config"
	"github.com/sarchlab/partsim/experiment"
	"github.com/sarchlab/partsim/simulation"
)

var runCmd = &cobra.Command{
	Use:   "run [pool-size steps runs seed]",
	Short: "Run the experiments and print a report.",
	Long: `Run simulates every selected strategy and prints the average ` +
		`number of probes, failures and fragments. The optional positional ` +
		`arguments set the pool size, the steps per run, the number of runs ` +
		`and the seed, in this order.`,
	Args: cobra.MaximumNArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		applyRunFlags(cmd, &cfg)

		if err := applyPositionalArgs(&cfg, args); err != nil {
			return err
		}

		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := setupLogging(cfg.Output); err != nil {
			return err
		}

		return runExperiments(cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	flags := runCmd.Flags()
	flags.Int("pool-size", 0, "number of units in the pool (default 1000)")
	flags.Int("steps", 0, "steps per run (default 3000)")
	flags.Int("runs", 0, "number of runs (default 100)")
	flags.Int64("seed", 0, "seed of the request generator (default 1235)")
	flags.StringSlice("strategy", nil,
		"strategy to run, repeatable: first-fit, next-fit, best-fit "+
			"(default all)")
	flags.Int("fragment-threshold", 0,
		"largest free run counted as a fragment (default 1)")
	flags.Int("min-size", 0, "smallest request size")
	flags.Int("max-size", 0, "largest request size")
	flags.Uint32("min-duration", 0, "shortest request duration")
	flags.Uint32("max-duration", 0, "longest request duration")
	flags.Bool("clear-between-runs", false,
		"empty the pool before every run")
	flags.String("record", "",
		"record runs into PATH.sqlite3 (default no recording)")
	flags.Bool("record-steps", false, "also record every step")
	flags.Bool("monitor", false, "serve a monitoring page while running")
	flags.Int("monitor-port", 0, "port of the monitoring page (default random)")
	flags.Bool("open-browser", false, "open the monitoring page in a browser")
	flags.Bool("dump", false, "print the final pool of every strategy")
	flags.String("metrics-interval", "",
		"log metrics at debug level every interval, such as 5s")
}

func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	sim := &cfg.Simulation
	wl := &cfg.Workload
	out := &cfg.Output

	ints := map[string]*int{
		"pool-size":          &sim.PoolSize,
		"steps":              &sim.Steps,
		"runs":               &sim.Runs,
		"fragment-threshold": &sim.FragmentThreshold,
		"min-size":           &wl.MinSize,
		"max-size":           &wl.MaxSize,
		"monitor-port":       &out.MonitorPort,
	}
	for name, field := range ints {
		if flags.Changed(name) {
			*field, _ = flags.GetInt(name)
		}
	}

	uint32s := map[string]*uint32{
		"min-duration": &wl.MinDuration,
		"max-duration": &wl.MaxDuration,
	}
	for name, field := range uint32s {
		if flags.Changed(name) {
			*field, _ = flags.GetUint32(name)
		}
	}

	bools := map[string]*bool{
		"clear-between-runs": &sim.ClearBetweenRuns,
		"record-steps":       &out.RecordSteps,
		"monitor":            &out.Monitor,
		"open-browser":       &out.OpenBrowser,
		"dump":               &out.Dump,
	}
	for name, field := range bools {
		if flags.Changed(name) {
			*field, _ = flags.GetBool(name)
		}
	}

	strs := map[string]*string{
		"record":           &out.Record,
		"metrics-interval": &out.MetricsInterval,
	}
	for name, field := range strs {
		if flags.Changed(name) {
			*field, _ = flags.GetString(name)
		}
	}

	if flags.Changed("seed") {
		sim.Seed, _ = flags.GetInt64("seed")
	}

	if flags.Changed("strategy") {
		sim.Strategies, _ = flags.GetStringSlice("strategy")
	}

	if out.MonitorPort != 0 || out.OpenBrowser {
		out.Monitor = true
	}
}

// applyPositionalArgs applies the positional arguments: pool size, steps,
// runs and seed.
func applyPositionalArgs(cfg *config.Config, args []string) error {
	ints := []*int{
		&cfg.Simulation.PoolSize,
		&cfg.Simulation.Steps,
		&cfg.Simulation.Runs,
	}
	names := []string{"pool size", "steps", "runs", "seed"}

	for i, arg := range args {
		if i == 3 {
			seed, err := strconv.ParseInt(arg, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "invalid %s", names[i])
			}

			cfg.Simulation.Seed = seed

			continue
		}

		v, err := strconv.Atoi(arg)
		if err != nil {
			return errors.Wrapf(err, "invalid %s", names[i])
		}

		*ints[i] = v
	}

	return nil
}

func buildSimulation(cfg config.Config) (*simulation.Simulation, error) {
	builder := simulation.MakeBuilder()

	if cfg.Output.Record != "" {
		builder = builder.WithRecording(cfg.Output.Record)
		if cfg.Output.RecordSteps {
			builder = builder.WithStepRecording()
		}
	}

	if cfg.Output.Monitor {
		builder = builder.WithMonitoring().
			WithMonitorPort(cfg.Output.MonitorPort)
	}

	if cfg.Output.LogLevel == logrus.TraceLevel.String() {
		builder = builder.WithEventLogging()
	}

	period, err := cfg.Output.MetricsPeriod()
	if err != nil {
		return nil, err
	}

	if period > 0 {
		builder = builder.WithMetricsReporting(period)
	}

	return builder.Build(), nil
}

func runExperiments(cfg config.Config, out io.Writer) error {
	plan, err := cfg.Plan()
	if err != nil {
		return err
	}

	sim, err := buildSimulation(cfg)
	if err != nil {
		return err
	}

	recordParameters(sim, cfg)

	if cfg.Output.OpenBrowser {
		if err := sim.GetMonitor().OpenInBrowser(); err != nil {
			logrus.WithError(err).Warn("Cannot open the monitoring page")
		}
	}

	experiments, err := plan.Run(sim)
	if err != nil {
		return err
	}

	err = experiment.WriteReport(out, experiment.Results(experiments))
	if err != nil {
		return err
	}

	if cfg.Output.Dump {
		if err := dumpStores(out, experiments); err != nil {
			return err
		}
	}

	for _, e := range experiments {
		e.Store().Release()
	}

	return sim.Terminate()
}

func recordParameters(sim *simulation.Simulation, cfg config.Config) {
	params := []struct{ name, value string }{
		{"Pool Size", strconv.Itoa(cfg.Simulation.PoolSize)},
		{"Steps", strconv.Itoa(cfg.Simulation.Steps)},
		{"Runs", strconv.Itoa(cfg.Simulation.Runs)},
		{"Seed", strconv.FormatInt(cfg.Simulation.Seed, 10)},
		{"Strategies", strings.Join(cfg.Simulation.Strategies, ",")},
		{"Fragment Threshold",
			strconv.Itoa(cfg.Simulation.FragmentThreshold)},
		{"Clear Between Runs",
			strconv.FormatBool(cfg.Simulation.ClearBetweenRuns)},
	}

	for _, p := range params {
		sim.RecordExecInfo(p.name, p.value)
	}
}

func dumpStores(out io.Writer, experiments []*experiment.Experiment) error {
	for _, e := range experiments {
		_, err := fmt.Fprintf(out, "\n-------Memory After %s-------\n",
			e.Strategy().Title())
		if err != nil {
			return err
		}

		if err := e.Store().Dump(out); err != nil {
			return err
		}
	}

	return nil
}
