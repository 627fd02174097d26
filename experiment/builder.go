package experiment

import (
	"log"

	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/timing"
	"github.com/sarchlab/partsim/workload"
)

// Builder can build experiments.
type Builder struct {
	engine            timing.Engine
	store             *partition.Store
	capacity          int
	strategy          partition.Strategy
	source            workload.Source
	stepsPerRun       int
	runs              int
	fragmentThreshold int
	clearBetweenRuns  bool
	logger            logrus.FieldLogger
	metrics           tally.Scope
	progressBar       *monitoring.ProgressBar
}

// MakeBuilder creates a builder with the default parameters: 1000 units,
// 100 runs of 3000 steps, fragments of 1 unit.
func MakeBuilder() Builder {
	return Builder{
		capacity:          1000,
		strategy:          partition.FirstFit,
		stepsPerRun:       3000,
		runs:              100,
		fragmentThreshold: 1,
		logger:            logrus.StandardLogger(),
		metrics:           tally.NoopScope,
	}
}

// WithEngine sets the engine that the experiment ticks on.
func (b Builder) WithEngine(engine timing.Engine) Builder {
	b.engine = engine
	return b
}

// WithStore uses an existing store instead of creating one.
func (b Builder) WithStore(store *partition.Store) Builder {
	b.store = store
	return b
}

// WithCapacity sets the number of units of the store to create.
func (b Builder) WithCapacity(capacity int) Builder {
	b.capacity = capacity
	return b
}

// WithStrategy sets the placement strategy.
func (b Builder) WithStrategy(strategy partition.Strategy) Builder {
	b.strategy = strategy
	return b
}

// WithSource sets where requests come from.
func (b Builder) WithSource(source workload.Source) Builder {
	b.source = source
	return b
}

// WithStepsPerRun sets the number of steps of each run.
func (b Builder) WithStepsPerRun(steps int) Builder {
	b.stepsPerRun = steps
	return b
}

// WithRuns sets the number of runs.
func (b Builder) WithRuns(runs int) Builder {
	b.runs = runs
	return b
}

// WithFragmentThreshold sets the largest free run counted as a fragment.
func (b Builder) WithFragmentThreshold(threshold int) Builder {
	b.fragmentThreshold = threshold
	return b
}

// WithClearBetweenRuns makes every run start from an empty store. By
// default, runs continue from where the previous run left the store.
func (b Builder) WithClearBetweenRuns() Builder {
	b.clearBetweenRuns = true
	return b
}

// WithLogger sets the logger.
func (b Builder) WithLogger(logger logrus.FieldLogger) Builder {
	b.logger = logger
	return b
}

// WithMetricsScope sets the tally scope that metrics are reported to.
func (b Builder) WithMetricsScope(scope tally.Scope) Builder {
	b.metrics = scope
	return b
}

// WithProgressBar sets a progress bar that counts finished steps.
func (b Builder) WithProgressBar(bar *monitoring.ProgressBar) Builder {
	b.progressBar = bar
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.engine == nil {
		log.Panic("experiment: engine is not set")
	}

	if b.source == nil {
		log.Panic("experiment: request source is not set")
	}

	if b.stepsPerRun <= 0 {
		log.Panicf("experiment: steps per run must be positive, got %d",
			b.stepsPerRun)
	}

	if b.runs <= 0 {
		log.Panicf("experiment: number of runs must be positive, got %d",
			b.runs)
	}
}

// Build creates an experiment with the given name.
func (b Builder) Build(name string) *Experiment {
	b.parametersMustBeValid()

	store := b.store
	if store == nil {
		var err error

		store, err = partition.NewStore(b.capacity)
		if err != nil {
			log.Panic(err)
		}
	}

	e := &Experiment{
		store:             store,
		strategy:          b.strategy,
		source:            b.source,
		stepsPerRun:       b.stepsPerRun,
		runs:              b.runs,
		fragmentThreshold: b.fragmentThreshold,
		clearBetweenRuns:  b.clearBetweenRuns,
		logger:            b.logger,
		metrics:           newExperimentMetrics(b.metrics, b.strategy),
		progressBar:       b.progressBar,
	}
	e.TickingComponent = timing.NewTickingComponent(name, b.engine, e)

	return e
}
