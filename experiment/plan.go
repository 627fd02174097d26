package experiment

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/simulation"
	"github.com/sarchlab/partsim/workload"
)

// A Plan describes a set of experiments, one per strategy, that share all
// other parameters.
type Plan struct {
	Strategies        []partition.Strategy
	Capacity          int
	StepsPerRun       int
	Runs              int
	Seed              int64
	Bounds            workload.Bounds
	FragmentThreshold int
	ClearBetweenRuns  bool
}

// DefaultPlan runs all strategies on 1000 units for 100 runs of 3000 steps.
func DefaultPlan() Plan {
	return Plan{
		Strategies:        partition.Strategies(),
		Capacity:          1000,
		StepsPerRun:       3000,
		Runs:              100,
		Seed:              1235,
		Bounds:            workload.DefaultBounds(),
		FragmentThreshold: 1,
	}
}

// Build creates one experiment per strategy in the simulation. Every
// experiment has its own store and its own request source seeded with the
// plan's seed, so all strategies see the same request sequence.
func (p Plan) Build(sim *simulation.Simulation) ([]*Experiment, error) {
	if len(p.Strategies) == 0 {
		return nil, errors.New("no strategy to run")
	}

	if err := p.Bounds.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid request bounds")
	}

	var hook *RecordingHook
	if sim.GetDataRecorder() != nil {
		hook = NewRecordingHook(sim.GetDataRecorder(), sim.ID(),
			sim.RecordSteps())
	}

	experiments := make([]*Experiment, 0, len(p.Strategies))
	for _, strategy := range p.Strategies {
		store, err := partition.NewStore(p.Capacity)
		if err != nil {
			return nil, errors.Wrapf(err, "creating store of %d units",
				p.Capacity)
		}

		builder := MakeBuilder().
			WithEngine(sim.GetEngine()).
			WithStore(store).
			WithStrategy(strategy).
			WithSource(workload.NewUniformSource(p.Bounds, p.Seed)).
			WithStepsPerRun(p.StepsPerRun).
			WithRuns(p.Runs).
			WithFragmentThreshold(p.FragmentThreshold).
			WithLogger(sim.GetLogger()).
			WithMetricsScope(sim.GetMetricsScope())

		if p.ClearBetweenRuns {
			builder = builder.WithClearBetweenRuns()
		}

		if m := sim.GetMonitor(); m != nil {
			bar := m.CreateProgressBar(strategy.Title(),
				uint64(p.Runs)*uint64(p.StepsPerRun))
			builder = builder.WithProgressBar(bar)
		}

		e := builder.Build(strategy.String())
		if hook != nil {
			e.AcceptHook(hook)
		}

		sim.RegisterComponent(e)
		experiments = append(experiments, e)
	}

	if m := sim.GetMonitor(); m != nil {
		sim.GetEngine().RegisterSimulationEndHandler(progressBarCompleter{
			monitor:     m,
			experiments: experiments,
		})
	}

	return experiments, nil
}

// Run builds the experiments, runs the simulation until they are all done
// and returns their results in the order of the plan's strategies. Recorded
// rows are flushed after every run.
func (p Plan) Run(sim *simulation.Simulation) ([]*Experiment, error) {
	experiments, err := p.Build(sim)
	if err != nil {
		return nil, err
	}

	for _, e := range experiments {
		e.TickLater()
	}

	if r := sim.GetDataRecorder(); r != nil {
		flusher := NewRecordFlusher("RecordFlusher", sim.GetEngine(), r,
			p.StepsPerRun, experiments)
		flusher.TickLater()
	}

	err = sim.Run()
	if err != nil {
		return nil, err
	}

	return experiments, nil
}

// Results collects the results of the experiments.
func Results(experiments []*Experiment) []Result {
	results := make([]Result, 0, len(experiments))
	for _, e := range experiments {
		results = append(results, e.Result())
	}

	return results
}
