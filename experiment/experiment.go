// Package experiment runs allocation experiments over a partition store.
//
// An experiment is a ticking component. Every tick is one step of the
// simulation loop: a request is drawn, the store tries to allocate
// it with the experiment's strategy, the store ages by one time unit, and the
// fragmentation is sampled. A number of runs, each of a fixed number of
// steps, make up an experiment.
package experiment

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"

	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/timing"
	"github.com/sarchlab/partsim/workload"
)

// Experiment measures one placement strategy.
type Experiment struct {
	*timing.TickingComponent

	store             *partition.Store
	strategy          partition.Strategy
	source            workload.Source
	stepsPerRun       int
	runs              int
	fragmentThreshold int
	clearBetweenRuns  bool

	logger      logrus.FieldLogger
	metrics     experimentMetrics
	progressBar *monitoring.ProgressBar

	run      int
	step     int
	started  bool
	runStats Stats
	total    Stats
	perRun   []Stats
}

// Strategy returns the placement strategy under test.
func (e *Experiment) Strategy() partition.Strategy {
	return e.strategy
}

// Store returns the store the experiment allocates from.
func (e *Experiment) Store() *partition.Store {
	return e.store
}

// Done tells if all the runs are finished.
func (e *Experiment) Done() bool {
	return e.run >= e.runs
}

// Tick performs one step. It returns false once all the runs are finished.
func (e *Experiment) Tick() bool {
	if e.Done() {
		return false
	}

	if !e.started {
		e.start()
	}

	sample := e.doStep()
	e.runStats.AddSample(sample)
	e.metrics.record(sample)

	if e.progressBar != nil {
		e.progressBar.IncrementFinished(1)
	}

	e.InvokeHook(timing.HookCtx{
		Domain: e,
		Pos:    HookPosStep,
		Item:   sample,
	})

	e.step++
	if e.step == e.stepsPerRun {
		e.finishRun()
	}

	return !e.Done()
}

func (e *Experiment) start() {
	e.started = true
	e.store.Clear()

	e.logger.WithFields(logrus.Fields{
		"strategy": e.strategy,
		"runs":     e.runs,
		"steps":    e.stepsPerRun,
		"capacity": e.store.Capacity(),
	}).Info("Experiment started")
}

func (e *Experiment) doStep() StepSample {
	req := e.source.Next()

	sample := StepSample{
		Strategy: e.strategy,
		Run:      e.run,
		Step:     e.step,
		Time:     e.CurrentTime(),
		Request:  req,
		Offset:   -1,
		Capacity: e.store.Capacity(),
	}

	probes, err := e.store.Allocate(e.strategy, req.Size, req.Duration)
	switch {
	case err == nil:
		sample.Probes = probes
		sample.Offset = e.store.Cursor()
	case errors.Is(err, partition.ErrAllocationFailed):
		sample.Failed = true
	default:
		panic(err)
	}

	e.store.Tick()

	sample.Fragments = e.store.FragmentCount(e.fragmentThreshold)
	sample.Occupied = e.store.Occupied()

	return sample
}

func (e *Experiment) finishRun() {
	summary := RunSummary{
		Strategy: e.strategy,
		Run:      e.run,
		Stats:    e.runStats,
	}

	e.logger.WithFields(logrus.Fields{
		"strategy":     e.strategy,
		"run":          e.run,
		"failure_rate": e.runStats.FailureRate(),
		"probes":       e.runStats.AverageProbes(),
		"fragments":    e.runStats.AverageFragments(),
	}).Debug("Run finished")

	e.InvokeHook(timing.HookCtx{
		Domain: e,
		Pos:    HookPosRunEnd,
		Item:   summary,
	})

	e.total.Merge(e.runStats)
	e.perRun = append(e.perRun, e.runStats)
	e.runStats = Stats{}
	e.step = 0
	e.run++

	if e.Done() {
		e.logger.WithFields(logrus.Fields{
			"strategy":     e.strategy,
			"failure_rate": e.total.FailureRate(),
		}).Info("Experiment finished")

		return
	}

	if e.clearBetweenRuns {
		e.store.Clear()
	}
}

// Result is the outcome of an experiment.
type Result struct {
	Strategy partition.Strategy
	Total    Stats
	PerRun   []Stats
}

// Result returns the statistics of the finished runs.
func (e *Experiment) Result() Result {
	perRun := make([]Stats, len(e.perRun))
	copy(perRun, e.perRun)

	return Result{
		Strategy: e.strategy,
		Total:    e.total,
		PerRun:   perRun,
	}
}

type experimentMetrics struct {
	successes   tally.Counter
	failures    tally.Counter
	probes      tally.Histogram
	fragments   tally.Gauge
	utilization tally.Gauge
}

func newExperimentMetrics(
	scope tally.Scope,
	strategy partition.Strategy,
) experimentMetrics {
	s := scope.Tagged(map[string]string{"strategy": strategy.String()})

	return experimentMetrics{
		successes: s.Counter("allocation_successes"),
		failures:  s.Counter("allocation_failures"),
		probes: s.Histogram("probes",
			tally.MustMakeLinearValueBuckets(1, 1, 32)),
		fragments:   s.Gauge("fragments"),
		utilization: s.Gauge("utilization"),
	}
}

func (m experimentMetrics) record(sample StepSample) {
	if sample.Failed {
		m.failures.Inc(1)
	} else {
		m.successes.Inc(1)
		m.probes.RecordValue(float64(sample.Probes))
	}

	m.fragments.Update(float64(sample.Fragments))
	m.utilization.Update(float64(sample.Occupied) / float64(sample.Capacity))
}
