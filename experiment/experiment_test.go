package experiment

import (
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/uber-go/tally/v4"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/partsim/monitoring"
	"github.com/sarchlab/partsim/partition"
	"github.com/sarchlab/partsim/timing"
	"github.com/sarchlab/partsim/workload"
)

type sampleCollector struct {
	steps []StepSample
	runs  []RunSummary
}

func (c *sampleCollector) Func(ctx timing.HookCtx) {
	switch ctx.Pos {
	case HookPosStep:
		c.steps = append(c.steps, ctx.Item.(StepSample))
	case HookPosRunEnd:
		c.runs = append(c.runs, ctx.Item.(RunSummary))
	}
}

var _ = Describe("Experiment", func() {
	var (
		engine    *timing.SerialEngine
		logger    *logrus.Logger
		collector *sampleCollector
		builder   Builder
	)

	run := func(e *Experiment) {
		e.AcceptHook(collector)
		e.TickLater()
		Expect(engine.Run()).To(Succeed())
	}

	BeforeEach(func() {
		engine = timing.NewSerialEngine()
		logger, _ = test.NewNullLogger()
		collector = &sampleCollector{}
		builder = MakeBuilder().
			WithEngine(engine).
			WithLogger(logger)
	})

	It("should panic without an engine", func() {
		Expect(func() {
			MakeBuilder().
				WithSource(workload.NewScriptedSource(
					workload.Request{Size: 1, Duration: 1})).
				Build("exp")
		}).To(Panic())
	})

	It("should panic without a source", func() {
		Expect(func() { builder.Build("exp") }).To(Panic())
	})

	It("should panic with no runs", func() {
		Expect(func() {
			builder.
				WithSource(workload.NewScriptedSource(
					workload.Request{Size: 1, Duration: 1})).
				WithRuns(0).
				Build("exp")
		}).To(Panic())
	})

	It("should run every step of every run", func() {
		e := builder.
			WithCapacity(10).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 4, Duration: 2})).
			WithStepsPerRun(3).
			WithRuns(2).
			Build("first-fit")

		run(e)

		Expect(e.Done()).To(BeTrue())
		Expect(collector.steps).To(HaveLen(6))
		Expect(collector.runs).To(HaveLen(2))

		Expect(collector.steps[0].Time).To(Equal(timing.VTime(1)))
		Expect(collector.steps[0].Offset).To(Equal(0))
		Expect(collector.steps[1].Offset).To(Equal(4))
		Expect(collector.steps[2].Offset).To(Equal(0))
		Expect(collector.steps[3].Run).To(Equal(1))
		Expect(collector.steps[3].Step).To(Equal(0))
		Expect(collector.steps[3].Offset).To(Equal(4))

		result := e.Result()
		Expect(result.Strategy).To(Equal(partition.FirstFit))
		Expect(result.PerRun).To(HaveLen(2))
		Expect(result.Total.Steps).To(Equal(uint64(6)))
		Expect(result.Total.Successes).To(Equal(uint64(6)))
		Expect(result.Total.AverageProbes()).To(Equal(1.0))
		Expect(result.Total.Utilization()).To(Equal(0.4))
	})

	It("should count failures and fragments", func() {
		e := builder.
			WithCapacity(5).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 3, Duration: 5})).
			WithStepsPerRun(4).
			WithRuns(1).
			WithFragmentThreshold(2).
			Build("first-fit")

		run(e)

		Expect(collector.steps[0].Failed).To(BeFalse())
		Expect(collector.steps[1].Failed).To(BeTrue())
		Expect(collector.steps[1].Offset).To(Equal(-1))

		total := e.Result().Total
		Expect(total.Failures).To(Equal(uint64(3)))
		Expect(total.FailureRate()).To(Equal(0.75))
		Expect(total.AverageProbes()).To(Equal(0.25))
		Expect(total.AverageFragments()).To(Equal(1.0))
		Expect(total.Utilization()).To(Equal(0.6))
	})

	It("should keep the store between runs by default", func() {
		e := builder.
			WithCapacity(5).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 3, Duration: 5})).
			WithStepsPerRun(1).
			WithRuns(2).
			Build("first-fit")

		run(e)

		Expect(collector.steps[0].Failed).To(BeFalse())
		Expect(collector.steps[1].Failed).To(BeTrue())
	})

	It("should clear the store between runs if asked", func() {
		e := builder.
			WithCapacity(5).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 3, Duration: 5})).
			WithStepsPerRun(1).
			WithRuns(2).
			WithClearBetweenRuns().
			Build("first-fit")

		run(e)

		Expect(collector.steps[0].Failed).To(BeFalse())
		Expect(collector.steps[1].Failed).To(BeFalse())
	})

	It("should start from an empty store", func() {
		store, err := partition.NewStore(5)
		Expect(err).NotTo(HaveOccurred())

		_, err = store.Allocate(partition.FirstFit, 5, 100)
		Expect(err).NotTo(HaveOccurred())

		e := builder.
			WithStore(store).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 2, Duration: 1})).
			WithStepsPerRun(1).
			WithRuns(1).
			Build("first-fit")

		run(e)

		Expect(collector.steps[0].Failed).To(BeFalse())
		Expect(e.Store()).To(BeIdenticalTo(store))
	})

	It("should report metrics", func() {
		scope := tally.NewTestScope("", nil)

		e := builder.
			WithCapacity(5).
			WithStrategy(partition.BestFit).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 3, Duration: 5})).
			WithStepsPerRun(4).
			WithRuns(1).
			WithMetricsScope(scope).
			Build("best-fit")

		run(e)

		counters := map[string]int64{}
		for _, c := range scope.Snapshot().Counters() {
			Expect(c.Tags()).To(HaveKeyWithValue("strategy", "best-fit"))
			counters[c.Name()] = c.Value()
		}

		Expect(counters).To(HaveKeyWithValue("allocation_successes", int64(1)))
		Expect(counters).To(HaveKeyWithValue("allocation_failures", int64(3)))
	})

	It("should advance the progress bar", func() {
		bar := monitoring.NewMonitor().CreateProgressBar("First Fit", 6)

		e := builder.
			WithCapacity(10).
			WithSource(workload.NewScriptedSource(
				workload.Request{Size: 4, Duration: 2})).
			WithStepsPerRun(3).
			WithRuns(2).
			WithProgressBar(bar).
			Build("first-fit")

		run(e)

		Expect(bar.Fraction()).To(Equal(1.0))
	})

	It("should interleave experiments on one engine", func() {
		source := func() workload.Source {
			return workload.NewScriptedSource(
				workload.Request{Size: 4, Duration: 2},
				workload.Request{Size: 1, Duration: 3})
		}

		first := builder.WithCapacity(10).WithSource(source()).
			WithStepsPerRun(5).WithRuns(1).Build("first-fit")
		best := builder.WithCapacity(10).WithSource(source()).
			WithStrategy(partition.BestFit).
			WithStepsPerRun(5).WithRuns(1).Build("best-fit")

		first.AcceptHook(collector)
		best.AcceptHook(collector)
		first.TickLater()
		best.TickLater()

		Expect(engine.Run()).To(Succeed())

		Expect(collector.steps).To(HaveLen(10))
		Expect(collector.steps[0].Strategy).To(Equal(partition.FirstFit))
		Expect(collector.steps[1].Strategy).To(Equal(partition.BestFit))
		Expect(first.Result().Total.Steps).To(Equal(uint64(5)))
		Expect(best.Result().Total.Steps).To(Equal(uint64(5)))
	})
})
