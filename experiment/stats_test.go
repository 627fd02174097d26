package experiment

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Stats", func() {
	It("should report zeros when empty", func() {
		s := Stats{}

		Expect(s.AverageProbes()).To(BeZero())
		Expect(s.ProbesPerSuccess()).To(BeZero())
		Expect(s.FailureRate()).To(BeZero())
		Expect(s.AverageFragments()).To(BeZero())
		Expect(s.Utilization()).To(BeZero())
	})

	It("should count failed steps with zero probes", func() {
		s := Stats{}
		s.AddSample(StepSample{Probes: 3, Fragments: 2, Occupied: 5,
			Capacity: 10})
		s.AddSample(StepSample{Failed: true, Probes: 7, Fragments: 4,
			Occupied: 5, Capacity: 10})

		Expect(s.Steps).To(Equal(uint64(2)))
		Expect(s.Successes).To(Equal(uint64(1)))
		Expect(s.Failures).To(Equal(uint64(1)))
		Expect(s.AverageProbes()).To(Equal(1.5))
		Expect(s.ProbesPerSuccess()).To(Equal(3.0))
		Expect(s.FailureRate()).To(Equal(0.5))
		Expect(s.AverageFragments()).To(Equal(3.0))
		Expect(s.Utilization()).To(Equal(0.5))
	})

	It("should merge", func() {
		a := Stats{Steps: 2, Successes: 1, Failures: 1, Probes: 4,
			Fragments: 1, OccupiedUnits: 6, UnitSteps: 20}
		b := Stats{Steps: 3, Successes: 3, Probes: 5, Fragments: 2,
			OccupiedUnits: 9, UnitSteps: 30}

		a.Merge(b)

		Expect(a).To(Equal(Stats{Steps: 5, Successes: 4, Failures: 1,
			Probes: 9, Fragments: 3, OccupiedUnits: 15, UnitSteps: 50}))
	})
})
