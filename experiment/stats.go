package experiment

// Stats accumulates the outcome of simulated time steps.
type Stats struct {
	Steps     uint64
	Successes uint64
	Failures  uint64
	Probes    uint64
	Fragments uint64

	// OccupiedUnits sums the number of occupied units seen at the end of
	// every step. UnitSteps sums the store capacity over the same steps.
	OccupiedUnits uint64
	UnitSteps     uint64
}

// AddSample accounts for one step.
func (s *Stats) AddSample(sample StepSample) {
	s.Steps++

	if sample.Failed {
		s.Failures++
	} else {
		s.Successes++
		s.Probes += uint64(sample.Probes)
	}

	s.Fragments += uint64(sample.Fragments)
	s.OccupiedUnits += uint64(sample.Occupied)
	s.UnitSteps += uint64(sample.Capacity)
}

// Merge adds the counts of another Stats.
func (s *Stats) Merge(o Stats) {
	s.Steps += o.Steps
	s.Successes += o.Successes
	s.Failures += o.Failures
	s.Probes += o.Probes
	s.Fragments += o.Fragments
	s.OccupiedUnits += o.OccupiedUnits
	s.UnitSteps += o.UnitSteps
}

func ratio(a, b uint64) float64 {
	if b == 0 {
		return 0
	}

	return float64(a) / float64(b)
}

// AverageProbes is the number of probes per step. Failed steps count as
// zero probes.
func (s Stats) AverageProbes() float64 {
	return ratio(s.Probes, s.Steps)
}

// ProbesPerSuccess is the number of probes per successful allocation.
func (s Stats) ProbesPerSuccess() float64 {
	return ratio(s.Probes, s.Successes)
}

// FailureRate is the fraction of steps whose allocation failed.
func (s Stats) FailureRate() float64 {
	return ratio(s.Failures, s.Steps)
}

// AverageFragments is the number of fragments per step.
func (s Stats) AverageFragments() float64 {
	return ratio(s.Fragments, s.Steps)
}

// Utilization is the fraction of units occupied, averaged over the steps.
func (s Stats) Utilization() float64 {
	return ratio(s.OccupiedUnits, s.UnitSteps)
}
