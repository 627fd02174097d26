package partition

// FragmentCount counts the free runs that are no longer than threshold units.
// A run that extends to the end of the store is counted like any other run.
func (s *Store) FragmentCount(threshold int) int {
	s.mustBeAlive()

	count := 0
	runLength := 0

	for _, u := range s.units {
		if u == 0 {
			runLength++
			continue
		}

		if runLength > 0 && runLength <= threshold {
			count++
		}

		runLength = 0
	}

	if runLength > 0 && runLength <= threshold {
		count++
	}

	return count
}
