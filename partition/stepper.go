package partition

// Tick advances the simulated time by one unit. Every allocated unit has its
// remaining duration reduced by one, and a unit that reaches 0 is free
// immediately. Free units are left unchanged.
func (s *Store) Tick() {
	s.mustBeAlive()

	for i, u := range s.units {
		if u != 0 {
			s.units[i] = u - 1
		}
	}
}
