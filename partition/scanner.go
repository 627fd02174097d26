package partition

// HasRoom returns true if the size units starting at start all exist and are
// all free. A region reaching past the end of the store has no room.
func (s *Store) HasRoom(size, start int) bool {
	s.mustBeAlive()

	if start < 0 || size < 0 || start+size > len(s.units) {
		return false
	}

	for i := start; i < start+size; i++ {
		if s.units[i] != 0 {
			return false
		}
	}

	return true
}

// FreeRunLength returns the number of consecutive free units beginning at
// start. The run stops at the first occupied unit or at the end of the store.
func (s *Store) FreeRunLength(start int) int {
	s.mustBeAlive()

	count := 0
	for i := start; i >= 0 && i < len(s.units) && s.units[i] == 0; i++ {
		count++
	}

	return count
}

// A FreeRun is a maximal sequence of contiguous free units.
type FreeRun struct {
	Offset int
	Length int
}

// FreeRuns lists all the free runs from the lowest offset to the highest.
func (s *Store) FreeRuns() []FreeRun {
	s.mustBeAlive()

	runs := []FreeRun{}
	for i := 0; i < len(s.units); {
		if s.units[i] != 0 {
			i++
			continue
		}

		length := s.FreeRunLength(i)
		runs = append(runs, FreeRun{Offset: i, Length: length})
		i += length
	}

	return runs
}
