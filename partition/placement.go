package partition

import "log"

// placer searches the store for a place to put size units. It returns the
// start offset, the number of free runs probed, and whether a place is found.
// A placer never modifies the store.
type placer func(s *Store, size int) (offset, probes int, found bool)

var placers = map[Strategy]placer{
	FirstFit: (*Store).searchFirstFit,
	NextFit:  (*Store).searchNextFit,
	BestFit:  (*Store).searchBestFit,
}

// Allocate places a request of size units that stays for duration time units.
// On success, it returns the number of free runs probed before the placement
// was decided, and the cursor moves to the start of the new allocation. If no
// region is large enough, it returns ErrAllocationFailed and the store is not
// changed.
func (s *Store) Allocate(
	strategy Strategy,
	size int,
	duration Duration,
) (int, error) {
	s.mustBeAlive()

	if size < 1 {
		log.Panicf("partition: cannot allocate %d units", size)
	}

	if duration == 0 {
		log.Panic("partition: cannot allocate with a zero duration")
	}

	search, ok := placers[strategy]
	if !ok {
		log.Panicf("partition: unknown strategy %d", int(strategy))
	}

	if size > len(s.units) {
		return 0, ErrAllocationFailed
	}

	offset, probes, found := search(s, size)
	if !found {
		return 0, ErrAllocationFailed
	}

	s.assign(offset, size, duration)

	return probes, nil
}

func (s *Store) assign(offset, size int, duration Duration) {
	for i := offset; i < offset+size; i++ {
		s.units[i] = duration
	}

	s.cursor = offset
}

func (s *Store) searchFirstFit(size int) (int, int, bool) {
	return s.searchFrom(0, size)
}

func (s *Store) searchNextFit(size int) (int, int, bool) {
	return s.searchFrom(s.cursor, size)
}

// searchFrom visits every unit once, starting from the given offset and
// wrapping around the end of the store. Each unit that begins a free run is a
// probe. The unit at the starting offset always begins a probe, and so does
// offset 0 after wrapping, since free runs never wrap.
func (s *Store) searchFrom(start, size int) (int, int, bool) {
	n := len(s.units)
	probes := 0
	inRun := false

	for i := 0; i < n; i++ {
		pos := (start + i) % n
		if pos == 0 {
			inRun = false
		}

		if s.units[pos] != 0 {
			inRun = false
			continue
		}

		if inRun {
			continue
		}

		inRun = true
		probes++

		if s.HasRoom(size, pos) {
			return pos, probes, true
		}
	}

	return 0, probes, false
}

// searchBestFit probes every free run in the store and picks the smallest one
// that can hold the request. The lowest offset wins a tie.
func (s *Store) searchBestFit(size int) (int, int, bool) {
	probes := 0
	bestOffset := -1
	bestLength := 0

	for pos := 0; pos < len(s.units); {
		if s.units[pos] != 0 {
			pos++
			continue
		}

		length := s.FreeRunLength(pos)
		probes++

		if length >= size && (bestOffset < 0 || length < bestLength) {
			bestOffset = pos
			bestLength = length
		}

		pos += length
	}

	if bestOffset < 0 {
		return 0, probes, false
	}

	return bestOffset, probes, true
}
