// Package partition simulates a fixed-size pool of memory units that is
// dynamically partitioned among timed allocation requests.
package partition

import (
	"log"

	"github.com/pkg/errors"
)

// Duration is the number of time units that an allocated unit stays
// occupied. A unit holding 0 is free.
type Duration uint32

// ErrInvalidCapacity is returned when a store is created with a non-positive
// number of units.
var ErrInvalidCapacity = errors.New("partition: capacity must be positive")

// ErrAllocationFailed reports that no free region large enough for a request
// could be found with the given strategy. It is an expected outcome, not a
// fault.
var ErrAllocationFailed = errors.New("partition: allocation failed")

// A Store is a linear sequence of units. Each unit records how many more
// time units it stays allocated.
//
// A Store is not safe for concurrent use.
type Store struct {
	units  []Duration
	cursor int
}

// NewStore creates a store with the given number of units, all free.
func NewStore(capacity int) (*Store, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}

	s := &Store{
		units: make([]Duration, capacity),
	}

	return s, nil
}

// Capacity returns the number of units in the store.
func (s *Store) Capacity() int {
	s.mustBeAlive()
	return len(s.units)
}

// Cursor returns the start offset of the last successful placement.
func (s *Store) Cursor() int {
	s.mustBeAlive()
	return s.cursor
}

// Unit returns the remaining duration of the unit at the given offset.
func (s *Store) Unit(offset int) Duration {
	s.mustBeAlive()
	return s.units[offset]
}

// Snapshot returns a copy of all the units.
func (s *Store) Snapshot() []Duration {
	s.mustBeAlive()

	snapshot := make([]Duration, len(s.units))
	copy(snapshot, s.units)

	return snapshot
}

// Occupied returns the number of allocated units.
func (s *Store) Occupied() int {
	s.mustBeAlive()

	count := 0
	for _, u := range s.units {
		if u != 0 {
			count++
		}
	}

	return count
}

// Clear frees all the units and resets the cursor. The capacity does not
// change.
func (s *Store) Clear() {
	s.mustBeAlive()

	for i := range s.units {
		s.units[i] = 0
	}

	s.cursor = 0
}

// Release drops the backing storage. The store cannot be used afterwards.
func (s *Store) Release() {
	s.mustBeAlive()
	s.units = nil
	s.cursor = 0
}

func (s *Store) mustBeAlive() {
	if s.units == nil {
		log.Panic("partition: store used after release")
	}
}
