// Package workload generates the allocation requests fed to a partition
// store.
package workload

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/sarchlab/partsim/partition"
)

// A Request asks for Size contiguous units for Duration time steps.
type Request struct {
	Size     int
	Duration partition.Duration
}

func (r Request) String() string {
	return fmt.Sprintf("%d units for %d steps", r.Size, r.Duration)
}

// Bounds limits the size and the duration of generated requests. All the
// limits are inclusive.
type Bounds struct {
	MinSize     int
	MaxSize     int
	MinDuration partition.Duration
	MaxDuration partition.Duration
}

// DefaultBounds returns the bounds used when none are configured.
func DefaultBounds() Bounds {
	return Bounds{
		MinSize:     3,
		MaxSize:     100,
		MinDuration: 3,
		MaxDuration: 25,
	}
}

// Validate checks that the bounds describe a non-empty range of valid
// requests.
func (b Bounds) Validate() error {
	if b.MinSize < 1 {
		return errors.Errorf("workload: min size %d is less than 1", b.MinSize)
	}

	if b.MaxSize < b.MinSize {
		return errors.Errorf("workload: max size %d is less than min size %d",
			b.MaxSize, b.MinSize)
	}

	if b.MinDuration < 1 {
		return errors.Errorf("workload: min duration %d is less than 1",
			b.MinDuration)
	}

	if b.MaxDuration < b.MinDuration {
		return errors.Errorf(
			"workload: max duration %d is less than min duration %d",
			b.MaxDuration, b.MinDuration)
	}

	return nil
}

// Contains tells if a request is within the bounds.
func (b Bounds) Contains(r Request) bool {
	return r.Size >= b.MinSize && r.Size <= b.MaxSize &&
		r.Duration >= b.MinDuration && r.Duration <= b.MaxDuration
}

// A Source produces requests, one per call.
type Source interface {
	Next() Request
}
