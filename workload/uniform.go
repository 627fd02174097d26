package workload

import (
	"log"
	"math/rand"

	"github.com/sarchlab/partsim/partition"
)

// UniformSource draws sizes and durations uniformly from its bounds. Two
// sources with the same bounds and seed produce the same requests.
type UniformSource struct {
	bounds Bounds
	rng    *rand.Rand
}

// NewUniformSource creates a UniformSource. It panics if the bounds are
// invalid.
func NewUniformSource(bounds Bounds, seed int64) *UniformSource {
	err := bounds.Validate()
	if err != nil {
		log.Panic(err)
	}

	return &UniformSource{
		bounds: bounds,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Bounds returns the bounds of the source.
func (s *UniformSource) Bounds() Bounds {
	return s.bounds
}

// Next draws a request.
func (s *UniformSource) Next() Request {
	size := s.bounds.MinSize +
		s.rng.Intn(s.bounds.MaxSize-s.bounds.MinSize+1)

	durationRange := int64(s.bounds.MaxDuration-s.bounds.MinDuration) + 1
	duration := s.bounds.MinDuration +
		partition.Duration(s.rng.Int63n(durationRange))

	return Request{Size: size, Duration: duration}
}
