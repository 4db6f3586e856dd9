package pointcloud

import (
	"math/rand"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

var (
	// ErrSampleTooLarge is returned when more points are requested than the set holds.
	ErrSampleTooLarge = errors.New("sample count exceeds the number of points")
	// ErrNegativeSampleCount is returned for a negative sample count.
	ErrNegativeSampleCount = errors.New("sample count must not be negative")
)

type sampleOptions struct {
	seed   int64
	seeded bool
}

// SampleOption configures how a sample is drawn.
type SampleOption func(*sampleOptions)

// SampleSeed makes the sample deterministic: the same seed over the same set always selects the
// same indices in the same order.
func SampleSeed(seed int64) SampleOption {
	return func(o *sampleOptions) {
		o.seed = seed
		o.seeded = true
	}
}

// RandomSeed returns a seed taken from the current time, used when no seed is given.
func RandomSeed() int64 {
	return time.Now().UnixNano()
}

// SampleIndices selects count distinct indices uniformly at random without replacement.
func (ps *PointSet) SampleIndices(count int, opts ...SampleOption) ([]int, error) {
	if count < 0 {
		return nil, errors.Wrapf(ErrNegativeSampleCount, "got %d", count)
	}
	if count > len(ps.positions) {
		return nil, errors.Wrapf(ErrSampleTooLarge, "%d > %d", count, len(ps.positions))
	}

	o := sampleOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = RandomSeed()
	}
	//nolint:gosec
	rng := rand.New(rand.NewSource(o.seed))

	perm := make([]int, len(ps.positions))
	for i := range perm {
		perm[i] = i
	}
	for n := len(perm) - 1; n > 0; n-- {
		k := rng.Intn(n + 1)
		perm[n], perm[k] = perm[k], perm[n]
	}
	return perm[:count:count], nil
}

// CreateSample builds a new PointSet from count randomly selected points, carrying their normals
// if the set has any. The sample is indexed from scratch at its own scale.
func (ps *PointSet) CreateSample(count int, opts ...SampleOption) (*PointSet, error) {
	indices, err := ps.SampleIndices(count, opts...)
	if err != nil {
		return nil, err
	}
	return ps.subset(indices)
}

// subset builds a new PointSet from the points at the given in-range indices.
func (ps *PointSet) subset(indices []int) (*PointSet, error) {
	positions := make([]r3.Vector, len(indices))
	var normals []r3.Vector
	if ps.normals != nil {
		normals = make([]r3.Vector, len(indices))
	}
	for i, idx := range indices {
		positions[i] = ps.positions[idx]
		if normals != nil {
			normals[i] = ps.normals[idx]
		}
	}

	opts := []Option{WithLogger(ps.logger)}
	if normals != nil {
		opts = append(opts, WithNormals(normals))
	}
	return New(positions, opts...)
}
