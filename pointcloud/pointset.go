// Package pointcloud defines PointSet, an immutable set of 3D points indexed by an octree for
// radius and ray proximity queries, along with random sub-sampling and per-point statistics.
package pointcloud

import (
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pointindex/logging"
	"go.viam.com/pointindex/octree"
	"go.viam.com/pointindex/spatialmath"
)

// defaultWorldSize is the root size used when the points do not span any volume.
const defaultWorldSize = 1.0

// minNodeSizeDivisor sets the smallest octree node relative to the size of the cloud.
const minNodeSizeDivisor = 100

var (
	// ErrNilIndices is returned when a nil index list is resolved.
	ErrNilIndices = errors.New("indices must not be nil")
	// ErrIndexOutOfRange is returned when an index does not refer to a point of the set.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// PointSet is an ordered list of positions, optionally with a normal per position. The index of a
// position is its identity. A PointSet never changes once created and may be queried concurrently.
type PointSet struct {
	positions []r3.Vector
	normals   []r3.Vector
	bounds    spatialmath.Bounds
	index     *octree.Octree[int]
	logger    golog.Logger
}

type options struct {
	normals []r3.Vector
	bounds  *spatialmath.Bounds
	logger  golog.Logger
}

// Option configures the construction of a PointSet.
type Option func(*options)

// WithNormals attaches one normal per position. Normals whose count differs from the number of
// positions are dropped with a warning.
func WithNormals(normals []r3.Vector) Option {
	return func(o *options) {
		o.normals = normals
	}
}

// WithBounds uses the given bounds instead of computing them from the positions.
func WithBounds(bounds spatialmath.Bounds) Option {
	return func(o *options) {
		o.bounds = &bounds
	}
}

// WithLogger sets the logger used during construction and by derived sets.
func WithLogger(logger golog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// New builds a PointSet over a copy of positions and indexes every position.
func New(positions []r3.Vector, opts ...Option) (*PointSet, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewBlankLogger("pointcloud")
	}

	ps := &PointSet{
		positions: append([]r3.Vector{}, positions...),
		logger:    o.logger,
	}
	if o.normals != nil {
		if len(o.normals) == len(positions) {
			ps.normals = append([]r3.Vector{}, o.normals...)
		} else {
			ps.logger.Warnw("normals do not match positions, ignoring normals",
				"positions", len(positions), "normals", len(o.normals))
		}
	}
	if o.bounds != nil {
		ps.bounds = *o.bounds
	} else {
		ps.bounds = spatialmath.NewBoundsFromPoints(ps.positions)
	}

	worldSize := ps.bounds.DiagonalLength()
	if worldSize == 0 {
		worldSize = defaultWorldSize
	}
	index, err := octree.New[int](worldSize, ps.bounds.Center, worldSize/minNodeSizeDivisor, ps.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot index points within %v", ps.bounds)
	}
	for i, p := range ps.positions {
		if err := index.Insert(i, p); err != nil {
			return nil, errors.Wrapf(err, "cannot index point %d", i)
		}
	}
	ps.index = index
	return ps, nil
}

// QueryIndicesByRadius returns the indices of all points within radius of center, inclusive.
func (ps *PointSet) QueryIndicesByRadius(center r3.Vector, radius float64) ([]int, error) {
	return ps.index.RadiusQuery(center, radius)
}

// QueryIndicesByRay returns the indices of all points within distance of the ray.
func (ps *PointSet) QueryIndicesByRay(ray spatialmath.Ray, distance float64) ([]int, error) {
	return ps.index.RayQuery(ray, distance)
}

// ResolveIndices returns the positions for the given indices, in the same order.
func (ps *PointSet) ResolveIndices(indices []int) ([]r3.Vector, error) {
	if indices == nil {
		return nil, ErrNilIndices
	}
	out := make([]r3.Vector, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(ps.positions) {
			return nil, errors.Wrapf(ErrIndexOutOfRange, "index %d for %d points", i, len(ps.positions))
		}
		out = append(out, ps.positions[i])
	}
	return out, nil
}

// PointsByRadius returns the positions of all points within radius of center.
func (ps *PointSet) PointsByRadius(center r3.Vector, radius float64) ([]r3.Vector, error) {
	indices, err := ps.QueryIndicesByRadius(center, radius)
	if err != nil {
		return nil, err
	}
	return ps.gather(indices), nil
}

// PointsByRay returns the positions of all points within distance of the ray.
func (ps *PointSet) PointsByRay(ray spatialmath.Ray, distance float64) ([]r3.Vector, error) {
	indices, err := ps.QueryIndicesByRay(ray, distance)
	if err != nil {
		return nil, err
	}
	return ps.gather(indices), nil
}

// gather resolves indices coming from the index, which are always in range.
func (ps *PointSet) gather(indices []int) []r3.Vector {
	out := make([]r3.Vector, len(indices))
	for i, idx := range indices {
		out[i] = ps.positions[idx]
	}
	return out
}

// Size returns the number of points.
func (ps *PointSet) Size() int {
	return len(ps.positions)
}

// Bounds returns the bounds the set was built with.
func (ps *PointSet) Bounds() spatialmath.Bounds {
	return ps.bounds
}

// Positions returns a copy of the positions.
func (ps *PointSet) Positions() []r3.Vector {
	return append([]r3.Vector{}, ps.positions...)
}

// Normals returns a copy of the normals, or nil if the set has none.
func (ps *PointSet) Normals() []r3.Vector {
	if ps.normals == nil {
		return nil
	}
	return append([]r3.Vector{}, ps.normals...)
}

// HasNormals reports whether every point carries a normal.
func (ps *PointSet) HasNormals() bool {
	return ps.normals != nil
}

// Index returns the octree holding the point indices. It must not be modified.
func (ps *PointSet) Index() *octree.Octree[int] {
	return ps.index
}
