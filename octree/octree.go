// Package octree implements an adaptive octree that indexes arbitrary payloads by a 3D position.
//
// The tree starts as a single cubic root. Leaves split into eight octants once they hold more
// than eight elements, unless the octants would fall below the minimum node size. Points
// inserted outside the root make the root grow by doubling toward them. Once built, a tree is
// safe for concurrent queries; inserts must not overlap with anything else.
package octree

import (
	"math"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/pointindex/logging"
	"go.viam.com/pointindex/spatialmath"
	"go.viam.com/pointindex/utils"
)

const (
	maxLeafElements   = 8
	maxGrowthAttempts = 20
)

var (
	// ErrGrowthExhausted is returned when the root could not be grown to contain an inserted point.
	ErrGrowthExhausted = errors.New("octree growth failed")
	// ErrMinNodeSizeTooLarge is returned when the minimum node size exceeds the initial world size.
	ErrMinNodeSizeTooLarge = errors.New("minimum node size is larger than the world size")
	// ErrInvalidSize is returned for a world or node size that is not a finite positive number.
	ErrInvalidSize = errors.New("octree sizes must be finite and positive")
	// ErrInvalidDistance is returned for a negative or NaN query distance.
	ErrInvalidDistance = errors.New("query distance must be a non-negative number")
)

// Octree indexes payloads of type T by position.
type Octree[T any] struct {
	logger      golog.Logger
	root        *node[T]
	minNodeSize float64
}

// New creates an empty octree whose root is a cube of side worldSize centered at worldCenter.
// Nodes are never split into octants smaller than minNodeSize.
func New[T any](worldSize float64, worldCenter r3.Vector, minNodeSize float64, logger golog.Logger) (*Octree[T], error) {
	if !isPositiveFinite(worldSize) {
		return nil, errors.Wrapf(ErrInvalidSize, "world size %v", worldSize)
	}
	if !isPositiveFinite(minNodeSize) {
		return nil, errors.Wrapf(ErrInvalidSize, "minimum node size %v", minNodeSize)
	}
	if minNodeSize > worldSize {
		return nil, errors.Wrapf(ErrMinNodeSizeTooLarge, "%v > %v", minNodeSize, worldSize)
	}
	if logger == nil {
		logger = logging.NewBlankLogger("octree")
	}
	return &Octree[T]{
		logger:      logger,
		root:        newNode[T](worldCenter, worldSize, minNodeSize),
		minNodeSize: minNodeSize,
	}, nil
}

// Insert stores payload at p, growing the root toward p while p lies outside it. If the root
// still does not contain p after the maximum number of growth attempts the tree is left as it
// was and ErrGrowthExhausted is returned.
func (o *Octree[T]) Insert(payload T, p r3.Vector) error {
	if o.root.insert(payload, p) {
		return nil
	}

	prev := o.root
	for attempt := 1; attempt <= maxGrowthAttempts; attempt++ {
		o.grow(p.Sub(o.root.center))
		if o.root.insert(payload, p) {
			return nil
		}
	}
	o.root = prev
	return errors.Wrapf(ErrGrowthExhausted, "point %v still outside %v after %d attempts", p, prev.bounds, maxGrowthAttempts)
}

// grow replaces the root with one of twice the side length, extended toward direction. The old
// root becomes the child occupying its own octant of the new root.
func (o *Octree[T]) grow(direction r3.Vector) {
	old := o.root
	half := old.sideLength / 2
	sign := r3.Vector{X: growthSign(direction.X), Y: growthSign(direction.Y), Z: growthSign(direction.Z)}

	root := newNode[T](old.center.Add(sign.Mul(half)), old.sideLength*2, o.minNodeSize)
	root.children = &[8]*node[T]{}
	root.children[childIndex(root.center, old.center)] = old
	root.size = old.size
	o.root = root

	o.logger.Debugw("grew octree root", "center", root.center, "side", root.sideLength, "size", root.size)
}

func growthSign(v float64) float64 {
	if v >= 0 {
		return 1
	}
	return -1
}

// RadiusQuery returns the payloads of every element within radius of p, inclusive.
func (o *Octree[T]) RadiusQuery(p r3.Vector, radius float64) ([]T, error) {
	if math.IsNaN(radius) || radius < 0 {
		return nil, errors.Wrapf(ErrInvalidDistance, "radius %v", radius)
	}
	return o.root.radiusQuery(p, utils.Square(radius), nil), nil
}

// RayQuery returns the payloads of every element whose perpendicular distance to the ray is at
// most distance. Only nodes overlapping the ray segment grown by distance are searched, while
// elements in those nodes are tested against the ray's infinite supporting line. Every element
// near the segment itself is returned; elements near the line but past either end of the segment
// may or may not be returned, depending on how the tree has split.
func (o *Octree[T]) RayQuery(ray spatialmath.Ray, distance float64) ([]T, error) {
	if !ray.IsValid() {
		return nil, errors.Wrapf(spatialmath.ErrDegenerateRay, "ray %+v", ray)
	}
	if math.IsNaN(distance) || distance < 0 {
		return nil, errors.Wrapf(ErrInvalidDistance, "distance %v", distance)
	}
	return o.root.rayQuery(ray.Bounds(distance*2), ray, utils.Square(distance), nil), nil
}

// Iterate calls fn for every stored element until fn returns false.
func (o *Octree[T]) Iterate(fn func(payload T, p r3.Vector) bool) {
	o.root.iterate(fn)
}

// Size returns the number of stored elements.
func (o *Octree[T]) Size() int {
	return o.root.size
}

// Bounds returns the bounds of the root node.
func (o *Octree[T]) Bounds() spatialmath.Bounds {
	return o.root.bounds
}

// MinNodeSize returns the smallest side length a node may be split into.
func (o *Octree[T]) MinNodeSize() float64 {
	return o.minNodeSize
}

// Depth returns the number of levels from the root to the deepest leaf, counting both.
func (o *Octree[T]) Depth() int {
	return o.root.depth()
}

func isPositiveFinite(v float64) bool {
	return v > 0 && utils.IsFinite(v)
}
