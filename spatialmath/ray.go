package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// ErrDegenerateRay is returned when a ray is built from a zero or non finite direction.
var ErrDegenerateRay = errors.New("ray direction must be a finite, non-zero vector")

// Ray is a segment starting at Origin and extending Length along the unit vector Direction.
// Proximity to a ray is measured perpendicular to its supporting line, while the segment
// extent bounds the region that is searched.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
	Length    float64
}

// NewRay returns the ray from origin to origin+direction. The direction is normalized and its
// magnitude becomes the ray length, so a unit direction yields a unit length ray.
func NewRay(origin, direction r3.Vector) (Ray, error) {
	length := direction.Norm()
	if length == 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return Ray{}, errors.Wrapf(ErrDegenerateRay, "got %v", direction)
	}
	return Ray{Origin: origin, Direction: direction.Mul(1 / length), Length: length}, nil
}

// IsValid reports whether the ray has a usable direction and length.
func (r Ray) IsValid() bool {
	return r.Length > 0 && !math.IsInf(r.Length, 0) && math.Abs(r.Direction.Norm2()-1) < 1e-9
}

// End returns the point at the far end of the ray segment.
func (r Ray) End() r3.Vector {
	return r.Origin.Add(r.Direction.Mul(r.Length))
}

// SquaredDistanceTo returns the squared perpendicular distance from p to the line supporting the ray.
func (r Ray) SquaredDistanceTo(p r3.Vector) float64 {
	return r.Direction.Cross(p.Sub(r.Origin)).Norm2()
}

// Bounds returns the bounds of the ray segment grown by margin along every axis.
func (r Ray) Bounds(margin float64) Bounds {
	span := r.Direction.Mul(r.Length)
	return NewBounds(r.Origin.Add(span.Mul(0.5)), span).Expand(margin)
}
