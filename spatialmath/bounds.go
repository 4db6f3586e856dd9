package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Bounds is an axis aligned box described by its center point and its full size along each axis.
// Containment and intersection tests are inclusive of the box faces.
type Bounds struct {
	Center r3.Vector
	Size   r3.Vector
}

// NewBounds returns the bounds with the given center and full size. Negative size components are
// taken by magnitude.
func NewBounds(center, size r3.Vector) Bounds {
	return Bounds{Center: center, Size: size.Abs()}
}

// NewCubeBounds returns a cube centered at center with the given side length.
func NewCubeBounds(center r3.Vector, sideLength float64) Bounds {
	return NewBounds(center, r3.Vector{X: sideLength, Y: sideLength, Z: sideLength})
}

// NewBoundsFromMinMax returns the smallest bounds spanning min and max.
func NewBoundsFromMinMax(minPt, maxPt r3.Vector) Bounds {
	return NewBounds(minPt.Add(maxPt).Mul(0.5), maxPt.Sub(minPt))
}

// NewBoundsFromPoints returns the smallest bounds containing every given point. An empty input
// yields zero sized bounds at the origin.
func NewBoundsFromPoints(points []r3.Vector) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	minPt, maxPt := points[0], points[0]
	for _, p := range points[1:] {
		minPt = r3.Vector{X: math.Min(minPt.X, p.X), Y: math.Min(minPt.Y, p.Y), Z: math.Min(minPt.Z, p.Z)}
		maxPt = r3.Vector{X: math.Max(maxPt.X, p.X), Y: math.Max(maxPt.Y, p.Y), Z: math.Max(maxPt.Z, p.Z)}
	}
	return NewBoundsFromMinMax(minPt, maxPt)
}

// Extents returns half of the size.
func (b Bounds) Extents() r3.Vector {
	return b.Size.Mul(0.5)
}

// Min returns the minimal corner of the bounds.
func (b Bounds) Min() r3.Vector {
	return b.Center.Sub(b.Extents())
}

// Max returns the maximal corner of the bounds.
func (b Bounds) Max() r3.Vector {
	return b.Center.Add(b.Extents())
}

// Contains reports whether p lies inside the bounds or on their surface.
func (b Bounds) Contains(p r3.Vector) bool {
	minPt, maxPt := b.Min(), b.Max()
	return p.X >= minPt.X && p.X <= maxPt.X &&
		p.Y >= minPt.Y && p.Y <= maxPt.Y &&
		p.Z >= minPt.Z && p.Z <= maxPt.Z
}

// ClosestPoint returns the point of the bounds closest to p. Points inside the bounds are returned as is.
func (b Bounds) ClosestPoint(p r3.Vector) r3.Vector {
	minPt, maxPt := b.Min(), b.Max()
	return r3.Vector{
		X: clamp(p.X, minPt.X, maxPt.X),
		Y: clamp(p.Y, minPt.Y, maxPt.Y),
		Z: clamp(p.Z, minPt.Z, maxPt.Z),
	}
}

// SquaredDistanceTo returns the squared distance between p and the closest point of the bounds.
func (b Bounds) SquaredDistanceTo(p r3.Vector) float64 {
	return b.ClosestPoint(p).Sub(p).Norm2()
}

// Intersects reports whether the two bounds overlap or touch.
func (b Bounds) Intersects(other Bounds) bool {
	minA, maxA := b.Min(), b.Max()
	minB, maxB := other.Min(), other.Max()
	return minA.X <= maxB.X && maxA.X >= minB.X &&
		minA.Y <= maxB.Y && maxA.Y >= minB.Y &&
		minA.Z <= maxB.Z && maxA.Z >= minB.Z
}

// Expand grows the size of the bounds by amount along every axis, keeping the center.
func (b Bounds) Expand(amount float64) Bounds {
	return Bounds{Center: b.Center, Size: b.Size.Add(r3.Vector{X: amount, Y: amount, Z: amount})}
}

// Encapsulate returns the smallest bounds containing both b and p.
func (b Bounds) Encapsulate(p r3.Vector) Bounds {
	minPt, maxPt := b.Min(), b.Max()
	return NewBoundsFromMinMax(
		r3.Vector{X: math.Min(minPt.X, p.X), Y: math.Min(minPt.Y, p.Y), Z: math.Min(minPt.Z, p.Z)},
		r3.Vector{X: math.Max(maxPt.X, p.X), Y: math.Max(maxPt.Y, p.Y), Z: math.Max(maxPt.Z, p.Z)},
	)
}

// DiagonalLength returns the distance between the minimal and maximal corners.
func (b Bounds) DiagonalLength() float64 {
	return b.Size.Norm()
}

// String returns a human readable string that represents the bounds.
func (b Bounds) String() string {
	return fmt.Sprintf("Bounds | Center: X:%.3f, Y:%.3f, Z:%.3f | Size: X:%.3f, Y:%.3f, Z:%.3f",
		b.Center.X, b.Center.Y, b.Center.Z, b.Size.X, b.Size.Y, b.Size.Z)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
