package spatialmath

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestBoundsFromPoints(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		b := NewBoundsFromPoints(nil)
		test.That(t, b, test.ShouldResemble, Bounds{})
		test.That(t, b.DiagonalLength(), test.ShouldEqual, 0)
	})

	t.Run("spans all points", func(t *testing.T) {
		pts := []r3.Vector{{X: -1, Y: 2, Z: 0}, {X: 3, Y: -2, Z: 1}, {X: 0, Y: 0, Z: 5}}
		b := NewBoundsFromPoints(pts)
		test.That(t, b.Min(), test.ShouldResemble, r3.Vector{X: -1, Y: -2, Z: 0})
		test.That(t, b.Max(), test.ShouldResemble, r3.Vector{X: 3, Y: 2, Z: 5})
		test.That(t, b.Center, test.ShouldResemble, r3.Vector{X: 1, Y: 0, Z: 2.5})
		for _, p := range pts {
			test.That(t, b.Contains(p), test.ShouldBeTrue)
		}
	})
}

func TestBoundsContains(t *testing.T) {
	b := NewCubeBounds(r3.Vector{}, 2)
	cases := []struct {
		p        r3.Vector
		expected bool
	}{
		{r3.Vector{}, true},
		{r3.Vector{X: 1, Y: 1, Z: 1}, true},
		{r3.Vector{X: -1, Y: -1, Z: -1}, true},
		{r3.Vector{X: 1.0001}, false},
		{r3.Vector{Y: -1.0001}, false},
		{r3.Vector{Z: 3}, false},
	}
	for _, c := range cases {
		test.That(t, b.Contains(c.p), test.ShouldEqual, c.expected)
	}
}

func TestBoundsClosestPoint(t *testing.T) {
	b := NewCubeBounds(r3.Vector{}, 2)
	test.That(t, b.ClosestPoint(r3.Vector{X: 0.5}), test.ShouldResemble, r3.Vector{X: 0.5})
	test.That(t, b.ClosestPoint(r3.Vector{X: 5, Y: -5, Z: 0.2}), test.ShouldResemble, r3.Vector{X: 1, Y: -1, Z: 0.2})
	test.That(t, b.SquaredDistanceTo(r3.Vector{X: 3}), test.ShouldAlmostEqual, 4)
	test.That(t, b.SquaredDistanceTo(r3.Vector{X: 0.3, Y: 0.3}), test.ShouldEqual, 0)
}

func TestBoundsIntersects(t *testing.T) {
	a := NewCubeBounds(r3.Vector{}, 2)
	test.That(t, a.Intersects(NewCubeBounds(r3.Vector{X: 2}, 2)), test.ShouldBeTrue)
	test.That(t, a.Intersects(NewCubeBounds(r3.Vector{X: 2.01}, 2)), test.ShouldBeFalse)
	test.That(t, a.Intersects(NewCubeBounds(r3.Vector{X: 2, Y: 2, Z: 2}, 2)), test.ShouldBeTrue)
	test.That(t, a.Intersects(NewCubeBounds(r3.Vector{}, 0.1)), test.ShouldBeTrue)
}

func TestBoundsExpandAndEncapsulate(t *testing.T) {
	b := NewCubeBounds(r3.Vector{X: 1}, 2).Expand(1)
	test.That(t, b.Size, test.ShouldResemble, r3.Vector{X: 3, Y: 3, Z: 3})
	test.That(t, b.Center, test.ShouldResemble, r3.Vector{X: 1})

	e := NewCubeBounds(r3.Vector{}, 2).Encapsulate(r3.Vector{X: 3})
	test.That(t, e.Min(), test.ShouldResemble, r3.Vector{X: -1, Y: -1, Z: -1})
	test.That(t, e.Max(), test.ShouldResemble, r3.Vector{X: 3, Y: 1, Z: 1})
}
