package octree

import (
	"github.com/golang/geo/r3"

	"go.viam.com/pointindex/spatialmath"
)

// element is a payload stored alongside the position it was inserted at.
type element[T any] struct {
	payload T
	p       r3.Vector
}

// node is a cubic region of the tree. A leaf keeps its elements directly; an internal node keeps
// none and owns up to eight children, one per octant. Child slots that were never touched are nil.
type node[T any] struct {
	center      r3.Vector
	sideLength  float64
	bounds      spatialmath.Bounds
	minNodeSize float64

	// size counts every element stored at or below this node.
	size     int
	elements []element[T]
	children *[8]*node[T]
}

func newNode[T any](center r3.Vector, sideLength, minNodeSize float64) *node[T] {
	return &node[T]{
		center:      center,
		sideLength:  sideLength,
		bounds:      spatialmath.NewCubeBounds(center, sideLength),
		minNodeSize: minNodeSize,
	}
}

func (n *node[T]) isLeaf() bool {
	return n.children == nil
}

// insert stores the payload if p falls inside the node and reports whether it did.
func (n *node[T]) insert(payload T, p r3.Vector) bool {
	if !n.bounds.Contains(p) {
		return false
	}
	n.add(element[T]{payload: payload, p: p})
	return true
}

// add places e in the deepest node that can hold it. The caller guarantees e is inside the node.
func (n *node[T]) add(e element[T]) {
	n.size++

	if n.isLeaf() {
		if len(n.elements) < maxLeafElements || n.sideLength/2 < n.minNodeSize {
			n.elements = append(n.elements, e)
			return
		}
		n.split()
	}
	n.child(childIndex(n.center, e.p)).add(e)
}

// split turns a full leaf into an internal node with eight children and moves its elements down.
func (n *node[T]) split() {
	var children [8]*node[T]
	for i := range children {
		children[i] = newNode[T](childCenter(n.center, n.sideLength, i), n.sideLength/2, n.minNodeSize)
	}
	n.children = &children

	for _, e := range n.elements {
		n.children[childIndex(n.center, e.p)].add(e)
	}
	n.elements = nil
}

// child returns the child in slot i, creating an empty leaf there if the slot is unused.
func (n *node[T]) child(i int) *node[T] {
	if n.children[i] == nil {
		n.children[i] = newNode[T](childCenter(n.center, n.sideLength, i), n.sideLength/2, n.minNodeSize)
	}
	return n.children[i]
}

// childIndex returns the octant of center that p belongs to. Ties on X and Z go to the low
// octant while ties on Y go to the high one.
func childIndex(center, p r3.Vector) int {
	i := 0
	if p.X > center.X {
		i++
	}
	if p.Y < center.Y {
		i += 4
	}
	if p.Z > center.Z {
		i += 2
	}
	return i
}

// childCenter returns the center of octant i of a node at center with the given side length.
func childCenter(center r3.Vector, sideLength float64, i int) r3.Vector {
	quarter := sideLength / 4
	offset := r3.Vector{X: -quarter, Y: quarter, Z: -quarter}
	if i&1 != 0 {
		offset.X = quarter
	}
	if i&4 != 0 {
		offset.Y = -quarter
	}
	if i&2 != 0 {
		offset.Z = quarter
	}
	return center.Add(offset)
}

func (n *node[T]) radiusQuery(center r3.Vector, sqRadius float64, results []T) []T {
	if n.size == 0 || n.bounds.SquaredDistanceTo(center) > sqRadius {
		return results
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			if c != nil {
				results = c.radiusQuery(center, sqRadius, results)
			}
		}
		return results
	}
	for _, e := range n.elements {
		if e.p.Sub(center).Norm2() <= sqRadius {
			results = append(results, e.payload)
		}
	}
	return results
}

func (n *node[T]) rayQuery(area spatialmath.Bounds, ray spatialmath.Ray, sqDistance float64, results []T) []T {
	if n.size == 0 || !area.Intersects(n.bounds) {
		return results
	}
	if !n.isLeaf() {
		for _, c := range n.children {
			if c != nil {
				results = c.rayQuery(area, ray, sqDistance, results)
			}
		}
		return results
	}
	for _, e := range n.elements {
		if ray.SquaredDistanceTo(e.p) <= sqDistance {
			results = append(results, e.payload)
		}
	}
	return results
}

// iterate calls fn for every element below the node until fn returns false.
func (n *node[T]) iterate(fn func(payload T, p r3.Vector) bool) bool {
	if n.isLeaf() {
		for _, e := range n.elements {
			if !fn(e.payload, e.p) {
				return false
			}
		}
		return true
	}
	for _, c := range n.children {
		if c != nil && !c.iterate(fn) {
			return false
		}
	}
	return true
}

func (n *node[T]) depth() int {
	if n.isLeaf() {
		return 1
	}
	deepest := 0
	for _, c := range n.children {
		if c == nil {
			continue
		}
		if d := c.depth(); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
