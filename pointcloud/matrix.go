package pointcloud

import "gonum.org/v1/gonum/mat"

// Matrix returns the points as a row per point: x, y, z followed by the normal's x, y, z when the
// set has normals. It returns nil for an empty set.
func (ps *PointSet) Matrix() *mat.Dense {
	if len(ps.positions) == 0 {
		return nil
	}
	cols := 3
	if ps.normals != nil {
		cols = 6
	}
	data := make([]float64, 0, len(ps.positions)*cols)
	for i, p := range ps.positions {
		data = append(data, p.X, p.Y, p.Z)
		if ps.normals != nil {
			n := ps.normals[i]
			data = append(data, n.X, n.Y, n.Z)
		}
	}
	return mat.NewDense(len(ps.positions), cols, data)
}
