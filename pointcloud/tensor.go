package pointcloud

import "gorgonia.org/tensor"

// Tensor packs the points into a float32 tensor of shape (N, 3), or (N, 6) when the set has
// normals, laid out row by row like Matrix. It returns nil for an empty set.
func (ps *PointSet) Tensor() *tensor.Dense {
	if len(ps.positions) == 0 {
		return nil
	}
	cols := 3
	if ps.normals != nil {
		cols = 6
	}
	data := make([]float32, 0, len(ps.positions)*cols)
	for i, p := range ps.positions {
		data = append(data, float32(p.X), float32(p.Y), float32(p.Z))
		if ps.normals != nil {
			n := ps.normals[i]
			data = append(data, float32(n.X), float32(n.Y), float32(n.Z))
		}
	}
	return tensor.New(tensor.WithShape(len(ps.positions), cols), tensor.WithBacking(data))
}
