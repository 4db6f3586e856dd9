package segmentation

import (
	"github.com/golang/geo/r3"

	"go.viam.com/pointindex/pointcloud"
)

// Clusters is the partition of a point set produced by a clustering pass. Each cluster lists the
// indices of its points in ascending order. Noise holds the points that belong to no cluster.
type Clusters struct {
	Clusters [][]int
	Noise    []int
}

// newClustersFromLabels groups point indices by label. Labels are positive cluster numbers
// starting at 1, or noise.
func newClustersFromLabels(labels []int, numClusters int) *Clusters {
	c := &Clusters{Clusters: make([][]int, numClusters)}
	for i, label := range labels {
		if label == noise {
			c.Noise = append(c.Noise, i)
			continue
		}
		c.Clusters[label-1] = append(c.Clusters[label-1], i)
	}
	return c
}

// N gives the number of clusters.
func (c *Clusters) N() int {
	return len(c.Clusters)
}

// Sizes returns the number of points in each cluster.
func (c *Clusters) Sizes() []int {
	sizes := make([]int, len(c.Clusters))
	for i, cluster := range c.Clusters {
		sizes[i] = len(cluster)
	}
	return sizes
}

// Points returns the positions of the points in cluster i of ps.
func (c *Clusters) Points(ps *pointcloud.PointSet, i int) ([]r3.Vector, error) {
	if i < 0 || i >= len(c.Clusters) {
		return nil, pointcloud.ErrIndexOutOfRange
	}
	return ps.ResolveIndices(c.Clusters[i])
}
