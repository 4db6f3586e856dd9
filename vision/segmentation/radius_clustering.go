// Package segmentation groups the points of a point set into clusters of nearby points.
package segmentation

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/pointindex/logging"
	"go.viam.com/pointindex/pointcloud"
)

const (
	unvisited = 0
	noise     = -1
)

// RadiusClusteringConfig specifies the parameters of density based radius clustering.
type RadiusClusteringConfig struct {
	// Radius is the neighborhood radius of a point.
	Radius float64 `json:"radius"`
	// MinPoints is how many points, the point itself included, a neighborhood needs for the point
	// to seed or grow a cluster.
	MinPoints int `json:"min_points"`
}

// CheckValid checks that the config can be used for clustering.
func (cfg RadiusClusteringConfig) CheckValid() error {
	if !(cfg.Radius > 0) {
		return errors.Errorf("radius must be greater than 0, got %v", cfg.Radius)
	}
	if cfg.MinPoints < 1 {
		return errors.Errorf("min_points must be at least 1, got %d", cfg.MinPoints)
	}
	return nil
}

// RadiusClustering partitions ps with DBSCAN. A point whose neighborhood within the radius holds
// at least MinPoints points is a core point. Clusters are the sets of core points reachable from
// each other through neighborhoods, together with the non core points in their neighborhoods.
// All other points are noise.
func RadiusClustering(
	ctx context.Context,
	ps *pointcloud.PointSet,
	cfg RadiusClusteringConfig,
	logger golog.Logger,
) (*Clusters, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.NewBlankLogger("segmentation")
	}

	positions := ps.Positions()
	labels := make([]int, len(positions))
	numClusters := 0
	for i := range positions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if labels[i] != unvisited {
			continue
		}
		neighbors, err := ps.QueryIndicesByRadius(positions[i], cfg.Radius)
		if err != nil {
			return nil, err
		}
		if len(neighbors) < cfg.MinPoints {
			labels[i] = noise
			continue
		}

		numClusters++
		labels[i] = numClusters
		queue := lo.Filter(neighbors, func(j, _ int) bool { return j != i })
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			switch labels[j] {
			case noise:
				// reachable but not a core point
				labels[j] = numClusters
			case unvisited:
				labels[j] = numClusters
				next, err := ps.QueryIndicesByRadius(positions[j], cfg.Radius)
				if err != nil {
					return nil, err
				}
				if len(next) >= cfg.MinPoints {
					queue = append(queue, next...)
				}
			}
		}
	}

	clusters := newClustersFromLabels(labels, numClusters)
	logger.Debugw("clustered points", "points", len(positions), "clusters", clusters.N(), "noise", len(clusters.Noise))
	return clusters, nil
}
