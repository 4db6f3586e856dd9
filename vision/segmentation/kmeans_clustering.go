package segmentation

import (
	"context"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/pkg/errors"

	"go.viam.com/pointindex/logging"
	"go.viam.com/pointindex/pointcloud"
)

// KMeansConfig specifies the parameters of k-means clustering.
type KMeansConfig struct {
	// K is the number of clusters to partition the points into.
	K int `json:"k"`
}

// CheckValid checks that the config can be used for clustering.
func (cfg KMeansConfig) CheckValid() error {
	if cfg.K < 1 {
		return errors.Errorf("k must be at least 1, got %d", cfg.K)
	}
	return nil
}

type pointObservation struct {
	index int
	p     r3.Vector
}

func (o pointObservation) Coordinates() clusters.Coordinates {
	return clusters.Coordinates{o.p.X, o.p.Y, o.p.Z}
}

func (o pointObservation) Distance(point clusters.Coordinates) float64 {
	return o.Coordinates().Distance(point)
}

// KMeansClustering partitions every point of ps into cfg.K clusters around moving centroids. It
// never reports noise. Initial centroids are random, so repeated runs may differ.
func KMeansClustering(
	ctx context.Context,
	ps *pointcloud.PointSet,
	cfg KMeansConfig,
	logger golog.Logger,
) (*Clusters, error) {
	if err := cfg.CheckValid(); err != nil {
		return nil, err
	}
	if cfg.K > ps.Size() {
		return nil, errors.Errorf("k %d exceeds the %d points to cluster", cfg.K, ps.Size())
	}
	if logger == nil {
		logger = logging.NewBlankLogger("segmentation")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	positions := ps.Positions()
	all := make(clusters.Observations, 0, len(positions))
	for i, p := range positions {
		all = append(all, pointObservation{index: i, p: p})
	}

	partition, err := kmeans.New().Partition(all, cfg.K)
	if err != nil {
		return nil, errors.Wrap(err, "k-means partition failed")
	}

	labels := make([]int, len(positions))
	for c, cluster := range partition {
		for _, o := range cluster.Observations {
			labels[o.(pointObservation).index] = c + 1
		}
	}
	out := newClustersFromLabels(labels, len(partition))
	logger.Debugw("partitioned points", "points", len(positions), "k", cfg.K, "sizes", out.Sizes())
	return out, nil
}
