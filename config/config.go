// Package config defines the workload configuration read by the pcindex tool.
package config

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"go.viam.com/utils"

	"go.viam.com/pointindex/vision/segmentation"
)

// Config describes a synthetic point cloud and the work to run against it.
type Config struct {
	ConfigFilePath string `json:"-"`

	Cloud      CloudConfig                         `json:"cloud"`
	Sample     SampleConfig                        `json:"sample"`
	Density    DensityConfig                       `json:"density"`
	Clustering segmentation.RadiusClusteringConfig `json:"clustering"`
	// KMeans switches clustering to k-means when K is set.
	KMeans segmentation.KMeansConfig `json:"kmeans,omitempty"`
}

// Cloud distributions.
const (
	DistributionUniform = "uniform"
	DistributionBlobs   = "blobs"
)

// CloudConfig describes a synthetic cloud of points within a cube. Uniform clouds fill the cube;
// blob clouds gather around Blobs centers with per axis standard deviation Sigma.
type CloudConfig struct {
	Points       int     `json:"points"`
	Extent       float64 `json:"extent"`
	Seed         int64   `json:"seed"`
	Distribution string  `json:"distribution,omitempty"`
	Blobs        int     `json:"blobs,omitempty"`
	Sigma        float64 `json:"sigma,omitempty"`
}

// SampleConfig describes a random sub-sample of the cloud.
type SampleConfig struct {
	Count int   `json:"count"`
	Seed  int64 `json:"seed"`
	// Unseeded draws a different sample on every run and ignores Seed.
	Unseeded bool `json:"unseeded,omitempty"`
}

// DensityConfig describes the per point density computation.
type DensityConfig struct {
	Radius float64 `json:"radius"`
	// Parallelism caps the number of workers; 0 uses one per CPU.
	Parallelism int `json:"parallelism,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Cloud:      CloudConfig{Points: 10000, Extent: 1, Seed: 42},
		Sample:     SampleConfig{Count: 2048, Seed: 42},
		Density:    DensityConfig{Radius: 0.05},
		Clustering: segmentation.RadiusClusteringConfig{Radius: 0.05, MinPoints: 4},
	}
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate() error {
	err := multierr.Combine(
		cfg.Cloud.Validate("cloud"),
		cfg.Sample.Validate("sample"),
		cfg.Density.Validate("density"),
	)
	if clusterErr := cfg.Clustering.CheckValid(); clusterErr != nil {
		err = multierr.Append(err, utils.NewConfigValidationError("clustering", clusterErr))
	}
	if cfg.KMeans.K != 0 {
		if kmeansErr := cfg.KMeans.CheckValid(); kmeansErr != nil {
			err = multierr.Append(err, utils.NewConfigValidationError("kmeans", kmeansErr))
		}
	}
	if cfg.Sample.Count > cfg.Cloud.Points {
		err = multierr.Append(err, utils.NewConfigValidationError("sample",
			errors.Errorf("count %d exceeds the %d cloud points", cfg.Sample.Count, cfg.Cloud.Points)))
	}
	return err
}

// Validate ensures all parts of the config are valid.
func (cfg *CloudConfig) Validate(path string) error {
	if cfg.Points == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "points")
	}
	if cfg.Points < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("points must be positive, got %d", cfg.Points))
	}
	if cfg.Extent == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "extent")
	}
	if !(cfg.Extent > 0) {
		return utils.NewConfigValidationError(path, errors.Errorf("extent must be positive, got %v", cfg.Extent))
	}
	switch cfg.Distribution {
	case "", DistributionUniform:
	case DistributionBlobs:
		if cfg.Blobs < 1 {
			return utils.NewConfigValidationError(path, errors.Errorf("blobs must be at least 1, got %d", cfg.Blobs))
		}
		if !(cfg.Sigma > 0) {
			return utils.NewConfigValidationError(path, errors.Errorf("sigma must be positive, got %v", cfg.Sigma))
		}
	default:
		return utils.NewConfigValidationError(path, errors.Errorf("unknown distribution %q", cfg.Distribution))
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (cfg *SampleConfig) Validate(path string) error {
	if cfg.Count < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("count must not be negative, got %d", cfg.Count))
	}
	return nil
}

// Validate ensures all parts of the config are valid.
func (cfg *DensityConfig) Validate(path string) error {
	if cfg.Radius == 0 {
		return utils.NewConfigValidationFieldRequiredError(path, "radius")
	}
	if !(cfg.Radius > 0) {
		return utils.NewConfigValidationError(path, errors.Errorf("radius must be positive, got %v", cfg.Radius))
	}
	if cfg.Parallelism < 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("parallelism must not be negative, got %d", cfg.Parallelism))
	}
	return nil
}
