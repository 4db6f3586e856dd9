package cli

import (
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go.viam.com/pointindex/config"
	"go.viam.com/pointindex/logging"
	"go.viam.com/pointindex/pointcloud"
	"go.viam.com/pointindex/spatialmath"
	"go.viam.com/pointindex/utils"
	"go.viam.com/pointindex/vision/segmentation"
)

// SampleAction draws a sample of the cloud and prints both indexes.
func SampleAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(flagCount) {
		cfg.Sample.Count = c.Int(flagCount)
	}
	if c.IsSet(flagSeed) {
		cfg.Sample.Seed = c.Int64(flagSeed)
		cfg.Sample.Unseeded = false
	}
	if err := cfg.Sample.Validate("sample"); err != nil {
		return err
	}

	ps, err := buildCloud(cfg, logger)
	if err != nil {
		return err
	}
	var opts []pointcloud.SampleOption
	seed := "random"
	if !cfg.Sample.Unseeded {
		opts = append(opts, pointcloud.SampleSeed(cfg.Sample.Seed))
		seed = fmt.Sprintf("%d", cfg.Sample.Seed)
	}
	sample, err := ps.CreateSample(cfg.Sample.Count, opts...)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Cloud", "Points", "Seed", "Depth", "Center", "Size"})
	for _, row := range []struct {
		name string
		seed string
		set  *pointcloud.PointSet
	}{
		{"source", fmt.Sprintf("%d", cfg.Cloud.Seed), ps},
		{"sample", seed, sample},
	} {
		b := row.set.Bounds()
		t.AppendRow(table.Row{row.name, row.set.Size(), row.seed, row.set.Index().Depth(), formatVector(b.Center), formatVector(b.Size)})
	}
	printf(c, "%s\n", t.Render())
	return nil
}

// QueryAction runs a radius and a ray query around one center, then a batch of concurrent random
// radius queries, and checks every radius query against a linear scan.
func QueryAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	radius := cfg.Density.Radius
	if c.IsSet(flagRadius) {
		radius = c.Float64(flagRadius)
	}
	half := cfg.Cloud.Extent / 2
	center := r3.Vector{X: half, Y: half, Z: half}
	if c.IsSet(flagX) {
		center.X = c.Float64(flagX)
	}
	if c.IsSet(flagY) {
		center.Y = c.Float64(flagY)
	}
	if c.IsSet(flagZ) {
		center.Z = c.Float64(flagZ)
	}
	probes := c.Int(flagProbes)
	if probes < 0 {
		return errors.Errorf("%s must not be negative, got %d", flagProbes, probes)
	}

	ps, err := buildCloud(cfg, logger)
	if err != nil {
		return err
	}
	positions := ps.Positions()

	found, err := ps.QueryIndicesByRadius(center, radius)
	if err != nil {
		return err
	}
	expected := linearRadiusScan(positions, center, radius)

	ray, err := spatialmath.NewRay(center.Sub(r3.Vector{X: cfg.Cloud.Extent}), r3.Vector{X: 2 * cfg.Cloud.Extent})
	if err != nil {
		return err
	}
	onRay, err := ps.PointsByRay(ray, radius)
	if err != nil {
		return err
	}

	//nolint:gosec
	rng := rand.New(rand.NewSource(cfg.Cloud.Seed))
	centers := lo.Times(probes, func(int) r3.Vector {
		return r3.Vector{
			X: utils.SampleRandomFloatRange(0, cfg.Cloud.Extent, rng),
			Y: utils.SampleRandomFloatRange(0, cfg.Cloud.Extent, rng),
			Z: utils.SampleRandomFloatRange(0, cfg.Cloud.Extent, rng),
		}
	})
	agree := make([]bool, probes)
	start := time.Now()
	g, ctx := errgroup.WithContext(c.Context)
	for i, probe := range centers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			got, err := ps.QueryIndicesByRadius(probe, radius)
			if err != nil {
				return err
			}
			agree[i] = lo.ElementsMatch(got, linearRadiusScan(positions, probe, radius))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	logger.Debugw("ran concurrent probes", "probes", probes, "elapsed", time.Since(start))
	mismatches := lo.CountBy(agree, func(ok bool) bool { return !ok })

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Query", "Center", "Radius", "Index", "Linear scan"})
	t.AppendRow(table.Row{"radius", formatVector(center), radius, len(found), len(expected)})
	t.AppendRow(table.Row{"ray along x", formatVector(center), radius, len(onRay), "-"})
	t.AppendRow(table.Row{"random probes", probes, radius, probes - mismatches, probes})
	printf(c, "%s\n", t.Render())

	if !lo.ElementsMatch(found, expected) {
		mismatches++
	}
	if mismatches > 0 {
		return errors.Errorf("%d radius queries disagree with a linear scan", mismatches)
	}
	return nil
}

// DensityAction summarizes the neighbor count and spread of every point.
func DensityAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(flagRadius) {
		cfg.Density.Radius = c.Float64(flagRadius)
	}
	if err := cfg.Density.Validate("density"); err != nil {
		return err
	}

	ps, err := buildCloud(cfg, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Points", "Min", "Max", "Mean", "Variance"})
	for _, metric := range []struct {
		name string
		calc pointcloud.ScalarCalculator
	}{
		{"neighbors", pointcloud.DensityCalculator},
		{"spread", pointcloud.SpreadCalculator},
	} {
		sv, err := pointcloud.ComputeScalarValues(
			c.Context, ps, cfg.Density.Radius, metric.calc, pointcloud.WithMaxWorkers(cfg.Density.Parallelism))
		if err != nil {
			return errors.Wrapf(err, "computing %s", metric.name)
		}
		t.AppendRow(table.Row{
			metric.name, sv.EffectiveCount,
			formatFloat(sv.Min), formatFloat(sv.Max), formatFloat(sv.Mean), formatFloat(sv.Variance),
		})
	}
	printf(c, "%s\n", t.Render())
	return nil
}

// ClusterAction groups the cloud with radius clustering, or k-means when k is configured, and
// prints a summary.
func ClusterAction(c *cli.Context) error {
	cfg, logger, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet(flagRadius) {
		cfg.Clustering.Radius = c.Float64(flagRadius)
	}
	if c.IsSet(flagMinPoints) {
		cfg.Clustering.MinPoints = c.Int(flagMinPoints)
	}
	if c.IsSet(flagK) {
		cfg.KMeans.K = c.Int(flagK)
		if err := cfg.KMeans.CheckValid(); err != nil {
			return err
		}
	}

	ps, err := buildCloud(cfg, logger)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	var clusters *segmentation.Clusters
	if cfg.KMeans.K > 0 {
		clusters, err = segmentation.KMeansClustering(c.Context, ps, cfg.KMeans, logger)
		if err != nil {
			return err
		}
		t.AppendHeader(table.Row{"Method", "K", "Clusters", "Noise", "Largest", "Smallest"})
		t.AppendRow(table.Row{"k-means", cfg.KMeans.K, clusters.N(), len(clusters.Noise), lo.Max(clusters.Sizes()), lo.Min(clusters.Sizes())})
	} else {
		clusters, err = segmentation.RadiusClustering(c.Context, ps, cfg.Clustering, logger)
		if err != nil {
			return err
		}
		t.AppendHeader(table.Row{"Radius", "Min points", "Clusters", "Noise", "Largest", "Smallest"})
		t.AppendRow(table.Row{
			cfg.Clustering.Radius, cfg.Clustering.MinPoints,
			clusters.N(), len(clusters.Noise), lo.Max(clusters.Sizes()), lo.Min(clusters.Sizes()),
		})
	}
	printf(c, "%s\n", t.Render())
	return nil
}

const logCloserKey = "logCloser"

// setupLogging installs the global logger selected by the global flags.
func setupLogging(c *cli.Context) error {
	level := zap.InfoLevel
	if c.Bool(flagDebug) {
		level = zap.DebugLevel
	}
	switch {
	case c.String(flagLogFile) != "":
		logger, closer := logging.NewFileLogger("pcindex", c.String(flagLogFile), level)
		if c.App.Metadata == nil {
			c.App.Metadata = map[string]interface{}{}
		}
		c.App.Metadata[logCloserKey] = closer
		logging.ReplaceGlobal(logger)
	case c.Bool(flagDebug):
		logging.ReplaceGlobal(logging.NewDebugLogger("pcindex"))
	default:
		logging.ReplaceGlobal(logging.NewBlankLogger("pcindex"))
	}
	return nil
}

func closeLogging(c *cli.Context) error {
	closer, ok := c.App.Metadata[logCloserKey].(io.Closer)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, logCloserKey)
	return closer.Close()
}

// loadConfig reads the configured workload and applies the global flags to it.
func loadConfig(c *cli.Context) (*config.Config, golog.Logger, error) {
	logger := logging.Global()
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Read(path, logger); err != nil {
			return nil, nil, err
		}
	}
	if c.IsSet(flagPoints) {
		cfg.Cloud.Points = c.Int(flagPoints)
	}
	if c.IsSet(flagCloudSeed) {
		cfg.Cloud.Seed = c.Int64(flagCloudSeed)
	}
	if err := cfg.Cloud.Validate("cloud"); err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func buildCloud(cfg *config.Config, logger golog.Logger) (*pointcloud.PointSet, error) {
	start := time.Now()
	var pts []r3.Vector
	if cfg.Cloud.Distribution == config.DistributionBlobs {
		pts = pointcloud.MakeBlobPoints(cfg.Cloud.Points, cfg.Cloud.Extent, cfg.Cloud.Blobs, cfg.Cloud.Sigma, cfg.Cloud.Seed)
	} else {
		pts = pointcloud.MakeUniformCubePoints(cfg.Cloud.Points, cfg.Cloud.Extent, cfg.Cloud.Seed)
	}
	ps, err := pointcloud.New(pts, pointcloud.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	logger.Debugw("built point index", "points", ps.Size(), "depth", ps.Index().Depth(), "elapsed", time.Since(start))
	return ps, nil
}

func linearRadiusScan(positions []r3.Vector, center r3.Vector, radius float64) []int {
	var out []int
	for i, p := range positions {
		if p.Sub(center).Norm2() <= radius*radius {
			out = append(out, i)
		}
	}
	return out
}

func printf(c *cli.Context, format string, a ...interface{}) {
	fmt.Fprintf(c.App.Writer, format, a...)
}

func formatVector(v r3.Vector) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

func formatFloat(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
