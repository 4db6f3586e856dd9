package pointcloud

import (
	"context"
	"math"

	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/pointindex/octree"
	"go.viam.com/pointindex/utils"
)

var (
	// ErrNoValues is returned when summarizing an empty list of values.
	ErrNoValues = errors.New("no values to summarize")
	// ErrAllNaN is returned when every value to summarize is NaN.
	ErrAllNaN = errors.New("all values are NaN")
)

// ScalarCalculator derives a single value from the neighborhood of a point. It may return NaN
// when no meaningful value exists.
type ScalarCalculator func(neighbors []r3.Vector) float64

// DensityCalculator returns the number of neighbors.
func DensityCalculator(neighbors []r3.Vector) float64 {
	return float64(len(neighbors))
}

// SpreadCalculator returns the mean distance of the neighbors to their centroid, or NaN when
// there are none.
func SpreadCalculator(neighbors []r3.Vector) float64 {
	if len(neighbors) == 0 {
		return math.NaN()
	}
	var centroid r3.Vector
	for _, p := range neighbors {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Mul(1 / float64(len(neighbors)))

	total := 0.0
	for _, p := range neighbors {
		total += p.Distance(centroid)
	}
	return total / float64(len(neighbors))
}

// ScalarValues is a value per point of a set together with summary statistics that ignore NaN.
type ScalarValues struct {
	Values         []float64
	EffectiveCount int

	Min      float64
	Max      float64
	Mean     float64
	Variance float64
}

// NewScalarValues summarizes values. The variance is the population variance of the non NaN values.
func NewScalarValues(values []float64) (*ScalarValues, error) {
	if len(values) == 0 {
		return nil, ErrNoValues
	}
	valid := stats.Float64Data(lo.Filter(values, func(v float64, _ int) bool {
		return !math.IsNaN(v)
	}))
	if len(valid) == 0 {
		return nil, errors.Wrapf(ErrAllNaN, "%d values", len(values))
	}

	sv := &ScalarValues{Values: values, EffectiveCount: len(valid)}
	var err error
	if sv.Min, err = stats.Min(valid); err != nil {
		return nil, err
	}
	if sv.Max, err = stats.Max(valid); err != nil {
		return nil, err
	}
	if sv.Mean, err = stats.Mean(valid); err != nil {
		return nil, err
	}
	if sv.Variance, err = stats.PopulationVariance(valid); err != nil {
		return nil, err
	}
	return sv, nil
}

// ScalarOption configures ComputeScalarValues.
type ScalarOption func(*scalarOptions)

type scalarOptions struct {
	maxWorkers int
}

// WithMaxWorkers caps the number of workers computing values. Zero or less uses one per CPU.
func WithMaxWorkers(n int) ScalarOption {
	return func(o *scalarOptions) {
		o.maxWorkers = n
	}
}

// ComputeScalarValues runs calc over the points within radius of every point of the set, in
// parallel, and summarizes the results. Each point counts itself as a neighbor.
func ComputeScalarValues(
	ctx context.Context,
	ps *PointSet,
	radius float64,
	calc ScalarCalculator,
	opts ...ScalarOption,
) (*ScalarValues, error) {
	if calc == nil {
		return nil, errors.New("scalar calculator must not be nil")
	}
	if math.IsNaN(radius) || radius < 0 {
		return nil, errors.Wrapf(octree.ErrInvalidDistance, "radius %v", radius)
	}

	var o scalarOptions
	for _, opt := range opts {
		opt(&o)
	}

	values := make([]float64, ps.Size())
	err := utils.GroupWorkParallelN(
		ctx,
		o.maxWorkers,
		ps.Size(),
		func(numGroups int) {
			ps.logger.Debugw("computing scalar values", "points", ps.Size(), "groups", numGroups, "radius", radius)
		},
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			return func(memberNum, workNum int) {
				neighbors, err := ps.PointsByRadius(ps.positions[workNum], radius)
				if err != nil {
					values[workNum] = math.NaN()
					return
				}
				values[workNum] = calc(neighbors)
			}, nil
		},
	)
	if err != nil {
		return nil, err
	}
	return NewScalarValues(values)
}
