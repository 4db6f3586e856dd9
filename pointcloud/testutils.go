package pointcloud

import (
	"math/rand"
	randv2 "math/rand/v2"

	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat/distuv"

	"go.viam.com/pointindex/utils"
)

// MakeUniformCubePoints returns n points drawn uniformly from the cube [0, extent) on every axis.
// The same seed always yields the same points.
func MakeUniformCubePoints(n int, extent float64, seed int64) []r3.Vector {
	if n <= 0 {
		return nil
	}
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	return lo.Map(lo.Range(n), func(int, int) r3.Vector {
		return r3.Vector{
			X: utils.SampleRandomFloatRange(0, extent, rng),
			Y: utils.SampleRandomFloatRange(0, extent, rng),
			Z: utils.SampleRandomFloatRange(0, extent, rng),
		}
	})
}

// MakeBlobPoints returns n points spread over the given number of normally distributed blobs.
// Blob centers are uniform in the cube [0, extent) and every axis of a blob has standard deviation
// sigma. Points are assigned to blobs in turn, so blob i holds points i, i+blobs, i+2*blobs and so on.
func MakeBlobPoints(n int, extent float64, blobs int, sigma float64, seed int64) []r3.Vector {
	if n <= 0 || blobs <= 0 {
		return nil
	}
	centers := MakeUniformCubePoints(blobs, extent, seed)
	//nolint:gosec
	dist := distuv.Normal{Mu: 0, Sigma: sigma, Src: randv2.NewPCG(uint64(seed), uint64(blobs))}
	return lo.Map(lo.Range(n), func(_, i int) r3.Vector {
		return centers[i%blobs].Add(r3.Vector{X: dist.Rand(), Y: dist.Rand(), Z: dist.Rand()})
	})
}
