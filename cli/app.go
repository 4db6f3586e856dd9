// Package cli contains the pcindex command line tool, which builds octree indexes over synthetic
// point clouds and runs sampling, query, density and clustering workloads against them.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	// Global flags.
	flagConfig    = "config"
	flagDebug     = "debug"
	flagLogFile   = "log-file"
	flagPoints    = "points"
	flagCloudSeed = "cloud-seed"

	// Command flags.
	flagCount     = "count"
	flagSeed      = "seed"
	flagRadius    = "radius"
	flagX         = "x"
	flagY         = "y"
	flagZ         = "z"
	flagProbes    = "probes"
	flagMinPoints = "min-points"
	flagK         = "k"
)

var app = &cli.App{
	Name:            "pcindex",
	Usage:           "build and query octree point cloud indexes",
	HideHelpCommand: true,
	Before:          setupLogging,
	After:           closeLogging,
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.StringFlag{
			Name:  flagLogFile,
			Usage: "also write logs to the size rotated `FILE`",
		},
		&cli.IntFlag{
			Name:  flagPoints,
			Usage: "number of points in the synthetic cloud",
		},
		&cli.Int64Flag{
			Name:  flagCloudSeed,
			Usage: "seed used to generate the synthetic cloud",
		},
	},
	Commands: []*cli.Command{
		{
			Name:  "sample",
			Usage: "draw a random sample of the cloud and index it",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  flagCount,
					Usage: "number of points to sample",
				},
				&cli.Int64Flag{
					Name:  flagSeed,
					Usage: "seed for the sample, the configured seed if unset",
				},
			},
			Action: SampleAction,
		},
		{
			Name:  "query",
			Usage: "compare radius queries against a linear scan",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagRadius,
					Usage: "query radius, the density radius if unset",
				},
				&cli.Float64Flag{
					Name:  flagX,
					Usage: "x coordinate of the query center, the cloud center if unset",
				},
				&cli.Float64Flag{
					Name:  flagY,
					Usage: "y coordinate of the query center, the cloud center if unset",
				},
				&cli.Float64Flag{
					Name:  flagZ,
					Usage: "z coordinate of the query center, the cloud center if unset",
				},
				&cli.IntFlag{
					Name:  flagProbes,
					Value: 64,
					Usage: "number of random queries to run concurrently",
				},
			},
			Action: QueryAction,
		},
		{
			Name:  "density",
			Usage: "summarize the number of neighbors of every point",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagRadius,
					Usage: "neighborhood radius, the configured radius if unset",
				},
			},
			Action: DensityAction,
		},
		{
			Name:  "cluster",
			Usage: "group the cloud into clusters of nearby points",
			Flags: []cli.Flag{
				&cli.Float64Flag{
					Name:  flagRadius,
					Usage: "neighborhood radius, the configured radius if unset",
				},
				&cli.IntFlag{
					Name:  flagMinPoints,
					Usage: "points a neighborhood needs to grow a cluster, the configured value if unset",
				},
				&cli.IntFlag{
					Name:  flagK,
					Usage: "partition into `K` clusters with k-means instead of radius clustering",
				},
			},
			Action: ClusterAction,
		},
	},
}

// NewApp returns a new app with the CLI API and the given writers.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}
