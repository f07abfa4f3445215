// Package main is obbquery, a command line tool building OBB trees over OBJ meshes
// and casting rays against them.
package main

import (
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const (
	// Flags.
	flagConfig           = "config"
	flagDebug            = "debug"
	flagMaxDepth         = "max-depth"
	flagMinLeafTriangles = "min-leaf-triangles"
	flagRayLength        = "ray-length"
	flagWorkers          = "workers"
	flagOrigin           = "origin"
	flagDirection        = "direction"
	flagLevel            = "level"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	var (
		logger *zap.SugaredLogger
		cfg    Config
	)

	return &cli.App{
		Name:  "obbquery",
		Usage: "build OBB trees over meshes and query them",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "Load configuration from `FILE`",
			},
			&cli.BoolFlag{
				Name:  flagDebug,
				Usage: "enable debug logging",
			},
			&cli.IntFlag{
				Name:  flagMaxDepth,
				Usage: "maximum depth of the tree",
			},
			&cli.IntFlag{
				Name:  flagMinLeafTriangles,
				Usage: "stop subdividing below this triangle count",
			},
			&cli.Float64Flag{
				Name:  flagRayLength,
				Usage: "length of a ray, in direction units",
			},
			&cli.IntFlag{
				Name:  flagWorkers,
				Usage: "number of goroutines casting rays",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool(flagDebug) {
				l, err := zap.NewDevelopment()
				if err != nil {
					return errors.Wrap(err, "creating logger")
				}
				logger = l.Sugar()
			} else {
				logger = zap.NewNop().Sugar()
			}

			var err error
			if cfg, err = loadConfig(c.String(flagConfig)); err != nil {
				return err
			}
			return cfg.overrideFlags(c)
		},
		After: func(c *cli.Context) error {
			if logger != nil {
				_ = logger.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "stats",
				Usage:     "build the tree of a mesh and print its statistics",
				ArgsUsage: "<mesh.obj>",
				Action: func(c *cli.Context) error {
					return statsCommand(c, cfg, logger)
				},
			},
			{
				Name:      "ray",
				Usage:     "cast rays against a mesh and print the closest hits",
				ArgsUsage: "<mesh.obj>",
				Flags: []cli.Flag{
					&cli.Float64SliceFlag{
						Name:     flagOrigin,
						Usage:    "ray origin as x,y,z, repeated for several rays",
						Required: true,
					},
					&cli.Float64SliceFlag{
						Name:     flagDirection,
						Usage:    "ray direction as x,y,z, one per origin",
						Required: true,
					},
				},
				Action: func(c *cli.Context) error {
					return rayCommand(c, cfg, logger)
				},
			},
			{
				Name:      "dump",
				Usage:     "print the corners of the boxes at a level of the tree, and of their parents",
				ArgsUsage: "<mesh.obj>",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  flagLevel,
						Usage: "depth of the boxes, the root being 0",
					},
				},
				Action: func(c *cli.Context) error {
					return dumpCommand(c, cfg, logger)
				},
			},
		},
	}
}
