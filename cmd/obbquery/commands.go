package main

import (
	"fmt"
	"math"

	"github.com/akmonengine/obbtree"
	"github.com/akmonengine/obbtree/actor"
	"github.com/akmonengine/obbtree/geometry"
	"github.com/akmonengine/obbtree/meshio"
	"github.com/akmonengine/obbtree/tree"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// loadTree builds the tree of the mesh given as the first argument
func loadTree(c *cli.Context, cfg Config, logger *zap.SugaredLogger) (*tree.Tree, error) {
	if c.NArg() != 1 {
		cli.ShowSubcommandHelp(c)
		return nil, errors.Errorf("expected 1 mesh argument, got %d", c.NArg())
	}

	mesh, err := meshio.LoadOBJ(c.Args().First())
	if err != nil {
		return nil, err
	}

	return tree.Build(mesh, cfg.buildOptions(logger)...)
}

func statsCommand(c *cli.Context, cfg Config, logger *zap.SugaredLogger) error {
	t, err := loadTree(c, cfg, logger)
	if err != nil {
		return err
	}

	s := t.Stats()
	fmt.Fprintf(c.App.Writer, "triangles:  %d\n", s.Triangles)
	fmt.Fprintf(c.App.Writer, "nodes:      %d\n", s.Nodes)
	fmt.Fprintf(c.App.Writer, "leaves:     %d\n", s.Leaves)
	fmt.Fprintf(c.App.Writer, "max depth:  %d\n", s.MaxDepth)
	fmt.Fprintf(c.App.Writer, "duplicates: %d\n", s.Duplicates())
	fmt.Fprintf(c.App.Writer, "build time: %s\n", s.BuildDuration)

	return nil
}

// parseRays groups the origin and direction flag values by 3
func parseRays(origins, directions []float64) ([]geometry.Ray, error) {
	if len(origins)%3 != 0 || len(directions)%3 != 0 {
		return nil, errors.New("origins and directions need 3 coordinates each")
	}
	if len(origins) != len(directions) {
		return nil, errors.Errorf("got %d origins for %d directions", len(origins)/3, len(directions)/3)
	}

	rays := make([]geometry.Ray, 0, len(origins)/3)
	for i := 0; i < len(origins); i += 3 {
		origin := mgl64.Vec3{origins[i], origins[i+1], origins[i+2]}
		direction := mgl64.Vec3{directions[i], directions[i+1], directions[i+2]}
		if direction.LenSqr() == 0 {
			return nil, errors.Errorf("ray %d has a zero direction", i/3)
		}
		rays = append(rays, geometry.NewRay(origin, direction))
	}

	return rays, nil
}

func rayCommand(c *cli.Context, cfg Config, logger *zap.SugaredLogger) error {
	rays, err := parseRays(c.Float64Slice(flagOrigin), c.Float64Slice(flagDirection))
	if err != nil {
		return err
	}

	t, err := loadTree(c, cfg, logger)
	if err != nil {
		return err
	}

	world := obbtree.World{Workers: cfg.Workers, RayLength: cfg.RayLength}
	world.AddObject(actor.NewObject(c.Args().First(), actor.NewTransform(), t))

	for i, hit := range world.RaycastBatch(rays) {
		p := hit.Point
		if hit.Object == nil {
			fmt.Fprintf(c.App.Writer, "ray %d: miss end=(%g, %g, %g)\n", i, p.X(), p.Y(), p.Z())
			continue
		}
		fmt.Fprintf(c.App.Writer, "ray %d: hit triangle=%d point=(%g, %g, %g) distance=%g\n",
			i, hit.Triangle, p.X(), p.Y(), p.Z(), math.Sqrt(hit.DistanceSqr))
	}

	return nil
}

func dumpCommand(c *cli.Context, cfg Config, logger *zap.SugaredLogger) error {
	level := c.Int(flagLevel)
	if level < 0 {
		return errors.Errorf("level must be positive, got %d", level)
	}

	t, err := loadTree(c, cfg, logger)
	if err != nil {
		return err
	}

	levels := []int{level}
	if level > 0 {
		levels = append(levels, level-1)
	}

	for _, l := range levels {
		nodes := t.NodesAtLevel(l)
		fmt.Fprintf(c.App.Writer, "level %d: %d boxes\n", l, len(nodes))
		for i, node := range nodes {
			if node.IsLeaf() {
				fmt.Fprintf(c.App.Writer, "  box %d: leaf, %d triangles\n", i, len(node.OBB.Triangles))
			} else {
				fmt.Fprintf(c.App.Writer, "  box %d\n", i)
			}
			for _, corner := range node.OBB.Corners() {
				fmt.Fprintf(c.App.Writer, "    %g %g %g\n", corner.X(), corner.Y(), corner.Z())
			}
		}
	}

	return nil
}
