package main

import (
	"os"

	"github.com/akmonengine/obbtree"
	"github.com/akmonengine/obbtree/tree"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// Config holds the tree build and query settings. Keys missing from the file keep
// their default value.
type Config struct {
	MaxDepth         int     `toml:"max_depth"`
	MinLeafTriangles int     `toml:"min_leaf_triangles"`
	RayLength        float64 `toml:"ray_length"`
	Workers          int     `toml:"workers"`
}

func defaultConfig() Config {
	return Config{
		MaxDepth:         tree.DefaultMaxDepth,
		MinLeafTriangles: tree.DefaultMinLeafTriangles,
		RayLength:        tree.DefaultRayLength,
		Workers:          obbtree.DEFAULT_WORKERS,
	}
}

// loadConfig reads the TOML file at path over the defaults. An empty path returns
// the defaults.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "opening config")
	}
	defer f.Close()

	decoder := toml.NewDecoder(f)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, errors.Wrapf(err, "decoding config %s", path)
	}

	return cfg, cfg.validate()
}

func (cfg Config) validate() error {
	switch {
	case cfg.MaxDepth < 0:
		return errors.Errorf("max_depth must be positive, got %d", cfg.MaxDepth)
	case cfg.MinLeafTriangles < 1:
		return errors.Errorf("min_leaf_triangles must be at least 1, got %d", cfg.MinLeafTriangles)
	case cfg.RayLength <= 0:
		return errors.Errorf("ray_length must be strictly positive, got %g", cfg.RayLength)
	case cfg.Workers < 1:
		return errors.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}

	return nil
}

// overrideFlags applies the flags set on the command line
func (cfg *Config) overrideFlags(c *cli.Context) error {
	if c.IsSet(flagMaxDepth) {
		cfg.MaxDepth = c.Int(flagMaxDepth)
	}
	if c.IsSet(flagMinLeafTriangles) {
		cfg.MinLeafTriangles = c.Int(flagMinLeafTriangles)
	}
	if c.IsSet(flagRayLength) {
		cfg.RayLength = c.Float64(flagRayLength)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}

	return cfg.validate()
}

func (cfg Config) buildOptions(logger *zap.SugaredLogger) []tree.Option {
	return []tree.Option{
		tree.WithLogger(logger),
		tree.WithMaxDepth(cfg.MaxDepth),
		tree.WithMinLeafTriangles(cfg.MinLeafTriangles),
		tree.WithRayLength(cfg.RayLength),
	}
}
