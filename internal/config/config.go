// Package config loads the tuning parameters for the collision core and the stress harness.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"collide3d/internal/mesh"
	"collide3d/internal/physics"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all tuning parameters.
type Config struct {
	Octree     OctreeConfig     `yaml:"octree"`
	Terrain    TerrainConfig    `yaml:"terrain"`
	Broadphase BroadphaseConfig `yaml:"broadphase"`
	Stress     StressConfig     `yaml:"stress"`
}

// OctreeConfig holds mesh bake parameters.
type OctreeConfig struct {
	MaxDepth      int     `yaml:"max_depth"`
	LeafTriangles int     `yaml:"leaf_triangles"`
	Epsilon       float32 `yaml:"epsilon"`
}

// TerrainConfig holds shape-vs-heightfield sampling parameters.
type TerrainConfig struct {
	MinSubdivisions   int `yaml:"min_subdivisions"`
	MaxSamplesPerAxis int `yaml:"max_samples_per_axis"`
}

// BroadphaseConfig holds the spatial hash parameters.
type BroadphaseConfig struct {
	CellSize float32 `yaml:"cell_size"`
}

// StressConfig holds the stress harness parameters.
type StressConfig struct {
	Colliders   int     `yaml:"colliders"`
	Ticks       int     `yaml:"ticks"`
	Rays        int     `yaml:"rays"`
	MeshGrid    int     `yaml:"mesh_grid"`
	TerrainGrid int     `yaml:"terrain_grid"`
	ArenaSize   float32 `yaml:"arena_size"`
	Speed       float32 `yaml:"speed"`
	Seed        int64   `yaml:"seed"`
}

// Load reads the embedded defaults, then overlays the file at path if one is given.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Octree.MaxDepth < 0 {
		return fmt.Errorf("octree.max_depth must be >= 0, got %d", c.Octree.MaxDepth)
	}
	if c.Octree.LeafTriangles < 1 {
		return fmt.Errorf("octree.leaf_triangles must be >= 1, got %d", c.Octree.LeafTriangles)
	}
	if c.Terrain.MinSubdivisions < 1 {
		return fmt.Errorf("terrain.min_subdivisions must be >= 1, got %d", c.Terrain.MinSubdivisions)
	}
	if c.Broadphase.CellSize <= 0 {
		return fmt.Errorf("broadphase.cell_size must be > 0, got %g", c.Broadphase.CellSize)
	}
	if c.Stress.MeshGrid < 1 || c.Stress.TerrainGrid < 2 {
		return fmt.Errorf("stress grids too small: mesh_grid=%d terrain_grid=%d", c.Stress.MeshGrid, c.Stress.TerrainGrid)
	}
	return nil
}

// WriteYAML saves the configuration so a run can be reproduced.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Options converts the octree section for mesh.Bake
func (c OctreeConfig) Options() mesh.Options {
	return mesh.Options{MaxDepth: c.MaxDepth, LeafTriangles: c.LeafTriangles, Epsilon: c.Epsilon}
}

// Sampling converts the terrain section for physics.Terrain
func (c TerrainConfig) Sampling() physics.TerrainSampling {
	return physics.TerrainSampling{MinSubdivisions: c.MinSubdivisions, MaxSamplesPerAxis: c.MaxSamplesPerAxis}
}
