package main

import (
	"math"
	"math/rand"

	"collide3d/internal/config"
	"collide3d/internal/mesh"
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/ojrac/opensimplex-go"
)

// profile is the ground shared by the heightfield and the mesh patch:
// rolling hills roughened with simplex noise.
type profile struct {
	noise opensimplex.Noise
}

func newProfile(seed int64) profile {
	return profile{noise: opensimplex.NewNormalized(seed)}
}

// height returns the ground at normalized (u, v), in [0, 1]
func (p profile) height(u, v float64) float32 {
	hills := 0.5 + 0.25*math.Sin(u*6.0) + 0.25*math.Cos(v*5.0)
	rough := p.noise.Eval2(u*4, v*4)
	return float32(0.8*hills + 0.2*rough)
}

// buildHeightfield lays a heightmap over the arena floor. Samples are written in
// image order, far row first.
func buildHeightfield(cfg *config.Config, ground profile, half float32) *physics.Terrain {
	n := cfg.Stress.TerrainGrid
	samples := make([]float32, n*n)
	for row := 0; row < n; row++ {
		v := float64(n-1-row) / float64(n-1)
		for col := 0; col < n; col++ {
			u := float64(col) / float64(n-1)
			samples[row*n+col] = ground.height(u, v)
		}
	}

	t := physics.NewHeightTerrain(rl.Vector3{}, rl.Vector3{X: half, Y: heightScale / 2, Z: half}, n, n, samples, heightScale, false)
	t.Sampling = cfg.Terrain.Sampling()
	return t
}

// buildWalls rings the arena with solid cells and scatters a few pillars inside
func buildWalls(rng *rand.Rand, half float32) *physics.Terrain {
	walls := make([]bool, wallCells*wallCells)
	for y := 0; y < wallCells; y++ {
		for x := 0; x < wallCells; x++ {
			edge := x == 0 || y == 0 || x == wallCells-1 || y == wallCells-1
			walls[y*wallCells+x] = edge || rng.Float32() < 0.06
		}
	}
	center := rl.Vector3{Y: ceiling / 2}
	extent := rl.Vector3{X: half, Y: ceiling / 2, Z: half}
	return physics.NewWallTerrain(center, extent, wallCells, wallCells, walls)
}

// buildMesh triangulates a grid x grid quad patch following the same hills,
// rotated slightly so the octree does not line up with the quads.
func buildMesh(cfg *config.Config, ground profile, half float32) []physics.Triangle {
	n := cfg.Stress.MeshGrid
	vertices := make([]float32, 0, (n+1)*(n+1)*3)
	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			u := float64(x) / float64(n)
			v := float64(z) / float64(n)
			vertices = append(vertices, float32(u)*2-1, ground.height(u, v), float32(v)*2-1)
		}
	}

	indices := make([]uint32, 0, n*n*6)
	stride := uint32(n + 1)
	for z := uint32(0); z < uint32(n); z++ {
		for x := uint32(0); x < uint32(n); x++ {
			i := z*stride + x
			indices = append(indices, i, i+stride, i+1, i+1, i+stride, i+stride+1)
		}
	}

	m := mesh.ModelTransform(rl.Vector3{Y: 0.5}, rl.Vector3{Y: 15}, rl.Vector3{X: half, Y: heightScale, Z: half})
	return mesh.TrianglesFromIndexed(vertices, indices, m)
}
