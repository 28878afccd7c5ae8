package mesh

import (
	"math/rand"
	"testing"

	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/floats/scalar"
)

func randomTriangles(rng *rand.Rand, n int, extent float32) []physics.Triangle {
	point := func() rl.Vector3 {
		return rl.Vector3{
			X: (rng.Float32()*2 - 1) * extent,
			Y: (rng.Float32()*2 - 1) * extent,
			Z: (rng.Float32()*2 - 1) * extent,
		}
	}
	tris := make([]physics.Triangle, n)
	for i := range tris {
		base := point()
		tris[i] = physics.Triangle{
			V0: base,
			V1: rl.Vector3Add(base, rl.Vector3Scale(point(), 0.2)),
			V2: rl.Vector3Add(base, rl.Vector3Scale(point(), 0.2)),
		}
	}
	return tris
}

// quad returns two triangles covering [-s, s] in XZ at height y
func quad(s, y float32) []physics.Triangle {
	a := rl.Vector3{X: -s, Y: y, Z: -s}
	b := rl.Vector3{X: s, Y: y, Z: -s}
	c := rl.Vector3{X: s, Y: y, Z: s}
	d := rl.Vector3{X: -s, Y: y, Z: s}
	return []physics.Triangle{{V0: a, V1: b, V2: c}, {V0: a, V1: c, V2: d}}
}

func TestBakeEmpty(t *testing.T) {
	tree := Bake(nil, DefaultOptions())

	if tree.NodeCount() != 1 {
		t.Errorf("Expected 1 node, got %d", tree.NodeCount())
	}
	if _, ok := tree.Raycast(physics.NewRay(rl.Vector3{}, rl.Vector3{Y: -1}, 0)); ok {
		t.Error("Expected empty tree to miss")
	}
	if hit, _ := tree.SphereIntersect(rl.Vector3{}, 10); hit {
		t.Error("Expected empty tree to have no overlap")
	}
}

func TestBakeLimits(t *testing.T) {
	tris := randomTriangles(rand.New(rand.NewSource(7)), 500, 10)

	flat := Bake(tris, Options{MaxDepth: 0, LeafTriangles: 1, Epsilon: 0.001})
	if flat.NodeCount() != 1 || flat.LeafCount() != 1 || flat.Depth() != 0 {
		t.Errorf("Expected a single leaf, got %d nodes %d leaves depth %d", flat.NodeCount(), flat.LeafCount(), flat.Depth())
	}

	deep := Bake(tris, Options{MaxDepth: 4, LeafTriangles: 4, Epsilon: 0.001})
	if deep.Depth() > 4 {
		t.Errorf("Expected depth <= 4, got %d", deep.Depth())
	}
	if deep.NodeCount() <= 1 {
		t.Errorf("Expected subdivision, got %d nodes", deep.NodeCount())
	}
	if (deep.NodeCount()-1)%8 != 0 {
		t.Errorf("Expected nodes to split into octants, got %d nodes", deep.NodeCount())
	}

	b := deep.Bounds()
	for _, tri := range tris {
		tb := tri.Bounds()
		if !b.Contains(tb.Min) || !b.Contains(tb.Max) {
			t.Fatalf("Expected root bounds %v to contain triangle %v", b, tb)
		}
	}
}

func TestRaycastQuad(t *testing.T) {
	tree := Bake(quad(5, 1), DefaultOptions())

	hit, ok := tree.Raycast(physics.NewRay(rl.Vector3{X: 1, Y: 10, Z: 2}, rl.Vector3{Y: -1}, 0))
	if !ok {
		t.Fatal("Expected ray to hit the quad")
	}
	if !scalar.EqualWithinAbs(float64(hit.Length), 9, 1e-4) {
		t.Errorf("Expected length 9, got %f", hit.Length)
	}
	if hit.Normal.Y < 0.999 {
		t.Errorf("Expected normal facing up, got %v", hit.Normal)
	}

	if _, ok := tree.Raycast(physics.NewRay(rl.Vector3{X: 6, Y: 10}, rl.Vector3{Y: -1}, 0)); ok {
		t.Error("Expected ray beside the quad to miss")
	}
	if _, ok := tree.Raycast(physics.NewRay(rl.Vector3{Y: 10}, rl.Vector3{Y: -1}, 5)); ok {
		t.Error("Expected short ray to miss")
	}
}

func TestRaycastMatchesLinearScan(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tris := randomTriangles(rng, 2000, 20)
	tree := Bake(tris, Options{MaxDepth: 6, LeafTriangles: 6, Epsilon: 0.001})

	hits := 0
	for i := 0; i < 1000; i++ {
		origin := rl.Vector3{
			X: (rng.Float32()*2 - 1) * 30,
			Y: (rng.Float32()*2 - 1) * 30,
			Z: (rng.Float32()*2 - 1) * 30,
		}
		target := rl.Vector3{
			X: (rng.Float32()*2 - 1) * 10,
			Y: (rng.Float32()*2 - 1) * 10,
			Z: (rng.Float32()*2 - 1) * 10,
		}
		ray := physics.NewRay(origin, rl.Vector3Subtract(target, origin), 0)

		treeHit, treeOK := tree.Raycast(ray)
		linearHit, _, linearOK := RaycastTriangles(tris, ray)

		if treeOK != linearOK {
			t.Fatalf("Ray %d: expected hit %v, got %v", i, linearOK, treeOK)
		}
		if !treeOK {
			continue
		}
		hits++
		if !scalar.EqualWithinAbs(float64(treeHit.Length), float64(linearHit.Length), 1e-4) {
			t.Errorf("Ray %d: expected length %f, got %f", i, linearHit.Length, treeHit.Length)
		}
	}

	if hits == 0 {
		t.Error("Expected some rays to hit")
	}
}

func TestRaycastTrianglesTie(t *testing.T) {
	tris := append(quad(1, 0), quad(1, 0)...)
	_, index, ok := RaycastTriangles(tris, physics.NewRay(rl.Vector3{X: 0.5, Y: 1, Z: -0.5}, rl.Vector3{Y: -1}, 0))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if index != 0 {
		t.Errorf("Expected the first of equal hits, got %d", index)
	}
}

func TestOverlapping(t *testing.T) {
	tris := append(quad(1, 0), quad(1, 10)...)
	tree := Bake(tris, Options{MaxDepth: 4, LeafTriangles: 1, Epsilon: 0.001})

	seen := make(map[uint32]bool)
	tree.Overlapping(physics.NewAABBFromHalf(rl.Vector3{Y: 10}, rl.Vector3{X: 2, Y: 0.5, Z: 2}), func(index uint32) bool {
		seen[index] = true
		return true
	})
	if !seen[2] || !seen[3] {
		t.Errorf("Expected the upper quad, got %v", seen)
	}
	if seen[0] || seen[1] {
		t.Errorf("Expected the lower quad to be skipped, got %v", seen)
	}

	calls := 0
	tree.Overlapping(physics.NewAABBFromHalf(rl.Vector3{Y: 5}, rl.Vector3{X: 5, Y: 6, Z: 5}), func(uint32) bool {
		calls++
		return false
	})
	if calls != 1 {
		t.Errorf("Expected the walk to stop after 1 call, got %d", calls)
	}
}
