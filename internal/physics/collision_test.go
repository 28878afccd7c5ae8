package physics

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func unitBox(center rl.Vector3) *OrientedBox {
	return NewOrientedBox(center, rl.Vector3{X: 1, Y: 1, Z: 1}, identityAxes)
}

func TestSphereSphere(t *testing.T) {
	a := NewSphere(rl.Vector3{}, 1)
	b := NewSphere(rl.Vector3{X: 1.5}, 1)

	data, ok := CheckIntersection(a, b)
	if !ok {
		t.Fatal("Expected overlapping spheres to intersect")
	}
	if !near(data.Depth, 0.5) {
		t.Errorf("Expected depth 0.5, got %f", data.Depth)
	}
	if !nearVec(data.Normal, rl.Vector3{X: -1}) {
		t.Errorf("Expected normal (-1,0,0), got %v", data.Normal)
	}
	if !nearVec(data.Point, rl.Vector3{X: 0.5}) {
		t.Errorf("Expected point (0.5,0,0), got %v", data.Point)
	}

	data, ok = CheckIntersection(b, a)
	if !ok {
		t.Fatal("Expected reversed pair to intersect")
	}
	if !nearVec(data.Normal, rl.Vector3{X: 1}) {
		t.Errorf("Expected reversed normal (1,0,0), got %v", data.Normal)
	}

	far := NewSphere(rl.Vector3{X: 2}, 1)
	if _, ok := CheckIntersection(a, far); ok {
		t.Error("Touching spheres should not intersect")
	}
}

func TestSphereSphereCoincident(t *testing.T) {
	data, ok := CheckIntersection(NewSphere(rl.Vector3{}, 1), NewSphere(rl.Vector3{}, 2))
	if !ok {
		t.Fatal("Expected coincident spheres to intersect")
	}
	if !nearVec(data.Normal, rl.Vector3{Y: 1}) {
		t.Errorf("Expected fallback normal (0,1,0), got %v", data.Normal)
	}
	if !near(data.Depth, 3) {
		t.Errorf("Expected depth 3, got %f", data.Depth)
	}
}

func TestSphereBox(t *testing.T) {
	box := NewAxisAlignedBox(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})

	t.Run("outside", func(t *testing.T) {
		data, ok := CheckIntersection(NewSphere(rl.Vector3{Y: 1.5}, 1), box)
		if !ok {
			t.Fatal("Expected intersection")
		}
		if !nearVec(data.Normal, rl.Vector3{Y: 1}) {
			t.Errorf("Expected normal (0,1,0), got %v", data.Normal)
		}
		if !near(data.Depth, 0.5) {
			t.Errorf("Expected depth 0.5, got %f", data.Depth)
		}
		if !nearVec(data.Point, rl.Vector3{Y: 1}) {
			t.Errorf("Expected point (0,1,0), got %v", data.Point)
		}
	})

	t.Run("center inside", func(t *testing.T) {
		data, ok := CheckIntersection(NewSphere(rl.Vector3{Y: 0.8}, 0.5), unitBox(rl.Vector3{}))
		if !ok {
			t.Fatal("Expected intersection")
		}
		if !nearVec(data.Normal, rl.Vector3{Y: 1}) {
			t.Errorf("Expected normal through nearest face (0,1,0), got %v", data.Normal)
		}
		if !near(data.Depth, 0.7) {
			t.Errorf("Expected depth 0.7, got %f", data.Depth)
		}
	})

	t.Run("reversed", func(t *testing.T) {
		data, ok := CheckIntersection(box, NewSphere(rl.Vector3{Y: 1.5}, 1))
		if !ok {
			t.Fatal("Expected intersection")
		}
		if !nearVec(data.Normal, rl.Vector3{Y: -1}) {
			t.Errorf("Expected normal (0,-1,0), got %v", data.Normal)
		}
	})
}

func TestSphereCapsule(t *testing.T) {
	capsule := NewCapsule(rl.Vector3{}, rl.Vector3{Y: 1}, 0.6, 3)

	data, ok := CheckIntersection(NewSphere(rl.Vector3{X: 1}, 0.5), capsule)
	if !ok {
		t.Fatal("Expected intersection")
	}
	if !near(data.Depth, 0.1) {
		t.Errorf("Expected depth 0.1, got %f", data.Depth)
	}
	if !nearVec(data.Normal, rl.Vector3{X: 1}) {
		t.Errorf("Expected normal (1,0,0), got %v", data.Normal)
	}

	// Beyond the cap
	if _, ok := CheckIntersection(NewSphere(rl.Vector3{Y: 2.2}, 0.5), capsule); ok {
		t.Error("Expected sphere above the cap to miss")
	}
}

func TestCapsuleCapsule(t *testing.T) {
	a := NewCapsule(rl.Vector3{}, rl.Vector3{Y: 1}, 0.5, 2)
	b := NewCapsule(rl.Vector3{X: 0.8}, rl.Vector3{Y: 1}, 0.5, 2)

	data, ok := CheckIntersection(a, b)
	if !ok {
		t.Fatal("Expected parallel capsules to intersect")
	}
	if !near(data.Depth, 0.2) {
		t.Errorf("Expected depth 0.2, got %f", data.Depth)
	}
	if !nearVec(data.Normal, rl.Vector3{X: -1}) {
		t.Errorf("Expected normal (-1,0,0), got %v", data.Normal)
	}

	crossed := NewCapsule(rl.Vector3{Z: 2}, rl.Vector3{X: 1}, 0.5, 4)
	if _, ok := CheckIntersection(a, crossed); ok {
		t.Error("Expected distant crossed capsule to miss")
	}
}

func TestCapsuleBox(t *testing.T) {
	box := unitBox(rl.Vector3{})

	data, ok := CheckIntersection(NewCapsule(rl.Vector3{Y: 1.9}, rl.Vector3{Y: 1}, 0.5, 2), box)
	if !ok {
		t.Fatal("Expected intersection")
	}
	if !near(data.Depth, 0.1) {
		t.Errorf("Expected depth 0.1, got %f", data.Depth)
	}
	if !nearVec(data.Normal, rl.Vector3{Y: 1}) {
		t.Errorf("Expected normal (0,1,0), got %v", data.Normal)
	}

	if _, ok := CheckIntersection(NewCapsule(rl.Vector3{Y: 2.2}, rl.Vector3{Y: 1}, 0.5, 2), box); ok {
		t.Error("Expected capsule above the box to miss")
	}
}

func TestBoxBoxSAT(t *testing.T) {
	tests := []struct {
		name   string
		offset float32
		hit    bool
		depth  float32
	}{
		{"overlapping", 1, true, 1},
		{"touching", 2, false, 0},
		{"separated", 3, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ok := CheckIntersection(unitBox(rl.Vector3{}), unitBox(rl.Vector3{X: tt.offset}))
			if ok != tt.hit {
				t.Fatalf("Expected hit %v, got %v", tt.hit, ok)
			}
			if !ok {
				return
			}
			if !near(data.Depth, tt.depth) {
				t.Errorf("Expected depth %f, got %f", tt.depth, data.Depth)
			}
			if !nearVec(data.Normal, rl.Vector3{X: -1}) {
				t.Errorf("Expected normal (-1,0,0), got %v", data.Normal)
			}
		})
	}
}

func TestRotatedOBB(t *testing.T) {
	a := NewOBB(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2}, rl.Vector3{})

	b := NewOBB(rl.Vector3{X: 2.3}, rl.Vector3{X: 2, Y: 2, Z: 2}, rl.Vector3{Y: 45})
	if !a.IntersectsOBB(b) {
		t.Error("Expected rotated box corner to reach the other box")
	}

	b = NewOBB(rl.Vector3{X: 2.5}, rl.Vector3{X: 2, Y: 2, Z: 2}, rl.Vector3{Y: 45})
	if a.IntersectsOBB(b) {
		t.Error("Expected rotated box to be separated")
	}
}

func TestAABBPair(t *testing.T) {
	a := NewAxisAlignedBox(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1})
	b := NewAxisAlignedBox(rl.Vector3{X: 1.5}, rl.Vector3{X: 1, Y: 1, Z: 1})

	data, ok := CheckIntersection(a, b)
	if !ok {
		t.Fatal("Expected intersection")
	}
	if !near(data.Depth, 0.5) {
		t.Errorf("Expected depth 0.5, got %f", data.Depth)
	}
	if !nearVec(data.Normal, rl.Vector3{X: -1}) {
		t.Errorf("Expected normal (-1,0,0), got %v", data.Normal)
	}
	if !nearVec(data.Point, rl.Vector3{X: 0.75}) {
		t.Errorf("Expected point at the overlap center (0.75,0,0), got %v", data.Point)
	}
}

func TestRaySphereCollision(t *testing.T) {
	ray := NewRayCollider(NewRay(rl.Vector3{X: -5}, rl.Vector3{X: 1}, 10))
	sphere := NewSphere(rl.Vector3{}, 1)

	data, ok := CheckIntersection(ray, sphere)
	if !ok {
		t.Fatal("Expected ray to hit sphere")
	}
	if !near(data.Depth, 4) {
		t.Errorf("Expected distance 4, got %f", data.Depth)
	}
	if !nearVec(data.Point, rl.Vector3{X: -1}) {
		t.Errorf("Expected point (-1,0,0), got %v", data.Point)
	}

	reversed, ok := CheckIntersection(sphere, ray)
	if !ok {
		t.Fatal("Expected reversed pair to hit")
	}
	if !nearVec(reversed.Normal, rl.Vector3Negate(data.Normal)) {
		t.Errorf("Expected flipped normal, got %v and %v", data.Normal, reversed.Normal)
	}

	short := NewRayCollider(NewRay(rl.Vector3{X: -5}, rl.Vector3{X: 1}, 3))
	if _, ok := CheckIntersection(short, sphere); ok {
		t.Error("Expected short ray to miss")
	}
}

func TestUnsupportedPairs(t *testing.T) {
	r1 := NewRayCollider(NewRay(rl.Vector3{}, rl.Vector3{X: 1}, 0))
	r2 := NewRayCollider(NewRay(rl.Vector3{}, rl.Vector3{Z: 1}, 0))
	if _, ok := CheckIntersection(r1, r2); ok {
		t.Error("Ray vs ray should never intersect")
	}

	t1 := NewHeightTerrain(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, 2, 2, nil, 1, false)
	t2 := NewWallTerrain(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}, 1, 1, []bool{true})
	if _, ok := CheckIntersection(t1, t2); ok {
		t.Error("Terrain vs terrain should never intersect")
	}
}

func TestIntersectionFilters(t *testing.T) {
	terrain := NewHeightTerrain(rl.Vector3{}, rl.Vector3{X: 4, Y: 1, Z: 4}, 2, 2, []float32{0.5, 0.5, 0.5, 0.5}, 2, false)

	tests := []struct {
		name  string
		setup func(a, b *Sphere)
		other func(a *Sphere) Collider
	}{
		{"inactive", func(a, b *Sphere) { a.SetActive(false) }, nil},
		{"both static", func(a, b *Sphere) { a.SetTag(TagStatic); b.SetTag(TagStatic) }, nil},
		{"skip terrain", func(a, b *Sphere) { a.SetTag(TagSkipTerrain) }, func(*Sphere) Collider { return terrain }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewSphere(rl.Vector3{Y: 1}, 0.5)
			b := NewSphere(rl.Vector3{Y: 1.2}, 0.5)
			tt.setup(a, b)
			var other Collider = b
			if tt.other != nil {
				other = tt.other(a)
			}
			if _, ok := CheckIntersection(a, other); ok {
				t.Error("Expected the pair to be filtered")
			}
			if _, ok := CheckIntersection(other, a); ok {
				t.Error("Expected the reversed pair to be filtered")
			}
		})
	}

	var typedNil *Sphere
	if _, ok := CheckIntersection(typedNil, NewSphere(rl.Vector3{}, 1)); ok {
		t.Error("Expected typed nil to be rejected")
	}
	if _, ok := CheckIntersection(nil, NewSphere(rl.Vector3{}, 1)); ok {
		t.Error("Expected nil to be rejected")
	}

	// A single static collider still collides
	static := NewSphere(rl.Vector3{}, 1)
	static.SetTag(TagStatic)
	if _, ok := CheckIntersection(static, NewSphere(rl.Vector3{X: 0.5}, 1)); !ok {
		t.Error("Expected static vs dynamic to intersect")
	}
}

// Every mixed-variant pair must report the same contact from both sides with the normal flipped
func TestIntersectionSymmetry(t *testing.T) {
	heights := make([]float32, 9)
	for i := range heights {
		heights[i] = 0.5
	}
	colliders := []Collider{
		NewRayCollider(NewRay(rl.Vector3{X: 0.1, Y: 5, Z: 0.2}, rl.Vector3{Y: -1}, 0)),
		NewSphere(rl.Vector3{X: 0.2, Y: 0.6, Z: 0.1}, 0.8),
		NewCapsule(rl.Vector3{X: -0.3, Y: 0.5}, rl.Vector3{Y: 1}, 0.5, 2.5),
		NewOrientedBoxEuler(rl.Vector3{Y: 0.4}, rl.Vector3{X: 1.2, Y: 1, Z: 1.4}, rl.Vector3{Y: 20}),
		NewAxisAlignedBox(rl.Vector3{X: 0.4, Y: 0.7}, rl.Vector3{X: 0.6, Y: 0.6, Z: 0.6}),
		NewHeightTerrain(rl.Vector3{}, rl.Vector3{X: 3, Y: 1, Z: 3}, 3, 3, heights, 1, false),
	}

	for i, a := range colliders {
		for j, b := range colliders {
			if a.Kind() == b.Kind() {
				continue
			}
			ab, okAB := CheckIntersection(a, b)
			ba, okBA := CheckIntersection(b, a)
			if okAB != okBA {
				t.Errorf("%s/%s: Expected symmetric result, got %v and %v", a.Kind(), b.Kind(), okAB, okBA)
				continue
			}
			if !okAB {
				if i < j && a.Kind() != KindRay {
					t.Errorf("%s/%s: Expected the overlapping pair to intersect", a.Kind(), b.Kind())
				}
				continue
			}
			if !nearVec(ab.Normal, rl.Vector3Negate(ba.Normal)) {
				t.Errorf("%s/%s: Expected flipped normals, got %v and %v", a.Kind(), b.Kind(), ab.Normal, ba.Normal)
			}
			if !near(ab.Depth, ba.Depth) {
				t.Errorf("%s/%s: Expected equal depths, got %f and %f", a.Kind(), b.Kind(), ab.Depth, ba.Depth)
			}
			if !near(rl.Vector3Length(ab.Normal), 1) {
				t.Errorf("%s/%s: Expected unit normal, got %v", a.Kind(), b.Kind(), ab.Normal)
			}
		}
	}
}
