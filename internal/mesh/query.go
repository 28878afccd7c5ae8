package mesh

import (
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Overlapping calls fn with every triangle index stored in leaves whose compact bounds
// overlap box. A triangle stored in several leaves is reported once per leaf.
// Returning false from fn stops the walk.
func (t *Tree) Overlapping(box physics.AABB, fn func(index uint32) bool) {
	if len(t.triangles) == 0 {
		return
	}
	t.overlapNode(0, box, fn)
}

func (t *Tree) overlapNode(index int32, box physics.AABB, fn func(uint32) bool) bool {
	n := &t.nodes[index]
	if n.empty || !n.compact.Expand(t.opts.Epsilon).Intersects(box) {
		return true
	}

	if n.leaf {
		for _, idx := range t.leafTriangles(n) {
			if !fn(idx) {
				return false
			}
		}
		return true
	}

	for _, c := range n.children {
		if !t.overlapNode(c, box, fn) {
			return false
		}
	}
	return true
}

// SphereIntersect tests a sphere against the mesh and returns a push-out vector,
// keeping the largest push along each axis.
func (t *Tree) SphereIntersect(center rl.Vector3, radius float32) (bool, rl.Vector3) {
	query := physics.NewAABBFromHalf(center, rl.Vector3{X: radius, Y: radius, Z: radius})

	var totalPush rl.Vector3
	hit := false
	t.Overlapping(query, func(idx uint32) bool {
		collides, push := sphereTriangleIntersect(center, radius, t.triangles[idx])
		if !collides {
			return true
		}
		if abs(push.X) > abs(totalPush.X) {
			totalPush.X = push.X
		}
		if abs(push.Y) > abs(totalPush.Y) {
			totalPush.Y = push.Y
		}
		if abs(push.Z) > abs(totalPush.Z) {
			totalPush.Z = push.Z
		}
		hit = true
		return true
	})

	return hit, totalPush
}

// sphereTriangleIntersect tests sphere vs triangle and returns the push vector
func sphereTriangleIntersect(center rl.Vector3, radius float32, tri physics.Triangle) (bool, rl.Vector3) {
	closest := ClosestPointOnTriangle(center, tri)

	diff := rl.Vector3Subtract(center, closest)
	distSq := rl.Vector3DotProduct(diff, diff)
	if distSq >= radius*radius {
		return false, rl.Vector3{}
	}

	dist := rl.Vector3Length(diff)
	if dist < 0.0001 {
		// Center is on the triangle, push along the face normal
		return true, rl.Vector3Scale(tri.Normal(), radius)
	}

	pushDir := rl.Vector3Scale(diff, 1.0/dist)
	return true, rl.Vector3Scale(pushDir, radius-dist)
}

// ClosestPointOnTriangle finds the closest point on tri to p by Voronoi region
func ClosestPointOnTriangle(p rl.Vector3, tri physics.Triangle) rl.Vector3 {
	a, b, c := tri.V0, tri.V1, tri.V2

	ab := rl.Vector3Subtract(b, a)
	ac := rl.Vector3Subtract(c, a)
	ap := rl.Vector3Subtract(p, a)

	d1 := rl.Vector3DotProduct(ab, ap)
	d2 := rl.Vector3DotProduct(ac, ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := rl.Vector3Subtract(p, b)
	d3 := rl.Vector3DotProduct(ab, bp)
	d4 := rl.Vector3DotProduct(ac, bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return rl.Vector3Add(a, rl.Vector3Scale(ab, v))
	}

	cp := rl.Vector3Subtract(p, c)
	d5 := rl.Vector3DotProduct(ab, cp)
	d6 := rl.Vector3DotProduct(ac, cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return rl.Vector3Add(a, rl.Vector3Scale(ac, w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return rl.Vector3Add(b, rl.Vector3Scale(rl.Vector3Subtract(c, b), w))
	}

	// Inside the face
	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return rl.Vector3Add(a, rl.Vector3Add(rl.Vector3Scale(ab, v), rl.Vector3Scale(ac, w)))
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
