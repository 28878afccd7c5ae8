package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type AABB struct {
	Min rl.Vector3
	Max rl.Vector3
}

// EmptyAABB returns an inverted box that any Union will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: rl.Vector3{X: math.MaxFloat32, Y: math.MaxFloat32, Z: math.MaxFloat32},
		Max: rl.Vector3{X: -math.MaxFloat32, Y: -math.MaxFloat32, Z: -math.MaxFloat32},
	}
}

// NewAABBFromCenter creates an AABB from a center point and full size dimensions.
func NewAABBFromCenter(center, size rl.Vector3) AABB {
	return NewAABBFromHalf(center, rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2})
}

// NewAABBFromHalf creates an AABB from a center point and half extents.
func NewAABBFromHalf(center, half rl.Vector3) AABB {
	return AABB{
		Min: rl.Vector3Subtract(center, half),
		Max: rl.Vector3Add(center, half),
	}
}

func (a AABB) IsValid() bool {
	return a.Min.X <= a.Max.X && a.Min.Y <= a.Max.Y && a.Min.Z <= a.Max.Z
}

func (a AABB) Center() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(a.Min, a.Max), 0.5)
}

func (a AABB) HalfSize() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Subtract(a.Max, a.Min), 0.5)
}

// Expand grows the box by d on every side
func (a AABB) Expand(d float32) AABB {
	e := rl.Vector3{X: d, Y: d, Z: d}
	return AABB{Min: rl.Vector3Subtract(a.Min, e), Max: rl.Vector3Add(a.Max, e)}
}

func (a AABB) Union(b AABB) AABB {
	return AABB{Min: vmin(a.Min, b.Min), Max: vmax(a.Max, b.Max)}
}

// Intersect returns the overlap of both boxes; the result is invalid when they are disjoint
func (a AABB) Intersect(b AABB) AABB {
	return AABB{Min: vmax(a.Min, b.Min), Max: vmin(a.Max, b.Max)}
}

func (a AABB) Contains(p rl.Vector3) bool {
	return p.X >= a.Min.X && p.X <= a.Max.X &&
		p.Y >= a.Min.Y && p.Y <= a.Max.Y &&
		p.Z >= a.Min.Z && p.Z <= a.Max.Z
}

func (a AABB) Intersects(b AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Corners returns the eight corners of the box
func (a AABB) Corners() [8]rl.Vector3 {
	return [8]rl.Vector3{
		{X: a.Min.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Min.Z},
		{X: a.Min.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Min.Y, Z: a.Max.Z},
		{X: a.Min.X, Y: a.Max.Y, Z: a.Max.Z},
		{X: a.Max.X, Y: a.Max.Y, Z: a.Max.Z},
	}
}

// Resolve returns the minimum translation vector to push 'a' out of 'b'.
// Returns zero vector if no overlap.
func (a AABB) Resolve(b AABB) rl.Vector3 {
	if !a.Intersects(b) {
		return rl.Vector3Zero()
	}

	// Penetration depth in each direction
	dx1 := b.Max.X - a.Min.X // push a in +X
	dx2 := a.Max.X - b.Min.X // push a in -X
	dy1 := b.Max.Y - a.Min.Y // push a in +Y
	dy2 := a.Max.Y - b.Min.Y // push a in -Y
	dz1 := b.Max.Z - a.Min.Z // push a in +Z
	dz2 := a.Max.Z - b.Min.Z // push a in -Z

	min := dx1
	result := rl.Vector3{X: dx1}

	if dx2 < min {
		min = dx2
		result = rl.Vector3{X: -dx2}
	}
	if dy1 < min {
		min = dy1
		result = rl.Vector3{Y: dy1}
	}
	if dy2 < min {
		min = dy2
		result = rl.Vector3{Y: -dy2}
	}
	if dz1 < min {
		min = dz1
		result = rl.Vector3{Z: dz1}
	}
	if dz2 < min {
		result = rl.Vector3{Z: -dz2}
	}

	return result
}

// RayEntry runs the slab test and returns the parametric entry and exit distances.
// tmin is clamped to 0 when the origin is inside the box.
func (a AABB) RayEntry(r Ray) (float32, float32, bool) {
	tmin := float32(0)
	tmax := r.Reach()

	for axis := 0; axis < 3; axis++ {
		o := component(r.Origin, axis)
		d := component(r.Direction, axis)
		lo := component(a.Min, axis)
		hi := component(a.Max, axis)

		if absf(d) < 1e-8 {
			if o < lo || o > hi {
				return 0, 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return 0, 0, false
		}
	}

	return tmin, tmax, true
}

// IntersectsTriangle runs the separating axis test between the box and a triangle
// in box-centred space: three box axes, the triangle normal, and nine edge cross products.
func (a AABB) IntersectsTriangle(t Triangle) bool {
	center := a.Center()
	h := a.HalfSize()

	v0 := rl.Vector3Subtract(t.V0, center)
	v1 := rl.Vector3Subtract(t.V1, center)
	v2 := rl.Vector3Subtract(t.V2, center)

	// Box face normals reduce to an extent comparison
	for axis := 0; axis < 3; axis++ {
		p0, p1, p2 := component(v0, axis), component(v1, axis), component(v2, axis)
		r := component(h, axis)
		if minf(minf(p0, p1), p2) > r || maxf(maxf(p0, p1), p2) < -r {
			return false
		}
	}

	f0 := rl.Vector3Subtract(v1, v0)
	f1 := rl.Vector3Subtract(v2, v1)
	f2 := rl.Vector3Subtract(v0, v2)

	if !overlapTriangleOnAxis(cross(f0, f1), v0, v1, v2, h) {
		return false
	}

	edges := [3]rl.Vector3{f0, f1, f2}
	for axis := 0; axis < 3; axis++ {
		u := unitAxis(axis, 1)
		for _, f := range edges {
			if !overlapTriangleOnAxis(cross(u, f), v0, v1, v2, h) {
				return false
			}
		}
	}

	return true
}

// overlapTriangleOnAxis reports whether box and triangle projections overlap on axis.
// Near-zero axes cannot separate and count as overlapping.
func overlapTriangleOnAxis(axis, v0, v1, v2, h rl.Vector3) bool {
	if dot(axis, axis) < 1e-12 {
		return true
	}
	p0 := dot(v0, axis)
	p1 := dot(v1, axis)
	p2 := dot(v2, axis)
	r := h.X*absf(axis.X) + h.Y*absf(axis.Y) + h.Z*absf(axis.Z)
	return !(minf(minf(p0, p1), p2) > r || maxf(maxf(p0, p1), p2) < -r)
}
