package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// InfiniteLength is the threshold at or above which a ray is treated as unbounded.
const InfiniteLength = 1e30

// Ray is a half-line or segment. A finite Length bounds the reach along the unit Direction.
type Ray struct {
	Origin    rl.Vector3
	Direction rl.Vector3
	Length    float32 // <= 0 or >= InfiniteLength means infinite
}

// RayHit describes where a ray struck a surface.
type RayHit struct {
	Point  rl.Vector3
	Normal rl.Vector3
	Length float32 // distance along the ray
}

// NewRay creates a ray with a normalized direction. A zero direction is replaced by +Z.
func NewRay(origin, direction rl.Vector3, length float32) Ray {
	return Ray{
		Origin:    origin,
		Direction: normalizeOr(direction, rl.Vector3{Z: 1}),
		Length:    length,
	}
}

// NewRaySegment creates a finite ray running from a to b.
func NewRaySegment(a, b rl.Vector3) Ray {
	d := rl.Vector3Subtract(b, a)
	return NewRay(a, d, rl.Vector3Length(d))
}

// IsInfinite reports whether the ray has no length bound
func (r Ray) IsInfinite() bool {
	return r.Length <= 0 || r.Length >= InfiniteLength
}

// Reach returns the maximum distance along the ray that counts as a hit
func (r Ray) Reach() float32 {
	if r.IsInfinite() {
		return math.MaxFloat32
	}
	return r.Length
}

// At returns the point at distance t along the ray
func (r Ray) At(t float32) rl.Vector3 {
	return rl.Vector3Add(r.Origin, rl.Vector3Scale(r.Direction, t))
}

// End returns the far end of a finite ray, or the origin for an infinite one
func (r Ray) End() rl.Vector3 {
	if r.IsInfinite() {
		return r.Origin
	}
	return r.At(r.Length)
}

// Transform moves the ray into the space described by m.
// A finite ray carries its length through the transform so that scale changes its reach.
func (r Ray) Transform(m rl.Matrix) Ray {
	out := Ray{Origin: transformPoint(r.Origin, m)}

	if r.IsInfinite() {
		out.Direction = normalizeOr(transformDirection(r.Direction, m), r.Direction)
		out.Length = r.Length
		return out
	}

	reach := transformDirection(rl.Vector3Scale(r.Direction, r.Length), m)
	out.Length = rl.Vector3Length(reach)
	if out.Length < epsilon {
		out.Direction = r.Direction
		out.Length = 0
		return out
	}
	out.Direction = rl.Vector3Scale(reach, 1/out.Length)
	return out
}

// Triangle is three vertices; the face normal follows the winding order.
type Triangle struct {
	V0, V1, V2 rl.Vector3
}

// Normal computes (V1-V0) x (V2-V0), normalized
func (t Triangle) Normal() rl.Vector3 {
	return rl.Vector3Normalize(cross(rl.Vector3Subtract(t.V1, t.V0), rl.Vector3Subtract(t.V2, t.V0)))
}

// Transform applies m to all three vertices
func (t Triangle) Transform(m rl.Matrix) Triangle {
	return Triangle{
		V0: transformPoint(t.V0, m),
		V1: transformPoint(t.V1, m),
		V2: transformPoint(t.V2, m),
	}
}

// Bounds returns the tight AABB of the triangle
func (t Triangle) Bounds() AABB {
	return AABB{
		Min: vmin(vmin(t.V0, t.V1), t.V2),
		Max: vmax(vmax(t.V0, t.V1), t.V2),
	}
}

func (t Triangle) Centroid() rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Add(rl.Vector3Add(t.V0, t.V1), t.V2), 1.0/3.0)
}

// IntersectRay tests the ray against the triangle (Möller–Trumbore, double sided).
// The returned normal faces the ray origin.
func (t Triangle) IntersectRay(r Ray) (RayHit, bool) {
	const eps = 1e-7

	e1 := rl.Vector3Subtract(t.V1, t.V0)
	e2 := rl.Vector3Subtract(t.V2, t.V0)
	pvec := cross(r.Direction, e2)
	det := dot(e1, pvec)
	if det > -eps && det < eps {
		return RayHit{}, false
	}
	invDet := 1 / det

	tvec := rl.Vector3Subtract(r.Origin, t.V0)
	u := dot(tvec, pvec) * invDet
	if u < 0 || u > 1 {
		return RayHit{}, false
	}

	qvec := cross(tvec, e1)
	v := dot(r.Direction, qvec) * invDet
	if v < 0 || u+v > 1 {
		return RayHit{}, false
	}

	dist := dot(e2, qvec) * invDet
	if dist < 0 || dist > r.Reach() {
		return RayHit{}, false
	}

	normal := rl.Vector3Normalize(cross(e1, e2))
	if dot(normal, r.Direction) > 0 {
		normal = rl.Vector3Negate(normal)
	}
	return RayHit{Point: r.At(dist), Normal: normal, Length: dist}, true
}
