package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// RaycastAll returns the closest hit of r among colliders, with the index of the collider hit.
// Colliders that are nil or inactive are skipped.
func RaycastAll(r Ray, colliders []Collider) (RayHit, int, bool) {
	closest := RayHit{Length: r.Reach()}
	index := -1

	for i, c := range colliders {
		hit, ok := Raycast(r, c)
		if !ok || hit.Length > closest.Length {
			continue
		}
		if index >= 0 && hit.Length == closest.Length {
			continue
		}
		closest = hit
		index = i
	}

	return closest, index, index >= 0
}

// raySphere returns the nearest root within the ray's reach, falling back to the far root
// when the near one is behind the origin.
func raySphere(r Ray, center rl.Vector3, radius float32) (RayHit, bool) {
	oc := rl.Vector3Subtract(r.Origin, center)
	a := rl.Vector3DotProduct(r.Direction, r.Direction)
	if a < epsilon*epsilon {
		return RayHit{}, false
	}
	b := 2.0 * rl.Vector3DotProduct(oc, r.Direction)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius

	discriminant := b*b - 4*a*c
	if discriminant < 0 {
		return RayHit{}, false
	}
	sq := float32(math.Sqrt(float64(discriminant)))

	reach := r.Reach()
	t := (-b - sq) / (2 * a)
	if t < 0 || t > reach {
		t = (-b + sq) / (2 * a)
	}
	if t < 0 || t > reach {
		return RayHit{}, false
	}

	point := r.At(t)
	normal := normalizeOr(rl.Vector3Subtract(point, center), rl.Vector3Negate(r.Direction))

	return RayHit{Point: point, Normal: normal, Length: t}, true
}

// rayCapsule intersects the cylinder body and both hemispherical caps analytically and
// keeps the nearest surface crossing at or beyond the origin.
func rayCapsule(r Ray, c *Capsule) (RayHit, bool) {
	a, b := c.Segment()
	axis := rl.Vector3Subtract(b, a)
	length := rl.Vector3Length(axis)
	if length < epsilon {
		return raySphere(r, c.Center, c.Radius)
	}
	u := rl.Vector3Scale(axis, 1/length)

	reach := r.Reach()
	best := RayHit{Length: float32(math.MaxFloat32)}
	found := false

	consider := func(t float32, normal rl.Vector3) {
		if math.IsNaN(float64(t)) || t < 0 || t > reach || t >= best.Length {
			return
		}
		best = RayHit{Point: r.At(t), Normal: normal, Length: t}
		found = true
	}

	// Body: solve |perp(origin - a) + t*perp(dir)| = radius
	ao := rl.Vector3Subtract(r.Origin, a)
	dPerp := rl.Vector3Subtract(r.Direction, rl.Vector3Scale(u, dot(r.Direction, u)))
	oPerp := rl.Vector3Subtract(ao, rl.Vector3Scale(u, dot(ao, u)))
	qa := dot(dPerp, dPerp)
	if qa > 1e-12 {
		qb := 2 * dot(oPerp, dPerp)
		qc := dot(oPerp, oPerp) - c.Radius*c.Radius
		disc := qb*qb - 4*qa*qc
		if disc >= 0 {
			sq := sqrtf(disc)
			for _, t := range [2]float32{(-qb - sq) / (2 * qa), (-qb + sq) / (2 * qa)} {
				along := dot(rl.Vector3Add(ao, rl.Vector3Scale(r.Direction, t)), u)
				if along < 0 || along > length {
					continue
				}
				n := rl.Vector3Add(oPerp, rl.Vector3Scale(dPerp, t))
				consider(t, normalizeOr(n, rl.Vector3Negate(r.Direction)))
			}
		}
	}

	// Caps: only the half of each sphere beyond the segment counts
	caps := [2]struct {
		center rl.Vector3
		sign   float32
	}{{a, -1}, {b, 1}}
	for _, end := range caps {
		oc := rl.Vector3Subtract(r.Origin, end.center)
		sb := dot(oc, r.Direction)
		sa := dot(r.Direction, r.Direction)
		if sa < epsilon*epsilon {
			break
		}
		sc := dot(oc, oc) - c.Radius*c.Radius
		disc := sb*sb - sa*sc
		if disc < 0 {
			continue
		}
		sq := sqrtf(disc)
		for _, t := range [2]float32{(-sb - sq) / sa, (-sb + sq) / sa} {
			p := r.At(t)
			if dot(rl.Vector3Subtract(p, end.center), u)*end.sign < 0 {
				continue
			}
			consider(t, normalizeOr(rl.Vector3Subtract(p, end.center), rl.Vector3Negate(r.Direction)))
		}
	}

	return best, found
}
