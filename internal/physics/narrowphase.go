package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Pair algorithms. Every function returns the normal from its second argument toward
// its first. Touching shapes (zero depth) do not count as intersecting.

func sphereSphere(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32) (CollisionData, bool) {
	diff := rl.Vector3Subtract(ca, cb)
	dist := rl.Vector3Length(diff)
	minDist := ra + rb
	if dist >= minDist {
		return CollisionData{}, false
	}

	// Coincident centers have no preferred direction
	normal := rl.Vector3{Y: 1}
	if dist > epsilon {
		normal = rl.Vector3Scale(diff, 1/dist)
	}

	return CollisionData{
		Normal: normal,
		Point:  rl.Vector3Add(cb, rl.Vector3Scale(normal, rb)),
		Depth:  minDist - dist,
	}, true
}

func sphereCapsule(center rl.Vector3, radius float32, c *Capsule) (CollisionData, bool) {
	a, b := c.Segment()
	closest := closestPointOnSegment(a, b, center)
	return sphereSphere(center, radius, closest, c.Radius)
}

// sphereOBB pushes the sphere out of the box. A center inside the box leaves
// through the nearest face.
func sphereOBB(center rl.Vector3, radius float32, o OBB) (CollisionData, bool) {
	closest := o.ClosestPoint(center)
	diff := rl.Vector3Subtract(center, closest)
	distSq := dot(diff, diff)
	if distSq >= radius*radius {
		return CollisionData{}, false
	}

	if distSq > epsilon*epsilon {
		dist := sqrtf(distSq)
		return CollisionData{
			Normal: rl.Vector3Scale(diff, 1/dist),
			Point:  closest,
			Depth:  radius - dist,
		}, true
	}

	local := o.toLocal(center)
	best := -1
	bestGap := float32(0)
	for i := 0; i < 3; i++ {
		gap := component(o.HalfSize, i) - absf(component(local, i))
		if best < 0 || gap < bestGap {
			best, bestGap = i, gap
		}
	}

	sign := float32(1)
	if component(local, best) < 0 {
		sign = -1
	}
	face := local
	switch best {
	case 0:
		face.X = sign * o.HalfSize.X
	case 1:
		face.Y = sign * o.HalfSize.Y
	default:
		face.Z = sign * o.HalfSize.Z
	}

	return CollisionData{
		Normal: rl.Vector3Scale(o.Axes[best], sign),
		Point:  o.fromLocal(face),
		Depth:  radius + bestGap,
	}, true
}

func capsuleCapsule(a, b *Capsule) (CollisionData, bool) {
	a0, a1 := a.Segment()
	b0, b1 := b.Segment()
	pa, pb := closestPointsSegments(a0, a1, b0, b1)
	return sphereSphere(pa, a.Radius, pb, b.Radius)
}

// capsuleOBB finds the segment point nearest the box by alternating closest-point
// projections, then treats that point as a sphere.
func capsuleOBB(c *Capsule, o OBB) (CollisionData, bool) {
	a, b := c.Segment()
	p := closestPointOnSegment(a, b, o.Center)
	for i := 0; i < 4; i++ {
		q := o.ClosestPoint(p)
		next := closestPointOnSegment(a, b, q)
		if rl.Vector3Distance(next, p) < epsilon {
			break
		}
		p = next
	}
	return sphereOBB(p, c.Radius, o)
}

// obbOBB uses the minimum-overlap SAT axis. The contact point is a's deepest
// corner along the normal, clamped into b.
func obbOBB(a, b OBB) (CollisionData, bool) {
	axis, depth, ok := a.SeparatingAxis(b)
	if !ok || depth <= 0 {
		return CollisionData{}, false
	}

	support := a.Center
	for i := 0; i < 3; i++ {
		h := component(a.HalfSize, i)
		if dot(a.Axes[i], axis) > 0 {
			h = -h
		}
		support = rl.Vector3Add(support, rl.Vector3Scale(a.Axes[i], h))
	}

	return CollisionData{
		Normal: axis,
		Point:  b.ClosestPoint(support),
		Depth:  depth,
	}, true
}

// aabbAABB resolves along the axis of least penetration. The point is the
// center of the overlap region.
func aabbAABB(a, b AABB) (CollisionData, bool) {
	mtv := a.Resolve(b)
	depth := rl.Vector3Length(mtv)
	if depth <= 0 {
		return CollisionData{}, false
	}

	return CollisionData{
		Normal: rl.Vector3Scale(mtv, 1/depth),
		Point:  a.Intersect(b).Center(),
		Depth:  depth,
	}, true
}
