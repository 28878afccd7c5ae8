package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionData is the result of a successful intersection test between a and b.
//
// Normal is unit length and points from b toward a: moving a by Normal*Depth
// separates the pair. Point lies on or near b's surface. For ray pairs Depth is
// the distance along the ray and Point is the hit point.
type CollisionData struct {
	Normal rl.Vector3
	Point  rl.Vector3
	Depth  float32
}

// Flip returns the same contact seen from the other collider
func (c CollisionData) Flip() CollisionData {
	c.Normal = rl.Vector3Negate(c.Normal)
	return c
}

// CheckIntersection runs the narrow-phase test for the pair.
// It reports false when either collider is nil or inactive, when both are static,
// when terrain meets a collider tagged TagSkipTerrain, or when the pair has no algorithm.
func CheckIntersection(a, b Collider) (CollisionData, bool) {
	if isNil(a) || isNil(b) {
		return CollisionData{}, false
	}
	if !a.Active() || !b.Active() {
		return CollisionData{}, false
	}
	if a.HasTag(TagStatic) && b.HasTag(TagStatic) {
		return CollisionData{}, false
	}
	if (a.Kind() == KindTerrain && b.HasTag(TagSkipTerrain)) ||
		(b.Kind() == KindTerrain && a.HasTag(TagSkipTerrain)) {
		return CollisionData{}, false
	}

	// Each unordered pair has one algorithm, written with the lower kind first
	if a.Kind() > b.Kind() {
		data, ok := intersect(b, a)
		if !ok {
			return CollisionData{}, false
		}
		return data.Flip(), true
	}
	return intersect(a, b)
}

// intersect dispatches a pair with a.Kind() <= b.Kind()
func intersect(a, b Collider) (CollisionData, bool) {
	switch a := a.(type) {
	case *RayCollider:
		hit, ok := Raycast(a.Ray, b)
		if !ok {
			return CollisionData{}, false
		}
		return CollisionData{Normal: hit.Normal, Point: hit.Point, Depth: hit.Length}, true

	case *Sphere:
		switch b := b.(type) {
		case *Sphere:
			return sphereSphere(a.Center, a.Radius, b.Center, b.Radius)
		case *Capsule:
			return sphereCapsule(a.Center, a.Radius, b)
		case *OrientedBox:
			return sphereOBB(a.Center, a.Radius, b.OBB)
		case *AxisAlignedBox:
			return sphereOBB(a.Center, a.Radius, b.OBB())
		case *Terrain:
			return b.collideSphere(a)
		}

	case *Capsule:
		switch b := b.(type) {
		case *Capsule:
			return capsuleCapsule(a, b)
		case *OrientedBox:
			return capsuleOBB(a, b.OBB)
		case *AxisAlignedBox:
			return capsuleOBB(a, b.OBB())
		case *Terrain:
			return b.collideCapsule(a)
		}

	case *OrientedBox:
		switch b := b.(type) {
		case *OrientedBox:
			return obbOBB(a.OBB, b.OBB)
		case *AxisAlignedBox:
			return obbOBB(a.OBB, b.OBB())
		case *Terrain:
			return b.collideOBB(a.OBB)
		}

	case *AxisAlignedBox:
		switch b := b.(type) {
		case *AxisAlignedBox:
			return aabbAABB(a.AABB(), b.AABB())
		case *Terrain:
			return b.collideOBB(a.OBB())
		}
	}

	// Terrain x Terrain and anything unknown
	return CollisionData{}, false
}

// Raycast tests a ray against a single collider. The normal is the surface normal at the hit.
func Raycast(r Ray, c Collider) (RayHit, bool) {
	if isNil(c) || !c.Active() || !validDirection(r.Direction) {
		return RayHit{}, false
	}

	switch c := c.(type) {
	case *Sphere:
		return raySphere(r, c.Center, c.Radius)
	case *Capsule:
		return rayCapsule(r, c)
	case *OrientedBox:
		return c.RayIntersect(r)
	case *AxisAlignedBox:
		return c.OBB().RayIntersect(r)
	case *Terrain:
		if c.IsWallCollider() {
			return c.raycastWalls(r)
		}
		return c.raycastHeight(r)
	}
	return RayHit{}, false
}

// validDirection rejects zero and NaN directions, which a Ray literal can carry
func validDirection(d rl.Vector3) bool {
	l := dot(d, d)
	return l > epsilon*epsilon && !math.IsNaN(float64(l))
}

// isNil catches both a nil interface and a typed nil pointer
func isNil(c Collider) bool {
	switch c := c.(type) {
	case nil:
		return true
	case *RayCollider:
		return c == nil
	case *Sphere:
		return c == nil
	case *Capsule:
		return c == nil
	case *OrientedBox:
		return c == nil
	case *AxisAlignedBox:
		return c == nil
	case *Terrain:
		return c == nil
	}
	return true
}
