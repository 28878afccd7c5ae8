package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

var identityAxes = [3]rl.Vector3{
	{X: 1, Y: 0, Z: 0},
	{X: 0, Y: 1, Z: 0},
	{X: 0, Y: 0, Z: 1},
}

// NewOBB creates an OBB from center, size, and euler rotation (degrees)
func NewOBB(center, size, rotation rl.Vector3) OBB {
	rotMatrix := eulerMatrix(rotation)

	axes := basisAxes(rotMatrix)
	for i := range axes {
		axes[i] = rl.Vector3Normalize(axes[i])
	}

	return OBB{
		Center:   center,
		HalfSize: rl.Vector3{X: size.X / 2, Y: size.Y / 2, Z: size.Z / 2},
		Axes:     axes,
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, halfSize rl.Vector3) OBB {
	return OBB{
		Center:   center,
		HalfSize: halfSize,
		Axes:     identityAxes,
	}
}

// eulerMatrix builds the X, Y, Z rotation order used across the engine
func eulerMatrix(rotation rl.Vector3) rl.Matrix {
	rx := float64(rotation.X) * math.Pi / 180
	ry := float64(rotation.Y) * math.Pi / 180
	rz := float64(rotation.Z) * math.Pi / 180

	rotX := rl.MatrixRotateX(float32(rx))
	rotY := rl.MatrixRotateY(float32(ry))
	rotZ := rl.MatrixRotateZ(float32(rz))
	return rl.MatrixMultiply(rl.MatrixMultiply(rotX, rotY), rotZ)
}

// orthonormalize re-normalizes the axes with Gram-Schmidt, keeping X's direction
func orthonormalize(axes [3]rl.Vector3) [3]rl.Vector3 {
	x := normalizeOr(axes[0], identityAxes[0])
	y := rl.Vector3Subtract(axes[1], rl.Vector3Scale(x, dot(axes[1], x)))
	y = normalizeOr(y, perpendicular(x))
	z := cross(x, y)
	if dot(z, axes[2]) < 0 {
		z = rl.Vector3Negate(z)
	}
	return [3]rl.Vector3{x, y, z}
}

// perpendicular returns some unit vector orthogonal to v
func perpendicular(v rl.Vector3) rl.Vector3 {
	if absf(v.X) < 0.9 {
		return rl.Vector3Normalize(cross(v, rl.Vector3{X: 1}))
	}
	return rl.Vector3Normalize(cross(v, rl.Vector3{Y: 1}))
}

// Corners returns the eight world-space corners
func (o OBB) Corners() [8]rl.Vector3 {
	var out [8]rl.Vector3
	ex := rl.Vector3Scale(o.Axes[0], o.HalfSize.X)
	ey := rl.Vector3Scale(o.Axes[1], o.HalfSize.Y)
	ez := rl.Vector3Scale(o.Axes[2], o.HalfSize.Z)
	for i := 0; i < 8; i++ {
		p := o.Center
		p = addSigned(p, ex, i&1 != 0)
		p = addSigned(p, ey, i&2 != 0)
		p = addSigned(p, ez, i&4 != 0)
		out[i] = p
	}
	return out
}

func addSigned(p, v rl.Vector3, positive bool) rl.Vector3 {
	if positive {
		return rl.Vector3Add(p, v)
	}
	return rl.Vector3Subtract(p, v)
}

// Bounds returns the tight world AABB of the box
func (o OBB) Bounds() AABB {
	var ext rl.Vector3
	for i := 0; i < 3; i++ {
		h := component(o.HalfSize, i)
		ext.X += absf(o.Axes[i].X) * h
		ext.Y += absf(o.Axes[i].Y) * h
		ext.Z += absf(o.Axes[i].Z) * h
	}
	return NewAABBFromHalf(o.Center, ext)
}

// projectedRadius is the half-length of the box's shadow on axis
func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*absf(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*absf(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*absf(rl.Vector3DotProduct(o.Axes[2], axis))
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	_, _, ok := a.SeparatingAxis(b)
	return ok
}

// SeparatingAxis runs the 15-axis SAT and returns the minimum-overlap axis, oriented
// from b toward a, with its overlap depth. ok is false if any axis separates the boxes.
func (a OBB) SeparatingAxis(b OBB) (axis rl.Vector3, depth float32, ok bool) {
	// Vector from B's center to A's center
	t := rl.Vector3Subtract(a.Center, b.Center)
	depth = float32(math.MaxFloat32)

	testAxis := func(candidate rl.Vector3) bool {
		l := rl.Vector3Length(candidate)
		// Skip near-zero axes (parallel edges)
		if l < epsilon {
			return true
		}
		candidate = rl.Vector3Scale(candidate, 1/l)

		dist := rl.Vector3DotProduct(t, candidate)
		penetration := a.projectedRadius(candidate) + b.projectedRadius(candidate) - absf(dist)
		if penetration < 0 {
			return false
		}
		if penetration < depth {
			depth = penetration
			if dist < 0 {
				axis = rl.Vector3Negate(candidate)
			} else {
				axis = candidate
			}
		}
		return true
	}

	// Test A's face normals
	for i := 0; i < 3; i++ {
		if !testAxis(a.Axes[i]) {
			return rl.Vector3{}, 0, false
		}
	}

	// Test B's face normals
	for i := 0; i < 3; i++ {
		if !testAxis(b.Axes[i]) {
			return rl.Vector3{}, 0, false
		}
	}

	// Test cross products of edges
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if !testAxis(rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])) {
				return rl.Vector3{}, 0, false
			}
		}
	}

	return axis, depth, true
}

// ResolveOBB returns the minimum translation vector to push 'a' out of 'b'
// Returns zero vector if no overlap
func (a OBB) ResolveOBB(b OBB) rl.Vector3 {
	axis, depth, ok := a.SeparatingAxis(b)
	if !ok {
		return rl.Vector3Zero()
	}
	return rl.Vector3Scale(axis, depth)
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := o.ClosestPoint(center)
	diff := rl.Vector3Subtract(center, closest)
	return rl.Vector3DotProduct(diff, diff) <= radius*radius
}

// toLocal expresses a world point in the box's axes, relative to its center
func (o OBB) toLocal(p rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(p, o.Center)
	return rl.Vector3{
		X: rl.Vector3DotProduct(local, o.Axes[0]),
		Y: rl.Vector3DotProduct(local, o.Axes[1]),
		Z: rl.Vector3DotProduct(local, o.Axes[2]),
	}
}

func (o OBB) fromLocal(l rl.Vector3) rl.Vector3 {
	result := o.Center
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[0], l.X))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[1], l.Y))
	result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[2], l.Z))
	return result
}

// ClosestPoint returns the closest point on or inside the OBB to the given point
func (o OBB) ClosestPoint(point rl.Vector3) rl.Vector3 {
	local := o.toLocal(point)

	// Clamp to box extents
	local.X = clampf(local.X, -o.HalfSize.X, o.HalfSize.X)
	local.Y = clampf(local.Y, -o.HalfSize.Y, o.HalfSize.Y)
	local.Z = clampf(local.Z, -o.HalfSize.Z, o.HalfSize.Z)

	return o.fromLocal(local)
}

// ClosestPointOnOBB returns the closest point on the OBB to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	return o.ClosestPoint(point)
}

// RayIntersect runs the slab test against the box's own axes. The normal is the
// outward normal of the entry face, or of the exit face when the origin is inside.
func (o OBB) RayIntersect(r Ray) (RayHit, bool) {
	local := rl.Vector3Subtract(o.Center, r.Origin)
	tEnter := float32(-math.MaxFloat32)
	tExit := float32(math.MaxFloat32)
	var enterNormal, exitNormal rl.Vector3

	for i := 0; i < 3; i++ {
		axis := o.Axes[i]
		h := component(o.HalfSize, i)
		e := rl.Vector3DotProduct(axis, local)
		f := rl.Vector3DotProduct(axis, r.Direction)

		if absf(f) < 1e-8 {
			// Parallel to this slab: the origin must already lie between its planes
			if -e-h > 0 || -e+h < 0 {
				return RayHit{}, false
			}
			continue
		}

		t1 := (e + h) / f
		t2 := (e - h) / f
		// t1 hits the +axis face, t2 the -axis face
		n1 := axis
		n2 := rl.Vector3Negate(axis)
		if t1 > t2 {
			t1, t2 = t2, t1
			n1, n2 = n2, n1
		}
		if t1 > tEnter {
			tEnter = t1
			enterNormal = n1
		}
		if t2 < tExit {
			tExit = t2
			exitNormal = n2
		}
		if tEnter > tExit || tExit < 0 {
			return RayHit{}, false
		}
	}

	t, normal := tEnter, enterNormal
	if t < 0 {
		t, normal = tExit, exitNormal
	}
	if t < 0 || t > r.Reach() || t >= math.MaxFloat32 {
		return RayHit{}, false
	}
	if dot(normal, normal) == 0 {
		// Every slab was parallel and the origin sits inside
		normal = rl.Vector3Negate(r.Direction)
	}
	return RayHit{Point: r.At(t), Normal: normal, Length: t}, true
}

// NewOBBFromBox creates an OBB from center, size, rotation, and scale
func NewOBBFromBox(center, size, rotation, scale rl.Vector3) OBB {
	scaledSize := rl.Vector3{
		X: size.X * scale.X,
		Y: size.Y * scale.Y,
		Z: size.Z * scale.Z,
	}
	return NewOBB(center, scaledSize, rotation)
}
