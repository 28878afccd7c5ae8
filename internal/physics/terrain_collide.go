package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// columnSpan returns the lowest and highest point of a shape along the vertical
// line through (x, z), or false when the line misses the shape.
type columnSpan func(x, z float32) (lo, hi float32, ok bool)

func (t *Terrain) collideSphere(s *Sphere) (CollisionData, bool) {
	if t.IsWallCollider() {
		return t.collideWalls(s.bounds, func(cell OBB) (CollisionData, bool) {
			return sphereOBB(s.Center, s.Radius, cell)
		})
	}
	return t.collideHeight(s.bounds, func(x, z float32) (float32, float32, bool) {
		return sphereColumn(s.Center, s.Radius, x, z)
	})
}

func (t *Terrain) collideCapsule(c *Capsule) (CollisionData, bool) {
	if t.IsWallCollider() {
		return t.collideWalls(c.bounds, func(cell OBB) (CollisionData, bool) {
			return capsuleOBB(c, cell)
		})
	}

	a, b := c.Segment()
	return t.collideHeight(c.bounds, func(x, z float32) (float32, float32, bool) {
		// Candidate sphere centers: both ends and the segment point nearest the column
		bottom := rl.Vector3{X: x, Y: c.bounds.Min.Y - 1, Z: z}
		top := rl.Vector3{X: x, Y: c.bounds.Max.Y + 1, Z: z}
		near, _ := closestPointsSegments(a, b, bottom, top)

		lo, hi := float32(0), float32(0)
		found := false
		for _, p := range [3]rl.Vector3{a, b, near} {
			l, h, ok := sphereColumn(p, c.Radius, x, z)
			if !ok {
				continue
			}
			if !found {
				lo, hi, found = l, h, true
				continue
			}
			lo, hi = minf(lo, l), maxf(hi, h)
		}
		return lo, hi, found
	})
}

// collideOBB also serves axis-aligned boxes, passed with identity axes
func (t *Terrain) collideOBB(o OBB) (CollisionData, bool) {
	bounds := o.Bounds()
	if t.IsWallCollider() {
		return t.collideWalls(bounds, func(cell OBB) (CollisionData, bool) {
			return obbOBB(o, cell)
		})
	}

	height := bounds.Max.Y - bounds.Min.Y + 2
	return t.collideHeight(bounds, func(x, z float32) (float32, float32, bool) {
		up := Ray{Origin: rl.Vector3{X: x, Y: bounds.Min.Y - 1, Z: z}, Direction: rl.Vector3{Y: 1}, Length: height}
		enter, ok := o.RayIntersect(up)
		if !ok {
			return 0, 0, false
		}
		down := Ray{Origin: rl.Vector3{X: x, Y: bounds.Max.Y + 1, Z: z}, Direction: rl.Vector3{Y: -1}, Length: height}
		exit, ok := o.RayIntersect(down)
		if !ok {
			return 0, 0, false
		}
		return enter.Point.Y, exit.Point.Y, true
	})
}

func sphereColumn(center rl.Vector3, radius, x, z float32) (float32, float32, bool) {
	dx := x - center.X
	dz := z - center.Z
	rest := radius*radius - dx*dx - dz*dz
	if rest < 0 {
		return 0, 0, false
	}
	h := sqrtf(rest)
	return center.Y - h, center.Y + h, true
}

// collideHeight samples the ground across the shape's footprint and keeps the deepest
// sample. The sample step starts at one cell and shrinks so that small shapes get
// at least MinSubdivisions samples per axis.
func (t *Terrain) collideHeight(bounds AABB, column columnSpan) (CollisionData, bool) {
	// The solid side has no far bound, so only shapes wholly on the open side are rejected here
	if t.Invert && bounds.Max.Y < t.bounds.Min.Y {
		return CollisionData{}, false
	}
	if !t.Invert && bounds.Min.Y > t.bounds.Max.Y {
		return CollisionData{}, false
	}

	footprint := bounds.Intersect(NewAABBFromHalf(t.Center, t.HalfLength))
	if footprint.Min.X > footprint.Max.X || footprint.Min.Z > footprint.Max.Z {
		return CollisionData{}, false
	}

	cell := t.CellSize()
	xs := t.sampleAxis(footprint.Min.X, footprint.Max.X, cell.X)
	zs := t.sampleAxis(footprint.Min.Z, footprint.Max.Z, cell.Y)

	best := float32(0)
	var bestX, bestZ, bestGround float32
	found := false

	for _, z := range zs {
		for _, x := range xs {
			lo, hi, ok := column(x, z)
			if !ok {
				continue
			}
			gx, gz := t.toGrid(x, z)
			ground := t.worldHeight(t.sampleBilinear(gx, gz))

			penetration := ground - lo
			if t.Invert {
				penetration = hi - ground
			}
			if penetration > best {
				best, bestX, bestZ, bestGround = penetration, x, z, ground
				found = true
			}
		}
	}
	if !found {
		return CollisionData{}, false
	}

	normal, _ := t.NormalAt(bestX, bestZ)
	return CollisionData{
		Normal: normal,
		Point:  rl.Vector3{X: bestX, Y: bestGround, Z: bestZ},
		Depth:  best * absf(normal.Y),
	}, true
}

// sampleAxis returns evenly spaced sample positions covering [lo, hi]
func (t *Terrain) sampleAxis(lo, hi, cell float32) []float32 {
	extent := hi - lo
	if extent <= 0 {
		return []float32{lo}
	}

	step := cell
	subdivisions := max(t.Sampling.MinSubdivisions, 1)
	if extent/float32(subdivisions) < step {
		step = extent / float32(subdivisions)
	}

	count := int(extent/step+0.999) + 1
	if limit := t.Sampling.MaxSamplesPerAxis; limit > 1 && count > limit {
		count = limit
	}
	if count < 2 {
		return []float32{lo + extent/2}
	}

	out := make([]float32, count)
	step = extent / float32(count-1)
	for i := range out {
		out[i] = lo + float32(i)*step
	}
	return out
}

// collideWalls tests every solid cell under the shape's footprint as a box and keeps the deepest contact
func (t *Terrain) collideWalls(bounds AABB, test func(cell OBB) (CollisionData, bool)) (CollisionData, bool) {
	if !bounds.Intersects(t.bounds) {
		return CollisionData{}, false
	}
	x0, z0, x1, z1, ok := t.cellRange(bounds)
	if !ok {
		return CollisionData{}, false
	}

	var best CollisionData
	found := false
	for z := z0; z <= z1; z++ {
		for x := x0; x <= x1; x++ {
			if !t.walls[z*t.width+x] {
				continue
			}
			box := t.cellBox(x, z)
			data, hit := test(NewAABBasOBB(box.Center(), box.HalfSize()))
			if hit && (!found || data.Depth > best.Depth) {
				best, found = data, true
			}
		}
	}
	return best, found
}
