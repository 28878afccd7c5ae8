package physics

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// solidDepth returns how far p sits on the solid side of the heightfield.
// Positive means below the ground (above it when inverted).
func (t *Terrain) solidDepth(p rl.Vector3) float32 {
	gx, gz := t.toGrid(p.X, p.Z)
	ground := t.worldHeight(t.sampleBilinear(gx, gz))
	if t.Invert {
		return p.Y - ground
	}
	return ground - p.Y
}

// raycastHeight walks the cells under the ray's horizontal projection and stops in the
// first cell where the ray crosses onto the solid side. The crossing is refined by bisection.
func (t *Terrain) raycastHeight(r Ray) (RayHit, bool) {
	// Thin slab so rays grazing a flat field are still clipped
	surface := t.bounds.Expand(epsilon)

	// The solid side has no far bound: a ray entering the footprint from the
	// side below the surface, or starting underground, hits at once.
	solid := surface
	if t.Invert {
		solid.Max.Y = math.MaxFloat32
	} else {
		solid.Min.Y = -math.MaxFloat32
	}
	tEnter, _, ok := solid.RayEntry(r)
	if !ok {
		return RayHit{}, false
	}
	if t.solidDepth(r.At(tEnter)) >= 0 {
		hit := t.heightHit(r, tEnter)
		if tEnter > 0 {
			if n, ok := boxFaceNormal(solid, hit.Point); ok {
				hit.Normal = n
			}
		}
		return hit, true
	}

	// An open entry point lies inside the surface slab, and the crossing
	// happens before the ray leaves it.
	_, tExit, ok := surface.RayEntry(r)
	if !ok || tExit < tEnter {
		return RayHit{}, false
	}

	cx, cz := t.cells()
	a := r.At(tEnter)
	b := r.At(tExit)
	ax, az := t.toGrid(a.X, a.Z)
	bx, bz := t.toGrid(b.X, b.Z)
	walk := newGridTraverser(ax, az, bx, bz, cx, cz)

	span := tExit - tEnter
	for walk.Next() {
		s0, s1 := walk.Span()
		lo := tEnter + s0*span
		hi := tEnter + s1*span

		// Two probes per cell: the bilinear patch is curved along the ray
		prev := lo
		for _, tt := range [2]float32{lo + (hi-lo)*0.5, hi} {
			if t.solidDepth(r.At(tt)) >= 0 {
				return t.heightHit(r, t.bisect(r, prev, tt)), true
			}
			prev = tt
		}
	}

	return RayHit{}, false
}

// bisect narrows [open, solid] down to the surface crossing
func (t *Terrain) bisect(r Ray, open, solid float32) float32 {
	for i := 0; i < 16; i++ {
		mid := (open + solid) * 0.5
		if t.solidDepth(r.At(mid)) >= 0 {
			solid = mid
		} else {
			open = mid
		}
	}
	return solid
}

func (t *Terrain) heightHit(r Ray, dist float32) RayHit {
	p := r.At(dist)
	n, ok := t.NormalAt(p.X, p.Z)
	if !ok {
		n = rl.Vector3Negate(r.Direction)
	}
	return RayHit{Point: p, Normal: n, Length: dist}
}

// raycastWalls walks the wall grid and returns the first solid cell the ray enters.
// The hit normal comes from the open neighbours on the side facing the ray.
func (t *Terrain) raycastWalls(r Ray) (RayHit, bool) {
	tEnter, tExit, ok := t.bounds.RayEntry(r)
	if !ok {
		return RayHit{}, false
	}

	cx, cz := t.cells()
	a := r.At(tEnter)
	b := r.At(tExit)
	ax, az := t.toGrid(a.X, a.Z)
	bx, bz := t.toGrid(b.X, b.Z)
	walk := newGridTraverser(ax, az, bx, bz, cx, cz)

	span := tExit - tEnter
	for walk.Next() {
		x, z := walk.Pos()
		if !t.IsWall(x, z) {
			continue
		}
		s0, _ := walk.Span()
		dist := tEnter + s0*span
		return RayHit{
			Point:  r.At(dist),
			Normal: t.wallNormal(r, x, z, walk.lastAxis, dist),
			Length: dist,
		}, true
	}

	return RayHit{}, false
}

// wallNormal picks an axis-aligned or diagonal normal for the face of cell (x, z)
// that the ray entered through.
func (t *Terrain) wallNormal(r Ray, x, z, axis int, dist float32) rl.Vector3 {
	// The first cell is entered through the outside of the wall volume
	if axis < 0 && dist > 0 {
		if n, ok := boxFaceNormal(t.bounds, r.At(dist)); ok {
			return n
		}
	}

	sx, sz := float32(0), float32(0)
	if r.Direction.X > 0 {
		sx = -1
	} else if r.Direction.X < 0 {
		sx = 1
	}
	if r.Direction.Z > 0 {
		sz = -1
	} else if r.Direction.Z < 0 {
		sz = 1
	}

	openX := sx != 0 && !t.IsWall(x+int(sx), z)
	openZ := sz != 0 && !t.IsWall(x, z+int(sz))

	var n rl.Vector3
	switch {
	case openX && openZ:
		n = rl.Vector3{X: sx, Z: sz}
	case openX:
		n = rl.Vector3{X: sx}
	case openZ:
		n = rl.Vector3{Z: sz}
	case axis == 0:
		n = rl.Vector3{X: sx}
	case axis == 1:
		n = rl.Vector3{Z: sz}
	default:
		n = rl.Vector3{X: -r.Direction.X, Z: -r.Direction.Z}
	}
	return normalizeOr(n, rl.Vector3Negate(r.Direction))
}

// boxFaceNormal returns the outward normal of the face of b that p lies on
func boxFaceNormal(b AABB, p rl.Vector3) (rl.Vector3, bool) {
	const tolerance = 0.001
	switch {
	case absf(p.X-b.Min.X) < tolerance:
		return rl.Vector3{X: -1}, true
	case absf(p.X-b.Max.X) < tolerance:
		return rl.Vector3{X: 1}, true
	case absf(p.Y-b.Min.Y) < tolerance:
		return rl.Vector3{Y: -1}, true
	case absf(p.Y-b.Max.Y) < tolerance:
		return rl.Vector3{Y: 1}, true
	case absf(p.Z-b.Min.Z) < tolerance:
		return rl.Vector3{Z: -1}, true
	case absf(p.Z-b.Max.Z) < tolerance:
		return rl.Vector3{Z: 1}, true
	}
	return rl.Vector3{}, false
}
