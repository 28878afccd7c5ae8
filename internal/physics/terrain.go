package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// TerrainSampling controls how many ground samples a shape-vs-heightfield test takes.
type TerrainSampling struct {
	// MinSubdivisions is the fewest samples per axis across a shape's footprint,
	// so shapes smaller than one cell still see several heights.
	MinSubdivisions int
	// MaxSamplesPerAxis caps the samples per axis for shapes spanning many cells.
	MaxSamplesPerAxis int
}

func DefaultTerrainSampling() TerrainSampling {
	return TerrainSampling{MinSubdivisions: 4, MaxSamplesPerAxis: 32}
}

// Terrain is a heightfield or a wall grid laid over the XZ footprint Center +/- HalfLength.
//
// A heightfield has Width x Depth samples on the grid vertices, normalized to [0, 1].
// A wall grid has Width x Depth solid-or-open cells spanning the footprint and
// Center.Y +/- HalfLength.Y vertically. Both are stored so that the row index grows with world Z.
//
// The grid always stays axis aligned: rotations re-project the footprint like an AxisAlignedBox.
type Terrain struct {
	Base
	Center      rl.Vector3
	HalfLength  rl.Vector3
	HeightScale float32
	Invert      bool
	Sampling    TerrainSampling

	width, depth int
	heights      []float32
	walls        []bool
	minIndex     int
	maxIndex     int
}

// NewHeightTerrain builds a heightfield. samples is row-major with row 0 at the far
// (max Z) edge, as heightmap images are laid out. Missing samples read as 0 and
// values are clamped to [0, 1].
func NewHeightTerrain(center, halfLength rl.Vector3, width, depth int, samples []float32, heightScale float32, invert bool) *Terrain {
	width, depth = max(width, 2), max(depth, 2)
	t := &Terrain{
		Base:        newBase(),
		Center:      center,
		HalfLength:  absVec(halfLength),
		HeightScale: absf(heightScale),
		Invert:      invert,
		Sampling:    DefaultTerrainSampling(),
		width:       width,
		depth:       depth,
		heights:     make([]float32, width*depth),
	}

	for y := 0; y < depth; y++ {
		src := (depth - 1 - y) * width
		for x := 0; x < width; x++ {
			if src+x < len(samples) {
				t.heights[y*width+x] = clampf(samples[src+x], 0, 1)
			}
		}
	}

	for i, h := range t.heights {
		if h < t.heights[t.minIndex] {
			t.minIndex = i
		}
		if h > t.heights[t.maxIndex] {
			t.maxIndex = i
		}
	}

	t.bounds = t.computeBounds()
	return t
}

// NewWallTerrain builds a wall grid. walls is row-major with row 0 at the far (max Z) edge.
// Missing cells are open.
func NewWallTerrain(center, halfLength rl.Vector3, width, depth int, walls []bool) *Terrain {
	width, depth = max(width, 1), max(depth, 1)
	t := &Terrain{
		Base:        newBase(),
		Center:      center,
		HalfLength:  absVec(halfLength),
		HeightScale: 1,
		Sampling:    DefaultTerrainSampling(),
		width:       width,
		depth:       depth,
		walls:       make([]bool, width*depth),
	}

	for y := 0; y < depth; y++ {
		src := (depth - 1 - y) * width
		for x := 0; x < width; x++ {
			if src+x < len(walls) {
				t.walls[y*width+x] = walls[src+x]
			}
		}
	}

	t.bounds = t.computeBounds()
	return t
}

func (t *Terrain) Kind() Kind { return KindTerrain }

// IsWallCollider reports whether this terrain is a wall grid rather than a heightfield
func (t *Terrain) IsWallCollider() bool { return t.walls != nil }

// Clone copies the terrain; the sample grid is shared since it is never modified.
func (t *Terrain) Clone() *Terrain {
	out := *t
	return &out
}

// TransformInto moves the footprint and accumulates the Y axis scale into HeightScale.
func (t *Terrain) TransformInto(m rl.Matrix, dst *Terrain) {
	scale := axisScales(m)
	dst.Center = transformPoint(t.Center, m)
	dst.HalfLength = reprojectHalf(t.HalfLength, m)
	dst.HeightScale = t.HeightScale * scale.Y
	dst.Invert = t.Invert
	dst.Sampling = t.Sampling
	dst.width, dst.depth = t.width, t.depth
	dst.heights, dst.walls = t.heights, t.walls
	dst.minIndex, dst.maxIndex = t.minIndex, t.maxIndex
	dst.settle(&t.Base, dst.computeBounds())
}

func (t *Terrain) computeBounds() AABB {
	b := NewAABBFromHalf(t.Center, t.HalfLength)
	if t.IsWallCollider() {
		return b
	}
	lo := t.worldHeight(t.heights[t.minIndex])
	hi := t.worldHeight(t.heights[t.maxIndex])
	b.Min.Y, b.Max.Y = minf(lo, hi), maxf(lo, hi)
	return b
}

// worldHeight converts a normalized sample to world Y
func (t *Terrain) worldHeight(h float32) float32 {
	if t.Invert {
		return t.Center.Y - h*t.HeightScale
	}
	return t.Center.Y + h*t.HeightScale
}

// Size returns the grid dimensions: vertices for a heightfield, cells for a wall grid.
func (t *Terrain) Size() (int, int) { return t.width, t.depth }

// cells returns the number of cells along X and Z
func (t *Terrain) cells() (int, int) {
	if t.IsWallCollider() {
		return t.width, t.depth
	}
	return t.width - 1, t.depth - 1
}

// CellSize returns the world size of one grid cell along X (X) and Z (Y).
func (t *Terrain) CellSize() rl.Vector2 {
	cx, cz := t.cells()
	return rl.Vector2{X: 2 * t.HalfLength.X / float32(cx), Y: 2 * t.HalfLength.Z / float32(cz)}
}

// MinIndex is the flat index of the lowest sample
func (t *Terrain) MinIndex() int { return t.minIndex }

// MaxIndex is the flat index of the highest sample
func (t *Terrain) MaxIndex() int { return t.maxIndex }

func (t *Terrain) origin() (float32, float32) {
	return t.Center.X - t.HalfLength.X, t.Center.Z - t.HalfLength.Z
}

// toGrid maps world XZ to fractional cell coordinates
func (t *Terrain) toGrid(x, z float32) (float32, float32) {
	ox, oz := t.origin()
	cell := t.CellSize()
	return (x - ox) / cell.X, (z - oz) / cell.Y
}

// insideFootprint reports whether world XZ lies on the terrain
func (t *Terrain) insideFootprint(x, z float32) bool {
	// Vertices on the far edges can land an ulp outside after the grid conversion
	return x >= t.Center.X-t.HalfLength.X-epsilon && x <= t.Center.X+t.HalfLength.X+epsilon &&
		z >= t.Center.Z-t.HalfLength.Z-epsilon && z <= t.Center.Z+t.HalfLength.Z+epsilon
}

// Height returns the normalized sample at grid vertex (x, y). It fails for wall
// grids and outside the grid.
func (t *Terrain) Height(x, y int) (float32, bool) {
	if t.IsWallCollider() || x < 0 || y < 0 || x >= t.width || y >= t.depth {
		return 0, false
	}
	return t.heights[y*t.width+x], true
}

// VertexPosition returns the world position of grid vertex (x, y) on a heightfield
func (t *Terrain) VertexPosition(x, y int) (rl.Vector3, bool) {
	h, ok := t.Height(x, y)
	if !ok {
		return rl.Vector3{}, false
	}
	ox, oz := t.origin()
	cell := t.CellSize()
	return rl.Vector3{X: ox + float32(x)*cell.X, Y: t.worldHeight(h), Z: oz + float32(y)*cell.Y}, true
}

// HeightAt returns the bilinearly interpolated world height at world (x, z).
func (t *Terrain) HeightAt(x, z float32) (float32, bool) {
	if t.IsWallCollider() || !t.insideFootprint(x, z) {
		return 0, false
	}
	gx, gz := t.toGrid(x, z)
	return t.worldHeight(t.sampleBilinear(gx, gz)), true
}

// sampleBilinear interpolates the normalized grid at fractional vertex coordinates
func (t *Terrain) sampleBilinear(gx, gz float32) float32 {
	gx = clampf(gx, 0, float32(t.width-1))
	gz = clampf(gz, 0, float32(t.depth-1))
	ix := clampi(floori(gx), 0, t.width-2)
	iz := clampi(floori(gz), 0, t.depth-2)
	fx := snapFraction(gx - float32(ix))
	fz := snapFraction(gz - float32(iz))

	h00 := t.heights[iz*t.width+ix]
	h10 := t.heights[iz*t.width+ix+1]
	h01 := t.heights[(iz+1)*t.width+ix]
	h11 := t.heights[(iz+1)*t.width+ix+1]

	// Weighted form returns the sample itself at fractions 0 and 1
	near := h00*(1-fx) + h10*fx
	far := h01*(1-fx) + h11*fx
	return near*(1-fz) + far*fz
}

// snapFraction rounds cell fractions within epsilon of a vertex onto it, absorbing
// the rounding of the world to grid conversion.
func snapFraction(f float32) float32 {
	switch {
	case f < epsilon:
		return 0
	case f > 1-epsilon:
		return 1
	}
	return f
}

// NormalAtCell returns the surface normal at grid vertex (x, y) from central
// differences, one-sided at the edges. It points away from the solid side.
func (t *Terrain) NormalAtCell(x, y int) (rl.Vector3, bool) {
	if t.IsWallCollider() || x < 0 || y < 0 || x >= t.width || y >= t.depth {
		return rl.Vector3{}, false
	}
	cell := t.CellSize()

	x0, x1 := max(x-1, 0), min(x+1, t.width-1)
	y0, y1 := max(y-1, 0), min(y+1, t.depth-1)

	dhdx := (t.worldHeight(t.heights[y*t.width+x1]) - t.worldHeight(t.heights[y*t.width+x0])) /
		(float32(x1-x0) * cell.X)
	dhdz := (t.worldHeight(t.heights[y1*t.width+x]) - t.worldHeight(t.heights[y0*t.width+x])) /
		(float32(y1-y0) * cell.Y)

	n := rl.Vector3Normalize(rl.Vector3{X: -dhdx, Y: 1, Z: -dhdz})
	if t.Invert {
		n = rl.Vector3Negate(n)
	}
	return n, true
}

// NormalAt blends the four surrounding vertex normals at world (x, z)
func (t *Terrain) NormalAt(x, z float32) (rl.Vector3, bool) {
	if t.IsWallCollider() || !t.insideFootprint(x, z) {
		return rl.Vector3{}, false
	}
	gx, gz := t.toGrid(x, z)
	ix := clampi(floori(gx), 0, t.width-2)
	iz := clampi(floori(gz), 0, t.depth-2)
	fx := clampf(gx-float32(ix), 0, 1)
	fz := clampf(gz-float32(iz), 0, 1)

	n00, _ := t.NormalAtCell(ix, iz)
	n10, _ := t.NormalAtCell(ix+1, iz)
	n01, _ := t.NormalAtCell(ix, iz+1)
	n11, _ := t.NormalAtCell(ix+1, iz+1)

	near := rl.Vector3Lerp(n00, n10, fx)
	far := rl.Vector3Lerp(n01, n11, fx)
	fallback := rl.Vector3{Y: 1}
	if t.Invert {
		fallback.Y = -1
	}
	return normalizeOr(rl.Vector3Lerp(near, far, fz), fallback), true
}

// IsWall reports whether cell (x, y) is solid. Cells outside the grid are solid;
// a heightfield has no walls inside its grid.
func (t *Terrain) IsWall(x, y int) bool {
	cx, cz := t.cells()
	if x < 0 || y < 0 || x >= cx || y >= cz {
		return true
	}
	if !t.IsWallCollider() {
		return false
	}
	return t.walls[y*t.width+x]
}

// CellAt returns the cell containing world (x, z)
func (t *Terrain) CellAt(x, z float32) (int, int, bool) {
	if !t.insideFootprint(x, z) {
		return 0, 0, false
	}
	cx, cz := t.cells()
	gx, gz := t.toGrid(x, z)
	return clampi(floori(gx), 0, cx-1), clampi(floori(gz), 0, cz-1), true
}

// IsWallAt reports whether world (x, z) lies in a solid cell; off the terrain counts as solid.
func (t *Terrain) IsWallAt(x, z float32) bool {
	ix, iz, ok := t.CellAt(x, z)
	if !ok {
		return true
	}
	return t.IsWall(ix, iz)
}

// cellBox returns the world box of wall cell (x, y)
func (t *Terrain) cellBox(x, y int) AABB {
	ox, oz := t.origin()
	cell := t.CellSize()
	return AABB{
		Min: rl.Vector3{X: ox + float32(x)*cell.X, Y: t.Center.Y - t.HalfLength.Y, Z: oz + float32(y)*cell.Y},
		Max: rl.Vector3{X: ox + float32(x+1)*cell.X, Y: t.Center.Y + t.HalfLength.Y, Z: oz + float32(y+1)*cell.Y},
	}
}

// cellRange returns the inclusive cell range covered by the XZ extent of b, clamped to the grid
func (t *Terrain) cellRange(b AABB) (x0, z0, x1, z1 int, ok bool) {
	cx, cz := t.cells()
	gx0, gz0 := t.toGrid(b.Min.X, b.Min.Z)
	gx1, gz1 := t.toGrid(b.Max.X, b.Max.Z)
	if gx1 < 0 || gz1 < 0 || gx0 > float32(cx) || gz0 > float32(cz) {
		return 0, 0, 0, 0, false
	}
	return clampi(floori(gx0), 0, cx-1), clampi(floori(gz0), 0, cz-1),
		clampi(floori(gx1), 0, cx-1), clampi(floori(gz1), 0, cz-1), true
}

// DrawSamples sends the grid samples (or solid cells) inside region to sink
func (t *Terrain) DrawSamples(region AABB, sink DebugSink) {
	if sink == nil {
		return
	}
	x0, z0, x1, z1, ok := t.cellRange(region)
	if !ok {
		return
	}

	if t.IsWallCollider() {
		for z := z0; z <= z1; z++ {
			for x := x0; x <= x1; x++ {
				if t.IsWall(x, z) {
					sink.DrawBox(t.cellBox(x, z), rl.Orange)
				}
			}
		}
		return
	}

	// Vertices bound the cells on both sides
	for z := z0; z <= min(z1+1, t.depth-1); z++ {
		for x := x0; x <= min(x1+1, t.width-1); x++ {
			p, _ := t.VertexPosition(x, z)
			sink.DrawPoint(p, rl.Green)
			n, _ := t.NormalAtCell(x, z)
			sink.DrawLine(p, rl.Vector3Add(p, n), rl.SkyBlue)
		}
	}
}
