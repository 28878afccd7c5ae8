package physics

// gridTraverser is a zero-allocation iterator over the grid cells crossed by a
// segment, with coordinates already expressed in cell units. It steps both axes
// at once when the segment passes exactly through a cell corner.
type gridTraverser struct {
	currX, currZ     int
	stepX, stepZ     int
	maxX, maxZ       int
	tMaxX, tMaxZ     float32
	tDeltaX, tDeltaZ float32

	// tEnter is the segment parameter at which the current cell was entered
	tEnter   float32
	// lastAxis is the axis crossed to reach the current cell: -1 none, 0 X, 1 Z, 2 both
	lastAxis int

	steps   int
	started bool
	done    bool
}

const infiniteParam = float32(1e30)

// newGridTraverser walks from (x0, z0) to (x1, z1) over a cellsX by cellsZ grid.
// Cell indices are clamped into the grid so edge points stay inside it.
func newGridTraverser(x0, z0, x1, z1 float32, cellsX, cellsZ int) gridTraverser {
	t := gridTraverser{
		currX:    clampi(floori(x0), 0, cellsX-1),
		currZ:    clampi(floori(z0), 0, cellsZ-1),
		maxX:     cellsX - 1,
		maxZ:     cellsZ - 1,
		lastAxis: -1,
		stepX:    1,
		stepZ:    1,
		steps:    cellsX + cellsZ + 2,
	}

	dx := x1 - x0
	dz := z1 - z0
	if dx < 0 {
		t.stepX = -1
		dx = -dx
	}
	if dz < 0 {
		t.stepZ = -1
		dz = -dz
	}

	if dx < 1e-9 {
		t.tMaxX = infiniteParam
		t.tDeltaX = infiniteParam
	} else {
		t.tDeltaX = 1 / dx
		boundary := float32(t.currX)
		if t.stepX > 0 {
			boundary++
		}
		t.tMaxX = absf(boundary-x0) * t.tDeltaX
	}

	if dz < 1e-9 {
		t.tMaxZ = infiniteParam
		t.tDeltaZ = infiniteParam
	} else {
		t.tDeltaZ = 1 / dz
		boundary := float32(t.currZ)
		if t.stepZ > 0 {
			boundary++
		}
		t.tMaxZ = absf(boundary-z0) * t.tDeltaZ
	}

	return t
}

// Next advances to the next cell. It returns false once the segment end or the
// grid edge is passed.
func (t *gridTraverser) Next() bool {
	if t.done {
		return false
	}
	if !t.started {
		t.started = true
		return true
	}

	next := minf(t.tMaxX, t.tMaxZ)
	if next >= 1 || t.steps <= 0 {
		t.done = true
		return false
	}
	t.steps--
	t.tEnter = next

	switch {
	case t.tMaxX < t.tMaxZ:
		t.currX += t.stepX
		t.tMaxX += t.tDeltaX
		t.lastAxis = 0
	case t.tMaxX > t.tMaxZ:
		t.currZ += t.stepZ
		t.tMaxZ += t.tDeltaZ
		t.lastAxis = 1
	default:
		t.currX += t.stepX
		t.currZ += t.stepZ
		t.tMaxX += t.tDeltaX
		t.tMaxZ += t.tDeltaZ
		t.lastAxis = 2
	}

	if t.currX < 0 || t.currX > t.maxX || t.currZ < 0 || t.currZ > t.maxZ {
		t.done = true
		return false
	}
	return true
}

// Pos returns the current cell
func (t *gridTraverser) Pos() (int, int) {
	return t.currX, t.currZ
}

// Span returns the segment parameters at which the current cell is entered and left
func (t *gridTraverser) Span() (float32, float32) {
	return t.tEnter, minf(minf(t.tMaxX, t.tMaxZ), 1)
}

func floori(v float32) int {
	i := int(v)
	if float32(i) > v {
		i--
	}
	return i
}

func clampi(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
