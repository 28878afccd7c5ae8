package contact

import (
	"cmp"
	"slices"

	"collide3d/internal/physics"
)

// CellKey addresses one cell of the spatial hash
type CellKey struct {
	X, Y, Z int
}

type entry[K cmp.Ordered] struct {
	key    K
	bounds physics.AABB
}

// Grid is a spatial-hash broad phase. Entries are hashed by the center of their
// bounds; anything wider than a cell goes to an overflow list tested against everyone.
type Grid[K cmp.Ordered] struct {
	cellSize float32
	cells    map[CellKey][]entry[K]
	large    []entry[K]
	entries  []entry[K]
	seen     map[Pair[K]]struct{}
}

func NewGrid[K cmp.Ordered](cellSize float32) *Grid[K] {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid[K]{
		cellSize: cellSize,
		cells:    make(map[CellKey][]entry[K]),
		seen:     make(map[Pair[K]]struct{}),
	}
}

func (g *Grid[K]) posToCell(x, y, z float32) CellKey {
	return CellKey{X: floorDiv(x, g.cellSize), Y: floorDiv(y, g.cellSize), Z: floorDiv(z, g.cellSize)}
}

func floorDiv(v, size float32) int {
	q := v / size
	i := int(q)
	if float32(i) > q {
		i--
	}
	return i
}

// Reset clears every entry. Cells filled since the last Reset keep their
// storage; cells that stayed empty are dropped so the map tracks the bodies.
func (g *Grid[K]) Reset() {
	for k, list := range g.cells {
		if len(list) == 0 {
			delete(g.cells, k)
			continue
		}
		g.cells[k] = list[:0]
	}
	g.large = g.large[:0]
	g.entries = g.entries[:0]
}

// Insert adds an owner with its world bounds
func (g *Grid[K]) Insert(key K, bounds physics.AABB) {
	e := entry[K]{key: key, bounds: bounds}
	g.entries = append(g.entries, e)

	half := bounds.HalfSize()
	if half.X > g.cellSize/2 || half.Y > g.cellSize/2 || half.Z > g.cellSize/2 {
		g.large = append(g.large, e)
		return
	}
	c := bounds.Center()
	cell := g.posToCell(c.X, c.Y, c.Z)
	g.cells[cell] = append(g.cells[cell], e)
}

// Pairs returns every pair of distinct owners whose bounds overlap, sorted
func (g *Grid[K]) Pairs() []Pair[K] {
	clear(g.seen)
	var pairs []Pair[K]

	add := func(a, b entry[K]) {
		if a.key == b.key || !a.bounds.Intersects(b.bounds) {
			return
		}
		pair, _ := MakePair(a.key, b.key)
		if _, ok := g.seen[pair]; ok {
			return
		}
		g.seen[pair] = struct{}{}
		pairs = append(pairs, pair)
	}

	// Small entries: same cell and 26 neighbouring cells
	for cell, list := range g.cells {
		for _, e := range list {
			for dx := -1; dx <= 1; dx++ {
				for dy := -1; dy <= 1; dy++ {
					for dz := -1; dz <= 1; dz++ {
						key := CellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}
						for _, other := range g.cells[key] {
							add(e, other)
						}
					}
				}
			}
		}
	}

	for _, l := range g.large {
		for _, e := range g.entries {
			add(l, e)
		}
	}

	slices.SortFunc(pairs, func(x, y Pair[K]) int {
		if c := cmp.Compare(x.A, y.A); c != 0 {
			return c
		}
		return cmp.Compare(x.B, y.B)
	})
	return pairs
}

// Len returns the number of inserted entries
func (g *Grid[K]) Len() int {
	return len(g.entries)
}
