// Package mesh bakes static triangle soups into an octree for nearest-hit raycasts
// and overlap queries. A baked Tree is read-only and safe for concurrent queries.
package mesh

import (
	"log/slog"

	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Options tune the bake
type Options struct {
	// MaxDepth stops subdivision; nodes at this depth become leaves.
	MaxDepth int
	// LeafTriangles is the triangle count at or below which a node stops splitting.
	LeafTriangles int
	// Epsilon pads node bounds when filtering triangles and testing rays.
	Epsilon float32
}

func DefaultOptions() Options {
	return Options{MaxDepth: 8, LeafTriangles: 8, Epsilon: 0.001}
}

const noChild = -1

type node struct {
	bounds  physics.AABB // octant of the parent
	compact physics.AABB // bounds clipped to what the node actually holds

	children [8]int32

	// Leaf triangles are Tree.indices[first : first+count]
	first, count uint32

	depth int
	leaf  bool
	empty bool
}

// Tree is an octree over a triangle buffer. Nodes live in a single arena and
// refer to their children by index.
type Tree struct {
	triangles []physics.Triangle
	nodes     []node
	indices   []uint32
	opts      Options

	depth  int
	leaves int
}

// Bake builds the tree. The triangle slice is retained and must not be modified afterwards.
func Bake(triangles []physics.Triangle, opts Options) *Tree {
	if opts.MaxDepth < 0 {
		opts.MaxDepth = 0
	}
	if opts.LeafTriangles < 1 {
		opts.LeafTriangles = 1
	}
	if opts.Epsilon < 0 {
		opts.Epsilon = -opts.Epsilon
	}

	t := &Tree{
		triangles: triangles,
		nodes:     make([]node, 0, 64),
		indices:   make([]uint32, 0, len(triangles)),
		opts:      opts,
	}

	bounds := physics.EmptyAABB()
	all := make([]uint32, len(triangles))
	for i, tri := range triangles {
		bounds = bounds.Union(tri.Bounds())
		all[i] = uint32(i)
	}
	if len(triangles) == 0 {
		bounds = physics.AABB{}
	}

	t.nodes = append(t.nodes, node{bounds: bounds})
	t.bake(0, all, 0)

	slog.Debug("mesh baked",
		"triangles", len(triangles),
		"nodes", len(t.nodes),
		"leaves", t.leaves,
		"depth", t.depth,
	)
	return t
}

func (t *Tree) bake(index int32, candidates []uint32, depth int) {
	n := &t.nodes[index]
	n.depth = depth
	for i := range n.children {
		n.children[i] = noChild
	}
	if depth > t.depth {
		t.depth = depth
	}

	padded := n.bounds.Expand(t.opts.Epsilon)
	filtered := make([]uint32, 0, len(candidates))
	extent := physics.EmptyAABB()
	for _, idx := range candidates {
		tri := t.triangles[idx]
		tb := tri.Bounds()
		if !padded.Intersects(tb) || !padded.IntersectsTriangle(tri) {
			continue
		}
		filtered = append(filtered, idx)
		extent = extent.Union(tb)
	}

	if len(filtered) == 0 {
		n.leaf = true
		n.empty = true
		n.compact = physics.EmptyAABB()
		t.leaves++
		return
	}

	if depth >= t.opts.MaxDepth || len(filtered) <= t.opts.LeafTriangles {
		n.leaf = true
		n.first = uint32(len(t.indices))
		n.count = uint32(len(filtered))
		n.compact = n.bounds.Intersect(extent)
		t.indices = append(t.indices, filtered...)
		t.leaves++
		return
	}

	bounds := n.bounds
	center := bounds.Center()
	for octant := 0; octant < 8; octant++ {
		child := octantBounds(bounds, center, octant)
		childIndex := int32(len(t.nodes))
		t.nodes = append(t.nodes, node{bounds: child})
		// t.nodes may have moved; re-take the pointer after every append
		t.nodes[index].children[octant] = childIndex
		t.bake(childIndex, filtered, depth+1)
	}

	n = &t.nodes[index]
	union := physics.EmptyAABB()
	for _, c := range n.children {
		if child := &t.nodes[c]; !child.empty {
			union = union.Union(child.compact)
		}
	}
	n.compact = n.bounds.Intersect(union)
}

// octantBounds returns one of the eight equal sub-boxes; bit 0 picks +X, bit 1 +Y, bit 2 +Z
func octantBounds(b physics.AABB, center rl.Vector3, octant int) physics.AABB {
	out := b
	if octant&1 != 0 {
		out.Min.X = center.X
	} else {
		out.Max.X = center.X
	}
	if octant&2 != 0 {
		out.Min.Y = center.Y
	} else {
		out.Max.Y = center.Y
	}
	if octant&4 != 0 {
		out.Min.Z = center.Z
	} else {
		out.Max.Z = center.Z
	}
	return out
}

// Triangles returns the baked triangle buffer
func (t *Tree) Triangles() []physics.Triangle { return t.triangles }

// Depth returns the deepest node level
func (t *Tree) Depth() int { return t.depth }

func (t *Tree) NodeCount() int { return len(t.nodes) }

func (t *Tree) LeafCount() int { return t.leaves }

// Bounds returns the root's loose bounds
func (t *Tree) Bounds() physics.AABB { return t.nodes[0].bounds }

func (t *Tree) leafTriangles(n *node) []uint32 {
	return t.indices[n.first : n.first+n.count]
}
