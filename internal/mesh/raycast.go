package mesh

import (
	"collide3d/internal/physics"
)

type candidate struct {
	index int32
	entry float32
}

// Raycast returns the closest triangle hit. Children are visited nearest entry
// first and skipped once a closer hit is known.
func (t *Tree) Raycast(r physics.Ray) (physics.RayHit, bool) {
	if len(t.triangles) == 0 {
		return physics.RayHit{}, false
	}
	if _, _, ok := t.nodes[0].bounds.Expand(t.opts.Epsilon).RayEntry(r); !ok {
		return physics.RayHit{}, false
	}

	var best physics.RayHit
	found := false
	t.raycastNode(0, r, &best, &found)
	return best, found
}

func (t *Tree) raycastNode(index int32, r physics.Ray, best *physics.RayHit, found *bool) {
	n := &t.nodes[index]
	if n.empty {
		return
	}

	if n.leaf {
		for _, idx := range t.leafTriangles(n) {
			hit, ok := t.triangles[idx].IntersectRay(r)
			if ok && (!*found || hit.Length < best.Length) {
				*best = hit
				*found = true
			}
		}
		return
	}

	var queue [8]candidate
	count := 0
	for _, c := range n.children {
		child := &t.nodes[c]
		if child.empty {
			continue
		}
		entry, _, ok := child.compact.Expand(t.opts.Epsilon).RayEntry(r)
		if !ok || (*found && entry > best.Length) {
			continue
		}

		// Insertion sort by entry distance
		i := count
		for i > 0 && queue[i-1].entry > entry {
			queue[i] = queue[i-1]
			i--
		}
		queue[i] = candidate{index: c, entry: entry}
		count++
	}

	for _, c := range queue[:count] {
		if *found && c.entry > best.Length {
			break
		}
		t.raycastNode(c.index, r, best, found)
	}
}

// RaycastTriangles tests every triangle in order and keeps the closest hit.
// On equal distance the earlier triangle wins.
func RaycastTriangles(triangles []physics.Triangle, r physics.Ray) (physics.RayHit, int, bool) {
	var best physics.RayHit
	index := -1
	for i, tri := range triangles {
		hit, ok := tri.IntersectRay(r)
		if ok && (index < 0 || hit.Length < best.Length) {
			best = hit
			index = i
		}
	}
	return best, index, index >= 0
}
