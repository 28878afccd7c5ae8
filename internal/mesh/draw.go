package mesh

import (
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var depthColors = []rl.Color{rl.Red, rl.Orange, rl.Yellow, rl.Green, rl.SkyBlue, rl.Blue, rl.Purple, rl.Magenta}

// Draw sends the compact bounds of every non-empty node down to maxDepth to sink,
// colored by depth. A negative maxDepth draws the whole tree.
func (t *Tree) Draw(sink physics.DebugSink, maxDepth int) {
	if sink == nil {
		return
	}
	for i := range t.nodes {
		n := &t.nodes[i]
		if n.empty || (maxDepth >= 0 && n.depth > maxDepth) {
			continue
		}
		sink.DrawBox(n.compact, depthColors[n.depth%len(depthColors)])
	}
}
