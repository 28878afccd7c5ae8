package physics

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// DebugSink receives optional visualization from trees and terrain.
// Implementations must not retain the call arguments beyond the call.
type DebugSink interface {
	DrawLine(from, to rl.Vector3, color rl.Color)
	DrawBox(box AABB, color rl.Color)
	DrawPoint(p rl.Vector3, color rl.Color)
}

// NopSink discards everything
type NopSink struct{}

func (NopSink) DrawLine(from, to rl.Vector3, color rl.Color) {}
func (NopSink) DrawBox(box AABB, color rl.Color)             {}
func (NopSink) DrawPoint(p rl.Vector3, color rl.Color)       {}

// DrawCollider outlines the collider's cached world bounds
func DrawCollider(c Collider, sink DebugSink) {
	if isNil(c) || sink == nil {
		return
	}
	color := rl.Green
	if !c.Active() {
		color = rl.Gray
	}
	if r, ok := c.(*RayCollider); ok {
		end := r.At(minf(r.Reach(), 1000))
		sink.DrawLine(r.Origin, end, color)
		return
	}
	sink.DrawBox(c.Bounds(), color)
}
