// Package debug records visualization primitives and writes run output as CSV.
package debug

import (
	"fmt"
	"io"

	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gocarina/gocsv"
)

// Primitive is one recorded draw call. Points use only the A columns.
type Primitive struct {
	Kind  string  `csv:"kind"`
	AX    float32 `csv:"ax"`
	AY    float32 `csv:"ay"`
	AZ    float32 `csv:"az"`
	BX    float32 `csv:"bx"`
	BY    float32 `csv:"by"`
	BZ    float32 `csv:"bz"`
	Color string  `csv:"color"`
}

// Recorder is a physics.DebugSink that keeps every primitive in memory.
type Recorder struct {
	Primitives []Primitive
}

var _ physics.DebugSink = (*Recorder)(nil)

func (r *Recorder) DrawLine(from, to rl.Vector3, color rl.Color) {
	r.add("line", from, to, color)
}

func (r *Recorder) DrawBox(box physics.AABB, color rl.Color) {
	r.add("box", box.Min, box.Max, color)
}

func (r *Recorder) DrawPoint(p rl.Vector3, color rl.Color) {
	r.add("point", p, rl.Vector3{}, color)
}

func (r *Recorder) add(kind string, a, b rl.Vector3, color rl.Color) {
	r.Primitives = append(r.Primitives, Primitive{
		Kind:  kind,
		AX:    a.X,
		AY:    a.Y,
		AZ:    a.Z,
		BX:    b.X,
		BY:    b.Y,
		BZ:    b.Z,
		Color: fmt.Sprintf("#%02x%02x%02x%02x", color.R, color.G, color.B, color.A),
	})
}

// Count returns how many primitives of kind were recorded
func (r *Recorder) Count(kind string) int {
	n := 0
	for _, p := range r.Primitives {
		if p.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Recorder) Reset() {
	r.Primitives = r.Primitives[:0]
}

// WriteCSV writes every recorded primitive with a header row.
func (r *Recorder) WriteCSV(w io.Writer) error {
	if err := gocsv.Marshal(r.Primitives, w); err != nil {
		return fmt.Errorf("writing primitives: %w", err)
	}
	return nil
}
