package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"collide3d/internal/config"
	"collide3d/internal/mesh"
	"collide3d/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/gocarina/gocsv"
)

func TestRecorder(t *testing.T) {
	rec := &Recorder{}
	rec.DrawLine(rl.Vector3{}, rl.Vector3{X: 1}, rl.Red)
	rec.DrawBox(physics.NewAABBFromHalf(rl.Vector3{}, rl.Vector3{X: 1, Y: 1, Z: 1}), rl.Green)
	rec.DrawPoint(rl.Vector3{Y: 2}, rl.Blue)

	if rec.Count("line") != 1 || rec.Count("box") != 1 || rec.Count("point") != 1 {
		t.Errorf("Expected one of each primitive, got %+v", rec.Primitives)
	}
	if rec.Primitives[0].Color != "#e62937ff" {
		t.Errorf("Expected red as #e62937ff, got %s", rec.Primitives[0].Color)
	}
	if rec.Primitives[1].AX != -1 || rec.Primitives[1].BZ != 1 {
		t.Errorf("Expected box min/max in the A/B columns, got %+v", rec.Primitives[1])
	}

	var buf bytes.Buffer
	if err := rec.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected header and 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "kind,ax,ay,az,bx,by,bz,color" {
		t.Errorf("Unexpected header %q", lines[0])
	}

	rec.Reset()
	if len(rec.Primitives) != 0 {
		t.Error("Expected Reset to clear primitives")
	}
}

func TestRecorderWithTree(t *testing.T) {
	tris := []physics.Triangle{
		{V0: rl.Vector3{}, V1: rl.Vector3{X: 4}, V2: rl.Vector3{Z: 4}},
		{V0: rl.Vector3{Y: 4}, V1: rl.Vector3{X: 4, Y: 4}, V2: rl.Vector3{Y: 4, Z: 4}},
	}
	tree := mesh.Bake(tris, mesh.Options{MaxDepth: 3, LeafTriangles: 1, Epsilon: 0.001})

	rec := &Recorder{}
	tree.Draw(rec, 0)
	if rec.Count("box") != 1 {
		t.Errorf("Expected only the root at depth 0, got %d boxes", rec.Count("box"))
	}

	rec.Reset()
	tree.Draw(rec, -1)
	if rec.Count("box") < 2 {
		t.Errorf("Expected the whole tree, got %d boxes", rec.Count("box"))
	}
}

func TestOutputManager(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager failed: %v", err)
	}

	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	if err := om.WriteConfig(cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}
	for i := 1; i <= 3; i++ {
		if err := om.WriteTick(TickStats{Tick: i, Hits: i * 2}); err != nil {
			t.Fatalf("WriteTick failed: %v", err)
		}
	}
	if err := om.WriteRays(RaySummary{Rays: 10, Hits: 4}); err != nil {
		t.Fatalf("WriteRays failed: %v", err)
	}
	rec := &Recorder{}
	rec.DrawPoint(rl.Vector3{}, rl.Red)
	if err := om.WriteDebug(rec); err != nil {
		t.Fatalf("WriteDebug failed: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	var ticks []TickStats
	if err := gocsv.UnmarshalFile(f, &ticks); err != nil {
		t.Fatalf("Reading ticks.csv failed: %v", err)
	}
	if len(ticks) != 3 || ticks[2].Hits != 6 {
		t.Errorf("Expected 3 ticks with a single header, got %+v", ticks)
	}

	for _, name := range []string{"config.yaml", "rays.csv", "debug.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("Expected %s to exist: %v", name, err)
		}
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("Expected nil manager without error, got %v %v", om, err)
	}

	if err := om.WriteTick(TickStats{}); err != nil {
		t.Errorf("Expected nil manager to discard ticks, got %v", err)
	}
	if err := om.WriteRays(RaySummary{}); err != nil {
		t.Errorf("Expected nil manager to discard rays, got %v", err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Errorf("Expected nil manager to discard config, got %v", err)
	}
	if err := om.Close(); err != nil {
		t.Errorf("Expected nil manager to close cleanly, got %v", err)
	}
}
