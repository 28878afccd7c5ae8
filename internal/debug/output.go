package debug

import (
	"fmt"
	"os"
	"path/filepath"

	"collide3d/internal/config"

	"github.com/gocarina/gocsv"
)

// TickStats is one row of ticks.csv
type TickStats struct {
	Tick         int     `csv:"tick"`
	Candidates   int     `csv:"candidates"`
	Hits         int     `csv:"hits"`
	Enters       int     `csv:"enters"`
	Exits        int     `csv:"exits"`
	MeshContacts int     `csv:"mesh_contacts"`
	TickUS       int64   `csv:"tick_us"`
	MaxDepth     float32 `csv:"max_depth"`
}

// RaySummary is one row of rays.csv, comparing the octree against a linear scan
type RaySummary struct {
	Rays         int     `csv:"rays"`
	Hits         int     `csv:"hits"`
	Mismatches   int     `csv:"mismatches"`
	TerrainHits  int     `csv:"terrain_hits"`
	ShapeHits    int     `csv:"shape_hits"`
	TreeMeanUS   float64 `csv:"tree_mean_us"`
	TreeStdUS    float64 `csv:"tree_std_us"`
	LinearMeanUS float64 `csv:"linear_mean_us"`
	LinearStdUS  float64 `csv:"linear_std_us"`
	TreeNodes    int     `csv:"tree_nodes"`
	TreeLeaves   int     `csv:"tree_leaves"`
	TreeDepth    int     `csv:"tree_depth"`
}

// OutputManager writes structured run output into one directory.
// A nil *OutputManager discards everything, so output can be switched off.
type OutputManager struct {
	dir       string
	ticksFile *os.File

	ticksHeaderWritten bool
}

// NewOutputManager creates the output directory. Returns nil if dir is empty.
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, "ticks.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}

	return &OutputManager{dir: dir, ticksFile: f}, nil
}

// WriteConfig saves the configuration used for the run as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTick appends one tick row to ticks.csv.
func (om *OutputManager) WriteTick(stats TickStats) error {
	if om == nil {
		return nil
	}

	records := []TickStats{stats}
	if !om.ticksHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.ticksFile); err != nil {
			return fmt.Errorf("writing tick: %w", err)
		}
		om.ticksHeaderWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, om.ticksFile); err != nil {
		return fmt.Errorf("writing tick: %w", err)
	}
	return nil
}

// WriteRays writes rays.csv.
func (om *OutputManager) WriteRays(summary RaySummary) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "rays.csv"))
	if err != nil {
		return fmt.Errorf("creating rays.csv: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal([]RaySummary{summary}, f); err != nil {
		return fmt.Errorf("writing rays: %w", err)
	}
	return nil
}

// WriteDebug writes recorded primitives to debug.csv.
func (om *OutputManager) WriteDebug(rec *Recorder) error {
	if om == nil || rec == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "debug.csv"))
	if err != nil {
		return fmt.Errorf("creating debug.csv: %w", err)
	}
	defer f.Close()
	return rec.WriteCSV(f)
}

// Close closes the open files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}
	return om.ticksFile.Close()
}
