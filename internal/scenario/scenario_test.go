package scenario

import (
	"testing"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/weather"
)

// fakeGrid is a uniform, flat, single-fuel-type test surface.
type fakeGrid struct {
	rows, cols int32
	cellSizeM  float64
	key        grid.SpreadKey
}

func (g *fakeGrid) Rows() int32         { return g.rows }
func (g *fakeGrid) Cols() int32         { return g.cols }
func (g *fakeGrid) CellSizeM() float64  { return g.cellSizeM }
func (g *fakeGrid) InBounds(row, col int32) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
func (g *fakeGrid) CellAt(row, col int32) grid.Cell {
	return grid.NewCellWithKey(grid.NewLocation(row, col), g.key)
}

func windyDays(n int) []weather.Day {
	days := make([]weather.Day, n)
	for i := range days {
		days[i] = weather.Day{Temp: 28, RH: 25, WS: 25, WD: 270, Prec: 0}
	}
	return days
}

func TestScenarioIgnitionSpreadsAndSaves(t *testing.T) {
	g := &fakeGrid{rows: 40, cols: 40, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	cfg := DefaultConfig()
	cfg.Deterministic = true
	cfg.DayFFMCThreshold = 0
	cfg.NightFFMCThreshold = 0

	s := New(cfg, g, windyDays(3), weather.Startup{FFMC: 90, DMC: 30, DC: 300}, 1)

	saveCount := 0
	var lastSize float64
	s.OnSave = func(tm float64, im *intensity.Map) {
		saveCount++
		lastSize = im.FireSize()
	}

	startCell := g.CellAt(20, 20)
	if err := s.Run(0.0, startCell, nil, []float64{1.0, 2.0}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if saveCount != 2 {
		t.Fatalf("expected 2 save callbacks, got %d", saveCount)
	}
	if s.Intensity().FireSize() <= 0 {
		t.Fatalf("expected fire to have spread beyond ignition, size=%v", s.Intensity().FireSize())
	}
	if lastSize <= 0 {
		t.Fatalf("expected nonzero size at last save")
	}
	if s.FinalSize <= 0 {
		t.Fatalf("expected FinalSize to be recorded at last save point")
	}
}

func TestScenarioOutOfBoundsSpreadStaysZeroWhenFireStaysInside(t *testing.T) {
	g := &fakeGrid{rows: 40, cols: 40, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	cfg := DefaultConfig()
	cfg.Deterministic = true
	cfg.DayFFMCThreshold = 0
	cfg.NightFFMCThreshold = 0

	s := New(cfg, g, windyDays(3), weather.Startup{FFMC: 90, DMC: 30, DC: 300}, 1)
	startCell := g.CellAt(20, 20)
	if err := s.Run(0.0, startCell, nil, []float64{1.0}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := s.OutOfBoundsSpreadCount(); got != 0 {
		t.Fatalf("expected oob_spread to stay 0 for a fire well inside the grid, got %d", got)
	}
}

func TestScenarioOutOfBoundsSpreadCountsDroppedDestinations(t *testing.T) {
	g := &fakeGrid{rows: 3, cols: 3, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	cfg := DefaultConfig()
	cfg.Deterministic = true
	cfg.DayFFMCThreshold = 0
	cfg.NightFFMCThreshold = 0

	s := New(cfg, g, windyDays(3), weather.Startup{FFMC: 90, DMC: 30, DC: 300}, 1)
	startCell := g.CellAt(1, 1)
	if err := s.Run(0.0, startCell, nil, []float64{1.0, 2.0}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := s.OutOfBoundsSpreadCount(); got <= 0 {
		t.Fatalf("expected oob_spread to count destinations falling off a tiny grid, got %d", got)
	}
}

func TestScenarioCancelStopsLoop(t *testing.T) {
	g := &fakeGrid{rows: 40, cols: 40, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	cfg := DefaultConfig()
	cfg.Deterministic = true
	cfg.DayFFMCThreshold = 0
	cfg.NightFFMCThreshold = 0
	s := New(cfg, g, windyDays(3), weather.Startup{FFMC: 90, DMC: 30, DC: 300}, 1)
	s.Cancel()
	startCell := g.CellAt(20, 20)
	if err := s.Run(0.0, startCell, nil, []float64{1.0}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
