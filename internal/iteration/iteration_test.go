package iteration

import (
	"context"
	"testing"
	"time"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/scenario"
	"github.com/cwfis/firestarr/internal/weather"
)

type fakeGrid struct {
	rows, cols int32
	cellSizeM  float64
	key        grid.SpreadKey
}

func (g *fakeGrid) Rows() int32        { return g.rows }
func (g *fakeGrid) Cols() int32        { return g.cols }
func (g *fakeGrid) CellSizeM() float64 { return g.cellSizeM }
func (g *fakeGrid) InBounds(row, col int32) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
func (g *fakeGrid) CellAt(row, col int32) grid.Cell {
	return grid.NewCellWithKey(grid.NewLocation(row, col), g.key)
}

func windyStream(scenarios, days int) *weather.Stream {
	s := &weather.Stream{Scenarios: map[int][]weather.Day{}}
	for n := 1; n <= scenarios; n++ {
		ds := make([]weather.Day, days)
		for i := range ds {
			ds[i] = weather.Day{Temp: 28, RH: 25, WS: 25, WD: 270}
		}
		s.Scenarios[n] = ds
	}
	return s
}

func TestModelRunAccumulatesProbabilityAndSizes(t *testing.T) {
	g := &fakeGrid{rows: 30, cols: 30, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	sCfg := scenario.DefaultConfig()
	sCfg.Deterministic = true
	sCfg.DayFFMCThreshold = 0
	sCfg.NightFFMCThreshold = 0

	ign := Ignition{
		StartTime:  0,
		StartCell:  g.CellAt(15, 15),
		SavePoints: []float64{1.0},
	}
	cfg := Config{ConfidenceLevel: 0.95, Workers: 2, ScenarioPerSeed: 4}
	m := New(cfg, g, sCfg, weather.Startup{FFMC: 90, DMC: 30, DC: 300}, ign)

	stream := windyStream(4, 2)
	nums := []int{1, 2, 3, 4}
	if err := m.Run(context.Background(), stream, nums, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if m.IterationsRun() == 0 {
		t.Fatalf("expected at least one iteration to run")
	}
	pm := m.ProbabilityMaps()[1.0]
	if pm == nil {
		t.Fatalf("expected a probability map for save time 1.0")
	}
	if pm.ScenarioCount() != 4 {
		t.Fatalf("expected 4 scenarios folded in, got %d", pm.ScenarioCount())
	}
	sizes := m.Sizes()
	if len(sizes) != 4 {
		t.Fatalf("expected 4 recorded sizes, got %d", len(sizes))
	}
	for i := 1; i < len(sizes); i++ {
		if sizes[i-1] > sizes[i] {
			t.Fatalf("expected sizes sorted, got %v", sizes)
		}
	}
}

func TestModelDeterministicStopsImmediately(t *testing.T) {
	g := &fakeGrid{rows: 20, cols: 20, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	sCfg := scenario.DefaultConfig()
	sCfg.Deterministic = true
	sCfg.DayFFMCThreshold = 0
	sCfg.NightFFMCThreshold = 0

	ign := Ignition{StartCell: g.CellAt(10, 10), SavePoints: []float64{0.5}}
	cfg := Config{ConfidenceLevel: 0.95, Workers: 1, ScenarioPerSeed: 2}
	m := New(cfg, g, sCfg, weather.Startup{FFMC: 85, DMC: 20, DC: 200}, ign)

	stream := windyStream(6, 1)
	nums := []int{1, 2, 3, 4, 5, 6}
	if err := m.Run(context.Background(), stream, nums, 7); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if m.IterationsRun() != 1 {
		t.Fatalf("expected deterministic mode to stop after one iteration, ran %d", m.IterationsRun())
	}
}

func TestModelCancelStopsFanOut(t *testing.T) {
	g := &fakeGrid{rows: 20, cols: 20, cellSizeM: 100, key: grid.MakeSpreadKey(0, 0, fuel.CodeC2)}
	sCfg := scenario.DefaultConfig()
	sCfg.DayFFMCThreshold = 0
	sCfg.NightFFMCThreshold = 0

	ign := Ignition{StartCell: g.CellAt(10, 10), SavePoints: []float64{5.0}}
	cfg := Config{ConfidenceLevel: 0.95, Workers: 1, ScenarioPerSeed: 1}
	m := New(cfg, g, sCfg, weather.Startup{FFMC: 85, DMC: 20, DC: 200}, ign)
	m.Cancel()

	stream := windyStream(1, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.Run(ctx, stream, []int{1}, 1); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if m.IterationsRun() != 0 {
		t.Fatalf("expected a pre-cancelled Model to run zero iterations, ran %d", m.IterationsRun())
	}
}

func TestTValueDecreasesWithMoreSamples(t *testing.T) {
	small := tValue(3, 0.95)
	large := tValue(200, 0.95)
	if !(large < small) {
		t.Fatalf("expected critical t-value to shrink as n grows: n=3 -> %v, n=200 -> %v", small, large)
	}
}

func TestPercentile95OfUniformSpread(t *testing.T) {
	vals := make([]float64, 101)
	for i := range vals {
		vals[i] = float64(i)
	}
	got := percentile95(vals)
	if got != 95 {
		t.Fatalf("expected 95th percentile of 0..100 to be 95, got %v", got)
	}
}
