package spread

import (
	"math"
	"testing"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
)

func makeKey(slope, aspect, fuelCode int) grid.SpreadKey {
	return grid.MakeSpreadKey(slope, aspect, fuelCode)
}

func testParams() Params {
	return Params{CellSizeM: 100, MinROS: 0.05, MaxAngleDeg: 10}
}

func calmWeather() fuel.Weather {
	return fuel.Weather{FFMC: 88, DMC: 30, DC: 300, BUI: 40, ISI: 5, WS: 10, WD: 0, TEMP: 25, RH: 30, FMC: 100}
}

func TestNonFuelNeverSpreads(t *testing.T) {
	info := Compute(testParams(), fuel.NewNonFuel(65, "water"), 0, 0, calmWeather(), 0)
	if !info.NoSpread {
		t.Fatalf("expected non-fuel to report no-spread")
	}
}

func TestFlatGroundHeadAndBackROS(t *testing.T) {
	w := calmWeather()
	info := Compute(testParams(), fuel.Library[fuel.CodeC2], 0, 0, w, 0)
	if info.NoSpread {
		t.Fatalf("expected C2 under moderate wind to spread")
	}
	if info.HeadROS <= info.BackROS {
		t.Fatalf("expected head ROS (%v) > back ROS (%v) under wind", info.HeadROS, info.BackROS)
	}
	if info.LengthToBreadth <= 1 {
		t.Fatalf("expected L/B > 1 under wind, got %v", info.LengthToBreadth)
	}
}

func TestEllipseSymmetryOnFlatGround(t *testing.T) {
	w := calmWeather()
	info := Compute(testParams(), fuel.Library[fuel.CodeC2], 0, 0, w, 0)
	if info.NoSpread {
		t.Fatalf("expected spread")
	}
	byDir := map[int]float64{}
	for _, o := range info.Offsets {
		deg := int(math.Round(o.Direction * 180 / math.Pi))
		byDir[deg] = o.ROS
	}
	// Flat ground: ROS at raz+theta must equal ROS at raz-theta.
	raz := int(math.Round(info.HeadRAZ * 180 / math.Pi))
	for delta := 10; delta <= 80; delta += 10 {
		plus, okP := byDir[fixDeg(raz+delta)]
		minus, okM := byDir[fixDeg(raz-delta)]
		if okP && okM && math.Abs(plus-minus) > 1e-6 {
			t.Fatalf("expected symmetric ROS at +-%d degrees, got %v vs %v", delta, plus, minus)
		}
	}
}

func fixDeg(d int) int {
	for d < 0 {
		d += 360
	}
	for d >= 360 {
		d -= 360
	}
	return d
}

func TestHeadROSBelowMinimumReportsNoSpread(t *testing.T) {
	p := testParams()
	p.MinROS = 1e6
	info := Compute(p, fuel.Library[fuel.CodeC2], 0, 0, calmWeather(), 0)
	if !info.NoSpread {
		t.Fatalf("expected spread suppressed by an unreachable min ROS")
	}
}

func TestSlopeIncreasesEffectiveHeadROS(t *testing.T) {
	w := calmWeather()
	w.WS = 0
	flat := Compute(testParams(), fuel.Library[fuel.CodeC2], 0, 0, w, 0)
	sloped := Compute(testParams(), fuel.Library[fuel.CodeC2], 40, 180, w, 0)
	if sloped.NoSpread {
		t.Fatalf("expected slope-driven spread with zero wind")
	}
	if sloped.HeadROS <= flat.HeadROS {
		t.Fatalf("expected slope to increase head ROS beyond flat/no-wind baseline: flat=%v sloped=%v", flat.HeadROS, sloped.HeadROS)
	}
}

func TestCacheMemoizesPerKey(t *testing.T) {
	key := makeKey(10, 90, fuel.CodeC2)
	c := NewCache(testParams(), calmWeather(), 0)
	a := c.Get(key)
	b := c.Get(key)
	if a.HeadROS != b.HeadROS {
		t.Fatalf("expected memoized Info to be stable across calls")
	}
	if c.Len() != 1 {
		t.Fatalf("expected exactly one cached entry, got %d", c.Len())
	}
}
