package fuel

import (
	"math"
	"strings"
	"testing"
)

func TestNonFuelNeverSpreads(t *testing.T) {
	nf := NewNonFuel(0, "nodata")
	w := Weather{BUI: 50, FFMC: 90}
	if nf.CalculateROS(0, w, 10) != 0 {
		t.Fatalf("expected non-fuel ROS to be zero")
	}
	if nf.IsValid() {
		t.Fatalf("expected non-fuel to be invalid")
	}
}

func TestROSIncreasesWithISI(t *testing.T) {
	c2 := Library[CodeC2]
	w := Weather{BUI: 60}
	low := c2.CalculateROS(0, w, 5)
	high := c2.CalculateROS(0, w, 20)
	if !(high > low) {
		t.Fatalf("expected higher ISI to produce higher ROS: %v vs %v", low, high)
	}
}

func TestBUIEffectSaturatesNearOne(t *testing.T) {
	c2 := Library[CodeC2].(fbpFuel)
	be := c2.BUIEffect(1000)
	if be < 0.99 || be > 1.0 {
		t.Fatalf("expected BUI effect to saturate near 1 at very high BUI, got %v", be)
	}
}

func TestCrownFractionBurnedBounded(t *testing.T) {
	c2 := Library[CodeC2]
	cfb := c2.CrownFractionBurned(1000, 1)
	if cfb < 0 || cfb > 1 {
		t.Fatalf("expected CFB in [0,1], got %v", cfb)
	}
}

func TestD1CannotCrown(t *testing.T) {
	d1 := Library[CodeD1]
	if d1.CanCrown() {
		t.Fatalf("expected D1 to never crown")
	}
	if !math.IsInf(d1.CriticalSurfaceIntensity(Weather{FMC: 100}), 1) {
		t.Fatalf("expected CSI to be +Inf for a fuel that can't crown")
	}
}

func TestLookupTableParsesAndMaps(t *testing.T) {
	csvData := "grid_value,export_value,descriptive_name,fuel_type\n" +
		"1,1,Pine,C2\n" +
		"2,2,Water,\n"
	lut, err := LoadLut(strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lut.Fuel(1).Name() != "C2" {
		t.Fatalf("expected grid value 1 to map to C2, got %s", lut.Fuel(1).Name())
	}
	if lut.Fuel(2).IsValid() {
		t.Fatalf("expected grid value 2 (blank fuel_type) to be non-fuel")
	}
	if lut.Fuel(999).IsValid() {
		t.Fatalf("expected unmapped grid value to be non-fuel")
	}
}

func TestLookupTableRejectsUnknownFuelName(t *testing.T) {
	csvData := "grid_value,export_value,descriptive_name,fuel_type\n1,1,Bogus,ZZZ\n"
	if _, err := LoadLut(strings.NewReader(csvData)); err == nil {
		t.Fatalf("expected an error for an unknown fuel_type")
	}
}
