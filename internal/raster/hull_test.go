package raster

import (
	"testing"

	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/probability"
)

func TestConvexHullOfSquareBurnHasFourCorners(t *testing.T) {
	im := intensity.New(10, 10, 100)
	for r := 2; r <= 5; r++ {
		for c := 2; c <= 5; c++ {
			im.Burn(grid.NewLocation(int32(r), int32(c)), 100, 1, 0)
		}
	}
	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	hull := ConvexHull(im, transform)
	if len(hull) != 1 {
		t.Fatalf("expected a single ring, got %d", len(hull))
	}
	ring := hull[0]
	if len(ring) < 4 {
		t.Fatalf("expected at least 4 hull points for a square burn, got %d", len(ring))
	}
	if ring[0] != ring[len(ring)-1] {
		t.Fatalf("expected a closed ring")
	}
}

func TestConvexHullOfEmptyBurnIsNil(t *testing.T) {
	im := intensity.New(5, 5, 100)
	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	if hull := ConvexHull(im, transform); hull != nil {
		t.Fatalf("expected nil hull for an unburned map, got %v", hull)
	}
}

func TestConvexHullOfProbabilityUnionsScenarios(t *testing.T) {
	pm := probability.New(10, 10)
	for _, corner := range [][2]int32{{2, 2}, {2, 5}, {5, 2}, {5, 5}} {
		im := intensity.New(10, 10, 100)
		im.Burn(grid.NewLocation(corner[0], corner[1]), 100, 1, 0)
		pm.AddProbability(im)
	}
	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	hull := ConvexHullOfProbability(pm, transform)
	if len(hull) != 1 {
		t.Fatalf("expected a single ring, got %d", len(hull))
	}
	if ring := hull[0]; len(ring) < 4 {
		t.Fatalf("expected at least 4 hull points spanning all scenarios, got %d", len(ring))
	}
}

func TestConvexHullOfProbabilityEmptyIsNil(t *testing.T) {
	pm := probability.New(5, 5)
	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	if hull := ConvexHullOfProbability(pm, transform); hull != nil {
		t.Fatalf("expected nil hull for a map with no scenarios, got %v", hull)
	}
}
