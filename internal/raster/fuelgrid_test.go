package raster

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/cwfis/firestarr/internal/fuel"
)

func buildGray(w, h int, fill func(x, y int) uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: fill(x, y)})
		}
	}
	return img
}

func testLut(t *testing.T) *fuel.Lut {
	t.Helper()
	csv := "grid_value,export_value,descriptive_name,fuel_type\n" +
		"1,1,C2 stand,C2\n" +
		"0,0,nodata,\n"
	lut, err := fuel.LoadLut(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("LoadLut: %v", err)
	}
	return lut
}

func TestLoadGridResolvesFuelCodesAndNonFuel(t *testing.T) {
	lut := testLut(t)
	fuelImg := buildGray(4, 3, func(x, y int) uint8 {
		if x == 0 {
			return 0 // nodata column stays non-fuel
		}
		return 1
	})
	slopeImg := buildGray(4, 3, func(x, y int) uint8 { return 20 })
	aspectImg := buildGray(4, 3, func(x, y int) uint8 { return 180 })

	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	g, err := LoadGrid(fuelImg, slopeImg, aspectImg, lut, transform)
	if err != nil {
		t.Fatalf("LoadGrid: %v", err)
	}
	if g.Rows() != 3 || g.Cols() != 4 {
		t.Fatalf("unexpected dims %dx%d", g.Rows(), g.Cols())
	}

	nonFuelKey := g.CellAt(1, 0).Key()
	if nonFuelKey.FuelCode() != 0 {
		t.Fatalf("expected nodata column to resolve to fuel code 0, got %d", nonFuelKey.FuelCode())
	}
	fuelKey := g.CellAt(1, 1).Key()
	if fuelKey.FuelCode() != fuel.CodeC2 {
		t.Fatalf("expected fuel code %d, got %d", fuel.CodeC2, fuelKey.FuelCode())
	}
	if fuelKey.Slope() != 20 || fuelKey.Aspect() != 180 {
		t.Fatalf("unexpected slope/aspect packing: %+v", fuelKey)
	}
}

func TestLoadGridRejectsMismatchedDimensions(t *testing.T) {
	lut := testLut(t)
	fuelImg := buildGray(4, 3, func(x, y int) uint8 { return 1 })
	slopeImg := buildGray(3, 3, func(x, y int) uint8 { return 0 })
	aspectImg := buildGray(4, 3, func(x, y int) uint8 { return 0 })
	if _, err := LoadGrid(fuelImg, slopeImg, aspectImg, lut, GeoTransform{}); err == nil {
		t.Fatalf("expected an error for mismatched raster dimensions")
	}
}
