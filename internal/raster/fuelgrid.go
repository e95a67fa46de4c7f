package raster

import (
	"fmt"
	"image"
	"io"

	"github.com/ctessum/sparse"
	"golang.org/x/image/tiff"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
)

// Grid implements scenario.Grid over a fuel/slope/aspect raster triplet.
// SpreadKeys are resolved once at load time (via the fuel Lut) rather than
// per-hour, matching the packed-key design of spec.md section 4.A: the
// costly raster-value-to-fuel-type translation happens once per cell, and
// SpreadInfo's per-hour cache only ever sees the already-resolved code.
type Grid struct {
	rows, cols int32
	transform  GeoTransform
	keys       []grid.SpreadKey // row-major, len == rows*cols
}

// LoadGrid builds a Grid from decoded fuel/slope/aspect rasters and a Lut.
// fuelImg, slopeImg, aspectImg must share dimensions; slope is in percent,
// aspect in degrees.
func LoadGrid(fuelImg, slopeImg, aspectImg image.Image, lut *fuel.Lut, transform GeoTransform) (*Grid, error) {
	b := fuelImg.Bounds()
	if slopeImg.Bounds() != b || aspectImg.Bounds() != b {
		return nil, fmt.Errorf("firestarr: fuel/slope/aspect rasters must share dimensions")
	}
	rows, cols := b.Dy(), b.Dx()
	g := &Grid{rows: int32(rows), cols: int32(cols), transform: transform, keys: make([]grid.SpreadKey, rows*cols)}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			px, py := b.Min.X+c, b.Min.Y+r
			gridValue := grayAt(fuelImg, px, py)
			slopePercent := grayAt(slopeImg, px, py)
			aspectDeg := grayAt(aspectImg, px, py)

			t := lut.Fuel(gridValue)
			code := t.Code()
			if _, ok := fuel.Library[code]; !ok || !t.IsValid() {
				code = 0 // collapses any non-fuel/unmapped value to the reserved nonfuel sentinel
			}
			g.keys[r*cols+c] = grid.MakeSpreadKey(slopePercent, aspectDeg, code)
		}
	}
	return g, nil
}

// grayAt reads a single-band pixel's intensity as an int, supporting the
// uint8/uint16 gray formats GeoTIFF fuel/slope/aspect rasters commonly use.
func grayAt(img image.Image, x, y int) int {
	switch im := img.(type) {
	case *image.Gray:
		return int(im.GrayAt(x, y).Y)
	case *image.Gray16:
		return int(im.Gray16At(x, y).Y)
	default:
		r, _, _, _ := img.At(x, y).RGBA()
		return int(r >> 8)
	}
}

// DecodeTIFF decodes a GeoTIFF's pixel data (ignoring any georeferencing
// tags; use ReadWorldFile for that).
func DecodeTIFF(r io.Reader) (image.Image, error) {
	img, err := tiff.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("firestarr: decoding raster: %w", err)
	}
	return img, nil
}

func (g *Grid) Rows() int32        { return g.rows }
func (g *Grid) Cols() int32        { return g.cols }
func (g *Grid) CellSizeM() float64 { return g.transform.CellSizeM() }

func (g *Grid) InBounds(row, col int32) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) CellAt(row, col int32) grid.Cell {
	key := g.keys[int(row)*int(g.cols)+int(col)]
	return grid.NewCellWithKey(grid.NewLocation(row, col), key)
}

// Transform exposes the raster's georeferencing, needed by output writers
// to produce matching world files (spec.md section 6).
func (g *Grid) Transform() GeoTransform { return g.transform }

// ToDense copies one of the raster's packed fields into a DenseArray, for
// callers (e.g. debugging tools) that want a plain numeric grid instead of
// packed SpreadKeys.
func (g *Grid) ToDense(field func(grid.SpreadKey) int) *sparse.DenseArray {
	out := sparse.ZerosDense(int(g.rows), int(g.cols))
	for r := 0; r < int(g.rows); r++ {
		for c := 0; c < int(g.cols); c++ {
			out.Set(float64(field(g.keys[r*int(g.cols)+c])), r, c)
		}
	}
	return out
}
