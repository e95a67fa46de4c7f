// Package raster implements the GeoTIFF-backed Grid the simulator spreads
// fire across, the fuel lookup table wiring, perimeter ingestion from
// raster or shapefile sources, and the probability/intensity/occurrence
// output writers (spec.md section 6).
package raster

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/ctessum/geom/proj"
)

// GeoTransform is the affine map between (row, column) raster indices and
// real-world (x, y) coordinates, following the standard six-parameter
// world-file convention (pixel size, rotation, origin): x = originX +
// col*cellSizeX, y = originY + row*cellSizeY (cellSizeY is negative for a
// north-up raster, matching a .tfw file's 6th line being the northernmost
// extent and 4th line being negative).
type GeoTransform struct {
	OriginX, OriginY       float64
	CellSizeX, CellSizeY   float64
	SR                     *proj.SR
}

// CellSizeM is the absolute ground size of one cell, assumed square
// (spec.md's SpreadInfo.cell_size_m).
func (t GeoTransform) CellSizeM() float64 {
	cx, cy := t.CellSizeX, t.CellSizeY
	if cx < 0 {
		cx = -cx
	}
	if cy < 0 {
		cy = -cy
	}
	return (cx + cy) / 2
}

// CellCenter returns the real-world coordinate of the center of (row, col).
func (t GeoTransform) CellCenter(row, col int) (x, y float64) {
	x = t.OriginX + float64(col)*t.CellSizeX
	y = t.OriginY + float64(row)*t.CellSizeY
	return x, y
}

// RowCol returns the raster cell containing real-world coordinate (x, y).
func (t GeoTransform) RowCol(x, y float64) (row, col int) {
	col = int(math.Floor((x-t.OriginX)/t.CellSizeX + 0.5))
	row = int(math.Floor((y-t.OriginY)/t.CellSizeY + 0.5))
	return row, col
}

// ReadWorldFile parses a six-line ESRI world file (.tfw/.wld): pixel size
// X, rotation, rotation, pixel size Y, origin X, origin Y of the top-left
// pixel's center. golang.org/x/image/tiff decodes pixel data only, not
// georeferencing tags, so firestarr follows the common lightweight
// alternative of a companion world file rather than a full GeoTIFF tag
// parser.
func ReadWorldFile(r io.Reader) (GeoTransform, error) {
	sc := bufio.NewScanner(r)
	var vals []float64
	for sc.Scan() && len(vals) < 6 {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return GeoTransform{}, fmt.Errorf("firestarr: parsing world file line %q: %w", line, err)
		}
		vals = append(vals, v)
	}
	if len(vals) != 6 {
		return GeoTransform{}, fmt.Errorf("firestarr: world file needs 6 lines, got %d", len(vals))
	}
	return GeoTransform{
		CellSizeX: vals[0],
		CellSizeY: vals[3],
		OriginX:   vals[4],
		OriginY:   vals[5],
	}, nil
}

// ParseSR parses a spatial reference definition (WKT or PROJ4), used only
// to validate and carry the fuel raster's coordinate system through to
// output files; firestarr never reprojects, it only checks that inputs
// agree (spec.md section 6: "coordinate system... match the fuel raster").
func ParseSR(def string) (*proj.SR, error) {
	if strings.TrimSpace(def) == "" {
		return nil, nil
	}
	sr, err := proj.Parse(def)
	if err != nil {
		return nil, fmt.Errorf("firestarr: parsing spatial reference: %w", err)
	}
	return sr, nil
}
