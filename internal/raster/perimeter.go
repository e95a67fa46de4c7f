package raster

import (
	"io"

	"github.com/jonas-p/go-shp"

	"github.com/cwfis/firestarr/internal/grid"
)

// PerimeterFromRaster reads a uint8 GeoTIFF where any non-zero pixel marks
// a burned cell, returning every burned cell's Location (spec.md section
// 6's optional perimeter raster input).
func PerimeterFromRaster(r io.Reader) ([]grid.Location, error) {
	img, err := DecodeTIFF(r)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	var out []grid.Location
	for row := 0; row < b.Dy(); row++ {
		for col := 0; col < b.Dx(); col++ {
			if grayAt(img, b.Min.X+col, b.Min.Y+row) != 0 {
				out = append(out, grid.NewLocation(int32(row), int32(col)))
			}
		}
	}
	return out, nil
}

// PerimeterFromShapefile reads a polygon shapefile and rasterizes every
// ring's interior cells against transform, an alternate perimeter input
// to the raster form (spec.md section 6).
func PerimeterFromShapefile(path string, transform GeoTransform, rows, cols int32) ([]grid.Location, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	seen := map[int64]bool{}
	var out []grid.Location
	for reader.Next() {
		_, shape := reader.Shape()
		if p, ok := shape.(*shp.Polygon); ok {
			rasterizePolygon(p.Points, transform, rows, cols, seen, &out)
		}
	}
	return out, nil
}

// rasterizePolygon fills every grid cell whose center falls inside the
// ring described by pts, using the standard even-odd point-in-polygon
// test (no holes support needed for a fire perimeter ring).
func rasterizePolygon(pts []shp.Point, transform GeoTransform, rows, cols int32, seen map[int64]bool, out *[]grid.Location) {
	if len(pts) < 3 {
		return
	}
	minRow, minCol := rows, cols
	var maxRow, maxCol int32
	for _, p := range pts {
		r, c := transform.RowCol(p.X, p.Y)
		if int32(r) < minRow {
			minRow = int32(r)
		}
		if int32(r) > maxRow {
			maxRow = int32(r)
		}
		if int32(c) < minCol {
			minCol = int32(c)
		}
		if int32(c) > maxCol {
			maxCol = int32(c)
		}
	}
	if minRow < 0 {
		minRow = 0
	}
	if minCol < 0 {
		minCol = 0
	}
	if maxRow >= rows {
		maxRow = rows - 1
	}
	if maxCol >= cols {
		maxCol = cols - 1
	}

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			x, y := transform.CellCenter(int(row), int(col))
			if !pointInRing(x, y, pts) {
				continue
			}
			loc := grid.NewLocation(row, col)
			h := loc.Hash()
			if !seen[h] {
				seen[h] = true
				*out = append(*out, loc)
			}
		}
	}
}

func pointInRing(x, y float64, pts []shp.Point) bool {
	inside := false
	n := len(pts)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		pi, pj := pts[i], pts[j]
		if (pi.Y > y) != (pj.Y > y) &&
			x < (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y)+pi.X {
			inside = !inside
		}
	}
	return inside
}
