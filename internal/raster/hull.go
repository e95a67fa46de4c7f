package raster

import (
	"sort"

	"github.com/ctessum/geom"

	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/probability"
)

// ConvexHull computes the convex hull of every burned cell's center in im
// and returns it as a closed geom.Polygon ring, grounded on
// original_source's ConvexHull.cpp (ported here as Andrew's monotone
// chain rather than line-for-line, since the source's variant is a
// general-purpose 2D hull with no firestarr-specific behavior to match).
func ConvexHull(im *intensity.Map, transform GeoTransform) geom.Polygon {
	var pts []geom.Point
	for r := 0; r < im.Rows(); r++ {
		for c := 0; c < im.Cols(); c++ {
			if im.BurnedAt(r, c) {
				x, y := transform.CellCenter(r, c)
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return hullOfPoints(pts)
}

// ConvexHullOfProbability computes the convex hull of every cell center
// that burned in at least one scenario of pm, the same hull ConvexHull
// would produce from a single scenario's IntensityMap but taken over the
// union of an entire save time's occurrences. WriteOutputs uses this to
// emit one final-perimeter polygon alongside the probability rasters.
func ConvexHullOfProbability(pm *probability.Map, transform GeoTransform) geom.Polygon {
	var pts []geom.Point
	occurs := pm.Grid("occurrence")
	for r := 0; r < pm.Rows(); r++ {
		for c := 0; c < pm.Cols(); c++ {
			if occurs.Get(r, c) > 0 {
				x, y := transform.CellCenter(r, c)
				pts = append(pts, geom.Point{X: x, Y: y})
			}
		}
	}
	return hullOfPoints(pts)
}

func hullOfPoints(pts []geom.Point) geom.Polygon {
	hull := monotoneChain(pts)
	if len(hull) == 0 {
		return nil
	}
	return geom.Polygon{hull}
}

func monotoneChain(pts []geom.Point) []geom.Point {
	if len(pts) < 3 {
		return pts
	}
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	cross := func(o, a, b geom.Point) float64 {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	lower := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}
	upper := make([]geom.Point, 0, len(pts))
	for i := len(pts) - 1; i >= 0; i-- {
		p := pts[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}
	hull := append(lower[:len(lower)-1], upper[:len(upper)-1]...)
	hull = append(hull, hull[0])
	return hull
}
