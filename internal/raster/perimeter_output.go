package raster

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// WritePerimeterShapefile writes poly as a single-record polygon
// shapefile, the final-perimeter product spec.md section 6 names
// alongside the probability/intensity rasters. It follows the same
// encoding/shp.NewEncoderFromFields + EncodeFields + Close sequence the
// original inmap output writer uses for its own shapefile products,
// rather than the raw jonas-p/go-shp API perimeter.go uses for reading.
func WritePerimeterShapefile(path string, poly geom.Polygon) error {
	if len(poly) == 0 {
		return nil
	}
	fields := []goshp.Field{goshp.NumberField("id", 10)}
	enc, err := shp.NewEncoderFromFields(path, goshp.POLYGON, fields...)
	if err != nil {
		return fmt.Errorf("firestarr: creating perimeter shapefile: %w", err)
	}
	if err := enc.EncodeFields(poly, 0); err != nil {
		enc.Close()
		return fmt.Errorf("firestarr: writing perimeter shapefile: %w", err)
	}
	enc.Close()
	return nil
}
