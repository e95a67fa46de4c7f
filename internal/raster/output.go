package raster

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ctessum/sparse"
	"golang.org/x/image/tiff"

	"github.com/cwfis/firestarr/internal/probability"
)

// OutputOptions controls which output products WriteOutputs produces,
// mirroring the --no-intensity/--no-probability/--occurrence CLI flags
// (spec.md section 6).
type OutputOptions struct {
	Probability bool
	Intensity   bool
	Occurrence  bool
	Interim     bool // prefix every filename with "interim_"
}

// WriteOutputs writes one file set for a single save time: probability,
// occurrence, the three intensity bands, and a sizes CSV, all named per
// spec.md section 6's convention
// "{probability,occurrence,intensity_L,intensity_M,intensity_H}_DDD_YYYY-MM-DD.tif".
func WriteOutputs(dir string, date time.Time, dayOfYear int, pm *probability.Map, transform GeoTransform, opts OutputOptions) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("firestarr: creating output directory: %w", err)
	}
	suffix := fmt.Sprintf("%03d_%s", dayOfYear, date.Format("2006-01-02"))
	prefix := ""
	if opts.Interim {
		prefix = "interim_"
	}

	write := func(name string, grid *sparse.DenseArray) error {
		path := filepath.Join(dir, fmt.Sprintf("%s%s_%s.tif", prefix, name, suffix))
		if err := writeGeoTIFF(path, grid, pm.ScenarioCount(), transform); err != nil {
			return fmt.Errorf("firestarr: writing %s: %w", name, err)
		}
		return nil
	}

	if opts.Probability {
		if err := write("probability", pm.Grid("total")); err != nil {
			return err
		}
	}
	if opts.Occurrence {
		if err := write("occurrence", pm.Grid("occurrence")); err != nil {
			return err
		}
	}
	if opts.Intensity {
		if err := write("intensity_L", pm.Grid("low")); err != nil {
			return err
		}
		if err := write("intensity_M", pm.Grid("moderate")); err != nil {
			return err
		}
		if err := write("intensity_H", pm.Grid("high")); err != nil {
			return err
		}
	}

	if opts.Probability || opts.Occurrence {
		perimPath := filepath.Join(dir, fmt.Sprintf("%sperimeter_%s.shp", prefix, suffix))
		if err := WritePerimeterShapefile(perimPath, ConvexHullOfProbability(pm, transform)); err != nil {
			return err
		}
	}

	sizesPath := filepath.Join(dir, fmt.Sprintf("%ssizes_%s.csv", prefix, suffix))
	return writeSizesCSV(sizesPath, pm.Sizes())
}

// writeGeoTIFF encodes a count grid as a gray16 GeoTIFF scaled to a 0..1
// probability fraction (count/scenarioCount), then writes the matching
// world file beside it.
func writeGeoTIFF(path string, grid *sparse.DenseArray, scenarioCount int, transform GeoTransform) error {
	shape := grid.Shape
	rows, cols := shape[0], shape[1]
	img := image.NewGray16(image.Rect(0, 0, cols, rows))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			frac := 0.0
			if scenarioCount > 0 {
				frac = grid.Get(r, c) / float64(scenarioCount)
			}
			v := uint16(frac * 65535)
			img.SetGray16(c, r, color.Gray16{Y: v})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true}); err != nil {
		return err
	}

	return writeWorldFile(worldFilePath(path), transform)
}

func worldFilePath(tifPath string) string {
	ext := filepath.Ext(tifPath)
	return tifPath[:len(tifPath)-len(ext)] + ".tfw"
}

func writeWorldFile(path string, t GeoTransform) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%v\n0.0\n0.0\n%v\n%v\n%v\n", t.CellSizeX, t.CellSizeY, t.OriginX, t.OriginY)
	return err
}

// writeSizesCSV writes one final fire size per line, the format spec.md
// section 6 names for "sizes_DDD_YYYY-MM-DD.csv".
func writeSizesCSV(path string, sizes []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return writeSizes(f, sizes)
}

func writeSizes(w io.Writer, sizes []float64) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	for _, sz := range sizes {
		if err := cw.Write([]string{strconv.FormatFloat(sz, 'f', 4, 64)}); err != nil {
			return err
		}
	}
	return cw.Error()
}

// RemoveInterim deletes every "interim_"-prefixed file in dir, run at the
// start of a clean run (spec.md section 5's PATHS_INTERIM cleanup).
func RemoveInterim(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if len(e.Name()) >= len("interim_") && e.Name()[:len("interim_")] == "interim_" {
			if err := os.Remove(filepath.Join(dir, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
