package raster

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/probability"
)

func TestWriteSizesCSVOneSizePerLine(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSizes(&buf, []float64{1.5, 2.25, 10}); err != nil {
		t.Fatalf("writeSizes: %v", err)
	}
	lines := bytes.Count(buf.Bytes(), []byte("\n"))
	if lines != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", lines, buf.String())
	}
}

func TestWriteOutputsProducesExpectedFileSet(t *testing.T) {
	dir := t.TempDir()

	im := intensity.New(5, 5, 100)
	im.Burn(grid.NewLocation(2, 2), 100, 1, 0)
	pm := probability.New(5, 5)
	pm.AddProbability(im)

	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100, OriginX: 0, OriginY: 500}
	date := time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC)
	opts := OutputOptions{Probability: true, Intensity: true, Occurrence: true}
	if err := WriteOutputs(dir, date, 196, pm, transform, opts); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}

	want := []string{
		"probability_196_2026-07-15.tif",
		"probability_196_2026-07-15.tfw",
		"occurrence_196_2026-07-15.tif",
		"intensity_L_196_2026-07-15.tif",
		"intensity_M_196_2026-07-15.tif",
		"intensity_H_196_2026-07-15.tif",
		"sizes_196_2026-07-15.csv",
	}
	for _, name := range want {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Fatalf("expected output file %s: %v", name, err)
		}
	}
}

func TestWriteOutputsPrefixesInterim(t *testing.T) {
	dir := t.TempDir()
	pm := probability.New(3, 3)
	transform := GeoTransform{CellSizeX: 100, CellSizeY: -100}
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	opts := OutputOptions{Probability: true, Interim: true}
	if err := WriteOutputs(dir, date, 1, pm, transform, opts); err != nil {
		t.Fatalf("WriteOutputs: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "interim_probability_001_2026-01-01.tif")); err != nil {
		t.Fatalf("expected interim-prefixed file: %v", err)
	}
}

func TestRemoveInterimDeletesOnlyInterimFiles(t *testing.T) {
	dir := t.TempDir()
	keep := filepath.Join(dir, "probability_001_2026-01-01.tif")
	drop := filepath.Join(dir, "interim_probability_001_2026-01-01.tif")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(drop, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := RemoveInterim(dir); err != nil {
		t.Fatalf("RemoveInterim: %v", err)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("expected non-interim file to survive: %v", err)
	}
	if _, err := os.Stat(drop); !os.IsNotExist(err) {
		t.Fatalf("expected interim file to be removed")
	}
}
