package raster

import (
	"strings"
	"testing"
)

func TestReadWorldFileParsesSixLines(t *testing.T) {
	wf := "100.0\n0.0\n0.0\n-100.0\n500000.0\n6000000.0\n"
	tr, err := ReadWorldFile(strings.NewReader(wf))
	if err != nil {
		t.Fatalf("ReadWorldFile: %v", err)
	}
	if tr.CellSizeX != 100 || tr.CellSizeY != -100 {
		t.Fatalf("unexpected cell size: %+v", tr)
	}
	if tr.OriginX != 500000 || tr.OriginY != 6000000 {
		t.Fatalf("unexpected origin: %+v", tr)
	}
	if tr.CellSizeM() != 100 {
		t.Fatalf("expected CellSizeM 100, got %v", tr.CellSizeM())
	}
}

func TestReadWorldFileRejectsShortFile(t *testing.T) {
	if _, err := ReadWorldFile(strings.NewReader("100.0\n0.0\n")); err == nil {
		t.Fatalf("expected an error for a truncated world file")
	}
}

func TestCellCenterAndRowColRoundTrip(t *testing.T) {
	tr := GeoTransform{OriginX: 0, OriginY: 1000, CellSizeX: 10, CellSizeY: -10}
	x, y := tr.CellCenter(3, 4)
	row, col := tr.RowCol(x, y)
	if row != 3 || col != 4 {
		t.Fatalf("expected round trip to (3,4), got (%d,%d)", row, col)
	}
}
