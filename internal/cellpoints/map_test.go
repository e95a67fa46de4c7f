package cellpoints

import (
	"testing"

	"github.com/cwfis/firestarr/internal/grid"
)

func TestMapInsertRoundTrip(t *testing.T) {
	m := New(nil)
	p := grid.XYPos{X: 10.5, Y: 20.25}
	m.Insert(p)
	loc := grid.NewLocation(20, 10)
	unique := m.UniqueAt(loc)
	if _, ok := unique[p]; !ok {
		t.Fatalf("expected inserted point to round-trip through CellPointsMap")
	}
}

func TestMapUnburnableNeverAccepts(t *testing.T) {
	m := New(func(row, col int32) bool { return col == 70 })
	m.Insert(grid.XYPos{X: 70.5, Y: 1.5})
	loc := grid.NewLocation(1, 70)
	cp, ok := m.Get(loc)
	if !ok {
		t.Fatalf("expected a CellPoints entry to exist even if unburnable")
	}
	if !cp.Empty() {
		t.Fatalf("expected unburnable cell to reject the insert")
	}
}

func TestMapRemoveIfStableDuringTraversal(t *testing.T) {
	m := New(nil)
	for i := int32(0); i < 10; i++ {
		m.Insert(grid.XYPos{X: float64(i) + 0.5, Y: 0.5})
	}
	m.RemoveIf(func(loc grid.Location, cp *CellPoints) bool {
		return loc.Column()%2 == 0
	})
	if m.Len() != 5 {
		t.Fatalf("expected 5 remaining cells, got %d", m.Len())
	}
}

func TestMapMergeSkipsUnburnable(t *testing.T) {
	dst := New(func(row, col int32) bool { return col == 5 })
	src := New(nil)
	src.Insert(grid.XYPos{X: 5.5, Y: 0.5})
	src.Insert(grid.XYPos{X: 6.5, Y: 0.5})
	dst.Merge(src)
	if _, ok := dst.Get(grid.NewLocation(0, 5)); ok {
		t.Fatalf("expected merge to skip the unburnable cell")
	}
	if _, ok := dst.Get(grid.NewLocation(0, 6)); !ok {
		t.Fatalf("expected merge to bring in the burnable cell")
	}
}
