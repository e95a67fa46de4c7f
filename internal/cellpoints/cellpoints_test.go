package cellpoints

import (
	"testing"

	"github.com/cwfis/firestarr/internal/grid"
)

func TestNewBurnableEmpty(t *testing.T) {
	cp := NewBurnable(5, 5)
	if !cp.Empty() {
		t.Fatalf("expected freshly created CellPoints to be empty")
	}
	if len(cp.Unique()) != 0 {
		t.Fatalf("expected empty Unique() set")
	}
}

func TestUnburnableInsertNoop(t *testing.T) {
	cp := NewUnburnable(1, 1)
	cp.Insert(grid.XYPos{X: 1.5, Y: 1.5})
	if !cp.Empty() {
		t.Fatalf("insert into unburnable CellPoints should be a no-op")
	}
}

func TestInsertClosure(t *testing.T) {
	cp := NewBurnable(3, 4)
	cp.Insert(grid.XYPos{X: 4.9, Y: 3.1})
	cp.Insert(grid.XYPos{X: 4.1, Y: 3.9})
	for p := range cp.Unique() {
		row, col := int32(p.Y), int32(p.X)
		if row != 3 || col != 4 {
			t.Fatalf("point %v escaped owning cell (3,4)", p)
		}
	}
}

func TestInsertIdempotent(t *testing.T) {
	cp := NewBurnable(0, 0)
	p := grid.XYPos{X: 0.9, Y: 0.95}
	cp.Insert(p)
	before := cp.slots
	cp.Insert(p)
	if before != cp.slots {
		t.Fatalf("second identical insert changed slot state")
	}
}

func TestInsertMonotoneAndTieDoesNotReplace(t *testing.T) {
	cp := NewBurnable(0, 0)
	// Two points exactly equidistant from the N target (0.5, 1.0).
	a := grid.XYPos{X: 0.4, Y: 0.99}
	b := grid.XYPos{X: 0.6, Y: 0.99}
	cp.Insert(a)
	distAfterA := cp.slots[grid.N].distance
	cp.Insert(b)
	// b ties a for N's target, so it must not have replaced slot N
	// (a slot is replaced only by a strictly closer point).
	if cp.slots[grid.N].distance > distAfterA {
		t.Fatalf("slot distance increased after insert: monotonicity violated")
	}
	if cp.slots[grid.N].point != (grid.InnerPos{X: 0.4, Y: 0.99}) {
		t.Fatalf("tied point replaced slot N: got %v", cp.slots[grid.N].point)
	}
}

func TestUniqueCardinalityBound(t *testing.T) {
	cp := NewBurnable(0, 0)
	for i := 0; i < 200; i++ {
		x := 0.01 * float64(i%100)
		y := 0.01 * float64((i*7)%100)
		cp.Insert(grid.XYPos{X: x, Y: y})
	}
	if len(cp.Unique()) > grid.NumDirections16 {
		t.Fatalf("unique() returned more than 16 points: %d", len(cp.Unique()))
	}
}

func TestSentinelConsistency(t *testing.T) {
	cp := NewBurnable(0, 0)
	if !cp.Empty() || len(cp.Unique()) != 0 {
		t.Fatalf("expected empty<=>unique()==empty to hold before insert")
	}
	cp.Insert(grid.XYPos{X: 0.5, Y: 0.5})
	if cp.Empty() || len(cp.Unique()) == 0 {
		t.Fatalf("expected non-empty<=>unique()!=empty to hold after insert")
	}
}

func TestMergeUnionsPoints(t *testing.T) {
	a := NewBurnable(2, 2)
	a.Insert(grid.XYPos{X: 2.1, Y: 2.9})
	b := NewBurnable(2, 2)
	b.Insert(grid.XYPos{X: 2.9, Y: 2.1})
	a.Merge(b)
	if len(a.Unique()) < 2 {
		t.Fatalf("expected merge to bring in distinct point from b")
	}
}

func TestSourcesIsOrOfArrivals(t *testing.T) {
	cp := NewBurnable(0, 0)
	cp.InsertArrival(grid.XYPos{X: 0.1, Y: 0.1}, grid.DirectionN)
	cp.InsertArrival(grid.XYPos{X: 0.9, Y: 0.9}, grid.DirectionE)
	if cp.Sources()&grid.DirectionN == 0 || cp.Sources()&grid.DirectionE == 0 {
		t.Fatalf("expected Sources() to OR together all recorded arrivals")
	}
}
