package event

import (
	"math/rand"
	"testing"

	"github.com/cwfis/firestarr/internal/grid"
)

func cellAt(row, col int32) grid.Cell {
	return grid.NewCell(row, col, 0, 0, 1)
}

func TestOrderingTimeFirst(t *testing.T) {
	a := NewFireSpread(1.0, cellAt(0, 0))
	b := NewFireSpread(2.0, cellAt(0, 0))
	if !a.Less(b) || b.Less(a) {
		t.Fatalf("expected earlier time to sort first")
	}
}

func TestOrderingTypeThenCell(t *testing.T) {
	save := NewSave(1.0)
	end := NewEndSimulation(1.0)
	newFire := NewFireEvent(1.0, cellAt(0, 0))
	spread := NewFireSpread(1.0, cellAt(0, 0))
	if !save.Less(end) || !end.Less(newFire) || !newFire.Less(spread) {
		t.Fatalf("expected Save < EndSimulation < NewFire < FireSpread at equal time")
	}
}

func TestSchedulerPopsInOrder(t *testing.T) {
	s := NewScheduler()
	times := []float64{5, 1, 3, 2, 4}
	for _, tm := range times {
		s.Schedule(NewFireSpread(tm, cellAt(0, 0)))
	}
	var got []float64
	for !s.Empty() {
		e, ok := s.Pop()
		if !ok {
			t.Fatalf("expected Pop to succeed while non-empty")
		}
		got = append(got, e.Time)
	}
	want := []float64{1, 2, 3, 4, 5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pop order mismatch: got %v want %v", got, want)
		}
	}
}

func TestSchedulerOrderIndependentOfInsertionOrder(t *testing.T) {
	cells := []grid.Cell{cellAt(0, 0), cellAt(0, 1), cellAt(1, 0), cellAt(1, 1)}
	run := func(seed int64) []int64 {
		r := rand.New(rand.NewSource(seed))
		order := r.Perm(len(cells))
		s := NewScheduler()
		for _, i := range order {
			s.Schedule(NewFireSpread(1.0, cells[i]))
		}
		var hashes []int64
		for !s.Empty() {
			e, _ := s.Pop()
			hashes = append(hashes, e.Cell.Hash())
		}
		return hashes
	}
	a := run(1)
	b := run(2)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("pop order depended on insertion order: %v vs %v", a, b)
		}
	}
}

func TestClearEmptiesScheduler(t *testing.T) {
	s := NewScheduler()
	s.Schedule(NewFireSpread(1, cellAt(0, 0)))
	s.Clear()
	if !s.Empty() {
		t.Fatalf("expected Clear to empty the scheduler")
	}
}
