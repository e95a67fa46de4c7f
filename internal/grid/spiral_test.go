package grid

import "testing"

func TestSpiralSearchReturnsStartWhenAlreadyFuel(t *testing.T) {
	loc, ok := SpiralSearch(5, 5, 3, func(r, c int32) bool { return true })
	if !ok || loc.Row() != 5 || loc.Column() != 5 {
		t.Fatalf("expected the start cell returned unchanged, got (%v, %v)", loc, ok)
	}
}

func TestSpiralSearchFindsNearestRing(t *testing.T) {
	fuel := NewLocation(7, 6) // two rings out from (5,5)
	loc, ok := SpiralSearch(5, 5, 5, func(r, c int32) bool {
		return NewLocation(r, c) == fuel
	})
	if !ok || loc != fuel {
		t.Fatalf("expected to find %v, got %v (%v)", fuel, loc, ok)
	}
}

func TestSpiralSearchFailsBeyondMaxRadius(t *testing.T) {
	_, ok := SpiralSearch(0, 0, 2, func(r, c int32) bool { return r == 10 && c == 10 })
	if ok {
		t.Fatalf("expected the search to fail past maxRadius")
	}
}
