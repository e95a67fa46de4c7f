package cellpoints

import "github.com/cwfis/firestarr/internal/grid"

// UnburnableCheck reports whether the cell at (row, col) can never spread
// fire (e.g. non-fuel, water, already burned out), used by Insert to
// lazily create an unburnable sentinel instead of a normal CellPoints.
type UnburnableCheck func(row, col int32) bool

// Map is a sparse hash map from cell hash to CellPoints, the structure
// every active fire front is routed through each step. See spec.md
// section 4.C.
type Map struct {
	m          map[int64]*CellPoints
	unburnable UnburnableCheck
}

// New creates an empty CellPointsMap. unburnable may be nil, in which case
// every newly-seen cell is treated as burnable.
func New(unburnable UnburnableCheck) *Map {
	return &Map{m: map[int64]*CellPoints{}, unburnable: unburnable}
}

// Insert looks up the cell that p falls in, creating a CellPoints lazily
// if this is the first point seen there, and inserts p into it. Returns
// the (possibly just-created) CellPoints for that cell.
func (m *Map) Insert(p grid.XYPos) *CellPoints {
	return m.insert(p, 0)
}

// InsertArrival is like Insert but records the neighbor direction the
// point arrived from.
func (m *Map) InsertArrival(p grid.XYPos, arrival grid.CellIndex) *CellPoints {
	return m.insert(p, arrival)
}

func (m *Map) insert(p grid.XYPos, arrival grid.CellIndex) *CellPoints {
	row, col := p.Cell()
	loc := grid.NewLocation(row, col)
	hash := loc.Hash()
	cp, ok := m.m[hash]
	if !ok {
		if m.unburnable != nil && m.unburnable(row, col) {
			cp = NewUnburnable(row, col)
		} else {
			cp = NewBurnable(row, col)
		}
		m.m[hash] = cp
	}
	cp.InsertArrival(p, arrival)
	return cp
}

// Get returns the CellPoints at loc, if any.
func (m *Map) Get(loc grid.Location) (*CellPoints, bool) {
	cp, ok := m.m[loc.Hash()]
	return cp, ok
}

// Len reports the number of cells currently tracked.
func (m *Map) Len() int { return len(m.m) }

// Range calls f for every (location, CellPoints) pair. Iteration order is
// unspecified, matching the underlying Go map and the source's hash map;
// outputs must not depend on this order (spec.md section 9).
func (m *Map) Range(f func(loc grid.Location, cp *CellPoints) bool) {
	for hash, cp := range m.m {
		if !f(grid.LocationFromHash(hash), cp) {
			return
		}
	}
}

// MergeAt folds an already-built CellPoints into the cell at loc, creating
// a fresh burnable entry if this is the first point seen there. Used by
// the scenario loop to fold a destination cell's accumulated offset
// points back into the map without re-deriving cell coordinates from a
// single XY point per slot.
func (m *Map) MergeAt(loc grid.Location, cp *CellPoints) {
	hash := loc.Hash()
	existing, ok := m.m[hash]
	if !ok {
		existing = NewBurnable(loc.Row(), loc.Column())
		m.m[hash] = existing
	}
	existing.Merge(cp)
}

// Merge inserts every non-invalid point of rhs into m, skipping cells that
// unburnable reports as no longer spreadable.
func (m *Map) Merge(rhs *Map) *Map {
	rhs.Range(func(loc grid.Location, cp *CellPoints) bool {
		if m.unburnable != nil && m.unburnable(loc.Row(), loc.Column()) {
			return true
		}
		existing, ok := m.m[loc.Hash()]
		if !ok {
			existing = NewBurnable(loc.Row(), loc.Column())
			m.m[loc.Hash()] = existing
		}
		existing.Merge(cp)
		return true
	})
	return m
}

// RemoveIf deletes every (location, CellPoints) pair for which pred
// returns true. Iteration is stable with respect to erasure: entries are
// collected before being deleted.
func (m *Map) RemoveIf(pred func(loc grid.Location, cp *CellPoints) bool) {
	var toRemove []int64
	for hash, cp := range m.m {
		if pred(grid.LocationFromHash(hash), cp) {
			toRemove = append(toRemove, hash)
		}
	}
	for _, hash := range toRemove {
		delete(m.m, hash)
	}
}

// Remove deletes the entry for loc, if any.
func (m *Map) Remove(loc grid.Location) {
	delete(m.m, loc.Hash())
}

// Unique returns the union of Unique() across every tracked cell.
func (m *Map) Unique() map[grid.XYPos]struct{} {
	out := map[grid.XYPos]struct{}{}
	for _, cp := range m.m {
		for p := range cp.Unique() {
			out[p] = struct{}{}
		}
	}
	return out
}

// UniqueAt returns Unique() for a single cell, or empty if untracked.
func (m *Map) UniqueAt(loc grid.Location) map[grid.XYPos]struct{} {
	if cp, ok := m.m[loc.Hash()]; ok {
		return cp.Unique()
	}
	return map[grid.XYPos]struct{}{}
}
