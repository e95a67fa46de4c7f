// Package cellpoints implements the 16-direction extreme-point set kept for
// every actively-burning cell, and the sparse map of those sets keyed by
// cell hash.
package cellpoints

import "github.com/cwfis/firestarr/internal/grid"

// slot holds one of the 16 directional extreme points: the point itself,
// its squared distance to the direction's fixed ideal target, and the
// neighbor direction the point's fire arrived from.
type slot struct {
	point    grid.InnerPos
	distance float64
	arrival  grid.CellIndex
}

// CellPoints is the per-cell set of 16 directional "furthest points" that
// approximates the fire front's extent inside one cell with bounded
// memory. See spec.md section 4.B.
type CellPoints struct {
	slots     [grid.NumDirections16]slot
	row, col  int32
	burnable  bool
}

// NewBurnable creates an empty, insert-accepting CellPoints for the given
// cell.
func NewBurnable(row, col int32) *CellPoints {
	cp := &CellPoints{row: row, col: col, burnable: true}
	for i := range cp.slots {
		cp.slots[i].distance = grid.InvalidDistance
	}
	return cp
}

// NewUnburnable creates a CellPoints with no backing storage: Insert is
// always a no-op and Unique always returns empty.
func NewUnburnable(row, col int32) *CellPoints {
	cp := &CellPoints{row: row, col: col, burnable: false}
	for i := range cp.slots {
		cp.slots[i].distance = grid.InvalidDistance
	}
	return cp
}

// Row and Col report the cell this CellPoints belongs to.
func (c *CellPoints) Row() int32 { return c.row }
func (c *CellPoints) Col() int32 { return c.col }

// Burnable reports whether this CellPoints accepts inserts.
func (c *CellPoints) Burnable() bool { return c.burnable }

// Empty reports whether no point has been recorded: by invariant, slot 0's
// distance is the sentinel INVALID_DISTANCE iff every slot is.
func (c *CellPoints) Empty() bool {
	return c.slots[0].distance >= grid.InvalidDistance
}

// Insert considers p for each of the 16 directional slots, replacing a
// slot's stored point iff p is strictly closer to that slot's ideal target
// than the slot's current point. Ties do not replace (idempotence depends
// on this). A no-op on an unburnable CellPoints.
func (c *CellPoints) Insert(p grid.XYPos) *CellPoints {
	if !c.burnable {
		return c
	}
	inner := p.Inner()
	return c.insertInner(inner, 0)
}

// InsertArrival is like Insert but also records the neighbor direction the
// point arrived from, used to build the "source" bitmask on the resulting
// FireSpread event.
func (c *CellPoints) InsertArrival(p grid.XYPos, arrival grid.CellIndex) *CellPoints {
	if !c.burnable {
		return c
	}
	return c.insertInner(p.Inner(), arrival)
}

func (c *CellPoints) insertInner(inner grid.InnerPos, arrival grid.CellIndex) *CellPoints {
	for i := 0; i < grid.NumDirections16; i++ {
		target := grid.IdealTarget(grid.Direction16(i))
		d := inner.SquaredDistance(target)
		if d < c.slots[i].distance {
			c.slots[i] = slot{point: inner, distance: d, arrival: arrival}
		}
	}
	return c
}

// Merge inserts every non-invalid point of rhs into c.
func (c *CellPoints) Merge(rhs *CellPoints) *CellPoints {
	if rhs == nil || !c.burnable {
		return c
	}
	for _, s := range rhs.slots {
		if s.distance >= grid.InvalidDistance {
			continue
		}
		c.insertInner(s.point, s.arrival)
	}
	return c
}

// Unique returns the set of distinct absolute positions held by the
// non-invalid slots (at most 16 entries).
func (c *CellPoints) Unique() map[grid.XYPos]struct{} {
	out := map[grid.XYPos]struct{}{}
	if c.slots[0].distance >= grid.InvalidDistance {
		return out
	}
	for _, s := range c.slots {
		if s.distance >= grid.InvalidDistance {
			continue
		}
		out[s.point.ToXY(c.row, c.col)] = struct{}{}
	}
	return out
}

// Sources returns the OR of every slot's recorded arrival direction,
// i.e. the set of neighbor directions this cell's fire arrived from.
func (c *CellPoints) Sources() grid.CellIndex {
	var src grid.CellIndex
	for _, s := range c.slots {
		if s.distance >= grid.InvalidDistance {
			continue
		}
		src |= s.arrival
	}
	return src
}

// Len reports how many of the 16 slots currently hold a point. Intended
// for debugging/tests only.
func (c *CellPoints) Len() int {
	n := 0
	for _, s := range c.slots {
		if s.distance < grid.InvalidDistance {
			n++
		}
	}
	return n
}
