// Package intensity implements IntensityMap, the per-scenario grid of max
// burn intensity, ROS-at-max, direction-at-max, and the burned bitmap
// (spec.md section 4.E).
package intensity

import (
	"sync"

	"github.com/ctessum/sparse"

	"github.com/cwfis/firestarr/internal/grid"
)

// Map holds the four intensity grids for a single Scenario. All methods
// are safe for concurrent use; the mutex exists to allow a parallel
// applyPerimeter and concurrent observer reads, not because cells are
// mutated from more than one Scenario (spec.md section 5).
type Map struct {
	mu sync.Mutex

	rows, cols int
	maxIntensity *sparse.DenseArray // kW/m
	rosAtMax     *sparse.DenseArray // m/min
	dirAtMax     *sparse.DenseArray // degrees
	burned       *sparse.DenseArray // 0/1

	cellSizeM2 float64 // area of one cell, m^2
}

// New creates an IntensityMap sized for a rows x cols grid where each cell
// covers cellSizeM meters on a side.
func New(rows, cols int, cellSizeM float64) *Map {
	return &Map{
		rows:         rows,
		cols:         cols,
		maxIntensity: sparse.ZerosDense(rows, cols),
		rosAtMax:     sparse.ZerosDense(rows, cols),
		dirAtMax:     sparse.ZerosDense(rows, cols),
		burned:       sparse.ZerosDense(rows, cols),
		cellSizeM2:   cellSizeM * cellSizeM,
	}
}

func (m *Map) inBounds(loc grid.Location) bool {
	r, c := int(loc.Row()), int(loc.Column())
	return r >= 0 && r < m.rows && c >= 0 && c < m.cols
}

// ApplyPerimeter marks every cell in an initial perimeter as burned with
// intensity 1.
func (m *Map) ApplyPerimeter(cells []grid.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, loc := range cells {
		if !m.inBounds(loc) {
			continue
		}
		r, c := int(loc.Row()), int(loc.Column())
		m.burned.Set(1, r, c)
		if m.maxIntensity.Get(r, c) < 1 {
			m.maxIntensity.Set(1, r, c)
		}
	}
}

// Burn records that loc burned with the given intensity, ROS, and head
// direction (raz, radians). Intensity is monotone non-decreasing; ROS and
// direction are overwritten only when ros strictly exceeds the stored
// ROS-at-max (spec.md section 3).
func (m *Map) Burn(loc grid.Location, intensity, ros, raz float64) {
	if !m.inBounds(loc) {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, c := int(loc.Row()), int(loc.Column())
	m.burned.Set(1, r, c)
	if intensity > m.maxIntensity.Get(r, c) {
		m.maxIntensity.Set(intensity, r, c)
	}
	if ros > m.rosAtMax.Get(r, c) {
		m.rosAtMax.Set(ros, r, c)
		m.dirAtMax.Set(raz*180/3.141592653589793, r, c)
	}
}

// HasBurned reports whether loc has ever burned.
func (m *Map) HasBurned(loc grid.Location) bool {
	if !m.inBounds(loc) {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, c := int(loc.Row()), int(loc.Column())
	return m.burned.Get(r, c) != 0
}

// CanBurn is the negation of HasBurned.
func (m *Map) CanBurn(loc grid.Location) bool { return !m.HasBurned(loc) }

// Intensity returns the stored max intensity for loc (kW/m).
func (m *Map) Intensity(loc grid.Location) float64 {
	if !m.inBounds(loc) {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxIntensity.Get(int(loc.Row()), int(loc.Column()))
}

// ROS returns the stored ROS-at-max for loc (m/min).
func (m *Map) ROS(loc grid.Location) float64 {
	if !m.inBounds(loc) {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosAtMax.Get(int(loc.Row()), int(loc.Column()))
}

// IsSurrounded reports whether the 3x3 neighborhood around loc (including
// loc itself) is entirely burned. Cells outside the grid count as burned
// (a fire can't spread off the edge of the world).
func (m *Map) IsSurrounded(loc grid.Location) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, col := loc.Row(), loc.Column()
	for dr := int32(-1); dr <= 1; dr++ {
		for dc := int32(-1); dc <= 1; dc++ {
			r, c := int(row+dr), int(col+dc)
			if r < 0 || r >= m.rows || c < 0 || c >= m.cols {
				continue
			}
			if m.burned.Get(r, c) == 0 {
				return false
			}
		}
	}
	return true
}

// FireSize returns the total burned area in hectares.
func (m *Map) FireSize() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0.0
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.cols; c++ {
			if m.burned.Get(r, c) != 0 {
				count++
			}
		}
	}
	return count * m.cellSizeM2 / 10000
}

// Rows and Cols report the grid dimensions this map was created with.
func (m *Map) Rows() int { return m.rows }
func (m *Map) Cols() int { return m.cols }

// BurnedAt reports whether (row, col) is burned, for callers that already
// have raw indices (e.g. probability aggregation).
func (m *Map) BurnedAt(row, col int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.burned.Get(row, col) != 0
}

// IntensityAt returns the max intensity at raw (row, col) indices.
func (m *Map) IntensityAt(row, col int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxIntensity.Get(row, col)
}
