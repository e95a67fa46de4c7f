// Package probability implements ProbabilityMap, the per-save-time
// accumulator of per-cell burn counts (by intensity band) and the
// distribution of final fire sizes across scenarios (spec.md section 4.H).
package probability

import (
	"sync"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"

	"github.com/cwfis/firestarr/internal/intensity"
)

// Intensity bin boundaries, in kW/m, following the CFFDRS head-fire
// intensity classes: low burns are generally controllable by hand tools,
// moderate require heavy equipment, high are essentially unsuppressible.
const (
	LowMaxIntensity      = 500.0
	ModerateMaxIntensity = 4000.0
)

// Map accumulates, for one save time, how many scenarios burned each cell
// (overall and within each intensity band) plus the sorted list of every
// scenario's final fire size.
type Map struct {
	mu sync.Mutex

	rows, cols                          int
	total, low, moderate, high, occurs  *sparse.DenseArray
	scenarioCount                       int
	sizes                               []float64
}

// New creates an empty ProbabilityMap sized for a rows x cols grid.
func New(rows, cols int) *Map {
	return &Map{
		rows:     rows,
		cols:     cols,
		total:    sparse.ZerosDense(rows, cols),
		low:      sparse.ZerosDense(rows, cols),
		moderate: sparse.ZerosDense(rows, cols),
		high:     sparse.ZerosDense(rows, cols),
		occurs:   sparse.ZerosDense(rows, cols),
	}
}

// AddProbability folds one scenario's IntensityMap in: every burned cell
// increments the total count and the count for its intensity band, and
// the scenario's total fire size is inserted into the sorted size list.
func (m *Map) AddProbability(im *intensity.Map) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarioCount++
	any := false
	for r := 0; r < m.rows && r < im.Rows(); r++ {
		for c := 0; c < m.cols && c < im.Cols(); c++ {
			if !im.BurnedAt(r, c) {
				continue
			}
			any = true
			m.total.Set(m.total.Get(r, c)+1, r, c)
			switch in := im.IntensityAt(r, c); {
			case in <= LowMaxIntensity:
				m.low.Set(m.low.Get(r, c)+1, r, c)
			case in <= ModerateMaxIntensity:
				m.moderate.Set(m.moderate.Get(r, c)+1, r, c)
			default:
				m.high.Set(m.high.Get(r, c)+1, r, c)
			}
		}
	}
	if any {
		for r := 0; r < m.rows && r < im.Rows(); r++ {
			for c := 0; c < m.cols && c < im.Cols(); c++ {
				if im.BurnedAt(r, c) {
					m.occurs.Set(m.occurs.Get(r, c)+1, r, c)
				}
			}
		}
	}
	m.sizes = append(m.sizes, im.FireSize())
	floats.Sort(m.sizes)
}

// ScenarioCount reports how many scenarios have been folded in.
func (m *Map) ScenarioCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scenarioCount
}

// Probability returns the fraction of scenarios in which (row, col)
// burned.
func (m *Map) Probability(row, col int) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.scenarioCount == 0 {
		return 0
	}
	return m.total.Get(row, col) / float64(m.scenarioCount)
}

// Sizes returns a copy of the sorted fire-size distribution (hectares).
func (m *Map) Sizes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.sizes))
	copy(out, m.sizes)
	return out
}

// Merge folds another ProbabilityMap's counts and sizes into m. Because
// accumulation is just per-cell integer addition and the size list is a
// multiset union, Merge(A, B) == accumulating A's and B's scenarios
// directly into one map (spec.md's probability-additivity property).
func (m *Map) Merge(o *Map) {
	o.mu.Lock()
	snapshotSizes := make([]float64, len(o.sizes))
	copy(snapshotSizes, o.sizes)
	rows, cols, count := o.rows, o.cols, o.scenarioCount
	total, low, moderate, high, occurs := o.total, o.low, o.moderate, o.high, o.occurs
	o.mu.Unlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.scenarioCount += count
	for r := 0; r < rows && r < m.rows; r++ {
		for c := 0; c < cols && c < m.cols; c++ {
			m.total.Set(m.total.Get(r, c)+total.Get(r, c), r, c)
			m.low.Set(m.low.Get(r, c)+low.Get(r, c), r, c)
			m.moderate.Set(m.moderate.Get(r, c)+moderate.Get(r, c), r, c)
			m.high.Set(m.high.Get(r, c)+high.Get(r, c), r, c)
			m.occurs.Set(m.occurs.Get(r, c)+occurs.Get(r, c), r, c)
		}
	}
	m.sizes = append(m.sizes, snapshotSizes...)
	floats.Sort(m.sizes)
}

// Reset returns the map to its initial, empty state.
func (m *Map) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.total = sparse.ZerosDense(m.rows, m.cols)
	m.low = sparse.ZerosDense(m.rows, m.cols)
	m.moderate = sparse.ZerosDense(m.rows, m.cols)
	m.high = sparse.ZerosDense(m.rows, m.cols)
	m.occurs = sparse.ZerosDense(m.rows, m.cols)
	m.scenarioCount = 0
	m.sizes = nil
}

// Grid exposes one of the five count grids by name, for the raster output
// writer. name must be one of "total", "low", "moderate", "high",
// "occurrence".
func (m *Map) Grid(name string) *sparse.DenseArray {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch name {
	case "total":
		return m.total
	case "low":
		return m.low
	case "moderate":
		return m.moderate
	case "high":
		return m.high
	case "occurrence":
		return m.occurs
	default:
		return nil
	}
}

// Rows and Cols report the grid dimensions.
func (m *Map) Rows() int { return m.rows }
func (m *Map) Cols() int { return m.cols }
