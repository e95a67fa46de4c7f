// Package event implements the Event type and the time-ordered scheduler
// that drives a Scenario's main loop (spec.md section 4.F).
package event

import "github.com/cwfis/firestarr/internal/grid"

// Type is the kind of Event. Ordering among events with the same time
// follows the declared order here: Invalid < Save < EndSimulation <
// NewFire < FireSpread.
type Type int

const (
	Invalid Type = iota
	Save
	EndSimulation
	NewFire
	FireSpread
)

func (t Type) String() string {
	switch t {
	case Save:
		return "Save"
	case EndSimulation:
		return "EndSimulation"
	case NewFire:
		return "NewFire"
	case FireSpread:
		return "FireSpread"
	default:
		return "Invalid"
	}
}

// Event is a unit of work scheduled in a Scenario's event loop.
type Event struct {
	Time            float64 // decimal days since the weather stream's first day (not day-of-year)
	Type            Type
	Cell            grid.Cell
	TimeAtLocation  float64 // decimal days the cell has been burning
	ROS             float64 // head fire rate of spread, m/min
	Intensity       float64 // burn intensity, kW/m
	Raz             float64 // head fire spread direction, radians
	Source          grid.CellIndex
}

// NewSave creates a Save event for the given save time.
func NewSave(t float64) Event { return Event{Time: t, Type: Save} }

// NewEndSimulation creates an EndSimulation event for the given time.
func NewEndSimulation(t float64) Event { return Event{Time: t, Type: EndSimulation} }

// NewFireEvent creates a NewFire (ignition) event.
func NewFireEvent(t float64, cell grid.Cell) Event {
	return Event{Time: t, Type: NewFire, Cell: cell}
}

// NewFireSpread creates a FireSpread event for the given cell.
func NewFireSpread(t float64, cell grid.Cell) Event {
	return Event{Time: t, Type: FireSpread, Cell: cell}
}

// Less implements the total order used by the scheduler: first by time,
// then by type ordinal, then by cell hash.
func (e Event) Less(o Event) bool {
	if e.Time != o.Time {
		return e.Time < o.Time
	}
	if e.Type != o.Type {
		return e.Type < o.Type
	}
	return e.Cell.Hash() < o.Cell.Hash()
}

// Equal reports whether two events compare equal under the ordering key
// (time, type, cell hash) — this is the equality the scheduler's
// underlying ordered set uses, not full field equality.
func (e Event) Equal(o Event) bool {
	return e.Time == o.Time && e.Type == o.Type && e.Cell.Hash() == o.Cell.Hash()
}
