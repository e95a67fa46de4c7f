package event

import "github.com/google/btree"

// btreeDegree matches the degree InMAP's indirect google/btree dependency
// ships examples for; it only affects node fan-out, not semantics.
const btreeDegree = 32

// item adapts Event to btree.Item using the ordering defined on Event.
type item struct{ Event }

func (i item) Less(than btree.Item) bool {
	return i.Event.Less(than.(item).Event)
}

// Scheduler is the priority-ordered event set a Scenario pops from. It is
// a thin wrapper over a B-tree kept in (time, type, cell hash) order,
// standing in for the C++ source's ordered std::set<Event, EventCompare>.
type Scheduler struct {
	tree *btree.BTree
}

// NewScheduler creates an empty Scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{tree: btree.New(btreeDegree)}
}

// Schedule inserts e into the scheduler.
func (s *Scheduler) Schedule(e Event) {
	s.tree.ReplaceOrInsert(item{e})
}

// Len reports the number of pending events.
func (s *Scheduler) Len() int { return s.tree.Len() }

// Empty reports whether there are no pending events.
func (s *Scheduler) Empty() bool { return s.tree.Len() == 0 }

// Pop removes and returns the lowest-ordered event. ok is false if the
// scheduler was empty.
func (s *Scheduler) Pop() (Event, bool) {
	min := s.tree.DeleteMin()
	if min == nil {
		return Event{}, false
	}
	return min.(item).Event, true
}

// Clear removes every pending event, used by EndSimulation.
func (s *Scheduler) Clear() {
	s.tree = btree.New(btreeDegree)
}
