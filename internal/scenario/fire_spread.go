package scenario

import (
	"math"
	"sync/atomic"

	"github.com/cwfis/firestarr/internal/cellpoints"
	"github.com/cwfis/firestarr/internal/event"
	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/spread"
)

// evaluateFireSpread implements spec.md section 4.F.1, the main inner
// algorithm: gate on daytime/FFMC, roll over the hourly SpreadInfo cache,
// filter cells by head ROS, apply directional offsets, burn destination
// cells, and condense surviving points back into the points map.
func (s *Scenario) evaluateFireSpread(e event.Event) error {
	t := e.Time
	hourIndex := int(math.Floor(t * 24))
	nextHour := float64(hourIndex+1) / 24.0
	maxDuration := (nextHour - t) * 1440.0
	maxTime := t + maxDuration/1440.0

	w, _, dailyFFMC, ok := s.hourWeather(t)
	if !ok {
		// Past the end of the weather stream: nothing more to simulate.
		return nil
	}

	threshold := s.cfg.DayFFMCThreshold
	if !s.isDaytime(t) {
		threshold = s.cfg.NightFFMCThreshold
	}
	if dailyFFMC < threshold {
		s.scheduler.Schedule(event.NewFireSpread(maxTime, e.Cell))
		return nil
	}

	if hourIndex != s.currentHourIndex {
		s.currentHourIndex = hourIndex
		s.maxROS = 0
		dayIndex := int(math.Floor(t))
		nd := dayIndex - s.cfg.FoliarMoistureDayOffsetBase
		s.spreadCache = spread.NewCache(spread.Params{
			CellSizeM:   s.grid.CellSizeM(),
			MinROS:      s.cfg.MinROS,
			MaxAngleDeg: s.cfg.MaxAngleDeg,
		}, w, nd)
	}

	minROS := math.Max(s.cfg.MinROS, s.spreadThresholdByROS(hourIndex))

	type spreadGroup struct {
		key  grid.SpreadKey
		cell grid.Location
		cp   *cellpoints.CellPoints
	}
	var toSpread []spreadGroup

	s.points.Range(func(loc grid.Location, cp *cellpoints.CellPoints) bool {
		if !cp.Burnable() || cp.Empty() {
			return true
		}
		c := s.grid.CellAt(loc.Row(), loc.Column())
		info := s.spreadCache.Get(c.Key())
		if info.NoSpread || info.HeadROS < minROS {
			return true
		}
		if info.HeadROS > s.maxROS {
			s.maxROS = info.HeadROS
		}
		toSpread = append(toSpread, spreadGroup{key: c.Key(), cell: loc, cp: cp})
		return true
	})

	if len(toSpread) == 0 {
		s.scheduler.Schedule(event.NewFireSpread(maxTime, e.Cell))
		return nil
	}

	duration := maxDuration
	if s.maxROS > 0 {
		adaptive := s.cfg.MaxSpreadCellsRatio * s.grid.CellSizeM() / s.maxROS
		if adaptive < duration {
			duration = adaptive
		}
	}
	newTime := t + duration/1440.0

	destinations := map[int64]*cellpoints.CellPoints{}
	sources := map[int64]grid.CellIndex{}
	destInfo := map[int64]spread.Info{}
	destHeadROS := map[int64]float64{}
	destHeadRaz := map[int64]float64{}

	for _, g := range toSpread {
		info := s.spreadCache.Get(g.key)
		for p := range g.cp.Unique() {
			for _, o := range info.Offsets {
				newXY := o.Offset.Apply(p, duration)
				row, col := newXY.Cell()
				if !s.grid.InBounds(row, col) {
					atomic.AddInt64(&s.oobSpread, 1)
					continue
				}
				forLoc := grid.NewLocation(row, col)
				hash := forLoc.Hash()
				sources[hash] |= grid.RelativeDirection(g.cell, forLoc)
				if s.isUnburnable(row, col) {
					continue
				}
				dest, ok := destinations[hash]
				if !ok {
					dest = cellpoints.NewBurnable(row, col)
					destinations[hash] = dest
				}
				// Multiple source cells may route points into the same
				// destination within one step; keep whichever source's
				// ROS is highest so the recorded intensity/ROS/direction
				// doesn't depend on map iteration order (spec.md section 9).
				if existing, ok := destInfo[hash]; !ok || info.HeadROS > existing.HeadROS {
					destInfo[hash] = info
					destHeadROS[hash] = info.HeadROS
					destHeadRaz[hash] = info.HeadRAZ
				}
				dest.InsertArrival(newXY, sources[hash])
			}
		}
		s.points.Remove(g.cell)
	}

	for hash, dest := range destinations {
		loc := grid.LocationFromHash(hash)
		info := destInfo[hash]
		if dest.Empty() || info.MaxIntensity <= 0 || s.intensity.HasBurned(loc) {
			continue
		}
		intensityVal := math.Max(1, info.MaxIntensity)
		s.intensity.Burn(loc, intensityVal, destHeadROS[hash], destHeadRaz[hash])
		if _, seen := s.arrival[hash]; !seen {
			s.arrival[hash] = newTime
		}
	}

	for hash, dest := range destinations {
		loc := grid.LocationFromHash(hash)
		key := s.grid.CellAt(loc.Row(), loc.Column()).Key()
		if s.survives(newTime, loc, key) && !s.intensity.IsSurrounded(loc) {
			s.points.MergeAt(loc, dest)
		} else {
			s.unburnable[hash] = true
			s.points.Remove(loc)
		}
	}

	// One FireSpread event drives the whole points map each step; the
	// anchor cell carried on the event only breaks scheduler ties
	// (spec.md section 4.F.1 step 9).
	s.scheduler.Schedule(event.NewFireSpread(newTime, e.Cell))

	return nil
}
