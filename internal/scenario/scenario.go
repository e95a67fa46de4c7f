// Package scenario implements the Scenario event loop: the single-
// threaded simulation of one fire's spread under one weather stream and
// seed, from ignition or an initial perimeter through to its last save
// point (spec.md section 4.F).
package scenario

import (
	"fmt"
	"math"
	"math/rand"
	"sync/atomic"

	"github.com/cwfis/firestarr/internal/cellpoints"
	"github.com/cwfis/firestarr/internal/duff"
	"github.com/cwfis/firestarr/internal/event"
	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/fwi"
	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/solar"
	"github.com/cwfis/firestarr/internal/spread"
	"github.com/cwfis/firestarr/internal/weather"
)

// Grid is the fuel/slope/aspect surface a Scenario spreads fire across.
// internal/raster provides the concrete implementation backed by GeoTIFF
// rasters; tests use a small in-memory fake.
type Grid interface {
	Rows() int32
	Cols() int32
	CellSizeM() float64
	CellAt(row, col int32) grid.Cell
	InBounds(row, col int32) bool
}

// Config holds the per-scenario tunables spec.md leaves as "configurable"
// (section 4.D step 9's max_angle, the Open Questions' MAX_SPREAD_CELLS,
// and the day/night FFMC spread gate).
type Config struct {
	MinROS             float64
	MaxAngleDeg        float64
	MaxSpreadCellsRatio float64 // duration cap, in cells per step
	DayFFMCThreshold   float64
	NightFFMCThreshold float64
	SunriseOffsetHours float64
	SunsetOffsetHours  float64
	Latitude           float64
	Longitude          float64
	TZOffsetHours      float64
	Deterministic      bool
	FoliarMoistureDayOffsetBase int // day index of the reference year's minimum-FMC day
}

// DefaultConfig returns spec.md's documented defaults (section 9's Open
// Questions: MAX_SPREAD_CELLS ~= 1.0 cell, max_angle = 10 degrees).
func DefaultConfig() Config {
	return Config{
		MinROS:              0.05,
		MaxAngleDeg:          10,
		MaxSpreadCellsRatio:  1.0,
		DayFFMCThreshold:     80,
		NightFFMCThreshold:   85,
		SunriseOffsetHours:   -1,
		SunsetOffsetHours:    0.5,
		Deterministic:        false,
	}
}

// Scenario is one simulated fire: a weather stream, a start point or
// perimeter, and the mutable state the event loop advances.
type Scenario struct {
	cfg  Config
	grid Grid

	days   []weather.Day
	daily  []fwi.Daily

	points      *cellpoints.Map
	intensity   *intensity.Map
	scheduler   *event.Scheduler
	spreadCache *spread.Cache

	arrival    map[int64]float64
	unburnable map[int64]bool

	maxROS               float64
	currentHourIndex     int
	extinctionThresholds map[int]float64
	spreadThresholds     map[int]float64
	extinctionRNG        *rand.Rand
	spreadRNG            *rand.Rand

	savePoints []float64
	lastSave   float64
	step       int
	cancelled  int32

	// oobSpread counts spread destinations that fell outside the grid and
	// were dropped (spec.md section 4.F.1 step 6's oob_spread counter).
	oobSpread int64

	// FinalSize, in hectares, is set when the last save point is reached.
	FinalSize float64

	// OnSave is invoked for every Save event with the current intensity
	// snapshot; it is how the Iteration coordinator folds results into a
	// shared ProbabilityMap (spec.md section 4.G).
	OnSave func(t float64, im *intensity.Map)
}

// New constructs a Scenario. seed drives both the extinction and spread
// threshold RNGs (two independent streams derived from it, matching
// spec.md's "two provided RNGs"); in deterministic mode neither RNG is
// consulted.
func New(cfg Config, g Grid, days []weather.Day, startup weather.Startup, seed int64) *Scenario {
	daily := weather.DailyIndices(startup, days)
	s := &Scenario{
		cfg:                  cfg,
		grid:                 g,
		days:                 days,
		daily:                daily,
		scheduler:            event.NewScheduler(),
		intensity:            intensity.New(int(g.Rows()), int(g.Cols()), g.CellSizeM()),
		arrival:              map[int64]float64{},
		unburnable:           map[int64]bool{},
		extinctionThresholds: map[int]float64{},
		spreadThresholds:     map[int]float64{},
		extinctionRNG:        rand.New(rand.NewSource(seed)),
		spreadRNG:            rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15)),
		currentHourIndex:     -1,
	}
	s.points = cellpoints.New(s.isUnburnable)
	return s
}

func (s *Scenario) isUnburnable(row, col int32) bool {
	if !s.grid.InBounds(row, col) {
		return true
	}
	return s.unburnable[grid.NewLocation(row, col).Hash()]
}

// Cancel requests the event loop stop at its next iteration (spec.md
// section 5, the timer thread's deadline cancellation).
func (s *Scenario) Cancel() { atomic.StoreInt32(&s.cancelled, 1) }

func (s *Scenario) cancelledFlag() bool { return atomic.LoadInt32(&s.cancelled) != 0 }

// Intensity exposes the scenario's IntensityMap, e.g. for a caller that
// wants to inspect state after cancellation.
func (s *Scenario) Intensity() *intensity.Map { return s.intensity }

// OutOfBoundsSpreadCount reports how many spread destinations this
// scenario has dropped for falling outside the grid (spec.md section
// 4.F.1 step 6's oob_spread counter; testable property #10 expects this
// at 0 for a grid the fire never reaches the edge of).
func (s *Scenario) OutOfBoundsSpreadCount() int64 { return atomic.LoadInt64(&s.oobSpread) }

// Run executes the full event loop (spec.md section 4.F "Initialization"
// and "Main loop"). startTime and savePoints are decimal day offsets from
// the weather stream's first day; perimeter is nil for a point ignition.
func (s *Scenario) Run(startTime float64, startCell grid.Cell, perimeter []grid.Location, savePoints []float64) error {
	if len(savePoints) == 0 {
		return fmt.Errorf("firestarr: scenario requires at least one save point")
	}
	s.savePoints = savePoints
	s.lastSave = savePoints[0]
	for _, sp := range savePoints {
		s.lastSave = math.Max(s.lastSave, sp)
	}

	for _, sp := range s.savePoints {
		s.scheduler.Schedule(event.NewSave(sp))
	}

	if len(perimeter) == 0 {
		s.scheduler.Schedule(event.NewFireEvent(startTime, startCell))
	} else {
		s.intensity.ApplyPerimeter(perimeter)
		for _, loc := range perimeter {
			center := grid.XYPos{X: float64(loc.Column()) + 0.5, Y: float64(loc.Row()) + 0.5}
			s.points.Insert(center)
			s.arrival[loc.Hash()] = startTime
		}
		s.scheduler.Schedule(event.NewFireSpread(startTime, startCell))
		s.points.Range(func(loc grid.Location, cp *cellpoints.CellPoints) bool {
			if !cp.Empty() && s.intensity.CanBurn(loc) {
				s.intensity.Burn(loc, 1, 0, 0)
			}
			return true
		})
	}

	s.scheduler.Schedule(event.NewEndSimulation(s.lastSave))

	for {
		if s.cancelledFlag() {
			return nil
		}
		e, ok := s.scheduler.Pop()
		if !ok {
			return nil
		}
		s.step++
		if err := s.evaluate(e); err != nil {
			return err
		}
	}
}

func (s *Scenario) evaluate(e event.Event) error {
	switch e.Type {
	case event.NewFire:
		return s.evaluateNewFire(e)
	case event.FireSpread:
		return s.evaluateFireSpread(e)
	case event.Save:
		if s.OnSave != nil {
			s.OnSave(e.Time, s.intensity)
		}
		if e.Time >= s.lastSave {
			s.FinalSize = s.intensity.FireSize()
		}
		return nil
	case event.EndSimulation:
		s.scheduler.Clear()
		return nil
	default:
		return fmt.Errorf("firestarr: unknown event type %v", e.Type)
	}
}

func (s *Scenario) evaluateNewFire(e event.Event) error {
	loc := e.Cell.Location
	center := grid.XYPos{X: float64(loc.Column()) + 0.5, Y: float64(loc.Row()) + 0.5}
	s.points.Insert(center)
	s.arrival[loc.Hash()] = e.Time

	if !s.survives(e.Time, loc, e.Cell.Key()) {
		s.unburnable[loc.Hash()] = true
	}
	s.intensity.Burn(loc, 1, 0, 0)

	s.scheduler.Schedule(event.NewFireSpread(e.Time, e.Cell))
	return nil
}

// hourWeather resolves the fuel.Weather and absolute hour index for
// decimal time t (days since the weather stream's first day), along with
// the daily FFMC used by the day/night spread gate.
func (s *Scenario) hourWeather(t float64) (w fuel.Weather, hourIndex int, dailyFFMC float64, ok bool) {
	dayIndex := int(math.Floor(t))
	if dayIndex < 0 || dayIndex >= len(s.days) {
		return fuel.Weather{}, 0, 0, false
	}
	day := s.days[dayIndex]
	daily := s.daily[dayIndex]
	nd := dayIndex - s.cfg.FoliarMoistureDayOffsetBase
	fmc := foliarMoistureContent(nd)
	hourIndex = int(math.Floor(t * 24))
	w = weather.HourlyWeather(day, daily, fmc)
	return w, hourIndex, daily.FFMC, true
}

// foliarMoistureContent is a standard seasonal FMC curve referencing the
// signed day offset from the date of minimum foliar moisture (FBP System
// eq. 4-6 family), clamped to a plausible range.
func foliarMoistureContent(nd int) float64 {
	n := float64(nd)
	var fmc float64
	switch {
	case n < -50 || n > 120:
		fmc = 120
	case n < 0:
		fmc = 85 + 0.0189*n*n
	case n <= 50:
		fmc = 79 + 0.75*math.Sqrt(250-n)
	default:
		fmc = 50 + 0.9*(n-50)
	}
	if fmc < 50 {
		fmc = 50
	}
	if fmc > 140 {
		fmc = 140
	}
	return fmc
}

func (s *Scenario) isDaytime(t float64) bool {
	dayIndex := int(math.Floor(t))
	hourOfDay := (t - math.Floor(t)) * 24
	sunrise, sunset := solar.SunriseSunset(s.cfg.Latitude, s.cfg.Longitude, dayOfYearApprox(dayIndex), s.cfg.TZOffsetHours)
	return solar.IsDaytime(hourOfDay, sunrise, sunset, s.cfg.SunriseOffsetHours, s.cfg.SunsetOffsetHours)
}

func dayOfYearApprox(dayIndex int) int {
	d := dayIndex%365 + 1
	if d < 1 {
		d += 365
	}
	return d
}

func (s *Scenario) extinctionThreshold(hourIndex int) float64 {
	if s.cfg.Deterministic {
		return 0
	}
	if v, ok := s.extinctionThresholds[hourIndex]; ok {
		return v
	}
	v := s.extinctionRNG.Float64()
	s.extinctionThresholds[hourIndex] = v
	return v
}

func (s *Scenario) spreadThresholdByROS(hourIndex int) float64 {
	if s.cfg.Deterministic {
		return s.cfg.MinROS
	}
	if v, ok := s.spreadThresholds[hourIndex]; ok {
		return v
	}
	u := s.spreadRNG.Float64()
	v := spread.ROSThresholdFromUniform(u, s.cfg.MinROS)
	s.spreadThresholds[hourIndex] = v
	return v
}

// duffMoistureFromDMC approximates the duff layer's moisture content
// percentage from the Duff Moisture Code: DMC is itself an inverse
// moisture index, so this is a monotonically decreasing transform
// saturating near field capacity at DMC=0 (original_source's DuffSimple
// inverts a similar lookup).
func duffMoistureFromDMC(dmc float64) float64 {
	return 20 + 280*math.Exp(-0.05*dmc)
}

// survives runs spec.md section 4.F.1's survival test: deterministic
// scenarios always survive; otherwise the short-residence-time guarantee
// is checked first, then the stochastic extinction-threshold comparison.
func (s *Scenario) survives(t float64, loc grid.Location, key grid.SpreadKey) bool {
	if s.cfg.Deterministic {
		return true
	}
	w, hourIndex, _, ok := s.hourWeather(t)
	if !ok {
		return true
	}
	arrived, hasArrival := s.arrival[loc.Hash()]
	hoursAtLocation := 0.0
	if hasArrival {
		hoursAtLocation = (t - arrived) * 24
	}
	moisture := duffMoistureFromDMC(w.DMC)
	if duff.GuaranteesSurvival(moisture, hoursAtLocation) {
		return true
	}
	threshold := s.extinctionThreshold(hourIndex)
	f := fuel.Lookup(key.FuelCode())
	prob := f.SurvivalProbability(w, key.FuelCode())
	return threshold < prob
}
