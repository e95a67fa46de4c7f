// Package iteration implements the Iteration/Model driver: scenario
// fan-out, seeding, the Student-t stopping rule, the wall-clock/count
// deadline timer, and aggregation of per-scenario results into the global
// ProbabilityMap (spec.md section 4.G).
package iteration

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/intensity"
	"github.com/cwfis/firestarr/internal/probability"
	"github.com/cwfis/firestarr/internal/scenario"
	"github.com/cwfis/firestarr/internal/weather"
)

// Config holds the Model-level tunables spec.md section 4.G and section 5
// describe: the confidence target, the hard simulation-count ceiling, the
// wall-clock deadline, and the worker pool size.
type Config struct {
	ConfidenceLevel   float64 // e.g. 0.95
	MaxSimulations    int     // hard stop regardless of confidence; 0 = unbounded
	Deadline          time.Time
	Workers           int // 0 = runtime.NumCPU()
	ScenarioPerSeed   int // scenarios to run per Iteration batch
}

// WithDefaults fills zero-valued fields with spec.md's documented
// defaults: the semaphore capacity equals the number of hardware threads.
func (c Config) WithDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ConfidenceLevel <= 0 {
		c.ConfidenceLevel = 0.95
	}
	if c.ScenarioPerSeed <= 0 {
		c.ScenarioPerSeed = 1
	}
	return c
}

// Ignition describes where and when a Model's Scenarios start: either a
// single point (Perimeter nil) or an initial burned perimeter.
type Ignition struct {
	StartTime  float64
	StartCell  grid.Cell
	Perimeter  []grid.Location
	SavePoints []float64
}

// InterimWriter is called when the deadline or count limit fires before
// any Iteration has completed, so the caller can persist "interim_"
// prefixed snapshots (spec.md section 5's cancellation semantics).
type InterimWriter func(runID uuid.UUID, bySaveTime map[float64]*probability.Map) error

// Model owns the shared ProbabilityMaps (one per save time) and the
// accumulated fire-size statistics across every Iteration run so far. It
// corresponds to spec.md's "Model" (cyclic-reference note in section 9:
// Model owns Scenarios and their shared state, Scenarios never reach back
// into it except through the small Config/Grid values passed at
// construction).
type Model struct {
	cfg   Config
	grid  scenario.Grid
	sCfg  scenario.Config
	startup weather.Startup
	ign   Ignition
	runID uuid.UUID

	OnInterim InterimWriter

	mu         sync.Mutex
	bySaveTime map[float64]*probability.Map
	allSizes   []float64
	means      []float64
	percentile95s []float64

	iterationsRun int
	simulationsRun int32

	cancelled int32
	active    []*scenario.Scenario
	activeMu  sync.Mutex
}

// New constructs a Model. g and sCfg describe the shared grid/behavior
// config every Scenario spreads under; ign fixes the shared
// start point/time/save points an Iteration's Scenarios all share.
func New(cfg Config, g scenario.Grid, sCfg scenario.Config, startup weather.Startup, ign Ignition) *Model {
	cfg = cfg.WithDefaults()
	bySaveTime := make(map[float64]*probability.Map, len(ign.SavePoints))
	for _, sp := range ign.SavePoints {
		bySaveTime[sp] = probability.New(int(g.Rows()), int(g.Cols()))
	}
	return &Model{
		cfg:        cfg,
		grid:       g,
		sCfg:       sCfg,
		startup:    startup,
		ign:        ign,
		runID:      uuid.New(),
		bySaveTime: bySaveTime,
	}
}

// RunID identifies this Model run; the same value is passed to OnInterim.
func (m *Model) RunID() uuid.UUID { return m.runID }

// Cancel stops every Scenario currently in flight and prevents new ones
// from starting (the timer thread's deadline action, spec.md section 5).
func (m *Model) Cancel() {
	atomic.StoreInt32(&m.cancelled, 1)
	m.activeMu.Lock()
	for _, s := range m.active {
		s.Cancel()
	}
	m.activeMu.Unlock()
}

func (m *Model) cancelled_() bool { return atomic.LoadInt32(&m.cancelled) != 0 }

// ProbabilityMaps returns the accumulated per-save-time ProbabilityMaps.
// Safe to call concurrently with Run, though the snapshot may be mid-merge.
func (m *Model) ProbabilityMaps() map[float64]*probability.Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[float64]*probability.Map, len(m.bySaveTime))
	for k, v := range m.bySaveTime {
		out[k] = v
	}
	return out
}

// Run drives the full stopping-rule loop: run one Iteration (a batch of
// cfg.ScenarioPerSeed Scenarios, one per weather scenario number in
// scenarioNumbers, each under an independently seeded RNG pair), fold its
// results into the Model, then check runsRequired against the confidence
// target. It stops when the statistics are confident, the simulation
// count ceiling is hit, the deadline passes, or scenarioNumbers is
// exhausted.
func (m *Model) Run(ctx context.Context, stream *weather.Stream, scenarioNumbers []int, seedBase int64) error {
	if !m.cfg.Deadline.IsZero() {
		deadlineCtx, cancel := context.WithDeadline(ctx, m.cfg.Deadline)
		defer cancel()
		ctx = deadlineCtx
		go m.watchDeadline(ctx)
	}

	offset := 0
	for offset < len(scenarioNumbers) {
		if m.cancelled_() || ctx.Err() != nil {
			break
		}
		if m.cfg.MaxSimulations > 0 && int(atomic.LoadInt32(&m.simulationsRun)) >= m.cfg.MaxSimulations {
			break
		}
		end := offset + m.cfg.ScenarioPerSeed
		if end > len(scenarioNumbers) {
			end = len(scenarioNumbers)
		}
		batch := scenarioNumbers[offset:end]
		offset = end

		sizes, err := m.runIteration(ctx, stream, batch, seedBase+int64(m.iterationsRun))
		if err != nil {
			return fmt.Errorf("firestarr: iteration %d: %w", m.iterationsRun, err)
		}
		m.iterationsRun++

		if m.addStatistics(sizes) {
			break // past the simulation-count limit
		}
		if m.runsRequired() == 0 {
			break
		}
	}

	if m.cancelled_() && m.iterationsRun == 0 && m.OnInterim != nil {
		return m.OnInterim(m.runID, m.ProbabilityMaps())
	}
	return nil
}

// watchDeadline polls ctx every second (spec.md section 5: "the timer
// thread sleeps 1 second between deadline checks") and cancels the Model
// the instant the deadline passes, rather than waiting for <-ctx.Done()
// alone to unwind in-flight Scenarios.
func (m *Model) watchDeadline(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			m.Cancel()
			return
		case <-ticker.C:
		}
	}
}

// runIteration runs one batch of Scenarios concurrently, bounded by
// cfg.Workers (the counting semaphore of spec.md section 5), folding each
// Scenario's per-save-time snapshots into the Model's shared
// ProbabilityMaps as they finish, and returns the batch's final fire
// sizes for the stopping-rule statistics.
func (m *Model) runIteration(ctx context.Context, stream *weather.Stream, scenarioNumbers []int, seedBase int64) ([]float64, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.cfg.Workers)

	sizes := make([]float64, len(scenarioNumbers))
	for i, num := range scenarioNumbers {
		i, num := i, num
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			days, ok := stream.Scenarios[num]
			if !ok {
				return fmt.Errorf("firestarr: weather stream has no scenario %d", num)
			}
			s := scenario.New(m.sCfg, m.grid, days, m.startup, seedBase+int64(i))

			m.activeMu.Lock()
			m.active = append(m.active, s)
			m.activeMu.Unlock()

			s.OnSave = func(t float64, im *intensity.Map) {
				m.mu.Lock()
				pm, ok := m.bySaveTime[t]
				m.mu.Unlock()
				if ok {
					pm.AddProbability(im)
				}
			}

			err := s.Run(m.ign.StartTime, m.ign.StartCell, m.ign.Perimeter, m.ign.SavePoints)
			atomic.AddInt32(&m.simulationsRun, 1)
			// A cancelled Scenario never reaches its last save point, so
			// FinalSize stays at its zero value; spec.md section 5 says
			// such partial results are discarded, not folded into the
			// size statistics.
			if err == nil && s.FinalSize > 0 {
				sizes[i] = s.FinalSize
			} else {
				sizes[i] = -1
			}
			return err
		})
	}

	err := g.Wait()
	completed := sizes[:0]
	for _, sz := range sizes {
		if sz > 0 {
			completed = append(completed, sz)
		}
	}
	return completed, err
}

// addStatistics folds one Iteration's fire sizes in (mean and 95th
// percentile inserted in sorted order, matching Model::add_statistics's
// insert_sorted calls) and reports whether the simulation-count limit has
// now been reached.
func (m *Model) addStatistics(sizes []float64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(sizes) == 0 {
		return m.cfg.MaxSimulations > 0 && len(m.allSizes) >= m.cfg.MaxSimulations
	}
	sorted := append([]float64(nil), sizes...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	mean := summarize(sorted).mean
	pct := percentile95(sorted)
	m.means = insertSorted(m.means, mean)
	m.percentile95s = insertSorted(m.percentile95s, pct)
	for _, sz := range sizes {
		m.allSizes = insertSorted(m.allSizes, sz)
	}
	return m.cfg.MaxSimulations > 0 && len(m.allSizes) >= m.cfg.MaxSimulations
}

// runsRequired implements Model.cpp's runs_required: confident only if
// the mean, 95th-percentile, and raw-size samples are all independently
// confident at cfg.ConfidenceLevel; otherwise returns the largest of the
// three samples' estimated additional-runs requirement.
func (m *Model) runsRequired() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sCfg.Deterministic {
		return 0
	}
	forMeans := summarize(m.means)
	forPct := summarize(m.percentile95s)
	forSizes := summarize(m.allSizes)

	if forMeans.isConfident(m.cfg.ConfidenceLevel) &&
		forPct.isConfident(m.cfg.ConfidenceLevel) &&
		forSizes.isConfident(m.cfg.ConfidenceLevel) {
		return 0
	}
	need := forMeans.runsRequired(m.cfg.ConfidenceLevel)
	if n := forPct.runsRequired(m.cfg.ConfidenceLevel); n > need {
		need = n
	}
	if n := forSizes.runsRequired(m.cfg.ConfidenceLevel); n > need {
		need = n
	}
	return need
}

// Sizes returns a copy of every observed final fire size, sorted.
func (m *Model) Sizes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.allSizes))
	copy(out, m.allSizes)
	return out
}

// IterationsRun reports how many Iteration batches have completed.
func (m *Model) IterationsRun() int { return m.iterationsRun }
