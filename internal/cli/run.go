package cli

import (
	"context"
	"fmt"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
	"github.com/cwfis/firestarr/internal/iteration"
	"github.com/cwfis/firestarr/internal/probability"
	"github.com/cwfis/firestarr/internal/raster"
	"github.com/cwfis/firestarr/internal/scenario"
	"github.com/cwfis/firestarr/internal/weather"
)

// runConfig is everything loadRunConfig parses out of positional
// arguments, flags, and input files, ready to drive an iteration.Model.
type runConfig struct {
	outputDir string
	startDate time.Time

	grid *raster.Grid
	lut  *fuel.Lut

	sCfg    scenario.Config
	ign     iteration.Ignition
	startup weather.Startup
	stream  *weather.Stream

	iterCfg iteration.Config

	writeProbability bool
	writeIntensity   bool
	writeOccurrence  bool

	synchronous bool
	debugAddr   string
}

// loadRunConfig validates and assembles a runConfig from cfg's bound
// flags/config-file values and the run/validate commands' positional
// arguments, failing fast the way spec.md section 7 requires of
// ConfigurationError and InputDataError: before any Scenario runs.
func loadRunConfig(cfg *Cfg, args []string) (*runConfig, error) {
	rc := &runConfig{}

	rc.outputDir = args[0]

	startDate, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return nil, fmt.Errorf("firestarr: invalid start date %q: %w", args[1], err)
	}
	rc.startDate = startDate

	lat, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, fmt.Errorf("firestarr: invalid latitude %q: %w", args[2], err)
	}
	lon, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return nil, fmt.Errorf("firestarr: invalid longitude %q: %w", args[3], err)
	}

	startHourMin, err := time.Parse("15:04", args[4])
	if err != nil {
		return nil, fmt.Errorf("firestarr: invalid start time %q: %w", args[4], err)
	}
	startHour := float64(startHourMin.Hour()) + float64(startHourMin.Minute())/60

	for _, f := range cfg.InputFiles() {
		if path := cfg.GetString(f); path != "" {
			if _, err := os.Stat(path); err != nil {
				return nil, fmt.Errorf("firestarr: input file --%s: %w", f, err)
			}
		}
	}

	wxPath := cfg.GetString("wx")
	if wxPath == "" {
		return nil, fmt.Errorf("firestarr: --wx is required")
	}
	wxFile, err := os.Open(wxPath)
	if err != nil {
		return nil, fmt.Errorf("firestarr: opening weather file: %w", err)
	}
	defer wxFile.Close()
	rc.stream, err = weather.Load(wxFile)
	if err != nil {
		return nil, err
	}

	rc.startup = weather.Startup{
		FFMC: cfg.GetFloat64("ffmc"),
		DMC:  cfg.GetFloat64("dmc"),
		DC:   cfg.GetFloat64("dc"),
	}

	rasterRoot := cfg.GetString("raster-root")
	if rasterRoot == "" {
		return nil, fmt.Errorf("firestarr: --raster-root is required")
	}
	rc.grid, rc.lut, err = loadRasters(rasterRoot, cfg.GetString("fuel-lut"))
	if err != nil {
		return nil, err
	}

	sCfg := scenario.DefaultConfig()
	sCfg.Latitude = lat
	sCfg.Longitude = lon
	sCfg.TZOffsetHours = cfg.GetFloat64("tz")
	sCfg.Deterministic = cfg.GetBool("deterministic")
	rc.sCfg = sCfg

	startRow, startCol := rc.grid.Transform().RowCol(lon, lat)
	if !rc.grid.InBounds(int32(startRow), int32(startCol)) {
		return nil, fmt.Errorf("firestarr: ignition point (%g, %g) falls outside the fuel raster", lat, lon)
	}
	startLoc, ok := resolveIgnitionCell(rc.grid, int32(startRow), int32(startCol))
	if !ok {
		return nil, fmt.Errorf("firestarr: ignition point (%g, %g) lands on a non-fuel cell and no fuel cell was found within half the grid", lat, lon)
	}
	startCell := rc.grid.CellAt(startLoc.Row(), startLoc.Column())

	var perimeter []grid.Location
	if perimPath := cfg.GetString("perim"); perimPath != "" {
		perimeter, err = loadPerimeter(perimPath, rc.grid)
		if err != nil {
			return nil, err
		}
	}

	offsets, err := parseOffsets(cfg.GetString("output_date_offsets"))
	if err != nil {
		return nil, err
	}
	savePoints := make([]float64, len(offsets))
	for i, d := range offsets {
		savePoints[i] = float64(d) + startHour/24
	}

	rc.ign = iteration.Ignition{
		StartTime:  startHour / 24,
		StartCell:  startCell,
		Perimeter:  perimeter,
		SavePoints: savePoints,
	}

	maxSim := cfg.GetInt("sim-area")
	var deadline time.Time
	if secs := cfg.GetInt("maximum-time-seconds"); secs > 0 {
		deadline = time.Now().Add(time.Duration(secs) * time.Second)
	}
	rc.iterCfg = iteration.Config{
		ConfidenceLevel: cfg.GetFloat64("confidence"),
		MaxSimulations:  maxSim,
		Deadline:        deadline,
	}.WithDefaults()
	if cfg.GetBool("synchronous") {
		rc.iterCfg.Workers = 1
	}

	rc.writeProbability = !cfg.GetBool("no-probability")
	rc.writeIntensity = !cfg.GetBool("no-intensity")
	rc.writeOccurrence = cfg.GetBool("occurrence")
	rc.synchronous = cfg.GetBool("synchronous")
	rc.debugAddr = cfg.GetString("debug-addr")

	return rc, nil
}

// resolveIgnitionCell returns (row, col) itself if it carries a valid fuel
// type, otherwise spiral-searches outward for the nearest fuel cell
// (spec.md section 7: recoverable by spiral search, fatal only past half
// the grid).
func resolveIgnitionCell(g *raster.Grid, row, col int32) (grid.Location, bool) {
	isFuel := func(r, c int32) bool {
		if !g.InBounds(r, c) {
			return false
		}
		return fuel.Lookup(g.CellAt(r, c).Key().FuelCode()).IsValid()
	}
	maxRadius := g.Rows()
	if g.Cols() < maxRadius {
		maxRadius = g.Cols()
	}
	maxRadius /= 2
	return grid.SpiralSearch(row, col, maxRadius, isFuel)
}

func loadRasters(root, lutPath string) (*raster.Grid, *fuel.Lut, error) {
	fuelImg, err := decodeRasterFile(filepath.Join(root, "fuel.tif"))
	if err != nil {
		return nil, nil, err
	}
	slopeImg, err := decodeRasterFile(filepath.Join(root, "slope.tif"))
	if err != nil {
		return nil, nil, err
	}
	aspectImg, err := decodeRasterFile(filepath.Join(root, "aspect.tif"))
	if err != nil {
		return nil, nil, err
	}

	worldFile, err := os.Open(filepath.Join(root, "fuel.tfw"))
	if err != nil {
		return nil, nil, fmt.Errorf("firestarr: opening fuel world file: %w", err)
	}
	defer worldFile.Close()
	transform, err := raster.ReadWorldFile(worldFile)
	if err != nil {
		return nil, nil, err
	}

	lutFile, err := os.Open(lutPath)
	if err != nil {
		return nil, nil, fmt.Errorf("firestarr: opening fuel lookup table: %w", err)
	}
	defer lutFile.Close()
	lut, err := fuel.LoadLut(lutFile)
	if err != nil {
		return nil, nil, err
	}

	g, err := raster.LoadGrid(fuelImg, slopeImg, aspectImg, lut, transform)
	if err != nil {
		return nil, nil, err
	}
	return g, lut, nil
}

func decodeRasterFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("firestarr: opening raster %s: %w", path, err)
	}
	defer f.Close()
	img, err := raster.DecodeTIFF(f)
	if err != nil {
		return nil, fmt.Errorf("firestarr: decoding raster %s: %w", path, err)
	}
	return img, nil
}

func loadPerimeter(path string, g *raster.Grid) ([]grid.Location, error) {
	if strings.EqualFold(filepath.Ext(path), ".shp") {
		return raster.PerimeterFromShapefile(path, g.Transform(), g.Rows(), g.Cols())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("firestarr: opening perimeter raster: %w", err)
	}
	defer f.Close()
	return raster.PerimeterFromRaster(f)
}

func parseOffsets(csv string) ([]int, error) {
	parts := strings.Split(csv, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("firestarr: invalid --output_date_offsets entry %q: %w", p, err)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("firestarr: --output_date_offsets must name at least one day")
	}
	return out, nil
}

// runSimulation is the run command's RunE body: it assembles a runConfig,
// builds an iteration.Model, runs it to completion or cancellation, and
// writes the output raster set (spec.md sections 5-7).
func runSimulation(cfg *Cfg, args []string) error {
	rc, err := loadRunConfig(cfg, args)
	if err != nil {
		logFatal(err)
		return err
	}

	if err := raster.RemoveInterim(rc.outputDir); err != nil {
		logWarning("removing interim outputs: %v", err)
	}

	if rc.debugAddr != "" {
		startDebugServer(rc.debugAddr)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	scenarioNumbers := make([]int, 0, len(rc.stream.Scenarios))
	for n := range rc.stream.Scenarios {
		scenarioNumbers = append(scenarioNumbers, n)
	}

	m := iteration.New(rc.iterCfg, rc.grid, rc.sCfg, rc.startup, rc.ign)
	m.OnInterim = func(_ uuid.UUID, bySaveTime map[float64]*probability.Map) error {
		return writeProbabilityMaps(rc, bySaveTime, true)
	}

	logInfo("firestarr: starting %d-scenario weather stream, %d available scenarios", len(rc.stream.Scenarios), len(scenarioNumbers))

	runErr := m.Run(ctx, rc.stream, scenarioNumbers, 1)

	if m.IterationsRun() > 0 {
		if err := writeProbabilityMaps(rc, m.ProbabilityMaps(), false); err != nil {
			logWarning("writing outputs: %v", err)
		}
	}

	logInfo("firestarr: %d iterations, %d scenarios simulated", m.IterationsRun(), len(m.Sizes()))

	if runErr != nil {
		logFatal(runErr)
		return runErr
	}
	return nil
}

// writeProbabilityMaps writes one output file set per save time. interim
// marks the set with the "interim_" prefix spec.md section 5 uses for
// partial output left behind by a deadline/count cancellation.
func writeProbabilityMaps(rc *runConfig, bySaveTime map[float64]*probability.Map, interim bool) error {
	opts := raster.OutputOptions{
		Probability: rc.writeProbability,
		Intensity:   rc.writeIntensity,
		Occurrence:  rc.writeOccurrence,
		Interim:     interim,
	}
	var firstErr error
	for saveTime, pm := range bySaveTime {
		day := rc.startDate.Add(time.Duration(saveTime * 24 * float64(time.Hour)))
		if err := raster.WriteOutputs(rc.outputDir, day, day.YearDay(), pm, rc.grid.Transform(), opts); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
