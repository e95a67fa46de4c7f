// Package fuel implements the fuel-type contract the core spread
// simulator depends on (spec.md section 6) with a concrete FBP-style fuel
// library, grounded on the Canadian Forest Fire Behaviour Prediction (FBP)
// System's published rate-of-spread and intensity equations.
//
// The core simulator only ever talks to the Type interface; callers that
// want a different fuel model (e.g. a richer one ported line-for-line from
// the original C++ SimpleFBP implementation) can supply their own
// implementation without touching internal/spread or internal/scenario.
package fuel

// Weather is the subset of fire-weather information a fuel type's
// formulas need. It is produced by internal/fwi from a daily/hourly
// observation stream.
type Weather struct {
	FFMC, DMC, DC, BUI, ISI float64
	WS, WD, TEMP, RH, PREC  float64
	FMC                     float64 // foliar moisture content, %
}

// Type is the contract every fuel model must satisfy (spec.md section 6).
// nd is the signed day offset from the date of minimum foliar moisture
// content at the start point.
type Type interface {
	Code() int
	Name() string
	IsValid() bool

	CalculateROS(nd int, w Weather, isi float64) float64
	CalculateISF(w Weather, isi float64) float64
	SurfaceFuelConsumption(w Weather) float64
	BUIEffect(bui float64) float64
	LengthToBreadth(windSpeed float64) float64
	CriticalSurfaceIntensity(w Weather) float64
	CrownConsumption(cfb float64) float64
	CrownFractionBurned(ros, rso float64) float64
	FinalROS(w Weather, isi, cfb, rss float64) float64

	CanCrown() bool
	CBH() float64 // crown base height, m
	CFL() float64 // crown fuel load, kg/m^2

	SurvivalProbability(w Weather, code int) float64
}

// NonFuel is a Type representing an unburnable cell (water, rock, ice,
// non-fuel vegetation). Its ROS is always zero so SpreadInfo's "no-spread"
// early exit always triggers on it (spec.md section 4.D step 1).
type NonFuel struct {
	code int
	name string
}

// NewNonFuel creates a non-fuel placeholder with the given raster code.
func NewNonFuel(code int, name string) NonFuel { return NonFuel{code: code, name: name} }

func (f NonFuel) Code() int    { return f.code }
func (f NonFuel) Name() string { return f.name }
func (f NonFuel) IsValid() bool { return false }

func (f NonFuel) CalculateROS(int, Weather, float64) float64    { return 0 }
func (f NonFuel) CalculateISF(Weather, float64) float64         { return 0 }
func (f NonFuel) SurfaceFuelConsumption(Weather) float64        { return 0 }
func (f NonFuel) BUIEffect(float64) float64                     { return 0 }
func (f NonFuel) LengthToBreadth(float64) float64                { return 1 }
func (f NonFuel) CriticalSurfaceIntensity(Weather) float64       { return 0 }
func (f NonFuel) CrownConsumption(float64) float64               { return 0 }
func (f NonFuel) CrownFractionBurned(float64, float64) float64   { return 0 }
func (f NonFuel) FinalROS(Weather, float64, float64, float64) float64 { return 0 }
func (f NonFuel) CanCrown() bool                                 { return false }
func (f NonFuel) CBH() float64                                   { return 0 }
func (f NonFuel) CFL() float64                                   { return 0 }
func (f NonFuel) SurvivalProbability(Weather, int) float64       { return 0 }

// ExcludedCodes are raster fuel codes that are always treated as non-fuel
// regardless of what the lookup table says, ported from the original
// simulator's exclusionlist.h.
var ExcludedCodes = map[int]bool{
	0:   true, // nodata
	65:  true, // water
	66:  true, // ice/snow
	101: true, // non-fuel urban/agriculture
}
