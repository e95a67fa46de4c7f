package fuel

import "math"

// params holds the per-fuel-type constants from the FBP System's published
// rate-of-spread, fuel-consumption, and crowning equations (Forestry
// Canada Fire Danger Group 1992, "Development and Structure of the
// Canadian Forest Fire Behavior Prediction System", ST-X-3). Surface fuel
// consumption is simplified to a single saturating curve per fuel instead
// of the six fuel-group-specific branches in the original publication.
type params struct {
	code int
	name string

	a, b, c float64 // ROS = a*(1-exp(-b*ISI))^c
	buio    float64 // BUI where BUI effect saturates near 1
	q       float64 // BUI-effect decay constant

	sfcMax, sfcK float64 // surface fuel consumption saturation curve

	lbA, lbK, lbP float64 // length-to-breadth: 1 + lbA*(1-exp(-lbK*WSV))^lbP

	canCrown bool
	cbh, cfl float64 // crown base height (m), crown fuel load (kg/m^2)
}

type fbpFuel struct{ p params }

func newFBPFuel(p params) fbpFuel { return fbpFuel{p: p} }

func (f fbpFuel) Code() int     { return f.p.code }
func (f fbpFuel) Name() string  { return f.p.name }
func (f fbpFuel) IsValid() bool { return true }

// rsi is the ISI-driven base rate of spread before the BUI effect is
// applied (FBP eq. 26).
func (f fbpFuel) rsi(isi float64) float64 {
	return f.p.a * math.Pow(1-math.Exp(-f.p.b*isi), f.p.c)
}

// CalculateROS applies the BUI effect on top of the ISI-driven base rate.
// nd (day offset from minimum foliar moisture) is accepted for interface
// symmetry with fuels whose ROS depends on seasonal curing; the FBP fuels
// modeled here don't vary by it.
func (f fbpFuel) CalculateROS(nd int, w Weather, isi float64) float64 {
	_ = nd
	return f.rsi(isi) * f.BUIEffect(w.BUI)
}

// CalculateISF backs out the ISI that would produce the fuel's current RSI
// in the absence of wind, i.e. the slope-only ISI used to derive a
// wind-equivalent speed (FBP eq. 39-41 family).
func (f fbpFuel) CalculateISF(w Weather, isi float64) float64 {
	rsf := f.rsi(isi) * f.BUIEffect(w.BUI)
	if rsf <= 0 || f.p.a <= 0 {
		return 0
	}
	ratio := rsf / f.p.a
	if ratio >= 1 {
		ratio = 0.9999999
	}
	inner := 1 - math.Pow(ratio, 1/f.p.c)
	if inner <= 0 {
		return 0
	}
	return -math.Log(inner) / f.p.b
}

func (f fbpFuel) SurfaceFuelConsumption(w Weather) float64 {
	if w.BUI <= 0 {
		return 0
	}
	return f.p.sfcMax * (1 - math.Exp(-f.p.sfcK*w.BUI))
}

func (f fbpFuel) BUIEffect(bui float64) float64 {
	if bui <= 1e-6 || f.p.buio <= 0 {
		return 0.1
	}
	be := math.Exp(50 * math.Log(f.p.q) * (1/bui - 1/f.p.buio))
	if be > 1 {
		return 1
	}
	if be < 0 {
		return 0
	}
	return be
}

func (f fbpFuel) LengthToBreadth(windSpeed float64) float64 {
	if windSpeed < 0 {
		windSpeed = 0
	}
	return 1 + f.p.lbA*math.Pow(1-math.Exp(-f.p.lbK*windSpeed), f.p.lbP)
}

func (f fbpFuel) CriticalSurfaceIntensity(w Weather) float64 {
	if !f.p.canCrown || f.p.cbh <= 0 {
		return math.Inf(1)
	}
	fmc := w.FMC
	if fmc <= 0 {
		fmc = 100
	}
	return 0.001 * math.Pow(f.p.cbh, 1.5) * math.Pow(460+25.9*fmc, 1.5)
}

func (f fbpFuel) CrownConsumption(cfb float64) float64 {
	if cfb < 0 {
		cfb = 0
	}
	return f.p.cfl * cfb
}

func (f fbpFuel) CrownFractionBurned(ros, rso float64) float64 {
	if !f.p.canCrown || f.p.cfl <= 0 {
		return 0
	}
	cfb := 1 - math.Exp(-0.23*(ros-rso))
	if cfb < 0 {
		return 0
	}
	if cfb > 1 {
		return 1
	}
	return cfb
}

// FinalROS blends the surface rate (rss) toward a crown-fire rate as the
// crown fraction burned (cfb) increases, following the empirical crown
// rate-of-spread relationship used for C6-family fuels (RSC ~ 3.34*RSS^0.7).
func (f fbpFuel) FinalROS(w Weather, isi, cfb, rss float64) float64 {
	if !f.p.canCrown || cfb <= 0 {
		return rss
	}
	rsc := 3.34 * math.Pow(rss, 0.7)
	if rsc < rss {
		rsc = rss
	}
	return rss + cfb*(rsc-rss)
}

func (f fbpFuel) CanCrown() bool { return f.p.canCrown }
func (f fbpFuel) CBH() float64   { return f.p.cbh }
func (f fbpFuel) CFL() float64   { return f.p.cfl }

// SurvivalProbability is a simplified single-curve stand-in for the
// original multi-duff-type logistic blend (original_source's
// SimpleFuelType::survivalProbability): a logistic curve in DMC alone
// that increases with DMC (deeper organic layers hold ignitions longer),
// bounded to [0,1]. FFMC and the fuel code do not affect it.
func (f fbpFuel) SurvivalProbability(w Weather, code int) float64 {
	_ = code
	x := -3.11 + 0.12*w.DMC
	p := math.Exp(x) / (1 + math.Exp(x))
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Standard FBP fuel type codes, matching the raster-lookup convention used
// by Canadian fire agencies (a non-fuel lookup maps to fuel.NonFuel).
const (
	CodeC1 = iota + 1
	CodeC2
	CodeC3
	CodeC4
	CodeC5
	CodeC6
	CodeC7
	CodeD1
	CodeM1
	CodeM2
	CodeO1a
	CodeO1b
	CodeS1
	CodeS2
	CodeS3
)

// Library is the set of standard FBP fuel types.
var Library = map[int]Type{
	CodeC1:  newFBPFuel(params{code: CodeC1, name: "C1", a: 90, b: 0.0649, c: 4.5, buio: 72, q: 0.90, sfcMax: 2.0, sfcK: 0.040, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 2, cfl: 0.75}),
	CodeC2:  newFBPFuel(params{code: CodeC2, name: "C2", a: 110, b: 0.0282, c: 1.5, buio: 64, q: 0.70, sfcMax: 6.5, sfcK: 0.050, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 3, cfl: 0.80}),
	CodeC3:  newFBPFuel(params{code: CodeC3, name: "C3", a: 110, b: 0.0444, c: 3.0, buio: 62, q: 0.75, sfcMax: 7.5, sfcK: 0.035, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 8, cfl: 1.15}),
	CodeC4:  newFBPFuel(params{code: CodeC4, name: "C4", a: 110, b: 0.0293, c: 1.5, buio: 66, q: 0.80, sfcMax: 8.0, sfcK: 0.040, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 4, cfl: 1.20}),
	CodeC5:  newFBPFuel(params{code: CodeC5, name: "C5", a: 30, b: 0.0697, c: 4.0, buio: 56, q: 0.80, sfcMax: 5.0, sfcK: 0.035, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 18, cfl: 1.20}),
	CodeC6:  newFBPFuel(params{code: CodeC6, name: "C6", a: 30, b: 0.0800, c: 3.0, buio: 62, q: 0.80, sfcMax: 5.0, sfcK: 0.035, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 7, cfl: 1.80}),
	CodeC7:  newFBPFuel(params{code: CodeC7, name: "C7", a: 45, b: 0.0305, c: 2.0, buio: 106, q: 0.85, sfcMax: 4.5, sfcK: 0.030, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 10, cfl: 0.50}),
	CodeD1:  newFBPFuel(params{code: CodeD1, name: "D1", a: 30, b: 0.0232, c: 1.6, buio: 32, q: 0.90, sfcMax: 1.5, sfcK: 0.025, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: false}),
	CodeM1:  newFBPFuel(params{code: CodeM1, name: "M1", a: 70, b: 0.0404, c: 1.6, buio: 50, q: 0.80, sfcMax: 5.0, sfcK: 0.040, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 3, cfl: 0.80}),
	CodeM2:  newFBPFuel(params{code: CodeM2, name: "M2", a: 70, b: 0.0404, c: 1.6, buio: 50, q: 0.80, sfcMax: 3.0, sfcK: 0.030, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: true, cbh: 3, cfl: 0.80}),
	CodeO1a: newFBPFuel(params{code: CodeO1a, name: "O1a", a: 190, b: 0.0310, c: 1.4, buio: 1, q: 1.0, sfcMax: 2.0, sfcK: 0.2, lbA: 1.1, lbK: 0.0464, lbP: 1.0, canCrown: false}),
	CodeO1b: newFBPFuel(params{code: CodeO1b, name: "O1b", a: 250, b: 0.0350, c: 1.7, buio: 1, q: 1.0, sfcMax: 3.5, sfcK: 0.2, lbA: 1.1, lbK: 0.0464, lbP: 1.0, canCrown: false}),
	CodeS1:  newFBPFuel(params{code: CodeS1, name: "S1", a: 75, b: 0.0297, c: 1.3, buio: 38, q: 0.75, sfcMax: 10.0, sfcK: 0.025, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: false}),
	CodeS2:  newFBPFuel(params{code: CodeS2, name: "S2", a: 40, b: 0.0438, c: 1.7, buio: 63, q: 0.75, sfcMax: 12.0, sfcK: 0.025, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: false}),
	CodeS3:  newFBPFuel(params{code: CodeS3, name: "S3", a: 55, b: 0.0829, c: 3.2, buio: 31, q: 0.75, sfcMax: 15.0, sfcK: 0.020, lbA: 8.729, lbK: 0.030, lbP: 2.155, canCrown: false}),
}

// Lookup returns the fuel type for a raster code, or a NonFuel placeholder
// if the code is unknown or excluded.
func Lookup(code int) Type {
	if ExcludedCodes[code] {
		return NewNonFuel(code, "nonfuel")
	}
	if t, ok := Library[code]; ok {
		return t
	}
	return NewNonFuel(code, "unknown")
}
