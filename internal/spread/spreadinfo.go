// Package spread implements SpreadInfo, the per-(fuel, slope, aspect,
// weather) computation of head rate of spread, length-to-breadth, and the
// set of directional ellipse offsets a scenario applies to every point in
// a cell sharing that key for the current hour (spec.md section 4.D).
//
// This is ported from original_source's fs/SpreadAlgorithm.cpp
// (OriginalSpreadAlgorithm::calculate_offsets) and the ROS/ISI derivation
// documented inline in spec.md, kept in the same "closure over an
// immutable snapshot" shape as the C++ version's HorizontalAdjustment
// lambda.
package spread

import (
	"math"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/grid"
)

// Offset is one directional spread sample: the compass bearing (radians,
// 0 = north), the horizontal (map) rate of spread at that bearing after
// the slope correction (m/min), and the per-minute cell offset (already
// divided by cell size).
type Offset struct {
	Direction float64
	ROS       float64
	Offset    grid.Offset
}

// Info is the full SpreadInfo for one (fuel, slope, aspect, weather) key:
// computed once per hour and shared by every cell whose key matches.
type Info struct {
	NoSpread        bool
	HeadROS         float64
	BackROS         float64
	HeadRAZ         float64 // radians, compass bearing
	LengthToBreadth float64
	MaxIntensity    float64
	TotalFuelConsumption float64
	Offsets         []Offset
}

// Params bundles the inputs SpreadInfo needs that don't vary with the
// scenario's clock: cell size, the minimum rate of spread below which a
// direction is considered not spreading, and the angular step used to
// sample the spread ellipse (spec.md section 4.D step 9, "Open
// questions" on max_angle/MAX_SPREAD_CELLS).
type Params struct {
	CellSizeM   float64
	MinROS      float64
	MaxAngleDeg float64
}

// fireIntensity is spec.md's fire_intensity(tfc, ros) = 300*tfc*ros, kW/m.
func fireIntensity(tfc, ros float64) float64 { return 300 * tfc * ros }

// horizontalAdjustment returns a function of a bearing (radians) giving the
// horizontal (map) distance covered per unit of ground distance spread in
// that direction on a slope of slopePercent facing slopeAzimuthDeg
// (spec.md section 4.D step 8).
func horizontalAdjustment(slopeAzimuthDeg, slopePercent float64) func(theta float64) float64 {
	if slopePercent == 0 {
		return func(float64) float64 { return 1.0 }
	}
	b := math.Cos(math.Atan(slopePercent / 100.0))
	slopeRad := slopeAzimuthDeg * math.Pi / 180
	return func(theta float64) float64 {
		angleUnrotated := theta - slopeRad
		tanU := math.Tan(angleUnrotated)
		y := b / math.Sqrt(b*tanU*(b*tanU)+1.0)
		x := y * tanU
		v := math.Sqrt(x*x + y*y)
		if v > 1 {
			return 1
		}
		return v
	}
}

// Compute derives the full SpreadInfo for a decoded fuel/slope/aspect key
// and the current hour's weather, following spec.md section 4.D steps
// 1-10. nd is the day offset from minimum foliar moisture content.
func Compute(p Params, f fuel.Type, slopePercent, aspectDeg float64, w fuel.Weather, nd int) Info {
	if !f.IsValid() {
		return Info{NoSpread: true}
	}

	sfc := f.SurfaceFuelConsumption(w)
	buiEff := f.BUIEffect(w.BUI)
	csi := f.CriticalSurfaceIntensity(w)

	isi := w.ISI
	raz := w.WD * math.Pi / 180
	effectiveWS := w.WS
	if slopePercent > 0 {
		upslopeAz := math.Mod(aspectDeg+180, 360) * math.Pi / 180
		isf := f.CalculateISF(w, isi)
		slopeWS := isiToWindSpeed(isf, w.FFMC)
		windX := w.WS * math.Sin(w.WD*math.Pi/180)
		windY := w.WS * math.Cos(w.WD*math.Pi/180)
		slopeX := slopeWS * math.Sin(upslopeAz)
		slopeY := slopeWS * math.Cos(upslopeAz)
		wsvX := windX + slopeX
		wsvY := windY + slopeY
		raz = math.Atan2(wsvX, wsvY)
		effectiveWS = math.Hypot(wsvX, wsvY)
		isi = fuel0197(effectiveWS, w.FFMC)
	}

	headROS := f.CalculateROS(nd, w, isi) * buiEff
	if headROS < p.MinROS {
		return Info{NoSpread: true}
	}

	tfc := sfc
	crowning := false
	surfaceIntensity := fireIntensity(sfc, headROS)
	if surfaceIntensity >= csi && !math.IsInf(csi, 1) {
		crowning = true
		rso := criticalROS(f, csi, sfc)
		cfb := f.CrownFractionBurned(headROS, rso)
		headROS = f.FinalROS(w, isi, cfb, headROS)
		tfc = sfc + f.CrownConsumption(cfb)
	}

	backISI := backISIFromWindSpeed(effectiveWS, w.FFMC)
	backROS := f.CalculateROS(nd, w, backISI) * buiEff
	if crowning {
		rso := criticalROS(f, csi, sfc)
		cfb := f.CrownFractionBurned(backROS, rso)
		backROS = f.FinalROS(w, backISI, cfb, backROS)
	}

	lb := f.LengthToBreadth(effectiveWS)

	info := Info{
		HeadROS:              headROS,
		BackROS:              backROS,
		HeadRAZ:              raz,
		LengthToBreadth:      lb,
		TotalFuelConsumption: tfc,
		MaxIntensity:         fireIntensity(tfc, headROS),
	}
	info.Offsets = ellipseOffsets(p, raz, headROS, backROS, lb, effectiveWS, slopePercent, aspectDeg)
	if len(info.Offsets) == 0 {
		info.NoSpread = true
	}
	return info
}

// fuel0197 is the standard ISI formula (FBP eq. 17/41): ISI = 0.208 *
// f(FFMC) * exp(0.05039*windSpeed), where f(FFMC) is the moisture
// function.
func fuel0197(windSpeed, ffmc float64) float64 {
	return 0.208 * ffmcFFunction(ffmc) * math.Exp(0.05039*windSpeed)
}

// ffmcFFunction is the FFMC-driven moisture term shared by the head and
// back ISI formulas (FBP eq. 17's f(FFMC)).
func ffmcFFunction(ffmc float64) float64 {
	mc := 147.2 * (101 - ffmc) / (59.5 + ffmc)
	return 91.9 * math.Exp(-0.1386*mc) * (1 + math.Pow(mc, 5.31)/4.93e7)
}

// isiToWindSpeed inverts fuel0197 for windSpeed given an ISI value and the
// current FFMC, used to turn the slope-only ISF back into an equivalent
// wind speed vector (spec.md section 4.D step 3, the "wind-equivalent"
// slope vector).
func isiToWindSpeed(isi, ffmc float64) float64 {
	f := ffmcFFunction(ffmc)
	if isi <= 0 || f <= 0 {
		return 0
	}
	return math.Log(isi/(0.208*f)) / 0.05039
}

// backISIFromWindSpeed is the empirical decay FBP uses to derive the back
// ISI from the effective head wind speed alone (FBP eq. 46, "BISI"):
// backing spread sees an effective wind reduced by the same exponential
// factor in the opposite sense (spec.md section 4.D step 6).
func backISIFromWindSpeed(windSpeed, ffmc float64) float64 {
	return 0.208 * ffmcFFunction(ffmc) * math.Exp(-0.05039*windSpeed)
}

// criticalROS is the FBP System's RSO = CSI / (300*SFC), the surface ROS
// at which crowning becomes critical.
func criticalROS(f fuel.Type, csi, sfc float64) float64 {
	_ = f
	if sfc <= 0 {
		return math.Inf(1)
	}
	return csi / (300 * sfc)
}

// ellipseOffsets samples the fire ellipse every MaxAngleDeg from the head
// bearing out to 180 degrees, mirroring OriginalSpreadAlgorithm's
// calculate_offsets (spec.md section 4.D step 9).
func ellipseOffsets(p Params, headRaz, headROS, backROS, lb, windSpeed, slopePercent, aspectDeg float64) []Offset {
	var offsets []Offset
	corr := horizontalAdjustment(aspectDeg, slopePercent)

	addOffset := func(direction, ros float64) bool {
		if ros < p.MinROS {
			return false
		}
		rosCell := ros / p.CellSizeM
		offsets = append(offsets, Offset{
			Direction: direction,
			ROS:       ros,
			Offset: grid.Offset{
				X: rosCell * math.Sin(direction),
				Y: rosCell * math.Cos(direction),
			},
		})
		return true
	}

	if !addOffset(headRaz, headROS*corr(headRaz)) {
		return offsets
	}

	a := (headROS + backROS) / 2.0
	c := a - backROS
	flankROS := a / lb
	aSq := a * a
	flankSq := flankROS * flankROS
	aSqSubCSq := aSq - c*c
	ac := a * c

	calculateROS := func(theta float64) float64 {
		cosT := math.Cos(theta)
		cosTSq := cosT * cosT
		fSqCosTSq := flankSq * cosTSq
		sinTSq := 1.0 - cosTSq
		v := (a*((flankROS*cosT*math.Sqrt(fSqCosTSq+aSqSubCSq*sinTSq)-ac*sinTSq)/(fSqCosTSq+aSq*sinTSq)) + c) / cosT
		return math.Abs(v)
	}

	addOffsets := func(angleRadians, rosFlat float64) bool {
		if rosFlat < p.MinROS {
			return false
		}
		d1 := fixAngle(angleRadians + headRaz)
		added := addOffset(d1, rosFlat*corr(d1))
		d2 := fixAngle(headRaz - angleRadians)
		added2 := addOffset(d2, rosFlat*corr(d2))
		return added || added2
	}

	addOffsetsCalcROS := func(angleRadians float64) bool {
		return addOffsets(angleRadians, calculateROS(angleRadians))
	}

	maxAngle := p.MaxAngleDeg
	if maxAngle <= 0 {
		maxAngle = 10
	}
	added := true
	for i := maxAngle; added && i < 90; i += maxAngle {
		added = addOffsetsCalcROS(i * math.Pi / 180)
	}
	if added {
		added = addOffsets(math.Pi/2, flankROS*math.Sqrt(aSqSubCSq)/a)
		for i := 90 + maxAngle; added && i < 180; i += maxAngle {
			added = addOffsetsCalcROS(i * math.Pi / 180)
		}
		if added && backROS >= p.MinROS {
			direction := fixAngle(headRaz + math.Pi)
			addOffset(direction, backROS*corr(direction))
		}
	}
	return offsets
}

// ROSThresholdFromUniform converts a uniform [0,1) threshold into a rate-
// of-spread threshold, monotonically increasing from minROS, used by a
// scenario's non-deterministic per-hour spread suppression
// (calculateRosFromThreshold, spec.md section 4.D).
func ROSThresholdFromUniform(uniform, minROS float64) float64 {
	return minROS * (1 + 4*uniform)
}

func fixAngle(theta float64) float64 {
	twoPi := 2 * math.Pi
	for theta < 0 {
		theta += twoPi
	}
	for theta >= twoPi {
		theta -= twoPi
	}
	return theta
}
