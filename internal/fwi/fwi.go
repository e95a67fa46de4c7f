// Package fwi implements the Canadian Forest Fire Weather Index (FWI)
// System's daily index updates and the ISI/BUI/FWI combination formulas,
// plus an hourly FFMC interpolation used to gate day/night spread.
//
// spec.md treats FWI recomputation as an external collaborator; this
// package exists because the CLI surface only accepts one day's starting
// FFMC/DMC/DC (spec.md section 6) and must derive every subsequent day's
// indices itself to build the per-hour Weather values internal/spread
// consumes. Formulas follow Van Wagner (1987), "Development and
// Structure of the Canadian Forest Fire Weather Index System".
package fwi

import "math"

// Daily holds one day's computed FWI system indices.
type Daily struct {
	FFMC, DMC, DC, ISI, BUI, FWI float64
}

// Observation is one day's noon weather observation.
type Observation struct {
	Temp, RH, Wind, Rain float64 // degrees C, %, km/h, mm
	Month                int     // 1..12, used by the DMC/DC drying factor tables
}

// FFMC updates yesterday's Fine Fuel Moisture Code with today's noon
// weather.
func FFMC(prevFFMC float64, o Observation) float64 {
	rh := clamp(o.RH, 0, 100)
	mo := 147.2 * (101 - prevFFMC) / (59.5 + prevFFMC)

	if o.Rain > 0.5 {
		rf := o.Rain - 0.5
		if mo <= 150 {
			mo += 42.5 * rf * math.Exp(-100/(251-mo)) * (1 - math.Exp(-6.93/rf))
		} else {
			mo += 42.5*rf*math.Exp(-100/(251-mo))*(1-math.Exp(-6.93/rf)) +
				0.0015*(mo-150)*(mo-150)*math.Sqrt(rf)
		}
		if mo > 250 {
			mo = 250
		}
	}

	ed := 0.942*math.Pow(rh, 0.679) + 11*math.Exp((rh-100)/10) +
		0.18*(21.1-o.Temp)*(1-math.Exp(-0.115*rh))
	ew := 0.618*math.Pow(rh, 0.753) + 10*math.Exp((rh-100)/10) +
		0.18*(21.1-o.Temp)*(1-math.Exp(-0.115*rh))

	var m float64
	switch {
	case mo < ed && mo < ew:
		k1 := 0.424 * (1 - math.Pow((100-rh)/100, 1.7))
		k2 := 0.0694 * math.Sqrt(o.Wind) * (1 - math.Pow((100-rh)/100, 8))
		kw := k1 * k2 * 0.581 * math.Exp(0.0365*o.Temp)
		m = ew - (ew-mo)*math.Pow(10, -kw)
	case mo > ed:
		k1 := 0.424 * (1 - math.Pow(rh/100, 1.7))
		k2 := 0.0694 * math.Sqrt(o.Wind) * (1 - math.Pow(rh/100, 8))
		kd := k1 * k2 * 0.581 * math.Exp(0.0365*o.Temp)
		m = ed + (mo-ed)*math.Pow(10, -kd)
	default:
		m = mo
	}

	ffmc := 59.5 * (250 - m) / (147.2 + m)
	return clamp(ffmc, 0, 101)
}

var dmcDayLength = [12]float64{6.5, 7.5, 9, 12.8, 13.9, 13.9, 12.4, 10.9, 9.4, 8, 7, 6}

// DMC updates yesterday's Duff Moisture Code with today's noon weather.
func DMC(prevDMC float64, o Observation) float64 {
	if o.Temp < -1.1 {
		return prevDMC
	}
	rk := 1.894 * (o.Temp + 1.1) * (100 - o.RH) * dmcDayLength[monthIndex(o.Month)] * 1e-4

	pmc := prevDMC
	if o.Rain > 1.5 {
		re := 0.92*o.Rain - 1.27
		mo := 20 + math.Exp(5.6348-prevDMC/43.43)
		var b float64
		switch {
		case prevDMC <= 33:
			b = 100 / (0.5 + 0.3*prevDMC)
		case prevDMC <= 65:
			b = 14 - 1.3*math.Log(prevDMC)
		default:
			b = 6.2*math.Log(prevDMC) - 17.2
		}
		mr := mo + 1000*re/(48.77+b*re)
		pmc = 43.43 * (5.6348 - math.Log(mr-20))
		if pmc < 0 {
			pmc = 0
		}
	}
	return pmc + rk
}

var dcDayFactor = [12]float64{-1.6, -1.6, -1.6, 0.9, 3.8, 5.8, 6.4, 5.0, 2.4, 0.4, -1.6, -1.6}

// DC updates yesterday's Drought Code with today's noon weather.
func DC(prevDC float64, o Observation) float64 {
	if o.Temp < -2.8 {
		return prevDC
	}
	v := 0.36*(o.Temp+2.8) + dcDayFactor[monthIndex(o.Month)]
	if v < 0 {
		v = 0
	}

	dc0 := prevDC
	if o.Rain > 2.8 {
		rd := 0.83*o.Rain - 1.27
		q0 := 800 * math.Exp(-prevDC/400)
		qr := q0 + 3.937*rd
		dr := 400 * math.Log(800/qr)
		if dr < 0 {
			dr = 0
		}
		dc0 = dr
	}
	return dc0 + 0.5*v
}

// ISI computes the Initial Spread Index from FFMC and wind speed (km/h).
func ISI(ffmc, wind float64) float64 {
	mo := 147.2 * (101 - ffmc) / (59.5 + ffmc)
	ff := 19.115 * math.Exp(mo*-0.1386) * (1 + math.Pow(mo, 5.31)/4.93e7)
	return ff * math.Exp(0.05039*wind)
}

// BUI combines DMC and DC into the Buildup Index.
func BUI(dmc, dc float64) float64 {
	if dmc <= 0.4*dc {
		if dmc+dc == 0 {
			return 0
		}
		return 0.8 * dmc * dc / (dmc + 0.4*dc)
	}
	return dmc - (1-0.8*dc/(dmc+0.4*dc))*(0.92+math.Pow(0.0114*dmc, 1.7))
}

// FWI combines ISI and BUI into the Fire Weather Index.
func FWI(isi, bui float64) float64 {
	var fd float64
	if bui <= 80 {
		fd = 0.626*math.Pow(bui, 0.809) + 2
	} else {
		fd = 1000 / (25 + 108.64*math.Exp(-0.023*bui))
	}
	b := 0.1 * isi * fd
	if b <= 1 {
		return b
	}
	return math.Exp(2.72 * math.Pow(0.434*math.Log(b), 0.647))
}

// Advance computes a full day's Daily indices from yesterday's Daily and
// today's Observation.
func Advance(prev Daily, o Observation) Daily {
	ffmc := FFMC(prev.FFMC, o)
	dmc := DMC(prev.DMC, o)
	dc := DC(prev.DC, o)
	isi := ISI(ffmc, o.Wind)
	bui := BUI(dmc, dc)
	return Daily{FFMC: ffmc, DMC: dmc, DC: dc, ISI: isi, BUI: bui, FWI: FWI(isi, bui)}
}

// HourlyFFMC applies the daily FFMC equation once more, starting from
// noonFFMC, with the given weather values. It takes no hour offset and
// does not model a diurnal curve: the same inputs give the same value at
// every hour. This is a simplification of the original hour-by-hour
// equilibrium-moisture-content recursion in fs/FWI.cpp.
func HourlyFFMC(noonFFMC, hourRH, hourTemp, hourWind, hourRain float64) float64 {
	return FFMC(noonFFMC, Observation{Temp: hourTemp, RH: hourRH, Wind: hourWind, Rain: hourRain})
}

func monthIndex(m int) int {
	if m < 1 {
		m = 1
	}
	if m > 12 {
		m = 12
	}
	return m - 1
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
