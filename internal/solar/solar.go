// Package solar implements the sunrise/sunset approximation used to gate
// day/night spread thresholds (spec.md section 4.F.1). Ported from the
// standard NOAA solar position algorithm referenced by original_source's
// fs/Util.cpp.
package solar

import "math"

// SunriseSunset returns the decimal hour (local standard time, 0-24) of
// sunrise and sunset at latitude/longitude on the given day-of-year,
// given the timezone offset from UTC in hours.
func SunriseSunset(lat, lon float64, dayOfYear int, tzOffsetHours float64) (sunrise, sunset float64) {
	rad := math.Pi / 180
	gamma := 2 * math.Pi / 365 * (float64(dayOfYear) - 1)

	eqtime := 229.18 * (0.000075 + 0.001868*math.Cos(gamma) - 0.032077*math.Sin(gamma) -
		0.014615*math.Cos(2*gamma) - 0.040849*math.Sin(2*gamma))
	decl := 0.006918 - 0.399912*math.Cos(gamma) + 0.070257*math.Sin(gamma) -
		0.006758*math.Cos(2*gamma) + 0.000907*math.Sin(2*gamma) -
		0.002697*math.Cos(3*gamma) + 0.00148*math.Sin(3*gamma)

	zenith := 90.833 * rad
	cosH := (math.Cos(zenith)/(math.Cos(lat*rad)*math.Cos(decl)) - math.Tan(lat*rad)*math.Tan(decl))
	if cosH > 1 {
		// Sun never rises.
		return 0, 0
	}
	if cosH < -1 {
		// Sun never sets.
		return 0, 24
	}
	haDeg := math.Acos(cosH) / rad

	sunriseUTCmin := 720 - 4*(lon+haDeg) - eqtime
	sunsetUTCmin := 720 - 4*(lon-haDeg) - eqtime

	sunrise = sunriseUTCmin/60 + tzOffsetHours
	sunset = sunsetUTCmin/60 + tzOffsetHours
	return normalizeHour(sunrise), normalizeHour(sunset)
}

func normalizeHour(h float64) float64 {
	for h < 0 {
		h += 24
	}
	for h >= 24 {
		h -= 24
	}
	return h
}

// IsDaytime reports whether hourOfDay (0-24, local standard time) falls
// between sunrise+offsetSunrise and sunset+offsetSunset.
func IsDaytime(hourOfDay, sunrise, sunset, offsetSunrise, offsetSunset float64) bool {
	start := sunrise + offsetSunrise
	end := sunset + offsetSunset
	return hourOfDay >= start && hourOfDay <= end
}
