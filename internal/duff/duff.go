// Package duff implements the short-residence-time survival rule
// referenced in spec.md section 4.F: a fire that has only briefly touched
// a cell survives unconditionally, without needing a stochastic
// extinction-probability check, if the duff layer hasn't had time to dry
// enough to support ignition. Ported from original_source's
// DuffSimple.h/.cpp.
package duff

// HourThresholds are the hours-at-location a fire must reach, for
// increasing bands of duff moisture content percent, before the
// short-residence-time guarantee no longer applies and the scenario must
// fall back to the stochastic survival-probability check.
var HourThresholds = [6]float64{100, 109, 119, 131, 145, 218}

// bandWidth is the width, in percent moisture content, of each of the six
// HourThresholds bands.
const bandWidth = 100.0 / 6.0

// band returns the HourThresholds index for a given duff moisture content
// percentage, clamped to the table's range.
func band(moistureContentPct float64) int {
	idx := int(moistureContentPct / bandWidth)
	if idx < 0 {
		return 0
	}
	if idx > len(HourThresholds)-1 {
		return len(HourThresholds) - 1
	}
	return idx
}

// GuaranteesSurvival reports whether a fire that has burned at a location
// for hoursAtLocation hours, given the duff layer's current moisture
// content percentage, is guaranteed to survive regardless of weather.
func GuaranteesSurvival(moistureContentPct, hoursAtLocation float64) bool {
	return hoursAtLocation < HourThresholds[band(moistureContentPct)]
}
