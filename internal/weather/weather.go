// Package weather parses the per-scenario daily fire-weather CSV stream
// and turns it, together with a starting day's FWI indices, into the
// per-hour fuel.Weather values the spread engine consumes (spec.md
// section 6).
package weather

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwfis/firestarr/internal/fuel"
	"github.com/cwfis/firestarr/internal/fwi"
)

// RequiredHeader is the exact CSV header the weather stream must have.
var RequiredHeader = []string{"Scenario", "Date", "PREC", "TEMP", "RH", "WS", "WD"}

// Day is one scenario's one day of noon weather observations.
type Day struct {
	Date                    time.Time
	Prec, Temp, RH, WS, WD float64
}

// Stream holds every scenario's day-by-day weather, keyed by scenario
// number (1..N).
type Stream struct {
	Scenarios map[int][]Day
}

// Load parses a weather CSV, validating the header, date format, strictly
// sequential per-scenario days, and that no scenario's stream crosses a
// year boundary (spec.md section 7, InputDataError).
func Load(r io.Reader) (*Stream, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("firestarr: reading weather file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("firestarr: weather file is empty")
	}
	header := records[0]
	if len(header) != len(RequiredHeader) {
		return nil, fmt.Errorf("firestarr: weather file header must be exactly %q, got %q",
			strings.Join(RequiredHeader, ","), strings.Join(header, ","))
	}
	for i, want := range RequiredHeader {
		if strings.TrimSpace(header[i]) != want {
			return nil, fmt.Errorf("firestarr: weather file header must be exactly %q, got %q",
				strings.Join(RequiredHeader, ","), strings.Join(header, ","))
		}
	}

	byScenario := map[int][]Day{}
	for lineNum, rec := range records[1:] {
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		if len(rec) != 7 {
			return nil, fmt.Errorf("firestarr: weather file line %d: expected 7 fields, got %d", lineNum+2, len(rec))
		}
		scenario, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("firestarr: weather file line %d: non-integer Scenario %q: %w", lineNum+2, rec[0], err)
		}
		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[1]))
		if err != nil {
			return nil, fmt.Errorf("firestarr: weather file line %d: invalid Date %q: %w", lineNum+2, rec[1], err)
		}
		day := Day{Date: date}
		fields := []*float64{&day.Prec, &day.Temp, &day.RH, &day.WS, &day.WD}
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[2+i]), 64)
			if err != nil {
				return nil, fmt.Errorf("firestarr: weather file line %d: invalid numeric field %q: %w", lineNum+2, rec[2+i], err)
			}
			*f = v
		}
		byScenario[scenario] = append(byScenario[scenario], day)
	}

	for scenario, days := range byScenario {
		sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
		byScenario[scenario] = days
		for i := 1; i < len(days); i++ {
			if !days[i].Date.After(days[i-1].Date) {
				return nil, fmt.Errorf("firestarr: scenario %d: duplicate day %s", scenario, days[i].Date.Format("2006-01-02"))
			}
			if days[i].Date.Sub(days[i-1].Date) != 24*time.Hour {
				return nil, fmt.Errorf("firestarr: scenario %d: days must be strictly sequential, gap between %s and %s",
					scenario, days[i-1].Date.Format("2006-01-02"), days[i].Date.Format("2006-01-02"))
			}
			if days[i].Date.Year() != days[i-1].Date.Year() {
				return nil, fmt.Errorf("firestarr: scenario %d: weather stream must not cross a year boundary (%s -> %s)",
					scenario, days[i-1].Date.Format("2006-01-02"), days[i].Date.Format("2006-01-02"))
			}
		}
	}

	return &Stream{Scenarios: byScenario}, nil
}

// CoversThrough reports whether the scenario's stream has a day on or
// after `through`.
func (s *Stream) CoversThrough(scenario int, through time.Time) bool {
	days := s.Scenarios[scenario]
	if len(days) == 0 {
		return false
	}
	return !days[len(days)-1].Date.Before(through)
}

// Startup is the "yesterday" FwiWeather used to seed DMC/DC/FFMC
// recomputation for the first simulated day (spec.md section 6).
type Startup struct {
	FFMC, DMC, DC float64
}

// DailyIndices walks a scenario's weather days from the Startup values,
// producing one fwi.Daily per day.
func DailyIndices(start Startup, days []Day) []fwi.Daily {
	prev := fwi.Daily{FFMC: start.FFMC, DMC: start.DMC, DC: start.DC}
	out := make([]fwi.Daily, len(days))
	for i, d := range days {
		prev = fwi.Advance(prev, fwi.Observation{
			Temp: d.Temp, RH: d.RH, Wind: d.WS, Rain: d.Prec, Month: int(d.Date.Month()),
		})
		out[i] = prev
	}
	return out
}

// HourlyWeather builds the fuel.Weather SpreadInfo needs for one day,
// taking FFMC from fwi.HourlyFFMC applied to the day's noon FFMC and the
// day's own observations. It takes no hour input, so every hour of the
// day gets the same values.
func HourlyWeather(day Day, daily fwi.Daily, foliarMoisture float64) fuel.Weather {
	ffmc := fwi.HourlyFFMC(daily.FFMC, day.RH, day.Temp, day.WS, day.Prec)
	isi := fwi.ISI(ffmc, day.WS)
	return fuel.Weather{
		FFMC: ffmc,
		DMC:  daily.DMC,
		DC:   daily.DC,
		BUI:  daily.BUI,
		ISI:  isi,
		WS:   day.WS,
		WD:   day.WD,
		TEMP: day.Temp,
		RH:   day.RH,
		PREC: day.Prec,
		FMC:  foliarMoisture,
	}
}
