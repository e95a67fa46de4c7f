package fuel

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Lut maps a fuel raster's grid values to fuel types, built from a CSV
// with header `grid_value,export_value,descriptive_name,fuel_type`
// (spec.md section 6).
type Lut struct {
	byGridValue map[int]Type
}

// nameIndex maps an FBP fuel-type name (as it appears in the "fuel_type"
// CSV column) to its library code.
var nameIndex = func() map[string]int {
	idx := map[string]int{}
	for code, t := range Library {
		idx[strings.ToUpper(t.Name())] = code
	}
	return idx
}()

// LoadLut parses a fuel lookup table CSV into a Lut.
func LoadLut(r io.Reader) (*Lut, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("firestarr: reading fuel lookup table: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("firestarr: fuel lookup table is empty")
	}
	header := records[0]
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, want := range []string{"grid_value", "fuel_type"} {
		if _, ok := col[want]; !ok {
			return nil, fmt.Errorf("firestarr: fuel lookup table missing required column %q", want)
		}
	}

	lut := &Lut{byGridValue: map[int]Type{}}
	for _, rec := range records[1:] {
		if len(rec) == 0 || (len(rec) == 1 && strings.TrimSpace(rec[0]) == "") {
			continue
		}
		gridValue, err := strconv.Atoi(strings.TrimSpace(rec[col["grid_value"]]))
		if err != nil {
			return nil, fmt.Errorf("firestarr: fuel lookup table: invalid grid_value %q: %w", rec[col["grid_value"]], err)
		}
		fuelName := strings.ToUpper(strings.TrimSpace(rec[col["fuel_type"]]))
		if fuelName == "" || ExcludedCodes[gridValue] {
			lut.byGridValue[gridValue] = NewNonFuel(gridValue, fuelName)
			continue
		}
		code, ok := nameIndex[fuelName]
		if !ok {
			return nil, fmt.Errorf("firestarr: fuel lookup table: unknown fuel_type %q for grid_value %d", fuelName, gridValue)
		}
		lut.byGridValue[gridValue] = Library[code]
	}
	return lut, nil
}

// Fuel returns the fuel type for a raw raster grid value, or a NonFuel
// placeholder if the value isn't in the table.
func (l *Lut) Fuel(gridValue int) Type {
	if t, ok := l.byGridValue[gridValue]; ok {
		return t
	}
	return NewNonFuel(gridValue, "unmapped")
}
