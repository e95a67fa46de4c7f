package grid

import "math"

// Direction16 indexes the 16 compass directions used by CellPoints, in
// 22.5 degree steps starting at north.
type Direction16 int

const (
	N Direction16 = iota
	NNE
	NE
	ENE
	E
	ESE
	SE
	SSE
	S
	SSW
	SW
	WSW
	W
	WNW
	NW
	NNW
	NumDirections16 = 16
)

// Degrees returns the compass bearing, in degrees, of a 16-way direction.
func (d Direction16) Degrees() float64 { return float64(d) * 22.5 }

// Radians returns the compass bearing, in radians, of a 16-way direction.
func (d Direction16) Radians() float64 { return d.Degrees() * math.Pi / 180 }

// CellIndex is a bitmask over the 8 neighbor directions (N, NE, E, SE, S,
// SW, W, NW) used to record which neighbors a cell's fire arrived from and
// to test whether a cell is fully surrounded by burned neighbors.
type CellIndex uint16

const (
	DirectionN  CellIndex = 1 << 0
	DirectionNE CellIndex = 1 << 1
	DirectionE  CellIndex = 1 << 2
	DirectionSE CellIndex = 1 << 3
	DirectionS  CellIndex = 1 << 4
	DirectionSW CellIndex = 1 << 5
	DirectionW  CellIndex = 1 << 6
	DirectionNW CellIndex = 1 << 7
	DirectionAll CellIndex = DirectionN | DirectionNE | DirectionE | DirectionSE |
		DirectionS | DirectionSW | DirectionW | DirectionNW
)

// neighborDirection is the 3x3 table (indexed by row offset + 1, column
// offset + 1) mapping an adjacent cell's relative position to a single-bit
// direction code. The center entry is never consulted.
var neighborDirection = [3][3]CellIndex{
	{DirectionSW, DirectionS, DirectionSE},
	{DirectionW, 0, DirectionE},
	{DirectionNW, DirectionN, DirectionNE},
}

// RelativeDirection looks up the direction code of `to` as seen from
// `from`, when the two locations are adjacent (row/column differ by at
// most 1). Non-adjacent locations return 0.
func RelativeDirection(from, to Location) CellIndex {
	dr := int(to.Row()) - int(from.Row())
	dc := int(to.Column()) - int(from.Column())
	if dr < -1 || dr > 1 || dc < -1 || dc > 1 {
		return 0
	}
	return neighborDirection[dr+1][dc+1]
}

// idealTarget is the fixed point on the cell boundary that direction i's
// extreme-point slot is replaced toward. D places the diagonal-adjacent
// directions on the boundary at the 22.5 degree offset from a corner.
const idealTargetD = 0.20710678118654752440 // (sqrt(2)-1)/2

var idealTargets = [NumDirections16]InnerPos{
	N:   {X: 0.5, Y: 1.0},
	NNE: {X: 0.5 + idealTargetD, Y: 1.0},
	NE:  {X: 1.0, Y: 1.0},
	ENE: {X: 1.0, Y: 0.5 + idealTargetD},
	E:   {X: 1.0, Y: 0.5},
	ESE: {X: 1.0, Y: 0.5 - idealTargetD},
	SE:  {X: 1.0, Y: 0.0},
	SSE: {X: 0.5 + idealTargetD, Y: 0.0},
	S:   {X: 0.5, Y: 0.0},
	SSW: {X: 0.5 - idealTargetD, Y: 0.0},
	SW:  {X: 0.0, Y: 0.0},
	WSW: {X: 0.0, Y: 0.5 - idealTargetD},
	W:   {X: 0.0, Y: 0.5},
	WNW: {X: 0.0, Y: 0.5 + idealTargetD},
	NW:  {X: 0.0, Y: 1.0},
	NNW: {X: 0.5 - idealTargetD, Y: 1.0},
}

// IdealTarget returns the fixed ideal point for the i'th of the 16
// directional extreme-point slots.
func IdealTarget(i Direction16) InnerPos { return idealTargets[i] }
