// Package grid implements the row/column hashing, bounded integer
// coordinates, and cell key packing that the rest of firestarr builds on.
package grid

import "fmt"

// MaxColumns and MaxRows bound the grid that a single run of firestarr can
// address. They are compile-time constants (as in the original simulator)
// rather than fields on a runtime Grid value, so that Location's hash is a
// pure function of row and column everywhere in the program.
const (
	MaxColumns int64 = 1 << 20
	MaxRows    int64 = 1 << 20
)

// InvalidDistance is a squared-distance sentinel guaranteed to be larger
// than any distance achievable between two points inside a unit cell
// (spec.md requires it be >= MaxRows^2).
const InvalidDistance = float64(MaxRows) * float64(MaxRows)

// Location is an immutable (row, column) pair packed into a single hash.
// Equality and ordering derive entirely from the hash.
type Location struct {
	hash int64
}

// NewLocation packs a row and column into a Location.
func NewLocation(row, column int32) Location {
	return Location{hash: int64(row)*MaxColumns + int64(column)}
}

// LocationFromHash rebuilds a Location from a previously obtained hash.
func LocationFromHash(hash int64) Location {
	return Location{hash: hash}
}

// Hash returns the packed row/column value used for map keys and ordering.
func (l Location) Hash() int64 { return l.hash }

// Row returns the row component of the location.
func (l Location) Row() int32 { return int32(l.hash / MaxColumns) }

// Column returns the column component of the location.
func (l Location) Column() int32 { return int32(l.hash % MaxColumns) }

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.Row(), l.Column())
}

// Equal reports whether two locations refer to the same cell.
func (l Location) Equal(o Location) bool { return l.hash == o.hash }

// Less orders locations by hash, which is consistent with ordering first by
// row then by column.
func (l Location) Less(o Location) bool { return l.hash < o.hash }
