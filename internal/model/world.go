package model

import "fmt"

// Quadrant :
// Half-extent of the square map. Coordinates of every
// village, troop and action target live in the closed
// range `[-Quadrant, +Quadrant]` on both axes.
const Quadrant = 15

// Location :
// A position on the map grid.
type Location struct {
	X int `bson:"x" json:"x"`
	Y int `bson:"y" json:"y"`
}

// InBounds :
// The only reachability test against the map itself:
// tells whether the location lies within the world
// boundaries.
//
// Returns `true` if the location is on the map.
func (l Location) InBounds() bool {
	return l.X >= -Quadrant && l.X <= Quadrant && l.Y >= -Quadrant && l.Y <= Quadrant
}

// ManhattanDistanceTo :
// Computes the Manhattan distance separating this
// location from the input one. Troop travel times
// are derived from this value.
//
// The `o` defines the other location.
//
// Returns the distance in tiles.
func (l Location) ManhattanDistanceTo(o Location) int {
	dx := l.X - o.X
	if dx < 0 {
		dx = -dx
	}
	dy := l.Y - o.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// String :
// Implements the `Stringer` interface for a location.
func (l Location) String() string {
	return fmt.Sprintf("(%d,%d)", l.X, l.Y)
}

// MapBounds :
// Describes the extent of the world as exposed to
// clients through the map info payload.
type MapBounds struct {
	XMin int `json:"x_min"`
	XMax int `json:"x_max"`
	YMin int `json:"y_min"`
	YMax int `json:"y_max"`
}

// Bounds :
// Provides the boundaries of the world map.
//
// Returns the map bounds.
func Bounds() MapBounds {
	return MapBounds{
		XMin: -Quadrant,
		XMax: Quadrant,
		YMin: -Quadrant,
		YMax: Quadrant,
	}
}
