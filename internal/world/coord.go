// Package world provides the farm tile grid, terrain, and spatial helpers.
// Tiles are addressed by integer (x, z) coordinates; world-space positions
// are continuous (x, z) pairs centred on the defended origin.
package world

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// TileSize is the world-space edge length of one tile.
const TileSize = 2.0

// Coord identifies a tile on the grid.
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Center returns the world-space position of the tile centre.
func (c Coord) Center() Vec {
	return Vec{X: float64(c.X) * TileSize, Z: float64(c.Z) * TileSize}
}

// Ring returns the Chebyshev distance of the coordinate from the origin.
func (c Coord) Ring() int {
	return max(abs(c.X), abs(c.Z))
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Z)
}

// Vec is a position on the ground plane.
type Vec struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Origin is the defended centre every enemy walks toward.
var Origin = Vec{}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Z: v.Z - o.Z}
}

// Len returns the Euclidean length of v.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Z)
}

// Distance returns the Euclidean distance between two positions.
func Distance(a, b Vec) float64 {
	return a.Sub(b).Len()
}

// WithinRange reports whether b lies within radius r of a (inclusive).
// Every proximity check in the simulation goes through this predicate.
func WithinRange(a, b Vec, r float64) bool {
	d := a.Sub(b)
	return d.X*d.X+d.Z*d.Z <= r*r
}

// MoveToward steps from toward target by at most step, never overshooting.
func MoveToward(from, target Vec, step float64) Vec {
	d := target.Sub(from)
	dist := d.Len()
	if dist <= step || dist == 0 {
		return target
	}
	return Vec{
		X: from.X + d.X/dist*step,
		Z: from.Z + d.Z/dist*step,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp[T constraints.Ordered](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
