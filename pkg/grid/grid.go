// Package grid provides coordinate math and deterministic per-cell noise
// for square game boards. It has no knowledge of game rules; the engine
// layers terrain and ownership on top of these primitives.
package grid

import (
	"fmt"
	"math"
)

// Coordinate is a position on a square board. (0,0) is the top-left cell.
type Coordinate struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats a coordinate as "(x,y)".
func (c Coordinate) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// DistanceTo returns the Euclidean distance to another coordinate.
func (c Coordinate) DistanceTo(o Coordinate) float64 {
	dx := float64(c.X - o.X)
	dy := float64(c.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

// ChebyshevTo returns the chessboard distance to another coordinate:
// the number of king moves needed to travel between them.
func (c Coordinate) ChebyshevTo(o Coordinate) int {
	dx := abs(c.X - o.X)
	dy := abs(c.Y - o.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// Touches reports whether o is the same cell or one of the eight
// surrounding cells.
func (c Coordinate) Touches(o Coordinate) bool {
	return c.ChebyshevTo(o) <= 1
}

// InBounds reports whether the coordinate lies on a size×size board.
func (c Coordinate) InBounds(size int) bool {
	return c.X >= 0 && c.X < size && c.Y >= 0 && c.Y < size
}

// CenterDistance returns the Euclidean distance from the coordinate to
// the geometric center of a size×size board. For even sizes the center
// falls between cells.
func (c Coordinate) CenterDistance(size int) float64 {
	center := float64(size-1) / 2.0
	dx := float64(c.X) - center
	dy := float64(c.Y) - center
	return math.Sqrt(dx*dx + dy*dy)
}

// CellNoise derives a deterministic value in [0,100) for one cell from a
// board seed. The same seed and coordinate always produce the same value
// on every platform, which keeps board generation reproducible.
func CellNoise(seed uint64, x, y int) int {
	v := (seed + uint64(x)*10 + uint64(y)) * 1103515245
	v += 12345
	return int(v % 100)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
