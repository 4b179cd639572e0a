package game

import "pir8/pkg/grid"

// TileKind represents the terrain of one board cell.
type TileKind int

const (
	TileWater TileKind = iota
	TileIsland
	TilePort
	TileTreasure
	TileStorm
	TileReef
	TileWhirlpool
)

// String returns the terrain name.
func (k TileKind) String() string {
	switch k {
	case TileWater:
		return "Water"
	case TileIsland:
		return "Island"
	case TilePort:
		return "Port"
	case TileTreasure:
		return "Treasure"
	case TileStorm:
		return "Storm"
	case TileReef:
		return "Reef"
	case TileWhirlpool:
		return "Whirlpool"
	default:
		return "Unknown"
	}
}

// Claimable reports whether ownership is valid for this terrain.
// Hazards and open water are never owned.
func (k TileKind) Claimable() bool {
	switch k {
	case TileIsland, TilePort, TileTreasure:
		return true
	default:
		return false
	}
}

// Tile is one board cell: fixed terrain plus mutable ownership.
type Tile struct {
	Kind  TileKind `json:"kind"`
	Owner string   `json:"owner,omitempty"`
}

// Map is the square game board. Topology never changes after
// generation; only tile ownership mutates.
type Map struct {
	Size  int      `json:"size"`
	Seed  uint64   `json:"seed"`
	Tiles [][]Tile `json:"tiles"`
}

// DefaultMapSize is the board edge length.
const DefaultMapSize = 10

// GenerateMap builds the board from a seed. Terrain is distributed in
// rings around the center: treasure and ports cluster in the middle,
// islands and ports in the inner ring, hazards further out.
func GenerateMap(seed uint64, size int) *Map {
	m := &Map{
		Size:  size,
		Seed:  seed,
		Tiles: make([][]Tile, size),
	}
	for y := 0; y < size; y++ {
		m.Tiles[y] = make([]Tile, size)
		for x := 0; x < size; x++ {
			m.Tiles[y][x] = Tile{Kind: terrainFor(seed, x, y, size)}
		}
	}
	return m
}

func terrainFor(seed uint64, x, y, size int) TileKind {
	v := grid.CellNoise(seed, x, y)
	dist := (grid.Coordinate{X: x, Y: y}).CenterDistance(size)

	switch {
	case dist < 2.0:
		if v < 40 {
			return TileTreasure
		}
		if v < 70 {
			return TilePort
		}
	case dist < 4.0:
		if v < 20 {
			return TileIsland
		}
		if v < 35 {
			return TilePort
		}
	case dist < 6.0:
		if v < 10 {
			return TileStorm
		}
		if v < 15 {
			return TileReef
		}
	default:
		if v < 20 {
			return TileWhirlpool
		}
		if v < 35 {
			return TileStorm
		}
	}
	return TileWater
}

// At returns the tile at a coordinate, or nil when out of bounds.
func (m *Map) At(c grid.Coordinate) *Tile {
	if !c.InBounds(m.Size) {
		return nil
	}
	return &m.Tiles[c.Y][c.X]
}

// ClaimableCount returns how many tiles on the board can be owned.
func (m *Map) ClaimableCount() int {
	count := 0
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if m.Tiles[y][x].Kind.Claimable() {
				count++
			}
		}
	}
	return count
}

// OwnedCount returns how many tiles a player controls.
func (m *Map) OwnedCount(playerID string) int {
	count := 0
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if m.Tiles[y][x].Owner == playerID {
				count++
			}
		}
	}
	return count
}

// OwnedKindCount returns how many tiles of one terrain a player controls.
func (m *Map) OwnedKindCount(playerID string, kind TileKind) int {
	count := 0
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			t := m.Tiles[y][x]
			if t.Owner == playerID && t.Kind == kind {
				count++
			}
		}
	}
	return count
}

// OwnedCoordinates lists every tile a player controls in row-major order.
func (m *Map) OwnedCoordinates(playerID string) []grid.Coordinate {
	var out []grid.Coordinate
	for y := 0; y < m.Size; y++ {
		for x := 0; x < m.Size; x++ {
			if m.Tiles[y][x].Owner == playerID {
				out = append(out, grid.Coordinate{X: x, Y: y})
			}
		}
	}
	return out
}
