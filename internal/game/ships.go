package game

import (
	"fmt"

	"pir8/pkg/grid"
)

// ShipType represents a class of ship.
type ShipType int

const (
	ShipSloop ShipType = iota
	ShipFrigate
	ShipGalleon
	ShipFlagship
)

// ShipTypes lists every buildable class in build-menu order.
var ShipTypes = []ShipType{ShipSloop, ShipFrigate, ShipGalleon, ShipFlagship}

// String returns the ship class name.
func (t ShipType) String() string {
	switch t {
	case ShipSloop:
		return "Sloop"
	case ShipFrigate:
		return "Frigate"
	case ShipGalleon:
		return "Galleon"
	case ShipFlagship:
		return "Flagship"
	default:
		return "Unknown"
	}
}

// ShipStats are the immutable base stats of a ship class.
type ShipStats struct {
	Health  int `json:"health"`
	Attack  int `json:"attack"`
	Defense int `json:"defense"`
	Speed   int `json:"speed"`
}

// BaseStats returns the stat line for a ship class.
func (t ShipType) BaseStats() ShipStats {
	switch t {
	case ShipSloop:
		return ShipStats{Health: 100, Attack: 20, Defense: 10, Speed: 3}
	case ShipFrigate:
		return ShipStats{Health: 200, Attack: 40, Defense: 25, Speed: 2}
	case ShipGalleon:
		return ShipStats{Health: 350, Attack: 60, Defense: 40, Speed: 1}
	case ShipFlagship:
		return ShipStats{Health: 500, Attack: 80, Defense: 60, Speed: 1}
	default:
		return ShipStats{}
	}
}

// BuildCost returns the shipyard cost for a ship class, before any
// harbor discount.
func (t ShipType) BuildCost() Resources {
	switch t {
	case ShipSloop:
		return Resources{Gold: 500, Crew: 10, Cannons: 5, Supplies: 20, Wood: 20}
	case ShipFrigate:
		return Resources{Gold: 1200, Crew: 25, Cannons: 15, Supplies: 40, Wood: 45}
	case ShipGalleon:
		return Resources{Gold: 2500, Crew: 50, Cannons: 30, Supplies: 80, Wood: 90}
	case ShipFlagship:
		return Resources{Gold: 5000, Crew: 100, Cannons: 60, Supplies: 150, Wood: 150}
	default:
		return Resources{}
	}
}

// CollectionPercent returns the class's resource-collection multiplier
// as a percentage. Galleons are built for hauling cargo.
func (t ShipType) CollectionPercent() int {
	switch t {
	case ShipSloop:
		return 100
	case ShipFrigate:
		return 120
	case ShipGalleon:
		return 150
	case ShipFlagship:
		return 130
	default:
		return 100
	}
}

// MaxShipsPerPlayer caps fleet size.
const MaxShipsPerPlayer = 6

// Ship is one vessel on the board.
type Ship struct {
	ID             string          `json:"id"`
	Type           ShipType        `json:"type"`
	Health         int             `json:"health"`
	Position       grid.Coordinate `json:"position"`
	Ability        Ability         `json:"ability"`
	Effects        []Effect        `json:"effects,omitempty"`
	LastActionTurn int             `json:"lastActionTurn,omitempty"`
}

// NewShip creates a ship of the given class at full health with its
// ability ready.
func NewShip(ownerIndex, ordinal int, t ShipType, pos grid.Coordinate) *Ship {
	return &Ship{
		ID:       fmt.Sprintf("%d-%d", ownerIndex, ordinal),
		Type:     t,
		Health:   t.BaseStats().Health,
		Position: pos,
		Ability:  AbilityForType(t),
	}
}

// MaxHealth returns the class's full health.
func (s *Ship) MaxHealth() int {
	return s.Type.BaseStats().Health
}

// Destroyed reports whether the ship has been sunk. Destroyed ships are
// excluded from movement and targeting.
func (s *Ship) Destroyed() bool {
	return s.Health <= 0
}

// CanMoveTo reports whether the ship can sail to dest given a movement
// allowance in tiles. Immobilized ships cannot move at all.
func (s *Ship) CanMoveTo(dest grid.Coordinate, allowance float64) bool {
	if s.Destroyed() || !s.Mobile() {
		return false
	}
	return s.Position.DistanceTo(dest) <= allowance
}

// MoveAllowance converts the class speed into a distance allowance under
// the given weather movement percentage.
func (s *Ship) MoveAllowance(movementPercent int) float64 {
	return float64(s.Type.BaseStats().Speed) * float64(movementPercent) / 100.0
}

// ApplyDamage reduces health, flooring at 0. Returns true when the blow
// destroys the ship.
func (s *Ship) ApplyDamage(amount int) bool {
	s.Health -= amount
	if s.Health <= 0 {
		s.Health = 0
		// Active effects do not survive the ship.
		s.Effects = nil
		return true
	}
	return false
}
