package game

import "pir8/pkg/grid"

// Player starting pools.
const (
	StartingScanCharges   = 3
	StartingShieldCharges = 3
	ShieldDuration        = 2
)

// Player represents one captain in the game. Players are created at
// join and never removed; a wiped-out player stays in the list with
// Active set to false.
type Player struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Index         int               `json:"index"`
	Resources     Resources         `json:"resources"`
	Ships         []*Ship           `json:"ships"`
	Score         int               `json:"score"`
	Active        bool              `json:"active"`
	ScanCharges   int               `json:"scanCharges"`
	ShieldCharges int               `json:"shieldCharges"`
	ShieldTurns   int               `json:"shieldTurns,omitempty"`
	Revealed      []grid.Coordinate `json:"revealed,omitempty"`

	// Decision-time bookkeeping for the speed bonus and dossier.
	DecisionCount   int   `json:"decisionCount,omitempty"`
	TotalDecisionMs int64 `json:"totalDecisionMs,omitempty"`
}

// NewPlayer creates a player with the standard starting pools.
func NewPlayer(id, name string, index int, starting Resources) *Player {
	return &Player{
		ID:            id,
		Name:          name,
		Index:         index,
		Resources:     starting,
		Active:        true,
		ScanCharges:   StartingScanCharges,
		ShieldCharges: StartingShieldCharges,
	}
}

// FindShip returns the ship with the given id, destroyed or not.
func (p *Player) FindShip(id string) *Ship {
	for _, s := range p.Ships {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// LivingShips returns the ships still afloat, in fleet order.
func (p *Player) LivingShips() []*Ship {
	out := make([]*Ship, 0, len(p.Ships))
	for _, s := range p.Ships {
		if !s.Destroyed() {
			out = append(out, s)
		}
	}
	return out
}

// FleetPower sums effective attack and defense across living ships.
func (p *Player) FleetPower() int {
	power := 0
	for _, s := range p.Ships {
		if !s.Destroyed() {
			power += s.EffectiveAttack() + s.EffectiveDefense()
		}
	}
	return power
}

// addShip appends a new vessel. Destroyed ships stay in the fleet
// slice, so its length is a stable ordinal for ship ids.
func (p *Player) addShip(t ShipType, pos grid.Coordinate) *Ship {
	s := NewShip(p.Index, len(p.Ships), t, pos)
	p.Ships = append(p.Ships, s)
	return s
}

// Shielded reports whether the player's moves are currently hidden from
// observers.
func (p *Player) Shielded() bool {
	return p.ShieldTurns > 0
}

// RevealTile records that the player has learned a tile's true terrain.
func (p *Player) RevealTile(c grid.Coordinate) {
	if p.HasRevealed(c) {
		return
	}
	p.Revealed = append(p.Revealed, c)
}

// HasRevealed reports whether the player has scanned or sighted a tile.
func (p *Player) HasRevealed(c grid.Coordinate) bool {
	for _, r := range p.Revealed {
		if r == c {
			return true
		}
	}
	return false
}

// recordDecision folds one reported decision time into the running
// average and awards the speed bonus.
func (p *Player) recordDecision(elapsedMs int64) int {
	p.DecisionCount++
	p.TotalDecisionMs += elapsedMs
	bonus := speedBonus(elapsedMs)
	p.Score += bonus
	return bonus
}

// AverageDecisionMs returns the player's mean decision time.
func (p *Player) AverageDecisionMs() int64 {
	if p.DecisionCount == 0 {
		return 0
	}
	return p.TotalDecisionMs / int64(p.DecisionCount)
}

// speedBonus converts a decision time into score. Bookkeeping only;
// it never gates an action.
func speedBonus(elapsedMs int64) int {
	switch {
	case elapsedMs < 5000:
		return 100
	case elapsedMs < 10000:
		return 50
	case elapsedMs < 15000:
		return 25
	default:
		return 0
	}
}
