// Package intel simulates what a passive observer could learn about
// one player if every move and balance were public, the way they would
// read on a transparent ledger. It consumes a game snapshot and that
// player's event history, and never mutates either.
package intel

import (
	"pir8/internal/game"
	"pir8/pkg/grid"
)

// Leakage score weights. Positions, stockpile, and territory are
// either fully exposed or fully hidden; behavioral patterns add
// exposure on top, capped so the score stays in 0-100.
const (
	positionsWeight   = 30
	resourcesWeight   = 20
	territoriesWeight = 20
	patternWeight     = 10
	patternCap        = 30
)

// ShipSighting is one observed ship: everything the public record
// gives away about it.
type ShipSighting struct {
	ShipID   string          `json:"shipId"`
	Type     game.ShipType   `json:"type"`
	Position grid.Coordinate `json:"position"`
	Health   int             `json:"health"`
}

// Report is the leakage picture for one player at one moment. A score
// of zero means the player is shielded and the observer sees nothing.
type Report struct {
	PlayerID      string            `json:"playerId"`
	Score         int               `json:"score"`
	ShipPositions []ShipSighting    `json:"shipPositions,omitempty"`
	Resources     *game.Resources   `json:"resources,omitempty"`
	Territories   []grid.Coordinate `json:"territories,omitempty"`
	Patterns      []Pattern         `json:"patterns,omitempty"`
}

// ComputeReport builds the leakage report for one player. The history
// slice is that player's slice of the game log, oldest first, as
// returned by State.EventsBy. Every slice in the report is a copy;
// holding a Report never aliases live game state.
func ComputeReport(g *game.State, playerID string, history []game.Event) (*Report, error) {
	p := g.FindPlayer(playerID)
	if p == nil {
		return nil, game.ErrPlayerNotInGame
	}
	r := &Report{PlayerID: playerID}
	if p.Shielded() {
		return r, nil
	}

	for _, s := range p.LivingShips() {
		r.ShipPositions = append(r.ShipPositions, ShipSighting{
			ShipID:   s.ID,
			Type:     s.Type,
			Position: s.Position,
			Health:   s.Health,
		})
	}
	stock := p.Resources
	r.Resources = &stock
	r.Territories = g.Map.OwnedCoordinates(playerID)

	r.Patterns = DetectPatterns(history)
	if stand := standPattern(p, history); stand != nil {
		r.Patterns = append(r.Patterns, *stand)
	}

	exposure := patternWeight * len(r.Patterns)
	if exposure > patternCap {
		exposure = patternCap
	}
	r.Score = positionsWeight + resourcesWeight + territoriesWeight + exposure
	if r.Score > 100 {
		r.Score = 100
	}
	return r, nil
}
