package intel

import (
	"fmt"

	"pir8/internal/game"
	"pir8/pkg/grid"
)

// Named behavioral patterns an observer can read out of the public
// log. Each one is a habit a rival could exploit.
const (
	PatternAttacksAfterScan = "attacks-after-scan"
	PatternNeverRetreats    = "never-retreats"
	PatternCollectorRoute   = "collector-route"
	PatternOpeningClaim     = "opening-claim"
)

// Pattern is one detected habit with how often it showed.
type Pattern struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Occurrences int    `json:"occurrences"`
}

// DetectPatterns scans one player's event history for the habits that
// are visible from the log alone. The low-health stand pattern needs
// board state and is detected by ComputeReport instead.
func DetectPatterns(history []game.Event) []Pattern {
	seq := actionEvents(history)
	var out []Pattern

	if n := scanThenAttack(seq); n >= 2 {
		out = append(out, Pattern{
			Name:        PatternAttacksAfterScan,
			Description: "scans are followed by an attack within two actions",
			Occurrences: n,
		})
	}
	if tile, n := repeatCollects(seq); n >= 3 {
		out = append(out, Pattern{
			Name:        PatternCollectorRoute,
			Description: fmt.Sprintf("collected (%d,%d) %d times", tile.X, tile.Y, n),
			Occurrences: n,
		})
	}
	if n := openingClaims(seq); n >= 2 {
		out = append(out, Pattern{
			Name:        PatternOpeningClaim,
			Description: "opens the game by claiming territory",
			Occurrences: n,
		})
	}
	return out
}

// actionEvents keeps only the log entries that record an applied
// intent, in order. Join, weather, and lifecycle entries say nothing
// about the player's habits.
func actionEvents(history []game.Event) []game.Event {
	var out []game.Event
	for _, e := range history {
		switch e.Type {
		case game.EventShipMoved, game.EventShipAttacked, game.EventTerritoryClaimed,
			game.EventResourcesCollected, game.EventShipBuilt, game.EventAbilityUsed,
			game.EventCoordinateScanned, game.EventTurnEnded:
			out = append(out, e)
		}
	}
	return out
}

// isAttack reports whether an event records offensive action, either a
// basic attack or an offensive ability.
func isAttack(e game.Event) bool {
	if e.Type == game.EventShipAttacked {
		return true
	}
	if e.Type == game.EventAbilityUsed {
		if c, ok := abilityCategory(e.Ability); ok {
			return c == game.AbilityOffensive
		}
	}
	return false
}

// abilityCategory resolves a logged ability name back to its category.
func abilityCategory(name string) (game.AbilityCategory, bool) {
	for _, t := range game.ShipTypes {
		if a := game.AbilityForType(t); a.Name == name {
			return a.Category, true
		}
	}
	return 0, false
}

// scanThenAttack counts scans that were followed by offensive action
// within the next two intents. Each scan is counted at most once.
func scanThenAttack(seq []game.Event) int {
	n := 0
	for i, e := range seq {
		if e.Type != game.EventCoordinateScanned {
			continue
		}
		for j := i + 1; j <= i+2 && j < len(seq); j++ {
			if isAttack(seq[j]) {
				n++
				break
			}
		}
	}
	return n
}

// repeatCollects finds the tile collected most often and how often.
func repeatCollects(seq []game.Event) (grid.Coordinate, int) {
	counts := make(map[grid.Coordinate]int)
	var best grid.Coordinate
	bestN := 0
	for _, e := range seq {
		if e.Type != game.EventResourcesCollected || e.Target == nil {
			continue
		}
		c := *e.Target
		counts[c]++
		if counts[c] > bestN {
			best, bestN = c, counts[c]
		}
	}
	return best, bestN
}

// openingClaims counts territory claims among the player's first three
// intents of the game.
func openingClaims(seq []game.Event) int {
	n := 0
	for i, e := range seq {
		if i >= 3 {
			break
		}
		if e.Type == game.EventTerritoryClaimed {
			n++
		}
	}
	if n < 2 {
		return 0
	}
	return n
}

// standPattern flags ships holding position on low health. The public
// log carries no health history, so the stand is bounded from the last
// recorded move: a living ship below 30 percent health that has not
// moved for three of its owner's turns reads as a refusal to retreat.
func standPattern(p *game.Player, history []game.Event) *Pattern {
	seq := actionEvents(history)
	ships := 0
	for _, s := range p.LivingShips() {
		if s.Health*10 >= s.MaxHealth()*3 {
			continue
		}
		stood := 0
		for i := len(seq) - 1; i >= 0; i-- {
			if seq[i].Type == game.EventShipMoved && seq[i].ShipID == s.ID {
				break
			}
			if seq[i].Type == game.EventTurnEnded {
				stood++
			}
		}
		if stood >= 3 {
			ships++
		}
	}
	if ships == 0 {
		return nil
	}
	return &Pattern{
		Name:        PatternNeverRetreats,
		Description: "holds position on low health instead of withdrawing",
		Occurrences: ships,
	}
}
