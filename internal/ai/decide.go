// Package ai implements the computer opponent: it enumerates the legal
// intents for the player whose turn it is, scores each against a
// difficulty profile, and picks one. It only ever reads the game state;
// the chosen intent goes back through the engine like any player's.
package ai

import (
	"fmt"
	"sort"

	"pir8/internal/game"
)

// ScoredOption is one enumerated option with its evaluation attached.
type ScoredOption struct {
	Option
	Ordinal int     `json:"ordinal"`
	Score   float64 `json:"score"`
	Factors Factors `json:"factors"`
}

// Decision is the outcome of one AI invocation: the intent to submit,
// the full ranked option list, and a short explanation. The ranking and
// justification are display payload only; they never feed back into the
// choice.
type Decision struct {
	Intent        game.Intent    `json:"-"`
	Options       []ScoredOption `json:"options"`
	Justification string         `json:"justification"`
}

// Decide produces exactly one intent for the player. The maximum-scored
// option wins; ties go to the earlier enumeration slot, which is itself
// ship-id-ordered, so identical states always decide identically.
func Decide(g *game.State, playerID string, profile Profile) (*Decision, error) {
	switch g.Status {
	case game.StatusCompleted:
		return nil, game.ErrGameAlreadyCompleted
	case game.StatusWaiting:
		return nil, game.ErrGameNotStarted
	}
	p := g.CurrentPlayer()
	if p == nil || p.ID != playerID {
		return nil, game.ErrNotYourTurn
	}

	opts := EnumerateOptions(g, playerID)
	scored := make([]ScoredOption, len(opts))
	best := 0
	for i, o := range opts {
		total, factors := Score(g, p, o, i, profile)
		scored[i] = ScoredOption{Option: o, Ordinal: i, Score: total, Factors: factors}
		if scored[i].Score > scored[best].Score {
			best = i
		}
	}
	chosen := scored[best]

	ranked := make([]ScoredOption, len(scored))
	copy(ranked, scored)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return &Decision{
		Intent:        chosen.Intent,
		Options:       ranked,
		Justification: justify(chosen, profile),
	}, nil
}

// justify renders a one-line explanation of the chosen option.
func justify(c ScoredOption, profile Profile) string {
	switch c.Intent.(type) {
	case game.Attack, game.UseAbility:
		if c.Factors.Damage > 0 && c.Factors.Exposure > 0 {
			return fmt.Sprintf("%s: %.0f expected damage outweighs %.0f counter-exposure, so %s.",
				profile.Name, c.Factors.Damage, c.Factors.Exposure, c.Label)
		}
		if c.Factors.Damage > 0 {
			return fmt.Sprintf("%s: %.0f expected damage with nothing in reach to answer, so %s.",
				profile.Name, c.Factors.Damage, c.Label)
		}
		return fmt.Sprintf("%s: %s for the information alone.", profile.Name, c.Label)
	case game.ClaimTerritory:
		return fmt.Sprintf("%s: %s, worth %.0f in territory.", profile.Name, c.Label, c.Factors.Territory)
	case game.CollectResources, game.BuildShip, game.ScanCoordinate:
		return fmt.Sprintf("%s: %s, worth %.0f to the war chest.", profile.Name, c.Label, c.Factors.Economy)
	case game.Move:
		return fmt.Sprintf("%s: %s to improve position.", profile.Name, c.Label)
	default:
		return fmt.Sprintf("%s: nothing better than passing this turn.", profile.Name)
	}
}
