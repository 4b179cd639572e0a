package intel

import (
	"math"

	"pir8/internal/game"
)

// PlayStyle is the observer's one-word read on a player.
type PlayStyle string

const (
	StyleAggressive      PlayStyle = "aggressive"
	StyleDefensive       PlayStyle = "defensive"
	StyleResourceFocused PlayStyle = "resource-focused"
	StyleTerritorial     PlayStyle = "territorial"
	StyleBalanced        PlayStyle = "balanced"
	StyleUnpredictable   PlayStyle = "unpredictable"
)

// Dossier is the long-run profile an observer could assemble on a
// player from their full intent history.
type Dossier struct {
	PlayStyle      PlayStyle `json:"playStyle"`
	Predictability int       `json:"predictability"`
	Patterns       []Pattern `json:"patterns,omitempty"`
}

// Playstyle thresholds over the share of classified actions. Checked
// in order; the first share to clear its bar names the style.
const (
	aggressiveShare  = 0.40
	territorialShare = 0.35
	resourceShare    = 0.35
	defensiveShare   = 0.45
	scatteredShare   = 0.25
)

// BuildDossier classifies one player's history. End-turn entries are
// excluded from the share denominators: every turn ends with one, so
// they carry no signal about style.
func BuildDossier(history []game.Event) Dossier {
	d := Dossier{PlayStyle: StyleBalanced, Predictability: 50}
	d.Patterns = DetectPatterns(history)

	actions := 0
	counts := make(map[game.EventType]int)
	var attack, claim, collect, defensive int
	for _, e := range actionEvents(history) {
		if e.Type == game.EventTurnEnded {
			continue
		}
		actions++
		counts[e.Type]++
		switch e.Type {
		case game.EventShipAttacked:
			attack++
		case game.EventTerritoryClaimed:
			claim++
		case game.EventResourcesCollected:
			collect++
		case game.EventShipMoved:
			defensive++
		case game.EventAbilityUsed:
			c, ok := abilityCategory(e.Ability)
			if !ok {
				break
			}
			switch c {
			case game.AbilityOffensive:
				attack++
			case game.AbilityDefensive:
				defensive++
			}
		}
	}
	if actions == 0 {
		return d
	}

	n := float64(actions)
	top := attack
	for _, v := range []int{claim, collect, defensive} {
		if v > top {
			top = v
		}
	}
	switch {
	case float64(attack)/n >= aggressiveShare:
		d.PlayStyle = StyleAggressive
	case float64(claim)/n >= territorialShare:
		d.PlayStyle = StyleTerritorial
	case float64(collect)/n >= resourceShare:
		d.PlayStyle = StyleResourceFocused
	case float64(defensive)/n >= defensiveShare:
		d.PlayStyle = StyleDefensive
	case float64(top)/n < scatteredShare:
		d.PlayStyle = StyleUnpredictable
	}
	d.Predictability = predictability(counts, actions)
	return d
}

// predictability rescales Shannon entropy over the action-type
// distribution to 0-100, where 100 is a player who only ever does one
// thing. Fewer than two distinct types is no signal, scored neutral.
func predictability(counts map[game.EventType]int, total int) int {
	if len(counts) < 2 {
		return 50
	}
	h := 0.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		h -= p * math.Log(p)
	}
	hmax := math.Log(float64(len(counts)))
	score := int(math.Round(100 * (1 - h/hmax)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}
