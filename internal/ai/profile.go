package ai

import "strings"

// Profile is a named difficulty preset for a computer opponent.
// Aggressiveness weights combat options against economic ones and
// bounds the scoring jitter; Lookahead is how many forward-looking
// factors scoring folds in (counter-exposure from 2, bonus progress
// from 3).
type Profile struct {
	Name           string  `json:"name"`
	Aggressiveness float64 `json:"aggressiveness"`
	Lookahead      int     `json:"lookahead"`
}

// The four difficulty tiers, mildest first.
var (
	Deckhand    = Profile{Name: "Deckhand", Aggressiveness: 0.30, Lookahead: 1}
	Corsair     = Profile{Name: "Corsair", Aggressiveness: 0.50, Lookahead: 2}
	Captain     = Profile{Name: "Captain", Aggressiveness: 0.70, Lookahead: 3}
	DreadPirate = Profile{Name: "Dread Pirate", Aggressiveness: 0.90, Lookahead: 4}
)

// Profiles lists the presets from easiest to hardest.
var Profiles = []Profile{Deckhand, Corsair, Captain, DreadPirate}

// ProfileByName resolves a preset by name, case-insensitively and
// ignoring spaces, so "dreadpirate" and "Dread Pirate" both match.
func ProfileByName(name string) (Profile, bool) {
	canon := strings.ToLower(strings.ReplaceAll(name, " ", ""))
	for _, p := range Profiles {
		if strings.ToLower(strings.ReplaceAll(p.Name, " ", "")) == canon {
			return p, true
		}
	}
	return Profile{}, false
}
