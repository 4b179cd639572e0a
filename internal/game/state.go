// Package game contains the pirate battle simulation core: the board
// and resource model, ships and abilities, and the turn resolution
// engine. It performs no I/O and never reads the wall clock; hosts own
// persistence, transport, and timing.
package game

// Status represents the lifecycle stage of a game.
type Status int

const (
	StatusWaiting Status = iota
	StatusActive
	StatusCompleted
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "Waiting"
	case StatusActive:
		return "Active"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// VictoryKind names which win condition ended the game.
type VictoryKind string

const (
	VictoryTerritory VictoryKind = "territory"
	VictoryFleet     VictoryKind = "fleet"
	VictoryEconomic  VictoryKind = "economic"
)

// Player count limits.
const (
	MinPlayers = 2
	MaxPlayers = 4
)

// State is the complete authoritative game state: the single snapshot
// passed between the engine, the AI, and the leakage simulator. Exactly
// one intent may be applied against it at a time.
type State struct {
	ID                 string      `json:"id"`
	Seed               uint64      `json:"seed"`
	Status             Status      `json:"status"`
	MaxPlayerCount     int         `json:"maxPlayerCount"`
	Players            []*Player   `json:"players"`
	CurrentPlayerIndex int         `json:"currentPlayerIndex"`
	Map                *Map        `json:"map"`
	TurnNumber         int         `json:"turnNumber"`
	Weather            Weather     `json:"weather"`
	WinnerID           string      `json:"winnerId,omitempty"`
	Victory            VictoryKind `json:"victory,omitempty"`
	Events             []Event     `json:"events"`
	Balance            Balance     `json:"balance"`

	// RNGState is the cursor of the deterministic random stream used
	// for weather. Serialized so a reloaded game continues the same
	// sequence.
	RNGState uint64 `json:"rngState"`
}

// CurrentPlayer returns the player whose turn it is, or nil before the
// game starts.
func (g *State) CurrentPlayer() *Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// FindPlayer returns the player with the given identity.
func (g *State) FindPlayer(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// findLivingShip resolves a ship id across all players to a living ship.
func (g *State) findLivingShip(shipID string) (*Player, *Ship) {
	for _, p := range g.Players {
		for _, s := range p.Ships {
			if s.ID == shipID && !s.Destroyed() {
				return p, s
			}
		}
	}
	return nil, nil
}

// nextRand advances the deterministic random stream and returns a value
// in [0, n). The multiplier and increment are the classic MMIX
// constants; the high bits feed the result since low LCG bits cycle.
func (g *State) nextRand(n int) int {
	g.RNGState = g.RNGState*6364136223846793005 + 1442695040888963407
	return int((g.RNGState >> 33) % uint64(n))
}

// ActivateShield spends one of the player's shield charges, hiding
// their state from observers for the next ShieldDuration of their
// turns. Not an intent: it does not consume the turn and may be called
// out of turn order.
func (g *State) ActivateShield(playerID string) error {
	if g.Status == StatusCompleted {
		return ErrGameAlreadyCompleted
	}
	p := g.FindPlayer(playerID)
	if p == nil {
		return ErrPlayerNotInGame
	}
	if p.ShieldCharges <= 0 {
		return ErrNoShieldCharges
	}
	p.ShieldCharges--
	p.ShieldTurns = ShieldDuration
	g.appendEvent(Event{
		Type:     EventShieldActivated,
		PlayerID: p.ID,
		Amount:   p.ShieldCharges,
	})
	return nil
}
