package game

import (
	"github.com/google/uuid"

	"pir8/pkg/grid"
)

// Initialize creates a new game in the waiting state. The seed fixes
// both the generated map and the weather sequence, so two games created
// from the same seed replay identically under the same intents.
func Initialize(seed uint64, maxPlayers int) *State {
	return InitializeWithBalance(seed, maxPlayers, DefaultBalance())
}

// InitializeWithBalance is Initialize with tuning values supplied by
// the host instead of the defaults.
func InitializeWithBalance(seed uint64, maxPlayers int, balance Balance) *State {
	if maxPlayers < MinPlayers {
		maxPlayers = MinPlayers
	}
	if maxPlayers > MaxPlayers {
		maxPlayers = MaxPlayers
	}

	g := &State{
		ID:             uuid.New().String(),
		Seed:           seed,
		Status:         StatusWaiting,
		MaxPlayerCount: maxPlayers,
		Map:            GenerateMap(seed, DefaultMapSize),
		TurnNumber:     1,
		Weather:        Weather{Kind: WeatherCalm, Duration: WeatherCalm.BaseDuration()},
		Balance:        balance,
		RNGState:       seed,
	}
	g.appendEvent(Event{Type: EventGameCreated})
	return g
}

// Join seats a player and deploys their starting fleet, a sloop and a
// frigate at the corner assigned to their seat. The game flips to
// active as soon as the minimum player count is reached; later joiners
// are still admitted until the table is full.
func (g *State) Join(playerID, name string) error {
	if g.Status == StatusCompleted {
		return ErrGameAlreadyCompleted
	}
	if g.FindPlayer(playerID) != nil {
		return ErrAlreadyJoined
	}
	if len(g.Players) >= g.MaxPlayerCount {
		return ErrGameFull
	}

	idx := len(g.Players)
	p := NewPlayer(playerID, name, idx, g.Balance.StartingResources)
	spawns := startingSpawns(idx)
	p.addShip(ShipSloop, spawns[0])
	p.addShip(ShipFrigate, spawns[1])
	g.Players = append(g.Players, p)

	g.appendEvent(Event{Type: EventPlayerJoined, PlayerID: playerID, Note: name})

	if g.Status == StatusWaiting && len(g.Players) >= MinPlayers {
		g.Status = StatusActive
		g.CurrentPlayerIndex = 0
		g.appendEvent(Event{Type: EventGameStarted})
	}
	return nil
}

// startingSpawns returns the two fleet deployment tiles for a seat.
// Seats fan out from the four corners of the default 10x10 map.
func startingSpawns(index int) [2]grid.Coordinate {
	switch index {
	case 0:
		return [2]grid.Coordinate{{X: 1, Y: 1}, {X: 2, Y: 1}}
	case 1:
		return [2]grid.Coordinate{{X: 8, Y: 1}, {X: 9, Y: 1}}
	case 2:
		return [2]grid.Coordinate{{X: 1, Y: 8}, {X: 1, Y: 9}}
	default:
		return [2]grid.Coordinate{{X: 8, Y: 8}, {X: 9, Y: 8}}
	}
}
