package game

import "pir8/pkg/grid"

// EventType names one entry kind in the game's append-only log.
type EventType string

const (
	EventGameCreated        EventType = "game_created"
	EventPlayerJoined       EventType = "player_joined"
	EventGameStarted        EventType = "game_started"
	EventShipMoved          EventType = "ship_moved"
	EventShipAttacked       EventType = "ship_attacked"
	EventShipDestroyed      EventType = "ship_destroyed"
	EventTerritoryClaimed   EventType = "territory_claimed"
	EventResourcesCollected EventType = "resources_collected"
	EventShipBuilt          EventType = "ship_built"
	EventAbilityUsed        EventType = "ability_used"
	EventCoordinateScanned  EventType = "coordinate_scanned"
	EventTurnEnded          EventType = "turn_ended"
	EventWeatherChanged     EventType = "weather_changed"
	EventShieldActivated    EventType = "shield_activated"
	EventGameCompleted      EventType = "game_completed"
)

// Event is one record in the game log. Fields beyond Type are filled
// only where they apply. Scan events deliberately omit the revealed
// terrain: the log is public, the scan result is not.
type Event struct {
	Seq          int              `json:"seq"`
	Turn         int              `json:"turn"`
	Type         EventType        `json:"type"`
	PlayerID     string           `json:"playerId,omitempty"`
	ShipID       string           `json:"shipId,omitempty"`
	TargetShipID string           `json:"targetShipId,omitempty"`
	From         *grid.Coordinate `json:"from,omitempty"`
	Target       *grid.Coordinate `json:"target,omitempty"`
	Amount       int              `json:"amount,omitempty"`
	Ability      string           `json:"ability,omitempty"`
	Note         string           `json:"note,omitempty"`
}

// appendEvent stamps sequence and turn and appends to the log.
func (g *State) appendEvent(e Event) {
	e.Seq = len(g.Events) + 1
	e.Turn = g.TurnNumber
	g.Events = append(g.Events, e)
}

// EventsBy returns the log entries attributed to one player, oldest
// first. The slice shares no structure with the live log.
func (g *State) EventsBy(playerID string) []Event {
	var out []Event
	for _, e := range g.Events {
		if e.PlayerID == playerID {
			out = append(out, e)
		}
	}
	return out
}

func coord(c grid.Coordinate) *grid.Coordinate {
	return &c
}
