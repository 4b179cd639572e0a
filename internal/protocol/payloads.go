package protocol

import (
	"encoding/json"
	"fmt"

	"pir8/internal/game"
	"pir8/internal/intel"
)

// ==================== Intent Codec ====================

// IntentEnvelope carries one intent on the wire, tagged with its kind
// so the receiver knows which variant to decode.
type IntentEnvelope struct {
	Kind game.IntentKind `json:"kind"`
	Body json.RawMessage `json:"body"`
}

// EncodeIntent wraps an intent for transport.
func EncodeIntent(it game.Intent) (IntentEnvelope, error) {
	body, err := json.Marshal(it)
	if err != nil {
		return IntentEnvelope{}, err
	}
	return IntentEnvelope{Kind: it.Kind(), Body: body}, nil
}

// Decode rebuilds the concrete intent from the envelope. An unknown
// kind is a malformed message, never an engine error.
func (e IntentEnvelope) Decode() (game.Intent, error) {
	var it game.Intent
	switch e.Kind {
	case game.IntentMove:
		it = &Move{}
	case game.IntentAttack:
		it = &Attack{}
	case game.IntentClaimTerritory:
		it = &ClaimTerritory{}
	case game.IntentCollectResources:
		it = &CollectResources{}
	case game.IntentBuildShip:
		it = &BuildShip{}
	case game.IntentUseAbility:
		it = &UseAbility{}
	case game.IntentScanCoordinate:
		it = &ScanCoordinate{}
	case game.IntentEndTurn:
		it = &EndTurn{}
	default:
		return nil, fmt.Errorf("unknown intent kind %q", e.Kind)
	}
	if err := json.Unmarshal(e.Body, it); err != nil {
		return nil, err
	}
	return deref(it), nil
}

// ==================== Lobby Payloads ====================

// CreateGamePayload is sent to create a new game.
type CreateGamePayload struct {
	Seed       uint64 `json:"seed"`
	MaxPlayers int    `json:"maxPlayers"`
}

// GameCreatedPayload is the response when a game is created.
type GameCreatedPayload struct {
	GameID string      `json:"gameId"`
	State  *game.State `json:"state"`
}

// JoinGamePayload is sent to join a game.
type JoinGamePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

// GameJoinedPayload is the response when successfully joining.
type GameJoinedPayload struct {
	GameID   string      `json:"gameId"`
	PlayerID string      `json:"playerId"`
	State    *game.State `json:"state"`
}

// ListGamesPayload requests the open game list.
type ListGamesPayload struct{}

// GameSummary is one row of the game list.
type GameSummary struct {
	ID          string `json:"id"`
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Turn        int    `json:"turn"`
}

// GameListPayload contains the open games.
type GameListPayload struct {
	Games []GameSummary `json:"games"`
}

// GetStatePayload requests a full snapshot.
type GetStatePayload struct {
	GameID string `json:"gameId"`
}

// ==================== Game Flow Payloads ====================

// SubmitIntentPayload is one player action for the current turn.
type SubmitIntentPayload struct {
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId"`
	Intent   IntentEnvelope `json:"intent"`
}

// IntentAppliedPayload reports a successful mutation with the new
// authoritative snapshot.
type IntentAppliedPayload struct {
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId"`
	Intent   IntentEnvelope `json:"intent"`
	State    *game.State    `json:"state"`
}

// IntentRejectedPayload reports a failed intent. State is omitted: a
// rejection never changes anything.
type IntentRejectedPayload struct {
	GameID    string       `json:"gameId"`
	PlayerID  string       `json:"playerId"`
	Rejection ErrorPayload `json:"rejection"`
}

// StateUpdatePayload pushes the full game state.
type StateUpdatePayload struct {
	GameID string      `json:"gameId"`
	State  *game.State `json:"state"`
}

// GameCompletedPayload announces the winner.
type GameCompletedPayload struct {
	GameID   string           `json:"gameId"`
	WinnerID string           `json:"winnerId"`
	Victory  game.VictoryKind `json:"victory"`
	State    *game.State      `json:"state"`
}

// ActivateShieldPayload spends a shield charge out of turn.
type ActivateShieldPayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

// ==================== AI and Intel Payloads ====================

// RequestAIMovePayload asks the server to decide for a player.
type RequestAIMovePayload struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
	Profile  string `json:"profile"`
}

// RankedOption is one scored candidate, for display.
type RankedOption struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AIDecisionPayload is the chosen intent plus the reasoning surface.
type AIDecisionPayload struct {
	GameID        string         `json:"gameId"`
	PlayerID      string         `json:"playerId"`
	Intent        IntentEnvelope `json:"intent"`
	Justification string         `json:"justification"`
	Ranked        []RankedOption `json:"ranked,omitempty"`
}

// LeakageReportPayload doubles as request and response: the client
// fills the ids, the server fills the report.
type LeakageReportPayload struct {
	GameID   string        `json:"gameId"`
	PlayerID string        `json:"playerId"`
	Report   *intel.Report `json:"report,omitempty"`
}

// DossierPayload doubles as request and response.
type DossierPayload struct {
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId"`
	Dossier  *intel.Dossier `json:"dossier,omitempty"`
}

// Wire aliases for the intent variants. Decoding needs addressable
// values; the engine consumes them by value.
type (
	Move             = game.Move
	Attack           = game.Attack
	ClaimTerritory   = game.ClaimTerritory
	CollectResources = game.CollectResources
	BuildShip        = game.BuildShip
	UseAbility       = game.UseAbility
	ScanCoordinate   = game.ScanCoordinate
	EndTurn          = game.EndTurn
)

// deref converts the decoded pointer back to the value form the engine
// dispatches on.
func deref(it game.Intent) game.Intent {
	switch v := it.(type) {
	case *Move:
		return *v
	case *Attack:
		return *v
	case *ClaimTerritory:
		return *v
	case *CollectResources:
		return *v
	case *BuildShip:
		return *v
	case *UseAbility:
		return *v
	case *ScanCoordinate:
		return *v
	case *EndTurn:
		return *v
	default:
		return it
	}
}
