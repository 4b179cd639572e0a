// Package protocol defines the network message types for client-server
// communication.
package protocol

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"pir8/internal/game"
)

// MessageType identifies the type of message.
type MessageType string

// Client to server message types
const (
	TypeCreateGame     MessageType = "create_game"
	TypeJoinGame       MessageType = "join_game"
	TypeSubmitIntent   MessageType = "submit_intent"
	TypeRequestAIMove  MessageType = "request_ai_move"
	TypeLeakageReport  MessageType = "leakage_report"
	TypeDossier        MessageType = "dossier"
	TypeActivateShield MessageType = "activate_shield"
	TypeListGames      MessageType = "list_games"
	TypeGetState       MessageType = "get_state"
)

// Server to client message types
const (
	TypeGameCreated    MessageType = "game_created"
	TypeGameJoined     MessageType = "game_joined"
	TypeStateUpdate    MessageType = "state_update"
	TypeIntentApplied  MessageType = "intent_applied"
	TypeIntentRejected MessageType = "intent_rejected"
	TypeAIDecision     MessageType = "ai_decision"
	TypeGameList       MessageType = "game_list"
	TypeGameCompleted  MessageType = "game_completed"
	TypeError          MessageType = "error"
)

// System message types
const (
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"
)

// Message is the envelope for all messages.
type Message struct {
	Type      MessageType     `json:"type"`
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMessage creates a new message with the given type and payload.
func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		ID:        uuid.New().String(),
		Timestamp: time.Now().UnixMilli(),
		Payload:   data,
	}, nil
}

// ParsePayload unmarshals the payload into the given type.
func (m *Message) ParsePayload(v interface{}) error {
	return json.Unmarshal(m.Payload, v)
}

// ErrorCode represents an error type on the wire. Engine codes map
// one to one onto the game package sentinels; the rest are transport
// failures the engine never sees.
type ErrorCode string

const (
	ErrCodeNotYourTurn            ErrorCode = "not_your_turn"
	ErrCodeGameAlreadyCompleted   ErrorCode = "game_already_completed"
	ErrCodeGameNotStarted         ErrorCode = "game_not_started"
	ErrCodeGameFull               ErrorCode = "game_full"
	ErrCodeAlreadyJoined          ErrorCode = "already_joined"
	ErrCodeOutOfRange             ErrorCode = "out_of_range"
	ErrCodeNotClaimable           ErrorCode = "not_claimable"
	ErrCodeOnCooldown             ErrorCode = "on_cooldown"
	ErrCodeDestroyed              ErrorCode = "destroyed"
	ErrCodeInsufficientResources  ErrorCode = "insufficient_resources"
	ErrCodeNoTarget               ErrorCode = "no_target"
	ErrCodeTargetOutOfRange       ErrorCode = "target_out_of_range"
	ErrCodeTargetNotFound         ErrorCode = "target_not_found"
	ErrCodeNoControlledPort       ErrorCode = "no_controlled_port"
	ErrCodeNoScanCharges          ErrorCode = "no_scan_charges"
	ErrCodeInvalidCoordinate      ErrorCode = "invalid_coordinate"
	ErrCodeFleetLimitReached      ErrorCode = "fleet_limit_reached"
	ErrCodeShipNotFound           ErrorCode = "ship_not_found"
	ErrCodeNoShieldCharges        ErrorCode = "no_shield_charges"
	ErrCodePlayerNotInGame        ErrorCode = "player_not_in_game"
	ErrCodeTerritoryNotControlled ErrorCode = "territory_not_controlled"
)

const (
	ErrCodeInvalidMessage ErrorCode = "invalid_message"
	ErrCodeGameNotFound   ErrorCode = "game_not_found"
	ErrCodeNotInGame      ErrorCode = "not_in_game"
	ErrCodeRateLimited    ErrorCode = "rate_limited"
	ErrCodeInternalError  ErrorCode = "internal_error"
)

// ErrorPayload is the payload for error and intent_rejected messages.
// The detail fields are filled only for the error kinds that carry
// them, so clients render specifics without parsing Message.
type ErrorPayload struct {
	Code     ErrorCode `json:"code"`
	Message  string    `json:"message"`
	Resource string    `json:"resource,omitempty"`
	Needed   int       `json:"needed,omitempty"`
	Have     int       `json:"have,omitempty"`
	Distance float64   `json:"distance,omitempty"`
	Limit    float64   `json:"limit,omitempty"`
}

var sentinelCodes = []struct {
	err  error
	code ErrorCode
}{
	{game.ErrNotYourTurn, ErrCodeNotYourTurn},
	{game.ErrGameAlreadyCompleted, ErrCodeGameAlreadyCompleted},
	{game.ErrGameNotStarted, ErrCodeGameNotStarted},
	{game.ErrGameFull, ErrCodeGameFull},
	{game.ErrAlreadyJoined, ErrCodeAlreadyJoined},
	{game.ErrOutOfRange, ErrCodeOutOfRange},
	{game.ErrNotClaimable, ErrCodeNotClaimable},
	{game.ErrOnCooldown, ErrCodeOnCooldown},
	{game.ErrDestroyed, ErrCodeDestroyed},
	{game.ErrInsufficientResources, ErrCodeInsufficientResources},
	{game.ErrNoTarget, ErrCodeNoTarget},
	{game.ErrTargetOutOfRange, ErrCodeTargetOutOfRange},
	{game.ErrTargetNotFound, ErrCodeTargetNotFound},
	{game.ErrNoControlledPort, ErrCodeNoControlledPort},
	{game.ErrNoScanChargesRemaining, ErrCodeNoScanCharges},
	{game.ErrInvalidCoordinate, ErrCodeInvalidCoordinate},
	{game.ErrFleetLimitReached, ErrCodeFleetLimitReached},
	{game.ErrShipNotFound, ErrCodeShipNotFound},
	{game.ErrNoShieldCharges, ErrCodeNoShieldCharges},
	{game.ErrPlayerNotInGame, ErrCodePlayerNotInGame},
	{game.ErrTerritoryNotControlled, ErrCodeTerritoryNotControlled},
}

// CodeForError maps an engine error to its wire code.
func CodeForError(err error) ErrorCode {
	for _, sc := range sentinelCodes {
		if errors.Is(err, sc.err) {
			return sc.code
		}
	}
	return ErrCodeInternalError
}

// RejectionFrom builds the payload for an engine rejection, carrying
// the structured detail when the error has any.
func RejectionFrom(err error) ErrorPayload {
	p := ErrorPayload{Code: CodeForError(err), Message: err.Error()}
	var insufficient *game.InsufficientResourcesError
	if errors.As(err, &insufficient) {
		p.Resource = insufficient.Resource.String()
		p.Needed = insufficient.Needed
		p.Have = insufficient.Have
	}
	var outOfRange *game.OutOfRangeError
	if errors.As(err, &outOfRange) {
		p.Distance = outOfRange.Distance
		p.Limit = outOfRange.Limit
	}
	var targetRange *game.TargetOutOfRangeError
	if errors.As(err, &targetRange) {
		p.Distance = targetRange.Distance
		p.Limit = targetRange.Limit
	}
	return p
}
