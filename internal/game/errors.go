package game

import (
	"errors"
	"fmt"
)

// Engine errors. Every rule violation maps to exactly one of these;
// callers match with errors.Is and pull structured detail with errors.As.
var (
	ErrNotYourTurn            = errors.New("not your turn")
	ErrGameNotStarted         = errors.New("game has not started")
	ErrGameAlreadyCompleted   = errors.New("game is already completed")
	ErrGameFull               = errors.New("game is full")
	ErrAlreadyJoined          = errors.New("player already joined")
	ErrOutOfRange             = errors.New("out of range")
	ErrNotClaimable           = errors.New("tile cannot be claimed")
	ErrOnCooldown             = errors.New("ability on cooldown")
	ErrDestroyed              = errors.New("ship is destroyed")
	ErrInsufficientResources  = errors.New("insufficient resources")
	ErrNoTarget               = errors.New("no target specified")
	ErrTargetOutOfRange       = errors.New("target out of range")
	ErrTargetNotFound         = errors.New("target not found")
	ErrNoControlledPort       = errors.New("no controlled port in reach")
	ErrNoScanChargesRemaining = errors.New("no scan charges remaining")
	ErrInvalidCoordinate      = errors.New("invalid coordinate")
	ErrFleetLimitReached      = errors.New("fleet limit reached")
	ErrShipNotFound           = errors.New("ship not found")
	ErrNoShieldCharges        = errors.New("no shield charges remaining")
	ErrPlayerNotInGame        = errors.New("player not in game")
	ErrTerritoryNotControlled = errors.New("territory not controlled")
)

// InsufficientResourcesError reports the first unmet line of a cost.
type InsufficientResourcesError struct {
	Resource ResourceType
	Needed   int
	Have     int
}

func (e *InsufficientResourcesError) Error() string {
	return fmt.Sprintf("insufficient resources: need %d %s, have %d", e.Needed, e.Resource, e.Have)
}

func (e *InsufficientResourcesError) Unwrap() error { return ErrInsufficientResources }

// OutOfRangeError reports how far a move or claim overshot its limit.
type OutOfRangeError struct {
	Distance float64
	Limit    float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("out of range: distance %.2f exceeds %.2f", e.Distance, e.Limit)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// TargetOutOfRangeError reports a targeted ability fired beyond its reach.
type TargetOutOfRangeError struct {
	Distance float64
	Limit    float64
}

func (e *TargetOutOfRangeError) Error() string {
	return fmt.Sprintf("target out of range: distance %.2f exceeds %.2f", e.Distance, e.Limit)
}

func (e *TargetOutOfRangeError) Unwrap() error { return ErrTargetOutOfRange }

func insufficient(kind ResourceType, needed, have int) error {
	return &InsufficientResourcesError{Resource: kind, Needed: needed, Have: have}
}
