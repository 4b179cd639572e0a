package game

import "pir8/pkg/grid"

// IntentKind tags each intent variant for protocols and history
// classification.
type IntentKind string

const (
	IntentMove             IntentKind = "move"
	IntentAttack           IntentKind = "attack"
	IntentClaimTerritory   IntentKind = "claim_territory"
	IntentCollectResources IntentKind = "collect_resources"
	IntentBuildShip        IntentKind = "build_ship"
	IntentUseAbility       IntentKind = "use_ability"
	IntentScanCoordinate   IntentKind = "scan_coordinate"
	IntentEndTurn          IntentKind = "end_turn"
)

// Intent is a player's requested action for the current turn. The
// interface is sealed: only the variants in this file implement it, so
// the engine's dispatch is exhaustive by construction.
type Intent interface {
	Kind() IntentKind
	DecisionMillis() int64
	isIntent()
}

// Timing carries the caller-reported decision time used for the speed
// bonus. The engine never measures time itself.
type Timing struct {
	DecisionTimeMs int64 `json:"decisionTimeMs,omitempty"`
}

// DecisionMillis returns the reported decision time.
func (t Timing) DecisionMillis() int64 { return t.DecisionTimeMs }

// Move sails a ship to a destination within its speed.
type Move struct {
	Timing
	ShipID string          `json:"shipId"`
	To     grid.Coordinate `json:"to"`
}

// Attack fires a basic broadside at an adjacent enemy ship.
type Attack struct {
	Timing
	ShipID       string `json:"shipId"`
	TargetShipID string `json:"targetShipId"`
}

// ClaimTerritory takes ownership of a claimable tile beside a ship.
type ClaimTerritory struct {
	Timing
	ShipID string          `json:"shipId"`
	Target grid.Coordinate `json:"target"`
}

// CollectResources harvests a controlled tile with a ship.
type CollectResources struct {
	Timing
	ShipID string          `json:"shipId"`
	Target grid.Coordinate `json:"target"`
}

// BuildShip launches a new vessel from a controlled port.
type BuildShip struct {
	Timing
	ShipType ShipType        `json:"shipType"`
	Spawn    grid.Coordinate `json:"spawn"`
}

// UseAbility activates a ship's special action. TargetShipID is
// required only by single-target abilities.
type UseAbility struct {
	Timing
	ShipID       string `json:"shipId"`
	TargetShipID string `json:"targetShipId,omitempty"`
}

// ScanCoordinate spends a scan charge to learn a tile's true terrain.
type ScanCoordinate struct {
	Timing
	Target grid.Coordinate `json:"target"`
}

// EndTurn finishes the player's turn, ticking cooldowns, effects, and
// territory bonuses.
type EndTurn struct {
	Timing
}

func (Move) Kind() IntentKind             { return IntentMove }
func (Attack) Kind() IntentKind           { return IntentAttack }
func (ClaimTerritory) Kind() IntentKind   { return IntentClaimTerritory }
func (CollectResources) Kind() IntentKind { return IntentCollectResources }
func (BuildShip) Kind() IntentKind        { return IntentBuildShip }
func (UseAbility) Kind() IntentKind       { return IntentUseAbility }
func (ScanCoordinate) Kind() IntentKind   { return IntentScanCoordinate }
func (EndTurn) Kind() IntentKind          { return IntentEndTurn }

func (Move) isIntent()             {}
func (Attack) isIntent()           {}
func (ClaimTerritory) isIntent()   {}
func (CollectResources) isIntent() {}
func (BuildShip) isIntent()        {}
func (UseAbility) isIntent()       {}
func (ScanCoordinate) isIntent()   {}
func (EndTurn) isIntent()          {}
