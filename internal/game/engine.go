package game

import (
	"fmt"

	"pir8/pkg/grid"
)

// basicAttackReach is the distance limit for a plain Attack intent:
// declared range 1 with the x1.5 diagonal allowance.
const basicAttackReach = 1.5

// Apply validates and applies one intent against the state. On error
// the state is exactly as it was; a failed intent can always be
// resubmitted. After every applied intent the win conditions are
// re-checked, so a game may complete on any action.
func (g *State) Apply(playerID string, intent Intent) error {
	switch g.Status {
	case StatusCompleted:
		return ErrGameAlreadyCompleted
	case StatusWaiting:
		return ErrGameNotStarted
	}

	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}

	var err error
	switch it := intent.(type) {
	case Move:
		err = g.applyMove(current, it)
	case Attack:
		err = g.applyAttack(current, it)
	case ClaimTerritory:
		err = g.applyClaim(current, it)
	case CollectResources:
		err = g.applyCollect(current, it)
	case BuildShip:
		err = g.applyBuild(current, it)
	case UseAbility:
		err = g.applyUseAbility(current, it)
	case ScanCoordinate:
		err = g.applyScan(current, it)
	case EndTurn:
		err = g.applyEndTurn(current)
	default:
		err = fmt.Errorf("unhandled intent kind %q", intent.Kind())
	}
	if err != nil {
		return err
	}

	current.recordDecision(intent.DecisionMillis())
	g.checkVictory()
	return nil
}

func (g *State) applyMove(p *Player, it Move) error {
	ship := p.FindShip(it.ShipID)
	if ship == nil {
		return ErrShipNotFound
	}
	if ship.Destroyed() {
		return ErrDestroyed
	}
	if !it.To.InBounds(g.Map.Size) {
		return ErrInvalidCoordinate
	}

	dist := ship.Position.DistanceTo(it.To)
	if !ship.Mobile() {
		// No destination is reachable while immobilized, the ship's
		// own tile included.
		return &OutOfRangeError{Distance: dist, Limit: 0}
	}
	allowance := ship.MoveAllowance(g.Weather.Kind.MovementPercent())
	if dist > allowance {
		return &OutOfRangeError{Distance: dist, Limit: allowance}
	}

	from := ship.Position
	ship.Position = it.To
	ship.LastActionTurn = g.TurnNumber
	g.appendEvent(Event{
		Type:     EventShipMoved,
		PlayerID: p.ID,
		ShipID:   ship.ID,
		From:     coord(from),
		Target:   coord(it.To),
	})
	return nil
}

func (g *State) applyAttack(p *Player, it Attack) error {
	ship := p.FindShip(it.ShipID)
	if ship == nil {
		return ErrShipNotFound
	}
	if ship.Destroyed() {
		return ErrDestroyed
	}

	defOwner, defender := g.findLivingShip(it.TargetShipID)
	if defender == nil || defOwner.ID == p.ID {
		return ErrTargetNotFound
	}
	dist := ship.Position.DistanceTo(defender.Position)
	if dist > basicAttackReach {
		return &TargetOutOfRangeError{Distance: dist, Limit: basicAttackReach}
	}

	dmg := (ship.EffectiveAttack() - defender.EffectiveDefense()) * g.Weather.Kind.DamagePercent() / 100
	if dmg < 1 {
		dmg = 1
	}
	destroyed := defender.ApplyDamage(dmg)
	ship.LastActionTurn = g.TurnNumber

	g.appendEvent(Event{
		Type:         EventShipAttacked,
		PlayerID:     p.ID,
		ShipID:       ship.ID,
		TargetShipID: defender.ID,
		Amount:       dmg,
	})
	if destroyed {
		g.noteDestroyed(defOwner, defender)
	}
	return nil
}

func (g *State) applyClaim(p *Player, it ClaimTerritory) error {
	ship := p.FindShip(it.ShipID)
	if ship == nil {
		return ErrShipNotFound
	}
	if ship.Destroyed() {
		return ErrDestroyed
	}
	if err := g.claimTile(p, ship, it.Target); err != nil {
		return err
	}
	ship.LastActionTurn = g.TurnNumber
	g.appendEvent(Event{
		Type:     EventTerritoryClaimed,
		PlayerID: p.ID,
		ShipID:   ship.ID,
		Target:   coord(it.Target),
	})
	return nil
}

func (g *State) applyCollect(p *Player, it CollectResources) error {
	ship := p.FindShip(it.ShipID)
	if ship == nil {
		return ErrShipNotFound
	}
	if ship.Destroyed() {
		return ErrDestroyed
	}
	tile := g.Map.At(it.Target)
	if tile == nil {
		return ErrInvalidCoordinate
	}
	if tile.Owner != p.ID {
		return ErrTerritoryNotControlled
	}
	if !ship.Position.Touches(it.Target) {
		return &OutOfRangeError{
			Distance: ship.Position.DistanceTo(it.Target),
			Limit:    1,
		}
	}

	yield := YieldOf(tile.Kind).
		Scale(ship.Type.CollectionPercent()).
		Scale(g.yieldMultiplierPercent(p.ID)).
		Scale(g.Weather.Kind.ResourcePercent())
	p.Resources.AddAll(yield)
	ship.LastActionTurn = g.TurnNumber

	g.appendEvent(Event{
		Type:     EventResourcesCollected,
		PlayerID: p.ID,
		ShipID:   ship.ID,
		Target:   coord(it.Target),
		Amount:   yield.Total(),
	})
	return nil
}

func (g *State) applyBuild(p *Player, it BuildShip) error {
	if !it.Spawn.InBounds(g.Map.Size) {
		return ErrInvalidCoordinate
	}
	spawnTile := g.Map.At(it.Spawn)
	if spawnTile.Kind != TileWater {
		return ErrInvalidCoordinate
	}
	for _, other := range g.Players {
		for _, s := range other.LivingShips() {
			if s.Position == it.Spawn {
				return ErrInvalidCoordinate
			}
		}
	}
	if len(p.LivingShips()) >= MaxShipsPerPlayer {
		return ErrFleetLimitReached
	}
	if !g.hasControlledPortBeside(p.ID, it.Spawn) {
		return ErrNoControlledPort
	}

	cost := discountCost(it.ShipType.BuildCost(), g.costReductionPercent(p.ID))
	if kind, needed, have, short := p.Resources.FirstShortfall(cost); short {
		return insufficient(kind, needed, have)
	}
	p.Resources.Spend(cost)

	ship := p.addShip(it.ShipType, it.Spawn)
	ship.LastActionTurn = g.TurnNumber
	g.appendEvent(Event{
		Type:     EventShipBuilt,
		PlayerID: p.ID,
		ShipID:   ship.ID,
		Target:   coord(it.Spawn),
		Note:     it.ShipType.String(),
	})
	return nil
}

// hasControlledPortBeside reports whether one of the eight tiles around
// the spawn is a port the player controls.
func (g *State) hasControlledPortBeside(playerID string, spawn grid.Coordinate) bool {
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			t := g.Map.At(grid.Coordinate{X: spawn.X + dx, Y: spawn.Y + dy})
			if t != nil && t.Kind == TilePort && t.Owner == playerID {
				return true
			}
		}
	}
	return false
}

func (g *State) applyUseAbility(p *Player, it UseAbility) error {
	ship := p.FindShip(it.ShipID)
	if ship == nil {
		return ErrShipNotFound
	}
	if err := CanUseAbility(ship, &p.Resources); err != nil {
		return err
	}

	// Single-target abilities validate their target before anything is
	// committed; a bad target costs nothing.
	var target *targetRef
	a := &ship.Ability
	if a.Category == AbilityOffensive && a.SingleTarget {
		if it.TargetShipID == "" {
			return ErrNoTarget
		}
		owner, t := g.findLivingShip(it.TargetShipID)
		if t == nil || owner.ID == p.ID {
			return ErrTargetNotFound
		}
		limit := float64(a.Range) * 1.5
		dist := ship.Position.DistanceTo(t.Position)
		if dist > limit {
			return &TargetOutOfRangeError{Distance: dist, Limit: limit}
		}
		target = &targetRef{owner: owner, ship: t}
	}

	// Commit: the activation is spent from here on, even if a
	// multi-target volley finds empty sea.
	p.Resources.Spend(a.Cost)
	a.Remaining = a.Cooldown

	res := g.executeAbility(p, ship, target)
	ship.LastActionTurn = g.TurnNumber

	totalDamage := 0
	for _, h := range res.Hits {
		totalDamage += h.Damage
	}
	g.appendEvent(Event{
		Type:     EventAbilityUsed,
		PlayerID: p.ID,
		ShipID:   ship.ID,
		Amount:   totalDamage,
		Ability:  a.Name,
		Note:     res.Message,
	})
	for _, h := range res.Hits {
		if h.Destroyed {
			owner, _ := g.findShipAny(h.ShipID)
			if owner != nil {
				g.noteDestroyed(owner, owner.FindShip(h.ShipID))
			}
		}
	}
	return nil
}

func (g *State) applyScan(p *Player, it ScanCoordinate) error {
	if !it.Target.InBounds(g.Map.Size) {
		return ErrInvalidCoordinate
	}
	if p.ScanCharges <= 0 {
		return ErrNoScanChargesRemaining
	}
	p.ScanCharges--
	p.RevealTile(it.Target)
	g.appendEvent(Event{
		Type:     EventCoordinateScanned,
		PlayerID: p.ID,
		Target:   coord(it.Target),
		Amount:   p.ScanCharges,
	})
	return nil
}

func (g *State) applyEndTurn(p *Player) error {
	trickle := Resources{}
	extraTicks := 0
	for _, b := range g.ActiveBonuses(p.ID) {
		switch b.Kind {
		case BonusResourceTrickle:
			trickle.AddAll(b.Trickle)
		case BonusExtraAction:
			extraTicks = b.ExtraTicks
		}
	}

	for _, s := range p.LivingShips() {
		s.Ability.TickCooldown()
		for i := 0; i < extraTicks; i++ {
			s.Ability.TickCooldown()
		}
		s.TickEffects()
	}
	p.Resources.AddAll(trickle)
	if p.ShieldTurns > 0 {
		p.ShieldTurns--
	}

	g.appendEvent(Event{Type: EventTurnEnded, PlayerID: p.ID})

	// Advance, skipping inactive players. The turn counter and the
	// weather advance once per full cycle, when the order wraps.
	n := len(g.Players)
	prev := g.CurrentPlayerIndex
	next := (prev + 1) % n
	for i := 0; i < n && !g.Players[next].Active; i++ {
		next = (next + 1) % n
	}
	g.CurrentPlayerIndex = next
	if next <= prev {
		g.TurnNumber++
		g.advanceWeather()
	}
	return nil
}

// noteDestroyed logs a sinking and deactivates wiped-out players.
func (g *State) noteDestroyed(owner *Player, ship *Ship) {
	g.appendEvent(Event{
		Type:     EventShipDestroyed,
		PlayerID: owner.ID,
		ShipID:   ship.ID,
	})
	if len(owner.LivingShips()) == 0 {
		owner.Active = false
	}
}

// findShipAny resolves a ship id across all players, living or not.
func (g *State) findShipAny(shipID string) (*Player, *Ship) {
	for _, p := range g.Players {
		if s := p.FindShip(shipID); s != nil {
			return p, s
		}
	}
	return nil, nil
}

// checkVictory ends the game when a win condition holds. Conditions are
// evaluated strictly in order (territory, fleet, resources) and players
// in join order, so simultaneous qualifiers resolve deterministically to
// the earlier condition and the lower player index.
func (g *State) checkVictory() {
	if g.Status != StatusActive {
		return
	}

	claimable := g.Map.ClaimableCount()
	if claimable > 0 {
		for _, p := range g.Players {
			if g.Map.OwnedCount(p.ID)*100 >= claimable*g.Balance.WinTerritoryPercent {
				g.complete(p, VictoryTerritory)
				return
			}
		}
	}

	totalPower := 0
	for _, p := range g.Players {
		totalPower += p.FleetPower()
	}
	if totalPower > 0 {
		for _, p := range g.Players {
			if p.FleetPower()*100 >= totalPower*g.Balance.WinFleetPercent {
				g.complete(p, VictoryFleet)
				return
			}
		}
	}

	for _, p := range g.Players {
		if p.Resources.Total() >= g.Balance.WinResourceTotal {
			g.complete(p, VictoryEconomic)
			return
		}
	}
}

func (g *State) complete(winner *Player, kind VictoryKind) {
	g.Status = StatusCompleted
	g.WinnerID = winner.ID
	g.Victory = kind
	g.appendEvent(Event{
		Type:     EventGameCompleted,
		PlayerID: winner.ID,
		Note:     string(kind),
	})
}
