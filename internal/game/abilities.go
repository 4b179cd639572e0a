package game

import (
	"fmt"
	"sort"

	"pir8/pkg/grid"
)

// AbilityCategory classifies what an ability does when activated.
type AbilityCategory int

const (
	AbilityOffensive AbilityCategory = iota
	AbilityDefensive
	AbilityUtility
)

// String returns the category name.
func (c AbilityCategory) String() string {
	switch c {
	case AbilityOffensive:
		return "Offensive"
	case AbilityDefensive:
		return "Defensive"
	case AbilityUtility:
		return "Utility"
	default:
		return "Unknown"
	}
}

// Ability is a ship's special action: its static definition plus the
// per-instance cooldown state.
//
// Range semantics differ per ability and are deliberately not unified:
// multi-target selection uses the raw range, while single-target checks
// allow range x1.5, matching the basic attack's diagonal allowance.
type Ability struct {
	Name         string          `json:"name"`
	Category     AbilityCategory `json:"category"`
	Cooldown     int             `json:"cooldown"`
	Range        int             `json:"range"`
	Cost         Resources       `json:"cost"`
	SingleTarget bool            `json:"singleTarget,omitempty"`
	MaxTargets   int             `json:"maxTargets,omitempty"`
	Damage       int             `json:"damage,omitempty"`
	BuffPercent  int             `json:"buffPercent,omitempty"`
	Duration     int             `json:"duration,omitempty"`
	Remaining    int             `json:"remainingCooldown"`
}

// Ready reports whether the cooldown has elapsed.
func (a *Ability) Ready() bool {
	return a.Remaining == 0
}

// TickCooldown advances the cooldown by one turn, flooring at zero.
func (a *Ability) TickCooldown() {
	if a.Remaining > 0 {
		a.Remaining--
	}
}

// AbilityForType returns the ability definition bound to a ship class.
func AbilityForType(t ShipType) Ability {
	switch t {
	case ShipSloop:
		return Ability{
			Name:     "Crow's Nest",
			Category: AbilityUtility,
			Cooldown: 2,
			Range:    3,
			Cost:     Resources{Supplies: 5, Rum: 1},
		}
	case ShipFrigate:
		return Ability{
			Name:       "Broadside",
			Category:   AbilityOffensive,
			Cooldown:   3,
			Range:      3,
			Cost:       Resources{Cannons: 10},
			MaxTargets: 3,
			Damage:     35,
		}
	case ShipGalleon:
		return Ability{
			Name:        "Reinforce Hull",
			Category:    AbilityDefensive,
			Cooldown:    4,
			Cost:        Resources{Supplies: 15, Rum: 3},
			BuffPercent: 150,
			Duration:    2,
		}
	case ShipFlagship:
		return Ability{
			Name:         "Devastating Volley",
			Category:     AbilityOffensive,
			Cooldown:     5,
			Range:        4,
			Cost:         Resources{Cannons: 20, Rum: 5},
			SingleTarget: true,
			Damage:       70,
		}
	default:
		return Ability{}
	}
}

// CanUseAbility checks readiness and affordability without committing
// anything. Fails with ErrOnCooldown, ErrDestroyed, or an
// InsufficientResourcesError naming the first unmet cost line.
func CanUseAbility(ship *Ship, stock *Resources) error {
	if ship.Destroyed() {
		return ErrDestroyed
	}
	if !ship.Ability.Ready() {
		return ErrOnCooldown
	}
	if kind, needed, have, short := stock.FirstShortfall(ship.Ability.Cost); short {
		return insufficient(kind, needed, have)
	}
	return nil
}

// AbilityHit records damage dealt to one ship by an ability.
type AbilityHit struct {
	ShipID    string `json:"shipId"`
	Damage    int    `json:"damage"`
	Destroyed bool   `json:"destroyed"`
}

// AbilityResult describes what an activation did, for events and display.
type AbilityResult struct {
	Ability  string            `json:"ability"`
	Hits     []AbilityHit      `json:"hits,omitempty"`
	Revealed []grid.Coordinate `json:"revealed,omitempty"`
	Message  string            `json:"message"`
}

// targetRef pairs a living enemy ship with its owner for targeting.
type targetRef struct {
	owner *Player
	ship  *Ship
}

// enemyShipsOf lists every living enemy ship in deterministic order:
// player index first, then fleet order.
func (g *State) enemyShipsOf(attacker *Player) []targetRef {
	var out []targetRef
	for _, p := range g.Players {
		if p.ID == attacker.ID {
			continue
		}
		for _, s := range p.Ships {
			if !s.Destroyed() {
				out = append(out, targetRef{owner: p, ship: s})
			}
		}
	}
	return out
}

// selectBroadsideTargets picks up to max living enemies within the raw
// range, closest first, breaking distance ties by lowest remaining
// health. The incoming slice must already be in deterministic order.
func selectBroadsideTargets(from grid.Coordinate, enemies []targetRef, rawRange, max int) []targetRef {
	inRange := make([]targetRef, 0, len(enemies))
	for _, e := range enemies {
		if from.DistanceTo(e.ship.Position) <= float64(rawRange) {
			inRange = append(inRange, e)
		}
	}
	sort.SliceStable(inRange, func(i, j int) bool {
		di := from.DistanceTo(inRange[i].ship.Position)
		dj := from.DistanceTo(inRange[j].ship.Position)
		if di != dj {
			return di < dj
		}
		return inRange[i].ship.Health < inRange[j].ship.Health
	})
	if len(inRange) > max {
		inRange = inRange[:max]
	}
	return inRange
}

// abilityDamage applies the weather damage multiplier to an ability's
// base damage against a defender, keeping the floor of one.
func abilityDamage(base int, defender *Ship, damagePercent int) int {
	dmg := (base - defender.EffectiveDefense()) * damagePercent / 100
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// executeAbility runs the already-validated, already-committed part of an
// activation. For single-target abilities the target has been resolved by
// the caller; multi-target and utility abilities may legitimately find
// nothing to act on and still count as used.
func (g *State) executeAbility(player *Player, ship *Ship, target *targetRef) *AbilityResult {
	a := &ship.Ability
	res := &AbilityResult{Ability: a.Name}

	switch a.Category {
	case AbilityUtility:
		for x := 0; x < g.Map.Size; x++ {
			for y := 0; y < g.Map.Size; y++ {
				c := grid.Coordinate{X: x, Y: y}
				if ship.Position.DistanceTo(c) <= float64(a.Range) {
					player.RevealTile(c)
					res.Revealed = append(res.Revealed, c)
				}
			}
		}
		res.Message = fmt.Sprintf("%s revealed %d tiles", a.Name, len(res.Revealed))

	case AbilityDefensive:
		ship.AddEffect(Effect{Kind: EffectDefenseBuff, Percent: a.BuffPercent, Duration: a.Duration, SourceShipID: ship.ID})
		ship.AddEffect(Effect{Kind: EffectImmobile, Duration: a.Duration, SourceShipID: ship.ID})
		res.Message = fmt.Sprintf("%s braced for %d turns", ship.ID, a.Duration)

	case AbilityOffensive:
		damagePercent := g.Weather.Kind.DamagePercent()
		if a.SingleTarget {
			dmg := abilityDamage(a.Damage, target.ship, damagePercent)
			destroyed := target.ship.ApplyDamage(dmg)
			res.Hits = append(res.Hits, AbilityHit{ShipID: target.ship.ID, Damage: dmg, Destroyed: destroyed})
			res.Message = fmt.Sprintf("%s hit %s for %d", a.Name, target.ship.ID, dmg)
		} else {
			targets := selectBroadsideTargets(ship.Position, g.enemyShipsOf(player), a.Range, a.MaxTargets)
			for _, tr := range targets {
				dmg := abilityDamage(a.Damage, tr.ship, damagePercent)
				destroyed := tr.ship.ApplyDamage(dmg)
				res.Hits = append(res.Hits, AbilityHit{ShipID: tr.ship.ID, Damage: dmg, Destroyed: destroyed})
			}
			if len(targets) == 0 {
				res.Message = fmt.Sprintf("%s found no targets in range", a.Name)
			} else {
				res.Message = fmt.Sprintf("%s hit %d ships", a.Name, len(res.Hits))
			}
		}
	}
	return res
}
