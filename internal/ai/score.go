package ai

import (
	"pir8/internal/game"
	"pir8/pkg/grid"
)

// Factors is the breakdown of one option's score: raw territorial
// value, expected damage (dealt or turned away), counter-exposure at
// the resulting position, economic value, and the bounded jitter term.
// Recorded for the ranked display; only the weighted total drives the
// choice.
type Factors struct {
	Territory float64 `json:"territory,omitempty"`
	Damage    float64 `json:"damage,omitempty"`
	Exposure  float64 `json:"exposure,omitempty"`
	Economy   float64 `json:"economy,omitempty"`
	Jitter    float64 `json:"jitter,omitempty"`
}

const (
	killBonus      = 40.0
	jitterSpan     = 12.0
	exposureWeight = 0.15
)

// Score evaluates one enumerated option. The result is a pure function
// of the state, the option's ordinal, and the profile: the jitter term
// is drawn from the game seed and turn number, bounded by
// (1 - aggressiveness), so easier profiles wander more but replays
// still reproduce.
func Score(g *game.State, p *game.Player, opt Option, ordinal int, profile Profile) (float64, Factors) {
	var f Factors
	total := 0.0

	switch it := opt.Intent.(type) {
	case game.Attack:
		ship := p.FindShip(it.ShipID)
		target := findLivingShip(g, it.TargetShipID)
		if ship == nil || target == nil {
			break
		}
		f.Damage = expectedDamage(g, ship.EffectiveAttack(), target)
		if profile.Lookahead >= 2 {
			f.Exposure = exposureAt(g, p, ship.Position)
		}
		total = f.Damage*(0.5+profile.Aggressiveness) - f.Exposure*exposureWeight*float64(profile.Lookahead)

	case game.UseAbility:
		ship := p.FindShip(it.ShipID)
		if ship == nil {
			break
		}
		total = scoreAbility(g, p, ship, it, profile, &f)

	case game.ClaimTerritory:
		tile := g.Map.At(it.Target)
		if tile == nil {
			break
		}
		yield := game.YieldOf(tile.Kind)
		f.Territory = float64(yield.Total()) * 4
		if tile.Kind == game.TilePort {
			f.Territory += 6
		}
		if tile.Owner != "" {
			f.Territory += 3
		}
		if profile.Lookahead >= 3 {
			if next, fraction, _, ok := g.NextBonusProgress(p.ID); ok && familyWants(next.Family, tile.Kind) {
				f.Territory += fraction * 10
			}
		}
		total = f.Territory

	case game.CollectResources:
		tile := g.Map.At(it.Target)
		ship := p.FindShip(it.ShipID)
		if tile == nil || ship == nil {
			break
		}
		yield := game.YieldOf(tile.Kind).
			Scale(ship.Type.CollectionPercent()).
			Scale(g.Weather.Kind.ResourcePercent())
		f.Economy = float64(yield.Total()) * 3
		total = f.Economy * (1.5 - profile.Aggressiveness)

	case game.BuildShip:
		stats := it.ShipType.BaseStats()
		f.Economy = float64(stats.Attack+stats.Defense) / 8
		total = f.Economy

	case game.ScanCoordinate:
		f.Economy = 3 + 1.5*float64(profile.Lookahead)
		total = f.Economy

	case game.Move:
		ship := p.FindShip(it.ShipID)
		if ship == nil {
			break
		}
		f.Damage = (nearestEnemyDistance(g, p, ship.Position) - nearestEnemyDistance(g, p, it.To)) * 2
		f.Territory = (nearestClaimableDistance(g, p, ship.Position) - nearestClaimableDistance(g, p, it.To)) * 2
		if profile.Lookahead >= 2 {
			f.Exposure = exposureAt(g, p, it.To)
		}
		total = f.Damage*profile.Aggressiveness +
			f.Territory*(1-profile.Aggressiveness) -
			f.Exposure*exposureWeight*float64(profile.Lookahead)

	case game.EndTurn:
		total = 1
	}

	f.Jitter = jitter(g, ordinal) * jitterSpan * (1 - profile.Aggressiveness)
	return total + f.Jitter, f
}

func scoreAbility(g *game.State, p *game.Player, ship *game.Ship, it game.UseAbility, profile Profile, f *Factors) float64 {
	a := ship.Ability
	switch {
	case a.Category == game.AbilityOffensive && a.SingleTarget:
		target := findLivingShip(g, it.TargetShipID)
		if target == nil {
			return 0
		}
		f.Damage = expectedDamage(g, a.Damage, target)
		if profile.Lookahead >= 2 {
			f.Exposure = exposureAt(g, p, ship.Position)
		}
		return f.Damage*(0.5+profile.Aggressiveness) - f.Exposure*exposureWeight*float64(profile.Lookahead)

	case a.Category == game.AbilityOffensive:
		hit := 0
		for _, e := range visibleEnemies(g, p) {
			if hit >= a.MaxTargets {
				break
			}
			if ship.Position.DistanceTo(e.Position) <= float64(a.Range) {
				f.Damage += expectedDamage(g, a.Damage, e)
				hit++
			}
		}
		if profile.Lookahead >= 2 {
			f.Exposure = exposureAt(g, p, ship.Position)
		}
		return f.Damage*(0.5+profile.Aggressiveness) - f.Exposure*exposureWeight*float64(profile.Lookahead)

	case a.Category == game.AbilityDefensive:
		// A brace scores the damage it expects to turn away.
		f.Damage = exposureAt(g, p, ship.Position) * 0.5
		return f.Damage

	default:
		f.Economy = 4 + 2*float64(profile.Lookahead)
		return f.Economy
	}
}

// expectedDamage mirrors the engine's damage rule so scoring and
// resolution agree: max(1, attack - defense) scaled by weather, plus a
// bonus when the blow would sink the target.
func expectedDamage(g *game.State, attack int, target *game.Ship) float64 {
	dmg := (attack - target.EffectiveDefense()) * g.Weather.Kind.DamagePercent() / 100
	if dmg < 1 {
		dmg = 1
	}
	v := float64(dmg)
	if dmg >= target.Health {
		v += killBonus
	}
	return v
}

// exposureAt estimates how hard enemies could hit a ship sitting at c
// next turn: every visible enemy that could sail into reach contributes
// a fraction of its attack.
func exposureAt(g *game.State, p *game.Player, c grid.Coordinate) float64 {
	exposure := 0.0
	for _, e := range visibleEnemies(g, p) {
		reach := e.MoveAllowance(g.Weather.Kind.MovementPercent()) + 1.5
		if e.Position.DistanceTo(c) <= reach {
			exposure += float64(e.EffectiveAttack()) * 0.3
		}
	}
	return exposure
}

func nearestEnemyDistance(g *game.State, p *game.Player, c grid.Coordinate) float64 {
	best := float64(g.Map.Size) * 2
	for _, e := range visibleEnemies(g, p) {
		if d := c.DistanceTo(e.Position); d < best {
			best = d
		}
	}
	return best
}

func nearestClaimableDistance(g *game.State, p *game.Player, c grid.Coordinate) float64 {
	best := float64(g.Map.Size) * 2
	for y := 0; y < g.Map.Size; y++ {
		for x := 0; x < g.Map.Size; x++ {
			tile := g.Map.Tiles[y][x]
			if !tile.Kind.Claimable() || tile.Owner == p.ID {
				continue
			}
			if d := c.DistanceTo(grid.Coordinate{X: x, Y: y}); d < best {
				best = d
			}
		}
	}
	return best
}

// familyWants reports whether claiming a tile kind advances a bonus
// family.
func familyWants(f game.BonusFamily, kind game.TileKind) bool {
	switch f {
	case game.FamilySupplyLine:
		return kind == game.TileIsland
	case game.FamilyHarborGuild:
		return kind == game.TilePort
	case game.FamilyHoard:
		return kind == game.TileTreasure
	case game.FamilyTradeEmpire:
		return kind.Claimable()
	default:
		return false
	}
}

func findLivingShip(g *game.State, shipID string) *game.Ship {
	for _, p := range g.Players {
		for _, s := range p.LivingShips() {
			if s.ID == shipID {
				return s
			}
		}
	}
	return nil
}

// jitter returns a deterministic value in [0, 1) tied to the game seed,
// the turn number, and the option's position in the enumeration.
func jitter(g *game.State, ordinal int) float64 {
	return float64(grid.CellNoise(g.Seed, ordinal, g.TurnNumber)) / 100
}
