package ai

import (
	"fmt"

	"pir8/internal/game"
	"pir8/pkg/grid"
)

// Option is one legal intent a computer player could submit, together
// with the context scoring needs. Options carry no display strings;
// the explanatory payload is assembled separately by Decide.
type Option struct {
	Intent game.Intent
	ShipID string
	Label  string
}

// compass fixes the direction order for move enumeration.
var compass = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

// EnumerateOptions lists every candidate intent for the player, one per
// (ship, action) pair, in a fixed order: ships by fleet order (which is
// ship-id order), then fleet-wide build and scan candidates, and the
// end-turn fallback always last. The list is never empty.
//
// Ships belonging to shielded players are invisible to the enumeration,
// so they are never attacked or targeted.
func EnumerateOptions(g *game.State, playerID string) []Option {
	var out []Option
	p := g.FindPlayer(playerID)
	if p == nil {
		return []Option{passOption()}
	}

	enemies := visibleEnemies(g, p)

	for _, ship := range p.LivingShips() {
		out = append(out, moveOptions(g, ship)...)
		out = append(out, attackOptions(ship, enemies)...)
		out = append(out, claimOptions(g, p, ship)...)
		out = append(out, collectOptions(g, p, ship)...)
		out = append(out, abilityOptions(g, p, ship, enemies)...)
	}
	out = append(out, buildOptions(g, p)...)
	out = append(out, scanOptions(g, p)...)
	out = append(out, passOption())
	return out
}

func passOption() Option {
	return Option{Intent: game.EndTurn{}, Label: "pass"}
}

// visibleEnemies lists living enemy ships in player order then fleet
// order, excluding fleets hidden behind a shield.
func visibleEnemies(g *game.State, p *game.Player) []*game.Ship {
	var out []*game.Ship
	for _, other := range g.Players {
		if other.ID == p.ID || other.Shielded() {
			continue
		}
		out = append(out, other.LivingShips()...)
	}
	return out
}

// moveOptions offers the furthest reachable tile in each compass
// direction, so the candidate set stays small and deterministic.
func moveOptions(g *game.State, ship *game.Ship) []Option {
	if !ship.Mobile() {
		return nil
	}
	allowance := ship.MoveAllowance(g.Weather.Kind.MovementPercent())
	var out []Option
	for _, d := range compass {
		var best *grid.Coordinate
		for step := 1; ; step++ {
			c := grid.Coordinate{X: ship.Position.X + d[0]*step, Y: ship.Position.Y + d[1]*step}
			if !c.InBounds(g.Map.Size) || ship.Position.DistanceTo(c) > allowance {
				break
			}
			cc := c
			best = &cc
		}
		if best != nil {
			out = append(out, Option{
				Intent: game.Move{ShipID: ship.ID, To: *best},
				ShipID: ship.ID,
				Label:  fmt.Sprintf("sail %s to %s", ship.ID, best),
			})
		}
	}
	return out
}

func attackOptions(ship *game.Ship, enemies []*game.Ship) []Option {
	var out []Option
	for _, e := range enemies {
		if ship.Position.DistanceTo(e.Position) <= 1.5 {
			out = append(out, Option{
				Intent: game.Attack{ShipID: ship.ID, TargetShipID: e.ID},
				ShipID: ship.ID,
				Label:  fmt.Sprintf("attack %s with %s", e.ID, ship.ID),
			})
		}
	}
	return out
}

func claimOptions(g *game.State, p *game.Player, ship *game.Ship) []Option {
	var out []Option
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := grid.Coordinate{X: ship.Position.X + dx, Y: ship.Position.Y + dy}
			tile := g.Map.At(c)
			if tile == nil || !tile.Kind.Claimable() || tile.Owner == p.ID {
				continue
			}
			out = append(out, Option{
				Intent: game.ClaimTerritory{ShipID: ship.ID, Target: c},
				ShipID: ship.ID,
				Label:  fmt.Sprintf("claim the %s at %s", tile.Kind, c),
			})
		}
	}
	return out
}

func collectOptions(g *game.State, p *game.Player, ship *game.Ship) []Option {
	var out []Option
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c := grid.Coordinate{X: ship.Position.X + dx, Y: ship.Position.Y + dy}
			tile := g.Map.At(c)
			if tile == nil || tile.Owner != p.ID {
				continue
			}
			yield := game.YieldOf(tile.Kind)
			if yield.Total() == 0 {
				continue
			}
			out = append(out, Option{
				Intent: game.CollectResources{ShipID: ship.ID, Target: c},
				ShipID: ship.ID,
				Label:  fmt.Sprintf("collect from the %s at %s", tile.Kind, c),
			})
		}
	}
	return out
}

func abilityOptions(g *game.State, p *game.Player, ship *game.Ship, enemies []*game.Ship) []Option {
	if game.CanUseAbility(ship, &p.Resources) != nil {
		return nil
	}
	a := ship.Ability

	switch {
	case a.Category == game.AbilityOffensive && a.SingleTarget:
		limit := float64(a.Range) * 1.5
		for _, e := range enemies {
			if ship.Position.DistanceTo(e.Position) <= limit {
				return []Option{{
					Intent: game.UseAbility{ShipID: ship.ID, TargetShipID: e.ID},
					ShipID: ship.ID,
					Label:  fmt.Sprintf("%s against %s", a.Name, e.ID),
				}}
			}
		}
		return nil

	case a.Category == game.AbilityOffensive:
		for _, e := range enemies {
			if ship.Position.DistanceTo(e.Position) <= float64(a.Range) {
				return []Option{{
					Intent: game.UseAbility{ShipID: ship.ID},
					ShipID: ship.ID,
					Label:  fmt.Sprintf("%s from %s", a.Name, ship.ID),
				}}
			}
		}
		// A volley into empty sea is legal but never worth offering.
		return nil

	default:
		return []Option{{
			Intent: game.UseAbility{ShipID: ship.ID},
			ShipID: ship.ID,
			Label:  fmt.Sprintf("%s on %s", a.Name, ship.ID),
		}}
	}
}

// buildOptions offers at most one build per ship class, spawning beside
// the first controlled port with open water next to it.
func buildOptions(g *game.State, p *game.Player) []Option {
	if len(p.LivingShips()) >= game.MaxShipsPerPlayer {
		return nil
	}
	spawn, ok := findSpawn(g, p)
	if !ok {
		return nil
	}
	var out []Option
	for _, t := range game.ShipTypes {
		if !p.Resources.CanAfford(t.BuildCost()) {
			continue
		}
		out = append(out, Option{
			Intent: game.BuildShip{ShipType: t, Spawn: spawn},
			Label:  fmt.Sprintf("build a %s at %s", t, spawn),
		})
	}
	return out
}

func findSpawn(g *game.State, p *game.Player) (grid.Coordinate, bool) {
	for _, c := range g.Map.OwnedCoordinates(p.ID) {
		if g.Map.At(c).Kind != game.TilePort {
			continue
		}
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := grid.Coordinate{X: c.X + dx, Y: c.Y + dy}
				tile := g.Map.At(n)
				if tile == nil || tile.Kind != game.TileWater || occupied(g, n) {
					continue
				}
				return n, true
			}
		}
	}
	return grid.Coordinate{}, false
}

func occupied(g *game.State, c grid.Coordinate) bool {
	for _, p := range g.Players {
		for _, s := range p.LivingShips() {
			if s.Position == c {
				return true
			}
		}
	}
	return false
}

// scanOptions offers one scan at the unrevealed tile nearest the map
// center, the richest part of the board.
func scanOptions(g *game.State, p *game.Player) []Option {
	if p.ScanCharges <= 0 {
		return nil
	}
	best := grid.Coordinate{X: -1, Y: -1}
	bestDist := -1.0
	for y := 0; y < g.Map.Size; y++ {
		for x := 0; x < g.Map.Size; x++ {
			c := grid.Coordinate{X: x, Y: y}
			if p.HasRevealed(c) {
				continue
			}
			d := c.CenterDistance(g.Map.Size)
			if bestDist < 0 || d < bestDist {
				best = c
				bestDist = d
			}
		}
	}
	if bestDist < 0 {
		return nil
	}
	return []Option{{
		Intent: game.ScanCoordinate{Target: best},
		Label:  fmt.Sprintf("scan %s", best),
	}}
}
