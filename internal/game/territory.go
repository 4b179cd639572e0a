package game

import "pir8/pkg/grid"

// YieldOf returns the base resource yield of one terrain kind. Pure
// lookup; non-productive terrain yields nothing.
func YieldOf(kind TileKind) Resources {
	switch kind {
	case TileIsland:
		return Resources{Supplies: 3, Wood: 1}
	case TilePort:
		return Resources{Gold: 5, Crew: 2}
	case TileTreasure:
		return Resources{Gold: 10, Rum: 1}
	default:
		return Resources{}
	}
}

// claimTile reassigns ownership of a claimable tile to the player. The
// claiming ship must be on or beside the tile. Claims against another
// player's tile always succeed; ownership simply transfers.
func (g *State) claimTile(player *Player, ship *Ship, target grid.Coordinate) error {
	tile := g.Map.At(target)
	if tile == nil {
		return ErrInvalidCoordinate
	}
	if !tile.Kind.Claimable() {
		return ErrNotClaimable
	}
	if !ship.Position.Touches(target) {
		return &OutOfRangeError{
			Distance: ship.Position.DistanceTo(target),
			Limit:    1,
		}
	}
	tile.Owner = player.ID
	return nil
}

// BonusTier is a territory-control reward level.
type BonusTier int

const (
	TierBronze BonusTier = iota
	TierSilver
	TierGold
	TierLegendary
)

// String returns the tier name.
func (t BonusTier) String() string {
	switch t {
	case TierBronze:
		return "Bronze"
	case TierSilver:
		return "Silver"
	case TierGold:
		return "Gold"
	case TierLegendary:
		return "Legendary"
	default:
		return "Unknown"
	}
}

// BonusFamily groups tiles whose control is rewarded together.
type BonusFamily int

const (
	FamilySupplyLine  BonusFamily = iota // islands
	FamilyHarborGuild                    // ports
	FamilyHoard                          // treasure
	FamilyTradeEmpire                    // one of each kind
)

// bonusFamilies fixes evaluation order for determinism.
var bonusFamilies = []BonusFamily{FamilySupplyLine, FamilyHarborGuild, FamilyHoard, FamilyTradeEmpire}

// String returns the family name.
func (f BonusFamily) String() string {
	switch f {
	case FamilySupplyLine:
		return "Supply Line"
	case FamilyHarborGuild:
		return "Harbor Guild"
	case FamilyHoard:
		return "Hoard"
	case FamilyTradeEmpire:
		return "Trade Empire"
	default:
		return "Unknown"
	}
}

// BonusKind is what a territory bonus modifies.
type BonusKind int

const (
	BonusResourceTrickle BonusKind = iota
	BonusCostReduction
	BonusYieldMultiplier
	BonusExtraAction
)

// Bonus is one awarded territory-control reward. Exactly one of the
// magnitude fields is meaningful, selected by Kind.
type Bonus struct {
	Family     BonusFamily `json:"family"`
	Tier       BonusTier   `json:"tier"`
	Kind       BonusKind   `json:"kind"`
	Trickle    Resources   `json:"trickle,omitempty"`
	Percent    int         `json:"percent,omitempty"`
	ExtraTicks int         `json:"extraTicks,omitempty"`
}

// familyThresholds returns the tile counts needed for each tier,
// bronze first.
func familyThresholds(f BonusFamily) [4]int {
	switch f {
	case FamilySupplyLine:
		return [4]int{2, 4, 6, 8}
	case FamilyHarborGuild:
		return [4]int{2, 3, 4, 5}
	default:
		return [4]int{1, 2, 3, 4}
	}
}

// familyCount returns how many qualifying tiles the player controls for
// a family. Trade Empire counts the weakest leg of a diversified hold.
func (g *State) familyCount(playerID string, f BonusFamily) int {
	switch f {
	case FamilySupplyLine:
		return g.Map.OwnedKindCount(playerID, TileIsland)
	case FamilyHarborGuild:
		return g.Map.OwnedKindCount(playerID, TilePort)
	case FamilyHoard:
		return g.Map.OwnedKindCount(playerID, TileTreasure)
	case FamilyTradeEmpire:
		islands := g.Map.OwnedKindCount(playerID, TileIsland)
		ports := g.Map.OwnedKindCount(playerID, TilePort)
		treasure := g.Map.OwnedKindCount(playerID, TileTreasure)
		min := islands
		if ports < min {
			min = ports
		}
		if treasure < min {
			min = treasure
		}
		return min
	default:
		return 0
	}
}

// bonusAt builds the awarded bonus for a family at a tier.
func bonusAt(f BonusFamily, tier BonusTier) Bonus {
	b := Bonus{Family: f, Tier: tier}
	switch f {
	case FamilySupplyLine:
		b.Kind = BonusResourceTrickle
		supplies := [4]int{2, 4, 7, 12}
		wood := [4]int{1, 2, 4, 6}
		b.Trickle = Resources{Supplies: supplies[tier], Wood: wood[tier]}
	case FamilyHarborGuild:
		b.Kind = BonusCostReduction
		percent := [4]int{5, 10, 15, 25}
		b.Percent = percent[tier]
	case FamilyHoard:
		b.Kind = BonusYieldMultiplier
		percent := [4]int{125, 150, 175, 200}
		b.Percent = percent[tier]
	case FamilyTradeEmpire:
		b.Kind = BonusExtraAction
		ticks := [4]int{1, 1, 2, 2}
		b.ExtraTicks = ticks[tier]
	}
	return b
}

// ActiveBonuses returns one bonus per family at the highest tier the
// player has reached. Counts landing exactly on a threshold award that
// tier. Pure; never mutates state.
func (g *State) ActiveBonuses(playerID string) []Bonus {
	var out []Bonus
	for _, f := range bonusFamilies {
		count := g.familyCount(playerID, f)
		thresholds := familyThresholds(f)
		awarded := -1
		for tier := 0; tier < 4; tier++ {
			if count >= thresholds[tier] {
				awarded = tier
			}
		}
		if awarded >= 0 {
			out = append(out, bonusAt(f, BonusTier(awarded)))
		}
	}
	return out
}

// NextBonusProgress reports the bonus the player is closest to earning:
// the target bonus, the fraction of the required tiles already held, and
// how many more are needed. ok is false when every family is maxed out.
// Forecasting only; never mutates state.
func (g *State) NextBonusProgress(playerID string) (next Bonus, fraction float64, remaining int, ok bool) {
	bestFraction := -1.0
	for _, f := range bonusFamilies {
		count := g.familyCount(playerID, f)
		thresholds := familyThresholds(f)
		for tier := 0; tier < 4; tier++ {
			if count >= thresholds[tier] {
				continue
			}
			frac := float64(count) / float64(thresholds[tier])
			if frac > bestFraction {
				bestFraction = frac
				next = bonusAt(f, BonusTier(tier))
				fraction = frac
				remaining = thresholds[tier] - count
				ok = true
			}
			break
		}
	}
	return next, fraction, remaining, ok
}

// costReductionPercent returns the player's Harbor Guild discount.
func (g *State) costReductionPercent(playerID string) int {
	for _, b := range g.ActiveBonuses(playerID) {
		if b.Kind == BonusCostReduction {
			return b.Percent
		}
	}
	return 0
}

// yieldMultiplierPercent returns the player's Hoard collection
// multiplier, 100 when unearned.
func (g *State) yieldMultiplierPercent(playerID string) int {
	for _, b := range g.ActiveBonuses(playerID) {
		if b.Kind == BonusYieldMultiplier {
			return b.Percent
		}
	}
	return 100
}

// discountCost applies a percentage discount per cost line, rounding
// down but never reducing a nonzero line below one.
func discountCost(cost Resources, percent int) Resources {
	if percent <= 0 {
		return cost
	}
	apply := func(v int) int {
		if v == 0 {
			return 0
		}
		d := v * (100 - percent) / 100
		if d < 1 {
			d = 1
		}
		return d
	}
	return Resources{
		Gold:     apply(cost.Gold),
		Crew:     apply(cost.Crew),
		Cannons:  apply(cost.Cannons),
		Supplies: apply(cost.Supplies),
		Wood:     apply(cost.Wood),
		Rum:      apply(cost.Rum),
	}
}
