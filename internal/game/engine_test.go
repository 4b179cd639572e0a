package game

import (
	"errors"
	"fmt"
	"testing"

	"pir8/pkg/grid"
)

// Helper to build an active game on an all-water map so each test can
// place terrain and ships exactly where it needs them. Seats get the
// standard sloop+frigate starting fleet at their corner spawns.
func testGame(playerCount int) *State {
	g := &State{
		ID:             "test-game",
		Seed:           7,
		Status:         StatusActive,
		MaxPlayerCount: playerCount,
		Map:            blankMap(DefaultMapSize),
		TurnNumber:     1,
		Weather:        Weather{Kind: WeatherCalm, Duration: 2},
		Balance:        DefaultBalance(),
		RNGState:       7,
	}
	for i := 0; i < playerCount; i++ {
		id := fmt.Sprintf("p%d", i)
		p := NewPlayer(id, "Captain "+id, i, g.Balance.StartingResources)
		spawns := startingSpawns(i)
		p.addShip(ShipSloop, spawns[0])
		p.addShip(ShipFrigate, spawns[1])
		g.Players = append(g.Players, p)
	}
	return g
}

func blankMap(size int) *Map {
	m := &Map{Size: size, Tiles: make([][]Tile, size)}
	for y := range m.Tiles {
		m.Tiles[y] = make([]Tile, size)
	}
	return m
}

func at(x, y int) grid.Coordinate {
	return grid.Coordinate{X: x, Y: y}
}

func TestApplyMove_WithinAllowance(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(0, 0)

	err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(2, 1)})
	if err != nil {
		t.Fatalf("Expected move to succeed, got %v", err)
	}
	if sloop.Position != at(2, 1) {
		t.Errorf("Expected ship at (2,1), got %v", sloop.Position)
	}
	last := g.Events[len(g.Events)-1]
	if last.Type != EventShipMoved {
		t.Errorf("Expected a ship_moved event, got %s", last.Type)
	}
}

func TestApplyMove_BeyondAllowance(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(2, 1)

	err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(6, 6)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange, got %v", err)
	}
	var oor *OutOfRangeError
	if !errors.As(err, &oor) {
		t.Fatal("Expected structured OutOfRangeError")
	}
	if oor.Limit != 3 {
		t.Errorf("Expected limit 3 for a sloop in calm weather, got %.2f", oor.Limit)
	}
	if oor.Distance < 6.4 || oor.Distance > 6.41 {
		t.Errorf("Expected distance ~6.40, got %.2f", oor.Distance)
	}
	if sloop.Position != at(2, 1) {
		t.Errorf("Expected failed move to leave ship at (2,1), got %v", sloop.Position)
	}
}

func TestApplyMove_WeatherScalesAllowance(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(0, 0)
	g.Weather = Weather{Kind: WeatherStorm, Duration: 2}

	// Storm halves movement: sloop allowance 1.5, so distance 2 fails.
	err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(2, 0)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange in a storm, got %v", err)
	}
	if err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(1, 0)}); err != nil {
		t.Fatalf("Expected a one-tile move to succeed in a storm, got %v", err)
	}
}

func TestApplyMove_Immobilized(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(0, 0)
	sloop.AddEffect(Effect{Kind: EffectImmobile, Duration: 2})

	err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(1, 0)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange for an immobilized ship, got %v", err)
	}
	var oor *OutOfRangeError
	if errors.As(err, &oor) && oor.Limit != 0 {
		t.Errorf("Expected allowance 0 while immobilized, got %.2f", oor.Limit)
	}

	// Standing still is still a move: an immobilized ship must not be
	// able to stamp an action (and bank a speed bonus) by targeting
	// its own tile.
	before := len(g.Events)
	err = g.Apply("p0", Move{ShipID: sloop.ID, To: at(0, 0)})
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("Expected ErrOutOfRange for a zero-distance move while immobilized, got %v", err)
	}
	if len(g.Events) != before {
		t.Errorf("Expected no events from a rejected move, got %d new", len(g.Events)-before)
	}
	if sloop.LastActionTurn == g.TurnNumber {
		t.Error("Expected the rejected move to leave LastActionTurn unstamped")
	}
}

func TestApplyMove_DestroyedShip(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Health = 0

	if err := g.Apply("p0", Move{ShipID: sloop.ID, To: at(1, 1)}); !errors.Is(err, ErrDestroyed) {
		t.Errorf("Expected ErrDestroyed, got %v", err)
	}
	if err := g.Apply("p0", Move{ShipID: "no-such-ship", To: at(1, 1)}); !errors.Is(err, ErrShipNotFound) {
		t.Errorf("Expected ErrShipNotFound, got %v", err)
	}
	if err := g.Apply("p0", Move{ShipID: g.Players[0].Ships[1].ID, To: at(-1, 5)}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Expected ErrInvalidCoordinate, got %v", err)
	}
}

func TestApply_NotYourTurn(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[1].Ships[0]
	before := sloop.Position
	events := len(g.Events)

	err := g.Apply("p1", Move{ShipID: sloop.ID, To: at(7, 1)})
	if !errors.Is(err, ErrNotYourTurn) {
		t.Fatalf("Expected ErrNotYourTurn, got %v", err)
	}
	if sloop.Position != before {
		t.Error("Expected rejected intent to leave the ship where it was")
	}
	if len(g.Events) != events {
		t.Error("Expected rejected intent to append no events")
	}
	if g.Players[1].DecisionCount != 0 {
		t.Error("Expected rejected intent to record no decision")
	}
}

func TestApply_GameNotStarted(t *testing.T) {
	g := testGame(2)
	g.Status = StatusWaiting

	if err := g.Apply("p0", EndTurn{}); !errors.Is(err, ErrGameNotStarted) {
		t.Errorf("Expected ErrGameNotStarted, got %v", err)
	}
}

func TestApply_GameAlreadyCompleted(t *testing.T) {
	g := testGame(2)
	g.Status = StatusCompleted
	g.WinnerID = "p1"

	if err := g.Apply("p0", EndTurn{}); !errors.Is(err, ErrGameAlreadyCompleted) {
		t.Errorf("Expected ErrGameAlreadyCompleted, got %v", err)
	}
	if err := g.Join("p9", "Latecomer"); !errors.Is(err, ErrGameAlreadyCompleted) {
		t.Errorf("Expected join after completion to fail, got %v", err)
	}
}

func TestApplyAttack_AdjacentEnemy(t *testing.T) {
	g := testGame(2)
	frigate := g.Players[0].Ships[1]
	frigate.Position = at(5, 5)
	target := g.Players[1].Ships[0]
	target.Position = at(6, 5)

	err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: target.ID})
	if err != nil {
		t.Fatalf("Expected attack to succeed, got %v", err)
	}
	// Frigate attack 40 against sloop defense 10 in calm weather.
	if target.Health != 70 {
		t.Errorf("Expected target at 70 health, got %d", target.Health)
	}
	last := g.Events[len(g.Events)-1]
	if last.Type != EventShipAttacked || last.Amount != 30 {
		t.Errorf("Expected ship_attacked event for 30 damage, got %s amount %d", last.Type, last.Amount)
	}
}

func TestApplyAttack_StormBoostsDamage(t *testing.T) {
	g := testGame(2)
	g.Weather = Weather{Kind: WeatherStorm, Duration: 2}
	frigate := g.Players[0].Ships[1]
	frigate.Position = at(5, 5)
	target := g.Players[1].Ships[0]
	target.Position = at(6, 5)

	if err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: target.ID}); err != nil {
		t.Fatalf("Expected attack to succeed, got %v", err)
	}
	// 30 base damage scaled by the storm's 125 percent.
	if target.Health != 100-37 {
		t.Errorf("Expected 37 storm damage, target at %d", target.Health)
	}
}

func TestApplyAttack_DamageFloor(t *testing.T) {
	g := testGame(2)
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(5, 5)
	galleon := g.Players[1].addShip(ShipGalleon, at(6, 5))

	if err := g.Apply("p0", Attack{ShipID: sloop.ID, TargetShipID: galleon.ID}); err != nil {
		t.Fatalf("Expected attack to succeed, got %v", err)
	}
	// Sloop attack 20 against galleon defense 40 still chips one point.
	if galleon.Health != 349 {
		t.Errorf("Expected minimum damage of 1, galleon at %d", galleon.Health)
	}
}

func TestApplyAttack_ReachAndTargets(t *testing.T) {
	g := testGame(2)
	frigate := g.Players[0].Ships[1]
	frigate.Position = at(5, 5)
	far := g.Players[1].Ships[0]
	far.Position = at(7, 5)

	err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: far.ID})
	if !errors.Is(err, ErrTargetOutOfRange) {
		t.Fatalf("Expected ErrTargetOutOfRange at distance 2, got %v", err)
	}
	var tor *TargetOutOfRangeError
	if errors.As(err, &tor) && tor.Limit != 1.5 {
		t.Errorf("Expected basic attack reach 1.5, got %.2f", tor.Limit)
	}

	// Diagonal neighbors are inside the 1.5 reach.
	far.Position = at(6, 6)
	if err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: far.ID}); err != nil {
		t.Errorf("Expected diagonal attack to succeed, got %v", err)
	}

	if err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: "2-9"}); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected ErrTargetNotFound for unknown ship, got %v", err)
	}
	own := g.Players[0].Ships[0]
	own.Position = at(5, 6)
	if err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: own.ID}); !errors.Is(err, ErrTargetNotFound) {
		t.Errorf("Expected own ships to be invalid targets, got %v", err)
	}
}

func TestApplyAttack_DestructionEndsGameByFleetPower(t *testing.T) {
	g := testGame(2)
	frigate := g.Players[0].Ships[1]
	frigate.Position = at(5, 5)
	victim := g.Players[1].Ships[0]
	victim.Position = at(6, 5)
	victim.Health = 10
	g.Players[1].Ships[1].Health = 0

	if err := g.Apply("p0", Attack{ShipID: frigate.ID, TargetShipID: victim.ID}); err != nil {
		t.Fatalf("Expected attack to succeed, got %v", err)
	}
	if !victim.Destroyed() {
		t.Fatal("Expected the victim to be destroyed")
	}
	if g.Players[1].Active {
		t.Error("Expected a player with no ships left to be inactive")
	}
	if g.Status != StatusCompleted || g.Victory != VictoryFleet || g.WinnerID != "p0" {
		t.Errorf("Expected fleet victory for p0, got status=%v victory=%q winner=%q",
			g.Status, g.Victory, g.WinnerID)
	}
	sawSinking := false
	for _, e := range g.Events {
		if e.Type == EventShipDestroyed && e.ShipID == victim.ID {
			sawSinking = true
		}
	}
	if !sawSinking {
		t.Error("Expected a ship_destroyed event")
	}
}

func TestApplyClaim_TransfersOwnership(t *testing.T) {
	g := testGame(2)
	g.Map.At(at(2, 2)).Kind = TileIsland
	g.Map.At(at(2, 2)).Owner = "p1"
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(1, 1)

	if err := g.Apply("p0", ClaimTerritory{ShipID: sloop.ID, Target: at(2, 2)}); err != nil {
		t.Fatalf("Expected contested claim to succeed, got %v", err)
	}
	if owner := g.Map.At(at(2, 2)).Owner; owner != "p0" {
		t.Errorf("Expected tile owner p0, got %q", owner)
	}
}

func TestApplyClaim_Errors(t *testing.T) {
	g := testGame(2)
	g.Map.At(at(7, 7)).Kind = TileIsland
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(1, 1)

	if err := g.Apply("p0", ClaimTerritory{ShipID: sloop.ID, Target: at(1, 2)}); !errors.Is(err, ErrNotClaimable) {
		t.Errorf("Expected ErrNotClaimable for open water, got %v", err)
	}
	if err := g.Apply("p0", ClaimTerritory{ShipID: sloop.ID, Target: at(7, 7)}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange for a distant tile, got %v", err)
	}
	if err := g.Apply("p0", ClaimTerritory{ShipID: sloop.ID, Target: at(0, 12)}); !errors.Is(err, ErrInvalidCoordinate) {
		t.Errorf("Expected ErrInvalidCoordinate off the map, got %v", err)
	}
}

func TestApplyCollect_ScalesByShipAndWeather(t *testing.T) {
	g := testGame(2)
	g.Weather = Weather{Kind: WeatherTradeWinds, Duration: 3}
	port := at(4, 4)
	g.Map.At(port).Kind = TilePort
	g.Map.At(port).Owner = "p0"
	galleon := g.Players[0].addShip(ShipGalleon, at(4, 5))
	before := g.Players[0].Resources

	if err := g.Apply("p0", CollectResources{ShipID: galleon.ID, Target: port}); err != nil {
		t.Fatalf("Expected collect to succeed, got %v", err)
	}
	// Port yields 5 gold / 2 crew; galleon hauls 150 percent, trade
	// winds add 125 percent: gold 5->7->8, crew 2->3->3.
	if got := g.Players[0].Resources.Gold - before.Gold; got != 8 {
		t.Errorf("Expected 8 gold collected, got %d", got)
	}
	if got := g.Players[0].Resources.Crew - before.Crew; got != 3 {
		t.Errorf("Expected 3 crew collected, got %d", got)
	}
}

func TestApplyCollect_HoardMultiplierApplies(t *testing.T) {
	g := testGame(2)
	treasure := at(3, 3)
	g.Map.At(treasure).Kind = TileTreasure
	g.Map.At(treasure).Owner = "p0"
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(3, 4)
	before := g.Players[0].Resources.Gold

	if err := g.Apply("p0", CollectResources{ShipID: sloop.ID, Target: treasure}); err != nil {
		t.Fatalf("Expected collect to succeed, got %v", err)
	}
	// One treasure tile already grants the bronze hoard multiplier, so
	// the 10 gold base becomes 12.
	if got := g.Players[0].Resources.Gold - before; got != 12 {
		t.Errorf("Expected 12 gold with bronze hoard, got %d", got)
	}
}

func TestApplyCollect_Errors(t *testing.T) {
	g := testGame(2)
	island := at(5, 5)
	g.Map.At(island).Kind = TileIsland
	sloop := g.Players[0].Ships[0]
	sloop.Position = at(5, 6)

	if err := g.Apply("p0", CollectResources{ShipID: sloop.ID, Target: island}); !errors.Is(err, ErrTerritoryNotControlled) {
		t.Errorf("Expected ErrTerritoryNotControlled for an unclaimed tile, got %v", err)
	}

	g.Map.At(island).Owner = "p0"
	sloop.Position = at(1, 1)
	if err := g.Apply("p0", CollectResources{ShipID: sloop.ID, Target: island}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Expected ErrOutOfRange when the ship is far away, got %v", err)
	}
}

func TestApplyBuild_AtControlledPort(t *testing.T) {
	g := testGame(2)
	port := at(0, 4)
	g.Map.At(port).Kind = TilePort
	g.Map.At(port).Owner = "p0"
	spawn := at(1, 4)
	before := g.Players[0].Resources

	if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: spawn}); err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	built := g.Players[0].Ships[2]
	if built.Type != ShipSloop || built.Position != spawn {
		t.Errorf("Expected a sloop at %v, got %v at %v", spawn, built.Type, built.Position)
	}
	cost := ShipSloop.BuildCost()
	if g.Players[0].Resources.Gold != before.Gold-cost.Gold {
		t.Errorf("Expected gold %d, got %d", before.Gold-cost.Gold, g.Players[0].Resources.Gold)
	}
	if g.Players[0].Resources.Wood != before.Wood-cost.Wood {
		t.Errorf("Expected wood %d, got %d", before.Wood-cost.Wood, g.Players[0].Resources.Wood)
	}
}

func TestApplyBuild_HarborGuildDiscount(t *testing.T) {
	g := testGame(2)
	for _, c := range []grid.Coordinate{at(0, 4), at(0, 6)} {
		g.Map.At(c).Kind = TilePort
		g.Map.At(c).Owner = "p0"
	}
	before := g.Players[0].Resources

	if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: at(1, 4)}); err != nil {
		t.Fatalf("Expected build to succeed, got %v", err)
	}
	// Two ports earn the bronze 5 percent discount: 500 gold -> 475.
	if got := before.Gold - g.Players[0].Resources.Gold; got != 475 {
		t.Errorf("Expected discounted cost of 475 gold, got %d", got)
	}
}

func TestApplyBuild_Errors(t *testing.T) {
	g := testGame(2)
	port := at(0, 4)
	g.Map.At(port).Kind = TilePort
	g.Map.At(port).Owner = "p0"
	spawn := at(1, 4)

	t.Run("no controlled port", func(t *testing.T) {
		g := testGame(2)
		if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: at(5, 5)}); !errors.Is(err, ErrNoControlledPort) {
			t.Errorf("Expected ErrNoControlledPort, got %v", err)
		}
	})

	t.Run("occupied spawn", func(t *testing.T) {
		g.Players[1].Ships[0].Position = spawn
		if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: spawn}); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Expected ErrInvalidCoordinate for occupied water, got %v", err)
		}
		g.Players[1].Ships[0].Position = at(8, 1)
	})

	t.Run("land spawn", func(t *testing.T) {
		if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: port}); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Expected ErrInvalidCoordinate for a land spawn, got %v", err)
		}
	})

	t.Run("insufficient resources", func(t *testing.T) {
		g.Players[0].Resources.Gold = 10
		err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: spawn})
		if !errors.Is(err, ErrInsufficientResources) {
			t.Fatalf("Expected ErrInsufficientResources, got %v", err)
		}
		var ire *InsufficientResourcesError
		if !errors.As(err, &ire) || ire.Resource != ResourceGold || ire.Have != 10 {
			t.Errorf("Expected gold shortfall detail, got %+v", ire)
		}
		if g.Players[0].Resources.Gold != 10 {
			t.Error("Expected failed build to spend nothing")
		}
		g.Players[0].Resources.Gold = 5000
	})

	t.Run("fleet limit", func(t *testing.T) {
		for len(g.Players[0].LivingShips()) < MaxShipsPerPlayer {
			g.Players[0].addShip(ShipSloop, at(9, 9))
		}
		if err := g.Apply("p0", BuildShip{ShipType: ShipSloop, Spawn: spawn}); !errors.Is(err, ErrFleetLimitReached) {
			t.Errorf("Expected ErrFleetLimitReached, got %v", err)
		}
	})
}

func TestApplyScan_RevealsAndSpendsCharge(t *testing.T) {
	g := testGame(2)
	g.Map.At(at(5, 5)).Kind = TileTreasure

	if err := g.Apply("p0", ScanCoordinate{Target: at(5, 5)}); err != nil {
		t.Fatalf("Expected scan to succeed, got %v", err)
	}
	p := g.Players[0]
	if p.ScanCharges != 2 {
		t.Errorf("Expected 2 charges left, got %d", p.ScanCharges)
	}
	if !p.HasRevealed(at(5, 5)) {
		t.Error("Expected the scanned tile to be revealed")
	}
	last := g.Events[len(g.Events)-1]
	if last.Type != EventCoordinateScanned {
		t.Fatalf("Expected coordinate_scanned event, got %s", last.Type)
	}
	// The public log must not leak what the scan found.
	if last.Note != "" {
		t.Errorf("Expected scan event to omit terrain, got note %q", last.Note)
	}
}

func TestApplyScan_WithoutCharges(t *testing.T) {
	g := testGame(2)
	p := g.Players[0]
	p.ScanCharges = 0
	events := len(g.Events)

	err := g.Apply("p0", ScanCoordinate{Target: at(5, 5)})
	if !errors.Is(err, ErrNoScanChargesRemaining) {
		t.Fatalf("Expected ErrNoScanChargesRemaining, got %v", err)
	}
	if len(p.Revealed) != 0 {
		t.Error("Expected no tiles revealed")
	}
	if len(g.Events) != events {
		t.Error("Expected no events from a rejected scan")
	}
}

func TestApplyEndTurn_TicksOwnFleetOnly(t *testing.T) {
	g := testGame(2)
	mine := g.Players[0].Ships[1]
	mine.Ability.Remaining = 2
	mine.AddEffect(Effect{Kind: EffectAttackBuff, Percent: 150, Duration: 2})
	theirs := g.Players[1].Ships[1]
	theirs.Ability.Remaining = 2
	theirs.AddEffect(Effect{Kind: EffectDefenseBuff, Percent: 150, Duration: 2})

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatalf("Expected end turn to succeed, got %v", err)
	}
	if mine.Ability.Remaining != 1 {
		t.Errorf("Expected own cooldown ticked to 1, got %d", mine.Ability.Remaining)
	}
	if mine.Effects[0].Duration != 1 {
		t.Errorf("Expected own effect ticked to 1, got %d", mine.Effects[0].Duration)
	}
	if theirs.Ability.Remaining != 2 || theirs.Effects[0].Duration != 2 {
		t.Error("Expected the other player's fleet untouched")
	}
	if g.CurrentPlayerIndex != 1 {
		t.Errorf("Expected turn to pass to player 1, got %d", g.CurrentPlayerIndex)
	}
	if g.TurnNumber != 1 {
		t.Errorf("Expected turn number unchanged mid-cycle, got %d", g.TurnNumber)
	}
}

func TestApplyEndTurn_WrapAdvancesTurnAndWeather(t *testing.T) {
	g := testGame(2)

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if err := g.Apply("p1", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.TurnNumber != 2 {
		t.Errorf("Expected turn 2 after a full cycle, got %d", g.TurnNumber)
	}
	if g.Weather.Duration != 1 {
		t.Errorf("Expected weather spell aged to 1, got %d", g.Weather.Duration)
	}

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if err := g.Apply("p1", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	// The calm spell expired, so a fresh spell was rolled.
	if g.Weather.Duration != g.Weather.Kind.BaseDuration() {
		t.Errorf("Expected a fresh spell, got kind=%v duration=%d", g.Weather.Kind, g.Weather.Duration)
	}
	sawChange := false
	for _, e := range g.Events {
		if e.Type == EventWeatherChanged {
			sawChange = true
		}
	}
	if !sawChange {
		t.Error("Expected a weather_changed event after the spell expired")
	}
}

func TestApplyEndTurn_DeterministicWeatherSequence(t *testing.T) {
	run := func() []WeatherKind {
		g := testGame(2)
		var kinds []WeatherKind
		for i := 0; i < 12; i++ {
			if err := g.Apply("p0", EndTurn{}); err != nil {
				t.Fatal(err)
			}
			if err := g.Apply("p1", EndTurn{}); err != nil {
				t.Fatal(err)
			}
			kinds = append(kinds, g.Weather.Kind)
		}
		return kinds
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Expected identical weather sequences, diverged at cycle %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestApplyEndTurn_SupplyLineTrickle(t *testing.T) {
	g := testGame(2)
	for _, c := range []grid.Coordinate{at(0, 3), at(0, 5)} {
		g.Map.At(c).Kind = TileIsland
		g.Map.At(c).Owner = "p0"
	}
	before := g.Players[0].Resources

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	// Two islands earn the bronze supply line: +2 supplies, +1 wood.
	if got := g.Players[0].Resources.Supplies - before.Supplies; got != 2 {
		t.Errorf("Expected +2 supplies, got %+d", got)
	}
	if got := g.Players[0].Resources.Wood - before.Wood; got != 1 {
		t.Errorf("Expected +1 wood, got %+d", got)
	}
}

func TestApplyEndTurn_TradeEmpireExtraTicks(t *testing.T) {
	g := testGame(2)
	kinds := map[grid.Coordinate]TileKind{
		at(0, 3): TileIsland,
		at(0, 5): TilePort,
		at(0, 7): TileTreasure,
	}
	for c, k := range kinds {
		g.Map.At(c).Kind = k
		g.Map.At(c).Owner = "p0"
	}
	frigate := g.Players[0].Ships[1]
	frigate.Ability.Remaining = 3

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	// One of each kind earns bronze trade empire: one extra tick.
	if frigate.Ability.Remaining != 1 {
		t.Errorf("Expected cooldown 1 after a double tick, got %d", frigate.Ability.Remaining)
	}
}

func TestApplyEndTurn_SkipsEliminatedPlayers(t *testing.T) {
	g := testGame(3)
	for _, s := range g.Players[1].Ships {
		s.Health = 0
	}
	g.Players[1].Active = false

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.CurrentPlayerIndex != 2 {
		t.Fatalf("Expected the turn to skip to player 2, got %d", g.CurrentPlayerIndex)
	}
	if g.TurnNumber != 1 {
		t.Errorf("Expected no cycle yet, turn is %d", g.TurnNumber)
	}

	if err := g.Apply("p2", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.CurrentPlayerIndex != 0 {
		t.Fatalf("Expected wrap to player 0, got %d", g.CurrentPlayerIndex)
	}
	if g.TurnNumber != 2 {
		t.Errorf("Expected turn 2 after the wrap, got %d", g.TurnNumber)
	}
}

func TestApply_SpeedBonusTiers(t *testing.T) {
	cases := []struct {
		ms    int64
		bonus int
	}{
		{3000, 100},
		{7000, 50},
		{12000, 25},
		{20000, 0},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%dms", tc.ms), func(t *testing.T) {
			g := testGame(2)
			sloop := g.Players[0].Ships[0]
			err := g.Apply("p0", Move{
				Timing: Timing{DecisionTimeMs: tc.ms},
				ShipID: sloop.ID,
				To:     sloop.Position,
			})
			if err != nil {
				t.Fatal(err)
			}
			if g.Players[0].Score != tc.bonus {
				t.Errorf("Expected bonus %d for %dms, got score %d", tc.bonus, tc.ms, g.Players[0].Score)
			}
		})
	}
}

func TestVictory_EconomicTieGoesToLowerIndex(t *testing.T) {
	g := testGame(2)
	g.Players[0].Resources.Gold = 20000
	g.Players[1].Resources.Gold = 20000

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusCompleted {
		t.Fatal("Expected the game to complete")
	}
	if g.WinnerID != "p0" || g.Victory != VictoryEconomic {
		t.Errorf("Expected economic win for the lower seat, got winner=%q victory=%q", g.WinnerID, g.Victory)
	}
}

func TestVictory_TerritoryOutranksEconomic(t *testing.T) {
	g := testGame(2)
	// Five claimable tiles; p1 holds three of them, exactly 60 percent.
	tiles := []grid.Coordinate{at(0, 9), at(2, 9), at(4, 9), at(6, 9), at(8, 9)}
	for i, c := range tiles {
		g.Map.At(c).Kind = TileIsland
		if i < 3 {
			g.Map.At(c).Owner = "p1"
		}
	}
	g.Players[0].Resources.Gold = 20000

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.WinnerID != "p1" || g.Victory != VictoryTerritory {
		t.Errorf("Expected territory to outrank the economic condition, got winner=%q victory=%q",
			g.WinnerID, g.Victory)
	}
	last := g.Events[len(g.Events)-1]
	if last.Type != EventGameCompleted {
		t.Errorf("Expected game_completed as the final event, got %s", last.Type)
	}
}

func TestVictory_TerritoryRequiresThreshold(t *testing.T) {
	g := testGame(2)
	tiles := []grid.Coordinate{at(0, 9), at(2, 9), at(4, 9), at(6, 9), at(8, 9)}
	for i, c := range tiles {
		g.Map.At(c).Kind = TileIsland
		if i < 2 {
			g.Map.At(c).Owner = "p1"
		}
	}

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusActive {
		t.Errorf("Expected 40 percent control not to win, status is %v", g.Status)
	}
}

func TestActivateShield(t *testing.T) {
	g := testGame(2)

	// A shield is a host call, not a turn action, so the waiting player
	// can raise one during the opponent's turn.
	if err := g.ActivateShield("p1"); err != nil {
		t.Fatalf("Expected shield activation to succeed, got %v", err)
	}
	p := g.Players[1]
	if p.ShieldCharges != 2 || p.ShieldTurns != ShieldDuration {
		t.Errorf("Expected 2 charges and %d shield turns, got %d and %d",
			ShieldDuration, p.ShieldCharges, p.ShieldTurns)
	}
	if !p.Shielded() {
		t.Error("Expected the player to read as shielded")
	}

	p.ShieldCharges = 0
	if err := g.ActivateShield("p1"); !errors.Is(err, ErrNoShieldCharges) {
		t.Errorf("Expected ErrNoShieldCharges, got %v", err)
	}
	if err := g.ActivateShield("ghost"); !errors.Is(err, ErrPlayerNotInGame) {
		t.Errorf("Expected ErrPlayerNotInGame, got %v", err)
	}
}

func TestShield_ExpiresOnOwnEndTurns(t *testing.T) {
	g := testGame(2)
	if err := g.ActivateShield("p0"); err != nil {
		t.Fatal(err)
	}

	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.Players[0].ShieldTurns != 1 {
		t.Errorf("Expected shield at 1 turn after own end turn, got %d", g.Players[0].ShieldTurns)
	}
	if err := g.Apply("p1", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.Players[0].ShieldTurns != 1 {
		t.Error("Expected opponent's end turn not to age the shield")
	}
	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if g.Players[0].Shielded() {
		t.Error("Expected the shield to have expired")
	}
}

func TestResources_NeverNegativeAfterFailures(t *testing.T) {
	g := testGame(2)
	p := g.Players[0]
	p.Resources = Resources{Gold: 3, Crew: 1, Cannons: 2, Supplies: 4, Wood: 1, Rum: 0}
	saved := p.Resources

	intents := []Intent{
		BuildShip{ShipType: ShipGalleon, Spawn: at(5, 5)},
		UseAbility{ShipID: p.Ships[1].ID},
	}
	for _, it := range intents {
		if err := g.Apply("p0", it); err == nil {
			t.Fatalf("Expected %s to fail", it.Kind())
		}
	}
	if p.Resources != saved {
		t.Errorf("Expected resources untouched after failures, got %+v", p.Resources)
	}
	for _, k := range resourceOrder {
		if p.Resources.Get(k) < 0 {
			t.Errorf("Resource %v went negative", k)
		}
	}
}

func TestInitializeAndJoin_Lifecycle(t *testing.T) {
	g := Initialize(42, 4)
	if g.Status != StatusWaiting {
		t.Fatalf("Expected a fresh game to be waiting, got %v", g.Status)
	}
	if g.Map == nil || g.Map.Size != DefaultMapSize {
		t.Fatal("Expected a generated default-size map")
	}
	if len(g.Events) == 0 || g.Events[0].Type != EventGameCreated {
		t.Error("Expected a game_created event first")
	}

	if err := g.Join("alice", "Alice"); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusWaiting {
		t.Error("Expected one player not to start the game")
	}
	if err := g.Join("alice", "Alice again"); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("Expected ErrAlreadyJoined, got %v", err)
	}

	if err := g.Join("bob", "Bob"); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusActive {
		t.Error("Expected the game to start at two players")
	}
	if g.CurrentPlayerIndex != 0 {
		t.Errorf("Expected the first seat to open, got index %d", g.CurrentPlayerIndex)
	}

	// Late joiners are admitted until the table is full.
	if err := g.Join("carol", "Carol"); err != nil {
		t.Fatal(err)
	}
	if err := g.Join("dave", "Dave"); err != nil {
		t.Fatal(err)
	}
	if err := g.Join("eve", "Eve"); !errors.Is(err, ErrGameFull) {
		t.Errorf("Expected ErrGameFull, got %v", err)
	}

	for i, p := range g.Players {
		if len(p.Ships) != 2 {
			t.Fatalf("Expected seat %d to hold two ships, got %d", i, len(p.Ships))
		}
		spawns := startingSpawns(i)
		if p.Ships[0].Type != ShipSloop || p.Ships[0].Position != spawns[0] {
			t.Errorf("Seat %d: expected a sloop at %v, got %v at %v", i, spawns[0], p.Ships[0].Type, p.Ships[0].Position)
		}
		if p.Ships[1].Type != ShipFrigate || p.Ships[1].Position != spawns[1] {
			t.Errorf("Seat %d: expected a frigate at %v, got %v at %v", i, spawns[1], p.Ships[1].Type, p.Ships[1].Position)
		}
		if p.ScanCharges != StartingScanCharges || p.ShieldCharges != StartingShieldCharges {
			t.Errorf("Seat %d: expected full scan and shield charges", i)
		}
	}
}

func TestInitialize_ClampsPlayerCount(t *testing.T) {
	if g := Initialize(1, 0); g.MaxPlayerCount != MinPlayers {
		t.Errorf("Expected clamp up to %d, got %d", MinPlayers, g.MaxPlayerCount)
	}
	if g := Initialize(1, 9); g.MaxPlayerCount != MaxPlayers {
		t.Errorf("Expected clamp down to %d, got %d", MaxPlayers, g.MaxPlayerCount)
	}
}

func TestInitialize_SameSeedSameMap(t *testing.T) {
	a := Initialize(99, 2)
	b := Initialize(99, 2)
	for y := 0; y < a.Map.Size; y++ {
		for x := 0; x < a.Map.Size; x++ {
			if a.Map.Tiles[y][x].Kind != b.Map.Tiles[y][x].Kind {
				t.Fatalf("Maps diverged at (%d,%d)", x, y)
			}
		}
	}
	if a.ID == b.ID {
		t.Error("Expected distinct game ids")
	}
}
