package ai

import (
	"errors"
	"fmt"
	"testing"

	"pir8/internal/game"
	"pir8/pkg/grid"
)

// Helper to build an active two-player game on an all-water board with
// the standard starting fleets, so tests place terrain and ships by
// hand.
func testState() *game.State {
	size := game.DefaultMapSize
	m := &game.Map{Size: size, Tiles: make([][]game.Tile, size)}
	for y := range m.Tiles {
		m.Tiles[y] = make([]game.Tile, size)
	}
	g := &game.State{
		ID:             "ai-test",
		Seed:           11,
		Status:         game.StatusActive,
		MaxPlayerCount: 2,
		Map:            m,
		TurnNumber:     1,
		Weather:        game.Weather{Kind: game.WeatherCalm, Duration: 2},
		Balance:        game.DefaultBalance(),
		RNGState:       11,
	}
	for i := 0; i < 2; i++ {
		p := game.NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Captain %d", i), i, g.Balance.StartingResources)
		p.Ships = append(p.Ships,
			game.NewShip(i, 0, game.ShipSloop, grid.Coordinate{X: 1 + i*7, Y: 1}),
			game.NewShip(i, 1, game.ShipFrigate, grid.Coordinate{X: 2 + i*7, Y: 1}),
		)
		g.Players = append(g.Players, p)
	}
	return g
}

func at(x, y int) grid.Coordinate {
	return grid.Coordinate{X: x, Y: y}
}

func TestDecide_Deterministic(t *testing.T) {
	build := func() *game.State {
		g := testState()
		g.Players[1].Ships[0].Position = at(2, 2)
		g.Map.At(at(0, 1)).Kind = game.TileIsland
		return g
	}

	first, err := Decide(build(), "p0", Corsair)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Decide(build(), "p0", Corsair)
	if err != nil {
		t.Fatal(err)
	}
	if first.Intent != second.Intent {
		t.Errorf("Expected identical decisions from identical states, got %v then %v",
			first.Intent, second.Intent)
	}
	if len(first.Options) != len(second.Options) {
		t.Error("Expected identical option lists")
	}
	for i := range first.Options {
		if first.Options[i].Score != second.Options[i].Score {
			t.Errorf("Option %d scored differently across runs", i)
		}
	}
}

func TestDecide_ProfilesDivergeOnTemperament(t *testing.T) {
	build := func() *game.State {
		g := testState()
		// The frigate has an adjacent enemy sloop and an owned treasure
		// tile in reach at the same time.
		g.Players[0].Ships[1].Position = at(5, 5)
		g.Players[1].Ships[0].Position = at(6, 5)
		g.Players[1].Ships[1].Position = at(9, 9)
		treasure := at(4, 5)
		g.Map.At(treasure).Kind = game.TileTreasure
		g.Map.At(treasure).Owner = "p0"
		return g
	}

	hot, err := Decide(build(), "p0", DreadPirate)
	if err != nil {
		t.Fatal(err)
	}
	if hot.Intent.Kind() != game.IntentAttack && hot.Intent.Kind() != game.IntentUseAbility {
		t.Errorf("Expected the dread pirate to go for blood, got %v", hot.Intent.Kind())
	}

	calm, err := Decide(build(), "p0", Deckhand)
	if err != nil {
		t.Fatal(err)
	}
	if calm.Intent.Kind() != game.IntentCollectResources {
		t.Errorf("Expected the deckhand to collect instead, got %v", calm.Intent.Kind())
	}
}

func TestDecide_PrefersFinishingBlow(t *testing.T) {
	g := testState()
	frigate := g.Players[0].Ships[1]
	frigate.Position = at(5, 5)
	frigate.Ability.Remaining = 3
	dying := g.Players[1].Ships[0]
	dying.Position = at(6, 5)
	dying.Health = 5
	healthy := g.Players[1].Ships[1]
	healthy.Position = at(4, 5)

	d, err := Decide(g, "p0", DreadPirate)
	if err != nil {
		t.Fatal(err)
	}
	attack, ok := d.Intent.(game.Attack)
	if !ok {
		t.Fatalf("Expected an attack, got %v", d.Intent.Kind())
	}
	if attack.TargetShipID != dying.ID {
		t.Errorf("Expected the finishing blow on %s, got %s", dying.ID, attack.TargetShipID)
	}
}

func TestEnumerateOptions_PassIsAlwaysLast(t *testing.T) {
	g := testState()
	opts := EnumerateOptions(g, "p0")
	if len(opts) == 0 {
		t.Fatal("Expected a non-empty option list")
	}
	last := opts[len(opts)-1]
	if last.Intent.Kind() != game.IntentEndTurn {
		t.Errorf("Expected the pass fallback last, got %v", last.Intent.Kind())
	}

	// Even a wiped-out fleet still has the fallback.
	for _, s := range g.Players[0].Ships {
		s.Health = 0
	}
	g.Players[0].ScanCharges = 0
	opts = EnumerateOptions(g, "p0")
	if len(opts) != 1 || opts[0].Intent.Kind() != game.IntentEndTurn {
		t.Errorf("Expected only the pass option for a dead fleet, got %d options", len(opts))
	}
}

func TestEnumerateOptions_ShipIdOrder(t *testing.T) {
	g := testState()
	g.Players[1].Ships[0].Position = at(2, 2)

	opts := EnumerateOptions(g, "p0")
	seen := ""
	for _, o := range opts {
		if o.ShipID == "" {
			continue
		}
		if o.ShipID < seen {
			t.Fatalf("Ship-scoped options out of order: %s after %s", o.ShipID, seen)
		}
		seen = o.ShipID
	}
}

func TestEnumerateOptions_ShieldedFleetsInvisible(t *testing.T) {
	g := testState()
	g.Players[0].Ships[1].Position = at(5, 5)
	g.Players[1].Ships[0].Position = at(6, 5)

	// Combat options for the frigate: plain attacks anywhere, plus its
	// offensive broadside. The sloop's utility ability needs no target
	// and is not counted.
	countCombat := func() int {
		n := 0
		for _, o := range EnumerateOptions(g, "p0") {
			switch o.Intent.Kind() {
			case game.IntentAttack:
				n++
			case game.IntentUseAbility:
				if o.ShipID == g.Players[0].Ships[1].ID {
					n++
				}
			}
		}
		return n
	}

	if countCombat() == 0 {
		t.Fatal("Expected combat options against an unshielded enemy")
	}
	g.Players[1].ShieldTurns = 2
	if countCombat() != 0 {
		t.Error("Expected no combat options against a shielded fleet")
	}
}

func TestDecide_TurnAndStatusGuards(t *testing.T) {
	g := testState()

	if _, err := Decide(g, "p1", Corsair); !errors.Is(err, game.ErrNotYourTurn) {
		t.Errorf("Expected ErrNotYourTurn for the waiting player, got %v", err)
	}
	g.Status = game.StatusWaiting
	if _, err := Decide(g, "p0", Corsair); !errors.Is(err, game.ErrGameNotStarted) {
		t.Errorf("Expected ErrGameNotStarted, got %v", err)
	}
	g.Status = game.StatusCompleted
	if _, err := Decide(g, "p0", Corsair); !errors.Is(err, game.ErrGameAlreadyCompleted) {
		t.Errorf("Expected ErrGameAlreadyCompleted, got %v", err)
	}
}

func TestDecide_RankedListMatchesChoice(t *testing.T) {
	g := testState()
	g.Players[1].Ships[0].Position = at(2, 2)

	d, err := Decide(g, "p0", Captain)
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Options) == 0 {
		t.Fatal("Expected the ranked option list to be exposed")
	}
	if d.Options[0].Intent != d.Intent {
		t.Error("Expected the top-ranked option to be the chosen intent")
	}
	for i := 1; i < len(d.Options); i++ {
		if d.Options[i].Score > d.Options[i-1].Score {
			t.Fatalf("Ranking not descending at position %d", i)
		}
	}
	if d.Justification == "" {
		t.Error("Expected a justification string")
	}
}

func TestProfileByName(t *testing.T) {
	if p, ok := ProfileByName("dreadpirate"); !ok || p != DreadPirate {
		t.Errorf("Expected the dread pirate preset, got %+v ok=%v", p, ok)
	}
	if p, ok := ProfileByName("Corsair"); !ok || p != Corsair {
		t.Errorf("Expected the corsair preset, got %+v ok=%v", p, ok)
	}
	if _, ok := ProfileByName("landlubber"); ok {
		t.Error("Expected unknown names to miss")
	}
}
