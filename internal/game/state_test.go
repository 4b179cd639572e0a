package game

import (
	"encoding/json"
	"testing"
)

func TestState_JSONRoundTrip(t *testing.T) {
	g := testGame(2)
	g.Map.At(at(3, 3)).Kind = TileIsland
	g.Map.At(at(3, 3)).Owner = "p0"
	if err := g.Apply("p0", Move{ShipID: "0-0", To: at(2, 2)}); err != nil {
		t.Fatal(err)
	}
	if err := g.Apply("p0", ScanCoordinate{Target: at(5, 5)}); err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	var restored State
	if err := json.Unmarshal(raw, &restored); err != nil {
		t.Fatal(err)
	}

	if restored.ID != g.ID || restored.TurnNumber != g.TurnNumber || restored.RNGState != g.RNGState {
		t.Error("Expected identity fields to survive the round trip")
	}
	if len(restored.Players) != 2 || len(restored.Events) != len(g.Events) {
		t.Fatal("Expected players and events to survive the round trip")
	}
	if restored.Players[0].Ships[0].Position != at(2, 2) {
		t.Error("Expected ship positions to survive the round trip")
	}
	if restored.Players[0].ScanCharges != 2 {
		t.Error("Expected scan charges to survive the round trip")
	}
	if restored.Map.At(at(3, 3)).Owner != "p0" {
		t.Error("Expected tile ownership to survive the round trip")
	}
}

func TestState_ReloadedGameContinuesSameWeatherSequence(t *testing.T) {
	cycle := func(g *State) {
		if err := g.Apply(g.CurrentPlayer().ID, EndTurn{}); err != nil {
			t.Fatal(err)
		}
		if err := g.Apply(g.CurrentPlayer().ID, EndTurn{}); err != nil {
			t.Fatal(err)
		}
	}

	a := testGame(2)
	cycle(a)

	// Snapshot mid-game, restore, and race the original forward.
	raw, err := json.Marshal(a)
	if err != nil {
		t.Fatal(err)
	}
	var b State
	if err := json.Unmarshal(raw, &b); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		cycle(a)
		cycle(&b)
		if a.Weather != b.Weather {
			t.Fatalf("Weather diverged after reload at cycle %d: %+v vs %+v", i, a.Weather, b.Weather)
		}
	}
}

func TestState_CurrentPlayerBeforeStart(t *testing.T) {
	g := Initialize(5, 2)
	if g.CurrentPlayer() != nil {
		t.Error("Expected no current player before anyone joins")
	}
}

func TestEventsBy_FiltersAndPreservesOrder(t *testing.T) {
	g := testGame(2)
	if err := g.Apply("p0", Move{ShipID: "0-0", To: at(1, 2)}); err != nil {
		t.Fatal(err)
	}
	if err := g.Apply("p0", EndTurn{}); err != nil {
		t.Fatal(err)
	}
	if err := g.Apply("p1", EndTurn{}); err != nil {
		t.Fatal(err)
	}

	mine := g.EventsBy("p0")
	if len(mine) != 2 {
		t.Fatalf("Expected 2 events for p0, got %d", len(mine))
	}
	if mine[0].Type != EventShipMoved || mine[1].Type != EventTurnEnded {
		t.Errorf("Expected move then end turn, got %s then %s", mine[0].Type, mine[1].Type)
	}
	if mine[0].Seq >= mine[1].Seq {
		t.Error("Expected ascending sequence numbers")
	}
}
