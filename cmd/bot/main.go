// Command bot is a computer player that connects to a pir8 server over
// websocket and plays a game with the AI decision engine at a chosen
// difficulty.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"pir8/internal/ai"
	"pir8/internal/botclient"
	"pir8/internal/game"
	"pir8/internal/protocol"
)

// maxActionsPerTurn caps how many non-ending intents the bot submits
// before conceding the turn, so an endlessly profitable option cannot
// stall the table.
const maxActionsPerTurn = 8

func main() {
	serverAddr := flag.String("server", "localhost:30000", "Server address")
	gameID := flag.String("game", "", "Game to join; creates a new one when empty")
	name := flag.String("name", "Bot", "Captain name")
	profileName := flag.String("profile", "Corsair", "Difficulty profile")
	seed := flag.Uint64("seed", 42, "Map seed when creating a game")
	players := flag.Int("players", 2, "Max players when creating a game")
	verbose := flag.Bool("v", false, "Log every decision")
	flag.Parse()

	profile, ok := ai.ProfileByName(*profileName)
	if !ok {
		log.Fatalf("Unknown profile %q; one of Deckhand, Corsair, Captain, Dread Pirate", *profileName)
	}

	client := botclient.New()
	if err := client.Connect(*serverAddr); err != nil {
		log.Fatalf("Failed to connect to %s: %v", *serverAddr, err)
	}
	defer client.Disconnect()
	log.Printf("Connected to %s", *serverAddr)

	playerID := uuid.New().String()
	targetGame := *gameID
	if targetGame == "" {
		created, err := createGame(client, *seed, *players)
		if err != nil {
			log.Fatalf("Failed to create game: %v", err)
		}
		targetGame = created
		log.Printf("Created game %s (seed %d)", targetGame, *seed)
	}

	if err := client.SendPayload(protocol.TypeJoinGame, protocol.JoinGamePayload{
		GameID:   targetGame,
		PlayerID: playerID,
		Name:     *name,
	}); err != nil {
		log.Fatalf("Failed to join: %v", err)
	}

	bot := &bot{
		client:   client,
		playerID: playerID,
		gameID:   targetGame,
		profile:  profile,
		verbose:  *verbose,
	}
	bot.run()
}

// createGame asks the server for a fresh table and returns its id.
func createGame(client *botclient.Client, seed uint64, players int) (string, error) {
	if err := client.SendPayload(protocol.TypeCreateGame, protocol.CreateGamePayload{
		Seed:       seed,
		MaxPlayers: players,
	}); err != nil {
		return "", err
	}
	msg, ok := client.WaitFor(protocol.TypeGameCreated, 10*time.Second)
	if !ok {
		return "", fmt.Errorf("no game_created response")
	}
	var payload protocol.GameCreatedPayload
	if err := msg.ParsePayload(&payload); err != nil {
		return "", err
	}
	return payload.GameID, nil
}

type bot struct {
	client   *botclient.Client
	playerID string
	gameID   string
	profile  ai.Profile
	verbose  bool

	state       *game.State
	actionsUsed int
}

// run processes server messages until the game completes or the
// connection drops.
func (b *bot) run() {
	for msg := range b.client.Recv() {
		switch msg.Type {
		case protocol.TypeGameJoined:
			var payload protocol.GameJoinedPayload
			if err := msg.ParsePayload(&payload); err == nil {
				log.Printf("Joined game %s as %s", payload.GameID, b.playerID)
				b.state = payload.State
				b.actOnState()
			}

		case protocol.TypeStateUpdate:
			var payload protocol.StateUpdatePayload
			if err := msg.ParsePayload(&payload); err == nil {
				b.state = payload.State
				b.actOnState()
			}

		case protocol.TypeIntentApplied:
			var payload protocol.IntentAppliedPayload
			if err := msg.ParsePayload(&payload); err == nil {
				b.state = payload.State
				b.actOnState()
			}

		case protocol.TypeIntentRejected:
			var payload protocol.IntentRejectedPayload
			if err := msg.ParsePayload(&payload); err == nil {
				log.Printf("Intent rejected: %s (%s)", payload.Rejection.Code, payload.Rejection.Message)
				// Concede the turn rather than loop on a rejection.
				b.submit(game.EndTurn{})
			}

		case protocol.TypeGameCompleted:
			var payload protocol.GameCompletedPayload
			if err := msg.ParsePayload(&payload); err == nil {
				if payload.WinnerID == b.playerID {
					log.Printf("Victory by %s!", payload.Victory)
				} else {
					log.Printf("Game over: %s wins by %s", payload.WinnerID, payload.Victory)
				}
			}
			return

		case protocol.TypeError:
			var payload protocol.ErrorPayload
			if err := msg.ParsePayload(&payload); err == nil {
				log.Printf("Server error: %s (%s)", payload.Code, payload.Message)
			}
		}
	}
	log.Printf("Connection closed")
}

// actOnState decides and submits one intent if it is the bot's turn.
func (b *bot) actOnState() {
	if b.state == nil || b.state.Status != game.StatusActive {
		return
	}
	current := b.state.CurrentPlayer()
	if current == nil || current.ID != b.playerID {
		b.actionsUsed = 0
		return
	}

	if b.actionsUsed >= maxActionsPerTurn {
		b.actionsUsed = 0
		b.submit(game.EndTurn{})
		return
	}

	started := time.Now()
	decision, err := ai.Decide(b.state, b.playerID, b.profile)
	if err != nil {
		log.Printf("Decision failed: %v", err)
		b.submit(game.EndTurn{})
		return
	}
	if b.verbose {
		log.Printf("Turn %d: %s", b.state.TurnNumber, decision.Justification)
	}

	intent := stampTiming(decision.Intent, time.Since(started).Milliseconds())
	if _, ending := intent.(game.EndTurn); ending {
		b.actionsUsed = 0
	} else {
		b.actionsUsed++
	}
	b.submit(intent)
}

// submit sends one intent to the server.
func (b *bot) submit(intent game.Intent) {
	envelope, err := protocol.EncodeIntent(intent)
	if err != nil {
		log.Printf("Failed to encode intent: %v", err)
		return
	}
	if err := b.client.SendPayload(protocol.TypeSubmitIntent, protocol.SubmitIntentPayload{
		GameID:   b.gameID,
		PlayerID: b.playerID,
		Intent:   envelope,
	}); err != nil {
		log.Printf("Failed to submit intent: %v", err)
	}
}

// stampTiming writes the measured decision time into the intent.
func stampTiming(intent game.Intent, elapsedMs int64) game.Intent {
	timing := game.Timing{DecisionTimeMs: elapsedMs}
	switch it := intent.(type) {
	case game.Move:
		it.Timing = timing
		return it
	case game.Attack:
		it.Timing = timing
		return it
	case game.ClaimTerritory:
		it.Timing = timing
		return it
	case game.CollectResources:
		it.Timing = timing
		return it
	case game.BuildShip:
		it.Timing = timing
		return it
	case game.UseAbility:
		it.Timing = timing
		return it
	case game.ScanCoordinate:
		it.Timing = timing
		return it
	case game.EndTurn:
		it.Timing = timing
		return it
	default:
		return intent
	}
}
