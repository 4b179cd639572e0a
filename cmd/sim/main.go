// Command sim runs headless AI-vs-AI games in batches and reports how
// they played out: who won and how, how long games ran, what the bots
// spent their turns on, and what a ledger observer would have learned
// about them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"pir8/internal/ai"
	"pir8/internal/database"
	"pir8/internal/game"
	"pir8/internal/intel"
)

// maxActionsPerTurn mirrors the bot's cap so simulated games cannot
// stall on a repeatable action.
const maxActionsPerTurn = 8

type runStats struct {
	runIndex int
	seed     uint64

	turns       int
	intents     int
	winnerIndex int
	victory     game.VictoryKind
	decided     bool

	intentCounts map[game.IntentKind]int
	playstyles   []intel.PlayStyle
	leakage      []int
}

func main() {
	var runs int
	var seedBase uint64
	var seedStep uint64
	var players int
	var profileName string
	var maxTurns int
	var dbPath string
	var verbose bool

	flag.IntVar(&runs, "runs", 5, "number of simulated games")
	flag.Uint64Var(&seedBase, "seed", 42, "map seed for run 1")
	flag.Uint64Var(&seedStep, "seed-step", 1, "seed increment between runs")
	flag.IntVar(&players, "players", 2, "players per game (2-4)")
	flag.StringVar(&profileName, "profile", "Corsair", "difficulty profile for every bot")
	flag.IntVar(&maxTurns, "max-turns", 200, "turn cap per game")
	flag.StringVar(&dbPath, "db", "", "persist runs to this sqlite file and verify the event chain")
	flag.BoolVar(&verbose, "v", false, "log every intent")
	flag.Parse()

	if runs <= 0 {
		fmt.Println("error: -runs must be > 0")
		os.Exit(1)
	}
	if players < game.MinPlayers || players > game.MaxPlayers {
		fmt.Printf("error: -players must be %d-%d\n", game.MinPlayers, game.MaxPlayers)
		os.Exit(1)
	}
	profile, ok := ai.ProfileByName(profileName)
	if !ok {
		fmt.Printf("error: unknown profile %q\n", profileName)
		os.Exit(1)
	}

	var db *database.DB
	if dbPath != "" {
		var err error
		db, err = database.New(dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.Close()
	}

	fmt.Printf("=== Headless Battle Report ===\n")
	fmt.Printf("runs=%d players=%d profile=%s seed=%d seed_step=%d max_turns=%d\n\n",
		runs, players, profile.Name, seedBase, seedStep, maxTurns)

	all := make([]runStats, 0, runs)
	for i := 0; i < runs; i++ {
		seed := seedBase + uint64(i)*seedStep
		stats := runGame(i+1, seed, players, profile, maxTurns, db, verbose)
		all = append(all, stats)
		printRun(stats)
	}

	printAggregate(all)
}

// runGame plays one full game with every seat driven by the AI.
func runGame(runIndex int, seed uint64, players int, profile ai.Profile, maxTurns int, db *database.DB, verbose bool) runStats {
	g := game.Initialize(seed, players)
	for i := 0; i < players; i++ {
		id := fmt.Sprintf("sim-%d", i)
		if err := g.Join(id, fmt.Sprintf("Sim %d", i)); err != nil {
			log.Fatalf("run %d: join failed: %v", runIndex, err)
		}
	}
	if db != nil {
		if err := db.CreateGame(g); err != nil {
			log.Fatalf("run %d: create game: %v", runIndex, err)
		}
	}

	stats := runStats{
		runIndex:     runIndex,
		seed:         seed,
		winnerIndex:  -1,
		intentCounts: make(map[game.IntentKind]int),
	}

	actionsUsed := 0
	for g.Status == game.StatusActive && g.TurnNumber <= maxTurns {
		current := g.CurrentPlayer()

		var intent game.Intent
		if actionsUsed >= maxActionsPerTurn {
			intent = game.EndTurn{}
		} else {
			started := time.Now()
			decision, err := ai.Decide(g, current.ID, profile)
			if err != nil {
				log.Fatalf("run %d: decide for %s: %v", runIndex, current.ID, err)
			}
			intent = withTiming(decision.Intent, time.Since(started).Milliseconds())
			if verbose {
				log.Printf("run %d turn %d: %s", runIndex, g.TurnNumber, decision.Justification)
			}
		}

		if err := g.Apply(current.ID, intent); err != nil {
			// The AI only proposes legal intents; a rejection here is a
			// bug worth stopping on.
			log.Fatalf("run %d: %s rejected %v: %v", runIndex, current.ID, intent.Kind(), err)
		}
		stats.intents++
		stats.intentCounts[intent.Kind()]++
		if intent.Kind() == game.IntentEndTurn {
			actionsUsed = 0
		} else {
			actionsUsed++
		}
	}

	stats.turns = g.TurnNumber
	if g.Status == game.StatusCompleted {
		stats.decided = true
		stats.victory = g.Victory
		if w := g.FindPlayer(g.WinnerID); w != nil {
			stats.winnerIndex = w.Index
		}
	}

	for _, p := range g.Players {
		history := g.EventsBy(p.ID)
		report, err := intel.ComputeReport(g, p.ID, history)
		if err != nil {
			log.Fatalf("run %d: leakage report for %s: %v", runIndex, p.ID, err)
		}
		stats.leakage = append(stats.leakage, report.Score)
		stats.playstyles = append(stats.playstyles, intel.BuildDossier(history).PlayStyle)
	}

	if db != nil {
		if err := db.SaveGame(g); err != nil {
			log.Fatalf("run %d: save game: %v", runIndex, err)
		}
		if err := db.VerifyChain(g.ID); err != nil {
			log.Fatalf("run %d: event chain verification failed: %v", runIndex, err)
		}
	}
	return stats
}

func printRun(s runStats) {
	outcome := "undecided at turn cap"
	if s.decided {
		outcome = fmt.Sprintf("player %d wins by %s", s.winnerIndex, s.victory)
	}
	fmt.Printf("run %d (seed %d): %s after %d turns, %d intents\n",
		s.runIndex, s.seed, outcome, s.turns, s.intents)

	kinds := make([]game.IntentKind, 0, len(s.intentCounts))
	for k := range s.intentCounts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	fmt.Printf("  intents:")
	for _, k := range kinds {
		fmt.Printf(" %s=%d", k, s.intentCounts[k])
	}
	fmt.Println()

	fmt.Printf("  observers saw:")
	for i, score := range s.leakage {
		fmt.Printf(" p%d leak=%d style=%s", i, score, s.playstyles[i])
	}
	fmt.Println()
}

func printAggregate(all []runStats) {
	decided := 0
	totalTurns := 0
	totalIntents := 0
	byVictory := make(map[game.VictoryKind]int)
	byWinner := make(map[int]int)

	for _, s := range all {
		totalTurns += s.turns
		totalIntents += s.intents
		if s.decided {
			decided++
			byVictory[s.victory]++
			byWinner[s.winnerIndex]++
		}
	}

	fmt.Printf("\n=== Aggregate ===\n")
	fmt.Printf("decided %d/%d, avg %d turns, avg %d intents per game\n",
		decided, len(all), totalTurns/len(all), totalIntents/len(all))
	for _, kind := range []game.VictoryKind{game.VictoryTerritory, game.VictoryFleet, game.VictoryEconomic} {
		if n := byVictory[kind]; n > 0 {
			fmt.Printf("  %s wins: %d\n", kind, n)
		}
	}
	winners := make([]int, 0, len(byWinner))
	for idx := range byWinner {
		winners = append(winners, idx)
	}
	sort.Ints(winners)
	for _, idx := range winners {
		fmt.Printf("  player %d won %d\n", idx, byWinner[idx])
	}
}

// withTiming writes the measured decision time into the intent.
func withTiming(intent game.Intent, elapsedMs int64) game.Intent {
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
