package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"pir8/internal/game"
)

// ErrGameNotFound is returned when a game is not stored.
var ErrGameNotFound = errors.New("game not found")

// GameRow contains game metadata for listings.
type GameRow struct {
	ID          string
	Seed        uint64
	Status      string
	MaxPlayers  int
	PlayerCount int
	Turn        int
	Winner      string
	VictoryKind string
	CreatedAt   time.Time
}

func statusText(s game.Status) string {
	switch s {
	case game.StatusActive:
		return "active"
	case game.StatusCompleted:
		return "completed"
	default:
		return "waiting"
	}
}

// CreateGame stores a freshly initialized game: its metadata row plus
// the first snapshot and ledger entries.
func (db *DB) CreateGame(g *game.State) error {
	_, err := db.conn.Exec(`
		INSERT INTO games (id, seed, status, max_players, turn_timeout_secs)
		VALUES (?, ?, ?, ?, ?)
	`, g.ID, int64(g.Seed), statusText(g.Status), g.MaxPlayerCount, g.Balance.TurnTimeoutSeconds)
	if err != nil {
		return err
	}
	return db.SaveGame(g)
}

// SaveGame persists the current state of a game in one transaction:
// metadata, the roster with scores, the compressed snapshot, and any
// log events not yet in the ledger. Called after each successful
// mutation, never inside the engine.
func (db *DB) SaveGame(g *game.State) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`
		UPDATE games SET status = ?, winner = ?, victory_kind = ? WHERE id = ?
	`, statusText(g.Status), g.WinnerID, string(g.Victory), g.ID); err != nil {
		return err
	}
	if g.Status != game.StatusWaiting {
		if _, err := tx.Exec(`
			UPDATE games SET started_at = COALESCE(started_at, CURRENT_TIMESTAMP) WHERE id = ?
		`, g.ID); err != nil {
			return err
		}
	}
	if g.Status == game.StatusCompleted {
		if _, err := tx.Exec(`
			UPDATE games SET ended_at = COALESCE(ended_at, CURRENT_TIMESTAMP) WHERE id = ?
		`, g.ID); err != nil {
			return err
		}
	}

	for _, p := range g.Players {
		if _, err := tx.Exec(`
			INSERT INTO game_players (game_id, player_id, idx, name, score)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(game_id, player_id) DO UPDATE SET score = excluded.score
		`, g.ID, p.ID, p.Index, p.Name, p.Score); err != nil {
			return err
		}
	}

	if err := saveSnapshotTx(tx, g); err != nil {
		return err
	}
	if err := appendEventsTx(tx, g); err != nil {
		return err
	}
	return tx.Commit()
}

// LoadGame restores a game from its latest snapshot.
func (db *DB) LoadGame(id string) (*game.State, error) {
	var blob []byte
	err := db.conn.QueryRow(`
		SELECT snapshot FROM game_state WHERE game_id = ?
	`, id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	raw, err := decompress(blob)
	if err != nil {
		return nil, err
	}
	var g game.State
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// ListGames returns every stored game, newest first.
func (db *DB) ListGames() ([]*GameRow, error) {
	rows, err := db.conn.Query(`
		SELECT g.id, g.seed, g.status, g.max_players, g.winner, g.victory_kind, g.created_at,
		       (SELECT COUNT(*) FROM game_players WHERE game_id = g.id),
		       COALESCE((SELECT turn FROM game_state WHERE game_id = g.id), 0)
		FROM games g
		ORDER BY g.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []*GameRow
	for rows.Next() {
		var r GameRow
		var seed int64
		var winner, victory sql.NullString
		if err := rows.Scan(&r.ID, &seed, &r.Status, &r.MaxPlayers, &winner, &victory,
			&r.CreatedAt, &r.PlayerCount, &r.Turn); err != nil {
			return nil, err
		}
		r.Seed = uint64(seed)
		if winner.Valid {
			r.Winner = winner.String
		}
		if victory.Valid {
			r.VictoryKind = victory.String
		}
		games = append(games, &r)
	}
	return games, rows.Err()
}
