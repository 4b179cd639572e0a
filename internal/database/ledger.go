package database

import (
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"lukechampine.com/blake3"

	"pir8/internal/game"
)

// LedgerEvent is one stored row of a game's event chain.
type LedgerEvent struct {
	GameID    string
	Seq       int
	Turn      int
	EventType string
	Actor     string
	Payload   []byte
	PrevHash  string
	Hash      string
}

// ChainBreakError reports the first ledger row whose hash no longer
// matches its content or predecessor.
type ChainBreakError struct {
	GameID string
	Seq    int
}

func (e *ChainBreakError) Error() string {
	return fmt.Sprintf("ledger chain broken for game %s at seq %d", e.GameID, e.Seq)
}

// genesisHash anchors a game's chain to its identity and seed, so two
// games never share a chain even with identical events.
func genesisHash(gameID string, seed uint64) string {
	sum := blake3.Sum256([]byte(fmt.Sprintf("%s:%d", gameID, seed)))
	return hex.EncodeToString(sum[:])
}

func chainHash(prev string, payload []byte) string {
	h := blake3.New(32, nil)
	h.Write([]byte(prev))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// appendEventsTx writes every log event not yet in the ledger,
// extending the hash chain from the last stored row.
func appendEventsTx(tx *sql.Tx, g *game.State) error {
	var last sql.NullInt64
	if err := tx.QueryRow(`
		SELECT MAX(seq) FROM game_events WHERE game_id = ?
	`, g.ID).Scan(&last); err != nil {
		return err
	}

	from := 0
	prev := genesisHash(g.ID, g.Seed)
	if last.Valid {
		from = int(last.Int64)
		if err := tx.QueryRow(`
			SELECT hash FROM game_events WHERE game_id = ? AND seq = ?
		`, g.ID, from).Scan(&prev); err != nil {
			return err
		}
	}

	for _, e := range g.Events {
		if e.Seq <= from {
			continue
		}
		payload, err := json.Marshal(e)
		if err != nil {
			return err
		}
		hash := chainHash(prev, payload)
		if _, err := tx.Exec(`
			INSERT INTO game_events (game_id, seq, turn, event_type, actor, payload, prev_hash, hash)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, g.ID, e.Seq, e.Turn, string(e.Type), e.PlayerID, string(payload), prev, hash); err != nil {
			return err
		}
		prev = hash
	}
	return nil
}

// LoadEvents returns a game's ledger rows in chain order.
func (db *DB) LoadEvents(gameID string) ([]*LedgerEvent, error) {
	rows, err := db.conn.Query(`
		SELECT game_id, seq, turn, event_type, actor, payload, prev_hash, hash
		FROM game_events WHERE game_id = ? ORDER BY seq ASC
	`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*LedgerEvent
	for rows.Next() {
		e := &LedgerEvent{}
		var payload string
		if err := rows.Scan(&e.GameID, &e.Seq, &e.Turn, &e.EventType, &e.Actor,
			&payload, &e.PrevHash, &e.Hash); err != nil {
			return nil, err
		}
		e.Payload = []byte(payload)
		events = append(events, e)
	}
	return events, rows.Err()
}

// VerifyChain recomputes a game's ledger hashes from the genesis and
// reports the first break as a ChainBreakError. A clean chain returns
// nil.
func (db *DB) VerifyChain(gameID string) error {
	var seed int64
	err := db.conn.QueryRow(`SELECT seed FROM games WHERE id = ?`, gameID).Scan(&seed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrGameNotFound
	}
	if err != nil {
		return err
	}

	events, err := db.LoadEvents(gameID)
	if err != nil {
		return err
	}

	prev := genesisHash(gameID, uint64(seed))
	want := 0
	for _, e := range events {
		want++
		if e.Seq != want || e.PrevHash != prev || chainHash(prev, e.Payload) != e.Hash {
			return &ChainBreakError{GameID: gameID, Seq: e.Seq}
		}
		prev = e.Hash
	}
	return nil
}
