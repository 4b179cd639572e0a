package database

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"

	"pir8/internal/game"
)

var snapshotBuffers = sync.Pool{New: func() interface{} { return new(bytes.Buffer) }}

func compress(src []byte) ([]byte, error) {
	buf := snapshotBuffers.Get().(*bytes.Buffer)
	defer snapshotBuffers.Put(buf)
	buf.Reset()

	zw := lz4.NewWriter(buf)
	if _, err := zw.Write(src); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func decompress(src []byte) ([]byte, error) {
	buf := snapshotBuffers.Get().(*bytes.Buffer)
	defer snapshotBuffers.Put(buf)
	buf.Reset()

	zr := lz4.NewReader(bytes.NewReader(src))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// saveSnapshotTx upserts the latest compressed snapshot for a game.
func saveSnapshotTx(tx *sql.Tx, g *game.State) error {
	raw, err := json.Marshal(g)
	if err != nil {
		return err
	}
	blob, err := compress(raw)
	if err != nil {
		return err
	}
	_, err = tx.Exec(`
		INSERT INTO game_state (game_id, turn, snapshot)
		VALUES (?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			turn = excluded.turn,
			snapshot = excluded.snapshot,
			updated_at = CURRENT_TIMESTAMP
	`, g.ID, g.TurnNumber, blob)
	return err
}
