package database

type migration struct {
	id   int
	name string
	sql  string
}

var migrations = []migration{
	{
		id:   1,
		name: "initial_schema",
		sql: `
			-- Games table: one row per simulation. Seed is the uint64
			-- generation seed stored in sqlite's signed integer.
			CREATE TABLE games (
				id TEXT PRIMARY KEY,
				seed INTEGER NOT NULL,
				status TEXT NOT NULL DEFAULT 'waiting',
				max_players INTEGER NOT NULL,
				turn_timeout_secs INTEGER DEFAULT 0,
				winner TEXT,
				victory_kind TEXT,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				started_at DATETIME,
				ended_at DATETIME
			);
			CREATE INDEX idx_games_status ON games(status);

			-- Game players: join-order roster with final scores.
			CREATE TABLE game_players (
				game_id TEXT NOT NULL,
				player_id TEXT NOT NULL,
				idx INTEGER NOT NULL,
				name TEXT NOT NULL,
				score INTEGER DEFAULT 0,
				joined_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (game_id, player_id),
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
			CREATE INDEX idx_game_players_game ON game_players(game_id);

			-- Game state: the latest full snapshot, lz4-compressed JSON.
			CREATE TABLE game_state (
				game_id TEXT PRIMARY KEY,
				turn INTEGER NOT NULL,
				snapshot BLOB NOT NULL,
				updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);

			-- Game events: append-only ledger. Each row's hash covers
			-- the previous hash plus the event payload, so any edit or
			-- deletion breaks the chain from that point on.
			CREATE TABLE game_events (
				game_id TEXT NOT NULL,
				seq INTEGER NOT NULL,
				turn INTEGER NOT NULL,
				event_type TEXT NOT NULL,
				actor TEXT,
				payload TEXT NOT NULL,
				prev_hash TEXT NOT NULL,
				hash TEXT NOT NULL,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (game_id, seq),
				FOREIGN KEY (game_id) REFERENCES games(id) ON DELETE CASCADE
			);
		`,
	},
}
