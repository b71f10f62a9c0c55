package db

import (
	"context"
	"database/sql"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tournaments (
		name         TEXT PRIMARY KEY,
		num_players  INTEGER NOT NULL CHECK (num_players >= 2),
		participants TEXT[] NOT NULL,
		bounties     TEXT[] NOT NULL DEFAULT '{}',
		stack_size   INTEGER NOT NULL CHECK (stack_size > 0),
		earnings     JSONB NOT NULL DEFAULT '{}',
		comment      TEXT,
		date_created TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tournament_history (
		seq             BIGSERIAL,
		id              UUID PRIMARY KEY,
		tournament_name TEXT NOT NULL REFERENCES tournaments(name),
		occurred_at     TIMESTAMPTZ NOT NULL,
		action          TEXT NOT NULL,
		details         TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS tournament_history_name_seq_idx ON tournament_history (tournament_name, seq)`,
	`CREATE TABLE IF NOT EXISTS ledger_slots (
		tournament_name  TEXT NOT NULL REFERENCES tournaments(name),
		slot_index       INTEGER NOT NULL,
		rank             INTEGER NOT NULL,
		player           TEXT,
		elimination_time TEXT,
		eliminated_by    TEXT,
		bounty_points    INTEGER,
		CONSTRAINT ledger_slots_pkey PRIMARY KEY (tournament_name, slot_index),
		CONSTRAINT ledger_slots_rank_key UNIQUE (tournament_name, rank),
		CONSTRAINT ledger_slots_player_key UNIQUE (tournament_name, player)
	)`,
	`CREATE TABLE IF NOT EXISTS general_ranking (
		position       INTEGER PRIMARY KEY,
		classement     TEXT NOT NULL,
		joueurs        TEXT NOT NULL,
		pts_classement DOUBLE PRECISION NOT NULL,
		bonus_kills    DOUBLE PRECISION NOT NULL,
		total_pts      DOUBLE PRECISION NOT NULL,
		moyenne        DOUBLE PRECISION NOT NULL,
		nb_kills       DOUBLE PRECISION NOT NULL
	)`,
}

// Migrate creates the tables used by the Postgres store.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration step %d failed: %w", i+1, err)
		}
	}
	return nil
}
