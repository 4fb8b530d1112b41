// Package persistence archives finished matches in SQLite. The archive is a
// history record only; no game is ever restored from it.
package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite connection for the match archive.
type DB struct {
	conn *sqlx.DB
}

// Match is one archived game.
type Match struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	WinnerID     int       `json:"winnerId"`
	WinnerName   string    `json:"winnerName"`
	Players      []string  `json:"players"`
	Turns        int       `json:"turns"`
	TargetPoints int       `json:"targetPoints"`
}

type matchRow struct {
	ID           string `db:"id"`
	StartedAt    int64  `db:"started_at"`
	FinishedAt   int64  `db:"finished_at"`
	WinnerID     int    `db:"winner_id"`
	WinnerName   string `db:"winner_name"`
	Players      string `db:"players"`
	Turns        int    `db:"turns"`
	TargetPoints int    `db:"target_points"`
}

func (r matchRow) match() Match {
	return Match{
		ID:           r.ID,
		StartedAt:    time.Unix(r.StartedAt, 0).UTC(),
		FinishedAt:   time.Unix(r.FinishedAt, 0).UTC(),
		WinnerID:     r.WinnerID,
		WinnerName:   r.WinnerName,
		Players:      strings.Split(r.Players, ","),
		Turns:        r.Turns,
		TargetPoints: r.TargetPoints,
	}
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS matches (
		id TEXT PRIMARY KEY,
		started_at INTEGER NOT NULL,
		finished_at INTEGER NOT NULL,
		winner_id INTEGER NOT NULL,
		winner_name TEXT NOT NULL,
		players TEXT NOT NULL,
		turns INTEGER NOT NULL,
		target_points INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS match_events (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL REFERENCES matches(id),
		seq INTEGER NOT NULL,
		message TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_matches_finished ON matches(finished_at);
	CREATE INDEX IF NOT EXISTS idx_events_match ON match_events(match_id, seq);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMatch stores a finished match and its log in one transaction.
func (db *DB) SaveMatch(ctx context.Context, m Match, log []string) error {
	tx, err := db.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `INSERT INTO matches
		(id, started_at, finished_at, winner_id, winner_name, players, turns, target_points)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.StartedAt.Unix(), m.FinishedAt.Unix(), m.WinnerID, m.WinnerName,
		strings.Join(m.Players, ","), m.Turns, m.TargetPoints,
	)
	if err != nil {
		return fmt.Errorf("insert match %s: %w", m.ID, err)
	}

	stmt, err := tx.PreparexContext(ctx, "INSERT INTO match_events (match_id, seq, message) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, msg := range log {
		if _, err := stmt.ExecContext(ctx, m.ID, i, msg); err != nil {
			return fmt.Errorf("insert event %d of %s: %w", i, m.ID, err)
		}
	}
	return tx.Commit()
}

// RecentMatches returns up to limit matches, newest first.
func (db *DB) RecentMatches(ctx context.Context, limit int) ([]Match, error) {
	var rows []matchRow
	err := db.conn.SelectContext(ctx, &rows,
		`SELECT id, started_at, finished_at, winner_id, winner_name, players, turns, target_points
		 FROM matches ORDER BY finished_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	out := make([]Match, len(rows))
	for i, r := range rows {
		out[i] = r.match()
	}
	return out, nil
}

// GetMatch looks up one match by id.
func (db *DB) GetMatch(ctx context.Context, id string) (Match, error) {
	var r matchRow
	err := db.conn.GetContext(ctx, &r,
		`SELECT id, started_at, finished_at, winner_id, winner_name, players, turns, target_points
		 FROM matches WHERE id = ?`, id)
	if err != nil {
		return Match{}, err
	}
	return r.match(), nil
}

// MatchLog returns the archived log lines of a match in order.
func (db *DB) MatchLog(ctx context.Context, id string) ([]string, error) {
	var lines []string
	err := db.conn.SelectContext(ctx, &lines,
		"SELECT message FROM match_events WHERE match_id = ? ORDER BY seq", id)
	return lines, err
}
