// Package persistence provides SQLite-based storage for the per-run metrics
// snapshot log.
package persistence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/schelling/internal/collect"
	"github.com/talgya/schelling/internal/config"
)

// DB wraps a SQLite connection for snapshot persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
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
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		created_at TEXT NOT NULL,
		width INTEGER NOT NULL,
		height INTEGER NOT NULL,
		density REAL NOT NULL,
		minority_pc REAL NOT NULL,
		homophily_lb REAL NOT NULL,
		homophily_ub REAL NOT NULL,
		preference REAL NOT NULL,
		radius INTEGER NOT NULL,
		seed INTEGER NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		final_happy INTEGER NOT NULL DEFAULT 0,
		final_similarity REAL NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS model_snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		happy INTEGER NOT NULL,
		similarity REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS agent_snapshots (
		run_id TEXT NOT NULL,
		tick INTEGER NOT NULL,
		agent_id INTEGER NOT NULL,
		similar INTEGER NOT NULL,
		perceived_similar REAL NOT NULL,
		agent_type INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_model_snapshots_run ON model_snapshots(run_id, tick);
	CREATE INDEX IF NOT EXISTS idx_agent_snapshots_run ON agent_snapshots(run_id, tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// CreateRun registers a new run with its parameters and returns its id.
func (db *DB) CreateRun(cfg config.Config, seed int64) (string, error) {
	id := uuid.NewString()
	_, err := db.conn.Exec(`INSERT INTO runs
		(id, created_at, width, height, density, minority_pc,
		 homophily_lb, homophily_ub, preference, radius, seed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC().Format(time.RFC3339),
		cfg.Width, cfg.Height, cfg.Density, cfg.MinorityPC,
		cfg.HomophilyLB, cfg.HomophilyUB, cfg.Preference, cfg.Radius, seed,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// SaveSnapshots writes the collected snapshot log for a run in one
// transaction.
func (db *DB) SaveSnapshots(runID string, models []collect.ModelRow, agents []collect.AgentRow) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	mstmt, err := tx.Preparex(
		"INSERT INTO model_snapshots (run_id, tick, happy, similarity) VALUES (?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer mstmt.Close()

	for _, r := range models {
		if _, err := mstmt.Exec(runID, r.Tick, r.Happy, r.Similarity); err != nil {
			return fmt.Errorf("insert model snapshot tick %d: %w", r.Tick, err)
		}
	}

	astmt, err := tx.Preparex(`INSERT INTO agent_snapshots
		(run_id, tick, agent_id, similar, perceived_similar, agent_type)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer astmt.Close()

	for _, r := range agents {
		if _, err := astmt.Exec(runID, r.Tick, r.AgentID, r.Similar, r.PerceivedSimilar, r.Type); err != nil {
			return fmt.Errorf("insert agent snapshot tick %d agent %d: %w", r.Tick, r.AgentID, err)
		}
	}

	return tx.Commit()
}

// FinishRun records the final outcome of a run.
func (db *DB) FinishRun(runID string, steps, happy int, similarity float64) error {
	_, err := db.conn.Exec(
		"UPDATE runs SET steps = ?, final_happy = ?, final_similarity = ? WHERE id = ?",
		steps, happy, similarity, runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	slog.Info("run persisted", "run_id", runID, "steps", steps)
	return nil
}

// ModelRows loads the model-level snapshot log for a run.
func (db *DB) ModelRows(runID string) ([]collect.ModelRow, error) {
	var rows []collect.ModelRow
	err := db.conn.Select(&rows,
		"SELECT tick, happy, similarity FROM model_snapshots WHERE run_id = ? ORDER BY tick",
		runID,
	)
	return rows, err
}

// AgentRows loads the agent-level snapshot rows for one tick of a run.
func (db *DB) AgentRows(runID string, tick int) ([]collect.AgentRow, error) {
	var rows []collect.AgentRow
	err := db.conn.Select(&rows,
		`SELECT tick, agent_id, similar, perceived_similar, agent_type
		 FROM agent_snapshots WHERE run_id = ? AND tick = ? ORDER BY agent_id`,
		runID, tick,
	)
	return rows, err
}
