// Package store provides the SQLite-backed aggregate store for turns and
// sessions.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Store is the durable, idempotent store of turns and derived sessions.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at the given path and applies the
// schema.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the platform-appropriate database location.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tokentrack", "usage.db")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "tokentrack", "usage.db")
}

// UpsertTurns persists a batch of turns inside one transaction and returns
// the number of turns processed (not the number of rows changed).
//
// Sessions are inserted on first sight; afterwards only last_seen is extended
// (never shrunk) and first_seen stays fixed. Turns conflict on message_id and
// merge field-wise with MAX: a later, more-complete record for the same id
// monotonically improves the stored row, and a stale resend can never regress
// it. Input tokens are fixed at first insert. Cost is computed from the
// pricing table before the write and merged with the same rule.
func (s *Store) UpsertTurns(turns []model.Turn) (int, error) {
	if len(turns) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	sessionStmt, err := tx.Prepare(`
		INSERT INTO sessions (session_id, project_path, first_seen, last_seen)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
		    last_seen = MAX(last_seen, excluded.last_seen)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = sessionStmt.Close() }()

	turnStmt, err := tx.Prepare(`
		INSERT INTO turns
		    (message_id, session_id, timestamp, model,
		     input_tokens, output_tokens, cache_creation_tokens,
		     cache_read_tokens, cost_usd)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(message_id) DO UPDATE SET
		    output_tokens         = MAX(output_tokens, excluded.output_tokens),
		    cache_creation_tokens = MAX(cache_creation_tokens, excluded.cache_creation_tokens),
		    cache_read_tokens     = MAX(cache_read_tokens, excluded.cache_read_tokens),
		    cost_usd              = MAX(cost_usd, excluded.cost_usd)`)
	if err != nil {
		return 0, err
	}
	defer func() { _ = turnStmt.Close() }()

	count := 0
	for _, t := range turns {
		cost := config.CalculateCost(t.Model, t.InputTokens, t.OutputTokens, t.CacheCreationTokens, t.CacheReadTokens)

		if _, err := sessionStmt.Exec(t.SessionID, t.ProjectPath, t.Timestamp, t.Timestamp); err != nil {
			return 0, fmt.Errorf("upserting session %s: %w", t.SessionID, err)
		}
		if _, err := turnStmt.Exec(
			t.MessageID, t.SessionID, t.Timestamp, t.Model,
			t.InputTokens, t.OutputTokens, t.CacheCreationTokens,
			t.CacheReadTokens, cost,
		); err != nil {
			return 0, fmt.Errorf("upserting turn %s: %w", t.MessageID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

func scanAggregate(row *sql.Row) (model.Aggregate, error) {
	var a model.Aggregate
	err := row.Scan(&a.Sessions, &a.Turns, &a.InputTokens, &a.OutputTokens,
		&a.CacheCreationTokens, &a.CacheReadTokens, &a.CostUSD)
	if err != nil {
		return model.Aggregate{}, err
	}
	return a, nil
}

// Totals returns the all-time aggregate.
func (s *Store) Totals() (model.Aggregate, error) {
	return scanAggregate(s.db.QueryRow(`SELECT` + aggregateCols + ` FROM turns`))
}

// Today returns the aggregate for the current UTC calendar day.
func (s *Store) Today() (model.Aggregate, error) {
	return scanAggregate(s.db.QueryRow(
		`SELECT` + aggregateCols + ` FROM turns WHERE DATE(timestamp) = DATE('now')`))
}

// RollingWindow returns the aggregate for the last N hours plus the oldest
// qualifying timestamp.
func (s *Store) RollingWindow(hours int) (model.WindowStats, error) {
	row := s.db.QueryRow(`
		SELECT`+aggregateCols+`,
		    MIN(timestamp) AS oldest_turn
		FROM turns
		WHERE datetime(timestamp) >= datetime('now', ?)`,
		fmt.Sprintf("-%d hours", hours))

	w := model.WindowStats{Hours: hours}
	var oldest sql.NullString
	err := row.Scan(&w.Sessions, &w.Turns, &w.InputTokens, &w.OutputTokens,
		&w.CacheCreationTokens, &w.CacheReadTokens, &w.CostUSD, &oldest)
	if err != nil {
		return model.WindowStats{Hours: hours}, err
	}
	w.OldestTurn = oldest.String
	return w, nil
}

// Sessions returns one row per session with its aggregate and its
// most-recently-seen model, ordered by recency, bounded to limit rows.
func (s *Store) Sessions(limit int) ([]model.SessionRow, error) {
	rows, err := s.db.Query(`
		SELECT
		    s.session_id,
		    s.project_path,
		    s.first_seen,
		    s.last_seen,
		    COUNT(DISTINCT t.session_id)            AS sessions,
		    COUNT(t.message_id)                     AS turns,
		    COALESCE(SUM(t.input_tokens), 0)         AS input_tokens,
		    COALESCE(SUM(t.output_tokens), 0)        AS output_tokens,
		    COALESCE(SUM(t.cache_creation_tokens), 0) AS cache_creation_tokens,
		    COALESCE(SUM(t.cache_read_tokens), 0)    AS cache_read_tokens,
		    COALESCE(SUM(t.cost_usd), 0)             AS cost_usd,
		    (SELECT model FROM turns
		       WHERE session_id = s.session_id
		       ORDER BY timestamp DESC LIMIT 1)      AS model
		FROM sessions s
		JOIN turns t ON t.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.last_seen DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.SessionRow
	for rows.Next() {
		var r model.SessionRow
		var modelName sql.NullString
		err := rows.Scan(&r.SessionID, &r.ProjectPath, &r.FirstSeen, &r.LastSeen,
			&r.Aggregate.Sessions, &r.Aggregate.Turns, &r.InputTokens, &r.OutputTokens,
			&r.CacheCreationTokens, &r.CacheReadTokens, &r.CostUSD, &modelName)
		if err != nil {
			return nil, err
		}
		r.Model = modelName.String
		result = append(result, r)
	}
	return result, rows.Err()
}

// SessionTurns returns every turn for one session, oldest first.
func (s *Store) SessionTurns(sessionID string) ([]model.TurnRow, error) {
	rows, err := s.db.Query(`
		SELECT message_id, session_id, timestamp, model,
		    input_tokens, output_tokens, cache_creation_tokens,
		    cache_read_tokens, cost_usd
		FROM turns
		WHERE session_id = ?
		ORDER BY timestamp ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.TurnRow
	for rows.Next() {
		var t model.TurnRow
		err := rows.Scan(&t.MessageID, &t.SessionID, &t.Timestamp, &t.Model,
			&t.InputTokens, &t.OutputTokens, &t.CacheCreationTokens,
			&t.CacheReadTokens, &t.CostUSD)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// Projects returns the aggregate grouped by project path, ordered by
// descending cost.
func (s *Store) Projects() ([]model.ProjectStats, error) {
	rows, err := s.db.Query(`
		SELECT
		    s.project_path,
		    COUNT(DISTINCT s.session_id)             AS sessions,
		    COUNT(t.message_id)                      AS turns,
		    COALESCE(SUM(t.input_tokens), 0)          AS input_tokens,
		    COALESCE(SUM(t.output_tokens), 0)         AS output_tokens,
		    COALESCE(SUM(t.cache_creation_tokens), 0) AS cache_creation_tokens,
		    COALESCE(SUM(t.cache_read_tokens), 0)     AS cache_read_tokens,
		    COALESCE(SUM(t.cost_usd), 0)              AS cost_usd
		FROM sessions s
		JOIN turns t ON t.session_id = s.session_id
		GROUP BY s.project_path
		ORDER BY cost_usd DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.ProjectStats
	for rows.Next() {
		var p model.ProjectStats
		err := rows.Scan(&p.ProjectPath, &p.Sessions, &p.Turns, &p.InputTokens,
			&p.OutputTokens, &p.CacheCreationTokens, &p.CacheReadTokens, &p.CostUSD)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, rows.Err()
}

// Models returns the aggregate grouped by model, ordered by descending cost.
func (s *Store) Models() ([]model.ModelStats, error) {
	rows, err := s.db.Query(`SELECT model,` + aggregateCols + `
		FROM turns
		GROUP BY model
		ORDER BY cost_usd DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.ModelStats
	for rows.Next() {
		var m model.ModelStats
		err := rows.Scan(&m.Model, &m.Sessions, &m.Turns, &m.InputTokens,
			&m.OutputTokens, &m.CacheCreationTokens, &m.CacheReadTokens, &m.CostUSD)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// Daily returns per-day aggregates for the last N days, oldest first. Days
// with partial data are included; days with no data are absent.
func (s *Store) Daily(days int) ([]model.DailyStats, error) {
	rows, err := s.db.Query(`
		SELECT DATE(timestamp) AS day,`+aggregateCols+`
		FROM turns
		WHERE DATE(timestamp) >= DATE('now', ?)
		GROUP BY DATE(timestamp)
		ORDER BY day ASC`,
		fmt.Sprintf("-%d days", days))
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var result []model.DailyStats
	for rows.Next() {
		var d model.DailyStats
		err := rows.Scan(&d.Day, &d.Sessions, &d.Turns, &d.InputTokens,
			&d.OutputTokens, &d.CacheCreationTokens, &d.CacheReadTokens, &d.CostUSD)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, rows.Err()
}
