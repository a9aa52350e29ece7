// Package persistence provides the SQLite scenario catalog: named
// simulation configurations that can be saved once and run many times.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"

	"github.com/talgya/outpost/internal/config"
	"github.com/talgya/outpost/internal/engine"
)

// SchemaVersion is written to catalog_meta on migration.
const SchemaVersion = "1"

// ErrScenarioNotFound is returned when no scenario has the requested name.
var ErrScenarioNotFound = errors.New("scenario not found")

// NotFoundError reports a missing scenario and the closest stored name.
type NotFoundError struct {
	Name       string
	Suggestion string
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("scenario %q not found (did you mean %q?)", e.Name, e.Suggestion)
	}
	return fmt.Sprintf("scenario %q not found", e.Name)
}

// Is makes errors.Is(err, ErrScenarioNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrScenarioNotFound
}

// Scenario is a stored simulation configuration.
type Scenario struct {
	ID          string
	Name        string
	Description string
	Simulation  config.SimulationConfig
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type scenarioRow struct {
	ID          string `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
	Body        string `db:"body"`
	CreatedAt   int64  `db:"created_at"`
	UpdatedAt   int64  `db:"updated_at"`
}

// DB wraps a SQLite connection for the scenario catalog.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
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
	CREATE TABLE IF NOT EXISTS scenarios (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS catalog_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.conn.Exec(schema); err != nil {
		return err
	}
	return db.SaveMeta("schema_version", SchemaVersion)
}

// SaveScenario stores sim under name, replacing any scenario with the same
// name while keeping its ID and creation time.
func (db *DB) SaveScenario(name, description string, sim config.SimulationConfig) (*Scenario, error) {
	if name == "" {
		return nil, errors.New("scenario name must not be empty")
	}
	if _, err := sim.Params(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}

	body, err := yaml.Marshal(sim)
	if err != nil {
		return nil, fmt.Errorf("encode scenario %q: %w", name, err)
	}

	now := time.Now().Unix()
	_, err = db.conn.Exec(`INSERT INTO scenarios
		(id, name, description, body, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description = excluded.description,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		uuid.NewString(), name, description, string(body), now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("save scenario %q: %w", name, err)
	}

	slog.Info("scenario saved", "name", name)
	return db.LoadScenario(name)
}

// LoadScenario returns the scenario stored under name.
func (db *DB) LoadScenario(name string) (*Scenario, error) {
	var row scenarioRow
	err := db.conn.Get(&row, "SELECT id, name, description, body, created_at, updated_at FROM scenarios WHERE name = ?", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, db.notFound(name)
	}
	if err != nil {
		return nil, fmt.Errorf("load scenario %q: %w", name, err)
	}
	return row.decode()
}

// ListScenarios returns every stored scenario ordered by name.
func (db *DB) ListScenarios() ([]*Scenario, error) {
	var rows []scenarioRow
	err := db.conn.Select(&rows, "SELECT id, name, description, body, created_at, updated_at FROM scenarios ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list scenarios: %w", err)
	}

	out := make([]*Scenario, 0, len(rows))
	for _, r := range rows {
		s, err := r.decode()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// DeleteScenario removes the scenario stored under name.
func (db *DB) DeleteScenario(name string) error {
	res, err := db.conn.Exec("DELETE FROM scenarios WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete scenario %q: %w", name, err)
	}
	if n == 0 {
		return db.notFound(name)
	}
	slog.Info("scenario deleted", "name", name)
	return nil
}

// SaveMeta stores a key-value pair in catalog metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO catalog_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM catalog_meta WHERE key = ?", key)
	return value, err
}

func (db *DB) notFound(name string) error {
	var names []string
	if err := db.conn.Select(&names, "SELECT name FROM scenarios"); err != nil {
		slog.Debug("scenario suggestion lookup failed", "error", err)
	}
	return &NotFoundError{Name: name, Suggestion: closest(name, names)}
}

// closest returns the candidate nearest to name by edit distance, or ""
// if none is within a third of the name's length (minimum 2 edits).
func closest(name string, candidates []string) string {
	limit := len(name) / 3
	if limit < 2 {
		limit = 2
	}

	best, bestDist := "", limit+1
	for _, c := range candidates {
		if d := levenshtein.ComputeDistance(name, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func (r scenarioRow) decode() (*Scenario, error) {
	var sim config.SimulationConfig
	if err := yaml.Unmarshal([]byte(r.Body), &sim); err != nil {
		return nil, fmt.Errorf("decode scenario %q: %w", r.Name, err)
	}
	// Scenarios saved before the year cap existed have none.
	if sim.MaxYears == 0 {
		sim.MaxYears = engine.DefaultMaxYears
	}
	return &Scenario{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Simulation:  sim,
		CreatedAt:   time.Unix(r.CreatedAt, 0),
		UpdatedAt:   time.Unix(r.UpdatedAt, 0),
	}, nil
}
