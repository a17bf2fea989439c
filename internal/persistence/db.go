// Package persistence stores game snapshots in SQL. SQLite is the default;
// PostgreSQL is supported through the same queries, rebound per driver.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	_ "modernc.org/sqlite"

	"github.com/talgya/farmstead/internal/engine"
)

// Supported drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DB wraps a SQL connection for game state persistence.
type DB struct {
	conn   *sqlx.DB
	driver string
}

// Open opens or creates a database. For SQLite, dsn is a file path.
func Open(driver, dsn string) (*DB, error) {
	switch driver {
	case DriverSQLite:
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("open db: unsupported driver %q", driver)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	db := &DB{conn: conn, driver: driver}
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

// Driver returns the SQL driver name in use.
func (db *DB) Driver() string {
	return db.driver
}

func (db *DB) migrate() error {
	eventID := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	if db.driver == DriverPostgres {
		eventID = "id BIGSERIAL PRIMARY KEY"
	}

	schema := `
	CREATE TABLE IF NOT EXISTS farm_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS tiles (
		x INTEGER NOT NULL,
		z INTEGER NOT NULL,
		terrain INTEGER NOT NULL,
		tilled INTEGER NOT NULL,
		crop_stage DOUBLE PRECISION NOT NULL,
		structure INTEGER NOT NULL,
		PRIMARY KEY (x, z)
	);

	CREATE TABLE IF NOT EXISTS enemies (
		seq INTEGER PRIMARY KEY,
		id TEXT NOT NULL UNIQUE,
		pos_x DOUBLE PRECISION NOT NULL,
		pos_z DOUBLE PRECISION NOT NULL,
		health INTEGER NOT NULL,
		speed DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS structures (
		seq INTEGER PRIMARY KEY,
		x INTEGER NOT NULL,
		z INTEGER NOT NULL,
		pos_x DOUBLE PRECISION NOT NULL,
		pos_z DOUBLE PRECISION NOT NULL,
		damage INTEGER NOT NULL,
		reach DOUBLE PRECISION NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		` + eventID + `,
		tick BIGINT NOT NULL,
		description TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveMeta stores a key-value pair in farm metadata.
func (db *DB) SaveMeta(key, value string) error {
	return saveMeta(db.conn, key, value)
}

func saveMeta(e sqlx.Ext, key, value string) error {
	_, err := e.Exec(e.Rebind(
		"INSERT INTO farm_meta (key, value) VALUES (?, ?) ON CONFLICT (key) DO UPDATE SET value = excluded.value"),
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value. A missing key returns sql.ErrNoRows.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, db.conn.Rebind("SELECT value FROM farm_meta WHERE key = ?"), key)
	return value, err
}

// HasSnapshot reports whether a game has been saved.
func (db *DB) HasSnapshot() (bool, error) {
	_, err := db.GetMeta(metaTick)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SaveEvents appends events to the database.
func (db *DB) SaveEvents(events []engine.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	q := tx.Rebind("INSERT INTO events (tick, description, category) VALUES (?, ?, ?)")
	for _, e := range events {
		if _, err := tx.Exec(q, e.Tick, e.Description, e.Category); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RecentEvents returns the most recent N events, newest first.
func (db *DB) RecentEvents(limit int) ([]engine.Event, error) {
	var events []engine.Event
	err := db.conn.Select(&events,
		db.conn.Rebind("SELECT tick, description, category FROM events ORDER BY id DESC LIMIT ?"),
		limit,
	)
	return events, err
}

// SaveGame writes the snapshot and any pending events, then clears the
// game's dirty flag.
func (db *DB) SaveGame(g *engine.GameState) error {
	if err := db.SaveSnapshot(g.Snapshot()); err != nil {
		return err
	}
	if err := db.SaveEvents(g.FlushEvents()); err != nil {
		return fmt.Errorf("save events: %w", err)
	}
	g.MarkSaved()
	slog.Debug("game saved", "tick", g.LastTick)
	return nil
}
