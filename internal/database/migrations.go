package database

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// migrations is the ordered, embedded schema history. New schema changes are
// appended with the next version number, never edited in place.
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_towers_and_positions",
		SQL: `
			CREATE TABLE IF NOT EXISTS towers (
				id   TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				lat  REAL NOT NULL,
				lng  REAL NOT NULL,
				city TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS positions (
				device_id   TEXT NOT NULL,
				hour        INTEGER NOT NULL,
				device_name TEXT NOT NULL,
				lat         REAL NOT NULL,
				lng         REAL NOT NULL,
				tower_id    TEXT,
				tower_name  TEXT,
				owner_id    TEXT,
				owner_name  TEXT NOT NULL DEFAULT '',
				owner_alias TEXT NOT NULL DEFAULT '',
				is_suspect  INTEGER NOT NULL DEFAULT 0,
				is_burner   INTEGER NOT NULL DEFAULT 0,
				device_type TEXT NOT NULL DEFAULT 'phone',
				city        TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (device_id, hour)
			);
			CREATE INDEX IF NOT EXISTS idx_positions_hour ON positions(hour);
		`,
	},
	{
		Version: 2,
		Name:    "create_entities",
		SQL: `
			CREATE TABLE IF NOT EXISTS persons (
				id               TEXT PRIMARY KEY,
				name             TEXT NOT NULL,
				original_name    TEXT NOT NULL DEFAULT '',
				alias            TEXT NOT NULL DEFAULT '',
				threat_level     TEXT NOT NULL DEFAULT 'low',
				criminal_history TEXT NOT NULL DEFAULT '',
				total_score      REAL NOT NULL DEFAULT 0,
				rank             INTEGER NOT NULL DEFAULT 0,
				is_suspect       INTEGER NOT NULL DEFAULT 0,
				home_city        TEXT NOT NULL DEFAULT ''
			);
			CREATE TABLE IF NOT EXISTS devices (
				id          TEXT PRIMARY KEY,
				owner_id    TEXT REFERENCES persons(id),
				name        TEXT NOT NULL,
				device_type TEXT NOT NULL DEFAULT 'phone',
				is_burner   INTEGER NOT NULL DEFAULT 0,
				link_status TEXT NOT NULL DEFAULT 'unresolved'
			);
			CREATE TABLE IF NOT EXISTS person_cities (
				person_id TEXT NOT NULL REFERENCES persons(id),
				city      TEXT NOT NULL,
				PRIMARY KEY (person_id, city)
			);
			CREATE TABLE IF NOT EXISTS custom_titles (
				kind      TEXT NOT NULL,
				entity_id TEXT NOT NULL,
				title     TEXT NOT NULL,
				PRIMARY KEY (kind, entity_id)
			);
		`,
	},
	{
		Version: 3,
		Name:    "create_cases_and_edges",
		SQL: `
			CREATE TABLE IF NOT EXISTS cases (
				id              TEXT PRIMARY KEY,
				case_type       TEXT NOT NULL,
				city            TEXT NOT NULL,
				state           TEXT NOT NULL,
				address         TEXT NOT NULL DEFAULT '',
				incident_hour   INTEGER NOT NULL,
				lat             REAL NOT NULL,
				lng             REAL NOT NULL,
				h3_cell         TEXT NOT NULL DEFAULT '',
				method_of_entry TEXT NOT NULL DEFAULT '',
				target_items    TEXT NOT NULL DEFAULT '',
				estimated_loss  REAL NOT NULL DEFAULT 0,
				narrative       TEXT NOT NULL DEFAULT '',
				status          TEXT NOT NULL DEFAULT 'open'
			);
			CREATE TABLE IF NOT EXISTS social_edges (
				entity_id_1       TEXT NOT NULL,
				entity_id_2       TEXT NOT NULL,
				relationship_type TEXT NOT NULL,
				weight            REAL NOT NULL DEFAULT 0,
				confidence        REAL NOT NULL DEFAULT 0,
				source            TEXT NOT NULL DEFAULT '',
				PRIMARY KEY (entity_id_1, entity_id_2, relationship_type)
			);
			CREATE TABLE IF NOT EXISTS co_presence (
				entity_id_1         TEXT NOT NULL,
				entity_id_2         TEXT NOT NULL,
				h3_cell             TEXT NOT NULL,
				city                TEXT NOT NULL,
				co_occurrence_count INTEGER NOT NULL DEFAULT 1,
				first_seen_hour     INTEGER NOT NULL,
				last_seen_hour      INTEGER NOT NULL,
				PRIMARY KEY (entity_id_1, entity_id_2, h3_cell)
			);
		`,
	},
}

// MigrationManager applies the embedded migration history.
type MigrationManager struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *sql.DB, logger *zap.Logger) *MigrationManager {
	return &MigrationManager{db: db, logger: logger}
}

// InitMigrationsTable creates the migrations tracking table
func (m *MigrationManager) InitMigrationsTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := m.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

// GetAppliedMigrations returns a list of applied migration versions
func (m *MigrationManager) GetAppliedMigrations() (map[int]bool, error) {
	rows, err := m.db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}

	return applied, rows.Err()
}

// ApplyMigration applies a single migration
func (m *MigrationManager) ApplyMigration(migration Migration) error {
	return Transaction(m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(migration.SQL); err != nil {
			return fmt.Errorf("failed to execute migration %d: %w", migration.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)",
			migration.Version, migration.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		m.logger.Info("applied migration",
			zap.Int("version", migration.Version), zap.String("name", migration.Name))
		return nil
	})
}

// RunMigrations runs all pending migrations
func (m *MigrationManager) RunMigrations() error {
	if err := m.InitMigrationsTable(); err != nil {
		return err
	}

	applied, err := m.GetAppliedMigrations()
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}
		if err := m.ApplyMigration(migration); err != nil {
			return err
		}
	}

	return nil
}
