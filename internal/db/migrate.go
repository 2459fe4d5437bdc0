package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'active'
		            CHECK(status IN ('active','paused','done','archived')),
		start_date  TEXT NOT NULL,
		target_date TEXT,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS phases (
		id          TEXT PRIMARY KEY,
		project_id  TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		name        TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		end_date    TEXT NOT NULL,
		color       TEXT NOT NULL DEFAULT '',
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phases_project ON phases(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_phases_start ON phases(start_date)`,

	`CREATE TABLE IF NOT EXISTS phase_dependencies (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		predecessor_id TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		successor_id   TEXT NOT NULL REFERENCES phases(id) ON DELETE CASCADE,
		dep_type       TEXT NOT NULL DEFAULT 'FS'
		               CHECK(dep_type IN ('FS','SS','FF','SF')),
		lag_days       INTEGER NOT NULL DEFAULT 0,
		created_at     TEXT NOT NULL,
		UNIQUE (predecessor_id, successor_id, dep_type)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_phase_deps_project ON phase_dependencies(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_phase_deps_successor ON phase_dependencies(successor_id)`,

	`CREATE TABLE IF NOT EXISTS people (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		role         TEXT NOT NULL DEFAULT 'generic',
		weekly_hours REAL NOT NULL DEFAULT 40,
		status       TEXT NOT NULL DEFAULT 'active'
		             CHECK(status IN ('active','inactive')),
		created_at   TEXT NOT NULL,
		updated_at   TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS assignments (
		id             TEXT PRIMARY KEY,
		project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		person_id      TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		role           TEXT NOT NULL DEFAULT 'generic',
		allocation_pct INTEGER NOT NULL DEFAULT 100,
		start_date     TEXT NOT NULL,
		end_date       TEXT NOT NULL,
		created_at     TEXT NOT NULL,
		updated_at     TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_assignments_project ON assignments(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_assignments_person ON assignments(person_id)`,
}
