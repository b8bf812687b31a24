package sqlstore

import (
	"context"
	"fmt"
	"log/slog"

	"taskmaster/internal/config"
)

type migration struct {
	version  int
	name     string
	sqlite   []string
	postgres []string
}

func (m migration) statements(d dialect) []string {
	if d.name == config.DriverPostgres {
		return m.postgres
	}
	return m.sqlite
}

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// migrations is append-only; applied versions are never edited.
var migrations = []migration{
	{
		version: 1,
		name:    "create_users",
		sqlite: []string{`CREATE TABLE users (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`},
		postgres: []string{`CREATE TABLE users (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT NOT NULL UNIQUE,
            password_hash TEXT NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`},
	},
	{
		version: 2,
		name:    "create_tasks",
		sqlite: []string{`CREATE TABLE tasks (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            user_id INTEGER NOT NULL REFERENCES users(id),
            description TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'ongoing' CHECK (status IN ('ongoing', 'finished', 'cancelled')),
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`},
		postgres: []string{`CREATE TABLE tasks (
            id BIGSERIAL PRIMARY KEY,
            user_id BIGINT NOT NULL REFERENCES users(id),
            description TEXT NOT NULL,
            status TEXT NOT NULL DEFAULT 'ongoing' CHECK (status IN ('ongoing', 'finished', 'cancelled')),
            created_at TIMESTAMPTZ NOT NULL DEFAULT now()
        )`},
	},
	{
		version:  3,
		name:     "index_tasks_user_status",
		sqlite:   []string{`CREATE INDEX idx_tasks_user_status ON tasks(user_id, status)`},
		postgres: []string{`CREATE INDEX idx_tasks_user_status ON tasks(user_id, status)`},
	},
}

// LatestVersion is the schema version this build migrates to.
func LatestVersion() int {
	return migrations[len(migrations)-1].version
}

// Version reports the highest applied migration, or zero on a fresh database.
func (s *Store) Version(ctx context.Context) (int, error) {
	if _, err := s.db.ExecContext(ctx, createMigrationsTable); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}

	query, args, err := s.sb.Select("COALESCE(MAX(version), 0)").From("schema_migrations").ToSql()
	if err != nil {
		return 0, err
	}
	var version int
	if err := s.db.GetContext(ctx, &version, query, args...); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// Migrate applies every pending migration, each in its own transaction, and
// returns the resulting schema version.
func (s *Store) Migrate(ctx context.Context) (int, error) {
	current, err := s.Version(ctx)
	if err != nil {
		return 0, err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := s.apply(ctx, m); err != nil {
			return current, fmt.Errorf("migration %d (%s) failed: %w", m.version, m.name, err)
		}
		current = m.version
		s.logger.Info("applied migration", slog.Int("version", m.version), slog.String("name", m.name))
	}
	return current, nil
}

func (s *Store) apply(ctx context.Context, m migration) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range m.statements(s.dialect) {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}

	query, args, err := s.sb.Insert("schema_migrations").
		Columns("version", "name").
		Values(m.version, m.name).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}
