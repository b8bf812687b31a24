package sqlstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"taskmaster/internal/config"
	"taskmaster/internal/logging"
)

// Store wraps access to the relational database and exposes high level helpers.
type Store struct {
	db      *sqlx.DB
	dialect dialect
	sb      sq.StatementBuilderType
	logger  *slog.Logger
}

// Open connects to the configured database and applies pending migrations.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	s, err := Connect(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if _, err := s.Migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Connect opens the database without touching the schema.
func Connect(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*Store, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("empty database dsn")
	}

	dsn := cfg.DSN
	switch cfg.Driver {
	case config.DriverSQLite:
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
		dsn = sqliteDSN(dsn)
	case config.DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := sqlx.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == config.DriverSQLite {
		conn.SetMaxOpenConns(1)
		conn.SetConnMaxLifetime(0)
	} else if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.Driver, err)
	}

	return New(conn, logger), nil
}

// New wraps an already opened connection. The dialect follows db.DriverName().
func New(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.Discard()
	}
	d := dialectFor(db.DriverName())
	return &Store{
		db:      db,
		dialect: d,
		sb:      sq.StatementBuilder.PlaceholderFormat(d.placeholder),
		logger:  logger,
	}
}

// Close releases the database resources.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", path)
}

func ensureDir(dbPath string) error {
	if strings.HasPrefix(dbPath, "file:") || dbPath == ":memory:" {
		return nil
	}
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
