// AngelaMos | 2026
// migrate.go

package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/pressly/goose/v3/lock"
)

//go:embed migrations/*.sql
var embedded embed.FS

// Migrations is the schema compiled into the binary.
func Migrations() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(fmt.Sprintf("migrate: embedded migrations: %v", err))
	}
	return sub
}

// Migrator applies goose migrations to Postgres. A session advisory lock
// keeps replicas that start together from migrating at the same time.
type Migrator struct {
	provider *goose.Provider
	logger   *slog.Logger
}

func New(db *sqlx.DB, logger *slog.Logger) (*Migrator, error) {
	return NewFromFS(db.DB, Migrations(), logger)
}

func NewFromFS(db *sql.DB, migrations fs.FS, logger *slog.Logger) (*Migrator, error) {
	locker, err := lock.NewPostgresSessionLocker()
	if err != nil {
		return nil, fmt.Errorf("migration lock: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations,
		goose.WithSessionLocker(locker),
	)
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{provider: provider, logger: logger}, nil
}

// Versions lists the known migrations in apply order.
func (m *Migrator) Versions() []int64 {
	sources := m.provider.ListSources()
	versions := make([]int64, len(sources))
	for i, s := range sources {
		versions[i] = s.Version
	}
	return versions
}

// Up applies every pending migration, each in its own transaction, and
// returns the versions it applied.
func (m *Migrator) Up(ctx context.Context) ([]int64, error) {
	results, err := m.provider.Up(ctx)

	applied := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Error != nil {
			continue
		}
		m.logger.Info("migration applied",
			"version", r.Source.Version,
			"file", r.Source.Path,
			"duration", r.Duration,
		)
		applied = append(applied, r.Source.Version)
	}

	if err != nil {
		return applied, fmt.Errorf("apply migrations: %w", err)
	}
	return applied, nil
}

// Current reports the highest applied version, 0 on an empty database.
func (m *Migrator) Current(ctx context.Context) (int64, error) {
	v, err := m.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("schema version: %w", err)
	}
	return v, nil
}
