// AngelaMos | 2026
// commands.go

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/carterperez-dev/boi-backend/internal/auth"
	"github.com/carterperez-dev/boi-backend/internal/config"
	"github.com/carterperez-dev/boi-backend/internal/core"
	"github.com/carterperez-dev/boi-backend/internal/migrate"
	"github.com/carterperez-dev/boi-backend/internal/user"
)

// bootstrap loads configuration and installs the process logger. The
// returned closer flushes the log file, if any.
func bootstrap() (*config.Config, *slog.Logger, io.Closer, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	logger, closer := core.NewLogger(cfg.Log)
	slog.SetDefault(logger)

	return cfg, logger, closer, nil
}

func runMigrations(ctx context.Context, db *core.Database, logger *slog.Logger) error {
	m, err := migrate.New(db.DB, logger)
	if err != nil {
		return err
	}

	applied, err := m.Up(ctx)
	if err != nil {
		return err
	}

	version, err := m.Current(ctx)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "applied", len(applied), "schema_version", version)
	return nil
}

func migrateCmd(ctx context.Context) error {
	cfg, logger, closer, err := bootstrap()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck // flushed on exit

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits next

	return runMigrations(ctx, db, logger)
}

func seedAdminsCmd(ctx context.Context) error {
	cfg, logger, closer, err := bootstrap()
	if err != nil {
		return err
	}
	defer closer.Close() //nolint:errcheck // flushed on exit

	if len(cfg.Admin.Accounts) == 0 {
		logger.Warn("no admin accounts configured")
		return nil
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close() //nolint:errcheck // process exits next

	return seedAdmins(ctx, cfg, db, logger)
}

func seedAdmins(
	ctx context.Context,
	cfg *config.Config,
	db *core.Database,
	logger *slog.Logger,
) error {
	users := user.NewService(user.NewRepository(db.DB))
	svc := auth.NewService(nil, users, nil, cfg.ReservedEmails(), logger)

	created, err := svc.SeedAdmins(ctx, cfg.Admin.Accounts)
	if err != nil {
		return err
	}
	logger.Info("admin accounts seeded",
		"configured", len(cfg.Admin.Accounts),
		"created", created,
	)
	return nil
}

func keygen(privatePath, publicPath string) error {
	for _, p := range []string{privatePath, publicPath} {
		if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
			return fmt.Errorf("create key directory: %w", err)
		}
	}
	return auth.GenerateKeyPair(privatePath, publicPath)
}
