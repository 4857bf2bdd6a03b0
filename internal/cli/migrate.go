package cli

import (
	"context"
	"database/sql"
	"fmt"

	"mock-interview-service/internal/config"
	pgmigrations "mock-interview-service/internal/infra/postgres/migrations"
	"mock-interview-service/internal/logger"

	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// NewMigrateCmd applies database migrations.
func NewMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the catalog table and seed the default catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrations(cmd.Context(), *configPath)
		},
	}
}

func runMigrations(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	l, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return err
	}
	defer l.Sync()
	return runMigrationsWithConfig(ctx, cfg, l)
}

func runMigrationsWithConfig(ctx context.Context, cfg config.Config, l *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)

	if err := migrator.Init(ctx); err != nil {
		return err
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}
	if group.IsZero() {
		l.Info("no new migrations")
		return nil
	}
	l.Info("migrations applied", zap.String("group", group.String()))
	return nil
}
