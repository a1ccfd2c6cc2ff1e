package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"coachreports/internal/cache"
	"coachreports/internal/config"
	"coachreports/internal/database"
)

// app is the state shared by subcommands: configuration, an open, migrated
// database and the report cache the server reads from
type app struct {
	cfg   *config.Config
	db    *database.DB
	cache cache.Cache
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}

	rootCmd := &cobra.Command{
		Use:   "coachctl",
		Short: "Administer the coach reports database",
		Long: `coachctl runs migrations, loads YAML fixtures, manages classes and coach
accounts, prints reports and moves data in and out as JSON backups.

Connection settings come from the same environment variables as the server
(DATABASE_TYPE, DB_PATH, DATABASE_URL, MIGRATIONS_PATH, REDIS_URL). Commands
that change enrollment or activity drop the affected cached report pages.`,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}
			return a.open(cmd.Context())
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return a.close()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfg.DatabaseType, "db-type", a.cfg.DatabaseType, "database type: sqlite, postgres or mysql")
	flags.StringVar(&a.cfg.DatabasePath, "db", a.cfg.DatabasePath, "SQLite database path")
	flags.StringVar(&a.cfg.DatabaseURL, "db-url", a.cfg.DatabaseURL, "PostgreSQL or MySQL connection URL")
	flags.StringVar(&a.cfg.MigrationsPath, "migrations", a.cfg.MigrationsPath, "migrations directory")
	flags.StringVar(&a.cfg.RedisURL, "redis-url", a.cfg.RedisURL, "report cache URL; empty disables the cache")

	rootCmd.AddCommand(
		newMigrateCmd(),
		newSeedCmd(a),
		newClassesCmd(a),
		newCoachCmd(a),
		newReportCmd(a),
		newBackupCmd(a),
	)
	return rootCmd
}

// open connects, brings the schema up to date and attaches the report cache
func (a *app) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db, err := database.InitializeWithConfig(a.cfg)
	if err != nil {
		return err
	}
	if err := db.RunMigrations(a.cfg.MigrationsPath); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	a.db = db

	a.cache = cache.Nop{}
	if a.cfg.RedisURL != "" {
		redisCache, err := cache.New(ctx, a.cfg.RedisURL, a.cfg.ReportCacheTTL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: report cache unavailable, cached pages are not invalidated: %v\n", err)
		} else {
			a.cache = redisCache
		}
	}
	return nil
}

func (a *app) close() error {
	if c, ok := a.cache.(*cache.RedisCache); ok {
		c.Close()
	}
	a.cache = nil
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
