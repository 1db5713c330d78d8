package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"quickcart-be/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultSource = "file://migrations"

// migrator is the subset of *migrate.Migrate the commands drive.
type migrator interface {
	Up() error
	Steps(n int) error
	Version() (uint, bool, error)
	Close() (error, error)
}

var newMigrator = func(source, dbURL string) (migrator, error) {
	return migrate.New(source, dbURL)
}

func main() {
	_ = godotenv.Load()
	defer logger.Sync()

	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	var dbURL, source string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back the database schema",
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&dbURL, "db", os.Getenv("DB_URL"), "Postgres URL (defaults to $DB_URL)")
	root.PersistentFlags().StringVar(&source, "source", envOr("MIGRATIONS_PATH", defaultSource), "migration source URL")

	// open builds the migrator from the resolved flags.
	open := func() (migrator, func(), error) {
		if dbURL == "" {
			return nil, nil, errors.New("DB_URL not set: pass --db or set it in the environment")
		}
		m, err := newMigrator(source, dbURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
		}
		return m, func() { _, _ = m.Close() }, nil
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, done, err := open()
				if err != nil {
					return err
				}
				defer done()
				return runUp(cmd.OutOrStdout(), m)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, done, err := open()
				if err != nil {
					return err
				}
				defer done()
				return runDown(cmd.OutOrStdout(), m)
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				m, done, err := open()
				if err != nil {
					return err
				}
				defer done()
				return runVersion(cmd.OutOrStdout(), m)
			},
		},
	)

	return root
}

func runUp(out io.Writer, m migrator) error {
	err := m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Fprintln(out, "no pending migrations")
		return nil
	}
	if err != nil {
		logger.L().Error("migration up failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "✅ migrations applied")
	return nil
}

func runDown(out io.Writer, m migrator) error {
	err := m.Steps(-1)
	if errors.Is(err, migrate.ErrNoChange) || errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "no migrations to roll back")
		return nil
	}
	if err != nil {
		logger.L().Error("migration down failed", zap.Error(err))
		return err
	}
	fmt.Fprintln(out, "✅ rolled back one migration")
	return nil
}

func runVersion(out io.Writer, m migrator) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(out, "no migrations applied yet")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "version %d (dirty: %t)\n", version, dirty)
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
