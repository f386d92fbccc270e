// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package main

import (
	"context"
	"database/sql"
	"fmt"

	"codeberg.org/oliverandrich/go-redirector/internal/database"
	"github.com/urfave/cli/v3"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Manage the database schema",
		Commands: []*cli.Command{
			{
				Name:   "up",
				Usage:  "Apply all pending migrations",
				Action: withDatabase(database.RunMigrations),
			},
			{
				Name:   "down",
				Usage:  "Roll back the last migration",
				Action: withDatabase(database.MigrateDown),
			},
			{
				Name:   "reset",
				Usage:  "Roll back all migrations",
				Action: withDatabase(database.MigrateReset),
			},
			{
				Name:   "status",
				Usage:  "Print the applied schema version",
				Action: withDatabase(func(*sql.DB) error { return nil }),
			},
		},
	}
}

// withDatabase opens the configured database without migrating it, runs fn
// and prints the resulting schema version.
func withDatabase(fn func(db *sql.DB) error) cli.ActionFunc {
	return func(_ context.Context, cmd *cli.Command) error {
		dsn := cmd.String("database-dsn")
		db, err := database.Connect(dsn)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			_ = db.Close()
		}()

		if err := fn(db.DB); err != nil {
			return fmt.Errorf("migrate %s: %w", cmd.Name, err)
		}

		version, err := database.MigrationVersion(db.DB)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		_, err = fmt.Fprintf(cmd.Root().Writer, "schema version: %d\n", version)
		return err
	}
}
