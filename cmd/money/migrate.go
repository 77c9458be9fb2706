package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/wapinheiro/money/internal/storage"
)

func migrateCmd(a *app) *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates automatically; use --status to inspect the
schema without changing it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dbPath := a.settings.Database.Path

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			before, err := store.SchemaVersion(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if status {
				fmt.Fprintln(out, TitleStyle.Render("Database migration status"))
				fmt.Fprintf(out, "Database:        %s\n", dbPath)
				fmt.Fprintf(out, "Current version: %d\n", before)
				fmt.Fprintf(out, "Latest version:  %d\n", storage.ExpectedSchemaVersion)
				return nil
			}

			slog.Info("running database migrations", "database", dbPath, "from", before)
			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Fprintln(out, SuccessStyle.Render(fmt.Sprintf(
				"✓ Database at schema version %d (was %d)", storage.ExpectedSchemaVersion, before)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "show the schema version without applying changes")

	return cmd
}
