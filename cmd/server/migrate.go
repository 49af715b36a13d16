package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pota-logger/backend/internal/storage"
)

func migrateCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := storage.Open(a.cfg.DatabaseDSN())
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer db.Close()

			pending, err := storage.PendingMigrations(db)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "database is up to date")
				return nil
			}

			for _, name := range pending {
				fmt.Fprintln(out, name)
			}
			if dryRun {
				return nil
			}

			if err := storage.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintf(out, "applied %d migration(s)\n", len(pending))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List pending migrations without applying them")

	return cmd
}
