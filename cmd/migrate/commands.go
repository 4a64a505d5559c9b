package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mealbook/backend/config"
	"github.com/mealbook/backend/internal/database"
)

type dbOpener func() (*gorm.DB, error)

func openDatabase() (*gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.New(cfg)
}

func newRootCommand(open dbOpener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the meal database schema",
		Long: `Apply and inspect database migrations.

Connection settings are read from the environment (DB_DRIVER, DB_HOST, ...)
and from a .env file when present.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newUpCommand(open))
	cmd.AddCommand(newStatusCommand(open))

	return cmd
}

func newUpCommand(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := database.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newStatusCommand(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "List migrations and whether they were applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			defer database.Close(db)

			states, err := database.MigrationStatus(db)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tSTATUS\tAPPLIED AT")
			for _, state := range states {
				status, appliedAt := "pending", "-"
				if state.Applied {
					status = "applied"
					appliedAt = state.AppliedAt.Format(time.RFC3339)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", state.Name, status, appliedAt)
			}
			return w.Flush()
		},
	}
}
