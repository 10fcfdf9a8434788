package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/janakawicks/manageiq/internal/config"
	"github.com/janakawicks/manageiq/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the capture store schema",
	Long: `Apply or inspect the SQL migrations bundled with the binary. Each
migration is applied once and recorded in schema_migrations with its
checksum.`,
	Example: `  livemetrics migrate up
  livemetrics migrate status`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateUp,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show applied and pending migrations",
	Args:  cobra.NoArgs,
	RunE:  runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateStatusCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return withDatabase(ctx, func(ctx context.Context, _ *config.Config, database *db.DB) error {
		applied, err := db.NewMigrator(database.DB).Up(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if outputFormat == outputJSON {
			return writeJSON(out, applied)
		}
		if len(applied) == 0 {
			_, err = fmt.Fprintln(out, "Schema is up to date")
			return err
		}
		for _, name := range applied {
			if _, err := fmt.Fprintf(out, "Applied %s\n", name); err != nil {
				return err
			}
		}
		return nil
	})
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	return withDatabase(ctx, func(ctx context.Context, _ *config.Config, database *db.DB) error {
		statuses, err := db.NewMigrator(database.DB).Status(ctx)
		if err != nil {
			return err
		}
		if outputFormat == outputJSON {
			return writeJSON(cmd.OutOrStdout(), statuses)
		}
		return renderMigrations(cmd.OutOrStdout(), statuses)
	})
}
