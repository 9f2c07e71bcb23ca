package cli

import (
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/pkg/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := repo.Migrate(gdb); err != nil {
			return err
		}
		logger.Info("migrate_complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
