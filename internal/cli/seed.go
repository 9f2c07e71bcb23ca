package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/hugelabz/internal/events"
	"github.com/Skotchmaster/hugelabz/internal/repo"
	"github.com/Skotchmaster/hugelabz/internal/seed"
	"github.com/Skotchmaster/hugelabz/internal/service"
	"github.com/Skotchmaster/hugelabz/pkg/db"
	"github.com/Skotchmaster/hugelabz/pkg/logging"
)

var seedFile string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default categories, products and the admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, gdb, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close(gdb)
		ctx := logging.IntoContext(cmd.Context(), logger)

		data, err := seed.Default()
		if seedFile != "" {
			data, err = seed.LoadFile(seedFile)
		}
		if err != nil {
			return err
		}
		if data.Admin != nil {
			if cfg.SeedAdminEmail != "" {
				data.Admin.Email = cfg.SeedAdminEmail
			}
			if cfg.SeedAdminPassword != "" {
				data.Admin.Password = cfg.SeedAdminPassword
			}
		}

		if err := repo.Migrate(gdb); err != nil {
			return err
		}

		r := &repo.GormRepo{DB: gdb}
		s := &seed.Seeder{
			Repo:    r,
			Catalog: &service.CatalogService{Repo: r, Events: events.Nop{}},
			Auth:    &service.AuthService{Repo: r, Events: events.Nop{}},
		}
		rep, err := s.Run(ctx, data)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "seeded %d categories, %d products, admin created: %t\n", rep.Categories, rep.Products, rep.Admin)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedFile, "file", "", "YAML seed file (defaults to the built-in data)")
	rootCmd.AddCommand(seedCmd)
}
