package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"nextbase/cmd/dbctl/output"
	"nextbase/internal/config"
	"nextbase/internal/model"
	"nextbase/internal/platform/mysql"
	"nextbase/internal/seed"
)

var (
	// Reset flags
	force    bool
	withSeed bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Drop and recreate every table",
	Long: `Drop all application tables and create them again. Every row is lost.

Examples:
  dbctl reset --force          # empty schema
  dbctl reset --force --seed   # empty schema plus demo data`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReset()
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)

	resetCmd.Flags().BoolVar(&force, "force", false, "Confirm that all data may be deleted")
	resetCmd.Flags().BoolVar(&withSeed, "seed", false, "Load demo data after the reset")
}

func runReset() error {
	if !force {
		return fmt.Errorf("reset deletes every row; pass --force to continue")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer mysql.Close(db)

	output.Section("Reset")
	output.Warning("dropping tables in %q", cfg.MySQL.DB)
	if err := mysql.Reset(db.WithContext(ctx), model.Tables()...); err != nil {
		return err
	}
	output.Success("%d tables recreated", len(model.Tables()))

	if !withSeed {
		return nil
	}
	report, err := seed.New(db).Run(ctx, seed.Default())
	if err != nil {
		return err
	}
	output.Success("seeded %d categories, %d users, %d products",
		report.Categories.Created, report.Users.Created, report.Products.Created)
	return nil
}
