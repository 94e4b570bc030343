package commands

import (
	"github.com/spf13/cobra"

	"nextbase/cmd/dbctl/output"
	"nextbase/internal/config"
	"nextbase/internal/model"
	"nextbase/internal/platform/mysql"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database and tables",
	Long: `Create the configured database when it is missing, then bring every table
up to date with the model definitions. Existing rows are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate()
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	output.Section("Migrate")
	if err := mysql.EnsureDatabase(ctx, cfg.MySQLServerDSN(), cfg.MySQL.DB); err != nil {
		return err
	}
	output.Success("database %q ready", cfg.MySQL.DB)

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer mysql.Close(db)

	if err := mysql.Migrate(db.WithContext(ctx), model.Tables()...); err != nil {
		return err
	}
	output.Success("%d tables migrated", len(model.Tables()))
	return nil
}
