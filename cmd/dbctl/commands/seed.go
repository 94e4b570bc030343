package commands

import (
	"github.com/spf13/cobra"

	"nextbase/cmd/dbctl/output"
	"nextbase/internal/config"
	"nextbase/internal/platform/mysql"
	"nextbase/internal/seed"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo categories, users and products",
	Long: `Insert the demo data set. Rows that already exist, matched by their unique
name, username or email, are left untouched, so seed can run repeatedly.

Run dbctl migrate first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed() error {
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

	output.Section("Seed")
	report, err := seed.New(db).Run(ctx, seed.Default())
	if report != nil {
		printCount("categories", report.Categories)
		printCount("users", report.Users)
		printCount("products", report.Products)
	}
	return err
}

func printCount(table string, c seed.Count) {
	if c.Created > 0 {
		output.Success("%s: %d created, %d already present", table, c.Created, c.Skipped)
		return
	}
	output.Info("%s: nothing to do, %d already present", table, c.Skipped)
}
