package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"nextbase/internal/config"
	"nextbase/internal/platform/mysql"
)

var (
	// Global flags
	verbose bool
	timeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "dbctl",
	Short: "Database tooling for the nextbase API",
	Long: `dbctl prepares the MySQL database used by the nextbase API server.

Configuration is read the same way the server reads it: defaults, .env files,
the TOML file named by CONFIG_FILE, then DB_* environment variables.

Typical first run:
  dbctl check     # verify the server is reachable
  dbctl migrate   # create the database and tables
  dbctl seed      # load demo categories, users and products`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every SQL statement")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Deadline for the whole command")
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// openDatabase connects to the configured schema.
func openDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	db, err := mysql.New(ctx, mysql.Options{
		DSN:          cfg.MySQLDSN(),
		MaxOpenConns: 2,
		MaxIdleConns: 1,
		Verbose:      verbose,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database %q failed: %w", cfg.MySQL.DB, err)
	}
	return db, nil
}
