package commands

import (
	"errors"
	"syscall"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"

	"nextbase/cmd/dbctl/output"
	"nextbase/internal/config"
	"nextbase/internal/platform/mysql"
)

const errAccessDenied = 1045

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the MySQL server is reachable",
	Long: `Print the resolved connection settings, connect to the MySQL server and
report whether the configured database exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck()
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	output.Section("Connection settings")
	output.KeyValue("host", cfg.MySQL.Host)
	output.KeyValue("port", cfg.MySQL.Port)
	output.KeyValue("user", cfg.MySQL.User)
	output.KeyValue("password", maskPassword(cfg.MySQL.Password))
	output.KeyValue("database", cfg.MySQL.DB)

	ctx, cancel := commandContext()
	defer cancel()

	output.Section("Server")
	db, err := mysql.New(ctx, mysql.Options{DSN: cfg.MySQLServerDSN(), MaxOpenConns: 1, Verbose: verbose})
	if err != nil {
		output.Error("connect failed: %v", err)
		for _, hint := range connectHints(err) {
			output.Muted("  - %s", hint)
		}
		return errors.New("mysql server is not reachable")
	}
	defer mysql.Close(db)
	output.Success("connected to %s:%d", cfg.MySQL.Host, cfg.MySQL.Port)

	exists, err := mysql.HasDatabase(ctx, db, cfg.MySQL.DB)
	if err != nil {
		return err
	}
	if exists {
		output.Success("database %q exists", cfg.MySQL.DB)
	} else {
		output.Warning("database %q does not exist, run: dbctl migrate", cfg.MySQL.DB)
	}
	return nil
}

func maskPassword(password string) string {
	if password == "" {
		return "(none)"
	}
	return "***"
}

// connectHints suggests fixes for the common ways a first connection fails.
func connectHints(err error) []string {
	var mysqlErr *mysqldriver.MySQLError
	switch {
	case errors.As(err, &mysqlErr) && mysqlErr.Number == errAccessDenied:
		return []string{
			"the user name or password was rejected",
			"check DB_USER and DB_PASSWORD in .env.local or the config file",
		}
	case errors.Is(err, syscall.ECONNREFUSED):
		return []string{
			"nothing is listening on the configured host and port",
			"start MySQL, or point DB_HOST and DB_PORT at a running server",
		}
	default:
		return []string{
			"check that the MySQL service is running",
			"check DB_HOST, DB_PORT, DB_USER and DB_PASSWORD",
		}
	}
}
