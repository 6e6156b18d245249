package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/xyz-asif/todoapi/internal/config"
	"github.com/xyz-asif/todoapi/internal/database"
	"github.com/xyz-asif/todoapi/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the todo_items schema",
	Long:          `Applies, rolls back and inspects the embedded goose migrations against the configured PostgreSQL database.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func gooseCommand(use, short string, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd.Context(), cmd.Name(), args)
		},
	}
}

func init() {
	rootCmd.AddCommand(
		gooseCommand("up", "Apply all pending migrations", cobra.NoArgs),
		gooseCommand("up-to <version>", "Apply migrations up to a version", cobra.ExactArgs(1)),
		gooseCommand("down", "Roll back the latest migration", cobra.NoArgs),
		gooseCommand("down-to <version>", "Roll back migrations down to a version", cobra.ExactArgs(1)),
		gooseCommand("redo", "Roll back and reapply the latest migration", cobra.NoArgs),
		gooseCommand("reset", "Roll back all migrations", cobra.NoArgs),
		gooseCommand("status", "Print the status of all migrations", cobra.NoArgs),
		gooseCommand("version", "Print the current schema version", cobra.NoArgs),
	)
}

// set in main before any command runs
var (
	cfg    *config.Config
	logger logging.Logger = logging.Nop()
)

func migrate(ctx context.Context, command string, args []string) error {
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info(ctx, "Database connected", "command", command)
	if err := db.Migrate(ctx, command, args...); err != nil {
		return err
	}

	logger.Info(ctx, "Migration finished", "command", command)
	return nil
}

func main() {
	cfg = config.Load()
	handle := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	logger = handle

	ctx := context.Background()
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error(ctx, "Migration failed", "error", err)
	}

	_ = handle.Close()
	if err != nil {
		os.Exit(1)
	}
}
