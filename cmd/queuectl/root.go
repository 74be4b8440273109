// Command queuectl is the command-line entry point: it wires cobra
// subcommands onto the Queue/Backend pair opened against --db-path, the
// way birdnet-go's cmd/root.go wires its subcommands onto shared
// settings.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"

	"github.com/queuectl/queuectl"
	qsql "github.com/queuectl/queuectl/sql"
)

// dbPath is bound to --db-path on the root command and read by every
// subcommand that needs a Queue.
var dbPath string

// RootCommand builds the queuectl root command and its full subcommand
// tree.
func RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "queuectl",
		Short:         "A durable background-job queue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&dbPath, "db-path", "queue.db", "path to the queue database file")
	if err := viper.BindPFlag("db-path", root.PersistentFlags().Lookup("db-path")); err != nil {
		fmt.Fprintf(os.Stderr, "error binding flags: %v\n", err)
	}

	root.AddCommand(
		enqueueCommand(),
		workerCommand(),
		statusCommand(),
		listCommand(),
		dlqCommand(),
		configCommand(),
		metricsCommand(),
		dashboardCommand(),
	)
	return root
}

// openQueue opens the database at dbPath, running schema init, and
// returns a ready-to-use Queue along with the concrete SQL backend (which
// also implements reaper.Store, needed by `worker start`). Every
// subcommand's RunE calls this first.
func openQueue(ctx context.Context) (*queuectl.Queue, *qsql.Backend, func() error, error) {
	sqlDB, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := qsql.InitDB(ctx, db); err != nil {
		sqlDB.Close()
		return nil, nil, nil, fmt.Errorf("init schema: %w", err)
	}
	backend := qsql.NewBackend(db)
	q := queuectl.New(backend, slog.Default())
	return q, backend, sqlDB.Close, nil
}

func main() {
	if err := RootCommand().Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
