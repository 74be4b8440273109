package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/dashboard"
)

func dashboardCommand() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Start the read-only HTTP dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT, syscall.SIGHUP)
			go func() {
				sig := <-sigChan
				printWarn("received signal %v, shutting down gracefully...", sig)
				cancel()
			}()

			q, _, closeDB, err := openQueue(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			srv := dashboard.New(q, slog.Default())
			printSuccess("dashboard listening on :%d", port)
			return srv.Start(ctx, fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "HTTP port to listen on")
	return cmd
}
