package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
	"github.com/queuectl/queuectl/reaper"
	"github.com/queuectl/queuectl/worker"
)

func workerCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "worker", Short: "Run the worker pool"}
	cmd.AddCommand(workerStartCommand())
	return cmd
}

func workerStartCommand() *cobra.Command {
	var count int

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Run the worker pool until interrupted",
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

			q, backend, closeDB, err := openQueue(ctx)
			if err != nil {
				return err
			}
			defer closeDB()

			log := slog.Default()
			r := reaper.New(backend, reaper.Config{Threshold: job.DefaultReaperThreshold}, log)

			cfg := worker.DefaultConfig(count)
			cfg.Reaper = r
			pool := worker.NewPool(q, cfg, log)

			if err := pool.Start(ctx); err != nil {
				return err
			}
			printSuccess("worker pool started with %d workers", count)
			<-ctx.Done()
			return pool.Stop(10 * time.Second)
		},
	}

	cmd.Flags().IntVar(&count, "count", 4, "number of worker goroutines")
	return cmd
}
