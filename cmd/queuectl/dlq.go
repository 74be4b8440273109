package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func dlqCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "dlq", Short: "Inspect and revive dead-lettered jobs"}
	cmd.AddCommand(dlqListCommand(), dlqRetryCommand())
	return cmd
}

func dlqListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List dead-lettered jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			entries, err := q.ListDLQ(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("dead-letter queue is empty")
				return nil
			}
			for _, e := range entries {
				fmt.Printf("%s\t%s\t attempts=%d/%d\t %s\n", e.ID, e.Command, e.Attempts, e.MaxRetries, e.ErrorMessage)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of entries to list")
	return cmd
}

func dlqRetryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "retry <id>",
		Short: "Revive a dead-lettered job back to pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			j, err := q.RetryDead(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("revived job %s", j.ID)
			return nil
		},
	}
}
