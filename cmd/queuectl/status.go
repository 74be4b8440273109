package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func statusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show state counts and domain configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			stats, err := q.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("pending:    %d\n", stats.Pending)
			fmt.Printf("processing: %d\n", stats.Processing)
			fmt.Printf("completed:  %d\n", stats.Completed)
			fmt.Printf("dead:       %d\n", stats.Dead)

			cfg, err := q.AllConfig(cmd.Context())
			if err != nil {
				return err
			}
			if len(cfg) > 0 {
				fmt.Println("\nconfig:")
				for k, v := range cfg {
					fmt.Printf("  %s = %s\n", k, v)
				}
			}
			return nil
		},
	}
}
