package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

func listCommand() *cobra.Command {
	var state string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs by state",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := job.Unknown
			if state != "" {
				parsed, err := job.ParseStatus(state)
				if err != nil {
					return err
				}
				status = parsed
			}

			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			jobs, err := q.List(cmd.Context(), status, limit)
			if err != nil {
				return err
			}
			if len(jobs) == 0 {
				fmt.Println("no jobs")
				return nil
			}
			for _, j := range jobs {
				fmt.Printf("%s\t%s\t%s\t attempts=%d/%d\n", j.ID, j.Status, j.Command, j.Attempts, j.MaxRetries)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "filter by job state (pending, processing, completed, dead)")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of jobs to list")
	return cmd
}
