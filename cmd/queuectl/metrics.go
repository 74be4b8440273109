package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl/job"
)

// metricsCommand prints the same derived execution statistics the
// dashboard's GET /api/stats serves, for operators who just want a quick
// terminal readout.
func metricsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Print execution statistics",
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
			recent, err := q.List(cmd.Context(), job.Completed, 0)
			if err != nil {
				return err
			}
			// List orders by priority and creation time; re-sort newest
			// completion first before taking the 100 most recent.
			sort.Slice(recent, func(a, b int) bool {
				ta, tb := recent[a].CompletedAt, recent[b].CompletedAt
				return ta != nil && (tb == nil || ta.After(*tb))
			})
			if len(recent) > 100 {
				recent = recent[:100]
			}

			var totalMS int64
			var counted int
			for _, j := range recent {
				if j.ExecutionMS != nil {
					totalMS += *j.ExecutionMS
					counted++
				}
			}

			var successRate int
			var avgMS float64
			if denom := stats.Completed + stats.Dead; denom > 0 {
				successRate = int(float64(stats.Completed) / float64(denom) * 100)
			}
			if counted > 0 {
				avgMS = float64(totalMS) / float64(counted)
			}

			fmt.Printf("completed:          %d\n", stats.Completed)
			fmt.Printf("dead:               %d\n", stats.Dead)
			fmt.Printf("success rate:       %d%%\n", successRate)
			fmt.Printf("avg execution time: %.1fms (last %d completed jobs)\n", avgMS, counted)
			return nil
		},
	}
}
