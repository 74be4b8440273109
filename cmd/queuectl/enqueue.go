package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/queuectl/queuectl"
)

// enqueueRequest is the accepted JSON form of `enqueue <cmd-or-json>`. A
// bare string argument is equivalent to {"command": "<arg>"}.
type enqueueRequest struct {
	Command  string `json:"command"`
	Priority *int   `json:"priority"`
	Timeout  *int   `json:"timeout"`
	Delay    *int   `json:"delay"`
}

func enqueueCommand() *cobra.Command {
	var priority int
	var timeout int
	var delay int

	cmd := &cobra.Command{
		Use:   "enqueue <cmd-or-json>",
		Short: "Add a job to the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := parseEnqueueArg(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("priority") {
				req.Priority = &priority
			}
			if cmd.Flags().Changed("timeout") {
				req.Timeout = &timeout
			}
			if cmd.Flags().Changed("delay") {
				req.Delay = &delay
			}

			q, _, closeDB, err := openQueue(cmd.Context())
			if err != nil {
				return err
			}
			defer closeDB()

			input := queuectl.EnqueueInput{Command: req.Command, Priority: req.Priority, TimeoutSeconds: req.Timeout}
			if req.Delay != nil {
				runAt := time.Now().Add(time.Duration(*req.Delay) * time.Second)
				input.RunAt = &runAt
			}

			j, err := q.Enqueue(cmd.Context(), input)
			if err != nil {
				return err
			}
			printSuccess("enqueued job %s", j.ID)
			return nil
		},
	}

	cmd.Flags().IntVar(&priority, "priority", 0, "job priority, higher runs first")
	cmd.Flags().IntVar(&timeout, "timeout", 0, "per-attempt timeout in seconds")
	cmd.Flags().IntVar(&delay, "delay", 0, "seconds before the job becomes eligible to run")
	return cmd
}

// parseEnqueueArg accepts either a raw shell command or a JSON object
// describing the job fields.
func parseEnqueueArg(arg string) (enqueueRequest, error) {
	trimmed := strings.TrimSpace(arg)
	if strings.HasPrefix(trimmed, "{") {
		var req enqueueRequest
		if err := json.Unmarshal([]byte(trimmed), &req); err != nil {
			return enqueueRequest{}, fmt.Errorf("invalid job json: %w", err)
		}
		return req, nil
	}
	return enqueueRequest{Command: arg}, nil
}
