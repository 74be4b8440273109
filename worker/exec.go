package worker

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"runtime"
	"time"
)

// result is the outcome of running a job's command to completion, to
// timeout, or to a spawn failure.
type result struct {
	exitErr  error
	stdout   string
	stderr   string
	elapsed  time.Duration
	timedOut bool
}

// runCommand executes command through the host's default shell — sh -c
// on Unix, cmd.exe /C on Windows — never split into argv and shelled out
// separately, since doing both is redundant and can surprise callers.
// stdout and stderr are captured separately so a successful run's output
// and a failed run's error message come from the stream callers expect.
//
// On timeout, the child is first asked to terminate gracefully; if it
// has not exited within killGrace, it is forcibly killed.
func runCommand(ctx context.Context, command string, timeout time.Duration, killGrace time.Duration) result {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := shellCommand(runCtx, command)
	cmd.WaitDelay = killGrace
	cmd.Cancel = gracefulCancel(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	return result{
		exitErr:  err,
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		elapsed:  elapsed,
		timedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}
}

func shellCommand(ctx context.Context, command string) *exec.Cmd {
	if runtime.GOOS == "windows" {
		return exec.CommandContext(ctx, "cmd.exe", "/C", command)
	}
	return exec.CommandContext(ctx, "sh", "-c", command)
}
