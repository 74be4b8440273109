//go:build windows

package worker

import "os/exec"

// gracefulCancel has no SIGTERM equivalent on Windows; the process is
// killed outright and cmd.WaitDelay still bounds how long Run waits for
// it to exit.
func gracefulCancel(cmd *exec.Cmd) func() error {
	return func() error {
		return cmd.Process.Kill()
	}
}
