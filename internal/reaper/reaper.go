// Package reaper collects exited children: waitpid-based blocking
// collection for foreground pipelines, classification of exit/stop/
// signal status, and the WNOHANG probe used by background reaping and
// the `jobs` builtin. Grounded on elves-elvish's
// pkg/eval/externalcmd.go (Wait4 + WaitStatus classification),
// generalized into a registry update rather than a side-channel state
// flag.
package reaper

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"gosh/internal/job"
)

// WaitForeground blocks on j.PID until it exits, is killed by a
// signal, or stops. A stop is reported with a message and ends the
// wait with j marked Stopped and still in reg, so the command can be
// resumed later with `fg` or `bg`. EINTR is retried; ECHILD is treated as benign (someone else
// already reaped this pid). On return, j has been removed from reg
// unless it stopped.
func WaitForeground(j *job.Job, reg *job.Registry, stderr *os.File) error {
	for {
		var ws unix.WaitStatus
		_, err := unix.Wait4(j.PID, &ws, unix.WUNTRACED, nil)
		if err == unix.EINTR {
			continue
		}
		if err == unix.ECHILD {
			reg.Remove(j.PID)
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case ws.Exited():
			j.SetExit(ws.ExitStatus())
			reg.Remove(j.PID)
			return nil
		case ws.Signaled():
			fmt.Fprintf(stderr, "%s: exited due to signal %d\n", j.Cmd, ws.Signal())
			j.SetSignaled(int(ws.Signal()))
			reg.Remove(j.PID)
			return nil
		case ws.Stopped():
			fmt.Fprintf(stderr, "[%d] %s(%d) %s\n", j.JobID, j.Cmd, j.PID, ws.StopSignal())
			j.SetStopped(int(ws.StopSignal()))
			return nil
		default:
			j.SetExit(-1)
			reg.Remove(j.PID)
			return nil
		}
	}
}

// ProbeBackground runs a single non-blocking waitpid on every
// background job in reg, updating and removing any that have finished.
// Used by the `jobs` builtin and once per REPL loop iteration.
func ProbeBackground(reg *job.Registry) {
	for _, j := range reg.IterInOrder() {
		if !j.Background {
			continue
		}
		var ws unix.WaitStatus
		wpid, err := unix.Wait4(j.PID, &ws, unix.WNOHANG, nil)
		if err != nil || wpid == 0 {
			continue
		}
		switch {
		case ws.Exited():
			j.SetExit(ws.ExitStatus())
			reg.Remove(j.PID)
		case ws.Signaled():
			j.SetSignaled(int(ws.Signal()))
			reg.Remove(j.PID)
		case ws.Stopped():
			j.SetStopped(int(ws.StopSignal()))
		}
	}
}
