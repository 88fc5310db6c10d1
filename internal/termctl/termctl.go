// Package termctl owns who holds the controlling terminal's
// foreground pgid, and what termios is active across pipeline
// execution. Grounded on elves-elvish's pkg/sys/eunix/tc.go, which
// wraps the same TIOCSPGRP/TIOCGPGRP ioctls used here.
package termctl

import (
	"golang.org/x/sys/unix"
)

// FD is the controlling terminal's file descriptor as seen by the
// shell process — always stdin.
const FD = 0

// Controller captures the shell's own termios once at startup and
// restores terminal foreground ownership/termios around every
// foreground pipeline.
type Controller struct {
	defaultTermios unix.Termios
	shellPGID      int
}

// New captures the current termios as the shell's default and
// records the shell's own process group.
func New() (*Controller, error) {
	t, err := unix.IoctlGetTermios(FD, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	pgid, err := unix.Getpgid(0)
	if err != nil {
		return nil, err
	}
	return &Controller{defaultTermios: *t, shellPGID: pgid}, nil
}

// CaptureCurrent snapshots the termios in effect right now, so it can
// be restored once a foreground pipeline finishes. It is captured per
// command run, not once at startup, so nested execution (e.g. `time
// <cmd>`) restores the caller's termios rather than always the
// shell's own default.
func (c *Controller) CaptureCurrent() (*unix.Termios, error) {
	return unix.IoctlGetTermios(FD, unix.TCGETS)
}

// Restore reapplies a previously captured termios.
func (c *Controller) Restore(t *unix.Termios) error {
	return unix.IoctlSetTermios(FD, unix.TCSETS, t)
}

// DefaultTermios returns the termios captured at shell startup.
// Spawned children are not reset to it: they inherit whatever termios
// the terminal has when they are forked.
func (c *Controller) DefaultTermios() unix.Termios {
	return c.defaultTermios
}

// ShellPGID returns the shell's own process group id.
func (c *Controller) ShellPGID() int {
	return c.shellPGID
}

// SetForeground makes pgid the terminal's foreground process group,
// open only for the duration of one foreground pipeline.
func SetForeground(pgid int) error {
	return unix.IoctlSetInt(FD, unix.TIOCSPGRP, pgid)
}

// Foreground returns the terminal's current foreground process group.
func Foreground() (int, error) {
	return unix.IoctlGetInt(FD, unix.TIOCGPGRP)
}

// ReclaimForeground gives the terminal back to the shell itself and
// restores trm, closing out the foreground handoff opened by
// SetForeground for the pipeline that just finished.
func (c *Controller) ReclaimForeground(trm *unix.Termios) error {
	if err := SetForeground(c.shellPGID); err != nil {
		return err
	}
	return c.Restore(trm)
}
