package shell

import (
	"fmt"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// RequestExit is the two-step `exit`: the first call with live jobs
// warns and arms the pending-exit flag without terminating; a second
// call (or a call with no live jobs at all) runs the shutdown sequence
// and actually exits the process.
func (s *State) RequestExit(code int) {
	s.mu.Lock()
	armed := s.pendingExit
	s.mu.Unlock()

	if s.registry.Len() > 0 && !armed {
		fmt.Fprintln(s.stderr, "There are suspended jobs.")
		s.mu.Lock()
		s.pendingExit = true
		s.pendingExitCode = code
		s.mu.Unlock()
		return
	}

	s.Shutdown()
	s.saveHistory()
	os.Exit(code)
}

// Shutdown drives every still-alive job's process group through
// SIGCONT, SIGHUP, SIGTERM and, after a short grace period, SIGKILL.
// ESRCH (the group is already gone) is benign and ignored at every
// step.
func (s *State) Shutdown() {
	pgids := make(map[int]bool)
	for _, j := range s.registry.IterInOrder() {
		pgids[j.PGID] = true
	}

	for pgid := range pgids {
		signalGroup(pgid, unix.SIGCONT)
		signalGroup(pgid, unix.SIGHUP)
		signalGroup(pgid, unix.SIGTERM)
	}
	if len(pgids) == 0 {
		return
	}
	time.Sleep(10 * time.Millisecond)
	for pgid := range pgids {
		signalGroup(pgid, unix.SIGKILL)
	}
}

func signalGroup(pgid int, sig unix.Signal) {
	if err := unix.Kill(-pgid, sig); err != nil && err != unix.ESRCH {
		// best effort; nothing else to do with a stray signal failure
	}
}
