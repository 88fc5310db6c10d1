package spawn

import (
	"golang.org/x/sys/unix"

	"gosh/internal/ast"
)

// applyRewiringsInProcess dup2s each rewiring's source fd onto its
// target fd in the shell's own process, for the case where argv[0]
// names a built-in and the subcommand still carries redirections
// (e.g. `pwd > out.txt`). It returns a restore func that undoes every
// change in reverse order, or nil when there were no rewirings to
// apply (or when applying one failed); a built-in never forks, but its own
// redirections must still take effect around the in-process call.
func applyRewiringsInProcess(rewirings []ast.Rewiring) (restore func(), err error) {
	type saved struct {
		target, savedFD int
	}
	var saves []saved

	rollback := func() {
		for i := len(saves) - 1; i >= 0; i-- {
			unix.Dup2(saves[i].savedFD, saves[i].target)
			unix.Close(saves[i].savedFD)
		}
	}

	for _, rw := range rewirings {
		old, derr := unix.Dup(rw.TargetFD)
		if derr != nil {
			rollback()
			return nil, derr
		}
		if derr := unix.Dup2(rw.SourceFD, rw.TargetFD); derr != nil {
			unix.Close(old)
			rollback()
			return nil, derr
		}
		saves = append(saves, saved{rw.TargetFD, old})
	}

	if len(saves) == 0 {
		return nil, nil
	}
	return rollback, nil
}
