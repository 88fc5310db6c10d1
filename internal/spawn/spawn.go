// Package spawn turns one planned subcommand into a running process:
// for each subcommand it either runs a built-in in-process or
// forks+execs a child with its rewirings applied, and records every
// spawned child in the job registry.
//
// It calls syscall.ForkExec directly (the way elves-elvish's
// eval/external_cmd.go does) instead of os/exec, because os/exec's
// fixed stdin/stdout/stderr plumbing has no room for arbitrary
// target-fd rewirings. Using ForkExec also means a failed exec
// surfaces as a normal Go error back in the parent rather than as a
// child process that must detect and report its own exec failure: Go
// cannot run arbitrary code between fork and exec (only what fits in
// syscall.SysProcAttr), so the ENOENT/shebang/directory diagnostics a
// C shell's child process would print for itself are computed here in
// the parent from that same failed-exec error.
package spawn

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"gosh/internal/ast"
	"gosh/internal/expand"
	"gosh/internal/job"
)

// Env is everything the spawner needs from shell state beyond
// variable/tilde/glob expansion: the search path and the live
// environment to pass to children.
type Env interface {
	expand.Env
	Environ() []string
	PathDirs() []string
}

// BuiltinRunner is implemented by the builtins package (wired in by
// cmd/gosh to avoid an import cycle: builtins needs the job
// registry and terminal controller, spawn needs to invoke builtins).
type BuiltinRunner interface {
	IsBuiltin(name string) bool
	RunBuiltin(name string, argv []string) int
}

// Spawner is the Process Spawner. One Spawner is shared across the
// shell's lifetime; PipelinePGID state lives in the caller (Runner),
// which passes it explicitly per subcommand.
type Spawner struct {
	Registry *job.Registry
	Builtins BuiltinRunner
	Env      Env
}

// Result reports what happened when spawning one subcommand.
type Result struct {
	// Ran is false when argv was empty after expansion (an
	// all-whitespace or fully-unset-variable subcommand), in which
	// case there is nothing to spawn or wait for.
	Ran bool
	// IsBuiltin is true when the subcommand ran in-process; ExitCode
	// is then valid immediately and StopPipeline is always true.
	IsBuiltin bool
	// StopPipeline is true when the rest of the pipeline must not be
	// spawned. A built-in always preempts the rest of its pipeline
	// this way rather than forking a subshell for it.
	StopPipeline bool
	// ExitCode is valid immediately for built-ins and spawn failures.
	ExitCode int
	// Job is non-nil when a real child process was started; the
	// caller (Runner) is responsible for waiting on it.
	Job *job.Job
}

// Spawn runs one subcommand. pgid is 0 to make this subcommand the
// pipeline leader (its own pid becomes the pgid); otherwise it is the
// already-known leader pgid every other subcommand in the pipeline
// joins.
func (s *Spawner) Spawn(sub ast.Subcommand, pgid int, background bool, cmdText string) Result {
	argv := expand.Args(sub.Args, s.Env)
	if len(argv) == 0 {
		return Result{Ran: false}
	}

	if s.Builtins != nil && s.Builtins.IsBuiltin(argv[0]) {
		restore, err := applyRewiringsInProcess(sub.Rewirings)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", argv[0], err)
			return Result{Ran: true, IsBuiltin: true, StopPipeline: true, ExitCode: 1}
		}
		code := s.Builtins.RunBuiltin(argv[0], argv)
		if restore != nil {
			restore()
		}
		return Result{Ran: true, IsBuiltin: true, StopPipeline: true, ExitCode: code}
	}

	path, lookupOK := resolveExecutable(argv[0], s.Env.PathDirs())
	files := buildFileTable(sub.Rewirings)

	attr := &syscall.ProcAttr{
		Env:   s.Env.Environ(),
		Files: files,
		Sys:   &syscall.SysProcAttr{Setpgid: true, Pgid: pgid},
	}

	if !lookupOK {
		fmt.Fprintf(os.Stderr, "%s: command not found\n", argv[0])
		return Result{Ran: true, ExitCode: 126}
	}

	execArgv := append([]string{path}, argv[1:]...)
	pid, err := syscall.ForkExec(path, execArgv, attr)
	if err != nil {
		if isForkFailure(err) {
			fmt.Fprintf(os.Stderr, "%s: %s\n", argv[0], err)
			return Result{Ran: true, ExitCode: 1}
		}
		fmt.Fprintf(os.Stderr, "%s: %s\n", argv[0], diagnose(path, err))
		return Result{Ran: true, ExitCode: 126}
	}

	j := &job.Job{
		JobID:      s.Registry.FindLastJobID() + 1,
		PID:        pid,
		PGID:       pgid,
		Cmd:        cmdText,
		Background: background,
		State:      job.Running,
	}
	if pgid == 0 {
		j.PGID = pid
	}
	s.Registry.Insert(j)
	return Result{Ran: true, Job: j}
}

// resolveExecutable finds argv0 on disk: a name containing a `/` is
// used as-is; otherwise every PATH directory is tried in order. The
// bool return is false when no candidate could be found at all, in
// which case path is argv0 itself so a diagnostic can still name it.
func resolveExecutable(argv0 string, pathDirs []string) (path string, found bool) {
	if strings.Contains(argv0, "/") {
		if fi, err := os.Stat(argv0); err == nil && !fi.IsDir() {
			return argv0, true
		}
		return argv0, false
	}
	for _, dir := range pathDirs {
		candidate := filepath.Join(dir, argv0)
		if fi, err := os.Stat(candidate); err == nil && !fi.IsDir() {
			return candidate, true
		}
	}
	return argv0, false
}

// buildFileTable turns a set of (target fd -> source fd) rewirings
// into the sparse []uintptr syscall.ProcAttr.Files expects: unlisted
// standard fds inherit the shell's own 0/1/2, and any fd never
// mentioned above the highest target is closed in the child.
func buildFileTable(rewirings []ast.Rewiring) []uintptr {
	max := 2
	for _, rw := range rewirings {
		if rw.TargetFD > max {
			max = rw.TargetFD
		}
	}
	files := make([]uintptr, max+1)
	files[0], files[1], files[2] = os.Stdin.Fd(), os.Stdout.Fd(), os.Stderr.Fd()
	for i := 3; i < len(files); i++ {
		files[i] = fdNil
	}
	for _, rw := range rewirings {
		files[rw.TargetFD] = uintptr(rw.SourceFD)
	}
	return files
}

// fdNil tells syscall.ForkExec to close this slot in the child rather
// than inherit it — the same sentinel elves-elvish's external_cmd.go
// uses for the identical purpose.
const fdNil = ^uintptr(0)

// isForkFailure reports whether err from syscall.ForkExec looks like
// the clone/fork itself never produced a child, rather than a child
// existing and then failing somewhere between fork and exec (which
// includes the exec call itself). ForkExec doesn't expose which stage
// failed directly: a true fork failure returns straight from the
// clone() syscall with nothing to reap, while every other failure
// (chdir, setpgid, dup2, execve, ...) is reported by a child that did
// exist, over its error pipe, after which the parent reaps it via
// Wait4. The errnos below are the ones fork/clone itself actually
// returns under resource exhaustion; anything else is treated as a
// post-fork, pre-or-at-exec failure.
func isForkFailure(err error) bool {
	switch {
	case errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.ENOMEM),
		errors.Is(err, syscall.ENOSYS):
		return true
	default:
		return false
	}
}

// diagnose builds the exec-failure message printed to the user from a
// failed syscall.ForkExec that was not a fork-stage failure.
func diagnose(path string, execErr error) string {
	if errors.Is(execErr, syscall.ENOENT) {
		if interp, ok := shebangInterpreter(path); ok {
			return fmt.Sprintf("%s: bad interpreter: %s: no such file or directory", path, interp)
		}
		return "No such file or directory"
	}
	if fi, serr := os.Stat(path); serr == nil && fi.IsDir() {
		return "Is a directory"
	}
	return execErr.Error()
}

// shebangInterpreter reads the first 256 bytes of path and, if they
// begin with `#!`, returns the interpreter named on that line.
func shebangInterpreter(path string) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()
	buf := make([]byte, 256)
	n, _ := f.Read(buf)
	if n < 2 || buf[0] != '#' || buf[1] != '!' {
		return "", false
	}
	line := string(buf[2:n])
	if idx := strings.IndexByte(line, '\n'); idx != -1 {
		line = line[:idx]
	}
	scanner := bufio.NewScanner(strings.NewReader(strings.TrimSpace(line)))
	scanner.Split(bufio.ScanWords)
	if scanner.Scan() {
		return scanner.Text(), true
	}
	return "", false
}
