package builtins

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

func (r *Runner) export(argv []string) int {
	if len(argv) == 1 {
		for _, name := range r.Deps.ExportedNames() {
			val, _ := r.Deps.Getenv(name)
			fmt.Fprintf(r.Deps.Stdout(), "export %s=%s\n", name, val)
		}
		return 0
	}
	for _, arg := range argv[1:] {
		name, value, ok := strings.Cut(arg, "=")
		if !ok {
			fmt.Fprintf(r.Deps.Stderr(), "export: %s: not a valid assignment\n", arg)
			return 1
		}
		r.Deps.Setenv(name, value)
	}
	return 0
}

func (r *Runner) unset(argv []string) int {
	for _, name := range argv[1:] {
		r.Deps.Unsetenv(name)
	}
	return 0
}

// time wraps a single subcommand and reports its wall-clock duration.
// Unlike the other job-control built-ins it still spawns a real child
// process (timing the command is the whole point), but it does so
// through a plain exec.Cmd rather than the full job-control pipeline:
// `time` is synchronous by construction, so it never needs a pgid, a
// foreground handoff, or a registry entry of its own.
func (r *Runner) time(argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(r.Deps.Stderr(), "time: missing command")
		return 1
	}
	cmd := exec.Command(argv[1], argv[2:]...)
	cmd.Stdin = nil
	cmd.Stdout = r.Deps.Stdout()
	cmd.Stderr = r.Deps.Stderr()

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	fmt.Fprintf(r.Deps.Stderr(), "\nreal\t%s\n", elapsed.Round(time.Millisecond))
	if exitErr, ok := runErr.(*exec.ExitError); ok {
		return exitErr.ExitCode()
	}
	if runErr != nil {
		fmt.Fprintln(r.Deps.Stderr(), "time:", runErr)
		return 127
	}
	return 0
}

func (r *Runner) history(argv []string) int {
	for i, line := range r.Deps.History() {
		fmt.Fprintf(r.Deps.Stdout(), "%5d  %s\n", i+1, line)
	}
	return 0
}

func (r *Runner) umask(argv []string) int {
	if len(argv) == 1 {
		fmt.Fprintf(r.Deps.Stdout(), "%04o\n", r.Deps.Umask())
		return 0
	}
	mask, err := strconv.ParseInt(argv[1], 8, 32)
	if err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "umask: invalid mask")
		return 1
	}
	r.Deps.SetUmask(int(mask))
	return 0
}
