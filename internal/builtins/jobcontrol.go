package builtins

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"golang.org/x/sys/unix"

	"gosh/internal/job"
	"gosh/internal/reaper"
	"gosh/internal/termctl"
)

func (r *Runner) jobs(argv []string) int {
	reaper.ProbeBackground(r.Deps.Registry())
	for _, j := range r.Deps.Registry().IterInOrder() {
		fmt.Fprintln(r.Deps.Stdout(), colorizeJobLine(j))
	}
	return 0
}

// colorizeJobLine matches j.String()'s layout but tints the state
// column so a running job stands out from one that stopped.
func colorizeJobLine(j *job.Job) string {
	state := j.State.String()
	switch j.State {
	case job.Running:
		state = color.GreenString(state)
	case job.Stopped:
		state = color.YellowString(state)
	case job.Signaled:
		state = color.RedString(state)
	}
	mark := "-"
	if j.Background {
		mark = "+"
	}
	return fmt.Sprintf("[%d] %s %s %s", j.JobID, mark, state, j.Cmd)
}

func (r *Runner) resolveJob(argv []string) *job.Job {
	reg := r.Deps.Registry()
	if len(argv) < 2 {
		if argv[0] == "disown" {
			return reg.LastIndexJob()
		}
		return reg.LookupByJobID(reg.FindLastJobID())
	}
	id, ok := parseIndexArg(argv[1])
	if !ok {
		return nil
	}
	return reg.LookupByJobID(id)
}

func (r *Runner) fg(argv []string) int {
	j := r.resolveJob(argv)
	if j == nil {
		fmt.Fprintln(r.Deps.Stderr(), "fg: no such job")
		return 1
	}
	j.SetRunningInBackground(false)
	if err := termctl.SetForeground(j.PGID); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "fg:", err)
	}
	if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "fg:", err)
	}
	fmt.Fprintln(r.Deps.Stdout(), j.Cmd)

	if err := reaper.WaitForeground(j, r.Deps.Registry(), r.Deps.Stderr()); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "fg:", err)
		return 1
	}
	if j.State == job.Exited {
		return j.ExitCode
	}
	return 0
}

func (r *Runner) bg(argv []string) int {
	j := r.resolveJob(argv)
	if j == nil {
		fmt.Fprintln(r.Deps.Stderr(), "bg: no such job")
		return 1
	}
	j.SetRunningInBackground(true)
	if err := unix.Kill(-j.PGID, unix.SIGCONT); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "bg:", err)
		return 1
	}
	fmt.Fprintf(r.Deps.Stdout(), "[%d] %s &\n", j.JobID, j.Cmd)
	return 0
}

// disown's no-argument form operates on the registry's last insertion
// slot rather than the highest job_id — a preexisting quirk kept
// deliberately rather than "fixed", since scripts may already depend
// on it.
func (r *Runner) disown(argv []string) int {
	j := r.resolveJob(argv)
	if j == nil {
		fmt.Fprintln(r.Deps.Stderr(), "disown: no such job")
		return 1
	}
	j.Deactivate()
	r.Deps.Registry().Remove(j.PID)
	return 0
}

func (r *Runner) exit(argv []string) int {
	code := r.Deps.LastReturnCode()
	if len(argv) >= 2 {
		if n, err := strconv.Atoi(argv[1]); err == nil {
			code = n
		}
	}
	r.Deps.RequestExit(code)
	return code
}
