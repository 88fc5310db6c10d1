// Package runner is the top-level orchestrator: it iterates a parsed
// command list, applies `&&` short-circuit logic, drives the
// planner/spawner/reaper per command, and keeps last-return-code
// current.
package runner

import (
	"fmt"
	"os"
	"strings"

	"gosh/internal/ast"
	"gosh/internal/fdset"
	"gosh/internal/job"
	"gosh/internal/planner"
	"gosh/internal/reaper"
	"gosh/internal/spawn"
	"gosh/internal/termctl"
)

// Env is everything the Runner needs from shell state in addition to
// what the planner/spawner/expander already require.
type Env interface {
	spawn.Env
	SetLastReturnCode(int)
	ClearPendingExit()
}

// Runner is the top-level command-list orchestrator.
type Runner struct {
	Spawner  *spawn.Spawner
	Registry *job.Registry
	Term     *termctl.Controller
	Env      Env
	Stdout   *os.File
	Stderr   *os.File

	shortCircuitFailing bool
}

// New builds a Runner wired to the given collaborators.
func New(spawner *spawn.Spawner, reg *job.Registry, term *termctl.Controller, env Env) *Runner {
	return &Runner{
		Spawner:  spawner,
		Registry: reg,
		Term:     term,
		Env:      env,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
	}
}

// Execute runs a fully parsed, continuation-free command list. Call
// ast.CheckCompleteness first; Execute assumes the caller already
// resolved any continuation (trailing pipe, unterminated quote).
func (r *Runner) Execute(cmds []ast.Command) {
	trm, trmErr := r.Term.CaptureCurrent()

	for _, cmd := range cmds {
		if r.shortCircuitFailing {
			if cmd.Has(ast.ShortCircuitOnFailure) {
				continue
			}
			r.shortCircuitFailing = false
			continue
		}
		if len(cmd.Subcommands) == 0 {
			continue
		}

		code := r.runCommand(cmd)
		r.Env.SetLastReturnCode(code)
		if firstWord(cmd) != "exit" {
			r.Env.ClearPendingExit()
		}
		if cmd.Has(ast.ShortCircuitOnFailure) && code != 0 {
			r.shortCircuitFailing = true
		}
	}

	if trmErr == nil {
		r.Term.ReclaimForeground(trm)
	}
}

func (r *Runner) runCommand(cmd ast.Command) int {
	fds := fdset.New()
	subs, err := planner.Plan(cmd, fds, r.Env)
	if err != nil {
		fmt.Fprintln(r.Stderr, err)
		fds.Collect()
		return 1
	}

	background := cmd.Has(ast.InBackground)
	cmdText := renderCmd(cmd)

	var results []spawn.Result
	pgid := 0
	for _, sub := range subs {
		res := r.Spawner.Spawn(sub, pgid, background, cmdText)
		if res.Job != nil && pgid == 0 {
			pgid = res.Job.PGID
			if !background {
				termctl.SetForeground(pgid)
			}
		}
		results = append(results, res)
		if res.StopPipeline {
			break
		}
	}
	fds.Collect()

	if background {
		if pgid != 0 {
			jobID := 0
			if j := r.Registry.LookupByPID(pgid); j != nil {
				jobID = j.JobID
			}
			fmt.Fprintf(r.Stdout, "[%d] %d\n", jobID, pgid)
		}
		return 0
	}

	last := 0
	for _, res := range results {
		switch {
		case res.IsBuiltin, res.Job == nil:
			last = res.ExitCode
		default:
			if err := reaper.WaitForeground(res.Job, r.Registry, r.Stderr); err != nil {
				fmt.Fprintln(r.Stderr, "wait:", err)
				continue
			}
			switch res.Job.State {
			case job.Exited:
				last = res.Job.ExitCode
			case job.Signaled:
				last = -1
			case job.Stopped:
				last = 0
			}
		}
	}
	return last
}

func firstWord(cmd ast.Command) string {
	if len(cmd.Subcommands) == 0 || len(cmd.Subcommands[0].Args) == 0 {
		return ""
	}
	return cmd.Subcommands[0].Args[0].Text
}

func renderCmd(cmd ast.Command) string {
	var parts []string
	for _, sub := range cmd.Subcommands {
		var words []string
		for _, a := range sub.Args {
			words = append(words, a.Text)
		}
		parts = append(parts, strings.Join(words, " "))
	}
	return strings.Join(parts, " | ")
}
