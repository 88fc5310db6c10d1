// Command gosh is the shell's process entrypoint: it wires together
// config, shell state, and the REPL/one-shot execution path, following
// the cobra root-command shape josephlewis42-honeyssh's cmd/root.go
// uses for its own CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gosh/internal/ast"
	"gosh/internal/builtins"
	"gosh/internal/job"
	"gosh/internal/lineedit"
	"gosh/internal/logging"
	"gosh/internal/parser"
	"gosh/internal/reaper"
	"gosh/internal/runner"
	"gosh/internal/shell"
	"gosh/internal/spawn"
	"gosh/internal/termctl"
)

// version is set at release time; left as a placeholder here since
// gosh has no build pipeline of its own yet.
const version = "0.1.0"

var oneShotCommand string

var rootCmd = &cobra.Command{
	Use:   "gosh",
	Short: "gosh is a small job-control-aware Unix shell",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(oneShotCommand)
	},
}

func init() {
	rootCmd.Flags().StringVarP(&oneShotCommand, "command", "c", "", "run one command and exit")
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(oneShot string) error {
	reg := job.NewRegistry()
	term, err := termctl.New()
	if err != nil {
		return err
	}
	logger := logging.Default()

	st, err := shell.New(reg, term, logger)
	if err != nil {
		return err
	}
	if home := st.Home(); home != "" {
		if cfg, err := shell.LoadConfig(home + "/.goshrc.yaml"); err == nil {
			st.ApplyConfig(cfg)
		} else {
			logger.Error().Err(err).Msg("failed to load config")
		}
	}
	if err := st.LoadHistory(); err != nil {
		logger.Error().Err(err).Msg("failed to load history")
	}

	br := builtins.New(st)
	sp := &spawn.Spawner{Registry: reg, Builtins: br, Env: st}
	rn := runner.New(sp, reg, term, st)

	if oneShot != "" {
		executeLine(rn, st, oneShot)
		os.Exit(st.LastReturnCode())
	}

	repl(rn, st)
	return nil
}

// repl is the interactive read-eval-print loop: read a line (growing
// it across trailing-pipe/unterminated-quote continuations, per
// ast.CheckCompleteness), run it, save history, repeat until EOF.
func repl(rn *runner.Runner, st *shell.State) {
	reader := lineedit.New(0, os.Stdin, os.Stdout)
	for {
		line, status := reader.GetLine(st.RenderPrompt())
		switch status {
		case lineedit.EOF:
			st.SaveHistory()
			return
		case lineedit.Empty:
			continue
		}

		full := line
		for {
			cmds := parser.Parse(full)
			if ast.CheckCompleteness(cmds) == ast.None {
				st.AddToHistory(full)
				rn.Execute(cmds)
				break
			}
			cont, status := reader.GetLine("> ")
			if status == lineedit.EOF {
				break
			}
			full += "\n" + cont
		}
		reaper.ProbeBackground(st.Registry())
	}
}

func executeLine(rn *runner.Runner, st *shell.State, line string) {
	cmds := parser.Parse(line)
	rn.Execute(cmds)
}
