package builtins

import (
	"fmt"
	"strconv"
	"strings"
)

func (r *Runner) cd(argv []string) int {
	old, err := r.Deps.Getwd()
	if err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "cd:", err)
		return 1
	}

	target := ""
	switch len(argv) {
	case 1:
		home, ok := r.Deps.Getenv("HOME")
		if !ok || home == "" {
			fmt.Fprintln(r.Deps.Stderr(), "cd: HOME not set")
			return 1
		}
		target = home
	case 2:
		if argv[1] == "-" {
			prev, ok := r.Deps.Getenv("OLDPWD")
			if !ok || prev == "" {
				fmt.Fprintln(r.Deps.Stderr(), "cd: OLDPWD not set")
				return 1
			}
			target = prev
			fmt.Fprintln(r.Deps.Stdout(), target)
		} else {
			target = argv[1]
		}
	default:
		fmt.Fprintln(r.Deps.Stderr(), "cd: too many arguments")
		return 1
	}

	if err := r.Deps.Chdir(target); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "cd:", err)
		return 1
	}
	newDir, err := r.Deps.Getwd()
	if err != nil {
		newDir = target
	}
	r.Deps.RecordDirChange(old, newDir)
	return 0
}

func (r *Runner) pwd(argv []string) int {
	dir, err := r.Deps.Getwd()
	if err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "pwd:", err)
		return 1
	}
	fmt.Fprintln(r.Deps.Stdout(), dir)
	return 0
}

func (r *Runner) dirs(argv []string) int {
	cwd, _ := r.Deps.Getwd()
	stack := r.Deps.DirStack()
	all := append([]string{cwd}, stack...)
	fmt.Fprintln(r.Deps.Stdout(), strings.Join(all, " "))
	return 0
}

func (r *Runner) pushd(argv []string) int {
	if len(argv) < 2 {
		fmt.Fprintln(r.Deps.Stderr(), "pushd: missing directory")
		return 1
	}
	cwd, err := r.Deps.Getwd()
	if err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "pushd:", err)
		return 1
	}
	if err := r.Deps.Chdir(argv[1]); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "pushd:", err)
		return 1
	}
	if err := r.Deps.PushDir(cwd); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "pushd:", err)
		return 1
	}
	newDir, _ := r.Deps.Getwd()
	r.Deps.RecordDirChange(cwd, newDir)
	return r.dirs(nil)
}

func (r *Runner) popd(argv []string) int {
	dir, err := r.Deps.PopDir()
	if err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "popd:", err)
		return 1
	}
	old, _ := r.Deps.Getwd()
	if err := r.Deps.Chdir(dir); err != nil {
		fmt.Fprintln(r.Deps.Stderr(), "popd:", err)
		return 1
	}
	r.Deps.RecordDirChange(old, dir)
	return r.dirs(nil)
}

func (r *Runner) cdh(argv []string) int {
	hist := r.Deps.CdHistory()
	for i := len(hist) - 1; i >= 0; i-- {
		fmt.Fprintf(r.Deps.Stdout(), "%d\t%s\n", len(hist)-i, hist[i])
	}
	return 0
}

// parseIndexArg parses a job_id argument like "3" or "%3".
func parseIndexArg(s string) (int, bool) {
	s = strings.TrimPrefix(s, "%")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
