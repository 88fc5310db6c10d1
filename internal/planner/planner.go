// Package planner turns one parsed ast.Command into a linear plan of
// subcommands, each carrying the fd rewirings derived from its pipes
// and file redirections. Every fd it opens is registered with the
// caller's fdset.Collector so a planning failure partway through
// leaves nothing leaked.
package planner

import (
	"fmt"
	"os"

	"gosh/internal/ast"
	"gosh/internal/expand"
	"gosh/internal/fdset"
	"gosh/internal/token"
)

// Plan builds the rewirings for every subcommand in cmd. Any pipe or
// open failure aborts the whole command: the caller's collector
// already holds every fd successfully opened so far, so the caller
// need only call fds.Collect() — no partial fork has happened yet.
func Plan(cmd ast.Command, fds *fdset.Collector, env expand.Env) ([]ast.Subcommand, error) {
	subs := make([]ast.Subcommand, len(cmd.Subcommands))
	copy(subs, cmd.Subcommands)

	for i := range subs {
		for _, r := range subs[i].Redirections {
			switch r.Kind {
			case ast.Pipe:
				if i+1 >= len(subs) {
					// A pipe on the last subcommand with nothing to
					// feed is a parser/completeness bug, not a plan
					// failure; treat as a no-op rather than panic.
					continue
				}
				rd, wr, err := os.Pipe()
				if err != nil {
					return nil, fmt.Errorf("pipe: %w", err)
				}
				fds.Add(rd)
				fds.Add(wr)
				subs[i].Rewirings = append(subs[i].Rewirings, ast.Rewiring{TargetFD: 1, SourceFD: int(wr.Fd())})
				subs[i+1].Rewirings = append(subs[i+1].Rewirings, ast.Rewiring{TargetFD: 0, SourceFD: int(rd.Fd())})

			case ast.FileRead, ast.FileWrite, ast.FileWriteAppend:
				path, err := resolvePath(r.Path, env)
				if err != nil {
					return nil, err
				}
				f, err := openRedirection(r.Kind, path)
				if err != nil {
					return nil, fmt.Errorf("%s: %w", path, err)
				}
				fds.Add(f)
				subs[i].Rewirings = append(subs[i].Rewirings, ast.Rewiring{TargetFD: r.FD, SourceFD: int(f.Fd())})
			}
		}
	}
	return subs, nil
}

func resolvePath(t token.Token, env expand.Env) (string, error) {
	frags := expand.Args([]token.Token{t}, env)
	if len(frags) == 0 || frags[0] == "" {
		return "", fmt.Errorf("redirection: empty path")
	}
	return frags[0], nil
}

func openRedirection(kind ast.RedirKind, path string) (*os.File, error) {
	switch kind {
	case ast.FileRead:
		return os.OpenFile(path, os.O_RDONLY, 0)
	case ast.FileWrite:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
	case ast.FileWriteAppend:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
	default:
		return nil, fmt.Errorf("unknown redirection kind %v", kind)
	}
}
