package planner

import (
	"os"
	"path/filepath"
	"testing"

	"gosh/internal/ast"
	"gosh/internal/fdset"
	"gosh/internal/token"
)

type fakeEnv struct{}

func (fakeEnv) Getenv(name string) (string, bool) { return "", false }
func (fakeEnv) LastReturnCode() int                { return 0 }
func (fakeEnv) Pid() int                           { return 0 }

func TestPlanPipeRewirings(t *testing.T) {
	cmd := ast.Command{Subcommands: []ast.Subcommand{
		{Args: []token.Token{{Kind: token.Bare, Text: "echo"}}, Redirections: []ast.Redirection{{Kind: ast.Pipe}}},
		{Args: []token.Token{{Kind: token.Bare, Text: "tr"}}},
	}}
	fds := fdset.New()
	defer fds.Collect()

	subs, err := Plan(cmd, fds, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(subs[0].Rewirings) != 1 || subs[0].Rewirings[0].TargetFD != 1 {
		t.Fatalf("first subcommand should rewire stdout: %+v", subs[0].Rewirings)
	}
	if len(subs[1].Rewirings) != 1 || subs[1].Rewirings[0].TargetFD != 0 {
		t.Fatalf("second subcommand should rewire stdin: %+v", subs[1].Rewirings)
	}
	if fds.Len() != 2 {
		t.Fatalf("want 2 tracked fds (pipe r/w), got %d", fds.Len())
	}
}

func TestPlanFileRedirections(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.txt")
	if err := os.WriteFile(in, []byte("hi"), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := ast.Command{Subcommands: []ast.Subcommand{{
		Args: []token.Token{{Kind: token.Bare, Text: "cat"}},
		Redirections: []ast.Redirection{
			{Kind: ast.FileRead, FD: 0, Path: token.Token{Kind: token.Bare, Text: in}},
			{Kind: ast.FileWrite, FD: 1, Path: token.Token{Kind: token.Bare, Text: out}},
		},
	}}}
	fds := fdset.New()
	defer fds.Collect()

	subs, err := Plan(cmd, fds, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(subs[0].Rewirings) != 2 {
		t.Fatalf("want 2 rewirings, got %+v", subs[0].Rewirings)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file should have been created: %v", err)
	}
}

func TestPlanOpenFailureClosesNothingPartial(t *testing.T) {
	cmd := ast.Command{Subcommands: []ast.Subcommand{{
		Args: []token.Token{{Kind: token.Bare, Text: "cat"}},
		Redirections: []ast.Redirection{
			{Kind: ast.FileRead, FD: 0, Path: token.Token{Kind: token.Bare, Text: "/no/such/path/at/all"}},
		},
	}}}
	fds := fdset.New()
	defer fds.Collect()

	if _, err := Plan(cmd, fds, fakeEnv{}); err == nil {
		t.Fatal("expected an error opening a nonexistent file")
	}
	if fds.Len() != 0 {
		t.Fatalf("no fd should have been tracked on open failure, got %d", fds.Len())
	}
}
