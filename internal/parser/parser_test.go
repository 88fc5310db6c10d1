package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"gosh/internal/ast"
)

func argvText(sub ast.Subcommand) []string {
	out := make([]string, len(sub.Args))
	for i, a := range sub.Args {
		out[i] = a.Text
	}
	return out
}

func TestParsePipelineArgv(t *testing.T) {
	cmds := Parse("grep foo file.txt | sort -r | uniq -c")
	subs := cmds[0].Subcommands
	want := [][]string{
		{"grep", "foo", "file.txt"},
		{"sort", "-r"},
		{"uniq", "-c"},
	}
	for i, sub := range subs {
		if diff := cmp.Diff(want[i], argvText(sub)); diff != "" {
			t.Fatalf("subcommand %d argv mismatch (-want +got):\n%s", i, diff)
		}
	}
}

func TestParseSimple(t *testing.T) {
	cmds := Parse("echo hello")
	if len(cmds) != 1 || len(cmds[0].Subcommands) != 1 {
		t.Fatalf("got %+v", cmds)
	}
	args := cmds[0].Subcommands[0].Args
	if len(args) != 2 || args[0].Text != "echo" || args[1].Text != "hello" {
		t.Fatalf("unexpected args: %+v", args)
	}
}

func TestParsePipeline(t *testing.T) {
	cmds := Parse("echo a | tr a b")
	if len(cmds) != 1 {
		t.Fatalf("want 1 command, got %d", len(cmds))
	}
	subs := cmds[0].Subcommands
	if len(subs) != 2 {
		t.Fatalf("want 2 subcommands, got %d", len(subs))
	}
	if len(subs[0].Redirections) != 1 || subs[0].Redirections[0].Kind != ast.Pipe {
		t.Fatalf("first subcommand should carry a pipe redirection: %+v", subs[0])
	}
	if len(subs[1].Redirections) != 0 {
		t.Fatalf("last subcommand should carry no redirection: %+v", subs[1])
	}
}

func TestParseShortCircuitAndSemicolon(t *testing.T) {
	cmds := Parse("false && echo nope ; echo yes")
	if len(cmds) != 3 {
		t.Fatalf("want 3 commands, got %d: %+v", len(cmds), cmds)
	}
	if !cmds[0].Has(ast.ShortCircuitOnFailure) {
		t.Fatalf("first command should short-circuit: %+v", cmds[0])
	}
	if cmds[1].Has(ast.ShortCircuitOnFailure) {
		t.Fatalf("second command should not carry short-circuit: %+v", cmds[1])
	}
}

func TestParseBackground(t *testing.T) {
	cmds := Parse("sleep 5 &")
	if len(cmds) != 1 {
		t.Fatalf("want 1 command, got %d", len(cmds))
	}
	if !cmds[0].Has(ast.InBackground) {
		t.Fatalf("command should be background: %+v", cmds[0])
	}
}

func TestParseRedirections(t *testing.T) {
	cmds := Parse("sort < in.txt > out.txt")
	sub := cmds[0].Subcommands[0]
	if len(sub.Redirections) != 2 {
		t.Fatalf("want 2 redirections, got %+v", sub.Redirections)
	}
	if sub.Redirections[0].Kind != ast.FileRead || sub.Redirections[0].Path.Text != "in.txt" {
		t.Fatalf("bad read redirection: %+v", sub.Redirections[0])
	}
	if sub.Redirections[1].Kind != ast.FileWrite || sub.Redirections[1].Path.Text != "out.txt" {
		t.Fatalf("bad write redirection: %+v", sub.Redirections[1])
	}
}

func TestParseAppend(t *testing.T) {
	cmds := Parse("echo hi >> log.txt")
	sub := cmds[0].Subcommands[0]
	if len(sub.Redirections) != 1 || sub.Redirections[0].Kind != ast.FileWriteAppend {
		t.Fatalf("want append redirection, got %+v", sub.Redirections)
	}
}

func TestParseComment(t *testing.T) {
	cmds := Parse("# just a comment")
	if len(cmds) != 0 {
		t.Fatalf("comment-only line should yield no commands, got %+v", cmds)
	}
}

func TestParseEmpty(t *testing.T) {
	cmds := Parse("")
	if len(cmds) != 0 {
		t.Fatalf("empty line should yield no commands, got %+v", cmds)
	}
}

func TestCheckCompletenessTrailingPipe(t *testing.T) {
	cmds := Parse("echo hi |")
	if got := ast.CheckCompleteness(cmds); got != ast.ContinuePipe {
		t.Fatalf("want ContinuePipe, got %v", got)
	}
}

func TestCheckCompletenessUnterminatedQuotes(t *testing.T) {
	cmds := Parse(`echo "hi`)
	if got := ast.CheckCompleteness(cmds); got != ast.ContinueDoubleQuote {
		t.Fatalf("want ContinueDoubleQuote, got %v", got)
	}
	cmds = Parse(`echo 'hi`)
	if got := ast.CheckCompleteness(cmds); got != ast.ContinueSingleQuote {
		t.Fatalf("want ContinueSingleQuote, got %v", got)
	}
}
