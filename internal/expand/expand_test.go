package expand

import (
	"os"
	"path/filepath"
	"testing"

	"gosh/internal/token"
)

type fakeEnv struct {
	vars map[string]string
	last int
	pid  int
}

func (f fakeEnv) Getenv(name string) (string, bool) {
	v, ok := f.vars[name]
	return v, ok
}
func (f fakeEnv) LastReturnCode() int { return f.last }
func (f fakeEnv) Pid() int            { return f.pid }

func TestVariableExpandBasic(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"FOO": "a b c"}}
	toks := []token.Token{{Kind: token.Bare, Text: "$FOO"}}
	got := Args(toks, env)
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestVariableExpandUnknownIsEmpty(t *testing.T) {
	env := fakeEnv{vars: map[string]string{}}
	toks := []token.Token{{Kind: token.Bare, Text: "$NOPE"}}
	got := Args(toks, env)
	if len(got) != 1 || got[0] != "" {
		t.Fatalf("got %v", got)
	}
}

func TestVariableExpandSpecialNames(t *testing.T) {
	env := fakeEnv{last: 7, pid: 1234}
	got := Args([]token.Token{{Kind: token.Bare, Text: "$?"}}, env)
	if got[0] != "7" {
		t.Fatalf("got %v", got)
	}
	got = Args([]token.Token{{Kind: token.Bare, Text: "$$"}}, env)
	if got[0] != "1234" {
		t.Fatalf("got %v", got)
	}
}

func TestQuotedTokenNotExpanded(t *testing.T) {
	env := fakeEnv{vars: map[string]string{"FOO": "bar"}}
	toks := []token.Token{{Kind: token.DoubleQuoted, Text: "$FOO"}}
	got := Args(toks, env)
	if len(got) != 1 || got[0] != "$FOO" {
		t.Fatalf("quoted token should not expand, got %v", got)
	}
}

func TestTildeExpand(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		t.Skip("no HOME set")
	}
	if got := tildeExpand("~"); got != home {
		t.Fatalf("got %q want %q", got, home)
	}
	if got := tildeExpand("~/x"); got != home+"/x" {
		t.Fatalf("got %q want %q", got, home+"/x")
	}
	if got := tildeExpand("nope~"); got != "nope~" {
		t.Fatalf("got %q", got)
	}
}

func TestGlobNoMatchKeepsLiteral(t *testing.T) {
	got := globExpand("/nonexistent-dir-xyz/*.nope")
	if len(got) != 1 || got[0] != "/nonexistent-dir-xyz/*.nope" {
		t.Fatalf("got %v", got)
	}
}

func TestGlobMatchesRealFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", ".hidden"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	got := globExpand(filepath.Join(dir, "*.txt"))
	if len(got) != 2 {
		t.Fatalf("want 2 matches, got %v", got)
	}
	for _, g := range got {
		if filepath.Base(g) == ".hidden" {
			t.Fatalf("dotfile should not match bare *: %v", got)
		}
	}
}

func TestGlobDotfileRequiresExplicitDot(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".hidden"), nil, 0644); err != nil {
		t.Fatal(err)
	}
	got := globExpand(filepath.Join(dir, ".*"))
	if len(got) != 1 || filepath.Base(got[0]) != ".hidden" {
		t.Fatalf("got %v", got)
	}
}

func TestMatchGlobPattern(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"*.go", "main.go", true},
		{"*.go", "main.c", false},
		{"?ain.go", "main.go", true},
		{"*", "", true},
		{"a*b", "ab", true},
		{"a*b", "axxxb", true},
		{"a*b", "axxxc", false},
	}
	for _, c := range cases {
		if got := matchGlobPattern(c.pattern, c.name); got != c.want {
			t.Errorf("matchGlobPattern(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}
