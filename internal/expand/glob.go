package expand

import (
	"os"
	"path"
	"sort"
	"strings"
)

// globExpand is the third and final expansion stage. A fragment with
// no `*`/`?` is returned unchanged. Otherwise the fragment is
// split on `/` and matched against the filesystem segment by segment;
// dotfiles are only matched when the pattern segment itself begins
// with `.`. If nothing matches, the literal fragment is kept
// (nullglob is off). Grounded on elvish's pkg/glob (a hand-rolled
// segment-walking matcher; no glob library appears anywhere in the
// corpus, so this stays stdlib by design, not by omission).
func globExpand(frag string) []string {
	if !strings.ContainsAny(frag, "*?") {
		return []string{frag}
	}

	segments := strings.Split(frag, "/")
	base := "."
	if strings.HasPrefix(frag, "/") {
		base = "/"
		segments = segments[1:]
	}

	results := globSegments(base, segments)
	if len(results) == 0 {
		return []string{frag}
	}
	sort.Strings(results)
	return results
}

func globSegments(base string, segments []string) []string {
	if len(segments) == 0 {
		return []string{base}
	}
	seg := segments[0]
	rest := segments[1:]

	if !strings.ContainsAny(seg, "*?") {
		next := path.Join(base, seg)
		if len(rest) == 0 {
			if _, err := os.Stat(next); err == nil {
				return []string{next}
			}
			return nil
		}
		return globSegments(next, rest)
	}

	entries, err := os.ReadDir(base)
	if err != nil {
		return nil
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") && !strings.HasPrefix(seg, ".") {
			continue
		}
		if !matchGlobPattern(seg, name) {
			continue
		}
		next := path.Join(base, name)
		if len(rest) == 0 {
			out = append(out, next)
		} else {
			out = append(out, globSegments(next, rest)...)
		}
	}
	return out
}

// matchGlobPattern matches name against a single path segment pattern
// where `*` matches any run (including empty) and `?` matches any
// single character, case-sensitively.
func matchGlobPattern(pattern, name string) bool {
	return matchGlobRunes([]rune(pattern), []rune(name))
}

func matchGlobRunes(p, s []rune) bool {
	if len(p) == 0 {
		return len(s) == 0
	}
	switch p[0] {
	case '*':
		if matchGlobRunes(p[1:], s) {
			return true
		}
		for i := 0; i < len(s); i++ {
			if matchGlobRunes(p[1:], s[i+1:]) {
				return true
			}
		}
		return false
	case '?':
		if len(s) == 0 {
			return false
		}
		return matchGlobRunes(p[1:], s[1:])
	default:
		if len(s) == 0 || s[0] != p[0] {
			return false
		}
		return matchGlobRunes(p[1:], s[1:])
	}
}
