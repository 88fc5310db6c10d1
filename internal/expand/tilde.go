package expand

import (
	"os"
	"os/user"
	"strings"
)

// tildeExpand is the second expansion stage. A fragment not beginning
// with `~` is returned unchanged. `~` or `~/…` resolves
// against $HOME, falling back to the passwd entry for the current
// uid; `~name` or `~name/…` resolves against that user's passwd home.
// An unknown user leaves the fragment literal.
func tildeExpand(frag string) string {
	if !strings.HasPrefix(frag, "~") {
		return frag
	}
	rest := frag[1:]
	name, suffix := rest, ""
	if idx := strings.IndexByte(rest, '/'); idx != -1 {
		name, suffix = rest[:idx], rest[idx:]
	}

	var home string
	if name == "" {
		if h := os.Getenv("HOME"); h != "" {
			home = h
		} else if u, err := user.Current(); err == nil {
			home = u.HomeDir
		} else {
			return frag
		}
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return frag
		}
		home = u.HomeDir
	}
	return home + suffix
}
