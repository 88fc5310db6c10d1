package shell

import (
	"fmt"
	"os"
	"strings"
)

// RenderPrompt expands the supported prompt escapes: \u user, \h
// host, \w cwd (with $HOME collapsed to ~), \$ '#' for root else '$',
// \a bell, \e escape, \X last return code.
func (s *State) RenderPrompt() string {
	var b strings.Builder
	tmpl := s.PromptTemplate()
	for i := 0; i < len(tmpl); i++ {
		c := tmpl[i]
		if c != '\\' || i == len(tmpl)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch tmpl[i] {
		case 'u':
			b.WriteString(s.username)
		case 'h':
			b.WriteString(s.hostname)
		case 'w':
			b.WriteString(collapseHome(s.cwd, s.home))
		case '$':
			if os.Geteuid() == 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('$')
			}
		case 'a':
			b.WriteByte('\a')
		case 'e':
			b.WriteByte('\x1b')
		case 'X':
			fmt.Fprintf(&b, "%d", s.LastReturnCode())
		default:
			b.WriteByte('\\')
			b.WriteByte(tmpl[i])
		}
	}
	return b.String()
}

func collapseHome(cwd, home string) string {
	if home == "" {
		return cwd
	}
	if cwd == home {
		return "~"
	}
	if strings.HasPrefix(cwd, home+"/") {
		return "~" + cwd[len(home):]
	}
	return cwd
}
