// Package shell owns the shell's process-wide state: the working
// directory, the exported environment, the job registry, the
// prompt/history/config surfaces, and the two-step exit sequence. It
// is the single object that implements every Env/Deps interface the
// lower packages declare (expand.Env, spawn.Env, runner.Env,
// builtins.Deps), which is what lets those packages stay decoupled
// from each other and from this one.
package shell

import (
	"fmt"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"gosh/internal/job"
	"gosh/internal/termctl"
)

// State is the shell's live environment.
type State struct {
	mu sync.Mutex

	cwd      string
	home     string
	username string
	hostname string

	lastReturnCode int
	dirStack       []string
	cdHistory      []string
	history        []string
	historyPath    string
	promptTemplate string

	exported map[string]bool
	pathDirs []string
	umask    int

	pendingExit     bool
	pendingExitCode int

	registry *job.Registry
	term     *termctl.Controller
	logger   zerolog.Logger

	stdout *os.File
	stderr *os.File
}

// New builds shell state for a fresh gosh process: it snapshots cwd,
// user/host identity, and the controlling terminal, and seeds the
// exported-variable set from the process's own inherited environment.
func New(reg *job.Registry, term *termctl.Controller, logger zerolog.Logger) (*State, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	host, _ := os.Hostname()
	username := "user"
	home := os.Getenv("HOME")
	if u, err := user.Current(); err == nil {
		username = u.Username
		if home == "" {
			home = u.HomeDir
		}
	}

	s := &State{
		cwd:            cwd,
		home:           home,
		username:       username,
		hostname:       host,
		promptTemplate: `\u@\h \w \$ `,
		historyPath:    home + "/.history",
		exported:       make(map[string]bool),
		umask:          0022,
		registry:       reg,
		term:           term,
		logger:         logger,
		stdout:         os.Stdout,
		stderr:         os.Stderr,
	}
	if p, ok := os.LookupEnv("PROMPT"); ok && p != "" {
		s.promptTemplate = p
	}
	for _, kv := range os.Environ() {
		if name, _, ok := strings.Cut(kv, "="); ok {
			s.exported[name] = true
		}
	}
	s.refreshPathDirs()
	return s, nil
}

// --- expand.Env ---

func (s *State) Getenv(name string) (string, bool) {
	if name == "PWD" {
		return s.cwd, true
	}
	return os.LookupEnv(name)
}

func (s *State) LastReturnCode() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReturnCode
}

func (s *State) Pid() int { return os.Getpid() }

// --- spawn.Env ---

func (s *State) Environ() []string { return os.Environ() }

func (s *State) PathDirs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pathDirs
}

func (s *State) refreshPathDirs() {
	path, ok := os.LookupEnv("PATH")
	if !ok {
		s.pathDirs = nil
		return
	}
	s.pathDirs = strings.Split(path, ":")
}

// --- runner.Env additions ---

func (s *State) SetLastReturnCode(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastReturnCode = code
}

func (s *State) ClearPendingExit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingExit = false
}

// --- builtins.Deps additions ---

func (s *State) Registry() *job.Registry       { return s.registry }
func (s *State) Term() *termctl.Controller     { return s.term }
func (s *State) Stdout() *os.File              { return s.stdout }
func (s *State) Stderr() *os.File              { return s.stderr }

func (s *State) Getwd() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd, nil
}

func (s *State) Chdir(dir string) error {
	if err := os.Chdir(dir); err != nil {
		return err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cwd = cwd
	s.mu.Unlock()
	return nil
}

func (s *State) RecordDirChange(old, new string) {
	os.Setenv("OLDPWD", old)
	os.Setenv("PWD", new)
	s.mu.Lock()
	s.cdHistory = append(s.cdHistory, new)
	s.mu.Unlock()
}

func (s *State) DirStack() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.dirStack))
	copy(out, s.dirStack)
	return out
}

func (s *State) PushDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirStack = append(s.dirStack, dir)
	return nil
}

func (s *State) PopDir() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.dirStack) == 0 {
		return "", fmt.Errorf("directory stack empty")
	}
	last := s.dirStack[len(s.dirStack)-1]
	s.dirStack = s.dirStack[:len(s.dirStack)-1]
	return last, nil
}

func (s *State) CdHistory() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.cdHistory))
	copy(out, s.cdHistory)
	return out
}

func (s *State) Setenv(name, value string) {
	os.Setenv(name, value)
	s.mu.Lock()
	s.exported[name] = true
	s.mu.Unlock()
	if name == "PATH" {
		s.mu.Lock()
		s.refreshPathDirs()
		s.mu.Unlock()
	}
}

func (s *State) Unsetenv(name string) {
	os.Unsetenv(name)
	s.mu.Lock()
	delete(s.exported, name)
	if name == "PATH" {
		s.refreshPathDirs()
	}
	s.mu.Unlock()
}

func (s *State) ExportedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.exported))
	for name := range s.exported {
		out = append(out, name)
	}
	return out
}

func (s *State) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.history))
	copy(out, s.history)
	return out
}

func (s *State) Umask() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.umask
}

func (s *State) SetUmask(mask int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	old := s.umask
	s.umask = mask
	return old
}

func (s *State) PendingExit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingExit
}

// Logger returns the shell's structured logger for internal
// diagnostics (never for command output).
func (s *State) Logger() zerolog.Logger { return s.logger }

// Username, Hostname, Home expose the identity fields the prompt
// renderer substitutes.
func (s *State) Username() string { return s.username }
func (s *State) Hostname() string { return s.hostname }
func (s *State) Home() string     { return s.home }

// PromptTemplate/SetPromptTemplate expose the template RenderPrompt
// expands, for config-driven customization.
func (s *State) PromptTemplate() string        { return s.promptTemplate }
func (s *State) SetPromptTemplate(tmpl string) { s.promptTemplate = tmpl }

// HistoryPath is where SaveHistory/LoadHistory persist.
func (s *State) HistoryPath() string { return s.historyPath }
func (s *State) SetHistoryPath(p string) { s.historyPath = p }
