package shell

import (
	"bufio"
	"os"
)

// LoadHistory reads historyPath into memory, one command per line, LF
// terminated. A missing file is not an error — a fresh shell simply
// starts with empty history.
func (s *State) LoadHistory() error {
	f, err := os.Open(s.historyPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.history = lines
	s.mu.Unlock()
	return nil
}

// AddToHistory appends one line to in-memory history.
func (s *State) AddToHistory(line string) {
	s.mu.Lock()
	s.history = append(s.history, line)
	s.mu.Unlock()
}

// saveHistory writes history back out in full, no locking — the
// history file is private to one running shell at a time, same as
// every other Shell State file the original keeps unlocked.
func (s *State) saveHistory() {
	f, err := os.Create(s.historyPath)
	if err != nil {
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	s.mu.Lock()
	lines := append([]string(nil), s.history...)
	s.mu.Unlock()
	for _, line := range lines {
		w.WriteString(line)
		w.WriteByte('\n')
	}
	w.Flush()
}

// SaveHistory exposes saveHistory for callers outside the shutdown
// path (e.g. the REPL loop's save at end of input).
func (s *State) SaveHistory() { s.saveHistory() }
