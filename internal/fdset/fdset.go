// Package fdset provides a scoped fd collector: every descriptor
// opened while planning a pipeline is tracked here and closed exactly
// once when the collector's scope ends, whether that end is normal
// completion or an error partway through planning.
//
// This is the systems-language-native replacement for the manual fd
// bookkeeping common in the corpus (a loop over pipe/open error paths
// calling close on whatever succeeded so far, seen throughout
// other_examples' rewire/pipeline helpers): a single owner with a
// collect-on-exit contract instead of repeating that cleanup at every
// return site.
package fdset

import "os"

// Collector is an ordered set of open file descriptors (as *os.File,
// so both pipe ends and opened redirection targets share one type).
// It is not safe for concurrent use; a pipeline is planned and spawned
// from a single goroutine.
type Collector struct {
	files []*os.File
}

// New returns an empty collector.
func New() *Collector {
	return &Collector{}
}

// Add registers f with the collector. f is closed the next time
// Collect runs (or Forget removes it first).
func (c *Collector) Add(f *os.File) {
	c.files = append(c.files, f)
}

// Forget removes f from the collector without closing it — used when
// ownership of a descriptor is handed off (e.g. into an *exec.Cmd that
// will close it itself once the child has it).
func (c *Collector) Forget(f *os.File) {
	for i, existing := range c.files {
		if existing == f {
			c.files = append(c.files[:i], c.files[i+1:]...)
			return
		}
	}
}

// Collect closes every tracked descriptor exactly once and empties the
// set. Safe to call multiple times; a second call is a no-op.
func (c *Collector) Collect() {
	for _, f := range c.files {
		f.Close()
	}
	c.files = nil
}

// Len reports how many descriptors are currently tracked.
func (c *Collector) Len() int {
	return len(c.files)
}
