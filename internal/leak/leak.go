// Package leak reports owning handles that become unreachable while still
// holding their payload, i.e. handles that were never dropped.
package leak

import (
	"runtime"

	"github.com/joshuapare/ownkit/logger"
)

// Token cancels a pending leak report. The zero Token is inert.
type Token struct {
	c      runtime.Cleanup
	active bool
}

// site describes where a handle was created. It must not reference the
// handle itself, otherwise the cleanup would keep it alive.
type site struct {
	kind string
	file string
	line int
}

// Track arranges for a warning to be logged if h is garbage collected
// before the returned token is stopped. It is a no-op unless leak checking
// is enabled in the logger. skip is the number of callers to skip when
// recording the creation site, relative to the caller of Track.
func Track[H any](h *H, kind string, skip int) Token {
	if !logger.LeakCheck() {
		return Token{}
	}
	s := site{kind: kind}
	_, s.file, s.line, _ = runtime.Caller(skip + 1)
	return Token{c: runtime.AddCleanup(h, report, s), active: true}
}

// Stop cancels the report. Safe to call on the zero Token and more than once.
func (t *Token) Stop() {
	if t.active {
		t.c.Stop()
		t.active = false
	}
}

func report(s site) {
	logger.Warn("handle leaked without Drop", "kind", s.kind, "file", s.file, "line", s.line)
}
