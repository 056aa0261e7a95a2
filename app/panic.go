package app

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// recoverStep turns a panic inside a frame into an error. The stack goes to
// the log one line at a time and the surface is blanked.
func (s *Session) recoverStep(err *error) {
	r := recover()
	if r == nil {
		return
	}
	s.logf("app: panic in frame %d: %v", s.frames, r)
	for _, line := range strings.Split(string(debug.Stack()), "\n") {
		if line == "" {
			continue
		}
		s.logf("%s", line)
	}
	s.done = true
	s.teardownQuietly()
	*err = fmt.Errorf("app: panic: %v", r)
}

func (s *Session) teardownQuietly() {
	defer func() { _ = recover() }()
	s.surface.Teardown()
}
