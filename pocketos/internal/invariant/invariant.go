// Package invariant reports scheduler bugs: states the focus machine and the
// tick loop must never reach.
//
// Development builds panic on the first violation. Builds tagged "release"
// log it and keep running, since the device has no way to recover from a halt.
package invariant

import (
	"fmt"
	"sync/atomic"
)

// Violation describes a broken invariant.
type Violation struct {
	Msg string
}

func (v Violation) Error() string { return "invariant violated: " + v.Msg }

var handler atomic.Value // func(Violation)

// SetHandler installs a process-wide violation handler and returns the previous one.
// A nil fn restores the build default.
func SetHandler(fn func(Violation)) func(Violation) {
	prev, _ := handler.Load().(func(Violation))
	if fn == nil {
		fn = defaultHandler
	}
	handler.Store(fn)
	if prev == nil {
		prev = defaultHandler
	}
	return prev
}

// Failf reports a violation.
func Failf(format string, args ...any) {
	v := Violation{Msg: fmt.Sprintf(format, args...)}
	fn, _ := handler.Load().(func(Violation))
	if fn == nil {
		fn = defaultHandler
	}
	fn(v)
}
