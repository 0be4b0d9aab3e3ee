package kernel

import (
	"errors"
	"sync"
	"sync/atomic"
)

var (
	// ErrPanicked is returned by Step once a tick has panicked.
	ErrPanicked = errors.New("kernel: panicked")
	// ErrRestart is returned by Step after Restart on a platform whose
	// reset returns. The caller rebuilds the system.
	ErrRestart = errors.New("kernel: restart requested")
)

// PanicInfo contains details about a recovered panic.
type PanicInfo struct {
	// App is the running app, empty when Home or the Launcher had focus.
	App   string
	Layer string
	Value any
	Stack []byte
}

var (
	panicActive atomic.Bool
	panicOnce   sync.Once

	panicHandler atomic.Value // func(PanicInfo)
)

// InPanicMode reports whether a tick has panicked.
func InPanicMode() bool {
	return panicActive.Load()
}

// SetPanicHandler installs a process-wide panic handler.
//
// The handler is invoked at most once (on the first panic). It must not panic.
func SetPanicHandler(fn func(PanicInfo)) {
	panicHandler.Store(fn)
}

func triggerPanic(info PanicInfo) {
	panicOnce.Do(func() {
		panicActive.Store(true)
		info.Stack = captureStack()
		if v := panicHandler.Load(); v != nil {
			if fn, ok := v.(func(PanicInfo)); ok && fn != nil {
				fn(info)
			}
		}
	})
}
