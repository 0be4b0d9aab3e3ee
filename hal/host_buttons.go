//go:build !tinygo

package hal

import "sync"

// hostButtons holds the raw state fed by the window or the headless script.
type hostButtons struct {
	mu    sync.Mutex
	state [NumButtons]bool
}

func newHostButtons() *hostButtons {
	return &hostButtons{}
}

func (b *hostButtons) Pressed(btn Button) bool {
	if btn >= NumButtons {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state[btn]
}

func (b *hostButtons) set(btn Button, pressed bool) {
	if btn >= NumButtons {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state[btn] = pressed
}
