//go:build !tinygo && !cgo

package hal

func (b *hostButtons) poll() {
	// No keyboard support without the window backend.
}
