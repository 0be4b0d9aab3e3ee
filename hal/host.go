//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Host screen geometry matches the SH1106/SSD1306 panel.
const (
	ScreenWidth  = 128
	ScreenHeight = 64
)

// HostOptions tunes the host HAL.
type HostOptions struct {
	// FlashPath overrides the flash image path. POCKETOS_FLASH_PATH wins over it.
	FlashPath string
	// Offline makes the network report no connection.
	Offline bool
	// Clock replaces the wall clock, for example with a fake in tests.
	Clock clockwork.Clock
}

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	screen *hostScreen
	btns   *hostButtons
	flash  Flash
	clock  hostClock
	net    Network
}

// New returns a host HAL implementation.
func New() HAL {
	return NewHost(HostOptions{})
}

// NewHost returns a host HAL implementation using opts.
func NewHost(opts HostOptions) HAL {
	logger := &hostLogger{w: os.Stderr}

	var flash Flash
	if f, err := newHostFlash(opts.FlashPath); err == nil {
		flash = f
	} else {
		logger.WriteLineString(fmt.Sprintf("flash: %v (settings will not persist)", err))
		flash = NewMemFlash(hostFlashDefaultSizeBytes, hostFlashEraseBlockBytes)
	}

	clk := opts.Clock
	if clk == nil {
		clk = clockwork.NewRealClock()
	}

	var nw Network = newHostNetwork()
	if opts.Offline {
		nw = nullNetwork{}
	}

	return &hostHAL{
		logger: logger,
		led:    &hostLED{logger: logger},
		screen: newHostScreen(ScreenWidth, ScreenHeight),
		btns:   newHostButtons(),
		flash:  flash,
		clock:  hostClock{c: clk},
		net:    nw,
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) Screen() Screen   { return h.screen }
func (h *hostHAL) Buttons() Buttons { return h.btns }
func (h *hostHAL) Flash() Flash     { return h.flash }
func (h *hostHAL) Clock() Clock     { return h.clock }
func (h *hostHAL) Power() Power     { return h.clock }
func (h *hostHAL) Network() Network { return h.net }

type hostClock struct {
	c clockwork.Clock
}

func (h hostClock) Now() time.Time { return h.c.Now() }

// LightSleep has no low-power state to enter on the host.
func (h hostClock) LightSleep(d time.Duration) { h.c.Sleep(d) }

// Reset cannot reboot the process; the step loop rebuilds the system instead.
func (hostClock) Reset() {}

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
	l.logger.WriteLineString("led: HIGH")
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
	l.logger.WriteLineString("led: LOW")
}
