package hal

import (
	"errors"
	"net"
	"strings"
	"time"

	"tinygo.org/x/drivers"
)

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Screen is the single display surface.
//
// Pixels drawn with SetPixel become visible on Display. The panel is
// monochrome on hardware; any non-black color lights the pixel.
type Screen interface {
	drivers.Displayer

	// SetPower turns the panel on or off without touching the pixel buffer.
	SetPower(on bool)
	// SetBrightness sets the panel contrast, 0 is dimmest.
	SetBrightness(level uint8)
}

// Button is one of the eight fixed logical buttons.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	ButtonUp
	ButtonDown
	ButtonA
	ButtonB
	ButtonC
	ButtonD

	NumButtons = 8
)

func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "LEFT"
	case ButtonRight:
		return "RIGHT"
	case ButtonUp:
		return "UP"
	case ButtonDown:
		return "DOWN"
	case ButtonA:
		return "A"
	case ButtonB:
		return "B"
	case ButtonC:
		return "C"
	case ButtonD:
		return "D"
	default:
		return "UNKNOWN"
	}
}

// ParseButton maps a name such as "up" or "A" to its button.
func ParseButton(name string) (Button, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for b := Button(0); b < NumButtons; b++ {
		if b.String() == name {
			return b, true
		}
	}
	return 0, false
}

// Directional reports whether b is one of the four arrow buttons.
func (b Button) Directional() bool {
	return b <= ButtonDown
}

// Buttons exposes the raw, undebounced state of the logical buttons.
type Buttons interface {
	Pressed(b Button) bool
}

// Flash provides raw access to non-volatile memory.
//
// It is intentionally low-level: addresses and erase blocks only.
type Flash interface {
	SizeBytes() uint32
	EraseBlockBytes() uint32
	ReadAt(p []byte, off uint32) (int, error)
	WriteAt(p []byte, off uint32) (int, error)
	Erase(off, size uint32) error
}

// Clock is the monotonic time source for the tick loop.
type Clock interface {
	Now() time.Time
}

// Power puts the CPU into its cheapest wait state.
type Power interface {
	// LightSleep blocks for about d in a low-power state. Any button press
	// may end the wait early.
	LightSleep(d time.Duration)
	// Reset reboots the device. It does not return on hardware; the host
	// returns and leaves rebuilding the system to the caller.
	Reset()
}

// Network is the station-mode network link (optional).
type Network interface {
	Connected() bool
	SSID() string
	// RSSI is the signal strength in dBm; 0 when unknown.
	RSSI() int
	// Get performs a blocking HTTP GET. An empty body is the only failure signal.
	Get(url string) []byte
	Listen(addr string) (net.Listener, error)
}

// HAL provides the only contact point between the OS and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Screen() Screen
	Buttons() Buttons
	Flash() Flash
	Clock() Clock
	Power() Power
	Network() Network
}
