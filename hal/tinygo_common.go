//go:build tinygo && (rp2040 || rp2350)

package hal

import "machine"

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// pinButtons reads active-low push buttons.
type pinButtons struct {
	pins [NumButtons]machine.Pin
}

func newPinButtons(pins [NumButtons]machine.Pin) *pinButtons {
	for _, p := range pins {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	}
	return &pinButtons{pins: pins}
}

func (b *pinButtons) Pressed(btn Button) bool {
	if btn >= NumButtons {
		return false
	}
	return !b.pins[btn].Get()
}
