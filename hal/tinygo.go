//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"machine"
	"time"
)

// Pico wiring.
//
// UART: UART0 on GP0 (TX) / GP1 (RX), 115200 8N1.
// OLED: SSD1306 128x64 on I2C0, GP4 (SDA) / GP5 (SCL), address 0x3C.
// Buttons: GP10..GP17 in Button order, to ground, internal pull-ups.
var (
	picoOLEDSDA = machine.GP4
	picoOLEDSCL = machine.GP5

	picoButtonPins = [NumButtons]machine.Pin{
		ButtonLeft:  machine.GP10,
		ButtonRight: machine.GP11,
		ButtonUp:    machine.GP12,
		ButtonDown:  machine.GP13,
		ButtonA:     machine.GP14,
		ButtonB:     machine.GP15,
		ButtonC:     machine.GP16,
		ButtonD:     machine.GP17,
	}
)

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	screen Screen
	btns   *pinButtons
	flash  Flash
	net    Network
}

// New returns a Raspberry Pi Pico HAL implementation.
func New() HAL {
	uart := machine.UART0
	uart.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GP0,
		RX:       machine.GP1,
	})
	logger := &uartLogger{uart: uart}

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})

	screen, err := newOLEDScreen(machine.I2C0, picoOLEDSDA, picoOLEDSCL)
	if err != nil {
		logger.WriteLineString("oled: " + err.Error())
		screen = newNullScreen(128, 64)
	}

	return &tinyGoHAL{
		logger: logger,
		led:    &pinLED{pin: ledPin},
		screen: screen,
		btns:   newPinButtons(picoButtonPins),
		flash:  newRP2Flash(),
		net:    nullNetwork{},
	}
}

func (h *tinyGoHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHAL) LED() LED         { return h.led }
func (h *tinyGoHAL) Screen() Screen   { return h.screen }
func (h *tinyGoHAL) Buttons() Buttons { return h.btns }
func (h *tinyGoHAL) Flash() Flash     { return h.flash }
func (h *tinyGoHAL) Clock() Clock     { return tinyGoClock{} }
func (h *tinyGoHAL) Power() Power     { return tinyGoClock{} }
func (h *tinyGoHAL) Network() Network { return h.net }

type tinyGoClock struct{}

func (tinyGoClock) Now() time.Time { return time.Now() }

// LightSleep relies on the TinyGo scheduler idling the core in WFE between timer events.
func (tinyGoClock) LightSleep(d time.Duration) { time.Sleep(d) }

func (tinyGoClock) Reset() { machine.CPUReset() }
