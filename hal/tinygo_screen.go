//go:build tinygo && (rp2040 || rp2350)

package hal

import (
	"fmt"
	"image/color"
	"machine"

	"tinygo.org/x/drivers/ssd1306"
)

// oledScreen drives an SSD1306 over I2C.
type oledScreen struct {
	dev *ssd1306.Device
}

func newOLEDScreen(bus *machine.I2C, sda, scl machine.Pin) (*oledScreen, error) {
	if err := bus.Configure(machine.I2CConfig{
		Frequency: 400 * machine.KHz,
		SDA:       sda,
		SCL:       scl,
	}); err != nil {
		return nil, fmt.Errorf("configure i2c: %w", err)
	}

	dev := ssd1306.NewI2C(bus)
	dev.Configure(ssd1306.Config{
		Address:  0x3C,
		Width:    128,
		Height:   64,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	dev.ClearDisplay()
	return &oledScreen{dev: dev}, nil
}

func (s *oledScreen) Size() (x, y int16)                { return s.dev.Size() }
func (s *oledScreen) SetPixel(x, y int16, c color.RGBA) { s.dev.SetPixel(x, y, c) }
func (s *oledScreen) Display() error                    { return s.dev.Display() }

func (s *oledScreen) SetPower(on bool) {
	_ = s.dev.Sleep(!on)
}

func (s *oledScreen) SetBrightness(level uint8) {
	s.dev.Command(ssd1306.SETCONTRAST)
	s.dev.Command(level)
}

// nullScreen keeps the OS running when the panel is missing.
type nullScreen struct {
	w, h int16
}

func newNullScreen(w, h int16) *nullScreen { return &nullScreen{w: w, h: h} }

func (s *nullScreen) Size() (x, y int16)                { return s.w, s.h }
func (s *nullScreen) SetPixel(int16, int16, color.RGBA) {}
func (s *nullScreen) Display() error                    { return nil }
func (s *nullScreen) SetPower(bool)                     {}
func (s *nullScreen) SetBrightness(uint8)               {}
