//go:build !tinygo

package hal

import (
	"image/color"
	"sync"
)

// hostScreen is a 1-bit page-ordered frame buffer presented by the window runner.
type hostScreen struct {
	mu     sync.Mutex
	width  int
	height int
	// buf is the back buffer written by SetPixel, front is what Display published.
	buf   []byte
	front []byte

	on         bool
	brightness uint8
	frames     uint64
}

func newHostScreen(width, height int) *hostScreen {
	n := width * ((height + 7) / 8)
	return &hostScreen{
		width:      width,
		height:     height,
		buf:        make([]byte, n),
		front:      make([]byte, n),
		on:         true,
		brightness: 0xFF,
	}
}

func (s *hostScreen) Size() (x, y int16) { return int16(s.width), int16(s.height) }

func (s *hostScreen) SetPixel(x, y int16, c color.RGBA) {
	if x < 0 || y < 0 || int(x) >= s.width || int(y) >= s.height {
		return
	}
	i, bit := pageIndex(s.width, int(x), int(y))
	if Lit(c) {
		s.buf[i] |= bit
	} else {
		s.buf[i] &^= bit
	}
}

func (s *hostScreen) Display() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copy(s.front, s.buf)
	s.frames++
	return nil
}

func (s *hostScreen) SetPower(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.on = on
}

func (s *hostScreen) SetBrightness(level uint8) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.brightness = level
}

// litAt reports whether (x, y) is on in the published frame.
func (s *hostScreen) litAt(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, bit := pageIndex(s.width, x, y)
	return s.front[i]&bit != 0
}

// snapshotRGBA converts the published frame into dst (RGBA, 4 bytes per pixel),
// applying power and brightness the way the panel would.
func (s *hostScreen) snapshotRGBA(dst []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep the dimmest setting visible on a desktop monitor.
	scale := 64 + uint32(s.brightness)*191/255
	on := color.RGBA{
		R: uint8(uint32(Phosphor.R) * scale / 255),
		G: uint8(uint32(Phosphor.G) * scale / 255),
		B: uint8(uint32(Phosphor.B) * scale / 255),
	}
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			j := (y*s.width + x) * 4
			if j+3 >= len(dst) {
				return
			}
			px := color.RGBA{}
			if i, bit := pageIndex(s.width, x, y); s.on && s.front[i]&bit != 0 {
				px = on
			}
			dst[j+0], dst[j+1], dst[j+2], dst[j+3] = px.R, px.G, px.B, 0xFF
		}
	}
}

// Frames reports how many times Display was called.
func (s *hostScreen) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}
