// Package gfx draws the shared monochrome UI onto the screen.
package gfx

import (
	"image/color"

	"tinygo.org/x/drivers"
)

var (
	White = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	Black = color.RGBA{A: 0xFF}
)

func ink(on bool) color.RGBA {
	if on {
		return White
	}
	return Black
}

// rectFiller is implemented by displays with a fast fill path.
type rectFiller interface {
	FillRectangle(x, y, width, height int16, c color.RGBA) error
}

// Surface is the single drawing target shared by every layer. Layers call
// Clear first and Flush last inside their Render.
type Surface struct {
	d    drivers.Displayer
	w, h int16

	Small  *Face
	Normal *Face
	Large  *Face
}

// New wraps d with the default faces.
func New(d drivers.Displayer) *Surface {
	w, h := d.Size()
	return &Surface{
		d:      d,
		w:      w,
		h:      h,
		Small:  SmallFace,
		Normal: NormalFace,
		Large:  LargeFace,
	}
}

func (s *Surface) Size() (w, h int16) { return s.w, s.h }

// Displayer exposes the underlying display for code drawing with tinyfont directly.
func (s *Surface) Displayer() drivers.Displayer { return s.d }

// Clear blanks the back buffer.
func (s *Surface) Clear() {
	s.Box(0, 0, s.w, s.h, false)
}

// Flush publishes the back buffer.
func (s *Surface) Flush() error {
	return s.d.Display()
}

func (s *Surface) Pixel(x, y int16, on bool) {
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return
	}
	s.d.SetPixel(x, y, ink(on))
}

// Box fills a rectangle, clipped to the screen.
func (s *Surface) Box(x, y, w, h int16, on bool) {
	if x < 0 {
		w += x
		x = 0
	}
	if y < 0 {
		h += y
		y = 0
	}
	if x+w > s.w {
		w = s.w - x
	}
	if y+h > s.h {
		h = s.h - y
	}
	if w <= 0 || h <= 0 {
		return
	}
	if f, ok := s.d.(rectFiller); ok {
		if f.FillRectangle(x, y, w, h, ink(on)) == nil {
			return
		}
	}
	c := ink(on)
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			s.d.SetPixel(xx, yy, c)
		}
	}
}

func (s *Surface) HLine(x, y, w int16, on bool) { s.Box(x, y, w, 1, on) }
func (s *Surface) VLine(x, y, h int16, on bool) { s.Box(x, y, 1, h, on) }

// Frame draws a one pixel rectangle outline.
func (s *Surface) Frame(x, y, w, h int16, on bool) {
	if w <= 0 || h <= 0 {
		return
	}
	s.HLine(x, y, w, on)
	s.HLine(x, y+h-1, w, on)
	s.VLine(x, y, h, on)
	s.VLine(x+w-1, y, h, on)
}
