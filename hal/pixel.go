package hal

import "image/color"

// Lit reports whether c lights a pixel of the monochrome panel. The SSD1306
// driver treats every non-black color as on.
func Lit(c color.RGBA) bool { return c.R|c.G|c.B != 0 }

// Phosphor is the color of a lit pixel in the host window.
var Phosphor = color.RGBA{R: 0xE8, G: 0xF4, B: 0xFF, A: 0xFF}

// pageIndex maps (x, y) to the byte and bit of a page-ordered 1-bit buffer,
// the SSD1306 GDDRAM layout: each byte holds 8 vertical pixels.
func pageIndex(width, x, y int) (int, uint8) {
	return (y/8)*width + x, uint8(1) << (y % 8)
}
