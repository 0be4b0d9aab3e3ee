package gfx

// IconSize is the edge length of an app icon in pixels.
const IconSize = 16

// Icon is a 16x16 1-bit bitmap, one row per entry, most significant bit leftmost.
type Icon [IconSize]uint16

// DrawIcon draws the set bits of icon; clear bits are left untouched.
func (s *Surface) DrawIcon(x, y int16, icon *Icon) {
	for row := int16(0); row < IconSize; row++ {
		bits := icon[row]
		for col := int16(0); col < IconSize; col++ {
			if bits&(0x8000>>uint(col)) != 0 {
				s.Pixel(x+col, y+row, true)
			}
		}
	}
}

// DrawAppIcon draws icon, or a frame holding the first letter of name when icon is nil.
func (s *Surface) DrawAppIcon(x, y int16, icon *Icon, name string) {
	if icon != nil {
		s.DrawIcon(x, y, icon)
		return
	}
	s.Frame(x, y, IconSize, IconSize, true)
	if name == "" {
		return
	}
	letter := name[:1]
	lx := x + (IconSize-s.TextWidth(s.Normal, letter))/2
	ly := y + (IconSize-s.Normal.Height)/2
	s.Text(s.Normal, lx, ly, letter, true)
}
