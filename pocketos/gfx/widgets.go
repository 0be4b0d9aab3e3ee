package gfx

// Standard chrome shared by the built-in layers.

// TitleBarHeight is the height of the inverted bar drawn by TitleBar.
func (s *Surface) TitleBarHeight() int16 { return s.Normal.Height + 1 }

// TitleBar draws an inverted bar with title at the top of the screen.
func (s *Surface) TitleBar(title string) {
	h := s.TitleBarHeight()
	s.Box(0, 0, s.w, h, true)
	x := (s.w - s.TextWidth(s.Normal, title)) / 2
	if x < 0 {
		x = 0
	}
	s.Text(s.Normal, x, 1, title, false)
}

// StatusBar draws a hint line at the bottom of the screen.
func (s *Surface) StatusBar(left, right string) {
	y := s.h - s.Small.Height
	s.HLine(0, y-1, s.w, true)
	s.Text(s.Small, 1, y, left, true)
	if right != "" {
		s.Text(s.Small, s.w-s.TextWidth(s.Small, right)-1, y, right, true)
	}
}

// MenuItem draws one list row; the selected row is inverted.
func (s *Surface) MenuItem(y int16, label string, selected bool) {
	h := s.Normal.Height
	if selected {
		s.Box(0, y, s.w-4, h, true)
	}
	s.Text(s.Normal, 2, y, label, !selected)
}

// ProgressBar draws a framed bar filled to percent.
func (s *Surface) ProgressBar(x, y, w, h int16, percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	s.Frame(x, y, w, h, true)
	fill := int16(int(w-4) * percent / 100)
	s.Box(x+2, y+2, fill, h-4, true)
}

// Scrollbar draws a thin bar on the right edge for a list of total rows
// showing visible rows starting at first.
func (s *Surface) Scrollbar(top int16, total, visible, first int) {
	if total <= visible || total <= 0 {
		return
	}
	trackH := s.h - top
	x := s.w - 2
	s.VLine(x, top, trackH, true)
	thumbH := int16(int(trackH) * visible / total)
	if thumbH < 3 {
		thumbH = 3
	}
	thumbY := top + int16(int(trackH-thumbH)*first/(total-visible))
	s.Box(x-1, thumbY, 3, thumbH, true)
}
