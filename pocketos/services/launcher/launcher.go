// Package launcher is the app grid shown between the homescreen and a
// running app.
package launcher

import (
	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// Grid geometry.
const (
	Cols        = 4
	VisibleRows = 2
	CellWidth   = 32
	CellHeight  = 20

	gridTop = 12
	nameTop = 54
)

// Launcher tracks the selected grid cell. A press launches the selection
// and B returns home; both are decided by the focus machine.
type Launcher struct {
	applet.Base

	title  string
	apps   []applet.App
	sel    int
	scroll int
}

func New(title string, apps []applet.App) *Launcher {
	return &Launcher{Base: applet.Base{AppName: "Launcher"}, title: title, apps: apps}
}

// Selected is the index of the highlighted app.
func (l *Launcher) Selected() int { return l.sel }

// Scroll is the first visible grid row.
func (l *Launcher) Scroll() int { return l.scroll }

func (l *Launcher) rows() int { return (len(l.apps) + Cols - 1) / Cols }

func (l *Launcher) Init(*applet.Context) {
	l.sel = 0
	l.scroll = 0
}

func (l *Launcher) Update(*applet.Context) {}

func (l *Launcher) OnFocusLost(*applet.Context) {}

func (l *Launcher) HandleInput(_ *applet.Context, b hal.Button, pressed bool) {
	if !pressed || len(l.apps) == 0 {
		return
	}
	row, col := l.sel/Cols, l.sel%Cols
	switch b {
	case hal.ButtonUp:
		if row > 0 {
			l.sel -= Cols
		}
	case hal.ButtonDown:
		if row < l.rows()-1 && l.sel+Cols < len(l.apps) {
			l.sel += Cols
		}
	case hal.ButtonLeft:
		if col > 0 {
			l.sel--
		}
	case hal.ButtonRight:
		if col < Cols-1 && l.sel+1 < len(l.apps) {
			l.sel++
		}
	}
	l.follow()
}

// follow scrolls so the selected row is visible.
func (l *Launcher) follow() {
	row := l.sel / Cols
	switch {
	case row < l.scroll:
		l.scroll = row
	case row >= l.scroll+VisibleRows:
		l.scroll = row - VisibleRows + 1
	}
}

func (l *Launcher) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	w, _ := s.Size()

	s.Text(s.Small, 2, 1, l.title, true)
	if ctx.Net != nil && ctx.Net.Connected() {
		s.Text(s.Small, w-s.TextWidth(s.Small, "WiFi")-2, 1, "WiFi", true)
	}
	s.HLine(0, gridTop-3, w, true)

	for row := 0; row < VisibleRows; row++ {
		for col := 0; col < Cols; col++ {
			i := (row+l.scroll)*Cols + col
			if i >= len(l.apps) {
				break
			}
			x := int16(col*CellWidth + (CellWidth-gfx.IconSize)/2)
			y := int16(gridTop + row*CellHeight)
			a := l.apps[i]
			s.DrawAppIcon(x, y, a.Icon(), a.Name())
			if i == l.sel {
				s.Frame(x-2, y-2, gfx.IconSize+4, gfx.IconSize+4, true)
			}
		}
	}

	if l.sel < len(l.apps) {
		s.HLine(0, nameTop, w, true)
		s.Centered(s.Small, nameTop+2, l.apps[l.sel].Name())
	}
	s.Scrollbar(gridTop, l.rows(), VisibleRows, l.scroll)
	_ = s.Flush()
}
