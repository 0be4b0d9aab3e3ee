package launcher

import (
	"image/color"
	"testing"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

type stub struct{ applet.Base }

func (*stub) Init(*applet.Context)                          {}
func (*stub) Update(*applet.Context)                        {}
func (*stub) Render(*applet.Context)                        {}
func (*stub) HandleInput(*applet.Context, hal.Button, bool) {}
func (*stub) OnFocusLost(*applet.Context)                   {}

func newLauncher(n int) *Launcher {
	apps := make([]applet.App, n)
	for i := range apps {
		apps[i] = &stub{Base: applet.Base{AppName: string(rune('A' + i))}}
	}
	return New("Pocket", apps)
}

func press(l *Launcher, bs ...hal.Button) {
	for _, b := range bs {
		l.HandleInput(nil, b, true)
		l.HandleInput(nil, b, false)
	}
}

func TestNavigationClamps(t *testing.T) {
	// 10 apps: rows of 4, 4, 2.
	tests := []struct {
		name    string
		buttons []hal.Button
		want    int
	}{
		{"left at origin", []hal.Button{hal.ButtonLeft}, 0},
		{"up at origin", []hal.Button{hal.ButtonUp}, 0},
		{"right to edge", []hal.Button{hal.ButtonRight, hal.ButtonRight, hal.ButtonRight, hal.ButtonRight}, 3},
		{"down twice", []hal.Button{hal.ButtonDown, hal.ButtonDown}, 8},
		{"down past last row", []hal.Button{hal.ButtonDown, hal.ButtonDown, hal.ButtonDown}, 8},
		{"down into short row blocked", []hal.Button{hal.ButtonRight, hal.ButtonRight, hal.ButtonRight, hal.ButtonDown, hal.ButtonDown}, 7},
		{"right past last app", []hal.Button{hal.ButtonDown, hal.ButtonDown, hal.ButtonRight, hal.ButtonRight}, 9},
		{"back up", []hal.Button{hal.ButtonDown, hal.ButtonRight, hal.ButtonUp, hal.ButtonLeft}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLauncher(10)
			l.Init(nil)
			press(l, tt.buttons...)
			if l.Selected() != tt.want {
				t.Fatalf("Selected = %d, want %d", l.Selected(), tt.want)
			}
		})
	}
}

func TestScrollFollowsSelection(t *testing.T) {
	l := newLauncher(12)
	l.Init(nil)
	press(l, hal.ButtonDown, hal.ButtonDown)
	if l.Selected() != 8 || l.Scroll() != 1 {
		t.Fatalf("sel=%d scroll=%d, want 8 1", l.Selected(), l.Scroll())
	}
	press(l, hal.ButtonUp)
	if l.Scroll() != 1 {
		t.Fatalf("scroll moved while row visible: %d", l.Scroll())
	}
	press(l, hal.ButtonUp)
	if l.Selected() != 0 || l.Scroll() != 0 {
		t.Fatalf("sel=%d scroll=%d, want 0 0", l.Selected(), l.Scroll())
	}
}

func TestInitResetsSelection(t *testing.T) {
	l := newLauncher(12)
	press(l, hal.ButtonDown, hal.ButtonDown, hal.ButtonRight)
	l.Init(nil)
	if l.Selected() != 0 || l.Scroll() != 0 {
		t.Fatalf("after Init sel=%d scroll=%d", l.Selected(), l.Scroll())
	}
}

func TestEmptyGrid(t *testing.T) {
	l := newLauncher(0)
	l.Init(nil)
	press(l, hal.ButtonDown, hal.ButtonRight)
	if l.Selected() != 0 {
		t.Fatalf("Selected = %d", l.Selected())
	}
	l.Render(&applet.Context{Surface: gfx.New(nullDisplay{})})
}
