package news

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// RefreshInterval is the auto-refresh period once headlines are shown.
const RefreshInterval = 10 * time.Minute

var icon = gfx.Icon{
	0x0000, 0x7FFC, 0x4004, 0x5FF4, 0x4004, 0x5E04, 0x5EF4, 0x5E04,
	0x40F4, 0x4004, 0x5FF4, 0x4004, 0x5FF4, 0x4004, 0x7FFC, 0x0000,
}

type Task struct {
	applet.Base

	headlines []Headline
	cur       int
	errMsg    string
	lastFetch time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "News", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.headlines = nil
	t.cur = 0
	t.errMsg = ""
}

func (t *Task) fetch(ctx *applet.Context) {
	h, err := Fetch(ctx.Net, Key(ctx.Prefs))
	if err != nil {
		t.errMsg = Message(err)
		if ctx.Log != nil {
			ctx.Log.Debug("news fetch", "err", err)
		}
		return
	}
	t.headlines = h
	t.cur = 0
	t.errMsg = ""
	t.lastFetch = ctx.Now
}

func (t *Task) Update(ctx *applet.Context) {
	if len(t.headlines) > 0 && ctx.Now.Sub(t.lastFetch) >= RefreshInterval {
		t.fetch(ctx)
	}
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch b {
	case hal.ButtonUp:
		if t.cur > 0 {
			t.cur--
		}
	case hal.ButtonDown:
		if t.cur < len(t.headlines)-1 {
			t.cur++
		}
	case hal.ButtonA, hal.ButtonC:
		t.fetch(ctx)
	case hal.ButtonB, hal.ButtonD:
		t.Exit()
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("News")
	w, _ := s.Size()
	top := s.TitleBarHeight() + 1
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to fetch")
	case len(t.headlines) == 0:
		s.Centered(s.Normal, 26, "Press A to fetch")
	default:
		h := t.headlines[t.cur]
		s.Text(s.Small, 2, top, gfx.Truncate(h.Source, 24), true)
		s.TextWrapped(s.Small, 2, top+s.Small.Height+1, w-4, h.Title)
		nav := fmt.Sprintf("%d/%d", t.cur+1, len(t.headlines))
		s.Text(s.Small, w-s.TextWidth(s.Small, nav)-1, top, nav, true)
	}
	s.StatusBar("U/D:Scroll", "B:Back")
	_ = s.Flush()
}
