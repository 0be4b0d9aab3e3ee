package crypto

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// RefreshInterval is the auto-refresh period once prices are shown.
const RefreshInterval = time.Minute

var icon = gfx.Icon{
	0x0000, 0x07E0, 0x1FF8, 0x3E7C, 0x7C1E, 0x7D9E, 0xFC3F, 0xFD9F,
	0xFD9F, 0xFC3F, 0x7E7E, 0x7FFE, 0x3FFC, 0x1FF8, 0x07E0, 0x0000,
}

type Task struct {
	applet.Base

	quotes    [len(Coins)]Quote
	hasData   bool
	errMsg    string
	lastFetch time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Crypto", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.hasData = false
	t.errMsg = ""
}

func (t *Task) fetch(ctx *applet.Context) {
	if ctx.Net == nil || !ctx.Net.Connected() {
		t.errMsg = "No WiFi"
		return
	}
	body := ctx.Net.Get(URL)
	if len(body) == 0 {
		t.errMsg = "Network error"
		return
	}
	q, err := Parse(body)
	if err != nil {
		t.errMsg = "Parse error"
		if ctx.Log != nil {
			ctx.Log.Debug("crypto fetch", "err", err)
		}
		return
	}
	t.quotes = q
	t.hasData = true
	t.errMsg = ""
	t.lastFetch = ctx.Now
}

func (t *Task) Update(ctx *applet.Context) {
	if t.hasData && ctx.Now.Sub(t.lastFetch) >= RefreshInterval {
		t.fetch(ctx)
	}
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch b {
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
	s.TitleBar("Crypto Prices")
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case !t.hasData:
		s.Centered(s.Normal, 26, "Press A to fetch")
	default:
		y := s.TitleBarHeight() + 1
		for i, c := range Coins {
			s.Text(s.Small, 4, y, Line(c, t.quotes[i]), true)
			y += s.Small.Height + 1
		}
		ago := int(ctx.Now.Sub(t.lastFetch).Seconds())
		s.Text(s.Small, 4, y, fmt.Sprintf("Updated %ds ago", ago), true)
	}
	s.StatusBar("A:Refresh", "B:Back")
	_ = s.Flush()
}
