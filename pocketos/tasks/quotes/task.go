package quotes

import (
	"errors"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

var icon = gfx.Icon{
	0x0000, 0x0000, 0x0000, 0x3838, 0x7C7C, 0x6464, 0x6464, 0x7C7C,
	0x3C3C, 0x0C0C, 0x1818, 0x3030, 0x6060, 0x0000, 0x0000, 0x0000,
}

type Task struct {
	applet.Base

	quote   Quote
	hasData bool
	errMsg  string
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Quotes", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.quote = Quote{}
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
		if errors.Is(err, ErrEmpty) {
			t.errMsg = "No quote received"
		}
		if ctx.Log != nil {
			ctx.Log.Debug("quote fetch", "err", err)
		}
		return
	}
	t.quote = q
	t.hasData = true
	t.errMsg = ""
}

func (t *Task) Update(*applet.Context) {}

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
	s.TitleBar("Quotes")
	w, h := s.Size()
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case !t.hasData:
		s.Centered(s.Normal, 26, "Press A for a quote")
	default:
		byline := s.Small.Height * 2
		y := s.TextWrapped(s.Small, 2, s.TitleBarHeight()+2, w-4, `"`+t.quote.Text+`"`)
		if y > h-byline {
			y = h - byline
		}
		s.Text(s.Small, 4, y, "- "+gfx.Truncate(t.quote.Author, 40), true)
	}
	s.StatusBar("A:Next", "B:Back")
	_ = s.Flush()
}
