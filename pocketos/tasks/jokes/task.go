package jokes

import (
	"errors"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

var icon = gfx.Icon{
	0x07E0, 0x1818, 0x2004, 0x4002, 0x4C32, 0x8C31, 0x8001, 0x8001,
	0x9009, 0x8811, 0x47E2, 0x4002, 0x2004, 0x1818, 0x07E0, 0x0000,
}

type Task struct {
	applet.Base

	joke      Joke
	hasData   bool
	punchline bool
	errMsg    string
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Jokes", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.joke = Joke{}
	t.hasData = false
	t.punchline = false
	t.errMsg = ""
}

func message(err error) string {
	switch {
	case errors.Is(err, ErrAPI):
		return "API error"
	case errors.Is(err, ErrEmpty):
		return "No joke received"
	default:
		return "Parse error"
	}
}

func (t *Task) fetch(ctx *applet.Context) {
	t.punchline = false
	if ctx.Net == nil || !ctx.Net.Connected() {
		t.errMsg = "No WiFi"
		return
	}
	body := ctx.Net.Get(URL)
	if len(body) == 0 {
		t.errMsg = "Network error"
		return
	}
	j, err := Parse(body)
	if err != nil {
		t.errMsg = message(err)
		if ctx.Log != nil {
			ctx.Log.Debug("joke fetch", "err", err)
		}
		return
	}
	t.joke = j
	t.hasData = true
	t.errMsg = ""
}

func (t *Task) Update(*applet.Context) {}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch b {
	case hal.ButtonA:
		if t.hasData && t.joke.TwoPart() && !t.punchline {
			t.punchline = true
			return
		}
		t.fetch(ctx)
	case hal.ButtonC:
		t.fetch(ctx)
	case hal.ButtonB, hal.ButtonD:
		t.Exit()
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("Jokes")
	w, _ := s.Size()
	top := s.TitleBarHeight() + 2
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case !t.hasData:
		s.Centered(s.Normal, 26, "Press A for a joke")
	default:
		y := s.TextWrapped(s.Small, 2, top, w-4, t.joke.Setup)
		if t.joke.TwoPart() {
			if t.punchline {
				s.HLine(0, y+1, w, true)
				s.TextWrapped(s.Small, 2, y+3, w-4, t.joke.Delivery)
			} else {
				s.Centered(s.Small, 46, "[Press A for punchline]")
			}
		}
	}
	hint := "A:Next"
	if t.hasData && t.joke.TwoPart() && !t.punchline {
		hint = "A:Reveal"
	}
	s.StatusBar(hint, "B:Back")
	_ = s.Flush()
}
