// Package facts shows a random fact from the Useless Facts API.
package facts

import (
	"encoding/json"
	"errors"
	"fmt"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

const URL = "https://uselessfacts.jsph.pl/api/v2/facts/random?language=en"

var (
	ErrEmpty = errors.New("facts: no fact received")
	ErrParse = errors.New("facts: bad response")
)

// Parse returns the fact text of a response.
func Parse(body []byte) (string, error) {
	var doc struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Text == "" {
		return "", ErrEmpty
	}
	return doc.Text, nil
}

var icon = gfx.Icon{
	0x0000, 0x07E0, 0x1818, 0x2004, 0x2184, 0x4182, 0x4002, 0x4182,
	0x4182, 0x4182, 0x2184, 0x2184, 0x1818, 0x07E0, 0x0000, 0x0000,
}

type Task struct {
	applet.Base

	fact   string
	errMsg string
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Facts", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.fact = ""
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
	f, err := Parse(body)
	switch {
	case errors.Is(err, ErrEmpty):
		t.errMsg = "No fact received"
		return
	case err != nil:
		t.errMsg = "Parse error"
		return
	}
	t.fact = f
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
	s.TitleBar("Random Fact")
	w, _ := s.Size()
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case t.fact == "":
		s.Centered(s.Normal, 26, "Press A for a fact")
	default:
		s.TextWrapped(s.Small, 2, s.TitleBarHeight()+2, w-4, t.fact)
	}
	s.StatusBar("A:Next", "B:Back")
	_ = s.Flush()
}
