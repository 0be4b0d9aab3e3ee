package trivia

import (
	"errors"
	"fmt"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

type state uint8

const (
	stateMenu state = iota
	statePlaying
	stateResult
)

var icon = gfx.Icon{
	0x0000, 0x07E0, 0x0FF0, 0x1C38, 0x1818, 0x0018, 0x0030, 0x0060,
	0x00C0, 0x0180, 0x0180, 0x0000, 0x0000, 0x0180, 0x0180, 0x0000,
}

type Task struct {
	applet.Base

	state    state
	q        Question
	selected int
	answered bool
	score    int
	asked    int
	errMsg   string
	rng      uint32
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Trivia", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.state = stateMenu
	t.score = 0
	t.asked = 0
	t.errMsg = ""
	t.rng = uint32(ctx.Now.UnixNano()) | 1
}

// next draws 0..3 from a xorshift generator.
func (t *Task) next() int {
	t.rng ^= t.rng << 13
	t.rng ^= t.rng >> 17
	t.rng ^= t.rng << 5
	return int(t.rng % numAnswers)
}

func (t *Task) fetch(ctx *applet.Context) {
	t.state = statePlaying
	if ctx.Net == nil || !ctx.Net.Connected() {
		t.errMsg = "No WiFi"
		return
	}
	body := ctx.Net.Get(URL)
	if len(body) == 0 {
		t.errMsg = "Network error"
		return
	}
	q, err := Parse(body, t.next())
	if err != nil {
		t.errMsg = "Parse error"
		if errors.Is(err, ErrAPI) {
			t.errMsg = "API error"
		}
		return
	}
	t.q = q
	t.selected = 0
	t.answered = false
	t.asked++
	t.errMsg = ""
}

func (t *Task) restart(ctx *applet.Context) {
	t.score = 0
	t.asked = 0
	t.fetch(ctx)
}

func (t *Task) Update(*applet.Context) {}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch t.state {
	case stateMenu, stateResult:
		switch b {
		case hal.ButtonA:
			t.restart(ctx)
		case hal.ButtonB, hal.ButtonD:
			t.Exit()
		}
	case statePlaying:
		t.playInput(ctx, b)
	}
}

func (t *Task) playInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonB:
		t.state = stateResult
		return
	case hal.ButtonD:
		t.Exit()
		return
	}
	if t.errMsg != "" {
		if b == hal.ButtonA {
			t.fetch(ctx)
		}
		return
	}
	if t.answered {
		if b == hal.ButtonA {
			t.fetch(ctx)
		}
		return
	}
	switch b {
	case hal.ButtonUp:
		if t.selected > 0 {
			t.selected--
		}
	case hal.ButtonDown:
		if t.selected < numAnswers-1 {
			t.selected++
		}
	case hal.ButtonA:
		t.answered = true
		if t.selected == t.q.Correct {
			t.score++
		}
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	w, _ := s.Size()
	switch t.state {
	case stateMenu:
		s.TitleBar("Trivia Quiz")
		s.Centered(s.Normal, 20, "Test your knowledge!")
		s.Centered(s.Small, 34, "Press A to start")
		s.StatusBar("A:Start", "B:Back")

	case statePlaying:
		s.TitleBar(fmt.Sprintf("Q%d Score:%d", t.asked, t.score))
		if t.errMsg != "" {
			s.Centered(s.Normal, 20, t.errMsg)
			s.Centered(s.Small, 34, "Press A to retry")
			s.StatusBar("A:Retry", "B:Quit")
			break
		}
		y := s.TitleBarHeight()
		s.Text(s.Small, 2, y, gfx.Truncate(t.q.Text, 40), true)
		y += s.Small.Height
		for i, a := range t.q.Answers {
			line := fmt.Sprintf("%c) %s", 'A'+i, gfx.Truncate(a, 18))
			switch {
			case t.answered && i == t.q.Correct:
				s.Box(0, y, w, s.Small.Height, true)
				s.Text(s.Small, 2, y, line, false)
			case t.answered && i == t.selected:
				s.Text(s.Small, 2, y, line, true)
				s.Text(s.Small, w-8, y, "X", true)
			case !t.answered && i == t.selected:
				s.Frame(0, y, w, s.Small.Height, true)
				s.Text(s.Small, 2, y, line, true)
			default:
				s.Text(s.Small, 2, y, line, true)
			}
			y += s.Small.Height
		}
		hint := "A:Submit"
		if t.answered {
			hint = "A:Next"
		}
		s.StatusBar(hint, "B:Quit")

	case stateResult:
		s.TitleBar("Game Over")
		s.Centered(s.Normal, 20, fmt.Sprintf("Score: %d/%d", t.score, t.asked))
		s.Centered(s.Normal, 34, Rating(t.score, t.asked))
		s.StatusBar("A:Again", "B:Exit")
	}
	_ = s.Flush()
}
