package timer

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

type mode uint8

const (
	modeSelect mode = iota
	modeSetup
	modeCountdown
	modeStopwatch
)

type state uint8

const (
	stopped state = iota
	running
	paused
	finished
)

var icon = gfx.Icon{
	0x07E0, 0x0180, 0x07E0, 0x1818, 0x2184, 0x4182, 0x4182, 0x8181,
	0x81F1, 0x8001, 0x4002, 0x4002, 0x2004, 0x1818, 0x07E0, 0x0000,
}

// Task is a stopwatch and a countdown timer.
type Task struct {
	applet.Base

	mode  mode
	state state
	menu  int

	// fields is hours, minutes and seconds of the countdown preset.
	fields [3]int
	field  int

	target  time.Duration
	elapsed time.Duration
	banked  time.Duration
	started time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Timer", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.mode = modeSelect
	t.menu = 0
	t.fields = [3]int{0, 5, 0}
	t.field = 1
	t.reset()
}

func (t *Task) reset() {
	t.state = stopped
	t.elapsed = 0
	t.banked = 0
}

func (t *Task) preset() time.Duration {
	return time.Duration(t.fields[0])*time.Hour +
		time.Duration(t.fields[1])*time.Minute +
		time.Duration(t.fields[2])*time.Second
}

// Remaining is the countdown time left.
func (t *Task) Remaining() time.Duration {
	if t.elapsed >= t.target {
		return 0
	}
	return t.target - t.elapsed
}

func (t *Task) Update(ctx *applet.Context) {
	if t.state != running {
		return
	}
	t.elapsed = t.banked + ctx.Now.Sub(t.started)
	if t.mode == modeCountdown && t.elapsed >= t.target {
		t.elapsed = t.target
		t.state = finished
	}
}

func (t *Task) toggle(now time.Time) {
	switch t.state {
	case running:
		t.state = paused
		t.banked = t.elapsed
	case paused, stopped:
		t.state = running
		t.started = now
	}
}

var wraps = [3]int{24, 60, 60}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch t.mode {
	case modeSelect:
		switch b {
		case hal.ButtonUp:
			t.menu = 0
		case hal.ButtonDown:
			t.menu = 1
		case hal.ButtonA:
			if t.menu == 0 {
				t.mode = modeSetup
				t.field = 1
			} else {
				t.mode = modeStopwatch
				t.reset()
			}
		case hal.ButtonB, hal.ButtonD:
			t.Exit()
		}

	case modeSetup:
		switch b {
		case hal.ButtonLeft:
			if t.field > 0 {
				t.field--
			}
		case hal.ButtonRight:
			if t.field < 2 {
				t.field++
			}
		case hal.ButtonUp:
			t.fields[t.field] = (t.fields[t.field] + 1) % wraps[t.field]
		case hal.ButtonDown:
			t.fields[t.field] = (t.fields[t.field] + wraps[t.field] - 1) % wraps[t.field]
		case hal.ButtonA:
			if d := t.preset(); d > 0 {
				t.target = d
				t.mode = modeCountdown
				t.reset()
				t.toggle(ctx.Now)
			}
		case hal.ButtonB:
			t.mode = modeSelect
		}

	case modeCountdown, modeStopwatch:
		switch b {
		case hal.ButtonA:
			if t.state == finished {
				t.reset()
				t.mode = modeSetup
				return
			}
			if t.mode == modeCountdown && t.state == stopped {
				t.reset()
			}
			t.toggle(ctx.Now)
		case hal.ButtonB:
			if t.state == running || t.state == paused {
				t.reset()
			} else {
				t.mode = modeSelect
			}
		case hal.ButtonD:
			t.reset()
			t.mode = modeSelect
		}
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

// format renders d as M:SS, or H:MM:SS when hours is set and d has any.
func format(d time.Duration, hours bool) string {
	sec := int(d / time.Second)
	h, m, s := sec/3600, sec%3600/60, sec%60
	if hours && h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	switch t.mode {
	case modeSelect:
		s.TitleBar("Timer")
		for i, label := range []string{"Countdown", "Stopwatch"} {
			s.MenuItem(int16(20+i*12), label, i == t.menu)
		}
		s.StatusBar("A:Select", "B:Back")

	case modeSetup:
		s.TitleBar("Set Timer")
		digitW := s.TextWidth(s.Large, "00")
		colonW := s.TextWidth(s.Large, ":")
		w, _ := s.Size()
		x := (w - 3*digitW - 2*colonW) / 2
		labels := [3]string{"hr", "min", "sec"}
		for i, v := range t.fields {
			s.Text(s.Large, x, 18, fmt.Sprintf("%02d", v), true)
			if i == t.field {
				s.Frame(x-2, 16, digitW+4, s.Large.Height+2, true)
			}
			lw := s.TextWidth(s.Small, labels[i])
			s.Text(s.Small, x+(digitW-lw)/2, 18+s.Large.Height+3, labels[i], true)
			x += digitW
			if i < 2 {
				s.Text(s.Large, x, 18, ":", true)
				x += colonW
			}
		}
		s.StatusBar("U/D:Adj A:Start", "B:Back")

	case modeCountdown:
		s.TitleBar("Countdown")
		rem := t.Remaining()
		s.Centered(s.Large, 16, format(rem, rem >= time.Hour))
		pct := 0
		if t.target > 0 {
			pct = int(rem * 100 / t.target)
		}
		s.ProgressBar(14, 38, 100, 6, pct)
		switch t.state {
		case finished:
			s.Centered(s.Small, 46, "TIME'S UP!")
		case paused:
			s.Centered(s.Small, 46, "PAUSED")
		}
		t.hints(s)

	case modeStopwatch:
		s.TitleBar("Stopwatch")
		s.Centered(s.Large, 20, format(t.elapsed, true))
		t.hints(s)
	}
	_ = s.Flush()
}

func (t *Task) hints(s *gfx.Surface) {
	switch t.state {
	case finished:
		s.StatusBar("A:Reset", "B:Back")
	case paused:
		s.StatusBar("A:Resume B:Reset", "D:Back")
	case running:
		s.StatusBar("A:Pause", "B:Reset")
	default:
		s.StatusBar("A:Start", "B:Back")
	}
}
