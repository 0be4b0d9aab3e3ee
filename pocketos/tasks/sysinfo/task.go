package sysinfo

import (
	"fmt"
	"runtime"
	"time"

	"pocket/hal"
	"pocket/internal/buildinfo"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

type page uint8

const (
	pageInfo page = iota
	pageButtons
)

var icon = gfx.Icon{
	0x0000, 0x3FFC, 0x2004, 0x2FF4, 0x2814, 0x2A54, 0x2814, 0x2BD4,
	0x2814, 0x2FF4, 0x2004, 0x3FFC, 0x0180, 0x0FF0, 0x0000, 0x0000,
}

// Task shows runtime diagnostics and a live button tester.
type Task struct {
	applet.Base

	page page
	held [hal.NumButtons]bool
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "System", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.page = pageInfo
	t.held = [hal.NumButtons]bool{}
}

func (t *Task) Update(*applet.Context) {}

func (t *Task) HandleInput(_ *applet.Context, b hal.Button, pressed bool) {
	if b < hal.NumButtons {
		t.held[b] = pressed
	}
	if !pressed {
		return
	}
	switch b {
	case hal.ButtonC:
		if t.page == pageInfo {
			t.page = pageButtons
		} else {
			t.page = pageInfo
		}
	case hal.ButtonB, hal.ButtonD:
		t.Exit()
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func uptime(d time.Duration) string {
	sec := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
}

// Lines is the info page text.
func (t *Task) Lines(ctx *applet.Context) []string {
	var lines []string
	if ctx.Net != nil && ctx.Net.Connected() {
		lines = append(lines,
			"WiFi: "+ctx.Net.SSID(),
			fmt.Sprintf("Signal: %d dBm", ctx.Net.RSSI()))
	} else {
		lines = append(lines, "WiFi: Not connected")
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	lines = append(lines, fmt.Sprintf("Heap: %d KB in use", ms.HeapInuse/1024))

	if ctx.Sys != nil {
		st := ctx.Sys.Stats()
		lines = append(lines,
			"Uptime: "+uptime(ctx.Now.Sub(st.Started)),
			fmt.Sprintf("FPS: %d  Ticks: %d", st.FPS, st.Ticks))
	}
	lines = append(lines, "Build: "+buildinfo.Short())
	return lines
}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	if t.page == pageInfo {
		s.TitleBar("System Info")
		y := s.TitleBarHeight() + 1
		_, h := s.Size()
		for _, line := range t.Lines(ctx) {
			if y+s.Small.Height > h-s.Small.Height-1 {
				break
			}
			s.Text(s.Small, 2, y, line, true)
			y += s.Small.Height + 1
		}
	} else {
		t.renderButtons(s)
	}
	s.StatusBar("C:Toggle", "B:Back")
	_ = s.Flush()
}

func (t *Task) pad(s *gfx.Surface, b hal.Button, x, y int16) {
	if t.held[b] {
		s.Box(x, y, 10, 10, true)
	} else {
		s.Frame(x, y, 10, 10, true)
	}
}

func (t *Task) renderButtons(s *gfx.Surface) {
	s.TitleBar("Button Test")
	const cx, cy = 32, 32
	t.pad(s, hal.ButtonUp, cx-5, cy-16)
	t.pad(s, hal.ButtonDown, cx-5, cy+6)
	t.pad(s, hal.ButtonLeft, cx-16, cy-5)
	t.pad(s, hal.ButtonRight, cx+6, cy-5)

	for i, b := range []hal.Button{hal.ButtonA, hal.ButtonB, hal.ButtonC, hal.ButtonD} {
		x := int16(80 + (i%2)*22)
		y := int16(16 + (i/2)*16)
		label := b.String()
		if t.held[b] {
			s.Box(x, y, 14, 12, true)
			s.Text(s.Small, x+5, y+3, label, false)
		} else {
			s.Frame(x, y, 14, 12, true)
			s.Text(s.Small, x+5, y+3, label, true)
		}
	}
}
