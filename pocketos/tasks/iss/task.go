// Package iss tracks the International Space Station.
package iss

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// RefreshInterval is the auto-refresh period once a position is shown.
const RefreshInterval = 30 * time.Second

var icon = gfx.Icon{
	0x0000, 0x0000, 0xE007, 0xE007, 0xE007, 0xE3C7, 0xE427, 0xFFFF,
	0xE427, 0xE3C7, 0xE007, 0xE007, 0xE007, 0x0000, 0x0000, 0x0000,
}

type Task struct {
	applet.Base

	pos       Position
	crew      Crew
	hasData   bool
	errMsg    string
	lastFetch time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "ISS", AppIcon: &icon}}
}

func (t *Task) Init(*applet.Context) {
	t.pos = Position{}
	t.crew = Crew{}
	t.hasData = false
	t.errMsg = ""
}

func (t *Task) fetch(ctx *applet.Context) {
	if ctx.Net == nil || !ctx.Net.Connected() {
		t.errMsg = "No WiFi"
		return
	}
	body := ctx.Net.Get(PositionURL)
	if len(body) == 0 {
		t.errMsg = "Network error"
		return
	}
	p, err := ParsePosition(body)
	if err != nil {
		t.errMsg = "Parse error"
		if ctx.Log != nil {
			ctx.Log.Debug("iss fetch", "err", err)
		}
		return
	}
	t.pos = p
	t.hasData = true
	t.errMsg = ""
	t.lastFetch = ctx.Now

	// The crew changes rarely; it is fetched once per launch and a failure
	// leaves the count at zero.
	if t.crew.Count == 0 {
		if body := ctx.Net.Get(CrewURL); len(body) > 0 {
			if c, err := ParseCrew(body); err == nil {
				t.crew = c
			}
		}
	}
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
	s.TitleBar("ISS Tracker")
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case !t.hasData:
		s.Centered(s.Normal, 26, "Press A to track")
	default:
		y := s.TitleBarHeight() + 1
		for _, line := range []string{
			fmt.Sprintf("Lat: %.2f", t.pos.Lat),
			fmt.Sprintf("Lon: %.2f", t.pos.Lon),
			fmt.Sprintf("Astronauts: %d", t.crew.Count),
			fmt.Sprintf("Updated %ds ago", int(ctx.Now.Sub(t.lastFetch).Seconds())),
		} {
			s.Text(s.Small, 4, y, line, true)
			y += s.Small.Height + 1
		}
	}
	s.StatusBar("A:Refresh", "B:Back")
	_ = s.Flush()
}
