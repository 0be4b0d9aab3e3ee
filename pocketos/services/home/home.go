// Package home is the homescreen: clock, date, network and a weather line.
package home

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/clock"
	"pocket/pocketos/gfx"
	"pocket/pocketos/services/openweather"
)

// RefreshInterval is how often the weather line is refetched.
const RefreshInterval = 30 * time.Minute

// Home is the base layer. Directional, A and D presses are taken by the
// focus machine to open the launcher; C refreshes.
type Home struct {
	applet.Base

	clock   clock.Settings
	report  openweather.Report
	hasData bool

	lastFetch time.Time
	fetched   bool
}

func New() *Home {
	return &Home{Base: applet.Base{AppName: "Home"}}
}

func (h *Home) Init(ctx *applet.Context) {
	h.clock = clock.Load(ctx.Prefs)
	h.report = openweather.Report{}
	h.hasData = false
	h.fetched = false
	h.refresh(ctx)
}

// refresh fetches the weather when a network is up. It blocks the tick.
func (h *Home) refresh(ctx *applet.Context) {
	if ctx.Net == nil || !ctx.Net.Connected() {
		return
	}
	h.fetched = true
	h.lastFetch = ctx.Now
	city, key := openweather.Settings(ctx.Prefs)
	r, err := openweather.Fetch(ctx.Net, city, key)
	if err != nil {
		if ctx.Log != nil {
			ctx.Log.Debug("home weather", "city", city, "err", err)
		}
		return
	}
	h.report = r
	h.hasData = true
}

func (h *Home) Update(ctx *applet.Context) {
	// Settings may have changed the zone or clock format.
	h.clock = clock.Load(ctx.Prefs)
	if !h.fetched || ctx.Now.Sub(h.lastFetch) >= RefreshInterval {
		h.refresh(ctx)
	}
}

func (h *Home) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if pressed && b == hal.ButtonC {
		h.refresh(ctx)
	}
}

func (h *Home) OnFocusLost(*applet.Context) {}

// signalBars maps RSSI to one to three stars.
func signalBars(rssi int) string {
	switch {
	case rssi > -50:
		return "***"
	case rssi > -70:
		return "**"
	default:
		return "*"
	}
}

// clockSet reports whether now looks like a real date rather than the
// epoch a board without a time source boots into.
func clockSet(now time.Time) bool { return now.Year() >= 2020 }

func (h *Home) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	w, sh := s.Size()

	if clockSet(ctx.Now) {
		s.Centered(s.Large, 0, h.clock.Time(ctx.Now))
		s.Centered(s.Small, s.Large.Height+1, h.clock.Date(ctx.Now))
	} else {
		s.Centered(s.Large, 0, "--:--")
	}

	lineY := s.Large.Height + s.Small.Height + 3
	s.HLine(10, lineY, w-20, true)

	y := lineY + 3
	wifi := "WiFi: Not connected"
	if ctx.Net != nil && ctx.Net.Connected() {
		wifi = fmt.Sprintf("WiFi: %s %s", ctx.Net.SSID(), signalBars(ctx.Net.RSSI()))
	}
	s.Text(s.Small, 4, y, gfx.Truncate(wifi, 24), true)

	y += s.Small.Height + 2
	weather := "Weather: --"
	if h.hasData {
		weather = fmt.Sprintf("%.0f C  %s", h.report.Temp, h.report.Main)
	}
	s.Text(s.Small, 4, y, gfx.Truncate(weather, 24), true)

	hint := "[A] Apps"
	s.Text(s.Small, w-s.TextWidth(s.Small, hint)-2, sh-s.Small.Height, hint, true)
	_ = s.Flush()
}
