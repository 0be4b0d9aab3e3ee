package weather

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
	"pocket/pocketos/services/openweather"
)

// RefreshInterval is the auto-refresh period once a report is shown.
const RefreshInterval = 5 * time.Minute

var icon = gfx.Icon{
	0x0000, 0x0100, 0x2108, 0x1010, 0x07C0, 0x0820, 0x1010, 0xD016,
	0x1010, 0x0820, 0x07C0, 0x1010, 0x2108, 0x0100, 0x0000, 0x0000,
}

type Task struct {
	applet.Base

	city   string
	search string

	report    openweather.Report
	hasData   bool
	errMsg    string
	lastFetch time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Weather", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.city, _ = openweather.Settings(ctx.Prefs)
	t.search = ""
	t.report = openweather.Report{}
	t.hasData = false
	t.errMsg = ""
}

func (t *Task) fetch(ctx *applet.Context) {
	_, key := openweather.Settings(ctx.Prefs)
	r, err := openweather.Fetch(ctx.Net, t.city, key)
	if err != nil {
		t.errMsg = openweather.Message(err)
		if ctx.Log != nil {
			ctx.Log.Debug("weather fetch", "city", t.city, "err", err)
		}
		return
	}
	t.report = r
	t.hasData = true
	t.errMsg = ""
	t.lastFetch = ctx.Now
}

func (t *Task) Update(ctx *applet.Context) {
	switch t.Flags().TextResult() {
	case applet.TextConfirmed:
		if t.search != "" {
			t.city = t.search
			if err := openweather.SaveCity(ctx.Prefs, t.city); err != nil && ctx.Log != nil {
				ctx.Log.Warn("saving city", "err", err)
			}
		}
		t.hasData = false
		t.fetch(ctx)
		return
	case applet.TextCancelled:
		return
	}

	if t.hasData && ctx.Now.Sub(t.lastFetch) >= RefreshInterval {
		t.fetch(ctx)
	}
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch b {
	case hal.ButtonA:
		t.fetch(ctx)
	case hal.ButtonC:
		t.search = t.city
		t.Flags().RequestText("Enter city:", &t.search, openweather.MaxCity)
	case hal.ButtonB, hal.ButtonD:
		t.Exit()
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("Weather")
	switch {
	case t.errMsg != "":
		s.Centered(s.Normal, 20, t.errMsg)
		s.Centered(s.Small, 36, "Press A to retry")
	case !t.hasData:
		s.Centered(s.Normal, 20, "Press A to fetch")
		s.Centered(s.Small, 36, t.city)
	default:
		s.Centered(s.Normal, 13, gfx.Truncate(t.report.City, 20))
		s.Centered(s.Large, 23, fmt.Sprintf("%.1f C", t.report.Temp))
		s.Centered(s.Small, 46, fmt.Sprintf("%s  %d%%", t.report.Description, t.report.Humidity))
	}
	s.StatusBar("A:Fetch C:City", "B:Back")
	_ = s.Flush()
}
