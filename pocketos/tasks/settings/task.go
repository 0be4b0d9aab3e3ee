package settings

import (
	"fmt"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/clock"
	"pocket/pocketos/gfx"
	"pocket/pocketos/power"
	"pocket/pocketos/prefs"
	"pocket/pocketos/services/openweather"
	"pocket/pocketos/tasks/news"
)

type mode uint8

const (
	modeMenu mode = iota
	modeKeys
	modeBrightness
	modeSleep
	modeTime
	modeRestart
)

var menu = [...]string{"API Keys", "Brightness", "Sleep", "Time", "Restart"}

// apiKey is one editable service credential.
type apiKey struct {
	label  string
	prompt string
	pref   string
}

var keys = [...]apiKey{
	{label: "Weather", prompt: "Weather Key:", pref: openweather.PrefKey},
	{label: "News", prompt: "News Key:", pref: news.PrefKey},
}

const (
	// MaxKey bounds an API key.
	MaxKey = 48

	brightnessStep = 16
	visibleItems   = 3
)

var icon = gfx.Icon{
	0x0000, 0x0180, 0x1998, 0x1FF8, 0x0E70, 0x0C30, 0x781E, 0x700E,
	0x700E, 0x781E, 0x0C30, 0x0E70, 0x1FF8, 0x1998, 0x0180, 0x0000,
}

type Task struct {
	applet.Base

	mode mode
	sel  int

	keySel  int
	editing string
	keySet  [len(keys)]bool

	brightness uint8
	origBright uint8
	sleepIdx   int

	clock   clock.Settings
	timeSel int
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Settings", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.mode = modeMenu
	t.sel = 0
	t.keySel = 0
	t.editing = ""
	t.timeSel = 0
	t.load(ctx)
}

func (t *Task) load(ctx *applet.Context) {
	t.clock = clock.Load(ctx.Prefs)
	if ctx.Sys != nil {
		t.brightness = ctx.Sys.Brightness()
		t.sleepIdx = ctx.Sys.SleepTimeoutIndex()
	}
	if ctx.Prefs == nil {
		return
	}
	s := ctx.Prefs.Open(prefs.Namespace, true)
	for i, k := range keys {
		t.keySet[i] = s.GetString(k.pref, "") != ""
	}
	_ = s.Close()
}

func (t *Task) warn(ctx *applet.Context, what string, err error) {
	if err != nil && ctx.Log != nil {
		ctx.Log.Warn("settings", "saving", what, "err", err)
	}
}

func (t *Task) Update(ctx *applet.Context) {
	if t.mode != modeKeys {
		return
	}
	if t.Flags().TextResult() != applet.TextConfirmed || ctx.Prefs == nil {
		return
	}
	k := keys[t.keySel]
	s := ctx.Prefs.Open(prefs.Namespace, false)
	t.warn(ctx, k.pref, s.PutString(k.pref, t.editing))
	t.warn(ctx, k.pref, s.Close())
	t.keySet[t.keySel] = t.editing != ""
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch t.mode {
	case modeMenu:
		t.menuInput(ctx, b)
	case modeKeys:
		t.keysInput(ctx, b)
	case modeBrightness:
		t.brightnessInput(ctx, b)
	case modeSleep:
		t.sleepInput(ctx, b)
	case modeTime:
		t.timeInput(ctx, b)
	case modeRestart:
		switch b {
		case hal.ButtonA:
			if ctx.Sys != nil {
				ctx.Sys.Restart()
			}
		case hal.ButtonB:
			t.mode = modeMenu
		}
	}
}

func (t *Task) menuInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonUp:
		if t.sel > 0 {
			t.sel--
		}
	case hal.ButtonDown:
		if t.sel < len(menu)-1 {
			t.sel++
		}
	case hal.ButtonA:
		t.load(ctx)
		t.mode = mode(t.sel + 1)
		t.origBright = t.brightness
		t.keySel = 0
		t.timeSel = 0
	case hal.ButtonB, hal.ButtonD:
		t.Exit()
	}
}

func (t *Task) keysInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonUp:
		if t.keySel > 0 {
			t.keySel--
		}
	case hal.ButtonDown:
		if t.keySel < len(keys)-1 {
			t.keySel++
		}
	case hal.ButtonA:
		k := keys[t.keySel]
		t.editing = ""
		if ctx.Prefs != nil {
			s := ctx.Prefs.Open(prefs.Namespace, true)
			t.editing = s.GetString(k.pref, "")
			_ = s.Close()
		}
		t.Flags().RequestText(k.prompt, &t.editing, MaxKey)
	case hal.ButtonB:
		t.mode = modeMenu
	}
}

func (t *Task) brightnessInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonLeft:
		if t.brightness >= brightnessStep {
			t.brightness -= brightnessStep
		} else {
			t.brightness = 0
		}
		t.preview(ctx)
	case hal.ButtonRight:
		if t.brightness <= 0xFF-brightnessStep {
			t.brightness += brightnessStep
		} else {
			t.brightness = 0xFF
		}
		t.preview(ctx)
	case hal.ButtonA:
		if ctx.Sys != nil {
			ctx.Sys.SetBrightness(t.brightness)
		}
		t.mode = modeMenu
	case hal.ButtonB:
		t.brightness = t.origBright
		if ctx.Sys != nil {
			ctx.Sys.SetBrightness(t.brightness)
		}
		t.mode = modeMenu
	}
}

// preview shows the new level on the panel before it is confirmed.
func (t *Task) preview(ctx *applet.Context) {
	if ctx.Sys != nil {
		ctx.Sys.SetBrightness(t.brightness)
	}
}

func (t *Task) sleepInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonUp:
		if t.sleepIdx > 0 {
			t.sleepIdx--
		}
	case hal.ButtonDown:
		if t.sleepIdx < len(power.Timeouts)-1 {
			t.sleepIdx++
		}
	case hal.ButtonA:
		if ctx.Sys != nil {
			ctx.Sys.SetSleepTimeoutIndex(t.sleepIdx)
		}
		t.mode = modeMenu
	case hal.ButtonB:
		t.mode = modeMenu
	}
}

func (t *Task) timeInput(ctx *applet.Context, b hal.Button) {
	n := len(clock.Zones)
	switch b {
	case hal.ButtonUp:
		t.timeSel = 0
	case hal.ButtonDown:
		t.timeSel = 1
	case hal.ButtonLeft, hal.ButtonRight:
		if t.timeSel == 1 {
			t.clock.Use24h = !t.clock.Use24h
			return
		}
		if b == hal.ButtonLeft {
			t.clock.Zone = (t.clock.Zone + n - 1) % n
		} else {
			t.clock.Zone = (t.clock.Zone + 1) % n
		}
	case hal.ButtonA:
		if ctx.Prefs != nil {
			t.warn(ctx, "time", t.clock.Save(ctx.Prefs))
		}
		t.mode = modeMenu
	case hal.ButtonB:
		t.clock = clock.Load(ctx.Prefs)
		t.mode = modeMenu
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("Settings")
	top := s.TitleBarHeight() + 2
	pitch := s.Normal.Height + 1
	left := "A:Select"

	switch t.mode {
	case modeMenu:
		first := 0
		if t.sel >= visibleItems {
			first = t.sel - visibleItems + 1
		}
		for i := 0; i < visibleItems && first+i < len(menu); i++ {
			s.MenuItem(top+int16(i)*pitch, menu[first+i], first+i == t.sel)
		}
		s.Scrollbar(top, len(menu), visibleItems, first)

	case modeKeys:
		for i, k := range keys {
			state := "Not set"
			if t.keySet[i] {
				state = "Set"
			}
			s.MenuItem(top+int16(i)*pitch, fmt.Sprintf("%s: %s", k.label, state), i == t.keySel)
		}
		left = "A:Edit"

	case modeBrightness:
		pct := int(t.brightness) * 100 / 0xFF
		s.Centered(s.Normal, top, "Brightness")
		w, _ := s.Size()
		s.ProgressBar((w-100)/2, top+pitch+1, 100, 10, pct)
		s.Centered(s.Small, top+pitch+13, fmt.Sprintf("%d%%", pct))
		left = "L/R:Adj A:Save"

	case modeSleep:
		first := 0
		if t.sleepIdx >= visibleItems {
			first = t.sleepIdx - visibleItems + 1
		}
		for i := 0; i < visibleItems && first+i < len(power.TimeoutNames); i++ {
			s.MenuItem(top+int16(i)*pitch, power.TimeoutNames[first+i], first+i == t.sleepIdx)
		}
		s.Scrollbar(top, len(power.TimeoutNames), visibleItems, first)

	case modeTime:
		format := "Format: 12-hour"
		if t.clock.Use24h {
			format = "Format: 24-hour"
		}
		s.MenuItem(top, "Zone: "+t.clock.ZoneLabel(), t.timeSel == 0)
		s.MenuItem(top+pitch, format, t.timeSel == 1)
		left = "L/R:Adj A:Save"

	case modeRestart:
		s.Centered(s.Normal, top+4, "Restart now?")
		s.Centered(s.Small, top+4+pitch, "Settings are kept")
		left = "A:Restart"
	}

	s.StatusBar(left, "B:Back")
	_ = s.Flush()
}
