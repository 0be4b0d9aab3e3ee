// Package bulb controls a Tasmota smart bulb on the local network.
package bulb

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// RefreshInterval is how often the device state is re-read while reachable.
const RefreshInterval = 30 * time.Second

type mode uint8

const (
	modeMain mode = iota
	modeBrightness
	modeColor
	modeCT
	modePresets
	modeSetup
)

var menu = [...]string{"Brightness", "Color", "Temperature", "Presets", "Settings"}

const (
	brightnessStep = 10
	hueStep        = 15
	satStep        = 10
	ctStep         = 25
)

var icon = gfx.Icon{
	0x0000, 0x07C0, 0x0820, 0x1010, 0x2008, 0x2008, 0x2008, 0x2008,
	0x1010, 0x0820, 0x0440, 0x07C0, 0x0440, 0x07C0, 0x0380, 0x0000,
}

type Task struct {
	applet.Base

	mode    mode
	sel     int
	presets [NumPresets]Preset
	preset  int
	hueSel  bool

	addr     string
	addrEdit string

	light     Light
	edit      Light
	reachable bool
	errMsg    string
	lastFetch time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Bulb", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.mode = modeMain
	t.sel = 0
	t.preset = 0
	t.hueSel = true
	t.reachable = false
	t.errMsg = ""
	t.light = Light{Brightness: 100, CT: DefaultCT}
	t.addr = loadAddr(ctx.Prefs)
	t.presets = loadPresets(ctx.Prefs)
	if t.addr != "" {
		t.fetch(ctx)
	}
}

func (t *Task) client(ctx *applet.Context) Client { return Client{Net: ctx.Net, Addr: t.addr} }

func (t *Task) fetch(ctx *applet.Context) {
	l, err := t.client(ctx).State()
	t.lastFetch = ctx.Now
	if err != nil {
		t.reachable = false
		t.errMsg = Message(err)
		if ctx.Log != nil {
			ctx.Log.Debug("bulb state", "addr", t.addr, "err", err)
		}
		return
	}
	t.light = l
	t.reachable = true
	t.errMsg = ""
}

func (t *Task) send(ctx *applet.Context, cmds ...string) {
	c := t.client(ctx)
	for _, cmd := range cmds {
		if err := c.Send(cmd); err != nil {
			t.errMsg = Message(err)
			return
		}
	}
}

func (t *Task) Update(ctx *applet.Context) {
	if t.mode == modeSetup {
		if t.Flags().TextResult() == applet.TextConfirmed {
			t.addr = t.addrEdit
			if ctx.Prefs != nil {
				if err := saveAddr(ctx.Prefs, t.addr); err != nil && ctx.Log != nil {
					ctx.Log.Warn("saving bulb address", "err", err)
				}
			}
			t.mode = modeMain
			t.fetch(ctx)
		}
		return
	}
	if t.reachable && ctx.Now.Sub(t.lastFetch) >= RefreshInterval {
		t.fetch(ctx)
	}
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch t.mode {
	case modeMain:
		t.mainInput(ctx, b)
	case modeBrightness:
		t.brightnessInput(ctx, b)
	case modeColor:
		t.colorInput(ctx, b)
	case modeCT:
		t.ctInput(ctx, b)
	case modePresets:
		t.presetInput(ctx, b)
	case modeSetup:
		switch b {
		case hal.ButtonA:
			t.addrEdit = t.addr
			t.Flags().RequestText("Bulb IP:", &t.addrEdit, MaxAddr)
		case hal.ButtonB:
			t.mode = modeMain
		}
	}
}

func (t *Task) mainInput(ctx *applet.Context, b hal.Button) {
	if b == hal.ButtonB || b == hal.ButtonD {
		t.Exit()
		return
	}
	switch {
	case t.addr == "":
		if b == hal.ButtonA {
			t.mode = modeSetup
		}
		return
	case t.errMsg != "":
		switch b {
		case hal.ButtonA:
			t.fetch(ctx)
		case hal.ButtonC:
			t.mode = modeSetup
		}
		return
	}

	switch b {
	case hal.ButtonUp, hal.ButtonLeft:
		if t.sel > 0 {
			t.sel--
		}
	case hal.ButtonDown, hal.ButtonRight:
		if t.sel < len(menu)-1 {
			t.sel++
		}
	case hal.ButtonC:
		t.send(ctx, "Power TOGGLE")
		t.light.On = !t.light.On
	case hal.ButtonA:
		t.edit = t.light
		t.hueSel = true
		t.preset = 0
		t.mode = mode(t.sel + 1)
	}
}

func step(v, by, lo, hi int) int {
	v += by
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (t *Task) brightnessInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonLeft:
		t.edit.Brightness = step(t.edit.Brightness, -brightnessStep, 0, 100)
	case hal.ButtonRight:
		t.edit.Brightness = step(t.edit.Brightness, brightnessStep, 0, 100)
	case hal.ButtonA:
		t.light = t.edit
		t.send(ctx, DimmerCmd(t.light.Brightness))
		t.mode = modeMain
	case hal.ButtonB:
		t.mode = modeMain
	}
}

func (t *Task) colorInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonUp:
		t.hueSel = true
	case hal.ButtonDown:
		t.hueSel = false
	case hal.ButtonLeft, hal.ButtonRight:
		dir := 1
		if b == hal.ButtonLeft {
			dir = -1
		}
		if t.hueSel {
			t.edit.Hue = (t.edit.Hue + dir*hueStep + 360) % 360
		} else {
			t.edit.Saturation = step(t.edit.Saturation, dir*satStep, 0, 100)
		}
	case hal.ButtonA:
		t.light = t.edit
		t.send(ctx, ColorCmd(t.light))
		t.mode = modeMain
	case hal.ButtonB:
		t.mode = modeMain
	}
}

// whiteCmds switch the bulb to its white channel at ct.
func whiteCmds(ct int) []string { return []string{"HSBColor2 0", CTCmd(ct)} }

func (t *Task) ctInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonLeft:
		t.edit.CT = step(t.edit.CT, -ctStep, MinCT, MaxCT)
	case hal.ButtonRight:
		t.edit.CT = step(t.edit.CT, ctStep, MinCT, MaxCT)
	case hal.ButtonA:
		t.light = t.edit
		t.send(ctx, whiteCmds(t.light.CT)...)
		t.mode = modeMain
	case hal.ButtonB:
		t.mode = modeMain
	}
}

func (t *Task) presetInput(ctx *applet.Context, b hal.Button) {
	switch b {
	case hal.ButtonUp:
		if t.preset > 0 {
			t.preset--
		}
	case hal.ButtonDown:
		if t.preset < NumPresets-1 {
			t.preset++
		}
	case hal.ButtonA:
		t.apply(ctx, t.presets[t.preset])
	case hal.ButtonC:
		p := NewPreset(t.light)
		t.presets[t.preset] = p
		if ctx.Prefs != nil {
			if err := savePreset(ctx.Prefs, t.preset, p); err != nil && ctx.Log != nil {
				ctx.Log.Warn("saving bulb preset", "err", err)
			}
		}
	case hal.ButtonB:
		t.mode = modeMain
	}
}

// apply sends a preset: colored presets as HSB, white ones as dimmer plus
// color temperature.
func (t *Task) apply(ctx *applet.Context, p Preset) {
	if !p.Valid {
		return
	}
	var cmds []string
	if !t.light.On {
		cmds = append(cmds, PowerCmd(true))
	}
	if p.Light.Saturation > 0 {
		cmds = append(cmds, ColorCmd(p.Light))
	} else {
		cmds = append(append(cmds, DimmerCmd(p.Light.Brightness)), whiteCmds(p.Light.CT)...)
	}
	t.light = p.Light
	t.send(ctx, cmds...)
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("Bulb Control")
	w, _ := s.Size()
	top := s.TitleBarHeight() + 1
	left := "A:Select"

	switch t.mode {
	case modeMain:
		left = t.renderMain(s, top)

	case modeBrightness:
		s.Centered(s.Normal, top, "Brightness")
		s.ProgressBar((w-100)/2, top+14, 100, 10, t.edit.Brightness)
		s.Centered(s.Small, top+27, fmt.Sprintf("%d%%", t.edit.Brightness))
		left = "L/R:Adj A:Apply"

	case modeColor:
		for i, row := range []struct {
			label string
			pct   int
			val   int
			sel   bool
		}{
			{"H:", t.edit.Hue * 100 / 360, t.edit.Hue, t.hueSel},
			{"S:", t.edit.Saturation, t.edit.Saturation, !t.hueSel},
		} {
			y := top + 2 + int16(i)*12
			s.Text(s.Small, 2, y, row.label, true)
			if row.sel {
				s.Frame(20, y-1, 84, 9, true)
			}
			s.ProgressBar(22, y+1, 80, 5, row.pct)
			s.Text(s.Small, 108, y, fmt.Sprint(row.val), true)
		}
		s.Centered(s.Small, top+27, ColorName(t.edit))
		left = "L/R:Adj A:Set"

	case modeCT:
		pct := (t.edit.CT - MinCT) * 100 / (MaxCT - MinCT)
		s.Text(s.Small, 14, top, "Cool", true)
		s.Text(s.Small, w-14-s.TextWidth(s.Small, "Warm"), top, "Warm", true)
		s.ProgressBar((w-100)/2, top+10, 100, 10, pct)
		s.Centered(s.Small, top+24, fmt.Sprintf("%dK", Kelvin(t.edit.CT)))
		left = "L/R:Adj A:Apply"

	case modePresets:
		pitch := s.Small.Height + 1
		for i, p := range t.presets {
			label := fmt.Sprintf("%d. [Empty]", i+1)
			if p.Valid {
				label = fmt.Sprintf("%d. %s", i+1, p.Name)
			}
			s.MenuItem(top+int16(i)*pitch, label, i == t.preset)
		}
		left = "A:Load C:Save"

	case modeSetup:
		s.Centered(s.Normal, top+2, "Bulb IP Address")
		addr := t.addr
		if addr == "" {
			addr = "Not configured"
		}
		s.Centered(s.Small, top+16, addr)
		left = "A:Edit"
	}

	s.StatusBar(left, "B:Back")
	_ = s.Flush()
}

func (t *Task) renderMain(s *gfx.Surface, top int16) string {
	switch {
	case t.addr == "":
		s.Centered(s.Normal, top+4, "No bulb configured")
		s.Centered(s.Small, top+18, "Press A to configure")
		return "A:Settings"
	case t.errMsg != "":
		s.Centered(s.Normal, top+4, t.errMsg)
		s.Centered(s.Small, top+18, "A:Retry C:Settings")
		return "A:Retry"
	}

	if t.light.On {
		s.Centered(s.Normal, top, "[ * ] Bulb ON")
	} else {
		s.Centered(s.Normal, top, "[   ] Bulb OFF")
	}
	var hint string
	switch t.sel {
	case 0:
		hint = fmt.Sprintf("%d%%", t.light.Brightness)
	case 1:
		hint = ColorName(t.light)
	case 2:
		hint = fmt.Sprintf("%dK", Kelvin(t.light.CT))
	case 3:
		hint = fmt.Sprintf("%d slots", NumPresets)
	case 4:
		hint = t.addr
	}
	s.Centered(s.Small, top+14, menu[t.sel]+" >")
	s.Centered(s.Small, top+14+s.Small.Height, hint)
	return "A:Sel C:Pwr"
}
