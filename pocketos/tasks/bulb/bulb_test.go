package bulb

import (
	"errors"
	"image/color"
	"net"
	"reflect"
	"strings"
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
	"pocket/pocketos/prefs"
)

func TestCommandURL(t *testing.T) {
	got := CommandURL("192.168.1.50", "HSBColor 120,80,50")
	want := "http://192.168.1.50/cm?cmnd=HSBColor%20120%2C80%2C50"
	if got != want {
		t.Fatalf("CommandURL = %q, want %q", got, want)
	}
}

func TestParseState(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Light
	}{
		{"single relay", `{"POWER":"ON","Dimmer":40,"HSBColor":"200,90,40","CT":250}`,
			Light{On: true, Brightness: 40, Hue: 200, Saturation: 90, CT: 250}},
		{"multi relay", `{"POWER1":"ON"}`, Light{On: true, Brightness: 100, CT: DefaultCT}},
		{"off", `{"POWER":"OFF","Dimmer":0}`, Light{Brightness: 0, CT: DefaultCT}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseState([]byte(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("light = %+v, want %+v", got, tt.want)
			}
		})
	}
	if _, err := ParseState([]byte(`<html>`)); !errors.Is(err, ErrParse) {
		t.Fatalf("garbage: err = %v", err)
	}
}

func TestNamesAndKelvin(t *testing.T) {
	if got := Kelvin(MinCT); got != 6535 {
		t.Fatalf("Kelvin(%d) = %d", MinCT, got)
	}
	if got := Kelvin(0); got != 1000000/DefaultCT {
		t.Fatalf("Kelvin(0) = %d", got)
	}
	tests := []struct {
		l    Light
		want string
	}{
		{Light{CT: 200}, "Cool White"},
		{Light{CT: DefaultCT}, "Neutral"},
		{Light{CT: 450}, "Warm White"},
		{Light{Hue: 100, Saturation: 80}, "Green"},
		{Light{Hue: 340, Saturation: 80}, "Red"},
	}
	for _, tt := range tests {
		if got := ColorName(tt.l); got != tt.want {
			t.Errorf("ColorName(%+v) = %q, want %q", tt.l, got, tt.want)
		}
	}
}

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

// tasmota records commands and answers State.
type tasmota struct {
	state string
	cmds  []string
}

func (n *tasmota) Connected() bool { return true }
func (n *tasmota) SSID() string    { return "lab" }
func (n *tasmota) RSSI() int       { return -60 }
func (n *tasmota) Get(url string) []byte {
	_, cmd, _ := strings.Cut(url, "cmnd=")
	cmd = strings.ReplaceAll(cmd, "%20", " ")
	cmd = strings.ReplaceAll(cmd, "%2C", ",")
	if cmd == "State" {
		return []byte(n.state)
	}
	n.cmds = append(n.cmds, cmd)
	return []byte(`{}`)
}
func (n *tasmota) Listen(string) (net.Listener, error) { return nil, hal.ErrNotImplemented }

type rig struct {
	ctx  *applet.Context
	dev  *tasmota
	task *Task
}

func newRig(t *testing.T, addr string) *rig {
	t.Helper()
	store, err := prefs.Load(hal.NewMemFlash(64*1024, 4096), 0, 8192, nil)
	if err != nil {
		t.Fatal(err)
	}
	if addr != "" {
		if err := saveAddr(store, addr); err != nil {
			t.Fatal(err)
		}
	}
	dev := &tasmota{state: `{"POWER":"OFF","Dimmer":50,"HSBColor":"0,0,50","CT":326}`}
	r := &rig{
		ctx: &applet.Context{
			Now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			Surface: gfx.New(nullDisplay{}),
			Prefs:   store,
			Net:     dev,
		},
		dev:  dev,
		task: New(),
	}
	r.task.Init(r.ctx)
	return r
}

func (r *rig) press(bs ...hal.Button) {
	for _, b := range bs {
		r.task.HandleInput(r.ctx, b, true)
		r.task.HandleInput(r.ctx, b, false)
		r.task.Update(r.ctx)
		r.task.Render(r.ctx)
	}
}

func TestConfigureAddress(t *testing.T) {
	r := newRig(t, "")
	if r.task.reachable || len(r.dev.cmds) != 0 {
		t.Fatal("contacted a bulb with no address")
	}
	r.press(hal.ButtonA, hal.ButtonA)
	f := r.task.Flags()
	req := f.TakeTextRequest()
	if req.Prompt != "Bulb IP:" || req.MaxLen != MaxAddr {
		t.Fatalf("request = %q %d", req.Prompt, req.MaxLen)
	}
	*req.Buffer = "10.0.0.7"
	f.CompleteText(applet.TextConfirmed)
	r.task.Update(r.ctx)

	if r.task.mode != modeMain || !r.task.reachable || r.task.light.Brightness != 50 {
		t.Fatalf("mode = %d reachable = %v light = %+v", r.task.mode, r.task.reachable, r.task.light)
	}
	if got := loadAddr(r.ctx.Prefs); got != "10.0.0.7" {
		t.Fatalf("saved address = %q", got)
	}
}

func TestAdjustAndApply(t *testing.T) {
	r := newRig(t, "10.0.0.7")
	r.press(hal.ButtonC)
	r.press(hal.ButtonA, hal.ButtonRight, hal.ButtonRight, hal.ButtonA)
	r.press(hal.ButtonRight, hal.ButtonA, hal.ButtonLeft, hal.ButtonDown, hal.ButtonRight, hal.ButtonA)
	r.press(hal.ButtonRight, hal.ButtonA, hal.ButtonRight, hal.ButtonB)

	want := []string{"Power TOGGLE", "Dimmer 70", "HSBColor 345,10,70"}
	if !reflect.DeepEqual(r.dev.cmds, want) {
		t.Fatalf("commands = %q, want %q", r.dev.cmds, want)
	}
	if !r.task.light.On || r.task.light.CT != DefaultCT {
		t.Fatalf("B should discard the CT edit: %+v", r.task.light)
	}
}

func TestPresetRoundTrip(t *testing.T) {
	r := newRig(t, "10.0.0.7")
	r.task.light = Light{Brightness: 80, CT: 400}
	r.press(hal.ButtonDown, hal.ButtonDown, hal.ButtonDown, hal.ButtonA)
	if r.task.mode != modePresets {
		t.Fatalf("mode = %d", r.task.mode)
	}
	r.press(hal.ButtonDown, hal.ButtonC)

	saved := loadPresets(r.ctx.Prefs)
	if !saved[1].Valid || saved[1].Name != "2500K 80%" || saved[0].Valid {
		t.Fatalf("presets = %+v", saved)
	}

	r.dev.cmds = nil
	r.press(hal.ButtonUp, hal.ButtonA)
	if len(r.dev.cmds) != 0 {
		t.Fatalf("empty slot sent %q", r.dev.cmds)
	}
	r.press(hal.ButtonDown, hal.ButtonA)
	want := []string{"Power ON", "Dimmer 80", "HSBColor2 0", "CT 400"}
	if !reflect.DeepEqual(r.dev.cmds, want) {
		t.Fatalf("commands = %q, want %q", r.dev.cmds, want)
	}
}

func TestUnreachableBulb(t *testing.T) {
	r := newRig(t, "10.0.0.7")
	r.dev.state = ""
	r.ctx.Now = r.ctx.Now.Add(RefreshInterval)
	r.task.Update(r.ctx)
	if r.task.reachable || r.task.errMsg != "Connection failed" {
		t.Fatalf("reachable = %v errMsg = %q", r.task.reachable, r.task.errMsg)
	}
	r.press(hal.ButtonC)
	if r.task.mode != modeSetup {
		t.Fatalf("C on the error screen should open setup, mode = %d", r.task.mode)
	}
	r.press(hal.ButtonB, hal.ButtonD)
	if !r.task.Flags().WantsExit() {
		t.Fatal("D should exit")
	}
}
