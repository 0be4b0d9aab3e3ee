package app

import (
	"errors"
	"image/color"
	"io"
	"log/slog"
	"net"
	"strings"
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/focus"
	"pocket/pocketos/gfx"
	"pocket/pocketos/kernel"
	"pocket/pocketos/prefs"

	"github.com/jonboulle/clockwork"
)

type fakeScreen struct {
	on     bool
	lit    int
	frames int
}

func (s *fakeScreen) Size() (int16, int16) { return 128, 64 }
func (s *fakeScreen) SetPixel(_, _ int16, c color.RGBA) {
	if c.R != 0 {
		s.lit++
	}
}
func (s *fakeScreen) Display() error      { s.frames++; return nil }
func (s *fakeScreen) SetPower(on bool)    { s.on = on }
func (s *fakeScreen) SetBrightness(uint8) {}

type fakeButtons [hal.NumButtons]bool

func (b *fakeButtons) Pressed(btn hal.Button) bool { return b[btn] }

type lines []string

func (l *lines) WriteLineString(s string) { *l = append(*l, s) }
func (l *lines) WriteLineBytes(b []byte)  { *l = append(*l, string(b)) }

type offline struct{}

func (offline) Connected() bool   { return false }
func (offline) SSID() string      { return "" }
func (offline) RSSI() int         { return 0 }
func (offline) Get(string) []byte { return nil }
func (offline) Listen(string) (net.Listener, error) {
	return nil, errors.New("offline")
}

type fakePower struct {
	clk    *clockwork.FakeClock
	resets int
}

func (p *fakePower) LightSleep(d time.Duration) { p.clk.Advance(d) }
func (p *fakePower) Reset()                     { p.resets++ }

type fakeHAL struct {
	log    lines
	screen *fakeScreen
	btns   *fakeButtons
	flash  hal.Flash
	clk    *clockwork.FakeClock
	pw     *fakePower
}

func newFakeHAL() *fakeHAL {
	clk := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	return &fakeHAL{
		screen: &fakeScreen{on: true},
		btns:   &fakeButtons{},
		flash:  hal.NewMemFlash(256*1024, 4096),
		clk:    clk,
		pw:     &fakePower{clk: clk},
	}
}

func (h *fakeHAL) Logger() hal.Logger   { return &h.log }
func (h *fakeHAL) LED() hal.LED         { return nil }
func (h *fakeHAL) Screen() hal.Screen   { return h.screen }
func (h *fakeHAL) Buttons() hal.Buttons { return h.btns }
func (h *fakeHAL) Flash() hal.Flash     { return h.flash }
func (h *fakeHAL) Clock() hal.Clock     { return h.clk }
func (h *fakeHAL) Power() hal.Power     { return h.pw }
func (h *fakeHAL) Network() hal.Network { return offline{} }

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// run steps the system n times, 10ms apart.
func run(t *testing.T, h *fakeHAL, s *system, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		h.clk.Advance(10 * time.Millisecond)
		if err := s.sched.Step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
}

func press(t *testing.T, h *fakeHAL, s *system, b hal.Button) {
	t.Helper()
	h.btns[b] = true
	run(t, h, s, 8)
	h.btns[b] = false
	run(t, h, s, 8)
}

func TestBootToHomeAndLaunch(t *testing.T) {
	h := newFakeHAL()
	s, err := newSystem(h, Config{Log: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	run(t, h, s, 5)
	fm := s.sched.Focus()
	if fm.Layer() != focus.LayerHome {
		t.Fatalf("layer = %v, want Home", fm.Layer())
	}
	if h.screen.frames == 0 {
		t.Fatal("nothing was flushed")
	}

	press(t, h, s, hal.ButtonA)
	if fm.Layer() != focus.LayerLauncher {
		t.Fatalf("layer = %v, want Launcher", fm.Layer())
	}
	press(t, h, s, hal.ButtonA)
	if fm.Layer() != focus.LayerApp || fm.Running().Name() != "Weather" {
		t.Fatalf("layer = %v running = %v", fm.Layer(), fm.Running())
	}
	press(t, h, s, hal.ButtonB)
	if fm.Layer() != focus.LayerLauncher || fm.Running() != nil {
		t.Fatalf("after exit: layer = %v", fm.Layer())
	}
}

func TestLaunchByName(t *testing.T) {
	h := newFakeHAL()
	s, err := newSystem(h, Config{Log: quiet(), Launch: "Snake"})
	if err != nil {
		t.Fatal(err)
	}
	if a := s.sched.Focus().Running(); a == nil || a.Name() != "Snake" {
		t.Fatalf("running = %v, want Snake", a)
	}

	if _, err := newSystem(newFakeHAL(), Config{Log: quiet(), Launch: "Nope"}); err == nil {
		t.Fatal("unknown app accepted")
	}
	step := New(newFakeHAL(), Config{Log: quiet(), Launch: "Nope"})
	if err := step(); err == nil || !strings.Contains(err.Error(), "Nope") {
		t.Fatalf("step err = %v", err)
	}
}

func TestSettingsSurviveRestart(t *testing.T) {
	h := newFakeHAL()
	s, err := newSystem(h, Config{Log: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	s.sched.SetSleepTimeoutIndex(3)

	h2 := newFakeHAL()
	h2.flash = h.flash
	s2, err := newSystem(h2, Config{Log: quiet()})
	if err != nil {
		t.Fatal(err)
	}
	if got := s2.sched.SleepTimeoutIndex(); got != 3 {
		t.Fatalf("timeout index = %d, want 3", got)
	}

	store, err := prefs.Load(h.flash, PrefsOffset, PrefsSize, quiet())
	if err != nil {
		t.Fatal(err)
	}
	ses := store.Open(prefs.Namespace, true)
	defer ses.Close()
	if got := ses.GetInt("sleep_idx", -1); got != 3 {
		t.Fatalf("stored sleep_idx = %d", got)
	}
}

func TestDrawCrash(t *testing.T) {
	h := newFakeHAL()
	s := gfx.New(h.screen)
	drawCrash(s, "Snake", kernel.PanicInfo{App: "Snake", Value: "boom", Stack: []byte("main.f()\n\n\tfile.go:1\n")})
	if h.screen.frames != 1 || h.screen.lit == 0 {
		t.Fatalf("frames = %d lit = %d", h.screen.frames, h.screen.lit)
	}
}

func TestStackLines(t *testing.T) {
	got := stackLines([]byte("a\n\nb\n"))
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("stackLines = %q", got)
	}
}

func TestRestartRebuildsSystem(t *testing.T) {
	h := newFakeHAL()
	step := New(h, Config{Log: quiet(), Launch: "Settings"})
	for i := 0; i < 3; i++ {
		if err := step(); err != nil {
			t.Fatal(err)
		}
	}

	// Settings: down to Restart, open it, confirm.
	for _, b := range []hal.Button{hal.ButtonDown, hal.ButtonDown, hal.ButtonDown, hal.ButtonDown, hal.ButtonA, hal.ButtonA} {
		h.btns[b] = true
		for i := 0; i < 8; i++ {
			h.clk.Advance(10 * time.Millisecond)
			if err := step(); err != nil {
				t.Fatalf("step: %v", err)
			}
		}
		h.btns[b] = false
		for i := 0; i < 8; i++ {
			h.clk.Advance(10 * time.Millisecond)
			if err := step(); err != nil {
				t.Fatalf("step: %v", err)
			}
		}
	}
	if h.pw.resets != 1 {
		t.Fatalf("resets = %d, want 1", h.pw.resets)
	}
	if h.screen.frames < 2 {
		t.Fatalf("frames = %d", h.screen.frames)
	}
}

func TestAppNamesUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, a := range Apps(Config{}) {
		if seen[a.Name()] {
			t.Fatalf("duplicate app %q", a.Name())
		}
		seen[a.Name()] = true
	}
	for _, name := range []string{"News", "Quotes", "Facts", "Trivia", "Crypto", "ISS", "Pong", "Bulb"} {
		if !seen[name] {
			t.Errorf("missing app %q", name)
		}
	}
}
