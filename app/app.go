package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/focus"
	"pocket/pocketos/gfx"
	"pocket/pocketos/input"
	"pocket/pocketos/kernel"
	"pocket/pocketos/keyboard"
	"pocket/pocketos/power"
	"pocket/pocketos/prefs"
	"pocket/pocketos/services/home"
	"pocket/pocketos/services/launcher"
	"pocket/pocketos/tasks/bulb"
	"pocket/pocketos/tasks/crypto"
	"pocket/pocketos/tasks/facts"
	"pocket/pocketos/tasks/iss"
	"pocket/pocketos/tasks/jokes"
	"pocket/pocketos/tasks/news"
	"pocket/pocketos/tasks/ota"
	"pocket/pocketos/tasks/pong"
	"pocket/pocketos/tasks/quotes"
	"pocket/pocketos/tasks/settings"
	"pocket/pocketos/tasks/snake"
	"pocket/pocketos/tasks/sysinfo"
	"pocket/pocketos/tasks/timer"
	"pocket/pocketos/tasks/trivia"
	"pocket/pocketos/tasks/weather"
)

// Preferences live at the start of flash, ahead of the update staging area.
const (
	PrefsOffset = 0
	PrefsSize   = 8 * 1024
)

type Config struct {
	// OTAAddr is where the update app listens. Empty selects ota.DefaultAddr.
	OTAAddr string
	// Launch opens the named app right after boot.
	Launch string
	Log    *slog.Logger
	Kernel kernel.Config
}

type system struct {
	sched *kernel.Scheduler
	log   *slog.Logger
}

// New initializes the OS on h and returns its step function. A restart
// request rebuilds the system on the same HAL, as a reboot would.
func New(h hal.HAL, cfg Config) func() error {
	s, err := newSystem(h, cfg)
	if err != nil {
		return func() error { return err }
	}
	return func() error {
		err := s.sched.Step()
		if !errors.Is(err, kernel.ErrRestart) {
			return err
		}
		next, err := newSystem(h, cfg)
		if err != nil {
			return err
		}
		s = next
		return nil
	}
}

// Run starts the OS and blocks until ctx is done or a tick panics.
func Run(ctx context.Context, h hal.HAL, cfg Config) error {
	for {
		s, err := newSystem(h, cfg)
		if err != nil {
			return err
		}
		err = s.sched.Run(ctx)
		if !errors.Is(err, kernel.ErrRestart) {
			return err
		}
	}
}

// Apps returns the launcher entries in display order.
func Apps(cfg Config) []applet.App {
	addr := cfg.OTAAddr
	if addr == "" {
		addr = ota.DefaultAddr
	}
	return []applet.App{
		weather.New(),
		crypto.New(),
		news.New(),
		snake.New(),
		pong.New(),
		facts.New(),
		jokes.New(),
		quotes.New(),
		iss.New(),
		trivia.New(),
		timer.New(),
		bulb.New(),
		settings.New(),
		sysinfo.New(),
		ota.New(addr),
	}
}

func newSystem(h hal.HAL, cfg Config) (*system, error) {
	log := cfg.Log
	if log == nil {
		log = slog.Default()
	}
	installPanicHandler(h, log)

	surface := gfx.New(h.Screen())
	bootScreen(surface, "loading settings")

	store, err := prefs.Load(h.Flash(), PrefsOffset, PrefsSize, log)
	if err != nil {
		// The store is still usable in memory.
		log.Warn("loading preferences", "err", err)
	}

	clk := h.Clock()
	in := input.New(h.Buttons(), 0, clk.Now())

	ctx := &applet.Context{
		Now:     clk.Now(),
		Surface: surface,
		Prefs:   store,
		Net:     h.Network(),
		Flash:   h.Flash(),
		Log:     log,
	}

	apps := Apps(cfg)
	fm := focus.New(ctx, home.New(), launcher.New("PocketOS", apps), apps, keyboard.New())

	pc := power.New(h.Screen(), h.LED(), log)
	pc.Restore(store)
	if l := h.LED(); l != nil {
		l.High()
	}

	sched := kernel.New(ctx, clk, h.Power(), in, fm, pc, cfg.Kernel)
	fm.Start()

	if cfg.Launch != "" {
		i := indexOf(apps, cfg.Launch)
		if i < 0 {
			return nil, fmt.Errorf("app: no app named %q", cfg.Launch)
		}
		fm.Launch(i)
	}

	log.Info("boot", "apps", len(apps), "sleep", pc.Timeout())
	return &system{sched: sched, log: log}, nil
}

func indexOf(apps []applet.App, name string) int {
	for i, a := range apps {
		if a.Name() == name {
			return i
		}
	}
	return -1
}
