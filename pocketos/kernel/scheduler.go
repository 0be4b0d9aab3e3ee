// Package kernel is the cooperative tick loop. One Scheduler owns the input
// dispatcher, the focus machine and the power controller, and advances them
// from a single goroutine.
package kernel

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/focus"
	"pocket/pocketos/input"
	"pocket/pocketos/power"
	"pocket/pocketos/prefs"
)

const (
	// TickPeriod is the pause between two active ticks.
	TickPeriod = 10 * time.Millisecond
	// WakePoll is how long each low-power wait lasts while asleep.
	WakePoll = 20 * time.Millisecond
)

// Config tunes a Scheduler. Zero fields take the defaults.
type Config struct {
	TickPeriod time.Duration
	WakePoll   time.Duration
}

// Scheduler drives every layer from one loop. It implements applet.System.
type Scheduler struct {
	cfg   Config
	clock hal.Clock
	pw    hal.Power

	ctx   *applet.Context
	in    *input.Dispatcher
	focus *focus.Machine
	power *power.Controller
	prefs *prefs.Store
	log   *slog.Logger

	ticks   uint64
	started time.Time
	restart bool

	frames   int
	fps      int
	fpsStart time.Time
}

// New wires a scheduler. ctx is the context shared with the focus machine;
// its Sys field is pointed at the scheduler when unset.
func New(ctx *applet.Context, clock hal.Clock, pw hal.Power, in *input.Dispatcher, fm *focus.Machine, pc *power.Controller, cfg Config) *Scheduler {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = TickPeriod
	}
	if cfg.WakePoll <= 0 {
		cfg.WakePoll = WakePoll
	}
	log := ctx.Log
	if log == nil {
		log = slog.Default()
	}
	now := clock.Now()
	s := &Scheduler{
		cfg:      cfg,
		clock:    clock,
		pw:       pw,
		ctx:      ctx,
		in:       in,
		focus:    fm,
		power:    pc,
		prefs:    ctx.Prefs,
		log:      log.With("component", "kernel"),
		started:  now,
		fpsStart: now,
	}
	if ctx.Sys == nil {
		ctx.Sys = s
	}
	return s
}

func (s *Scheduler) Focus() *focus.Machine    { return s.focus }
func (s *Scheduler) Input() *input.Dispatcher { return s.in }
func (s *Scheduler) Power() *power.Controller { return s.power }
func (s *Scheduler) Context() *applet.Context { return s.ctx }
func (s *Scheduler) Ticks() uint64            { return s.ticks }
func (s *Scheduler) FPS() int                 { return s.fps }

func (s *Scheduler) Stats() applet.Stats {
	return applet.Stats{Ticks: s.ticks, FPS: s.fps, Started: s.started}
}

func (s *Scheduler) SleepTimeoutIndex() int { return s.power.TimeoutIndex() }
func (s *Scheduler) Brightness() uint8      { return s.power.Brightness() }

// SetSleepTimeoutIndex changes and persists the idle timeout.
func (s *Scheduler) SetSleepTimeoutIndex(i int) {
	s.power.SetTimeoutIndex(i)
	s.savePower()
}

// SetBrightness changes and persists the panel contrast.
func (s *Scheduler) SetBrightness(level uint8) {
	s.power.SetBrightness(level)
	s.savePower()
}

// Restart saves the power settings and resets the device.
func (s *Scheduler) Restart() {
	s.log.Info("restart requested")
	s.savePower()
	s.pw.Reset()
	s.restart = true
}

func (s *Scheduler) savePower() {
	if err := s.power.Save(s.prefs); err != nil {
		s.log.Warn("saving power settings", "err", err)
	}
}

// Tick runs one iteration of the loop at now:
//
//  1. while asleep, only a raw button level can wake the device;
//  2. debounced edges go to whichever layer has focus at that moment;
//  3. an idle timeout puts the device to sleep;
//  4. the overlay or the focused layer updates and renders.
func (s *Scheduler) Tick(now time.Time) {
	s.ctx.Now = now
	s.ticks++

	if s.power.Asleep() {
		if s.in.AnyRaw() {
			s.wake(now)
		}
		return
	}

	for _, ev := range s.in.Poll(now) {
		// Focus may move between two edges of the same tick.
		s.in.SetConsumer(s.focus.Consumer())
		s.in.Deliver(ev)
	}

	if s.power.ShouldSleep(now, s.in.LastActivity()) {
		s.in.Suppress(true)
		s.power.Sleep(now)
		return
	}

	s.focus.Step()
	s.countFrame(now)
}

// wake restores the display, restarts the idle timer at now and mutes the
// buttons that are down so the waking press is never delivered.
func (s *Scheduler) wake(now time.Time) {
	s.power.Wake(now)
	s.in.MuteHeld()
	s.in.ResetActivity(now)
	s.in.Suppress(false)
}

func (s *Scheduler) countFrame(now time.Time) {
	s.frames++
	if d := now.Sub(s.fpsStart); d >= time.Second {
		s.fps = int(int64(s.frames) * int64(time.Second) / int64(d))
		s.frames = 0
		s.fpsStart = now
	}
}

// Step runs one tick at the clock's current time. A panic inside the tick is
// handed to the panic handler and reported as ErrPanicked. Once Restart has
// run, Step reports ErrRestart without ticking.
func (s *Scheduler) Step() (err error) {
	if InPanicMode() {
		return ErrPanicked
	}
	if s.restart {
		return ErrRestart
	}
	defer func() {
		if r := recover(); r != nil {
			info := PanicInfo{Layer: s.focus.Layer().String(), Value: r}
			if a := s.focus.Running(); a != nil {
				info.App = a.Name()
			}
			s.log.Error("tick panicked", "layer", info.Layer, "app", info.App, "panic", r)
			triggerPanic(info)
			err = fmt.Errorf("%w: %v", ErrPanicked, r)
		}
	}()
	s.Tick(s.clock.Now())
	return nil
}

// Run ticks until ctx is done or a tick panics. Between ticks it waits
// TickPeriod, or WakePoll in the low-power state while asleep.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := s.Step(); err != nil {
			return err
		}
		if s.power.Asleep() {
			s.pw.LightSleep(s.cfg.WakePoll)
		} else {
			time.Sleep(s.cfg.TickPeriod)
		}
	}
}
