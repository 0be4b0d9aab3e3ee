// Package power decides when the device goes idle and owns the display and
// LED state across sleep and wake.
package power

import (
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/prefs"
)

// Timeout options selectable in settings. Index 0 disables sleep.
var (
	Timeouts     = [...]time.Duration{0, 30 * time.Second, time.Minute, 2 * time.Minute, 5 * time.Minute}
	TimeoutNames = [...]string{"Off", "30s", "1 min", "2 min", "5 min"}
)

const (
	DefaultTimeoutIndex = 1
	DefaultBrightness   = 0xCF

	PrefSleepIndex = "sleep_idx"
	PrefBrightness = "brightness"
)

// Controller tracks the idle timeout and the sleep state.
type Controller struct {
	screen hal.Screen
	led    hal.LED
	log    *slog.Logger

	idx        int
	brightness uint8

	asleep  bool
	sleptAt time.Time
}

// New returns an awake controller with the default timeout.
func New(screen hal.Screen, led hal.LED, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		screen:     screen,
		led:        led,
		log:        log.With("component", "power"),
		idx:        DefaultTimeoutIndex,
		brightness: DefaultBrightness,
	}
}

// Restore reads the persisted timeout and brightness and applies them.
func (c *Controller) Restore(store *prefs.Store) {
	if store != nil {
		s := store.Open(prefs.Namespace, true)
		c.SetTimeoutIndex(s.GetInt(PrefSleepIndex, DefaultTimeoutIndex))
		b := s.GetInt(PrefBrightness, DefaultBrightness)
		_ = s.Close()
		if b >= 0 && b <= 0xFF {
			c.brightness = uint8(b)
		}
	}
	if c.screen != nil {
		c.screen.SetBrightness(c.brightness)
	}
}

// Save persists the timeout and brightness.
func (c *Controller) Save(store *prefs.Store) error {
	if store == nil {
		return nil
	}
	s := store.Open(prefs.Namespace, false)
	if err := s.PutInt(PrefSleepIndex, c.idx); err != nil {
		s.Close()
		return err
	}
	if err := s.PutInt(PrefBrightness, int(c.brightness)); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

func (c *Controller) TimeoutIndex() int { return c.idx }

// SetTimeoutIndex selects one of Timeouts; out-of-range values are clamped.
func (c *Controller) SetTimeoutIndex(i int) {
	if i < 0 {
		i = 0
	}
	if i >= len(Timeouts) {
		i = len(Timeouts) - 1
	}
	c.idx = i
}

// Timeout is the idle period before sleep, 0 when disabled.
func (c *Controller) Timeout() time.Duration { return Timeouts[c.idx] }

func (c *Controller) Brightness() uint8 { return c.brightness }

func (c *Controller) SetBrightness(level uint8) {
	c.brightness = level
	if c.screen != nil && !c.asleep {
		c.screen.SetBrightness(level)
	}
}

// ShouldSleep reports whether the idle time since last reached the timeout.
func (c *Controller) ShouldSleep(now, last time.Time) bool {
	t := c.Timeout()
	return !c.asleep && t > 0 && now.Sub(last) >= t
}

func (c *Controller) Asleep() bool { return c.asleep }

// SleptAt is when the current or last sleep began.
func (c *Controller) SleptAt() time.Time { return c.sleptAt }

// Sleep blanks the display. The frame buffer is left intact.
func (c *Controller) Sleep(now time.Time) {
	if c.asleep {
		return
	}
	c.asleep = true
	c.sleptAt = now
	if c.screen != nil {
		c.screen.SetPower(false)
	}
	if c.led != nil {
		c.led.Low()
	}
	c.log.Info("sleep", "idle", c.Timeout())
}

// Wake turns the display back on.
func (c *Controller) Wake(now time.Time) {
	if !c.asleep {
		return
	}
	c.asleep = false
	if c.screen != nil {
		c.screen.SetPower(true)
		c.screen.SetBrightness(c.brightness)
	}
	if c.led != nil {
		c.led.High()
	}
	c.log.Info("wake", "slept", now.Sub(c.sleptAt))
}
