// Package input turns raw button levels into debounced edge events and hands
// them to the single registered consumer.
package input

import (
	"time"

	"pocket/hal"
)

// DefaultDebounce is how long a raw level must hold before it is accepted.
const DefaultDebounce = 50 * time.Millisecond

// Event is one accepted button transition.
type Event struct {
	Button  hal.Button
	Pressed bool
	At      time.Time
}

// Consumer receives delivered events.
type Consumer func(Event)

type buttonState struct {
	stable    bool      // last accepted level
	raw       bool      // last sampled level
	changedAt time.Time // when raw last changed
	muted     bool      // swallow edges until the button is released
}

// Dispatcher debounces the eight logical buttons.
//
// It is owned by the scheduler and must only be used from the tick loop.
type Dispatcher struct {
	src      hal.Buttons
	debounce time.Duration

	btn [hal.NumButtons]buttonState

	consumer   Consumer
	suppressed bool

	lastActivity time.Time
	events       []Event
}

// New returns a dispatcher reading src. The activity timer starts at now.
func New(src hal.Buttons, debounce time.Duration, now time.Time) *Dispatcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	d := &Dispatcher{
		src:          src,
		debounce:     debounce,
		lastActivity: now,
		events:       make([]Event, 0, hal.NumButtons),
	}
	for i := range d.btn {
		d.btn[i].changedAt = now
	}
	return d
}

// Poll samples every button once and returns the edges accepted at now, at
// most one per button. The returned slice is reused by the next Poll.
//
// A level change is accepted once it has been stable for the debounce
// window, so a glitch shorter than the window produces no edge at all and
// accepted edges alternate strictly between press and release.
func (d *Dispatcher) Poll(now time.Time) []Event {
	d.events = d.events[:0]
	for i := range d.btn {
		b := &d.btn[i]
		raw := d.src.Pressed(hal.Button(i))
		if raw != b.raw {
			b.raw = raw
			b.changedAt = now
		}

		if raw != b.stable && now.Sub(b.changedAt) >= d.debounce {
			b.stable = raw
			if b.muted {
				if !raw {
					b.muted = false
				}
				continue
			}
			d.lastActivity = now
			d.events = append(d.events, Event{Button: hal.Button(i), Pressed: raw, At: now})
			continue
		}

		// A muted tap shorter than the window never produces a press; unmute
		// once the level is back to released.
		if b.muted && !raw && !b.stable {
			b.muted = false
		}
	}
	return d.events
}

// SetConsumer registers c as the only receiver of delivered events.
func (d *Dispatcher) SetConsumer(c Consumer) {
	d.consumer = c
}

// Deliver passes ev to the registered consumer unless delivery is suppressed.
func (d *Dispatcher) Deliver(ev Event) bool {
	if d.suppressed || d.consumer == nil {
		return false
	}
	d.consumer(ev)
	return true
}

// Suppress blocks or restores delivery.
func (d *Dispatcher) Suppress(on bool) {
	d.suppressed = on
}

func (d *Dispatcher) Suppressed() bool { return d.suppressed }

// MuteHeld swallows the next press and release of every button that is down
// right now, so a press that woke the device never reaches a layer.
// It reports whether any button was held.
func (d *Dispatcher) MuteHeld() bool {
	held := false
	for i := range d.btn {
		b := &d.btn[i]
		if d.src.Pressed(hal.Button(i)) || b.stable {
			b.muted = true
			held = true
		}
	}
	return held
}

// Muted reports whether b is currently muted.
func (d *Dispatcher) Muted(b hal.Button) bool {
	if b >= hal.NumButtons {
		return false
	}
	return d.btn[b].muted
}

// Held reports the debounced level of b.
func (d *Dispatcher) Held(b hal.Button) bool {
	if b >= hal.NumButtons {
		return false
	}
	return d.btn[b].stable
}

// AnyRaw reports whether any button reads pressed right now, bypassing debounce.
func (d *Dispatcher) AnyRaw() bool {
	for i := 0; i < hal.NumButtons; i++ {
		if d.src.Pressed(hal.Button(i)) {
			return true
		}
	}
	return false
}

// LastActivity is the time of the last accepted, unmuted edge.
func (d *Dispatcher) LastActivity() time.Time { return d.lastActivity }

// ResetActivity restarts the idle timer at now.
func (d *Dispatcher) ResetActivity(now time.Time) { d.lastActivity = now }
