package input

import (
	"math/rand"
	"testing"
	"time"

	"pocket/hal"
)

type fakeButtons [hal.NumButtons]bool

func (f *fakeButtons) Pressed(b hal.Button) bool { return f[b] }

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

const tick = 10 * time.Millisecond

// run polls n ticks starting at *now and collects every edge.
func run(d *Dispatcher, now *time.Time, n int) []Event {
	var out []Event
	for i := 0; i < n; i++ {
		*now = now.Add(tick)
		out = append(out, d.Poll(*now)...)
	}
	return out
}

func TestPressAcceptedAfterStableWindow(t *testing.T) {
	var src fakeButtons
	now := t0
	d := New(&src, DefaultDebounce, now)

	src[hal.ButtonA] = true
	if evs := run(d, &now, 5); len(evs) != 0 {
		t.Fatalf("edge before the window elapsed: %+v", evs)
	}
	evs := run(d, &now, 1)
	if len(evs) != 1 || evs[0].Button != hal.ButtonA || !evs[0].Pressed {
		t.Fatalf("got %+v, want one A press", evs)
	}
	if !d.LastActivity().Equal(now) {
		t.Fatalf("activity = %v, want %v", d.LastActivity(), now)
	}

	src[hal.ButtonA] = false
	evs = run(d, &now, 6)
	if len(evs) != 1 || evs[0].Pressed {
		t.Fatalf("got %+v, want one A release", evs)
	}
}

func TestGlitchesShorterThanWindowAreDropped(t *testing.T) {
	var src fakeButtons
	now := t0
	d := New(&src, DefaultDebounce, now)

	for width := 1; width < 5; width++ {
		src[hal.ButtonUp] = true
		evs := run(d, &now, width)
		src[hal.ButtonUp] = false
		evs = append(evs, run(d, &now, 10)...)
		if len(evs) != 0 {
			t.Fatalf("glitch of %d ticks produced %+v", width, evs)
		}
	}
	if !d.LastActivity().Equal(t0) {
		t.Fatal("noise must not count as activity")
	}
}

func TestEdgesAlternateUnderRandomNoise(t *testing.T) {
	var src fakeButtons
	now := t0
	d := New(&src, DefaultDebounce, now)
	rng := rand.New(rand.NewSource(1))

	last := map[hal.Button]bool{}
	for i := 0; i < 20000; i++ {
		b := hal.Button(rng.Intn(hal.NumButtons))
		if rng.Intn(4) == 0 {
			src[b] = !src[b]
		}
		now = now.Add(tick)
		seen := map[hal.Button]bool{}
		for _, ev := range d.Poll(now) {
			if seen[ev.Button] {
				t.Fatalf("two edges for %v in one poll", ev.Button)
			}
			seen[ev.Button] = true
			if ev.Pressed == last[ev.Button] {
				t.Fatalf("tick %d: %v repeated pressed=%v", i, ev.Button, ev.Pressed)
			}
			last[ev.Button] = ev.Pressed
		}
	}
}

func TestDeliverRoutesToLatestConsumer(t *testing.T) {
	var src fakeButtons
	d := New(&src, DefaultDebounce, t0)

	var first, second int
	d.SetConsumer(func(Event) { first++ })
	d.SetConsumer(func(Event) { second++ })
	d.Deliver(Event{Button: hal.ButtonA, Pressed: true})
	if first != 0 || second != 1 {
		t.Fatalf("first=%d second=%d", first, second)
	}

	d.Suppress(true)
	if d.Deliver(Event{Button: hal.ButtonA}) {
		t.Fatal("delivered while suppressed")
	}
	d.Suppress(false)
	if !d.Deliver(Event{Button: hal.ButtonA}) || second != 2 {
		t.Fatal("delivery not restored")
	}
}

func TestMuteHeldSwallowsPressAndRelease(t *testing.T) {
	var src fakeButtons
	now := t0
	d := New(&src, DefaultDebounce, now)

	src[hal.ButtonA] = true
	if !d.MuteHeld() {
		t.Fatal("MuteHeld found no held button")
	}
	wake := now
	d.ResetActivity(wake)

	evs := run(d, &now, 10)
	src[hal.ButtonA] = false
	evs = append(evs, run(d, &now, 10)...)
	if len(evs) != 0 {
		t.Fatalf("muted button produced %+v", evs)
	}
	if d.Muted(hal.ButtonA) {
		t.Fatal("mute must clear after the release")
	}
	if !d.LastActivity().Equal(wake) {
		t.Fatal("muted edges must not move the activity timer")
	}

	// The next press is a normal one.
	src[hal.ButtonA] = true
	if evs := run(d, &now, 6); len(evs) != 1 || !evs[0].Pressed {
		t.Fatalf("press after mute: %+v", evs)
	}
}

func TestMuteClearsAfterShortTap(t *testing.T) {
	var src fakeButtons
	now := t0
	d := New(&src, DefaultDebounce, now)

	src[hal.ButtonB] = true
	d.MuteHeld()
	run(d, &now, 2)
	src[hal.ButtonB] = false
	run(d, &now, 2)
	if d.Muted(hal.ButtonB) {
		t.Fatal("tap shorter than the window left the button muted")
	}
}

func TestAnyRaw(t *testing.T) {
	var src fakeButtons
	d := New(&src, 0, t0)
	if d.AnyRaw() {
		t.Fatal("AnyRaw with nothing held")
	}
	src[hal.ButtonD] = true
	if !d.AnyRaw() {
		t.Fatal("AnyRaw missed D")
	}
}
