//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	Hz      int
	Ticks   uint64
	Host    HostOptions
	// Script presses and releases buttons at fixed ticks.
	Script []ScriptEvent
}

// ScriptEvent sets the raw state of one button when the runner reaches Tick.
type ScriptEvent struct {
	Tick    uint64
	Button  Button
	Pressed bool
}

// ParseScript parses a comma-separated list of TICK:+BUTTON / TICK:-BUTTON items,
// for example "10:+A,20:-A". Button names are the ones Button.String returns.
func ParseScript(s string) ([]ScriptEvent, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out []ScriptEvent
	var last uint64
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		tickStr, rest, ok := strings.Cut(item, ":")
		if !ok || len(rest) < 2 {
			return nil, fmt.Errorf("script item %q: want TICK:+BUTTON or TICK:-BUTTON", item)
		}
		tick, err := strconv.ParseUint(tickStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("script item %q: %w", item, err)
		}
		if tick < last {
			return nil, fmt.Errorf("script item %q: ticks must not go backwards", item)
		}
		last = tick

		var pressed bool
		switch rest[0] {
		case '+':
			pressed = true
		case '-':
		default:
			return nil, fmt.Errorf("script item %q: edge must be + or -", item)
		}
		btn, ok := ParseButton(rest[1:])
		if !ok {
			return nil, fmt.Errorf("script item %q: unknown button %q", item, rest[1:])
		}
		out = append(out, ScriptEvent{Tick: tick, Button: btn, Pressed: pressed})
	}
	return out, nil
}

// RunHeadless runs the OS without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = 100
	}

	h := NewHost(cfg.Host).(*hostHAL)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("invalid headless hz: %d", cfg.Hz)
	}
	t := h.clock.c.NewTicker(d)
	defer t.Stop()

	script := cfg.Script
	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.Chan():
			for len(script) > 0 && script[0].Tick <= tick {
				h.btns.set(script[0].Button, script[0].Pressed)
				script = script[1:]
			}
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}
