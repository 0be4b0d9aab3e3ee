// Package applet defines the contract every screen-owning component
// implements: the homescreen, the launcher and each launchable app.
//
// Apps are constructed once at startup and reused for every launch, so Init
// must reset all mutable state. Nothing in an app may block for long or
// panic on I/O errors: failures become an error string the app renders itself.
package applet

import (
	"log/slog"
	"time"

	"pocket/hal"
	"pocket/pocketos/gfx"
	"pocket/pocketos/prefs"
)

// App is a screen-owning component driven by the tick loop.
type App interface {
	Name() string
	// Icon returns the launcher icon, or nil for the default lettered frame.
	Icon() *gfx.Icon
	// Flags are the cross-cutting requests the focus machine observes.
	Flags() *Flags

	// Init fully resets the app. It runs right before the app gains focus.
	Init(ctx *Context)
	// Update advances timers and polls delegated work, once per tick while focused.
	Update(ctx *Context)
	// Render draws the whole screen: Clear first, Flush last.
	Render(ctx *Context)
	// HandleInput receives debounced edges while the app is focused.
	HandleInput(ctx *Context, b hal.Button, pressed bool)
	// OnFocusLost runs exactly once when the app stops being focused.
	// Release anything visible outside the app here.
	OnFocusLost(ctx *Context)
}

// System is the part of the OS an app may reconfigure.
type System interface {
	SleepTimeoutIndex() int
	SetSleepTimeoutIndex(i int)
	Brightness() uint8
	SetBrightness(level uint8)
	// Restart reboots the device after the current tick.
	Restart()
	// Stats reports scheduler counters for diagnostics.
	Stats() Stats
}

// Stats are scheduler counters.
type Stats struct {
	Ticks   uint64
	FPS     int
	Started time.Time
}

// Context is handed to every App call. The scheduler owns it.
type Context struct {
	// Now is the time of the current tick.
	Now     time.Time
	Surface *gfx.Surface
	Prefs   *prefs.Store
	Net     hal.Network
	Flash   hal.Flash
	Log     *slog.Logger
	Sys     System
}

// Base implements the identity half of App for embedding.
type Base struct {
	AppName string
	AppIcon *gfx.Icon
	flags   Flags
}

func (b *Base) Name() string    { return b.AppName }
func (b *Base) Icon() *gfx.Icon { return b.AppIcon }
func (b *Base) Flags() *Flags   { return &b.flags }

// Exit asks the focus machine to close the app.
func (b *Base) Exit() { b.flags.RequestExit() }
