// Package focus decides which layer owns the screen and the buttons, and runs
// the app lifecycle transitions between them.
//
// The layers are Home, Launcher and a running App. The text-entry overlay sits
// on top of whichever of them asked for it and takes input and rendering
// until it closes.
package focus

import (
	"log/slog"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/input"
	"pocket/pocketos/internal/invariant"
	"pocket/pocketos/keyboard"
)

// Layer is a focus state.
type Layer uint8

const (
	LayerHome Layer = iota
	LayerLauncher
	LayerApp
	LayerTextEntry
)

func (l Layer) String() string {
	switch l {
	case LayerHome:
		return "home"
	case LayerLauncher:
		return "launcher"
	case LayerApp:
		return "app"
	case LayerTextEntry:
		return "text-entry"
	default:
		return "unknown"
	}
}

// Launcher is the app grid. Selected is an index into the machine's app list.
type Launcher interface {
	applet.App
	Selected() int
}

// Machine is the focus state machine. It is driven from the tick loop only.
type Machine struct {
	ctx *applet.Context
	log *slog.Logger

	home     applet.App
	launcher Launcher
	apps     []applet.App
	overlay  *keyboard.Overlay

	layer   Layer // logical layer beneath the overlay
	running applet.App
	// open holds the apps whose session has started and not yet lost focus.
	open map[applet.App]bool

	requester applet.App // owner of the open text request
	request   applet.TextRequest

	consumers [4]input.Consumer
}

// New builds a machine focused on Home. ctx is shared with the scheduler and
// is handed to every layer call.
func New(ctx *applet.Context, home applet.App, launcher Launcher, apps []applet.App, overlay *keyboard.Overlay) *Machine {
	if overlay == nil {
		overlay = keyboard.New()
	}
	log := ctx.Log
	if log == nil {
		log = slog.Default()
	}
	m := &Machine{
		ctx:      ctx,
		log:      log.With("component", "focus"),
		home:     home,
		launcher: launcher,
		apps:     apps,
		overlay:  overlay,
		layer:    LayerHome,
		open:     make(map[applet.App]bool),
	}
	m.consumers = [...]input.Consumer{
		LayerHome:      m.homeInput,
		LayerLauncher:  m.launcherInput,
		LayerApp:       m.appInput,
		LayerTextEntry: m.overlayInput,
	}
	return m
}

// Start initializes Home and the Launcher. Call it once before the first Step.
func (m *Machine) Start() {
	m.home.Init(m.ctx)
	m.launcher.Init(m.ctx)
	m.settle()
}

// Layer reports the layer that currently receives input.
func (m *Machine) Layer() Layer {
	if m.overlay.Active() {
		return LayerTextEntry
	}
	return m.layer
}

// Base reports the logical layer, ignoring the overlay.
func (m *Machine) Base() Layer { return m.layer }

// Running is the focused app, or nil outside LayerApp.
func (m *Machine) Running() applet.App { return m.running }

func (m *Machine) Apps() []applet.App { return m.apps }

func (m *Machine) Overlay() *keyboard.Overlay { return m.overlay }

// Focused is the layer component beneath the overlay.
func (m *Machine) Focused() applet.App {
	switch m.layer {
	case LayerLauncher:
		return m.launcher
	case LayerApp:
		return m.running
	default:
		return m.home
	}
}

// Consumer returns the input handler of the layer that currently has focus.
// The scheduler re-registers it before every delivery.
func (m *Machine) Consumer() input.Consumer {
	return m.consumers[m.Layer()]
}

func (m *Machine) homeInput(ev input.Event) {
	if ev.Pressed && (ev.Button.Directional() || ev.Button == hal.ButtonA || ev.Button == hal.ButtonD) {
		m.setLayer(LayerLauncher)
		return
	}
	m.home.HandleInput(m.ctx, ev.Button, ev.Pressed)
	m.settle()
}

func (m *Machine) launcherInput(ev input.Event) {
	if ev.Pressed {
		switch ev.Button {
		case hal.ButtonA:
			if i := m.launcher.Selected(); i >= 0 && i < len(m.apps) {
				m.launch(i)
				return
			}
		case hal.ButtonB:
			m.setLayer(LayerHome)
			return
		}
	}
	m.launcher.HandleInput(m.ctx, ev.Button, ev.Pressed)
	m.settle()
}

func (m *Machine) appInput(ev input.Event) {
	if m.running == nil {
		invariant.Failf("focus: app input with no running app")
		return
	}
	m.running.HandleInput(m.ctx, ev.Button, ev.Pressed)
	m.settle()
}

func (m *Machine) overlayInput(ev input.Event) {
	m.overlay.HandleInput(ev.Button, ev.Pressed)
	m.settle()
}

// Launch starts apps[i] as if it had been picked in the launcher.
func (m *Machine) Launch(i int) bool {
	if i < 0 || i >= len(m.apps) || m.overlay.Active() {
		return false
	}
	if m.layer == LayerApp {
		m.exitApp()
	}
	m.launch(i)
	return true
}

func (m *Machine) launch(i int) {
	app := m.apps[i]
	app.Flags().Reset()
	app.Init(m.ctx)

	m.running = app
	m.open[app] = true
	m.setLayer(LayerApp)
	m.log.Info("app launched", "app", app.Name())
	m.settle()
}

// exitApp tears the running app down: focus lost, exit flag cleared,
// reference dropped and only then the layer changes.
func (m *Machine) exitApp() {
	app := m.running
	if app == nil {
		invariant.Failf("focus: exit with no running app")
		m.setLayer(LayerLauncher)
		return
	}
	if !m.loseFocus(app) {
		return
	}

	f := app.Flags()
	f.ClearExit()
	if f.TextPending() {
		f.DropTextRequest()
	}
	m.running = nil
	m.setLayer(LayerLauncher)
	m.log.Info("app exited", "app", app.Name())
}

// loseFocus ends app's session with its one OnFocusLost call. A second call
// for the same session is a violation and is not passed on.
func (m *Machine) loseFocus(app applet.App) bool {
	if !m.open[app] {
		invariant.Failf("focus: %s lost focus twice", app.Name())
		return false
	}
	delete(m.open, app)
	app.OnFocusLost(m.ctx)
	return true
}

func (m *Machine) setLayer(l Layer) {
	if m.layer == l {
		return
	}
	m.log.Debug("focus", "from", m.layer, "to", l)
	m.layer = l
}

// settle applies the transitions requested by the focused layer: a closed
// overlay hands its result back, an exit request leaves the app and a text
// request opens the overlay.
func (m *Machine) settle() {
	if m.overlay.Active() {
		return
	}
	if m.requester != nil {
		m.finishText()
	}

	if m.layer == LayerApp && m.running != nil && m.running.Flags().WantsExit() {
		m.exitApp()
	}
	// Home and the launcher have nowhere to exit to.
	if f := m.Focused().Flags(); f.WantsExit() && m.layer != LayerApp {
		f.ClearExit()
	}

	if t := m.Focused(); t.Flags().WantsTextEntry() {
		m.openText(t)
	}
}

func (m *Machine) openText(t applet.App) {
	req := t.Flags().TakeTextRequest()
	initial := ""
	if req.Buffer != nil {
		initial = *req.Buffer
	}
	m.requester = t
	m.request = req
	m.overlay.Open(req.Prompt, initial, req.MaxLen)
	m.log.Debug("text entry opened", "owner", t.Name(), "prompt", req.Prompt)
}

func (m *Machine) finishText() {
	r := m.overlay.Result()
	if r == applet.TextConfirmed && m.request.Buffer != nil {
		*m.request.Buffer = m.overlay.Text()
	}
	m.requester.Flags().CompleteText(r)
	m.log.Debug("text entry closed", "owner", m.requester.Name(), "result", r)
	m.requester = nil
	m.request = applet.TextRequest{}
}

// Step runs one frame: the overlay exclusively while it is open, otherwise
// the focused layer's Update then Render.
func (m *Machine) Step() {
	m.checkUnfocused()

	if !m.overlay.Active() {
		m.Focused().Update(m.ctx)
		m.settle()
	}
	if m.overlay.Active() {
		m.overlay.Update(m.ctx.Now)
		m.overlay.Render(m.ctx.Surface)
		return
	}
	m.Focused().Render(m.ctx)
}

// checkUnfocused rejects requests raised by layers that do not have focus.
// They are never serviced.
func (m *Machine) checkUnfocused() {
	focused := m.Focused()
	m.rejectUnfocused(focused, m.home)
	m.rejectUnfocused(focused, m.launcher)
	for _, a := range m.apps {
		m.rejectUnfocused(focused, a)
	}
}

func (m *Machine) rejectUnfocused(focused, a applet.App) {
	if a == focused {
		return
	}
	f := a.Flags()
	if f.WantsTextEntry() {
		f.DropTextRequest()
		invariant.Failf("focus: text entry requested by unfocused %s", a.Name())
	}
	if f.WantsExit() {
		f.ClearExit()
		invariant.Failf("focus: exit requested by unfocused %s", a.Name())
	}
}
