package ota

import (
	"errors"
	"fmt"
	"net"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// DefaultAddr is where the upload server listens.
const DefaultAddr = ":80"

type state uint8

const (
	stateNoWiFi state = iota
	stateWaiting
	stateUploading
	stateSuccess
	stateError
)

var icon = gfx.Icon{
	0x0000, 0x0180, 0x03C0, 0x07E0, 0x0FF0, 0x0180, 0x0180, 0x0180,
	0x0180, 0x0180, 0x0000, 0x6006, 0x6006, 0x7FFE, 0x7FFE, 0x0000,
}

// Task receives a firmware image over HTTP into the flash staging region.
// The listener lives only while the app is focused.
type Task struct {
	applet.Base

	addr string

	state  state
	errMsg string
	ln     net.Listener
	xfer   *transfer
	size   uint32
	staged uint32
}

// New returns the updater listening on addr, or DefaultAddr when empty.
func New(addr string) *Task {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Task{Base: applet.Base{AppName: "Update", AppIcon: &icon}, addr: addr}
}

func (t *Task) Init(ctx *applet.Context) {
	t.state = stateWaiting
	t.errMsg = ""
	t.xfer = nil
	t.size = 0
	t.staged, _ = Staged(ctx.Flash)

	if ctx.Net == nil || !ctx.Net.Connected() {
		t.state = stateNoWiFi
		return
	}
	ln, err := ctx.Net.Listen(t.addr)
	if err != nil {
		t.fail(ctx, "Server failed", err)
		return
	}
	t.ln = ln
	if ctx.Log != nil {
		ctx.Log.Info("ota listening", "addr", ln.Addr().String())
	}
}

func (t *Task) fail(ctx *applet.Context, msg string, err error) {
	t.state = stateError
	t.errMsg = msg
	if ctx.Log != nil {
		ctx.Log.Warn("ota", "msg", msg, "err", err)
	}
}

// Addr is the listener address, empty when not listening.
func (t *Task) Addr() string {
	if t.ln == nil {
		return ""
	}
	return t.ln.Addr().String()
}

func (t *Task) Update(ctx *applet.Context) {
	switch t.state {
	case stateWaiting:
		t.accept(ctx)
	case stateUploading:
		t.receive(ctx)
	}
}

func (t *Task) accept(ctx *applet.Context) {
	if t.ln == nil {
		return
	}
	conn, err := poll(t.ln)
	if err != nil {
		t.fail(ctx, "Server failed", err)
		return
	}
	if conn == nil {
		return
	}
	st, err := NewStager(ctx.Flash)
	if err != nil {
		_ = respond(conn, 500, "text/plain", "no staging space")
		conn.Close()
		t.fail(ctx, "No flash space", err)
		return
	}
	x, err := serve(conn, st)
	if err != nil {
		if ctx.Log != nil {
			ctx.Log.Debug("ota request", "err", err)
		}
		return
	}
	if x != nil {
		t.xfer = x
		t.state = stateUploading
	}
}

func (t *Task) receive(ctx *applet.Context) {
	x := t.xfer
	done, err := x.step()
	if err != nil {
		x.finish(500, "Update failed: "+err.Error())
		t.xfer = nil
		msg := "Write failed"
		if errors.Is(err, ErrNoSpace) {
			msg = "Image too large"
		}
		t.fail(ctx, msg, err)
		return
	}
	if !done {
		return
	}
	if err := x.st.Commit(); err != nil {
		x.finish(500, "Update failed: "+err.Error())
		t.xfer = nil
		t.fail(ctx, "Update end failed", err)
		return
	}
	x.finish(200, "Update staged. Reboot to apply.")
	t.size = x.st.Written()
	t.staged = t.size
	t.xfer = nil
	t.state = stateSuccess
	if ctx.Log != nil {
		ctx.Log.Info("ota staged", "bytes", t.size)
	}
}

// Progress is the upload percentage.
func (t *Task) Progress() int {
	switch {
	case t.state == stateSuccess:
		return 100
	case t.xfer != nil:
		return t.xfer.Progress()
	default:
		return 0
	}
}

func (t *Task) HandleInput(_ *applet.Context, b hal.Button, pressed bool) {
	if !pressed || t.state == stateUploading {
		return
	}
	if b == hal.ButtonB || b == hal.ButtonD {
		t.Exit()
	}
}

// OnFocusLost stops the listener and drops any half-received upload.
func (t *Task) OnFocusLost(ctx *applet.Context) {
	if t.xfer != nil {
		t.xfer.conn.Close()
		t.xfer = nil
	}
	if t.ln != nil {
		if err := t.ln.Close(); err != nil && ctx.Log != nil {
			ctx.Log.Debug("ota close", "err", err)
		}
		t.ln = nil
	}
}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	s.TitleBar("OTA Update")
	y := s.TitleBarHeight() + 2
	line := func(str string) {
		s.Text(s.Small, 2, y, str, true)
		y += s.Small.Height + 2
	}

	switch t.state {
	case stateNoWiFi:
		line("WiFi not connected!")
		line("Connect to WiFi first.")
	case stateWaiting:
		line("Server running!")
		line("Open in browser:")
		line(gfx.Truncate("http://"+t.Addr(), 30))
		if t.staged > 0 {
			line(fmt.Sprintf("Staged: %d KB", t.staged/1024))
		} else {
			line("Then upload the image")
		}
	case stateUploading:
		line("Uploading firmware...")
		w, _ := s.Size()
		s.ProgressBar(2, y, w-4, 10, t.Progress())
		s.Centered(s.Small, y+12, fmt.Sprintf("%d%%", t.Progress()))
	case stateSuccess:
		line("Update staged!")
		line(fmt.Sprintf("%d bytes", t.size))
		line("Reboot to apply.")
	case stateError:
		line("Update failed!")
		line(t.errMsg)
	}
	if t.state != stateUploading {
		s.StatusBar("", "B:Back")
	}
	_ = s.Flush()
}
