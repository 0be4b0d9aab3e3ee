package quotes

import (
	"errors"
	"image/color"
	"net"
	"testing"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		body string
		want Quote
		err  error
	}{
		{"ok", `{"content":"Be yourself.","author":"Wilde"}`, Quote{"Be yourself.", "Wilde"}, nil},
		{"anonymous", `{"content":"Hm."}`, Quote{"Hm.", "Unknown"}, nil},
		{"empty", `{"author":"Nobody"}`, Quote{}, ErrEmpty},
		{"garbage", `{`, Quote{}, ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body))
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Fatalf("quote = %+v, want %+v", got, tt.want)
			}
		})
	}
}

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

type fakeNet struct {
	connected bool
	body      string
}

func (n *fakeNet) Connected() bool                     { return n.connected }
func (n *fakeNet) SSID() string                        { return "lab" }
func (n *fakeNet) RSSI() int                           { return -60 }
func (n *fakeNet) Get(string) []byte                   { return []byte(n.body) }
func (n *fakeNet) Listen(string) (net.Listener, error) { return nil, hal.ErrNotImplemented }

func TestFetch(t *testing.T) {
	tests := []struct {
		net     *fakeNet
		errMsg  string
		hasData bool
	}{
		{&fakeNet{connected: true, body: `{"content":"Hi","author":"A"}`}, "", true},
		{&fakeNet{}, "No WiFi", false},
		{&fakeNet{connected: true}, "Network error", false},
		{&fakeNet{connected: true, body: `{}`}, "No quote received", false},
		{&fakeNet{connected: true, body: `nope`}, "Parse error", false},
	}
	for _, tt := range tests {
		ctx := &applet.Context{Surface: gfx.New(nullDisplay{}), Net: tt.net}
		task := New()
		task.Init(ctx)
		task.HandleInput(ctx, hal.ButtonA, true)
		task.Render(ctx)
		if task.errMsg != tt.errMsg || task.hasData != tt.hasData {
			t.Errorf("errMsg = %q hasData = %v, want %q %v", task.errMsg, task.hasData, tt.errMsg, tt.hasData)
		}
	}
}
