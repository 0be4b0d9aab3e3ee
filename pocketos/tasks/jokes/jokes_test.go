package jokes

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
		want Joke
		err  error
	}{
		{"single", `{"error":false,"type":"single","joke":"A joke."}`, Joke{Setup: "A joke."}, nil},
		{"twopart", `{"error":false,"type":"twopart","setup":"Why?","delivery":"Because."}`, Joke{Setup: "Why?", Delivery: "Because."}, nil},
		{"api error", `{"error":true,"message":"No matching joke found"}`, Joke{}, ErrAPI},
		{"empty", `{"error":false,"type":"single","joke":""}`, Joke{}, ErrEmpty},
		{"garbage", `not json`, Joke{}, ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse([]byte(tt.body))
			if !errors.Is(err, tt.err) {
				t.Fatalf("err = %v, want %v", err, tt.err)
			}
			if got != tt.want {
				t.Fatalf("joke = %+v, want %+v", got, tt.want)
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
	gets      int
}

func (n *fakeNet) Connected() bool { return n.connected }
func (n *fakeNet) SSID() string    { return "lab" }
func (n *fakeNet) RSSI() int       { return -60 }
func (n *fakeNet) Get(string) []byte {
	n.gets++
	return []byte(n.body)
}
func (n *fakeNet) Listen(string) (net.Listener, error) { return nil, hal.ErrNotImplemented }

func press(ctx *applet.Context, task *Task, b hal.Button) {
	task.HandleInput(ctx, b, true)
	task.HandleInput(ctx, b, false)
	task.Render(ctx)
}

func TestRevealThenNext(t *testing.T) {
	n := &fakeNet{connected: true, body: `{"type":"twopart","setup":"Why?","delivery":"Because."}`}
	ctx := &applet.Context{Surface: gfx.New(nullDisplay{}), Net: n}
	task := New()
	task.Init(ctx)

	press(ctx, task, hal.ButtonA)
	if !task.hasData || task.punchline || n.gets != 1 {
		t.Fatalf("after fetch: hasData=%v punchline=%v gets=%d", task.hasData, task.punchline, n.gets)
	}
	press(ctx, task, hal.ButtonA)
	if !task.punchline || n.gets != 1 {
		t.Fatalf("A should reveal: punchline=%v gets=%d", task.punchline, n.gets)
	}
	press(ctx, task, hal.ButtonA)
	if task.punchline || n.gets != 2 {
		t.Fatalf("A after reveal should fetch: punchline=%v gets=%d", task.punchline, n.gets)
	}
}

func TestFetchErrors(t *testing.T) {
	tests := []struct {
		net  *fakeNet
		want string
	}{
		{&fakeNet{}, "No WiFi"},
		{&fakeNet{connected: true}, "Network error"},
		{&fakeNet{connected: true, body: `{"error":true}`}, "API error"},
		{&fakeNet{connected: true, body: `[`}, "Parse error"},
	}
	for _, tt := range tests {
		ctx := &applet.Context{Surface: gfx.New(nullDisplay{}), Net: tt.net}
		task := New()
		task.Init(ctx)
		press(ctx, task, hal.ButtonC)
		if task.errMsg != tt.want {
			t.Errorf("errMsg = %q, want %q", task.errMsg, tt.want)
		}
	}
}
