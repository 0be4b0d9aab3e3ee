package iss

import (
	"errors"
	"image/color"
	"net"
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

const (
	position = `{"message":"success","timestamp":1700000000,"iss_position":{"latitude":"-12.3456","longitude":"101.5"}}`
	crew     = `{"number":7,"people":[{"name":"A"},{"name":"B"},{"name":"C"},{"name":"D"},{"name":"E"},{"name":"F"},{"name":"G"}]}`
)

func TestParsePosition(t *testing.T) {
	p, err := ParsePosition([]byte(position))
	if err != nil {
		t.Fatal(err)
	}
	if p.Lat != -12.3456 || p.Lon != 101.5 {
		t.Fatalf("position = %+v", p)
	}
	if _, err := ParsePosition([]byte(`{"iss_position":{}}`)); !errors.Is(err, ErrParse) {
		t.Fatalf("missing coordinates: err = %v", err)
	}
}

func TestParseCrew(t *testing.T) {
	c, err := ParseCrew([]byte(crew))
	if err != nil {
		t.Fatal(err)
	}
	if c.Count != 7 || len(c.Names) != MaxCrewNames || c.Names[0] != "A" {
		t.Fatalf("crew = %+v", c)
	}
}

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

// routeNet answers by URL.
type routeNet struct {
	bodies map[string]string
	gets   map[string]int
}

func (n *routeNet) Connected() bool { return true }
func (n *routeNet) SSID() string    { return "lab" }
func (n *routeNet) RSSI() int       { return -60 }
func (n *routeNet) Get(url string) []byte {
	n.gets[url]++
	return []byte(n.bodies[url])
}
func (n *routeNet) Listen(string) (net.Listener, error) { return nil, hal.ErrNotImplemented }

func TestCrewFetchedOnce(t *testing.T) {
	n := &routeNet{
		bodies: map[string]string{PositionURL: position, CrewURL: crew},
		gets:   map[string]int{},
	}
	ctx := &applet.Context{
		Now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Surface: gfx.New(nullDisplay{}),
		Net:     n,
	}
	task := New()
	task.Init(ctx)
	task.HandleInput(ctx, hal.ButtonA, true)
	task.Render(ctx)

	ctx.Now = ctx.Now.Add(RefreshInterval)
	task.Update(ctx)
	if n.gets[PositionURL] != 2 || n.gets[CrewURL] != 1 {
		t.Fatalf("gets = %v", n.gets)
	}
	if task.crew.Count != 7 || task.pos.Lon != 101.5 {
		t.Fatalf("crew = %+v pos = %+v", task.crew, task.pos)
	}
}

func TestPositionErrorKeepsCrewUnfetched(t *testing.T) {
	n := &routeNet{bodies: map[string]string{PositionURL: `oops`, CrewURL: crew}, gets: map[string]int{}}
	ctx := &applet.Context{Surface: gfx.New(nullDisplay{}), Net: n}
	task := New()
	task.Init(ctx)
	task.HandleInput(ctx, hal.ButtonC, true)
	if task.errMsg != "Parse error" || n.gets[CrewURL] != 0 {
		t.Fatalf("errMsg = %q gets = %v", task.errMsg, n.gets)
	}
}
