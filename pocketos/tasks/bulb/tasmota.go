package bulb

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pocket/hal"
)

// Color temperature range of the bulb in mireds.
const (
	MinCT     = 153 // about 6500 K
	MaxCT     = 500 // 2000 K
	DefaultCT = 326
)

var (
	ErrNoWiFi   = errors.New("bulb: not connected")
	ErrNoIP     = errors.New("bulb: no address")
	ErrNoAnswer = errors.New("bulb: connection failed")
	ErrParse    = errors.New("bulb: bad response")
)

// Message is the short on-screen text for a client error.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoWiFi):
		return "No WiFi"
	case errors.Is(err, ErrNoIP):
		return "No IP set"
	case errors.Is(err, ErrNoAnswer):
		return "Connection failed"
	default:
		return "Parse error"
	}
}

// Light is the adjustable state of a Tasmota light.
type Light struct {
	On         bool
	Brightness int // 0..100
	Hue        int // 0..359
	Saturation int // 0..100
	CT         int // mireds
}

// Client talks to one Tasmota device over its /cm HTTP command endpoint.
type Client struct {
	Net  hal.Network
	Addr string
}

// CommandURL builds the request for cmd. Spaces are sent as %20.
func CommandURL(addr, cmd string) string {
	return "http://" + addr + "/cm?cmnd=" + strings.ReplaceAll(url.QueryEscape(cmd), "+", "%20")
}

func (c Client) ready() error {
	if c.Net == nil || !c.Net.Connected() {
		return ErrNoWiFi
	}
	if c.Addr == "" {
		return ErrNoIP
	}
	return nil
}

// Send fires a command. Tasmota answers with JSON nobody needs here.
func (c Client) Send(cmd string) error {
	if err := c.ready(); err != nil {
		return err
	}
	c.Net.Get(CommandURL(c.Addr, cmd))
	return nil
}

// State queries the device.
func (c Client) State() (Light, error) {
	if err := c.ready(); err != nil {
		return Light{}, err
	}
	body := c.Net.Get(CommandURL(c.Addr, "State"))
	if len(body) == 0 {
		return Light{}, ErrNoAnswer
	}
	return ParseState(body)
}

// ParseState decodes a State response. Single-relay devices report POWER,
// multi-relay ones POWER1.
func ParseState(body []byte) (Light, error) {
	var doc struct {
		Power    *string `json:"POWER"`
		Power1   *string `json:"POWER1"`
		Dimmer   *int    `json:"Dimmer"`
		HSBColor string  `json:"HSBColor"`
		CT       *int    `json:"CT"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Light{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	l := Light{Brightness: 100, CT: DefaultCT}
	switch {
	case doc.Power != nil:
		l.On = *doc.Power == "ON"
	case doc.Power1 != nil:
		l.On = *doc.Power1 == "ON"
	}
	if doc.Dimmer != nil {
		l.Brightness = *doc.Dimmer
	}
	if doc.CT != nil {
		l.CT = *doc.CT
	}
	var h, s, b int
	if n, _ := fmt.Sscanf(doc.HSBColor, "%d,%d,%d", &h, &s, &b); n == 3 {
		l.Hue, l.Saturation = h, s
	}
	return l, nil
}

func PowerCmd(on bool) string {
	if on {
		return "Power ON"
	}
	return "Power OFF"
}

func DimmerCmd(pct int) string { return fmt.Sprintf("Dimmer %d", pct) }
func CTCmd(ct int) string      { return fmt.Sprintf("CT %d", ct) }

func ColorCmd(l Light) string {
	return fmt.Sprintf("HSBColor %d,%d,%d", l.Hue, l.Saturation, l.Brightness)
}

// Kelvin converts mireds to kelvin.
func Kelvin(ct int) int {
	if ct <= 0 {
		ct = DefaultCT
	}
	return 1000000 / ct
}

// ColorName describes l in a word or two.
func ColorName(l Light) string {
	if l.Saturation < 20 {
		switch {
		case l.CT < 250:
			return "Cool White"
		case l.CT < 380:
			return "Neutral"
		default:
			return "Warm White"
		}
	}
	switch {
	case l.Hue < 30:
		return "Red"
	case l.Hue < 60:
		return "Orange"
	case l.Hue < 90:
		return "Yellow"
	case l.Hue < 150:
		return "Green"
	case l.Hue < 210:
		return "Cyan"
	case l.Hue < 270:
		return "Blue"
	case l.Hue < 330:
		return "Purple"
	default:
		return "Red"
	}
}
