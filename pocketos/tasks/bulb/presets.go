package bulb

import (
	"fmt"

	"pocket/pocketos/prefs"
)

// Preference keys.
const (
	PrefAddr = "bulb_ip"

	NumPresets = 4
	// MaxAddr bounds the device address, like the text-entry buffer that edits it.
	MaxAddr = 32
)

// Preset is a saved light setting.
type Preset struct {
	Valid bool
	Name  string
	Light Light
}

func presetKey(field string, i int) string { return fmt.Sprintf("bulb_pre_%s%d", field, i) }

// NewPreset names l after its color temperature or hue.
func NewPreset(l Light) Preset {
	name := fmt.Sprintf("H%d S%d", l.Hue, l.Saturation)
	if l.Saturation < 20 {
		name = fmt.Sprintf("%dK %d%%", Kelvin(l.CT), l.Brightness)
	}
	l.On = true
	return Preset{Valid: true, Name: name, Light: l}
}

func loadPresets(store *prefs.Store) (out [NumPresets]Preset) {
	if store == nil {
		return out
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	for i := range out {
		if !s.GetBool(presetKey("", i), false) {
			continue
		}
		out[i] = Preset{
			Valid: true,
			Name:  s.GetString(presetKey("n", i), ""),
			Light: Light{
				On:         true,
				Hue:        s.GetInt(presetKey("h", i), 0),
				Saturation: s.GetInt(presetKey("s", i), 0),
				Brightness: s.GetInt(presetKey("b", i), 100),
				CT:         s.GetInt(presetKey("c", i), DefaultCT),
			},
		}
	}
	return out
}

func savePreset(store *prefs.Store, i int, p Preset) error {
	s := store.Open(prefs.Namespace, false)
	for _, err := range []error{
		s.PutBool(presetKey("", i), p.Valid),
		s.PutString(presetKey("n", i), p.Name),
		s.PutInt(presetKey("h", i), p.Light.Hue),
		s.PutInt(presetKey("s", i), p.Light.Saturation),
		s.PutInt(presetKey("b", i), p.Light.Brightness),
		s.PutInt(presetKey("c", i), p.Light.CT),
	} {
		if err != nil {
			s.Close()
			return err
		}
	}
	return s.Close()
}

func loadAddr(store *prefs.Store) string {
	if store == nil {
		return ""
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	return s.GetString(PrefAddr, "")
}

func saveAddr(store *prefs.Store, addr string) error {
	s := store.Open(prefs.Namespace, false)
	if err := s.PutString(PrefAddr, addr); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
