// Package clock formats wall time for the selected time zone.
package clock

import (
	"strconv"
	"time"

	"pocket/pocketos/prefs"
)

// Zone is a fixed offset from UTC.
type Zone struct {
	Name   string
	Offset time.Duration
}

// Zones are the selectable time zones, in settings order.
var Zones = [...]Zone{
	{"UTC", 0},
	{"IST", 5*time.Hour + 30*time.Minute},
	{"EST", -5 * time.Hour},
	{"CST", -6 * time.Hour},
	{"MST", -7 * time.Hour},
	{"PST", -8 * time.Hour},
	{"CET", time.Hour},
	{"JST", 9 * time.Hour},
}

const (
	DefaultZone = 1

	PrefZone   = "timezone_idx"
	Pref24Hour = "use_24hour"
)

// Settings selects how time is shown.
type Settings struct {
	Zone   int
	Use24h bool
}

// Default is IST with a 24-hour clock.
func Default() Settings { return Settings{Zone: DefaultZone, Use24h: true} }

// Load reads the persisted settings, falling back to Default.
func Load(store *prefs.Store) Settings {
	st := Default()
	if store == nil {
		return st
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	st.Zone = s.GetInt(PrefZone, DefaultZone)
	st.Use24h = s.GetBool(Pref24Hour, true)
	if st.Zone < 0 || st.Zone >= len(Zones) {
		st.Zone = DefaultZone
	}
	return st
}

// Save persists the settings.
func (st Settings) Save(store *prefs.Store) error {
	s := store.Open(prefs.Namespace, false)
	if err := s.PutInt(PrefZone, st.Zone); err != nil {
		s.Close()
		return err
	}
	if err := s.PutBool(Pref24Hour, st.Use24h); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

func (st Settings) zone() Zone {
	if st.Zone < 0 || st.Zone >= len(Zones) {
		return Zones[DefaultZone]
	}
	return Zones[st.Zone]
}

// Location is the fixed zone for the setting.
func (st Settings) Location() *time.Location {
	z := st.zone()
	return time.FixedZone(z.Name, int(z.Offset/time.Second))
}

// ZoneLabel is e.g. "IST (+5:30)".
func (st Settings) ZoneLabel() string {
	z := st.zone()
	return z.Name + " (" + offsetString(z.Offset) + ")"
}

func offsetString(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	if m == 0 {
		return sign + strconv.Itoa(h)
	}
	mm := strconv.Itoa(m)
	if m < 10 {
		mm = "0" + mm
	}
	return sign + strconv.Itoa(h) + ":" + mm
}

// Time is the clock face: "14:05" or "2:05 PM".
func (st Settings) Time(t time.Time) string {
	t = t.In(st.Location())
	if st.Use24h {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

// Date is e.g. "Mon, Jan 2".
func (st Settings) Date(t time.Time) string {
	return t.In(st.Location()).Format("Mon, Jan 2")
}
