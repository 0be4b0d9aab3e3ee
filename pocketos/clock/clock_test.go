package clock

import (
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/prefs"
)

func TestFormat(t *testing.T) {
	at := time.Date(2024, 3, 4, 8, 35, 0, 0, time.UTC)
	tests := []struct {
		st         Settings
		time, date string
		label      string
	}{
		{Settings{Zone: 0, Use24h: true}, "08:35", "Mon, Mar 4", "UTC (+0)"},
		{Settings{Zone: 1, Use24h: true}, "14:05", "Mon, Mar 4", "IST (+5:30)"},
		{Settings{Zone: 1, Use24h: false}, "2:05 PM", "Mon, Mar 4", "IST (+5:30)"},
		{Settings{Zone: 5, Use24h: true}, "00:35", "Mon, Mar 4", "PST (-8)"},
		{Settings{Zone: 4, Use24h: false}, "1:35 AM", "Mon, Mar 4", "MST (-7)"},
		{Settings{Zone: 7, Use24h: true}, "17:35", "Mon, Mar 4", "JST (+9)"},
		{Settings{Zone: 99, Use24h: true}, "14:05", "Mon, Mar 4", "IST (+5:30)"},
	}
	for _, tt := range tests {
		if got := tt.st.Time(at); got != tt.time {
			t.Errorf("%+v Time = %q, want %q", tt.st, got, tt.time)
		}
		if got := tt.st.Date(at); got != tt.date {
			t.Errorf("%+v Date = %q, want %q", tt.st, got, tt.date)
		}
		if got := tt.st.ZoneLabel(); got != tt.label {
			t.Errorf("%+v ZoneLabel = %q, want %q", tt.st, got, tt.label)
		}
	}
}

func TestDateRollsWithZone(t *testing.T) {
	at := time.Date(2024, 3, 4, 3, 0, 0, 0, time.UTC)
	if got := (Settings{Zone: 2}).Date(at); got != "Sun, Mar 3" {
		t.Fatalf("EST date = %q", got)
	}
}

func TestLoadSave(t *testing.T) {
	store, err := prefs.Load(hal.NewMemFlash(64*1024, 4096), 0, 8192, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := Load(store); got != Default() {
		t.Fatalf("Load on empty store = %+v", got)
	}
	want := Settings{Zone: 6, Use24h: false}
	if err := want.Save(store); err != nil {
		t.Fatal(err)
	}
	if got := Load(store); got != want {
		t.Fatalf("Load = %+v, want %+v", got, want)
	}
	if got := Load(nil); got != Default() {
		t.Fatalf("Load(nil) = %+v", got)
	}
}
