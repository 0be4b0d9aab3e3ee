// Package openweather fetches current conditions from the OpenWeatherMap API.
// It is shared by the homescreen and the weather app.
package openweather

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"pocket/hal"
	"pocket/pocketos/prefs"
)

// BaseURL is the current-weather endpoint.
const BaseURL = "http://api.openweathermap.org/data/2.5/weather"

const (
	PrefKey  = "weather_key"
	PrefCity = "weather_city"

	DefaultCity = "Kollam"
	// MaxCity bounds the city name, like the text-entry buffer that edits it.
	MaxCity = 32
)

var (
	ErrNoWiFi   = errors.New("openweather: not connected")
	ErrNoKey    = errors.New("openweather: no api key")
	ErrNetwork  = errors.New("openweather: request failed")
	ErrParse    = errors.New("openweather: bad response")
	ErrNotFound = errors.New("openweather: city not found")
)

// Message is the short on-screen text for an error returned by Fetch.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoWiFi):
		return "No WiFi"
	case errors.Is(err, ErrNoKey):
		return "No API key"
	case errors.Is(err, ErrNetwork):
		return "Network error"
	case errors.Is(err, ErrNotFound):
		return "City not found"
	default:
		return "Parse error"
	}
}

// Report is one observation.
type Report struct {
	City        string
	Temp        float64 // Celsius
	Humidity    int
	Main        string // e.g. "Clouds"
	Description string // e.g. "broken clouds"
}

// Settings returns the persisted city and API key.
func Settings(store *prefs.Store) (city, key string) {
	if store == nil {
		return DefaultCity, ""
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	city = s.GetString(PrefCity, DefaultCity)
	if city == "" {
		city = DefaultCity
	}
	return city, s.GetString(PrefKey, "")
}

// SaveCity persists city.
func SaveCity(store *prefs.Store, city string) error {
	s := store.Open(prefs.Namespace, false)
	if err := s.PutString(PrefCity, city); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}

// URL builds the request for city in metric units.
func URL(city, key string) string {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", key)
	q.Set("units", "metric")
	return BaseURL + "?" + q.Encode()
}

// Fetch performs a blocking request for city.
func Fetch(n hal.Network, city, key string) (Report, error) {
	if n == nil || !n.Connected() {
		return Report{}, ErrNoWiFi
	}
	if key == "" {
		return Report{}, ErrNoKey
	}
	body := n.Get(URL(city, key))
	if len(body) == 0 {
		return Report{}, ErrNetwork
	}
	r, err := Parse(body)
	if err != nil {
		return Report{}, err
	}
	if r.City == "" {
		r.City = city
	}
	return r, nil
}

type response struct {
	Cod  json.RawMessage `json:"cod"`
	Name string          `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

// Parse decodes an API response body.
func Parse(body []byte) (Report, error) {
	var doc response
	if err := json.Unmarshal(body, &doc); err != nil {
		return Report{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	// cod is a number on success and a string on errors.
	if cod := strings.Trim(string(doc.Cod), `"`); cod != "" && cod != "200" {
		return Report{}, fmt.Errorf("%w (cod %s)", ErrNotFound, cod)
	}
	r := Report{City: doc.Name, Temp: doc.Main.Temp, Humidity: doc.Main.Humidity}
	if len(doc.Weather) > 0 {
		r.Main = doc.Weather[0].Main
		r.Description = doc.Weather[0].Description
	}
	return r, nil
}
