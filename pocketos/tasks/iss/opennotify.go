package iss

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// Open Notify endpoints. The service only speaks plain HTTP.
const (
	PositionURL = "http://api.open-notify.org/iss-now.json"
	CrewURL     = "http://api.open-notify.org/astros.json"
)

// MaxCrewNames is how many astronaut names are kept.
const MaxCrewNames = 6

var ErrParse = errors.New("iss: bad response")

type Position struct {
	Lat float64
	Lon float64
}

// ParsePosition decodes iss-now.json. The coordinates arrive as strings.
func ParsePosition(body []byte) (Position, error) {
	var doc struct {
		Position struct {
			Lat json.Number `json:"latitude"`
			Lon json.Number `json:"longitude"`
		} `json:"iss_position"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Position{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	lat, err := strconv.ParseFloat(doc.Position.Lat.String(), 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: latitude: %v", ErrParse, err)
	}
	lon, err := strconv.ParseFloat(doc.Position.Lon.String(), 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w: longitude: %v", ErrParse, err)
	}
	return Position{Lat: lat, Lon: lon}, nil
}

// Crew is the number of people in space and the first few names.
type Crew struct {
	Count int
	Names []string
}

// ParseCrew decodes astros.json.
func ParseCrew(body []byte) (Crew, error) {
	var doc struct {
		Number int `json:"number"`
		People []struct {
			Name string `json:"name"`
		} `json:"people"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Crew{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	c := Crew{Count: doc.Number}
	for _, p := range doc.People {
		if len(c.Names) == MaxCrewNames {
			break
		}
		c.Names = append(c.Names, p.Name)
	}
	return c, nil
}
