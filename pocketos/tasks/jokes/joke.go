package jokes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// URL asks JokeAPI for any safe joke.
const URL = "https://v2.jokeapi.dev/joke/Any?safe-mode"

var (
	ErrAPI   = errors.New("jokes: api error")
	ErrEmpty = errors.New("jokes: no joke received")
	ErrParse = errors.New("jokes: bad response")
)

// Joke is a single-line joke, or a setup with a delivery.
type Joke struct {
	Setup    string
	Delivery string
}

// TwoPart reports whether the joke has a separate punchline.
func (j Joke) TwoPart() bool { return j.Delivery != "" }

type response struct {
	Error    bool   `json:"error"`
	Type     string `json:"type"`
	Joke     string `json:"joke"`
	Setup    string `json:"setup"`
	Delivery string `json:"delivery"`
}

// Parse decodes a JokeAPI response.
func Parse(body []byte) (Joke, error) {
	var doc response
	if err := json.Unmarshal(body, &doc); err != nil {
		return Joke{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Error {
		return Joke{}, ErrAPI
	}
	var j Joke
	if doc.Type == "twopart" {
		j = Joke{Setup: doc.Setup, Delivery: doc.Delivery}
	} else {
		j = Joke{Setup: doc.Joke}
	}
	if j.Setup == "" {
		return Joke{}, ErrEmpty
	}
	return j, nil
}
