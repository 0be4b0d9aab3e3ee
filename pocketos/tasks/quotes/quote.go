package quotes

import (
	"encoding/json"
	"errors"
	"fmt"
)

// URL asks Quotable for a random quote short enough for the screen.
const URL = "https://api.quotable.io/random?maxLength=150"

var (
	ErrEmpty = errors.New("quotes: no quote received")
	ErrParse = errors.New("quotes: bad response")
)

type Quote struct {
	Text   string
	Author string
}

// Parse decodes a Quotable response. A missing author reads "Unknown".
func Parse(body []byte) (Quote, error) {
	var doc struct {
		Content string `json:"content"`
		Author  string `json:"author"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Quote{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Content == "" {
		return Quote{}, ErrEmpty
	}
	if doc.Author == "" {
		doc.Author = "Unknown"
	}
	return Quote{Text: doc.Content, Author: doc.Author}, nil
}
