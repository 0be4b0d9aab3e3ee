package news

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"pocket/hal"
	"pocket/pocketos/prefs"
)

// BaseURL is the NewsAPI top-headlines endpoint.
const BaseURL = "https://newsapi.org/v2/top-headlines"

const (
	// PrefKey holds the NewsAPI key.
	PrefKey = "news_key"
	// MaxHeadlines is how many articles one fetch keeps.
	MaxHeadlines = 5
)

var (
	ErrNoWiFi  = errors.New("news: not connected")
	ErrNoKey   = errors.New("news: no api key")
	ErrNetwork = errors.New("news: request failed")
	ErrParse   = errors.New("news: bad response")
	ErrAPI     = errors.New("news: api error")
	ErrEmpty   = errors.New("news: no headlines")
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
	case errors.Is(err, ErrAPI):
		return "API error"
	case errors.Is(err, ErrEmpty):
		return "No headlines"
	default:
		return "Parse error"
	}
}

type Headline struct {
	Title  string
	Source string
}

// Key returns the persisted API key.
func Key(store *prefs.Store) string {
	if store == nil {
		return ""
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	return s.GetString(PrefKey, "")
}

// URL builds the request for US headlines.
func URL(key string) string {
	q := url.Values{}
	q.Set("country", "us")
	q.Set("pageSize", strconv.Itoa(MaxHeadlines))
	q.Set("apiKey", key)
	return BaseURL + "?" + q.Encode()
}

// Fetch performs a blocking request.
func Fetch(n hal.Network, key string) ([]Headline, error) {
	if n == nil || !n.Connected() {
		return nil, ErrNoWiFi
	}
	if key == "" {
		return nil, ErrNoKey
	}
	body := n.Get(URL(key))
	if len(body) == 0 {
		return nil, ErrNetwork
	}
	return Parse(body)
}

type response struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Title  string `json:"title"`
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Parse decodes a top-headlines response, keeping at most MaxHeadlines.
func Parse(body []byte) ([]Headline, error) {
	var doc response
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Status != "ok" {
		return nil, fmt.Errorf("%w: %s", ErrAPI, doc.Message)
	}
	var out []Headline
	for _, a := range doc.Articles {
		if len(out) == MaxHeadlines {
			break
		}
		out = append(out, Headline{Title: a.Title, Source: a.Source.Name})
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}
