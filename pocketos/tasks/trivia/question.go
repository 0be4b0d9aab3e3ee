package trivia

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// URL asks the Open Trivia Database for one multiple-choice question.
const URL = "https://opentdb.com/api.php?amount=1&type=multiple"

const numAnswers = 4

var (
	ErrAPI   = errors.New("trivia: api error")
	ErrParse = errors.New("trivia: bad response")
)

// Question has its answers already shuffled.
type Question struct {
	Text    string
	Answers [numAnswers]string
	Correct int
}

// entities are the HTML escapes the service puts in its text.
var entities = strings.NewReplacer(
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#039;", "'",
	"&apos;", "'",
)

// Parse decodes a response and places the correct answer at slot, 0..3.
func Parse(body []byte, slot int) (Question, error) {
	var doc struct {
		Code    int `json:"response_code"`
		Results []struct {
			Question  string   `json:"question"`
			Correct   string   `json:"correct_answer"`
			Incorrect []string `json:"incorrect_answers"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Question{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if doc.Code != 0 || len(doc.Results) == 0 {
		return Question{}, fmt.Errorf("%w (code %d)", ErrAPI, doc.Code)
	}
	r := doc.Results[0]
	q := Question{Text: entities.Replace(r.Question), Correct: slot % numAnswers}
	wrong := r.Incorrect
	for i := range q.Answers {
		if i == q.Correct {
			q.Answers[i] = entities.Replace(r.Correct)
			continue
		}
		if len(wrong) > 0 {
			q.Answers[i] = entities.Replace(wrong[0])
			wrong = wrong[1:]
		}
	}
	return q, nil
}

// Rating grades a final score.
func Rating(score, asked int) string {
	pct := 0
	if asked > 0 {
		pct = score * 100 / asked
	}
	switch {
	case pct >= 80:
		return "Excellent!"
	case pct >= 60:
		return "Good job!"
	case pct >= 40:
		return "Not bad"
	default:
		return "Keep trying!"
	}
}
