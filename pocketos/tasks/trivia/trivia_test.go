package trivia

import (
	"errors"
	"image/color"
	"net"
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

const capital = `{"response_code":0,"results":[{
	"question":"What&#039;s the capital of &quot;France&quot;?",
	"correct_answer":"Paris",
	"incorrect_answers":["Lyon","Nice","Lille &amp; Co"]}]}`

func TestParse(t *testing.T) {
	for slot := 0; slot < numAnswers; slot++ {
		q, err := Parse([]byte(capital), slot)
		if err != nil {
			t.Fatal(err)
		}
		if q.Text != `What's the capital of "France"?` {
			t.Fatalf("Text = %q", q.Text)
		}
		if q.Correct != slot || q.Answers[slot] != "Paris" {
			t.Fatalf("slot %d: answers = %q correct = %d", slot, q.Answers, q.Correct)
		}
		last := q.Answers[numAnswers-1]
		if slot == numAnswers-1 {
			last = q.Answers[numAnswers-2]
		}
		if last != "Lille & Co" {
			t.Fatalf("slot %d: last wrong answer = %q", slot, last)
		}
	}

	if _, err := Parse([]byte(`{"response_code":1,"results":[]}`), 0); !errors.Is(err, ErrAPI) {
		t.Fatalf("code 1: err = %v", err)
	}
	if _, err := Parse([]byte(`x`), 0); !errors.Is(err, ErrParse) {
		t.Fatalf("garbage: err = %v", err)
	}
}

func TestRating(t *testing.T) {
	tests := []struct {
		score, asked int
		want         string
	}{
		{4, 5, "Excellent!"},
		{3, 5, "Good job!"},
		{2, 5, "Not bad"},
		{1, 5, "Keep trying!"},
		{0, 0, "Keep trying!"},
	}
	for _, tt := range tests {
		if got := Rating(tt.score, tt.asked); got != tt.want {
			t.Errorf("Rating(%d, %d) = %q, want %q", tt.score, tt.asked, got, tt.want)
		}
	}
}

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

type fakeNet struct{ body string }

func (n *fakeNet) Connected() bool                     { return true }
func (n *fakeNet) SSID() string                        { return "lab" }
func (n *fakeNet) RSSI() int                           { return -60 }
func (n *fakeNet) Get(string) []byte                   { return []byte(n.body) }
func (n *fakeNet) Listen(string) (net.Listener, error) { return nil, hal.ErrNotImplemented }

func press(ctx *applet.Context, task *Task, bs ...hal.Button) {
	for _, b := range bs {
		task.HandleInput(ctx, b, true)
		task.HandleInput(ctx, b, false)
		task.Render(ctx)
	}
}

func TestRound(t *testing.T) {
	ctx := &applet.Context{
		Now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Surface: gfx.New(nullDisplay{}),
		Net:     &fakeNet{body: capital},
	}
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	if task.state != statePlaying || task.asked != 1 {
		t.Fatalf("state = %d asked = %d", task.state, task.asked)
	}

	for task.selected != task.q.Correct {
		press(ctx, task, hal.ButtonDown)
	}
	press(ctx, task, hal.ButtonA)
	if !task.answered || task.score != 1 {
		t.Fatalf("answered = %v score = %d", task.answered, task.score)
	}
	// Moving after answering does nothing.
	press(ctx, task, hal.ButtonUp, hal.ButtonDown)

	press(ctx, task, hal.ButtonA)
	if task.asked != 2 || task.answered {
		t.Fatalf("next question: asked = %d answered = %v", task.asked, task.answered)
	}
	task.selected = (task.q.Correct + 1) % numAnswers
	press(ctx, task, hal.ButtonA)
	if task.score != 1 {
		t.Fatalf("wrong answer scored: %d", task.score)
	}

	press(ctx, task, hal.ButtonB)
	if task.state != stateResult {
		t.Fatalf("B should end the round, state = %d", task.state)
	}
	press(ctx, task, hal.ButtonA)
	if task.score != 0 || task.asked != 1 || task.state != statePlaying {
		t.Fatalf("again: score = %d asked = %d", task.score, task.asked)
	}
	press(ctx, task, hal.ButtonB, hal.ButtonB)
	if !task.Flags().WantsExit() {
		t.Fatal("B on the result screen should exit")
	}
}
