package snake

import (
	"fmt"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
	"pocket/pocketos/prefs"
)

type dir uint8

const (
	dirRight dir = iota
	dirDown
	dirLeft
	dirUp
)

type point struct {
	x int
	y int
}

type state uint8

const (
	stateMenu state = iota
	statePlaying
	stateOver
)

const (
	gridW  = 30
	gridH  = 16
	cell   = 4
	maxLen = 64

	stepBase = 150 * time.Millisecond
	stepMin  = 80 * time.Millisecond
	stepRamp = 2 * time.Millisecond
)

// PrefHigh holds the best score.
const PrefHigh = "snake_hi"

var icon = gfx.Icon{
	0x0000, 0x0000, 0x3FFC, 0x2004, 0x2FF4, 0x2814, 0x2B94, 0x2A94,
	0x2A94, 0x2E94, 0x2094, 0x3F94, 0x0014, 0x07F4, 0x0004, 0x0000,
}

type Task struct {
	applet.Base

	state state

	snake   []point
	headDir dir
	nextDir dir

	food point
	rng  uint32

	score    int
	high     int
	newHigh  bool
	interval time.Duration
	lastStep time.Time
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Snake", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.state = stateMenu
	t.snake = t.snake[:0]
	t.score = 0
	t.newHigh = false
	t.high = loadHigh(ctx.Prefs)
	t.rng = uint32(ctx.Now.UnixNano())
}

func loadHigh(store *prefs.Store) int {
	if store == nil {
		return 0
	}
	s := store.Open(prefs.Namespace, true)
	defer s.Close()
	return s.GetInt(PrefHigh, 0)
}

func (t *Task) saveHigh(ctx *applet.Context) {
	if t.score <= t.high {
		return
	}
	t.high = t.score
	t.newHigh = true
	if ctx.Prefs == nil {
		return
	}
	s := ctx.Prefs.Open(prefs.Namespace, false)
	if err := s.PutInt(PrefHigh, t.high); err != nil && ctx.Log != nil {
		ctx.Log.Warn("snake high score", "err", err)
	}
	if err := s.Close(); err != nil && ctx.Log != nil {
		ctx.Log.Warn("snake high score", "err", err)
	}
}

func (t *Task) start(now time.Time) {
	start := point{x: gridW / 2, y: gridH / 2}
	t.snake = append(t.snake[:0], start, point{start.x - 1, start.y}, point{start.x - 2, start.y})
	t.headDir = dirRight
	t.nextDir = dirRight
	t.score = 0
	t.newHigh = false
	t.interval = stepBase
	t.lastStep = now
	t.spawnFood()
	t.state = statePlaying
}

func (t *Task) Update(ctx *applet.Context) {
	if t.state != statePlaying {
		return
	}
	if ctx.Now.Sub(t.lastStep) < t.interval {
		return
	}
	t.lastStep = ctx.Now
	if !t.step() {
		t.state = stateOver
		t.saveHigh(ctx)
	}
}

// step advances the snake one cell and reports whether it survived.
func (t *Task) step() bool {
	t.headDir = t.nextDir
	next := t.snake[0]
	switch t.headDir {
	case dirUp:
		next.y--
	case dirDown:
		next.y++
	case dirLeft:
		next.x--
	case dirRight:
		next.x++
	}

	if next.x < 0 || next.x >= gridW || next.y < 0 || next.y >= gridH {
		return false
	}

	willEat := next == t.food
	check := t.snake
	if !willEat && len(check) > 1 {
		// The tail moves away this step.
		check = check[:len(check)-1]
	}
	for _, p := range check {
		if p == next {
			return false
		}
	}

	t.snake = append(t.snake, point{})
	copy(t.snake[1:], t.snake)
	t.snake[0] = next
	if willEat {
		t.score++
		if t.interval > stepMin {
			t.interval -= stepRamp
		}
		if len(t.snake) > maxLen {
			t.snake = t.snake[:maxLen]
		}
		t.spawnFood()
		return true
	}
	t.snake = t.snake[:len(t.snake)-1]
	return true
}

func (t *Task) spawnFood() {
	for tries := 0; tries < 1024; tries++ {
		t.rng = xorshift32(t.rng)
		x := int(t.rng % gridW)
		t.rng = xorshift32(t.rng)
		y := int(t.rng % gridH)
		p := point{x: x, y: y}
		if !t.occupied(p) {
			t.food = p
			return
		}
	}
	t.food = point{}
}

func (t *Task) occupied(p point) bool {
	for _, s := range t.snake {
		if s == p {
			return true
		}
	}
	return false
}

func xorshift32(x uint32) uint32 {
	if x == 0 {
		x = 0x6d2b79f5
	}
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	return x
}

// turn queues d unless it reverses the current heading.
func (t *Task) turn(d dir) {
	if (t.headDir == dirUp && d == dirDown) ||
		(t.headDir == dirDown && d == dirUp) ||
		(t.headDir == dirLeft && d == dirRight) ||
		(t.headDir == dirRight && d == dirLeft) {
		return
	}
	t.nextDir = d
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	if !pressed {
		return
	}
	switch t.state {
	case stateMenu, stateOver:
		switch b {
		case hal.ButtonA:
			t.start(ctx.Now)
		case hal.ButtonB, hal.ButtonD:
			t.Exit()
		}
	case statePlaying:
		switch b {
		case hal.ButtonUp:
			t.turn(dirUp)
		case hal.ButtonDown:
			t.turn(dirDown)
		case hal.ButtonLeft:
			t.turn(dirLeft)
		case hal.ButtonRight:
			t.turn(dirRight)
		case hal.ButtonD:
			t.state = stateOver
			t.saveHigh(ctx)
		}
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	switch t.state {
	case stateMenu:
		s.TitleBar("Snake")
		s.Centered(s.Normal, 22, "Press A to start")
		s.Centered(s.Normal, 36, fmt.Sprintf("High Score: %d", t.high))
		s.StatusBar("A:Start", "B:Exit")

	case statePlaying:
		s.Frame(0, 0, gridW*cell, gridH*cell, true)
		for i, p := range t.snake {
			x, y := int16(p.x*cell), int16(p.y*cell)
			if i == 0 {
				s.Box(x, y, cell, cell, true)
			} else {
				s.Box(x+1, y+1, cell-2, cell-2, true)
			}
		}
		s.Box(int16(t.food.x*cell), int16(t.food.y*cell), cell, cell, true)
		score := fmt.Sprint(t.score)
		w, _ := s.Size()
		s.Text(s.Small, w-s.TextWidth(s.Small, score), 1, score, true)

	case stateOver:
		s.TitleBar("Game Over")
		s.Centered(s.Normal, 22, fmt.Sprintf("Score: %d", t.score))
		if t.newHigh {
			s.Centered(s.Normal, 34, "NEW HIGH SCORE!")
		} else {
			s.Centered(s.Normal, 34, fmt.Sprintf("Best: %d", t.high))
		}
		s.StatusBar("A:Again", "B:Exit")
	}
	_ = s.Flush()
}
