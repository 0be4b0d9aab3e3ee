// Package pong is a one-player Pong against a tracking paddle.
package pong

import (
	"fmt"
	"math"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

type state uint8

const (
	stateMenu state = iota
	statePlaying
	stateOver
)

const (
	width  = 128
	height = 64

	paddleW  = 3
	paddleH  = 12
	paddleX  = 4
	ballSize = 3

	playerSpeed = 3
	ballSpeed   = 2.0
	aiBase      = 1.5
	aiRamp      = 0.1
	bounceGain  = 1.05
	spin        = 0.1

	WinScore  = 5
	frameStep = 16 * time.Millisecond
)

var icon = gfx.Icon{
	0x0000, 0x0000, 0x6000, 0x6000, 0x6000, 0x6006, 0x6006, 0x6186,
	0x6186, 0x6006, 0x6006, 0x0006, 0x0006, 0x0000, 0x0000, 0x0000,
}

type Task struct {
	applet.Base

	state state
	held  [hal.NumButtons]bool

	playerY, aiY float64
	ballX, ballY float64
	vx, vy       float64
	aiSpeed      float64

	playerScore, aiScore int
	playerWon            bool

	last time.Time
	rng  uint32
}

func New() *Task {
	return &Task{Base: applet.Base{AppName: "Pong", AppIcon: &icon}}
}

func (t *Task) Init(ctx *applet.Context) {
	t.state = stateMenu
	t.held = [hal.NumButtons]bool{}
	t.rng = uint32(ctx.Now.UnixNano()) | 1
}

func (t *Task) random() uint32 {
	t.rng ^= t.rng << 13
	t.rng ^= t.rng >> 17
	t.rng ^= t.rng << 5
	return t.rng
}

func (t *Task) start(now time.Time) {
	t.playerY = (height - paddleH) / 2
	t.aiY = t.playerY
	t.playerScore = 0
	t.aiScore = 0
	t.aiSpeed = aiBase
	t.serve(t.random()%2 == 0)
	t.state = statePlaying
	t.last = now
}

// serve puts the ball in the middle heading at up to 45 degrees off
// horizontal.
func (t *Task) serve(towardPlayer bool) {
	t.ballX, t.ballY = width/2, height/2
	angle := float64(int(t.random()%91)-45) * math.Pi / 180
	t.vx = math.Cos(angle) * ballSpeed
	if towardPlayer {
		t.vx = -t.vx
	}
	t.vy = math.Sin(angle) * ballSpeed
}

func (t *Task) Update(ctx *applet.Context) {
	if t.state != statePlaying || ctx.Now.Sub(t.last) < frameStep {
		return
	}
	t.last = ctx.Now
	t.step()
}

func clamp(v, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, v)) }

func (t *Task) step() {
	if t.held[hal.ButtonUp] {
		t.playerY = clamp(t.playerY-playerSpeed, 0, height-paddleH)
	}
	if t.held[hal.ButtonDown] {
		t.playerY = clamp(t.playerY+playerSpeed, 0, height-paddleH)
	}
	t.moveAI()

	t.ballX += t.vx
	t.ballY += t.vy

	if t.ballY <= 0 || t.ballY >= height-ballSize {
		t.vy = -t.vy
		t.ballY = clamp(t.ballY, 0, height-ballSize)
	}

	if t.ballX <= paddleX+paddleW && t.ballX >= paddleX && t.hits(t.playerY) {
		t.vx = math.Abs(t.vx) * bounceGain
		t.vy += (t.ballY - (t.playerY + paddleH/2)) * spin
		t.ballX = paddleX + paddleW + 1
	}
	aiX := float64(width - paddleX - paddleW)
	if t.ballX >= aiX-ballSize && t.ballX <= width-paddleX-ballSize && t.hits(t.aiY) {
		t.vx = -math.Abs(t.vx) * bounceGain
		t.vy += (t.ballY - (t.aiY + paddleH/2)) * spin
		t.ballX = aiX - ballSize - 1
	}

	switch {
	case t.ballX < 0:
		t.aiScore++
		t.point(true)
	case t.ballX > width:
		t.playerScore++
		t.point(false)
	}
	t.aiSpeed = aiBase + float64(t.playerScore+t.aiScore)*aiRamp
}

func (t *Task) hits(paddleY float64) bool {
	return t.ballY+ballSize >= paddleY && t.ballY <= paddleY+paddleH
}

// point ends the game at WinScore or serves toward whoever lost the point.
func (t *Task) point(aiScored bool) {
	if t.aiScore >= WinScore || t.playerScore >= WinScore {
		t.playerWon = t.playerScore > t.aiScore
		t.state = stateOver
		return
	}
	t.serve(aiScored)
}

// moveAI steers toward where the ball will cross the paddle line.
func (t *Task) moveAI() {
	target := t.ballY - paddleH/2
	if t.vx > 0 {
		eta := (width - paddleX - paddleW - t.ballX) / t.vx
		target = t.ballY + t.vy*eta - paddleH/2
	}
	switch {
	case t.aiY < target-2:
		t.aiY += t.aiSpeed
	case t.aiY > target+2:
		t.aiY -= t.aiSpeed
	}
	t.aiY = clamp(t.aiY, 0, height-paddleH)
}

func (t *Task) HandleInput(ctx *applet.Context, b hal.Button, pressed bool) {
	t.held[b] = pressed
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
		if b == hal.ButtonD {
			t.playerWon = t.playerScore > t.aiScore
			t.state = stateOver
		}
	}
}

func (t *Task) OnFocusLost(*applet.Context) {}

func (t *Task) Render(ctx *applet.Context) {
	s := ctx.Surface
	s.Clear()
	switch t.state {
	case stateMenu:
		s.TitleBar("Pong")
		s.Centered(s.Normal, 20, "You vs AI")
		s.Centered(s.Normal, 32, fmt.Sprintf("First to %d wins", WinScore))
		s.StatusBar("A:Start", "B:Exit")

	case statePlaying:
		for y := int16(0); y < height; y += 8 {
			s.VLine(width/2, y, 4, true)
		}
		s.Text(s.Small, width/2-14, 1, fmt.Sprint(t.playerScore), true)
		s.Text(s.Small, width/2+10, 1, fmt.Sprint(t.aiScore), true)
		s.Box(paddleX, int16(t.playerY), paddleW, paddleH, true)
		s.Box(width-paddleX-paddleW, int16(t.aiY), paddleW, paddleH, true)
		s.Box(int16(t.ballX), int16(t.ballY), ballSize, ballSize, true)

	case stateOver:
		s.TitleBar("Game Over")
		if t.playerWon {
			s.Centered(s.Normal, 20, "You Win!")
		} else {
			s.Centered(s.Normal, 20, "AI Wins!")
		}
		s.Centered(s.Normal, 32, fmt.Sprintf("%d - %d", t.playerScore, t.aiScore))
		s.StatusBar("A:Again", "B:Exit")
	}
	_ = s.Flush()
}
