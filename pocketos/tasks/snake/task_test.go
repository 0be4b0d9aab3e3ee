package snake

import (
	"image/color"
	"testing"
	"time"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
	"pocket/pocketos/prefs"
)

type nullDisplay struct{}

func (nullDisplay) Size() (int16, int16)              { return 128, 64 }
func (nullDisplay) SetPixel(_, _ int16, _ color.RGBA) {}
func (nullDisplay) Display() error                    { return nil }

func newContext(t *testing.T) *applet.Context {
	t.Helper()
	store, err := prefs.Load(hal.NewMemFlash(64*1024, 4096), 0, 8192, nil)
	if err != nil {
		t.Fatal(err)
	}
	return &applet.Context{
		Now:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Surface: gfx.New(nullDisplay{}),
		Prefs:   store,
	}
}

func press(ctx *applet.Context, task *Task, b hal.Button) {
	task.HandleInput(ctx, b, true)
	task.HandleInput(ctx, b, false)
}

func TestStartAndStep(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	if task.state != statePlaying || len(task.snake) != 3 {
		t.Fatalf("state=%d len=%d", task.state, len(task.snake))
	}
	task.food = point{0, 0}
	head := task.snake[0]

	ctx.Now = ctx.Now.Add(stepBase - time.Millisecond)
	task.Update(ctx)
	if task.snake[0] != head {
		t.Fatal("stepped before the interval elapsed")
	}
	ctx.Now = ctx.Now.Add(time.Millisecond)
	task.Update(ctx)
	if got := task.snake[0]; got != (point{head.x + 1, head.y}) {
		t.Fatalf("head = %v", got)
	}
	task.Render(ctx)
}

func TestNoReverse(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	press(ctx, task, hal.ButtonLeft)
	if task.nextDir != dirRight {
		t.Fatalf("reversed into itself: %d", task.nextDir)
	}
	press(ctx, task, hal.ButtonUp)
	if task.nextDir != dirUp {
		t.Fatalf("nextDir = %d", task.nextDir)
	}
}

func TestEatGrowsAndSpeedsUp(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	head := task.snake[0]
	task.food = point{head.x + 1, head.y}

	if !task.step() {
		t.Fatal("died eating")
	}
	if task.score != 1 || len(task.snake) != 4 || task.interval != stepBase-stepRamp {
		t.Fatalf("score=%d len=%d interval=%v", task.score, len(task.snake), task.interval)
	}
	if task.occupied(task.food) {
		t.Fatal("food spawned on the snake")
	}
}

func TestWallEndsGameAndSavesHigh(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	task.score = 5
	task.food = point{0, 0}
	for i := 0; i < gridW && task.state == statePlaying; i++ {
		ctx.Now = ctx.Now.Add(stepBase)
		task.Update(ctx)
	}
	if task.state != stateOver || !task.newHigh {
		t.Fatalf("state=%d newHigh=%v", task.state, task.newHigh)
	}

	again := New()
	again.Init(ctx)
	if again.high != 5 {
		t.Fatalf("persisted high = %d", again.high)
	}
	task.Render(ctx)
}

func TestExitFromMenu(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonB)
	if !task.Flags().WantsExit() {
		t.Fatal("B on the menu should exit")
	}
}

func TestDEndsRound(t *testing.T) {
	ctx := newContext(t)
	task := New()
	task.Init(ctx)
	press(ctx, task, hal.ButtonA)
	press(ctx, task, hal.ButtonD)
	if task.state != stateOver || task.Flags().WantsExit() {
		t.Fatalf("state=%d exit=%v", task.state, task.Flags().WantsExit())
	}
}
