//go:build !tinygo && cgo

package hal

import (
	"pocket/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	Host  HostOptions
	Scale int
	// TPS is the tick rate; each tick calls the step function once.
	TPS int
}

// RunWindow starts a desktop window that displays the screen and forwards keyboard input.
// It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 4
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 100
	}

	h := NewHost(cfg.Host).(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("PocketOS (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.screen.width*cfg.Scale, h.screen.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h     *hostHAL
	pix   []byte
	fbImg *ebiten.Image
	step  func() error
}

func (g *hostGame) Update() error {
	g.h.btns.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	s := g.h.screen
	if g.fbImg == nil {
		g.pix = make([]byte, s.width*s.height*4)
		g.fbImg = ebiten.NewImage(s.width, s.height)
	}

	s.snapshotRGBA(g.pix)
	g.fbImg.WritePixels(g.pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.screen.width, g.h.screen.height
}
