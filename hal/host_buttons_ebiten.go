//go:build !tinygo && cgo

package hal

import "github.com/hajimehoshi/ebiten/v2"

// hostKeymap maps desktop keys onto the logical buttons. Any listed key holds the button.
var hostKeymap = [NumButtons][]ebiten.Key{
	ButtonLeft:  {ebiten.KeyArrowLeft},
	ButtonRight: {ebiten.KeyArrowRight},
	ButtonUp:    {ebiten.KeyArrowUp},
	ButtonDown:  {ebiten.KeyArrowDown},
	ButtonA:     {ebiten.KeyZ, ebiten.KeyEnter},
	ButtonB:     {ebiten.KeyX, ebiten.KeyBackspace},
	ButtonC:     {ebiten.KeyC},
	ButtonD:     {ebiten.KeyV, ebiten.KeyEscape},
}

// poll samples the keyboard once per frame. Debouncing is left to the OS input layer.
func (b *hostButtons) poll() {
	for i, keys := range hostKeymap {
		down := false
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				down = true
				break
			}
		}
		b.set(Button(i), down)
	}
}
