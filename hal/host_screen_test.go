//go:build !tinygo

package hal

import (
	"image/color"
	"testing"
)

func TestHostScreenPublishesOnDisplay(t *testing.T) {
	s := newHostScreen(ScreenWidth, ScreenHeight)
	s.SetPixel(3, 9, color.RGBA{R: 0xFF, A: 0xFF})
	if s.litAt(3, 9) {
		t.Fatal("pixel visible before Display")
	}
	if err := s.Display(); err != nil {
		t.Fatal(err)
	}
	if !s.litAt(3, 9) || s.litAt(3, 8) || s.litAt(4, 9) {
		t.Fatal("wrong pixels lit after Display")
	}

	s.SetPixel(3, 9, color.RGBA{A: 0xFF})
	s.SetPixel(-1, 200, color.RGBA{R: 0xFF})
	_ = s.Display()
	if s.litAt(3, 9) {
		t.Fatal("black did not clear the pixel")
	}
	if s.Frames() != 2 {
		t.Fatalf("Frames = %d", s.Frames())
	}
}

func TestSnapshotHonorsPower(t *testing.T) {
	s := newHostScreen(8, 8)
	s.SetPixel(0, 0, color.RGBA{G: 1})
	_ = s.Display()
	dst := make([]byte, 8*8*4)

	s.snapshotRGBA(dst)
	if dst[0] == 0 || dst[4] != 0 || dst[3] != 0xFF {
		t.Fatalf("snapshot = %v", dst[:8])
	}

	s.SetPower(false)
	s.snapshotRGBA(dst)
	if dst[0] != 0 || dst[1] != 0 || dst[2] != 0 {
		t.Fatalf("powered-off snapshot = %v", dst[:4])
	}
}

func TestLit(t *testing.T) {
	if Lit(color.RGBA{A: 0xFF}) || !Lit(color.RGBA{B: 1}) {
		t.Fatal("Lit")
	}
}
