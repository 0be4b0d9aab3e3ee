package hal

import (
	"errors"
	"testing"
)

func TestMemFlashNORSemantics(t *testing.T) {
	f := NewMemFlash(8192, 4096)

	if _, err := f.WriteAt([]byte{0x0F}, 10); err != nil {
		t.Fatalf("WriteAt erased: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); !errors.Is(err, ErrFlashWriteRequiresErase) {
		t.Fatalf("WriteAt over programmed bits: got %v, want ErrFlashWriteRequiresErase", err)
	}
	if err := f.Erase(0, 4096); err != nil {
		t.Fatalf("Erase: %v", err)
	}
	if _, err := f.WriteAt([]byte{0xF0}, 10); err != nil {
		t.Fatalf("WriteAt after erase: %v", err)
	}

	var b [1]byte
	if _, err := f.ReadAt(b[:], 10); err != nil {
		t.Fatalf("ReadAt: %v", err)
	}
	if b[0] != 0xF0 {
		t.Fatalf("read back %#x, want 0xf0", b[0])
	}
}

func TestMemFlashEraseAlignment(t *testing.T) {
	f := NewMemFlash(8192, 4096)
	if err := f.Erase(100, 4096); err == nil {
		t.Fatal("expected unaligned erase to fail")
	}
	if err := f.Erase(4096, 8192); err == nil {
		t.Fatal("expected out of range erase to fail")
	}
}

func TestButtonString(t *testing.T) {
	for b := Button(0); b < NumButtons; b++ {
		got, ok := ParseButton(b.String())
		if !ok || got != b {
			t.Fatalf("round trip %v: got %v, %v", b, got, ok)
		}
	}
	if !ButtonDown.Directional() || ButtonA.Directional() {
		t.Fatal("Directional misclassified")
	}
}
