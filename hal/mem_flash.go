package hal

import (
	"errors"
	"fmt"
	"sync"
)

var ErrFlashWriteRequiresErase = errors.New("flash write requires erase")

// MemFlash is a RAM-backed Flash with NOR semantics: writes can only clear
// bits, Erase sets whole blocks back to 0xFF.
type MemFlash struct {
	mu    sync.Mutex
	buf   []byte
	block uint32
}

// NewMemFlash returns an erased flash of size bytes.
func NewMemFlash(size, eraseBlock uint32) *MemFlash {
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0xFF
	}
	return &MemFlash{buf: buf, block: eraseBlock}
}

func (f *MemFlash) SizeBytes() uint32       { return uint32(len(f.buf)) }
func (f *MemFlash) EraseBlockBytes() uint32 { return f.block }

func (f *MemFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := clip(p, off, f.SizeBytes(), "read")
	if err != nil {
		return 0, err
	}
	return copy(p, f.buf[off:]), nil
}

func (f *MemFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, err := clip(p, off, f.SizeBytes(), "write")
	if err != nil {
		return 0, err
	}
	if !programmable(f.buf[off:], p) {
		return 0, ErrFlashWriteRequiresErase
	}
	return copy(f.buf[off:], p), nil
}

func (f *MemFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := checkErase(off, size, f.block, f.SizeBytes()); err != nil || size == 0 {
		return err
	}
	for i := off; i < off+size; i++ {
		f.buf[i] = 0xFF
	}
	return nil
}

// clip bounds p to the device and rejects offsets past its end.
func clip(p []byte, off, size uint32, op string) ([]byte, error) {
	if off >= size {
		return nil, fmt.Errorf("flash %s at %d: out of range", op, off)
	}
	if n := size - off; uint32(len(p)) > n {
		p = p[:n]
	}
	return p, nil
}

// programmable reports whether p can be written over cur. NOR cells only
// go from 1 to 0; setting a bit needs an erase.
func programmable(cur, p []byte) bool {
	for i := range p {
		if cur[i]&p[i] != p[i] {
			return false
		}
	}
	return true
}

func checkErase(off, size, block, total uint32) error {
	if size == 0 {
		return nil
	}
	if block == 0 || off%block != 0 || size%block != 0 {
		return fmt.Errorf("flash erase off=%d size=%d: unaligned", off, size)
	}
	if uint64(off)+uint64(size) > uint64(total) {
		return fmt.Errorf("flash erase off=%d size=%d: out of range", off, size)
	}
	return nil
}
