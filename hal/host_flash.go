//go:build !tinygo

package hal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/adrg/xdg"
)

const (
	hostFlashDefaultName      = "pocketos/flash.bin"
	hostFlashDefaultSizeBytes = 2 * 1024 * 1024
	hostFlashEraseBlockBytes  = 4096
)

// FlashPathEnv overrides the host flash image location.
const FlashPathEnv = "POCKETOS_FLASH_PATH"

type hostFlash struct {
	mu    sync.Mutex
	f     *os.File
	size  uint32
	blank [hostFlashEraseBlockBytes]byte
}

// DefaultFlashPath resolves the flash image path: the environment override,
// then path, then the XDG data directory.
func DefaultFlashPath(path string) (string, error) {
	if env := os.Getenv(FlashPathEnv); env != "" {
		return env, nil
	}
	if path != "" {
		return path, nil
	}
	p, err := xdg.DataFile(hostFlashDefaultName)
	if err != nil {
		return "", fmt.Errorf("resolve flash path: %w", err)
	}
	return p, nil
}

func newHostFlash(path string) (*hostFlash, error) {
	path, err := DefaultFlashPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open flash image %q: %w", path, err)
	}

	hf := &hostFlash{f: f, size: hostFlashDefaultSizeBytes}
	for i := range hf.blank {
		hf.blank[i] = 0xFF
	}

	st, err := f.Stat()
	switch {
	case err != nil:
		_ = f.Close()
		return nil, fmt.Errorf("stat flash image %q: %w", path, err)
	case st.Size() > int64(^uint32(0)):
		_ = f.Close()
		return nil, fmt.Errorf("flash image %q: %w", path, os.ErrInvalid)
	case st.Size() > 0:
		hf.size = uint32(st.Size())
	default:
		// Fresh image: erased flash reads as 0xFF.
		if err := hf.Erase(0, hf.size); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("format flash image %q: %w", path, err)
		}
	}
	return hf, nil
}

func (f *hostFlash) SizeBytes() uint32 { return f.size }
func (f *hostFlash) EraseBlockBytes() uint32 {
	return hostFlashEraseBlockBytes
}

func (f *hostFlash) ReadAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	p, err := clip(p, off, f.size, "read")
	if err != nil {
		return 0, err
	}
	return f.f.ReadAt(p, int64(off))
}

func (f *hostFlash) WriteAt(p []byte, off uint32) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return 0, ErrNotImplemented
	}
	p, err := clip(p, off, f.size, "write")
	if err != nil {
		return 0, err
	}
	cur := make([]byte, len(p))
	if _, err := f.f.ReadAt(cur, int64(off)); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("flash read before write at %d: %w", off, err)
	}
	if !programmable(cur, p) {
		return 0, ErrFlashWriteRequiresErase
	}
	return f.f.WriteAt(p, int64(off))
}

func (f *hostFlash) Erase(off, size uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return ErrNotImplemented
	}
	if err := checkErase(off, size, hostFlashEraseBlockBytes, f.size); err != nil {
		return err
	}
	for ; size > 0; size -= hostFlashEraseBlockBytes {
		if _, err := f.f.WriteAt(f.blank[:], int64(off)); err != nil {
			return fmt.Errorf("flash erase block at %d: %w", off, err)
		}
		off += hostFlashEraseBlockBytes
	}
	return nil
}

// Close releases the image file. Later calls fail with ErrNotImplemented.
func (f *hostFlash) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.f == nil {
		return nil
	}
	err := f.f.Close()
	f.f = nil
	return err
}
