// Package prefs is the persistent key-value store for settings that must
// survive a restart.
//
// The whole store is one TOML document, grouped by namespace, kept in a
// reserved flash region behind a small header:
//
//	"PKV1" | length uint32 LE | crc32 (IEEE) uint32 LE | TOML bytes
//
// Sessions are scoped: open a namespace, read or write, close. Writes reach
// flash when the session that made them is closed.
package prefs

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"log/slog"

	"pocket/hal"

	toml "github.com/pelletier/go-toml/v2"
)

// Namespace is the namespace shared by the OS and the built-in apps.
const Namespace = "pocketos"

// MaxValueLen caps stored strings; longer values are truncated.
const MaxValueLen = 64

const headerLen = 12

var magic = [4]byte{'P', 'K', 'V', '1'}

var (
	ErrReadOnly = errors.New("prefs: session is read-only")
	ErrClosed   = errors.New("prefs: session is closed")
	ErrTooLarge = errors.New("prefs: document does not fit the flash region")
)

// Store owns the flash region and the decoded document.
type Store struct {
	flash hal.Flash
	off   uint32
	size  uint32
	log   *slog.Logger

	data map[string]map[string]any
}

// Load reads the store from flash region [off, off+size). A blank or damaged
// region yields an empty store; only flash I/O failures are errors.
func Load(f hal.Flash, off, size uint32, log *slog.Logger) (*Store, error) {
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		flash: f,
		off:   off,
		size:  size,
		log:   log,
		data:  map[string]map[string]any{},
	}
	if f == nil || size < headerLen {
		return s, nil
	}

	var hdr [headerLen]byte
	if _, err := f.ReadAt(hdr[:], off); err != nil {
		return s, fmt.Errorf("prefs: read header: %w", err)
	}
	if !bytes.Equal(hdr[:4], magic[:]) {
		return s, nil
	}
	n := binary.LittleEndian.Uint32(hdr[4:8])
	sum := binary.LittleEndian.Uint32(hdr[8:12])
	if n > size-headerLen {
		log.Warn("prefs: bad record length, starting empty", "len", n)
		return s, nil
	}

	body := make([]byte, n)
	if _, err := f.ReadAt(body, off+headerLen); err != nil {
		return s, fmt.Errorf("prefs: read body: %w", err)
	}
	if crc32.ChecksumIEEE(body) != sum {
		log.Warn("prefs: checksum mismatch, starting empty")
		return s, nil
	}

	doc := map[string]map[string]any{}
	if err := toml.Unmarshal(body, &doc); err != nil {
		log.Warn("prefs: undecodable record, starting empty", "err", err)
		return s, nil
	}
	s.data = doc
	return s, nil
}

// Open starts a session on namespace ns.
func (s *Store) Open(ns string, readOnly bool) *Session {
	return &Session{store: s, ns: ns, readOnly: readOnly}
}

// Export returns a copy of the whole document.
func (s *Store) Export() map[string]map[string]any {
	out := make(map[string]map[string]any, len(s.data))
	for ns, kv := range s.data {
		m := make(map[string]any, len(kv))
		for k, v := range kv {
			m[k] = v
		}
		out[ns] = m
	}
	return out
}

// Import replaces the whole document with doc and writes it to flash.
// Values must be strings, booleans or integers.
func (s *Store) Import(doc map[string]map[string]any) error {
	data := make(map[string]map[string]any, len(doc))
	for ns, kv := range doc {
		m := make(map[string]any, len(kv))
		for k, v := range kv {
			nv, ok := normalize(v)
			if !ok {
				return fmt.Errorf("prefs: %s.%s: unsupported value type %T", ns, k, v)
			}
			m[k] = nv
		}
		data[ns] = m
	}
	s.data = data
	return s.commit()
}

func normalize(v any) (any, bool) {
	switch x := v.(type) {
	case string:
		return truncate(x), true
	case bool:
		return x, true
	case int:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return nil, false
	}
}

func truncate(v string) string {
	if len(v) > MaxValueLen {
		return v[:MaxValueLen]
	}
	return v
}

func (s *Store) commit() error {
	if s.flash == nil {
		return nil
	}
	body, err := toml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("prefs: encode: %w", err)
	}
	total := uint32(headerLen + len(body))
	if total > s.size {
		return ErrTooLarge
	}

	buf := make([]byte, total)
	copy(buf[:4], magic[:])
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(body)))
	binary.LittleEndian.PutUint32(buf[8:12], crc32.ChecksumIEEE(body))
	copy(buf[headerLen:], body)

	eraseLen := total
	if bs := s.flash.EraseBlockBytes(); bs > 0 {
		eraseLen = (total + bs - 1) / bs * bs
	}
	if err := s.flash.Erase(s.off, eraseLen); err != nil {
		return fmt.Errorf("prefs: erase: %w", err)
	}
	if _, err := s.flash.WriteAt(buf, s.off); err != nil {
		return fmt.Errorf("prefs: write: %w", err)
	}
	s.log.Debug("prefs: committed", "bytes", total)
	return nil
}
