package ota

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"

	"pocket/hal"
)

// Staging region layout, starting at StagingOffset:
//
//	"POTA" | length uint32 LE | crc32 (IEEE) uint32 LE | reserved uint32 | image bytes
//
// The header is written last, so a partial upload never looks complete.
const (
	StagingOffset = 64 * 1024
	headerSize    = 16
)

var stagingMagic = [4]byte{'P', 'O', 'T', 'A'}

var (
	ErrNoSpace = errors.New("ota: image larger than staging region")
	ErrEmpty   = errors.New("ota: empty image")
)

// Stager streams an image into the staging region, erasing blocks ahead of
// the write position.
type Stager struct {
	f      hal.Flash
	base   uint32
	limit  uint32
	n      uint32
	erased uint32
	sum    hash.Hash32
}

// NewStager prepares the staging region of f.
func NewStager(f hal.Flash) (*Stager, error) {
	if f == nil || f.SizeBytes() <= StagingOffset+headerSize {
		return nil, ErrNoSpace
	}
	return &Stager{
		f:      f,
		base:   StagingOffset,
		limit:  f.SizeBytes() - StagingOffset - headerSize,
		erased: StagingOffset,
		sum:    crc32.NewIEEE(),
	}, nil
}

// Capacity is the largest image the region holds.
func (s *Stager) Capacity() uint32 { return s.limit }

// Written is the number of image bytes staged so far.
func (s *Stager) Written() uint32 { return s.n }

func (s *Stager) eraseTo(end uint32) error {
	blk := s.f.EraseBlockBytes()
	if blk == 0 {
		blk = 1
	}
	for s.erased < end {
		if err := s.f.Erase(s.erased, blk); err != nil {
			return fmt.Errorf("ota: erase at %d: %w", s.erased, err)
		}
		s.erased += blk
	}
	return nil
}

func (s *Stager) Write(p []byte) (int, error) {
	if uint64(s.n)+uint64(len(p)) > uint64(s.limit) {
		return 0, ErrNoSpace
	}
	off := s.base + headerSize + s.n
	end := off + uint32(len(p))
	if err := s.eraseTo(end); err != nil {
		return 0, err
	}
	n, err := s.f.WriteAt(p, off)
	s.n += uint32(n)
	s.sum.Write(p[:n])
	if err != nil {
		return n, fmt.Errorf("ota: write at %d: %w", off, err)
	}
	return n, nil
}

// Commit writes the header that marks the staged image as complete.
func (s *Stager) Commit() error {
	if s.n == 0 {
		return ErrEmpty
	}
	if err := s.eraseTo(s.base + headerSize); err != nil {
		return err
	}
	var hdr [headerSize]byte
	copy(hdr[:4], stagingMagic[:])
	binary.LittleEndian.PutUint32(hdr[4:8], s.n)
	binary.LittleEndian.PutUint32(hdr[8:12], s.sum.Sum32())
	if _, err := s.f.WriteAt(hdr[:], s.base); err != nil {
		return fmt.Errorf("ota: write header: %w", err)
	}
	return nil
}

// Staged reports the size of a complete, checksummed image in the staging
// region of f.
func Staged(f hal.Flash) (uint32, bool) {
	if f == nil || f.SizeBytes() <= StagingOffset+headerSize {
		return 0, false
	}
	var hdr [headerSize]byte
	if _, err := f.ReadAt(hdr[:], StagingOffset); err != nil {
		return 0, false
	}
	if !bytes.Equal(hdr[:4], stagingMagic[:]) {
		return 0, false
	}
	n := binary.LittleEndian.Uint32(hdr[4:8])
	if n == 0 || n > f.SizeBytes()-StagingOffset-headerSize {
		return 0, false
	}
	sum := crc32.NewIEEE()
	buf := make([]byte, 1024)
	for off := uint32(0); off < n; {
		chunk := buf
		if rem := n - off; rem < uint32(len(chunk)) {
			chunk = chunk[:rem]
		}
		if _, err := f.ReadAt(chunk, StagingOffset+headerSize+off); err != nil {
			return 0, false
		}
		sum.Write(chunk)
		off += uint32(len(chunk))
	}
	if sum.Sum32() != binary.LittleEndian.Uint32(hdr[8:12]) {
		return 0, false
	}
	return n, true
}
