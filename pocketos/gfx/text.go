package gfx

import (
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// Face is a font plus the line metrics derived from its glyphs.
type Face struct {
	Font tinyfont.Fonter
	// Ascent is the baseline offset from the top of the line.
	Ascent int16
	// Height is the line pitch.
	Height int16
}

var (
	SmallFace  = NewFace(&tinyfont.TomThumb)
	NormalFace = NewFace(&proggy.TinySZ8pt7b)
	LargeFace  = NewFace(&freemono.Bold12pt7b)
)

// NewFace measures the printable ASCII glyphs of f.
func NewFace(f tinyfont.Fonter) *Face {
	minY, maxY := 0, 0
	first := true
	for r := rune(0x21); r < 0x7F; r++ {
		info := f.GetGlyph(r).Info()
		if info.Height == 0 {
			continue
		}
		top := int(info.YOffset)
		bottom := top + int(info.Height)
		if first {
			minY, maxY = top, bottom
			first = false
			continue
		}
		if top < minY {
			minY = top
		}
		if bottom > maxY {
			maxY = bottom
		}
	}

	face := &Face{Font: f, Ascent: int16(-minY), Height: int16(maxY - minY + 1)}
	if first || face.Ascent <= 0 {
		adv := int16(f.GetYAdvance())
		face.Ascent = adv * 3 / 4
		face.Height = adv
	}
	return face
}

// TextWidth is the advance width of str in face.
func (s *Surface) TextWidth(face *Face, str string) int16 {
	_, outbox := tinyfont.LineWidth(face.Font, str)
	return int16(outbox)
}

// Text draws str with its line top at y.
func (s *Surface) Text(face *Face, x, y int16, str string, on bool) {
	tinyfont.WriteLine(s.d, face.Font, x, y+face.Ascent, str, ink(on))
}

// Centered draws str horizontally centered with its line top at y.
func (s *Surface) Centered(face *Face, y int16, str string) {
	x := (s.w - s.TextWidth(face, str)) / 2
	if x < 0 {
		x = 0
	}
	s.Text(face, x, y, str, true)
}

// Wrap breaks str into lines no wider than maxW, splitting on spaces and
// falling back to hard breaks for words that do not fit on their own.
func (s *Surface) Wrap(face *Face, str string, maxW int16) []string {
	var lines []string
	for _, para := range strings.Split(str, "\n") {
		line := ""
		for _, word := range strings.Fields(para) {
			cand := word
			if line != "" {
				cand = line + " " + word
			}
			if s.TextWidth(face, cand) <= maxW {
				line = cand
				continue
			}
			if line != "" {
				lines = append(lines, line)
			}
			for s.TextWidth(face, word) > maxW && len(word) > 1 {
				n := len(word) - 1
				for n > 1 && s.TextWidth(face, word[:n]) > maxW {
					n--
				}
				lines = append(lines, word[:n])
				word = word[n:]
			}
			line = word
		}
		lines = append(lines, line)
	}
	return lines
}

// TextWrapped draws str wrapped into maxW starting at y and returns the y
// below the last line drawn. Lines past the bottom of the screen are dropped.
func (s *Surface) TextWrapped(face *Face, x, y, maxW int16, str string) int16 {
	for _, line := range s.Wrap(face, str, maxW) {
		if y+face.Height > s.h {
			break
		}
		s.Text(face, x, y, line, true)
		y += face.Height
	}
	return y
}

// Truncate shortens str to at most n bytes without splitting a rune.
func Truncate(str string, n int) string {
	if n < 0 {
		n = 0
	}
	if len(str) <= n {
		return str
	}
	for n > 0 && !utf8.RuneStart(str[n]) {
		n--
	}
	return str[:n]
}
