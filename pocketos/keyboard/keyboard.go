// Package keyboard is the on-screen text-entry overlay.
//
// While open it owns input and rendering. The caller's buffer is never
// touched here: the focus machine copies Text into it on confirmation.
package keyboard

import (
	"time"
	"unicode/utf8"

	"pocket/hal"
	"pocket/pocketos/applet"
	"pocket/pocketos/gfx"
)

// MaxInput caps the edited text regardless of the requested length.
const MaxInput = 63

var (
	letterRows = [...]string{
		"1234567890",
		"qwertyuiop",
		"asdfghjkl",
		"zxcvbnm._",
	}
	symbolRows = [...]string{
		"!@#$%^&*()",
		"~`[]{}|\\;:",
		"'\",<>/?+=",
		"-_.*@#$%&",
	}
)

const numRows = len(letterRows)

// Action column entries, one per row.
const (
	actionCaps = iota
	actionSpace
	actionOK
	actionDelete
)

var actionLabels = [numRows]string{"CAP", "SPC", "OK", "DEL"}

const blinkPeriod = 500 * time.Millisecond

// Overlay is the modal keyboard. The zero value is closed.
type Overlay struct {
	active bool
	prompt string
	text   []byte
	limit  int

	col, row int
	inAction bool
	caps     bool
	symbols  bool

	result applet.TextResult

	cursorOn  bool
	blinkNext time.Time
}

// New returns a closed overlay.
func New() *Overlay {
	return &Overlay{text: make([]byte, 0, MaxInput)}
}

// Open shows the overlay with initial text. maxLen counts like a C buffer:
// at most maxLen-1 characters are accepted.
func (o *Overlay) Open(prompt, initial string, maxLen int) {
	o.limit = maxLen - 1
	if o.limit > MaxInput || maxLen <= 0 {
		o.limit = MaxInput
	}
	if len(initial) > o.limit {
		n := o.limit
		for n > 0 && !utf8.RuneStart(initial[n]) {
			n--
		}
		initial = initial[:n]
	}

	o.active = true
	o.prompt = prompt
	o.text = append(o.text[:0], initial...)
	o.col, o.row = 0, 1
	o.inAction = false
	o.caps = false
	o.symbols = false
	o.result = applet.TextNone
	o.cursorOn = true
	o.blinkNext = time.Time{}
}

func (o *Overlay) Active() bool { return o.active }

// Text is the current edit text.
func (o *Overlay) Text() string { return string(o.text) }

// Result reports how the overlay was closed; TextNone while open.
func (o *Overlay) Result() applet.TextResult { return o.result }

// Close dismisses the overlay as cancelled.
func (o *Overlay) Close() {
	if o.active {
		o.finish(applet.TextCancelled)
	}
}

func (o *Overlay) finish(r applet.TextResult) {
	o.active = false
	o.result = r
}

func (o *Overlay) rowLen(row int) int { return len(letterRows[row]) }

func (o *Overlay) char(col, row int) byte {
	if row < 0 || row >= numRows || col < 0 || col >= o.rowLen(row) {
		return ' '
	}
	if o.symbols {
		return symbolRows[row][col]
	}
	c := letterRows[row][col]
	if o.caps && c >= 'a' && c <= 'z' {
		c = c - 'a' + 'A'
	}
	return c
}

func (o *Overlay) typeChar(c byte) {
	if len(o.text) < o.limit {
		o.text = append(o.text, c)
	}
}

func (o *Overlay) backspace() {
	if len(o.text) > 0 {
		_, n := utf8.DecodeLastRune(o.text)
		o.text = o.text[:len(o.text)-n]
	}
}

// HandleInput acts on presses; releases are ignored.
func (o *Overlay) HandleInput(b hal.Button, pressed bool) {
	if !o.active || !pressed {
		return
	}

	switch b {
	case hal.ButtonUp:
		o.row = (o.row - 1 + numRows) % numRows
		o.clampCol()
	case hal.ButtonDown:
		o.row = (o.row + 1) % numRows
		o.clampCol()
	case hal.ButtonLeft:
		if o.inAction {
			o.inAction = false
			o.col = o.rowLen(o.row) - 1
		} else if o.col > 0 {
			o.col--
		}
	case hal.ButtonRight:
		if o.inAction {
			o.inAction = false
			o.col = 0
		} else if o.col < o.rowLen(o.row)-1 {
			o.col++
		} else {
			o.inAction = true
		}
	case hal.ButtonA:
		if !o.inAction {
			o.typeChar(o.char(o.col, o.row))
			break
		}
		switch o.row {
		case actionCaps:
			switch {
			case o.symbols:
				o.symbols = false
			case o.caps:
				o.caps = false
				o.symbols = true
			default:
				o.caps = true
			}
		case actionSpace:
			o.typeChar(' ')
		case actionOK:
			o.finish(applet.TextConfirmed)
		case actionDelete:
			o.backspace()
		}
	case hal.ButtonB:
		o.backspace()
	case hal.ButtonC:
		o.symbols = !o.symbols
		if o.symbols {
			o.caps = false
		}
	case hal.ButtonD:
		o.finish(applet.TextCancelled)
	}
}

func (o *Overlay) clampCol() {
	if !o.inAction && o.col >= o.rowLen(o.row) {
		o.col = o.rowLen(o.row) - 1
	}
}

// Update blinks the text cursor.
func (o *Overlay) Update(now time.Time) {
	if !o.active {
		return
	}
	if o.blinkNext.IsZero() {
		o.blinkNext = now.Add(blinkPeriod)
		return
	}
	if !now.Before(o.blinkNext) {
		o.cursorOn = !o.cursorOn
		o.blinkNext = now.Add(blinkPeriod)
	}
}

func (o *Overlay) capsLabel() string {
	switch {
	case o.symbols:
		return "ABC"
	case o.caps:
		return "abc"
	default:
		return actionLabels[actionCaps]
	}
}

// Render draws the whole overlay screen.
func (o *Overlay) Render(s *gfx.Surface) {
	if !o.active {
		return
	}
	s.Clear()
	small := s.Small
	_, h := s.Size()

	s.Text(small, 2, 0, o.prompt, true)

	const boxY, boxH = 7, 11
	s.Frame(0, boxY, 100, boxH, true)
	shown := string(o.text)
	if o.cursorOn {
		shown += "_"
	}
	// Keep the tail of long input visible.
	for len(shown) > 0 && s.TextWidth(small, shown) > 96 {
		_, n := utf8.DecodeRuneInString(shown)
		shown = shown[n:]
	}
	s.Text(small, 2, boxY+(boxH-small.Height)/2+1, shown, true)

	const startY, rowH, cellW, charX, actionX, actionW = 20, 8, 10, 4, 106, 20
	for row := 0; row < numRows; row++ {
		y := int16(startY + row*rowH)
		for col := 0; col < o.rowLen(row); col++ {
			x := int16(charX + col*cellW)
			str := string(o.char(col, row))
			sel := !o.inAction && row == o.row && col == o.col
			if sel {
				s.Box(x-1, y-1, 9, rowH, true)
			}
			s.Text(small, x+1, y, str, !sel)
		}

		sel := o.inAction && row == o.row
		label := actionLabels[row]
		if row == actionCaps {
			label = o.capsLabel()
		}
		if sel {
			s.Box(actionX-1, y-1, actionW, rowH, true)
		}
		s.Text(small, actionX, y, label, !sel)
	}
	s.VLine(102, startY-1, int16(numRows*rowH), true)

	s.Text(small, 2, h-small.Height, "A:sel B:back C:mode D:exit", true)
	_ = s.Flush()
}
