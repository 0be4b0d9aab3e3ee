package applet

// TextResult is the outcome of a text-entry request.
type TextResult uint8

const (
	TextNone TextResult = iota
	TextConfirmed
	TextCancelled
)

func (r TextResult) String() string {
	switch r {
	case TextConfirmed:
		return "confirmed"
	case TextCancelled:
		return "cancelled"
	default:
		return "none"
	}
}

// TextRequest asks the overlay for a line of text. Buffer is owned by the
// requester; the overlay writes it only on confirmation.
type TextRequest struct {
	Prompt string
	Buffer *string
	MaxLen int
}

type textState uint8

const (
	textIdle textState = iota
	textWanted
	textOpen
	textDone
)

// Flags carry an app's requests to the focus machine.
type Flags struct {
	exit bool

	text   TextRequest
	state  textState
	result TextResult
}

// RequestExit asks to leave the app. The focus machine clears it.
func (f *Flags) RequestExit()    { f.exit = true }
func (f *Flags) WantsExit() bool { return f.exit }
func (f *Flags) ClearExit()      { f.exit = false }

// RequestText asks for the text-entry overlay. buf supplies the initial text
// and receives the confirmed text. It reports false, and changes nothing,
// while another request is in flight or its outcome has not been read with
// TextResult yet.
func (f *Flags) RequestText(prompt string, buf *string, maxLen int) bool {
	if buf == nil || f.state != textIdle {
		return false
	}
	f.text = TextRequest{Prompt: prompt, Buffer: buf, MaxLen: maxLen}
	f.state = textWanted
	f.result = TextNone
	return true
}

// WantsTextEntry reports a request not yet picked up by the overlay.
func (f *Flags) WantsTextEntry() bool { return f.state == textWanted }

// TextPending reports a request waiting for the overlay or being edited.
func (f *Flags) TextPending() bool { return f.state == textWanted || f.state == textOpen }

// TakeTextRequest marks the request as open and returns it.
func (f *Flags) TakeTextRequest() TextRequest {
	f.state = textOpen
	return f.text
}

// DropTextRequest discards a request that must not be serviced.
func (f *Flags) DropTextRequest() {
	f.state = textIdle
	f.text = TextRequest{}
}

// CompleteText records the overlay's outcome.
func (f *Flags) CompleteText(r TextResult) {
	f.state = textDone
	f.result = r
	f.text = TextRequest{}
}

// TextResult returns the outcome of the last request once, then resets.
// It reports TextNone while a request is still open.
func (f *Flags) TextResult() TextResult {
	if f.state != textDone {
		return TextNone
	}
	r := f.result
	f.state = textIdle
	f.result = TextNone
	return r
}

// Reset clears every pending request.
func (f *Flags) Reset() {
	*f = Flags{}
}
