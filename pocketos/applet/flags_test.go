package applet

import "testing"

func TestExitFlag(t *testing.T) {
	var f Flags
	f.RequestExit()
	if !f.WantsExit() {
		t.Fatal("WantsExit = false")
	}
	f.ClearExit()
	if f.WantsExit() {
		t.Fatal("ClearExit did not clear")
	}
}

func TestTextRequestLifecycle(t *testing.T) {
	var f Flags
	buf := "Kollam"

	f.RequestText("City:", &buf, 32)
	if !f.WantsTextEntry() || !f.TextPending() {
		t.Fatal("request not pending")
	}
	req := f.TakeTextRequest()
	if req.Prompt != "City:" || req.Buffer != &buf || req.MaxLen != 32 {
		t.Fatalf("TakeTextRequest = %+v", req)
	}
	if f.WantsTextEntry() || !f.TextPending() {
		t.Fatal("taken request must stay pending but not wanted")
	}
	if f.TextResult() != TextNone {
		t.Fatal("result before completion")
	}

	// A second request while one is open is ignored.
	other := ""
	f.RequestText("Other:", &other, 8)
	if f.WantsTextEntry() {
		t.Fatal("nested request accepted")
	}

	f.CompleteText(TextConfirmed)
	if got := f.TextResult(); got != TextConfirmed {
		t.Fatalf("TextResult = %v", got)
	}
	if got := f.TextResult(); got != TextNone {
		t.Fatalf("second TextResult = %v, want none", got)
	}
}

func TestUnreadResultBlocksNewRequest(t *testing.T) {
	var f Flags
	city, key := "Kollam", ""
	if !f.RequestText("City:", &city, 32) {
		t.Fatal("first request refused")
	}
	f.TakeTextRequest()
	f.CompleteText(TextConfirmed)

	if f.RequestText("Key:", &key, 16) {
		t.Fatal("request accepted over an unread result")
	}
	if f.WantsTextEntry() {
		t.Fatal("refused request left pending")
	}
	if got := f.TextResult(); got != TextConfirmed {
		t.Fatalf("TextResult = %v, want confirmed", got)
	}
	if !f.RequestText("Key:", &key, 16) {
		t.Fatal("request refused after the result was read")
	}
}

func TestRequestTextNeedsBuffer(t *testing.T) {
	var f Flags
	f.RequestText("x", nil, 4)
	if f.WantsTextEntry() {
		t.Fatal("request without buffer accepted")
	}
}

func TestBaseIdentity(t *testing.T) {
	b := &Base{AppName: "Weather"}
	if b.Name() != "Weather" || b.Icon() != nil {
		t.Fatal("identity mismatch")
	}
	b.Exit()
	if !b.Flags().WantsExit() {
		t.Fatal("Exit did not set the flag")
	}
}
