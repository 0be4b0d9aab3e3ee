package app

import (
	"fmt"
	"log/slog"
	"strings"

	"pocket/hal"
	"pocket/pocketos/gfx"
	"pocket/pocketos/kernel"
)

func installPanicHandler(h hal.HAL, log *slog.Logger) {
	kernel.SetPanicHandler(func(info kernel.PanicInfo) {
		where := info.Layer
		if info.App != "" {
			where = info.App
		}
		if l := h.Logger(); l != nil {
			l.WriteLineString(fmt.Sprintf("PocketOS panic: %s: %v", where, info.Value))
			for _, line := range stackLines(info.Stack) {
				l.WriteLineString(line)
			}
		} else {
			log.Error("panic", "where", where, "panic", info.Value)
		}

		scr := h.Screen()
		if scr == nil {
			return
		}
		scr.SetPower(true)
		drawCrash(gfx.New(scr), where, info)
	})
}

// drawCrash fills the screen with the panic value and as much of the stack
// as fits.
func drawCrash(s *gfx.Surface, where string, info kernel.PanicInfo) {
	s.Clear()
	s.TitleBar("Crashed: " + where)

	w, h := s.Size()
	face := s.Small
	y := s.TitleBarHeight() + 1

	lines := s.Wrap(face, fmt.Sprint(info.Value), w-2)
	for _, line := range stackLines(info.Stack) {
		lines = append(lines, s.Wrap(face, strings.TrimSpace(line), w-2)...)
	}
	for _, line := range lines {
		if y+face.Height > h {
			break
		}
		s.Text(face, 1, y, line, true)
		y += face.Height
	}
	_ = s.Flush()
}

func stackLines(stack []byte) []string {
	var out []string
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}
