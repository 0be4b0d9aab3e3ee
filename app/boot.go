package app

import (
	"pocket/internal/buildinfo"
	"pocket/pocketos/gfx"
)

// bootScreen shows the splash while flash is read. The first tick replaces it.
func bootScreen(s *gfx.Surface, msg string) {
	s.Clear()
	_, h := s.Size()
	s.Centered(s.Large, h/2-s.Large.Height, "PocketOS")
	s.Centered(s.Small, h/2+2, buildinfo.Short())
	if msg != "" {
		s.Centered(s.Small, h-s.Small.Height-1, msg)
	}
	_ = s.Flush()
}
